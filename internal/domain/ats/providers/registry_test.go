package providers

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/honeycarbs/atsbridge/internal/config"
	"github.com/honeycarbs/atsbridge/pkg/atserr"
)

func TestDefaultRegistry_Names(t *testing.T) {
	assert.Equal(t, []string{"greenhouse", "workable", "zoho_recruit"}, DefaultRegistry().Names())
}

func TestNewProvider(t *testing.T) {
	tests := []struct {
		name string
		cfg  func() config.Config
	}{
		{
			name: "greenhouse",
			cfg: func() config.Config {
				return config.Config{Provider: "Greenhouse", APIKey: "k"}
			},
		},
		{
			name: "zoho_recruit",
			cfg: func() config.Config {
				c := config.Config{Provider: "ZOHO_RECRUIT"}
				c.Zoho.ClientID, c.Zoho.ClientSecret, c.Zoho.RefreshToken = "id", "secret", "rt"
				return c
			},
		},
		{
			name: "workable",
			cfg: func() config.Config {
				c := config.Config{Provider: "workable", APIKey: "k"}
				c.Workable.Subdomain = "acme"
				return c
			},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			p, err := NewProvider(tt.cfg(), nil)
			require.NoError(t, err)
			assert.Equal(t, tt.name, p.Name())
		})
	}
}

func TestNewProvider_Unknown(t *testing.T) {
	_, err := NewProvider(config.Config{Provider: "lever"}, nil)
	e, ok := atserr.As(err)
	require.True(t, ok)
	assert.Equal(t, atserr.KindValidation, e.Kind)
	assert.Contains(t, e.Message, "greenhouse, workable, zoho_recruit")
}

func TestNewProvider_MissingCredentials(t *testing.T) {
	_, err := NewProvider(config.Config{Provider: "greenhouse"}, nil)
	assert.Error(t, err)
}
