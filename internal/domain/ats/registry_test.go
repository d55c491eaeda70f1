package ats

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/honeycarbs/atsbridge/internal/config"
	"github.com/honeycarbs/atsbridge/pkg/atserr"
	"github.com/honeycarbs/atsbridge/pkg/logging"
)

func TestRegistry_Resolve(t *testing.T) {
	r := NewRegistry()
	r.Register("Workable", func(config.Config, *logging.Logger) (Provider, error) {
		return &mockProvider{name: "workable"}, nil
	})
	r.Register("greenhouse", func(config.Config, *logging.Logger) (Provider, error) {
		return &mockProvider{name: "greenhouse"}, nil
	})

	assert.Equal(t, []string{"greenhouse", "workable"}, r.Names())

	p, err := r.Resolve(" WORKABLE ", config.Config{}, nil)
	require.NoError(t, err)
	assert.Equal(t, "workable", p.Name())
}

func TestRegistry_UnknownProvider(t *testing.T) {
	r := NewRegistry()
	r.Register("greenhouse", func(config.Config, *logging.Logger) (Provider, error) {
		return &mockProvider{name: "greenhouse"}, nil
	})

	_, err := r.Resolve("lever", config.Config{}, nil)
	e, ok := atserr.As(err)
	require.True(t, ok)
	assert.Equal(t, atserr.KindValidation, e.Kind)
	assert.Contains(t, e.Message, "lever")
	assert.Contains(t, e.Message, "greenhouse")
}

func TestRegistry_FactoryError(t *testing.T) {
	boom := errors.New("no credentials")
	r := NewRegistry()
	r.Register("zoho_recruit", func(config.Config, *logging.Logger) (Provider, error) {
		return nil, boom
	})

	_, err := r.Resolve("zoho_recruit", config.Config{}, nil)
	assert.ErrorIs(t, err, boom)
}
