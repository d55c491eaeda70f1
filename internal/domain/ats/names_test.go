package ats

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/honeycarbs/atsbridge/internal/domain"
)

func TestNameSplitting(t *testing.T) {
	tests := []struct {
		full        string
		first, last string
	}{
		{"John Doe", "John", "Doe"},
		{"Mary Ann van der Berg", "Mary", "Ann van der Berg"},
		{"Cher", "Cher", ""},
		{"  spaced   out  ", "spaced", "out"},
		{"", "", ""},
	}

	for _, tt := range tests {
		assert.Equal(t, tt.first, FirstName(tt.full), tt.full)
		assert.Equal(t, tt.last, LastName(tt.full), tt.full)
	}
}

func TestFormatName(t *testing.T) {
	assert.Equal(t, "John Doe", FormatName("John", "Doe"))
	assert.Equal(t, "Cher", FormatName("Cher", ""))
	assert.Equal(t, "Doe", FormatName("", " Doe "))
	assert.Equal(t, UnknownName, FormatName("", ""))
	assert.Equal(t, UnknownName, OrUnknown("  "))
}

func TestStageTable_FirstMatchWins(t *testing.T) {
	table := StageTable{
		{Pattern: "interview", Status: domain.ApplicationScreening},
		{Pattern: "final interview", Status: domain.ApplicationHired},
	}

	st, ok := table.Match("Final Interview")
	assert.True(t, ok)
	assert.Equal(t, domain.ApplicationScreening, st)

	_, ok = table.Match("")
	assert.False(t, ok)
	_, ok = table.Match("sourced")
	assert.False(t, ok)
}

func TestStatusMap(t *testing.T) {
	m := StatusMap[domain.JobStatus]{
		Values:   map[string]domain.JobStatus{"In-progress": domain.JobOpen},
		Fallback: domain.JobDraft,
	}
	assert.Equal(t, domain.JobOpen, m.Lookup("In-progress"))
	assert.Equal(t, domain.JobDraft, m.Lookup("Paused"))
}
