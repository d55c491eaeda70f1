package ats

import (
	"strings"

	"github.com/honeycarbs/atsbridge/internal/domain"
)

// StageRule maps a lowercase stage-name substring to a unified status
type StageRule struct {
	Pattern string
	Status  domain.ApplicationStatus
}

// StageTable is evaluated in order; earlier, broader patterns shadow later ones
type StageTable []StageRule

// Match returns the status of the first rule whose pattern occurs in stage
func (t StageTable) Match(stage string) (domain.ApplicationStatus, bool) {
	stage = strings.ToLower(strings.TrimSpace(stage))
	if stage == "" {
		return "", false
	}
	for _, r := range t {
		if strings.Contains(stage, r.Pattern) {
			return r.Status, true
		}
	}
	return "", false
}

// StatusMap maps exact provider values to unified statuses with a fallback
type StatusMap[V ~string] struct {
	Values   map[string]V
	Fallback V
}

// Lookup returns the mapped value or the fallback
func (m StatusMap[V]) Lookup(raw string) V {
	if v, ok := m.Values[raw]; ok {
		return v
	}
	return m.Fallback
}
