package ats

import "strings"

// UnknownName is used when a candidate has neither first nor last name
const UnknownName = "Unknown"

// FirstName returns the first whitespace-separated token of a full name
func FirstName(full string) string {
	parts := strings.Fields(full)
	if len(parts) == 0 {
		return strings.TrimSpace(full)
	}
	return parts[0]
}

// LastName returns everything after the first token, or "" for single-token names
func LastName(full string) string {
	parts := strings.Fields(full)
	if len(parts) < 2 {
		return ""
	}
	return strings.Join(parts[1:], " ")
}

// FormatName joins first and last name, falling back to UnknownName
func FormatName(first, last string) string {
	name := strings.TrimSpace(strings.TrimSpace(first) + " " + strings.TrimSpace(last))
	if name == "" {
		return UnknownName
	}
	return name
}

// OrUnknown returns s or UnknownName when s is blank
func OrUnknown(s string) string {
	if strings.TrimSpace(s) == "" {
		return UnknownName
	}
	return strings.TrimSpace(s)
}
