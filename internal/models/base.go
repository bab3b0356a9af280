package models

import "github.com/google/uuid"

// NewID returns a fresh opaque identifier.
func NewID() string {
	return uuid.NewString()
}

// StrPtr returns nil for empty strings.
func StrPtr(s string) *string {
	if s == "" {
		return nil
	}
	return &s
}

func StrVal(p *string) string {
	if p == nil {
		return ""
	}
	return *p
}
