package models

import (
	"errors"
	"fmt"
	"sort"
	"strings"
)

var (
	// ErrNotFound is returned when a category or heading id has no row.
	ErrNotFound = errors.New("not found")

	// ErrTagLocked marks a tag rename refused because bodies use the tag.
	// Updates report it through UpdateResult.TagLocked rather than failing.
	ErrTagLocked = errors.New("category tag is in use")

	// ErrUnknownHeading is returned when heading ids reference no heading.
	ErrUnknownHeading = errors.New("unknown heading")
)

// ValidationError reports missing or invalid fields. Entity holds the
// rejected in-memory state so a form can be shown again with the input.
type ValidationError struct {
	Fields map[string]string `json:"errors"`
	Entity any               `json:"entity"`
}

// Error implements the error interface.
func (e *ValidationError) Error() string {
	keys := make([]string, 0, len(e.Fields))
	for k := range e.Fields {
		keys = append(keys, k)
	}
	sort.Strings(keys)

	parts := make([]string, len(keys))
	for i, k := range keys {
		parts[i] = fmt.Sprintf("%s: %s", k, e.Fields[k])
	}
	return "validation failed: " + strings.Join(parts, "; ")
}
