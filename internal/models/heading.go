// Copyright (c) 2026 Madalin Gabriel Ignisca <hi@madalin.me>
// Copyright (c) 2026 Vlah Software House SRL <contact@vlah.sh>
// All rights reserved. See LICENSE for details.

package models

import (
	"strings"
	"time"

	"github.com/google/uuid"
)

// Heading groups categories on the public body listing.
type Heading struct {
	ID           uuid.UUID         `json:"id"`
	DisplayOrder int               `json:"display_order"`
	Names        map[string]string `json:"names"`
	CreatedAt    time.Time         `json:"created_at"`
	UpdatedAt    time.Time         `json:"updated_at"`

	// Categories is populated by listing queries, sorted by display order.
	Categories []Category `json:"categories,omitempty"`
}

// Name returns the heading name in the given locale.
func (h *Heading) Name(locale string) string {
	return h.Names[locale]
}

// HeadingInput carries the fields needed to create a heading.
type HeadingInput struct {
	Names        map[string]string `json:"names"`
	DisplayOrder int               `json:"display_order"`
}

// ValidateHeading requires a name in the default locale.
func ValidateHeading(in HeadingInput, defaultLocale string) *ValidationError {
	if strings.TrimSpace(in.Names[defaultLocale]) == "" {
		return &ValidationError{
			Fields: map[string]string{"name": "Name can't be blank"},
			Entity: in,
		}
	}
	return nil
}
