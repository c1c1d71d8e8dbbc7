// Copyright (c) 2026 Madalin Gabriel Ignisca <hi@madalin.me>
// Copyright (c) 2026 Vlah Software House SRL <contact@vlah.sh>
// All rights reserved. See LICENSE for details.

package models

import (
	"strings"
	"time"

	"github.com/google/uuid"
)

// PublicBody is an authority that requests can be made to. It joins
// categories informally: TagString is a space separated list of tags.
type PublicBody struct {
	ID        uuid.UUID `json:"id"`
	Name      string    `json:"name"`
	URLName   string    `json:"url_name"`
	TagString string    `json:"tag_string"`
	CreatedAt time.Time `json:"created_at"`
}

// Tags splits the tag string into individual tags.
func (b *PublicBody) Tags() []string {
	return strings.Fields(b.TagString)
}

// HasTag reports whether the body carries tag.
func (b *PublicBody) HasTag(tag string) bool {
	for _, t := range b.Tags() {
		if t == tag {
			return true
		}
	}
	return false
}

// Path is the public URL path of the body page.
func (b *PublicBody) Path() string {
	return "/body/" + b.URLName
}
