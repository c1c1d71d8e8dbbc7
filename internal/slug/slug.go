// Copyright (c) 2026 Madalin Gabriel Ignisca <hi@madalin.me>
// Copyright (c) 2026 Vlah Software House SRL <contact@vlah.sh>
// All rights reserved. See LICENSE for details.

// Package slug turns names into URL-friendly identifiers. Accents are
// folded to their base letters so "Consejería" becomes "consejeria".
package slug

import (
	"regexp"
	"strings"
	"unicode"

	"golang.org/x/text/runes"
	"golang.org/x/text/transform"
	"golang.org/x/text/unicode/norm"
)

var (
	// nonAlphanumeric matches anything that isn't a letter, digit, or whitespace.
	nonAlphanumeric = regexp.MustCompile(`[^a-z0-9\s_-]`)
	// separators matches runs of whitespace, hyphens and underscores.
	separators = regexp.MustCompile(`[\s_-]+`)
)

// fold strips combining marks after canonical decomposition.
func fold(s string) string {
	t := transform.Chain(norm.NFD, runes.Remove(runes.In(unicode.Mn)), norm.NFC)
	out, _, err := transform.String(t, s)
	if err != nil {
		return s
	}
	return out
}

// With creates a slug using sep between words.
// Example: With("Hello, World! 2026", "-") → "hello-world-2026"
func With(s, sep string) string {
	result := strings.ToLower(strings.TrimSpace(fold(s)))
	result = nonAlphanumeric.ReplaceAllString(result, "")
	result = separators.ReplaceAllString(result, sep)
	return strings.Trim(result, sep)
}

// Generate creates a hyphenated slug.
func Generate(s string) string {
	return With(s, "-")
}

// URLName creates the underscore form used in body and user URLs, e.g.
// "Department of Transport" → "department_of_transport".
func URLName(s string) string {
	return With(s, "_")
}
