// Copyright (c) 2026 Madalin Gabriel Ignisca <hi@madalin.me>
// Copyright (c) 2026 Vlah Software House SRL <contact@vlah.sh>
// All rights reserved. See LICENSE for details.

// Package locale holds the set of configured locales and resolves the
// locale of a request. Locale codes keep the spelling they were configured
// with ("en_GB" stays "en_GB"); golang.org/x/text is only used to validate
// them and to match Accept-Language headers.
package locale

import (
	"context"
	"fmt"
	"strings"

	"golang.org/x/text/language"
)

type ctxKey struct{}

// Provider exposes the default locale and the configured locale set.
// It is immutable after construction and safe for concurrent use.
type Provider struct {
	defaultLocale string
	available     []string
	matcher       language.Matcher
	// order maps matcher indexes back to configured codes; the default
	// locale sits at index 0 so it is the matcher's fallback.
	order []string
}

// New validates the locale codes and builds a Provider. The default
// locale must be part of available.
func New(available []string, defaultLocale string) (*Provider, error) {
	if len(available) == 0 {
		return nil, fmt.Errorf("no locales configured")
	}

	seen := make(map[string]bool, len(available))
	var codes []string
	for _, code := range available {
		if seen[code] {
			continue
		}
		if _, err := Tag(code); err != nil {
			return nil, err
		}
		seen[code] = true
		codes = append(codes, code)
	}
	if !seen[defaultLocale] {
		return nil, fmt.Errorf("default locale %q is not in available locales %v", defaultLocale, codes)
	}

	order := []string{defaultLocale}
	for _, code := range codes {
		if code != defaultLocale {
			order = append(order, code)
		}
	}
	tags := make([]language.Tag, len(order))
	for i, code := range order {
		tags[i], _ = Tag(code)
	}

	return &Provider{
		defaultLocale: defaultLocale,
		available:     codes,
		matcher:       language.NewMatcher(tags),
		order:         order,
	}, nil
}

// Parse splits a space separated locale list such as "es en_GB".
func Parse(list string) []string {
	return strings.Fields(list)
}

// Tag converts a locale code to a BCP 47 tag. Underscore separators are
// accepted.
func Tag(code string) (language.Tag, error) {
	tag, err := language.Parse(strings.ReplaceAll(code, "_", "-"))
	if err != nil {
		return language.Und, fmt.Errorf("invalid locale %q: %w", code, err)
	}
	return tag, nil
}

// Default returns the locale whose translation is always required.
func (p *Provider) Default() string {
	return p.defaultLocale
}

// Available returns the configured locales in configuration order.
func (p *Provider) Available() []string {
	out := make([]string, len(p.available))
	copy(out, p.available)
	return out
}

// IsAvailable reports whether code is a configured locale.
func (p *Provider) IsAvailable(code string) bool {
	for _, l := range p.available {
		if l == code {
			return true
		}
	}
	return false
}

// Match picks the configured locale for a request. An explicitly requested
// configured locale wins; otherwise the Accept-Language header is matched,
// falling back to the default locale.
func (p *Provider) Match(explicit, acceptLanguage string) string {
	if explicit != "" && p.IsAvailable(explicit) {
		return explicit
	}
	_, idx := language.MatchStrings(p.matcher, acceptLanguage)
	if idx < 0 || idx >= len(p.order) {
		return p.defaultLocale
	}
	return p.order[idx]
}

// WithLocale returns a copy of ctx carrying the request locale.
func WithLocale(ctx context.Context, code string) context.Context {
	return context.WithValue(ctx, ctxKey{}, code)
}

// Current returns the request locale stored in ctx, or the default locale.
func (p *Provider) Current(ctx context.Context) string {
	if code, ok := ctx.Value(ctxKey{}).(string); ok && p.IsAvailable(code) {
		return code
	}
	return p.defaultLocale
}
