package handlers

import (
	"fmt"
	"strings"
	"unicode/utf8"

	"foidesk/internal/models"
)

// Length limits for category and heading fields.
const (
	maxTagLen         = 255
	maxTitleLen       = 300
	maxDescriptionLen = 10_000
	maxHeadingNameLen = 200
)

// checkLen records a field error when s exceeds max runes.
func checkLen(fields map[string]string, key, label, s string, max int) {
	if utf8.RuneCountInString(s) > max {
		fields[key] = fmt.Sprintf("%s is too long (max %d characters)", label, max)
	}
}

// checkTag rejects tags that could not be matched as a single word of a
// body's tag string.
func checkTag(fields map[string]string, tag string) {
	tag = strings.TrimSpace(tag)
	if strings.ContainsAny(tag, " \t\r\n") {
		fields["category_tag"] = "Tag can't contain spaces"
	}
	checkLen(fields, "category_tag", "Tag", tag, maxTagLen)
}

// validateCategoryInput checks the lengths of create input. Presence rules
// are enforced by the model. The caller attaches the entity to show again.
func validateCategoryInput(in models.CategoryInput) *models.ValidationError {
	fields := make(map[string]string)
	checkTag(fields, in.Tag)
	for l, t := range in.Translations {
		checkLen(fields, "translations."+l+".title", "Title", t.Title, maxTitleLen)
		checkLen(fields, "translations."+l+".description", "Description", t.Description, maxDescriptionLen)
	}
	return fieldErrors(fields, nil)
}

// validateCategoryUpdate checks the lengths of the supplied update fields.
func validateCategoryUpdate(upd models.CategoryUpdate) *models.ValidationError {
	fields := make(map[string]string)
	if upd.Tag != nil {
		checkTag(fields, *upd.Tag)
	}
	for l, p := range upd.Translations {
		if p.Title != nil {
			checkLen(fields, "translations."+l+".title", "Title", *p.Title, maxTitleLen)
		}
		if p.Description != nil {
			checkLen(fields, "translations."+l+".description", "Description", *p.Description, maxDescriptionLen)
		}
	}
	return fieldErrors(fields, nil)
}

// validateHeadingInput checks heading name lengths.
func validateHeadingInput(in models.HeadingInput) *models.ValidationError {
	fields := make(map[string]string)
	for l, name := range in.Names {
		checkLen(fields, "names."+l, "Name", name, maxHeadingNameLen)
	}
	return fieldErrors(fields, in)
}

func fieldErrors(fields map[string]string, entity any) *models.ValidationError {
	if len(fields) == 0 {
		return nil
	}
	return &models.ValidationError{Fields: fields, Entity: entity}
}
