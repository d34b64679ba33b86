package valueobject

import (
	"fmt"
	"strings"
)

// Category is a label from the fixed task category set
type Category string

const (
	CategoryWork     Category = "work"
	CategoryPersonal Category = "personal"
	CategoryStudy    Category = "study"
	CategoryHealth   Category = "health"
	CategoryOther    Category = "other"
)

// AllCategories returns the category set in display order
func AllCategories() []Category {
	return []Category{CategoryWork, CategoryPersonal, CategoryStudy, CategoryHealth, CategoryOther}
}

// ParseCategory converts a string to a Category
func ParseCategory(s string) (Category, error) {
	c := Category(strings.ToLower(strings.TrimSpace(s)))
	if !c.IsValid() {
		return "", fmt.Errorf("invalid category %q: must be one of work, personal, study, health, other", s)
	}
	return c, nil
}

// IsValid reports whether the category belongs to the fixed set
func (c Category) IsValid() bool {
	for _, known := range AllCategories() {
		if c == known {
			return true
		}
	}
	return false
}

// String returns the string representation
func (c Category) String() string {
	return string(c)
}
