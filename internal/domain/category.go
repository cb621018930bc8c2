package domain

import (
	"fmt"
	"sort"
	"strings"
)

// Category is a Belegkreis code.
type Category string

const (
	CategoryIncoming Category = "ER"
	CategoryOutgoing Category = "AR"
	CategoryCash     Category = "KA"
	CategoryBank     Category = "SP"

	DefaultCategory = CategoryIncoming
)

var categoryLabels = map[Category]string{
	CategoryIncoming: "Eingangsrechnungen",
	CategoryOutgoing: "Ausgangsrechnungen",
	CategoryCash:     "Kassa",
	CategoryBank:     "Sparkasse",
}

func ParseCategory(raw string) (Category, error) {
	category := Category(strings.ToUpper(strings.TrimSpace(raw)))
	if category == "" {
		return DefaultCategory, nil
	}
	if _, ok := categoryLabels[category]; !ok {
		return "", fmt.Errorf("%w %q (choose from %s)", ErrUnknownCategory, raw, strings.Join(CategoryCodes(), ", "))
	}
	return category, nil
}

func (c Category) Label() string {
	if label, ok := categoryLabels[c]; ok {
		return label
	}
	return string(c)
}

// IsDefault reports whether the portal preselects this category, so no selection step is needed.
func (c Category) IsDefault() bool {
	return c == "" || c == DefaultCategory
}

func CategoryCodes() []string {
	codes := make([]string, 0, len(categoryLabels))
	for code := range categoryLabels {
		codes = append(codes, string(code))
	}
	sort.Strings(codes)
	return codes
}
