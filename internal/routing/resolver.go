// internal/routing/resolver.go
package routing

import (
	"strings"
	"unicode"

	"golang.org/x/text/runes"
	"golang.org/x/text/transform"
	"golang.org/x/text/unicode/norm"

	"freeflow-backend/internal/models"
)

// categoryKeywords maps canonical category names to dish keywords that imply
// the category when found in an item name. Category names themselves always
// match, so this table only needs the non-obvious aliases.
var categoryKeywords = map[string][]string{
	"pizzeria":  {"pizza", "margherita", "pepperoni", "calzone", "capricciosa"},
	"sushi":     {"sushi", "sashimi", "maki", "nigiri", "tempura", "wasabi"},
	"fast_food": {"burger", "fries", "hot dog", "hotdog", "kebab", "nuggets"},
	"kebab":     {"kebab", "doner", "durum", "shawarma"},
	"cafe":      {"coffee", "kawa", "latte", "espresso", "cappuccino"},
	"bakery":    {"bread", "chleb", "croissant", "bagel", "paczek"},
}

var foldTransformer = transform.Chain(norm.NFD, runes.Remove(runes.In(unicode.Mn)), norm.NFC)

// normalizeName lowercases an item name, strips diacritics and reduces
// punctuation to spaces so keyword matching sees clean tokens.
func normalizeName(name string) string {
	folded, _, err := transform.String(foldTransformer, name)
	if err != nil {
		folded = name
	}

	var b strings.Builder
	b.Grow(len(folded))
	for _, r := range strings.ToLower(folded) {
		switch {
		case unicode.IsLetter(r) || unicode.IsDigit(r):
			b.WriteRune(r)
		default:
			b.WriteRune(' ')
		}
	}
	return strings.Join(strings.Fields(b.String()), " ")
}

// matchesCategory reports whether a normalized item name implies the category,
// either by containing the category name itself or one of its keywords.
func matchesCategory(normalized string, category models.BusinessCategory) bool {
	name := strings.ToLower(strings.TrimSpace(category.Name))
	if name == "" {
		return false
	}

	// Category names use snake_case in the store; compare the spaced form too.
	spaced := strings.ReplaceAll(name, "_", " ")
	if strings.Contains(normalized, spaced) {
		return true
	}

	for _, keyword := range categoryKeywords[name] {
		if strings.Contains(normalized, keyword) {
			return true
		}
	}
	return false
}

// ResolveCategory maps order items to the most likely category ID by lexical
// matching. Items are scanned in order and the first item with any category
// match decides, so single-category orders resolve deterministically. Returns
// "" when nothing matches, which is not an error: it routes the caller into
// the loosest fallback tier.
func ResolveCategory(items []models.OrderItem, categories []models.BusinessCategory) string {
	if len(items) == 0 || len(categories) == 0 {
		return ""
	}

	for _, item := range items {
		normalized := normalizeName(item.Name)
		if normalized == "" {
			continue
		}
		for _, category := range categories {
			if matchesCategory(normalized, category) {
				return category.ID
			}
		}
	}
	return ""
}
