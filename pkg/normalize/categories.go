package normalize

import (
	"strings"

	"kitlocal/pkg/models"
)

// categoryAliases maps historical category names (case-insensitive) to their
// current names. Applied wherever a category name is read from a stored kit
// or catalog document; both call sites must resolve an alias identically or
// client records and kit categories disagree on category identity.
var categoryAliases = map[string]string{
	"foundation":    "Base",
	"prep & skin":   "Skin Prep",
	"prep and skin": "Skin Prep",
	"prep/skin":     "Skin Prep",
	"lashes":        "Eyes",
	"body":          "Other",
	"fx":            "Other",
	"sfx":           "Other",
	"extras":        "Other",
	"body/fx":       "Other",
	"body & fx":     "Other",
	"body/fx/extras": "Other",
}

// CanonicalCategoryName translates a historical category name to its current
// form. Current names pass through unchanged, so the mapping is idempotent.
func CanonicalCategoryName(name string) string {
	n := strings.TrimSpace(name)
	if cur, ok := categoryAliases[strings.ToLower(n)]; ok {
		return cur
	}
	return n
}

// KitCategoryNames returns the category names of a kit log document in
// order, canonicalized and de-duplicated. This is the source of the
// catalog's product-picker category list.
func KitCategoryNames(doc models.KitLogDocument) []string {
	seen := map[string]struct{}{}
	out := make([]string, 0, len(doc.Categories))
	for _, c := range doc.Categories {
		n := CanonicalCategoryName(c.Name)
		if n == "" {
			continue
		}
		if _, ok := seen[n]; ok {
			continue
		}
		seen[n] = struct{}{}
		out = append(out, n)
	}
	return out
}
