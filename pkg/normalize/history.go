package normalize

import "kitlocal/pkg/models"

// AnalysisHistory normalizes an arbitrary decoded value into a canonical
// analysis history document. Accepts the current {version, entries} shape
// and the legacy bare-array shape.
func AnalysisHistory(v any) models.AnalysisHistoryDocument {
	doc := models.EmptyAnalysisHistory()

	var raw []any
	switch t := v.(type) {
	case map[string]any:
		if s, ok := asSlice(t["entries"]); ok {
			raw = s
		}
	case []any:
		raw = t
	}
	if raw == nil {
		return doc
	}

	for _, el := range raw {
		m, ok := asMap(el)
		if !ok {
			continue
		}
		doc.Entries = append(doc.Entries, models.AnalysisEntry{
			ID:        id(m, "id"),
			Summary:   str(m, "summary"),
			Undertone: enum(m, "undertone", models.Undertones, models.DefaultUndertone),
			Season:    optionalEnum(m, "season", models.Seasons),
			CreatedAt: millis(m, "createdAt", nowMillis()),
		})
	}
	return doc
}
