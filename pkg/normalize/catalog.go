package normalize

import "kitlocal/pkg/models"

// optional enum fields keep "" when unset rather than a substituted default.
func optionalEnum(m map[string]any, key string, allowed []string) string {
	v := str(m, key)
	if v == "" {
		return ""
	}
	for _, a := range allowed {
		if v == a {
			return v
		}
	}
	return ""
}

// Catalog normalizes an arbitrary decoded value into a canonical catalog
// document. Accepts the current {version, clients} shape and the legacy
// bare-array-of-clients shape; anything else yields the empty document.
func Catalog(v any) models.CatalogDocument {
	doc := models.EmptyCatalog()

	var raw []any
	switch t := v.(type) {
	case map[string]any:
		if s, ok := asSlice(t["clients"]); ok {
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
		doc.Clients = append(doc.Clients, normalizeClient(m))
	}
	return doc
}

func normalizeClient(m map[string]any) models.ClientRecord {
	created := millis(m, "createdAt", nowMillis())
	rec := models.ClientRecord{
		ID:              id(m, "id"),
		Name:            str(m, "name"),
		Undertone:       enum(m, "undertone", models.Undertones, models.DefaultUndertone),
		Season:          optionalEnum(m, "season", models.Seasons),
		TrialDate:       str(m, "trialDate"),
		TrialTime:       str(m, "trialTime"),
		EventDate:       str(m, "eventDate"),
		EventTime:       str(m, "eventTime"),
		EventType:       optionalEnum(m, "eventType", models.EventTypes),
		CustomEventType: str(m, "customEventType"),
		Notes:           str(m, "notes"),
		Products:        []models.ClientProduct{},
		CreatedAt:       created,
		UpdatedAt:       millis(m, "updatedAt", created),
	}
	if products, ok := asSlice(m["products"]); ok {
		for _, el := range products {
			pm, ok := asMap(el)
			if !ok {
				continue
			}
			rec.Products = append(rec.Products, models.ClientProduct{
				Category:  CanonicalCategoryName(str(pm, "category")),
				Name:      str(pm, "name"),
				Shade:     str(pm, "shade"),
				KitItemID: str(pm, "kitItemId"),
			})
		}
	}
	return rec
}
