package normalize

import "kitlocal/pkg/models"

// KitLog normalizes an arbitrary decoded value into a canonical kit log
// document. Accepts the current {version, categories} shape and the legacy
// bare-array-of-categories shape; anything else yields the empty document.
func KitLog(v any) models.KitLogDocument {
	doc := models.EmptyKitLog()

	var raw []any
	switch t := v.(type) {
	case map[string]any:
		if s, ok := asSlice(t["categories"]); ok {
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
		cat := normalizeKitCategory(m)
		doc.Categories = append(doc.Categories, cat)
	}
	return doc
}

func normalizeKitCategory(m map[string]any) models.KitCategory {
	created := millis(m, "createdAt", nowMillis())
	cat := models.KitCategory{
		ID:        id(m, "id"),
		Name:      CanonicalCategoryName(str(m, "name")),
		CreatedAt: created,
		Items:     []models.KitItem{},
	}
	if items, ok := asSlice(m["items"]); ok {
		for _, el := range items {
			im, ok := asMap(el)
			if !ok {
				continue
			}
			cat.Items = append(cat.Items, normalizeKitItem(im))
		}
	}
	return cat
}

func normalizeKitItem(m map[string]any) models.KitItem {
	created := millis(m, "createdAt", nowMillis())
	return models.KitItem{
		ID:           id(m, "id"),
		Name:         str(m, "name"),
		Brand:        str(m, "brand"),
		Shade:        str(m, "shade"),
		Undertone:    enum(m, "undertone", models.Undertones, models.DefaultUndertone),
		Form:         str(m, "form"),
		Location:     str(m, "location"),
		Quantity:     intval(m, "quantity", 1),
		Status:       enum(m, "status", models.ItemStatuses, models.DefaultItemStatus),
		PurchaseDate: str(m, "purchaseDate"),
		OpenedDate:   str(m, "openedDate"),
		ExpiryDate:   str(m, "expiryDate"),
		Notes:        str(m, "notes"),
		CreatedAt:    created,
		UpdatedAt:    millis(m, "updatedAt", created),
	}
}
