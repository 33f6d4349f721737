package models

// KitLogVersion is the current schema version of the kit log document.
const KitLogVersion = 1

// Kit item status vocabulary. Stored values outside this set normalize to
// DefaultItemStatus.
const (
	StatusInKit = "inKit"
	StatusLow   = "low"
	StatusEmpty = "empty"

	DefaultItemStatus = StatusInKit
)

// ItemStatuses lists the closed item-status vocabulary.
var ItemStatuses = []string{StatusInKit, StatusLow, StatusEmpty}

type KitLogDocument struct {
	Version    int           `json:"version"`
	Categories []KitCategory `json:"categories"`
}

// KitCategory owns its items exclusively; category and item ids are unique
// within the document.
type KitCategory struct {
	ID        string    `json:"id"`
	Name      string    `json:"name"`
	CreatedAt int64     `json:"createdAt"`
	Items     []KitItem `json:"items"`
}

type KitItem struct {
	ID           string `json:"id"`
	Name         string `json:"name"`
	Brand        string `json:"brand,omitempty"`
	Shade        string `json:"shade,omitempty"`
	Undertone    string `json:"undertone,omitempty"`
	Form         string `json:"form,omitempty"`
	Location     string `json:"location,omitempty"`
	Quantity     int    `json:"quantity"`
	Status       string `json:"status"`
	PurchaseDate string `json:"purchaseDate,omitempty"`
	OpenedDate   string `json:"openedDate,omitempty"`
	ExpiryDate   string `json:"expiryDate,omitempty"`
	Notes        string `json:"notes,omitempty"`
	CreatedAt    int64  `json:"createdAt"`
	UpdatedAt    int64  `json:"updatedAt"`
}

// EmptyKitLog returns a structurally valid default kit log document.
func EmptyKitLog() KitLogDocument {
	return KitLogDocument{Version: KitLogVersion, Categories: []KitCategory{}}
}
