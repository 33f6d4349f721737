package models

// CatalogVersion is the current schema version of the catalog document.
const CatalogVersion = 1

// Undertone vocabulary. Stored values outside this set normalize to
// DefaultUndertone.
const (
	UndertoneCool    = "cool"
	UndertoneNeutral = "neutral"
	UndertoneWarm    = "warm"
	UndertoneOlive   = "olive"

	DefaultUndertone = UndertoneNeutral
)

// Undertones lists the closed undertone vocabulary.
var Undertones = []string{UndertoneCool, UndertoneNeutral, UndertoneWarm, UndertoneOlive}

// Season vocabulary. Season is optional; "" means unset.
const (
	SeasonSpring = "spring"
	SeasonSummer = "summer"
	SeasonAutumn = "autumn"
	SeasonWinter = "winter"
)

// Seasons lists the closed season vocabulary.
var Seasons = []string{SeasonSpring, SeasonSummer, SeasonAutumn, SeasonWinter}

// Event type vocabulary. EventTypeCustom marks a free-form type carried in
// ClientRecord.CustomEventType.
const (
	EventTypeBridal    = "bridal"
	EventTypeEditorial = "editorial"
	EventTypeFilmTV    = "filmTv"
	EventTypeStage     = "stage"
	EventTypeLesson    = "lesson"
	EventTypeCustom    = "custom"
)

// EventTypes lists the closed event-type vocabulary.
var EventTypes = []string{EventTypeBridal, EventTypeEditorial, EventTypeFilmTV, EventTypeStage, EventTypeLesson, EventTypeCustom}

type CatalogDocument struct {
	Version int            `json:"version"`
	Clients []ClientRecord `json:"clients"`
}

type ClientRecord struct {
	ID              string          `json:"id"`
	Name            string          `json:"name"`
	Undertone       string          `json:"undertone"`
	Season          string          `json:"season,omitempty"`
	TrialDate       string          `json:"trialDate,omitempty"`
	TrialTime       string          `json:"trialTime,omitempty"`
	EventDate       string          `json:"eventDate,omitempty"`
	EventTime       string          `json:"eventTime,omitempty"`
	EventType       string          `json:"eventType,omitempty"`
	CustomEventType string          `json:"customEventType,omitempty"`
	Notes           string          `json:"notes,omitempty"`
	Products        []ClientProduct `json:"products"`
	CreatedAt       int64           `json:"createdAt"`
	UpdatedAt       int64           `json:"updatedAt"`
}

// ClientProduct references a product used on a client. KitItemID, when set,
// back-references the kit item it was added from; it must be unique within
// the owning client (enforced at insert time, not at rest).
type ClientProduct struct {
	Category  string `json:"category"`
	Name      string `json:"name"`
	Shade     string `json:"shade,omitempty"`
	KitItemID string `json:"kitItemId,omitempty"`
}

// EmptyCatalog returns a structurally valid default catalog document.
func EmptyCatalog() CatalogDocument {
	return CatalogDocument{Version: CatalogVersion, Clients: []ClientRecord{}}
}
