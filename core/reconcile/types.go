package reconcile

import (
	"strings"
	"time"
)

// Status is a lifecycle status of a CRM listing.
type Status string

const (
	StatusActive           Status = "active"
	StatusUnderOffer       Status = "under offer"
	StatusUnderApplication Status = "under application"
	StatusSold             Status = "sold"
	StatusLet              Status = "let"
	StatusWithdrawn        Status = "withdrawn"
	StatusOffMarket        Status = "off market"
)

// ParseStatus folds the CRM's spelling variants ("Under Offer", "under-offer",
// "under_offer") into one Status value. Unknown values are kept as-is.
func ParseStatus(raw string) Status {
	s := strings.ToLower(strings.TrimSpace(raw))
	s = strings.NewReplacer("-", " ", "_", " ").Replace(s)
	return Status(strings.Join(strings.Fields(s), " "))
}

// Publishable reports whether the status warrants a live published listing.
func (s Status) Publishable() bool {
	switch s {
	case StatusActive, StatusLet, StatusUnderApplication, StatusUnderOffer, StatusSold:
		return true
	default:
		return false
	}
}

// Market is the sale-vs-rent flag of a listing.
type Market string

const (
	MarketSale Market = "sale"
	MarketRent Market = "rent"
)

// ParseMarket normalizes the CRM's sale_or_rent attribute.
func ParseMarket(raw string) Market {
	return Market(strings.ToLower(strings.TrimSpace(raw)))
}

// SubResourceKind selects one of the per-record collections of the Source Directory.
type SubResourceKind string

const (
	KindImages      SubResourceKind = "images"
	KindDocuments   SubResourceKind = "documents"
	KindInspections SubResourceKind = "inspections"
	KindFloorPlans  SubResourceKind = "floorplans"
)

// MediaKind is the top-level content type used when uploading a media object.
type MediaKind string

const (
	MediaImage       MediaKind = "image"
	MediaApplication MediaKind = "application"
)

// SubResource is one entry of a record's image/document/inspection/floor plan list.
type SubResource struct {
	ID         string            `json:"id"`
	URL        string            `json:"url"`
	Attributes map[string]string `json:"attributes,omitempty"`
}

// SourceRecord is a listing as held by the CRM. It is read-only to this system.
type SourceRecord struct {
	ID           string         `json:"id"`
	Address      string         `json:"address"`
	State        string         `json:"state"`
	Postcode     string         `json:"postcode"`
	Headline     string         `json:"headline"`
	Description  string         `json:"description"`
	Status       Status         `json:"status"`
	Market       Market         `json:"market"`
	UpdatedAt    string         `json:"updated_at"`
	PrimaryImage string         `json:"primary_image"`
	AgentIDs     []string       `json:"agent_ids"`
	Attributes   map[string]any `json:"attributes,omitempty"`
}

// Link pairs a CRM sub-resource id with the media id it was uploaded as.
type Link struct {
	SourceID string `json:"source_id"`
	MediaID  int    `json:"media_id"`
}

// Links is an ordered link table.
type Links []Link

// SourceIDs returns the CRM sub-resource ids in table order.
func (l Links) SourceIDs() []string {
	ids := make([]string, len(l))
	for i, link := range l {
		ids[i] = link.SourceID
	}
	return ids
}

// MediaIDs returns the site media ids in table order.
func (l Links) MediaIDs() []int {
	ids := make([]int, len(l))
	for i, link := range l {
		ids[i] = link.MediaID
	}
	return ids
}

// Has reports whether the table contains the given CRM sub-resource id.
func (l Links) Has(sourceID string) bool {
	for _, link := range l {
		if link.SourceID == sourceID {
			return true
		}
	}
	return false
}

// PublishedRecord is a listing post as held by the Publishing Store.
type PublishedRecord struct {
	ID              int      `json:"id"`
	Title           string   `json:"title"`
	Content         string   `json:"content"`
	SourceID        string   `json:"source_id"`
	SourceUpdated   string   `json:"source_updated"`
	FeaturedMediaID int      `json:"featured_media_id"`
	FeaturedSource  string   `json:"featured_source"`
	Images          Links    `json:"images"`
	Documents       Links    `json:"documents"`
	StatusTags      []string `json:"status_tags"`
}

// Linked reports whether the record carries a CRM link.
func (p PublishedRecord) Linked() bool {
	return p.SourceID != ""
}

// Inspection is an open-for-inspection window.
type Inspection struct {
	Start time.Time `json:"start"`
	End   time.Time `json:"end"`
}

// Presentation holds the presentation fields derived from a SourceRecord.
// How they are built is up to the Presenter.
type Presentation struct {
	Title   string
	Content string
	ShowMap bool
	Details map[string]any
}

// Listing is the full attribute set written to the Publishing Store on create or update.
type Listing struct {
	SourceID        string
	SourceUpdated   string
	Presentation    Presentation
	FeaturedMediaID int
	FeaturedSource  string
	StatusTags      []string
	Images          Links
	Documents       Links
	Inspection      *Inspection
	FloorPlans      []SubResource
	ShowFloorPlans  bool
	ShowMap         bool
}

// MediaIDs returns every media id referenced by the listing, featured last.
func (l Listing) MediaIDs() []int {
	ids := append(l.Images.MediaIDs(), l.Documents.MediaIDs()...)
	if l.FeaturedMediaID != 0 {
		ids = append(ids, l.FeaturedMediaID)
	}
	return ids
}

// WriteResult is the Publishing Store's acknowledgement of a create or update.
type WriteResult struct {
	ID   int
	Link string
}

// Agent is one entry of the CRM's agent roster.
type Agent struct {
	ID   string
	Name string
}
