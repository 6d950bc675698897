package stac

import (
	"time"

	"github.com/paulmach/orb"
	"github.com/paulmach/orb/geojson"
)

// SearchQuery describes one item-search request against the catalog.
type SearchQuery struct {
	Collections []string
	Intersects  orb.Geometry
	Start       time.Time
	End         time.Time
	Limit       int

	// MaxCloudCover, when set, is passed to the catalog as an
	// eo:cloud_cover <= filter. The map pipeline leaves it nil so the
	// selector sees the full candidate list and can relax the threshold
	// itself.
	MaxCloudCover *float64
}

// Item is one scene returned by the catalog.
type Item struct {
	ID         string            `json:"id"`
	Geometry   *geojson.Geometry `json:"geometry"`
	Properties ItemProperties    `json:"properties"`
	Assets     map[string]Asset  `json:"assets"`
	Links      []Link            `json:"links"`
}

// ItemProperties carries the item metadata the pipeline cares about.
type ItemProperties struct {
	Datetime   time.Time `json:"datetime"`
	CloudCover *float64  `json:"eo:cloud_cover,omitempty"`
}

// Asset is a downloadable file attached to an item, keyed by role
// (e.g. "visual" for the true-color COG).
type Asset struct {
	Href  string `json:"href"`
	Type  string `json:"type,omitempty"`
	Title string `json:"title,omitempty"`
}

// Link is a STAC hypermedia link.
type Link struct {
	Rel  string `json:"rel"`
	Href string `json:"href"`
}

// SelfHref returns the item's canonical URL, or empty when the catalog did
// not include a self link.
func (it Item) SelfHref() string {
	for _, l := range it.Links {
		if l.Rel == "self" {
			return l.Href
		}
	}
	return ""
}

// itemCollection is the wire shape of a STAC search response.
type itemCollection struct {
	Type     string `json:"type"`
	Features []Item `json:"features"`
}

// searchRequest is the wire shape of a STAC item-search POST body.
type searchRequest struct {
	Collections []string                      `json:"collections,omitempty"`
	Intersects  *geojson.Geometry             `json:"intersects,omitempty"`
	Datetime    string                        `json:"datetime,omitempty"`
	Limit       int                           `json:"limit,omitempty"`
	SortBy      []sortSpec                    `json:"sortby,omitempty"`
	Query       map[string]map[string]float64 `json:"query,omitempty"`
}

type sortSpec struct {
	Field     string `json:"field"`
	Direction string `json:"direction"`
}
