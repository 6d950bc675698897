// Package mapspec assembles the final map description handed to the
// rendering layer.
package mapspec

import (
	"fmt"
	"math"

	"github.com/paulmach/orb"
	"github.com/paulmach/orb/geojson"
	"github.com/paulmach/orb/planar"

	"github.com/mlanghor/stacmap/internal/stac"
)

const (
	defaultZoom = 10
	minZoom     = 4
	maxZoom     = 14

	dateFormat = "2006-01-02"
)

// Coordinate is a lon/lat pair.
type Coordinate struct {
	Lon float64 `json:"lon"`
	Lat float64 `json:"lat"`
}

// MapSpec is everything a map renderer needs: where to look, which tile
// template to load, and the overlay for the originating feature.
type MapSpec struct {
	Center      Coordinate       `json:"center"`
	Zoom        int              `json:"zoom"`
	TileURL     string           `json:"tileUrl"`
	Attribution string           `json:"attribution"`
	Name        string           `json:"name"`
	SceneID     string           `json:"sceneId"`
	SceneDate   string           `json:"sceneDate"`
	Overlay     *geojson.Feature `json:"overlay"`
}

// Assemble builds a MapSpec for a feature and its selected scene. The map
// centers on the feature (centroid for polygons, the point itself for
// points) with a zoom fitted to the feature's extent. The overlay is a copy
// of the feature with the scene's capture date and links added to its
// properties, so the map popup can show them.
func Assemble(f *geojson.Feature, scene stac.Item, tileURL, assetKey, nameKey string) MapSpec {
	centroid, _ := planar.CentroidArea(f.Geometry)

	return MapSpec{
		Center:      Coordinate{Lon: centroid[0], Lat: centroid[1]},
		Zoom:        zoomFor(f.Geometry),
		TileURL:     tileURL,
		Attribution: "Sentinel-2 L2A via Earth Search",
		Name:        featureName(f, nameKey),
		SceneID:     scene.ID,
		SceneDate:   scene.Properties.Datetime.Format(dateFormat),
		Overlay:     overlayFeature(f, scene, assetKey),
	}
}

// featureName pulls the identifying property out of the feature, falling
// back to the feature ID.
func featureName(f *geojson.Feature, nameKey string) string {
	if v, ok := f.Properties[nameKey]; ok {
		if s, ok := v.(string); ok && s != "" {
			return s
		}
	}
	if f.ID != nil {
		return fmt.Sprint(f.ID)
	}
	return ""
}

// overlayFeature copies the feature and enriches its properties with scene
// metadata for the popup. The input feature is never mutated.
func overlayFeature(f *geojson.Feature, scene stac.Item, assetKey string) *geojson.Feature {
	out := geojson.NewFeature(f.Geometry)
	out.ID = f.ID
	for k, v := range f.Properties {
		out.Properties[k] = v
	}

	out.Properties["Date"] = scene.Properties.Datetime.Format(dateFormat)
	if href := scene.SelfHref(); href != "" {
		out.Properties["STAC Item"] = link(href, scene.ID)
	}
	if asset, ok := scene.Assets[assetKey]; ok && asset.Href != "" {
		out.Properties["Download"] = link(asset.Href, "click here")
	}
	return out
}

func link(href, label string) string {
	return fmt.Sprintf("<a target='_blank' href=%s>%s</a>", href, label)
}

// zoomFor fits a zoom level to the geometry's extent: the level at which
// the wider of the lon/lat spans fills roughly one tile. Points and tiny
// geometries get the default zoom.
func zoomFor(g orb.Geometry) int {
	b := g.Bound()
	span := math.Max(b.Max[0]-b.Min[0], b.Max[1]-b.Min[1])
	if span <= 0 {
		return defaultZoom
	}

	z := int(math.Floor(math.Log2(360 / span)))
	if z < minZoom {
		return minZoom
	}
	if z > maxZoom {
		return maxZoom
	}
	return z
}
