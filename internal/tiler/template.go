// Package tiler builds slippy-map tile URL templates for remote COG
// rendering.
//
// The heavy lifting happens in an external dynamic tiler (titiler-style):
// we only hand it the COG URL and rendering parameters, and the map client
// substitutes {z}/{x}/{y} at view time. No tiles are fetched here.
package tiler

import (
	"errors"
	"fmt"
	"net/url"
	"strconv"
	"strings"

	"github.com/mlanghor/stacmap/internal/stac"
)

// ErrMissingAsset indicates the selected scene has no asset under the
// expected role, so there is nothing to tile.
var ErrMissingAsset = errors.New("scene missing imagery asset")

// RenderOptions are forwarded to the tiler as query parameters.
type RenderOptions struct {
	// Rescale is a "min,max" value stretch, e.g. "0,3000" for raw
	// Sentinel-2 bands. Empty for assets that are already 8-bit.
	Rescale string
	// ColormapName selects a named tiler colormap for single-band data.
	ColormapName string
	// BandIndexes picks bands (1-based) via repeated bidx parameters.
	BandIndexes []int
}

// BuildTileTemplate derives a tile URL template from the scene's asset.
// endpoint must already contain the {z}/{x}/{y} placeholders; the asset
// href is URL-encoded into the url query parameter.
func BuildTileTemplate(scene stac.Item, assetKey, endpoint string, opts RenderOptions) (string, error) {
	asset, ok := scene.Assets[assetKey]
	if !ok || asset.Href == "" {
		return "", fmt.Errorf("%w: scene %s has no %q asset", ErrMissingAsset, scene.ID, assetKey)
	}

	params := url.Values{}
	params.Set("url", asset.Href)
	if opts.Rescale != "" {
		params.Set("rescale", opts.Rescale)
	}
	if opts.ColormapName != "" {
		params.Set("colormap_name", opts.ColormapName)
	}
	for _, b := range opts.BandIndexes {
		params.Add("bidx", strconv.Itoa(b))
	}

	sep := "?"
	if strings.Contains(endpoint, "?") {
		sep = "&"
	}
	return endpoint + sep + params.Encode(), nil
}
