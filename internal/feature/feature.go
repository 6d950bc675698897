// Package feature loads GeoJSON feature collections and samples features
// from them.
package feature

import (
	"context"
	"errors"
	"fmt"
	"io"
	"math/rand"
	"net/http"
	"os"
	"strings"
	"time"

	"github.com/paulmach/orb/geojson"
)

// ErrDataFormat indicates the input file is missing, unparsable or not a
// FeatureCollection.
var ErrDataFormat = errors.New("invalid geojson input")

// ErrEmptyCollection indicates there are no features to sample from.
var ErrEmptyCollection = errors.New("empty feature collection")

var httpClient = &http.Client{Timeout: 30 * time.Second}

// Load reads a GeoJSON FeatureCollection from a local path or an http(s)
// URL. Every failure mode wraps ErrDataFormat so callers can distinguish
// bad input from downstream errors.
func Load(ctx context.Context, path string) (*geojson.FeatureCollection, error) {
	data, err := read(ctx, path)
	if err != nil {
		return nil, fmt.Errorf("%w: %s: %v", ErrDataFormat, path, err)
	}

	fc, err := geojson.UnmarshalFeatureCollection(data)
	if err != nil {
		return nil, fmt.Errorf("%w: %s: %v", ErrDataFormat, path, err)
	}

	for i, f := range fc.Features {
		if f == nil || f.Geometry == nil {
			return nil, fmt.Errorf("%w: %s: feature %d has no geometry", ErrDataFormat, path, i)
		}
	}
	return fc, nil
}

func read(ctx context.Context, path string) ([]byte, error) {
	if strings.HasPrefix(path, "http://") || strings.HasPrefix(path, "https://") {
		req, err := http.NewRequestWithContext(ctx, http.MethodGet, path, nil)
		if err != nil {
			return nil, err
		}
		resp, err := httpClient.Do(req)
		if err != nil {
			return nil, err
		}
		defer resp.Body.Close()

		if resp.StatusCode < 200 || resp.StatusCode >= 300 {
			return nil, fmt.Errorf("unexpected status %d", resp.StatusCode)
		}
		return io.ReadAll(resp.Body)
	}
	return os.ReadFile(path)
}

// SampleOne picks one feature uniformly at random. The random source is
// explicit so callers can make selection deterministic in tests.
func SampleOne(rng *rand.Rand, fc *geojson.FeatureCollection) (*geojson.Feature, error) {
	if fc == nil || len(fc.Features) == 0 {
		return nil, ErrEmptyCollection
	}
	return fc.Features[rng.Intn(len(fc.Features))], nil
}
