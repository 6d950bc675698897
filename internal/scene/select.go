// Package scene picks the scene to display from catalog search results.
package scene

import (
	"errors"

	"github.com/rs/zerolog"

	"github.com/mlanghor/stacmap/internal/stac"
)

// ErrNoScenesFound indicates the catalog was reachable but returned no
// candidates at all.
var ErrNoScenesFound = errors.New("no scenes found")

// Selector applies the cloud-cover policy to catalog results.
type Selector struct {
	// MaxCloudCover is the preferred upper bound, in percent. Candidates
	// without a cloud-cover value always pass.
	MaxCloudCover float64
	Log           zerolog.Logger
}

// Select returns the most recent candidate whose cloud cover is within the
// threshold. Candidates must already be ordered most-recent-first, as the
// catalog client requests them; ties keep their received order.
//
// When every candidate exceeds the threshold the selector relaxes it and
// returns the most recent candidate overall. This fallback is deliberate
// policy, not an error path: a request never fails on cloud cover alone.
func (s Selector) Select(candidates []stac.Item) (stac.Item, error) {
	if len(candidates) == 0 {
		return stac.Item{}, ErrNoScenesFound
	}

	for _, c := range candidates {
		if c.Properties.CloudCover == nil || *c.Properties.CloudCover <= s.MaxCloudCover {
			return c, nil
		}
	}

	best := candidates[0]
	s.Log.Warn().
		Str("scene", best.ID).
		Float64("threshold", s.MaxCloudCover).
		Float64("cloud_cover", cloudCover(best)).
		Msg("no scene within cloud-cover threshold, falling back to most recent")
	return best, nil
}

func cloudCover(it stac.Item) float64 {
	if it.Properties.CloudCover == nil {
		return -1
	}
	return *it.Properties.CloudCover
}
