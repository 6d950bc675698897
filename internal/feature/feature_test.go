package feature

import (
	"context"
	"errors"
	"math/rand"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"testing"

	"github.com/paulmach/orb"
	"github.com/paulmach/orb/geojson"
)

const parksJSON = `{
  "type": "FeatureCollection",
  "features": [
    {"type": "Feature", "properties": {"Name": "Alpha"}, "geometry": {"type": "Point", "coordinates": [-119.5, 37.8]}},
    {"type": "Feature", "properties": {"Name": "Beta"}, "geometry": {"type": "Point", "coordinates": [-110.5, 44.4]}},
    {"type": "Feature", "properties": {"Name": "Gamma"}, "geometry": {"type": "Polygon", "coordinates": [[[-81.2, 25.0], [-80.4, 25.0], [-80.4, 25.9], [-81.2, 25.0]]]}}
  ]
}`

func writeTemp(t *testing.T, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "features.geojson")
	if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
		t.Fatal(err)
	}
	return path
}

func TestLoadLocalFile(t *testing.T) {
	fc, err := Load(context.Background(), writeTemp(t, parksJSON))
	if err != nil {
		t.Fatal(err)
	}
	if len(fc.Features) != 3 {
		t.Fatalf("expected 3 features, got %d", len(fc.Features))
	}
	if name := fc.Features[0].Properties["Name"]; name != "Alpha" {
		t.Fatalf("expected first feature Alpha, got %v", name)
	}
}

func TestLoadRemoteURL(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(parksJSON))
	}))
	defer srv.Close()

	fc, err := Load(context.Background(), srv.URL+"/features.geojson")
	if err != nil {
		t.Fatal(err)
	}
	if len(fc.Features) != 3 {
		t.Fatalf("expected 3 features, got %d", len(fc.Features))
	}
}

func TestLoadMissingFile(t *testing.T) {
	_, err := Load(context.Background(), filepath.Join(t.TempDir(), "nope.geojson"))
	if !errors.Is(err, ErrDataFormat) {
		t.Fatalf("expected ErrDataFormat, got %v", err)
	}
}

func TestLoadUnparsable(t *testing.T) {
	_, err := Load(context.Background(), writeTemp(t, "{not json"))
	if !errors.Is(err, ErrDataFormat) {
		t.Fatalf("expected ErrDataFormat, got %v", err)
	}
}

func TestLoadNotFeatureCollection(t *testing.T) {
	_, err := Load(context.Background(), writeTemp(t, `{"type": "Feature", "geometry": {"type": "Point", "coordinates": [0, 0]}}`))
	if !errors.Is(err, ErrDataFormat) {
		t.Fatalf("expected ErrDataFormat, got %v", err)
	}
}

func TestLoadRemoteErrorStatus(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, "gone", http.StatusNotFound)
	}))
	defer srv.Close()

	_, err := Load(context.Background(), srv.URL)
	if !errors.Is(err, ErrDataFormat) {
		t.Fatalf("expected ErrDataFormat, got %v", err)
	}
}

func TestSampleOneReturnsMember(t *testing.T) {
	fc := geojson.NewFeatureCollection()
	for i := 0; i < 10; i++ {
		fc.Append(geojson.NewFeature(orb.Point{float64(i), float64(i)}))
	}

	rng := rand.New(rand.NewSource(42))
	for i := 0; i < 100; i++ {
		f, err := SampleOne(rng, fc)
		if err != nil {
			t.Fatal(err)
		}
		found := false
		for _, member := range fc.Features {
			if member == f {
				found = true
				break
			}
		}
		if !found {
			t.Fatalf("sampled feature not a member of the collection")
		}
	}
}

func TestSampleOneDeterministicWithSeed(t *testing.T) {
	fc := geojson.NewFeatureCollection()
	for i := 0; i < 10; i++ {
		fc.Append(geojson.NewFeature(orb.Point{float64(i), 0}))
	}

	a, err := SampleOne(rand.New(rand.NewSource(7)), fc)
	if err != nil {
		t.Fatal(err)
	}
	b, err := SampleOne(rand.New(rand.NewSource(7)), fc)
	if err != nil {
		t.Fatal(err)
	}
	if a != b {
		t.Fatalf("same seed should sample the same feature")
	}
}

func TestSampleOneEmpty(t *testing.T) {
	rng := rand.New(rand.NewSource(1))

	_, err := SampleOne(rng, geojson.NewFeatureCollection())
	if !errors.Is(err, ErrEmptyCollection) {
		t.Fatalf("expected ErrEmptyCollection, got %v", err)
	}

	_, err = SampleOne(rng, nil)
	if !errors.Is(err, ErrEmptyCollection) {
		t.Fatalf("expected ErrEmptyCollection for nil collection, got %v", err)
	}
}
