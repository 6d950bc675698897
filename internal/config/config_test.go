package config

import (
	"os"
	"path/filepath"
	"testing"
)

func TestDefaults(t *testing.T) {
	s := Default()
	if s.Collection != "sentinel-2-l2a" {
		t.Fatalf("unexpected default collection %q", s.Collection)
	}
	if s.AssetKey != "visual" {
		t.Fatalf("unexpected default asset key %q", s.AssetKey)
	}
	if s.MaxCloudCover != 20 {
		t.Fatalf("unexpected default cloud threshold %v", s.MaxCloudCover)
	}
	if s.SearchPeriod != 30 {
		t.Fatalf("unexpected default search period %d", s.SearchPeriod)
	}
}

func TestLoadEmptyPathReturnsDefaults(t *testing.T) {
	s, err := Load("")
	if err != nil {
		t.Fatal(err)
	}
	if s != Default() {
		t.Fatalf("empty path must return defaults, got %+v", s)
	}
}

func TestLoadPartialFileKeepsDefaults(t *testing.T) {
	path := filepath.Join(t.TempDir(), "settings.yaml")
	content := "collection: landsat-c2-l2\nmax_cloud_cover: 35\n"
	if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
		t.Fatal(err)
	}

	s, err := Load(path)
	if err != nil {
		t.Fatal(err)
	}
	if s.Collection != "landsat-c2-l2" {
		t.Fatalf("override lost: %q", s.Collection)
	}
	if s.MaxCloudCover != 35 {
		t.Fatalf("override lost: %v", s.MaxCloudCover)
	}
	if s.Catalog != Default().Catalog {
		t.Fatalf("unset field must keep default, got %q", s.Catalog)
	}
	if s.SearchPeriod != Default().SearchPeriod {
		t.Fatalf("unset field must keep default, got %d", s.SearchPeriod)
	}
}

func TestLoadMissingFile(t *testing.T) {
	if _, err := Load(filepath.Join(t.TempDir(), "nope.yaml")); err == nil {
		t.Fatal("expected error for missing settings file")
	}
}

func TestLoadBadYAML(t *testing.T) {
	path := filepath.Join(t.TempDir(), "settings.yaml")
	if err := os.WriteFile(path, []byte("collection: [unclosed"), 0o644); err != nil {
		t.Fatal(err)
	}
	if _, err := Load(path); err == nil {
		t.Fatal("expected error for bad yaml")
	}
}
