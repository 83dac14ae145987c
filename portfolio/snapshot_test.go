package portfolio

import (
	"context"
	"errors"
	"image/png"
	"os"
	"path/filepath"
	"testing"

	"github.com/spaghettifunk/folio/engine/core"
)

func TestSnapshotWritesEverySection(t *testing.T) {
	dir := filepath.Join(t.TempDir(), "out")
	paths, err := Snapshot(context.Background(), mustContent(t), SnapshotOptions{
		Width:      64,
		Height:     48,
		PixelRatio: 1,
		Frames:     2,
		Seed:       1,
		OutputDir:  dir,
	})
	if err != nil {
		t.Fatalf("Expected snapshots, got %v", err)
	}
	if len(paths) != 8 {
		t.Fatalf("Expected 8 images, got %d", len(paths))
	}
	if filepath.Base(paths[1]) != "01-hero.png" {
		t.Errorf("Expected 01-hero.png, got %s", filepath.Base(paths[1]))
	}
	for _, p := range paths {
		f, err := os.Open(p)
		if err != nil {
			t.Fatal(err)
		}
		img, err := png.Decode(f)
		f.Close()
		if err != nil {
			t.Errorf("Expected %s to be a PNG, got %v", p, err)
			continue
		}
		if b := img.Bounds(); b.Dx() != 64 || b.Dy() != 48 {
			t.Errorf("Expected 64x48 in %s, got %v", p, b)
		}
	}
}

func TestSnapshotRejectsEmptySize(t *testing.T) {
	_, err := Snapshot(context.Background(), mustContent(t), SnapshotOptions{OutputDir: t.TempDir()})
	if !errors.Is(err, core.ErrInvalidConfig) {
		t.Errorf("Expected ErrInvalidConfig, got %v", err)
	}
}
