package leveldata

import (
	"os"
	"testing"
)

func TestLoadArena(t *testing.T) {
	data, err := LoadArena(os.DirFS("testdata"), "duel.tmx")
	if err != nil {
		t.Fatalf("LoadArena: %v", err)
	}

	if data.MapWidth != 96 || data.MapHeight != 64 {
		t.Fatalf("map size = %dx%d, want 96x64", data.MapWidth, data.MapHeight)
	}
	if len(data.SolidRects) != 7 {
		t.Fatalf("expected 7 solid tiles, got %d", len(data.SolidRects))
	}

	var metal int
	for _, r := range data.SolidRects {
		if r.Surface == "metal" {
			metal++
			if r.X != 80 || r.Y != 32 {
				t.Fatalf("metal tile at %v,%v", r.X, r.Y)
			}
		}
	}
	if metal != 1 {
		t.Fatalf("expected one metal tile, got %d", metal)
	}

	if len(data.SpawnPoints) != 2 || data.SpawnPoints[0].Index != 0 || data.SpawnPoints[0].X != 10 {
		t.Fatalf("spawn points not sorted by index: %+v", data.SpawnPoints)
	}
}

func TestLoadAllArenas(t *testing.T) {
	arenas, names, err := LoadAllArenas(os.DirFS("."), "testdata")
	if err != nil {
		t.Fatalf("LoadAllArenas: %v", err)
	}
	if len(names) != 1 || names[0] != "duel" || arenas["duel"] == nil {
		t.Fatalf("unexpected arenas %v", names)
	}

	if _, _, err := LoadAllArenas(os.DirFS("."), "missing"); err == nil {
		t.Fatalf("expected error for empty directory")
	}
}
