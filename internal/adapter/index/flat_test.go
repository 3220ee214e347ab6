package index

import (
	"bytes"
	"math"
	"testing"

	"kalebbot/internal/port"
)

func TestFlatL2Search(t *testing.T) {
	idx, err := NewFlatL2(2)
	if err != nil {
		t.Fatal(err)
	}

	vectors := [][]float32{
		{0, 0},
		{1, 0},
		{0, 3},
		{5, 5},
	}
	if err := idx.Add(vectors); err != nil {
		t.Fatal(err)
	}

	distances, positions, err := idx.Search([]float32{0.1, 0}, 3)
	if err != nil {
		t.Fatal(err)
	}

	if len(distances) != 3 || len(positions) != 3 {
		t.Fatalf("expected 3 pairs, got %d/%d", len(distances), len(positions))
	}
	if positions[0] != 0 {
		t.Errorf("expected nearest position 0, got %d", positions[0])
	}
	if positions[1] != 1 {
		t.Errorf("expected second position 1, got %d", positions[1])
	}
	for i := 1; i < len(distances); i++ {
		if distances[i] < distances[i-1] {
			t.Errorf("distances not non-decreasing: %v", distances)
		}
	}
}

func TestFlatL2SearchPadsWithSentinel(t *testing.T) {
	idx, _ := NewFlatL2(2)
	if err := idx.Add([][]float32{{1, 1}}); err != nil {
		t.Fatal(err)
	}

	distances, positions, err := idx.Search([]float32{0, 0}, 5)
	if err != nil {
		t.Fatal(err)
	}

	if positions[0] != 0 {
		t.Errorf("expected position 0 first, got %d", positions[0])
	}
	for i := 1; i < 5; i++ {
		if positions[i] != port.NoMatch {
			t.Errorf("slot %d: expected sentinel %d, got %d", i, port.NoMatch, positions[i])
		}
		if !math.IsInf(float64(distances[i]), 1) {
			t.Errorf("slot %d: expected +Inf distance, got %f", i, distances[i])
		}
	}
}

func TestFlatL2EmptyIndex(t *testing.T) {
	idx, _ := NewFlatL2(3)

	_, positions, err := idx.Search([]float32{1, 2, 3}, 2)
	if err != nil {
		t.Fatal(err)
	}
	for _, p := range positions {
		if p != port.NoMatch {
			t.Errorf("expected all sentinels on empty index, got %d", p)
		}
	}
}

func TestFlatL2DimensionMismatch(t *testing.T) {
	idx, _ := NewFlatL2(3)

	if err := idx.Add([][]float32{{1, 2}}); err == nil {
		t.Error("expected error adding wrong-dimension vector")
	}
	if _, _, err := idx.Search([]float32{1, 2}, 1); err == nil {
		t.Error("expected error searching with wrong-dimension query")
	}
}

func TestFlatL2SearchDeterministic(t *testing.T) {
	idx, _ := NewFlatL2(2)
	idx.Add([][]float32{{0, 1}, {1, 0}, {1, 1}, {2, 2}})

	_, first, err := idx.Search([]float32{0.5, 0.5}, 4)
	if err != nil {
		t.Fatal(err)
	}
	for i := 0; i < 10; i++ {
		_, again, err := idx.Search([]float32{0.5, 0.5}, 4)
		if err != nil {
			t.Fatal(err)
		}
		for j := range first {
			if again[j] != first[j] {
				t.Fatalf("run %d: positions differ: %v vs %v", i, again, first)
			}
		}
	}
}

func TestFlatL2RoundTrip(t *testing.T) {
	idx, _ := NewFlatL2(3)
	vectors := [][]float32{
		{0.1, 0.2, 0.3},
		{-1, 0, 1},
		{4.5, 5.5, 6.5},
	}
	if err := idx.Add(vectors); err != nil {
		t.Fatal(err)
	}

	var buf bytes.Buffer
	if _, err := idx.WriteTo(&buf); err != nil {
		t.Fatal(err)
	}

	loaded, err := ReadFlatL2(&buf)
	if err != nil {
		t.Fatal(err)
	}

	if loaded.Len() != 3 || loaded.Dimension() != 3 {
		t.Fatalf("expected 3 vectors of dim 3, got %d/%d", loaded.Len(), loaded.Dimension())
	}

	// Search results must be identical on the loaded copy.
	_, origPos, _ := idx.Search([]float32{0, 0, 1}, 3)
	_, loadPos, err := loaded.Search([]float32{0, 0, 1}, 3)
	if err != nil {
		t.Fatal(err)
	}
	for i := range origPos {
		if origPos[i] != loadPos[i] {
			t.Errorf("position %d differs after round trip: %d vs %d", i, origPos[i], loadPos[i])
		}
	}
}

func TestReadFlatL2RejectsGarbage(t *testing.T) {
	if _, err := ReadFlatL2(bytes.NewReader([]byte("definitely not an index"))); err == nil {
		t.Error("expected error reading garbage")
	}
}
