package index

import (
	"fmt"
	"reflect"
	"testing"

	"github.com/dgallion1/finsight/internal/segment"
)

func unit(id string, md map[string]string) segment.Unit {
	return segment.Unit{ID: id, Text: "text for " + id, Metadata: md}
}

func TestSearch_OrderedByDescendingSimilarity(t *testing.T) {
	ix := New()
	err := ix.Add(
		[]segment.Unit{
			unit("far", nil),
			unit("near", nil),
			unit("mid", nil),
		},
		[][]float64{
			{0, 1},        // orthogonal to the query
			{1, 0},        // identical direction
			{0.5, 0.5},    // in between
		},
	)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	matches := ix.Search([]float64{1, 0}, 10, nil)
	if len(matches) != 3 {
		t.Fatalf("expected 3 matches, got %d", len(matches))
	}
	wantOrder := []string{"near", "mid", "far"}
	for i, w := range wantOrder {
		if matches[i].Unit.ID != w {
			t.Errorf("match %d: expected %s, got %s", i, w, matches[i].Unit.ID)
		}
	}
	for i := 1; i < len(matches); i++ {
		if matches[i].Score > matches[i-1].Score {
			t.Errorf("scores not descending at %d: %f > %f", i, matches[i].Score, matches[i-1].Score)
		}
	}
}

func TestSearch_TopKLimit(t *testing.T) {
	ix := New()
	var units []segment.Unit
	var vectors [][]float64
	for i := 0; i < 20; i++ {
		units = append(units, unit(fmt.Sprintf("u%d", i), nil))
		vectors = append(vectors, []float64{1, float64(i) / 20})
	}
	if err := ix.Add(units, vectors); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	matches := ix.Search([]float64{1, 0}, 5, nil)
	if len(matches) != 5 {
		t.Errorf("expected 5 matches, got %d", len(matches))
	}
}

func TestSearch_EmptyIndex(t *testing.T) {
	ix := New()
	matches := ix.Search([]float64{1, 0}, 5, nil)
	if len(matches) != 0 {
		t.Errorf("expected 0 matches on empty index, got %d", len(matches))
	}
}

func TestSearch_FilterFailsClosed(t *testing.T) {
	ix := New()
	err := ix.Add(
		[]segment.Unit{
			unit("tagged", map[string]string{segment.KeyEntity: "Acme"}),
			unit("untagged", nil),
			unit("other", map[string]string{segment.KeyEntity: "Globex"}),
		},
		[][]float64{{1, 0}, {1, 0}, {1, 0}},
	)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	matches := ix.Search([]float64{1, 0}, 10, Filter{segment.KeyEntity: "Acme"})
	if len(matches) != 1 {
		t.Fatalf("expected 1 match, got %d", len(matches))
	}
	if matches[0].Unit.ID != "tagged" {
		t.Errorf("expected unit tagged, got %s", matches[0].Unit.ID)
	}
}

func TestSearch_TieBreakInsertionOrder(t *testing.T) {
	ix := New()
	err := ix.Add(
		[]segment.Unit{unit("first", nil), unit("second", nil), unit("third", nil)},
		[][]float64{{1, 1}, {1, 1}, {1, 1}},
	)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	matches := ix.Search([]float64{1, 1}, 10, nil)
	wantOrder := []string{"first", "second", "third"}
	for i, w := range wantOrder {
		if matches[i].Unit.ID != w {
			t.Errorf("match %d: expected %s, got %s", i, w, matches[i].Unit.ID)
		}
	}
}

func TestAdd_LengthMismatch(t *testing.T) {
	ix := New()
	err := ix.Add([]segment.Unit{unit("a", nil)}, nil)
	if err == nil {
		t.Fatal("expected error for mismatched batch")
	}
	if ix.Len() != 0 {
		t.Errorf("expected nothing added, len=%d", ix.Len())
	}
}

func TestAdd_EmptyVectorRejected(t *testing.T) {
	ix := New()
	err := ix.Add(
		[]segment.Unit{unit("a", nil), unit("b", nil)},
		[][]float64{{1, 0}, {}},
	)
	if err == nil {
		t.Fatal("expected error for empty vector")
	}
	if ix.Len() != 0 {
		t.Errorf("expected atomic rejection, len=%d", ix.Len())
	}
}

func TestEntitiesAndPeriods_SortedDistinct(t *testing.T) {
	ix := New()
	err := ix.Add(
		[]segment.Unit{
			unit("a", map[string]string{segment.KeyEntity: "Globex", segment.KeyPeriod: "2024"}),
			unit("b", map[string]string{segment.KeyEntity: "Acme", segment.KeyPeriod: "2023"}),
			unit("c", map[string]string{segment.KeyEntity: "Acme", segment.KeyPeriod: "2024"}),
		},
		[][]float64{{1}, {1}, {1}},
	)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if got, want := ix.Entities(), []string{"Acme", "Globex"}; !reflect.DeepEqual(got, want) {
		t.Errorf("entities: expected %v, got %v", want, got)
	}
	if got, want := ix.Periods(), []string{"2023", "2024"}; !reflect.DeepEqual(got, want) {
		t.Errorf("periods: expected %v, got %v", want, got)
	}
}

func TestClear_RemovesEverything(t *testing.T) {
	ix := New()
	if err := ix.Add([]segment.Unit{unit("a", nil)}, [][]float64{{1}}); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	ix.Clear()
	if ix.Len() != 0 {
		t.Errorf("expected empty index after clear, len=%d", ix.Len())
	}
}
