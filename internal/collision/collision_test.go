package collision

import (
	"testing"

	"dogpark-server/internal/geom"
)

func TestDetectSortsByT(t *testing.T) {
	items := []Item{
		{Kind: LootItem, Pos: geom.Point{X: 8, Y: 0}, LootID: 1},
		{Kind: LootItem, Pos: geom.Point{X: 2, Y: 0}, LootID: 2},
	}
	gatherers := []Gatherer{
		{DogID: 1, Start: geom.Point{X: 0, Y: 0}, End: geom.Point{X: 10, Y: 0}, Width: 0.6},
	}

	events := Detect(items, gatherers)
	if len(events) != 2 {
		t.Fatalf("expected 2 events, got %d", len(events))
	}
	if events[0].T > events[1].T {
		t.Errorf("events not sorted ascending by t: %+v", events)
	}
	if items[events[0].ItemIndex].LootID != 2 {
		t.Errorf("expected closer item (id 2) to fire first")
	}
}

func TestDetectRejectsOutOfRange(t *testing.T) {
	items := []Item{{Kind: LootItem, Pos: geom.Point{X: -5, Y: 0}}}
	gatherers := []Gatherer{{Start: geom.Point{X: 0, Y: 0}, End: geom.Point{X: 10, Y: 0}, Width: 0.6}}

	if events := Detect(items, gatherers); len(events) != 0 {
		t.Errorf("expected no events for a point behind the segment start, got %+v", events)
	}
}

func TestDetectRejectsFarPoints(t *testing.T) {
	items := []Item{{Kind: LootItem, Pos: geom.Point{X: 5, Y: 5}}}
	gatherers := []Gatherer{{Start: geom.Point{X: 0, Y: 0}, End: geom.Point{X: 10, Y: 0}, Width: 0.6}}

	if events := Detect(items, gatherers); len(events) != 0 {
		t.Errorf("expected no events for a far point, got %+v", events)
	}
}

func TestDetectZeroLengthGathererSkipped(t *testing.T) {
	items := []Item{{Kind: LootItem, Pos: geom.Point{X: 0, Y: 0}}}
	gatherers := []Gatherer{{Start: geom.Point{X: 3, Y: 3}, End: geom.Point{X: 3, Y: 3}, Width: 10}}

	if events := Detect(items, gatherers); len(events) != 0 {
		t.Errorf("expected zero-displacement gatherer to be skipped, got %+v", events)
	}
}
