package schedule

import (
	"testing"
	"time"
)

func TestParseClock(t *testing.T) {
	tests := []struct {
		input   string
		want    int
		wantErr bool
	}{
		{"10:00", 600, false},
		{"00:00", 0, false},
		{"23:30", 1410, false},
		{"14:00:00.000000", 840, false},
		{"25:00", 0, true},
		{"banana", 0, true},
		{"", 0, true},
	}

	for _, tt := range tests {
		got, err := ParseClock(tt.input)
		if tt.wantErr {
			if err == nil {
				t.Errorf("ParseClock(%q) expected error, got %d", tt.input, got)
			}
			continue
		}
		if err != nil {
			t.Errorf("ParseClock(%q) unexpected error: %v", tt.input, err)
			continue
		}
		if got != tt.want {
			t.Errorf("ParseClock(%q) = %d, want %d", tt.input, got, tt.want)
		}
	}
}

func TestEndOfWrapsMidnight(t *testing.T) {
	tests := []struct {
		start    string
		duration int
		want     string
	}{
		{"14:00", 90, "15:30"},
		{"23:30", 60, "00:30"},
		{"10:00", 60, "11:00"},
		{"23:00", 120, "01:00"},
	}

	for _, tt := range tests {
		start, err := ParseClock(tt.start)
		if err != nil {
			t.Fatalf("ParseClock(%q): %v", tt.start, err)
		}
		got := FormatClock(EndOf(start, tt.duration))
		if got != tt.want {
			t.Errorf("EndOf(%s, %d) = %s, want %s", tt.start, tt.duration, got, tt.want)
		}
	}
}

func TestDefaultGridSlots(t *testing.T) {
	g := DefaultGrid()
	slots := g.Slots()

	if len(slots) != 20 {
		t.Fatalf("expected 20 slots in 10:00-20:00/30min grid, got %d", len(slots))
	}
	if slots[0] != "10:00" {
		t.Errorf("first slot = %s, want 10:00", slots[0])
	}
	if slots[len(slots)-1] != "19:30" {
		t.Errorf("last slot = %s, want 19:30", slots[len(slots)-1])
	}
}

func TestNewGridRejectsBadWindow(t *testing.T) {
	if _, err := NewGrid("20:00", "10:00", 30); err == nil {
		t.Error("expected error for close before open")
	}
	if _, err := NewGrid("10:00", "20:00", 0); err == nil {
		t.Error("expected error for zero interval")
	}
}

func TestPartition(t *testing.T) {
	g := DefaultGrid()

	start, _ := ParseClock("14:00")
	free, occupied := g.Partition([]Block{{Start: start, Duration: 90}})

	// 90 minutes from 14:00 spans three 30-minute cells.
	wantOccupied := []string{"14:00", "14:30", "15:00"}
	if len(occupied) != len(wantOccupied) {
		t.Fatalf("occupied = %v, want %v", occupied, wantOccupied)
	}
	for i, s := range wantOccupied {
		if occupied[i] != s {
			t.Errorf("occupied[%d] = %s, want %s", i, occupied[i], s)
		}
	}
	if len(free)+len(occupied) != len(g.Slots()) {
		t.Errorf("free+occupied = %d, want %d", len(free)+len(occupied), len(g.Slots()))
	}
}

func TestPartitionOffGridStart(t *testing.T) {
	g := DefaultGrid()

	// 10:15 for 30 minutes touches both the 10:00 and 10:30 cells.
	start, _ := ParseClock("10:15")
	_, occupied := g.Partition([]Block{{Start: start, Duration: 30}})

	if len(occupied) != 2 || occupied[0] != "10:00" || occupied[1] != "10:30" {
		t.Errorf("occupied = %v, want [10:00 10:30]", occupied)
	}
}

func TestPartitionBoundaryStart(t *testing.T) {
	g := DefaultGrid()

	// Exactly on a grid boundary for exactly one interval: one cell only.
	start, _ := ParseClock("12:00")
	_, occupied := g.Partition([]Block{{Start: start, Duration: 30}})

	if len(occupied) != 1 || occupied[0] != "12:00" {
		t.Errorf("occupied = %v, want [12:00]", occupied)
	}
}

func TestPartitionTruncatesAtMidnight(t *testing.T) {
	g, err := NewGrid("00:00", "02:00", 30)
	if err != nil {
		t.Fatal(err)
	}

	// A block running past 24:00 belongs to its own date; the overhang
	// claims no cells on the following morning.
	start, _ := ParseClock("23:30")
	free, occupied := g.Partition([]Block{{Start: start, Duration: 60}})

	if len(occupied) != 0 {
		t.Errorf("occupied = %v, want none", occupied)
	}
	if len(free) != 4 {
		t.Errorf("free = %v, want all 4 cells", free)
	}
}

func TestPartitionIdempotentAndDisjoint(t *testing.T) {
	g := DefaultGrid()
	blocks := []Block{
		{Start: 600, Duration: 60},
		{Start: 930, Duration: 45},
	}

	free1, occ1 := g.Partition(blocks)
	free2, occ2 := g.Partition(blocks)

	if len(free1) != len(free2) || len(occ1) != len(occ2) {
		t.Fatal("Partition is not idempotent over the same snapshot")
	}
	for i := range free1 {
		if free1[i] != free2[i] {
			t.Fatal("Partition free order changed between runs")
		}
	}

	seen := make(map[string]bool)
	for _, s := range free1 {
		seen[s] = true
	}
	for _, s := range occ1 {
		if seen[s] {
			t.Errorf("slot %s is both free and occupied", s)
		}
		seen[s] = true
	}
	for _, s := range g.Slots() {
		if !seen[s] {
			t.Errorf("slot %s missing from free+occupied union", s)
		}
	}
}

func TestSameDay(t *testing.T) {
	loc := time.UTC
	a := time.Date(2025, 3, 10, 9, 0, 0, 0, loc)
	b := time.Date(2025, 3, 10, 23, 59, 0, 0, loc)
	c := time.Date(2025, 3, 11, 0, 0, 0, 0, loc)

	if !SameDay(a, b) {
		t.Error("expected same day for a/b")
	}
	if SameDay(a, c) {
		t.Error("expected different day for a/c")
	}
}
