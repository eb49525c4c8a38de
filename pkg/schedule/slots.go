package schedule

import (
	"fmt"
	"time"
)

// Defaults for the studio operating window.
const (
	DefaultOpen            = "10:00"
	DefaultClose           = "20:00"
	DefaultIntervalMinutes = 30
)

const minutesPerDay = 24 * 60

// Grid represents the bookable operating window of a single day,
// divided into fixed-size intervals. All fields are minutes since midnight.
type Grid struct {
	Open     int
	Close    int
	Interval int
}

// Block is an occupied interval within a day (a booking's footprint).
type Block struct {
	Start    int // minutes since midnight
	Duration int // minutes
}

// NewGrid builds a grid from "HH:MM" window bounds and an interval in minutes.
func NewGrid(open, close string, intervalMinutes int) (Grid, error) {
	openM, err := ParseClock(open)
	if err != nil {
		return Grid{}, fmt.Errorf("invalid opening time: %w", err)
	}
	closeM, err := ParseClock(close)
	if err != nil {
		return Grid{}, fmt.Errorf("invalid closing time: %w", err)
	}
	if closeM <= openM {
		return Grid{}, fmt.Errorf("closing time %s must be after opening time %s", close, open)
	}
	if intervalMinutes <= 0 {
		return Grid{}, fmt.Errorf("interval must be positive, got %d", intervalMinutes)
	}
	return Grid{Open: openM, Close: closeM, Interval: intervalMinutes}, nil
}

// DefaultGrid returns the 10:00-20:00 / 30 minute studio default.
func DefaultGrid() Grid {
	g, _ := NewGrid(DefaultOpen, DefaultClose, DefaultIntervalMinutes)
	return g
}

// Slots returns every grid cell start as "HH:MM", in chronological order.
func (g Grid) Slots() []string {
	slots := make([]string, 0, (g.Close-g.Open)/g.Interval)
	for m := g.Open; m < g.Close; m += g.Interval {
		slots = append(slots, FormatClock(m))
	}
	return slots
}

// Partition splits the grid into free and occupied slots given the blocks
// already booked on the day. A cell is occupied when any block overlaps it,
// even partially. Both results are ordered; their union is exactly Slots()
// and they are disjoint.
func (g Grid) Partition(blocks []Block) (free, occupied []string) {
	free = make([]string, 0)
	occupied = make([]string, 0)
	for m := g.Open; m < g.Close; m += g.Interval {
		if g.cellOccupied(m, blocks) {
			occupied = append(occupied, FormatClock(m))
		} else {
			free = append(free, FormatClock(m))
		}
	}
	return free, occupied
}

func (g Grid) cellOccupied(cellStart int, blocks []Block) bool {
	cellEnd := cellStart + g.Interval
	for _, b := range blocks {
		if b.Duration <= 0 {
			continue
		}
		// Occupancy truncates at midnight: a block running past 24:00 does
		// not claim cells on the following date.
		end := min(b.Start+b.Duration, minutesPerDay)
		if cellStart < end && cellEnd > b.Start {
			return true
		}
	}
	return false
}

// ParseClock parses "HH:MM" (seconds tolerated and ignored) into minutes
// since midnight.
func ParseClock(s string) (int, error) {
	if len(s) > 5 {
		s = s[:5]
	}
	t, err := time.Parse("15:04", s)
	if err != nil {
		return 0, fmt.Errorf("invalid time %q: expected HH:MM", s)
	}
	return t.Hour()*60 + t.Minute(), nil
}

// FormatClock renders minutes since midnight as "HH:MM", normalised to a
// single day.
func FormatClock(m int) string {
	m = ((m % minutesPerDay) + minutesPerDay) % minutesPerDay
	return fmt.Sprintf("%02d:%02d", m/60, m%60)
}

// EndOf computes an end time from a start and a duration, wrapping past
// midnight modulo 24h.
func EndOf(startMinutes, durationMinutes int) int {
	return (startMinutes + durationMinutes) % minutesPerDay
}

// At combines a calendar day with a minutes-since-midnight offset.
func At(date time.Time, minutes int) time.Time {
	return time.Date(date.Year(), date.Month(), date.Day(), minutes/60, minutes%60, 0, 0, date.Location())
}

// SameDay reports whether two instants fall on the same calendar day.
func SameDay(a, b time.Time) bool {
	ay, am, ad := a.Date()
	by, bm, bd := b.Date()
	return ay == by && am == bm && ad == bd
}

func min(a, b int) int {
	if a < b {
		return a
	}
	return b
}
