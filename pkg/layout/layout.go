// Package layout defines the canonical serialization format for generated
// floor plans.
//
// A [Layout] is the plain geometric record handed to renderers, stored by
// the API, and cached between pipeline stages. Coordinates are real-world
// feet; the integer cell geometry of the core is converted at this
// boundary and nowhere else.
//
// The format is human-readable and designed for round-trip fidelity:
// generate → export → re-import produces identical results.
package layout

import (
	"bytes"
	"encoding/json"
	"fmt"
	"io"
	"os"
)

// Statuses of a generation run. Partial layouts placed every required room
// but dropped at least one optional room.
const (
	StatusOK      = "ok"
	StatusPartial = "partial"
	StatusFailed  = "failed"
)

// Lot is the rectangular plot in feet.
type Lot struct {
	Width  float64 `json:"width" bson:"width"`
	Height float64 `json:"height" bson:"height"`
}

// Room is one placed room with geometry in feet.
type Room struct {
	Name   string  `json:"name" bson:"name"`
	Type   string  `json:"type" bson:"type"`
	Zone   string  `json:"zone" bson:"zone"`
	X      float64 `json:"x" bson:"x"`
	Y      float64 `json:"y" bson:"y"`
	Width  float64 `json:"width" bson:"width"`
	Height float64 `json:"height" bson:"height"`
	Locked bool    `json:"locked,omitempty" bson:"locked,omitempty"`
}

// Area returns the room area in ft².
func (r Room) Area() float64 { return r.Width * r.Height }

// Layout is a finished floor plan.
//
// Rooms appear in placement order, which is deterministic for a fixed
// program and seed. Violations is empty for StatusOK layouts.
type Layout struct {
	ID         string   `json:"id,omitempty" bson:"_id,omitempty"`
	Lot        Lot      `json:"lot" bson:"lot"`
	Rooms      []Room   `json:"rooms" bson:"rooms"`
	Status     string   `json:"status" bson:"status"`
	Message    string   `json:"message,omitempty" bson:"message,omitempty"`
	Violations []string `json:"violations,omitempty" bson:"violations,omitempty"`

	// Generation metadata for reproducibility.
	Seed   uint64  `json:"seed,omitempty" bson:"seed,omitempty"`
	CellFt float64 `json:"cell_ft,omitempty" bson:"cell_ft,omitempty"`
}

// IsOK reports whether the layout passed validation.
func (l *Layout) IsOK() bool { return l.Status == StatusOK }

// RoomByName returns the room with the given name and true, or false.
func (l *Layout) RoomByName(name string) (Room, bool) {
	for _, r := range l.Rooms {
		if r.Name == name {
			return r, true
		}
	}
	return Room{}, false
}

// RoomsOfType returns the rooms of the given type, in placement order.
func (l *Layout) RoomsOfType(typ string) []Room {
	var out []Room
	for _, r := range l.Rooms {
		if r.Type == typ {
			out = append(out, r)
		}
	}
	return out
}

// =============================================================================
// Serialization API
// =============================================================================

// Marshal serializes a Layout to pretty-printed JSON bytes.
func Marshal(l Layout) ([]byte, error) {
	var buf bytes.Buffer
	if err := writeTo(l, &buf); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}

// Unmarshal deserializes JSON bytes into a Layout.
// Validates that the required fields are present.
func Unmarshal(data []byte) (Layout, error) {
	return readFrom(bytes.NewReader(data))
}

// WriteFile writes a Layout to a JSON file with 0644 permissions.
func WriteFile(l Layout, path string) error {
	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("create %s: %w", path, err)
	}
	defer f.Close()
	return writeTo(l, f)
}

// ReadFile reads a JSON file and returns the decoded Layout.
func ReadFile(path string) (Layout, error) {
	f, err := os.Open(path)
	if err != nil {
		return Layout{}, fmt.Errorf("open %s: %w", path, err)
	}
	defer f.Close()
	return readFrom(f)
}

// Write writes a Layout as JSON to an io.Writer.
func Write(l Layout, w io.Writer) error {
	return writeTo(l, w)
}

// Read decodes a JSON layout from an io.Reader.
func Read(r io.Reader) (Layout, error) {
	return readFrom(r)
}

// =============================================================================
// Internal Implementation
// =============================================================================

func writeTo(l Layout, w io.Writer) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	if err := enc.Encode(l); err != nil {
		return fmt.Errorf("encode: %w", err)
	}
	return nil
}

func readFrom(r io.Reader) (Layout, error) {
	var l Layout
	if err := json.NewDecoder(r).Decode(&l); err != nil {
		return Layout{}, fmt.Errorf("decode: %w", err)
	}
	if l.Lot.Width <= 0 || l.Lot.Height <= 0 {
		return Layout{}, fmt.Errorf("layout must have positive lot dimensions")
	}
	if l.Status == "" {
		l.Status = StatusFailed
	}
	return l, nil
}
