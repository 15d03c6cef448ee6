// Package place implements the spatial placement engine: candidate position
// generation, multi-factor scoring, and the zone-by-zone orchestration that
// decides where every room goes.
//
// The engine works on an occupancy [grid.Grid] and a validated
// [program.Spec]. Placement is fully deterministic: candidates are visited
// in a stable scan order and ties between equally scored candidates break
// on (y, x, orientation).
package place

import (
	"github.com/matzehuels/roomforge/pkg/core/grid"
	"github.com/matzehuels/roomforge/pkg/program"
)

// State tracks a room through the placement state machine.
type State int

// Placement states, in lifecycle order.
const (
	StateUnplaced State = iota
	StateCandidates
	StateScored
	StatePlaced
	StateFailed
)

// String returns the state name.
func (s State) String() string {
	switch s {
	case StateUnplaced:
		return "unplaced"
	case StateCandidates:
		return "candidates"
	case StateScored:
		return "scored"
	case StatePlaced:
		return "placed"
	case StateFailed:
		return "failed"
	}
	return "unknown"
}

// Room is a RoomSpec bound to concrete grid geometry and a zone.
// The spec is shared and read-only; the rectangle may be mutated by the
// repair loop unless the room is locked.
type Room struct {
	Spec   program.RoomSpec
	Rect   grid.Rect
	Zone   program.Zone
	Locked bool
}

// Name returns the unique room name.
func (r *Room) Name() string { return r.Spec.Name }

// Type returns the room type.
func (r *Room) Type() program.RoomType { return r.Spec.Type }

// Outcome records how a single room fared during placement.
type Outcome struct {
	Spec  program.RoomSpec
	State State
}

// RunStatus summarizes a whole placement run.
type RunStatus int

// Run outcomes.
const (
	// StatusSuccess means every room was placed.
	StatusSuccess RunStatus = iota
	// StatusPartial means optional rooms failed but the required set holds.
	StatusPartial
	// StatusFailure means a required room could not be placed.
	StatusFailure
)

// String returns the status name.
func (s RunStatus) String() string {
	switch s {
	case StatusSuccess:
		return "success"
	case StatusPartial:
		return "partial"
	case StatusFailure:
		return "failure"
	}
	return "unknown"
}

// Result is the product of a placement run.
type Result struct {
	Rooms    []*Room   // placed rooms in placement order
	Outcomes []Outcome // one per spec room, in placement order
	Status   RunStatus
}

// RoomByName returns the placed room with the given name, or nil.
func (r *Result) RoomByName(name string) *Room {
	for _, room := range r.Rooms {
		if room.Name() == name {
			return room
		}
	}
	return nil
}

// RoomsOfType returns the placed rooms of the given type.
func (r *Result) RoomsOfType(t program.RoomType) []*Room {
	var out []*Room
	for _, room := range r.Rooms {
		if room.Type() == t {
			out = append(out, room)
		}
	}
	return out
}

// requiredRoom reports whether a failed placement of this spec fails the
// whole run. Entrances, the corridor spine, the public/service rooms and
// the master bedroom are required; extra bedrooms and bathrooms degrade the
// run to partial.
func requiredRoom(spec program.RoomSpec) bool {
	switch spec.Type {
	case program.TypeEntrance, program.TypeCorridor, program.TypeLiving,
		program.TypeKitchen, program.TypeMaster:
		return true
	}
	return false
}
