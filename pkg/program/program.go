// Package program defines the typed room program that drives layout
// generation.
//
// A room program is the validated, structured description of what should be
// built: the lot, the rooms with their target areas, fixed features, and the
// adjacency rules between room types. Programs arrive from untrusted sources
// (the constraint extractor, API clients) as a [RawProgram] and must pass
// through [Normalize] before they reach the placement engine.
//
// # Normalization
//
// Normalize performs three jobs:
//
//  1. Validation: reject non-positive lot dimensions and empty room lists
//     with an [InvalidInputError].
//  2. Defaulting: clamp counts, fill missing areas from per-type defaults,
//     and add the essentials (entrance, corridor) when absent.
//  3. Scaling: when the requested area exceeds the coverage budget, shrink
//     rooms proportionally while guaranteeing per-type minimum sizes. If
//     even the minimums do not fit, return an [InfeasibleProgramError].
package program

import "strings"

// =============================================================================
// Room Types and Zones
// =============================================================================

// RoomType identifies the function of a room.
type RoomType string

// Known room types.
const (
	TypeEntrance RoomType = "entrance"
	TypeLiving   RoomType = "living"
	TypeKitchen  RoomType = "kitchen"
	TypeBedroom  RoomType = "bedroom"
	TypeMaster   RoomType = "master"
	TypeBathroom RoomType = "bathroom"
	TypeCorridor RoomType = "corridor"
	TypeFixed    RoomType = "fixed" // pre-placed lot feature (park, pool, ...)
)

// Zone classifies a room's function area.
type Zone string

// Zones group rooms for placement ordering and connectivity checks.
const (
	ZonePublic  Zone = "public"
	ZoneService Zone = "service"
	ZonePrivate Zone = "private"
)

// ZoneFor returns the zone a room type belongs to.
// Living, entrance, corridor and fixed features are public, the kitchen is
// service, everything else (bedrooms, bathrooms) is private.
func ZoneFor(t RoomType) Zone {
	switch t {
	case TypeLiving, TypeEntrance, TypeCorridor, TypeFixed:
		return ZonePublic
	case TypeKitchen:
		return ZoneService
	default:
		return ZonePrivate
	}
}

// =============================================================================
// Program Types
// =============================================================================

// Lot is the rectangular buildable plot in feet.
// Immutable for the duration of a generation run.
type Lot struct {
	Width  float64 `json:"width" bson:"width"`
	Height float64 `json:"height" bson:"height"`
}

// Area returns the lot area in square feet.
func (l Lot) Area() float64 { return l.Width * l.Height }

// RoomSpec is the abstract description of a single room to be placed.
// Specs are created once by Normalize and never mutated afterwards.
type RoomSpec struct {
	Name     string   `json:"name" bson:"name"` // unique within a run
	Type     RoomType `json:"type" bson:"type"`
	Area     float64  `json:"area" bson:"area"` // target area in ft²
	Priority int      `json:"priority" bson:"priority"`
	Locked   bool     `json:"locked" bson:"locked"` // deterministically pre-placed
}

// FixedFeature is a lot feature with a declared position (park, pool, ...).
// Fixed features are placed first with explicit geometry and never moved.
type FixedFeature struct {
	Type     string  `json:"type" bson:"type"`
	Position string  `json:"position" bson:"position"` // left, right, top, bottom, center
	Width    float64 `json:"width,omitempty" bson:"width,omitempty"`
	Height   float64 `json:"height,omitempty" bson:"height,omitempty"`
}

// RuleKind distinguishes required from forbidden adjacency.
type RuleKind string

// Adjacency rule kinds.
const (
	MustBeAdjacent    RuleKind = "must_be_adjacent"
	MustNotBeAdjacent RuleKind = "must_not_be_adjacent"
)

// AdjacencyRule requires or forbids two room types from sharing a wall.
type AdjacencyRule struct {
	TypeA RoomType `json:"room_type_a" bson:"room_type_a"`
	TypeB RoomType `json:"room_type_b" bson:"room_type_b"`
	Kind  RuleKind `json:"kind" bson:"kind"`
}

// Matches reports whether the rule applies to a room of type t, returning
// the other side of the rule.
func (r AdjacencyRule) Matches(t RoomType) (RoomType, bool) {
	switch t {
	case r.TypeA:
		return r.TypeB, true
	case r.TypeB:
		return r.TypeA, true
	}
	return "", false
}

// Spec is a fully validated room program, safe to hand to the placement
// engine. Construct it with [Normalize]; never build one from raw input.
type Spec struct {
	Lot      Lot             `json:"lot" bson:"lot"`
	Rooms    []RoomSpec      `json:"rooms" bson:"rooms"`
	Features []FixedFeature  `json:"features,omitempty" bson:"features,omitempty"`
	Rules    []AdjacencyRule `json:"rules,omitempty" bson:"rules,omitempty"`
}

// RoomsOfType returns the specs with the given type, in program order.
func (s *Spec) RoomsOfType(t RoomType) []RoomSpec {
	var out []RoomSpec
	for _, r := range s.Rooms {
		if r.Type == t {
			out = append(out, r)
		}
	}
	return out
}

// =============================================================================
// Raw (untrusted) Input
// =============================================================================

// RawProgram is the unvalidated room program as produced by the constraint
// extractor or an API client. Every field is suspect: dimensions may be
// non-positive, counts may be zero, types may be free-form strings.
type RawProgram struct {
	Lot      Lot           `json:"lot" bson:"lot"`
	Rooms    []RawRoomItem `json:"rooms" bson:"rooms"`
	Features []RawFeature  `json:"features,omitempty" bson:"features,omitempty"`
}

// RawRoomItem requests count rooms of a type with an optional total area.
type RawRoomItem struct {
	Type  string  `json:"type" bson:"type"`
	Count int     `json:"count" bson:"count"`
	Area  float64 `json:"area,omitempty" bson:"area,omitempty"` // total ft² for all count rooms
}

// RawFeature is an unvalidated fixed feature request.
type RawFeature struct {
	Type     string  `json:"type" bson:"type"`
	Position string  `json:"position,omitempty" bson:"position,omitempty"`
	Width    float64 `json:"width,omitempty" bson:"width,omitempty"`
	Height   float64 `json:"height,omitempty" bson:"height,omitempty"`
}

// =============================================================================
// Type Normalization
// =============================================================================

// CanonicalType maps a free-form room type string to a known RoomType.
// Returns false for types the engine does not place (garages, gardens, ...).
func CanonicalType(s string) (RoomType, bool) {
	t := strings.ToLower(strings.TrimSpace(s))
	switch {
	case strings.Contains(t, "master") && strings.Contains(t, "bath"):
		return TypeBathroom, true
	case strings.Contains(t, "master"):
		return TypeMaster, true
	case strings.Contains(t, "liv"), strings.Contains(t, "din"), strings.Contains(t, "hall"):
		return TypeLiving, true
	case strings.Contains(t, "bed"):
		return TypeBedroom, true
	case strings.Contains(t, "bath"):
		return TypeBathroom, true
	case strings.Contains(t, "kitch"):
		return TypeKitchen, true
	case strings.Contains(t, "entran"):
		return TypeEntrance, true
	case strings.Contains(t, "corridor"):
		return TypeCorridor, true
	}
	return "", false
}

// DefaultRules returns the adjacency rules derived for well-known type
// pairs: the kitchen must adjoin a living room, and sleeping rooms must not
// adjoin the noisy public/service rooms.
func DefaultRules() []AdjacencyRule {
	return []AdjacencyRule{
		{TypeA: TypeKitchen, TypeB: TypeLiving, Kind: MustBeAdjacent},
		{TypeA: TypeMaster, TypeB: TypeLiving, Kind: MustNotBeAdjacent},
		{TypeA: TypeMaster, TypeB: TypeKitchen, Kind: MustNotBeAdjacent},
		{TypeA: TypeBedroom, TypeB: TypeLiving, Kind: MustNotBeAdjacent},
		{TypeA: TypeBedroom, TypeB: TypeKitchen, Kind: MustNotBeAdjacent},
	}
}
