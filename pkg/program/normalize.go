package program

import (
	"fmt"
	"math"
	"sort"
	"strings"
)

// =============================================================================
// Defaults - Single Source of Truth for Program Normalization
// =============================================================================

// DefaultCoverageRatio is the maximum fraction of the lot area that rooms
// may occupy.
const DefaultCoverageRatio = 0.80

// DefaultEntranceArea is the area in ft² of the auto-added entrance.
const DefaultEntranceArea = 40.0

// CorridorDepthFt is the depth in feet of the central circulation spine.
const CorridorDepthFt = 4.0

// MinSize is a per-type minimum footprint in feet.
type MinSize struct {
	Width  float64
	Height float64
}

// Area returns the minimum area in ft².
func (m MinSize) Area() float64 { return m.Width * m.Height }

// MinSizes holds the smallest acceptable footprint per room type.
// Rooms are never scaled below these dimensions.
var MinSizes = map[RoomType]MinSize{
	TypeBedroom:  {8, 9},
	TypeMaster:   {12, 12},
	TypeBathroom: {5, 7},
	TypeKitchen:  {8, 10},
	TypeLiving:   {10, 12},
	TypeEntrance: {5, 5},
	TypeCorridor: {4, 20},
}

// DefaultAreas is the target area in ft² per room when the request omits one.
var DefaultAreas = map[RoomType]float64{
	TypeEntrance: 40,
	TypeLiving:   200,
	TypeKitchen:  120,
	TypeBedroom:  120,
	TypeMaster:   160,
	TypeBathroom: 50,
}

// minSizeFor returns the per-type minimum, falling back to 5×5.
func minSizeFor(t RoomType) MinSize {
	if m, ok := MinSizes[t]; ok {
		return m
	}
	return MinSize{5, 5}
}

// =============================================================================
// Normalize - Untrusted RawProgram → Validated Spec
// =============================================================================

// roomGroup is one requested type during scaling.
type roomGroup struct {
	typ       RoomType
	count     int
	totalArea float64 // requested total ft² for all count rooms
	minTotal  float64 // guaranteed minimum total ft²
	finalEach float64 // resolved area per room after scaling
}

// Normalize validates an untrusted raw program and produces a Spec ready for
// placement. Numeric values are clamped or defaulted rather than propagated;
// structurally broken input is rejected.
//
// Errors:
//   - *InvalidInputError for non-positive lot dimensions or an empty room list
//   - *InfeasibleProgramError when the per-type minimum areas exceed the
//     coverage-adjusted lot area
func Normalize(raw *RawProgram) (*Spec, error) {
	return NormalizeWithCoverage(raw, DefaultCoverageRatio)
}

// NormalizeWithCoverage is Normalize with an explicit coverage ratio. A
// non-positive ratio falls back to [DefaultCoverageRatio].
func NormalizeWithCoverage(raw *RawProgram, coverage float64) (*Spec, error) {
	if coverage <= 0 {
		coverage = DefaultCoverageRatio
	}
	if raw == nil {
		return nil, invalidInputf("no program supplied")
	}
	if raw.Lot.Width <= 0 || raw.Lot.Height <= 0 {
		return nil, invalidInputf("lot dimensions must be positive, got %.1f x %.1f", raw.Lot.Width, raw.Lot.Height)
	}
	if len(raw.Rooms) == 0 {
		return nil, invalidInputf("room list is empty")
	}

	groups := collectGroups(raw.Rooms)
	if len(groups) == 0 {
		return nil, invalidInputf("no recognizable room types in %d items", len(raw.Rooms))
	}

	available := raw.Lot.Area() * coverage
	if err := scaleGroups(groups, available); err != nil {
		return nil, err
	}

	spec := &Spec{
		Lot:   raw.Lot,
		Rooms: expandGroups(groups),
		Rules: DefaultRules(),
	}
	addEssentials(spec)
	spec.Features = normalizeFeatures(raw.Features, raw.Lot)

	return spec, nil
}

// collectGroups folds raw items into one group per recognized room type,
// clamping counts and defaulting missing areas. Unknown types are dropped.
func collectGroups(items []RawRoomItem) []*roomGroup {
	byType := map[RoomType]*roomGroup{}
	var order []RoomType

	for _, item := range items {
		typ, ok := CanonicalType(item.Type)
		if !ok {
			continue
		}
		count := item.Count
		if count < 1 {
			count = 1
		}
		area := item.Area
		if area <= 0 || math.IsNaN(area) || math.IsInf(area, 0) {
			area = DefaultAreas[typ] * float64(count)
		}

		g, seen := byType[typ]
		if !seen {
			g = &roomGroup{typ: typ}
			byType[typ] = g
			order = append(order, typ)
		}
		g.count += count
		g.totalArea += area
	}

	groups := make([]*roomGroup, 0, len(order))
	for _, t := range order {
		groups = append(groups, byType[t])
	}
	return groups
}

// scaleGroups resolves the final per-room area for every group.
//
// If the request fits inside the coverage budget it is taken as-is. If it
// does not, every room is first guaranteed its per-type minimum footprint
// and the remaining budget is distributed proportionally to each group's
// share of the above-minimum request. When even the minimums do not fit the
// program is infeasible.
func scaleGroups(groups []*roomGroup, available float64) error {
	var requested, guaranteed float64
	for _, g := range groups {
		g.minTotal = minSizeFor(g.typ).Area() * float64(g.count)
		requested += g.totalArea
		guaranteed += g.minTotal
	}

	if requested <= available {
		for _, g := range groups {
			g.finalEach = g.totalArea / float64(g.count)
		}
		return nil
	}

	if guaranteed > available {
		return &InfeasibleProgramError{
			RequestedArea: requested,
			MinimumArea:   guaranteed,
			AvailableArea: available,
		}
	}

	remaining := available - guaranteed
	overage := requested - guaranteed
	for _, g := range groups {
		share := 0.0
		if overage > 0 {
			share = (g.totalArea - g.minTotal) / overage
		}
		finalTotal := g.minTotal + remaining*share
		g.finalEach = finalTotal / float64(g.count)
	}
	return nil
}

// expandGroups turns groups into individually named RoomSpecs.
// Within a type rooms are numbered from 1; singletons of well-known types
// get their plain name.
func expandGroups(groups []*roomGroup) []RoomSpec {
	var rooms []RoomSpec
	for _, g := range groups {
		for i := 1; i <= g.count; i++ {
			name := fmt.Sprintf("%s %d", titleCase(string(g.typ)), i)
			switch {
			case g.typ == TypeMaster:
				name = "Master Bedroom"
			case g.count == 1 && (g.typ == TypeEntrance || g.typ == TypeKitchen || g.typ == TypeLiving):
				name = titleCase(string(g.typ))
			}
			rooms = append(rooms, RoomSpec{
				Name:     name,
				Type:     g.typ,
				Area:     g.finalEach,
				Priority: priorityFor(g.typ),
				Locked:   g.typ == TypeEntrance,
			})
		}
	}
	return rooms
}

// addEssentials appends an entrance and a corridor when the program lacks
// them. Every layout needs an entry point and a circulation spine.
func addEssentials(s *Spec) {
	hasEntrance, hasCorridor := false, false
	for _, r := range s.Rooms {
		switch r.Type {
		case TypeEntrance:
			hasEntrance = true
		case TypeCorridor:
			hasCorridor = true
		}
	}
	if !hasEntrance {
		s.Rooms = append([]RoomSpec{{
			Name:     "Entrance",
			Type:     TypeEntrance,
			Area:     DefaultEntranceArea,
			Priority: 0,
			Locked:   true,
		}}, s.Rooms...)
	}
	if !hasCorridor {
		s.Rooms = append(s.Rooms, RoomSpec{
			Name:     "Corridor",
			Type:     TypeCorridor,
			Area:     s.Lot.Width * CorridorDepthFt,
			Priority: 1,
			Locked:   true,
		})
	}
}

// normalizeFeatures clamps fixed-feature geometry to the lot and defaults
// missing positions to center. Features wider or taller than the lot are
// shrunk to a third of the corresponding lot dimension.
func normalizeFeatures(raw []RawFeature, lot Lot) []FixedFeature {
	var out []FixedFeature
	for _, f := range raw {
		if strings.TrimSpace(f.Type) == "" {
			continue
		}
		feat := FixedFeature{
			Type:     strings.ToLower(strings.TrimSpace(f.Type)),
			Position: normalizePosition(f.Position),
			Width:    f.Width,
			Height:   f.Height,
		}
		if feat.Width <= 0 || feat.Width > lot.Width {
			feat.Width = lot.Width / 3
		}
		if feat.Height <= 0 || feat.Height > lot.Height {
			feat.Height = lot.Height / 3
		}
		out = append(out, feat)
	}
	sort.SliceStable(out, func(i, j int) bool { return out[i].Type < out[j].Type })
	return out
}

func normalizePosition(p string) string {
	switch strings.ToLower(strings.TrimSpace(p)) {
	case "left":
		return "left"
	case "right":
		return "right"
	case "top", "north":
		return "top"
	case "bottom", "south":
		return "bottom"
	case "middle", "center", "centre":
		return "center"
	}
	return "center"
}

func priorityFor(t RoomType) int {
	switch t {
	case TypeEntrance, TypeCorridor:
		return 0
	case TypeLiving:
		return 2
	case TypeKitchen:
		return 3
	case TypeMaster:
		return 4
	case TypeBedroom:
		return 5
	case TypeBathroom:
		return 6
	}
	return 7
}

func titleCase(s string) string {
	if s == "" {
		return s
	}
	return strings.ToUpper(s[:1]) + s[1:]
}
