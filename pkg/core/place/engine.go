package place

import (
	"fmt"
	"io"
	"math"
	"sort"
	"strings"

	"github.com/charmbracelet/log"

	"github.com/matzehuels/roomforge/pkg/core/grid"
	"github.com/matzehuels/roomforge/pkg/program"
)

// =============================================================================
// Engine Configuration
// =============================================================================

// Config tunes the placement engine. The zero value is completed by
// [Config.withDefaults]; all fields are exposed through the TOML engine
// configuration.
type Config struct {
	CellFt      float64 // grid cell size in feet
	Aspect      float64 // preferred width/height ratio
	DoorwayFt   float64 // minimum shared wall for a usable doorway
	StrideCells int     // fallback sweep stride
	Weights     Weights
	Logger      *log.Logger
}

// DefaultDoorwayFt is the minimum doorway width in feet.
const DefaultDoorwayFt = 4.0

// corridorBandRatio positions the circulation spine at this fraction of the
// lot height.
const corridorBandRatio = 0.4

func (c Config) withDefaults() Config {
	if c.CellFt <= 0 {
		c.CellFt = grid.DefaultCellFt
	}
	if c.Aspect <= 0 {
		c.Aspect = grid.DefaultAspect
	}
	if c.DoorwayFt <= 0 {
		c.DoorwayFt = DefaultDoorwayFt
	}
	if c.StrideCells <= 0 {
		c.StrideCells = DefaultStrideCells
	}
	if c.Weights == (Weights{}) {
		c.Weights = DefaultWeights()
	}
	if c.Logger == nil {
		c.Logger = log.NewWithOptions(io.Discard, log.Options{})
	}
	return c
}

// =============================================================================
// Engine
// =============================================================================

// Engine orchestrates ordered, zone-by-zone placement of a room program
// onto an occupancy grid.
//
// An Engine serves a single generation run: it owns the grid and the placed
// room set. Build a fresh engine per request.
type Engine struct {
	cfg    Config
	grid   *grid.Grid
	scorer *Scorer
	rooms  []*Room
}

// NewEngine creates an engine for one run over the given lot.
func NewEngine(lot program.Lot, rules []program.AdjacencyRule, cfg Config) *Engine {
	cfg = cfg.withDefaults()
	g := grid.New(lot.Width, lot.Height, cfg.CellFt)
	return &Engine{
		cfg:  cfg,
		grid: g,
		scorer: &Scorer{
			Grid:         g,
			Weights:      cfg.Weights,
			Rules:        rules,
			DoorwayCells: grid.FeetToCells(cfg.DoorwayFt, cfg.CellFt),
		},
	}
}

// Grid exposes the engine's occupancy grid for validation and repair.
func (e *Engine) Grid() *grid.Grid { return e.grid }

// Scorer exposes the engine's candidate scorer for repair strategies.
func (e *Engine) Scorer() *Scorer { return e.scorer }

// Rooms returns the rooms placed so far, in placement order.
func (e *Engine) Rooms() []*Room { return e.rooms }

// Run places every room of the program: locked fixtures first with explicit
// geometry, then the public, service and private zones, then bathrooms
// anchored to the completed private zone.
func (e *Engine) Run(spec *program.Spec) *Result {
	res := &Result{}

	e.placeFixedFeatures(spec.Features)
	entrance := e.placeEntrance(spec, res)
	corridor := e.placeCorridor(spec, res)

	// Public zone grows from the entrance along the spine; each placed room
	// becomes an anchor for the next.
	publicAnchors := compactRooms(entrance, corridor)
	for _, rs := range sortByPriority(spec.RoomsOfType(program.TypeLiving), spec.RoomsOfType(program.TypeKitchen)) {
		if r := e.placeRoom(rs, publicAnchors, res); r != nil {
			publicAnchors = append(publicAnchors, r)
		}
	}

	// Private zone anchors to the corridor spine.
	privateAnchors := compactRooms(corridor)
	if len(privateAnchors) == 0 {
		privateAnchors = publicAnchors
	}
	for _, rs := range sortByPriority(spec.RoomsOfType(program.TypeMaster), spec.RoomsOfType(program.TypeBedroom)) {
		if r := e.placeRoom(rs, privateAnchors, res); r != nil {
			privateAnchors = append(privateAnchors, r)
		}
	}

	// Bathrooms anchor to the now-complete private zone.
	for _, rs := range spec.RoomsOfType(program.TypeBathroom) {
		e.placeRoom(rs, privateAnchors, res)
	}

	res.Rooms = e.rooms
	res.Status = runStatus(res.Outcomes)
	return res
}

// =============================================================================
// Locked Fixtures
// =============================================================================

// placeFixedFeatures places lot features with explicit deterministic
// geometry derived from their declared position. Features that do not fit
// are skipped.
func (e *Engine) placeFixedFeatures(features []program.FixedFeature) {
	for _, f := range features {
		w := grid.FeetToCells(f.Width, e.cfg.CellFt)
		h := grid.FeetToCells(f.Height, e.cfg.CellFt)
		var r grid.Rect
		switch f.Position {
		case "left":
			r = grid.Rect{X: 0, Y: (e.grid.Rows - h) / 2, W: w, H: h}
		case "right":
			r = grid.Rect{X: e.grid.Cols - w, Y: (e.grid.Rows - h) / 2, W: w, H: h}
		case "top":
			r = grid.Rect{X: (e.grid.Cols - w) / 2, Y: 0, W: w, H: h}
		case "bottom":
			r = grid.Rect{X: (e.grid.Cols - w) / 2, Y: e.grid.Rows - h, W: w, H: h}
		default:
			r = grid.Rect{X: (e.grid.Cols - w) / 2, Y: (e.grid.Rows - h) / 2, W: w, H: h}
		}
		if !e.grid.IsFree(r) {
			e.cfg.Logger.Warn("fixed feature does not fit, skipping", "type", f.Type, "position", f.Position)
			continue
		}
		e.commit(&Room{
			Spec:   program.RoomSpec{Name: e.featureName(f.Type), Type: program.TypeFixed, Area: f.Width * f.Height, Locked: true},
			Rect:   r,
			Zone:   program.ZonePublic,
			Locked: true,
		})
	}
}

// featureName keeps duplicate feature types unique on the grid: the second
// pool becomes "pool-2", the third "pool-3".
func (e *Engine) featureName(typ string) string {
	n := 0
	for _, r := range e.rooms {
		if r.Name() == typ || strings.HasPrefix(r.Name(), typ+"-") {
			n++
		}
	}
	if n == 0 {
		return typ
	}
	return fmt.Sprintf("%s-%d", typ, n+1)
}

// placeEntrance centers the entrance on the first unoccupied lot edge,
// preferring south, then north, west, east.
func (e *Engine) placeEntrance(spec *program.Spec, res *Result) *Room {
	specs := spec.RoomsOfType(program.TypeEntrance)
	if len(specs) == 0 {
		return nil
	}
	rs := specs[0]
	w, h := grid.SplitArea(rs.Area, e.cfg.CellFt, e.cfg.Aspect)

	tries := []grid.Rect{
		{X: (e.grid.Cols - w) / 2, Y: e.grid.Rows - h, W: w, H: h}, // south
		{X: (e.grid.Cols - w) / 2, Y: 0, W: w, H: h},               // north
		{X: 0, Y: (e.grid.Rows - h) / 2, W: w, H: h},               // west
		{X: e.grid.Cols - w, Y: (e.grid.Rows - h) / 2, W: w, H: h}, // east
	}
	for _, r := range tries {
		if e.grid.IsFree(r) {
			room := &Room{Spec: rs, Rect: r, Zone: program.ZonePublic, Locked: true}
			e.commit(room)
			res.Outcomes = append(res.Outcomes, Outcome{Spec: rs, State: StatePlaced})
			return room
		}
	}
	e.cfg.Logger.Error("no free lot edge for entrance")
	res.Outcomes = append(res.Outcomes, Outcome{Spec: rs, State: StateFailed})
	return nil
}

// placeCorridor lays the circulation spine across the full lot width at
// roughly 40% height, sliding down row by row until the band is free.
func (e *Engine) placeCorridor(spec *program.Spec, res *Result) *Room {
	specs := spec.RoomsOfType(program.TypeCorridor)
	if len(specs) == 0 {
		return nil
	}
	rs := specs[0]
	h := grid.FeetToCells(program.CorridorDepthFt, e.cfg.CellFt)
	w := e.grid.Cols

	start := int(float64(e.grid.Rows) * corridorBandRatio)
	for _, y := range bandOffsets(start, e.grid.Rows-h) {
		r := grid.Rect{X: 0, Y: y, W: w, H: h}
		if e.grid.IsFree(r) {
			room := &Room{Spec: rs, Rect: r, Zone: program.ZonePublic, Locked: true}
			e.commit(room)
			res.Outcomes = append(res.Outcomes, Outcome{Spec: rs, State: StatePlaced})
			return room
		}
	}
	e.cfg.Logger.Warn("no free band for corridor")
	res.Outcomes = append(res.Outcomes, Outcome{Spec: rs, State: StateFailed})
	return nil
}

// bandOffsets yields start, start±1, start±2, ... clamped to [0, limit].
func bandOffsets(start, limit int) []int {
	var out []int
	for d := 0; d <= limit; d++ {
		if y := start + d; y >= 0 && y <= limit {
			out = append(out, y)
		}
		if d == 0 {
			continue
		}
		if y := start - d; y >= 0 && y <= limit {
			out = append(out, y)
		}
	}
	return out
}

// =============================================================================
// Scored Placement
// =============================================================================

// placeRoom walks one room through the state machine: generate candidates
// for both orientations, score them all, and commit the best candidate that
// clears the feasibility floor. Returns nil when the room fails; a failed
// room does not abort the run.
func (e *Engine) placeRoom(rs program.RoomSpec, anchors []*Room, res *Result) *Room {
	w, h := grid.SplitArea(rs.Area, e.cfg.CellFt, e.cfg.Aspect)

	best := struct {
		rect  grid.Rect
		score float64
		found bool
	}{score: math.Inf(-1)}

	state := StateUnplaced
	for orient, dims := range [][2]int{{w, h}, {h, w}} {
		cw, ch := dims[0], dims[1]
		if orient == 1 && cw == ch {
			continue // square rooms have one orientation
		}
		candidates := Candidates(e.grid, cw, ch, anchors, e.cfg.StrideCells)
		if len(candidates) == 0 {
			continue
		}
		state = StateCandidates
		for _, p := range candidates {
			r := grid.Rect{X: p.X, Y: p.Y, W: cw, H: ch}
			score := e.scorer.Score(rs, r, e.rooms, anchors)
			state = StateScored
			// Candidates arrive in (y, x) order and orientations in a fixed
			// order, so strict > is a stable tie-break.
			if score > best.score && score > FeasibilityFloor {
				best.rect, best.score, best.found = r, score, true
			}
		}
	}

	if !best.found {
		e.cfg.Logger.Warn("no acceptable candidate", "room", rs.Name, "state", state)
		res.Outcomes = append(res.Outcomes, Outcome{Spec: rs, State: StateFailed})
		return nil
	}

	room := &Room{Spec: rs, Rect: best.rect, Zone: program.ZoneFor(rs.Type)}
	e.commit(room)
	e.cfg.Logger.Debug("placed room",
		"room", rs.Name, "x", best.rect.X, "y", best.rect.Y,
		"w", best.rect.W, "h", best.rect.H, "score", best.score)
	res.Outcomes = append(res.Outcomes, Outcome{Spec: rs, State: StatePlaced})
	return room
}

// commit registers the room and occupies its cells.
func (e *Engine) commit(r *Room) {
	e.rooms = append(e.rooms, r)
	e.grid.Occupy(r.Rect, r.Name())
}

// =============================================================================
// Helpers
// =============================================================================

func compactRooms(rooms ...*Room) []*Room {
	var out []*Room
	for _, r := range rooms {
		if r != nil {
			out = append(out, r)
		}
	}
	return out
}

func sortByPriority(groups ...[]program.RoomSpec) []program.RoomSpec {
	var all []program.RoomSpec
	for _, g := range groups {
		all = append(all, g...)
	}
	sort.SliceStable(all, func(i, j int) bool { return all[i].Priority < all[j].Priority })
	return all
}

func runStatus(outcomes []Outcome) RunStatus {
	status := StatusSuccess
	for _, o := range outcomes {
		if o.State != StateFailed {
			continue
		}
		if requiredRoom(o.Spec) {
			return StatusFailure
		}
		status = StatusPartial
	}
	return status
}
