// Package extract turns free-form layout descriptions into raw room
// programs.
//
// The extractor boundary exists so a text-understanding service can be
// plugged in later; the bundled [KeywordExtractor] is a deterministic
// keyword parser that covers the common phrasing ("plot size 40x30 feet,
// 3 bedrooms, kitchen, park on the left"). Extractor output is untrusted
// and must pass through program normalization before reaching the engine.
package extract

import (
	"context"
	"regexp"
	"strconv"
	"strings"

	"github.com/matzehuels/roomforge/pkg/program"
)

// Extractor converts a free-form description into a raw room program.
type Extractor interface {
	Extract(ctx context.Context, text string) (program.RawProgram, error)
}

// Default lot dimensions in feet when the text names no plot size.
const (
	DefaultLotWidth  = 50.0
	DefaultLotHeight = 50.0
)

// KeywordExtractor is a deterministic keyword-based extractor.
// The zero value is ready to use.
type KeywordExtractor struct{}

// NewKeywordExtractor creates a keyword extractor.
func NewKeywordExtractor() *KeywordExtractor {
	return &KeywordExtractor{}
}

var (
	plotRe    = regexp.MustCompile(`plot\s+size\s+(\d+(?:\.\d+)?)\s*(?:feet\s*)?x\s*(\d+(?:\.\d+)?)`)
	countRe   = regexp.MustCompile(`(\d+)\s+(bedroom|bathroom|bath)s?`)
	wordNums  = map[string]int{"one": 1, "two": 2, "three": 3, "four": 4, "five": 5, "six": 6}
	wordCntRe = regexp.MustCompile(`(one|two|three|four|five|six)\s+(bedroom|bathroom|bath)s?`)
)

// Extract parses the description. It never fails; text with no recognizable
// constraints yields a program with the default lot and no rooms, which
// normalization will then reject.
func (e *KeywordExtractor) Extract(_ context.Context, text string) (program.RawProgram, error) {
	t := strings.ToLower(text)

	raw := program.RawProgram{
		Lot: program.Lot{Width: DefaultLotWidth, Height: DefaultLotHeight},
	}
	if m := plotRe.FindStringSubmatch(t); m != nil {
		w, _ := strconv.ParseFloat(m[1], 64)
		h, _ := strconv.ParseFloat(m[2], 64)
		if w > 0 && h > 0 {
			raw.Lot = program.Lot{Width: w, Height: h}
		}
	}

	counts := map[string]int{}
	for _, m := range countRe.FindAllStringSubmatch(t, -1) {
		n, _ := strconv.Atoi(m[1])
		counts[roomWord(m[2])] += n
	}
	for _, m := range wordCntRe.FindAllStringSubmatch(t, -1) {
		counts[roomWord(m[2])] += wordNums[m[1]]
	}

	if strings.Contains(t, "master") {
		raw.Rooms = append(raw.Rooms, program.RawRoomItem{Type: "master_bedroom", Count: 1})
	}
	if n := counts["bedroom"]; n > 0 {
		raw.Rooms = append(raw.Rooms, program.RawRoomItem{Type: "bedroom", Count: n})
	} else if strings.Contains(t, "bedroom") && !strings.Contains(t, "master") {
		raw.Rooms = append(raw.Rooms, program.RawRoomItem{Type: "bedroom", Count: 1})
	}
	if n := counts["bathroom"]; n > 0 {
		raw.Rooms = append(raw.Rooms, program.RawRoomItem{Type: "bathroom", Count: n})
	} else if strings.Contains(t, "bath") {
		raw.Rooms = append(raw.Rooms, program.RawRoomItem{Type: "bathroom", Count: 1})
	}
	if strings.Contains(t, "kitchen") {
		raw.Rooms = append(raw.Rooms, program.RawRoomItem{Type: "kitchen", Count: 1})
	}
	if strings.Contains(t, "hall") || strings.Contains(t, "living") || strings.Contains(t, "dining") {
		raw.Rooms = append(raw.Rooms, program.RawRoomItem{Type: "living", Count: 1})
	}

	if strings.Contains(t, "park") {
		raw.Features = append(raw.Features, program.RawFeature{
			Type: "park", Position: positionNear(t, "park", "left"), Width: 15, Height: 20,
		})
	}
	if strings.Contains(t, "pool") {
		raw.Features = append(raw.Features, program.RawFeature{
			Type: "pool", Position: positionNear(t, "pool", "right"), Width: 12, Height: 20,
		})
	}

	return raw, nil
}

func roomWord(w string) string {
	if w == "bath" {
		return "bathroom"
	}
	return w
}

// positionNear scans the clause containing the keyword for a position word.
// Clauses are comma-separated, so "park on the left, pool on the right"
// resolves each feature independently.
func positionNear(text, keyword, fallback string) string {
	for _, clause := range strings.Split(text, ",") {
		if !strings.Contains(clause, keyword) {
			continue
		}
		for _, pos := range []string{"left", "right", "top", "bottom", "center", "middle"} {
			if strings.Contains(clause, pos) {
				if pos == "middle" {
					return "center"
				}
				return pos
			}
		}
	}
	return fallback
}

// Ensure KeywordExtractor implements Extractor.
var _ Extractor = (*KeywordExtractor)(nil)
