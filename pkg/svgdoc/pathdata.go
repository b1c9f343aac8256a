package svgdoc

import (
	"fmt"
	"regexp"
	"strconv"
	"strings"
)

// a command letter followed by everything up to the next letter
var commandRegex = regexp.MustCompile(`([MLHVCSQTAZmlhvcsqtaz])[\s,]*([^MLHVCSQTAZmlhvcsqtaz]*)`)

// paramCounts is the number of parameters each supported command letter takes
var paramCounts = map[byte]int{
	'M': 2, 'L': 2, 'H': 1, 'V': 1, 'Q': 4, 'C': 6, 'A': 7, 'Z': 0,
}

// Segment is one command of svg path data such as 'L 6,5'
type Segment struct {
	Letter byte
	Params []float64
}

// End returns the point an absolute M, L or A segment finishes at
func (s Segment) End() (x, y float64, ok bool) {
	switch s.Letter {
	case 'M', 'L', 'A':
		n := len(s.Params)
		return s.Params[n-2], s.Params[n-1], true
	}
	return 0, 0, false
}

/**
* Creates a Segment from the given cmd string
* @param cmd string the command string such as 'M 6,5' or 'A1,1,0,0,1,0,1,'
 */
func NewSegment(cmd string) (Segment, error) {
	cmd = strings.TrimSpace(cmd)
	if cmd == "" {
		return Segment{}, fmt.Errorf("command string cannot be empty")
	}

	letter := cmd[0]
	want, ok := paramCounts[upper(letter)]
	if !ok {
		return Segment{}, fmt.Errorf("command letter %c not currently supported", letter)
	}

	var params []float64
	for _, part := range strings.FieldsFunc(cmd[1:], func(r rune) bool {
		return r == ',' || r == ' ' || r == '\t' || r == '\n' || r == '\r'
	}) {
		val, err := strconv.ParseFloat(part, 64)
		if err != nil {
			return Segment{}, fmt.Errorf("invalid parameter value: %s", part)
		}
		params = append(params, val)
	}
	if len(params) != want {
		return Segment{}, fmt.Errorf("command %c requires exactly %d parameters, got %d", letter, want, len(params))
	}
	return Segment{Letter: letter, Params: params}, nil
}

func upper(b byte) byte {
	if b >= 'a' && b <= 'z' {
		return b - 'a' + 'A'
	}
	return b
}

// ParsePathData splits the d attribute of a path into its segments
func ParsePathData(d string) ([]Segment, error) {
	matches := commandRegex.FindAllStringSubmatch(d, -1)
	if len(matches) == 0 {
		return nil, fmt.Errorf("no valid path commands found")
	}

	ret := make([]Segment, 0, len(matches))
	for _, match := range matches {
		seg, err := NewSegment(match[1] + " " + match[2])
		if err != nil {
			return nil, fmt.Errorf("failed to parse command '%s': %w", match[0], err)
		}
		ret = append(ret, seg)
	}
	return ret, nil
}

// PathStats summarises one path for inspection
type PathStats struct {
	Lines  int
	Arcs   int
	Other  int
	Closed bool // ends with Z and the last segment returns to the move
}

// Commands is the number of drawing commands, the move and the close excluded
func (p PathStats) Commands() int {
	return p.Lines + p.Arcs + p.Other
}

// Stats parses d and counts its drawing commands
func Stats(d string, tolerance float64) (PathStats, error) {
	segs, err := ParsePathData(d)
	if err != nil {
		return PathStats{}, err
	}

	var ret PathStats
	var startX, startY, lastX, lastY float64
	for i, s := range segs {
		switch upper(s.Letter) {
		case 'M':
			if i == 0 {
				startX, startY, _ = s.End()
			}
		case 'L':
			ret.Lines++
		case 'A':
			ret.Arcs++
		case 'Z':
			continue
		default:
			ret.Other++
		}
		if x, y, ok := s.End(); ok {
			lastX, lastY = x, y
		}
	}

	last := segs[len(segs)-1]
	ret.Closed = upper(last.Letter) == 'Z' &&
		abs(lastX-startX) <= tolerance && abs(lastY-startY) <= tolerance
	return ret, nil
}

func abs(v float64) float64 {
	if v < 0 {
		return -v
	}
	return v
}
