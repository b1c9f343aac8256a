package geometry

import (
	"strconv"
	"strings"
)

// FormatNumber writes v for path data. A negative precision gives the shortest text that
// parses back to v; otherwise v is rounded to precision decimals with trailing zeros trimmed.
func FormatNumber(v float64, precision int) string {
	if v == 0 {
		// also folds -0
		return "0"
	}
	if precision < 0 {
		return strconv.FormatFloat(v, 'g', -1, 64)
	}
	s := strconv.FormatFloat(v, 'f', precision, 64)
	if strings.Contains(s, ".") {
		s = strings.TrimRight(s, "0")
		s = strings.TrimSuffix(s, ".")
	}
	if s == "-0" {
		return "0"
	}
	return s
}

func flag(b bool) string {
	if b {
		return "1"
	}
	return "0"
}

// AssemblePath joins the commands of one loop into a closed SVG path string:
// a move to the first command's start, one segment per command and a closing Z.
// Center form arcs are resolved first. An empty command list gives an empty string.
func AssemblePath(cmds []PathCommand, precision int) string {
	if len(cmds) == 0 {
		return ""
	}
	num := func(v float64) string {
		return FormatNumber(v, precision)
	}

	var sb strings.Builder
	first := cmds[0].Resolve()
	sb.WriteString("M" + num(first.Start.X) + "," + num(first.Start.Y) + ",")
	for _, c := range cmds {
		c = c.Resolve()
		sb.WriteString(c.Letter())
		switch c.Kind {
		case LineTo:
			sb.WriteString(num(c.End.X) + "," + num(c.End.Y) + ",")
		default:
			sb.WriteString(num(c.RadiusX) + "," +
				num(c.RadiusY) + "," +
				num(c.Rotation) + "," +
				flag(c.LargeArc) + "," +
				flag(c.Sweep) + "," +
				num(c.End.X) + "," +
				num(c.End.Y) + ",")
		}
	}
	sb.WriteString("Z")
	return sb.String()
}
