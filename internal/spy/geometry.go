package spy

import (
	"fmt"
	"math"
	"strconv"
	"strings"
)

// Rect is an axis-aligned rectangle in scope content coordinates.
type Rect struct {
	X, Y, W, H float64
}

// Area returns the rectangle's area, zero for degenerate rectangles.
func (r Rect) Area() float64 {
	if r.W <= 0 || r.H <= 0 {
		return 0
	}
	return r.W * r.H
}

// Intersect returns the overlap of r and o and whether they overlap at all.
// Edge-adjacent rectangles do not overlap.
func (r Rect) Intersect(o Rect) (Rect, bool) {
	x0 := max(r.X, o.X)
	y0 := max(r.Y, o.Y)
	x1 := min(r.X+r.W, o.X+o.W)
	y1 := min(r.Y+r.H, o.Y+o.H)
	if x1 <= x0 || y1 <= y0 {
		return Rect{}, false
	}
	return Rect{X: x0, Y: y0, W: x1 - x0, H: y1 - y0}, true
}

// Contains reports whether the point (x, y) lies inside r.
func (r Rect) Contains(x, y float64) bool {
	return x >= r.X && x <= r.X+r.W && y >= r.Y && y <= r.Y+r.H
}

// Length is a margin component, either absolute or a percentage of the
// viewport dimension it applies to.
type Length struct {
	Value   float64
	Percent bool
}

func (l Length) resolve(basis float64) float64 {
	if l.Percent {
		return basis * l.Value / 100
	}
	return l.Value
}

func (l Length) String() string {
	v := strconv.FormatFloat(l.Value, 'f', -1, 64)
	if l.Percent {
		return v + "%"
	}
	return v + "px"
}

// Margin grows (positive) or shrinks (negative) the root rectangle before
// intersections are computed.
type Margin struct {
	Top, Right, Bottom, Left Length
}

// ParseMargin parses CSS-style margin shorthand: one to four space separated
// lengths, each with a "px" or "%" suffix or bare. An empty string is a zero
// margin.
func ParseMargin(s string) (Margin, error) {
	fields := strings.Fields(s)
	parts := make([]Length, 0, len(fields))
	for _, f := range fields {
		l, err := parseLength(f)
		if err != nil {
			return Margin{}, err
		}
		parts = append(parts, l)
	}

	switch len(parts) {
	case 0:
		return Margin{}, nil
	case 1:
		return Margin{parts[0], parts[0], parts[0], parts[0]}, nil
	case 2:
		return Margin{parts[0], parts[1], parts[0], parts[1]}, nil
	case 3:
		return Margin{parts[0], parts[1], parts[2], parts[1]}, nil
	case 4:
		return Margin{parts[0], parts[1], parts[2], parts[3]}, nil
	default:
		return Margin{}, fmt.Errorf("margin %q: want 1 to 4 values, got %d", s, len(parts))
	}
}

func parseLength(s string) (Length, error) {
	var l Length
	num := s
	switch {
	case strings.HasSuffix(s, "%"):
		l.Percent = true
		num = strings.TrimSuffix(s, "%")
	case strings.HasSuffix(s, "px"):
		num = strings.TrimSuffix(s, "px")
	}
	v, err := strconv.ParseFloat(num, 64)
	if err != nil {
		return Length{}, fmt.Errorf("margin length %q: %w", s, err)
	}
	if math.IsNaN(v) || math.IsInf(v, 0) {
		return Length{}, fmt.Errorf("margin length %q is not finite", s)
	}
	l.Value = v
	return l, nil
}

func (m Margin) String() string {
	return strings.Join([]string{m.Top.String(), m.Right.String(), m.Bottom.String(), m.Left.String()}, " ")
}

// Apply returns viewport adjusted by the margin.
func (m Margin) Apply(viewport Rect) Rect {
	top := m.Top.resolve(viewport.H)
	bottom := m.Bottom.resolve(viewport.H)
	left := m.Left.resolve(viewport.W)
	right := m.Right.resolve(viewport.W)
	return Rect{
		X: viewport.X - left,
		Y: viewport.Y - top,
		W: viewport.W + left + right,
		H: viewport.H + top + bottom,
	}
}
