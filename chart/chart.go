// Package chart computes the geometry of the population charts. It does
// no drawing; callers map the returned shapes onto their canvas.
package chart

import (
	"math"

	"github.com/pthm-cable/ecocycle/ecosystem"
)

// Kind selects one of the chart views.
type Kind uint8

const (
	Line Kind = iota
	Bar
	Pie
)

// Kinds lists the chart views in display order.
var Kinds = [...]Kind{Line, Bar, Pie}

func (k Kind) String() string {
	switch k {
	case Line:
		return "Line"
	case Bar:
		return "Bar"
	case Pie:
		return "Pie"
	default:
		return "unknown"
	}
}

// BarDays is the number of most recent days shown by the bar chart.
const BarDays = 20

// Point is a position in canvas coordinates (y grows downward).
type Point struct {
	X, Y float32
}

// Rect is an axis-aligned canvas area.
type Rect struct {
	X, Y, W, H float32
}

// Bottom returns the y coordinate of the lower edge.
func (r Rect) Bottom() float32 {
	return r.Y + r.H
}

// Scale returns the value mapped to the top of a chart of values. It is
// the largest value seen, never less than 1.
func Scale(view ecosystem.HistoryView) float64 {
	top := 1.0
	for _, sp := range ecosystem.AllSpecies {
		for _, v := range view.Series(sp) {
			top = math.Max(top, v)
		}
	}
	return top
}

// LinePoints places one point per value, spread evenly across r. Values
// are mapped so that 0 sits on the bottom edge and top on the top edge.
func LinePoints(values []float64, r Rect, top float64) []Point {
	n := len(values)
	if n == 0 || top <= 0 {
		return nil
	}
	pts := make([]Point, n)
	for i, v := range values {
		x := r.X + r.W/2
		if n > 1 {
			x = r.X + r.W*float32(i)/float32(n-1)
		}
		pts[i] = Point{X: x, Y: r.Bottom() - r.H*float32(clamp01(v/top))}
	}
	return pts
}

// BarGroup is one day's bars, one per species in AllSpecies order.
type BarGroup struct {
	Day  int
	Bars [3]Rect
}

// Bars lays out the last BarDays days of view as grouped bars filling r.
func Bars(view ecosystem.HistoryView, r Rect) []BarGroup {
	recent := view.Last(BarDays)
	n := recent.Len()
	if n == 0 {
		return nil
	}
	top := Scale(recent)

	slot := r.W / float32(n)
	gap := slot * 0.2
	barW := (slot - gap) / float32(len(ecosystem.AllSpecies))

	groups := make([]BarGroup, n)
	for i := 0; i < n; i++ {
		s := recent.Snapshot(i)
		pop := s.Populations()
		groups[i].Day = s.Day
		x0 := r.X + slot*float32(i) + gap/2
		for j, sp := range ecosystem.AllSpecies {
			h := r.H * float32(clamp01(pop.Get(sp)/top))
			groups[i].Bars[j] = Rect{
				X: x0 + barW*float32(j),
				Y: r.Bottom() - h,
				W: barW,
				H: h,
			}
		}
	}
	return groups
}

// Slice is one wedge of the pie chart. Angles are in degrees, clockwise
// from 12 o'clock.
type Slice struct {
	Species    ecosystem.Species
	Share      float64
	StartAngle float32
	EndAngle   float32
}

// Slices divides the circle by each species' share. Species with no share
// get no slice; an empty ecosystem gets no slices at all.
func Slices(shares ecosystem.Shares) []Slice {
	var out []Slice
	angle := float32(0)
	for _, sp := range ecosystem.AllSpecies {
		share := shares.Get(sp)
		if share <= 0 {
			continue
		}
		end := angle + float32(share*360)
		out = append(out, Slice{Species: sp, Share: share, StartAngle: angle, EndAngle: end})
		angle = end
	}
	return out
}

func clamp01(v float64) float64 {
	return math.Max(0, math.Min(1, v))
}
