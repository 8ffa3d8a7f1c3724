package ui

import (
	"fmt"

	rl "github.com/gen2brain/raylib-go/raylib"

	"github.com/pthm-cable/ecocycle/chart"
	"github.com/pthm-cable/ecocycle/ecosystem"
)

const (
	gridLines   = 4
	barDepth    = 4 // pixel offset of the bar's shaded side
	pieSegments = 48
)

// DrawChart draws the selected chart view inside area.
func (r *Renderer) DrawChart(kind chart.Kind, area rl.Rectangle, view ecosystem.HistoryView, current ecosystem.Populations) {
	rl.DrawRectangleRec(area, r.Theme.PanelBg)
	rl.DrawRectangleLinesEx(area, 1, r.Theme.PanelBorder)

	inner := chart.Rect{
		X: area.X + 50,
		Y: area.Y + 30,
		W: area.Width - 70,
		H: area.Height - 60,
	}
	rl.DrawText(kind.String()+" chart", int32(area.X)+int32(r.Theme.Padding), int32(area.Y)+6, r.Theme.HeaderFontSize, r.Theme.SectionHeader)

	switch kind {
	case chart.Line:
		r.drawLineChart(inner, view)
	case chart.Bar:
		r.drawBarChart(inner, view)
	case chart.Pie:
		r.drawPieChart(inner, current)
	}

	r.drawLegend(int32(area.X+area.Width)-260, int32(area.Y)+8)
}

func (r *Renderer) drawAxes(inner chart.Rect, top float64) {
	for i := 0; i <= gridLines; i++ {
		frac := float32(i) / gridLines
		y := inner.Bottom() - inner.H*frac
		rl.DrawLineV(rl.Vector2{X: inner.X, Y: y}, rl.Vector2{X: inner.X + inner.W, Y: y}, r.Theme.GridColor)
		label := fmt.Sprintf("%.0f", top*float64(frac))
		w := rl.MeasureText(label, r.Theme.FontSize-2)
		rl.DrawText(label, int32(inner.X)-w-6, int32(y)-6, r.Theme.FontSize-2, r.Theme.LabelColor)
	}
}

func (r *Renderer) drawLineChart(inner chart.Rect, view ecosystem.HistoryView) {
	top := chart.Scale(view)
	r.drawAxes(inner, top)
	if view.Len() == 0 {
		r.drawEmpty(inner)
		return
	}

	for _, sp := range ecosystem.AllSpecies {
		pts := chart.LinePoints(view.Series(sp), inner, top)
		c := r.Theme.SpeciesColor(sp)
		for i := 1; i < len(pts); i++ {
			rl.DrawLineEx(rl.Vector2{X: pts[i-1].X, Y: pts[i-1].Y}, rl.Vector2{X: pts[i].X, Y: pts[i].Y}, 2, c)
		}
		if len(pts) == 1 {
			rl.DrawCircleV(rl.Vector2{X: pts[0].X, Y: pts[0].Y}, 3, c)
		}
	}

	first, last := view.Day[0], view.Day[view.Len()-1]
	rl.DrawText(fmt.Sprintf("day %d", first), int32(inner.X), int32(inner.Bottom())+6, r.Theme.FontSize-2, r.Theme.LabelColor)
	lastLabel := fmt.Sprintf("day %d", last)
	w := rl.MeasureText(lastLabel, r.Theme.FontSize-2)
	rl.DrawText(lastLabel, int32(inner.X+inner.W)-w, int32(inner.Bottom())+6, r.Theme.FontSize-2, r.Theme.LabelColor)
}

func (r *Renderer) drawBarChart(inner chart.Rect, view ecosystem.HistoryView) {
	r.drawAxes(inner, chart.Scale(view.Last(chart.BarDays)))
	groups := chart.Bars(view, inner)
	if len(groups) == 0 {
		r.drawEmpty(inner)
		return
	}

	for gi, g := range groups {
		for j, b := range g.Bars {
			if b.H <= 0 {
				continue
			}
			c := r.Theme.SpeciesColor(ecosystem.AllSpecies[j])
			// Shaded side and top give the bars some depth
			rl.DrawRectangleRec(rl.Rectangle{X: b.X + barDepth, Y: b.Y - barDepth, Width: b.W, Height: b.H}, shade(c, 0.55))
			rl.DrawRectangleRec(rl.Rectangle{X: b.X, Y: b.Y, Width: b.W, Height: b.H}, c)
		}
		if gi%5 == 0 || gi == len(groups)-1 {
			x := g.Bars[0].X
			rl.DrawText(fmt.Sprintf("%d", g.Day), int32(x), int32(inner.Bottom())+6, r.Theme.FontSize-2, r.Theme.LabelColor)
		}
	}
}

func (r *Renderer) drawPieChart(inner chart.Rect, current ecosystem.Populations) {
	slices := chart.Slices(ecosystem.ComputeShares(current))
	if len(slices) == 0 {
		r.drawEmpty(inner)
		return
	}

	radius := min(inner.W, inner.H) / 2
	center := rl.Vector2{X: inner.X + inner.W/2, Y: inner.Y + inner.H/2}
	for _, s := range slices {
		// raylib measures angles clockwise from 3 o'clock
		rl.DrawCircleSector(center, radius, s.StartAngle-90, s.EndAngle-90, pieSegments, r.Theme.SpeciesColor(s.Species))
	}
	rl.DrawCircleLines(int32(center.X), int32(center.Y), radius, r.Theme.PanelBorder)

	y := int32(inner.Y)
	for _, s := range slices {
		rl.DrawText(fmt.Sprintf("%s %.1f%%", s.Species, s.Share*100), int32(inner.X), y, r.Theme.FontSize, r.Theme.SpeciesColor(s.Species))
		y += r.Theme.LineHeight
	}
}

func (r *Renderer) drawLegend(x, y int32) {
	for _, sp := range ecosystem.AllSpecies {
		rl.DrawRectangle(x, y+3, 10, 10, r.Theme.SpeciesColor(sp))
		rl.DrawText(sp.String(), x+14, y, r.Theme.FontSize, r.Theme.LabelColor)
		x += 85
	}
}

func (r *Renderer) drawEmpty(inner chart.Rect) {
	msg := "No data yet - press Start"
	w := rl.MeasureText(msg, r.Theme.HeaderFontSize)
	rl.DrawText(msg, int32(inner.X+inner.W/2)-w/2, int32(inner.Y+inner.H/2), r.Theme.HeaderFontSize, r.Theme.LabelColor)
}
