package ui

import (
	"fmt"

	rl "github.com/gen2brain/raylib-go/raylib"

	"github.com/pthm-cable/ecocycle/ecosystem"
	"github.com/pthm-cable/ecocycle/telemetry"
)

const cardHeight = 86

// CardData is what one stat card shows.
type CardData struct {
	Species  ecosystem.Species
	Current  float64
	Initial  float64
	Share    float64
	Trend    ecosystem.Trend
	HasTrend bool
}

// DrawStatCard draws one species card and returns the Y below it.
func (r *Renderer) DrawStatCard(x, y, width int32, d CardData) int32 {
	r.DrawPanel(x, y, width, cardHeight)
	c := r.Theme.SpeciesColor(d.Species)
	rl.DrawRectangle(x, y, 4, cardHeight, c)

	pad := r.Theme.Padding
	rl.DrawText(d.Species.String(), x+pad+4, y+pad-2, r.Theme.HeaderFontSize, c)

	value := fmt.Sprintf("%.1f", d.Current)
	rl.DrawText(value, x+pad+4, y+pad+18, r.Theme.TitleFontSize, r.Theme.ValueColor)

	if d.HasTrend {
		arrow, col := "v", r.Theme.AlertColor
		if d.Trend == ecosystem.TrendUp {
			arrow, col = "^", r.Theme.OKColor
		}
		vw := rl.MeasureText(value, r.Theme.TitleFontSize)
		rl.DrawText(arrow, x+pad+4+vw+8, y+pad+18, r.Theme.TitleFontSize, col)
	}

	initial := fmt.Sprintf("start %.1f", d.Initial)
	iw := rl.MeasureText(initial, r.Theme.FontSize)
	rl.DrawText(initial, x+width-pad-iw, y+pad, r.Theme.FontSize, r.Theme.LabelColor)

	r.DrawBar(x+pad+4, y+pad+48, "share", float32(d.Share), width-pad*2-4, c)
	return y + cardHeight + 6
}

// DrawStatCards draws one card per species from the engine's state.
func (r *Renderer) DrawStatCards(x, y, width int32, e *ecosystem.Engine) int32 {
	cur := e.Current().Populations()
	initial := e.Params().Initial()
	shares := e.Distribution()
	trends, ok := e.Trends()

	for _, sp := range ecosystem.AllSpecies {
		y = r.DrawStatCard(x, y, width, CardData{
			Species:  sp,
			Current:  cur.Get(sp),
			Initial:  initial.Get(sp),
			Share:    shares.Get(sp),
			Trend:    trends.Get(sp),
			HasTrend: ok,
		})
	}
	return y
}

// DrawStatus draws alerts, recommendations and recent bookmarks.
func (r *Renderer) DrawStatus(x, y, width, height int32, e *ecosystem.Engine, bookmarks []telemetry.Bookmark) {
	r.DrawPanel(x, y, width, height)
	pad := r.Theme.Padding
	x += pad
	y += pad

	alerts := e.Alerts()
	y = r.DrawSectionHeader(x, y, "Alerts")
	if len(alerts) == 0 {
		rl.DrawText("none", x, y, r.Theme.FontSize, r.Theme.LabelColor)
		y += r.Theme.LineHeight
	} else {
		lines := make([]string, len(alerts))
		for i, a := range alerts {
			lines[i] = a.Message
		}
		y = r.DrawLines(x, y, lines, r.Theme.AlertColor, 4)
	}
	y += 6

	recs := e.Recommendations()
	y = r.DrawSectionHeader(x, y, "Recommendations")
	if len(recs) == 0 {
		rl.DrawText("none", x, y, r.Theme.FontSize, r.Theme.LabelColor)
		y += r.Theme.LineHeight
	}
	for _, rec := range recs {
		c := r.Theme.RecColor
		if rec.Kind == ecosystem.RecommendStable {
			c = r.Theme.OKColor
		}
		y = r.DrawLines(x, y, []string{rec.Message}, c, 1)
	}
	y += 6

	if len(bookmarks) > 0 {
		y = r.DrawSectionHeader(x, y, "Bookmarks")
		recent := bookmarks
		if len(recent) > 3 {
			recent = recent[len(recent)-3:]
		}
		lines := make([]string, len(recent))
		for i, b := range recent {
			lines[i] = fmt.Sprintf("day %d: %s", b.Day, b.Description)
		}
		r.DrawLines(x, y, lines, r.Theme.LabelColor, 3)
	}
}
