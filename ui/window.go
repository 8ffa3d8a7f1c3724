package ui

import (
	"fmt"
	"time"

	gui "github.com/gen2brain/raylib-go/raygui"
	rl "github.com/gen2brain/raylib-go/raylib"

	"github.com/pthm-cable/ecocycle/chart"
	"github.com/pthm-cable/ecocycle/game"
)

const (
	topBarHeight = 44
	sideWidth    = 330
	margin       = 10
)

// Window is the interactive front end around a Game.
type Window struct {
	g        *game.Game
	r        *Renderer
	kind     chart.Kind
	config   ConfigPanel
	showPerf bool
}

// NewWindow creates a window driving g. The raylib window must already be
// open.
func NewWindow(g *game.Game) *Window {
	return &Window{g: g, r: NewRenderer()}
}

// Update handles input and advances the simulation by the frame time.
func (w *Window) Update() {
	w.handleInput()
	if !w.config.Open {
		dt := time.Duration(rl.GetFrameTime() * float32(time.Second))
		w.g.Advance(dt)
	}
}

func (w *Window) handleInput() {
	if rl.IsKeyPressed(rl.KeyF11) {
		rl.ToggleFullscreen()
	}
	if rl.IsKeyPressed(rl.KeyEscape) {
		switch {
		case w.config.Open:
			w.config.Open = false
		case rl.IsWindowFullscreen():
			rl.ToggleFullscreen()
		}
	}
	if w.config.Open {
		return
	}

	if rl.IsKeyPressed(rl.KeySpace) {
		w.g.Toggle()
	}
	if rl.IsKeyPressed(rl.KeyR) {
		w.g.Reset()
	}
	if rl.IsKeyPressed(rl.KeyC) {
		w.openConfig()
	}
	if rl.IsKeyPressed(rl.KeyP) {
		w.showPerf = !w.showPerf
	}
	for i, k := range []int32{rl.KeyOne, rl.KeyTwo, rl.KeyThree} {
		if rl.IsKeyPressed(k) {
			w.kind = chart.Kinds[i]
		}
	}
}

func (w *Window) openConfig() {
	if w.g.State() == game.Running {
		w.g.Pause()
	}
	w.config.Show(w.g.Engine().Params())
}

// Draw renders one frame.
func (w *Window) Draw() {
	sw, sh := int32(rl.GetScreenWidth()), int32(rl.GetScreenHeight())

	rl.BeginDrawing()
	rl.ClearBackground(w.r.Theme.Background)

	w.drawTopBar(sw)

	chartArea := rl.Rectangle{
		X:      margin,
		Y:      topBarHeight + margin,
		Width:  float32(sw - sideWidth - 3*margin),
		Height: float32(sh - topBarHeight - 2*margin),
	}
	e := w.g.Engine()
	w.r.DrawChart(w.kind, chartArea, e.History(), e.Current().Populations())

	sideX := sw - sideWidth - margin
	y := w.r.DrawStatCards(sideX, topBarHeight+margin, sideWidth, e)
	w.r.DrawStatus(sideX, y, sideWidth, sh-y-margin, e, w.g.Bookmarks())

	if w.showPerf {
		w.drawPerf(int32(chartArea.X)+margin, int32(chartArea.Y+chartArea.Height)-80)
	}

	w.config.Draw(w.r, sw, sh, w.g.ApplyParams)

	rl.EndDrawing()
}

func (w *Window) drawTopBar(sw int32) {
	rl.DrawRectangle(0, 0, sw, topBarHeight, w.r.Theme.PanelBg)
	rl.DrawLine(0, topBarHeight, sw, topBarHeight, w.r.Theme.PanelBorder)

	x := float32(margin)
	btn := func(label string, width float32) bool {
		pressed := gui.Button(rl.Rectangle{X: x, Y: 8, Width: width, Height: 28}, label)
		x += width + 8
		// The config panel is modal
		return pressed && !w.config.Open
	}

	if btn(w.g.State().ActionLabel(), 80) {
		w.g.Toggle()
	}
	if btn("Reset", 70) {
		w.g.Reset()
	}
	x += 12
	for _, k := range chart.Kinds {
		if btn(k.String(), 60) {
			w.kind = k
		}
	}
	x += 12
	if btn("Config", 80) {
		w.openConfig()
	}

	status := fmt.Sprintf("Day %d  %s", w.g.Tick(), w.g.State())
	tw := rl.MeasureText(status, w.r.Theme.HeaderFontSize)
	rl.DrawText(status, sw-tw-margin, 14, w.r.Theme.HeaderFontSize, w.r.Theme.ValueColor)
}

func (w *Window) drawPerf(x, y int32) {
	ps := w.g.PerfStats()
	y = w.r.DrawLabelValue(x, y, "FPS", fmt.Sprintf("%d", rl.GetFPS()))
	y = w.r.DrawLabelValue(x, y, "Step", ps.AvgDay.String())
	w.r.DrawLabelValue(x, y, "Slowest", fmt.Sprintf("day %d, %v", ps.SlowestDay, ps.MaxDay))
}
