package ui

import (
	"errors"
	"fmt"
	"log/slog"
	"strings"

	gui "github.com/gen2brain/raylib-go/raygui"
	rl "github.com/gen2brain/raylib-go/raylib"

	"github.com/pthm-cable/ecocycle/ecosystem"
)

const (
	panelWidth  = 420
	sliderRowH  = 44
	buttonWidth = 110
)

// paramSlider binds one slider to a field of the draft parameter set.
type paramSlider struct {
	label    string
	min, max float32
	format   string
	field    func(p *ecosystem.Params) *float64
}

var paramSliders = []paramSlider{
	{"Initial foxes", 0, 100, "%.0f", func(p *ecosystem.Params) *float64 { return &p.FoxesInit }},
	{"Initial rabbits", 0, 500, "%.0f", func(p *ecosystem.Params) *float64 { return &p.RabbitsInit }},
	{"Initial carrots", 0, 2000, "%.0f", func(p *ecosystem.Params) *float64 { return &p.CarrotsInit }},
	{"Rabbits per fox per day", 0.01, 3, "%.2f", func(p *ecosystem.Params) *float64 { return &p.RabbitsPerFoxPerDay }},
	{"Carrots per rabbit per day", 0.01, 10, "%.2f", func(p *ecosystem.Params) *float64 { return &p.CarrotsPerRabbitPerDay }},
	{"Carrot growth (% per day)", 0, 100, "%.1f", func(p *ecosystem.Params) *float64 { return &p.CarrotGrowthRate }},
}

// ConfigPanel edits a draft copy of the parameters. Nothing reaches the
// engine until Apply succeeds.
type ConfigPanel struct {
	Open bool

	draft  ecosystem.Params
	errMsg string
}

// Show opens the panel with a draft of the active parameters.
func (c *ConfigPanel) Show(active ecosystem.Params) {
	c.Open = true
	c.draft = active
	c.errMsg = ""
}

// Draw draws the panel centred on the screen. apply is called with the
// draft when the user presses Apply; on error the panel stays open and
// shows the message.
func (c *ConfigPanel) Draw(r *Renderer, screenW, screenH int32, apply func(ecosystem.Params) error) {
	if !c.Open {
		return
	}

	height := int32(60 + len(paramSliders)*sliderRowH + 90)
	x := (screenW - panelWidth) / 2
	y := (screenH - height) / 2

	rl.DrawRectangle(0, 0, screenW, screenH, rl.Color{R: 0, G: 0, B: 0, A: 140})
	r.DrawPanel(x, y, panelWidth, height)

	pad := r.Theme.Padding
	rl.DrawText("Parameters", x+pad, y+pad, r.Theme.TitleFontSize, r.Theme.SectionHeader)

	rowY := float32(y + 50)
	sliderW := float32(panelWidth - 2*pad - 140)
	for _, s := range paramSliders {
		v := s.field(&c.draft)
		rl.DrawText(s.label, x+pad, int32(rowY), r.Theme.FontSize, r.Theme.LabelColor)
		rect := rl.Rectangle{X: float32(x+pad) + 40, Y: rowY + 18, Width: sliderW, Height: 18}
		nv := gui.SliderBar(rect, trimFloat(s.min), trimFloat(s.max), float32(*v), s.min, s.max)
		if nv != float32(*v) {
			*v = float64(nv)
		}
		rl.DrawText(fmt.Sprintf(s.format, *v), int32(rect.X+rect.Width)+40, int32(rect.Y)+2, r.Theme.FontSize, r.Theme.ValueColor)
		rowY += sliderRowH
	}

	if c.errMsg != "" {
		r.DrawLines(x+pad, int32(rowY), strings.Split(c.errMsg, "\n"), r.Theme.AlertColor, 2)
	}

	by := float32(y + height - 40)
	bx := float32(x + pad)
	if gui.Button(rl.Rectangle{X: bx, Y: by, Width: buttonWidth, Height: 28}, "Apply") {
		if err := apply(c.draft); err != nil {
			c.errMsg = firstLine(err)
			slog.Warn("parameters rejected", "error", err)
		} else {
			c.Open = false
			c.errMsg = ""
		}
	}
	if gui.Button(rl.Rectangle{X: bx + buttonWidth + 10, Y: by, Width: buttonWidth, Height: 28}, "Defaults") {
		c.draft = ecosystem.DefaultParams()
		c.errMsg = ""
	}
	if gui.Button(rl.Rectangle{X: bx + 2*(buttonWidth+10), Y: by, Width: buttonWidth, Height: 28}, "Cancel") {
		c.Open = false
		c.errMsg = ""
	}
}

func trimFloat(v float32) string {
	return strings.TrimRight(strings.TrimRight(fmt.Sprintf("%.2f", v), "0"), ".")
}

// firstLine returns the first violation of a joined validation error.
func firstLine(err error) string {
	var pe *ecosystem.ParamError
	if errors.As(err, &pe) {
		return pe.Error()
	}
	msg, _, _ := strings.Cut(err.Error(), "\n")
	return msg
}
