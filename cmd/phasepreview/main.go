// Phase portrait preview tool - interactive rate tuning with sliders.
//
// Usage: go run ./cmd/phasepreview [-config config.yaml]
package main

import (
	"flag"
	"fmt"
	"log"
	"math"

	gui "github.com/gen2brain/raylib-go/raygui"
	rl "github.com/gen2brain/raylib-go/raylib"
	"gopkg.in/yaml.v3"

	"github.com/pthm-cable/ecocycle/config"
	"github.com/pthm-cable/ecocycle/ecosystem"
)

const (
	windowWidth  = 1000
	windowHeight = 720
	previewSize  = 560
	panelWidth   = windowWidth - previewSize - 40
)

type slider struct {
	label    string
	min, max float32
	field    func(p *ecosystem.Params) *float64
}

var sliders = []slider{
	{"Rabbits per fox per day", 0.01, 3, func(p *ecosystem.Params) *float64 { return &p.RabbitsPerFoxPerDay }},
	{"Carrots per rabbit per day", 0.01, 10, func(p *ecosystem.Params) *float64 { return &p.CarrotsPerRabbitPerDay }},
	{"Carrot growth (% per day)", 0, 100, func(p *ecosystem.Params) *float64 { return &p.CarrotGrowthRate }},
	{"Fox death rate", 0, 0.5, func(p *ecosystem.Params) *float64 { return &p.FoxDeathRate }},
	{"Rabbit death rate", 0, 0.5, func(p *ecosystem.Params) *float64 { return &p.RabbitDeathRate }},
	{"Rabbit birth rate", 0, 1, func(p *ecosystem.Params) *float64 { return &p.RabbitBirthRate }},
	{"Fox conversion", 0, 1, func(p *ecosystem.Params) *float64 { return &p.FoxConversion }},
	{"Max carrots", 50, 5000, func(p *ecosystem.Params) *float64 { return &p.MaxCarrots }},
}

// trajectory runs p from its starting populations for days days.
func trajectory(p ecosystem.Params, days int) []ecosystem.Populations {
	out := make([]ecosystem.Populations, 0, days+1)
	pop := p.Initial()
	out = append(out, pop)
	for i := 0; i < days; i++ {
		pop, _ = ecosystem.Advance(pop, p)
		out = append(out, pop)
	}
	return out
}

func main() {
	configPath := flag.String("config", "", "Path to config.yaml (empty = use defaults)")
	days := flag.Int("days", 365, "Days to trace")
	flag.Parse()

	cfg, err := config.Load(*configPath)
	if err != nil {
		log.Fatalf("failed to load config: %v", err)
	}
	params := cfg.Params

	rl.InitWindow(windowWidth, windowHeight, "Phase Portrait Preview")
	defer rl.CloseWindow()
	rl.SetTargetFPS(30)

	path := trajectory(params, *days)
	needsRegen := false
	status := ""

	for !rl.WindowShouldClose() {
		if needsRegen {
			path = trajectory(params, *days)
			needsRegen = false
		}

		if rl.IsKeyPressed(rl.KeyC) {
			data, err := yaml.Marshal(map[string]ecosystem.Params{"params": params})
			if err != nil {
				status = fmt.Sprintf("copy failed: %v", err)
			} else {
				rl.SetClipboardText(string(data))
				status = "params copied to clipboard"
			}
		}

		rl.BeginDrawing()
		rl.ClearBackground(rl.RayWhite)

		drawPortrait(path, 10, 10, previewSize)

		last := path[len(path)-1]
		statsY := int32(previewSize + 25)
		rl.DrawText(fmt.Sprintf("Day %d  foxes %.1f  rabbits %.1f  carrots %.1f", *days, last.Foxes, last.Rabbits, last.Carrots), 15, statsY, 16, rl.DarkGray)
		if err := params.Validate(); err != nil {
			rl.DrawText("invalid: "+firstLine(err.Error()), 15, statsY+22, 16, rl.Red)
		}
		rl.DrawText(status, 15, statsY+44, 16, rl.DarkGreen)
		rl.DrawText("C: copy params as YAML", 15, statsY+66, 14, rl.Gray)

		// Control panel
		panelX := float32(previewSize + 30)
		panelY := float32(10)
		rl.DrawText("Daily Rates", int32(panelX), int32(panelY), 20, rl.DarkGray)
		panelY += 35

		for _, s := range sliders {
			v := s.field(&params)
			rl.DrawText(s.label, int32(panelX), int32(panelY), 14, rl.Gray)
			panelY += 18
			nv := gui.SliderBar(
				rl.Rectangle{X: panelX, Y: panelY, Width: float32(panelWidth - 80), Height: 20},
				"", "",
				float32(*v), s.min, s.max,
			)
			rl.DrawText(fmt.Sprintf("%.3f", *v), int32(panelX+float32(panelWidth-70)), int32(panelY+2), 16, rl.DarkGray)
			if nv != float32(*v) {
				*v = float64(nv)
				needsRegen = true
			}
			panelY += 35
		}

		if gui.Button(rl.Rectangle{X: panelX, Y: panelY, Width: 120, Height: 30}, "Reset") {
			params = cfg.Params
			needsRegen = true
		}

		rl.EndDrawing()
	}
}

// drawPortrait plots foxes against rabbits, fading from grey at day 0 to
// orange at the last day.
func drawPortrait(path []ecosystem.Populations, x, y, size int32) {
	rl.DrawRectangleLines(x, y, size, size, rl.DarkGray)

	maxR, maxF := 1.0, 1.0
	for _, p := range path {
		maxR = math.Max(maxR, p.Rabbits)
		maxF = math.Max(maxF, p.Foxes)
	}

	pt := func(p ecosystem.Populations) rl.Vector2 {
		return rl.Vector2{
			X: float32(x) + float32(p.Rabbits/maxR)*float32(size),
			Y: float32(y+size) - float32(p.Foxes/maxF)*float32(size),
		}
	}

	n := len(path)
	for i := 1; i < n; i++ {
		t := float32(i) / float32(n)
		c := rl.Color{
			R: uint8(120 + 115*t),
			G: uint8(120),
			B: uint8(120 - 80*t),
			A: 255,
		}
		rl.DrawLineEx(pt(path[i-1]), pt(path[i]), 2, c)
	}
	rl.DrawCircleV(pt(path[0]), 5, rl.DarkGray)
	rl.DrawCircleV(pt(path[n-1]), 5, rl.Orange)

	rl.DrawText("rabbits", x+size-60, y+size-18, 14, rl.Gray)
	rl.DrawText("foxes", x+4, y+4, 14, rl.Gray)
	rl.DrawText(fmt.Sprintf("%.0f", maxR), x+size-40, y+size+4, 12, rl.Gray)
	rl.DrawText(fmt.Sprintf("%.0f", maxF), x+4, y+20, 12, rl.Gray)
}

func firstLine(s string) string {
	for i, r := range s {
		if r == '\n' {
			return s[:i]
		}
	}
	return s
}
