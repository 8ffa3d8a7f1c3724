// Package ui draws the ecosystem window with raylib and raygui.
package ui

import (
	rl "github.com/gen2brain/raylib-go/raylib"

	"github.com/pthm-cable/ecocycle/ecosystem"
)

// Theme holds UI styling constants.
type Theme struct {
	Background    rl.Color
	PanelBg       rl.Color
	PanelBorder   rl.Color
	SectionHeader rl.Color
	LabelColor    rl.Color
	ValueColor    rl.Color
	GridColor     rl.Color
	AlertColor    rl.Color
	RecColor      rl.Color
	OKColor       rl.Color
	BarBg         rl.Color

	Foxes   rl.Color
	Rabbits rl.Color
	Carrots rl.Color

	Padding        int32
	LineHeight     int32
	LabelWidth     int32
	BarHeight      int32
	FontSize       int32
	HeaderFontSize int32
	TitleFontSize  int32
}

// DefaultTheme returns the default UI theme.
func DefaultTheme() Theme {
	return Theme{
		Background:    rl.Color{R: 14, G: 18, B: 22, A: 255},
		PanelBg:       rl.Color{R: 20, G: 25, B: 30, A: 240},
		PanelBorder:   rl.Color{R: 60, G: 70, B: 80, A: 255},
		SectionHeader: rl.Yellow,
		LabelColor:    rl.LightGray,
		ValueColor:    rl.RayWhite,
		GridColor:     rl.Color{R: 45, G: 52, B: 60, A: 255},
		AlertColor:    rl.Color{R: 230, G: 90, B: 90, A: 255},
		RecColor:      rl.Color{R: 230, G: 190, B: 90, A: 255},
		OKColor:       rl.Color{R: 110, G: 210, B: 110, A: 255},
		BarBg:         rl.Color{R: 40, G: 40, B: 40, A: 255},

		Foxes:   rl.Color{R: 235, G: 120, B: 40, A: 255},
		Rabbits: rl.Color{R: 200, G: 200, B: 210, A: 255},
		Carrots: rl.Color{R: 120, G: 200, B: 80, A: 255},

		Padding:        10,
		LineHeight:     18,
		LabelWidth:     90,
		BarHeight:      12,
		FontSize:       14,
		HeaderFontSize: 16,
		TitleFontSize:  22,
	}
}

// SpeciesColor returns the series colour for a species.
func (t Theme) SpeciesColor(s ecosystem.Species) rl.Color {
	switch s {
	case ecosystem.Foxes:
		return t.Foxes
	case ecosystem.Rabbits:
		return t.Rabbits
	default:
		return t.Carrots
	}
}

// shade scales the RGB channels of c by f.
func shade(c rl.Color, f float32) rl.Color {
	scale := func(v uint8) uint8 {
		s := float32(v) * f
		if s > 255 {
			s = 255
		}
		return uint8(s)
	}
	return rl.Color{R: scale(c.R), G: scale(c.G), B: scale(c.B), A: c.A}
}
