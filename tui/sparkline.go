package tui

import "strings"

var sparkRunes = []rune("▁▂▃▄▅▆▇█")

// Sparkline renders values as block characters scaled so that top maps to
// the tallest block. Values at or below zero render as a space.
func Sparkline(values []float64, top float64) string {
	if top <= 0 {
		top = 1
	}
	var b strings.Builder
	for _, v := range values {
		if v <= 0 {
			b.WriteRune(' ')
			continue
		}
		i := int(v / top * float64(len(sparkRunes)-1))
		i = min(max(i, 0), len(sparkRunes)-1)
		b.WriteRune(sparkRunes[i])
	}
	return b.String()
}
