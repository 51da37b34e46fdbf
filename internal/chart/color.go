package chart

import (
	"fmt"
	"image/color"
	"strconv"
	"strings"

	"golang.org/x/image/colornames"
)

// ParseColor resolves an SVG/CSS color name ("maroon") or a hex value
// ("#1E1E1E", "#fff").
func ParseColor(value string) (color.RGBA, error) {
	value = strings.ToLower(strings.TrimSpace(value))
	if value == "" {
		return color.RGBA{}, fmt.Errorf("empty color")
	}
	if named, ok := colornames.Map[value]; ok {
		return named, nil
	}
	hex, ok := strings.CutPrefix(value, "#")
	if !ok {
		return color.RGBA{}, fmt.Errorf("unknown color %q", value)
	}
	if len(hex) == 3 {
		hex = string([]byte{hex[0], hex[0], hex[1], hex[1], hex[2], hex[2]})
	}
	if len(hex) != 6 {
		return color.RGBA{}, fmt.Errorf("invalid hex color %q", value)
	}
	n, err := strconv.ParseUint(hex, 16, 32)
	if err != nil {
		return color.RGBA{}, fmt.Errorf("invalid hex color %q", value)
	}
	return color.RGBA{R: uint8(n >> 16), G: uint8(n >> 8), B: uint8(n), A: 0xff}, nil
}
