package player

import "github.com/desertthunder/playdeck/internal/shared"

// PointerFraction converts a pointer column to a position within a bar starting at left and
// spanning width columns, clamped to [0, 1].
func PointerFraction(x, left, width int) float64 {
	if width <= 1 {
		return 0
	}
	return shared.Clamp01(float64(x-left) / float64(width-1))
}
