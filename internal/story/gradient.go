package story

import (
	"crypto/sha256"
	"math"

	"github.com/fogleman/gg"
)

// gradientFor picks two related hues from a hash of the city name so every
// destination gets its own stable placeholder palette.
func gradientFor(city string, width, height int) gg.Gradient {
	sum := sha256.Sum256([]byte(city))
	hue := float64(int(sum[0])<<8|int(sum[1])) / 65535.0 * 360.0

	grad := gg.NewLinearGradient(0, 0, 0, float64(height))
	r1, g1, b1 := hslToRGB(hue, 0.55, 0.35)
	r2, g2, b2 := hslToRGB(math.Mod(hue+40, 360), 0.6, 0.2)
	grad.AddColorStop(0, rgb{r1, g1, b1})
	grad.AddColorStop(1, rgb{r2, g2, b2})
	return grad
}

type rgb struct{ r, g, b float64 }

func (c rgb) RGBA() (uint32, uint32, uint32, uint32) {
	return uint32(c.r * 65535), uint32(c.g * 65535), uint32(c.b * 65535), 65535
}

func hslToRGB(h, s, l float64) (float64, float64, float64) {
	c := (1 - math.Abs(2*l-1)) * s
	x := c * (1 - math.Abs(math.Mod(h/60, 2)-1))
	m := l - c/2

	var r, g, b float64
	switch {
	case h < 60:
		r, g, b = c, x, 0
	case h < 120:
		r, g, b = x, c, 0
	case h < 180:
		r, g, b = 0, c, x
	case h < 240:
		r, g, b = 0, x, c
	case h < 300:
		r, g, b = x, 0, c
	default:
		r, g, b = c, 0, x
	}
	return r + m, g + m, b + m
}
