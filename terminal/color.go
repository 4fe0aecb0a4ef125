package terminal

import (
	"os"
	"strings"
)

// ColorProfile indicates terminal color capability
type ColorProfile uint8

const (
	Profile256       ColorProfile = iota // xterm-256 palette
	ProfileTrueColor                     // 24-bit RGB
)

// Color cube values for the 6x6x6 palette (indices 16-231)
// Levels: 0, 95, 135, 175, 215, 255
var cubeValues = [6]uint8{0, 95, 135, 175, 215, 255}

const grayscaleStart = 232

func absInt(x int) int {
	if x < 0 {
		return -x
	}
	return x
}

func nearestCube(v uint8) uint8 {
	best := 0
	bestDist := absInt(int(v) - int(cubeValues[0]))
	for j := 1; j < 6; j++ {
		d := absInt(int(v) - int(cubeValues[j]))
		if d < bestDist {
			bestDist = d
			best = j
		}
	}
	return uint8(best)
}

// RGBTo256 finds the nearest 256-color palette index for an RGB value
func RGBTo256(r, g, b uint8) uint8 {
	// Grayscale ramp: 232-255 covers luminance 8, 18, ..., 238
	gray := (int(r) + int(g) + int(b)) / 3
	maxDiff := max(absInt(int(r)-gray), absInt(int(g)-gray), absInt(int(b)-gray))

	if maxDiff < 10 {
		if gray < 4 {
			return 16
		}
		if gray > 243 {
			return 231
		}
		grayIdx := grayscaleStart + (gray-8)/10
		if grayIdx > 255 {
			grayIdx = 255
		}

		grayLevel := 8 + (grayIdx-grayscaleStart)*10
		grayDist := absInt(int(r)-grayLevel) + absInt(int(g)-grayLevel) + absInt(int(b)-grayLevel)

		cr, cg, cb := nearestCube(r), nearestCube(g), nearestCube(b)
		cubeDist := absInt(int(r)-int(cubeValues[cr])) +
			absInt(int(g)-int(cubeValues[cg])) +
			absInt(int(b)-int(cubeValues[cb]))

		if grayDist < cubeDist {
			return uint8(grayIdx)
		}
	}

	return 16 + 36*nearestCube(r) + 6*nearestCube(g) + nearestCube(b)
}

// DetectColorProfile determines terminal color capability from environment
func DetectColorProfile() ColorProfile {
	// COLORTERM has highest priority, set by modern terminals
	colorterm := os.Getenv("COLORTERM")
	if colorterm == "truecolor" || colorterm == "24bit" {
		return ProfileTrueColor
	}

	for _, v := range []string{
		"KITTY_WINDOW_ID",
		"KONSOLE_VERSION",
		"ITERM_SESSION_ID",
		"ALACRITTY_WINDOW_ID",
		"WEZTERM_PANE",
	} {
		if os.Getenv(v) != "" {
			return ProfileTrueColor
		}
	}

	term := strings.ToLower(os.Getenv("TERM"))
	if strings.Contains(term, "truecolor") ||
		strings.Contains(term, "24bit") ||
		strings.Contains(term, "direct") {
		return ProfileTrueColor
	}

	return Profile256
}
