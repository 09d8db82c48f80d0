package motion

import (
	"math/rand/v2"
	"sort"
	"time"
)

// Preset builds the configuration of a named effect for a seed.
type Preset func(seed uint64) EffectConfig

var presets = map[string]Preset{
	"ink":   InkPreset,
	"rain":  RainPreset,
	"float": FloatPreset,
}

// Lookup returns the named preset.
func Lookup(name string) (Preset, bool) {
	p, ok := presets[name]
	return p, ok
}

// Presets lists the preset names in sorted order.
func Presets() []string {
	names := make([]string, 0, len(presets))
	for n := range presets {
		names = append(names, n)
	}
	sort.Strings(names)
	return names
}

func between(rng *rand.Rand, lo, hi float64) float64 {
	return lo + rng.Float64()*(hi-lo)
}

func durationBetween(rng *rand.Rand, lo, hi time.Duration) time.Duration {
	if hi <= lo {
		return lo
	}
	return lo + time.Duration(rng.Int64N(int64(hi-lo)))
}

// InkPreset is a one-shot splash of ink fragments falling from the top edge.
func InkPreset(seed uint64) EffectConfig {
	return EffectConfig{
		Name:     "ink",
		Capacity: 48,
		Mode:     FireOnce,
		Burst:    48,
		Seed:     seed,
		Emit: func(rng *rand.Rand, b Rect, pt *Particle) {
			pt.X = b.X + rng.Float64()*b.Width
			pt.Y = b.Y + rng.Float64()*b.Height*0.1
			pt.VX = between(rng, -15, 15)
			pt.VY = between(rng, 20, 60)
			pt.AY = 240
			pt.Size = between(rng, 2, 6)
			pt.Peak = between(rng, 0.6, 1)
			pt.Delay = durationBetween(rng, 0, 300*time.Millisecond)
			pt.Life = durationBetween(rng, 400*time.Millisecond, 900*time.Millisecond)
			pt.Fade = 600 * time.Millisecond
		},
	}
}

var rainGlyphs = []rune("01<>/{}アイウエオカキクケコ")

// RainPreset streams glyphs down the element while it is at least a fifth
// visible.
func RainPreset(seed uint64) EffectConfig {
	return EffectConfig{
		Name:      "rain",
		Capacity:  160,
		Mode:      FireEveryTime,
		Threshold: 0.2,
		Rate:      40,
		Seed:      seed,
		Emit: func(rng *rand.Rand, b Rect, pt *Particle) {
			pt.X = b.X + rng.Float64()*b.Width
			pt.Y = b.Y
			pt.VY = between(rng, 200, 400)
			pt.Size = between(rng, 10, 16)
			pt.Glyph = rainGlyphs[rng.IntN(len(rainGlyphs))]
			pt.Peak = between(rng, 0.4, 0.9)
			pt.Life = durationBetween(rng, time.Second, 2*time.Second)
			pt.Fade = 400 * time.Millisecond
		},
	}
}

// FloatPreset lets a few soft shapes drift upward while visible.
func FloatPreset(seed uint64) EffectConfig {
	return EffectConfig{
		Name:     "float",
		Capacity: 24,
		Mode:     FireEveryTime,
		Burst:    6,
		Rate:     3,
		Seed:     seed,
		Emit: func(rng *rand.Rand, b Rect, pt *Particle) {
			pt.X = b.X + rng.Float64()*b.Width
			pt.Y = b.Y + b.Height*between(rng, 0.6, 1)
			pt.VX = between(rng, -6, 6)
			pt.VY = between(rng, -25, -10)
			pt.Size = between(rng, 12, 40)
			pt.Peak = between(rng, 0.15, 0.4)
			pt.Life = durationBetween(rng, 3*time.Second, 5*time.Second)
			pt.Fade = 1500 * time.Millisecond
		},
	}
}
