package vmath

import (
	"errors"
	"fmt"
	"sort"
)

// CurveLUTSize defines resolution of the baked curve lookup table
const CurveLUTSize = 256

// curveLUTMax is the highest LUT index
const curveLUTMax = CurveLUTSize - 1

// Keyframe is one authored (x, y) point of a Curve, x in [0, 1]
type Keyframe struct {
	X float64 `mapstructure:"x"`
	Y float64 `mapstructure:"y"`
}

// Curve is a piecewise-linear function over [0, 1] baked into a LUT
// Immutable after construction, safe for concurrent Evaluate
type Curve struct {
	keys []Keyframe
	lut  [CurveLUTSize]float64
}

var (
	ErrCurveEmpty     = errors.New("curve has no keyframes")
	ErrCurveRange     = errors.New("curve keyframe x outside [0, 1]")
	ErrCurveDuplicate = errors.New("curve keyframes share an x value")
	ErrCurveNotFinite = errors.New("curve keyframe is not finite")
)

// NewCurve validates keys, sorts them by x and bakes the LUT
// Input outside the first/last key holds the end value
func NewCurve(keys ...Keyframe) (*Curve, error) {
	if len(keys) == 0 {
		return nil, ErrCurveEmpty
	}

	sorted := make([]Keyframe, len(keys))
	copy(sorted, keys)
	sort.Slice(sorted, func(i, j int) bool { return sorted[i].X < sorted[j].X })

	for i, k := range sorted {
		if !IsFinite(k.X) || !IsFinite(k.Y) {
			return nil, fmt.Errorf("key %d: %w", i, ErrCurveNotFinite)
		}
		if k.X < 0 || k.X > 1 {
			return nil, fmt.Errorf("key %d (x=%g): %w", i, k.X, ErrCurveRange)
		}
		if i > 0 && k.X == sorted[i-1].X {
			return nil, fmt.Errorf("key %d (x=%g): %w", i, k.X, ErrCurveDuplicate)
		}
	}

	c := &Curve{keys: sorted}
	for i := 0; i < CurveLUTSize; i++ {
		c.lut[i] = c.sample(float64(i) / curveLUTMax)
	}
	return c, nil
}

// MustCurve is NewCurve for package-level literals, panics on invalid keys
func MustCurve(keys ...Keyframe) *Curve {
	c, err := NewCurve(keys...)
	if err != nil {
		panic(err)
	}
	return c
}

// ConstantCurve returns a curve that evaluates to y everywhere
func ConstantCurve(y float64) *Curve {
	return MustCurve(Keyframe{X: 0, Y: y})
}

// Evaluate returns the curve value at x, x clamped to [0, 1]
// O(1) with linear interpolation between LUT entries
func (c *Curve) Evaluate(x float64) float64 {
	if c == nil {
		return 0
	}
	if !IsFinite(x) {
		x = 0
	}
	pos := Clamp01(x) * curveLUTMax
	idx := int(pos)
	if idx >= curveLUTMax {
		return c.lut[curveLUTMax]
	}
	frac := pos - float64(idx)
	return Lerp(c.lut[idx], c.lut[idx+1], frac)
}

// Keys returns a copy of the sorted keyframes
func (c *Curve) Keys() []Keyframe {
	out := make([]Keyframe, len(c.keys))
	copy(out, c.keys)
	return out
}

// sample evaluates the keyframes directly, used only while baking
func (c *Curve) sample(x float64) float64 {
	keys := c.keys
	if x <= keys[0].X {
		return keys[0].Y
	}
	last := keys[len(keys)-1]
	if x >= last.X {
		return last.Y
	}
	i := sort.Search(len(keys), func(i int) bool { return keys[i].X >= x })
	a, b := keys[i-1], keys[i]
	t := (x - a.X) / (b.X - a.X)
	return Lerp(a.Y, b.Y, t)
}
