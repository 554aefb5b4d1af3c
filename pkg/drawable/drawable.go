package drawable

import (
	"errors"
	"fmt"
)

// Config is a bit set of configuration changes a drawable depends on.
type Config uint32

// Configuration bits.
const (
	ConfigOrientation     Config = 0x0080
	ConfigDensity         Config = 0x1000
	ConfigLayoutDirection Config = 0x2000
)

// LayoutDirection is the horizontal reading direction.
type LayoutDirection int

const (
	LayoutLTR LayoutDirection = iota
	LayoutRTL
)

// Context is the rendering context a drawable is instantiated for.
type Context struct {
	// Density scales density-independent sizes to pixels. Zero means 1.
	Density float64
	Theme   string
}

func (c Context) scale(dp float64) float64 {
	if c.Density == 0 {
		return dp
	}
	return dp * c.Density
}

// Drawable is anything with bounds and a level.
type Drawable interface {
	Bounds() Rect
	SetBounds(Rect)
	Level() int
	// SetLevel reports whether the level changed.
	SetLevel(level int) bool
	ChangingConfigurations() Config
	// ConstantState returns nil when the drawable cannot be cloned.
	ConstantState() ConstantState
}

// Wrapper is a drawable that delegates to an inner drawable.
type Wrapper interface {
	Drawable
	Wrapped() Drawable
}

// ConstantState recreates equivalent drawables. It is immutable and may be
// shared by every drawable cloned from it.
type ConstantState interface {
	NewDrawable(ctx Context) (Drawable, error)
	ChangingConfigurations() Config
}

// ErrNotWrappable is returned when a constant state produces a drawable that
// does not implement Wrapper.
var ErrNotWrappable = errors.New("drawable: not a wrapper")

// NotWrappableError names the offending drawable type.
type NotWrappableError struct {
	Type string
}

func (e *NotWrappableError) Error() string {
	return fmt.Sprintf("drawable: %s does not wrap another drawable", e.Type)
}

// Unwrap returns ErrNotWrappable.
func (e *NotWrappableError) Unwrap() error {
	return ErrNotWrappable
}
