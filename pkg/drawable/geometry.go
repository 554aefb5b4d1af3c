// Package drawable models level-driven progress drawables: the visible
// geometry of a rounded progress bar and the constant-state contract used to
// clone a style per rendering context.
package drawable

// MaxLevel is the level of a full progress bar.
const MaxLevel = 10000

// Rect is an integer rectangle using left, top, right, bottom coordinates.
type Rect struct {
	Left   int `json:"left" yaml:"left"`
	Top    int `json:"top" yaml:"top"`
	Right  int `json:"right" yaml:"right"`
	Bottom int `json:"bottom" yaml:"bottom"`
}

// RectFromLTWH constructs a Rect from left, top, width, height values.
func RectFromLTWH(left, top, width, height int) Rect {
	return Rect{
		Left:   left,
		Top:    top,
		Right:  left + width,
		Bottom: top + height,
	}
}

// Width returns the width of the rectangle.
func (r Rect) Width() int {
	return r.Right - r.Left
}

// Height returns the height of the rectangle.
func (r Rect) Height() int {
	return r.Bottom - r.Top
}

// Inset shrinks r by the given amounts on each side.
func (r Rect) Inset(left, top, right, bottom int) Rect {
	return Rect{
		Left:   r.Left + left,
		Top:    r.Top + top,
		Right:  r.Right - right,
		Bottom: r.Bottom - bottom,
	}
}

// ProgressSpan is the part of the bar beyond its leading rounded cap:
// (width - height) * level / MaxLevel, truncated toward zero. It is negative
// when bounds are taller than wide and level is positive.
func ProgressSpan(bounds Rect, level int) int {
	return int(int64(bounds.Width()-bounds.Height()) * int64(level) / MaxLevel)
}

// VisibleRect is the part of bounds drawn at level. Its width is the bounds
// height at level 0 and the bounds width at MaxLevel.
func VisibleRect(bounds Rect, level int) Rect {
	return Rect{
		Left:   bounds.Left,
		Top:    bounds.Top,
		Right:  bounds.Left + bounds.Height() + ProgressSpan(bounds, level),
		Bottom: bounds.Bottom,
	}
}
