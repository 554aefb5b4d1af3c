package drawable

import "fmt"

// RoundedProgress draws a progress bar whose leading edge keeps a rounded
// cap as wide as the bar is tall. The wrapped drawable is given the visible
// rect and a level equal to the progress span.
//
// Geometry is recomputed from the drawable's own bounds on every bounds,
// level and layout direction change, so it depends only on current inputs.
type RoundedProgress struct {
	inner     Wrapper
	bounds    Rect
	level     int
	direction LayoutDirection
	configs   Config
}

// NewRoundedProgress wraps inner.
func NewRoundedProgress(inner Wrapper) *RoundedProgress {
	return &RoundedProgress{inner: inner}
}

func (p *RoundedProgress) Bounds() Rect { return p.bounds }

func (p *RoundedProgress) SetBounds(bounds Rect) {
	p.bounds = bounds
	p.recompute()
}

func (p *RoundedProgress) Level() int { return p.level }

// SetLevel stores level and recomputes geometry. Levels are not clamped.
func (p *RoundedProgress) SetLevel(level int) bool {
	changed := p.level != level
	p.level = level
	p.recompute()
	return changed
}

// LayoutDirection returns the current direction.
func (p *RoundedProgress) LayoutDirection() LayoutDirection { return p.direction }

// SetLayoutDirection stores direction and recomputes geometry.
func (p *RoundedProgress) SetLayoutDirection(direction LayoutDirection) bool {
	changed := p.direction != direction
	p.direction = direction
	p.recompute()
	return changed
}

// SetChangingConfigurations records extra configuration dependencies.
func (p *RoundedProgress) SetChangingConfigurations(configs Config) {
	p.configs = configs
}

// Visible returns the rect currently given to the wrapped drawable.
func (p *RoundedProgress) Visible() Rect {
	return VisibleRect(p.bounds, p.level)
}

// Wrapped returns the inner drawable.
func (p *RoundedProgress) Wrapped() Drawable { return p.inner }

func (p *RoundedProgress) recompute() {
	if p.inner == nil {
		return
	}
	p.inner.SetBounds(VisibleRect(p.bounds, p.level))
	p.inner.SetLevel(ProgressSpan(p.bounds, p.level))
}

// ChangingConfigurations always includes density.
func (p *RoundedProgress) ChangingConfigurations() Config {
	configs := p.configs | ConfigDensity
	if p.inner != nil {
		configs |= p.inner.ChangingConfigurations()
	}
	return configs
}

// ConstantState returns nil when the wrapped drawable cannot be cloned.
func (p *RoundedProgress) ConstantState() ConstantState {
	if p.inner == nil {
		return nil
	}
	wrapped := p.inner.ConstantState()
	if wrapped == nil {
		return nil
	}
	return &RoundedState{wrapped: wrapped, configs: p.configs}
}

// RoundedState is the constant state of a RoundedProgress.
type RoundedState struct {
	wrapped ConstantState
	configs Config
}

// NewRoundedState builds a state that clones drawables from wrapped.
func NewRoundedState(wrapped ConstantState) *RoundedState {
	return &RoundedState{wrapped: wrapped}
}

// NewDrawable instantiates the wrapped drawable for ctx and wraps it in a
// fresh RoundedProgress. Each call returns an independent instance. It fails
// with *NotWrappableError when the wrapped state does not produce a Wrapper.
func (s *RoundedState) NewDrawable(ctx Context) (Drawable, error) {
	if s == nil || s.wrapped == nil {
		return nil, fmt.Errorf("drawable: rounded state has no wrapped state")
	}
	d, err := s.wrapped.NewDrawable(ctx)
	if err != nil {
		return nil, err
	}
	w, ok := d.(Wrapper)
	if !ok {
		return nil, &NotWrappableError{Type: fmt.Sprintf("%T", d)}
	}
	p := NewRoundedProgress(w)
	p.configs = s.configs
	return p, nil
}

// ChangingConfigurations is the wrapped state's set. Density is added by
// the drawable, not the state.
func (s *RoundedState) ChangingConfigurations() Config {
	configs := s.configs
	if s.wrapped != nil {
		configs |= s.wrapped.ChangingConfigurations()
	}
	return configs
}
