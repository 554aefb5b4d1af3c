package drawable

// Insets are the gaps between a wrapper's bounds and its inner drawable.
type Insets struct {
	Left, Top, Right, Bottom int
}

// Inset places an inner drawable inside its own bounds shrunk by Insets.
type Inset struct {
	inner  Drawable
	insets Insets
	bounds Rect
}

// NewInset wraps inner.
func NewInset(inner Drawable, insets Insets) *Inset {
	return &Inset{inner: inner, insets: insets}
}

func (d *Inset) Bounds() Rect { return d.bounds }

func (d *Inset) SetBounds(bounds Rect) {
	d.bounds = bounds
	if d.inner != nil {
		d.inner.SetBounds(bounds.Inset(d.insets.Left, d.insets.Top, d.insets.Right, d.insets.Bottom))
	}
}

func (d *Inset) Level() int {
	if d.inner == nil {
		return 0
	}
	return d.inner.Level()
}

func (d *Inset) SetLevel(level int) bool {
	if d.inner == nil {
		return false
	}
	return d.inner.SetLevel(level)
}

// Wrapped returns the inner drawable.
func (d *Inset) Wrapped() Drawable { return d.inner }

func (d *Inset) ChangingConfigurations() Config {
	if d.inner == nil {
		return 0
	}
	return d.inner.ChangingConfigurations()
}

func (d *Inset) ConstantState() ConstantState {
	if d.inner == nil {
		return nil
	}
	inner := d.inner.ConstantState()
	if inner == nil {
		return nil
	}
	return insetState{inner: inner, insets: d.insets}
}

type insetState struct {
	inner  ConstantState
	insets Insets
}

func (st insetState) NewDrawable(ctx Context) (Drawable, error) {
	inner, err := st.inner.NewDrawable(ctx)
	if err != nil {
		return nil, err
	}
	return NewInset(inner, st.insets), nil
}

func (st insetState) ChangingConfigurations() Config {
	return st.inner.ChangingConfigurations()
}
