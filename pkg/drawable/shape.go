package drawable

// Shape is a filled rounded rectangle.
type Shape struct {
	bounds   Rect
	level    int
	radiusDP float64
	radius   float64
	color    uint32
}

// NewShape builds a shape with a corner radius in density-independent
// units, scaled for ctx.
func NewShape(ctx Context, radiusDP float64, color uint32) *Shape {
	return &Shape{radiusDP: radiusDP, radius: ctx.scale(radiusDP), color: color}
}

func (s *Shape) Bounds() Rect          { return s.bounds }
func (s *Shape) SetBounds(bounds Rect) { s.bounds = bounds }
func (s *Shape) Level() int            { return s.level }

func (s *Shape) SetLevel(level int) bool {
	if s.level == level {
		return false
	}
	s.level = level
	return true
}

// Radius is the corner radius in pixels.
func (s *Shape) Radius() float64 { return s.radius }

// Color is the fill color as 0xAARRGGBB.
func (s *Shape) Color() uint32 { return s.color }

// ChangingConfigurations reports density, since the radius is scaled.
func (s *Shape) ChangingConfigurations() Config { return ConfigDensity }

func (s *Shape) ConstantState() ConstantState {
	return shapeState{radiusDP: s.radiusDP, color: s.color}
}

type shapeState struct {
	radiusDP float64
	color    uint32
}

func (st shapeState) NewDrawable(ctx Context) (Drawable, error) {
	return NewShape(ctx, st.radiusDP, st.color), nil
}

func (st shapeState) ChangingConfigurations() Config { return ConfigDensity }
