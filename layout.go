package glide

// ============================================================================
// Axis Measurement
// ============================================================================

// Axis selects the scrolling direction. Measurement code is written once and
// reads sizes through the axis instead of duplicating per orientation.
type Axis uint8

const (
	Vertical Axis = iota
	Horizontal
)

func (a Axis) String() string {
	if a == Horizontal {
		return "horizontal"
	}
	return "vertical"
}

// Size is a width and height in layout units.
type Size struct {
	Width, Height float32
}

// Main returns the extent of s along the axis.
func (a Axis) Main(s Size) float32 {
	if a == Horizontal {
		return s.Width
	}
	return s.Height
}

// Cross returns the extent of s across the axis.
func (a Axis) Cross(s Size) float32 {
	if a == Horizontal {
		return s.Height
	}
	return s.Width
}

// Insets is padding on each edge, in CSS order.
type Insets struct {
	Top, Right, Bottom, Left float32
}

// Along returns the leading and trailing padding on the axis.
func (a Axis) Along(in Insets) (start, end float32) {
	if a == Horizontal {
		return in.Left, in.Right
	}
	return in.Top, in.Bottom
}

// Metrics are the two extents the scroll range is derived from.
type Metrics struct {
	// Content is the stacked size of all children plus spacing.
	Content float32

	// Viewport is the container size minus padding.
	Viewport float32
}

// Range returns the scroll range these metrics produce.
func (m Metrics) Range() Range {
	return NewRange(m.Content, m.Viewport)
}

// Measure stacks children one after another along axis, separated by
// spacing, the way a linear container lays them out. Negative child sizes
// count as zero.
func Measure(axis Axis, container Size, padding Insets, spacing float32, children []Size) Metrics {
	var content float32
	for i, child := range children {
		if i > 0 && spacing > 0 {
			content += spacing
		}
		if main := axis.Main(child); main > 0 {
			content += main
		}
	}

	start, end := axis.Along(padding)
	viewport := axis.Main(container) - start - end
	if viewport < 0 {
		viewport = 0
	}
	return Metrics{Content: content, Viewport: viewport}
}
