package model

// Point is a fixture location in normalized model space.
type Point struct {
	X, Y, Z float64
}

// Model is the spatial point set the engine renders against. The point list is
// fixed for the model's lifetime; buffers are sized to PointCount once.
type Model struct {
	points []Point
}

// NewStrip creates a linear model of n points along X, normalized 0..1.
func NewStrip(n int) *Model {
	pts := make([]Point, n)
	for i := range pts {
		x := 0.0
		if n > 1 {
			x = float64(i) / float64(n-1)
		}
		pts[i] = Point{X: x, Y: 0.5}
	}
	return &Model{points: pts}
}

// NewGrid creates a w*h model in row-major order, normalized 0..1 on both axes.
func NewGrid(w, h int) *Model {
	pts := make([]Point, 0, w*h)
	for row := 0; row < h; row++ {
		y := 0.0
		if h > 1 {
			y = float64(row) / float64(h-1)
		}
		for col := 0; col < w; col++ {
			x := 0.0
			if w > 1 {
				x = float64(col) / float64(w-1)
			}
			pts = append(pts, Point{X: x, Y: y})
		}
	}
	return &Model{points: pts}
}

// PointCount returns the number of points in the model.
func (m *Model) PointCount() int {
	return len(m.points)
}

// Point returns the point at index i.
func (m *Model) Point(i int) Point {
	return m.points[i]
}

// FullView returns a view covering every model point in order.
func (m *Model) FullView() *View {
	indices := make([]int, len(m.points))
	for i := range indices {
		indices[i] = i
	}
	return &View{model: m, indices: indices}
}

// NoIndex marks a view slot with no backing model point. It renders as
// nothing rather than erroring.
const NoIndex = -1

// View is a restricted or remapped window onto a model's index space.
type View struct {
	model   *Model
	indices []int
}

// NewView creates a view over the given model indices. Entries may be NoIndex.
func NewView(m *Model, indices []int) *View {
	return &View{model: m, indices: indices}
}

// Size returns the number of slots in the view.
func (v *View) Size() int {
	return len(v.indices)
}

// Model returns the backing model.
func (v *View) Model() *Model {
	return v.model
}

// ModelIndex maps a view slot to its model index, or NoIndex for a hole.
func (v *View) ModelIndex(i int) int {
	if i < 0 || i >= len(v.indices) {
		return NoIndex
	}
	return v.indices[i]
}

// Point returns the model point behind view slot i. ok is false for holes.
func (v *View) Point(i int) (Point, bool) {
	mi := v.ModelIndex(i)
	if mi == NoIndex {
		return Point{}, false
	}
	return v.model.points[mi], true
}

// Normal returns the slot's position normalized 0..1 along the view, which is
// what generators key their animation on. Holes still occupy a slot.
func (v *View) Normal(i int) float64 {
	if len(v.indices) <= 1 {
		return 0
	}
	return float64(i) / float64(len(v.indices)-1)
}
