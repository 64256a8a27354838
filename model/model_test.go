package model

import "testing"

func TestNewStrip(t *testing.T) {
	m := NewStrip(5)
	if m.PointCount() != 5 {
		t.Fatalf("PointCount = %d, want 5", m.PointCount())
	}
	if m.Point(0).X != 0 {
		t.Errorf("first point X = %v, want 0", m.Point(0).X)
	}
	if m.Point(4).X != 1 {
		t.Errorf("last point X = %v, want 1", m.Point(4).X)
	}
}

func TestNewGrid(t *testing.T) {
	m := NewGrid(4, 3)
	if m.PointCount() != 12 {
		t.Fatalf("PointCount = %d, want 12", m.PointCount())
	}
	// Row-major: index 5 is row 1, col 1
	p := m.Point(5)
	if p.X != 1.0/3.0 {
		t.Errorf("X = %v, want 1/3", p.X)
	}
	if p.Y != 0.5 {
		t.Errorf("Y = %v, want 0.5", p.Y)
	}
}

func TestFullView(t *testing.T) {
	m := NewStrip(8)
	v := m.FullView()
	if v.Size() != 8 {
		t.Fatalf("Size = %d, want 8", v.Size())
	}
	for i := 0; i < 8; i++ {
		if v.ModelIndex(i) != i {
			t.Errorf("ModelIndex(%d) = %d", i, v.ModelIndex(i))
		}
	}
}

func TestViewHoles(t *testing.T) {
	m := NewStrip(4)
	v := NewView(m, []int{3, NoIndex, 1})

	if v.Size() != 3 {
		t.Fatalf("Size = %d, want 3", v.Size())
	}
	if v.ModelIndex(0) != 3 {
		t.Errorf("ModelIndex(0) = %d, want 3", v.ModelIndex(0))
	}
	if _, ok := v.Point(1); ok {
		t.Error("Point(1) should report a hole")
	}
	if p, ok := v.Point(2); !ok || p.X != 1.0/3.0 {
		t.Errorf("Point(2) = %v ok=%v", p, ok)
	}
	// Out of range is a hole, not a panic
	if v.ModelIndex(99) != NoIndex {
		t.Error("out of range should be NoIndex")
	}
}

func TestViewNormal(t *testing.T) {
	m := NewStrip(10)
	v := NewView(m, []int{0, 1, 2, 3, 4})
	if v.Normal(0) != 0 {
		t.Errorf("Normal(0) = %v", v.Normal(0))
	}
	if v.Normal(4) != 1 {
		t.Errorf("Normal(4) = %v", v.Normal(4))
	}
	if v.Normal(2) != 0.5 {
		t.Errorf("Normal(2) = %v", v.Normal(2))
	}

	single := NewView(m, []int{0})
	if single.Normal(0) != 0 {
		t.Errorf("single-slot Normal = %v", single.Normal(0))
	}
}
