package pixel

// Buffer is a fixed-length pixel array. Its length always equals the bound
// view's slot count; it is allocated once and reused every tick, never
// reallocated per frame.
type Buffer struct {
	colors []Color
}

// NewBuffer allocates a buffer of n transparent pixels.
func NewBuffer(n int) *Buffer {
	return &Buffer{colors: make([]Color, n)}
}

// Len returns the pixel count.
func (b *Buffer) Len() int {
	return len(b.colors)
}

// Get returns the pixel at i.
func (b *Buffer) Get(i int) Color {
	return b.colors[i]
}

// Set writes the pixel at i.
func (b *Buffer) Set(i int, c Color) {
	b.colors[i] = c
}

// Fill sets every pixel to c.
func (b *Buffer) Fill(c Color) {
	for i := range b.colors {
		b.colors[i] = c
	}
}

// CopyFrom copies src's pixels into b. Lengths must match.
func (b *Buffer) CopyFrom(src *Buffer) {
	copy(b.colors, src.colors)
}

// Colors exposes the backing slice for read-only consumers (preview UIs,
// output encoders). Callers must not mutate it.
func (b *Buffer) Colors() []Color {
	return b.colors
}
