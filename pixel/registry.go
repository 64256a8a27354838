package pixel

import (
	"fmt"
	"sort"
)

// Registry instantiates blends by identifier. It is an explicit value passed
// into the engines rather than a package-level lookup, so tests and embedders
// can carry independent blend sets.
type Registry struct {
	blends map[string]Blend
}

// NewRegistry creates an empty registry.
func NewRegistry() *Registry {
	return &Registry{blends: make(map[string]Blend)}
}

// DefaultRegistry creates a registry holding every built-in blend.
func DefaultRegistry() *Registry {
	r := NewRegistry()
	for _, b := range []Blend{
		NewNormalBlend(),
		NewAddBlend(),
		NewSubtractBlend(),
		NewMultiplyBlend(),
		NewScreenBlend(),
		NewLightestBlend(),
		NewDarkestBlend(),
		NewDifferenceBlend(),
		NewDissolveBlend(),
		NewHSVBlend(),
	} {
		r.Register(b)
	}
	return r
}

// Register adds a blend. Registering a name twice is a programming error.
func (r *Registry) Register(b Blend) error {
	if _, ok := r.blends[b.Name()]; ok {
		return fmt.Errorf("blend %q already registered", b.Name())
	}
	r.blends[b.Name()] = b
	return nil
}

// Get returns the blend registered under name.
func (r *Registry) Get(name string) (Blend, error) {
	b, ok := r.blends[name]
	if !ok {
		return nil, fmt.Errorf("unknown blend %q", name)
	}
	return b, nil
}

// MustGet is Get for wiring code with known-good names.
func (r *Registry) MustGet(name string) Blend {
	b, err := r.Get(name)
	if err != nil {
		panic(err)
	}
	return b
}

// Names returns the registered blend names, sorted.
func (r *Registry) Names() []string {
	names := make([]string, 0, len(r.blends))
	for name := range r.blends {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}
