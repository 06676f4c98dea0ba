package shading

import (
	"sync"

	"github.com/Faultbox/gltfview/internal/material"
	sg "github.com/Faultbox/gltfview/internal/shadergraph"
)

// MaterialSource provides material descriptors by index. Out of range
// indices yield the default material.
type MaterialSource interface {
	Get(index int) *material.Material
}

// Cache compiles each material at most once.
type Cache struct {
	src    MaterialSource
	opts   []Option
	graphs map[int]*sg.Graph
	mu     sync.Mutex

	// Stats
	hits   int
	misses int
}

// NewCache creates a shader cache over a material source.
func NewCache(src MaterialSource, opts ...Option) *Cache {
	return &Cache{
		src:    src,
		opts:   opts,
		graphs: make(map[int]*sg.Graph),
	}
}

// Resolve returns the material index a primitive uses under a variant.
// variants maps variant index to material index; a variant of -1 or one
// without a mapping keeps the primitive's own material.
func Resolve(index int, variants map[int]int, variant int) int {
	if variant < 0 {
		return index
	}
	if m, ok := variants[variant]; ok {
		return m
	}
	return index
}

// Shader returns the compiled graph for a primitive's material under the
// active variant.
func (c *Cache) Shader(index int, variants map[int]int, variant int) *sg.Graph {
	m := c.src.Get(Resolve(index, variants, variant))

	c.mu.Lock()
	defer c.mu.Unlock()
	if g, ok := c.graphs[m.Index]; ok {
		c.hits++
		return g
	}
	c.misses++
	g := Compile(m, c.opts...)
	c.graphs[m.Index] = g
	return g
}

// Len returns the number of compiled graphs.
func (c *Cache) Len() int {
	c.mu.Lock()
	defer c.mu.Unlock()
	return len(c.graphs)
}

// Stats returns cache statistics.
func (c *Cache) Stats() (hits, misses int) {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.hits, c.misses
}
