// Package models provides the indexed triangle mesh and the loaders that
// build it.
package models

import (
	"fmt"

	"github.com/taigrr/objterm/pkg/math3d"
)

// IndexedTriangle references three points of a Mesh by slot and carries the
// resolved face normal. Winding is canonical: the geometric normal of
// P1, P2, P3 taken in order equals Normal.
type IndexedTriangle struct {
	P1, P2, P3 int
	Normal     math3d.Vec3
}

// Triangle is a materialized copy of an IndexedTriangle.
type Triangle struct {
	P1, P2, P3 math3d.Vec3
	Normal     math3d.Vec3
}

// Mesh is an immutable collection of triangles over a pool of unique points.
type Mesh struct {
	Name      string
	Points    []math3d.Vec3
	Triangles []IndexedTriangle
}

// VertexCount returns the number of unique points.
func (m *Mesh) VertexCount() int {
	return len(m.Points)
}

// TriangleCount returns the number of triangles.
func (m *Mesh) TriangleCount() int {
	return len(m.Triangles)
}

// TriangleAt returns triangle i by value.
func (m *Mesh) TriangleAt(i int) (Triangle, error) {
	if i < 0 || i >= len(m.Triangles) {
		return Triangle{}, fmt.Errorf("triangle %d out of range [0, %d)", i, len(m.Triangles))
	}
	t := m.Triangles[i]
	return Triangle{
		P1:     m.Points[t.P1],
		P2:     m.Points[t.P2],
		P3:     m.Points[t.P3],
		Normal: t.Normal,
	}, nil
}

// Bounds returns the axis-aligned box around every point.
func (m *Mesh) Bounds() (math3d.BoundingBox, bool) {
	return math3d.NewBoundingBox(m.Points)
}

// Edge is an undirected pair of point slots with A < B.
type Edge struct {
	A, B int
}

// Edges returns every distinct edge of the mesh in first-seen order.
func (m *Mesh) Edges() []Edge {
	seen := make(map[Edge]struct{}, len(m.Triangles)*3/2)
	edges := make([]Edge, 0, len(m.Triangles)*3/2)
	add := func(a, b int) {
		if a > b {
			a, b = b, a
		}
		e := Edge{a, b}
		if _, ok := seen[e]; ok {
			return
		}
		seen[e] = struct{}{}
		edges = append(edges, e)
	}
	for _, t := range m.Triangles {
		add(t.P1, t.P2)
		add(t.P2, t.P3)
		add(t.P3, t.P1)
	}
	return edges
}

// MeshBuilder accumulates triangles and deduplicates their points.
type MeshBuilder struct {
	name      string
	pool      *VertexPool
	triangles []IndexedTriangle
}

// NewMeshBuilder creates a builder for a mesh called name.
func NewMeshBuilder(name string) *MeshBuilder {
	return &MeshBuilder{name: name, pool: NewVertexPool(64)}
}

// AddTriangle appends a triangle with the given resolved normal, swapping
// p2 and p3 when needed so the stored winding agrees with normal.
func (b *MeshBuilder) AddTriangle(p1, p2, p3, normal math3d.Vec3) {
	if GeometricNormal(p1, p2, p3) != normal {
		p2, p3 = p3, p2
	}
	b.triangles = append(b.triangles, IndexedTriangle{
		P1:     b.pool.Add(p1),
		P2:     b.pool.Add(p2),
		P3:     b.pool.Add(p3),
		Normal: normal,
	})
}

// TriangleCount returns the number of triangles added so far.
func (b *MeshBuilder) TriangleCount() int {
	return len(b.triangles)
}

// Build returns the finished mesh. The builder must not be used afterwards.
func (b *MeshBuilder) Build() *Mesh {
	return &Mesh{
		Name:      b.name,
		Points:    b.pool.Points(),
		Triangles: b.triangles,
	}
}
