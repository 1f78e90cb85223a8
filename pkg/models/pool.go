package models

import (
	"bytes"
	"sort"

	"github.com/taigrr/objterm/pkg/math3d"
)

// VertexPool stores unique points. Points that are bit-identical share a
// single slot; slots are numbered in first-insertion order and never move.
type VertexPool struct {
	points []math3d.Vec3
	// keys is sorted by key and maps each key to its slot in points.
	keys []poolKey
	// added records the slot returned by every Add call, in call order.
	added []int
}

type poolKey struct {
	key   [math3d.KeySize]byte
	index int
}

// NewVertexPool creates an empty pool with room for n points.
func NewVertexPool(n int) *VertexPool {
	return &VertexPool{
		points: make([]math3d.Vec3, 0, n),
		keys:   make([]poolKey, 0, n),
	}
}

// Add returns the slot of p, inserting it when no bit-identical point exists.
func (vp *VertexPool) Add(p math3d.Vec3) int {
	k := p.Key()
	i := sort.Search(len(vp.keys), func(i int) bool {
		return bytes.Compare(vp.keys[i].key[:], k[:]) >= 0
	})
	if i < len(vp.keys) && vp.keys[i].key == k {
		idx := vp.keys[i].index
		vp.added = append(vp.added, idx)
		return idx
	}

	idx := len(vp.points)
	vp.points = append(vp.points, p)
	vp.keys = append(vp.keys, poolKey{})
	copy(vp.keys[i+1:], vp.keys[i:])
	vp.keys[i] = poolKey{key: k, index: idx}
	vp.added = append(vp.added, idx)
	return idx
}

// AddedAt returns the point passed to the n-th Add call.
func (vp *VertexPool) AddedAt(n int) (math3d.Vec3, bool) {
	if n < 0 || n >= len(vp.added) {
		return math3d.Vec3{}, false
	}
	return vp.points[vp.added[n]], true
}

// Len returns the number of unique points.
func (vp *VertexPool) Len() int {
	return len(vp.points)
}

// Points returns the unique points in first-insertion order.
// The slice is shared with the pool.
func (vp *VertexPool) Points() []math3d.Vec3 {
	return vp.points
}
