package models

import (
	"math/rand/v2"
	"testing"

	"github.com/taigrr/objterm/pkg/math3d"
)

func TestVertexPoolDedup(t *testing.T) {
	pool := NewVertexPool(0)

	a := pool.Add(math3d.V3(1, 2, 3))
	b := pool.Add(math3d.V3(-1, 0, 0.5))
	c := pool.Add(math3d.V3(1, 2, 3))

	if a != 0 || b != 1 {
		t.Errorf("slots = %d, %d, want 0, 1", a, b)
	}
	if c != a {
		t.Errorf("duplicate point got slot %d, want %d", c, a)
	}
	if pool.Len() != 2 {
		t.Errorf("Len = %d, want 2", pool.Len())
	}
}

func TestVertexPoolAddOrder(t *testing.T) {
	pool := NewVertexPool(0)
	inputs := []math3d.Vec3{
		math3d.V3(3, 0, 0),
		math3d.V3(1, 0, 0),
		math3d.V3(3, 0, 0),
		math3d.V3(2, 0, 0),
		math3d.V3(1, 0, 0),
	}
	for _, p := range inputs {
		pool.Add(p)
	}

	for i, want := range inputs {
		got, ok := pool.AddedAt(i)
		if !ok || got != want {
			t.Errorf("AddedAt(%d) = %v, %v; want %v", i, got, ok, want)
		}
	}
	if _, ok := pool.AddedAt(len(inputs)); ok {
		t.Error("AddedAt past the end reported ok")
	}

	// First-insertion order of unique points.
	want := []math3d.Vec3{math3d.V3(3, 0, 0), math3d.V3(1, 0, 0), math3d.V3(2, 0, 0)}
	for i, p := range pool.Points() {
		if p != want[i] {
			t.Errorf("Points()[%d] = %v, want %v", i, p, want[i])
		}
	}
}

func TestVertexPoolRandom(t *testing.T) {
	rng := rand.New(rand.NewPCG(1, 2))
	pool := NewVertexPool(0)
	slots := map[math3d.Vec3]int{}

	for range 2000 {
		// Small coordinate range forces plenty of duplicates.
		p := math3d.V3(float64(rng.IntN(8)), float64(rng.IntN(8)), float64(rng.IntN(4))/2)
		idx := pool.Add(p)
		if prev, ok := slots[p]; ok && prev != idx {
			t.Fatalf("point %v moved from slot %d to %d", p, prev, idx)
		}
		slots[p] = idx
	}

	if pool.Len() != len(slots) {
		t.Errorf("Len = %d, want %d", pool.Len(), len(slots))
	}
	for p, idx := range slots {
		if pool.Points()[idx] != p {
			t.Errorf("slot %d holds %v, want %v", idx, pool.Points()[idx], p)
		}
	}
}

func BenchmarkVertexPoolAdd(b *testing.B) {
	rng := rand.New(rand.NewPCG(3, 4))
	points := make([]math3d.Vec3, 4096)
	for i := range points {
		points[i] = math3d.V3(rng.Float64(), rng.Float64(), rng.Float64())
	}

	for b.Loop() {
		pool := NewVertexPool(len(points))
		for _, p := range points {
			pool.Add(p)
		}
	}
}
