package models

import (
	"path/filepath"
	"strings"
	"testing"

	"github.com/qmuntal/gltf"

	"github.com/taigrr/objterm/pkg/math3d"
)

func TestLoadGLBInvalidPath(t *testing.T) {
	_, err := LoadGLB("/nonexistent/path.glb")
	if err == nil {
		t.Error("Expected error for nonexistent file")
	}
}

func TestExportGLBRoundTrip(t *testing.T) {
	objData := `
v -1 -1 0
v  1 -1 0
v  1  1 0
v -1  1 0
v  0  0 1
f 1 2 5
f 2 3 5
f 3 4 5
f 4 1 5
f 1 4 3 2
`
	mesh, err := NewOBJLoader().Load(strings.NewReader(objData), "pyramid")
	if err != nil {
		t.Fatalf("load: %v", err)
	}

	path := filepath.Join(t.TempDir(), "pyramid.glb")
	if err := ExportGLB(mesh, path); err != nil {
		t.Fatalf("ExportGLB: %v", err)
	}

	doc, err := gltf.Open(path)
	if err != nil {
		t.Fatalf("gltf.Open: %v", err)
	}
	if len(doc.Meshes) != 1 || doc.Meshes[0].Name != "pyramid" {
		t.Fatalf("unexpected meshes in document: %d", len(doc.Meshes))
	}

	back, err := LoadGLB(path)
	if err != nil {
		t.Fatalf("LoadGLB: %v", err)
	}
	if back.TriangleCount() != mesh.TriangleCount() {
		t.Fatalf("triangles = %d, want %d", back.TriangleCount(), mesh.TriangleCount())
	}
	if back.VertexCount() != mesh.VertexCount() {
		t.Errorf("vertices = %d, want %d", back.VertexCount(), mesh.VertexCount())
	}

	// Coordinates are small integers and survive float32 exactly.
	for i := range mesh.Triangles {
		want, _ := mesh.TriangleAt(i)
		got, _ := back.TriangleAt(i)
		if got.P1 != want.P1 || got.P2 != want.P2 || got.P3 != want.P3 {
			t.Errorf("triangle %d = %+v, want %+v", i, got, want)
		}
		if !got.Normal.ApproxEqual(want.Normal, 1e-6) {
			t.Errorf("triangle %d normal = %v, want %v", i, got.Normal, want.Normal)
		}
	}
}

func TestExportEmptyMesh(t *testing.T) {
	if _, err := NewGLTFDocument(&Mesh{Name: "empty"}); err == nil {
		t.Error("expected error exporting a mesh without triangles")
	}
}

func TestGLTFDocumentSharesCorners(t *testing.T) {
	b := NewMeshBuilder("square")
	n := math3d.V3(0, 0, 1)
	b.AddTriangle(math3d.V3(0, 0, 0), math3d.V3(1, 0, 0), math3d.V3(1, 1, 0), n)
	b.AddTriangle(math3d.V3(1, 1, 0), math3d.V3(0, 1, 0), math3d.V3(0, 0, 0), n)

	doc, err := NewGLTFDocument(b.Build())
	if err != nil {
		t.Fatalf("NewGLTFDocument: %v", err)
	}
	prim := doc.Meshes[0].Primitives[0]
	pos := doc.Accessors[prim.Attributes[gltf.POSITION]]
	if pos.Count != 4 {
		t.Errorf("position count = %d, want 4", pos.Count)
	}
	if idx := doc.Accessors[*prim.Indices]; idx.Count != 6 {
		t.Errorf("index count = %d, want 6", idx.Count)
	}
}
