package models

import (
	"errors"
	"os"
	"path/filepath"
	"reflect"
	"strconv"
	"strings"
	"testing"

	"github.com/taigrr/objterm/pkg/math3d"
)

func TestLoadSimpleOBJ(t *testing.T) {
	objData := `
# Simple triangle
v 0 0 0
v 1 0 0
v 0.5 1 0
f 1 2 3
`
	loader := NewOBJLoader()
	mesh, err := loader.Load(strings.NewReader(objData), "triangle")
	if err != nil {
		t.Fatalf("failed to load OBJ: %v", err)
	}

	if mesh.VertexCount() != 3 {
		t.Errorf("expected 3 vertices, got %d", mesh.VertexCount())
	}
	if mesh.TriangleCount() != 1 {
		t.Errorf("expected 1 triangle, got %d", mesh.TriangleCount())
	}
	tri, _ := mesh.TriangleAt(0)
	if !tri.Normal.ApproxEqual(math3d.V3(0, 0, 1), eps) {
		t.Errorf("normal = %v, want (0, 0, 1)", tri.Normal)
	}
}

func TestLoadCubeOBJ(t *testing.T) {
	objData := `
# Cube
o cube
v -0.5 -0.5 -0.5
v  0.5 -0.5 -0.5
v  0.5  0.5 -0.5
v -0.5  0.5 -0.5
v -0.5 -0.5  0.5
v  0.5 -0.5  0.5
v  0.5  0.5  0.5
v -0.5  0.5  0.5
vt 0 0
s off
usemtl grey

f 1 4 3 2
f 5 6 7 8
f 1 5 8 4
f 2 3 7 6
f 4 8 7 3
f 1 2 6 5
`
	mesh, err := NewOBJLoader().Load(strings.NewReader(objData), "cube")
	if err != nil {
		t.Fatalf("failed to load cube: %v", err)
	}

	if mesh.TriangleCount() != 12 {
		t.Errorf("expected 12 triangles (6 quads), got %d", mesh.TriangleCount())
	}
	if mesh.VertexCount() != 8 {
		t.Errorf("expected 8 unique vertices, got %d", mesh.VertexCount())
	}

	box, ok := mesh.Bounds()
	if !ok || box.Min != math3d.V3(-0.5, -0.5, -0.5) || box.Max != math3d.V3(0.5, 0.5, 0.5) {
		t.Errorf("bounds = %+v", box)
	}

	// Every face of this cube winds outward.
	for i := range mesh.Triangles {
		tri, _ := mesh.TriangleAt(i)
		centroid := tri.P1.Add(tri.P2).Add(tri.P3).Scale(1.0 / 3)
		if tri.Normal.Dot(centroid) <= 0 {
			t.Errorf("triangle %d normal %v points inward", i, tri.Normal)
		}
	}
}

func TestLoadQuadSplit(t *testing.T) {
	objData := `v 0 0 0
v 1 0 0
v 1 1 0
v 0 1 0
f 1 2 3 4
`
	mesh, err := NewOBJLoader().Load(strings.NewReader(objData), "quad")
	if err != nil {
		t.Fatalf("load: %v", err)
	}
	if mesh.TriangleCount() != 2 {
		t.Fatalf("expected 2 triangles, got %d", mesh.TriangleCount())
	}

	// (v0, v1, v2) and (v2, v3, v0), allowing a P2/P3 swap.
	want := [][3]int{{0, 1, 2}, {2, 3, 0}}
	for i, w := range want {
		got := mesh.Triangles[i]
		if got.P1 != w[0] {
			t.Errorf("triangle %d P1 = %d, want %d", i, got.P1, w[0])
		}
		if !(got.P2 == w[1] && got.P3 == w[2]) && !(got.P2 == w[2] && got.P3 == w[1]) {
			t.Errorf("triangle %d = (%d, %d, %d), want %v up to swap", i, got.P1, got.P2, got.P3, w)
		}
	}
}

func TestLoadVertexNormals(t *testing.T) {
	// Clockwise in xy, but the vertex normals say the face looks at +Z.
	objData := `v 0 0 0
v 0 1 0
v 1 0 0
vn 0 0 1
vn 0 0 2
f 1//1 2//2 3/7/1
`
	mesh, err := NewOBJLoader().Load(strings.NewReader(objData), "normals")
	if err != nil {
		t.Fatalf("load: %v", err)
	}
	tri, _ := mesh.TriangleAt(0)
	if !tri.Normal.ApproxEqual(math3d.V3(0, 0, 1), eps) {
		t.Errorf("normal = %v, want (0, 0, 1)", tri.Normal)
	}
	if GeometricNormal(tri.P1, tri.P2, tri.P3) != tri.Normal {
		t.Error("winding was not canonicalized")
	}
}

func TestLoadDeterministic(t *testing.T) {
	objData := `v 0 0 0
v 1 0 0
v 1 1 0
v 0 1 1
vn 0 0 1
f 1//1 2//1 3//1
f 1 3 4
f 4 3 2 1
`
	a, err := NewOBJLoader().Load(strings.NewReader(objData), "m")
	if err != nil {
		t.Fatalf("load: %v", err)
	}
	b, err := NewOBJLoader().Load(strings.NewReader(objData), "m")
	if err != nil {
		t.Fatalf("load: %v", err)
	}
	if !reflect.DeepEqual(a, b) {
		t.Error("parsing the same input twice produced different meshes")
	}
}

func TestLoadErrors(t *testing.T) {
	tests := []struct {
		name     string
		data     string
		wantErr  error
		wantLine int
	}{
		{"v with two numbers", "v 0 0 0\nv 1 2\n", ErrArity, 2},
		{"v with four numbers", "v 0 0 0 1\n", ErrArity, 1},
		{"vn arity", "vn 0 1\n", ErrArity, 1},
		{"bad number", "v 0 x 0\n", ErrNumber, 1},
		{"nan coordinate", "v 0 nan 0\n", ErrNumber, 1},
		{"face too small", "v 0 0 0\nv 1 0 0\nf 1 2\n", ErrArity, 3},
		{"face too large", "v 0 0 0\nf 1 1 1 1 1\n", ErrArity, 2},
		{"index zero", "v 0 0 0\nv 1 0 0\nv 0 1 0\nf 0 1 2\n", ErrIndexRange, 4},
		{"index past end", "v 0 0 0\nv 1 0 0\nv 0 1 0\nf 1 2 4\n", ErrIndexRange, 4},
		{"normal past end", "v 0 0 0\nv 1 0 0\nv 0 1 0\nvn 0 0 1\nf 1//1 2//1 3//2\n", ErrIndexRange, 5},
		{"negative index", "v 0 0 0\nv 1 0 0\nv 0 1 0\nf -1 -2 -3\n", ErrNegativeIndex, 4},
		{"mixed normals", "v 0 0 0\nv 1 0 0\nv 0 1 0\nvn 0 0 1\nf 1//1 2 3\n", ErrMixedNormals, 5},
		{"bad texture index", "v 0 0 0\nv 1 0 0\nv 0 1 0\nf 1/a 2 3\n", ErrNumber, 4},
		{"too many slashes", "v 0 0 0\nv 1 0 0\nv 0 1 0\nf 1/1/1/1 2 3\n", ErrNumber, 4},
		{"no data", "# only a comment\n\no empty\n", ErrNoData, 0},
		{"no triangles", "v 0 0 0\nv 1 0 0\n", ErrNoTriangles, 0},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			mesh, err := NewOBJLoader().Load(strings.NewReader(tc.data), tc.name)
			if err == nil {
				t.Fatal("expected an error")
			}
			if mesh != nil {
				t.Error("a partial mesh was returned alongside the error")
			}
			if !errors.Is(err, tc.wantErr) {
				t.Errorf("err = %v, want %v", err, tc.wantErr)
			}

			var lineErr *LineError
			if tc.wantLine == 0 {
				if errors.As(err, &lineErr) {
					t.Errorf("unexpected line error %v", err)
				}
				return
			}
			if !errors.As(err, &lineErr) {
				t.Fatalf("err %v is not a *LineError", err)
			}
			if lineErr.Line != tc.wantLine {
				t.Errorf("line = %d, want %d", lineErr.Line, tc.wantLine)
			}
			if !strings.Contains(err.Error(), lineErr.Text) {
				t.Errorf("message %q does not quote the line", err.Error())
			}
		})
	}
}

func TestLoadFile(t *testing.T) {
	dir := t.TempDir()

	good := filepath.Join(dir, "tri.obj")
	if err := os.WriteFile(good, []byte("v 0 0 0\nv 1 0 0\nv 0 1 0\nf 1 2 3\n"), 0o644); err != nil {
		t.Fatal(err)
	}
	mesh, err := LoadOBJ(good)
	if err != nil {
		t.Fatalf("LoadOBJ: %v", err)
	}
	if mesh.Name != "tri.obj" {
		t.Errorf("name = %q, want tri.obj", mesh.Name)
	}

	wrongExt := filepath.Join(dir, "tri.txt")
	if err := os.WriteFile(wrongExt, []byte("v 0 0 0\n"), 0o644); err != nil {
		t.Fatal(err)
	}
	if _, err := LoadOBJ(wrongExt); !errors.Is(err, ErrExtension) {
		t.Errorf("err = %v, want ErrExtension", err)
	}

	if _, err := LoadOBJ(filepath.Join(dir, "missing.obj")); err == nil {
		t.Error("expected error for missing file")
	}
}

func BenchmarkLoadOBJ(b *testing.B) {
	var sb strings.Builder
	const n = 64
	for y := range n {
		for x := range n {
			sb.WriteString("v ")
			sb.WriteString(strings.Join([]string{itoa(x), itoa(y), "0"}, " "))
			sb.WriteByte('\n')
		}
	}
	for y := range n - 1 {
		for x := range n - 1 {
			i := y*n + x + 1
			sb.WriteString("f " + itoa(i) + " " + itoa(i+1) + " " + itoa(i+n+1) + " " + itoa(i+n) + "\n")
		}
	}
	data := sb.String()

	for b.Loop() {
		if _, err := NewOBJLoader().Load(strings.NewReader(data), "grid"); err != nil {
			b.Fatal(err)
		}
	}
}

func itoa(i int) string {
	return strconv.Itoa(i)
}
