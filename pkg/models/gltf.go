package models

import (
	"encoding/binary"
	"errors"
	"fmt"
	"math"
	"path/filepath"

	"github.com/qmuntal/gltf"
	"github.com/qmuntal/gltf/modeler"

	"github.com/taigrr/objterm/pkg/math3d"
)

// ExportGLB writes m as a binary glTF file with flat-shaded normals.
// Corners that share both a point and a face normal share a glTF vertex.
func ExportGLB(m *Mesh, path string) error {
	doc, err := NewGLTFDocument(m)
	if err != nil {
		return err
	}
	if err := gltf.SaveBinary(doc, path); err != nil {
		return fmt.Errorf("save glb: %w", err)
	}
	return nil
}

// NewGLTFDocument converts m into a single-mesh glTF document.
func NewGLTFDocument(m *Mesh) (*gltf.Document, error) {
	if len(m.Triangles) == 0 {
		return nil, ErrNoTriangles
	}

	type cornerKey struct {
		point  int
		normal [math3d.KeySize]byte
	}
	lookup := make(map[cornerKey]uint32, len(m.Points))
	var (
		positions [][3]float32
		normals   [][3]float32
		indices   = make([]uint32, 0, len(m.Triangles)*3)
	)
	corner := func(point int, n math3d.Vec3) uint32 {
		k := cornerKey{point, n.Key()}
		if idx, ok := lookup[k]; ok {
			return idx
		}
		p := m.Points[point]
		idx := uint32(len(positions))
		positions = append(positions, [3]float32{float32(p.X), float32(p.Y), float32(p.Z)})
		normals = append(normals, [3]float32{float32(n.X), float32(n.Y), float32(n.Z)})
		lookup[k] = idx
		return idx
	}
	for _, t := range m.Triangles {
		indices = append(indices,
			corner(t.P1, t.Normal),
			corner(t.P2, t.Normal),
			corner(t.P3, t.Normal),
		)
	}

	doc := gltf.NewDocument()
	doc.Meshes = []*gltf.Mesh{{
		Name: m.Name,
		Primitives: []*gltf.Primitive{{
			Mode:    gltf.PrimitiveTriangles,
			Indices: gltf.Index(modeler.WriteIndices(doc, indices)),
			Attributes: map[string]int{
				gltf.POSITION: modeler.WritePosition(doc, positions),
				gltf.NORMAL:   modeler.WriteNormal(doc, normals),
			},
		}},
	}}
	doc.Nodes = []*gltf.Node{{Name: m.Name, Mesh: gltf.Index(0)}}
	doc.Scenes[0].Nodes = append(doc.Scenes[0].Nodes, 0)
	return doc, nil
}

// LoadGLB reads a binary glTF file back into a Mesh. Each triangle takes the
// normal of its first corner when normals are present.
func LoadGLB(path string) (*Mesh, error) {
	doc, err := gltf.Open(path)
	if err != nil {
		return nil, fmt.Errorf("open gltf: %w", err)
	}

	b := NewMeshBuilder(filepath.Base(path))
	for _, m := range doc.Meshes {
		if err := addGLTFMesh(doc, m, b); err != nil {
			return nil, fmt.Errorf("process mesh %q: %w", m.Name, err)
		}
	}
	if b.TriangleCount() == 0 {
		return nil, ErrNoTriangles
	}
	return b.Build(), nil
}

func addGLTFMesh(doc *gltf.Document, m *gltf.Mesh, b *MeshBuilder) error {
	for _, prim := range m.Primitives {
		if prim.Mode != gltf.PrimitiveTriangles && prim.Mode != 0 {
			// lines and points
			continue
		}
		posIdx, ok := prim.Attributes[gltf.POSITION]
		if !ok {
			continue
		}
		positions, err := readVec3Accessor(doc, posIdx)
		if err != nil {
			return fmt.Errorf("read positions: %w", err)
		}

		var normals []math3d.Vec3
		if normIdx, ok := prim.Attributes[gltf.NORMAL]; ok {
			if normals, err = readVec3Accessor(doc, normIdx); err != nil {
				return fmt.Errorf("read normals: %w", err)
			}
		}

		var indices []int
		if prim.Indices != nil {
			if indices, err = readIndices(doc, *prim.Indices); err != nil {
				return fmt.Errorf("read indices: %w", err)
			}
		} else {
			indices = make([]int, len(positions))
			for i := range indices {
				indices[i] = i
			}
		}

		for i := 0; i+2 < len(indices); i += 3 {
			i0, i1, i2 := indices[i], indices[i+1], indices[i+2]
			if max(i0, i1, i2) >= len(positions) {
				return fmt.Errorf("index %d: %w", max(i0, i1, i2), ErrIndexRange)
			}
			p1, p2, p3 := positions[i0], positions[i1], positions[i2]
			n := GeometricNormal(p1, p2, p3)
			if i0 < len(normals) {
				n = NormalWithVertexNormals([3]math3d.Vec3{p1, p2, p3}, normals[i0:i0+1])
			}
			b.AddTriangle(p1, p2, p3, n)
		}
	}
	return nil
}

func readVec3Accessor(doc *gltf.Document, accessorIdx int) ([]math3d.Vec3, error) {
	accessor := doc.Accessors[accessorIdx]
	if accessor.Type != gltf.AccessorVec3 || accessor.ComponentType != gltf.ComponentFloat {
		return nil, fmt.Errorf("expected float VEC3, got %v/%v", accessor.Type, accessor.ComponentType)
	}
	data, stride, err := accessorBytes(doc, accessor, 12)
	if err != nil {
		return nil, err
	}

	result := make([]math3d.Vec3, accessor.Count)
	for i := range result {
		off := i * stride
		result[i] = math3d.V3(
			float64(readFloat32(data[off:])),
			float64(readFloat32(data[off+4:])),
			float64(readFloat32(data[off+8:])),
		)
	}
	return result, nil
}

func readIndices(doc *gltf.Document, accessorIdx int) ([]int, error) {
	accessor := doc.Accessors[accessorIdx]
	if accessor.Type != gltf.AccessorScalar {
		return nil, fmt.Errorf("expected SCALAR indices, got %v", accessor.Type)
	}

	var size int
	switch accessor.ComponentType {
	case gltf.ComponentUbyte:
		size = 1
	case gltf.ComponentUshort:
		size = 2
	case gltf.ComponentUint:
		size = 4
	default:
		return nil, fmt.Errorf("unexpected index type: %v", accessor.ComponentType)
	}
	data, stride, err := accessorBytes(doc, accessor, size)
	if err != nil {
		return nil, err
	}

	result := make([]int, accessor.Count)
	for i := range result {
		off := i * stride
		switch size {
		case 1:
			result[i] = int(data[off])
		case 2:
			result[i] = int(binary.LittleEndian.Uint16(data[off:]))
		case 4:
			result[i] = int(binary.LittleEndian.Uint32(data[off:]))
		}
	}
	return result, nil
}

// accessorBytes returns the bytes backing accessor, starting at its first
// element, and the stride between elements.
func accessorBytes(doc *gltf.Document, accessor *gltf.Accessor, elemSize int) ([]byte, int, error) {
	if accessor.BufferView == nil {
		return nil, 0, errors.New("accessor has no buffer view")
	}
	view := doc.BufferViews[*accessor.BufferView]
	buffer := doc.Buffers[view.Buffer]
	if buffer.URI != "" {
		return nil, 0, errors.New("external buffers are not supported")
	}
	if buffer.Data == nil {
		return nil, 0, errors.New("buffer has no data")
	}

	stride := view.ByteStride
	if stride == 0 {
		stride = elemSize
	}
	start := view.ByteOffset + accessor.ByteOffset
	end := start
	if accessor.Count > 0 {
		end = start + (accessor.Count-1)*stride + elemSize
	}
	if end > len(buffer.Data) {
		return nil, 0, fmt.Errorf("accessor overruns buffer: %d > %d", end, len(buffer.Data))
	}
	return buffer.Data[start:end], stride, nil
}

func readFloat32(b []byte) float32 {
	return math.Float32frombits(binary.LittleEndian.Uint32(b))
}
