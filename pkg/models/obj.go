package models

import (
	"bufio"
	"errors"
	"fmt"
	"io"
	"math"
	"os"
	"path/filepath"
	"strconv"
	"strings"

	"github.com/taigrr/objterm/pkg/math3d"
)

// Load errors. Errors tied to a line are wrapped in a *LineError.
var (
	ErrExtension     = errors.New("file must have .obj extension")
	ErrArity         = errors.New("wrong number of arguments")
	ErrNumber        = errors.New("invalid number")
	ErrIndexRange    = errors.New("index out of range")
	ErrNegativeIndex = errors.New("negative indices are not supported")
	ErrMixedNormals  = errors.New("face mixes vertices with and without normals")
	ErrNoData        = errors.New("did not find any obj data")
	ErrNoTriangles   = errors.New("mesh has no triangles")
)

// maxLineSize bounds a single OBJ line.
const maxLineSize = 1 << 20

// LineError reports the line an OBJ parse failed on.
type LineError struct {
	Line int    // 1-based
	Text string // raw line content
	Err  error
}

func (e *LineError) Error() string {
	return fmt.Sprintf("line %d: %q: %v", e.Line, e.Text, e.Err)
}

func (e *LineError) Unwrap() error {
	return e.Err
}

// OBJLoader loads Wavefront OBJ files containing v, vn and f directives.
type OBJLoader struct{}

// NewOBJLoader creates a new OBJ loader.
func NewOBJLoader() *OBJLoader {
	return &OBJLoader{}
}

// LoadOBJ is a convenience function to load an OBJ file.
func LoadOBJ(path string) (*Mesh, error) {
	return NewOBJLoader().LoadFile(path)
}

// LoadFile loads an OBJ file from disk. The path must end in .obj.
func (l *OBJLoader) LoadFile(path string) (*Mesh, error) {
	if err := CheckExtension(path); err != nil {
		return nil, err
	}
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("open obj: %w", err)
	}
	defer f.Close()

	return l.Load(f, filepath.Base(path))
}

// CheckExtension reports ErrExtension unless path names an .obj file.
func CheckExtension(path string) error {
	if !strings.EqualFold(filepath.Ext(path), ".obj") {
		return fmt.Errorf("%s: %w", path, ErrExtension)
	}
	return nil
}

// Load parses OBJ data from r in a single pass. On any error no mesh is
// returned.
func (l *OBJLoader) Load(r io.Reader, name string) (*Mesh, error) {
	p := objParser{builder: NewMeshBuilder(name)}

	scanner := bufio.NewScanner(r)
	scanner.Buffer(make([]byte, 0, 64*1024), maxLineSize)

	lineNum := 0
	for scanner.Scan() {
		lineNum++
		line := scanner.Text()
		if err := p.handleLine(line); err != nil {
			return nil, &LineError{Line: lineNum, Text: line, Err: err}
		}
	}
	if err := scanner.Err(); err != nil {
		return nil, fmt.Errorf("read obj: %w", err)
	}

	if p.parsed == 0 {
		return nil, ErrNoData
	}
	if p.builder.TriangleCount() == 0 {
		return nil, ErrNoTriangles
	}
	return p.builder.Build(), nil
}

type objParser struct {
	positions []math3d.Vec3
	normals   []math3d.Vec3
	builder   *MeshBuilder
	parsed    int
}

func (p *objParser) handleLine(line string) error {
	fields := strings.Fields(line)
	if len(fields) < 2 {
		return nil
	}

	var err error
	switch fields[0] {
	case "v":
		var v math3d.Vec3
		if v, err = parseVec3(fields[1:]); err == nil {
			p.positions = append(p.positions, v)
		}
	case "vn":
		var v math3d.Vec3
		if v, err = parseVec3(fields[1:]); err == nil {
			p.normals = append(p.normals, v)
		}
	case "f":
		err = p.handleFace(fields[1:])
	default:
		// vt, o, g, s, mtllib, usemtl and comments carry nothing we draw.
		return nil
	}
	if err != nil {
		return err
	}
	p.parsed++
	return nil
}

func parseVec3(args []string) (math3d.Vec3, error) {
	if len(args) != 3 {
		return math3d.Vec3{}, fmt.Errorf("%w: expected 3 components, got %d", ErrArity, len(args))
	}
	var c [3]float64
	for i, s := range args {
		f, err := strconv.ParseFloat(s, 64)
		if err != nil || math.IsNaN(f) || math.IsInf(f, 0) {
			return math3d.Vec3{}, fmt.Errorf("%w: %q", ErrNumber, s)
		}
		c[i] = f
	}
	return math3d.V3(c[0], c[1], c[2]), nil
}

// faceRef is one resolved vertex reference of an f directive.
type faceRef struct {
	pos       math3d.Vec3
	normal    math3d.Vec3
	hasNormal bool
}

func (p *objParser) handleFace(args []string) error {
	if len(args) != 3 && len(args) != 4 {
		return fmt.Errorf("%w: face needs 3 or 4 vertices, got %d", ErrArity, len(args))
	}

	refs := make([]faceRef, len(args))
	withNormals := 0
	for i, s := range args {
		ref, err := p.parseRef(s)
		if err != nil {
			return err
		}
		if ref.hasNormal {
			withNormals++
		}
		refs[i] = ref
	}
	if withNormals != 0 && withNormals != len(refs) {
		return ErrMixedNormals
	}

	p.addTriangle(refs[0], refs[1], refs[2])
	if len(refs) == 4 {
		p.addTriangle(refs[2], refs[3], refs[0])
	}
	return nil
}

func (p *objParser) addTriangle(a, b, c faceRef) {
	var n math3d.Vec3
	if a.hasNormal {
		n = NormalWithVertexNormals(
			[3]math3d.Vec3{a.pos, b.pos, c.pos},
			[]math3d.Vec3{a.normal, b.normal, c.normal},
		)
	} else {
		n = GeometricNormal(a.pos, b.pos, c.pos)
	}
	p.builder.AddTriangle(a.pos, b.pos, c.pos, n)
}

// parseRef parses position[/[texture][/normal]]. Texture references are
// validated as integers and otherwise ignored.
func (p *objParser) parseRef(s string) (faceRef, error) {
	parts := strings.Split(s, "/")
	if len(parts) > 3 {
		return faceRef{}, fmt.Errorf("%w: malformed vertex reference %q", ErrNumber, s)
	}

	var ref faceRef
	pi, err := resolveIndex(parts[0], len(p.positions), "vertex")
	if err != nil {
		return faceRef{}, err
	}
	ref.pos = p.positions[pi]

	if len(parts) > 1 && parts[1] != "" {
		if _, err := strconv.Atoi(parts[1]); err != nil {
			return faceRef{}, fmt.Errorf("%w: texture index %q", ErrNumber, parts[1])
		}
	}

	if len(parts) > 2 && parts[2] != "" {
		ni, err := resolveIndex(parts[2], len(p.normals), "normal")
		if err != nil {
			return faceRef{}, err
		}
		ref.normal = p.normals[ni]
		ref.hasNormal = true
	}
	return ref, nil
}

// resolveIndex converts a 1-based OBJ index into a 0-based slot.
func resolveIndex(s string, count int, kind string) (int, error) {
	idx, err := strconv.Atoi(s)
	if err != nil {
		return 0, fmt.Errorf("%w: %s index %q", ErrNumber, kind, s)
	}
	if idx < 0 {
		return 0, fmt.Errorf("%w: %s index %d", ErrNegativeIndex, kind, idx)
	}
	if idx == 0 || idx > count {
		return 0, fmt.Errorf("%w: %s index %d, have %d", ErrIndexRange, kind, idx, count)
	}
	return idx - 1, nil
}
