package models

import "github.com/taigrr/objterm/pkg/math3d"

// GeometricNormal returns the unit normal of the triangle p1, p2, p3 using
// the right-hand rule, so a counter-clockwise triangle faces the viewer.
// A degenerate triangle yields the zero vector.
func GeometricNormal(p1, p2, p3 math3d.Vec3) math3d.Vec3 {
	return p2.Sub(p1).Cross(p3.Sub(p1)).Normalize()
}

// NormalWithVertexNormals returns the geometric normal of points, flipped
// when it points away from the average of the supplied vertex normals.
// The result does not depend on the order of the points.
func NormalWithVertexNormals(points [3]math3d.Vec3, normals []math3d.Vec3) math3d.Vec3 {
	n := GeometricNormal(points[0], points[1], points[2])

	var avg math3d.Vec3
	for _, vn := range normals {
		avg = avg.Add(vn.Normalize())
	}
	if n.Dot(avg) < 0 {
		return n.Negate()
	}
	return n
}
