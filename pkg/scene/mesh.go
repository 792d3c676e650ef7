package scene

// Face is a triangle of vertex indices local to its mesh (0-based).
type Face [3]int

// Mesh is a triangle list drawn with a single material.
type Mesh struct {
	ID   int
	Name string // diagnostic only, not serialized

	// Material is the 1-based index into Scene.Materials.
	Material int

	// 1-based indices into the scene transform pools, 0 when absent.
	Translation int
	Scaling     int

	// Rotations are 1-based indices into Scene.Rotations, applied in order.
	Rotations []int

	Smooth bool

	// VertexOffset is the 0-based position of this mesh's first vertex in
	// Scene.Vertices.
	VertexOffset int
	Faces        []Face
}

// GlobalFace returns face i as 1-based indices into Scene.Vertices.
func (m *Mesh) GlobalFace(i int) [3]int {
	f := m.Faces[i]
	base := m.VertexOffset + 1
	return [3]int{f[0] + base, f[1] + base, f[2] + base}
}

// HasTransform reports whether the mesh references any transform.
func (m *Mesh) HasTransform() bool {
	return m.Translation > 0 || len(m.Rotations) > 0 || m.Scaling > 0
}

// SharesVertices reports whether any vertex is used by more than one face,
// the sign of a mesh authored for smooth shading.
func (m *Mesh) SharesVertices() bool {
	seen := make(map[int]struct{}, len(m.Faces)*3)
	for _, f := range m.Faces {
		for _, v := range f {
			if _, ok := seen[v]; ok {
				return true
			}
			seen[v] = struct{}{}
		}
	}
	return false
}
