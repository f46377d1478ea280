package brender

import (
	"fmt"
	"io"

	"github.com/go-gl/mathgl/mgl32"
)

// Model is a triangle mesh with per-face material assignment.
type Model struct {
	Name     string
	Flags    uint16
	Vertices []mgl32.Vec3
	Normals  []mgl32.Vec3 // derived, one per vertex
	UVs      []mgl32.Vec2
	Faces    []Face

	// MaterialNames is indexed by FaceMaterials[i]-1. A face material of
	// zero means the face has no material.
	MaterialNames []string
	FaceMaterials []uint16

	Pivot mgl32.Vec3
}

// CalcPlaneNormal returns the unit normal of the plane through three points.
// Degenerate triangles yield the zero vector.
func CalcPlaneNormal(v1, v2, v3 mgl32.Vec3) mgl32.Vec3 {
	n := v1.Sub(v2).Cross(v2.Sub(v3))
	if n.Len() == 0 {
		return mgl32.Vec3{}
	}
	return n.Normalize()
}

// CalcNormals assigns every face's plane normal to its three vertices.
// Vertices shared between faces keep the normal of the last face.
func (m *Model) CalcNormals() {
	m.Normals = make([]mgl32.Vec3, len(m.Vertices))
	for _, f := range m.Faces {
		if int(f.V1) >= len(m.Vertices) || int(f.V2) >= len(m.Vertices) || int(f.V3) >= len(m.Vertices) {
			continue
		}
		n := CalcPlaneNormal(m.Vertices[f.V1], m.Vertices[f.V2], m.Vertices[f.V3])
		m.Normals[f.V1] = n
		m.Normals[f.V2] = n
		m.Normals[f.V3] = n
	}
}

// Validate checks that faces reference existing vertices and materials.
func (m *Model) Validate() error {
	for i, f := range m.Faces {
		for _, v := range [3]uint16{f.V1, f.V2, f.V3} {
			if int(v) >= len(m.Vertices) {
				return fmt.Errorf("%w: model %q face %d uses vertex %d of %d", ErrFaceVertexIndex, m.Name, i, v, len(m.Vertices))
			}
		}
	}
	for i, idx := range m.FaceMaterials {
		if int(idx) > len(m.MaterialNames) {
			return fmt.Errorf("%w: model %q face %d uses material %d of %d", ErrFaceMaterialIndex, m.Name, i, idx, len(m.MaterialNames))
		}
	}
	return nil
}

// FaceMaterial returns the material name of face i, if it has one.
func (m *Model) FaceMaterial(i int) (string, bool) {
	if i < 0 || i >= len(m.FaceMaterials) {
		return "", false
	}
	idx := int(m.FaceMaterials[i])
	if idx == 0 || idx > len(m.MaterialNames) {
		return "", false
	}
	return m.MaterialNames[idx-1], true
}

// String returns a one-line summary.
func (m *Model) String() string {
	return fmt.Sprintf("%s: %d vertices, %d uvs, %d faces, %d materials",
		m.Name, len(m.Vertices), len(m.UVs), len(m.Faces), len(m.MaterialNames))
}

func handleModelChunk(c Chunk, s *Stack) error {
	var set func(m *Model)
	switch c := c.(type) {
	case ModelChunk:
		s.Push(&Model{Name: c.Name, Flags: c.Flags})
		return nil
	case VerticesChunk:
		set = func(m *Model) { m.Vertices = c.Vertices }
	case VertexUVChunk:
		set = func(m *Model) { m.UVs = c.UVs }
	case FacesChunk:
		set = func(m *Model) { m.Faces = c.Faces }
	case MaterialIndexChunk:
		set = func(m *Model) { m.MaterialNames = c.Names }
	case FaceMaterialChunk:
		set = func(m *Model) { m.FaceMaterials = c.Indices }
	case PivotChunk:
		set = func(m *Model) { m.Pivot = c.Pivot }
	default:
		return unexpected(c)
	}

	m, err := TopOf[*Model](s)
	if err != nil {
		return err
	}
	set(m)
	return nil
}

// readModel assembles one model block.
func readModel(cr *ChunkReader) (*Model, bool, error) {
	m, header, err := assemble[*Model](cr, FileModel, handleModelChunk)
	if err != nil || header {
		return m, header, err
	}
	if err := m.Validate(); err != nil {
		return nil, false, err
	}
	m.CalcNormals()
	return m, false, nil
}

// ReadModel reads a single model block. A block holding only the file
// header yields an empty model.
func ReadModel(r io.Reader) (*Model, error) {
	m, header, err := readModel(NewChunkReader(r))
	if err != nil {
		return nil, err
	}
	if header {
		return &Model{}, nil
	}
	return m, nil
}
