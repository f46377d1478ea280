// Package brendertest builds BRender chunk streams for tests.
package brendertest

import (
	"bytes"
	"encoding/binary"

	"github.com/go-gl/mathgl/mgl32"

	"github.com/Faultbox/carmaload/pkg/brender"
	"github.com/Faultbox/carmaload/pkg/encoding"
)

// Builder appends chunks to an in-memory stream. Methods chain.
type Builder struct {
	buf bytes.Buffer
}

// New returns an empty builder.
func New() *Builder {
	return &Builder{}
}

// Bytes returns the encoded stream.
func (b *Builder) Bytes() []byte {
	return b.buf.Bytes()
}

// Reader returns a reader over the encoded stream.
func (b *Builder) Reader() *bytes.Reader {
	return bytes.NewReader(b.buf.Bytes())
}

// Chunk appends a chunk with a raw payload.
func (b *Builder) Chunk(t brender.ChunkType, payload []byte) *Builder {
	h := brender.ChunkHeader{Type: t, Size: uint32(len(payload))}
	_ = h.Write(&b.buf)
	b.buf.Write(payload)
	return b
}

// payload encodes big-endian values and NUL-terminated Windows-1252 strings.
type payload struct {
	bytes.Buffer
}

func (p *payload) put(values ...any) *payload {
	for _, v := range values {
		if s, ok := v.(string); ok {
			p.Write(encoding.UTF8ToWindows1252(s))
			p.WriteByte(0)
			continue
		}
		_ = binary.Write(&p.Buffer, binary.BigEndian, v)
	}
	return p
}

func (b *Builder) put(t brender.ChunkType, values ...any) *Builder {
	var p payload
	return b.Chunk(t, p.put(values...).Bytes())
}

// End appends an END chunk.
func (b *Builder) End() *Builder {
	return b.Chunk(brender.ChunkEnd, nil)
}

// FileInfo appends a FILE_INFO chunk.
func (b *Builder) FileInfo(ft brender.FileType, version uint32) *Builder {
	return b.put(brender.ChunkFileInfo, uint32(ft), version)
}

// Header appends the FILE_INFO and END chunks that open a file.
func (b *Builder) Header(ft brender.FileType) *Builder {
	return b.FileInfo(ft, 2).End()
}

// Model appends a MODEL chunk.
func (b *Builder) Model(flags uint16, name string) *Builder {
	return b.put(brender.ChunkModel, flags, name)
}

// Vertices appends a VERTICES chunk.
func (b *Builder) Vertices(v ...mgl32.Vec3) *Builder {
	return b.put(brender.ChunkVertices, uint32(len(v)), v)
}

// UVs appends a VERTEX_UV chunk.
func (b *Builder) UVs(uv ...mgl32.Vec2) *Builder {
	return b.put(brender.ChunkVertexUV, uint32(len(uv)), uv)
}

// Faces appends a FACES chunk.
func (b *Builder) Faces(f ...brender.Face) *Builder {
	return b.put(brender.ChunkFaces, uint32(len(f)), f)
}

// MaterialIndex appends a MATERIAL_INDEX chunk.
func (b *Builder) MaterialIndex(names ...string) *Builder {
	values := []any{uint32(len(names))}
	for _, n := range names {
		values = append(values, n)
	}
	return b.put(brender.ChunkMaterialIndex, values...)
}

// FaceMaterials appends a FACE_MATERIAL chunk.
func (b *Builder) FaceMaterials(idx ...uint16) *Builder {
	return b.put(brender.ChunkFaceMaterial, idx)
}

// Pivot appends a PIVOT chunk.
func (b *Builder) Pivot(p mgl32.Vec3) *Builder {
	return b.put(brender.ChunkPivot, p)
}

// Material appends a MATERIAL chunk with default shading.
func (b *Builder) Material(name string, colour mgl32.Vec3) *Builder {
	return b.put(brender.ChunkMaterial,
		colour, uint8(255), // colour, opacity
		float32(0.1), float32(0.7), float32(0), float32(20), // ka kd ks power
		uint16(0), // flags
		[3]mgl32.Vec2{{1, 0}, {0, 1}, {0, 0}},
		uint8(0), uint8(0), // index base, range
		name)
}

// NameRef appends a chunk whose payload is a single name.
func (b *Builder) NameRef(t brender.ChunkType, name string) *Builder {
	return b.put(t, name)
}

// Action appends an empty attach chunk.
func (b *Builder) Action(t brender.ChunkType) *Builder {
	return b.Chunk(t, nil)
}

// PixelMap appends a PIXELMAP chunk.
func (b *Builder) PixelMap(t brender.PixelMapType, width, height uint16, name string) *Builder {
	bpp := uint16(1)
	if t == brender.PixelRGBA888 || t == brender.PixelRGBX888 {
		bpp = 4
	}
	return b.put(brender.ChunkPixelMap, uint8(t), width*bpp, width, height, uint16(0), uint16(0), name)
}

// Pixels appends a PIXELS chunk.
func (b *Builder) Pixels(units, unitBytes uint32, data []byte) *Builder {
	return b.put(brender.ChunkPixels, units, unitBytes, data)
}

// IndexedPixelMap appends a complete 8-bit pixelmap block.
func (b *Builder) IndexedPixelMap(name string, width, height uint16, data []byte) *Builder {
	return b.PixelMap(brender.PixelIndex8, width, height, name).
		Pixels(uint32(len(data)), 1, data).
		End()
}

// Actor appends an ACTOR chunk.
func (b *Builder) Actor(t brender.ActorType, name string) *Builder {
	return b.put(brender.ChunkActor, uint8(t), uint8(brender.RenderDefault), name)
}

// Identity appends a TRANSFORM_IDENTITY chunk.
func (b *Builder) Identity() *Builder {
	return b.Chunk(brender.ChunkTransformIdentity, nil)
}

// Translation appends a TRANSFORM_TRANSLATION chunk.
func (b *Builder) Translation(t mgl32.Vec3) *Builder {
	return b.put(brender.ChunkTransformTranslation, t)
}

// Matrix34 appends a TRANSFORM_MATRIX34 chunk.
func (b *Builder) Matrix34(rows [4]mgl32.Vec3) *Builder {
	return b.put(brender.ChunkTransformMatrix34, rows)
}

// Quat appends a TRANSFORM_QUAT chunk.
func (b *Builder) Quat(q mgl32.Quat, t mgl32.Vec3) *Builder {
	return b.put(brender.ChunkTransformQuat, q.V, q.W, t)
}

// Euler appends a TRANSFORM_EULER chunk.
func (b *Builder) Euler(e brender.Euler, t mgl32.Vec3) *Builder {
	return b.put(brender.ChunkTransformEuler, uint8(e.Order), e.A, e.B, e.C, t)
}

// LookUp appends a TRANSFORM_LOOK_UP chunk.
func (b *Builder) LookUp(look, up, t mgl32.Vec3) *Builder {
	return b.put(brender.ChunkTransformLookUp, look, up, t)
}

// Bounds appends a BOUNDS chunk.
func (b *Builder) Bounds(min, max mgl32.Vec3) *Builder {
	return b.put(brender.ChunkBounds, min, max)
}

// Light appends a LIGHT chunk.
func (b *Builder) Light(l brender.Light) *Builder {
	return b.put(brender.ChunkLight, uint8(l.Type), l.Colour,
		l.AttenuationC, l.AttenuationL, l.AttenuationQ, l.ConeInner, l.ConeOuter, l.Name)
}

// Camera appends a CAMERA chunk.
func (b *Builder) Camera(c brender.Camera) *Builder {
	return b.put(brender.ChunkCamera, uint8(c.Type), c.FOV, c.Hither, c.Yon, c.Aspect, c.Name)
}

// Plane appends a PLANE chunk.
func (b *Builder) Plane(eq mgl32.Vec4) *Builder {
	return b.put(brender.ChunkPlane, eq)
}
