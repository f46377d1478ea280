// Package brender decodes BRender resource files: models, actor hierarchies,
// materials and pixelmaps stored as a stream of typed, big-endian chunks.
package brender

import (
	"bufio"
	"bytes"
	"encoding/binary"
	"errors"
	"fmt"
	"io"

	"github.com/go-gl/mathgl/mgl32"
	"go.uber.org/zap"

	"github.com/Faultbox/carmaload/internal/logger"
	"github.com/Faultbox/carmaload/pkg/encoding"
)

// ChunkHeaderSize is the encoded size of a ChunkHeader.
const ChunkHeaderSize = 8

// ChunkHeader precedes every chunk. Size counts payload bytes only.
type ChunkHeader struct {
	Type ChunkType
	Size uint32
}

// ReadChunkHeader reads an 8-byte big-endian header. It returns io.EOF only
// when the stream ends cleanly before the first byte.
func ReadChunkHeader(r io.Reader) (ChunkHeader, error) {
	var buf [ChunkHeaderSize]byte
	if _, err := io.ReadFull(r, buf[:]); err != nil {
		if err == io.EOF {
			return ChunkHeader{}, io.EOF
		}
		return ChunkHeader{}, fmt.Errorf("%w: reading header: %v", ErrTruncatedChunk, err)
	}
	return ChunkHeader{
		Type: ChunkType(binary.BigEndian.Uint32(buf[0:4])),
		Size: binary.BigEndian.Uint32(buf[4:8]),
	}, nil
}

// Write encodes the header in big-endian order.
func (h ChunkHeader) Write(w io.Writer) error {
	var buf [ChunkHeaderSize]byte
	binary.BigEndian.PutUint32(buf[0:4], uint32(h.Type))
	binary.BigEndian.PutUint32(buf[4:8], h.Size)
	_, err := w.Write(buf[:])
	return err
}

// Chunk is one decoded record. The set of implementations is closed.
type Chunk interface {
	Type() ChunkType
	isChunk()
}

// EndChunk terminates a resource block.
type EndChunk struct{}

// FileInfoChunk opens a file and names the resource kind it holds.
type FileInfoChunk struct {
	FileType FileType
	Version  uint32
}

// ModelChunk begins a model.
type ModelChunk struct {
	Flags uint16
	Name  string
}

// MaterialIndexChunk lists the material names referenced by a model's faces.
type MaterialIndexChunk struct {
	Names []string
}

// VerticesChunk holds model vertex positions.
type VerticesChunk struct {
	Vertices []mgl32.Vec3
}

// VertexUVChunk holds per-vertex texture coordinates.
type VertexUVChunk struct {
	UVs []mgl32.Vec2
}

// Face is one triangle of a model.
type Face struct {
	V1, V2, V3 uint16
	Smoothing  uint16
	Flags      uint8
}

// FacesChunk holds the triangles of a model.
type FacesChunk struct {
	Faces []Face
}

// FaceMaterialChunk maps each face to a 1-based index in the material table.
type FaceMaterialChunk struct {
	Indices []uint16
}

// PivotChunk sets a model's pivot point.
type PivotChunk struct {
	Pivot mgl32.Vec3
}

// MaterialChunk begins a material and carries its shading parameters.
type MaterialChunk struct {
	Colour       mgl32.Vec3
	Opacity      uint8
	Ka, Kd, Ks   float32
	Power        float32
	Flags        uint16
	MapTransform [3]mgl32.Vec2
	IndexBase    uint8
	IndexRange   uint8
	Name         string
}

// NameRefChunk is any chunk whose payload is a single name: the material
// map references and the actor model and material references.
type NameRefChunk struct {
	Kind ChunkType
	Name string
}

// ActionChunk is any chunk with an empty payload that attaches the top of
// the stack to the resource below it.
type ActionChunk struct {
	Kind ChunkType
}

// PixelMapChunk begins a pixelmap.
type PixelMapChunk struct {
	PixelType PixelMapType
	RowBytes  uint16
	Width     uint16
	Height    uint16
	OriginX   uint16
	OriginY   uint16
	Name      string
}

// PixelsChunk carries raw pixel data.
type PixelsChunk struct {
	Units     uint32
	UnitBytes uint32
	Data      []byte
}

// ActorChunk begins an actor.
type ActorChunk struct {
	ActorType   ActorType
	RenderStyle RenderStyle
	Name        string
}

// TransformChunk pushes a transform of any representation.
type TransformChunk struct {
	Transform Transform
}

// BoundsChunk pushes a bounding box.
type BoundsChunk struct {
	Bounds Bounds
}

// LightChunk pushes a light.
type LightChunk struct {
	Light Light
}

// CameraChunk pushes a camera.
type CameraChunk struct {
	Camera Camera
}

// PlaneChunk pushes a clip plane equation.
type PlaneChunk struct {
	Plane ClipPlane
}

func (EndChunk) Type() ChunkType           { return ChunkEnd }
func (FileInfoChunk) Type() ChunkType      { return ChunkFileInfo }
func (ModelChunk) Type() ChunkType         { return ChunkModel }
func (MaterialIndexChunk) Type() ChunkType { return ChunkMaterialIndex }
func (VerticesChunk) Type() ChunkType      { return ChunkVertices }
func (VertexUVChunk) Type() ChunkType      { return ChunkVertexUV }
func (FacesChunk) Type() ChunkType         { return ChunkFaces }
func (FaceMaterialChunk) Type() ChunkType  { return ChunkFaceMaterial }
func (PivotChunk) Type() ChunkType         { return ChunkPivot }
func (MaterialChunk) Type() ChunkType      { return ChunkMaterial }
func (c NameRefChunk) Type() ChunkType     { return c.Kind }
func (c ActionChunk) Type() ChunkType      { return c.Kind }
func (PixelMapChunk) Type() ChunkType      { return ChunkPixelMap }
func (PixelsChunk) Type() ChunkType        { return ChunkPixels }
func (ActorChunk) Type() ChunkType         { return ChunkActor }
func (c TransformChunk) Type() ChunkType   { return c.Transform.Kind.chunkType() }
func (BoundsChunk) Type() ChunkType        { return ChunkBounds }
func (LightChunk) Type() ChunkType         { return ChunkLight }
func (CameraChunk) Type() ChunkType        { return ChunkCamera }
func (PlaneChunk) Type() ChunkType         { return ChunkPlane }

func (EndChunk) isChunk()           {}
func (FileInfoChunk) isChunk()      {}
func (ModelChunk) isChunk()         {}
func (MaterialIndexChunk) isChunk() {}
func (VerticesChunk) isChunk()      {}
func (VertexUVChunk) isChunk()      {}
func (FacesChunk) isChunk()         {}
func (FaceMaterialChunk) isChunk()  {}
func (PivotChunk) isChunk()         {}
func (MaterialChunk) isChunk()      {}
func (NameRefChunk) isChunk()       {}
func (ActionChunk) isChunk()        {}
func (PixelMapChunk) isChunk()      {}
func (PixelsChunk) isChunk()        {}
func (ActorChunk) isChunk()         {}
func (TransformChunk) isChunk()     {}
func (BoundsChunk) isChunk()        {}
func (LightChunk) isChunk()         {}
func (CameraChunk) isChunk()        {}
func (PlaneChunk) isChunk()         {}

// chunkType returns the chunk that encodes a transform of kind k, or
// ChunkInvalid for an unknown kind.
func (k TransformKind) chunkType() ChunkType {
	switch k {
	case TransformIdentity:
		return ChunkTransformIdentity
	case TransformMatrix34:
		return ChunkTransformMatrix34
	case TransformMatrix34LP:
		return ChunkTransformMatrix34LP
	case TransformQuat:
		return ChunkTransformQuat
	case TransformEuler:
		return ChunkTransformEuler
	case TransformLookUp:
		return ChunkTransformLookUp
	case TransformTranslation:
		return ChunkTransformTranslation
	default:
		return ChunkInvalid
	}
}

// ChunkReader reads chunks from a stream and tracks the stream offset for
// error reporting.
type ChunkReader struct {
	r   *bufio.Reader
	off int64
	log *zap.Logger
}

// NewChunkReader wraps r. An existing *bufio.Reader is used as is.
func NewChunkReader(r io.Reader) *ChunkReader {
	br, ok := r.(*bufio.Reader)
	if !ok {
		br = bufio.NewReader(r)
	}
	return &ChunkReader{r: br, log: logger.Named("brender")}
}

// Offset returns the number of bytes consumed so far.
func (cr *ChunkReader) Offset() int64 {
	return cr.off
}

// AtEOF reports whether the stream has no more bytes. Read errors other
// than io.EOF are returned.
func (cr *ChunkReader) AtEOF() (bool, error) {
	_, err := cr.r.Peek(1)
	if err == io.EOF {
		return true, nil
	}
	if err != nil {
		return false, err
	}
	return false, nil
}

// Next reads and decodes one chunk. It returns io.EOF when the stream ends
// cleanly on a chunk boundary.
func (cr *ChunkReader) Next() (Chunk, error) {
	start := cr.off
	h, err := ReadChunkHeader(cr.r)
	if err != nil {
		if err == io.EOF {
			return nil, io.EOF
		}
		return nil, &ChunkError{Offset: start, Err: err}
	}
	cr.off += ChunkHeaderSize

	payload, err := io.ReadAll(io.LimitReader(cr.r, int64(h.Size)))
	cr.off += int64(len(payload))
	if err != nil {
		return nil, &ChunkError{Type: h.Type, Offset: start, Err: err}
	}
	if uint32(len(payload)) != h.Size {
		return nil, &ChunkError{Type: h.Type, Offset: start,
			Err: fmt.Errorf("%w: want %d payload bytes, got %d", ErrTruncatedChunk, h.Size, len(payload))}
	}

	c, err := decodeChunk(h, payload)
	if err != nil {
		return nil, &ChunkError{Type: h.Type, Offset: start, Err: err}
	}
	cr.log.Debug("chunk", zap.Stringer("type", h.Type), zap.Uint32("size", h.Size), zap.Int64("offset", start))
	return c, nil
}

// ReadChunk reads one chunk from r. Prefer a ChunkReader for streams with
// more than one chunk so buffering and offsets carry over.
func ReadChunk(r io.Reader) (Chunk, error) {
	return NewChunkReader(r).Next()
}

// decodeChunk parses a complete payload and rejects any unread remainder.
func decodeChunk(h ChunkHeader, payload []byte) (Chunk, error) {
	r := bytes.NewReader(payload)

	var (
		c   Chunk
		err error
	)
	switch h.Type {
	case ChunkEnd:
		c = EndChunk{}
	case ChunkFileInfo:
		if h.Size != 8 {
			return nil, fmt.Errorf("%w: FILE_INFO must be 8 bytes, got %d", ErrChunkSizeMismatch, h.Size)
		}
		c, err = readFileInfo(r)
	case ChunkModel:
		c, err = readModelChunk(r)
	case ChunkMaterialIndex:
		c, err = readMaterialIndex(r)
	case ChunkVertices:
		c, err = readVertices(r)
	case ChunkVertexUV:
		c, err = readVertexUV(r)
	case ChunkFaces:
		c, err = readFaces(r)
	case ChunkFaceMaterial:
		indices := make([]uint16, h.Size/2)
		err = read(r, indices)
		c = FaceMaterialChunk{Indices: indices}
	case ChunkPivot:
		var p PivotChunk
		err = read(r, &p.Pivot)
		c = p
	case ChunkMaterial:
		c, err = readMaterialChunk(r)
	case ChunkColourMapRef, ChunkIndexShadeRef, ChunkIndexBlendRef, ChunkScreendoorRef,
		ChunkActorModel, ChunkActorMaterial:
		var name string
		name, err = ReadCString(r)
		c = NameRefChunk{Kind: h.Type, Name: name}
	case ChunkAddMap, ChunkActorTransform, ChunkActorLight, ChunkActorCamera,
		ChunkActorBounds, ChunkActorClipPlane, ChunkActorAddChild:
		c = ActionChunk{Kind: h.Type}
	case ChunkPixelMap:
		c, err = readPixelMapChunk(r)
	case ChunkPixels:
		c, err = readPixels(r)
	case ChunkActor:
		c, err = readActorChunk(r)
	case ChunkTransformMatrix34, ChunkTransformMatrix34LP, ChunkTransformQuat, ChunkTransformEuler,
		ChunkTransformLookUp, ChunkTransformTranslation, ChunkTransformIdentity:
		c, err = readTransform(h.Type, r)
	case ChunkBounds:
		var b BoundsChunk
		err = read(r, &b.Bounds)
		c = b
	case ChunkLight:
		c, err = readLight(r)
	case ChunkCamera:
		c, err = readCamera(r)
	case ChunkPlane:
		var p PlaneChunk
		err = read(r, &p.Plane.Equation)
		c = p
	default:
		return nil, ErrUnknownChunk
	}
	if err != nil {
		return nil, err
	}
	if r.Len() != 0 {
		return nil, fmt.Errorf("%w: %d of %d bytes unread", ErrChunkSizeMismatch, r.Len(), h.Size)
	}
	return c, nil
}

// read decodes big-endian fixed-size data.
func read(r io.Reader, data any) error {
	if err := binary.Read(r, binary.BigEndian, data); err != nil {
		if errors.Is(err, io.EOF) || errors.Is(err, io.ErrUnexpectedEOF) {
			return ErrTruncatedChunk
		}
		return err
	}
	return nil
}

// readCount reads a u32 element count and checks that count elements of
// elemSize bytes fit in what is left of the payload.
func readCount(r *bytes.Reader, elemSize int) (int, error) {
	var n uint32
	if err := read(r, &n); err != nil {
		return 0, err
	}
	if uint64(n)*uint64(elemSize) > uint64(r.Len()) {
		return 0, fmt.Errorf("%w: %d elements of %d bytes in %d bytes", ErrTruncatedChunk, n, elemSize, r.Len())
	}
	return int(n), nil
}

// ReadCString reads a NUL-terminated string and consumes the terminator.
func ReadCString(r io.ByteReader) (string, error) {
	var buf []byte
	for {
		b, err := r.ReadByte()
		if err != nil {
			return "", ErrUnterminatedString
		}
		if b == 0 {
			return encoding.Windows1252ToUTF8(buf), nil
		}
		buf = append(buf, b)
	}
}

func readFileInfo(r *bytes.Reader) (Chunk, error) {
	var raw struct {
		FileType uint32
		Version  uint32
	}
	if err := read(r, &raw); err != nil {
		return nil, err
	}
	return FileInfoChunk{FileType: FileType(raw.FileType), Version: raw.Version}, nil
}

func readModelChunk(r *bytes.Reader) (Chunk, error) {
	var c ModelChunk
	if err := read(r, &c.Flags); err != nil {
		return nil, err
	}
	name, err := ReadCString(r)
	if err != nil {
		return nil, err
	}
	c.Name = name
	return c, nil
}

func readMaterialIndex(r *bytes.Reader) (Chunk, error) {
	// Each name takes at least its terminator.
	n, err := readCount(r, 1)
	if err != nil {
		return nil, err
	}
	names := make([]string, n)
	for i := range names {
		if names[i], err = ReadCString(r); err != nil {
			return nil, err
		}
	}
	return MaterialIndexChunk{Names: names}, nil
}

func readVertices(r *bytes.Reader) (Chunk, error) {
	n, err := readCount(r, 12)
	if err != nil {
		return nil, err
	}
	vertices := make([]mgl32.Vec3, n)
	if err := read(r, vertices); err != nil {
		return nil, err
	}
	return VerticesChunk{Vertices: vertices}, nil
}

func readVertexUV(r *bytes.Reader) (Chunk, error) {
	n, err := readCount(r, 8)
	if err != nil {
		return nil, err
	}
	uvs := make([]mgl32.Vec2, n)
	if err := read(r, uvs); err != nil {
		return nil, err
	}
	return VertexUVChunk{UVs: uvs}, nil
}

func readFaces(r *bytes.Reader) (Chunk, error) {
	n, err := readCount(r, 9)
	if err != nil {
		return nil, err
	}
	faces := make([]Face, n)
	if err := read(r, faces); err != nil {
		return nil, err
	}
	return FacesChunk{Faces: faces}, nil
}

func readMaterialChunk(r *bytes.Reader) (Chunk, error) {
	var raw struct {
		Colour       mgl32.Vec3
		Opacity      uint8
		Ka, Kd, Ks   float32
		Power        float32
		Flags        uint16
		MapTransform [3]mgl32.Vec2
		IndexBase    uint8
		IndexRange   uint8
	}
	if err := read(r, &raw); err != nil {
		return nil, err
	}
	name, err := ReadCString(r)
	if err != nil {
		return nil, err
	}
	return MaterialChunk{
		Colour:       raw.Colour,
		Opacity:      raw.Opacity,
		Ka:           raw.Ka,
		Kd:           raw.Kd,
		Ks:           raw.Ks,
		Power:        raw.Power,
		Flags:        raw.Flags,
		MapTransform: raw.MapTransform,
		IndexBase:    raw.IndexBase,
		IndexRange:   raw.IndexRange,
		Name:         name,
	}, nil
}

func readPixelMapChunk(r *bytes.Reader) (Chunk, error) {
	var raw struct {
		PixelType PixelMapType
		RowBytes  uint16
		Width     uint16
		Height    uint16
		OriginX   uint16
		OriginY   uint16
	}
	if err := read(r, &raw); err != nil {
		return nil, err
	}
	name, err := ReadCString(r)
	if err != nil {
		return nil, err
	}
	return PixelMapChunk{
		PixelType: raw.PixelType,
		RowBytes:  raw.RowBytes,
		Width:     raw.Width,
		Height:    raw.Height,
		OriginX:   raw.OriginX,
		OriginY:   raw.OriginY,
		Name:      name,
	}, nil
}

func readPixels(r *bytes.Reader) (Chunk, error) {
	var c PixelsChunk
	if err := read(r, &c.Units); err != nil {
		return nil, err
	}
	if err := read(r, &c.UnitBytes); err != nil {
		return nil, err
	}
	size := uint64(c.Units) * uint64(c.UnitBytes)
	if size > uint64(r.Len()) {
		return nil, fmt.Errorf("%w: %d units of %d bytes in %d bytes", ErrTruncatedChunk, c.Units, c.UnitBytes, r.Len())
	}
	c.Data = make([]byte, size)
	if _, err := io.ReadFull(r, c.Data); err != nil {
		return nil, ErrTruncatedChunk
	}
	return c, nil
}

func readActorChunk(r *bytes.Reader) (Chunk, error) {
	var raw struct {
		ActorType   ActorType
		RenderStyle RenderStyle
	}
	if err := read(r, &raw); err != nil {
		return nil, err
	}
	name, err := ReadCString(r)
	if err != nil {
		return nil, err
	}
	return ActorChunk{ActorType: raw.ActorType, RenderStyle: raw.RenderStyle, Name: name}, nil
}

func readTransform(t ChunkType, r *bytes.Reader) (Chunk, error) {
	var tr Transform
	var err error
	switch t {
	case ChunkTransformMatrix34:
		tr.Kind = TransformMatrix34
		err = read(r, &tr.Matrix34)
	case ChunkTransformMatrix34LP:
		tr.Kind = TransformMatrix34LP
		err = read(r, &tr.Matrix34)
	case ChunkTransformQuat:
		var raw struct {
			X, Y, Z, W float32
			T          mgl32.Vec3
		}
		if err = read(r, &raw); err == nil {
			tr.Kind = TransformQuat
			tr.Quat = mgl32.Quat{W: raw.W, V: mgl32.Vec3{raw.X, raw.Y, raw.Z}}
			tr.Translation = raw.T
		}
	case ChunkTransformEuler:
		var raw struct {
			Order   EulerOrder
			A, B, C float32
			T       mgl32.Vec3
		}
		if err = read(r, &raw); err == nil {
			if raw.Order > EulerZYZR {
				return nil, fmt.Errorf("%w: %d", ErrEulerOrder, raw.Order)
			}
			tr.Kind = TransformEuler
			tr.Euler = Euler{Order: raw.Order, A: raw.A, B: raw.B, C: raw.C}
			tr.Translation = raw.T
		}
	case ChunkTransformLookUp:
		var raw struct{ Look, Up, T mgl32.Vec3 }
		if err = read(r, &raw); err == nil {
			tr = Transform{Kind: TransformLookUp, Look: raw.Look, Up: raw.Up, Translation: raw.T}
		}
	case ChunkTransformTranslation:
		tr.Kind = TransformTranslation
		err = read(r, &tr.Translation)
	case ChunkTransformIdentity:
		tr = IdentityTransform()
	}
	if err != nil {
		return nil, err
	}
	return TransformChunk{Transform: tr}, nil
}

func readLight(r *bytes.Reader) (Chunk, error) {
	var raw struct {
		LightType            LightType
		Colour               mgl32.Vec3
		AttenuationC         float32
		AttenuationL         float32
		AttenuationQ         float32
		ConeInner, ConeOuter float32
	}
	if err := read(r, &raw); err != nil {
		return nil, err
	}
	name, err := ReadCString(r)
	if err != nil {
		return nil, err
	}
	return LightChunk{Light: Light{
		Type:         raw.LightType,
		Colour:       raw.Colour,
		AttenuationC: raw.AttenuationC,
		AttenuationL: raw.AttenuationL,
		AttenuationQ: raw.AttenuationQ,
		ConeInner:    raw.ConeInner,
		ConeOuter:    raw.ConeOuter,
		Name:         name,
	}}, nil
}

func readCamera(r *bytes.Reader) (Chunk, error) {
	var raw struct {
		CameraType CameraType
		FOV        float32
		Hither     float32
		Yon        float32
		Aspect     float32
	}
	if err := read(r, &raw); err != nil {
		return nil, err
	}
	name, err := ReadCString(r)
	if err != nil {
		return nil, err
	}
	return CameraChunk{Camera: Camera{
		Type:   raw.CameraType,
		FOV:    raw.FOV,
		Hither: raw.Hither,
		Yon:    raw.Yon,
		Aspect: raw.Aspect,
		Name:   name,
	}}, nil
}
