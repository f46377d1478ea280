package brender

import (
	"errors"
	"fmt"
)

// Chunk stream errors.
var (
	ErrUnknownChunk         = errors.New("unknown chunk type")
	ErrChunkSizeMismatch    = errors.New("chunk payload size mismatch")
	ErrTruncatedChunk       = errors.New("truncated chunk")
	ErrUnterminatedString   = errors.New("unterminated string")
	ErrUnexpectedChunk      = errors.New("unexpected chunk for resource")
	ErrResourceTypeMismatch = errors.New("resource type mismatch")
)

// Assembly errors.
var (
	ErrStackEmpty        = errors.New("resource stack is empty")
	ErrStackKind         = errors.New("resource stack holds a different kind")
	ErrDanglingResource  = errors.New("resources left on stack after end")
	ErrEmptyBlock        = errors.New("block ended without a resource")
	ErrFaceVertexIndex   = errors.New("face vertex index out of range")
	ErrFaceMaterialIndex = errors.New("face material index out of range")
	ErrPixelDataSize     = errors.New("pixel data does not match units * unit bytes")
	ErrEulerOrder        = errors.New("unknown euler order")
	ErrTransformKind     = errors.New("unknown transform kind")
)

// Palette errors.
var (
	ErrNotIndexed   = errors.New("pixelmap is not 8-bit indexed")
	ErrPaletteIndex = errors.New("colour index outside palette")
	ErrRowBytes     = errors.New("row size exceeds 65535 bytes")
)

// ChunkError reports a failure to decode one chunk.
type ChunkError struct {
	Type   ChunkType
	Offset int64 // stream offset of the chunk header
	Err    error
}

func (e *ChunkError) Error() string {
	return fmt.Sprintf("chunk %s at offset %d: %v", e.Type, e.Offset, e.Err)
}

func (e *ChunkError) Unwrap() error {
	return e.Err
}

// ResourceTypeError reports a FILE_INFO chunk naming a different resource
// than the one being loaded.
type ResourceTypeError struct {
	Expected FileType
	Got      FileType
}

func (e *ResourceTypeError) Error() string {
	return fmt.Sprintf("resource type mismatch: expected %s file, got %s", e.Expected, e.Got)
}

func (e *ResourceTypeError) Is(target error) bool {
	return target == ErrResourceTypeMismatch
}
