package brender

import (
	"fmt"
	"io"
)

// ResourceKind identifies the kind of value held on a Stack.
type ResourceKind uint8

// Resource kinds.
const (
	KindNone ResourceKind = iota
	KindModel
	KindActor
	KindTransform
	KindLight
	KindCamera
	KindBounds
	KindClipPlane
	KindMaterial
	KindPixelMap
)

var resourceKindNames = [...]string{
	"none", "model", "actor", "transform", "light", "camera", "bounds", "clip plane", "material", "pixelmap",
}

// String returns the kind name.
func (k ResourceKind) String() string {
	if int(k) < len(resourceKindNames) {
		return resourceKindNames[k]
	}
	return fmt.Sprintf("kind(%d)", uint8(k))
}

// Resource is a value under construction. Only pointer types of this
// package implement it.
type Resource interface {
	resourceKind() ResourceKind
}

func (*Model) resourceKind() ResourceKind     { return KindModel }
func (*actorRef) resourceKind() ResourceKind  { return KindActor }
func (*Transform) resourceKind() ResourceKind { return KindTransform }
func (*Light) resourceKind() ResourceKind     { return KindLight }
func (*Camera) resourceKind() ResourceKind    { return KindCamera }
func (*Bounds) resourceKind() ResourceKind    { return KindBounds }
func (*ClipPlane) resourceKind() ResourceKind { return KindClipPlane }
func (*Material) resourceKind() ResourceKind  { return KindMaterial }
func (*PixelMap) resourceKind() ResourceKind  { return KindPixelMap }

// StackError reports a pop or top that found nothing, or found a resource
// of another kind.
type StackError struct {
	Expected ResourceKind
	Got      ResourceKind // KindNone when the stack was empty
	Err      error        // ErrStackEmpty or ErrStackKind
}

func (e *StackError) Error() string {
	if e.Got == KindNone {
		return fmt.Sprintf("%v: expected %s", e.Err, e.Expected)
	}
	return fmt.Sprintf("%v: expected %s, got %s", e.Err, e.Expected, e.Got)
}

func (e *StackError) Unwrap() error {
	return e.Err
}

// Stack holds partially built resources while a block is assembled.
// Chunks that begin a composite push, attribute chunks change the top
// entry, and attach chunks pop a finished entry into the one below.
type Stack struct {
	entries []Resource
}

// Push places r on top of the stack.
func (s *Stack) Push(r Resource) {
	s.entries = append(s.entries, r)
}

// Len returns the number of entries.
func (s *Stack) Len() int {
	return len(s.entries)
}

// Kinds lists the entry kinds from bottom to top.
func (s *Stack) Kinds() []ResourceKind {
	kinds := make([]ResourceKind, len(s.entries))
	for i, r := range s.entries {
		kinds[i] = r.resourceKind()
	}
	return kinds
}

// Pop removes the top entry and returns it as T. The stack is left
// unchanged when the top is not a T.
func Pop[T Resource](s *Stack) (T, error) {
	v, err := TopOf[T](s)
	if err != nil {
		return v, err
	}
	s.entries[len(s.entries)-1] = nil
	s.entries = s.entries[:len(s.entries)-1]
	return v, nil
}

// Top returns the top entry as T for in-place updates.
func Top[T Resource](s *Stack) (T, bool) {
	v, err := TopOf[T](s)
	return v, err == nil
}

// TopOf is Top with a StackError describing why the top is unusable.
func TopOf[T Resource](s *Stack) (T, error) {
	var zero T
	if len(s.entries) == 0 {
		return zero, &StackError{Expected: zero.resourceKind(), Err: ErrStackEmpty}
	}
	top := s.entries[len(s.entries)-1]
	v, ok := top.(T)
	if !ok {
		return zero, &StackError{Expected: zero.resourceKind(), Got: top.resourceKind(), Err: ErrStackKind}
	}
	return v, nil
}

// chunkHandler applies one chunk of a block to the stack.
type chunkHandler func(c Chunk, s *Stack) error

// assemble reads one block up to its END chunk and pops its single root.
// A block holding only FILE_INFO is a file header: header is true and root
// is the zero value. It returns io.EOF when the stream ends before the
// block's first chunk.
func assemble[T Resource](cr *ChunkReader, expect FileType, handle chunkHandler) (root T, header bool, err error) {
	var (
		stack   Stack
		sawInfo bool
		chunks  int
	)
	for {
		c, err := cr.Next()
		if err == io.EOF {
			if chunks == 0 {
				return root, false, io.EOF
			}
			return root, false, fmt.Errorf("%w: stream ended at offset %d before END", ErrTruncatedChunk, cr.Offset())
		}
		if err != nil {
			return root, false, err
		}
		chunks++

		switch c := c.(type) {
		case EndChunk:
			if stack.Len() == 0 {
				if sawInfo {
					return root, true, nil
				}
				return root, false, fmt.Errorf("%w at offset %d", ErrEmptyBlock, cr.Offset())
			}
			if root, err = Pop[T](&stack); err != nil {
				return root, false, err
			}
			if stack.Len() != 0 {
				return root, false, fmt.Errorf("%w: %v", ErrDanglingResource, stack.Kinds())
			}
			return root, false, nil
		case FileInfoChunk:
			if c.FileType != expect {
				return root, false, &ResourceTypeError{Expected: expect, Got: c.FileType}
			}
			sawInfo = true
		default:
			if err := handle(c, &stack); err != nil {
				return root, false, fmt.Errorf("%s chunk at offset %d: %w", c.Type(), cr.Offset(), err)
			}
		}
	}
}

// unexpected is returned by handlers for chunks that do not belong in the
// resource being assembled.
func unexpected(c Chunk) error {
	return fmt.Errorf("%w: %s", ErrUnexpectedChunk, c.Type())
}
