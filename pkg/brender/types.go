package brender

import "fmt"

// ChunkType identifies the payload of a chunk.
type ChunkType uint32

// Chunk types.
const (
	ChunkEnd                  ChunkType = 0x00
	ChunkPixelMap             ChunkType = 0x03
	ChunkMaterial             ChunkType = 0x04
	ChunkAnim                 ChunkType = 0x0f
	ChunkAnimTransform        ChunkType = 0x10
	ChunkAnimRate             ChunkType = 0x11
	ChunkFileInfo             ChunkType = 0x12
	ChunkPivot                ChunkType = 0x15
	ChunkMaterialIndex        ChunkType = 0x16
	ChunkVertices             ChunkType = 0x17
	ChunkVertexUV             ChunkType = 0x18
	ChunkFaceMaterial         ChunkType = 0x1a
	ChunkColourMapRef         ChunkType = 0x1c
	ChunkIndexBlendRef        ChunkType = 0x1e
	ChunkIndexShadeRef        ChunkType = 0x1f
	ChunkScreendoorRef        ChunkType = 0x20
	ChunkPixels               ChunkType = 0x21
	ChunkAddMap               ChunkType = 0x22
	ChunkActor                ChunkType = 0x23
	ChunkActorModel           ChunkType = 0x24
	ChunkActorTransform       ChunkType = 0x25
	ChunkActorMaterial        ChunkType = 0x26
	ChunkActorLight           ChunkType = 0x27
	ChunkActorCamera          ChunkType = 0x28
	ChunkActorBounds          ChunkType = 0x29
	ChunkActorAddChild        ChunkType = 0x2a
	ChunkTransformMatrix34    ChunkType = 0x2b
	ChunkTransformMatrix34LP  ChunkType = 0x2c
	ChunkTransformQuat        ChunkType = 0x2d
	ChunkTransformEuler       ChunkType = 0x2e
	ChunkTransformLookUp      ChunkType = 0x2f
	ChunkTransformTranslation ChunkType = 0x30
	ChunkTransformIdentity    ChunkType = 0x31
	ChunkBounds               ChunkType = 0x32
	ChunkLight                ChunkType = 0x33
	ChunkCamera               ChunkType = 0x34
	ChunkFaces                ChunkType = 0x35
	ChunkModel                ChunkType = 0x36
	ChunkActorClipPlane       ChunkType = 0x37
	ChunkPlane                ChunkType = 0x38

	// ChunkInvalid is never read from a stream. It is reported for values
	// that have no chunk encoding.
	ChunkInvalid ChunkType = 0xffffffff
)

var chunkTypeNames = map[ChunkType]string{
	ChunkEnd:                  "END",
	ChunkPixelMap:             "PIXELMAP",
	ChunkMaterial:             "MATERIAL",
	ChunkAnim:                 "ANIM",
	ChunkAnimTransform:        "ANIM_TRANSFORM",
	ChunkAnimRate:             "ANIM_RATE",
	ChunkFileInfo:             "FILE_INFO",
	ChunkPivot:                "PIVOT",
	ChunkMaterialIndex:        "MATERIAL_INDEX",
	ChunkVertices:             "VERTICES",
	ChunkVertexUV:             "VERTEX_UV",
	ChunkFaceMaterial:         "FACE_MATERIAL",
	ChunkColourMapRef:         "COLOUR_MAP_REF",
	ChunkIndexBlendRef:        "INDEX_BLEND_REF",
	ChunkIndexShadeRef:        "INDEX_SHADE_REF",
	ChunkScreendoorRef:        "SCREENDOOR_REF",
	ChunkPixels:               "PIXELS",
	ChunkAddMap:               "ADD_MAP",
	ChunkActor:                "ACTOR",
	ChunkActorModel:           "ACTOR_MODEL",
	ChunkActorTransform:       "ACTOR_TRANSFORM",
	ChunkActorMaterial:        "ACTOR_MATERIAL",
	ChunkActorLight:           "ACTOR_LIGHT",
	ChunkActorCamera:          "ACTOR_CAMERA",
	ChunkActorBounds:          "ACTOR_BOUNDS",
	ChunkActorAddChild:        "ACTOR_ADD_CHILD",
	ChunkTransformMatrix34:    "TRANSFORM_MATRIX34",
	ChunkTransformMatrix34LP:  "TRANSFORM_MATRIX34_LP",
	ChunkTransformQuat:        "TRANSFORM_QUAT",
	ChunkTransformEuler:       "TRANSFORM_EULER",
	ChunkTransformLookUp:      "TRANSFORM_LOOK_UP",
	ChunkTransformTranslation: "TRANSFORM_TRANSLATION",
	ChunkTransformIdentity:    "TRANSFORM_IDENTITY",
	ChunkBounds:               "BOUNDS",
	ChunkLight:                "LIGHT",
	ChunkCamera:               "CAMERA",
	ChunkFaces:                "FACES",
	ChunkModel:                "MODEL",
	ChunkActorClipPlane:       "ACTOR_CLIP_PLANE",
	ChunkPlane:                "PLANE",
	ChunkInvalid:              "INVALID",
}

// String returns the chunk type name.
func (t ChunkType) String() string {
	if name, ok := chunkTypeNames[t]; ok {
		return name
	}
	return fmt.Sprintf("0x%02x", uint32(t))
}

// FileType is the content tag carried by a FILE_INFO chunk.
type FileType uint32

// File types.
const (
	FileNone     FileType = 0x0
	FileActor    FileType = 0x1
	FilePixelMap FileType = 0x2
	FileLight    FileType = 0x3
	FileCamera   FileType = 0x4
	FileMaterial FileType = 0x5
	FileModel    FileType = 0xface
	FileAnim     FileType = 0x0a11
	FileTree     FileType = 0x5eed
)

// String returns the file type name.
func (t FileType) String() string {
	switch t {
	case FileNone:
		return "none"
	case FileActor:
		return "actor"
	case FilePixelMap:
		return "pixelmap"
	case FileLight:
		return "light"
	case FileCamera:
		return "camera"
	case FileMaterial:
		return "material"
	case FileModel:
		return "model"
	case FileAnim:
		return "anim"
	case FileTree:
		return "tree"
	default:
		return fmt.Sprintf("0x%x", uint32(t))
	}
}

// ActorType is the role of an actor node.
type ActorType uint8

// Actor types.
const (
	ActorNone          ActorType = 0x0
	ActorModel         ActorType = 0x1
	ActorLight         ActorType = 0x2
	ActorCamera        ActorType = 0x3
	ActorBounds        ActorType = 0x5
	ActorBoundsCorrect ActorType = 0x6
	ActorClipPlane     ActorType = 0x7
)

// String returns the actor type name.
func (t ActorType) String() string {
	switch t {
	case ActorNone:
		return "none"
	case ActorModel:
		return "model"
	case ActorLight:
		return "light"
	case ActorCamera:
		return "camera"
	case ActorBounds:
		return "bounds"
	case ActorBoundsCorrect:
		return "bounds-correct"
	case ActorClipPlane:
		return "clip-plane"
	default:
		return fmt.Sprintf("unknown(%d)", uint8(t))
	}
}

// RenderStyle controls how an actor is drawn.
type RenderStyle uint8

// Render styles.
const (
	RenderDefault RenderStyle = iota
	RenderNone
	RenderPoints
	RenderEdges
	RenderFaces
	RenderBoundingPoints
	RenderBoundingEdges
	RenderBoundingFaces
)

var renderStyleNames = [...]string{
	"default", "none", "points", "edges", "faces",
	"bounding-points", "bounding-edges", "bounding-faces",
}

// String returns the render style name.
func (s RenderStyle) String() string {
	if int(s) < len(renderStyleNames) {
		return renderStyleNames[s]
	}
	return fmt.Sprintf("unknown(%d)", uint8(s))
}

// LightType is the kind of light source.
type LightType uint8

// Light types.
const (
	LightPoint      LightType = 0x0
	LightDirect     LightType = 0x1
	LightSpot       LightType = 0x2
	LightViewPoint  LightType = 0x4
	LightViewDirect LightType = 0x5
	LightViewSpot   LightType = 0x6
)

// CameraType is the projection of a camera.
type CameraType uint8

// Camera types.
const (
	CameraParallel    CameraType = 0x0
	CameraPerspective CameraType = 0x1
)

// PixelMapType is the storage format of pixel data.
type PixelMapType uint8

// Pixelmap types.
const (
	PixelIndex1   PixelMapType = 0x0
	PixelIndex2   PixelMapType = 0x1
	PixelIndex4   PixelMapType = 0x2
	PixelIndex8   PixelMapType = 0x3
	PixelRGB555   PixelMapType = 0x4
	PixelRGB565   PixelMapType = 0x5
	PixelRGB888   PixelMapType = 0x6
	PixelRGBX888  PixelMapType = 0x7
	PixelRGBA888  PixelMapType = 0x8
	PixelYUYV8888 PixelMapType = 0x9
	PixelYUV888   PixelMapType = 0xa
	PixelDepth16  PixelMapType = 0xb
	PixelDepth32  PixelMapType = 0xc
	PixelAlpha8   PixelMapType = 0xd
	PixelIndexA88 PixelMapType = 0xe
)

var pixelMapTypeNames = [...]string{
	"INDEX_1", "INDEX_2", "INDEX_4", "INDEX_8",
	"RGB_555", "RGB_565", "RGB_888", "RGBX_888", "RGBA_888",
	"YUYV_8888", "YUV_888", "DEPTH_16", "DEPTH_32", "ALPHA_8", "INDEXA_88",
}

// String returns the pixelmap type name.
func (t PixelMapType) String() string {
	if int(t) < len(pixelMapTypeNames) {
		return pixelMapTypeNames[t]
	}
	return fmt.Sprintf("unknown(%d)", uint8(t))
}
