package car

import (
	"bytes"
	"io"

	"github.com/cespare/xxhash/v2"
	"github.com/pkg/errors"
	"github.com/qmuntal/gltf"
	"github.com/qmuntal/gltf/modeler"
	"go.uber.org/zap"

	"github.com/Faultbox/carmaload/internal/logger"
	"github.com/Faultbox/carmaload/pkg/brender"
)

// gltfExporter caches what has already been written to doc, so every
// model, material and image is stored once.
type gltfExporter struct {
	car       *Car
	doc       *gltf.Document
	log       *zap.Logger
	sampler   uint32
	meshes    map[string]*uint32
	materials map[string]uint32
	textures  map[string]*uint32
	images    map[uint64]uint32
}

// ExportGLTF writes the car as a glTF document, binary (GLB) or JSON.
func (c *Car) ExportGLTF(w io.Writer, binary bool) error {
	doc, err := c.GLTFDocument()
	if err != nil {
		return err
	}
	if !binary {
		for _, b := range doc.Buffers {
			if b.URI == "" {
				b.EmbeddedResource()
			}
		}
	}
	enc := gltf.NewEncoder(w)
	enc.AsBinary = binary
	return enc.Encode(doc)
}

// GLTFDocument converts the car to a glTF document with one node per actor.
func (c *Car) GLTFDocument() (*gltf.Document, error) {
	if c.Actors == nil || len(c.Actors.Nodes) == 0 {
		return nil, errors.Wrapf(ErrNoActor, "car %s", c.Name)
	}
	e := &gltfExporter{
		car:       c,
		doc:       gltf.NewDocument(),
		log:       logger.Named("gltf"),
		meshes:    make(map[string]*uint32),
		materials: make(map[string]uint32),
		textures:  make(map[string]*uint32),
		images:    make(map[uint64]uint32),
	}
	e.sampler = uint32(len(e.doc.Samplers))
	e.doc.Samplers = append(e.doc.Samplers, &gltf.Sampler{
		MagFilter: gltf.MagNearest,
		MinFilter: gltf.MinNearest,
		WrapS:     gltf.WrapRepeat,
		WrapT:     gltf.WrapRepeat,
	})

	base := uint32(len(e.doc.Nodes))
	for i := range c.Actors.Nodes {
		n := &c.Actors.Nodes[i]
		m, err := n.Transform.Matrix()
		if err != nil {
			return nil, errors.Wrapf(err, "actor %s", n.Name)
		}
		node := &gltf.Node{Name: n.Name, Matrix: [16]float32(m)}
		for _, child := range n.Children {
			node.Children = append(node.Children, base+uint32(child))
		}
		if n.ModelName != "" {
			mesh, err := e.mesh(n.ModelName)
			if err != nil {
				return nil, err
			}
			node.Mesh = mesh
		}
		e.doc.Nodes = append(e.doc.Nodes, node)
	}
	e.doc.Scenes[0].Name = c.Name
	e.doc.Scenes[0].Nodes = append(e.doc.Scenes[0].Nodes, base+uint32(c.Actors.Root))

	e.log.Debug("built document",
		zap.String("car", c.Name),
		zap.Int("nodes", len(e.doc.Nodes)),
		zap.Int("meshes", len(e.doc.Meshes)),
		zap.Int("images", len(e.doc.Images)))
	return e.doc, nil
}

// mesh returns the mesh index of a model, or nil when the model is not
// loaded or has no faces.
func (e *gltfExporter) mesh(name string) (*uint32, error) {
	if idx, ok := e.meshes[name]; ok {
		return idx, nil
	}
	e.meshes[name] = nil

	m, ok := e.car.Models[name]
	if !ok || len(m.Faces) == 0 {
		e.log.Debug("actor model not exported", zap.String("model", name))
		return nil, nil
	}

	positions := make([][3]float32, len(m.Vertices))
	for i, v := range m.Vertices {
		positions[i] = v
	}
	attributes := map[string]uint32{
		"POSITION": modeler.WritePosition(e.doc, positions),
	}
	if len(m.Normals) == len(m.Vertices) {
		normals := make([][3]float32, len(m.Normals))
		for i, n := range m.Normals {
			normals[i] = n
		}
		attributes["NORMAL"] = modeler.WriteNormal(e.doc, normals)
	}
	if len(m.UVs) == len(m.Vertices) {
		uvs := make([][2]float32, len(m.UVs))
		for i, uv := range m.UVs {
			uvs[i] = uv
		}
		attributes["TEXCOORD_0"] = modeler.WriteTextureCoord(e.doc, uvs)
	}

	// One primitive per face material, in first-use order.
	var order []string
	groups := make(map[string][]uint32)
	for i, f := range m.Faces {
		mat, _ := m.FaceMaterial(i)
		if _, seen := groups[mat]; !seen {
			order = append(order, mat)
		}
		groups[mat] = append(groups[mat], uint32(f.V1), uint32(f.V2), uint32(f.V3))
	}

	mesh := &gltf.Mesh{Name: m.Name}
	for _, mat := range order {
		indices := modeler.WriteIndices(e.doc, groups[mat])
		prim := &gltf.Primitive{
			Indices:    gltf.Index(indices),
			Attributes: attributes,
		}
		if mat != "" {
			idx, err := e.material(mat)
			if err != nil {
				return nil, errors.Wrapf(err, "model %s", m.Name)
			}
			prim.Material = gltf.Index(idx)
		}
		mesh.Primitives = append(mesh.Primitives, prim)
	}

	idx := gltf.Index(uint32(len(e.doc.Meshes)))
	e.doc.Meshes = append(e.doc.Meshes, mesh)
	e.meshes[name] = idx
	return idx, nil
}

func (e *gltfExporter) material(name string) (uint32, error) {
	if idx, ok := e.materials[name]; ok {
		return idx, nil
	}

	gm := &gltf.Material{
		Name:                 name,
		DoubleSided:          true,
		PBRMetallicRoughness: &gltf.PBRMetallicRoughness{},
	}
	if m, ok := e.car.Materials[name]; ok {
		gm.PBRMetallicRoughness.BaseColorFactor = &[4]float32{
			m.Colour.X(), m.Colour.Y(), m.Colour.Z(), float32(m.Opacity) / 255,
		}
		if m.ColourMap != "" {
			tex, err := e.texture(m.ColourMap)
			if err != nil {
				return 0, errors.Wrapf(err, "material %s", name)
			}
			if tex != nil {
				gm.PBRMetallicRoughness.BaseColorFactor = &[4]float32{1, 1, 1, 1}
				gm.PBRMetallicRoughness.BaseColorTexture = &gltf.TextureInfo{Index: *tex}
			}
		}
	}

	idx := uint32(len(e.doc.Materials))
	e.doc.Materials = append(e.doc.Materials, gm)
	e.materials[name] = idx
	return idx, nil
}

// texture returns the texture index of a pixelmap, or nil when the
// pixelmap was not loaded. Identical images are stored once.
func (e *gltfExporter) texture(name string) (*uint32, error) {
	if idx, ok := e.textures[name]; ok {
		return idx, nil
	}
	e.textures[name] = nil

	pm, ok := e.car.Textures[name]
	if !ok {
		e.log.Debug("texture not loaded", zap.String("pixelmap", name))
		return nil, nil
	}
	var buf bytes.Buffer
	if err := brender.WritePNG(&buf, pm); err != nil {
		return nil, errors.Wrapf(err, "encoding %s", name)
	}

	sum := xxhash.Sum64(buf.Bytes())
	img, ok := e.images[sum]
	if !ok {
		var err error
		img, err = modeler.WriteImage(e.doc, name, "image/png", &buf)
		if err != nil {
			return nil, errors.Wrapf(err, "writing image %s", name)
		}
		e.images[sum] = img
	}

	idx := gltf.Index(uint32(len(e.doc.Textures)))
	e.doc.Textures = append(e.doc.Textures, &gltf.Texture{
		Name:    name,
		Sampler: gltf.Index(e.sampler),
		Source:  gltf.Index(img),
	})
	e.textures[name] = idx
	return idx, nil
}
