package car

import (
	"fmt"
	"io"

	"github.com/davecgh/go-spew/spew"
)

var spewConfig = &spew.ConfigState{
	Indent:                  "  ",
	DisableMethods:          true,
	DisableCapacities:       true,
	DisablePointerAddresses: true,
	SortKeys:                true,
}

// Dump writes a human readable listing of the car: the actor tree, where
// each model actor sits in car space, and the loaded resources.
func (c *Car) Dump(w io.Writer) error {
	fmt.Fprintf(w, "Car %s\n", c.Name)
	if c.Actors != nil {
		if err := c.Actors.Format(w); err != nil {
			return err
		}
		if err := c.dumpActorPoints(w); err != nil {
			return err
		}
	}
	for _, name := range c.TextureNames() {
		fmt.Fprintf(w, "Texture %s: %s\n", name, c.Textures[name])
	}
	for _, name := range c.ModelNames() {
		m := c.Models[name]
		fmt.Fprintf(w, "Mesh %s: %d vertices, %d faces\n", name, len(m.Vertices), len(m.Faces))
		for _, mat := range m.MaterialNames {
			fmt.Fprintf(w, "... Material %s\n", mat)
		}
	}
	for _, name := range c.MaterialNames() {
		_, err := fmt.Fprintf(w, "Material %s: %s\n", name, c.Materials[name])
		if err != nil {
			return err
		}
	}
	return nil
}

func (c *Car) dumpActorPoints(w io.Writer) error {
	for i, n := range c.Actors.Nodes {
		if n.ModelName == "" {
			continue
		}
		m, err := c.Actors.WorldMatrix(i)
		if err != nil {
			return err
		}
		pos := m.Col(3)
		fmt.Fprintf(w, "Actor %s at (%g, %g, %g)\n", n.Name, pos.X(), pos.Y(), pos.Z())
	}
	return nil
}

// DumpDescription writes every field of the parsed description.
func (c *Car) DumpDescription(w io.Writer) {
	spewConfig.Fdump(w, c.Description)
}
