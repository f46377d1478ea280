package cardesc

import (
	"fmt"
	"io"
	"slices"
	"strconv"

	"github.com/go-gl/mathgl/mgl32"
	"go.uber.org/zap"

	"github.com/Faultbox/carmaload/internal/logger"
)

// Impact sides, in the order their damage clauses appear.
const (
	ImpactTop = iota
	ImpactBottom
	ImpactLeft
	ImpactRight
	ImpactFront
	ImpactRear
	impactSides
)

// Detail levels of the pixelmap and material lists.
const (
	DetailLow = iota
	DetailMid
	DetailHigh
	detailLevels
)

// Suspension GroovyFunkRef slots.
const (
	SuspensionLeftFront = iota
	SuspensionRightFront
	SuspensionLeftRear
	SuspensionRightRear
	suspensionSlots
)

// ActorRef names the actor file used at one level of detail.
type ActorRef struct {
	LOD  int
	File string
}

// CrushPoint is one deformable vertex of a crush data block.
type CrushPoint struct {
	Vertex     int
	Limits     [4]mgl32.Vec3
	Neighbours [][2]string
}

// CrushData describes how one model deforms on impact.
type CrushData struct {
	Params []float32 // the leading scalar lines, flattened
	Points []CrushPoint
}

// crushParamLines is the number of lines before the point count. The second
// line carries two values.
var crushParamLines = []int{1, 2, 1, 1, 1, 1}

// Description is a parsed vehicle description.
type Description struct {
	Name string

	DriverHead     mgl32.Vec3
	HeadTurnAngles [2]float32
	MirrorOffset   mgl32.Vec3
	MirrorFOV      float32
	PratcamBorders []string // left, top, right, bottom

	EngineNoise []int // normal, enclosed space, underwater
	Stealworthy string
	Damage      [impactSides][]DamageClause

	GridImages  []string
	PixelMaps   [detailLevels][]string
	ShadeTables []string
	Materials   [detailLevels][]string
	Models      []string
	Actors      []ActorRef

	ReflectiveMaterial string
	SteerableWheels    []string
	Suspension         [suspensionSlots]string
	DrivenWheels       []string
	NonDrivenWheels    []string
	DrivenDiameter     float32
	NonDrivenDiameter  float32

	Funk    []string
	Grooves []string
	Crush   [3]CrushData

	Mechanics      Mechanics
	ExtraMaterials []string
}

// ActorFile returns the actor file name for a level of detail.
func (d *Description) ActorFile(lod int) (string, bool) {
	for _, a := range d.Actors {
		if a.LOD == lod {
			return a.File, true
		}
	}
	return "", false
}

// AllPixelMaps returns every pixelmap file of all detail levels, sorted and
// without duplicates.
func (d *Description) AllPixelMaps() []string {
	return uniqueSorted(d.PixelMaps[:]...)
}

// AllMaterials returns every material file of all detail levels, sorted and
// without duplicates. ExtraMaterials are not included.
func (d *Description) AllMaterials() []string {
	return uniqueSorted(d.Materials[:]...)
}

// ModelFiles returns the model files, sorted and without duplicates.
func (d *Description) ModelFiles() []string {
	return uniqueSorted(d.Models)
}

func uniqueSorted(lists ...[]string) []string {
	var out []string
	for _, l := range lists {
		out = append(out, l...)
	}
	slices.Sort(out)
	return slices.Compact(out)
}

// Parse reads a complete vehicle description.
func Parse(r io.Reader) (*Description, error) {
	c, err := NewCursor(r)
	if err != nil {
		return nil, err
	}
	d := &Description{}
	p := parser{c: c}

	d.Name = p.line()
	p.expect("START OF DRIVABLE STUFF")
	d.DriverHead = p.vec3()
	p.floatsInto(d.HeadTurnAngles[:])
	mirror := p.floats(4)
	if len(mirror) == 4 {
		d.MirrorOffset = mgl32.Vec3{mirror[0], mirror[1], mirror[2]}
		d.MirrorFOV = mirror[3]
	}
	d.PratcamBorders = SplitList(p.line())
	p.expect("END OF DRIVABLE STUFF")

	d.EngineNoise = p.ints()
	d.Stealworthy = p.line()
	for i := range d.Damage {
		d.Damage[i] = p.clauses()
	}

	d.GridImages = SplitList(p.line())
	for i := range d.PixelMaps {
		d.PixelMaps[i] = p.list()
	}
	d.ShadeTables = p.list()
	for i := range d.Materials {
		d.Materials[i] = p.list()
	}
	d.Models = p.list()
	d.Actors = p.actors()

	d.ReflectiveMaterial = p.line()
	d.SteerableWheels = p.list()
	for i := range d.Suspension {
		d.Suspension[i] = p.line()
	}
	d.DrivenWheels = SplitList(p.line())
	d.NonDrivenWheels = SplitList(p.line())
	d.DrivenDiameter = p.number()
	d.NonDrivenDiameter = p.number()

	d.Funk = p.block("START OF FUNK", "END OF FUNK")
	d.Grooves = p.block("START OF GROOVE", "END OF GROOVE")
	for i := range d.Crush {
		d.Crush[i] = p.crush()
	}

	if p.err == nil {
		d.Mechanics, p.err = ReadMechanics(c)
	}
	d.ExtraMaterials = p.list()

	if p.err != nil {
		return nil, p.err
	}
	logger.Named("cardesc").Debug("parsed description",
		zap.String("name", d.Name),
		zap.Int("mechanics", d.Mechanics.Version),
		zap.Int("models", len(d.Models)),
		zap.Int("actors", len(d.Actors)))
	return d, nil
}

// parser wraps a Cursor and keeps the first error, so Parse reads as the
// field sequence. Once err is set every read is a no-op.
type parser struct {
	c   *Cursor
	err error
}

func (p *parser) line() string {
	if p.err != nil {
		return ""
	}
	var s string
	s, p.err = p.c.NextLine()
	return s
}

func (p *parser) expect(lit string) {
	if p.err == nil {
		p.err = p.c.Expect(lit)
	}
}

func (p *parser) vec3() mgl32.Vec3 {
	if p.err != nil {
		return mgl32.Vec3{}
	}
	var v mgl32.Vec3
	v, p.err = p.c.ReadVector3()
	return v
}

func (p *parser) number() float32 {
	if p.err != nil {
		return 0
	}
	var v float32
	v, p.err = p.c.ReadFloat()
	return v
}

func (p *parser) floats(n int) []float32 {
	if p.err != nil {
		return nil
	}
	var v []float32
	v, p.err = p.c.ReadFloats(n)
	return v
}

func (p *parser) floatsInto(dst []float32) {
	copy(dst, p.floats(len(dst)))
}

func (p *parser) integer() int {
	if p.err != nil {
		return 0
	}
	var v int
	v, p.err = p.c.ReadInt()
	return v
}

func (p *parser) ints() []int {
	if p.err != nil {
		return nil
	}
	var v []int
	v, p.err = p.c.ReadInts()
	return v
}

func (p *parser) list() []string {
	if p.err != nil {
		return nil
	}
	var v []string
	v, p.err = p.c.ReadSizedList()
	return v
}

func (p *parser) clauses() []DamageClause {
	if p.err != nil {
		return nil
	}
	var v []DamageClause
	v, p.err = p.c.ReadClauses()
	return v
}

func (p *parser) block(start, end string) []string {
	if p.err != nil {
		return nil
	}
	var v []string
	v, p.err = p.c.SkipBlock(start, end)
	return v
}

// actors reads the sized list of "lod,file" pairs.
func (p *parser) actors() []ActorRef {
	entries := p.list()
	if p.err != nil {
		return nil
	}
	refs := make([]ActorRef, 0, len(entries))
	for _, e := range entries {
		f := SplitList(e)
		if len(f) != 2 {
			p.err = p.c.errorf(ErrUnexpectedLine, "actor entry %q", e)
			return nil
		}
		lod, err := strconv.Atoi(f[0])
		if err != nil {
			p.err = p.c.errorf(ErrBadNumber, "actor level %q", f[0])
			return nil
		}
		refs = append(refs, ActorRef{LOD: lod, File: f[1]})
	}
	return refs
}

func (p *parser) crush() CrushData {
	var cd CrushData
	for _, n := range crushParamLines {
		cd.Params = append(cd.Params, p.floats(n)...)
	}
	count := p.integer()
	if p.err != nil {
		return cd
	}
	if count < 0 || count > p.c.Remaining() {
		p.err = p.c.errorf(ErrBadNumber, "%d crush points", count)
		return cd
	}
	cd.Points = make([]CrushPoint, count)
	for i := range cd.Points {
		pt := &cd.Points[i]
		pt.Vertex = p.integer()
		for j := range pt.Limits {
			pt.Limits[j] = p.vec3()
		}
		pairs := p.integer()
		if p.err != nil {
			return cd
		}
		if pairs < 0 || pairs*2 > p.c.Remaining() {
			p.err = p.c.errorf(ErrBadNumber, "%d crush neighbours", pairs)
			return cd
		}
		pt.Neighbours = make([][2]string, pairs)
		for j := range pt.Neighbours {
			pt.Neighbours[j] = [2]string{p.line(), p.line()}
		}
	}
	if p.err != nil {
		return CrushData{}
	}
	return cd
}

func (d *Description) String() string {
	return fmt.Sprintf("%s (mechanics v%d, %d models, %d actors)",
		d.Name, d.Mechanics.Version, len(d.Models), len(d.Actors))
}
