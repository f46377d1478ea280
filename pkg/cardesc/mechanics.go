package cardesc

import (
	"strconv"
	"strings"

	"github.com/go-gl/mathgl/mgl32"
)

const (
	mechanicsStart   = "START OF MECHANICS STUFF"
	mechanicsEnd     = "END OF MECHANICS STUFF"
	mechanicsVersion = " version "
)

// Mechanics holds the physical parameters of a car.
type Mechanics struct {
	Version int

	LeftRearWheel   mgl32.Vec3
	RightRearWheel  mgl32.Vec3
	LeftFrontWheel  mgl32.Vec3
	RightFrontWheel mgl32.Vec3
	CentreOfMass    mgl32.Vec3

	BoundsMin, BoundsMax mgl32.Vec3
	ExtraPoints          []mgl32.Vec3 // version 3 and later

	MinTurningCircle      float32
	SuspensionGive        [2]float32 // forward, back
	RideHeight            float32
	Damping               float32
	Mass                  float32 // tonnes
	SlipFrictionReduction float32
	FrictionAngles        [2]float32 // front, rear
	InertiaBox            mgl32.Vec3 // width, height, length

	TractionMultiplier float32
	DownforceSpeed     float32
	BrakeMultiplier    float32
	BrakeIncrease      float32

	RollingResistance   [2]float32 // front, back
	Gears               int
	RedLineSpeed        float32
	TopGearAcceleration float32
}

type mechanicsStep func(c *Cursor, m *Mechanics) error

var v3Order = []mechanicsStep{readWheels, readBox, readExtraPoints, readSuspension, readTraction, readGears}

// mechanicsOrders lists the sub-blocks each version reads, in file order.
var mechanicsOrders = map[int][]mechanicsStep{
	2: {readWheels, readBoxCount, readBox, readSuspension, readTraction, readGears},
	3: v3Order,
	4: v3Order,
}

// ReadMechanics reads a whole MECHANICS block, header and terminator
// included.
func ReadMechanics(c *Cursor) (Mechanics, error) {
	var m Mechanics
	header, err := c.NextLine()
	if err != nil {
		return m, err
	}
	if !strings.HasPrefix(header, mechanicsStart) {
		return m, c.errorf(ErrUnexpectedLine, "expected %q, got %q", mechanicsStart, header)
	}
	_, tag, ok := strings.Cut(header, mechanicsVersion)
	if !ok {
		return m, c.errorf(ErrUnexpectedLine, "no version in %q", header)
	}
	if m.Version, err = strconv.Atoi(strings.TrimSpace(tag)); err != nil {
		return m, c.errorf(ErrBadNumber, "version %q", tag)
	}
	order, ok := mechanicsOrders[m.Version]
	if !ok {
		return m, c.errorf(ErrUnsupportedVersion, "version %d", m.Version)
	}
	for _, step := range order {
		if err := step(c, &m); err != nil {
			return m, err
		}
	}
	if err := c.Expect(mechanicsEnd); err != nil {
		return m, err
	}
	return m, nil
}

func readWheels(c *Cursor, m *Mechanics) error {
	for _, dst := range []*mgl32.Vec3{
		&m.LeftRearWheel, &m.RightRearWheel, &m.LeftFrontWheel, &m.RightFrontWheel, &m.CentreOfMass,
	} {
		v, err := c.ReadVector3()
		if err != nil {
			return err
		}
		*dst = v
	}
	return nil
}

// Version 2 stores a box count that is always 1.
func readBoxCount(c *Cursor, _ *Mechanics) error {
	return c.Expect("1")
}

func readBox(c *Cursor, m *Mechanics) (err error) {
	if m.BoundsMin, err = c.ReadVector3(); err != nil {
		return err
	}
	m.BoundsMax, err = c.ReadVector3()
	return err
}

func readExtraPoints(c *Cursor, m *Mechanics) error {
	n, err := c.ReadInt()
	if err != nil {
		return err
	}
	if n < 0 || n > c.Remaining() {
		return c.errorf(ErrBadNumber, "%d extra points with %d lines left", n, c.Remaining())
	}
	m.ExtraPoints = make([]mgl32.Vec3, n)
	for i := range m.ExtraPoints {
		if m.ExtraPoints[i], err = c.ReadVector3(); err != nil {
			return err
		}
	}
	return nil
}

func readSuspension(c *Cursor, m *Mechanics) (err error) {
	if m.MinTurningCircle, err = c.ReadFloat(); err != nil {
		return err
	}
	if err = readPair(c, &m.SuspensionGive); err != nil {
		return err
	}
	if m.RideHeight, err = c.ReadFloat(); err != nil {
		return err
	}
	if m.Damping, err = c.ReadFloat(); err != nil {
		return err
	}
	if m.Mass, err = c.ReadFloat(); err != nil {
		return err
	}
	if m.SlipFrictionReduction, err = c.ReadFloat(); err != nil {
		return err
	}
	if err = readPair(c, &m.FrictionAngles); err != nil {
		return err
	}
	m.InertiaBox, err = c.ReadVector3()
	return err
}

func readTraction(c *Cursor, m *Mechanics) error {
	for _, dst := range []*float32{&m.TractionMultiplier, &m.DownforceSpeed, &m.BrakeMultiplier, &m.BrakeIncrease} {
		v, err := c.ReadFloat()
		if err != nil {
			return err
		}
		*dst = v
	}
	return nil
}

func readGears(c *Cursor, m *Mechanics) (err error) {
	if err = readPair(c, &m.RollingResistance); err != nil {
		return err
	}
	if m.Gears, err = c.ReadInt(); err != nil {
		return err
	}
	if m.RedLineSpeed, err = c.ReadFloat(); err != nil {
		return err
	}
	m.TopGearAcceleration, err = c.ReadFloat()
	return err
}

func readPair(c *Cursor, dst *[2]float32) error {
	v, err := c.ReadFloats(2)
	if err != nil {
		return err
	}
	dst[0], dst[1] = v[0], v[1]
	return nil
}
