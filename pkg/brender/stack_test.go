package brender_test

import (
	"errors"
	"testing"

	"github.com/Faultbox/carmaload/pkg/brender"
)

func TestStack_PushPop(t *testing.T) {
	var s brender.Stack
	m := &brender.Model{Name: "EAGLE"}
	s.Push(m)

	got, err := brender.Pop[*brender.Model](&s)
	if err != nil {
		t.Fatalf("Pop: %v", err)
	}
	if got != m {
		t.Errorf("Pop returned %p, want %p", got, m)
	}
	if s.Len() != 0 {
		t.Errorf("Len = %d after pop, want 0", s.Len())
	}
}

func TestStack_PopEmpty(t *testing.T) {
	var s brender.Stack
	_, err := brender.Pop[*brender.Model](&s)
	if !errors.Is(err, brender.ErrStackEmpty) {
		t.Fatalf("got %v, want ErrStackEmpty", err)
	}
	var se *brender.StackError
	if !errors.As(err, &se) || se.Expected != brender.KindModel || se.Got != brender.KindNone {
		t.Errorf("got %+v", se)
	}
}

func TestStack_PopWrongKind(t *testing.T) {
	var s brender.Stack
	s.Push(&brender.Material{Name: "RED"})

	_, err := brender.Pop[*brender.Model](&s)
	if !errors.Is(err, brender.ErrStackKind) {
		t.Fatalf("got %v, want ErrStackKind", err)
	}
	var se *brender.StackError
	if !errors.As(err, &se) {
		t.Fatalf("error %T is not a *StackError", err)
	}
	if se.Expected != brender.KindModel || se.Got != brender.KindMaterial {
		t.Errorf("expected/got = %s/%s, want model/material", se.Expected, se.Got)
	}
	if s.Len() != 1 {
		t.Errorf("failed pop changed the stack: Len = %d", s.Len())
	}
}

func TestStack_TopMutates(t *testing.T) {
	var s brender.Stack
	s.Push(&brender.PixelMap{Name: "PAL"})
	s.Push(&brender.Material{Name: "RED"})

	if _, ok := brender.Top[*brender.PixelMap](&s); ok {
		t.Error("Top found a pixelmap under a material")
	}

	mat, ok := brender.Top[*brender.Material](&s)
	if !ok {
		t.Fatal("Top did not find the material")
	}
	mat.ColourMap = "RED.PIX"

	got, err := brender.Pop[*brender.Material](&s)
	if err != nil {
		t.Fatalf("Pop: %v", err)
	}
	if got.ColourMap != "RED.PIX" {
		t.Errorf("ColourMap = %q, want RED.PIX", got.ColourMap)
	}

	kinds := s.Kinds()
	if len(kinds) != 1 || kinds[0] != brender.KindPixelMap {
		t.Errorf("Kinds = %v, want [pixelmap]", kinds)
	}
}

func TestStack_LIFO(t *testing.T) {
	var s brender.Stack
	bounds := &brender.Bounds{}
	light := &brender.Light{Name: "sun"}
	s.Push(bounds)
	s.Push(light)

	if got, err := brender.Pop[*brender.Light](&s); err != nil || got != light {
		t.Errorf("first pop = %v, %v", got, err)
	}
	if got, err := brender.Pop[*brender.Bounds](&s); err != nil || got != bounds {
		t.Errorf("second pop = %v, %v", got, err)
	}
}
