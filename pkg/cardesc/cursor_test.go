package cardesc_test

import (
	"errors"
	"strings"
	"testing"

	"github.com/Faultbox/carmaload/pkg/cardesc"
)

func newCursor(t *testing.T, text string) *cardesc.Cursor {
	t.Helper()
	c, err := cardesc.NewCursor(strings.NewReader(text))
	if err != nil {
		t.Fatalf("NewCursor: %v", err)
	}
	return c
}

func TestCursor_Comments(t *testing.T) {
	c := newCursor(t, "// header comment\n\n   \nFIRST   // trailing\n    // indented comment\n  SECOND\r\n")

	if c.Remaining() != 2 {
		t.Fatalf("Remaining = %d, want 2", c.Remaining())
	}
	line, err := c.NextLine()
	if err != nil || line != "FIRST" {
		t.Errorf("first = %q, %v", line, err)
	}
	if c.Line() != 4 {
		t.Errorf("Line = %d, want 4", c.Line())
	}
	if line, _ = c.NextLine(); line != "SECOND" {
		t.Errorf("second = %q", line)
	}
	_, err = c.NextLine()
	if !errors.Is(err, cardesc.ErrUnexpectedEOF) {
		t.Errorf("got %v, want ErrUnexpectedEOF", err)
	}
}

func TestCursor_Windows1252(t *testing.T) {
	c := newCursor(t, "CAF\xc9\n")
	if line, _ := c.NextLine(); line != "CAFÉ" {
		t.Errorf("got %q, want CAFÉ", line)
	}
}

func TestCursor_Expect(t *testing.T) {
	c := newCursor(t, "START\nOTHER\n")
	if err := c.Expect("START"); err != nil {
		t.Fatalf("Expect: %v", err)
	}

	err := c.Expect("END")
	var se *cardesc.SyntaxError
	if !errors.As(err, &se) || !errors.Is(err, cardesc.ErrUnexpectedLine) {
		t.Fatalf("got %v, want SyntaxError(ErrUnexpectedLine)", err)
	}
	if se.Line != 2 || !strings.Contains(se.Error(), `"OTHER"`) {
		t.Errorf("error = %v", se)
	}

	if err := c.Expect("END"); !errors.Is(err, cardesc.ErrUnexpectedEOF) {
		t.Errorf("past end: got %v", err)
	}
}

func TestCursor_ReadSizedList(t *testing.T) {
	tests := []struct {
		name    string
		input   string
		want    []string
		wantErr error
	}{
		{"empty", "0\n", []string{}, nil},
		{"two entries", "2\nA.PIX\nB.PIX\nC.PIX\n", []string{"A.PIX", "B.PIX"}, nil},
		{"not a count", "many\nA\n", nil, cardesc.ErrBadNumber},
		{"too few lines", "3\nA\n", nil, cardesc.ErrBadNumber},
		{"no count", "", nil, cardesc.ErrUnexpectedEOF},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := newCursor(t, tt.input).ReadSizedList()
			if !errors.Is(err, tt.wantErr) {
				t.Fatalf("got %v, want %v", err, tt.wantErr)
			}
			if strings.Join(got, ",") != strings.Join(tt.want, ",") {
				t.Errorf("got %v, want %v", got, tt.want)
			}
		})
	}
}

func TestCursor_ReadClauses(t *testing.T) {
	c := newCursor(t, "2\nx>0\n1\nengine\ny<0,z>1\n0\nAFTER\n")
	clauses, err := c.ReadClauses()
	if err != nil {
		t.Fatalf("ReadClauses: %v", err)
	}
	if len(clauses) != 2 || clauses[0].Systems[0] != "engine" || clauses[1].Condition != "y<0,z>1" {
		t.Errorf("clauses = %+v", clauses)
	}
	if line, _ := c.NextLine(); line != "AFTER" {
		t.Errorf("cursor left at %q", line)
	}
}

func TestCursor_Numbers(t *testing.T) {
	c := newCursor(t, "1.5, 2 ,3\n4,5\n7\n")
	v, err := c.ReadVector3()
	if err != nil || v.X() != 1.5 || v.Z() != 3 {
		t.Errorf("vector = %v, %v", v, err)
	}
	if _, err := c.ReadVector3(); !errors.Is(err, cardesc.ErrBadNumber) {
		t.Errorf("two values as vector: got %v", err)
	}
	if n, err := c.ReadInt(); err != nil || n != 7 {
		t.Errorf("int = %d, %v", n, err)
	}
}

func TestCursor_SkipBlock(t *testing.T) {
	c := newCursor(t, "START OF FUNK\na\nb\nEND OF FUNK\nnext\n")
	body, err := c.SkipBlock("START OF FUNK", "END OF FUNK")
	if err != nil || strings.Join(body, ",") != "a,b" {
		t.Errorf("body = %v, %v", body, err)
	}

	c = newCursor(t, "START OF GROOVE\na\n")
	if _, err := c.SkipBlock("START OF GROOVE", "END OF GROOVE"); !errors.Is(err, cardesc.ErrUnexpectedEOF) {
		t.Errorf("unterminated: got %v", err)
	}
}

func TestSplitList(t *testing.T) {
	got := cardesc.SplitList(" a , b,c ")
	if strings.Join(got, "|") != "a|b|c" {
		t.Errorf("got %q", got)
	}
}
