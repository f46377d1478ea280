// Package cardesc parses the line-oriented vehicle description files
// (.ENC) that tie a car's actor, model, material and pixelmap resources
// together.
package cardesc

import (
	"bufio"
	"errors"
	"fmt"
	"io"
	"strconv"
	"strings"

	"github.com/go-gl/mathgl/mgl32"

	"github.com/Faultbox/carmaload/pkg/encoding"
)

var (
	ErrUnexpectedLine     = errors.New("unexpected line")
	ErrUnexpectedEOF      = errors.New("unexpected end of description")
	ErrBadNumber          = errors.New("bad number")
	ErrUnsupportedVersion = errors.New("unsupported mechanics version")
)

// SyntaxError reports a malformed description line.
type SyntaxError struct {
	Line int // 1-based source line; 0 when the input ran out
	Msg  string
	Err  error
}

func (e *SyntaxError) Error() string {
	if e.Line == 0 {
		return fmt.Sprintf("end of input: %s: %v", e.Msg, e.Err)
	}
	return fmt.Sprintf("line %d: %s: %v", e.Line, e.Msg, e.Err)
}

func (e *SyntaxError) Unwrap() error {
	return e.Err
}

const commentPrefix = "//"

type sourceLine struct {
	text string
	num  int
}

// Cursor walks the data lines of a description. Blank lines and comments
// are removed up front, so every read sees the next meaningful value.
type Cursor struct {
	lines []sourceLine
	pos   int
}

// NewCursor reads all of r. Lines are decoded from Windows-1252 unless
// they already are valid UTF-8.
func NewCursor(r io.Reader) (*Cursor, error) {
	c := &Cursor{}
	sc := bufio.NewScanner(r)
	num := 0
	for sc.Scan() {
		num++
		text := strings.TrimSpace(encoding.Windows1252ToUTF8(sc.Bytes()))
		if text == "" || strings.HasPrefix(text, commentPrefix) {
			continue
		}
		if i := strings.Index(text, commentPrefix); i >= 0 {
			text = strings.TrimSpace(text[:i])
		}
		c.lines = append(c.lines, sourceLine{text: text, num: num})
	}
	if err := sc.Err(); err != nil {
		return nil, fmt.Errorf("reading description: %w", err)
	}
	return c, nil
}

// Remaining returns the number of unread data lines.
func (c *Cursor) Remaining() int {
	return len(c.lines) - c.pos
}

// Line returns the source line number of the last line read.
func (c *Cursor) Line() int {
	if c.pos == 0 {
		return 0
	}
	return c.lines[c.pos-1].num
}

func (c *Cursor) errorf(err error, format string, args ...any) error {
	return &SyntaxError{Line: c.Line(), Msg: fmt.Sprintf(format, args...), Err: err}
}

// NextLine returns the next data line.
func (c *Cursor) NextLine() (string, error) {
	if c.pos >= len(c.lines) {
		return "", &SyntaxError{Msg: "reading line", Err: ErrUnexpectedEOF}
	}
	l := c.lines[c.pos]
	c.pos++
	return l.text, nil
}

// Expect consumes the next line, which must equal lit.
func (c *Cursor) Expect(lit string) error {
	line, err := c.NextLine()
	if err != nil {
		return &SyntaxError{Msg: fmt.Sprintf("expected %q", lit), Err: ErrUnexpectedEOF}
	}
	if line != lit {
		return c.errorf(ErrUnexpectedLine, "expected %q, got %q", lit, line)
	}
	return nil
}

// ReadInt reads a line holding one integer.
func (c *Cursor) ReadInt() (int, error) {
	line, err := c.NextLine()
	if err != nil {
		return 0, err
	}
	n, err := strconv.Atoi(line)
	if err != nil {
		return 0, c.errorf(ErrBadNumber, "%q is not an integer", line)
	}
	return n, nil
}

// ReadInts reads a comma separated line of integers.
func (c *Cursor) ReadInts() ([]int, error) {
	line, err := c.NextLine()
	if err != nil {
		return nil, err
	}
	fields := SplitList(line)
	out := make([]int, len(fields))
	for i, f := range fields {
		if out[i], err = strconv.Atoi(f); err != nil {
			return nil, c.errorf(ErrBadNumber, "%q is not an integer", f)
		}
	}
	return out, nil
}

// ReadFloat reads a line holding one number.
func (c *Cursor) ReadFloat() (float32, error) {
	v, err := c.ReadFloats(1)
	if err != nil {
		return 0, err
	}
	return v[0], nil
}

// ReadFloats reads a comma separated line of exactly n numbers.
func (c *Cursor) ReadFloats(n int) ([]float32, error) {
	line, err := c.NextLine()
	if err != nil {
		return nil, err
	}
	fields := SplitList(line)
	if len(fields) != n {
		return nil, c.errorf(ErrBadNumber, "want %d values, got %q", n, line)
	}
	out := make([]float32, n)
	for i, f := range fields {
		v, err := strconv.ParseFloat(f, 32)
		if err != nil {
			return nil, c.errorf(ErrBadNumber, "%q is not a number", f)
		}
		out[i] = float32(v)
	}
	return out, nil
}

// ReadVector3 reads an "x,y,z" line.
func (c *Cursor) ReadVector3() (mgl32.Vec3, error) {
	v, err := c.ReadFloats(3)
	if err != nil {
		return mgl32.Vec3{}, err
	}
	return mgl32.Vec3{v[0], v[1], v[2]}, nil
}

// ReadSizedList reads a count line followed by that many lines.
func (c *Cursor) ReadSizedList() ([]string, error) {
	n, err := c.ReadInt()
	if err != nil {
		return nil, err
	}
	if n < 0 || n > c.Remaining() {
		return nil, c.errorf(ErrBadNumber, "list of %d entries with %d lines left", n, c.Remaining())
	}
	out := make([]string, n)
	for i := range out {
		if out[i], err = c.NextLine(); err != nil {
			return nil, err
		}
	}
	return out, nil
}

// DamageClause is one condition of an impact damage entry and the systems it hurts.
type DamageClause struct {
	Condition string
	Systems   []string
}

// ReadClauses reads a clause count, then per clause a condition line and a
// sized list of systems.
func (c *Cursor) ReadClauses() ([]DamageClause, error) {
	n, err := c.ReadInt()
	if err != nil {
		return nil, err
	}
	if n < 0 || n > c.Remaining() {
		return nil, c.errorf(ErrBadNumber, "%d clauses with %d lines left", n, c.Remaining())
	}
	clauses := make([]DamageClause, n)
	for i := range clauses {
		if clauses[i].Condition, err = c.NextLine(); err != nil {
			return nil, err
		}
		if clauses[i].Systems, err = c.ReadSizedList(); err != nil {
			return nil, err
		}
	}
	return clauses, nil
}

// SkipBlock consumes a start marker and every line up to the end marker,
// returning the lines in between.
func (c *Cursor) SkipBlock(start, end string) ([]string, error) {
	if err := c.Expect(start); err != nil {
		return nil, err
	}
	var body []string
	for {
		line, err := c.NextLine()
		if err != nil {
			return nil, &SyntaxError{Msg: fmt.Sprintf("looking for %q", end), Err: ErrUnexpectedEOF}
		}
		if line == end {
			return body, nil
		}
		body = append(body, line)
	}
}

// SplitList splits a comma separated line into trimmed fields.
func SplitList(line string) []string {
	fields := strings.Split(line, ",")
	for i := range fields {
		fields[i] = strings.TrimSpace(fields[i])
	}
	return fields
}
