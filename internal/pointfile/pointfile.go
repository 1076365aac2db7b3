// Package pointfile reads and writes point files: one "x;y;class" record per
// line, newline separated, with no header and no trailing newline.
package pointfile

import (
	"bufio"
	"errors"
	"fmt"
	"io"
	"math"
	"os"
	"strconv"
	"strings"

	"raster-points/internal/atomicfile"
	"raster-points/internal/points"
)

// Separator is the field delimiter.
const Separator = ';'

// Extension is the conventional file suffix.
const Extension = ".points"

// ErrMalformedRecord marks a line that does not parse as x;y;class.
var ErrMalformedRecord = errors.New("pointfile: malformed record")

// MalformedRecordError reports the offending line.
type MalformedRecordError struct {
	Line int    // 1-based line number
	Text string // Line content as read
	Err  error  // Underlying parse error
}

func (e *MalformedRecordError) Error() string {
	return fmt.Sprintf("pointfile: line %d %q: %v", e.Line, e.Text, e.Err)
}

func (e *MalformedRecordError) Unwrap() error { return e.Err }

// Is makes errors.Is(err, ErrMalformedRecord) hold for every MalformedRecordError.
func (e *MalformedRecordError) Is(target error) bool { return target == ErrMalformedRecord }

// AppendRecord appends the text form of r to dst. Coordinates use the
// shortest decimal that round-trips to the same float64.
func AppendRecord(dst []byte, r points.Record) []byte {
	dst = strconv.AppendFloat(dst, r.X, 'f', -1, 64)
	dst = append(dst, Separator)
	dst = strconv.AppendFloat(dst, r.Y, 'f', -1, 64)
	dst = append(dst, Separator)
	return strconv.AppendInt(dst, int64(r.Class), 10)
}

// Encode renders pts as point file text.
func Encode(pts []points.Record) string {
	var b strings.Builder
	buf := make([]byte, 0, 64)
	for i, p := range pts {
		if i > 0 {
			b.WriteByte('\n')
		}
		buf = AppendRecord(buf[:0], p)
		b.Write(buf)
	}
	return b.String()
}

// ErrNonFinite is returned by Write for a record with a NaN or infinite
// coordinate, which Read would reject.
var ErrNonFinite = errors.New("pointfile: non-finite coordinate")

// Write streams pts to w in point file format.
func Write(w io.Writer, pts []points.Record) error {
	buf := make([]byte, 0, 64)
	for i, p := range pts {
		if !p.Point().IsFinite() {
			return fmt.Errorf("%w: record %d (%g, %g)", ErrNonFinite, i, p.X, p.Y)
		}
		buf = buf[:0]
		if i > 0 {
			buf = append(buf, '\n')
		}
		buf = AppendRecord(buf, p)
		if _, err := w.Write(buf); err != nil {
			return fmt.Errorf("failed to write points: %w", err)
		}
	}
	return nil
}

// Decode parses point file text. Empty input yields an empty slice.
func Decode(text string) ([]points.Record, error) {
	return Read(strings.NewReader(text))
}

// Read parses a whole point file from r. Each line is split literally on the
// separator; quoting is not recognised. Blank lines are skipped; any other
// line must hold exactly three fields with finite coordinates and a
// non-negative integer class, otherwise a *MalformedRecordError is returned.
func Read(r io.Reader) ([]points.Record, error) {
	sc := bufio.NewScanner(r)
	pts := []points.Record{}
	for line := 1; sc.Scan(); line++ {
		text := strings.TrimSuffix(sc.Text(), "\r")
		if strings.TrimSpace(text) == "" {
			continue
		}
		rec, err := parseRecord(strings.Split(text, string(Separator)))
		if err != nil {
			return nil, &MalformedRecordError{Line: line, Text: text, Err: err}
		}
		pts = append(pts, rec)
	}
	if err := sc.Err(); err != nil {
		return nil, fmt.Errorf("failed to read points: %w", err)
	}
	return pts, nil
}

func parseRecord(fields []string) (points.Record, error) {
	if len(fields) != 3 {
		return points.Record{}, fmt.Errorf("want 3 fields, got %d", len(fields))
	}
	x, err := parseCoord(fields[0])
	if err != nil {
		return points.Record{}, fmt.Errorf("x: %w", err)
	}
	y, err := parseCoord(fields[1])
	if err != nil {
		return points.Record{}, fmt.Errorf("y: %w", err)
	}
	class, err := strconv.ParseInt(strings.TrimSpace(fields[2]), 10, 32)
	if err != nil {
		return points.Record{}, fmt.Errorf("class: %w", err)
	}
	if class < 0 {
		return points.Record{}, fmt.Errorf("class %d is negative", class)
	}
	return points.Record{X: x, Y: y, Class: int32(class)}, nil
}

func parseCoord(s string) (float64, error) {
	v, err := strconv.ParseFloat(strings.TrimSpace(s), 64)
	if err != nil {
		return 0, err
	}
	if math.IsNaN(v) || math.IsInf(v, 0) {
		return 0, fmt.Errorf("%q is not finite", s)
	}
	return v, nil
}

// ReadFile reads and parses the point file at path.
func ReadFile(path string) ([]points.Record, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("failed to open points: %w", err)
	}
	defer f.Close()

	pts, err := Read(f)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", path, err)
	}
	return pts, nil
}

// WriteFile writes pts to path. The file appears only once fully written.
func WriteFile(path string, pts []points.Record) error {
	return atomicfile.WriteFile(path, func(w io.Writer) error {
		return Write(w, pts)
	})
}
