// Package cube reads and writes the .cube LUT text interchange format.
//
// The format is a whitespace-delimited header (TITLE, LUT_3D_SIZE or
// LUT_1D_SIZE, optional DOMAIN_MIN/DOMAIN_MAX) followed by one line of
// three floats per sample. Sample lines are ordered with the red axis
// varying fastest, which matches the in-memory layout of lut.Grid, so
// read and write are straight table copies and round-trip cleanly.
//
// 1D (shaper) tables are accepted on read and expanded to an equivalent
// 3D grid via lut.Expand1D; only 3D tables are written.
package cube

import (
	"bufio"
	"fmt"
	"io"
	"math"
	"os"
	"path/filepath"
	"strconv"
	"strings"

	"github.com/lutforge/lutforge/pkg/errors"
	"github.com/lutforge/lutforge/pkg/lut"
)

// Extension is the file extension for LUT files, including the dot.
const Extension = ".cube"

// maxSize guards against absurd allocations from a corrupt header
// (257³ triples is already half a gigabyte as text).
const maxSize = 256

// Read parses a .cube stream into a 3D grid. 1D tables are expanded.
// The grid name comes from TITLE when present, else defaultName.
func Read(r io.Reader, defaultName string) (*lut.Grid, error) {
	var (
		title   string
		size3D  int
		size1D  int
		table   []lut.Vec3
		scanner = bufio.NewScanner(r)
		lineNo  int
	)

	for scanner.Scan() {
		lineNo++
		line := strings.TrimSpace(scanner.Text())
		if line == "" || strings.HasPrefix(line, "#") {
			continue
		}

		fields := strings.Fields(line)
		switch strings.ToUpper(fields[0]) {
		case "TITLE":
			title = strings.Trim(strings.TrimSpace(strings.TrimPrefix(line, fields[0])), `"`)
			continue
		case "LUT_3D_SIZE", "LUT_1D_SIZE":
			if len(fields) != 2 {
				return nil, errors.New(errors.ErrCodeMalformedLUT, "line %d: %s needs one integer argument", lineNo, fields[0])
			}
			n, err := strconv.Atoi(fields[1])
			if err != nil || n < 2 || n > maxSize {
				return nil, errors.New(errors.ErrCodeMalformedLUT, "line %d: bad LUT size %q", lineNo, fields[1])
			}
			if strings.ToUpper(fields[0]) == "LUT_3D_SIZE" {
				size3D = n
				table = make([]lut.Vec3, 0, n*n*n)
			} else {
				size1D = n
				table = make([]lut.Vec3, 0, n)
			}
			continue
		case "DOMAIN_MIN", "DOMAIN_MAX", "LUT_3D_INPUT_RANGE", "LUT_1D_INPUT_RANGE":
			// Accepted for compatibility; the sampling domain is fixed
			// to the unit cube.
			continue
		}

		v, err := parseTriple(fields)
		if err != nil {
			return nil, errors.New(errors.ErrCodeMalformedLUT, "line %d: %v", lineNo, err)
		}
		if table == nil {
			return nil, errors.New(errors.ErrCodeMalformedLUT, "line %d: sample data before LUT size header", lineNo)
		}
		table = append(table, v)
	}
	if err := scanner.Err(); err != nil {
		return nil, errors.Wrap(errors.ErrCodeIO, err, "read LUT stream")
	}

	name := title
	if name == "" {
		name = defaultName
	}

	switch {
	case size3D > 0:
		if want := size3D * size3D * size3D; len(table) != want {
			return nil, errors.New(errors.ErrCodeMalformedLUT, "table has %d samples, want %d for size %d", len(table), want, size3D)
		}
		return &lut.Grid{Size: size3D, Table: table, Name: name}, nil
	case size1D > 0:
		if len(table) != size1D {
			return nil, errors.New(errors.ErrCodeMalformedLUT, "1D table has %d samples, want %d", len(table), size1D)
		}
		g, err := lut.Expand1D(table, name)
		if err != nil {
			return nil, errors.Wrap(errors.ErrCodeMalformedLUT, err, "expand 1D LUT")
		}
		return g, nil
	default:
		return nil, errors.New(errors.ErrCodeMalformedLUT, "missing LUT_3D_SIZE or LUT_1D_SIZE header")
	}
}

// ReadFile parses a .cube file. The filename (without extension) is the
// fallback grid name when the file carries no TITLE.
func ReadFile(path string) (*lut.Grid, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, errors.Wrap(errors.ErrCodeIO, err, "open %s", path)
	}
	defer f.Close()
	return Read(f, BaseName(path))
}

// Write serializes a 3D grid as .cube text.
func Write(w io.Writer, g *lut.Grid) error {
	if err := g.Validate(); err != nil {
		return errors.Wrap(errors.ErrCodeInternal, err, "refusing to write invalid grid")
	}

	bw := bufio.NewWriter(w)
	if g.Name != "" {
		fmt.Fprintf(bw, "TITLE %q\n", g.Name)
	}
	fmt.Fprintf(bw, "LUT_3D_SIZE %d\n", g.Size)
	fmt.Fprintf(bw, "DOMAIN_MIN 0.0 0.0 0.0\n")
	fmt.Fprintf(bw, "DOMAIN_MAX 1.0 1.0 1.0\n")

	for _, v := range g.Table {
		fmt.Fprintf(bw, "%.6f %.6f %.6f\n", v[0], v[1], v[2])
	}
	if err := bw.Flush(); err != nil {
		return errors.Wrap(errors.ErrCodeIO, err, "write LUT stream")
	}
	return nil
}

// WriteFile writes a grid to path, creating parent directories as needed.
// Directory creation is idempotent, so concurrent writers targeting the
// same output directory do not race.
func WriteFile(path string, g *lut.Grid) error {
	if dir := filepath.Dir(path); dir != "." {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return errors.Wrap(errors.ErrCodeIO, err, "create output directory %s", dir)
		}
	}
	f, err := os.Create(path)
	if err != nil {
		return errors.Wrap(errors.ErrCodeIO, err, "create %s", path)
	}
	if err := Write(f, g); err != nil {
		f.Close()
		return err
	}
	if err := f.Close(); err != nil {
		return errors.Wrap(errors.ErrCodeIO, err, "close %s", path)
	}
	return nil
}

// BaseName returns the file's name without directory or extension,
// the conventional provenance label for a loaded LUT.
func BaseName(path string) string {
	base := filepath.Base(path)
	return strings.TrimSuffix(base, filepath.Ext(base))
}

// IsLUTFile reports whether path has the .cube extension (case-insensitive).
func IsLUTFile(path string) bool {
	return strings.EqualFold(filepath.Ext(path), Extension)
}

func parseTriple(fields []string) (lut.Vec3, error) {
	var v lut.Vec3
	if len(fields) != 3 {
		return v, fmt.Errorf("expected 3 values, got %d", len(fields))
	}
	for i, f := range fields {
		x, err := strconv.ParseFloat(f, 64)
		if err != nil {
			return v, fmt.Errorf("bad float %q", f)
		}
		// ParseFloat accepts "nan" and "inf" tokens, but table samples
		// must be finite: a NaN poisons interpolation indices downstream.
		if math.IsNaN(x) || math.IsInf(x, 0) {
			return v, fmt.Errorf("non-finite value %q", f)
		}
		v[i] = x
	}
	return v, nil
}
