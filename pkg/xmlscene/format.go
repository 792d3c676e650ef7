package xmlscene

import (
	"errors"
	"fmt"
	"math"
	"strconv"
	"strings"

	"github.com/taigrr/sceneport/pkg/math3d"
)

// ErrNotFinite is returned when a value is infinite or NaN once narrowed to
// the float32 precision the renderer parses.
var ErrNotFinite = errors.New("value not finite as float32")

// formatFloat renders v as the shortest decimal that round-trips a float32,
// which is the precision the renderer parses. Values that narrow to zero,
// negative zero included, print as "0".
func formatFloat(v float64) (string, error) {
	f := float64(float32(v))
	if math.IsInf(f, 0) || math.IsNaN(f) {
		return "", fmt.Errorf("%v: %w", v, ErrNotFinite)
	}
	if f == 0 {
		return "0", nil
	}
	return strconv.FormatFloat(f, 'f', -1, 32), nil
}

func formatFloats(vs ...float64) (string, error) {
	parts := make([]string, len(vs))
	for i, v := range vs {
		s, err := formatFloat(v)
		if err != nil {
			return "", err
		}
		parts[i] = s
	}
	return strings.Join(parts, " "), nil
}

// parseFloats reads exactly n whitespace-separated numbers.
func parseFloats(s string, n int) ([]float64, error) {
	fields := strings.Fields(s)
	if len(fields) != n {
		return nil, fmt.Errorf("expected %d numbers, got %d in %q", n, len(fields), s)
	}
	out := make([]float64, n)
	for i, f := range fields {
		v, err := strconv.ParseFloat(f, 64)
		if err != nil {
			return nil, fmt.Errorf("parse %q: %w", f, err)
		}
		out[i] = v
	}
	return out, nil
}

func parseVec3(s string) (math3d.Vec3, error) {
	f, err := parseFloats(s, 3)
	if err != nil {
		return math3d.Vec3{}, err
	}
	return math3d.V3(f[0], f[1], f[2]), nil
}

func parseVec4(s string) (math3d.Vec4, error) {
	f, err := parseFloats(s, 4)
	if err != nil {
		return math3d.Vec4{}, err
	}
	return math3d.V4(f[0], f[1], f[2], f[3]), nil
}

func parseFloat(s string) (float64, error) {
	f, err := parseFloats(s, 1)
	if err != nil {
		return 0, err
	}
	return f[0], nil
}

func parseInt(s string) (int, error) {
	return strconv.Atoi(strings.TrimSpace(s))
}

// parseNumberRows reads a flat list of numbers grouped into rows of width n.
func parseNumberRows(s string, n int) ([][]float64, error) {
	fields := strings.Fields(s)
	if len(fields)%n != 0 {
		return nil, fmt.Errorf("%d numbers is not a multiple of %d", len(fields), n)
	}
	rows := make([][]float64, 0, len(fields)/n)
	for i := 0; i < len(fields); i += n {
		row := make([]float64, n)
		for j := range n {
			v, err := strconv.ParseFloat(fields[i+j], 64)
			if err != nil {
				return nil, fmt.Errorf("parse %q: %w", fields[i+j], err)
			}
			row[j] = v
		}
		rows = append(rows, row)
	}
	return rows, nil
}
