package lut

import "fmt"

// Compose concatenates two LUTs into one: the result applies first, then
// second. Every stored sample of first is pushed through second by
// trilinear interpolation, so
//
//	out.Table[p] = second.Sample(first.Table[p])
//
// The result keeps first's resolution, which is the standard convention
// for concatenation. Composition is not commutative.
func Compose(first, second *Grid) (*Grid, error) {
	if err := first.Validate(); err != nil {
		return nil, err
	}
	if err := second.Validate(); err != nil {
		return nil, err
	}

	out := New(first.Size, ComposedName(first.Name, second.Name))
	for i, v := range first.Table {
		out.Table[i] = second.Sample(v)
	}
	return out, nil
}

// ComposedName derives the traceable name of a composed LUT from its two
// input names: "<first>_PLUS_<second>".
func ComposedName(first, second string) string {
	return fmt.Sprintf("%s_PLUS_%s", first, second)
}
