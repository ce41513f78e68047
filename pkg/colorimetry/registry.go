package colorimetry

import (
	"sort"
	"strings"

	"github.com/lutforge/lutforge/pkg/errors"
)

// Format pairs a camera log curve with its native gamut. Entries are
// immutable after initialization and safely shared across workers.
type Format struct {
	// Key is the canonical identifier, e.g. "LogC4" or "S-Log3.Cine".
	Key string

	// FullName is the vendor description shown in listings.
	FullName string

	// Encode maps scene-linear light to the log signal; Decode is its
	// inverse. Both apply per channel.
	Encode Curve
	Decode Curve

	// Space is the format's native RGB gamut.
	Space Space
}

// FileSafeKey returns the key with spaces and dots stripped, suitable for
// building output filenames ("S-Log3.Cine" → "S-Log3Cine").
func (f *Format) FileSafeKey() string {
	return strings.NewReplacer(" ", "_", ".", "").Replace(f.Key)
}

// registry is the closed set of supported log formats. Lookup is
// case-insensitive against the keys; the set never changes at runtime.
var registry = []*Format{
	{
		Key:      "S-Log3",
		FullName: "Sony S-Log3 / S-Gamut3",
		Encode:   encodeSLog3,
		Decode:   decodeSLog3,
		Space:    SGamut3,
	},
	{
		Key:      "S-Log3.Cine",
		FullName: "Sony S-Log3 / S-Gamut3.Cine",
		Encode:   encodeSLog3,
		Decode:   decodeSLog3,
		Space:    SGamut3Cine,
	},
	{
		Key:      "F-Log",
		FullName: "Fujifilm F-Log / F-Gamut",
		Encode:   encodeFLog,
		Decode:   decodeFLog,
		Space:    BT2020,
	},
	{
		Key:      "F-Log2",
		FullName: "Fujifilm F-Log2 / F-Gamut",
		Encode:   encodeFLog2,
		Decode:   decodeFLog2,
		Space:    BT2020,
	},
	{
		Key:      "F-Log2C",
		FullName: "Fujifilm F-Log2 C / F-Gamut C",
		Encode:   encodeFLog2,
		Decode:   decodeFLog2,
		Space:    FGamutC,
	},
	{
		Key:      "C-Log2",
		FullName: "Canon Log 2 / Cinema Gamut",
		Encode:   encodeCanonLog2,
		Decode:   decodeCanonLog2,
		Space:    CinemaGamut,
	},
	{
		Key:      "C-Log3",
		FullName: "Canon Log 3 / Cinema Gamut",
		Encode:   encodeCanonLog3,
		Decode:   decodeCanonLog3,
		Space:    CinemaGamut,
	},
	{
		Key:      "LogC3",
		FullName: "ARRI LogC3 / ARRI Wide Gamut 3",
		Encode:   encodeLogC3,
		Decode:   decodeLogC3,
		Space:    ARRIWideGamut3,
	},
	{
		Key:      "LogC4",
		FullName: "ARRI LogC4 / ARRI Wide Gamut 4",
		Encode:   encodeLogC4,
		Decode:   decodeLogC4,
		Space:    ARRIWideGamut4,
	},
	{
		Key:      "V-Log",
		FullName: "Panasonic V-Log / V-Gamut",
		Encode:   encodeVLog,
		Decode:   decodeVLog,
		Space:    VGamut,
	},
	{
		Key:      "N-Log",
		FullName: "Nikon N-Log / N-Gamut",
		Encode:   encodeNLog,
		Decode:   decodeNLog,
		Space:    BT2020,
	},
	{
		Key:      "L-Log",
		FullName: "Leica L-Log / L-Gamut",
		Encode:   encodeLLog,
		Decode:   decodeLLog,
		Space:    BT2020,
	},
	{
		Key:      "DaVinci Intermediate",
		FullName: "DaVinci Intermediate / DaVinci Wide Gamut",
		Encode:   encodeDaVinciIntermediate,
		Decode:   decodeDaVinciIntermediate,
		Space:    DaVinciWideGamut,
	},
	{
		Key:      "Log3G10",
		FullName: "RED Log3G10 / RED Wide Gamut RGB",
		Encode:   encodeLog3G10,
		Decode:   decodeLog3G10,
		Space:    REDWideGamut,
	},
}

// byLowerKey indexes the registry for case-insensitive lookup.
var byLowerKey = func() map[string]*Format {
	m := make(map[string]*Format, len(registry))
	for _, f := range registry {
		m[strings.ToLower(f.Key)] = f
	}
	return m
}()

// Lookup resolves a format name case-insensitively against the registry.
// Unknown names fail with an UNKNOWN_FORMAT error listing what is
// available.
func Lookup(name string) (*Format, error) {
	if f, ok := byLowerKey[strings.ToLower(strings.TrimSpace(name))]; ok {
		return f, nil
	}
	return nil, errors.New(errors.ErrCodeUnknownFormat,
		"unknown log format: %s (available: %s)", name, strings.Join(Keys(), ", "))
}

// Formats returns the registry entries sorted by key.
func Formats() []*Format {
	out := make([]*Format, len(registry))
	copy(out, registry)
	sort.Slice(out, func(i, j int) bool { return out[i].Key < out[j].Key })
	return out
}

// Keys returns the sorted canonical format identifiers.
func Keys() []string {
	fs := Formats()
	keys := make([]string, len(fs))
	for i, f := range fs {
		keys[i] = f.Key
	}
	return keys
}
