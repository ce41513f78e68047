// Package pipeline synthesizes log-to-log conversion LUTs.
//
// A generation run evaluates decode(source) → gamut conversion →
// encode(target) at every lattice point of a fresh identity grid, then
// sanitizes the result into unit range. The Runner wraps synthesis with
// caching: generation is deterministic, so results are cached by a hash
// of the parameters.
package pipeline

import (
	"github.com/charmbracelet/log"

	"github.com/lutforge/lutforge/pkg/colorimetry"
	"github.com/lutforge/lutforge/pkg/errors"
)

// DefaultSize is the default LUT resolution. 65³ is the common
// interchange size for camera conversion LUTs.
const DefaultSize = 65

// maxSize mirrors the serializer's allocation guard.
const maxSize = 256

// Options configures a generation run.
type Options struct {
	// Source and Target are log format names, resolved case-insensitively
	// against the colorimetry registry.
	Source string
	Target string

	// Size is the lattice resolution per axis. Defaults to DefaultSize.
	Size int

	// Adaptation is the chromatic adaptation method for the gamut
	// conversion. Defaults to colorimetry.DefaultAdaptation.
	Adaptation colorimetry.Adaptation

	// Refresh bypasses the cache and regenerates.
	Refresh bool

	// Logger receives structured progress logs. Defaults to log.Default().
	Logger *log.Logger
}

// ValidateAndSetDefaults checks option invariants and fills defaults.
func (o *Options) ValidateAndSetDefaults() error {
	if o.Source == "" {
		return errors.New(errors.ErrCodeInvalidInput, "source log format is required")
	}
	if o.Target == "" {
		return errors.New(errors.ErrCodeInvalidInput, "target log format is required")
	}
	if o.Size == 0 {
		o.Size = DefaultSize
	}
	if o.Size < 2 || o.Size > maxSize {
		return errors.New(errors.ErrCodeInvalidSize, "LUT size must be in [2,%d], got %d", maxSize, o.Size)
	}
	if o.Adaptation == "" {
		o.Adaptation = colorimetry.DefaultAdaptation
	}
	if o.Logger == nil {
		o.Logger = log.Default()
	}
	return nil
}
