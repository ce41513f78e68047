package colorimetry

import (
	"strings"

	"github.com/lutforge/lutforge/pkg/errors"
	"github.com/lutforge/lutforge/pkg/lut"
)

// Adaptation selects a chromatic adaptation transform for gamut
// conversion between spaces with different reference whites.
type Adaptation string

// Supported chromatic adaptation methods.
const (
	CAT02      Adaptation = "CAT02"
	Bradford   Adaptation = "Bradford"
	VonKries   Adaptation = "Von Kries"
	XYZScaling Adaptation = "XYZ Scaling"
)

// DefaultAdaptation is used when the caller does not specify a method.
const DefaultAdaptation = CAT02

// adaptations maps lower-cased user input to the canonical method.
var adaptations = map[string]Adaptation{
	"cat02":       CAT02,
	"bradford":    Bradford,
	"von kries":   VonKries,
	"vonkries":    VonKries,
	"xyz scaling": XYZScaling,
	"xyzscaling":  XYZScaling,
}

// ParseAdaptation resolves a user-supplied method name case-insensitively.
// An empty name resolves to DefaultAdaptation.
func ParseAdaptation(name string) (Adaptation, error) {
	if name == "" {
		return DefaultAdaptation, nil
	}
	if m, ok := adaptations[strings.ToLower(strings.TrimSpace(name))]; ok {
		return m, nil
	}
	return "", errors.New(errors.ErrCodeUnknownAdaptation,
		"unknown chromatic adaptation method: %s (supported: CAT02, Bradford, Von Kries, XYZ Scaling)", name)
}

// Cone response matrices (XYZ → LMS-like space) for the sharpened
// transforms. Von Kries uses the Hunt-Pointer-Estevez matrix normalized
// to D65.
var (
	catCAT02 = Mat3{
		{0.7328, 0.4296, -0.1624},
		{-0.7036, 1.6975, 0.0061},
		{0.0030, 0.0136, 0.9834},
	}

	catBradford = Mat3{
		{0.8951, 0.2664, -0.1614},
		{-0.7502, 1.7135, 0.0367},
		{0.0389, -0.0685, 1.0296},
	}

	catVonKries = Mat3{
		{0.40024, 0.70760, -0.08081},
		{-0.22630, 1.16532, 0.04570},
		{0.00000, 0.00000, 0.91822},
	}
)

// AdaptationMatrix builds the XYZ→XYZ transform that adapts colors from
// the src white point to the dst white point: M⁻¹ · diag(dstCone/srcCone) · M
// where M maps XYZ into the method's cone space. XYZ Scaling uses the
// identity cone matrix (plain tristimulus scaling).
func AdaptationMatrix(src, dst Chromaticity, method Adaptation) (Mat3, error) {
	if src == dst {
		return Identity, nil
	}

	var cone Mat3
	switch method {
	case CAT02:
		cone = catCAT02
	case Bradford:
		cone = catBradford
	case VonKries:
		cone = catVonKries
	case XYZScaling:
		cone = Identity
	default:
		return Mat3{}, errors.New(errors.ErrCodeUnknownAdaptation, "unknown chromatic adaptation method: %s", method)
	}

	srcLMS := cone.MulVec(src.XYZ())
	dstLMS := cone.MulVec(dst.XYZ())
	gain := lut.Vec3{dstLMS[0] / srcLMS[0], dstLMS[1] / srcLMS[1], dstLMS[2] / srcLMS[2]}

	coneInv, err := cone.Inverse()
	if err != nil {
		return Mat3{}, err
	}
	return coneInv.Mul(diag(gain)).Mul(cone), nil
}
