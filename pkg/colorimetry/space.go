package colorimetry

import "github.com/lutforge/lutforge/pkg/lut"

// Chromaticity is a CIE xy coordinate.
type Chromaticity struct {
	X, Y float64
}

// XYZ converts the chromaticity to a tristimulus value with Y = 1.
func (c Chromaticity) XYZ() lut.Vec3 {
	return lut.Vec3{c.X / c.Y, 1, (1 - c.X - c.Y) / c.Y}
}

// D65 is the CIE standard illuminant D65 white point, shared by every
// camera gamut in the registry.
var D65 = Chromaticity{0.3127, 0.3290}

// Space is an RGB color space defined by its primary chromaticities and
// reference white.
type Space struct {
	Name  string
	Red   Chromaticity
	Green Chromaticity
	Blue  Chromaticity
	White Chromaticity
}

// NPM derives the normalized primary matrix (linear RGB → CIE XYZ) from
// the chromaticities: build the matrix of primary tristimulus columns,
// then solve for the per-channel scales that map RGB (1,1,1) to the
// white point. Standard SMPTE RP 177 derivation.
func (s Space) NPM() (Mat3, error) {
	r, g, b := s.Red.XYZ(), s.Green.XYZ(), s.Blue.XYZ()
	primaries := Mat3{
		{r[0], g[0], b[0]},
		{r[1], g[1], b[1]},
		{r[2], g[2], b[2]},
	}

	inv, err := primaries.Inverse()
	if err != nil {
		return Mat3{}, err
	}
	scales := inv.MulVec(s.White.XYZ())
	return primaries.scaledColumns(scales), nil
}

// Camera gamuts referenced by the log format registry.
var (
	SGamut3 = Space{
		Name:  "S-Gamut3",
		Red:   Chromaticity{0.730, 0.280},
		Green: Chromaticity{0.140, 0.855},
		Blue:  Chromaticity{0.100, -0.050},
		White: D65,
	}

	SGamut3Cine = Space{
		Name:  "S-Gamut3.Cine",
		Red:   Chromaticity{0.766, 0.275},
		Green: Chromaticity{0.225, 0.800},
		Blue:  Chromaticity{0.089, -0.087},
		White: D65,
	}

	// BT2020 doubles as F-Gamut (Fujifilm), N-Gamut (Nikon) and the
	// L-Log gamut (Leica), all of which reuse the Rec. 2020 primaries.
	BT2020 = Space{
		Name:  "ITU-R BT.2020",
		Red:   Chromaticity{0.708, 0.292},
		Green: Chromaticity{0.170, 0.797},
		Blue:  Chromaticity{0.131, 0.046},
		White: D65,
	}

	FGamutC = Space{
		Name:  "F-Gamut C",
		Red:   Chromaticity{0.7347, 0.2653},
		Green: Chromaticity{0.0263, 0.9737},
		Blue:  Chromaticity{0.1173, -0.0224},
		White: D65,
	}

	CinemaGamut = Space{
		Name:  "Cinema Gamut",
		Red:   Chromaticity{0.740, 0.270},
		Green: Chromaticity{0.170, 1.140},
		Blue:  Chromaticity{0.080, -0.100},
		White: D65,
	}

	ARRIWideGamut3 = Space{
		Name:  "ARRI Wide Gamut 3",
		Red:   Chromaticity{0.6840, 0.3130},
		Green: Chromaticity{0.2210, 0.8480},
		Blue:  Chromaticity{0.0861, -0.1020},
		White: D65,
	}

	ARRIWideGamut4 = Space{
		Name:  "ARRI Wide Gamut 4",
		Red:   Chromaticity{0.7347, 0.2653},
		Green: Chromaticity{0.1424, 0.8576},
		Blue:  Chromaticity{0.0991, -0.0308},
		White: D65,
	}

	VGamut = Space{
		Name:  "V-Gamut",
		Red:   Chromaticity{0.730, 0.280},
		Green: Chromaticity{0.165, 0.840},
		Blue:  Chromaticity{0.100, -0.030},
		White: D65,
	}

	DaVinciWideGamut = Space{
		Name:  "DaVinci Wide Gamut",
		Red:   Chromaticity{0.8000, 0.3130},
		Green: Chromaticity{0.1682, 0.9877},
		Blue:  Chromaticity{0.0790, -0.1155},
		White: D65,
	}

	REDWideGamut = Space{
		Name:  "RED Wide Gamut RGB",
		Red:   Chromaticity{0.780308, 0.304253},
		Green: Chromaticity{0.121595, 1.493994},
		Blue:  Chromaticity{0.095612, -0.084589},
		White: D65,
	}
)

// ConversionMatrix builds the linear RGB→RGB matrix from src to dst:
// NPM(dst)⁻¹ · CAT · NPM(src). With matching white points the CAT
// reduces to identity for every method.
func ConversionMatrix(src, dst Space, method Adaptation) (Mat3, error) {
	srcNPM, err := src.NPM()
	if err != nil {
		return Mat3{}, err
	}
	dstNPM, err := dst.NPM()
	if err != nil {
		return Mat3{}, err
	}
	dstInv, err := dstNPM.Inverse()
	if err != nil {
		return Mat3{}, err
	}

	cat, err := AdaptationMatrix(src.White, dst.White, method)
	if err != nil {
		return Mat3{}, err
	}

	return dstInv.Mul(cat).Mul(srcNPM), nil
}
