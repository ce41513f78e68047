package colorimetry

import (
	"math"
	"testing"

	"github.com/lutforge/lutforge/pkg/lut"
)

// onDomainLinear covers the scene-linear range every curve must round-trip:
// deep shadows through multi-stop overexposure.
var onDomainLinear = []float64{
	0.0001, 0.001, 0.01, 0.05, 0.18, 0.5, 1.0, 2.0, 8.0,
}

func TestCurvesRoundTrip(t *testing.T) {
	for _, f := range Formats() {
		f := f
		t.Run(f.Key, func(t *testing.T) {
			for _, x := range onDomainLinear {
				y := f.Encode(x)
				if math.IsNaN(y) || math.IsInf(y, 0) {
					t.Fatalf("Encode(%g) not finite: %g", x, y)
				}
				back := f.Decode(y)
				if math.Abs(back-x) > 1e-6*math.Max(1, x) {
					t.Errorf("Decode(Encode(%g)) = %g", x, back)
				}
			}
		})
	}
}

func TestCurvesDecodeEncodeRoundTripOnSignal(t *testing.T) {
	// The generation pipeline runs decode→encode over code values in
	// [0,1]; for matching formats that must be near-identity wherever the
	// decode is invertible.
	for _, f := range Formats() {
		f := f
		t.Run(f.Key, func(t *testing.T) {
			for y := 0.05; y <= 1.0; y += 0.05 {
				x := f.Decode(y)
				if math.IsNaN(x) || math.IsInf(x, 0) {
					continue // outside the curve's valid signal range
				}
				back := f.Encode(x)
				if math.Abs(back-y) > 1e-6 {
					t.Errorf("Encode(Decode(%.2f)) = %g", y, back)
				}
			}
		})
	}
}

func TestCurvesMonotonic(t *testing.T) {
	for _, f := range Formats() {
		f := f
		t.Run(f.Key, func(t *testing.T) {
			prev := math.Inf(-1)
			for x := 0.0; x <= 4.0; x += 0.004 {
				y := f.Encode(x)
				if y < prev {
					t.Fatalf("Encode not monotonic at %g: %g < %g", x, y, prev)
				}
				prev = y
			}
		})
	}
}

func TestCurvesAnchorMidGrey(t *testing.T) {
	// Every camera log curve places 18% grey somewhere in the usable
	// middle of the signal range. This catches transposed constants.
	for _, f := range Formats() {
		y := f.Encode(0.18)
		if y < 0.2 || y > 0.6 {
			t.Errorf("%s: Encode(0.18) = %g, outside plausible mid-grey band", f.Key, y)
		}
	}
}

func TestPerChannel(t *testing.T) {
	double := PerChannel(func(x float64) float64 { return 2 * x })
	got := double(lut.Vec3{1, 2, 3})
	if got != (lut.Vec3{2, 4, 6}) {
		t.Errorf("PerChannel = %v", got)
	}
}

func TestSLog3Breakpoint(t *testing.T) {
	// The two segments meet at the cut within float tolerance.
	lo := encodeSLog3(slog3Cut - 1e-12)
	hi := encodeSLog3(slog3Cut + 1e-12)
	if math.Abs(lo-hi) > 1e-6 {
		t.Errorf("S-Log3 discontinuous at breakpoint: %g vs %g", lo, hi)
	}
}

func TestLogC4DerivedConstants(t *testing.T) {
	// Spot checks from the ARRI LogC4 specification: encode(0) is the
	// pedestal 95/1023, and the curve passes through 1.0 at the sensor
	// maximum a⁻¹·(2¹⁸-64)... verified indirectly: decode(1) is large.
	if got := encodeLogC4(0); math.Abs(got-95.0/1023.0) > 1e-9 {
		t.Errorf("encodeLogC4(0) = %g, want %g", got, 95.0/1023.0)
	}
	if got := decodeLogC4(1); got < 100 {
		t.Errorf("decodeLogC4(1) = %g, want a multi-hundred linear ceiling", got)
	}
}
