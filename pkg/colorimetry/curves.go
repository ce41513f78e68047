package colorimetry

import (
	"math"

	"github.com/lutforge/lutforge/pkg/lut"
)

// Curve is a scalar transfer function applied independently per channel.
type Curve func(float64) float64

// PerChannel lifts a scalar curve to a Vec3→Vec3 transform stage.
func PerChannel(c Curve) func(lut.Vec3) lut.Vec3 {
	return func(v lut.Vec3) lut.Vec3 {
		return lut.Vec3{c(v[0]), c(v[1]), c(v[2])}
	}
}

func pow10(x float64) float64 { return math.Pow(10, x) }
func exp2(x float64) float64  { return math.Exp2(x) }

// Sony S-Log3. Linear breakpoint at 0.01125 scene-linear; log segment
// anchored on 18% grey. Constants per the Sony S-Log3 whitepaper.
const (
	slog3Cut    = 0.01125
	slog3CutLog = 171.2102946929 / 1023.0
)

func encodeSLog3(x float64) float64 {
	if x >= slog3Cut {
		return (420 + math.Log10((x+0.01)/0.19)*261.5) / 1023
	}
	return (x*(171.2102946929-95)/slog3Cut + 95) / 1023
}

func decodeSLog3(y float64) float64 {
	if y >= slog3CutLog {
		return pow10((y*1023-420)/261.5)*0.19 - 0.01
	}
	return (y*1023 - 95) * slog3Cut / (171.2102946929 - 95)
}

// ARRI LogC3 at EI 800.
const (
	logc3Cut = 0.010591
	logc3A   = 5.555556
	logc3B   = 0.052272
	logc3C   = 0.247190
	logc3D   = 0.385537
	logc3E   = 5.367655
	logc3F   = 0.092809
)

func encodeLogC3(x float64) float64 {
	if x > logc3Cut {
		return logc3C*math.Log10(logc3A*x+logc3B) + logc3D
	}
	return logc3E*x + logc3F
}

func decodeLogC3(y float64) float64 {
	if y > logc3E*logc3Cut+logc3F {
		return (pow10((y-logc3D)/logc3C) - logc3B) / logc3A
	}
	return (y - logc3F) / logc3E
}

// ARRI LogC4. Derived constants per the ARRI LogC4 specification.
var (
	logc4A = (math.Exp2(18) - 16) / 117.45
	logc4B = (1023.0 - 95) / 1023
	logc4C = 95.0 / 1023
	logc4S = (7 * math.Ln2 * math.Exp2(7-14*logc4C/logc4B)) / (logc4A * logc4B)
	logc4T = (math.Exp2(14*(-logc4C/logc4B)+6) - 64) / logc4A
)

func encodeLogC4(x float64) float64 {
	if x < logc4T {
		return (x - logc4T) / logc4S
	}
	return (math.Log2(logc4A*x+64)-6)/14*logc4B + logc4C
}

func decodeLogC4(y float64) float64 {
	if y < 0 {
		return y*logc4S + logc4T
	}
	return (exp2(14*(y-logc4C)/logc4B+6) - 64) / logc4A
}

// Fujifilm F-Log.
const (
	flogA    = 0.555556
	flogB    = 0.009468
	flogC    = 0.344676
	flogD    = 0.790453
	flogE    = 8.735631
	flogF    = 0.092864
	flogCut1 = 0.00089
	flogCut2 = 0.100537775223865
)

func encodeFLog(x float64) float64 {
	if x >= flogCut1 {
		return flogC*math.Log10(flogA*x+flogB) + flogD
	}
	return flogE*x + flogF
}

func decodeFLog(y float64) float64 {
	if y >= flogCut2 {
		return (pow10((y-flogD)/flogC) - flogB) / flogA
	}
	return (y - flogF) / flogE
}

// Fujifilm F-Log2.
const (
	flog2A    = 5.555556
	flog2B    = 0.064829
	flog2C    = 0.245281
	flog2D    = 0.384316
	flog2E    = 8.799461
	flog2F    = 0.092864
	flog2Cut1 = 0.000889
	flog2Cut2 = 0.100686685370811
)

func encodeFLog2(x float64) float64 {
	if x >= flog2Cut1 {
		return flog2C*math.Log10(flog2A*x+flog2B) + flog2D
	}
	return flog2E*x + flog2F
}

func decodeFLog2(y float64) float64 {
	if y >= flog2Cut2 {
		return (pow10((y-flog2D)/flog2C) - flog2B) / flog2A
	}
	return (y - flog2F) / flog2E
}

// Canon Log 2, full-range form. Symmetric around the pedestal so
// negative linear light encodes without NaN.
const (
	clog2Gain = 87.09937546
	clog2Sl   = 0.281863093
	clog2Off  = 0.035388128
)

func encodeCanonLog2(x float64) float64 {
	if x < 0 {
		return -clog2Sl*math.Log10(1-clog2Gain*x) + clog2Off
	}
	return clog2Sl*math.Log10(clog2Gain*x+1) + clog2Off
}

func decodeCanonLog2(y float64) float64 {
	if y < clog2Off {
		return -(pow10((clog2Off-y)/clog2Sl) - 1) / clog2Gain
	}
	return (pow10((y-clog2Off)/clog2Sl) - 1) / clog2Gain
}

// Canon Log 3, full-range form. Three segments with a linear belly
// through the pedestal.
const (
	clog3Gain = 14.98325
	clog3Sl   = 0.42889912
	clog3LinS = 2.3069815
	clog3LinO = 0.073059361
	clog3NOff = 0.07623209
	clog3POff = 0.069886632
	clog3CutL = -0.014
	clog3CutH = 0.014
)

var (
	clog3CutYL = -clog3Sl*math.Log10(1-clog3Gain*clog3CutL) + clog3NOff
	clog3CutYH = clog3Sl*math.Log10(clog3Gain*clog3CutH+1) + clog3POff
)

func encodeCanonLog3(x float64) float64 {
	switch {
	case x < clog3CutL:
		return -clog3Sl*math.Log10(1-clog3Gain*x) + clog3NOff
	case x <= clog3CutH:
		return clog3LinS*x + clog3LinO
	default:
		return clog3Sl*math.Log10(clog3Gain*x+1) + clog3POff
	}
}

func decodeCanonLog3(y float64) float64 {
	switch {
	case y < clog3CutYL:
		return -(pow10((clog3NOff-y)/clog3Sl) - 1) / clog3Gain
	case y <= clog3CutYH:
		return (y - clog3LinO) / clog3LinS
	default:
		return (pow10((y-clog3POff)/clog3Sl) - 1) / clog3Gain
	}
}

// Panasonic V-Log.
const (
	vlogCut1 = 0.01
	vlogCut2 = 0.181
	vlogB    = 0.00873
	vlogC    = 0.241514
	vlogD    = 0.598206
)

func encodeVLog(x float64) float64 {
	if x < vlogCut1 {
		return 5.6*x + 0.125
	}
	return vlogC*math.Log10(x+vlogB) + vlogD
}

func decodeVLog(y float64) float64 {
	if y < vlogCut2 {
		return (y - 0.125) / 5.6
	}
	return pow10((y-vlogD)/vlogC) - vlogB
}

// Nikon N-Log. Cube-root toe, natural-log shoulder.
const (
	nlogCut1 = 0.328
	nlogCut2 = 452.0 / 1023.0
)

func encodeNLog(x float64) float64 {
	if x > nlogCut1 {
		return (150*math.Log(x) + 619) / 1023
	}
	return 650 * math.Cbrt(x+0.0075) / 1023
}

func decodeNLog(y float64) float64 {
	if y > nlogCut2 {
		return math.Exp((1023*y - 619) / 150)
	}
	t := 1023 * y / 650
	return t*t*t - 0.0075
}

// Leica L-Log.
const (
	llogA    = 8.0
	llogB    = 0.09
	llogC    = 0.27
	llogD    = 1.3
	llogE    = 0.0115
	llogF    = 0.6
	llogCut1 = 0.006
	llogCut2 = 0.1380
)

func encodeLLog(x float64) float64 {
	if x <= llogCut1 {
		return llogA*x + llogB
	}
	return llogC*math.Log10(llogD*x+llogE) + llogF
}

func decodeLLog(y float64) float64 {
	if y <= llogCut2 {
		return (y - llogB) / llogA
	}
	return (pow10((y-llogF)/llogC) - llogE) / llogD
}

// Blackmagic DaVinci Intermediate.
const (
	dviA      = 0.0075
	dviB      = 7.0
	dviC      = 0.07329248
	dviM      = 10.44426855
	dviLinCut = 0.00262409
	dviLogCut = 0.02740668
)

func encodeDaVinciIntermediate(x float64) float64 {
	if x > dviLinCut {
		return (math.Log2(x+dviA) + dviB) * dviC
	}
	return x * dviM
}

func decodeDaVinciIntermediate(y float64) float64 {
	if y > dviLogCut {
		return exp2(y/dviC-dviB) - dviA
	}
	return y / dviM
}

// RED Log3G10 (v2). The +c offset keeps a linear ramp below zero.
const (
	log3g10A = 0.224282
	log3g10B = 155.975327
	log3g10C = 0.01
	log3g10G = 15.1927
)

func encodeLog3G10(x float64) float64 {
	x += log3g10C
	if x < 0 {
		return x * log3g10G
	}
	return log3g10A * math.Log10(x*log3g10B+1)
}

func decodeLog3G10(y float64) float64 {
	if y < 0 {
		return y/log3g10G - log3g10C
	}
	return (pow10(y/log3g10A)-1)/log3g10B - log3g10C
}
