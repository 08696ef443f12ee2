package coil

import (
	"fmt"
	"math"

	"github.com/katalvlaran/stelgeo/curve"
)

// Coil pairs a closed curve with the current it carries, the input a
// field evaluator consumes.
type Coil struct {
	Curve   curve.Curve
	Current CurrentProvider
}

// NewCoil builds a coil from a curve and its current.
func NewCoil(c curve.Curve, cur CurrentProvider) Coil {
	return Coil{Curve: c, Current: cur}
}

// ApplySymmetries expands base curves into the full machine set:
// n·nfp curves by field-period rotation, doubled by the stellarator
// flip when stellsym is set. The base curves appear unchanged as the
// k=0 unflipped block; every copy shares its base's dof store. nfp
// must be at least 1, which ViaSymmetries validates.
func ApplySymmetries(base []curve.Curve, nfp int, stellsym bool) []curve.Curve {
	flips := []bool{false}
	if stellsym {
		flips = []bool{false, true}
	}
	out := make([]curve.Curve, 0, len(base)*nfp*len(flips))
	for k := 0; k < nfp; k++ {
		for _, flip := range flips {
			for _, c := range base {
				if k == 0 && !flip {
					out = append(out, c)
					continue
				}
				out = append(out, curve.NewRotated(c, 2*math.Pi*float64(k)/float64(nfp), flip))
			}
		}
	}
	return out
}

// ApplyCurrentSymmetries expands base currents in the same order as
// ApplySymmetries expands curves: repeated per field period, with the
// flipped copies carrying the negated current.
func ApplyCurrentSymmetries(base []CurrentProvider, nfp int, stellsym bool) []CurrentProvider {
	flips := []bool{false}
	if stellsym {
		flips = []bool{false, true}
	}
	out := make([]CurrentProvider, 0, len(base)*nfp*len(flips))
	for k := 0; k < nfp; k++ {
		for _, flip := range flips {
			for _, c := range base {
				if flip {
					out = append(out, Neg(c))
					continue
				}
				out = append(out, c)
			}
		}
	}
	return out
}

// ViaSymmetries expands matched curve and current lists into the full
// coil set in one call. Returns ErrCountMismatch when the lists differ
// in length and ErrNfp for a field-period count below 1.
func ViaSymmetries(curves []curve.Curve, currents []CurrentProvider, nfp int, stellsym bool) ([]Coil, error) {
	if len(curves) != len(currents) {
		return nil, fmt.Errorf("%w: %d curves, %d currents", ErrCountMismatch, len(curves), len(currents))
	}
	if nfp < 1 {
		return nil, fmt.Errorf("%w: %d", ErrNfp, nfp)
	}
	cs := ApplySymmetries(curves, nfp, stellsym)
	is := ApplyCurrentSymmetries(currents, nfp, stellsym)
	out := make([]Coil, len(cs))
	for i := range cs {
		out[i] = Coil{Curve: cs[i], Current: is[i]}
	}
	return out, nil
}

// EquallySpaced builds ncoils planar circular curves of radius R1,
// centered on the R0 circle and lying in vertical planes, spread over
// one field period (half of one with stellsym) with a half-step offset
// so the symmetry expansion interleaves without collisions. The usual
// stage-two starting point.
func EquallySpaced(ncoils, order int, R0, R1 float64, nfp int, stellsym bool) ([]*curve.XYZFourier, error) {
	if ncoils < 1 {
		return nil, fmt.Errorf("%w: got %d", ErrCoilCount, ncoils)
	}
	if nfp < 1 {
		return nil, fmt.Errorf("%w: %d", ErrNfp, nfp)
	}
	sym := 1
	if stellsym {
		sym = 2
	}
	out := make([]*curve.XYZFourier, 0, ncoils)
	for i := 0; i < ncoils; i++ {
		c, err := curve.NewXYZFourier(order)
		if err != nil {
			return nil, err
		}
		angle := (float64(i) + 0.5) * 2 * math.Pi / float64(sym*nfp*ncoils)
		st := c.Dofs()
		for _, kv := range []struct {
			name string
			v    float64
		}{
			{"xc(0)", R0 * math.Cos(angle)},
			{"xc(1)", R1 * math.Cos(angle)},
			{"yc(0)", R0 * math.Sin(angle)},
			{"yc(1)", R1 * math.Sin(angle)},
			{"zs(1)", R1},
		} {
			if err := st.Set(kv.name, kv.v); err != nil {
				return nil, err
			}
		}
		out = append(out, c)
	}
	return out, nil
}
