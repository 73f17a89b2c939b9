package convert

import (
	"fmt"

	videofx "github.com/gogpu/videofx"
)

// PAR is a pixel aspect ratio as a positive fraction. The zero value is
// treated as square pixels.
type PAR struct {
	Num int
	Den int
}

func (p PAR) orSquare() PAR {
	if p.Num <= 0 || p.Den <= 0 {
		return PAR{1, 1}
	}
	return p
}

// FixateSize chooses concrete output dimensions when one or both axes
// are unpinned (zero). The free axis is derived so that the display
// aspect ratio of the input carries over, adjusted for the pixel aspect
// ratio difference between input and output. With neither axis pinned
// the input size is kept and only the PAR correction applies.
func FixateSize(inW, inH int, inPAR, outPAR PAR, outW, outH int) (int, int, error) {
	if inW <= 0 || inH <= 0 {
		return 0, 0, fmt.Errorf("%w: input geometry %dx%d", videofx.ErrConfiguration, inW, inH)
	}
	ip := inPAR.orSquare()
	op := outPAR.orSquare()

	switch {
	case outW > 0 && outH > 0:
		return outW, outH, nil
	case outW > 0:
		// display height = height * den / num, preserved across the
		// conversion.
		h := roundDiv(outW*inH*ip.Den*op.Num, inW*ip.Num*op.Den)
		return outW, maxInt(h, 1), nil
	case outH > 0:
		w := roundDiv(outH*inW*ip.Num*op.Den, inH*ip.Den*op.Num)
		return maxInt(w, 1), outH, nil
	default:
		w := roundDiv(inW*ip.Num*op.Den, ip.Den*op.Num)
		return maxInt(w, 1), inH, nil
	}
}

func roundDiv(a, b int) int {
	if b == 0 {
		return 0
	}
	return (a + b/2) / b
}

func maxInt(a, b int) int {
	if a > b {
		return a
	}
	return b
}
