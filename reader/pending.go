package reader

import (
	"github.com/arloliu/jwlf/curve"
	"github.com/arloliu/jwlf/value"
	"github.com/arloliu/jwlf/welllog"
)

// pending holds curve values read before the curve definitions they belong
// to. Values are kept per curve number and dimension and are moved into the
// log once its curves are known.
type pending struct {
	values [][][]value.Value
	rows   int
}

func (p *pending) add(curveNo, dim int, v value.Value) {
	for len(p.values) <= curveNo {
		p.values = append(p.values, nil)
	}
	for len(p.values[curveNo]) <= dim {
		// Columns first seen after some rows start with no-values for those rows.
		p.values[curveNo] = append(p.values[curveNo], make([]value.Value, p.rows))
	}
	p.values[curveNo][dim] = append(p.values[curveNo][dim], v)
}

// endRow pads every column to the number of completed rows.
func (p *pending) endRow() {
	p.rows++
	for _, dims := range p.values {
		for i := range dims {
			for len(dims[i]) < p.rows {
				dims[i] = append(dims[i], value.Null())
			}
		}
	}
}

// move appends the buffered values to the curves of l through appendFn. The
// curves are expected to be empty. move reports how many values had no matching curve or dimension.
// Curves without buffered values are filled with no-values.
func (p *pending) move(l *welllog.Log, appendFn func(c *curve.Curve, dim int, v value.Value) error) int {
	dropped := 0
	curves := l.Curves()
	for curveNo, dims := range p.values {
		for dim, vs := range dims {
			if curveNo >= len(curves) || dim >= curves[curveNo].Dimensions() {
				dropped += len(vs)
				continue
			}
			for _, v := range vs {
				// Bounds were checked above.
				_ = appendFn(curves[curveNo], dim, v)
			}
		}
	}
	for _, c := range curves {
		for dim := range c.Dimensions() {
			for c.DimensionLen(dim) < p.rows {
				_ = c.Append(dim, value.Null())
			}
		}
	}
	p.values = nil
	p.rows = 0

	return dropped
}
