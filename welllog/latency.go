package welllog

import (
	"strconv"
	"time"

	"github.com/arloliu/jwlf/curve"
	"github.com/arloliu/jwlf/format"
	"github.com/arloliu/jwlf/value"
)

// latencyEpochThreshold separates latency durations from the absolute
// timestamp held by the first latency curve, in milliseconds.
const latencyEpochThreshold = 10_000_000

const maxLatencyCurves = 9999

// AddLatencyCurve appends an integer curve of processing latencies in
// milliseconds.
//
// Latency curves form a family named base0, base1, ... where the name is
// split into its leading letters, underscores and spaces (the base) and the
// rest (the suffix). The first free name of the family is used. Each row
// holds now minus the values of all existing family members, which yields
// the time spent since the previous stage. With total set the curve is
// named base and only the initial timestamp (values of at least 10,000,000 ms)
// is subtracted, giving the end to end latency.
//
// A no-value in any subtracted curve makes the row a no-value.
func AddLatencyCurve(l *Log, name, description string, total bool, now time.Time) (*curve.Curve, error) {
	base, suffix := splitLatencyName(name)

	n, err := strconv.Atoi(suffix)
	if err != nil {
		n = 0
	}
	for l.FindCurve(base+strconv.Itoa(n)) != nil {
		n++
	}

	newName := base + strconv.Itoa(n)
	if total {
		newName = base
	}

	c, err := curve.New(newName, format.TypeInteger,
		curve.WithDescription(description), curve.WithQuantity("Time"), curve.WithUnit("ms"))
	if err != nil {
		return nil, err
	}

	var family []*curve.Curve
	for i := range maxLatencyCurves {
		if member := l.FindCurve(base + strconv.Itoa(i)); member != nil {
			family = append(family, member)
		}
	}

	nowMillis := now.UnixMilli()
	for row := range l.NValues() {
		latency, ok := nowMillis, true
		for _, member := range family {
			if row >= member.Len() {
				ok = false
				break
			}
			prior, isInt := value.As(member.Value(0, row), format.TypeInteger).AsInt()
			if !isInt {
				ok = false
				break
			}
			if total && prior < latencyEpochThreshold {
				prior = 0
			}
			latency -= prior
		}

		v := value.Null()
		if ok {
			v = value.Int(latency)
		}
		if err := c.AddValue(v); err != nil {
			return nil, err
		}
	}

	if err := l.AddCurve(c); err != nil {
		return nil, err
	}

	return c, nil
}

func splitLatencyName(name string) (string, string) {
	i := 0
	for i < len(name) {
		ch := name[i]
		if (ch >= 'a' && ch <= 'z') || (ch >= 'A' && ch <= 'Z') || ch == '_' || ch == ' ' {
			i++
			continue
		}
		break
	}

	return name[:i], name[i:]
}
