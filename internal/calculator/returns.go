package calculator

import "math"

// ReturnKind selects the return definition.
type ReturnKind int

const (
	// SimpleReturn is P[t]/P[t-1] - 1.
	SimpleReturn ReturnKind = iota
	// LogReturn is ln(P[t]/P[t-1]).
	LogReturn
)

func (k ReturnKind) String() string {
	if k == LogReturn {
		return "log"
	}
	return "simple"
}

// Returns computes period-over-period returns. The result has one element
// fewer than prices; a previous price of 0 yields a return of 0.
func Returns(prices []float64, kind ReturnKind) []float64 {
	if len(prices) < 2 {
		return []float64{}
	}
	out := make([]float64, len(prices)-1)
	for i := 1; i < len(prices); i++ {
		prev := prices[i-1]
		if prev == 0 {
			continue
		}
		if kind == LogReturn {
			out[i-1] = math.Log(prices[i] / prev)
		} else {
			out[i-1] = prices[i]/prev - 1
		}
	}
	return out
}
