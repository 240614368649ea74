// Package predict implements the branch predictor family: a uniform
// analysis interface shared by three stateless static predictors and
// three per-instruction-pointer history predictors.
//
// Ported from the reviewed ("corrected") revision of the original
// jump predictors, which returns a hit/miss bool from Analyze instead
// of the earlier revision's VOID-returning, internally-scored variant
// — the bool return is what lets cpuacct.CPU drive its own branch
// penalty off a single designated predictor (spec.md §4.5, §9).
package predict

import (
	"fmt"
	"io"
)

// Predictor analyzes one conditional branch outcome and reports
// whether its own prediction matched. Predictions and hits are
// counted internally; Analyze's return value IS the hit/miss verdict.
type Predictor interface {
	Analyze(ip, target uint64, taken bool) (hit bool)
	Report(w io.Writer) error
}

// counters is embedded by every variant to provide the shared
// predictions/hits bookkeeping and Report rendering.
type counters struct {
	description string
	predictions uint64
	hits        uint64
}

func (c *counters) record(hit bool) bool {
	c.predictions++
	if hit {
		c.hits++
	}
	return hit
}

func (c *counters) Report(w io.Writer) error {
	if _, err := fmt.Fprintf(w, "=====\n%s\n", c.description); err != nil {
		return err
	}
	_, err := fmt.Fprintf(w, "\thits/predictions: %d / %d = %s\n",
		c.hits, c.predictions, ratio(c.hits, c.predictions))
	return err
}

func ratio(a, b uint64) string {
	return fmt.Sprintf("%v", float64(a)/float64(b))
}
