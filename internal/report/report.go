// Package report renders the §6 output format: the CPU cycle line,
// then each cache level top-down, then each predictor in registration
// order.
package report

import (
	"io"

	"github.com/maemo32/microsim/internal/cpuacct"
	"github.com/maemo32/microsim/internal/memsim"
	"github.com/maemo32/microsim/internal/predict"
)

// Write renders the full report to w.
func Write(w io.Writer, cpu *cpuacct.CPU, top *memsim.Cache, predictors []predict.Predictor) error {
	if err := cpu.Report(w); err != nil {
		return err
	}
	if err := top.Report(w); err != nil {
		return err
	}
	for _, p := range predictors {
		if err := p.Report(w); err != nil {
			return err
		}
	}
	return nil
}
