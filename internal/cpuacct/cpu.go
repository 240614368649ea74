// Package cpuacct implements the CPU cycle-accounting engine: it
// drives the cache hierarchy and the predictor set while modeling a
// bounded form of memory-level parallelism (spec.md §4.5).
package cpuacct

import (
	"context"
	"errors"
	"fmt"
	"io"

	"github.com/maemo32/microsim/internal/memsim"
	"github.com/maemo32/microsim/internal/predict"
	"github.com/maemo32/microsim/internal/trace"
)

// Branch cycle costs (spec.md §4.5).
const (
	branchHitCycles  = 1
	branchMissCycles = 5
)

// CPU is the single-threaded cycle accountant. It owns the top of the
// cache hierarchy and the registered predictor set, and processes
// trace.Event values in exactly the order they are delivered.
type CPU struct {
	cycles uint64
	instrs uint64

	spareCycles uint64
	recentWregs trace.RegisterSet

	frontMemory memsim.Memory
	predictors  []predict.Predictor

	finalized bool
}

// New constructs a CPU accountant driving frontMemory (typically the
// top-level cache) and the given predictors, in registration order.
// By convention the first predictor in the slice is the one whose
// verdict drives the CPU's own branch-penalty accounting.
func New(frontMemory memsim.Memory, predictors []predict.Predictor) *CPU {
	return &CPU{
		frontMemory: frontMemory,
		predictors:  predictors,
	}
}

// consume applies one instruction's cycle cost, per the parallelism
// model of spec.md §4.5.
func (c *CPU) consume(n uint64, parallelSafe bool) {
	if n == 0 {
		return
	}

	if parallelSafe {
		if c.spareCycles > n {
			c.spareCycles -= n
		} else {
			c.spareCycles = 0
		}
		return
	}

	c.cycles += c.spareCycles
	c.spareCycles = 0
	c.cycles += n
}

// processMemOp drains outstanding latency, charges one cycle for the
// memory op itself, and exposes the op's remaining latency as spare
// cycles for subsequent parallel-safe instructions.
func (c *CPU) processMemOp(opCycles uint64) {
	c.consume(1, false)
	if opCycles > 1 {
		c.spareCycles = opCycles - 1
	} else {
		c.spareCycles = 0
	}
}

// OnMemRead processes a memory-read event.
func (c *CPU) OnMemRead(addr uint64, writeRegs trace.RegisterSet) {
	c.instrs++
	cost := c.frontMemory.Read(addr)
	c.processMemOp(cost)
	c.recentWregs = writeRegs
}

// OnMemWrite processes a memory-write event.
func (c *CPU) OnMemWrite(addr uint64) {
	c.instrs++
	c.processMemOp(1)
}

// OnCondBranch processes a conditional-branch event. Every registered
// predictor analyzes the branch; the first predictor's verdict alone
// drives the CPU's own cycle accounting.
func (c *CPU) OnCondBranch(ip, target uint64, taken bool) {
	c.instrs++

	var driverHit bool
	for i, p := range c.predictors {
		hit := p.Analyze(ip, target, taken)
		if i == 0 {
			driverHit = hit
		}
	}

	if driverHit {
		c.consume(branchHitCycles, true)
	} else {
		c.consume(branchMissCycles, true)
	}
}

// OnOther processes a non-memory, non-branch instruction.
func (c *CPU) OnOther(readRegs, writeRegs trace.RegisterSet) {
	c.instrs++

	depends := c.recentWregs.Intersects(readRegs) || c.recentWregs.Intersects(writeRegs)
	c.consume(1, !depends)
}

// Finalize marks the run as finished. It leaves the counters as they
// are (outstanding spare cycles are not added to cycles) and is
// idempotent.
func (c *CPU) Finalize() {
	c.finalized = true
}

// Cycles and Instrs expose the running totals (used by the CLI's
// end-of-run log and by tests verifying the §8 invariants).
func (c *CPU) Cycles() uint64 { return c.cycles }
func (c *CPU) Instrs() uint64 { return c.instrs }

// Report writes the §6 CPU line: cycles/instructions and their
// quotient.
func (c *CPU) Report(w io.Writer) error {
	_, err := fmt.Fprintf(w, "\tcycles/instructions: %d / %d = %v\n",
		c.cycles, c.instrs, float64(c.cycles)/float64(c.instrs))
	return err
}

// Run drains src, dispatching each event to the corresponding On*
// method, until a finalize event or EOF. It honors ctx cancellation
// between events; this does not make the core concurrent, it only
// lets a long run be interrupted.
func (c *CPU) Run(ctx context.Context, src trace.EventSource) error {
	for {
		select {
		case <-ctx.Done():
			return ctx.Err()
		default:
		}

		ev, err := src.Next()
		if err != nil {
			if errors.Is(err, io.EOF) {
				c.Finalize()
				return nil
			}
			return fmt.Errorf("cpuacct: reading trace: %w", err)
		}

		switch ev.Kind {
		case trace.KindMemRead:
			c.OnMemRead(ev.Addr, ev.WriteRegs)
		case trace.KindMemWrite:
			c.OnMemWrite(ev.Addr)
		case trace.KindCondBranch:
			c.OnCondBranch(ev.IP, ev.Target, ev.Taken)
		case trace.KindOther:
			c.OnOther(ev.ReadRegs, ev.WriteRegs)
		case trace.KindFinalize:
			c.Finalize()
			return nil
		default:
			return fmt.Errorf("cpuacct: unrecognized event kind %q", ev.Kind)
		}
	}
}
