package memsim

import "io"

// Memory is a single level of the storage hierarchy. Read and Write
// return the total cycle cost of servicing the request, including any
// cascaded cost from lower levels. Report writes this level's
// statistics, and recurses into whatever is below it.
type Memory interface {
	Read(addr uint64) uint64
	Write(addr uint64) uint64
	Report(w io.Writer) error
}

// RAM is the terminal memory level: it has no tag state and always
// costs its fixed overhead.
type RAM struct {
	Overhead uint64
}

// NewRAM constructs a RAM level with the given fixed per-access cost.
func NewRAM(overhead uint64) *RAM {
	return &RAM{Overhead: overhead}
}

func (r *RAM) Read(addr uint64) uint64  { return r.Overhead }
func (r *RAM) Write(addr uint64) uint64 { return r.Overhead }

func (r *RAM) Report(w io.Writer) error { return nil }
