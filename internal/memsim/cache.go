package memsim

import (
	"fmt"
	"io"
	"math/bits"
)

// ConfigError reports a misconfigured cache geometry. It is always
// fatal at construction — no partial Cache exists afterwards.
type ConfigError struct {
	Reason string
}

func (e *ConfigError) Error() string {
	return fmt.Sprintf("memsim: configuration error: %s", e.Reason)
}

// Default per-access overheads, keyed by the conventional level labels
// used in the canonical hierarchy (spec.md §6).
const (
	DefaultRAMOverhead = 8
	DefaultL1Overhead  = 1
	DefaultL2Overhead  = 2
)

// Cache is a set-associative, write-back, write-allocate cache level
// with FIFO replacement.
type Cache struct {
	Label string
	next  Memory

	sets     []Set
	ways     int
	lineLen  int
	size     int
	overhead uint64

	indexBits  uint
	offsetBits uint
	indexMask  uint64

	reads, writes, readHits, writeHits uint64
}

// NewCache constructs a cache level. size, ways, and lineLen must all
// be positive, and size/(ways*lineLen) must be a power of two, as must
// ways and lineLen themselves; otherwise construction fails with a
// *ConfigError and no Cache is returned.
//
// overhead, if zero, defaults by label ("L1" -> 1, "L2" -> 2, anything
// else -> 0); pass a non-zero value to override.
func NewCache(label string, next Memory, size, ways, lineLen int, overhead uint64) (*Cache, error) {
	if size <= 0 || ways <= 0 || lineLen <= 0 {
		return nil, &ConfigError{Reason: "size, ways, and line length must all be positive"}
	}
	if size%(ways*lineLen) != 0 {
		return nil, &ConfigError{Reason: "size must be an exact multiple of ways*line_len"}
	}

	numSets := size / (ways * lineLen)

	if !isPowerOfTwo(numSets) {
		return nil, &ConfigError{Reason: "size/(ways*line_len) must be a power of two"}
	}
	if !isPowerOfTwo(ways) {
		return nil, &ConfigError{Reason: "ways must be a power of two"}
	}
	if !isPowerOfTwo(lineLen) {
		return nil, &ConfigError{Reason: "line_len must be a power of two"}
	}

	if overhead == 0 {
		switch label {
		case "L1":
			overhead = DefaultL1Overhead
		case "L2":
			overhead = DefaultL2Overhead
		}
	}

	offsetBits := uint(bits.TrailingZeros(uint(lineLen)))
	indexBits := uint(bits.TrailingZeros(uint(numSets)))

	c := &Cache{
		Label:      label,
		next:       next,
		ways:       ways,
		lineLen:    lineLen,
		size:       size,
		overhead:   overhead,
		offsetBits: offsetBits,
		indexBits:  indexBits,
		indexMask:  indexMaskFor(indexBits),
		sets:       make([]Set, numSets),
	}
	for i := range c.sets {
		c.sets[i] = NewSet(ways)
	}
	return c, nil
}

func isPowerOfTwo(n int) bool {
	return n > 0 && n&(n-1) == 0
}

func indexMaskFor(indexBits uint) uint64 {
	if indexBits == 0 {
		return 0
	}
	return ^uint64(0) >> (64 - indexBits)
}

// decode splits addr into (tag, index) per the cache's geometry.
func (c *Cache) decode(addr uint64) (tag, index uint64) {
	index = (addr >> c.offsetBits) & c.indexMask
	tag = addr >> (c.offsetBits + c.indexBits)
	return tag, index
}

// synthAddr rebuilds the canonical, line-aligned address for a given
// (tag, index) pair — the address used when pushing an evicted dirty
// line's contents down to the next level.
func (c *Cache) synthAddr(tag, index uint64) uint64 {
	return ((tag << c.indexBits) | index) << c.offsetBits
}

// Read implements the §4.3 read path.
func (c *Cache) Read(addr uint64) uint64 {
	c.reads++
	tag, index := c.decode(addr)
	set := &c.sets[index]

	cost := c.overhead

	if set.IsPresent(tag) {
		c.readHits++
		return cost
	}

	evicted, hadEviction := set.Install(tag)
	if hadEviction && evicted.Dirty {
		cost += c.next.Write(c.synthAddr(evicted.Tag, index))
	}
	cost += c.next.Read(addr)
	return cost
}

// Write implements the §4.3 write path: write-back, write-allocate.
func (c *Cache) Write(addr uint64) uint64 {
	c.writes++
	tag, index := c.decode(addr)
	set := &c.sets[index]

	cost := c.overhead

	if set.IsPresent(tag) {
		c.writeHits++
		set.MarkDirty(tag)
		return cost
	}

	evicted, hadEviction := set.Install(tag)
	if hadEviction && evicted.Dirty {
		cost += c.next.Write(c.synthAddr(evicted.Tag, index))
	}
	cost += c.next.Read(addr)
	set.MarkDirty(tag)
	return cost
}

// Report writes this level's hit-ratio block, then recurses into next.
func (c *Cache) Report(w io.Writer) error {
	if _, err := fmt.Fprintf(w, "=====\n%s:\n", c.Label); err != nil {
		return err
	}
	if _, err := fmt.Fprintf(w, "\tread hits/reads: %d / %d = %s\n",
		c.readHits, c.reads, ratio(c.readHits, c.reads)); err != nil {
		return err
	}
	if _, err := fmt.Fprintf(w, "\twrite hits/writes: %d / %d = %s\n",
		c.writeHits, c.writes, ratio(c.writeHits, c.writes)); err != nil {
		return err
	}
	return c.next.Report(w)
}

// ratio renders a/b as default-format decimal, matching the host
// formatter's NaN/Inf behaviour for a zero denominator (spec.md §6).
func ratio(a, b uint64) string {
	return fmt.Sprintf("%v", float64(a)/float64(b))
}
