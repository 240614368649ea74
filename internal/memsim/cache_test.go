package memsim

import (
	"io"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewCache_RejectsNonPowerOfTwoGeometry(t *testing.T) {
	ram := NewRAM(8)

	_, err := NewCache("L1", ram, 100, 2, 16, 0)
	require.Error(t, err)
	var cfgErr *ConfigError
	require.ErrorAs(t, err, &cfgErr)

	_, err = NewCache("L1", ram, 1024, 3, 16, 0)
	require.Error(t, err)

	_, err = NewCache("L1", ram, 1024, 2, 7, 0)
	require.Error(t, err)
}

func TestNewCache_DefaultsOverheadByLabel(t *testing.T) {
	ram := NewRAM(8)
	l1, err := NewCache("L1", ram, 1024, 1, 16, 0)
	require.NoError(t, err)
	assert.Equal(t, uint64(DefaultL1Overhead), l1.overhead)

	l2, err := NewCache("L2", ram, 1024, 1, 16, 0)
	require.NoError(t, err)
	assert.Equal(t, uint64(DefaultL2Overhead), l2.overhead)
}

// S1 — single-level direct-mapped hit.
func TestCache_S1_SingleLevelDirectMappedHit(t *testing.T) {
	ram := NewRAM(8)
	c, err := NewCache("L1", ram, 1024, 1, 16, 1)
	require.NoError(t, err)

	var total uint64
	total += c.Read(0x0000)
	total += c.Read(0x0004)
	total += c.Read(0x0008)

	assert.Equal(t, uint64(3), c.reads)
	assert.Equal(t, uint64(2), c.readHits)
	assert.Equal(t, uint64(0), c.writeHits)
	// miss (1 + RAM 8) + hit (1) + hit (1)
	assert.Equal(t, uint64(11), total)
}

// S2 — FIFO eviction.
func TestCache_S2_FIFOEviction(t *testing.T) {
	ram := NewRAM(8)
	c, err := NewCache("L1", ram, 32, 2, 16, 1)
	require.NoError(t, err)

	// Tags A, B, C all land in set 0 (line_len=16, 1 set total since
	// size/(ways*line_len) = 1).
	addrA := uint64(0) << 4
	addrB := uint64(1) << 4
	addrC := uint64(2) << 4

	c.Read(addrA)
	c.Read(addrB)
	c.Read(addrC) // evicts A; set now holds {B, C}

	set := &c.sets[0]
	assert.True(t, set.IsPresent(1))
	assert.True(t, set.IsPresent(2))
	assert.False(t, set.IsPresent(0))

	// A read of A should now miss (it was evicted).
	reads := c.reads
	readHits := c.readHits
	c.Read(addrA)
	assert.Equal(t, reads+1, c.reads)
	assert.Equal(t, readHits, c.readHits) // no new hit
}

// S3 — dirty write-back.
func TestCache_S3_DirtyWriteBack(t *testing.T) {
	var writes []uint64
	sink := &recordingMemory{onWrite: func(addr uint64) uint64 {
		writes = append(writes, addr)
		return 8
	}}

	c, err := NewCache("L1", sink, 32, 2, 16, 1)
	require.NoError(t, err)

	tagX := uint64(0)
	tagY := uint64(1)
	tagZ := uint64(2)

	c.Write(tagX << 4) // miss-fill, dirty
	c.Write(tagY << 4) // miss-fill, dirty, set now full {X,Y}
	c.Write(tagZ << 4) // evicts X (dirty) -> write-back

	require.Len(t, writes, 1)
	assert.Equal(t, tagX<<4, writes[0])
}

func TestCache_S3_CleanEvictionIssuesNoWriteback(t *testing.T) {
	var writes int
	sink := &recordingMemory{onWrite: func(addr uint64) uint64 {
		writes++
		return 8
	}}

	c, err := NewCache("L1", sink, 32, 2, 16, 1)
	require.NoError(t, err)

	c.Read(uint64(0) << 4)
	c.Read(uint64(1) << 4)
	c.Read(uint64(2) << 4) // evicts tag 0, but it's clean

	assert.Equal(t, 0, writes)
}

// Invariant 6 — address synthesis round-trips.
func TestCache_SynthAddrRoundTrip(t *testing.T) {
	ram := NewRAM(8)
	c, err := NewCache("L1", ram, 1024, 2, 16, 1) // 32 sets -> 5 index bits
	require.NoError(t, err)

	for _, tc := range []struct{ tag, index uint64 }{
		{0, 0}, {1, 0}, {1, 31}, {0xFFFF, 17},
	} {
		addr := c.synthAddr(tc.tag, tc.index)
		gotTag, gotIndex := c.decode(addr)
		assert.Equal(t, tc.tag, gotTag)
		assert.Equal(t, tc.index, gotIndex)
	}
}

func TestCache_Report(t *testing.T) {
	ram := NewRAM(8)
	c, err := NewCache("L1", ram, 1024, 1, 16, 1)
	require.NoError(t, err)

	c.Read(0)
	c.Read(0)

	var sb strings.Builder
	require.NoError(t, c.Report(&sb))

	out := sb.String()
	assert.Contains(t, out, "L1:")
	assert.Contains(t, out, "read hits/reads: 1 / 2")
}

type recordingMemory struct {
	onRead  func(addr uint64) uint64
	onWrite func(addr uint64) uint64
}

func (m *recordingMemory) Read(addr uint64) uint64 {
	if m.onRead != nil {
		return m.onRead(addr)
	}
	return 8
}

func (m *recordingMemory) Write(addr uint64) uint64 {
	if m.onWrite != nil {
		return m.onWrite(addr)
	}
	return 8
}

func (m *recordingMemory) Report(w io.Writer) error {
	return nil
}
