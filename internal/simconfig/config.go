// Package simconfig loads and validates the cache hierarchy and
// predictor-set configuration described in SPEC_FULL.md §6, and wires
// up the concrete memsim/predict/cpuacct objects for a run.
package simconfig

import (
	"fmt"
	"io"
	"os"

	"gopkg.in/yaml.v3"

	"github.com/maemo32/microsim/internal/cpuacct"
	"github.com/maemo32/microsim/internal/memsim"
	"github.com/maemo32/microsim/internal/predict"
)

// LevelConfig overrides one cache level's geometry and overhead. A
// zero value for any field falls back to the canonical default for
// that level.
type LevelConfig struct {
	Size     int    `yaml:"size"`
	Ways     int    `yaml:"ways"`
	LineLen  int    `yaml:"line_len"`
	Overhead uint64 `yaml:"overhead"`
}

// Config is the full, user-overridable simulation configuration.
type Config struct {
	RAM struct {
		Overhead uint64 `yaml:"overhead"`
	} `yaml:"ram"`
	L1         LevelConfig    `yaml:"l1"`
	L2         LevelConfig    `yaml:"l2"`
	Predictors []predict.Name `yaml:"predictors"`
}

// Canonical returns the configuration named in spec.md §6: RAM oh=8;
// L2 1000 KiB/2-way/16B/oh=2; L1 64 KiB/2-way/16B/oh=1; the six
// predictors in their canonical registration order.
func Canonical() *Config {
	cfg := &Config{}
	cfg.RAM.Overhead = memsim.DefaultRAMOverhead
	cfg.L2 = LevelConfig{Size: 1000 * 1024, Ways: 2, LineLen: 16, Overhead: memsim.DefaultL2Overhead}
	cfg.L1 = LevelConfig{Size: 64 * 1024, Ways: 2, LineLen: 16, Overhead: memsim.DefaultL1Overhead}
	cfg.Predictors = append([]predict.Name(nil), predict.CanonicalOrder...)
	return cfg
}

// Load reads a YAML configuration from r, applying canonical defaults
// for anything the document omits. A nil/empty document is equivalent
// to the canonical configuration.
func Load(r io.Reader) (*Config, error) {
	cfg := Canonical()

	raw, err := io.ReadAll(r)
	if err != nil {
		return nil, fmt.Errorf("simconfig: reading config: %w", err)
	}
	if len(raw) == 0 {
		return cfg, nil
	}

	var overlay Config
	if err := yaml.Unmarshal(raw, &overlay); err != nil {
		return nil, fmt.Errorf("simconfig: parsing config: %w", err)
	}

	applyOverlay(cfg, &overlay)
	return cfg, nil
}

// LoadFile opens and loads path, or returns the canonical
// configuration if path is empty.
func LoadFile(path string) (*Config, error) {
	if path == "" {
		return Canonical(), nil
	}

	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("simconfig: opening %s: %w", path, err)
	}
	defer f.Close()

	return Load(f)
}

func applyOverlay(cfg, overlay *Config) {
	if overlay.RAM.Overhead != 0 {
		cfg.RAM.Overhead = overlay.RAM.Overhead
	}
	applyLevelOverlay(&cfg.L1, overlay.L1)
	applyLevelOverlay(&cfg.L2, overlay.L2)
	if len(overlay.Predictors) > 0 {
		cfg.Predictors = overlay.Predictors
	}
}

func applyLevelOverlay(level *LevelConfig, overlay LevelConfig) {
	if overlay.Size != 0 {
		level.Size = overlay.Size
	}
	if overlay.Ways != 0 {
		level.Ways = overlay.Ways
	}
	if overlay.LineLen != 0 {
		level.LineLen = overlay.LineLen
	}
	if overlay.Overhead != 0 {
		level.Overhead = overlay.Overhead
	}
}

// Hierarchy is the fully constructed cache chain, RAM at the bottom.
type Hierarchy struct {
	L1  *memsim.Cache
	L2  *memsim.Cache
	RAM *memsim.RAM
}

// BuildHierarchy constructs the RAM -> L2 -> L1 chain described by cfg.
func BuildHierarchy(cfg *Config) (*Hierarchy, error) {
	ram := memsim.NewRAM(cfg.RAM.Overhead)

	l2, err := memsim.NewCache("L2", ram, cfg.L2.Size, cfg.L2.Ways, cfg.L2.LineLen, cfg.L2.Overhead)
	if err != nil {
		return nil, fmt.Errorf("simconfig: L2: %w", err)
	}

	l1, err := memsim.NewCache("L1", l2, cfg.L1.Size, cfg.L1.Ways, cfg.L1.LineLen, cfg.L1.Overhead)
	if err != nil {
		return nil, fmt.Errorf("simconfig: L1: %w", err)
	}

	return &Hierarchy{L1: l1, L2: l2, RAM: ram}, nil
}

// BuildPredictors constructs the predictor set described by cfg, in
// registration order.
func BuildPredictors(cfg *Config) ([]predict.Predictor, error) {
	set, err := predict.BuildSet(cfg.Predictors)
	if err != nil {
		return nil, fmt.Errorf("simconfig: predictors: %w", err)
	}
	return set, nil
}

// BuildCPU wires a Hierarchy and predictor set into a ready-to-run
// cpuacct.CPU. It returns the same predictor slice it wired into the
// CPU, so a caller reporting on them later (report.Write) observes
// the exact instances cpu.Run drove, not freshly constructed ones.
func BuildCPU(cfg *Config) (*cpuacct.CPU, *Hierarchy, []predict.Predictor, error) {
	h, err := BuildHierarchy(cfg)
	if err != nil {
		return nil, nil, nil, err
	}
	predictors, err := BuildPredictors(cfg)
	if err != nil {
		return nil, nil, nil, err
	}
	return cpuacct.New(h.L1, predictors), h, predictors, nil
}
