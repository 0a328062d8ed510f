package forkjoin

import (
	"fmt"
	"os"
	"runtime"

	"github.com/pelletier/go-toml/v2"
)

// DefaultRingCapacity is the default per-worker job ring size. Must stay a power
// of two; see Config.RingCapacity.
const DefaultRingCapacity = 4096

// DefaultMaxContinuations is the default per-job continuation capacity.
const DefaultMaxContinuations = 16

// DefaultMaxPayloadBytes is the default inline closure/payload capacity in bytes.
const DefaultMaxPayloadBytes = 128

// Config holds the scheduler's tunables.
type Config struct {
	// WorkerCount is the number of worker goroutines to spawn, excluding the calling
	// goroutine. Zero or negative selects max(1, runtime.GOMAXPROCS(0)-1).
	WorkerCount int `toml:"worker_count"`

	// RingCapacity is the per-worker job ring size. A value that is not a power of
	// two is rounded up to the next one by normalize.
	RingCapacity int `toml:"ring_capacity"`

	// MaxContinuations is the per-job continuation slot count.
	MaxContinuations int `toml:"max_continuations"`

	// MaxPayloadBytes is the inline payload capacity used by SpawnPayload.
	MaxPayloadBytes int `toml:"max_payload_bytes"`
}

// DefaultConfig returns sensible default configuration, matching the
// DefaultConfig()/NewWithConfig pairing (workerpool.go) adapted to this scheduler's
// tunables.
func DefaultConfig() Config {
	return Config{
		WorkerCount:      defaultWorkerCount(),
		RingCapacity:     DefaultRingCapacity,
		MaxContinuations: DefaultMaxContinuations,
		MaxPayloadBytes:  DefaultMaxPayloadBytes,
	}
}

// defaultWorkerCount picks the default pool size: max(1, GOMAXPROCS-1).
func defaultWorkerCount() int {
	if n := runtime.GOMAXPROCS(0) - 1; n > 0 {
		return n
	}
	return 1
}

// normalize fills in zero-valued fields with their defaults and rounds RingCapacity
// up to the next power of two, matching NewWithConfig's defaulting behavior
// (workerpool.go).
func (c Config) normalize() Config {
	if c.WorkerCount <= 0 {
		c.WorkerCount = defaultWorkerCount()
	}
	if c.RingCapacity <= 0 {
		c.RingCapacity = DefaultRingCapacity
	}
	c.RingCapacity = nextPowerOfTwo(c.RingCapacity)
	if c.MaxContinuations <= 0 {
		c.MaxContinuations = DefaultMaxContinuations
	}
	if c.MaxPayloadBytes <= 0 {
		c.MaxPayloadBytes = DefaultMaxPayloadBytes
	}
	return c
}

func nextPowerOfTwo(n int) int {
	if n&(n-1) == 0 {
		return n
	}
	p := 1
	for p < n {
		p <<= 1
	}
	return p
}

// LoadConfig loads a Config from a TOML file, grounded on the toml.Unmarshal-based
// LoadConfig in tangzhangming-nova's internal/pkg/config.go. Fields absent from the
// file keep their zero value and are filled in by normalize() when the Config is
// used to build a Scheduler.
func LoadConfig(path string) (Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return Config{}, fmt.Errorf("forkjoin: read config file: %w", err)
	}

	var cfg Config
	if err := toml.Unmarshal(data, &cfg); err != nil {
		return Config{}, fmt.Errorf("forkjoin: parse config file: %w", err)
	}

	return cfg, nil
}
