package sandbox

import "time"

// Config holds the limits applied to every sandbox instance.
type Config struct {
	Timeout        time.Duration
	MemoryBytes    int64
	CPUPeriod      int64
	CPUQuota       int64
	NetworkMode    string
	WorkspaceRoot  string // empty means os.TempDir()
	MaxOutputBytes int    // per stream; zero disables the cap
	CleanupTimeout time.Duration
}

// DefaultConfig returns the limits used when nothing is configured.
func DefaultConfig() Config {
	return Config{
		Timeout:        30 * time.Second,
		MemoryBytes:    512 * 1024 * 1024,
		CPUPeriod:      100000,
		CPUQuota:       75000,
		NetworkMode:    "bridge",
		MaxOutputBytes: 1 << 20,
		CleanupTimeout: 10 * time.Second,
	}
}
