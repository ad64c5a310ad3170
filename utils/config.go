// File: utils/config.go
package utils

import "time"

// Config holds all configurable bank network parameters.
type Config struct {
	// Directory sharding
	ShardCount int `json:"shardCount"` // Number of customer directory shards in the pool

	// Timing
	LookupDelay     time.Duration `json:"lookupDelay"`     // Simulated per-item latency of a directory lookup
	ReceiptTimeout  time.Duration `json:"receiptTimeout"`  // How long an ATM waits for a transaction receipt
	WelcomeDelay    time.Duration `json:"welcomeDelay"`    // Delay before the welcome screen is re-rendered after a session ends
	AdvertPeriod    time.Duration `json:"advertPeriod"`    // Interval between advertisement broadcasts
	ShutdownTimeout time.Duration `json:"shutdownTimeout"` // Grace period for engine shutdown

	// Supervision
	MaxAccountFaults int           `json:"maxAccountFaults"` // Resumable faults tolerated per shard child before escalating
	FaultWindow      time.Duration `json:"faultWindow"`      // Rolling window the fault budget applies to

	// Gateway
	ListenAddr string `json:"listenAddr"` // HTTP/websocket listen address
}

// DefaultConfig returns a Config struct with default values.
func DefaultConfig() Config {
	return Config{
		// Directory sharding
		ShardCount: 5,

		// Timing
		LookupDelay:     2 * time.Second,
		ReceiptTimeout:  6 * time.Second,
		WelcomeDelay:    7 * time.Second,
		AdvertPeriod:    30 * time.Second,
		ShutdownTimeout: 5 * time.Second,

		// Supervision
		MaxAccountFaults: 10,
		FaultWindow:      time.Minute,

		// Gateway
		ListenAddr: ":3001",
	}
}

// TestConfig returns a Config with all simulated latencies shrunk so tests
// can exercise timeout paths without multi-second sleeps.
func TestConfig() Config {
	cfg := DefaultConfig()
	cfg.LookupDelay = 10 * time.Millisecond
	cfg.ReceiptTimeout = 150 * time.Millisecond
	cfg.WelcomeDelay = 50 * time.Millisecond
	cfg.AdvertPeriod = 50 * time.Millisecond
	cfg.ShutdownTimeout = time.Second
	return cfg
}
