// internal/app/system/timeouts/timeouts.go
package timeouts

import (
	"sync"
	"time"
)

/*──────────────────────────── defaults ────────────────────────────*/

const (
	defaultPing   = 2 * time.Second
	defaultShort  = 5 * time.Second
	defaultMedium = 10 * time.Second
	defaultLong   = 30 * time.Second
)

/*──────────────────────────── state ───────────────────────────────*/

var (
	mu     sync.RWMutex
	ping   = defaultPing
	short  = defaultShort
	medium = defaultMedium
	long   = defaultLong
)

// Config carries override values for the package-level timeouts. Zero
// fields leave the current value untouched.
type Config struct {
	Ping   time.Duration
	Short  time.Duration
	Medium time.Duration
	Long   time.Duration
}

// Configure applies non-zero values from cfg.
func Configure(cfg Config) {
	mu.Lock()
	defer mu.Unlock()
	if cfg.Ping > 0 {
		ping = cfg.Ping
	}
	if cfg.Short > 0 {
		short = cfg.Short
	}
	if cfg.Medium > 0 {
		medium = cfg.Medium
	}
	if cfg.Long > 0 {
		long = cfg.Long
	}
}

// Reset restores all timeouts to their defaults.
func Reset() {
	mu.Lock()
	defer mu.Unlock()
	ping, short, medium, long = defaultPing, defaultShort, defaultMedium, defaultLong
}

/*──────────────────────────── getters ─────────────────────────────*/

// Ping is for liveness checks against the database.
func Ping() time.Duration { mu.RLock(); defer mu.RUnlock(); return ping }

// Short is for single-document reads and writes.
func Short() time.Duration { mu.RLock(); defer mu.RUnlock(); return short }

// Medium is for multi-document queries and small aggregations.
func Medium() time.Duration { mu.RLock(); defer mu.RUnlock(); return medium }

// Long is for schema work and file transfers.
func Long() time.Duration { mu.RLock(); defer mu.RUnlock(); return long }
