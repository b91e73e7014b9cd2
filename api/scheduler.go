/*
scheduler.go - Automated config refresh scheduler

PURPOSE:
  Periodically re-resolves the cached engines against the config store so
  that versions with a future effective date take over automatically when
  that date arrives, without a restart or a manual cache flush.

DESIGN:
  - Runs a background goroutine with configurable check interval
  - Re-resolves each cached organization as of today
  - Drops cache entries whose resolved version changed (the next request
    rebuilds the engine from the new version)
  - Drops entries whose organization no longer resolves at all

CONFIGURATION:
  - CheckInterval: How often to check (default: 1 hour)
  - Enabled: Whether the refresher is active (default: true)

USAGE:
  refresher := NewConfigRefresher(store, handler)
  refresher.Start()
  // ... later
  refresher.Stop()

SEE ALSO:
  - handlers.go: The engine cache being refreshed
  - store/sqlite: Versioned config resolution
*/
package api

import (
	"context"
	"log"
	"sync"
	"time"

	"github.com/warp/payroll-engine/payroll"
	"github.com/warp/payroll-engine/store/sqlite"
)

// ConfigRefresher keeps the handler's engine cache aligned with the
// config versions currently in effect.
type ConfigRefresher struct {
	Store         *sqlite.Store
	Handler       *Handler
	CheckInterval time.Duration
	Enabled       bool

	ticker *time.Ticker
	stop   chan bool
	wg     sync.WaitGroup
	mu     sync.Mutex
}

// NewConfigRefresher creates a new refresher.
func NewConfigRefresher(store *sqlite.Store, handler *Handler) *ConfigRefresher {
	return &ConfigRefresher{
		Store:         store,
		Handler:       handler,
		CheckInterval: 1 * time.Hour,
		Enabled:       true,
		stop:          make(chan bool),
	}
}

// Start begins the refresher.
func (cr *ConfigRefresher) Start() {
	cr.mu.Lock()
	defer cr.mu.Unlock()

	if !cr.Enabled {
		log.Println("[Refresher] Disabled, not starting")
		return
	}

	cr.ticker = time.NewTicker(cr.CheckInterval)
	cr.wg.Add(1)

	go cr.run()

	log.Printf("[Refresher] Started with check interval: %v", cr.CheckInterval)
}

// Stop stops the refresher.
func (cr *ConfigRefresher) Stop() {
	cr.mu.Lock()
	defer cr.mu.Unlock()

	if cr.ticker != nil {
		cr.ticker.Stop()
		close(cr.stop)
		cr.wg.Wait()
		log.Println("[Refresher] Stopped")
	}
}

func (cr *ConfigRefresher) run() {
	defer cr.wg.Done()

	for {
		select {
		case <-cr.ticker.C:
			cr.refresh()
		case <-cr.stop:
			return
		}
	}
}

func (cr *ConfigRefresher) refresh() {
	ctx := context.Background()
	today := payroll.Today()

	for _, orgID := range cr.Handler.cachedOrganizations() {
		record, err := cr.Store.Resolve(ctx, orgID, today)
		if err != nil {
			// Resolution failures drop the entry so requests see the
			// store's current state instead of a stale engine.
			log.Printf("[Refresher] Dropping cached engine for %s: %v", orgID, err)
			cr.Handler.dropEngine(orgID)
			continue
		}

		cr.Handler.mu.RLock()
		cached, ok := cr.Handler.engines[orgID]
		cr.Handler.mu.RUnlock()
		if ok && cached.version != record.Version {
			log.Printf("[Refresher] Config for %s advanced to version %d", orgID, record.Version)
			cr.Handler.dropEngine(orgID)
		}
	}
}

// dropEngine removes one organization's cached engine.
func (h *Handler) dropEngine(orgID string) {
	h.mu.Lock()
	delete(h.engines, orgID)
	h.mu.Unlock()
}
