package orch

import (
	"context"
	"time"

	"github.com/rs/zerolog/log"
)

// SweepUnclaimed deletes rooms that were created but never joined within ttl.
func (o *Orchestrator) SweepUnclaimed(ttl time.Duration) int {
	o.mu.Lock()
	defer o.mu.Unlock()
	n := o.Rooms.SweepEmpty(ttl)
	if n > 0 {
		log.Info().Str("module", "orch.janitor").Int("removed", n).Msg("swept unclaimed rooms")
	}
	return n
}

func (o *Orchestrator) RunJanitor(ctx context.Context, ttl time.Duration) {
	if ttl <= 0 {
		return
	}
	ticker := time.NewTicker(ttl / 2)
	defer ticker.Stop()
	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			o.SweepUnclaimed(ttl)
		}
	}
}
