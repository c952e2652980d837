// Roomstyle - Furniture and Interior Product Recommendations
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/roomstyle

package trainer

import (
	"context"
	"errors"
	"time"
)

// Serve implements suture.Service. It bootstraps an engine when none is
// serving yet, then refits every Training.Interval until ctx is cancelled.
// A zero interval disables scheduled refits.
func (t *Trainer) Serve(ctx context.Context) error {
	interval := t.config.Training.Interval
	t.logger.Info().Dur("interval", interval).Msg("trainer starting")

	// After a supervisor restart the holder is already populated.
	if _, err := t.holder.Load(); err != nil {
		if err := t.Bootstrap(ctx); err != nil {
			if ctx.Err() != nil {
				return ctx.Err()
			}
			t.logger.Warn().Err(err).Msg("initial fit failed (will retry on schedule)")
		}
	}

	if interval <= 0 {
		<-ctx.Done()
		t.logger.Info().Msg("trainer shutting down")
		return ctx.Err()
	}

	ticker := time.NewTicker(interval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			t.logger.Info().Msg("trainer shutting down")
			return ctx.Err()

		case <-ticker.C:
			t.logger.Debug().Msg("scheduled refit triggered")
			if _, err := t.Refit(ctx, TriggerSchedule); err != nil {
				if errors.Is(err, ErrFitInProgress) {
					t.logger.Debug().Msg("scheduled refit skipped, fit in progress")
					continue
				}
				t.logger.Warn().Err(err).Msg("scheduled refit failed")
			}
		}
	}
}

// String returns the service name for logging.
func (t *Trainer) String() string {
	return "trainer"
}
