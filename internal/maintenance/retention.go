package maintenance

import (
	"context"
	"database/sql"
	"log"
	"strconv"
	"strings"
	"time"
)

// StartAnalysisEventsRetention runs a daily job at localTime ("HH:MM") in
// tzName that deletes analysis_events older than keepDays.
// Call once at startup: go maintenance.StartAnalysisEventsRetention(ctx, db, 90, "03:00", "UTC")
func StartAnalysisEventsRetention(ctx context.Context, db *sql.DB, keepDays int, localTime string, tzName string) {
	if keepDays <= 0 {
		keepDays = 90
	}
	go func() {
		loc, err := time.LoadLocation(tzName)
		if err != nil {
			loc = time.Local
		}
		h, m := 3, 0
		if parts := strings.Split(localTime, ":"); len(parts) == 2 {
			if v, err := strconv.Atoi(parts[0]); err == nil {
				h = v
			}
			if v, err := strconv.Atoi(parts[1]); err == nil {
				m = v
			}
		}

		ensureIdx := func(ctx context.Context) {
			const q = `CREATE INDEX IF NOT EXISTS idx_analysis_events_analyzed_at
			           ON analysis_events (analyzed_at);`
			if _, err := db.ExecContext(ctx, q); err != nil {
				log.Printf("[retention] ensure index failed: %v", err)
			}
		}

		runOnce := func(ctx context.Context) {
			ensureIdx(ctx)
			const q = `DELETE FROM analysis_events WHERE analyzed_at < now() - ($1 || ' days')::interval;`
			if _, err := db.ExecContext(ctx, q, keepDays); err != nil {
				log.Printf("[retention] delete old analysis_events failed: %v", err)
			} else {
				log.Printf("[retention] analysis_events pruned to last %d days", keepDays)
			}
		}

		for {
			now := time.Now().In(loc)
			next := time.Date(now.Year(), now.Month(), now.Day(), h, m, 0, 0, loc)
			if !next.After(now) {
				next = next.Add(24 * time.Hour)
			}
			timer := time.NewTimer(time.Until(next))
			select {
			case <-ctx.Done():
				timer.Stop()
				return
			case <-timer.C:
				runOnce(ctx)
			}
		}
	}()
}
