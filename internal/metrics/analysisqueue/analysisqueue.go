package analysisqueue

import (
	"context"
	"database/sql"
	"fmt"
	"sync"
	"time"
)

// event is an anonymous analysis record: the score and breach outcome,
// never the password or any user identifier.
type event struct {
	score      int
	breached   sql.NullBool
	analyzedAt time.Time
}

var (
	dbRef *sql.DB
	ch    chan event
	done  chan struct{}
	wg    sync.WaitGroup
	once  sync.Once
)

// Start spins up N workers with a buffered channel.
// Suggested: buf=10000, workers=2
func Start(db *sql.DB, buf, workers int) {
	once.Do(func() {
		dbRef = db
		ch = make(chan event, buf)
		done = make(chan struct{})
		for i := 0; i < workers; i++ {
			wg.Add(1)
			go worker()
		}
	})
}

// Enqueue tries to queue an analysis event without blocking.
// If the buffer is full, the event is dropped (acceptable for metrics).
func Enqueue(score int, breached *bool) {
	if ch == nil {
		return
	}
	ev := event{score: score, analyzedAt: time.Now().UTC()}
	if breached != nil {
		ev.breached = sql.NullBool{Bool: *breached, Valid: true}
	}
	select {
	case ch <- ev:
	default:
		// buffer full; drop
	}
}

// Shutdown signals workers to stop, flushes remaining events, and waits.
func Shutdown() {
	if done == nil {
		return
	}
	close(done)
	wg.Wait()
}

// --- internal ---

const (
	batchSize  = 100
	flushEvery = 250 * time.Millisecond
	writeTO    = 500 * time.Millisecond
	insertTmpl = `INSERT INTO analysis_events (score, breached, analyzed_at) VALUES %s`
)

func worker() {
	defer wg.Done()
	tk := time.NewTicker(flushEvery)
	defer tk.Stop()

	batch := make([]event, 0, batchSize)

	flush := func() {
		if len(batch) == 0 {
			return
		}
		_ = insertBatch(batch) // best-effort; errors are ignored for metrics
		batch = batch[:0]
	}

	for {
		select {
		case <-done:
			// drain quickly then flush
			for {
				select {
				case ev := <-ch:
					batch = append(batch, ev)
					if len(batch) >= batchSize {
						flush()
					}
				default:
					flush()
					return
				}
			}
		case ev := <-ch:
			batch = append(batch, ev)
			if len(batch) >= batchSize {
				flush()
			}
		case <-tk.C:
			flush()
		}
	}
}

func insertBatch(batch []event) error {
	if len(batch) == 0 {
		return nil
	}
	// VALUES ($1,$2,$3),($4,$5,$6)...
	args := make([]any, 0, len(batch)*3)
	vals := make([]byte, 0, len(batch)*16)
	for i, ev := range batch {
		if i > 0 {
			vals = append(vals, ',')
		}
		p := 3 * i
		vals = append(vals, fmt.Sprintf("($%d,$%d,$%d)", p+1, p+2, p+3)...)
		args = append(args, ev.score, ev.breached, ev.analyzedAt)
	}
	ctx, cancel := context.WithTimeout(context.Background(), writeTO)
	defer cancel()
	_, err := dbRef.ExecContext(ctx, fmt.Sprintf(insertTmpl, string(vals)), args...)
	return err
}
