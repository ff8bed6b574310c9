package service

import (
    "context"
    "database/sql"
    "log"
    "time"

    "github.com/iliyamo/cinema-booking/internal/model"
    "github.com/iliyamo/cinema-booking/internal/monitoring"
    "github.com/iliyamo/cinema-booking/internal/queue"
    "github.com/iliyamo/cinema-booking/internal/repository"
)

// Sweeper releases pending bookings whose hold deadline has passed. It
// runs on a fixed interval, loads at most BatchSize candidates per run,
// and expires each one in its own short transaction. The status flip in
// MarkExpiredTx is conditional, so a booking confirmed between the
// candidate query and the flip is simply skipped; a sweeper crashing
// mid-batch leaves the remaining bookings for the next run.
type Sweeper struct {
    DB        *sql.DB
    Bookings  *repository.BookingRepo
    Seats     *repository.ShowtimeSeatRepo
    Showtimes *repository.ShowtimeRepo

    Interval  time.Duration
    BatchSize int
}

// NewSweeper wires a Sweeper from the database handle and its knobs.
func NewSweeper(db *sql.DB, interval time.Duration, batchSize int) *Sweeper {
    return &Sweeper{
        DB:        db,
        Bookings:  repository.NewBookingRepo(db),
        Seats:     repository.NewShowtimeSeatRepo(db),
        Showtimes: repository.NewShowtimeRepo(db),
        Interval:  interval,
        BatchSize: batchSize,
    }
}

// Run ticks until the context is cancelled. Errors are logged and the
// loop keeps going; one bad booking must not stall the queue behind it.
func (s *Sweeper) Run(ctx context.Context) {
    ticker := time.NewTicker(s.Interval)
    defer ticker.Stop()
    log.Printf("sweeper: running every %s, batch size %d", s.Interval, s.BatchSize)
    for {
        select {
        case <-ctx.Done():
            log.Printf("sweeper: stopped")
            return
        case <-ticker.C:
            if n, err := s.SweepOnce(ctx); err != nil {
                log.Printf("sweeper: sweep failed: %v", err)
            } else if n > 0 {
                log.Printf("sweeper: expired %d booking(s)", n)
            }
        }
    }
}

// SweepOnce expires one batch of overdue bookings and returns how many
// were actually flipped. Per-booking failures are logged and skipped so
// the rest of the batch still gets processed.
func (s *Sweeper) SweepOnce(ctx context.Context) (int, error) {
    monitoring.SweepRuns.Inc()
    candidates, err := s.Bookings.ListExpiredPending(ctx, time.Now().UTC(), s.BatchSize)
    if err != nil {
        return 0, err
    }
    expired := 0
    for _, b := range candidates {
        released, err := s.expireOne(ctx, b)
        if err != nil {
            log.Printf("sweeper: booking %d not expired: %v", b.ID, err)
            continue
        }
        if released < 0 {
            // Lost the race to a confirmation or another sweeper.
            continue
        }
        expired++
        monitoring.BookingsExpired.Inc()
        monitoring.SeatsReleased.Add(float64(released))
        if err := queue.PublishBookingExpired(ctx, queue.BookingExpiredEvent{
            BookingID:     b.ID,
            BookingCode:   b.Code,
            UserID:        b.UserID,
            ShowtimeID:    b.ShowtimeID,
            ReleasedSeats: released,
            ExpiredAt:     time.Now().UTC().Format(time.RFC3339),
        }); err != nil {
            log.Printf("sweeper: booking %d: expired event not published: %v", b.ID, err)
        }
    }
    return expired, nil
}

// expireOne flips one booking to expired and releases its seats in a
// single transaction. Returns the number of seats released, or -1 when
// the conditional flip affected no rows (the booking moved on since the
// candidate query).
func (s *Sweeper) expireOne(ctx context.Context, b model.Booking) (int64, error) {
    tx, err := s.DB.BeginTx(ctx, nil)
    if err != nil {
        return 0, err
    }
    committed := false
    defer func() {
        if !committed {
            _ = tx.Rollback()
        }
    }()

    ok, err := s.Bookings.MarkExpiredTx(ctx, tx, b.ID)
    if err != nil {
        return 0, err
    }
    if !ok {
        return -1, nil
    }
    released, err := s.Seats.ReleaseByBookingTx(ctx, tx, b.ID)
    if err != nil {
        return 0, err
    }
    if released > 0 {
        if err := s.Showtimes.AdjustCountersTx(ctx, tx, b.ShowtimeID, int(released), -int(released), 0); err != nil {
            return 0, err
        }
    }
    if err := tx.Commit(); err != nil {
        return 0, err
    }
    committed = true
    return released, nil
}
