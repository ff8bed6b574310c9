package service

import (
    "context"
    "database/sql"
    "log"
    "time"

    "github.com/shopspring/decimal"

    "github.com/iliyamo/cinema-booking/internal/model"
    "github.com/iliyamo/cinema-booking/internal/monitoring"
    "github.com/iliyamo/cinema-booking/internal/queue"
    "github.com/iliyamo/cinema-booking/internal/repository"
    "github.com/iliyamo/cinema-booking/internal/utils"
)

// BookingService owns the seat-hold lifecycle. Every mutation runs in
// one transaction per booking; the conditional UPDATEs in the seat and
// booking repositories are the only serialization points, so there is
// no in-process locking and the service works with multiple server
// replicas against the same database.
type BookingService struct {
    DB           *sql.DB
    Bookings     *repository.BookingRepo
    Seats        *repository.ShowtimeSeatRepo
    Showtimes    *repository.ShowtimeRepo
    Tickets      *repository.TicketRepo
    Transactions *repository.TransactionRepo

    HoldDuration time.Duration
    MaxSeats     int
}

// NewBookingService wires a BookingService from its repositories.
func NewBookingService(db *sql.DB, holdDuration time.Duration, maxSeats int) *BookingService {
    return &BookingService{
        DB:           db,
        Bookings:     repository.NewBookingRepo(db),
        Seats:        repository.NewShowtimeSeatRepo(db),
        Showtimes:    repository.NewShowtimeRepo(db),
        Tickets:      repository.NewTicketRepo(db),
        Transactions: repository.NewTransactionRepo(db),
        HoldDuration: holdDuration,
        MaxSeats:     maxSeats,
    }
}

// Create claims the requested seats for a user and returns the pending
// booking with its items. All seats are claimed inside one transaction:
// if any seat is already held or sold the whole transaction rolls back
// and no seat is left claimed. The booking expires HoldDuration from
// now unless confirmed.
func (s *BookingService) Create(ctx context.Context, userID, showtimeID uint64, seatIDs []uint64) (model.Booking, []model.BookingItem, error) {
    if len(seatIDs) == 0 {
        return model.Booking{}, nil, ErrNoSeats
    }
    if len(seatIDs) > s.MaxSeats {
        return model.Booking{}, nil, ErrTooManySeats
    }
    seen := make(map[uint64]bool, len(seatIDs))
    for _, id := range seatIDs {
        if seen[id] {
            return model.Booking{}, nil, ErrDuplicateSeat
        }
        seen[id] = true
    }

    st, err := s.Showtimes.GetByID(ctx, showtimeID)
    if err != nil {
        return model.Booking{}, nil, err
    }
    if st.Status != model.ShowtimeStatusActive {
        return model.Booking{}, nil, ErrShowtimeNotBookable
    }

    tx, err := s.DB.BeginTx(ctx, nil)
    if err != nil {
        return model.Booking{}, nil, err
    }
    committed := false
    defer func() {
        if !committed {
            _ = tx.Rollback()
        }
    }()

    booking := model.Booking{
        Code:       utils.NewCode("BKG"),
        UserID:     userID,
        ShowtimeID: showtimeID,
        Status:     model.BookingStatusPending,
        ExpiresAt:  time.Now().UTC().Add(s.HoldDuration),
    }
    if err := s.Bookings.CreateTx(ctx, tx, &booking); err != nil {
        return model.Booking{}, nil, err
    }

    for _, seatID := range seatIDs {
        if err := s.Seats.ClaimTx(ctx, tx, showtimeID, seatID, booking.ID); err != nil {
            if err == repository.ErrSeatUnavailable {
                // A zero-row claim covers both a contended seat and a
                // seat ID that does not exist under this showtime; only
                // the former is a conflict.
                exists, lookupErr := s.Seats.ExistsTx(ctx, tx, showtimeID, seatID)
                if lookupErr != nil {
                    return model.Booking{}, nil, lookupErr
                }
                if !exists {
                    return model.Booking{}, nil, repository.ErrNotFound
                }
                monitoring.ClaimConflicts.Inc()
            }
            return model.Booking{}, nil, err
        }
    }

    held, err := s.Seats.ListHeldByBookingTx(ctx, tx, booking.ID)
    if err != nil {
        return model.Booking{}, nil, err
    }

    items := make([]model.BookingItem, 0, len(held))
    subtotal := decimal.Zero
    for _, h := range held {
        items = append(items, model.BookingItem{
            BookingID:      booking.ID,
            ShowtimeSeatID: h.ShowtimeSeatID,
            RoomSeatID:     h.RoomSeatID,
            SeatCode:       h.SeatCode,
            SeatType:       h.SeatType,
            Price:          h.Price,
        })
        subtotal = subtotal.Add(h.Price)
    }
    booking.TotalSeats = uint32(len(items))
    booking.Subtotal = subtotal
    booking.DiscountAmount = decimal.Zero
    booking.TotalAmount = subtotal
    booking.FinalPrice = subtotal

    if err := s.Bookings.UpdateTotalsTx(ctx, tx, &booking); err != nil {
        return model.Booking{}, nil, err
    }
    if err := s.Bookings.CreateItemsBulkTx(ctx, tx, items); err != nil {
        return model.Booking{}, nil, err
    }
    if err := s.Showtimes.AdjustCountersTx(ctx, tx, showtimeID, -len(items), len(items), 0); err != nil {
        return model.Booking{}, nil, err
    }
    if err := tx.Commit(); err != nil {
        return model.Booking{}, nil, err
    }
    committed = true
    monitoring.BookingsCreated.Inc()
    return booking, items, nil
}

// Cancel releases a pending booking on the owner's request. Held seats
// go back to available; confirmed, expired or already cancelled
// bookings return ErrNotPending.
func (s *BookingService) Cancel(ctx context.Context, userID, bookingID uint64) error {
    tx, err := s.DB.BeginTx(ctx, nil)
    if err != nil {
        return err
    }
    committed := false
    defer func() {
        if !committed {
            _ = tx.Rollback()
        }
    }()

    b, err := s.Bookings.GetForUpdateTx(ctx, tx, bookingID)
    if err != nil {
        return err
    }
    if b.UserID != userID {
        return repository.ErrForbidden
    }
    ok, err := s.Bookings.MarkCancelledTx(ctx, tx, bookingID)
    if err != nil {
        return err
    }
    if !ok {
        return ErrNotPending
    }
    released, err := s.Seats.ReleaseByBookingTx(ctx, tx, bookingID)
    if err != nil {
        return err
    }
    if released > 0 {
        if err := s.Showtimes.AdjustCountersTx(ctx, tx, b.ShowtimeID, int(released), -int(released), 0); err != nil {
            return err
        }
    }
    if err := tx.Commit(); err != nil {
        return err
    }
    committed = true
    monitoring.BookingsCancelled.Inc()
    monitoring.SeatsReleased.Add(float64(released))
    return nil
}

// ConfirmPayment records a successful payment and converts the
// booking's holds to sold seats, issuing one QR ticket per seat. The
// booking row is locked for the duration so confirmation and the
// sweeper cannot both act on it; a booking whose deadline already
// passed is expired here rather than confirmed, regardless of which
// goroutine noticed first.
func (s *BookingService) ConfirmPayment(ctx context.Context, userID, bookingID uint64, method string, amount decimal.Decimal) (model.Booking, []model.Ticket, error) {
    tx, err := s.DB.BeginTx(ctx, nil)
    if err != nil {
        return model.Booking{}, nil, err
    }
    committed := false
    defer func() {
        if !committed {
            _ = tx.Rollback()
        }
    }()

    b, err := s.Bookings.GetForUpdateTx(ctx, tx, bookingID)
    if err != nil {
        return model.Booking{}, nil, err
    }
    if b.UserID != userID {
        return model.Booking{}, nil, repository.ErrForbidden
    }
    if b.Status == model.BookingStatusExpired {
        return model.Booking{}, nil, repository.ErrBookingExpired
    }
    if b.Status != model.BookingStatusPending {
        return model.Booking{}, nil, ErrNotPending
    }
    if time.Now().UTC().After(b.ExpiresAt) {
        // The deadline passed but the sweeper has not been here yet.
        // Expire in place so the customer gets the same answer either
        // way and the seats free up immediately.
        if _, err := s.Bookings.MarkExpiredTx(ctx, tx, bookingID); err != nil {
            return model.Booking{}, nil, err
        }
        released, err := s.Seats.ReleaseByBookingTx(ctx, tx, bookingID)
        if err != nil {
            return model.Booking{}, nil, err
        }
        if released > 0 {
            if err := s.Showtimes.AdjustCountersTx(ctx, tx, b.ShowtimeID, int(released), -int(released), 0); err != nil {
                return model.Booking{}, nil, err
            }
        }
        if err := tx.Commit(); err != nil {
            return model.Booking{}, nil, err
        }
        committed = true
        monitoring.BookingsExpired.Inc()
        monitoring.SeatsReleased.Add(float64(released))
        return model.Booking{}, nil, repository.ErrBookingExpired
    }
    if !amount.Equal(b.FinalPrice) {
        return model.Booking{}, nil, ErrAmountMismatch
    }

    ok, err := s.Bookings.MarkConfirmedTx(ctx, tx, bookingID)
    if err != nil {
        return model.Booking{}, nil, err
    }
    if !ok {
        return model.Booking{}, nil, ErrNotPending
    }
    sold, err := s.Seats.SellByBookingTx(ctx, tx, bookingID)
    if err != nil {
        return model.Booking{}, nil, err
    }
    if sold != int64(b.TotalSeats) {
        return model.Booking{}, nil, repository.ErrConflict
    }
    if err := s.Showtimes.AdjustCountersTx(ctx, tx, b.ShowtimeID, 0, -int(sold), int(sold)); err != nil {
        return model.Booking{}, nil, err
    }

    txn := model.Transaction{
        Code:          utils.NewCode("TXN"),
        BookingID:     bookingID,
        UserID:        userID,
        PaymentMethod: method,
        Amount:        amount,
        Status:        model.TransactionStatusSuccess,
    }
    if err := s.Transactions.CreateTx(ctx, tx, &txn); err != nil {
        return model.Booking{}, nil, err
    }

    items, err := s.Bookings.ListItemsTx(ctx, tx, bookingID)
    if err != nil {
        return model.Booking{}, nil, err
    }
    tickets := make([]model.Ticket, 0, len(items))
    for _, it := range items {
        code := utils.NewCode("TKT")
        png, err := utils.TicketQR(code)
        if err != nil {
            return model.Booking{}, nil, err
        }
        tickets = append(tickets, model.Ticket{
            Code:          code,
            BookingID:     bookingID,
            BookingItemID: it.ID,
            ShowtimeID:    b.ShowtimeID,
            SeatCode:      it.SeatCode,
            QRCode:        png,
            Status:        model.TicketStatusValid,
        })
    }
    if err := s.Tickets.CreateBulkTx(ctx, tx, tickets); err != nil {
        return model.Booking{}, nil, err
    }
    if err := tx.Commit(); err != nil {
        return model.Booking{}, nil, err
    }
    committed = true
    monitoring.BookingsConfirmed.Inc()

    b.Status = model.BookingStatusConfirmed
    b.IsPaid = true

    seatCodes := make([]string, 0, len(items))
    for _, it := range items {
        seatCodes = append(seatCodes, it.SeatCode)
    }
    if err := queue.PublishBookingConfirmed(ctx, queue.BookingConfirmedEvent{
        BookingID:   b.ID,
        BookingCode: b.Code,
        UserID:      b.UserID,
        ShowtimeID:  b.ShowtimeID,
        SeatCodes:   seatCodes,
        FinalPrice:  b.FinalPrice.StringFixed(2),
        ConfirmedAt: time.Now().UTC().Format(time.RFC3339),
    }); err != nil {
        log.Printf("booking %d: confirmed event not published: %v", b.ID, err)
    }
    return b, tickets, nil
}

// FailPayment records a failed payment attempt. The booking stays
// pending so the customer can retry until the hold deadline; the
// sweeper cleans up if they never do.
func (s *BookingService) FailPayment(ctx context.Context, userID, bookingID uint64, method string, amount decimal.Decimal) error {
    tx, err := s.DB.BeginTx(ctx, nil)
    if err != nil {
        return err
    }
    committed := false
    defer func() {
        if !committed {
            _ = tx.Rollback()
        }
    }()

    b, err := s.Bookings.GetForUpdateTx(ctx, tx, bookingID)
    if err != nil {
        return err
    }
    if b.UserID != userID {
        return repository.ErrForbidden
    }
    if b.Status != model.BookingStatusPending {
        return ErrNotPending
    }
    txn := model.Transaction{
        Code:          utils.NewCode("TXN"),
        BookingID:     bookingID,
        UserID:        userID,
        PaymentMethod: method,
        Amount:        amount,
        Status:        model.TransactionStatusFailed,
    }
    if err := s.Transactions.CreateTx(ctx, tx, &txn); err != nil {
        return err
    }
    if err := tx.Commit(); err != nil {
        return err
    }
    committed = true
    return nil
}
