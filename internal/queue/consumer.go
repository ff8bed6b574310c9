package queue

import (
    "encoding/json"
    "errors"
    "fmt"
    "log"
    "os"
    "path/filepath"
    "strings"
    "time"

    amqp "github.com/rabbitmq/amqp091-go"
)

// StartBookingConsumer connects to RabbitMQ, declares the booking.confirmed
// and booking.expired queues (durable), and starts consuming messages. Each
// message is appended to logs/booking.log in a single-line, human-friendly
// format; this is the notification boundary where a mailer or push service
// would hook in. The function runs a reconnect loop: it keeps running and
// logs any processing errors while rejecting the offending message so the
// server continues operating.
func StartBookingConsumer() error {
    url := brokerURL()

    backoff := time.Second
    for {
        conn, err := amqp.Dial(url)
        if err != nil {
            log.Printf("booking-consumer: failed to dial broker: %v; retrying in %s", err, backoff)
            time.Sleep(backoff)
            if backoff < 30*time.Second {
                backoff *= 2
            }
            continue
        }
        backoff = time.Second // reset after successful connect

        if err := consumeLoop(conn); err != nil {
            log.Printf("booking-consumer: consume loop ended: %v; reconnecting", err)
            time.Sleep(2 * time.Second)
            continue
        }
    }
}

func consumeLoop(conn *amqp.Connection) error {
    ch, err := conn.Channel()
    if err != nil {
        return fmt.Errorf("channel open: %w", err)
    }
    defer func() { _ = ch.Close() }()

    if err := ch.Qos(50, 0, false); err != nil {
        log.Printf("booking-consumer: set QoS failed: %v", err)
    }

    for _, name := range []string{ConfirmedQueueName, ExpiredQueueName} {
        if _, err := ch.QueueDeclare(name, true, false, false, false, nil); err != nil {
            return fmt.Errorf("queue declare %s: %w", name, err)
        }
    }

    confirmed, err := ch.Consume(ConfirmedQueueName, "", false, false, false, false, nil)
    if err != nil {
        return fmt.Errorf("queue consume %s: %w", ConfirmedQueueName, err)
    }
    expired, err := ch.Consume(ExpiredQueueName, "", false, false, false, false, nil)
    if err != nil {
        return fmt.Errorf("queue consume %s: %w", ExpiredQueueName, err)
    }

    for {
        var d amqp.Delivery
        var ok bool
        var handle func([]byte) error
        select {
        case d, ok = <-confirmed:
            handle = handleConfirmed
        case d, ok = <-expired:
            handle = handleExpired
        }
        if !ok {
            return errors.New("deliveries channel closed")
        }
        if err := handle(d.Body); err != nil {
            log.Printf("booking-consumer: handle message failed: %v", err)
            _ = d.Nack(false, false) // reject, do not requeue to avoid tight loops
            continue
        }
        _ = d.Ack(false)
    }
}

func appendBookingLog(line string) error {
    if err := os.MkdirAll("logs", 0o755); err != nil {
        return fmt.Errorf("mkdir logs: %w", err)
    }
    fpath := filepath.Join("logs", "booking.log")
    f, err := os.OpenFile(fpath, os.O_CREATE|os.O_APPEND|os.O_WRONLY, 0o644)
    if err != nil {
        return fmt.Errorf("open log file: %w", err)
    }
    defer f.Close()
    if _, err := f.WriteString(line); err != nil {
        return fmt.Errorf("write log: %w", err)
    }
    return nil
}

func handleConfirmed(body []byte) error {
    var ev BookingConfirmedEvent
    if err := json.Unmarshal(body, &ev); err != nil {
        return fmt.Errorf("unmarshal: %w", err)
    }
    seats := "[]"
    if len(ev.SeatCodes) > 0 {
        seats = fmt.Sprintf("[%s]", strings.Join(ev.SeatCodes, ","))
    }
    line := fmt.Sprintf("[%s] Booking confirmed | booking_id=%d | code=%s | user_id=%d | showtime_id=%d | total=%s | seats=%s\n",
        ev.ConfirmedAt, ev.BookingID, ev.BookingCode, ev.UserID, ev.ShowtimeID, ev.FinalPrice, seats)
    return appendBookingLog(line)
}

func handleExpired(body []byte) error {
    var ev BookingExpiredEvent
    if err := json.Unmarshal(body, &ev); err != nil {
        return fmt.Errorf("unmarshal: %w", err)
    }
    line := fmt.Sprintf("[%s] Booking expired | booking_id=%d | code=%s | user_id=%d | showtime_id=%d | released_seats=%d\n",
        ev.ExpiredAt, ev.BookingID, ev.BookingCode, ev.UserID, ev.ShowtimeID, ev.ReleasedSeats)
    return appendBookingLog(line)
}
