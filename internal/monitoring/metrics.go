// Package monitoring exposes Prometheus counters for the booking
// lifecycle. Counters only; request latency is visible from the access
// log and anything fancier belongs in the scrape side.
package monitoring

import (
    "github.com/prometheus/client_golang/prometheus"
    "github.com/prometheus/client_golang/prometheus/promauto"
)

var (
    // BookingsCreated counts bookings that successfully claimed all
    // their seats.
    BookingsCreated = promauto.NewCounter(prometheus.CounterOpts{
        Name: "cinema_bookings_created_total",
        Help: "Bookings created with all seats claimed.",
    })

    // BookingsConfirmed counts bookings confirmed by payment.
    BookingsConfirmed = promauto.NewCounter(prometheus.CounterOpts{
        Name: "cinema_bookings_confirmed_total",
        Help: "Bookings confirmed by a successful payment.",
    })

    // BookingsExpired counts bookings released by the sweeper.
    BookingsExpired = promauto.NewCounter(prometheus.CounterOpts{
        Name: "cinema_bookings_expired_total",
        Help: "Pending bookings expired past their hold deadline.",
    })

    // BookingsCancelled counts bookings cancelled by their owner.
    BookingsCancelled = promauto.NewCounter(prometheus.CounterOpts{
        Name: "cinema_bookings_cancelled_total",
        Help: "Pending bookings cancelled by the customer.",
    })

    // SeatsReleased counts seats returned to the available pool by
    // expiry or cancellation.
    SeatsReleased = promauto.NewCounter(prometheus.CounterOpts{
        Name: "cinema_seats_released_total",
        Help: "Seats released back to available.",
    })

    // SweepRuns counts sweeper iterations, successful or not.
    SweepRuns = promauto.NewCounter(prometheus.CounterOpts{
        Name: "cinema_sweeper_runs_total",
        Help: "Expiry sweeper iterations.",
    })

    // ClaimConflicts counts booking attempts that lost a seat race.
    ClaimConflicts = promauto.NewCounter(prometheus.CounterOpts{
        Name: "cinema_seat_claim_conflicts_total",
        Help: "Booking attempts rejected because a seat was already taken.",
    })
)
