package utils

import (
    "fmt"
    "strings"

    "github.com/google/uuid"      // random identifiers for public codes
    qrcode "github.com/skip2/go-qrcode" // QR code rendering for tickets
)

// NewCode returns a public reference code with the given prefix, e.g.
// "BKG-1B9D6BCD". Codes are shown to customers and printed on tickets,
// so they are short, uppercase, and carry no meaning beyond uniqueness.
// The underlying UUID keeps collisions negligible; the unique database
// column is the actual guarantee.
func NewCode(prefix string) string {
    id := uuid.New()
    return fmt.Sprintf("%s-%s", prefix, strings.ToUpper(hexPart(id)))
}

func hexPart(id uuid.UUID) string {
    s := strings.ReplaceAll(id.String(), "-", "")
    return s[:12]
}

// TicketQR renders the PNG bytes of a QR code that encodes a ticket
// code. The gate scanner decodes the code and calls the ticket-use
// endpoint with it.
func TicketQR(code string) ([]byte, error) {
    return qrcode.Encode(code, qrcode.Medium, 256)
}
