package utils

import (
    "strings"
    "testing"

    "github.com/stretchr/testify/assert"
    "github.com/stretchr/testify/require"
)

func TestNewCode(t *testing.T) {
    seen := map[string]bool{}
    for i := 0; i < 100; i++ {
        code := NewCode("BKG")
        assert.True(t, strings.HasPrefix(code, "BKG-"))
        assert.Len(t, code, 4+12)
        assert.Equal(t, code, strings.ToUpper(code))
        assert.False(t, seen[code], "duplicate code %s", code)
        seen[code] = true
    }
}

func TestTicketQR(t *testing.T) {
    png, err := TicketQR("TKT-1B9D6BCD13F2")
    require.NoError(t, err)
    require.NotEmpty(t, png)
    // PNG magic bytes.
    assert.Equal(t, []byte{0x89, 'P', 'N', 'G'}, png[:4])
}
