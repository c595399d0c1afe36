package envelope

import (
	"bytes"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func testKey() []byte {
	return bytes.Repeat([]byte{7}, 32)
}

func TestSealOpenJSON(t *testing.T) {
	sealer, err := New(testKey())
	require.NoError(t, err)

	type payload struct {
		OrderID   string `json:"orderId"`
		PaymentID string `json:"paymentId"`
	}
	token, err := sealer.SealJSON(payload{OrderID: "o-1", PaymentID: "pay_1"})
	require.NoError(t, err)
	assert.NotContains(t, token, "pay_1")

	var out payload
	require.NoError(t, sealer.OpenJSON(token, &out))
	assert.Equal(t, "o-1", out.OrderID)
	assert.Equal(t, "pay_1", out.PaymentID)
}

func TestSealUsesFreshNonce(t *testing.T) {
	sealer, err := New(testKey())
	require.NoError(t, err)

	first, err := sealer.Seal([]byte("same"))
	require.NoError(t, err)
	second, err := sealer.Seal([]byte("same"))
	require.NoError(t, err)
	assert.NotEqual(t, first, second)
}

func TestOpenRejectsTamperedAndForeignPayloads(t *testing.T) {
	sealer, err := New(testKey())
	require.NoError(t, err)
	token, err := sealer.Seal([]byte(`{"id":1}`))
	require.NoError(t, err)

	tampered := []byte(token)
	last := len(tampered) - 2
	if tampered[last] == 'A' {
		tampered[last] = 'B'
	} else {
		tampered[last] = 'A'
	}
	_, err = sealer.Open(string(tampered))
	assert.ErrorIs(t, err, ErrMalformed)

	other, err := New(bytes.Repeat([]byte{9}, 32))
	require.NoError(t, err)
	_, err = other.Open(token)
	assert.ErrorIs(t, err, ErrMalformed)

	_, err = sealer.Open("   ")
	assert.ErrorIs(t, err, ErrEmpty)

	_, err = sealer.Open("c2hvcnQ")
	assert.ErrorIs(t, err, ErrMalformed)
}

func TestNewRejectsShortKey(t *testing.T) {
	_, err := New([]byte("short"))
	assert.Error(t, err)
}
