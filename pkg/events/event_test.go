package events

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestEncodeDecode(t *testing.T) {
	at := time.Date(2025, 3, 9, 10, 0, 0, 0, time.UTC)
	evt := BaseEvent{
		Type:       TransactionRecorded,
		Data:       map[string]interface{}{"balance": "70.00", "date_logged": "2025-03-09"},
		OccurredAt: at,
	}

	raw, err := Encode(evt)
	require.NoError(t, err)

	decoded, err := Decode(raw)
	require.NoError(t, err)
	assert.Equal(t, TransactionRecorded, decoded.EventType())
	assert.Equal(t, "70.00", decoded.String("balance"))
	assert.Equal(t, "", decoded.String("missing"))
	assert.True(t, at.Equal(decoded.Timestamp()))
}

func TestDecode_RejectsUntypedOrGarbage(t *testing.T) {
	_, err := Decode([]byte(`{"data":{}}`))
	assert.Error(t, err)

	_, err = Decode([]byte(`not json`))
	assert.Error(t, err)
}
