package nats

import (
	"encoding/json"
	"testing"
	"time"

	"pdf-extractor/pkg/events"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSubject(t *testing.T) {
	assert.Equal(t, "extractions.EXTRACTION_FAILED", Subject(events.TypeExtractionFailed))
}

func TestDecodeEvent(t *testing.T) {
	at := time.Date(2026, 1, 2, 3, 4, 5, 0, time.UTC)
	data, err := json.Marshal(envelope{
		Type:       events.TypeExtractionSucceeded,
		OccurredAt: at,
		Data:       map[string]interface{}{"session_id": "s1"},
	})
	require.NoError(t, err)

	event, err := decodeEvent(data)
	require.NoError(t, err)
	assert.Equal(t, events.TypeExtractionSucceeded, event.EventType())
	assert.True(t, at.Equal(event.Timestamp()))
	assert.Equal(t, "s1", event.Payload()["session_id"])

	_, err = decodeEvent([]byte(`{"data":{}}`))
	assert.Error(t, err)

	_, err = decodeEvent([]byte(`nope`))
	assert.Error(t, err)
}
