package repository

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/mbertin/radio-tracker-api/internal/models"
)

func TestTableSnapshotRoundTripKeepsBodyText(t *testing.T) {
	table := &Table{
		Headers: []string{"rid", "title", "body_text", "read_status"},
		Records: []models.Record{
			{ID: "r1", Title: "First", BodyText: "long article text", Read: true},
			{ID: "r2", Title: "Second"},
		},
	}

	payload, err := encodeTableSnapshot(table)
	require.NoError(t, err)

	restored, err := decodeTableSnapshot(payload)
	require.NoError(t, err)

	assert.Equal(t, table.Headers, restored.Headers)
	require.Len(t, restored.Records, 2)
	// body_text is stripped from API payloads but must survive the cache.
	assert.Equal(t, "long article text", restored.Records[0].BodyText)
	assert.Equal(t, table.Records, restored.Records)
}

func TestDecodeTableSnapshotRejectsGarbage(t *testing.T) {
	_, err := decodeTableSnapshot([]byte("not json"))
	require.Error(t, err)
}
