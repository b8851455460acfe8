package events

import (
	"bytes"
	"context"
	"log/slog"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/MrJamesThe3rd/finviz/internal/transaction"
)

func TestChangeCodec(t *testing.T) {
	change := transaction.Change{
		Kind: transaction.ChangeUpdated,
		ID:   uuid.New(),
		At:   time.Date(2024, 5, 1, 12, 0, 0, 0, time.UTC),
	}

	body, err := encodeChange(change)
	require.NoError(t, err)
	assert.Contains(t, string(body), `"kind":"updated"`)

	got, err := decodeChange(body)
	require.NoError(t, err)
	assert.Equal(t, change, got)
}

func TestDecodeChange_Malformed(t *testing.T) {
	_, err := decodeChange([]byte("{"))
	assert.Error(t, err)
}

func TestLog_Publish(t *testing.T) {
	var buf bytes.Buffer

	notifier := NewLog(slog.New(slog.NewTextHandler(&buf, nil)))
	id := uuid.New()

	err := notifier.Publish(context.Background(), transaction.Change{Kind: transaction.ChangeDeleted, ID: id})
	require.NoError(t, err)
	assert.Contains(t, buf.String(), "kind=deleted")
	assert.Contains(t, buf.String(), id.String())
}
