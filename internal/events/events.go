// Package events delivers transaction list invalidations to interested readers.
package events

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"

	"github.com/MrJamesThe3rd/finviz/internal/transaction"
)

// Log records changes through slog. It is the notifier used when no broker is configured.
type Log struct {
	logger *slog.Logger
}

func NewLog(logger *slog.Logger) *Log {
	return &Log{logger: logger}
}

func (l *Log) Publish(ctx context.Context, change transaction.Change) error {
	l.logger.InfoContext(ctx, "transactions changed", "kind", change.Kind, "id", change.ID)
	return nil
}

func encodeChange(change transaction.Change) ([]byte, error) {
	body, err := json.Marshal(change)
	if err != nil {
		return nil, fmt.Errorf("marshal change: %w", err)
	}

	return body, nil
}

func decodeChange(body []byte) (transaction.Change, error) {
	var change transaction.Change
	if err := json.Unmarshal(body, &change); err != nil {
		return transaction.Change{}, fmt.Errorf("unmarshal change: %w", err)
	}

	return change, nil
}
