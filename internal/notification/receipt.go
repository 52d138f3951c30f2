// Package notification delivers purchase receipts. The default sender writes
// the receipt to the structured log; a real mail provider can be swapped in
// behind the same interface.
package notification

import (
	"context"

	"go.uber.org/zap"

	"storefront-be/internal/config"
	"storefront-be/internal/logger"
	"storefront-be/internal/order"
)

type LogSender struct {
	from string
}

func NewLogSender(cfg *config.Config) *LogSender {
	return &LogSender{from: cfg.ReceiptFrom}
}

func (s *LogSender) SendReceipt(ctx context.Context, o *order.Order) error {
	log := logger.FromCtx(ctx).With(
		zap.String("layer", "notification"),
		zap.String("order_id", o.ID),
	)

	log.Info("purchase receipt sent",
		zap.String("from", s.from),
		zap.String("to", o.UserEmail),
		zap.String("user_name", o.UserName),
		zap.String("total_price", o.TotalPrice.StringFixed(2)),
		zap.Int("item_count", len(o.Items)),
	)
	return nil
}
