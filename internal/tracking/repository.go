package tracking

import (
	"context"
	"database/sql"
	"encoding/json"
	"fmt"
)

// Shipment is the tracking slice of an order row.
type Shipment struct {
	OrderID        string
	TrackingNumber *string
	Status         *string
	Events         []Event
}

type Repository interface {
	GetByOrderID(ctx context.Context, orderID string) (*Shipment, error)
	SetTrackingNumber(ctx context.Context, orderID, trackingNumber, status string) error

	// UpdateStatus overwrites the carrier snapshot. A delivered status also
	// flips the order's delivered flag if it is not set yet.
	UpdateStatus(ctx context.Context, orderID, status string, events []Event) error
}

type repository struct {
	db *sql.DB
}

func NewRepository(db *sql.DB) Repository {
	return &repository{db: db}
}

func (r *repository) GetByOrderID(ctx context.Context, orderID string) (*Shipment, error) {
	var s Shipment
	var eventsJSON []byte

	err := r.db.QueryRowContext(ctx, `
		SELECT id, tracking_number, tracking_status, tracking_events
		FROM orders
		WHERE id = $1
	`, orderID).Scan(&s.OrderID, &s.TrackingNumber, &s.Status, &eventsJSON)

	if err == sql.ErrNoRows {
		return nil, ErrOrderNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get shipment: %w", err)
	}

	if len(eventsJSON) > 0 {
		if err := json.Unmarshal(eventsJSON, &s.Events); err != nil {
			return nil, fmt.Errorf("failed to decode tracking events: %w", err)
		}
	}

	return &s, nil
}

func (r *repository) SetTrackingNumber(ctx context.Context, orderID, trackingNumber, status string) error {
	res, err := r.db.ExecContext(ctx, `
		UPDATE orders
		SET tracking_number = $1,
		    tracking_status = $2,
		    tracking_events = '[]',
		    last_tracking_update = NOW()
		WHERE id = $3
	`, trackingNumber, status, orderID)
	if err != nil {
		return err
	}

	affected, _ := res.RowsAffected()
	if affected == 0 {
		return ErrOrderNotFound
	}
	return nil
}

func (r *repository) UpdateStatus(ctx context.Context, orderID, status string, events []Event) error {
	eventsJSON, err := json.Marshal(events)
	if err != nil {
		return fmt.Errorf("failed to encode tracking events: %w", err)
	}

	res, err := r.db.ExecContext(ctx, `
		UPDATE orders
		SET tracking_status = $1,
		    tracking_events = $2,
		    last_tracking_update = NOW(),
		    is_delivered = CASE WHEN $1 = 'delivered' THEN TRUE ELSE is_delivered END,
		    delivered_at = CASE WHEN $1 = 'delivered' AND delivered_at IS NULL THEN NOW() ELSE delivered_at END
		WHERE id = $3
	`, status, eventsJSON, orderID)
	if err != nil {
		return err
	}

	affected, _ := res.RowsAffected()
	if affected == 0 {
		return ErrOrderNotFound
	}
	return nil
}
