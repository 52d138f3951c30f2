package tracking

import (
	"context"
	"testing"
	"time"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRepository_GetByOrderID(t *testing.T) {
	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	defer db.Close()

	repo := NewRepository(db)
	ctx := context.Background()

	t.Run("Success", func(t *testing.T) {
		rows := sqlmock.NewRows([]string{"id", "tracking_number", "tracking_status", "tracking_events"}).
			AddRow("o1", "RMVK1A2B3C4D5E6", "pending", []byte(`[{"timestamp":"2026-08-01T12:00:00Z","location":"Springfield, IL","status":"in_transit","description":"Departed facility"}]`))

		mock.ExpectQuery(`SELECT id, tracking_number, tracking_status, tracking_events`).
			WithArgs("o1").
			WillReturnRows(rows)

		s, err := repo.GetByOrderID(ctx, "o1")
		require.NoError(t, err)
		require.NotNil(t, s.TrackingNumber)
		assert.Equal(t, "RMVK1A2B3C4D5E6", *s.TrackingNumber)
		require.Len(t, s.Events, 1)
		assert.Equal(t, "Springfield, IL", s.Events[0].Location)
	})

	t.Run("NotIssuedYet", func(t *testing.T) {
		rows := sqlmock.NewRows([]string{"id", "tracking_number", "tracking_status", "tracking_events"}).
			AddRow("o2", nil, nil, nil)

		mock.ExpectQuery(`SELECT id, tracking_number, tracking_status, tracking_events`).
			WithArgs("o2").
			WillReturnRows(rows)

		s, err := repo.GetByOrderID(ctx, "o2")
		require.NoError(t, err)
		assert.Nil(t, s.TrackingNumber)
		assert.Empty(t, s.Events)
	})

	t.Run("NotFound", func(t *testing.T) {
		mock.ExpectQuery(`SELECT id, tracking_number, tracking_status, tracking_events`).
			WithArgs("missing").
			WillReturnRows(sqlmock.NewRows([]string{"id"}))

		_, err := repo.GetByOrderID(ctx, "missing")
		assert.ErrorIs(t, err, ErrOrderNotFound)
	})

	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestRepository_UpdateStatus(t *testing.T) {
	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	defer db.Close()

	repo := NewRepository(db)
	ctx := context.Background()

	events := []Event{{
		Timestamp:   time.Date(2026, 8, 1, 12, 0, 0, 0, time.UTC),
		Location:    "Springfield, IL",
		Status:      StatusDelivered,
		Description: "Delivered, front door",
	}}

	t.Run("Success", func(t *testing.T) {
		mock.ExpectExec(`UPDATE orders`).
			WithArgs(StatusDelivered, sqlmock.AnyArg(), "o1").
			WillReturnResult(sqlmock.NewResult(0, 1))

		assert.NoError(t, repo.UpdateStatus(ctx, "o1", StatusDelivered, events))
	})

	t.Run("NotFound", func(t *testing.T) {
		mock.ExpectExec(`UPDATE orders`).
			WithArgs(StatusDelivered, sqlmock.AnyArg(), "missing").
			WillReturnResult(sqlmock.NewResult(0, 0))

		assert.ErrorIs(t, repo.UpdateStatus(ctx, "missing", StatusDelivered, events), ErrOrderNotFound)
	})

	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestRepository_SetTrackingNumber(t *testing.T) {
	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	defer db.Close()

	repo := NewRepository(db)

	mock.ExpectExec(`UPDATE orders`).
		WithArgs("RMVK1A2B3C4D5E6", StatusPending, "o1").
		WillReturnResult(sqlmock.NewResult(0, 1))

	assert.NoError(t, repo.SetTrackingNumber(context.Background(), "o1", "RMVK1A2B3C4D5E6", StatusPending))
	assert.NoError(t, mock.ExpectationsWereMet())
}
