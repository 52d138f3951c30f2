package tracking

import (
	"context"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

type MockRepository struct {
	mock.Mock
}

func (m *MockRepository) GetByOrderID(ctx context.Context, orderID string) (*Shipment, error) {
	args := m.Called(ctx, orderID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*Shipment), args.Error(1)
}

func (m *MockRepository) SetTrackingNumber(ctx context.Context, orderID, trackingNumber, status string) error {
	args := m.Called(ctx, orderID, trackingNumber, status)
	return args.Error(0)
}

func (m *MockRepository) UpdateStatus(ctx context.Context, orderID, status string, events []Event) error {
	args := m.Called(ctx, orderID, status, events)
	return args.Error(0)
}

type MockCarrier struct {
	mock.Mock
}

func (m *MockCarrier) Track(ctx context.Context, trackingNumber string) (*Info, error) {
	args := m.Called(ctx, trackingNumber)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*Info), args.Error(1)
}

func TestService_Issue(t *testing.T) {
	ctx := context.Background()

	t.Run("AssignsNumberWithPendingStatus", func(t *testing.T) {
		repo := new(MockRepository)
		svc := NewService(repo, new(MockCarrier))

		repo.On("GetByOrderID", ctx, "o1").Return(&Shipment{OrderID: "o1"}, nil)
		repo.On("SetTrackingNumber", ctx, "o1", mock.MatchedBy(func(tn string) bool {
			return strings.HasPrefix(tn, "RMVK") && len(tn) == 15
		}), StatusPending).Return(nil)

		tn, err := svc.Issue(ctx, "o1")
		require.NoError(t, err)
		assert.True(t, strings.HasPrefix(tn, "RMVK"))
		repo.AssertExpectations(t)
	})

	t.Run("IdempotentOnSecondIssue", func(t *testing.T) {
		repo := new(MockRepository)
		svc := NewService(repo, new(MockCarrier))

		existing := "RMVK1A2B3C4D5E6"
		repo.On("GetByOrderID", ctx, "o1").Return(&Shipment{OrderID: "o1", TrackingNumber: &existing}, nil)

		tn, err := svc.Issue(ctx, "o1")
		require.NoError(t, err)
		assert.Equal(t, existing, tn)
		repo.AssertNotCalled(t, "SetTrackingNumber", mock.Anything, mock.Anything, mock.Anything, mock.Anything)
	})

	t.Run("OrderMissing", func(t *testing.T) {
		repo := new(MockRepository)
		svc := NewService(repo, new(MockCarrier))

		repo.On("GetByOrderID", ctx, "missing").Return(nil, ErrOrderNotFound)

		_, err := svc.Issue(ctx, "missing")
		assert.ErrorIs(t, err, ErrOrderNotFound)
	})
}

func TestService_Refresh(t *testing.T) {
	ctx := context.Background()
	trackingNumber := "RMVK1A2B3C4D5E6"

	t.Run("OverwritesSnapshot", func(t *testing.T) {
		repo := new(MockRepository)
		carrier := new(MockCarrier)
		svc := NewService(repo, carrier)

		pending := StatusPending
		repo.On("GetByOrderID", ctx, "o1").Return(&Shipment{
			OrderID: "o1", TrackingNumber: &trackingNumber, Status: &pending,
		}, nil)

		events := []Event{{
			Timestamp:   time.Now(),
			Location:    "Springfield, IL",
			Status:      "in_transit",
			Description: "Departed facility",
		}}
		carrier.On("Track", ctx, trackingNumber).Return(&Info{
			TrackingNumber: trackingNumber,
			Status:         "in_transit",
			Events:         events,
		}, nil)
		repo.On("UpdateStatus", ctx, "o1", "in_transit", events).Return(nil)

		info, err := svc.Refresh(ctx, "o1")
		require.NoError(t, err)
		assert.Equal(t, "in_transit", info.Status)
		repo.AssertExpectations(t)
	})

	t.Run("DeliveredStatusPropagates", func(t *testing.T) {
		repo := new(MockRepository)
		carrier := new(MockCarrier)
		svc := NewService(repo, carrier)

		repo.On("GetByOrderID", ctx, "o1").Return(&Shipment{
			OrderID: "o1", TrackingNumber: &trackingNumber,
		}, nil)
		carrier.On("Track", ctx, trackingNumber).Return(&Info{
			TrackingNumber: trackingNumber,
			Status:         StatusDelivered,
		}, nil)
		repo.On("UpdateStatus", ctx, "o1", StatusDelivered, []Event(nil)).Return(nil)

		info, err := svc.Refresh(ctx, "o1")
		require.NoError(t, err)
		assert.Equal(t, StatusDelivered, info.Status)
	})

	t.Run("NoTrackingNumber", func(t *testing.T) {
		repo := new(MockRepository)
		svc := NewService(repo, new(MockCarrier))

		repo.On("GetByOrderID", ctx, "o1").Return(&Shipment{OrderID: "o1"}, nil)

		_, err := svc.Refresh(ctx, "o1")
		assert.ErrorIs(t, err, ErrNotTracked)
	})

	t.Run("CarrierFailureLeavesSnapshotUntouched", func(t *testing.T) {
		repo := new(MockRepository)
		carrier := new(MockCarrier)
		svc := NewService(repo, carrier)

		repo.On("GetByOrderID", ctx, "o1").Return(&Shipment{
			OrderID: "o1", TrackingNumber: &trackingNumber,
		}, nil)
		carrier.On("Track", ctx, trackingNumber).Return(nil, ErrCarrier)

		_, err := svc.Refresh(ctx, "o1")
		assert.ErrorIs(t, err, ErrCarrier)
		repo.AssertNotCalled(t, "UpdateStatus", mock.Anything, mock.Anything, mock.Anything, mock.Anything)
	})
}
