package commands_test

import (
	"testing"
	"time"

	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"freight/internal/core/application/usecases/commands"
	"freight/internal/core/domain/model/order"
	"freight/internal/core/ports"
	"freight/internal/pkg/keylock"
)

func inTransitOrder(t *testing.T, stopCount int) *order.Order {
	t.Helper()

	ord, driverID := assignedOrder(t, stopCount)
	require.NoError(t, ord.RecordDriverProgress(driverID, order.SignalArrived, time.Now()))
	require.NoError(t, ord.RecordDriverProgress(driverID, order.SignalLoaded, time.Now()))
	return ord
}

func TestMarkStopReachedCommandHandler_Handle_IntermediateStop(t *testing.T) {
	ctx := t.Context()
	ord := inTransitOrder(t, 2)

	cmd, err := commands.NewMarkStopReachedCommand(ord.ID(), 0)
	require.NoError(t, err)

	orderRepo := new(MockOrderRepository)
	uow := new(MockOrderUoW)
	mock.InOrder(
		uow.On("Begin", ctx).Return(nil).Once(),
		uow.On("OrderRepository").Return(orderRepo).Once(),
		orderRepo.On("Get", mock.Anything, ord.ID()).Return(ord, nil).Once(),
		orderRepo.On("Update", mock.Anything, ord).Return(nil).Once(),
		uow.On("Commit", ctx).Return(nil).Once(),
		uow.On("Rollback", ctx).Return(nil).Once(),
	)

	factory := new(MockOrderUoWFactory)
	factory.On("Create").Return(uow).Once()

	publisher := new(MockEventPublisher)

	h := commands.NewMarkStopReachedCommandHandler(factory, publisher, keylock.NewKeyedMutex())
	require.NoError(t, h.Handle(ctx, cmd))

	require.Equal(t, 1, ord.CompletedStops())
	require.Equal(t, order.InTransit, ord.Status())
	publisher.AssertNotCalled(t, "Publish", mock.Anything, mock.Anything, mock.Anything, mock.Anything)
	uow.AssertExpectations(t)
}

func TestMarkStopReachedCommandHandler_Handle_FinalStopDelivers(t *testing.T) {
	ctx := t.Context()
	ord := inTransitOrder(t, 1)

	cmd, err := commands.NewMarkStopReachedCommand(ord.ID(), 0)
	require.NoError(t, err)

	orderRepo := new(MockOrderRepository)
	uow := new(MockOrderUoW)
	mock.InOrder(
		uow.On("Begin", ctx).Return(nil).Once(),
		uow.On("OrderRepository").Return(orderRepo).Once(),
		orderRepo.On("Get", mock.Anything, ord.ID()).Return(ord, nil).Once(),
		orderRepo.On("Update", mock.Anything, ord).Return(nil).Once(),
		uow.On("Commit", ctx).Return(nil).Once(),
		uow.On("Rollback", ctx).Return(nil).Once(),
	)

	factory := new(MockOrderUoWFactory)
	factory.On("Create").Return(uow).Once()

	publisher := new(MockEventPublisher)
	publisher.On("Publish", mock.Anything, ports.OrderTopic(ord.ID().String()),
		ports.EventStatusUpdate, mock.Anything).Once()

	h := commands.NewMarkStopReachedCommandHandler(factory, publisher, keylock.NewKeyedMutex())
	require.NoError(t, h.Handle(ctx, cmd))

	require.Equal(t, order.Delivered, ord.Status())
	publisher.AssertExpectations(t)
}

func TestMarkStopReachedCommandHandler_Handle_OutOfSequenceRollsBack(t *testing.T) {
	ctx := t.Context()
	ord := inTransitOrder(t, 3)

	cmd, err := commands.NewMarkStopReachedCommand(ord.ID(), 2)
	require.NoError(t, err)

	orderRepo := new(MockOrderRepository)
	uow := new(MockOrderUoW)
	mock.InOrder(
		uow.On("Begin", ctx).Return(nil).Once(),
		uow.On("OrderRepository").Return(orderRepo).Once(),
		orderRepo.On("Get", mock.Anything, ord.ID()).Return(ord, nil).Once(),
		uow.On("Rollback", ctx).Return(nil).Once(),
	)

	factory := new(MockOrderUoWFactory)
	factory.On("Create").Return(uow).Once()

	h := commands.NewMarkStopReachedCommandHandler(factory, new(MockEventPublisher), keylock.NewKeyedMutex())
	err = h.Handle(ctx, cmd)
	require.ErrorIs(t, err, order.ErrInvalidStopSequence)
	require.ErrorContains(t, err, "expected stop index 0")
	orderRepo.AssertNotCalled(t, "Update", mock.Anything, mock.Anything)
}

func TestMarkStopReachedCommandHandler_Handle_SkipRemainingDelivers(t *testing.T) {
	ctx := t.Context()
	ord := inTransitOrder(t, 3)

	cmd, err := commands.NewSkipRemainingStopsCommand(ord.ID())
	require.NoError(t, err)

	orderRepo := new(MockOrderRepository)
	uow := new(MockOrderUoW)
	mock.InOrder(
		uow.On("Begin", ctx).Return(nil).Once(),
		uow.On("OrderRepository").Return(orderRepo).Once(),
		orderRepo.On("Get", mock.Anything, ord.ID()).Return(ord, nil).Once(),
		orderRepo.On("Update", mock.Anything, ord).Return(nil).Once(),
		uow.On("Commit", ctx).Return(nil).Once(),
		uow.On("Rollback", ctx).Return(nil).Once(),
	)

	factory := new(MockOrderUoWFactory)
	factory.On("Create").Return(uow).Once()

	publisher := new(MockEventPublisher)
	publisher.On("Publish", mock.Anything, mock.Anything, ports.EventStatusUpdate, mock.Anything).Once()

	h := commands.NewMarkStopReachedCommandHandler(factory, publisher, keylock.NewKeyedMutex())
	require.NoError(t, h.Handle(ctx, cmd))

	require.Equal(t, order.Delivered, ord.Status())
	require.Equal(t, 3, ord.CompletedStops())
}
