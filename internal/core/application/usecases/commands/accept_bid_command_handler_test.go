package commands_test

import (
	"testing"

	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"freight/internal/core/application/usecases/commands"
	"freight/internal/core/domain/model/bidding"
	"freight/internal/core/ports"
	"freight/internal/pkg/keylock"
)

func TestAcceptBidCommandHandler_Handle_Success(t *testing.T) {
	ctx := t.Context()
	ord := pendingOrder(t, 1)
	ledger := openLedger(t, ord.ID())
	winner := ledgerBid(t, ledger, 950)
	loser := ledgerBid(t, ledger, 900)

	cmd, err := commands.NewAcceptBidCommand(ord.ID(), winner.ID())
	require.NoError(t, err)

	orderRepo := new(MockOrderRepository)
	biddingRepo := new(MockBiddingRepository)
	uow := new(MockBidUoW)
	mock.InOrder(
		uow.On("Begin", ctx).Return(nil).Once(),
		uow.On("OrderRepository").Return(orderRepo).Once(),
		orderRepo.On("Get", mock.Anything, ord.ID()).Return(ord, nil).Once(),
		uow.On("BiddingRepository").Return(biddingRepo).Once(),
		biddingRepo.On("GetByOrderID", mock.Anything, ord.ID()).Return(ledger, nil).Once(),
		biddingRepo.On("Update", mock.Anything, ledger).Return(nil).Once(),
		uow.On("OrderRepository").Return(orderRepo).Once(),
		orderRepo.On("Update", mock.Anything, ord).Return(nil).Once(),
		uow.On("Commit", ctx).Return(nil).Once(),
		uow.On("Rollback", ctx).Return(nil).Once(),
	)

	factory := new(MockBidUoWFactory)
	factory.On("Create").Return(uow).Once()

	publisher := new(MockEventPublisher)
	publisher.On("Publish", mock.Anything, ports.OrderTopic(ord.ID().String()),
		ports.EventBidAccepted, mock.Anything).Once()

	h := commands.NewAcceptBidCommandHandler(factory, publisher, keylock.NewKeyedMutex())
	require.NoError(t, h.Handle(ctx, cmd))

	require.True(t, ledger.IsClosed())
	require.Equal(t, bidding.BidStatusAccepted, winner.Status())
	require.Equal(t, bidding.BidStatusRejected, loser.Status())
	require.False(t, ord.IsBiddingOpen())
	require.True(t, ord.TransporterID().IsEqual(winner.TransporterID()))
	uow.AssertExpectations(t)
	publisher.AssertExpectations(t)
}

func TestAcceptBidCommandHandler_Handle_ClosedLedgerConflicts(t *testing.T) {
	ctx := t.Context()
	ord := pendingOrder(t, 1)
	ledger := openLedger(t, ord.ID())
	bid := ledgerBid(t, ledger, 950)
	_, err := ledger.AcceptBid(bid.ID())
	require.NoError(t, err)

	cmd, err := commands.NewAcceptBidCommand(ord.ID(), bid.ID())
	require.NoError(t, err)

	orderRepo := new(MockOrderRepository)
	biddingRepo := new(MockBiddingRepository)
	uow := new(MockBidUoW)
	mock.InOrder(
		uow.On("Begin", ctx).Return(nil).Once(),
		uow.On("OrderRepository").Return(orderRepo).Once(),
		orderRepo.On("Get", mock.Anything, ord.ID()).Return(ord, nil).Once(),
		uow.On("BiddingRepository").Return(biddingRepo).Once(),
		biddingRepo.On("GetByOrderID", mock.Anything, ord.ID()).Return(ledger, nil).Once(),
		uow.On("Rollback", ctx).Return(nil).Once(),
	)

	factory := new(MockBidUoWFactory)
	factory.On("Create").Return(uow).Once()

	h := commands.NewAcceptBidCommandHandler(factory, new(MockEventPublisher), keylock.NewKeyedMutex())
	err = h.Handle(ctx, cmd)
	require.ErrorIs(t, err, bidding.ErrBiddingClosed)
	uow.AssertExpectations(t)
}
