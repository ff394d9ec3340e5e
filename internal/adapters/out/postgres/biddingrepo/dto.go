// Package biddingrepo provides data transfer objects and mapping functions
// for bidding ledger persistence. A ledger row owns its bid rows one-to-many,
// keyed by the order the auction belongs to.
package biddingrepo

import (
	"time"

	"freight/internal/core/domain/model/bidding"
	"freight/internal/core/domain/model/kernel"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// BiddingDTO represents the database structure for persisting bidding
// ledgers. The order ID is the primary key: one auction per order.
type BiddingDTO struct {
	OrderID   uuid.UUID       `gorm:"type:uuid;primaryKey"`
	FairPrice decimal.Decimal `gorm:"type:numeric(14,2);not null"`
	IsClosed  bool            `gorm:"not null"`
	Bids      []BidDTO        `gorm:"foreignKey:OrderID;constraint:OnDelete:CASCADE"`
}

// TableName specifies the database table name for bidding ledger entities.
func (BiddingDTO) TableName() string {
	return "biddings"
}

// BidDTO represents one transporter bid within a ledger.
type BidDTO struct {
	ID            uuid.UUID       `gorm:"type:uuid;primaryKey"`
	OrderID       uuid.UUID       `gorm:"type:uuid;not null;index"`
	TransporterID uuid.UUID       `gorm:"type:uuid;not null;index"`
	TruckID       uuid.UUID       `gorm:"type:uuid;not null"`
	Amount        decimal.Decimal `gorm:"type:numeric(14,2);not null"`
	Status        int             `gorm:"type:int;not null"`
	CreatedAt     time.Time       `gorm:"not null"`
}

// TableName specifies the database table name for bid entities.
func (BidDTO) TableName() string {
	return "bids"
}

// fromDomain converts a bidding ledger to its database representation.
func fromDomain(ledger *bidding.Bidding) BiddingDTO {
	orderID := ledger.OrderID().Bytes()
	bids := make([]BidDTO, 0, len(ledger.Bids()))

	for _, bid := range ledger.Bids() {
		bids = append(bids, BidDTO{
			ID:            bid.ID().Bytes(),
			OrderID:       orderID,
			TransporterID: bid.TransporterID().Bytes(),
			TruckID:       bid.TruckID().Bytes(),
			Amount:        bid.Amount(),
			Status:        int(bid.Status()),
			CreatedAt:     bid.CreatedAt(),
		})
	}

	return BiddingDTO{
		OrderID:   orderID,
		FairPrice: ledger.FairPrice(),
		IsClosed:  ledger.IsClosed(),
		Bids:      bids,
	}
}

// toDomain converts a database DTO to a bidding ledger aggregate.
// The DTO must have its Bids association loaded in placement order.
func toDomain(dto BiddingDTO) (*bidding.Bidding, error) {
	orderID, err := kernel.UUIDFromBytes(dto.OrderID[:])
	if err != nil {
		return nil, err
	}

	bids := make([]*bidding.Bid, 0, len(dto.Bids))
	for _, bidDTO := range dto.Bids {
		bid, bidErr := bidToDomain(bidDTO)
		if bidErr != nil {
			return nil, bidErr
		}
		bids = append(bids, bid)
	}

	return bidding.RestoreBidding(orderID, dto.FairPrice, bids, dto.IsClosed)
}

func bidToDomain(dto BidDTO) (*bidding.Bid, error) {
	id, err := kernel.UUIDFromBytes(dto.ID[:])
	if err != nil {
		return nil, err
	}
	transporterID, err := kernel.UUIDFromBytes(dto.TransporterID[:])
	if err != nil {
		return nil, err
	}
	truckID, err := kernel.UUIDFromBytes(dto.TruckID[:])
	if err != nil {
		return nil, err
	}

	return bidding.RestoreBid(id, transporterID, truckID, dto.Amount,
		bidding.BidStatus(dto.Status), dto.CreatedAt)
}
