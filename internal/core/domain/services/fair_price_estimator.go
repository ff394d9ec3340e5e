package services

import (
	"strings"

	"github.com/shopspring/decimal"

	"freight/internal/core/domain/model/order"
	"freight/internal/pkg/errs"
)

// Estimation distance bounds in kilometers. Shipments outside this range
// are not priceable by the rate table.
const (
	MinEstimableDistanceKm = 10
	MaxEstimableDistanceKm = 3000
)

var (
	baseRatePerKm = decimal.NewFromInt(35)
	lowBandRatio  = decimal.NewFromFloat(0.90)
	highBandRatio = decimal.NewFromFloat(1.10)

	sizeFactors = map[string]decimal.Decimal{
		"lcv": decimal.NewFromFloat(0.80),
		"mcv": decimal.NewFromFloat(1.00),
		"hcv": decimal.NewFromFloat(1.30),
	}

	bodyFactors = map[string]decimal.Decimal{
		"open":      decimal.NewFromFloat(1.00),
		"container": decimal.NewFromFloat(1.10),
		"tipper":    decimal.NewFromFloat(1.15),
		"tanker":    decimal.NewFromFloat(1.25),
		"trailer":   decimal.NewFromFloat(1.35),
	}
)

// PriceEstimate is the platform's fair price for a shipment together with
// the inputs that produced it and the expected negotiation band of 10% on
// either side. Bids in a ledger anchored to this estimate may go down to
// 80% of FairPrice.
type PriceEstimate struct {
	BaseRatePerKm decimal.Decimal
	SizeFactor    decimal.Decimal
	BodyFactor    decimal.Decimal
	FairPrice     decimal.Decimal
	MarketLow     decimal.Decimal
	MarketHigh    decimal.Decimal
}

// FairPriceEstimator is a domain service computing the reference price a
// shipment should cost. The estimate is deterministic: the same load and
// distance always produce the same price, so bid floors stay stable across
// retries and restarts.
//
// Pricing model:
//
//	price = baseRatePerKm * distanceKm * sizeFactor(load) * bodyFactor(load)
//
// Unrecognized size categories and body types get a neutral factor of 1.0
// rather than an error; the catalog of vehicle types grows faster than the
// rate table.
type FairPriceEstimator struct{}

// NewFairPriceEstimator creates a new FairPriceEstimator instance.
func NewFairPriceEstimator() FairPriceEstimator {
	return FairPriceEstimator{}
}

// Estimate computes the fair price for carrying load over distanceKm.
//
// Returns a value-out-of-range error when distanceKm falls outside
// [MinEstimableDistanceKm, MaxEstimableDistanceKm].
func (e FairPriceEstimator) Estimate(load order.Load, distanceKm float64) (PriceEstimate, error) {
	if err := load.Validate(); err != nil {
		return PriceEstimate{}, err
	}
	if distanceKm < MinEstimableDistanceKm || distanceKm > MaxEstimableDistanceKm {
		return PriceEstimate{}, errs.NewValueIsOutOfRangeError(
			"distanceKm", distanceKm, MinEstimableDistanceKm, MaxEstimableDistanceKm)
	}

	sizeFactor := factorFor(sizeFactors, load.SizeCategory())
	bodyFactor := factorFor(bodyFactors, load.BodyType())

	// whole currency units, as are the band bounds below
	price := baseRatePerKm.
		Mul(decimal.NewFromFloat(distanceKm)).
		Mul(sizeFactor).
		Mul(bodyFactor).
		Round(0)

	return PriceEstimate{
		BaseRatePerKm: baseRatePerKm,
		SizeFactor:    sizeFactor,
		BodyFactor:    bodyFactor,
		FairPrice:     price,
		MarketLow:     price.Mul(lowBandRatio).Round(0),
		MarketHigh:    price.Mul(highBandRatio).Round(0),
	}, nil
}

func factorFor(factors map[string]decimal.Decimal, key string) decimal.Decimal {
	if factor, ok := factors[strings.ToLower(key)]; ok {
		return factor
	}
	return decimal.NewFromInt(1)
}
