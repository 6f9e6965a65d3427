package utils

import (
	"fmt"
	"math"
	"time"
)

// BasisPointsDenominator is the number of basis points in one whole.
const BasisPointsDenominator = 10000

// SettlementBreakdown splits an escrowed amount between the cycle owner and
// the platform. OwnerShare + PlatformShare always equals Total.
type SettlementBreakdown struct {
	Total         int64
	OwnerShare    int64
	PlatformShare int64
}

// CalculateRentalCost returns pricePerHour * hours, rejecting non-positive
// inputs and products that do not fit in an int64.
func CalculateRentalCost(pricePerHour, hours int64) (int64, error) {
	if pricePerHour <= 0 {
		return 0, fmt.Errorf("price per hour must be positive")
	}
	if hours <= 0 {
		return 0, fmt.Errorf("hours must be positive")
	}
	if pricePerHour > math.MaxInt64/hours {
		return 0, fmt.Errorf("rental cost overflows: %d * %d", pricePerHour, hours)
	}
	return pricePerHour * hours, nil
}

// SplitSettlement computes the platform fee by flooring total*feeBps/10000
// and gives the owner everything else, so no unit is lost or created.
func SplitSettlement(total int64, feeBps int64) (SettlementBreakdown, error) {
	if total < 0 {
		return SettlementBreakdown{}, fmt.Errorf("total must not be negative")
	}
	if feeBps < 0 || feeBps > BasisPointsDenominator {
		return SettlementBreakdown{}, fmt.Errorf("fee basis points must be between 0 and %d", BasisPointsDenominator)
	}

	// total/10000*fee + (total%10000)*fee/10000 avoids the intermediate overflow
	// of total*fee for large totals.
	platform := (total/BasisPointsDenominator)*feeBps + (total%BasisPointsDenominator)*feeBps/BasisPointsDenominator

	return SettlementBreakdown{
		Total:         total,
		OwnerShare:    total - platform,
		PlatformShare: platform,
	}, nil
}

// RentalEndTime returns start + hours.
func RentalEndTime(start time.Time, hours int64) time.Time {
	return start.Add(time.Duration(hours) * time.Hour)
}
