package prices

import (
	"sort"
	"time"

	"github.com/shopspring/decimal"
)

// PricePoint describes a single hourly spot price period in snt/kWh.
type PricePoint struct {
	Price     decimal.Decimal `json:"price"`
	StartDate time.Time       `json:"startDate"`
	EndDate   time.Time       `json:"endDate"`
}

// PriceSheet is the API payload: hourly price periods ordered newest first.
type PriceSheet struct {
	Prices []PricePoint `json:"prices"`
}

// Ascending returns the price periods sorted by ascending start time without mutating the sheet.
func (sheet PriceSheet) Ascending() []PricePoint {
	orderedPrices := make([]PricePoint, len(sheet.Prices))
	copy(orderedPrices, sheet.Prices)
	sort.Slice(orderedPrices, func(firstIndex int, secondIndex int) bool {
		return orderedPrices[firstIndex].StartDate.Before(orderedPrices[secondIndex].StartDate)
	})
	return orderedPrices
}

// NewestStart reports the start time of the most recent price period when one exists.
func (sheet PriceSheet) NewestStart() (time.Time, bool) {
	if len(sheet.Prices) == 0 {
		return time.Time{}, false
	}

	newestStart := sheet.Prices[0].StartDate
	for _, pricePoint := range sheet.Prices[1:] {
		if pricePoint.StartDate.After(newestStart) {
			newestStart = pricePoint.StartDate
		}
	}
	return newestStart, true
}
