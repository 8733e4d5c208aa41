package delivery

import (
	"fmt"

	"go.uber.org/zap"

	"github.com/mamadbah2/collection-desk/internal/domain/models"
)

// RateKey identifies one row of the rate table. Key is a variety for perilla leaf
// and a box weight for everything else.
type RateKey struct {
	ProductType models.ProductType
	Key         string
}

// RateTable maps a bucket to its per-unit shipping rate in won.
type RateTable map[RateKey]int

// DefaultRateTable returns the cooperative's current shipping rates.
func DefaultRateTable() RateTable {
	return RateTable{
		{models.ProductApple, models.BoxWeight10kg}:                1000,
		{models.ProductApple, models.BoxWeight5kg}:                 600,
		{models.ProductPersimmon, models.BoxWeight10kg}:            1100,
		{models.ProductPersimmon, models.BoxWeight5kg}:             700,
		{models.ProductPerillaLeaf, string(models.VarietyPremium)}: 600,
		{models.ProductPerillaLeaf, string(models.VarietyLoose)}:   1000,
	}
}

// Lookup returns the rate for key and whether it exists.
func (t RateTable) Lookup(key RateKey) (int, bool) {
	rate, ok := t[key]
	return rate, ok
}

// FeeCalculator turns a group's records into shipping fee lines.
type FeeCalculator struct {
	rates  RateTable
	logger *zap.Logger
}

// NewFeeCalculator builds a calculator over rates, falling back to DefaultRateTable when nil.
func NewFeeCalculator(rates RateTable, logger *zap.Logger) *FeeCalculator {
	if rates == nil {
		rates = DefaultRateTable()
	}
	if logger == nil {
		logger = zap.NewNop()
	}
	return &FeeCalculator{rates: rates, logger: logger}
}

// BucketKey derives the rate key of a record.
func BucketKey(r models.CollectionRecord) RateKey {
	if r.ProductType == models.ProductPerillaLeaf {
		variety := string(r.VarietyValue())
		if variety == "" {
			variety = string(models.VarietyPremium)
		}
		return RateKey{ProductType: r.ProductType, Key: variety}
	}

	weight := r.BoxWeightValue()
	if weight == "" {
		weight = models.BoxWeight10kg
	}
	return RateKey{ProductType: r.ProductType, Key: weight}
}

// Calculate accumulates quantities per bucket, in first-appearance order, and prices
// each bucket. Buckets missing from the table are priced at zero and flagged.
func (c *FeeCalculator) Calculate(records []models.CollectionRecord) models.FeeSummary {
	index := make(map[RateKey]int)
	lines := make([]models.ShippingCalculation, 0)

	for _, r := range records {
		key := BucketKey(r)
		pos, seen := index[key]
		if !seen {
			pos = len(lines)
			index[key] = pos
			lines = append(lines, models.ShippingCalculation{
				ProductType: key.ProductType,
				Key:         key.Key,
				Label:       fmt.Sprintf("%s %s", key.ProductType, key.Key),
			})
		}
		lines[pos].Quantity += r.Quantity
	}

	summary := models.FeeSummary{Lines: lines}
	for i := range summary.Lines {
		line := &summary.Lines[i]
		rate, ok := c.rates.Lookup(RateKey{ProductType: line.ProductType, Key: line.Key})
		if !ok {
			line.Unpriced = true
			c.logger.Warn("no shipping rate for bucket, fee counted as zero",
				zap.String("product_type", string(line.ProductType)),
				zap.String("key", line.Key),
				zap.Int("quantity", line.Quantity))
		}
		line.UnitRate = rate
		line.Total = line.Quantity * rate
		summary.GrandTotal += line.Total
	}

	return summary
}
