package delivery

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/mamadbah2/collection-desk/internal/domain/models"
)

func strptr(s string) *string { return &s }

func variety(v models.Variety) *models.Variety { return &v }

func TestCalculateAppleScenario(t *testing.T) {
	records := []models.CollectionRecord{
		{ProductType: models.ProductApple, BoxWeight: strptr("10kg"), Quantity: 3},
		{ProductType: models.ProductApple, BoxWeight: strptr("10kg"), Quantity: 2},
	}

	summary := NewFeeCalculator(nil, nil).Calculate(records)
	require.Len(t, summary.Lines, 1)
	assert.Equal(t, models.ShippingCalculation{
		ProductType: models.ProductApple,
		Key:         "10kg",
		Quantity:    5,
		UnitRate:    1000,
		Total:       5000,
		Label:       "사과 10kg",
	}, summary.Lines[0])
	assert.Equal(t, 5000, summary.GrandTotal)
}

func TestCalculatePerillaScenario(t *testing.T) {
	records := []models.CollectionRecord{
		{ProductType: models.ProductPerillaLeaf, Variety: variety(models.VarietyPremium), Quantity: 10},
		{ProductType: models.ProductPerillaLeaf, Variety: variety(models.VarietyLoose), Quantity: 4, BoxWeight: strptr("5kg")},
	}

	summary := NewFeeCalculator(nil, nil).Calculate(records)
	require.Len(t, summary.Lines, 2)
	assert.Equal(t, "정품", summary.Lines[0].Key)
	assert.Equal(t, 6000, summary.Lines[0].Total)
	assert.Equal(t, "장", summary.Lines[0].Unit())
	assert.Equal(t, "바라", summary.Lines[1].Key)
	assert.Equal(t, 4000, summary.Lines[1].Total)
	assert.Equal(t, "박스", summary.Lines[1].Unit())
	assert.Equal(t, 10000, summary.GrandTotal)
}

func TestBucketKey(t *testing.T) {
	t.Run("non perilla ignores variety", func(t *testing.T) {
		a := models.CollectionRecord{ProductType: models.ProductPersimmon, Variety: variety(models.VarietyDaebong), BoxWeight: strptr("5kg")}
		b := models.CollectionRecord{ProductType: models.ProductPersimmon, Variety: variety(models.VarietyYaksi), BoxWeight: strptr("5kg")}
		assert.Equal(t, BucketKey(a), BucketKey(b))
		assert.Equal(t, "5kg", BucketKey(a).Key)
	})

	t.Run("missing weight defaults to 10kg", func(t *testing.T) {
		assert.Equal(t, "10kg", BucketKey(models.CollectionRecord{ProductType: models.ProductApple}).Key)
	})

	t.Run("perilla ignores weight", func(t *testing.T) {
		a := models.CollectionRecord{ProductType: models.ProductPerillaLeaf, Variety: variety(models.VarietyLoose), BoxWeight: strptr("5kg")}
		b := models.CollectionRecord{ProductType: models.ProductPerillaLeaf, Variety: variety(models.VarietyLoose), BoxWeight: strptr("2kg")}
		assert.Equal(t, BucketKey(a), BucketKey(b))
	})

	t.Run("perilla without variety is premium", func(t *testing.T) {
		assert.Equal(t, "정품", BucketKey(models.CollectionRecord{ProductType: models.ProductPerillaLeaf}).Key)
	})
}

func TestCalculateUnpricedBucket(t *testing.T) {
	records := []models.CollectionRecord{
		{ProductType: models.ProductApple, BoxWeight: strptr("3.5kg"), Quantity: 7},
		{ProductType: models.ProductApple, BoxWeight: strptr("5kg"), Quantity: 2},
	}

	summary := NewFeeCalculator(nil, nil).Calculate(records)
	require.Len(t, summary.Lines, 2)
	assert.True(t, summary.Lines[0].Unpriced)
	assert.Zero(t, summary.Lines[0].Total)
	assert.Equal(t, 7, summary.Lines[0].Quantity)
	assert.False(t, summary.Lines[1].Unpriced)
	assert.Equal(t, 1200, summary.GrandTotal)
}

func TestCalculateTotalsAddUp(t *testing.T) {
	records := []models.CollectionRecord{
		{ProductType: models.ProductPersimmon, BoxWeight: strptr("10kg"), Quantity: 4},
		{ProductType: models.ProductPersimmon, BoxWeight: strptr("5kg"), Quantity: 9},
		{ProductType: models.ProductPersimmon, Quantity: 1},
		{ProductType: models.ProductPersimmon, BoxWeight: strptr("7kg"), Quantity: 3},
	}

	summary := NewFeeCalculator(nil, nil).Calculate(records)
	sum := 0
	for _, l := range summary.Lines {
		sum += l.Total
		assert.Equal(t, l.Quantity*l.UnitRate, l.Total)
	}
	assert.Equal(t, sum, summary.GrandTotal)
	assert.Equal(t, 5*1100+9*700, summary.GrandTotal)
	assert.Equal(t, []string{"10kg", "5kg", "7kg"}, []string{summary.Lines[0].Key, summary.Lines[1].Key, summary.Lines[2].Key})
}

func TestCalculateEmpty(t *testing.T) {
	summary := NewFeeCalculator(nil, nil).Calculate(nil)
	assert.Empty(t, summary.Lines)
	assert.Zero(t, summary.GrandTotal)
}
