package models

import "time"

// DeliveryNoteGroup is the set of today's completed records sharing a market and product type.
// It is derived on every request and never stored.
type DeliveryNoteGroup struct {
	Market      string             `json:"market"`
	ProductType string             `json:"product_type"`
	Date        string             `json:"date"`
	FileName    string             `json:"file_name"`
	Records     []CollectionRecord `json:"records"`
}

// TotalQuantity sums the quantity of every record in the group.
func (g DeliveryNoteGroup) TotalQuantity() int {
	total := 0
	for _, r := range g.Records {
		total += r.Quantity
	}
	return total
}

// ShippingCalculation is the fee line for one (product type, variety or weight) bucket.
type ShippingCalculation struct {
	ProductType ProductType `json:"product_type"`
	Key         string      `json:"key"`
	Quantity    int         `json:"quantity"`
	UnitRate    int         `json:"unit_rate"`
	Total       int         `json:"total"`
	Label       string      `json:"label"`
	Unpriced    bool        `json:"unpriced,omitempty"`
}

// FeeSummary is the full fee breakdown of a group.
type FeeSummary struct {
	Lines      []ShippingCalculation `json:"lines"`
	GrandTotal int                   `json:"grand_total"`
}

// DailyShipmentLine is one group's totals inside a daily report.
type DailyShipmentLine struct {
	Market        string `bson:"market" json:"market"`
	ProductType   string `bson:"product_type" json:"product_type"`
	RecordCount   int    `bson:"record_count" json:"record_count"`
	TotalQuantity int    `bson:"total_quantity" json:"total_quantity"`
	FeeTotal      int    `bson:"fee_total" json:"fee_total"`
}

// DailyShipmentReport is the persisted end-of-day snapshot of delivery note totals.
type DailyShipmentReport struct {
	ID         uint                `gorm:"primaryKey" bson:"-" json:"-"`
	Date       string              `gorm:"size:10;index;not null" bson:"date" json:"date"`
	Lines      []DailyShipmentLine `gorm:"serializer:json" bson:"lines" json:"lines"`
	GrandTotal int                 `bson:"grand_total" json:"grand_total"`
	CreatedAt  time.Time           `bson:"created_at" json:"created_at"`
}

// TableName pins the SQL table name.
func (DailyShipmentReport) TableName() string {
	return "daily_shipment_reports"
}

// Unit is the counting unit printed next to the quantity.
func (c ShippingCalculation) Unit() string {
	if c.ProductType == ProductPerillaLeaf && c.Key == string(VarietyPremium) {
		return "장"
	}
	return "박스"
}
