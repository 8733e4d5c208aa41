package models

import "time"

// ProductType is the kind of produce a producer brought in.
type ProductType string

const (
	ProductApple       ProductType = "사과"
	ProductPersimmon   ProductType = "감"
	ProductPerillaLeaf ProductType = "깻잎"
)

// ProductTypes lists the accepted product types in display order.
var ProductTypes = []ProductType{ProductApple, ProductPersimmon, ProductPerillaLeaf}

// Valid reports whether p is one of the known product types.
func (p ProductType) Valid() bool {
	for _, known := range ProductTypes {
		if p == known {
			return true
		}
	}
	return false
}

// Variety refines a product type. Apples carry none.
type Variety string

const (
	VarietySweetPersimmon Variety = "단감"
	VarietyYaksi          Variety = "약시"
	VarietyDaebong        Variety = "대봉"
	VarietyPremium        Variety = "정품"
	VarietyLoose          Variety = "바라"
)

// VarietiesFor returns the varieties allowed for a product type.
func VarietiesFor(p ProductType) []Variety {
	switch p {
	case ProductPersimmon:
		return []Variety{VarietySweetPersimmon, VarietyYaksi, VarietyDaebong}
	case ProductPerillaLeaf:
		return []Variety{VarietyPremium, VarietyLoose}
	default:
		return nil
	}
}

// Status is the collection lifecycle state.
type Status string

const (
	StatusPending   Status = "pending"
	StatusCompleted Status = "completed"
)

// Valid reports whether s is a known status.
func (s Status) Valid() bool {
	return s == StatusPending || s == StatusCompleted
}

// Toggled flips between pending and completed.
func (s Status) Toggled() Status {
	if s == StatusCompleted {
		return StatusPending
	}
	return StatusCompleted
}

const (
	BoxWeight10kg = "10kg"
	BoxWeight5kg  = "5kg"
)

// Markets is the fixed set of wholesale markets a record can be shipped to.
var Markets = []string{
	"부산청과",
	"항도청과",
	"엄궁농협공판장",
	"반여농협공판장",
	"중앙청과",
	"동부청과",
}

// IsKnownMarket reports whether name is in Markets.
func IsKnownMarket(name string) bool {
	for _, m := range Markets {
		if m == name {
			return true
		}
	}
	return false
}

// CollectionRecord is one producer's submission at the collection point.
type CollectionRecord struct {
	ID            string      `gorm:"primaryKey;size:36" bson:"_id" json:"id"`
	ProducerName  string      `gorm:"size:64;not null" bson:"producer_name" json:"producer_name"`
	ReceptionDate string      `gorm:"size:10;index;not null" bson:"reception_date" json:"reception_date"`
	ProductType   ProductType `gorm:"size:16;not null" bson:"product_type" json:"product_type"`
	Variety       *Variety    `gorm:"size:16" bson:"product_variety,omitempty" json:"product_variety"`
	Quantity      int         `gorm:"not null" bson:"quantity" json:"quantity"`
	BoxWeight     *string     `gorm:"size:16" bson:"box_weight,omitempty" json:"box_weight"`
	Market        string      `gorm:"size:64;index" bson:"market" json:"market"`
	Region        string      `gorm:"size:64" bson:"region,omitempty" json:"region,omitempty"`
	Status        Status      `gorm:"size:16;index;not null" bson:"status" json:"status"`
	UserID        string      `gorm:"size:64;index" bson:"user_id" json:"user_id"`
	CreatedAt     time.Time   `bson:"created_at" json:"created_at"`
	UpdatedAt     time.Time   `bson:"updated_at" json:"updated_at"`
}

// TableName pins the SQL table name.
func (CollectionRecord) TableName() string {
	return "collection_records"
}

// VarietyValue returns the variety or "" when unset.
func (r CollectionRecord) VarietyValue() Variety {
	if r.Variety == nil {
		return ""
	}
	return *r.Variety
}

// BoxWeightValue returns the box weight or "" when unset.
func (r CollectionRecord) BoxWeightValue() string {
	if r.BoxWeight == nil {
		return ""
	}
	return *r.BoxWeight
}

// IsPremiumPerilla reports whether the record is perilla leaf of the premium grade,
// which is counted per sheet bundle rather than per box.
func (r CollectionRecord) IsPremiumPerilla() bool {
	return r.ProductType == ProductPerillaLeaf && r.VarietyValue() == VarietyPremium
}

// RecordFilter narrows a record listing. Zero values match everything.
type RecordFilter struct {
	UserID        string
	ReceptionDate string
	Status        Status
	Market        string
	ProductType   ProductType
}
