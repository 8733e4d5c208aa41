package delivery

import (
	"fmt"

	"github.com/mamadbah2/collection-desk/internal/domain/models"
)

const (
	// Unassigned labels a record with no market or product type.
	Unassigned = "미지정"

	DefaultFileLabel = "송품장"
)

// GroupCompleted partitions today's completed records by market and then product type.
// Markets come out in first-appearance order and, within a market, product types do too,
// so every group of one market is contiguous. Records keep their relative input order.
// No matches yields an empty slice.
func GroupCompleted(records []models.CollectionRecord, today, fileLabel string) []models.DeliveryNoteGroup {
	if fileLabel == "" {
		fileLabel = DefaultFileLabel
	}

	type marketBucket struct {
		name     string
		products []string
		records  map[string][]models.CollectionRecord
	}
	var markets []*marketBucket
	byName := make(map[string]*marketBucket)

	for _, r := range records {
		if r.Status != models.StatusCompleted || r.ReceptionDate != today {
			continue
		}

		market := orUnassigned(r.Market)
		product := orUnassigned(string(r.ProductType))

		m, ok := byName[market]
		if !ok {
			m = &marketBucket{name: market, records: make(map[string][]models.CollectionRecord)}
			byName[market] = m
			markets = append(markets, m)
		}
		if _, seen := m.records[product]; !seen {
			m.products = append(m.products, product)
		}
		m.records[product] = append(m.records[product], r)
	}

	groups := make([]models.DeliveryNoteGroup, 0)
	for _, m := range markets {
		for _, product := range m.products {
			groups = append(groups, models.DeliveryNoteGroup{
				Market:      m.name,
				ProductType: product,
				Date:        today,
				FileName:    FileName(fileLabel, m.name, product, today),
				Records:     m.records[product],
			})
		}
	}
	return groups
}

func orUnassigned(v string) string {
	if v == "" {
		return Unassigned
	}
	return v
}

// FileName builds the download name of a delivery note.
func FileName(label, market, productType, date string) string {
	return fmt.Sprintf("%s_%s_%s_%s.pdf", label, market, productType, date)
}

// FindGroup returns the group matching market and product type.
func FindGroup(groups []models.DeliveryNoteGroup, market, productType string) (models.DeliveryNoteGroup, bool) {
	for _, g := range groups {
		if g.Market == market && g.ProductType == productType {
			return g, true
		}
	}
	return models.DeliveryNoteGroup{}, false
}
