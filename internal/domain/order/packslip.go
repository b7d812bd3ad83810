package order

import "encoding/json"

// LotPackSlipItem describes one shipment sub-unit of an order line.
// PackLine is the 1-indexed line position and is the identity key:
// the same SKU can appear on several lines with different lot/pack numbers,
// so keying by SKU would cross-assign shipment data between them.
type LotPackSlipItem struct {
	SKU         string `json:"sku"`
	TrackingNum string `json:"tracking_num"`
	LotNum      string `json:"lot_num"`
	PackNum     string `json:"pack_num"`
	PackLine    int    `json:"pack_line"`
}

// ParseLotPackSlip decodes the lot/pack-slip extra field into items.
// A missing field or malformed payload yields nil, never an error.
func ParseLotPackSlip(s ExtraFieldSet) []LotPackSlipItem {
	raw := s.Field(FieldLotPackSlip)
	if raw == "" {
		return nil
	}
	var items []LotPackSlipItem
	if err := json.Unmarshal([]byte(raw), &items); err != nil {
		return nil
	}
	return items
}

// BuildLotPackSlipLookup keys the parsed items by pack line. Items without a
// positive pack line are dropped; duplicate lines keep the last entry.
func BuildLotPackSlipLookup(s ExtraFieldSet) map[int]LotPackSlipItem {
	items := ParseLotPackSlip(s)
	lookup := make(map[int]LotPackSlipItem, len(items))
	for _, it := range items {
		if it.PackLine <= 0 {
			continue
		}
		lookup[it.PackLine] = it
	}
	return lookup
}
