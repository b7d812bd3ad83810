package order

import "encoding/json"

// Well-known extra-field names written by the ERP customization layer.
const (
	// FieldERPOrderNumber carries the ERP-assigned order number users see.
	FieldERPOrderNumber = "erp_order_number"

	// FieldLinkedOrderID links an invoice back to its commerce order.
	FieldLinkedOrderID = "linked_order_id"

	// FieldLotPackSlip holds a JSON array of shipment sub-units per line.
	FieldLotPackSlip = "lot_pack_slip"
)

// fieldsSource is the normalized form of an ExtraFieldSet after deciding
// which representation is authoritative.
type fieldsSource struct {
	kind   fieldsKind
	fields []ExternalField
}

type fieldsKind int

const (
	fieldsNone fieldsKind = iota
	fieldsFromList
	fieldsFromJSON
)

// classify picks the authoritative representation: the embedded list beats
// the JSON string, and a string that fails to parse as a field array counts
// as absent rather than as an error.
func (s ExtraFieldSet) classify() fieldsSource {
	if len(s.List) > 0 {
		return fieldsSource{kind: fieldsFromList, fields: s.List}
	}
	if s.Raw != "" {
		var fields []ExternalField
		if err := json.Unmarshal([]byte(s.Raw), &fields); err == nil {
			return fieldsSource{kind: fieldsFromJSON, fields: fields}
		}
	}
	return fieldsSource{kind: fieldsNone}
}

// Fields returns the authoritative field list, or nil when there is none.
func (s ExtraFieldSet) Fields() []ExternalField {
	return s.classify().fields
}

// Field returns the value of the named field, or "" when absent.
func (s ExtraFieldSet) Field(name string) string {
	return findField(s.classify().fields, name)
}

// ERPOrderNumber extracts the ERP order number, or "" when the record has
// no linkage. Pure, never errors, tolerates malformed embedded JSON.
func (s ExtraFieldSet) ERPOrderNumber() string {
	return s.Field(FieldERPOrderNumber)
}

// DisplayID is the universal display rule: show the ERP order number when
// one exists, otherwise fall back to the given internal id. The UI never
// renders a blank in this position.
func (s ExtraFieldSet) DisplayID(fallback string) string {
	if n := s.ERPOrderNumber(); n != "" {
		return n
	}
	return fallback
}

func findField(fields []ExternalField, name string) string {
	for _, f := range fields {
		if f.Name == name && f.Value != "" {
			return f.Value
		}
	}
	return ""
}
