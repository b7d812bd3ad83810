package order

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestExtraFieldSet_ERPOrderNumber_ListWinsOverJSON(t *testing.T) {
	s := ExtraFieldSet{
		List: []ExternalField{
			{Name: FieldERPOrderNumber, Value: "SO-1001"},
		},
		Raw: `[{"name":"erp_order_number","value":"SO-9999"}]`,
	}

	assert.Equal(t, "SO-1001", s.ERPOrderNumber())
}

func TestExtraFieldSet_ERPOrderNumber_FallsBackToJSON(t *testing.T) {
	s := ExtraFieldSet{
		Raw: `[{"name":"erp_order_number","value":"SO-2002"}]`,
	}

	assert.Equal(t, "SO-2002", s.ERPOrderNumber())
}

func TestExtraFieldSet_ERPOrderNumber_MalformedJSON(t *testing.T) {
	tests := []struct {
		name string
		raw  string
	}{
		{name: "truncated object", raw: `{not json`},
		{name: "not an array", raw: `{"name":"erp_order_number","value":"SO-1"}`},
		{name: "scalar", raw: `42`},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			s := ExtraFieldSet{Raw: tt.raw}
			assert.NotPanics(t, func() {
				assert.Equal(t, "", s.ERPOrderNumber())
			})
		})
	}
}

func TestExtraFieldSet_ERPOrderNumber_IgnoresOtherFields(t *testing.T) {
	s := ExtraFieldSet{
		List: []ExternalField{
			{Name: FieldLotPackSlip, Value: `[]`},
			{Name: FieldLinkedOrderID, Value: "777"},
			{Name: FieldERPOrderNumber, Value: "SO-3003"},
		},
	}

	assert.Equal(t, "SO-3003", s.ERPOrderNumber())
}

func TestExtraFieldSet_ERPOrderNumber_EmptyValueSkipped(t *testing.T) {
	s := ExtraFieldSet{
		List: []ExternalField{
			{Name: FieldERPOrderNumber, Value: ""},
		},
	}

	assert.Equal(t, "", s.ERPOrderNumber())
}

func TestExtraFieldSet_DisplayID(t *testing.T) {
	tests := []struct {
		name     string
		set      ExtraFieldSet
		fallback string
		want     string
	}{
		{
			name: "erp number preferred",
			set: ExtraFieldSet{List: []ExternalField{
				{Name: FieldERPOrderNumber, Value: "SO-5"},
			}},
			fallback: "123",
			want:     "SO-5",
		},
		{
			name:     "fallback when absent",
			set:      ExtraFieldSet{},
			fallback: "123",
			want:     "123",
		},
		{
			name:     "fallback on malformed json",
			set:      ExtraFieldSet{Raw: "{broken"},
			fallback: "456",
			want:     "456",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := tt.set.DisplayID(tt.fallback)
			assert.Equal(t, tt.want, got)

			// The fallback law: result is the extraction when non-empty,
			// else exactly the fallback.
			if n := tt.set.ERPOrderNumber(); n != "" {
				assert.Equal(t, n, got)
			} else {
				assert.Equal(t, tt.fallback, got)
			}
		})
	}
}
