package avro

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/qdhenry/b2b-buyer-portal/internal/domain/order"
)

func TestLinkCodec_RoundTrip(t *testing.T) {
	// Arrange
	codec, err := NewLinkCodec()
	require.NoError(t, err)

	updated := time.Date(2026, 8, 1, 10, 30, 0, 0, time.UTC)
	link := order.OrderLink{
		ERPOrderNumber: "SO-100",
		InternalID:     "999",
		CompanyID:      "co-1",
		UpdatedAt:      updated,
	}

	// Act
	binary, err := codec.Encode("evt-1", link)
	require.NoError(t, err)

	got, err := codec.Decode(binary)

	// Assert
	require.NoError(t, err)
	assert.Equal(t, "SO-100", got.ERPOrderNumber)
	assert.Equal(t, "999", got.InternalID)
	assert.Equal(t, "co-1", got.CompanyID)
	assert.True(t, got.UpdatedAt.Equal(updated))
}

func TestLinkCodec_OptionalFieldsOmitted(t *testing.T) {
	codec, err := NewLinkCodec()
	require.NoError(t, err)

	binary, err := codec.Encode("evt-2", order.OrderLink{
		ERPOrderNumber: "SO-200",
		InternalID:     "1000",
	})
	require.NoError(t, err)

	got, err := codec.Decode(binary)
	require.NoError(t, err)
	assert.Empty(t, got.CompanyID)
	assert.True(t, got.UpdatedAt.IsZero())
}

func TestLinkCodec_DecodeGarbage(t *testing.T) {
	codec, err := NewLinkCodec()
	require.NoError(t, err)

	_, err = codec.Decode([]byte{0xff, 0x00, 0x01})
	assert.Error(t, err)
}
