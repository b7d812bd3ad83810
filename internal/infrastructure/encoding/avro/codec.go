package avro

import (
	"fmt"
	"time"

	"github.com/linkedin/goavro/v2"

	"github.com/qdhenry/b2b-buyer-portal/internal/domain/order"
)

// LinkCodec encodes and decodes order link events. goavro codecs are
// safe for concurrent use, so a single codec is shared.
type LinkCodec struct {
	codec *goavro.Codec
}

// NewLinkCodec creates a codec for the order link schema.
func NewLinkCodec() (*LinkCodec, error) {
	codec, err := goavro.NewCodec(OrderLinkSchema)
	if err != nil {
		return nil, fmt.Errorf("failed to create avro codec: %w", err)
	}
	return &LinkCodec{codec: codec}, nil
}

// Encode converts a link into Avro binary. Union fields must be wrapped
// in map[string]interface{}{"type": value} for goavro.
func (c *LinkCodec) Encode(eventID string, link order.OrderLink) ([]byte, error) {
	native := map[string]interface{}{
		"event_id":         eventID,
		"erp_order_number": link.ERPOrderNumber,
		"internal_id":      link.InternalID,
		"company_id":       nil,
		"updated_at":       nil,
	}
	if link.CompanyID != "" {
		native["company_id"] = map[string]interface{}{"string": link.CompanyID}
	}
	if !link.UpdatedAt.IsZero() {
		native["updated_at"] = map[string]interface{}{"long": link.UpdatedAt.UnixMilli()}
	}

	binary, err := c.codec.BinaryFromNative(nil, native)
	if err != nil {
		return nil, fmt.Errorf("failed to encode link to avro binary: %w", err)
	}
	return binary, nil
}

// Decode converts Avro binary back into a link.
func (c *LinkCodec) Decode(data []byte) (order.OrderLink, error) {
	native, _, err := c.codec.NativeFromBinary(data)
	if err != nil {
		return order.OrderLink{}, fmt.Errorf("failed to decode avro binary: %w", err)
	}

	record, ok := native.(map[string]interface{})
	if !ok {
		return order.OrderLink{}, fmt.Errorf("unexpected avro native type %T", native)
	}

	link := order.OrderLink{
		ERPOrderNumber: asString(record["erp_order_number"]),
		InternalID:     asString(record["internal_id"]),
	}
	if v := unwrapUnion(record["company_id"], "string"); v != nil {
		link.CompanyID = asString(v)
	}
	if v := unwrapUnion(record["updated_at"], "long"); v != nil {
		if ms, ok := v.(int64); ok {
			link.UpdatedAt = time.UnixMilli(ms).UTC()
		}
	}
	return link, nil
}

func asString(v interface{}) string {
	s, _ := v.(string)
	return s
}

func unwrapUnion(v interface{}, typeName string) interface{} {
	wrapper, ok := v.(map[string]interface{})
	if !ok {
		return nil
	}
	return wrapper[typeName]
}
