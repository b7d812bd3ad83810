package avro

// OrderLinkSchema is the Avro schema for ERP order link events. The ERP
// side emits updated_at as epoch milliseconds; optional fields use
// ["null", "type"] unions.
const OrderLinkSchema = `{
	"type": "record",
	"name": "OrderLink",
	"namespace": "com.buyerportal.orderlink",
	"fields": [
		{"name": "event_id", "type": "string"},
		{"name": "erp_order_number", "type": "string"},
		{"name": "internal_id", "type": "string"},
		{"name": "company_id", "type": ["null", "string"], "default": null},
		{"name": "updated_at", "type": ["null", "long"], "default": null}
	]
}`
