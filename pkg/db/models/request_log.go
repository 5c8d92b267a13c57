package models

import "github.com/dishfeed/merchant-backend/pkg/types"

// RequestLog is an append-only trace of inbound requests touching checkout.
type RequestLog struct {
	ID         int64      `gorm:"column:id;primaryKey;autoIncrement"`
	Timestamp  string     `gorm:"column:timestamp"`
	Method     string     `gorm:"column:method"`
	URL        string     `gorm:"column:url"`
	CheckoutID *string    `gorm:"column:checkout_id"`
	Payload    types.JSON `gorm:"column:payload"`
}

func (RequestLog) TableName() string {
	return "request_logs"
}

// IdempotencyRecord caches a prior response keyed by Idempotency-Key.
type IdempotencyRecord struct {
	Key            string     `gorm:"column:key;primaryKey"`
	RequestHash    string     `gorm:"column:request_hash"`
	ResponseStatus int        `gorm:"column:response_status"`
	ResponseBody   types.JSON `gorm:"column:response_body"`
	CreatedAt      string     `gorm:"column:created_at"`
}

func (IdempotencyRecord) TableName() string {
	return "idempotency_records"
}
