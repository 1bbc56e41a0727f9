// Package orderstore implements the OrderStore port against the shared
// assigned_orders table. The table is owned by the dispatch backend; this
// adapter only reads snapshots and issues targeted mutations by id, and the
// address columns are jsonb payloads of historically inconsistent shape that
// are handed to address.Normalize as-is.
package orderstore

import (
	"encoding/json"

	"fulfillment/internal/core/domain/model/order"
)

// AssignedOrderDTO maps one row of the shared assigned_orders table.
// Address columns stay raw: normalization happens in the domain, not here.
type AssignedOrderDTO struct {
	ID             string `gorm:"primaryKey"`
	OrderStatus    string
	AddressDetails []byte `gorm:"type:jsonb"`
	DropAddress    []byte `gorm:"type:jsonb"`
}

// TableName specifies the database table name for assigned orders.
func (AssignedOrderDTO) TableName() string {
	return "assigned_orders"
}

// toDomain converts a row to an order snapshot. The raw address payloads go
// through the tolerant normalizer inside RestoreOrder.
func toDomain(dto AssignedOrderDTO) (*order.Order, error) {
	return order.RestoreOrder(
		dto.ID,
		dto.OrderStatus,
		json.RawMessage(dto.AddressDetails),
		json.RawMessage(dto.DropAddress),
	)
}
