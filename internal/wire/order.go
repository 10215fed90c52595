package wire

import (
	"fmt"

	"google.golang.org/protobuf/encoding/protowire"
	"google.golang.org/protobuf/proto"
	"google.golang.org/protobuf/types/known/timestamppb"
)

// 注文サービス（proto/order.proto）。
const (
	// OrderService は注文サービスのパス（"/" + 完全修飾名）。
	OrderService = "/order.Order"
	// MethodPlaceOrder は注文作成RPC。
	MethodPlaceOrder = OrderService + "/Place"
	// MethodGetOrderList は注文一覧RPC。
	MethodGetOrderList = OrderService + "/GetOrderList"
	// MethodDeleteOrder は注文削除RPC。
	MethodDeleteOrder = OrderService + "/DeleteOrder"
)

// OrderLineItems はorder.OrderLineItems。
type OrderLineItems struct {
	SkuCode  string
	Price    int64
	Quantity int64
}

func (m *OrderLineItems) MarshalWire() ([]byte, error) {
	var b []byte
	b = appendString(b, 1, m.SkuCode)
	b = appendInt64(b, 2, m.Price)
	b = appendInt64(b, 3, m.Quantity)
	return b, nil
}

func (m *OrderLineItems) UnmarshalWire(b []byte) error {
	*m = OrderLineItems{}
	return walkFields(b, func(f field) error {
		switch {
		case f.isBytes(1):
			m.SkuCode = string(f.bytes)
		case f.isVarint(2):
			m.Price = int64(f.varint)
		case f.isVarint(3):
			m.Quantity = int64(f.varint)
		}
		return nil
	})
}

func appendLineItems(b []byte, num protowire.Number, items []OrderLineItems) ([]byte, error) {
	for i := range items {
		item, err := items[i].MarshalWire()
		if err != nil {
			return nil, err
		}
		b = appendMessage(b, num, item)
	}
	return b, nil
}

func decodeLineItem(raw []byte, items []OrderLineItems) ([]OrderLineItems, error) {
	var item OrderLineItems
	if err := item.UnmarshalWire(raw); err != nil {
		return nil, fmt.Errorf("items[%d]: %w", len(items), err)
	}
	return append(items, item), nil
}

// OrderRequest はorder.OrderRequest。
type OrderRequest struct {
	Items []OrderLineItems
}

func (m *OrderRequest) MarshalWire() ([]byte, error) {
	return appendLineItems(nil, 1, m.Items)
}

func (m *OrderRequest) UnmarshalWire(b []byte) error {
	*m = OrderRequest{}
	return walkFields(b, func(f field) error {
		if !f.isBytes(1) {
			return nil
		}
		items, err := decodeLineItem(f.bytes, m.Items)
		if err != nil {
			return err
		}
		m.Items = items
		return nil
	})
}

// OrderResponse はorder.OrderResponse。
type OrderResponse struct {
	OrderNumber string
}

func (m *OrderResponse) MarshalWire() ([]byte, error) {
	return appendString(nil, 1, m.OrderNumber), nil
}

func (m *OrderResponse) UnmarshalWire(b []byte) error {
	*m = OrderResponse{}
	return walkFields(b, func(f field) error {
		if f.isBytes(1) {
			m.OrderNumber = string(f.bytes)
		}
		return nil
	})
}

// OrderEntity はorder.OrderEntity。
type OrderEntity struct {
	OrderID     int64
	OrderNumber string
	// CreatedAt はバックエンドが記録した作成日時。未設定の場合はnil。
	CreatedAt *timestamppb.Timestamp
	Items     []OrderLineItems
}

func (m *OrderEntity) MarshalWire() ([]byte, error) {
	var b []byte
	b = appendInt64(b, 1, m.OrderID)
	b = appendString(b, 2, m.OrderNumber)
	if m.CreatedAt != nil {
		ts, err := proto.MarshalOptions{Deterministic: true}.Marshal(m.CreatedAt)
		if err != nil {
			return nil, fmt.Errorf("created_atのエンコードに失敗: %w", err)
		}
		b = appendMessage(b, 3, ts)
	}
	return appendLineItems(b, 4, m.Items)
}

func (m *OrderEntity) UnmarshalWire(b []byte) error {
	*m = OrderEntity{}
	return walkFields(b, func(f field) error {
		switch {
		case f.isVarint(1):
			m.OrderID = int64(f.varint)
		case f.isBytes(2):
			m.OrderNumber = string(f.bytes)
		case f.isBytes(3):
			ts := &timestamppb.Timestamp{}
			if err := proto.Unmarshal(f.bytes, ts); err != nil {
				return fmt.Errorf("created_atのデコードに失敗: %w", err)
			}
			m.CreatedAt = ts
		case f.isBytes(4):
			items, err := decodeLineItem(f.bytes, m.Items)
			if err != nil {
				return err
			}
			m.Items = items
		}
		return nil
	})
}

// OrderList はorder.OrderList。
type OrderList struct {
	Orders []OrderEntity
}

func (m *OrderList) MarshalWire() ([]byte, error) {
	var b []byte
	for i := range m.Orders {
		o, err := m.Orders[i].MarshalWire()
		if err != nil {
			return nil, err
		}
		b = appendMessage(b, 1, o)
	}
	return b, nil
}

func (m *OrderList) UnmarshalWire(b []byte) error {
	*m = OrderList{}
	return walkFields(b, func(f field) error {
		if !f.isBytes(1) {
			return nil
		}
		var o OrderEntity
		if err := o.UnmarshalWire(f.bytes); err != nil {
			return fmt.Errorf("orders[%d]: %w", len(m.Orders), err)
		}
		m.Orders = append(m.Orders, o)
		return nil
	})
}

// DeleteOrderRequest はorder.DeleteOrderRequest。
type DeleteOrderRequest struct {
	OrderNumber string
}

func (m *DeleteOrderRequest) MarshalWire() ([]byte, error) {
	return appendString(nil, 1, m.OrderNumber), nil
}

func (m *DeleteOrderRequest) UnmarshalWire(b []byte) error {
	*m = DeleteOrderRequest{}
	return walkFields(b, func(f field) error {
		if f.isBytes(1) {
			m.OrderNumber = string(f.bytes)
		}
		return nil
	})
}
