package proxy

import (
	"context"
	"time"

	"google.golang.org/grpc"

	"github.com/nao1215/shopgate/internal/model"
	"github.com/nao1215/shopgate/internal/wire"
)

// OrderProxy は注文サービスへのプロキシ。
type OrderProxy struct {
	conn        grpc.ClientConnInterface
	callTimeout time.Duration
}

// NewOrderProxy は新しいOrderProxyを生成する。
func NewOrderProxy(conn grpc.ClientConnInterface, callTimeout time.Duration) *OrderProxy {
	return &OrderProxy{
		conn:        conn,
		callTimeout: callTimeout,
	}
}

// PlaceOrder は注文を確定し、注文番号を返す。
func (p *OrderProxy) PlaceOrder(ctx context.Context, req model.OrderRequest) (model.OrderResponse, error) {
	in := &wire.OrderRequest{Items: toWireItems(req.Items)}
	out := &wire.OrderResponse{}
	if err := invoke(ctx, p.conn, p.callTimeout, "place_order", wire.MethodPlaceOrder, in, out); err != nil {
		return model.OrderResponse{}, err
	}
	return model.OrderResponse{OrderNumber: out.OrderNumber}, nil
}

// ListOrders は注文の一覧を返す。
// 作成日時が変換できない注文は created_at を持たない。
func (p *OrderProxy) ListOrders(ctx context.Context) ([]model.OrderEntityResponse, error) {
	out := &wire.OrderList{}
	if err := invoke(ctx, p.conn, p.callTimeout, "list_orders", wire.MethodGetOrderList, &wire.Empty{}, out); err != nil {
		return nil, err
	}

	orders := make([]model.OrderEntityResponse, 0, len(out.Orders))
	for _, o := range out.Orders {
		entity := model.OrderEntityResponse{
			OrderID:     o.OrderID,
			OrderNumber: o.OrderNumber,
			Items:       toModelItems(o.Items),
		}
		if t, ok := wire.TimeFromTimestamp(o.CreatedAt); ok {
			entity.CreatedAt = &t
		}
		orders = append(orders, entity)
	}
	return orders, nil
}

// DeleteOrder は注文番号で注文を削除する。
func (p *OrderProxy) DeleteOrder(ctx context.Context, orderNumber string) (model.DeleteOrderResponse, error) {
	out := &wire.DeleteResponse{}
	in := &wire.DeleteOrderRequest{OrderNumber: orderNumber}
	if err := invoke(ctx, p.conn, p.callTimeout, "delete_order", wire.MethodDeleteOrder, in, out); err != nil {
		return model.DeleteOrderResponse{}, err
	}
	return model.DeleteOrderResponse{IsDeleted: out.IsDeleted}, nil
}

func toWireItems(items []model.OrderLineItems) []wire.OrderLineItems {
	out := make([]wire.OrderLineItems, 0, len(items))
	for _, it := range items {
		out = append(out, wire.OrderLineItems{
			SkuCode:  it.SkuCode,
			Price:    it.Price,
			Quantity: it.Quantity,
		})
	}
	return out
}

func toModelItems(items []wire.OrderLineItems) []model.OrderLineItems {
	out := make([]model.OrderLineItems, 0, len(items))
	for _, it := range items {
		out = append(out, model.OrderLineItems{
			SkuCode:  it.SkuCode,
			Price:    it.Price,
			Quantity: it.Quantity,
		})
	}
	return out
}
