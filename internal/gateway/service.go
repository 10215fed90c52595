package gateway

import (
	"context"

	"github.com/nao1215/shopgate/internal/model"
)

// AuthService は認証バックエンドへの操作。
type AuthService interface {
	Login(ctx context.Context, req model.LoginRequest) (model.LoginResponse, error)
	Register(ctx context.Context, req model.RegisterRequest) (model.RegisterResponse, error)
	IsAdmin(ctx context.Context, userID string) (model.IsAdminResponse, error)
}

// ProductService は商品バックエンドへの操作。
type ProductService interface {
	SaveProduct(ctx context.Context, req model.ProductRequest) (model.ProductResponse, error)
	ListProducts(ctx context.Context) ([]model.ProductResponse, error)
	DeleteProduct(ctx context.Context, id string) (model.DeleteProductResponse, error)
}

// OrderService は注文バックエンドへの操作。
type OrderService interface {
	PlaceOrder(ctx context.Context, req model.OrderRequest) (model.OrderResponse, error)
	ListOrders(ctx context.Context) ([]model.OrderEntityResponse, error)
	DeleteOrder(ctx context.Context, orderNumber string) (model.DeleteOrderResponse, error)
}

// Services はハンドラが呼び出すバックエンドの集合。
type Services struct {
	Auth    AuthService
	Product ProductService
	Order   OrderService
}
