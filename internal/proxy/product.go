package proxy

import (
	"context"
	"time"

	"google.golang.org/grpc"

	"github.com/nao1215/shopgate/internal/model"
	"github.com/nao1215/shopgate/internal/wire"
)

// ProductProxy は商品サービスへのプロキシ。
type ProductProxy struct {
	conn        grpc.ClientConnInterface
	callTimeout time.Duration
}

// NewProductProxy は新しいProductProxyを生成する。
func NewProductProxy(conn grpc.ClientConnInterface, callTimeout time.Duration) *ProductProxy {
	return &ProductProxy{
		conn:        conn,
		callTimeout: callTimeout,
	}
}

// SaveProduct は商品を登録し、登録された商品を返す。
func (p *ProductProxy) SaveProduct(ctx context.Context, req model.ProductRequest) (model.ProductResponse, error) {
	in := &wire.ProductRequest{
		Name:        req.Name,
		Description: req.Description,
		Currency:    req.Currency,
		Price:       req.Price,
	}
	out := &wire.ProductResponse{}
	if err := invoke(ctx, p.conn, p.callTimeout, "save_product", wire.MethodSaveProduct, in, out); err != nil {
		return model.ProductResponse{}, err
	}
	return toProductResponse(out), nil
}

// ListProducts は商品の一覧を返す。商品が無い場合は空のスライスを返す。
func (p *ProductProxy) ListProducts(ctx context.Context) ([]model.ProductResponse, error) {
	out := &wire.ProductList{}
	if err := invoke(ctx, p.conn, p.callTimeout, "list_products", wire.MethodGetProductList, &wire.Empty{}, out); err != nil {
		return nil, err
	}
	products := make([]model.ProductResponse, 0, len(out.Products))
	for i := range out.Products {
		products = append(products, toProductResponse(&out.Products[i]))
	}
	return products, nil
}

// DeleteProduct は商品を削除する。
// 存在しない商品はバックエンドが is_deleted=false で返す。
func (p *ProductProxy) DeleteProduct(ctx context.Context, id string) (model.DeleteProductResponse, error) {
	out := &wire.DeleteResponse{}
	if err := invoke(ctx, p.conn, p.callTimeout, "delete_product", wire.MethodDeleteProduct, &wire.DeleteProductRequest{ID: id}, out); err != nil {
		return model.DeleteProductResponse{}, err
	}
	return model.DeleteProductResponse{IsDeleted: out.IsDeleted}, nil
}

// toProductResponse はバックエンドの商品をRESTの表現に変換する。
// バックエンドの current フィールドは通貨コードを表す。
func toProductResponse(w *wire.ProductResponse) model.ProductResponse {
	return model.ProductResponse{
		ID:          w.ID,
		Name:        w.Name,
		Description: w.Description,
		Currency:    w.Current,
		Price:       w.Price,
	}
}
