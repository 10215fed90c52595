package wire

import "fmt"

// 商品カタログサービス（proto/product.proto）。
const (
	// ProductService は商品サービスのパス（"/" + 完全修飾名）。
	ProductService = "/product.Product"
	// MethodSaveProduct は商品登録RPC。
	MethodSaveProduct = ProductService + "/Save"
	// MethodGetProductList は商品一覧RPC。
	MethodGetProductList = ProductService + "/GetProductList"
	// MethodDeleteProduct は商品削除RPC。
	MethodDeleteProduct = ProductService + "/DeleteProduct"
)

// Empty は引数を持たないRPCのリクエスト。
type Empty struct{}

func (*Empty) MarshalWire() ([]byte, error) { return nil, nil }

func (*Empty) UnmarshalWire(b []byte) error {
	return walkFields(b, func(field) error { return nil })
}

// ProductRequest はproduct.ProductRequest。
type ProductRequest struct {
	Name        string
	Description string
	Currency    string
	Price       int64
}

func (m *ProductRequest) MarshalWire() ([]byte, error) {
	var b []byte
	b = appendString(b, 1, m.Name)
	b = appendString(b, 2, m.Description)
	b = appendString(b, 3, m.Currency)
	b = appendInt64(b, 4, m.Price)
	return b, nil
}

func (m *ProductRequest) UnmarshalWire(b []byte) error {
	*m = ProductRequest{}
	return walkFields(b, func(f field) error {
		switch {
		case f.isBytes(1):
			m.Name = string(f.bytes)
		case f.isBytes(2):
			m.Description = string(f.bytes)
		case f.isBytes(3):
			m.Currency = string(f.bytes)
		case f.isVarint(4):
			m.Price = int64(f.varint)
		}
		return nil
	})
}

// ProductResponse はproduct.ProductResponse。
// バックエンドの定義では通貨フィールドが "current" という名前になっている。
type ProductResponse struct {
	ID          string
	Name        string
	Description string
	Current     string
	Price       int64
}

func (m *ProductResponse) MarshalWire() ([]byte, error) {
	var b []byte
	b = appendString(b, 1, m.ID)
	b = appendString(b, 2, m.Name)
	b = appendString(b, 3, m.Description)
	b = appendString(b, 4, m.Current)
	b = appendInt64(b, 5, m.Price)
	return b, nil
}

func (m *ProductResponse) UnmarshalWire(b []byte) error {
	*m = ProductResponse{}
	return walkFields(b, func(f field) error {
		switch {
		case f.isBytes(1):
			m.ID = string(f.bytes)
		case f.isBytes(2):
			m.Name = string(f.bytes)
		case f.isBytes(3):
			m.Description = string(f.bytes)
		case f.isBytes(4):
			m.Current = string(f.bytes)
		case f.isVarint(5):
			m.Price = int64(f.varint)
		}
		return nil
	})
}

// ProductList はproduct.ProductList。
type ProductList struct {
	Products []ProductResponse
}

func (m *ProductList) MarshalWire() ([]byte, error) {
	var b []byte
	for i := range m.Products {
		p, err := m.Products[i].MarshalWire()
		if err != nil {
			return nil, err
		}
		b = appendMessage(b, 1, p)
	}
	return b, nil
}

func (m *ProductList) UnmarshalWire(b []byte) error {
	*m = ProductList{}
	return walkFields(b, func(f field) error {
		if !f.isBytes(1) {
			return nil
		}
		var p ProductResponse
		if err := p.UnmarshalWire(f.bytes); err != nil {
			return fmt.Errorf("products[%d]: %w", len(m.Products), err)
		}
		m.Products = append(m.Products, p)
		return nil
	})
}

// DeleteProductRequest はproduct.DeleteProductRequest。
type DeleteProductRequest struct {
	ID string
}

func (m *DeleteProductRequest) MarshalWire() ([]byte, error) {
	return appendString(nil, 1, m.ID), nil
}

func (m *DeleteProductRequest) UnmarshalWire(b []byte) error {
	*m = DeleteProductRequest{}
	return walkFields(b, func(f field) error {
		if f.isBytes(1) {
			m.ID = string(f.bytes)
		}
		return nil
	})
}

// DeleteResponse は削除RPCの共通レスポンス（product.DeleteProductResponse / order.DeleteOrderResponse）。
type DeleteResponse struct {
	IsDeleted bool
}

func (m *DeleteResponse) MarshalWire() ([]byte, error) {
	return appendBool(nil, 1, m.IsDeleted), nil
}

func (m *DeleteResponse) UnmarshalWire(b []byte) error {
	*m = DeleteResponse{}
	return walkFields(b, func(f field) error {
		if f.isVarint(1) {
			m.IsDeleted = f.varint != 0
		}
		return nil
	})
}
