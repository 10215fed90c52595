// Package model はGatewayが外部クライアントに公開するREST APIのリクエスト/レスポンスを定義する。
//
// リクエストの必須チェックはGinのバインディング（binding タグ）で行い、
// プロキシ層では再検証しない。
package model

import "time"

// LoginRequest はPOST /auth/login のリクエストボディ。
type LoginRequest struct {
	Email    string `json:"email" binding:"required"`
	Password string `json:"password" binding:"required"`
}

// LoginResponse はログイン成功時のレスポンス。
// Emailはリクエストの値をそのまま返す。
type LoginResponse struct {
	Email string `json:"email"`
	Token string `json:"token"`
}

// RegisterRequest はPOST /auth/register のリクエストボディ。
type RegisterRequest struct {
	Email    string `json:"email" binding:"required"`
	Password string `json:"password" binding:"required"`
}

// RegisterResponse はユーザー登録成功時のレスポンス。
type RegisterResponse struct {
	UserID string `json:"user_id"`
}

// IsAdminResponse はGET /auth/is_admin/:id のレスポンス。
type IsAdminResponse struct {
	IsAdmin bool `json:"is_admin"`
}

// ProductRequest はPOST /products のリクエストボディ。
type ProductRequest struct {
	Name        string `json:"name" binding:"required"`
	Description string `json:"description"`
	Currency    string `json:"currency" binding:"required"`
	Price       int64  `json:"price"`
}

// ProductResponse は商品1件の表現。
type ProductResponse struct {
	ID          string `json:"id"`
	Name        string `json:"name"`
	Description string `json:"description"`
	Currency    string `json:"currency"`
	Price       int64  `json:"price"`
}

// DeleteProductResponse はDELETE /products/:id のレスポンス。
// 存在しない商品の削除もエラーではなく is_deleted=false として返す。
type DeleteProductResponse struct {
	IsDeleted bool `json:"is_deleted"`
}

// OrderLineItems は注文明細。
type OrderLineItems struct {
	SkuCode  string `json:"sku_code" binding:"required"`
	Price    int64  `json:"price"`
	Quantity int64  `json:"quantity"`
}

// OrderRequest はPOST /orders のリクエストボディ。
type OrderRequest struct {
	Items []OrderLineItems `json:"items" binding:"required,dive"`
}

// OrderResponse は注文成功時のレスポンス。
type OrderResponse struct {
	OrderNumber string `json:"order_number"`
}

// OrderEntityResponse は注文一覧の1件。
type OrderEntityResponse struct {
	OrderID     int64  `json:"order_id"`
	OrderNumber string `json:"order_number"`
	// CreatedAt はバックエンドの日時が変換できない場合nil（JSONではnull）になる。
	CreatedAt *time.Time       `json:"created_at"`
	Items     []OrderLineItems `json:"items"`
}

// DeleteOrderResponse はDELETE /orders/:id のレスポンス。
type DeleteOrderResponse struct {
	IsDeleted bool `json:"is_deleted"`
}

// ErrorResponse はエラー時の共通レスポンス。
type ErrorResponse struct {
	Error string `json:"error"`
}
