package gateway

import (
	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"github.com/nao1215/shopgate/internal/apperr"
	"github.com/nao1215/shopgate/internal/model"
	"github.com/nao1215/shopgate/pkg/middleware"
)

// bindJSON はリクエストボディをTにバインドする。
// 失敗した場合は *apperr.SerializationError を返す。
func bindJSON[T any](c *gin.Context) (T, error) {
	var req T
	if err := c.ShouldBindJSON(&req); err != nil {
		return req, &apperr.SerializationError{Err: err}
	}
	return req, nil
}

// handleLogin はPOST /auth/login のハンドラを返す。
func (s *Server) handleLogin() gin.HandlerFunc {
	return func(c *gin.Context) {
		req, err := bindJSON[model.LoginRequest](c)
		if err != nil {
			s.fail(c, err)
			return
		}
		resp, err := s.services.Auth.Login(c.Request.Context(), req)
		respond(c, s.logger, resp, err, func(r model.LoginResponse) {
			s.logger.Info("ログインに成功しました", zap.String("email", r.Email))
		})
	}
}

// handleRegister はPOST /auth/register のハンドラを返す。
func (s *Server) handleRegister() gin.HandlerFunc {
	return func(c *gin.Context) {
		req, err := bindJSON[model.RegisterRequest](c)
		if err != nil {
			s.fail(c, err)
			return
		}
		resp, err := s.services.Auth.Register(c.Request.Context(), req)
		respond(c, s.logger, resp, err, func(r model.RegisterResponse) {
			s.logger.Info("ユーザーを登録しました", zap.String("user_id", r.UserID))
		})
	}
}

// handleIsAdmin はGET /auth/is_admin/:id のハンドラを返す。
func (s *Server) handleIsAdmin() gin.HandlerFunc {
	return func(c *gin.Context) {
		userID := c.Param("id")
		resp, err := s.services.Auth.IsAdmin(c.Request.Context(), userID)
		respond(c, s.logger, resp, err, func(r model.IsAdminResponse) {
			s.logger.Debug("管理者権限を確認しました",
				zap.String("user_id", userID),
				zap.Bool("is_admin", r.IsAdmin),
				zap.String("subject", subject(c)),
			)
		})
	}
}

// handleSaveProduct はPOST /products のハンドラを返す。
func (s *Server) handleSaveProduct() gin.HandlerFunc {
	return func(c *gin.Context) {
		req, err := bindJSON[model.ProductRequest](c)
		if err != nil {
			s.fail(c, err)
			return
		}
		resp, err := s.services.Product.SaveProduct(c.Request.Context(), req)
		respond(c, s.logger, resp, err, func(r model.ProductResponse) {
			s.logger.Info("商品を登録しました", zap.String("product_id", r.ID), zap.String("subject", subject(c)))
		})
	}
}

// handleListProducts はGET /products のハンドラを返す。
func (s *Server) handleListProducts() gin.HandlerFunc {
	return func(c *gin.Context) {
		resp, err := s.services.Product.ListProducts(c.Request.Context())
		respond(c, s.logger, resp, err, func(r []model.ProductResponse) {
			s.logger.Debug("商品一覧を取得しました", zap.Int("count", len(r)))
		})
	}
}

// handleDeleteProduct はDELETE /products/:id のハンドラを返す。
func (s *Server) handleDeleteProduct() gin.HandlerFunc {
	return func(c *gin.Context) {
		id := c.Param("id")
		resp, err := s.services.Product.DeleteProduct(c.Request.Context(), id)
		respond(c, s.logger, resp, err, func(r model.DeleteProductResponse) {
			s.logger.Info("商品を削除しました", zap.String("product_id", id), zap.Bool("is_deleted", r.IsDeleted))
		})
	}
}

// handlePlaceOrder はPOST /orders のハンドラを返す。
func (s *Server) handlePlaceOrder() gin.HandlerFunc {
	return func(c *gin.Context) {
		req, err := bindJSON[model.OrderRequest](c)
		if err != nil {
			s.fail(c, err)
			return
		}
		resp, err := s.services.Order.PlaceOrder(c.Request.Context(), req)
		respond(c, s.logger, resp, err, func(r model.OrderResponse) {
			s.logger.Info("注文を受け付けました",
				zap.String("order_number", r.OrderNumber),
				zap.Int("items", len(req.Items)),
				zap.String("subject", subject(c)),
			)
		})
	}
}

// handleListOrders はGET /orders のハンドラを返す。
func (s *Server) handleListOrders() gin.HandlerFunc {
	return func(c *gin.Context) {
		resp, err := s.services.Order.ListOrders(c.Request.Context())
		respond(c, s.logger, resp, err, func(r []model.OrderEntityResponse) {
			s.logger.Debug("注文一覧を取得しました", zap.Int("count", len(r)))
		})
	}
}

// handleDeleteOrder はDELETE /orders/:id のハンドラを返す。
// パスのidは注文番号として扱う。
func (s *Server) handleDeleteOrder() gin.HandlerFunc {
	return func(c *gin.Context) {
		orderNumber := c.Param("id")
		resp, err := s.services.Order.DeleteOrder(c.Request.Context(), orderNumber)
		respond(c, s.logger, resp, err, func(r model.DeleteOrderResponse) {
			s.logger.Info("注文を削除しました", zap.String("order_number", orderNumber), zap.Bool("is_deleted", r.IsDeleted))
		})
	}
}

// subject は検証済みトークンのユーザー識別子を返す。
func subject(c *gin.Context) string {
	claims, ok := middleware.GetClaims(c)
	if !ok {
		return ""
	}
	return claims.Subject
}
