package gateway

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/nao1215/shopgate/internal/model"
	"github.com/nao1215/shopgate/pkg/middleware"
)

// route はURLとメソッドの組をハンドラとInterceptorの並びに結び付ける。
type route struct {
	method string
	path   string
	// protected がtrueのルートはトークンの検証を必須とする。
	protected bool
	handler   gin.HandlerFunc
}

// routes はGatewayが公開するREST APIの一覧。
func (s *Server) routes() []route {
	return []route{
		{method: http.MethodPost, path: "/auth/login", handler: s.handleLogin()},
		{method: http.MethodPost, path: "/auth/register", handler: s.handleRegister()},
		{method: http.MethodGet, path: "/auth/is_admin/:id", protected: true, handler: s.handleIsAdmin()},

		{method: http.MethodPost, path: "/products", protected: true, handler: s.handleSaveProduct()},
		{method: http.MethodGet, path: "/products", protected: true, handler: s.handleListProducts()},
		{method: http.MethodDelete, path: "/products/:id", protected: true, handler: s.handleDeleteProduct()},

		{method: http.MethodPost, path: "/orders", protected: true, handler: s.handlePlaceOrder()},
		{method: http.MethodGet, path: "/orders", protected: true, handler: s.handleListOrders()},
		{method: http.MethodDelete, path: "/orders/:id", protected: true, handler: s.handleDeleteOrder()},
	}
}

// chainFor はルートに束縛するInterceptorの並びを返す。
// 保護されたルートではトークン検証がメトリクス記録より外側になる。
func (s *Server) chainFor(protected bool) middleware.Chain {
	telemetry := middleware.Telemetry(s.publisher, s.now)
	if protected {
		return middleware.NewChain(middleware.JWTAuth(s.jwtSecret, s.now), telemetry)
	}
	return middleware.NewChain(telemetry)
}

// setupRoutes はAPIルーティングを設定する。
func (s *Server) setupRoutes() {
	for _, r := range s.routes() {
		s.router.Handle(r.method, r.path, s.chainFor(r.protected).Then(r.handler))
	}

	// ヘルスチェック
	s.router.GET("/health", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"status": "ok", "service": "gateway"})
	})

	if s.metrics != nil {
		s.router.GET("/metrics", gin.WrapH(s.metrics))
	}

	s.router.NoRoute(func(c *gin.Context) {
		c.JSON(http.StatusNotFound, model.ErrorResponse{Error: "Not Found"})
	})
}
