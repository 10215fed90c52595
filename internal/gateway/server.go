package gateway

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"github.com/nao1215/shopgate/pkg/middleware"
	"github.com/nao1215/shopgate/pkg/telemetry"
)

// Options はServerの生成に必要な設定。
type Options struct {
	// Port はHTTPサーバーのリッスンポート。
	Port int
	// JWTSecret はトークン検証に使う共有シークレット。
	JWTSecret []byte
	// CORSOrigins はクロスオリジンを許可するオリジンのリスト。
	CORSOrigins []string
	// Publisher はリクエストごとのメトリクスの送信先。
	Publisher middleware.RecordPublisher
	// MetricsHandler は /metrics で公開するハンドラ。nilの場合は公開しない。
	MetricsHandler http.Handler
	// Logger はアクセスログとエラーログの出力先。
	Logger *zap.Logger
	// Clock は現在時刻を返す。nilの場合はtime.Nowを使う。
	Clock func() time.Time
	// ShutdownTimeout はグレースフルシャットダウンの待ち時間。
	ShutdownTimeout time.Duration
}

// Server はAPI GatewayのHTTPサーバー。
type Server struct {
	// router はGinのHTTPルーター。
	router *gin.Engine
	// port はサーバーのリッスンポート。
	port int
	// services はバックエンドプロキシの集合。
	services Services
	// logger はサーバー全体で共有するロガー。
	logger *zap.Logger
	// jwtSecret はトークン検証に使う共有シークレット。
	jwtSecret []byte
	// publisher はメトリクスの送信先。
	publisher middleware.RecordPublisher
	// metrics は /metrics のハンドラ。
	metrics http.Handler
	// now は現在時刻を返す。
	now func() time.Time
	// shutdownTimeout はグレースフルシャットダウンの待ち時間。
	shutdownTimeout time.Duration
}

// NewServer は新しいGatewayサーバーを生成し、ルートを登録する。
// ルートとInterceptorの組み合わせはここで確定し、以降は変更されない。
func NewServer(services Services, opts Options) *Server {
	logger := opts.Logger
	if logger == nil {
		logger = zap.NewNop()
	}
	now := opts.Clock
	if now == nil {
		now = time.Now
	}
	publisher := opts.Publisher
	if publisher == nil {
		publisher = discardPublisher{}
	}
	shutdownTimeout := opts.ShutdownTimeout
	if shutdownTimeout <= 0 {
		shutdownTimeout = 10 * time.Second
	}

	router := gin.New()
	router.Use(middleware.RequestID())
	router.Use(middleware.Recovery(logger))
	router.Use(middleware.RequestLogger(logger))
	router.Use(middleware.CORS(opts.CORSOrigins))

	s := &Server{
		router:          router,
		port:            opts.Port,
		services:        services,
		logger:          logger,
		jwtSecret:       opts.JWTSecret,
		publisher:       publisher,
		metrics:         opts.MetricsHandler,
		now:             now,
		shutdownTimeout: shutdownTimeout,
	}
	s.setupRoutes()

	return s
}

// Handler はサーバーのhttp.Handlerを返す。
func (s *Server) Handler() http.Handler {
	return s.router
}

// Run はHTTPサーバーを起動し、ctxがキャンセルされるとグレースフルシャットダウンする。
func (s *Server) Run(ctx context.Context) error {
	srv := &http.Server{
		Addr:              fmt.Sprintf(":%d", s.port),
		Handler:           s.router,
		ReadHeaderTimeout: 10 * time.Second,
	}

	errCh := make(chan error, 1)
	go func() {
		s.logger.Info("HTTPサーバーを起動します", zap.String("addr", srv.Addr))
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- err
		}
		close(errCh)
	}()

	select {
	case err, ok := <-errCh:
		if ok {
			return fmt.Errorf("HTTPサーバーの起動に失敗: %w", err)
		}
		return nil
	case <-ctx.Done():
	}

	s.logger.Info("HTTPサーバーを停止します", zap.Duration("timeout", s.shutdownTimeout))
	shutdownCtx, cancel := context.WithTimeout(context.Background(), s.shutdownTimeout)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		return fmt.Errorf("HTTPサーバーの停止に失敗: %w", err)
	}
	return nil
}

// discardPublisher は記録を捨てるRecordPublisher。
type discardPublisher struct{}

func (discardPublisher) Publish(telemetry.Record) {}
