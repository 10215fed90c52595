package gateway

import (
	"context"
	"errors"
	"fmt"

	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"
	"google.golang.org/grpc"

	"github.com/nao1215/shopgate/internal/config"
	"github.com/nao1215/shopgate/internal/observability"
	"github.com/nao1215/shopgate/internal/proxy"
	"github.com/nao1215/shopgate/pkg/telemetry"
)

// serviceName はトレースとメトリクスに使うサービス名。
const serviceName = "shopgate"

// App は起動済みのGatewayとその後始末をまとめたもの。
type App struct {
	// Server はHTTPサーバー。
	Server *Server
	// conns はバックエンドへの接続。
	conns []*grpc.ClientConn
	// shutdownTracer はトレースプロバイダの停止処理。
	shutdownTracer observability.ShutdownFunc
	logger         *zap.Logger
}

// Build は設定からGatewayを組み立てる。
// バックエンドへの接続はすべて並行に確立し、1つでも失敗した場合はエラーを返す。
func Build(ctx context.Context, cfg *config.Config, logger *zap.Logger) (*App, error) {
	_, shutdownTracer, err := observability.NewTracerProvider(ctx, observability.TracerConfig{
		ServiceName:  serviceName,
		OTLPEndpoint: cfg.Tracing.OTLPEndpoint,
		SampleRate:   cfg.Tracing.SampleRate,
	})
	if err != nil {
		return nil, fmt.Errorf("トレースの初期化に失敗: %w", err)
	}

	metrics := observability.NewMetrics(serviceName)

	targets := []struct {
		name   string
		target string
	}{
		{name: "auth", target: cfg.Backends.Auth},
		{name: "product", target: cfg.Backends.Product},
		{name: "order", target: cfg.Backends.Order},
	}
	conns := make([]*grpc.ClientConn, len(targets))

	eg, egCtx := errgroup.WithContext(ctx)
	for i, t := range targets {
		eg.Go(func() error {
			conn, err := proxy.Dial(egCtx, t.name, t.target, cfg.Backends.DialTimeout, proxy.WithMetrics(metrics))
			if err != nil {
				return fmt.Errorf("%sサービスへの接続に失敗: %w", t.name, err)
			}
			logger.Info("バックエンドに接続しました", zap.String("backend", t.name), zap.String("target", t.target))
			conns[i] = conn
			return nil
		})
	}
	if err := eg.Wait(); err != nil {
		closeConns(conns)
		_ = shutdownTracer(context.Background())
		return nil, err
	}

	callTimeout := cfg.Backends.CallTimeout
	services := Services{
		Auth:    proxy.NewAuthProxy(conns[0], cfg.Backends.AuthAppID, callTimeout),
		Product: proxy.NewProductProxy(conns[1], callTimeout),
		Order:   proxy.NewOrderProxy(conns[2], callTimeout),
	}

	sink := telemetry.NewInfluxSink(
		cfg.Telemetry.URL,
		cfg.Telemetry.Token,
		cfg.Telemetry.Org,
		cfg.Telemetry.Bucket,
		cfg.Telemetry.Timeout,
	)

	server := NewServer(services, Options{
		Port:            cfg.Server.Port,
		JWTSecret:       []byte(cfg.Auth.JWTSecret),
		CORSOrigins:     cfg.Server.CORSOrigins,
		Publisher:       telemetry.NewPublisher(sink, logger),
		MetricsHandler:  metrics.Handler(),
		Logger:          logger,
		ShutdownTimeout: cfg.Server.ShutdownTimeout,
	})

	return &App{
		Server:         server,
		conns:          conns,
		shutdownTracer: shutdownTracer,
		logger:         logger,
	}, nil
}

// Close はバックエンドへの接続とトレースプロバイダを停止する。
func (a *App) Close(ctx context.Context) error {
	var errs []error
	for _, conn := range a.conns {
		if err := conn.Close(); err != nil {
			errs = append(errs, err)
		}
	}
	if err := a.shutdownTracer(ctx); err != nil {
		errs = append(errs, fmt.Errorf("トレースの停止に失敗: %w", err))
	}
	if len(errs) > 0 {
		a.logger.Warn("終了処理でエラーが発生しました", zap.Errors("errors", errs))
	}
	return errors.Join(errs...)
}

func closeConns(conns []*grpc.ClientConn) {
	for _, conn := range conns {
		if conn != nil {
			_ = conn.Close()
		}
	}
}
