// Package proxy はREST側のモデルとバックエンドgRPCサービスの間を変換するプロキシを提供する。
//
// バックエンドごとに1つの接続を起動時に確立し、プロセス全体で共有する。
// プロキシは入力を再検証せず、フィールドの対応付けのみを行う。
// RPCの失敗はすべて *apperr.BackendError として返し、内部でリトライはしない。
package proxy

import (
	"context"
	"fmt"
	"strings"
	"time"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	otelcodes "go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"
	"google.golang.org/grpc"
	"google.golang.org/grpc/connectivity"
	"google.golang.org/grpc/credentials/insecure"
	"google.golang.org/grpc/keepalive"
	"google.golang.org/grpc/metadata"
	"google.golang.org/grpc/status"

	"github.com/nao1215/shopgate/internal/apperr"
	"github.com/nao1215/shopgate/internal/observability"
	"github.com/nao1215/shopgate/internal/wire"
)

// tracerName はバックエンド呼び出しのスパンを作るトレーサー名。
const tracerName = "github.com/nao1215/shopgate/internal/proxy"

// DialOption はDialの動作を変更する。
type DialOption func(*dialOptions)

type dialOptions struct {
	metrics *observability.Metrics
	extra   []grpc.DialOption
}

// WithMetrics はRPCごとのPrometheusメトリクスを記録する。
func WithMetrics(m *observability.Metrics) DialOption {
	return func(o *dialOptions) {
		o.metrics = m
	}
}

// WithGRPCOptions は追加のgrpc.DialOptionを指定する。
// テストでbufconnのダイアラーを差し込むために使用する。
func WithGRPCOptions(opts ...grpc.DialOption) DialOption {
	return func(o *dialOptions) {
		o.extra = append(o.extra, opts...)
	}
}

// Dial はバックエンドへの接続を確立し、Readyになるまで待つ。
// timeout以内に接続できない場合は *apperr.ConnectionError を返す。
// backendはメトリクスとスパンのラベルに使う名前（auth, product, order）。
func Dial(ctx context.Context, backend, target string, timeout time.Duration, opts ...DialOption) (*grpc.ClientConn, error) {
	o := &dialOptions{}
	for _, opt := range opts {
		opt(o)
	}

	dialOpts := []grpc.DialOption{
		grpc.WithTransportCredentials(insecure.NewCredentials()),
		grpc.WithDefaultCallOptions(grpc.ForceCodec(wire.Codec{})),
		grpc.WithKeepaliveParams(keepalive.ClientParameters{
			Time:                30 * time.Second,
			Timeout:             10 * time.Second,
			PermitWithoutStream: true,
		}),
		grpc.WithChainUnaryInterceptor(
			tracingInterceptor(backend),
			metricsInterceptor(backend, o.metrics),
		),
	}
	dialOpts = append(dialOpts, o.extra...)

	conn, err := grpc.NewClient(target, dialOpts...)
	if err != nil {
		return nil, &apperr.ConnectionError{Target: target, Err: err}
	}

	if err := waitReady(ctx, conn, timeout); err != nil {
		_ = conn.Close()
		return nil, &apperr.ConnectionError{Target: target, Err: err}
	}
	return conn, nil
}

// waitReady は接続状態がReadyになるまで待つ。
func waitReady(ctx context.Context, conn *grpc.ClientConn, timeout time.Duration) error {
	ctx, cancel := context.WithTimeout(ctx, timeout)
	defer cancel()

	conn.Connect()
	for {
		state := conn.GetState()
		if state == connectivity.Ready {
			return nil
		}
		if !conn.WaitForStateChange(ctx, state) {
			return fmt.Errorf("接続待ちがタイムアウトしました（最終状態: %s）: %w", state, ctx.Err())
		}
	}
}

// metricsInterceptor はRPCの結果と所要時間を記録する。
func metricsInterceptor(backend string, m *observability.Metrics) grpc.UnaryClientInterceptor {
	return func(ctx context.Context, method string, req, reply any, cc *grpc.ClientConn, invoker grpc.UnaryInvoker, opts ...grpc.CallOption) error {
		if m == nil {
			return invoker(ctx, method, req, reply, cc, opts...)
		}
		start := time.Now()
		err := invoker(ctx, method, req, reply, cc, opts...)
		m.ObserveBackendCall(backend, method, status.Code(err).String(), time.Since(start))
		return err
	}
}

// tracingInterceptor はクライアントスパンを作り、トレースコンテキストをメタデータに載せる。
func tracingInterceptor(backend string) grpc.UnaryClientInterceptor {
	return func(ctx context.Context, method string, req, reply any, cc *grpc.ClientConn, invoker grpc.UnaryInvoker, opts ...grpc.CallOption) error {
		service, rpcMethod := splitFullMethod(method)
		ctx, span := otel.Tracer(tracerName).Start(ctx, method,
			trace.WithSpanKind(trace.SpanKindClient),
			trace.WithAttributes(
				attribute.String("rpc.system", "grpc"),
				attribute.String("rpc.service", service),
				attribute.String("rpc.method", rpcMethod),
				attribute.String("shopgate.backend", backend),
			),
		)
		defer span.End()

		md, ok := metadata.FromOutgoingContext(ctx)
		if ok {
			md = md.Copy()
		} else {
			md = metadata.MD{}
		}
		otel.GetTextMapPropagator().Inject(ctx, metadataCarrier(md))
		ctx = metadata.NewOutgoingContext(ctx, md)

		err := invoker(ctx, method, req, reply, cc, opts...)
		code := status.Code(err)
		span.SetAttributes(attribute.Int("rpc.grpc.status_code", int(code)))
		if err != nil {
			span.SetStatus(otelcodes.Error, err.Error())
			span.RecordError(err)
		}
		return err
	}
}

// splitFullMethod は "/auth.Auth/Login" を ("auth.Auth", "Login") に分割する。
func splitFullMethod(fullMethod string) (string, string) {
	service, method, found := strings.Cut(strings.TrimPrefix(fullMethod, "/"), "/")
	if !found {
		return "", fullMethod
	}
	return service, method
}

// metadataCarrier はgRPCメタデータをpropagation.TextMapCarrierとして扱う。
type metadataCarrier metadata.MD

func (mc metadataCarrier) Get(key string) string {
	vals := metadata.MD(mc).Get(key)
	if len(vals) == 0 {
		return ""
	}
	return vals[0]
}

func (mc metadataCarrier) Set(key, value string) {
	metadata.MD(mc).Set(key, value)
}

func (mc metadataCarrier) Keys() []string {
	keys := make([]string, 0, len(mc))
	for k := range mc {
		keys = append(keys, k)
	}
	return keys
}

// invoke はタイムアウトを適用してRPCを呼び出し、失敗をBackendErrorに変換する。
func invoke(ctx context.Context, conn grpc.ClientConnInterface, timeout time.Duration, op, method string, in, out wire.Message) error {
	if timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, timeout)
		defer cancel()
	}
	if err := conn.Invoke(ctx, method, in, out, grpc.ForceCodec(wire.Codec{})); err != nil {
		return apperr.NewBackendError(op, err)
	}
	return nil
}
