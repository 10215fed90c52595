package gateway

import (
	"context"
	"io"
	"net"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"google.golang.org/grpc"
	"google.golang.org/grpc/codes"
	"google.golang.org/grpc/status"

	"github.com/nao1215/shopgate/internal/apperr"
	"github.com/nao1215/shopgate/internal/config"
	"github.com/nao1215/shopgate/internal/wire"
	"github.com/nao1215/shopgate/pkg/middleware"
)

// serveBackend は全バックエンドのメソッドに応答するgRPCサーバーをTCPで起動する。
func serveBackend(t *testing.T) string {
	t.Helper()

	lis, err := net.Listen("tcp", "127.0.0.1:0")
	require.NoError(t, err)

	srv := grpc.NewServer(
		grpc.ForceServerCodec(wire.Codec{}),
		grpc.UnknownServiceHandler(func(_ any, stream grpc.ServerStream) error {
			method, _ := grpc.MethodFromServerStream(stream)
			switch method {
			case wire.MethodLogin:
				req := &wire.LoginRequest{}
				if err := stream.RecvMsg(req); err != nil {
					return err
				}
				return stream.SendMsg(&wire.LoginResponse{Token: "token-for-" + req.Email})
			case wire.MethodGetProductList:
				if err := stream.RecvMsg(&wire.Empty{}); err != nil {
					return err
				}
				return stream.SendMsg(&wire.ProductList{Products: []wire.ProductResponse{
					{ID: "p-1", Name: "A1", Current: "EUR", Price: 500},
				}})
			default:
				return status.Errorf(codes.Unimplemented, "%s is not implemented", method)
			}
		}),
	)
	go func() { _ = srv.Serve(lis) }()
	t.Cleanup(srv.Stop)

	return lis.Addr().String()
}

func testConfig(backend, influxURL string) *config.Config {
	return &config.Config{
		Server: config.ServerConfig{
			Port:            0,
			ShutdownTimeout: time.Second,
		},
		Auth: config.AuthConfig{JWTSecret: "integration-secret"},
		Backends: config.BackendsConfig{
			Auth:        backend,
			Product:     backend,
			Order:       backend,
			AuthAppID:   -1,
			DialTimeout: 5 * time.Second,
		},
		Telemetry: config.TelemetryConfig{
			URL:     influxURL,
			Token:   "influx-token",
			Org:     "shop",
			Bucket:  "gateway",
			Timeout: time.Second,
		},
		Tracing: config.TracingConfig{SampleRate: 1},
	}
}

func TestBuild(t *testing.T) {
	t.Parallel()

	t.Run("HTTPからgRPCバックエンドまで通りメトリクスが送信されること", func(t *testing.T) {
		t.Parallel()

		lines := make(chan string, 8)
		influx := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			body, _ := io.ReadAll(r.Body)
			lines <- string(body)
			w.WriteHeader(http.StatusNoContent)
		}))
		defer influx.Close()

		app, err := Build(context.Background(), testConfig(serveBackend(t), influx.URL), zap.NewNop())
		require.NoError(t, err)
		defer func() { assert.NoError(t, app.Close(context.Background())) }()

		req := httptest.NewRequest(http.MethodPost, "/auth/login", strings.NewReader(`{"email":"a@example.com","password":"pw"}`))
		req.Header.Set("Content-Type", "application/json")
		w := httptest.NewRecorder()
		app.Server.Handler().ServeHTTP(w, req)

		require.Equal(t, http.StatusOK, w.Code, "body=%s", w.Body.String())
		assert.JSONEq(t, `{"email":"a@example.com","token":"token-for-a@example.com"}`, w.Body.String())

		token, err := middleware.IssueToken([]byte("integration-secret"), middleware.Claims{
			Subject: "user-1",
			Expiry:  time.Now().Add(time.Hour),
		})
		require.NoError(t, err)

		req = httptest.NewRequest(http.MethodGet, "/products", nil)
		req.Header.Set("Authorization", "Bearer "+token)
		w = httptest.NewRecorder()
		app.Server.Handler().ServeHTTP(w, req)

		require.Equal(t, http.StatusOK, w.Code, "body=%s", w.Body.String())
		assert.JSONEq(t, `[{"id":"p-1","name":"A1","description":"","currency":"EUR","price":500}]`, w.Body.String())

		var got []string
		require.Eventually(t, func() bool {
			for {
				select {
				case line := <-lines:
					got = append(got, line)
				default:
					return len(got) == 2
				}
			}
		}, 2*time.Second, 10*time.Millisecond)
		joined := strings.Join(got, "\n")
		assert.Contains(t, joined, "http_requests_gateway,method=POST,request_path=/auth/login,status=200")
		assert.Contains(t, joined, "http_requests_gateway,method=GET,request_path=/products,status=200")
	})

	t.Run("バックエンドに接続できない場合ConnectionErrorになること", func(t *testing.T) {
		t.Parallel()

		cfg := testConfig("127.0.0.1:1", "http://127.0.0.1:1")
		cfg.Backends.DialTimeout = 300 * time.Millisecond

		_, err := Build(context.Background(), cfg, zap.NewNop())

		var connErr *apperr.ConnectionError
		require.ErrorAs(t, err, &connErr)
		assert.Equal(t, "127.0.0.1:1", connErr.Target)
	})
}
