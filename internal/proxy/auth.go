package proxy

import (
	"context"
	"time"

	"google.golang.org/grpc"

	"github.com/nao1215/shopgate/internal/model"
	"github.com/nao1215/shopgate/internal/wire"
)

// AuthProxy は認証サービスへのプロキシ。
type AuthProxy struct {
	conn        grpc.ClientConnInterface
	appID       int32
	callTimeout time.Duration
}

// NewAuthProxy は新しいAuthProxyを生成する。
// appIDはLoginリクエストに付与するアプリケーションID。
func NewAuthProxy(conn grpc.ClientConnInterface, appID int32, callTimeout time.Duration) *AuthProxy {
	return &AuthProxy{
		conn:        conn,
		appID:       appID,
		callTimeout: callTimeout,
	}
}

// Login はメールアドレスとパスワードでトークンを取得する。
func (p *AuthProxy) Login(ctx context.Context, req model.LoginRequest) (model.LoginResponse, error) {
	in := &wire.LoginRequest{
		Email:    req.Email,
		Password: req.Password,
		AppID:    p.appID,
	}
	out := &wire.LoginResponse{}
	if err := invoke(ctx, p.conn, p.callTimeout, "login", wire.MethodLogin, in, out); err != nil {
		return model.LoginResponse{}, err
	}
	return model.LoginResponse{
		Email: req.Email,
		Token: out.Token,
	}, nil
}

// Register はユーザーを登録する。
func (p *AuthProxy) Register(ctx context.Context, req model.RegisterRequest) (model.RegisterResponse, error) {
	in := &wire.RegisterRequest{
		Email:    req.Email,
		Password: req.Password,
	}
	out := &wire.RegisterResponse{}
	if err := invoke(ctx, p.conn, p.callTimeout, "register", wire.MethodRegister, in, out); err != nil {
		return model.RegisterResponse{}, err
	}
	return model.RegisterResponse{UserID: out.UserID}, nil
}

// IsAdmin はユーザーが管理者かどうかを問い合わせる。
func (p *AuthProxy) IsAdmin(ctx context.Context, userID string) (model.IsAdminResponse, error) {
	out := &wire.IsAdminResponse{}
	if err := invoke(ctx, p.conn, p.callTimeout, "is_admin", wire.MethodIsAdmin, &wire.IsAdminRequest{UserID: userID}, out); err != nil {
		return model.IsAdminResponse{}, err
	}
	return model.IsAdminResponse{IsAdmin: out.IsAdmin}, nil
}
