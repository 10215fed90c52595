// API Gatewayのエントリポイント。
// REST/JSONのリクエストを受け付け、認証・商品・注文の各gRPCバックエンドへ転送する。
// 外部からアクセス可能な唯一のサービスであり、セキュリティの境界線となる。
package main

import (
	"context"
	"errors"
	"fmt"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/nao1215/shopgate/internal/config"
	"github.com/nao1215/shopgate/internal/gateway"
	"github.com/nao1215/shopgate/internal/observability"
	"github.com/nao1215/shopgate/pkg/middleware"
)

func main() {
	if err := newRootCmd().Execute(); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}

// newRootCmd はgatewayコマンドを生成する。サブコマンドなしで実行するとサーバーを起動する。
func newRootCmd() *cobra.Command {
	rootCmd := &cobra.Command{
		Use:   "gateway",
		Short: "REST → gRPC API Gateway",
		Long: `REST/JSONのリクエストを認証・商品・注文のgRPCバックエンドへ転送するAPI Gateway。

設定は GATEWAY_ で始まる環境変数、または --config で指定したファイルから読み込む。
例: GATEWAY_AUTH_JWT_SECRET, GATEWAY_BACKENDS_AUTH, GATEWAY_TELEMETRY_URL`,
		SilenceUsage: true,
		RunE:         runServe,
	}
	rootCmd.PersistentFlags().StringP("config", "c", "", "設定ファイルのパス（YAML/JSON/TOML）")

	rootCmd.AddCommand(newServeCmd(), newTokenCmd())
	return rootCmd
}

func newServeCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "serve",
		Short: "Gatewayサーバーを起動する",
		RunE:  runServe,
	}
}

// runServe は設定を読み込み、シグナルを受けるまでサーバーを実行する。
func runServe(cmd *cobra.Command, _ []string) error {
	configPath, err := cmd.Flags().GetString("config")
	if err != nil {
		return fmt.Errorf("configフラグの取得に失敗: %w", err)
	}

	cfg, err := config.Load(configPath)
	if err != nil {
		return err
	}

	logger, err := observability.NewLogger(observability.LogConfig{
		Level:  cfg.Server.LogLevel,
		Format: cfg.Server.LogFormat,
	})
	if err != nil {
		return err
	}
	defer func() { _ = logger.Sync() }()

	ctx, stop := signal.NotifyContext(cmd.Context(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	app, err := gateway.Build(ctx, cfg, logger)
	if err != nil {
		logger.Error("Gatewayの初期化に失敗しました", zap.Error(err))
		return err
	}
	defer func() {
		closeCtx, cancel := context.WithTimeout(context.Background(), cfg.Server.ShutdownTimeout)
		defer cancel()
		_ = app.Close(closeCtx)
	}()

	logger.Info("Gatewayを起動します", zap.Int("port", cfg.Server.Port))
	if err := app.Server.Run(ctx); err != nil {
		logger.Error("Gatewayが異常終了しました", zap.Error(err))
		return err
	}
	logger.Info("Gatewayを停止しました")
	return nil
}

// newTokenCmd は開発用のトークンを発行するサブコマンドを生成する。
func newTokenCmd() *cobra.Command {
	var (
		secret  string
		subject string
		tenant  string
		ttl     time.Duration
	)

	cmd := &cobra.Command{
		Use:   "token",
		Short: "開発用のJWTトークンを発行する",
		RunE: func(cmd *cobra.Command, _ []string) error {
			if secret == "" {
				secret = os.Getenv("GATEWAY_AUTH_JWT_SECRET")
			}
			if secret == "" {
				return errors.New("--secret または GATEWAY_AUTH_JWT_SECRET を指定してください")
			}
			if subject == "" {
				return errors.New("--subject を指定してください")
			}

			token, err := middleware.IssueToken([]byte(secret), middleware.Claims{
				Subject: subject,
				Tenant:  tenant,
				Expiry:  time.Now().Add(ttl),
			})
			if err != nil {
				return err
			}
			_, err = fmt.Fprintln(cmd.OutOrStdout(), token)
			return err
		},
	}
	cmd.Flags().StringVar(&secret, "secret", "", "署名に使う共有シークレット（省略時は GATEWAY_AUTH_JWT_SECRET）")
	cmd.Flags().StringVar(&subject, "subject", "", "トークンのsub")
	cmd.Flags().StringVar(&tenant, "tenant", "", "トークンのcompany")
	cmd.Flags().DurationVar(&ttl, "ttl", 24*time.Hour, "有効期間")
	return cmd
}
