// Package config はGatewayの設定を環境変数と設定ファイルから読み込む。
//
// 環境変数は GATEWAY_ プレフィックスを持ち、キーの "." を "_" に置き換えた名前になる
// （例: auth.jwt_secret → GATEWAY_AUTH_JWT_SECRET）。環境変数は設定ファイルより優先される。
package config

import (
	"errors"
	"fmt"
	"reflect"
	"strings"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/spf13/viper"

	"github.com/nao1215/shopgate/internal/apperr"
)

// envPrefix は環境変数のプレフィックス。
const envPrefix = "GATEWAY"

// Config はGateway全体の設定。起動後は変更しない。
type Config struct {
	Server    ServerConfig    `mapstructure:"server"`
	Auth      AuthConfig      `mapstructure:"auth"`
	Backends  BackendsConfig  `mapstructure:"backends"`
	Telemetry TelemetryConfig `mapstructure:"telemetry"`
	Tracing   TracingConfig   `mapstructure:"tracing"`
}

// ServerConfig はHTTPサーバーの設定。
type ServerConfig struct {
	Port      int    `mapstructure:"port" validate:"gt=0,lt=65536"`
	LogLevel  string `mapstructure:"log_level" validate:"oneof=debug info warn error"`
	LogFormat string `mapstructure:"log_format" validate:"oneof=json console"`
	// CORSOrigins はCORSを許可するオリジン。空の場合CORSヘッダーは付与しない。
	CORSOrigins     []string      `mapstructure:"cors_origins"`
	ShutdownTimeout time.Duration `mapstructure:"shutdown_timeout" validate:"gt=0"`
}

// AuthConfig はトークン検証の設定。
type AuthConfig struct {
	// JWTSecret はトークン署名の共有秘密鍵。
	JWTSecret string `mapstructure:"jwt_secret" validate:"required"`
}

// BackendsConfig はバックエンドgRPCサービスの設定。
type BackendsConfig struct {
	Auth    string `mapstructure:"auth" validate:"required"`
	Product string `mapstructure:"product" validate:"required"`
	Order   string `mapstructure:"order" validate:"required"`
	// AuthAppID はログイン時に認証サービスへ渡すアプリケーションID。
	AuthAppID int32 `mapstructure:"auth_app_id"`
	// DialTimeout は起動時の接続確立を待つ時間。
	DialTimeout time.Duration `mapstructure:"dial_timeout" validate:"gt=0"`
	// CallTimeout は1回のRPCの上限時間。0の場合はリクエストのコンテキストに従う。
	CallTimeout time.Duration `mapstructure:"call_timeout" validate:"gte=0"`
}

// TelemetryConfig はメトリクス送信先（InfluxDB v2）の設定。
type TelemetryConfig struct {
	URL     string        `mapstructure:"url" validate:"required,url"`
	Token   string        `mapstructure:"token" validate:"required"`
	Org     string        `mapstructure:"org" validate:"required"`
	Bucket  string        `mapstructure:"bucket" validate:"required"`
	Timeout time.Duration `mapstructure:"timeout" validate:"gt=0"`
}

// TracingConfig はOpenTelemetryの設定。
type TracingConfig struct {
	// OTLPEndpoint が空の場合トレースは送信しない。
	OTLPEndpoint string  `mapstructure:"otlp_endpoint"`
	SampleRate   float64 `mapstructure:"sample_rate" validate:"gte=0,lte=1"`
}

// defaults は任意設定の既定値。
var defaults = map[string]any{
	"server.port":             8085,
	"server.log_level":        "info",
	"server.log_format":       "json",
	"server.cors_origins":     []string{},
	"server.shutdown_timeout": 10 * time.Second,
	"backends.auth_app_id":    -1,
	"backends.dial_timeout":   5 * time.Second,
	"backends.call_timeout":   time.Duration(0),
	"telemetry.timeout":       5 * time.Second,
	"tracing.otlp_endpoint":   "",
	"tracing.sample_rate":     1.0,
}

// requiredKeys は既定値を持たない設定キー。環境変数から読めるように明示的にバインドする。
var requiredKeys = []string{
	"auth.jwt_secret",
	"backends.auth",
	"backends.product",
	"backends.order",
	"telemetry.url",
	"telemetry.token",
	"telemetry.org",
	"telemetry.bucket",
}

// Load は設定を読み込んで検証する。pathが空でなければYAML等の設定ファイルも読む。
// 必須設定の欠落はapperr.ConfigErrorとして返す。
func Load(path string) (*Config, error) {
	v := viper.New()
	v.SetEnvPrefix(envPrefix)
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	for key, value := range defaults {
		v.SetDefault(key, value)
	}
	for _, key := range requiredKeys {
		if err := v.BindEnv(key); err != nil {
			return nil, fmt.Errorf("環境変数のバインドに失敗: %w", err)
		}
	}

	if path != "" {
		v.SetConfigFile(path)
		if err := v.ReadInConfig(); err != nil {
			return nil, fmt.Errorf("設定ファイル %s の読み込みに失敗: %w", path, err)
		}
	}

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, fmt.Errorf("設定のデコードに失敗: %w", err)
	}

	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return &cfg, nil
}

// Validate は設定値を検証する。不正な項目ごとにapperr.ConfigErrorを返す。
func (c *Config) Validate() error {
	validate := validator.New(validator.WithRequiredStructEnabled())
	validate.RegisterTagNameFunc(func(f reflect.StructField) string {
		name, _, _ := strings.Cut(f.Tag.Get("mapstructure"), ",")
		return name
	})

	err := validate.Struct(c)
	if err == nil {
		return nil
	}

	var verrs validator.ValidationErrors
	if !errors.As(err, &verrs) {
		return fmt.Errorf("設定の検証に失敗: %w", err)
	}

	errs := make([]error, 0, len(verrs))
	for _, fe := range verrs {
		errs = append(errs, &apperr.ConfigError{
			Key:    configKey(fe.Namespace()),
			Reason: fe.Tag(),
		})
	}
	return errors.Join(errs...)
}

// configKey は "Config.auth.jwt_secret" を "auth.jwt_secret" に変換する。
func configKey(namespace string) string {
	_, key, found := strings.Cut(namespace, ".")
	if !found {
		return namespace
	}
	return key
}
