// Package apperr はGatewayが扱うエラーの分類を定義する。
//
// 分類ごとに独立したエラー型を持ち、HTTPステータスへの変換は
// gatewayパッケージのレスポンス変換関数だけが行う。
// 認証エラーはmiddlewareパッケージ内で完結するため、ここには含まない。
package apperr

import (
	"fmt"

	"google.golang.org/grpc/status"
)

// ConfigError は起動時に必須設定が欠けていることを表す。
// プロセスはトラフィックを受け付ける前に終了する。
type ConfigError struct {
	// Key は欠けている、または不正な設定キー。
	Key string
	// Reason は検証に失敗した理由（validatorのタグ名など）。
	Reason string
}

func (e *ConfigError) Error() string {
	if e.Reason == "" {
		return fmt.Sprintf("設定 %s が不正です", e.Key)
	}
	return fmt.Sprintf("設定 %s が不正です: %s", e.Key, e.Reason)
}

// ConnectionError は起動時にバックエンドへ接続できなかったことを表す。
type ConnectionError struct {
	// Target は接続先アドレス。
	Target string
	// Err は元のエラー。
	Err error
}

func (e *ConnectionError) Error() string {
	return fmt.Sprintf("%s への接続に失敗: %v", e.Target, e.Err)
}

func (e *ConnectionError) Unwrap() error {
	return e.Err
}

// BackendError はバックエンドのRPC呼び出しがエラーステータスを返したことを表す。
// 資格情報やリクエストボディは保持しない。
type BackendError struct {
	// Operation は失敗した呼び出しの名前（例: "save_product"）。
	Operation string
	// Status はバックエンドが返したgRPCステータス。
	Status *status.Status
}

// NewBackendError はRPC呼び出しのエラーからBackendErrorを生成する。
// gRPCステータスを持たないエラーはcodes.Unknownとして扱われる。
func NewBackendError(operation string, err error) *BackendError {
	return &BackendError{
		Operation: operation,
		Status:    status.Convert(err),
	}
}

func (e *BackendError) Error() string {
	return fmt.Sprintf("%s failed: %s", e.Operation, e.StatusText())
}

// StatusText はバックエンドステータスを "code=..., message=..." 形式で返す。
func (e *BackendError) StatusText() string {
	if e.Status == nil {
		return "code=Unknown, message="
	}
	return fmt.Sprintf("code=%s, message=%s", e.Status.Code(), e.Status.Message())
}

// SerializationError はリクエストボディの読み取りや変換に失敗したことを表す。
type SerializationError struct {
	Err error
}

func (e *SerializationError) Error() string {
	return fmt.Sprintf("リクエストの変換に失敗: %v", e.Err)
}

func (e *SerializationError) Unwrap() error {
	return e.Err
}
