package httpclient

import (
	"context"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"
)

// defaultTimeout はリクエスト全体のタイムアウトの既定値。
const defaultTimeout = 5 * time.Second

// Client はメトリクス送信先などの外部HTTPエンドポイントへ書き込むクライアント。
// 生成後は変更されないため、複数のゴルーチンから共有してよい。
type Client struct {
	// httpClient は内部で使用するHTTPクライアント。
	httpClient *http.Client
	// baseURL は接続先のベースURL。
	baseURL string
	// authorization はAuthorizationヘッダーの値。空の場合は付与しない。
	authorization string
}

// Option はClientの設定を変更する関数。
type Option func(*Client)

// WithTimeout はリクエストのタイムアウトを設定する。
func WithTimeout(d time.Duration) Option {
	return func(c *Client) {
		c.httpClient.Timeout = d
	}
}

// WithToken は "Authorization: <scheme> <token>" ヘッダーを付与する。
// InfluxDB v2 では scheme に "Token" を指定する。
func WithToken(scheme, token string) Option {
	return func(c *Client) {
		c.authorization = scheme + " " + token
	}
}

// New は新しいクライアントを生成する。
// baseURLには接続先のベースURL（例: "http://influxdb:8086"）を指定する。
func New(baseURL string, opts ...Option) *Client {
	c := &Client{
		httpClient: &http.Client{
			Timeout: defaultTimeout,
		},
		baseURL: strings.TrimRight(baseURL, "/"),
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// PostText は指定パスにtext/plainのボディでPOSTリクエストを送信する。
// 2xx以外のステータスはエラーとして返す。
func (c *Client) PostText(ctx context.Context, path string, query url.Values, body string) error {
	target := c.baseURL + path
	if len(query) > 0 {
		target += "?" + query.Encode()
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, target, strings.NewReader(body))
	if err != nil {
		return fmt.Errorf("HTTPリクエストの作成に失敗: %w", err)
	}
	req.Header.Set("Content-Type", "text/plain; charset=utf-8")
	if c.authorization != "" {
		req.Header.Set("Authorization", c.authorization)
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return fmt.Errorf("HTTPリクエストの送信に失敗: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		respBody, _ := io.ReadAll(io.LimitReader(resp.Body, 1024))
		return &StatusError{StatusCode: resp.StatusCode, Body: string(respBody)}
	}

	// コネクションを再利用するため読み捨てる
	_, _ = io.Copy(io.Discard, resp.Body)
	return nil
}

// StatusError は2xx以外のレスポンスを表す。
type StatusError struct {
	StatusCode int
	Body       string
}

func (e *StatusError) Error() string {
	return fmt.Sprintf("HTTPエラー: status=%d, body=%s", e.StatusCode, e.Body)
}
