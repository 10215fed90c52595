package telemetry

import (
	"context"
	"net/url"
	"time"

	"go.uber.org/zap"

	"github.com/nao1215/shopgate/pkg/httpclient"
)

// Sink はメトリクスの1行を書き込む送信先。
type Sink interface {
	Write(ctx context.Context, line string) error
}

// InfluxSink はInfluxDB v2 のwrite APIに書き込むSink。
type InfluxSink struct {
	client *httpclient.Client
	query  url.Values
}

// NewInfluxSink はInfluxDB v2 向けのSinkを生成する。
// 認証は "Authorization: Token <token>" ヘッダーで行う。
func NewInfluxSink(baseURL, token, org, bucket string, timeout time.Duration) *InfluxSink {
	return &InfluxSink{
		client: httpclient.New(baseURL,
			httpclient.WithTimeout(timeout),
			httpclient.WithToken("Token", token),
		),
		query: url.Values{
			"org":       {org},
			"bucket":    {bucket},
			"precision": {"ms"},
		},
	}
}

// Write は1行をPOSTする。
func (s *InfluxSink) Write(ctx context.Context, line string) error {
	return s.client.PostText(ctx, "/api/v2/write", s.query, line)
}

// Publisher は記録をSinkへ非同期に送信する。
type Publisher struct {
	sink   Sink
	logger *zap.Logger
}

// NewPublisher は新しいPublisherを生成する。
func NewPublisher(sink Sink, logger *zap.Logger) *Publisher {
	return &Publisher{
		sink:   sink,
		logger: logger,
	}
}

// Publish は記録の送信を独立したゴルーチンに渡し、完了を待たずに戻る。
// 送信はクライアントの切断とは無関係に最後まで実行される。
func (p *Publisher) Publish(rec Record) {
	go p.publish(context.Background(), rec)
}

func (p *Publisher) publish(ctx context.Context, rec Record) {
	if err := p.sink.Write(ctx, rec.Line()); err != nil {
		p.logger.Warn("メトリクスの送信に失敗",
			zap.String("metric", rec.Name),
			zap.String("method", rec.Method),
			zap.String("path", rec.Path),
			zap.Error(err),
		)
		return
	}
	p.logger.Debug("メトリクスを送信しました",
		zap.String("metric", rec.Name),
		zap.String("path", rec.Path),
	)
}
