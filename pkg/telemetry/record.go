// Package telemetry はリクエスト1件ごとのメトリクスを時系列DBへ送信する。
//
// 記録はリクエスト開始時に作られ、レスポンスのステータスが確定した時点で完成し、
// 1回だけ送信されて破棄される。送信はリクエストから切り離されたゴルーチンで行い、
// 失敗してもログに残すだけでリトライやキューイングはしない。
package telemetry

import (
	"strconv"
	"strings"
	"time"
)

const (
	// MetricRequests は成功（4xx/5xx以外）したリクエストのメトリクス名。
	MetricRequests = "http_requests_gateway"
	// MetricErrors は4xx/5xxになったリクエストのメトリクス名。
	MetricErrors = "error_metric"
)

// Record はリクエスト1件分のメトリクス。
type Record struct {
	// Name はメトリクス名。Finishで決まる。
	Name string
	// Method はHTTPメソッド。
	Method string
	// Path はルートのパス（例: /products/:id）。
	Path string
	// Status はレスポンスのステータスコード。0はまだ確定していないことを表す。
	Status uint16
	// Duration はハンドラの処理時間（バックエンドの待ち時間を含む）。
	Duration time.Duration
	// Start はリクエストの開始時刻。
	Start time.Time
}

// NewRecord はリクエスト開始時点の記録を生成する。
func NewRecord(method, path string, start time.Time) Record {
	return Record{
		Method: method,
		Path:   path,
		Start:  start,
	}
}

// Finish はステータスと経過時間を確定させた記録を返す。
func (r Record) Finish(status int, now time.Time) Record {
	r.Status = uint16(status)
	r.Duration = now.Sub(r.Start)
	r.Name = MetricRequests
	if r.IsError() {
		r.Name = MetricErrors
	}
	return r
}

// IsError はステータスが4xx/5xxかどうかを返す。
func (r Record) IsError() bool {
	return r.Status >= 400
}

// Line はInfluxDBのラインプロトコル形式の1行を返す。
// 例: http_requests_gateway,method=GET,request_path=/products,status=200 response_time=12 1700000000012
// タイムスタンプはミリ秒精度の終了時刻。
func (r Record) Line() string {
	var b strings.Builder
	b.WriteString(measurementEscaper.Replace(r.Name))
	b.WriteString(",method=")
	b.WriteString(tagEscaper.Replace(r.Method))
	b.WriteString(",request_path=")
	b.WriteString(tagEscaper.Replace(r.Path))
	if r.Status != 0 {
		b.WriteString(",status=")
		b.WriteString(strconv.Itoa(int(r.Status)))
	}
	b.WriteString(" response_time=")
	b.WriteString(strconv.FormatInt(r.Duration.Milliseconds(), 10))
	if !r.Start.IsZero() {
		b.WriteByte(' ')
		b.WriteString(strconv.FormatInt(r.Start.Add(r.Duration).UnixMilli(), 10))
	}
	return b.String()
}

var (
	measurementEscaper = strings.NewReplacer(",", `\,`, " ", `\ `)
	tagEscaper         = strings.NewReplacer(",", `\,`, "=", `\=`, " ", `\ `)
)
