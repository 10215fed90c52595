package middleware

import (
	"net/http"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/nao1215/shopgate/pkg/telemetry"
)

// RecordPublisher は完成したメトリクス記録を受け取る。
// Publishは送信の完了を待たずに戻らなければならない。
type RecordPublisher interface {
	Publish(rec telemetry.Record)
}

// Telemetry はリクエストごとにメトリクスを1件記録するInterceptorを返す。
// 内側のハンドラが戻った時点のステータスで記録を完成させ、publisherに渡す。
// ハンドラがパニックした場合は500として記録してからパニックを再送出し、
// 外側のRecoveryにレスポンスの書き込みを任せる。
// パスにはルートのテンプレート（例: /products/:id）を使う。
func Telemetry(publisher RecordPublisher, now func() time.Time) Interceptor {
	return InterceptorFunc(func(next gin.HandlerFunc) gin.HandlerFunc {
		return func(c *gin.Context) {
			path := c.FullPath()
			if path == "" {
				path = c.Request.URL.Path
			}
			rec := telemetry.NewRecord(c.Request.Method, path, now())

			defer func() {
				if r := recover(); r != nil {
					publisher.Publish(rec.Finish(http.StatusInternalServerError, now()))
					panic(r)
				}
			}()

			next(c)

			publisher.Publish(rec.Finish(c.Writer.Status(), now()))
		}
	})
}
