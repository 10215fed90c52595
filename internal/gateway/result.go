package gateway

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"github.com/nao1215/shopgate/internal/apperr"
	"github.com/nao1215/shopgate/internal/model"
	"github.com/nao1215/shopgate/pkg/middleware"
)

// respond はハンドラの結果をHTTPレスポンスに変換する。
// 成功時はonSuccessを呼んでから200でvalueを返し、失敗時はwriteErrorに委ねる。
// エラーからステータスコードを決めるのはこの関数とwriteErrorだけで、
// ハンドラが独自にエラーレスポンスを組み立ててはならない。
func respond[T any](c *gin.Context, logger *zap.Logger, value T, err error, onSuccess func(T)) {
	if err != nil {
		writeError(c, logger, err)
		return
	}
	if onSuccess != nil {
		onSuccess(value)
	}
	c.JSON(http.StatusOK, value)
}

// writeError はエラーを500レスポンスに変換する。
// BackendErrorの場合は操作名とバックエンドのステータスを本文に含める。
func writeError(c *gin.Context, logger *zap.Logger, err error) {
	requestID := middleware.GetRequestID(c)

	var backendErr *apperr.BackendError
	if errors.As(err, &backendErr) {
		logger.Error("バックエンドの呼び出しに失敗しました",
			zap.String("operation", backendErr.Operation),
			zap.String("status", backendErr.StatusText()),
			zap.String("request_id", requestID),
		)
		c.JSON(http.StatusInternalServerError, model.ErrorResponse{Error: backendErr.Error()})
		return
	}

	logger.Error("リクエストの処理に失敗しました",
		zap.Error(err),
		zap.String("request_id", requestID),
	)
	c.JSON(http.StatusInternalServerError, model.ErrorResponse{Error: err.Error()})
}

// fail はハンドラの前処理で発生したエラーをwriteErrorで返す。
func (s *Server) fail(c *gin.Context, err error) {
	writeError(c, s.logger, err)
}
