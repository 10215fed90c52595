package middleware

import "github.com/gin-gonic/gin"

// Interceptor はルートのハンドラを包み、前後で処理を行うか処理を打ち切る。
type Interceptor interface {
	Wrap(next gin.HandlerFunc) gin.HandlerFunc
}

// InterceptorFunc は関数をInterceptorとして扱うためのアダプタ。
type InterceptorFunc func(next gin.HandlerFunc) gin.HandlerFunc

// Wrap はf(next)を返す。
func (f InterceptorFunc) Wrap(next gin.HandlerFunc) gin.HandlerFunc {
	return f(next)
}

// Chain はルートごとに束縛されるInterceptorの並び。
// 先頭のInterceptorが最も外側になる。
type Chain struct {
	interceptors []Interceptor
}

// NewChain は指定した順序のChainを生成する。
func NewChain(interceptors ...Interceptor) Chain {
	return Chain{interceptors: append([]Interceptor(nil), interceptors...)}
}

// Then はChainの内側にハンドラを置いた1つのハンドラを返す。
// 起動時に1回だけ呼び、返り値をルートに登録する。
func (ch Chain) Then(h gin.HandlerFunc) gin.HandlerFunc {
	for i := len(ch.interceptors) - 1; i >= 0; i-- {
		h = ch.interceptors[i].Wrap(h)
	}
	return h
}
