// Package middleware はGatewayのHTTP APIで使用するミドルウェアとInterceptorを提供する。
//
// Interceptorはルートごとに起動時に束縛される。保護されたルートでは
// JWT検証 → メトリクス記録 → ハンドラ の順に包み、検証に失敗したリクエストは
// ハンドラにもバックエンドにも届かない。
//
// リクエストID、アクセスログ、パニックリカバリ、CORSは全ルート共通の
// Ginミドルウェアとして登録する。
package middleware
