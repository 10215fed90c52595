// Package gateway はAPI Gatewayサービスの内部実装を提供する。
//
// REST/JSONのリクエストを受け付け、ルートごとに束縛したInterceptor
// （トークン検証、メトリクス記録）を通したうえで、認証・商品・注文の
// gRPCバックエンドへプロキシする。外部からアクセス可能な唯一のサービスであり、
// セキュリティの境界線として機能する。
//
// ハンドラのエラーはすべてrespondを通してレスポンスに変換される。
// クライアントが受け取るステータスは200・401・404・500のいずれかになる。
package gateway
