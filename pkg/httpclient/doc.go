// Package httpclient は外部HTTPエンドポイントへの書き込みを行うクライアントを提供する。
//
// Gatewayではメトリクスを時系列DB（InfluxDB v2のwrite API）へ送信するために使用する。
// 送信は1回限りで、リトライやバッファリングは行わない。
package httpclient
