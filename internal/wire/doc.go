// Package wire はバックエンドgRPCサービスとの間でやり取りするメッセージを定義する。
//
// 各メッセージは proto/*.proto のフィールド番号に従い、protowireで直接
// protobufのワイヤ形式にエンコード/デコードする。gRPCにはCodecを
// ForceCodecで渡して使用する。Gatewayはクライアント専用で、サーバー側の
// 実装は持たない。
package wire
