package wire

import (
	"time"

	"google.golang.org/protobuf/types/known/timestamppb"
)

// TimeFromTimestamp はバックエンドのタイムスタンプをUTCの日時に変換する。
// nil、または0001-01-01〜9999-12-31の範囲外や不正なナノ秒の場合は
// エラーにせず ok=false を返す。
func TimeFromTimestamp(ts *timestamppb.Timestamp) (t time.Time, ok bool) {
	if ts == nil {
		return time.Time{}, false
	}
	if err := ts.CheckValid(); err != nil {
		return time.Time{}, false
	}
	return ts.AsTime(), true
}
