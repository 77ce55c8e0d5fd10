package service

import (
	"encoding/base64"
	"encoding/json"
	"time"

	"linkup-go/internal/apperr"
)

var ErrInvalidCursor = apperr.InvalidState("分页游标无效")

// RankKey 派生集合的稳定排序键：共同数降序、时间降序、用户 ID 升序
type RankKey struct {
	Shared  int   `json:"s"`
	Recency int64 `json:"r"`
	UserID  int64 `json:"u"`
}

func newRankKey(userID int64, shared int, at time.Time) RankKey {
	return RankKey{Shared: shared, Recency: at.UnixNano(), UserID: userID}
}

// Before 在排序中 k 是否位于 o 之前
func (k RankKey) Before(o RankKey) bool {
	if k.Shared != o.Shared {
		return k.Shared > o.Shared
	}
	if k.Recency != o.Recency {
		return k.Recency > o.Recency
	}
	return k.UserID < o.UserID
}

func encodeCursor(k RankKey) string {
	raw, _ := json.Marshal(k)
	return base64.RawURLEncoding.EncodeToString(raw)
}

func decodeCursor(s string) (RankKey, error) {
	var k RankKey
	raw, err := base64.RawURLEncoding.DecodeString(s)
	if err != nil {
		return k, ErrInvalidCursor
	}
	if err := json.Unmarshal(raw, &k); err != nil || k.UserID <= 0 {
		return k, ErrInvalidCursor
	}
	return k, nil
}
