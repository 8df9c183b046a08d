package cache

import (
	"encoding/json"
	"time"
)

// Envelope 支持逻辑过期的数据结构
type Envelope struct {
	Data      json.RawMessage `json:"data"`
	ExpireAt  time.Time       `json:"expire_at"`  // 逻辑过期时间
	CreatedAt time.Time       `json:"created_at"` // 创建时间，用于调试
}

// IsLogicalExpired 检查是否逻辑过期
func (e *Envelope) IsLogicalExpired() bool {
	return time.Now().After(e.ExpireAt)
}

// Wrap marshals v inside an envelope whose logical expiry is now+ttl.
func Wrap(v any, ttl time.Duration) ([]byte, error) {
	data, err := json.Marshal(v)
	if err != nil {
		return nil, err
	}
	now := time.Now()
	return json.Marshal(&Envelope{
		Data:      data,
		ExpireAt:  now.Add(ttl),
		CreatedAt: now,
	})
}

// Unwrap decodes raw into v and reports whether the entry is logically
// expired. An expired entry is still usable while a rebuild runs.
func Unwrap(raw []byte, v any) (expired bool, err error) {
	var e Envelope
	if err = json.Unmarshal(raw, &e); err != nil {
		return false, err
	}
	if err = json.Unmarshal(e.Data, v); err != nil {
		return false, err
	}
	return e.IsLogicalExpired(), nil
}
