package metadata

import "context"

// KV exposes a Repository as a string store (stores.Store).
type KV struct {
	repo Repository
}

func NewKV(repo Repository) *KV {
	return &KV{repo: repo}
}

func (k *KV) Get(ctx context.Context, key string) (string, bool, error) {
	v, ok, err := k.repo.Get(ctx, key)
	if err != nil || !ok {
		return "", false, err
	}
	return string(v), true, nil
}

func (k *KV) Set(ctx context.Context, key, value string) error {
	return k.repo.Set(ctx, key, []byte(value))
}

func (k *KV) Delete(ctx context.Context, key string) error {
	return k.repo.Delete(ctx, key)
}
