package store

import "context"

// ScopedStore prefixes every key with a namespace so several learners can
// share one backend.
type ScopedStore struct {
	inner     Store
	namespace string
}

// Scoped wraps inner so that key k is stored as "namespace:k".
// An empty namespace leaves keys untouched.
func Scoped(inner Store, namespace string) *ScopedStore {
	return &ScopedStore{inner: inner, namespace: namespace}
}

func (s *ScopedStore) key(k string) string {
	if s.namespace == "" {
		return k
	}
	return s.namespace + ":" + k
}

func (s *ScopedStore) Load(ctx context.Context, key string) ([]byte, error) {
	return s.inner.Load(ctx, s.key(key))
}

func (s *ScopedStore) Save(ctx context.Context, key string, value []byte) error {
	return s.inner.Save(ctx, s.key(key), value)
}

func (s *ScopedStore) Delete(ctx context.Context, keys ...string) error {
	scoped := make([]string, len(keys))
	for i, k := range keys {
		scoped[i] = s.key(k)
	}
	return s.inner.Delete(ctx, scoped...)
}

// Close closes the wrapped store.
func (s *ScopedStore) Close() error {
	return s.inner.Close()
}
