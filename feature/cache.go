package feature

import (
	"context"
	"sync"
	"time"

	"github.com/xxcj-sh/vive-agent-backend-sub000/core"
)

// CachedService 用内存 TTL 缓存包装特征服务，减少对 Feature Server 的往返。
// 互动计数允许短暂滞后，默认缓存 5 分钟。
type CachedService struct {
	inner Service
	ttl   time.Duration
	clock core.Clock

	mu      sync.RWMutex
	entries map[string]cacheEntry
}

type cacheEntry struct {
	features  map[string]float64
	expiresAt time.Time
}

// NewCachedService 创建带缓存的特征服务。
// ttl 非正时取 5 分钟；clock 为 nil 时使用系统时钟。
func NewCachedService(inner Service, ttl time.Duration, clock core.Clock) *CachedService {
	if ttl <= 0 {
		ttl = 5 * time.Minute
	}
	if clock == nil {
		clock = core.SystemClock{}
	}
	return &CachedService{
		inner:   inner,
		ttl:     ttl,
		clock:   clock,
		entries: make(map[string]cacheEntry),
	}
}

func (s *CachedService) Name() string { return s.inner.Name() + ".cached" }

func (s *CachedService) GetCardFeatures(ctx context.Context, cardID string) (map[string]float64, error) {
	all, err := s.BatchGetCardFeatures(ctx, []string{cardID})
	if err != nil {
		return nil, err
	}
	features, ok := all[cardID]
	if !ok {
		return nil, ErrFeatureNotFound
	}
	return features, nil
}

func (s *CachedService) BatchGetCardFeatures(
	ctx context.Context,
	cardIDs []string,
) (map[string]map[string]float64, error) {
	now := s.clock.Now()
	out := make(map[string]map[string]float64, len(cardIDs))
	var misses []string

	s.mu.RLock()
	for _, id := range cardIDs {
		if e, ok := s.entries[id]; ok && now.Before(e.expiresAt) {
			out[id] = e.features
		} else {
			misses = append(misses, id)
		}
	}
	s.mu.RUnlock()

	if len(misses) == 0 {
		return out, nil
	}

	fetched, err := s.inner.BatchGetCardFeatures(ctx, misses)
	if err != nil {
		// 部分命中时仍返回缓存结果
		if len(out) > 0 {
			return out, nil
		}
		return nil, err
	}

	expires := now.Add(s.ttl)
	s.mu.Lock()
	for id, features := range fetched {
		s.entries[id] = cacheEntry{features: features, expiresAt: expires}
		out[id] = features
	}
	s.mu.Unlock()
	return out, nil
}

func (s *CachedService) Close() error {
	s.mu.Lock()
	s.entries = make(map[string]cacheEntry)
	s.mu.Unlock()
	return s.inner.Close()
}

var _ Service = (*CachedService)(nil)
