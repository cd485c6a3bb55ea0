package feature

import (
	"context"
	"errors"
	"testing"
	"time"
)

type fakeService struct {
	calls   int
	batches [][]string
	data    map[string]map[string]float64
	err     error
}

func (f *fakeService) Name() string { return "fake" }

func (f *fakeService) GetCardFeatures(ctx context.Context, cardID string) (map[string]float64, error) {
	all, err := f.BatchGetCardFeatures(ctx, []string{cardID})
	if err != nil {
		return nil, err
	}
	return all[cardID], nil
}

func (f *fakeService) BatchGetCardFeatures(ctx context.Context, cardIDs []string) (map[string]map[string]float64, error) {
	f.calls++
	f.batches = append(f.batches, cardIDs)
	if f.err != nil {
		return nil, f.err
	}
	out := make(map[string]map[string]float64)
	for _, id := range cardIDs {
		if features, ok := f.data[id]; ok {
			out[id] = features
		}
	}
	return out, nil
}

func (f *fakeService) Close() error { return nil }

type stepClock struct{ t time.Time }

func (c *stepClock) Now() time.Time { return c.t }

func TestCachedService_HitWithinTTL(t *testing.T) {
	inner := &fakeService{data: map[string]map[string]float64{
		"vote-1": {FeatureEngagement: 40},
	}}
	clock := &stepClock{t: time.Date(2026, 9, 1, 12, 0, 0, 0, time.UTC)}
	cached := NewCachedService(inner, time.Minute, clock)

	for i := 0; i < 3; i++ {
		got, err := cached.GetCardFeatures(context.Background(), "vote-1")
		if err != nil {
			t.Fatalf("GetCardFeatures() error = %v", err)
		}
		if got[FeatureEngagement] != 40 {
			t.Fatalf("engagement = %v, want 40", got[FeatureEngagement])
		}
	}
	if inner.calls != 1 {
		t.Errorf("inner service called %d times, want 1 within the TTL", inner.calls)
	}
}

func TestCachedService_ExpiryRefetches(t *testing.T) {
	inner := &fakeService{data: map[string]map[string]float64{
		"vote-1": {FeatureEngagement: 40},
	}}
	clock := &stepClock{t: time.Date(2026, 9, 1, 12, 0, 0, 0, time.UTC)}
	cached := NewCachedService(inner, time.Minute, clock)

	if _, err := cached.GetCardFeatures(context.Background(), "vote-1"); err != nil {
		t.Fatalf("GetCardFeatures() error = %v", err)
	}
	clock.t = clock.t.Add(2 * time.Minute)
	if _, err := cached.GetCardFeatures(context.Background(), "vote-1"); err != nil {
		t.Fatalf("GetCardFeatures() after expiry error = %v", err)
	}
	if inner.calls != 2 {
		t.Errorf("inner service called %d times, want refetch after expiry", inner.calls)
	}
}

func TestCachedService_BatchOnlyFetchesMisses(t *testing.T) {
	inner := &fakeService{data: map[string]map[string]float64{
		"a": {FeatureEngagement: 1},
		"b": {FeatureEngagement: 2},
	}}
	clock := &stepClock{t: time.Date(2026, 9, 1, 12, 0, 0, 0, time.UTC)}
	cached := NewCachedService(inner, time.Minute, clock)

	if _, err := cached.BatchGetCardFeatures(context.Background(), []string{"a"}); err != nil {
		t.Fatalf("warm-up error = %v", err)
	}
	got, err := cached.BatchGetCardFeatures(context.Background(), []string{"a", "b"})
	if err != nil {
		t.Fatalf("BatchGetCardFeatures() error = %v", err)
	}
	if len(got) != 2 {
		t.Fatalf("got %d entries, want 2", len(got))
	}
	last := inner.batches[len(inner.batches)-1]
	if len(last) != 1 || last[0] != "b" {
		t.Errorf("second batch fetched %v, want only the miss [b]", last)
	}
}

func TestCachedService_PartialHitSurvivesInnerFailure(t *testing.T) {
	inner := &fakeService{data: map[string]map[string]float64{
		"a": {FeatureEngagement: 1},
	}}
	clock := &stepClock{t: time.Date(2026, 9, 1, 12, 0, 0, 0, time.UTC)}
	cached := NewCachedService(inner, time.Minute, clock)

	if _, err := cached.BatchGetCardFeatures(context.Background(), []string{"a"}); err != nil {
		t.Fatalf("warm-up error = %v", err)
	}

	inner.err = errors.New("feature server down")
	got, err := cached.BatchGetCardFeatures(context.Background(), []string{"a", "b"})
	if err != nil {
		t.Fatalf("partial hit should not fail, got %v", err)
	}
	if _, ok := got["a"]; !ok {
		t.Error("cached entry lost on inner failure")
	}

	// 全部未命中且后端失败时错误上抛。
	if _, err := cached.BatchGetCardFeatures(context.Background(), []string{"c"}); err == nil {
		t.Error("full miss with a failing backend should return the error")
	}
}

func TestCachedService_Name(t *testing.T) {
	cached := NewCachedService(&fakeService{}, 0, nil)
	if cached.Name() != "fake.cached" {
		t.Errorf("Name() = %q, want fake.cached", cached.Name())
	}
}
