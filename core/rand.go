package core

import (
	"math/rand"
	"sync"
	"time"
)

// Rand 是随机性端口：打分抖动与冷启动洗牌都必须经由它，
// 测试时可替换为固定种子实现。
type Rand interface {
	// Float64 返回 [0,1) 均匀分布随机数。
	Float64() float64

	// Shuffle 等价于 math/rand 的 Shuffle。
	Shuffle(n int, swap func(i, j int))
}

// lockedRand 是进程级随机源实现，内部加锁，可被并发策略共享。
type lockedRand struct {
	mu sync.Mutex
	r  *rand.Rand
}

// NewSystemRand 返回以当前时间为种子的随机源（生产默认）。
func NewSystemRand() Rand {
	return &lockedRand{r: rand.New(rand.NewSource(time.Now().UnixNano()))}
}

// NewSeededRand 返回固定种子的随机源（测试用）。
func NewSeededRand(seed int64) Rand {
	return &lockedRand{r: rand.New(rand.NewSource(seed))}
}

func (l *lockedRand) Float64() float64 {
	l.mu.Lock()
	defer l.mu.Unlock()
	return l.r.Float64()
}

func (l *lockedRand) Shuffle(n int, swap func(i, j int)) {
	l.mu.Lock()
	defer l.mu.Unlock()
	l.r.Shuffle(n, swap)
}

// Clock 是时钟端口；新鲜度打分与 TTL 缓存通过它取当前时间。
type Clock interface {
	Now() time.Time
}

// SystemClock 是真实时钟。
type SystemClock struct{}

func (SystemClock) Now() time.Time { return time.Now() }

// FixedClock 是固定时钟（测试用）。
type FixedClock struct {
	T time.Time
}

func (c FixedClock) Now() time.Time { return c.T }
