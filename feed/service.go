package feed

import (
	"context"

	"github.com/google/uuid"
	"github.com/rs/zerolog"

	"github.com/xxcj-sh/vive-agent-backend-sub000/core"
	"github.com/xxcj-sh/vive-agent-backend-sub000/feature"
	"github.com/xxcj-sh/vive-agent-backend-sub000/filter"
)

// Request 是一次 Feed 请求的入参。
type Request struct {
	// UserID 为空表示匿名请求，走冷启动路径。
	UserID string

	Page     int
	PageSize int

	// CommunityTagID 非 nil 时进入社群筛选模式。
	CommunityTagID *int64

	// Filters 结构化筛选；FilterExpr 是可选的 CEL 表达式。
	Filters    *core.AttributeFilters
	FilterExpr string
}

// 分页参数边界。
const (
	defaultPageSize = 10
	maxPageSize     = 100
)

// Service 是 Feed 推荐的门面：解析请求模式，组装召回/过滤/排序/
// 重排流水线，混排分页后输出。全程只读，不向任何存储写入。
type Service struct {
	stores   *core.Stores
	cfg      *core.FeedConfig
	features feature.Service
	clock    core.Clock
	rand     core.Rand
	logger   zerolog.Logger
}

// Option 是 Service 的配置选项。
type Option func(*Service)

// WithFeatures 注入实时特征服务（可选）。
func WithFeatures(f feature.Service) Option {
	return func(s *Service) { s.features = f }
}

// WithClock 注入时钟，测试中配合 core.FixedClock 使用。
func WithClock(c core.Clock) Option {
	return func(s *Service) { s.clock = c }
}

// WithRand 注入随机源，测试中配合 core.NewSeededRand 使用。
func WithRand(r core.Rand) Option {
	return func(s *Service) { s.rand = r }
}

// WithLogger 注入日志器。
func WithLogger(l zerolog.Logger) Option {
	return func(s *Service) { s.logger = l }
}

// New 创建 Feed 服务。cfg 为 nil 时使用默认配置。
func New(stores *core.Stores, cfg *core.FeedConfig, opts ...Option) *Service {
	if cfg == nil {
		cfg = core.DefaultFeedConfig()
	} else {
		cfg.Normalize()
	}
	s := &Service{
		stores: stores,
		cfg:    cfg,
		clock:  core.SystemClock{},
		rand:   core.NewSystemRand(),
		logger: zerolog.Nop(),
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// GetFeed 处理一次 Feed 请求。任何内部失败都被转换成合法的
// （可能为空的）FeedResult，绝不向调用方抛错。
func (s *Service) GetFeed(ctx context.Context, req Request) (result *core.FeedResult) {
	page, pageSize := normalizePage(req.Page, req.PageSize)

	rctx := &core.RecommendContext{
		RequestID:      uuid.NewString(),
		UserID:         req.UserID,
		CommunityTagID: req.CommunityTagID,
		Filters:        req.Filters,
		FilterExpr:     req.FilterExpr,
		Page:           page,
		PageSize:       pageSize,
	}

	logger := s.logger.With().
		Str("request_id", rctx.RequestID).
		Str("user_id", req.UserID).
		Int("page", page).
		Logger()

	started := s.clock.Now()
	defer func() {
		if r := recover(); r != nil {
			logger.Error().Interface("panic", r).Msg("feed request panicked, returning degraded result")
			result = core.EmptyFeedResult(page, pageSize)
			result.Degraded = true
		}
		logger.Debug().
			Dur("elapsed", s.clock.Now().Sub(started)).
			Msg("feed request finished")
	}()

	switch {
	case rctx.CommunityMode():
		return s.communityFeed(ctx, logger, rctx)
	case rctx.Anonymous():
		return s.coldStartFeed(ctx, logger, rctx)
	default:
		return s.personalizedFeed(ctx, logger, rctx)
	}
}

// prepareContext 填充个性化请求的上下文：排除集、请求者标签、感兴趣的人。
func (s *Service) prepareContext(ctx context.Context, logger zerolog.Logger, rctx *core.RecommendContext) {
	builder := &filter.ExclusionBuilder{
		Connections: s.stores.Connections,
		Cards:       s.stores.Cards,
		Content:     s.stores.Content,
		Votes:       s.stores.Votes,
		Window:      s.cfg.RecentViewWindow,
		Clock:       s.clock,
	}
	rctx.Exclusions = builder.Build(ctx, rctx.UserID, true)

	if tagIDs, err := s.stores.Tags.GetUserTags(ctx, rctx.UserID, core.TagTypeAny); err == nil {
		rctx.RequesterTags = make(map[int64]struct{}, len(tagIDs))
		for _, id := range tagIDs {
			rctx.RequesterTags[id] = struct{}{}
		}
	} else {
		logger.Warn().Err(err).Msg("load requester tags failed")
	}

	rctx.InterestedOwners = s.interestedOwners(ctx, rctx.UserID)
}

// interestedOwners 返回请求者近期主动访问过的用户集合。
func (s *Service) interestedOwners(ctx context.Context, userID string) map[string]struct{} {
	conns, err := s.stores.Connections.GetConnections(ctx, userID)
	if err != nil {
		return nil
	}
	cutoff := s.clock.Now().Add(-s.cfg.RecentViewWindow)
	out := make(map[string]struct{})
	for _, c := range conns {
		if c.FromUserID != userID || c.Type != core.ConnectionVisit {
			continue
		}
		if c.UpdatedAt.Before(cutoff) {
			continue
		}
		out[c.ToUserID] = struct{}{}
	}
	return out
}

func normalizePage(page, pageSize int) (int, int) {
	if page < 1 {
		page = 1
	}
	if pageSize <= 0 {
		pageSize = defaultPageSize
	}
	if pageSize > maxPageSize {
		pageSize = maxPageSize
	}
	return page, pageSize
}
