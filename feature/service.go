package feature

import (
	"context"
	"errors"
)

var (
	// ErrFeatureNotFound 特征未找到
	ErrFeatureNotFound = errors.New("feature: feature not found")
	// ErrServiceUnavailable 特征服务不可用
	ErrServiceUnavailable = errors.New("feature: service unavailable")
)

// 约定的实时特征名。特征值统一以 float64 返回。
const (
	// FeatureEngagement 卡片的实时互动量（点赞+讨论，或投票总数）。
	// 存在时覆盖存储快照里的互动计数参与打分。
	FeatureEngagement = "engagement_count"

	// FeatureViewCount 卡片的实时浏览量。
	FeatureViewCount = "view_count"
)

// Service 是卡片实时特征服务的统一接口。
// 打分引擎按需消费，服务不可用时打分退回存储快照里的计数。
//
// ID 类型：使用 string（通用，支持所有 ID 格式）
type Service interface {
	// Name 返回特征服务名称（用于日志/监控）
	Name() string

	// GetCardFeatures 获取单张卡片的实时特征
	GetCardFeatures(ctx context.Context, cardID string) (map[string]float64, error)

	// BatchGetCardFeatures 批量获取卡片特征（推荐使用，减少网络往返）
	BatchGetCardFeatures(ctx context.Context, cardIDs []string) (map[string]map[string]float64, error)

	// Close 关闭特征服务，释放资源
	Close() error
}
