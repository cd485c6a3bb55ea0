package feature

import (
	"context"
	"fmt"

	feastsdk "github.com/feast-dev/feast/sdk/go"
	"github.com/feast-dev/feast/sdk/go/protos/feast/types"
)

// 卡片实体在 Feast 中的实体键名。
const cardEntityKey = "card_id"

// FeastService 是基于官方 Feast Go SDK 的特征服务实现。
// 通过 gRPC 从 Feature Server 拉取卡片的实时互动特征。
type FeastService struct {
	client *feastsdk.GrpcClient

	// Project 项目名称
	Project string

	// FeatureRefs 要拉取的特征引用，例如 "card_stats:engagement_count"
	FeatureRefs []string
}

// NewFeastService 创建 Feast 特征服务。
// port 为 0 时使用默认 gRPC 端口 6565。
func NewFeastService(host string, port int, project string, featureRefs []string) (*FeastService, error) {
	if port == 0 {
		port = 6565
	}
	client, err := feastsdk.NewGrpcClient(host, port)
	if err != nil {
		return nil, fmt.Errorf("feature: create feast client: %w", err)
	}
	if len(featureRefs) == 0 {
		featureRefs = []string{
			"card_stats:" + FeatureEngagement,
			"card_stats:" + FeatureViewCount,
		}
	}
	return &FeastService{
		client:      client,
		Project:     project,
		FeatureRefs: featureRefs,
	}, nil
}

func (s *FeastService) Name() string { return "feature.feast" }

func (s *FeastService) GetCardFeatures(ctx context.Context, cardID string) (map[string]float64, error) {
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

func (s *FeastService) BatchGetCardFeatures(
	ctx context.Context,
	cardIDs []string,
) (map[string]map[string]float64, error) {
	if len(cardIDs) == 0 {
		return map[string]map[string]float64{}, nil
	}

	entities := make([]feastsdk.Row, len(cardIDs))
	for i, id := range cardIDs {
		entities[i] = feastsdk.Row{cardEntityKey: feastsdk.StrVal(id)}
	}

	resp, err := s.client.GetOnlineFeatures(ctx, &feastsdk.OnlineFeaturesRequest{
		Features: s.FeatureRefs,
		Entities: entities,
		Project:  s.Project,
	})
	if err != nil {
		return nil, fmt.Errorf("feature: feast get online features: %w", err)
	}

	rows := resp.Rows()
	if len(rows) != len(cardIDs) {
		return nil, fmt.Errorf("feature: response row count mismatch: expected %d, got %d",
			len(cardIDs), len(rows))
	}

	out := make(map[string]map[string]float64, len(cardIDs))
	for i, row := range rows {
		features := make(map[string]float64)
		for name, val := range row {
			if name == cardEntityKey {
				continue
			}
			if f, ok := numericValue(val); ok {
				features[shortName(name)] = f
			}
		}
		out[cardIDs[i]] = features
	}
	return out, nil
}

func (s *FeastService) Close() error {
	return s.client.Close()
}

// numericValue 把 Feast 的 Value 转成 float64。非数值类型返回 false。
func numericValue(v *types.Value) (float64, bool) {
	if v == nil {
		return 0, false
	}
	switch val := v.Val.(type) {
	case *types.Value_Int32Val:
		return float64(val.Int32Val), true
	case *types.Value_Int64Val:
		return float64(val.Int64Val), true
	case *types.Value_FloatVal:
		return float64(val.FloatVal), true
	case *types.Value_DoubleVal:
		return val.DoubleVal, true
	case *types.Value_BoolVal:
		if val.BoolVal {
			return 1, true
		}
		return 0, true
	default:
		return 0, false
	}
}

// shortName 去掉特征引用里的 FeatureView 前缀："card_stats:engagement_count" → "engagement_count"
func shortName(ref string) string {
	for i := len(ref) - 1; i >= 0; i-- {
		if ref[i] == ':' {
			return ref[i+1:]
		}
	}
	return ref
}

var _ Service = (*FeastService)(nil)
