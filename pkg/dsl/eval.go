package dsl

import (
	"fmt"
	"sync"

	"github.com/google/cel-go/cel"

	"github.com/xxcj-sh/vive-agent-backend-sub000/core"
)

var (
	// celEnv 是全局的 CEL 环境，线程安全，可复用
	celEnv     *cel.Env
	celEnvOnce sync.Once
)

// initCELEnv 初始化 CEL 环境，定义变量
func initCELEnv() (*cel.Env, error) {
	env, err := cel.NewEnv(
		cel.Variable("card", cel.DynType),
		cel.Variable("label", cel.DynType),
		cel.Variable("rctx", cel.DynType),
	)
	return env, err
}

// getCELEnv 获取或创建 CEL 环境
func getCELEnv() (*cel.Env, error) {
	var err error
	celEnvOnce.Do(func() {
		celEnv, err = initCELEnv()
	})
	return celEnv, err
}

// Program 是编译后的筛选表达式，使用 CEL (Common Expression Language) 实现。
// 表达式编译一次，之后可以对任意数量的候选卡片执行 Match，线程安全。
//
// 表达式语法（CEL 标准语法）：
//   - 基础：card.card_type == "user" / label.recall_source != "active_content"
//   - 数值：card.score > 50.0 / card.engagement >= 10
//   - 逻辑：card.card_type == "topic" && card.category == "旅行"
//   - 包含：card.title.contains("周末")
//
// 示例：
//   - `card.card_type != "vote"` → 排除投票卡片
//   - `label.recall_source == "recall.community_users"` → 只保留社群召回结果
type Program struct {
	env *cel.Env
	prg cel.Program
}

// Compile 编译筛选表达式。空表达式返回 nil Program（匹配一切）。
func Compile(expr string) (*Program, error) {
	if expr == "" {
		return nil, nil
	}

	env, err := getCELEnv()
	if err != nil {
		return nil, fmt.Errorf("cel env: %w", err)
	}

	ast, issues := env.Compile(expr)
	if issues != nil && issues.Err() != nil {
		return nil, fmt.Errorf("compile error: %v", issues.Err())
	}

	prg, err := env.Program(ast)
	if err != nil {
		return nil, fmt.Errorf("program error: %v", err)
	}

	return &Program{env: env, prg: prg}, nil
}

// Match 对单个候选执行表达式，返回布尔结果。
// nil Program 匹配一切。
func (p *Program) Match(c *core.Candidate, rctx *core.RecommendContext) (bool, error) {
	if p == nil {
		return true, nil
	}

	out, _, err := p.prg.Eval(buildInput(c, rctx))
	if err != nil {
		// 访问不存在的 key 时 CEL 会报错，
		// 表达式应使用 label.key != null 检查存在性
		return false, fmt.Errorf("eval error: %v", err)
	}

	result, ok := out.Value().(bool)
	if !ok {
		return false, fmt.Errorf("expression must return boolean, got %T", out.Value())
	}
	return result, nil
}

// buildInput 构建 CEL 表达式的输入数据
func buildInput(c *core.Candidate, rctx *core.RecommendContext) map[string]interface{} {
	labels := make(map[string]interface{}, len(c.Labels))
	for k, v := range c.Labels {
		labels[k] = v.Value
	}

	card := map[string]interface{}{
		"id":         c.ID,
		"card_type":  string(c.CardType),
		"owner_id":   c.OwnerID,
		"title":      c.Title(),
		"score":      c.Score,
		"engagement": c.Engagement(),
	}
	switch {
	case c.User != nil:
		card["location"] = c.User.Location
		card["occupation"] = c.User.Occupation
		card["gender"] = c.User.Gender
	case c.Topic != nil:
		card["category"] = c.Topic.Category
	case c.Vote != nil:
		card["category"] = c.Vote.Category
	}

	var rc map[string]interface{}
	if rctx != nil {
		rc = map[string]interface{}{
			"user_id":   rctx.UserID,
			"page":      rctx.Page,
			"page_size": rctx.PageSize,
			"params":    rctx.Params,
		}
	}

	return map[string]interface{}{
		"card":  card,
		"label": labels,
		"rctx":  rc,
	}
}
