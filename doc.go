// Package vivefeed 是 Vive 社交平台的 Feed 推荐引擎。
//
// 设计要点：
// - Pipeline-first: 推荐逻辑通过 Node 串联（Recall → Filter → Rank → ReRank）
// - 双候选族: 用户名片与话题/投票内容各跑一条流水线，按 2:1 混排
// - Labels-first: 召回来源与推荐理由通过 labels 全链路透传，支持 explain / 观测
// - 只读引擎: 所有数据通过 core 包定义的存储接口读取，引擎自身不做写入
package vivefeed

import "github.com/xxcj-sh/vive-agent-backend-sub000/pipeline"

// 轻量 facade：便于用户直接 import 根包使用核心抽象。
type Pipeline = pipeline.Pipeline
type Node = pipeline.Node
type Kind = pipeline.Kind

const (
	KindRecall      = pipeline.KindRecall
	KindFilter      = pipeline.KindFilter
	KindRank        = pipeline.KindRank
	KindReRank      = pipeline.KindReRank
	KindPostProcess = pipeline.KindPostProcess
)
