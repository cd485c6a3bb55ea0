package core

// DomainError 是领域层的统一错误类型。
//
// 设计原则：
//   - 所有领域层错误都使用此类型
//   - 提供错误代码（Code）和消息（Message）
//   - 支持错误检查函数（IsXXX）
//
// 使用场景：
//   - Store 错误：NOT_FOUND, UNAVAILABLE
//   - 召回错误：STRATEGY_FAILED
//   - Feed 错误：EMPTY_RESULT, INVALID_FILTER
type DomainError struct {
	Code    string // 错误代码（如 "NOT_FOUND", "STRATEGY_FAILED"）
	Message string // 错误消息
	Module  string // 模块名称（如 "store", "recall", "feed"）
}

func (e *DomainError) Error() string {
	return e.Message
}

// GetDomainError 获取 DomainError，如果不是则返回 nil
func GetDomainError(err error) *DomainError {
	if err == nil {
		return nil
	}
	if domainErr, ok := err.(*DomainError); ok {
		return domainErr
	}
	return nil
}

// NewDomainError 创建新的领域错误
func NewDomainError(module, code, message string) *DomainError {
	return &DomainError{
		Module:  module,
		Code:    code,
		Message: message,
	}
}

// 错误代码常量
const (
	ErrorCodeNotFound       = "NOT_FOUND"       // 资源不存在
	ErrorCodeUnavailable    = "UNAVAILABLE"     // 存储/服务不可用
	ErrorCodeInvalidInput   = "INVALID_INPUT"   // 输入无效
	ErrorCodeStrategyFailed = "STRATEGY_FAILED" // 单个召回策略失败（可恢复）
	ErrorCodeEmptyResult    = "EMPTY_RESULT"    // 某候选族全部策略过滤后为空（触发兜底）
	ErrorCodeInvalidFilter  = "INVALID_FILTER"  // 筛选条件不成立：社群标签缺失/已删除，或筛选表达式无效
)

// 模块名称常量
const (
	ModuleStore   = "store"
	ModuleRecall  = "recall"
	ModuleFilter  = "filter"
	ModuleFeed    = "feed"
	ModuleFeature = "feature"
)

// 预定义错误
var (
	// ErrStoreNotFound 表示 key/实体不存在
	ErrStoreNotFound = NewDomainError(ModuleStore, ErrorCodeNotFound, "store: not found")

	// ErrStoreUnavailable 表示存储层不可用
	ErrStoreUnavailable = NewDomainError(ModuleStore, ErrorCodeUnavailable, "store: unavailable")

	// ErrEmptyResult 表示个性化召回在过滤后没有任何候选
	ErrEmptyResult = NewDomainError(ModuleFeed, ErrorCodeEmptyResult, "feed: recall produced no candidates")

	// ErrInvalidCommunityFilter 表示请求的社群标签不存在/已删除/无成员
	ErrInvalidCommunityFilter = NewDomainError(ModuleFilter, ErrorCodeInvalidFilter, "filter: community tag missing or empty")
)

func codeIs(err error, code string) bool {
	if domainErr := GetDomainError(err); domainErr != nil {
		return domainErr.Code == code
	}
	return false
}

// IsNotFound 检查错误是否为 NOT_FOUND
func IsNotFound(err error) bool { return codeIs(err, ErrorCodeNotFound) }

// IsUnavailable 检查错误是否为 UNAVAILABLE
func IsUnavailable(err error) bool { return codeIs(err, ErrorCodeUnavailable) }

// IsStrategyFailure 检查错误是否为单策略失败
func IsStrategyFailure(err error) bool { return codeIs(err, ErrorCodeStrategyFailed) }

// IsEmptyResult 检查错误是否为空结果条件
func IsEmptyResult(err error) bool { return codeIs(err, ErrorCodeEmptyResult) }

// IsInvalidFilter 检查错误是否为无效社群筛选
func IsInvalidFilter(err error) bool { return codeIs(err, ErrorCodeInvalidFilter) }
