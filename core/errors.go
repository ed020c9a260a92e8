package core

import (
	"context"
	"errors"
)

// DomainError 是领域层的统一错误类型。
//
// 设计原则：
//   - 所有对外暴露的错误都归一到此类型，调用方按 Code 区分种类
//   - Err 保留底层原因，支持 errors.Is / errors.As 穿透
//   - 引擎内部不做重试，也不把错误降级为空结果
//
// 错误种类：
//   - INVALID_INPUT：参数非法（limit <= 0、diversityFactor 越界、offset < 0 ...）
//   - NOT_FOUND：种子物品不存在
//   - STORE_UNAVAILABLE：存储不可达或返回损坏数据
//   - TIMEOUT：请求级 deadline 已到
type DomainError struct {
	Code    string // 错误代码（如 "NOT_FOUND", "TIMEOUT"）
	Message string // 错误消息
	Module  string // 模块名称（如 "store", "recall", "engine"）
	Err     error  // 底层原因，可为空
}

func (e *DomainError) Error() string {
	if e.Err != nil {
		return e.Message + ": " + e.Err.Error()
	}
	return e.Message
}

func (e *DomainError) Unwrap() error {
	return e.Err
}

// Is 按 Module + Code 比较，使 errors.Is(err, ErrStoreNotFound) 这类哨兵判断可用。
func (e *DomainError) Is(target error) bool {
	t, ok := target.(*DomainError)
	if !ok {
		return false
	}
	return e.Code == t.Code && (t.Module == "" || e.Module == t.Module)
}

// NewDomainError 创建新的领域错误
func NewDomainError(module, code, message string) *DomainError {
	return &DomainError{
		Module:  module,
		Code:    code,
		Message: message,
	}
}

// WrapDomainError 创建带底层原因的领域错误
func WrapDomainError(module, code, message string, err error) *DomainError {
	return &DomainError{
		Module:  module,
		Code:    code,
		Message: message,
		Err:     err,
	}
}

// 错误代码常量
const (
	ErrorCodeInvalidInput     = "INVALID_INPUT"     // 输入无效
	ErrorCodeNotFound         = "NOT_FOUND"         // 资源不存在
	ErrorCodeStoreUnavailable = "STORE_UNAVAILABLE" // 存储不可用或数据损坏
	ErrorCodeTimeout          = "TIMEOUT"           // 请求超时
	ErrorCodeNotSupported     = "NOT_SUPPORTED"     // 操作不支持
	ErrorCodeInternalError    = "INTERNAL_ERROR"    // 内部错误
)

// 模块名称常量
const (
	ModuleStore   = "store"
	ModuleRecall  = "recall"
	ModuleRank    = "rank"
	ModuleRerank  = "rerank"
	ModuleEngine  = "engine"
	ModuleVector  = "vector"
	ModuleRequest = "request"
)

// GetDomainError 沿 wrap 链查找 DomainError，找不到返回 nil
func GetDomainError(err error) *DomainError {
	if err == nil {
		return nil
	}
	var domainErr *DomainError
	if errors.As(err, &domainErr) {
		return domainErr
	}
	return nil
}

// IsDomainError 检查错误链中是否存在 DomainError
func IsDomainError(err error) bool {
	return GetDomainError(err) != nil
}

// ErrorCode 返回错误种类；非 DomainError 一律视为 INTERNAL_ERROR。
func ErrorCode(err error) string {
	if err == nil {
		return ""
	}
	if domainErr := GetDomainError(err); domainErr != nil {
		return domainErr.Code
	}
	return ErrorCodeInternalError
}

func hasCode(err error, code string) bool {
	domainErr := GetDomainError(err)
	return domainErr != nil && domainErr.Code == code
}

// IsInvalidInput 检查错误是否为 INVALID_INPUT
func IsInvalidInput(err error) bool { return hasCode(err, ErrorCodeInvalidInput) }

// IsNotFound 检查错误是否为 NOT_FOUND
func IsNotFound(err error) bool { return hasCode(err, ErrorCodeNotFound) }

// IsStoreUnavailable 检查错误是否为 STORE_UNAVAILABLE
func IsStoreUnavailable(err error) bool { return hasCode(err, ErrorCodeStoreUnavailable) }

// IsTimeout 检查错误是否为 TIMEOUT
func IsTimeout(err error) bool { return hasCode(err, ErrorCodeTimeout) }

// IsNotSupported 检查错误是否为 NOT_SUPPORTED
func IsNotSupported(err error) bool { return hasCode(err, ErrorCodeNotSupported) }

// InvalidInput 构造 INVALID_INPUT 错误
func InvalidInput(module, message string) *DomainError {
	return NewDomainError(module, ErrorCodeInvalidInput, message)
}

// FromContext 把 context 的取消/超时转换为 TIMEOUT；其它错误原样返回。
// 已经是 DomainError 的错误不会被改写。
func FromContext(err error) error {
	if err == nil {
		return nil
	}
	if IsDomainError(err) {
		return err
	}
	if errors.Is(err, context.DeadlineExceeded) || errors.Is(err, context.Canceled) {
		return WrapDomainError(ModuleEngine, ErrorCodeTimeout, "request deadline exceeded", err)
	}
	return err
}
