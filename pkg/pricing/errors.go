// 文件: pkg/pricing/errors.go
// 定价参数错误分类
//
// 三类错误，调用方用 errors.Is 区分:
// - ErrInvalidType:     参数不是实数 (字符串、nil、NaN、Inf ...)
// - ErrInvalidValue:    参数是实数，但超出取值范围
// - ErrModelDegenerate: 参数合法，但模型本身退化 (σ=0、风险中性概率越界)

package pricing

import (
	"errors"
	"fmt"
)

var (
	ErrInvalidType     = errors.New("invalid type")
	ErrInvalidValue    = errors.New("invalid value")
	ErrModelDegenerate = errors.New("model degenerate")
)

// ParamError 携带出错字段的参数错误
// Kind 一定是上面三个哨兵错误之一
type ParamError struct {
	Field  string
	Kind   error
	Reason string
}

func (e *ParamError) Error() string {
	return fmt.Sprintf("%v: %s: %s", e.Kind, e.Field, e.Reason)
}

func (e *ParamError) Unwrap() error { return e.Kind }

func typeError(field, reason string) error {
	return &ParamError{Field: field, Kind: ErrInvalidType, Reason: reason}
}

func valueError(field, reason string) error {
	return &ParamError{Field: field, Kind: ErrInvalidValue, Reason: reason}
}

func degenerateError(field, reason string) error {
	return &ParamError{Field: field, Kind: ErrModelDegenerate, Reason: reason}
}

// ErrorKind 返回错误的线上编码，供传输层序列化
func ErrorKind(err error) string {
	switch {
	case err == nil:
		return ""
	case errors.Is(err, ErrInvalidType):
		return "invalid_type"
	case errors.Is(err, ErrInvalidValue):
		return "invalid_value"
	case errors.Is(err, ErrModelDegenerate):
		return "model_degenerate"
	default:
		return "internal"
	}
}

// ErrorField 返回出错字段名 (非 ParamError 返回空串)
func ErrorField(err error) string {
	var pe *ParamError
	if errors.As(err, &pe) {
		return pe.Field
	}
	return ""
}
