package pricing

import (
	"encoding/json"
	"fmt"
	"math"
)

// =============================================================================
// 静态类型校验 (float64 入参)
// =============================================================================

// requireFinite NaN / ±Inf 不是实数，归为类型错误
func requireFinite(field string, v float64) error {
	if math.IsNaN(v) || math.IsInf(v, 0) {
		return typeError(field, "must be a finite real number")
	}
	return nil
}

func requireNonNegative(field string, v float64) error {
	if err := requireFinite(field, v); err != nil {
		return err
	}
	if v < 0 {
		return valueError(field, "cannot be negative")
	}
	return nil
}

func requirePositive(field string, v float64) error {
	if err := requireFinite(field, v); err != nil {
		return err
	}
	if v <= 0 {
		return valueError(field, "must be positive")
	}
	return nil
}

// finiteResult 合法输入也可能让结果溢出 float64，溢出按取值错误返回
func finiteResult(field string, v float64) (float64, error) {
	if math.IsNaN(v) || math.IsInf(v, 0) {
		return 0, valueError(field, "result overflows float64")
	}
	return v, nil
}

// MaxSteps 步数上限
// 倒推是 O(N²)，超过上限的请求会长时间占住串行的 NATS / Kafka 处理
const MaxSteps = 100_000

func requireSteps(field string, n int) error {
	if n < 1 {
		return valueError(field, "must be at least 1")
	}
	if n > MaxSteps {
		return valueError(field, fmt.Sprintf("must be at most %d", MaxSteps))
	}
	return nil
}

// =============================================================================
// 动态类型校验 (JSON / CLI 入参)
// =============================================================================

// ToReal 把动态类型的入参转成 float64
// 接受 Go 数值类型和 json.Number；string、nil、bool、slice、map、complex 都是类型错误
func ToReal(field string, v any) (float64, error) {
	var f float64
	switch x := v.(type) {
	case float64:
		f = x
	case float32:
		f = float64(x)
	case int:
		f = float64(x)
	case int8:
		f = float64(x)
	case int16:
		f = float64(x)
	case int32:
		f = float64(x)
	case int64:
		f = float64(x)
	case uint:
		f = float64(x)
	case uint8:
		f = float64(x)
	case uint16:
		f = float64(x)
	case uint32:
		f = float64(x)
	case uint64:
		f = float64(x)
	case json.Number:
		parsed, err := x.Float64()
		if err != nil {
			return 0, typeError(field, fmt.Sprintf("%q is not a number", x.String()))
		}
		f = parsed
	case nil:
		return 0, typeError(field, "is required")
	default:
		return 0, typeError(field, fmt.Sprintf("must be a real number, got %T", v))
	}
	if err := requireFinite(field, f); err != nil {
		return 0, err
	}
	return f, nil
}

// ToSteps 把动态类型的入参转成格点步数
// 带小数部分的浮点数是类型错误 (不是整数)，< 1 是取值错误
func ToSteps(field string, v any) (int, error) {
	var n int64
	switch x := v.(type) {
	case int:
		n = int64(x)
	case int32:
		n = int64(x)
	case int64:
		n = x
	case uint32:
		n = int64(x)
	case json.Number:
		if i, err := x.Int64(); err == nil {
			n = i
			break
		}
		f, err := ToReal(field, x)
		if err != nil {
			return 0, err
		}
		if f != math.Trunc(f) {
			return 0, typeError(field, "must be an integer")
		}
		if f > MaxSteps || f < 1 {
			return 0, valueError(field, fmt.Sprintf("must be between 1 and %d", MaxSteps))
		}
		n = int64(f)
	default:
		// JSON 解码后的整数是 float64
		f, err := ToReal(field, v)
		if err != nil {
			return 0, err
		}
		if f != math.Trunc(f) {
			return 0, typeError(field, "must be an integer")
		}
		if f > MaxSteps {
			return 0, valueError(field, fmt.Sprintf("must be at most %d", MaxSteps))
		}
		if f < 1 {
			return 0, valueError(field, "must be at least 1")
		}
		n = int64(f)
	}
	if n > MaxSteps {
		return 0, valueError(field, fmt.Sprintf("must be at most %d", MaxSteps))
	}
	if err := requireSteps(field, int(n)); err != nil {
		return 0, err
	}
	return int(n), nil
}

// ToOptionType 把动态类型的入参转成期权方向
// 只接受字符串 "call" / "put" 或 OptionType 本身
func ToOptionType(field string, v any) (OptionType, error) {
	switch x := v.(type) {
	case OptionType:
		if !x.Valid() {
			return 0, valueError(field, "must be call or put")
		}
		return x, nil
	case string:
		t, err := ParseOptionType(x)
		if err != nil {
			return 0, valueError(field, "must be call or put")
		}
		return t, nil
	case nil:
		return 0, typeError(field, "is required")
	default:
		return 0, typeError(field, fmt.Sprintf("must be a string, got %T", v))
	}
}
