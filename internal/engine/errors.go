package engine

import (
	"errors"
	"fmt"
)

// Kind 错误类别
// HTTP 层负责把类别映射为状态码，引擎自身不感知传输协议
type Kind string

const (
	KindNotFound          Kind = "not_found"          // 文件或行不存在
	KindAmbiguous         Kind = "ambiguous"          // 业务键命中多行
	KindSchemaViolation   Kind = "schema_violation"   // 必需列缺失或更新引用未知列
	KindOutOfRange        Kind = "out_of_range"       // 行下标越界
	KindCoercionFailure   Kind = "coercion_failure"   // 数值转换失败（仅严格模式下致命）
	KindIOFailure         Kind = "io_failure"         // 文件读写失败
	KindValidationFailure Kind = "validation_failure" // 定位符非法
)

// Error 引擎结构化错误
type Error struct {
	Kind   Kind
	Detail string
	Err    error
}

func (e *Error) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("%s: %s: %v", e.Kind, e.Detail, e.Err)
	}
	return fmt.Sprintf("%s: %s", e.Kind, e.Detail)
}

func (e *Error) Unwrap() error {
	return e.Err
}

// Errorf 构造指定类别的结构化错误
func Errorf(kind Kind, format string, args ...any) *Error {
	return &Error{Kind: kind, Detail: fmt.Sprintf(format, args...)}
}

// WrapIO 包装底层 I/O 错误
func WrapIO(detail string, err error) *Error {
	return &Error{Kind: KindIOFailure, Detail: detail, Err: err}
}

// KindOf 提取错误类别；非引擎错误返回 KindIOFailure
func KindOf(err error) Kind {
	var e *Error
	if errors.As(err, &e) {
		return e.Kind
	}
	return KindIOFailure
}
