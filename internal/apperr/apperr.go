// Package apperr 定义核心层统一的错误类型，表现层按 Kind 映射状态码。
package apperr

import (
	"errors"
	"fmt"

	"gorm.io/gorm"
)

// Kind 错误类别
type Kind string

const (
	KindConflict     Kind = "CONFLICT"
	KindForbidden    Kind = "FORBIDDEN"
	KindInvalidState Kind = "INVALID_STATE"
	KindNotFound     Kind = "NOT_FOUND"
	KindInternal     Kind = "INTERNAL"
)

// Error 应用错误，Err 仅用于日志，不出现在 Error() 中
type Error struct {
	Kind    Kind
	Message string
	Err     error
}

func (e *Error) Error() string {
	return e.Message
}

func (e *Error) Unwrap() error {
	return e.Err
}

func Conflict(message string) *Error {
	return &Error{Kind: KindConflict, Message: message}
}

func Forbidden(message string) *Error {
	return &Error{Kind: KindForbidden, Message: message}
}

func InvalidState(message string) *Error {
	return &Error{Kind: KindInvalidState, Message: message}
}

func NotFound(resource string, id interface{}) *Error {
	return &Error{Kind: KindNotFound, Message: fmt.Sprintf("%s %v 不存在", resource, id)}
}

// Internal 包装存储/事务失败，对外只暴露通用信息
func Internal(err error) *Error {
	return &Error{Kind: KindInternal, Message: "服务内部错误", Err: err}
}

// KindOf 返回错误类别，非 *Error 一律视为 Internal
func KindOf(err error) Kind {
	var appErr *Error
	if errors.As(err, &appErr) {
		return appErr.Kind
	}
	return KindInternal
}

// Is 判断错误是否属于指定类别
func Is(err error, kind Kind) bool {
	return err != nil && KindOf(err) == kind
}

// FromDB 把 gorm 错误翻译为应用错误；已是 *Error 的原样返回
func FromDB(err error, resource string, id interface{}) error {
	if err == nil {
		return nil
	}
	var appErr *Error
	if errors.As(err, &appErr) {
		return appErr
	}
	switch {
	case errors.Is(err, gorm.ErrRecordNotFound):
		return NotFound(resource, id)
	case errors.Is(err, gorm.ErrDuplicatedKey):
		return &Error{Kind: KindConflict, Message: fmt.Sprintf("%s 已存在", resource), Err: err}
	default:
		return Internal(err)
	}
}
