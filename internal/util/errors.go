package util

import (
	"errors"
	"fmt"
	"net/http"
)

// ErrTransactionNotFound 记录不存在或不属于当前用户
var ErrTransactionNotFound = errors.New("transaction not found")

// AuthError 未登录、token 格式错误或校验失败。
// Reason 只写日志，不返回给客户端
type AuthError struct {
	Reason string
	Err    error
}

func (e *AuthError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("auth: %s: %v", e.Reason, e.Err)
	}
	return "auth: " + e.Reason
}

func (e *AuthError) Unwrap() error { return e.Err }

// NewAuthError 构造 AuthError
func NewAuthError(reason string, err error) *AuthError {
	return &AuthError{Reason: reason, Err: err}
}

// ValidationError 单个字段的参数错误
type ValidationError struct {
	Field   string
	Message string
}

func (e *ValidationError) Error() string {
	if e.Field == "" {
		return e.Message
	}
	return e.Field + ": " + e.Message
}

// NewValidationError 构造 ValidationError
func NewValidationError(field, msg string) *ValidationError {
	return &ValidationError{Field: field, Message: msg}
}

// TransactionError 在 service 层包装一次的存储错误
type TransactionError struct {
	Op       string
	NotFound bool
	Err      error
}

func (e *TransactionError) Error() string {
	if e.NotFound {
		return ErrTransactionNotFound.Error()
	}
	return fmt.Sprintf("%s transaction: %v", e.Op, e.Err)
}

func (e *TransactionError) Unwrap() error { return e.Err }

// NewTransactionError 包装操作 op 的错误
func NewTransactionError(op string, err error) *TransactionError {
	return &TransactionError{Op: op, NotFound: errors.Is(err, ErrTransactionNotFound), Err: err}
}

// NotFound 统一的“记录不存在”错误
func NotFound(op string) *TransactionError {
	return &TransactionError{Op: op, NotFound: true, Err: ErrTransactionNotFound}
}

// StatusFor 错误类型 -> HTTP 状态码和返回给客户端的信息
func StatusFor(err error) (int, string) {
	var authErr *AuthError
	var valErr *ValidationError
	var txErr *TransactionError

	switch {
	case errors.As(err, &authErr):
		return http.StatusUnauthorized, "unauthorized"
	case errors.As(err, &valErr):
		return http.StatusBadRequest, valErr.Error()
	case errors.As(err, &txErr):
		if txErr.NotFound {
			return http.StatusNotFound, ErrTransactionNotFound.Error()
		}
		return http.StatusInternalServerError, txErr.Error()
	case errors.Is(err, ErrTransactionNotFound):
		return http.StatusNotFound, ErrTransactionNotFound.Error()
	default:
		return http.StatusInternalServerError, err.Error()
	}
}
