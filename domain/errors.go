package domain

import (
	"errors"
	"fmt"

	driver "go.mongodb.org/mongo-driver/mongo"
)

// ErrorKind 错误分类，决定 HTTP 状态码以及是否中止当前操作
type ErrorKind string

const (
	KindValidation     ErrorKind = "VALIDATION_ERROR"
	KindNotFound       ErrorKind = "NOT_FOUND"
	KindMediaUpload    ErrorKind = "MEDIA_UPLOAD_ERROR"
	KindMediaDelete    ErrorKind = "MEDIA_DELETE_ERROR"
	KindRepository     ErrorKind = "REPOSITORY_ERROR"
	KindPartialFailure ErrorKind = "PARTIAL_FAILURE"
	KindUnauthorized   ErrorKind = "UNAUTHORIZED"
	KindForbidden      ErrorKind = "FORBIDDEN"
)

// Error 目录服务统一错误
type Error struct {
	Kind    ErrorKind
	Message string
	// Details 用于对账的上下文（实体ID等），只写日志，不返回给客户端
	Details map[string]string
	Err     error
}

func (e *Error) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("%s: %s: %v", e.Kind, e.Message, e.Err)
	}
	return fmt.Sprintf("%s: %s", e.Kind, e.Message)
}

func (e *Error) Unwrap() error {
	return e.Err
}

// WithDetail 附加对账上下文
func (e *Error) WithDetail(key, value string) *Error {
	if e.Details == nil {
		e.Details = make(map[string]string)
	}
	e.Details[key] = value
	return e
}

func newError(kind ErrorKind, err error, format string, args ...interface{}) *Error {
	return &Error{Kind: kind, Message: fmt.Sprintf(format, args...), Err: err}
}

func Validation(format string, args ...interface{}) *Error {
	return newError(KindValidation, nil, format, args...)
}

func NotFound(format string, args ...interface{}) *Error {
	return newError(KindNotFound, nil, format, args...)
}

func MediaUpload(err error, format string, args ...interface{}) *Error {
	return newError(KindMediaUpload, err, format, args...)
}

func MediaDelete(err error, format string, args ...interface{}) *Error {
	return newError(KindMediaDelete, err, format, args...)
}

func Repository(err error, format string, args ...interface{}) *Error {
	return newError(KindRepository, err, format, args...)
}

func PartialFailure(err error, format string, args ...interface{}) *Error {
	return newError(KindPartialFailure, err, format, args...)
}

func Unauthorized(format string, args ...interface{}) *Error {
	return newError(KindUnauthorized, nil, format, args...)
}

func Forbidden(format string, args ...interface{}) *Error {
	return newError(KindForbidden, nil, format, args...)
}

// KindOf 返回错误链中第一个目录错误的分类，未知错误返回空字符串
func KindOf(err error) ErrorKind {
	var e *Error
	if errors.As(err, &e) {
		return e.Kind
	}
	return ""
}

func IsKind(err error, kind ErrorKind) bool {
	return err != nil && KindOf(err) == kind
}

// IsNotFound 判断驱动层的“无文档”错误
func IsNotFound(err error) bool {
	return errors.Is(err, driver.ErrNoDocuments)
}
