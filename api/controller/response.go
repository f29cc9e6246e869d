package controller

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/listny/listny-backend/domain"
)

// RequestIDKey 请求ID在 gin.Context 中的键
const RequestIDKey = "request_id"

const internalErrorMessage = "Internal server error"

// ErrorBody 错误响应，message 字段与前端约定一致
type ErrorBody struct {
	Message   string `json:"message"`
	Code      string `json:"code,omitempty"`
	RequestID string `json:"requestId,omitempty"`
}

// ErrorResponse 中止请求并写出错误
func ErrorResponse(ctx *gin.Context, status int, code, message string) {
	ctx.AbortWithStatusJSON(status, ErrorBody{
		Message:   message,
		Code:      code,
		RequestID: ctx.GetString(RequestIDKey),
	})
}

// SuccessResponse 直接写出数据本身
func SuccessResponse(ctx *gin.Context, data interface{}) {
	ctx.JSON(http.StatusOK, data)
}

// MessageResponse 带提示语的响应，如 {"message": "...", "song": {...}}
func MessageResponse(ctx *gin.Context, status int, message, key string, data interface{}) {
	body := gin.H{"message": message}
	if key != "" {
		body[key] = data
	}
	ctx.JSON(status, body)
}

// StatusOf 错误分类到 HTTP 状态码。删除路径上的 PartialFailure 视为服务端错误
func StatusOf(err error) int {
	switch domain.KindOf(err) {
	case domain.KindValidation:
		return http.StatusBadRequest
	case domain.KindUnauthorized:
		return http.StatusUnauthorized
	case domain.KindForbidden:
		return http.StatusForbidden
	case domain.KindNotFound:
		return http.StatusNotFound
	case domain.KindMediaUpload:
		return http.StatusBadGateway
	default:
		return http.StatusInternalServerError
	}
}

// HandleError 写出错误响应；5xx 只返回通用提示，原始错误交给访问日志
func HandleError(ctx *gin.Context, err error) {
	_ = ctx.Error(err)

	status := StatusOf(err)
	code := string(domain.KindOf(err))
	if code == "" {
		code = "INTERNAL_ERROR"
	}

	message := internalErrorMessage
	if status < http.StatusInternalServerError {
		var derr *domain.Error
		if errors.As(err, &derr) {
			message = derr.Message
		}
	} else if status == http.StatusBadGateway {
		message = "Media upload failed"
	}

	ErrorResponse(ctx, status, code, message)
}
