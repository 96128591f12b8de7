// Package response 提供统一的 HTTP 响应处理
package response

import (
	"net/http"

	"paygate/pkg/logger"

	"github.com/gin-gonic/gin"
)

// 预定义响应状态
const (
	Success = "success" // 成功状态
	Error   = "error"   // 错误状态
)

/* 错误响应结构（对外契约，勿改字段名）
{
    "status": "error",
    "message": "..."
}
*/

// ErrorResponse 统一错误响应结构体
type ErrorResponse struct {
	Status  string `json:"status"`
	Message string `json:"message"`
}

// ------------------ 🎯 成功响应系列 ------------------

// JSON 响应 200 和传入的数据
func JSON(c *gin.Context, data interface{}) {
	c.JSON(http.StatusOK, data)
}

// Created 响应 201 和传入的数据
func Created(c *gin.Context, data interface{}) {
	c.JSON(http.StatusCreated, data)
}

// ------------------ 错误响应系列 ------------------

// Abort400 响应 400 错误
func Abort400(c *gin.Context, msg ...string) {
	c.AbortWithStatusJSON(http.StatusBadRequest, ErrorResponse{
		Status:  Error,
		Message: getMsg("请求参数错误", msg...),
	})
}

// Abort404 响应 404 错误
func Abort404(c *gin.Context, msg ...string) {
	c.AbortWithStatusJSON(http.StatusNotFound, ErrorResponse{
		Status:  Error,
		Message: getMsg("资源不存在", msg...),
	})
}

// Abort409 响应 409 错误，用于状态冲突（如重复执行/取消支付）
func Abort409(c *gin.Context, msg ...string) {
	c.AbortWithStatusJSON(http.StatusConflict, ErrorResponse{
		Status:  Error,
		Message: getMsg("资源状态冲突", msg...),
	})
}

// Abort500 响应 500 错误
// 对外只暴露笼统信息，详细错误通过 logger 记录在服务端
func Abort500(c *gin.Context, msg ...string) {
	c.AbortWithStatusJSON(http.StatusInternalServerError, ErrorResponse{
		Status:  Error,
		Message: getMsg("服务器内部错误", msg...),
	})
}

// ServerError 响应 500 错误（记录错误详情，仅返回笼统消息）
func ServerError(c *gin.Context, err error, msg ...string) {
	logger.LogIf(err)
	Abort500(c, msg...)
}

// ValidationErrors 响应 400 表单验证错误
// 直接以字段错误结构作为响应体，与其他错误响应的结构不同，属对外兼容性契约
func ValidationErrors(c *gin.Context, errors map[string][]string) {
	c.AbortWithStatusJSON(http.StatusBadRequest, errors)
}

// getMsg 获取消息内容
func getMsg(defaultMsg string, msg ...string) string {
	if len(msg) > 0 {
		return msg[0]
	}
	return defaultMsg
}
