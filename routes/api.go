// Package routes 注册路由
package routes

import (
	"paygate/app/http/controllers/api/v1/payments"
	"paygate/app/http/middlewares"
	"paygate/app/repositories"
	"paygate/pkg/paypal"

	"github.com/gin-gonic/gin"
)

// 路由限流配置
const (
	// 🌍 全局限流：每小时每IP 10000 请求
	GlobalRateLimit = "10000-H"
	// 💳 创建支付限流：每小时每IP 100 请求
	CreatePaymentLimit = "100-H"
)

// RegisterAPIRoutes 注册所有 API 路由
// PayPal 网关由调用方显式构造后注入
func RegisterAPIRoutes(r *gin.Engine, gateway paypal.Gateway) {
	v1 := r.Group("/api/v1")

	v1.Use(
		middlewares.SecurityHeaders(),
		middlewares.LimitIP(GlobalRateLimit),
		middlewares.Cors(),
	)

	pc := payments.NewPaymentsController(gateway, repositories.NewPaymentRepository())

	// 💳 发起支付
	// POST /api/v1/payments/
	// 请求频率：每小时每IP最多100次
	v1.POST("/payments/",
		middlewares.LimitPerRoute(CreatePaymentLimit),
		pc.Store,
	)

	// 📊 查询支付状态（只读本地记录）
	// GET /api/v1/payments/:id/
	v1.GET("/payments/:id/", pc.Show)

	// ✅ 执行支付（付款人授权后的回调）
	// GET /api/v1/payment/execute/?paymentId=&PayerID=
	v1.GET("/payment/execute/", pc.Execute)

	// ❌ 取消支付（仅本地状态转移）
	// GET /api/v1/payment/cancel/?paymentId=
	v1.GET("/payment/cancel/", pc.Cancel)

	// 💚 健康检查
	v1.GET("/health", pc.HealthCheck)
}
