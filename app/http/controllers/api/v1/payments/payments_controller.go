// Package payments 支付生命周期控制器
package payments

import (
	"errors"
	"fmt"
	"strconv"
	"time"

	"github.com/gin-gonic/gin"
	"gorm.io/gorm"

	"paygate/app/models/payment"
	"paygate/app/repositories"
	"paygate/app/requests"
	"paygate/pkg/database"
	"paygate/pkg/logger"
	"paygate/pkg/paypal"
	"paygate/pkg/redis"
	"paygate/pkg/response"
)

// 对外暴露的固定提示语，属 API 契约，勿改动文案
const (
	msgMissingExecuteParams = "Missing paymentId or PayerID. Please ensure the payment is approved via PayPal."
	msgMissingPaymentID     = "Missing paymentId"
	msgPaymentNotFound      = "Payment not found"
	msgNotApproved          = "Payment not approved by payer. Please complete approval on PayPal."
	msgUnexpected           = "An unexpected error occurred."
	msgStateConflict        = "Payment has already been completed or cancelled"
)

// PaymentsController 支付控制器
// 网关通过接口注入，便于测试和替换
type PaymentsController struct {
	gateway paypal.Gateway
	repo    *repositories.PaymentRepository
}

// NewPaymentsController 创建支付控制器
func NewPaymentsController(gateway paypal.Gateway, repo *repositories.PaymentRepository) *PaymentsController {
	return &PaymentsController{
		gateway: gateway,
		repo:    repo,
	}
}

// Store 发起支付
// POST /api/v1/payments/
func (pc *PaymentsController) Store(c *gin.Context) {
	// 1. 请求验证，不通过则不触达 PayPal
	req, errs := requests.ValidatePaymentCreate(c)
	if errs != nil {
		response.ValidationErrors(c, errs)
		return
	}

	// 2. 在 PayPal 创建支付
	amount := fmt.Sprintf("%.2f", req.Amount)
	description := fmt.Sprintf("Payment by %s", req.CustomerName)

	pp, err := pc.gateway.CreateSale(c.Request.Context(), amount, description)
	if err != nil {
		var apiErr *paypal.APIError
		if errors.As(err, &apiErr) {
			// PayPal 明确拒绝，带上处理器返回的错误描述
			logger.ErrorString("支付", "创建被拒绝", apiErr.Error())
			response.Abort400(c, apiErr.Error())
			return
		}
		logger.ErrorString("支付", "创建", err.Error())
		response.Abort500(c, msgUnexpected)
		return
	}

	// 3. 先提取确认链接再落库，链接缺失视为异常响应，保证不会留下半成品记录
	approvalURL, ok := pp.ApprovalURL()
	if !ok {
		logger.ErrorString("支付", "创建", "PayPal 响应缺少 approval_url 链接，payment_id: "+pp.ID)
		response.Abort500(c, msgUnexpected)
		return
	}

	// 4. 持久化本地记录
	record := &payment.Payment{
		CustomerName:    req.CustomerName,
		CustomerEmail:   req.CustomerEmail,
		Amount:          req.Amount,
		PayPalPaymentID: pp.ID,
		Status:          string(payment.StatusCreated),
	}
	if err := pc.repo.Create(c.Request.Context(), record); err != nil {
		logger.ErrorString("支付", "落库", err.Error())
		response.Abort500(c, msgUnexpected)
		return
	}

	response.Created(c, gin.H{
		"status":            response.Success,
		"payment_id":        record.ID,
		"paypal_payment_id": pp.ID,
		"approval_url":      approvalURL,
	})
}

// Show 查询支付状态
// GET /api/v1/payments/:id/
// 只读本地记录，不向 PayPal 发起查询
func (pc *PaymentsController) Show(c *gin.Context) {
	id, err := strconv.ParseUint(c.Param("id"), 10, 64)
	if err != nil {
		response.Abort404(c, msgPaymentNotFound+".")
		return
	}

	record, err := pc.repo.GetByID(c.Request.Context(), id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			response.Abort404(c, msgPaymentNotFound+".")
			return
		}
		response.ServerError(c, err, msgUnexpected)
		return
	}

	response.JSON(c, gin.H{
		"payment": record,
		"status":  response.Success,
		"message": "Payment details retrieved successfully.",
	})
}

// Execute 执行支付（付款人在 PayPal 完成授权后回调）
// GET /api/v1/payment/execute/?paymentId=&PayerID=
func (pc *PaymentsController) Execute(c *gin.Context) {
	paymentID := c.Query("paymentId")
	payerID := c.Query("PayerID")
	if paymentID == "" || payerID == "" {
		response.Abort400(c, msgMissingExecuteParams)
		return
	}

	ctx := c.Request.Context()

	// 1. 确认 PayPal 侧存在该支付
	if _, err := pc.gateway.FindPayment(ctx, paymentID); err != nil {
		if errors.Is(err, paypal.ErrNotFound) {
			response.Abort404(c, msgPaymentNotFound)
			return
		}
		response.ServerError(c, err, msgUnexpected)
		return
	}

	// 2. 执行支付
	if _, err := pc.gateway.ExecutePayment(ctx, paymentID, payerID); err != nil {
		var apiErr *paypal.APIError
		switch {
		case errors.Is(err, paypal.ErrNotFound):
			response.Abort404(c, msgPaymentNotFound)
		case errors.As(err, &apiErr) && apiErr.NotApproved():
			response.Abort400(c, msgNotApproved)
		case errors.As(err, &apiErr):
			logger.ErrorString("支付", "执行失败", apiErr.Error())
			response.Abort400(c, apiErr.Error())
		default:
			response.ServerError(c, err, msgUnexpected)
		}
		return
	}

	// 3. 条件转移本地状态，防止并发重复执行
	// PayPal 有记录而本地没有属于数据不一致，对外统一按未找到处理
	record, err := pc.repo.TransitionStatus(ctx, paymentID, payment.StatusCreated, payment.StatusCompleted)
	if err != nil {
		switch {
		case errors.Is(err, gorm.ErrRecordNotFound):
			response.Abort404(c, msgPaymentNotFound)
		case errors.Is(err, repositories.ErrStateConflict):
			response.Abort409(c, msgStateConflict)
		default:
			response.ServerError(c, err, msgUnexpected)
		}
		return
	}

	response.JSON(c, gin.H{
		"status":     response.Success,
		"message":    "Payment executed successfully",
		"payment_id": record.ID,
	})
}

// Cancel 取消支付
// GET /api/v1/payment/cancel/?paymentId=
// 纯本地状态转移，不调用 PayPal
func (pc *PaymentsController) Cancel(c *gin.Context) {
	paymentID := c.Query("paymentId")
	if paymentID == "" {
		response.Abort400(c, msgMissingPaymentID)
		return
	}

	record, err := pc.repo.TransitionStatus(c.Request.Context(), paymentID, payment.StatusCreated, payment.StatusCancelled)
	if err != nil {
		switch {
		case errors.Is(err, gorm.ErrRecordNotFound):
			response.Abort404(c, msgPaymentNotFound)
		case errors.Is(err, repositories.ErrStateConflict):
			response.Abort409(c, msgStateConflict)
		default:
			response.ServerError(c, err, msgUnexpected)
		}
		return
	}

	response.JSON(c, gin.H{
		"status":     response.Success,
		"message":    "Payment cancelled successfully",
		"payment_id": record.ID,
	})
}

// HealthCheck 健康检查端点
// GET /api/v1/health
func (pc *PaymentsController) HealthCheck(c *gin.Context) {
	// 检查数据库连接
	if database.SQLDB == nil {
		response.Abort500(c, "database unavailable")
		return
	}
	if err := database.SQLDB.Ping(); err != nil {
		response.Abort500(c, "database unavailable")
		return
	}

	// 检查 Redis 连接（未启用时跳过）
	if redis.Redis != nil {
		if err := redis.Redis.Ping(); err != nil {
			response.Abort500(c, "redis unavailable")
			return
		}
	}

	response.JSON(c, gin.H{
		"status": "ok",
		"time":   time.Now().Unix(),
	})
}
