package payment

import (
	"errors"
)

// Status 支付状态
// 生命周期：created -> completed（执行成功）或 created -> cancelled（主动取消）
// completed 和 cancelled 为终态；failed 预留给未来的失败记录需求
type Status string

const (
	StatusCreated   Status = "created"   // 已在 PayPal 创建，等待付款人授权
	StatusCompleted Status = "completed" // 已执行完成
	StatusCancelled Status = "cancelled" // 已取消
	StatusFailed    Status = "failed"    // 失败（预留）
)

// Validate 验证支付记录
func (p *Payment) Validate() error {
	if p.CustomerName == "" {
		return errors.New("customer_name is required")
	}
	if p.CustomerEmail == "" {
		return errors.New("customer_email is required")
	}
	if p.Amount <= 0 {
		return errors.New("amount must be greater than 0")
	}
	if p.PayPalPaymentID == "" {
		return errors.New("paypal_payment_id is required")
	}
	return nil
}

// IsCreated 检查是否处于待执行状态
func (p *Payment) IsCreated() bool {
	return p.Status == string(StatusCreated)
}

// IsCompleted 检查是否已执行完成
func (p *Payment) IsCompleted() bool {
	return p.Status == string(StatusCompleted)
}

// IsCancelled 检查是否已取消
func (p *Payment) IsCancelled() bool {
	return p.Status == string(StatusCancelled)
}

// IsTerminal 检查是否处于终态
func (p *Payment) IsTerminal() bool {
	return p.IsCompleted() || p.IsCancelled()
}
