package paypal

import (
	"errors"
	"fmt"
)

// ErrNotFound PayPal 侧不存在该支付
var ErrNotFound = errors.New("paypal: payment not found")

// NamePaymentNotApproved 付款人尚未在 PayPal 完成授权时 execute 的错误标识
const NamePaymentNotApproved = "PAYMENT_NOT_APPROVED_FOR_EXECUTION"

// APIError PayPal 返回的结构化错误
type APIError struct {
	StatusCode      int    `json:"-"`
	Name            string `json:"name"`
	Message         string `json:"message"`
	InformationLink string `json:"information_link,omitempty"`
	DebugID         string `json:"debug_id,omitempty"`
}

// Error 实现 error 接口
func (e *APIError) Error() string {
	if e.Message == "" {
		return e.Name
	}
	return fmt.Sprintf("%s: %s", e.Name, e.Message)
}

// NotApproved 判断是否为"支付未被付款人授权"错误
func (e *APIError) NotApproved() bool {
	return e.Name == NamePaymentNotApproved
}
