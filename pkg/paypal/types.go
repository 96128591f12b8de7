package paypal

import (
	"time"
)

// Mode 运行模式
const (
	ModeSandbox = "sandbox"
	ModeLive    = "live"
)

// 各模式对应的 API 地址
const (
	sandboxBaseURL = "https://api.sandbox.paypal.com"
	liveBaseURL    = "https://api.paypal.com"
)

// Config PayPal 客户端配置
// 显式构造后注入，不使用包级全局状态
type Config struct {
	ClientID  string        // 应用 Client ID
	Secret    string        // 应用 Secret
	Mode      string        // sandbox 或 live
	BaseURL   string        // 可选，覆盖默认 API 地址（测试用）
	ReturnURL string        // 支付确认后的回调地址
	CancelURL string        // 支付取消后的回调地址
	Timeout   time.Duration // 单次请求超时时间
}

// Amount 金额
type Amount struct {
	Total    string `json:"total"`
	Currency string `json:"currency"`
}

// Item 订单条目
type Item struct {
	Name     string `json:"name"`
	SKU      string `json:"sku"`
	Price    string `json:"price"`
	Currency string `json:"currency"`
	Quantity int    `json:"quantity"`
}

// ItemList 订单条目列表
type ItemList struct {
	Items []Item `json:"items"`
}

// Transaction 交易信息
type Transaction struct {
	ItemList    *ItemList `json:"item_list,omitempty"`
	Amount      Amount    `json:"amount"`
	Description string    `json:"description,omitempty"`
}

// Payer 付款人信息
type Payer struct {
	PaymentMethod string `json:"payment_method"`
}

// RedirectURLs 支付完成后的跳转地址
type RedirectURLs struct {
	ReturnURL string `json:"return_url"`
	CancelURL string `json:"cancel_url"`
}

// Link PayPal 响应里的 HATEOAS 链接
type Link struct {
	Href   string `json:"href"`
	Rel    string `json:"rel"`
	Method string `json:"method"`
}

// PaymentRequest 创建支付的请求体
type PaymentRequest struct {
	Intent       string        `json:"intent"`
	Payer        Payer         `json:"payer"`
	RedirectURLs RedirectURLs  `json:"redirect_urls"`
	Transactions []Transaction `json:"transactions"`
}

// PaymentExecution 执行支付的请求体
type PaymentExecution struct {
	PayerID string `json:"payer_id"`
}

// Payment PayPal 支付对象
type Payment struct {
	ID           string        `json:"id"`
	Intent       string        `json:"intent"`
	State        string        `json:"state"`
	Payer        Payer         `json:"payer"`
	Transactions []Transaction `json:"transactions"`
	Links        []Link        `json:"links"`
	CreateTime   string        `json:"create_time"`
	UpdateTime   string        `json:"update_time"`
}

// ApprovalURL 从链接里提取付款人确认页地址
// PayPal 不保证链接一定存在，调用方必须处理 false 的情况
func (p *Payment) ApprovalURL() (string, bool) {
	for _, link := range p.Links {
		if link.Rel == "approval_url" {
			return link.Href, true
		}
	}
	return "", false
}

// tokenResponse OAuth2 令牌响应
type tokenResponse struct {
	AccessToken string `json:"access_token"`
	TokenType   string `json:"token_type"`
	ExpiresIn   int64  `json:"expires_in"`
}
