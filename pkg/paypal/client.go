// Package paypal 封装 PayPal REST Payments API（v1）的客户端
package paypal

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"net/url"
	"sync"
	"time"

	"github.com/go-resty/resty/v2"
)

// 令牌过期前的提前刷新余量
const tokenLeeway = 60 * time.Second

// DefaultTimeout 未配置超时时的兜底值
const DefaultTimeout = 30 * time.Second

// Gateway 支付网关接口，控制器依赖此接口而非具体客户端
type Gateway interface {
	// CreateSale 创建一笔 sale 支付，返回 PayPal 支付对象
	CreateSale(ctx context.Context, amount string, description string) (*Payment, error)
	// FindPayment 按 PayPal 支付 ID 查询，不存在时返回 ErrNotFound
	FindPayment(ctx context.Context, paymentID string) (*Payment, error)
	// ExecutePayment 在付款人授权后执行支付
	ExecutePayment(ctx context.Context, paymentID string, payerID string) (*Payment, error)
}

// Client PayPal API 客户端
type Client struct {
	http *resty.Client
	cfg  Config

	mu          sync.Mutex
	accessToken string
	tokenExpiry time.Time
}

// 编译期确认 Client 实现了 Gateway
var _ Gateway = (*Client)(nil)

// NewClient 创建 PayPal 客户端
func NewClient(cfg Config) (*Client, error) {
	if cfg.ClientID == "" || cfg.Secret == "" {
		return nil, errors.New("paypal: client id and secret are required")
	}

	// 解析 API 地址
	baseURL := cfg.BaseURL
	if baseURL == "" {
		switch cfg.Mode {
		case ModeLive:
			baseURL = liveBaseURL
		case ModeSandbox, "":
			baseURL = sandboxBaseURL
		default:
			return nil, fmt.Errorf("paypal: unknown mode: %s", cfg.Mode)
		}
	}

	if cfg.Timeout <= 0 {
		cfg.Timeout = DefaultTimeout
	}

	// 所有请求都带有界超时，超时按"处理器不可达"处理，不做重试
	httpClient := resty.New().
		SetBaseURL(baseURL).
		SetTimeout(cfg.Timeout)

	return &Client{
		http: httpClient,
		cfg:  cfg,
	}, nil
}

// CreateSale 创建一笔 sale 支付
// 单条目、美元计价，回调地址来源于配置
func (c *Client) CreateSale(ctx context.Context, amount string, description string) (*Payment, error) {
	token, err := c.token(ctx)
	if err != nil {
		return nil, err
	}

	body := &PaymentRequest{
		Intent: "sale",
		Payer:  Payer{PaymentMethod: "paypal"},
		RedirectURLs: RedirectURLs{
			ReturnURL: c.cfg.ReturnURL,
			CancelURL: c.cfg.CancelURL,
		},
		Transactions: []Transaction{{
			ItemList: &ItemList{
				Items: []Item{{
					Name:     "Business Payment",
					SKU:      "001",
					Price:    amount,
					Currency: "USD",
					Quantity: 1,
				}},
			},
			Amount:      Amount{Total: amount, Currency: "USD"},
			Description: description,
		}},
	}

	var result Payment
	resp, err := c.http.R().
		SetContext(ctx).
		SetAuthToken(token).
		SetHeader("Content-Type", "application/json").
		SetBody(body).
		SetResult(&result).
		Post("/v1/payments/payment")
	if err != nil {
		return nil, fmt.Errorf("paypal: create payment: %w", err)
	}
	if resp.IsError() {
		return nil, c.apiError(resp)
	}
	return &result, nil
}

// FindPayment 按 PayPal 支付 ID 查询支付
func (c *Client) FindPayment(ctx context.Context, paymentID string) (*Payment, error) {
	token, err := c.token(ctx)
	if err != nil {
		return nil, err
	}

	var result Payment
	resp, err := c.http.R().
		SetContext(ctx).
		SetAuthToken(token).
		SetResult(&result).
		Get("/v1/payments/payment/" + url.PathEscape(paymentID))
	if err != nil {
		return nil, fmt.Errorf("paypal: find payment: %w", err)
	}
	if resp.IsError() {
		return nil, c.apiError(resp)
	}
	return &result, nil
}

// ExecutePayment 执行已授权的支付
func (c *Client) ExecutePayment(ctx context.Context, paymentID string, payerID string) (*Payment, error) {
	token, err := c.token(ctx)
	if err != nil {
		return nil, err
	}

	var result Payment
	resp, err := c.http.R().
		SetContext(ctx).
		SetAuthToken(token).
		SetHeader("Content-Type", "application/json").
		SetBody(&PaymentExecution{PayerID: payerID}).
		SetResult(&result).
		Post("/v1/payments/payment/" + url.PathEscape(paymentID) + "/execute")
	if err != nil {
		return nil, fmt.Errorf("paypal: execute payment: %w", err)
	}
	if resp.IsError() {
		return nil, c.apiError(resp)
	}
	return &result, nil
}

// token 获取访问令牌，带缓存，过期前 tokenLeeway 内会提前刷新
func (c *Client) token(ctx context.Context) (string, error) {
	c.mu.Lock()
	defer c.mu.Unlock()

	if c.accessToken != "" && time.Until(c.tokenExpiry) > tokenLeeway {
		return c.accessToken, nil
	}

	var result tokenResponse
	resp, err := c.http.R().
		SetContext(ctx).
		SetBasicAuth(c.cfg.ClientID, c.cfg.Secret).
		SetFormData(map[string]string{"grant_type": "client_credentials"}).
		SetResult(&result).
		Post("/v1/oauth2/token")
	if err != nil {
		return "", fmt.Errorf("paypal: fetch access token: %w", err)
	}
	if resp.IsError() {
		return "", c.apiError(resp)
	}
	if result.AccessToken == "" {
		return "", errors.New("paypal: empty access token in response")
	}

	c.accessToken = result.AccessToken
	c.tokenExpiry = time.Now().Add(time.Duration(result.ExpiresIn) * time.Second)
	return c.accessToken, nil
}

// apiError 将非 2xx 响应转换为错误
// 404 归一为 ErrNotFound，结构化错误解析为 *APIError，其余按未知错误处理
func (c *Client) apiError(resp *resty.Response) error {
	if resp.StatusCode() == http.StatusNotFound {
		return ErrNotFound
	}

	apiErr := &APIError{StatusCode: resp.StatusCode()}
	if err := json.Unmarshal(resp.Body(), apiErr); err == nil && apiErr.Name != "" {
		return apiErr
	}
	return fmt.Errorf("paypal: unexpected response, status %d: %s", resp.StatusCode(), resp.String())
}
