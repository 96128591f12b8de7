package payments_test

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/sqlite"

	"paygate/app/models/payment"
	"paygate/app/repositories"
	"paygate/pkg/database"
	"paygate/pkg/database/migrations"
	"paygate/pkg/logger"
	"paygate/pkg/paypal"
	"paygate/routes"
)

// fakeGateway 可编程的 PayPal 网关替身
type fakeGateway struct {
	createFn  func(ctx context.Context, amount, description string) (*paypal.Payment, error)
	findFn    func(ctx context.Context, paymentID string) (*paypal.Payment, error)
	executeFn func(ctx context.Context, paymentID, payerID string) (*paypal.Payment, error)
}

func (f *fakeGateway) CreateSale(ctx context.Context, amount, description string) (*paypal.Payment, error) {
	if f.createFn == nil {
		return approvedPayment("PAY-123456"), nil
	}
	return f.createFn(ctx, amount, description)
}

func (f *fakeGateway) FindPayment(ctx context.Context, paymentID string) (*paypal.Payment, error) {
	if f.findFn == nil {
		return approvedPayment(paymentID), nil
	}
	return f.findFn(ctx, paymentID)
}

func (f *fakeGateway) ExecutePayment(ctx context.Context, paymentID, payerID string) (*paypal.Payment, error) {
	if f.executeFn == nil {
		return &paypal.Payment{ID: paymentID, State: "approved"}, nil
	}
	return f.executeFn(ctx, paymentID, payerID)
}

func approvedPayment(id string) *paypal.Payment {
	return &paypal.Payment{
		ID:    id,
		State: "created",
		Links: []paypal.Link{
			{Href: "https://paypal.com/approve", Rel: "approval_url", Method: "REDIRECT"},
		},
	}
}

// newTestRouter 建立独立的内存数据库并注册完整路由
func newTestRouter(t *testing.T, gateway paypal.Gateway) *gin.Engine {
	t.Helper()

	gin.SetMode(gin.TestMode)

	dsn := fmt.Sprintf("file:%s?mode=memory&cache=shared", t.Name())
	database.Connect(sqlite.Open(dsn), logger.NewGormLogger())
	require.NoError(t, database.AutoMigrate(migrations.RegisterTables()))

	router := gin.New()
	routes.RegisterAPIRoutes(router, gateway)
	return router
}

func doRequest(t *testing.T, router *gin.Engine, method, target, body string) (*httptest.ResponseRecorder, map[string]interface{}) {
	t.Helper()

	var reader *strings.Reader
	if body == "" {
		reader = strings.NewReader("")
	} else {
		reader = strings.NewReader(body)
	}

	req := httptest.NewRequest(method, target, reader)
	if body != "" {
		req.Header.Set("Content-Type", "application/json")
	}

	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)

	var parsed map[string]interface{}
	if w.Body.Len() > 0 {
		require.NoError(t, json.Unmarshal(w.Body.Bytes(), &parsed))
	}
	return w, parsed
}

// createPayment 通过 API 发起一笔支付，返回本地记录 ID
func createPayment(t *testing.T, router *gin.Engine) uint64 {
	t.Helper()

	body := `{"customer_name": "John Smith", "customer_email": "john@example.com", "amount": 30.00}`
	w, resp := doRequest(t, router, "POST", "/api/v1/payments/", body)
	require.Equal(t, http.StatusCreated, w.Code)
	return uint64(resp["payment_id"].(float64))
}

func TestInitiatePayment(t *testing.T) {
	router := newTestRouter(t, &fakeGateway{})

	body := `{"customer_name": "John Smith", "customer_email": "john@example.com", "amount": 30.00}`
	w, resp := doRequest(t, router, "POST", "/api/v1/payments/", body)

	require.Equal(t, http.StatusCreated, w.Code)
	assert.Equal(t, "success", resp["status"])
	assert.Equal(t, "PAY-123456", resp["paypal_payment_id"])
	assert.Equal(t, "https://paypal.com/approve", resp["approval_url"])
	assert.NotZero(t, resp["payment_id"])

	// 本地记录以 created 状态落库
	record, err := repositories.NewPaymentRepository().GetByPayPalID(context.Background(), "PAY-123456")
	require.NoError(t, err)
	assert.Equal(t, "John Smith", record.CustomerName)
	assert.Equal(t, string(payment.StatusCreated), record.Status)
}

func TestInitiatePaymentValidationErrors(t *testing.T) {
	router := newTestRouter(t, &fakeGateway{})

	cases := []struct {
		name  string
		body  string
		field string
	}{
		{"missing name", `{"customer_email": "john@example.com", "amount": 30.00}`, "customer_name"},
		{"missing email", `{"customer_name": "John Smith", "amount": 30.00}`, "customer_email"},
		{"invalid email", `{"customer_name": "John Smith", "customer_email": "oops", "amount": 30.00}`, "customer_email"},
		{"zero amount", `{"customer_name": "John Smith", "customer_email": "john@example.com", "amount": 0}`, "amount"},
		{"negative amount", `{"customer_name": "John Smith", "customer_email": "john@example.com", "amount": -5}`, "amount"},
		{"malformed body", `{"amount": "thirty"}`, "message"},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			w, resp := doRequest(t, router, "POST", "/api/v1/payments/", tc.body)
			assert.Equal(t, http.StatusBadRequest, w.Code)
			assert.Contains(t, resp, tc.field)
		})
	}

	// 验证失败不会触达 PayPal，也不会落库
	var count int64
	database.DB.Model(&payment.Payment{}).Count(&count)
	assert.Zero(t, count)
}

func TestInitiatePaymentProcessorRejected(t *testing.T) {
	router := newTestRouter(t, &fakeGateway{
		createFn: func(ctx context.Context, amount, description string) (*paypal.Payment, error) {
			return nil, &paypal.APIError{
				StatusCode: http.StatusBadRequest,
				Name:       "VALIDATION_ERROR",
				Message:    "Invalid request - see details",
			}
		},
	})

	body := `{"customer_name": "John Smith", "customer_email": "john@example.com", "amount": 30.00}`
	w, resp := doRequest(t, router, "POST", "/api/v1/payments/", body)

	assert.Equal(t, http.StatusBadRequest, w.Code)
	assert.Equal(t, "error", resp["status"])

	var count int64
	database.DB.Model(&payment.Payment{}).Count(&count)
	assert.Zero(t, count)
}

func TestInitiatePaymentMissingApprovalURL(t *testing.T) {
	router := newTestRouter(t, &fakeGateway{
		createFn: func(ctx context.Context, amount, description string) (*paypal.Payment, error) {
			return &paypal.Payment{ID: "PAY-NOLINK", State: "created"}, nil
		},
	})

	body := `{"customer_name": "John Smith", "customer_email": "john@example.com", "amount": 30.00}`
	w, resp := doRequest(t, router, "POST", "/api/v1/payments/", body)

	assert.Equal(t, http.StatusInternalServerError, w.Code)
	assert.Equal(t, "error", resp["status"])
	assert.Equal(t, "An unexpected error occurred.", resp["message"])

	// 确认链接缺失时不留下半成品记录
	var count int64
	database.DB.Model(&payment.Payment{}).Count(&count)
	assert.Zero(t, count)
}

func TestGetPaymentStatus(t *testing.T) {
	router := newTestRouter(t, &fakeGateway{})
	id := createPayment(t, router)

	w, resp := doRequest(t, router, "GET", fmt.Sprintf("/api/v1/payments/%d/", id), "")

	require.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, "success", resp["status"])
	assert.Equal(t, "Payment details retrieved successfully.", resp["message"])

	record := resp["payment"].(map[string]interface{})
	assert.Equal(t, "John Smith", record["customer_name"])
	assert.Equal(t, "john@example.com", record["customer_email"])
	assert.Equal(t, 30.00, record["amount"])
	assert.Equal(t, "created", record["status"])
}

func TestGetPaymentStatusNotFound(t *testing.T) {
	router := newTestRouter(t, &fakeGateway{})

	for _, target := range []string{"/api/v1/payments/9999/", "/api/v1/payments/not-a-number/"} {
		w, resp := doRequest(t, router, "GET", target, "")
		assert.Equal(t, http.StatusNotFound, w.Code)
		assert.Equal(t, "error", resp["status"])
		assert.Equal(t, "Payment not found.", resp["message"])
	}
}

func TestExecutePayment(t *testing.T) {
	router := newTestRouter(t, &fakeGateway{})
	id := createPayment(t, router)

	w, resp := doRequest(t, router, "GET", "/api/v1/payment/execute/?paymentId=PAY-123456&PayerID=PAYER-1", "")

	require.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, "success", resp["status"])
	assert.Equal(t, "Payment executed successfully", resp["message"])
	assert.Equal(t, float64(id), resp["payment_id"])

	record, err := repositories.NewPaymentRepository().GetByPayPalID(context.Background(), "PAY-123456")
	require.NoError(t, err)
	assert.Equal(t, string(payment.StatusCompleted), record.Status)
}

func TestExecutePaymentMissingParams(t *testing.T) {
	router := newTestRouter(t, &fakeGateway{})

	targets := []string{
		"/api/v1/payment/execute/",
		"/api/v1/payment/execute/?paymentId=PAY-123456",
		"/api/v1/payment/execute/?PayerID=PAYER-1",
	}
	for _, target := range targets {
		w, resp := doRequest(t, router, "GET", target, "")
		assert.Equal(t, http.StatusBadRequest, w.Code)
		assert.Equal(t, "error", resp["status"])
		assert.Equal(t, "Missing paymentId or PayerID. Please ensure the payment is approved via PayPal.", resp["message"])
	}
}

func TestExecutePaymentUnknownAtProcessor(t *testing.T) {
	router := newTestRouter(t, &fakeGateway{
		findFn: func(ctx context.Context, paymentID string) (*paypal.Payment, error) {
			return nil, paypal.ErrNotFound
		},
	})

	w, resp := doRequest(t, router, "GET", "/api/v1/payment/execute/?paymentId=PAY-MISSING&PayerID=PAYER-1", "")

	assert.Equal(t, http.StatusNotFound, w.Code)
	assert.Equal(t, "error", resp["status"])
	assert.Equal(t, "Payment not found", resp["message"])
}

func TestExecutePaymentNotApproved(t *testing.T) {
	router := newTestRouter(t, &fakeGateway{
		executeFn: func(ctx context.Context, paymentID, payerID string) (*paypal.Payment, error) {
			return nil, &paypal.APIError{
				StatusCode: http.StatusBadRequest,
				Name:       paypal.NamePaymentNotApproved,
				Message:    "Payer has not approved payment",
			}
		},
	})
	createPayment(t, router)

	w, resp := doRequest(t, router, "GET", "/api/v1/payment/execute/?paymentId=PAY-123456&PayerID=PAYER-1", "")

	assert.Equal(t, http.StatusBadRequest, w.Code)
	assert.Equal(t, "error", resp["status"])
	assert.Equal(t, "Payment not approved by payer. Please complete approval on PayPal.", resp["message"])

	// 执行失败时本地状态保持 created
	record, err := repositories.NewPaymentRepository().GetByPayPalID(context.Background(), "PAY-123456")
	require.NoError(t, err)
	assert.Equal(t, string(payment.StatusCreated), record.Status)
}

func TestExecutePaymentNoLocalRecord(t *testing.T) {
	// PayPal 有记录而本地没有，对外按未找到处理
	router := newTestRouter(t, &fakeGateway{})

	w, resp := doRequest(t, router, "GET", "/api/v1/payment/execute/?paymentId=PAY-ORPHAN&PayerID=PAYER-1", "")

	assert.Equal(t, http.StatusNotFound, w.Code)
	assert.Equal(t, "error", resp["status"])
	assert.Equal(t, "Payment not found", resp["message"])
}

func TestExecutePaymentTwice(t *testing.T) {
	router := newTestRouter(t, &fakeGateway{})
	createPayment(t, router)

	w, _ := doRequest(t, router, "GET", "/api/v1/payment/execute/?paymentId=PAY-123456&PayerID=PAYER-1", "")
	require.Equal(t, http.StatusOK, w.Code)

	// 第二次执行命中状态守卫
	w, resp := doRequest(t, router, "GET", "/api/v1/payment/execute/?paymentId=PAY-123456&PayerID=PAYER-1", "")
	assert.Equal(t, http.StatusConflict, w.Code)
	assert.Equal(t, "error", resp["status"])

	record, err := repositories.NewPaymentRepository().GetByPayPalID(context.Background(), "PAY-123456")
	require.NoError(t, err)
	assert.Equal(t, string(payment.StatusCompleted), record.Status)
}

func TestCancelPayment(t *testing.T) {
	router := newTestRouter(t, &fakeGateway{})
	id := createPayment(t, router)

	w, resp := doRequest(t, router, "GET", "/api/v1/payment/cancel/?paymentId=PAY-123456", "")

	require.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, "success", resp["status"])
	assert.Equal(t, "Payment cancelled successfully", resp["message"])
	assert.Equal(t, float64(id), resp["payment_id"])

	record, err := repositories.NewPaymentRepository().GetByPayPalID(context.Background(), "PAY-123456")
	require.NoError(t, err)
	assert.Equal(t, string(payment.StatusCancelled), record.Status)
}

func TestCancelPaymentMissingParam(t *testing.T) {
	router := newTestRouter(t, &fakeGateway{})

	w, resp := doRequest(t, router, "GET", "/api/v1/payment/cancel/", "")

	assert.Equal(t, http.StatusBadRequest, w.Code)
	assert.Equal(t, "error", resp["status"])
	assert.Equal(t, "Missing paymentId", resp["message"])
}

func TestCancelPaymentNotFound(t *testing.T) {
	router := newTestRouter(t, &fakeGateway{})

	w, resp := doRequest(t, router, "GET", "/api/v1/payment/cancel/?paymentId=PAY-MISSING", "")

	assert.Equal(t, http.StatusNotFound, w.Code)
	assert.Equal(t, "error", resp["status"])
	assert.Equal(t, "Payment not found", resp["message"])
}

func TestCancelAfterExecute(t *testing.T) {
	router := newTestRouter(t, &fakeGateway{})
	createPayment(t, router)

	w, _ := doRequest(t, router, "GET", "/api/v1/payment/execute/?paymentId=PAY-123456&PayerID=PAYER-1", "")
	require.Equal(t, http.StatusOK, w.Code)

	// 已完成的支付不能再取消
	w, resp := doRequest(t, router, "GET", "/api/v1/payment/cancel/?paymentId=PAY-123456", "")
	assert.Equal(t, http.StatusConflict, w.Code)
	assert.Equal(t, "error", resp["status"])

	record, err := repositories.NewPaymentRepository().GetByPayPalID(context.Background(), "PAY-123456")
	require.NoError(t, err)
	assert.Equal(t, string(payment.StatusCompleted), record.Status)
}

func TestHealthCheck(t *testing.T) {
	router := newTestRouter(t, &fakeGateway{})

	w, resp := doRequest(t, router, "GET", "/api/v1/health", "")

	require.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, "ok", resp["status"])
	assert.NotZero(t, resp["time"])
}
