package midtrans

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"
)

var (
	ErrConfigInvalid   = errors.New("midtrans config invalid")
	ErrRequestFailed   = errors.New("midtrans request failed")
	ErrResponseInvalid = errors.New("midtrans response invalid")
)

// Snap 环境地址
const (
	SandboxBaseURL    = "https://app.sandbox.midtrans.com"
	ProductionBaseURL = "https://app.midtrans.com"
)

// 交易状态常量（transaction_status）
const (
	StatusSettlement = "settlement"
	StatusCapture    = "capture"
	StatusPending    = "pending"
	StatusDeny       = "deny"
	StatusExpire     = "expire"
	StatusCancel     = "cancel"
)

// Config Midtrans Snap 配置
type Config struct {
	ServerKey  string `json:"server_key"`  // 服务端密钥
	Production bool   `json:"production"`  // 是否生产环境
	BaseURL    string `json:"base_url"`    // 网关地址覆盖（留空按环境选择，测试用）
	TimeoutSec int    `json:"timeout_sec"` // 请求超时秒数
}

// Client Snap HTTP 客户端
type Client struct {
	cfg        Config
	baseURL    string
	httpClient *http.Client
}

// NewClient 创建 Snap 客户端
func NewClient(cfg Config) (*Client, error) {
	if strings.TrimSpace(cfg.ServerKey) == "" {
		return nil, fmt.Errorf("%w: empty server key", ErrConfigInvalid)
	}
	baseURL := strings.TrimRight(strings.TrimSpace(cfg.BaseURL), "/")
	if baseURL == "" {
		if cfg.Production {
			baseURL = ProductionBaseURL
		} else {
			baseURL = SandboxBaseURL
		}
	}
	timeout := time.Duration(cfg.TimeoutSec) * time.Second
	if timeout <= 0 {
		timeout = 15 * time.Second
	}
	return &Client{
		cfg:        cfg,
		baseURL:    baseURL,
		httpClient: &http.Client{Timeout: timeout},
	}, nil
}

// TransactionDetails 交易明细
type TransactionDetails struct {
	OrderID     string `json:"order_id"`
	GrossAmount int64  `json:"gross_amount"`
}

// CustomerDetails 客户信息
type CustomerDetails struct {
	FirstName string `json:"first_name,omitempty"`
	Email     string `json:"email,omitempty"`
}

// SnapRequest 创建交易请求体
type SnapRequest struct {
	TransactionDetails TransactionDetails `json:"transaction_details"`
	CustomerDetails    *CustomerDetails   `json:"customer_details,omitempty"`
}

// SnapResponse 创建交易响应
type SnapResponse struct {
	Token         string   `json:"token"`
	RedirectURL   string   `json:"redirect_url"`
	ErrorMessages []string `json:"error_messages,omitempty"`
}

// CreateTransaction 创建 Snap 交易，返回收银台 token 与跳转地址。
func (c *Client) CreateTransaction(ctx context.Context, input SnapRequest) (*SnapResponse, error) {
	if strings.TrimSpace(input.TransactionDetails.OrderID) == "" || input.TransactionDetails.GrossAmount <= 0 {
		return nil, fmt.Errorf("%w: order_id and gross_amount required", ErrConfigInvalid)
	}

	body, err := json.Marshal(input)
	if err != nil {
		return nil, fmt.Errorf("%w: marshal request: %v", ErrRequestFailed, err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.baseURL+"/snap/v1/transactions", bytes.NewReader(body))
	if err != nil {
		return nil, fmt.Errorf("%w: build request: %v", ErrRequestFailed, err)
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Accept", "application/json")
	// Snap 使用 server key 作为 Basic Auth 用户名，密码留空
	req.SetBasicAuth(c.cfg.ServerKey, "")

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrRequestFailed, err)
	}
	defer resp.Body.Close()

	data, err := io.ReadAll(io.LimitReader(resp.Body, 1<<20))
	if err != nil {
		return nil, fmt.Errorf("%w: read response: %v", ErrRequestFailed, err)
	}

	var result SnapResponse
	if err := json.Unmarshal(data, &result); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrResponseInvalid, err)
	}
	if resp.StatusCode != http.StatusOK && resp.StatusCode != http.StatusCreated {
		if len(result.ErrorMessages) > 0 {
			return nil, fmt.Errorf("%w: status %d: %s", ErrRequestFailed, resp.StatusCode, strings.Join(result.ErrorMessages, "; "))
		}
		return nil, fmt.Errorf("%w: status %d", ErrRequestFailed, resp.StatusCode)
	}
	if strings.TrimSpace(result.Token) == "" {
		return nil, fmt.Errorf("%w: empty token", ErrResponseInvalid)
	}
	return &result, nil
}
