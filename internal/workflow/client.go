// Copyright 2026 fanjia1024
//
// Licensed under the Apache License, Version 2.0 (the "License");
// you may not use this file except in compliance with the License.
// You may obtain a copy of the License at
//
//     http://www.apache.org/licenses/LICENSE-2.0
//
// Unless required by applicable law or agreed to in writing, software
// distributed under the License is distributed on an "AS IS" BASIS,
// WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
// See the License for the specific language governing permissions and
// limitations under the License.

package workflow

import (
	"context"
	"net/http"
	"strconv"
	"strings"
	"time"

	"github.com/go-resty/resty/v2"
	"github.com/google/uuid"
	"golang.org/x/time/rate"

	"medreport-probe/pkg/config"
	perrors "medreport-probe/pkg/errors"
	"medreport-probe/pkg/metrics"
	"medreport-probe/pkg/tracing"
)

// 分析服务端点
const (
	AnalyzePath  = "/api/portia/medical-report/analyze"
	ClarifyPath  = "/api/portia/medical-report/clarify"
	GeneratePath = "/api/portia/medical-report/generate"
	HealthPath   = "/api/medical-reports/health"
)

// Client 分析服务的 HTTP 客户端；一次运行复用同一个 resty.Client（连接池）
type Client struct {
	baseURL string
	rc      *resty.Client
	limiter *rate.Limiter
}

// NewClient 根据服务配置创建客户端；RequestsPerMinute <= 0 时不限速
func NewClient(cfg config.ServiceConfig) *Client {
	c := &Client{
		baseURL: strings.TrimRight(cfg.BaseURL, "/"),
		limiter: rate.NewLimiter(rate.Inf, 1),
	}
	if cfg.RequestsPerMinute > 0 {
		c.limiter = rate.NewLimiter(rate.Limit(cfg.RequestsPerMinute/60.0), 1)
	}
	c.rc = resty.New().
		SetBaseURL(c.baseURL).
		SetHeader("Content-Type", "application/json").
		SetHeader("Accept", "application/json")
	c.rc.OnBeforeRequest(func(_ *resty.Client, r *resty.Request) error {
		return c.limiter.Wait(r.Context())
	})
	return c
}

// BaseURL 服务根地址
func (c *Client) BaseURL() string {
	return c.baseURL
}

// Analyze 提交报告文本，开始一个 flow
func (c *Client) Analyze(ctx context.Context, req AnalyzeRequest, timeout time.Duration) (*AnalyzeResponse, error) {
	if err := req.Validate(); err != nil {
		return nil, err
	}
	var out AnalyzeResponse
	if err := c.send(ctx, http.MethodPost, AnalyzePath, timeout, req, nil, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

// Clarify 回答一个澄清问题
func (c *Client) Clarify(ctx context.Context, req ClarifyRequest, timeout time.Duration) (*ClarifyResponse, error) {
	var out ClarifyResponse
	if err := c.send(ctx, http.MethodPost, ClarifyPath, timeout, req, nil, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

// Generate 生成最终分析
func (c *Client) Generate(ctx context.Context, flowID string, timeout time.Duration) (*GenerateResponse, error) {
	var out GenerateResponse
	if err := c.send(ctx, http.MethodPost, GeneratePath, timeout, GenerateRequest{FlowID: flowID}, nil, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

// FlowStatus 查询 flow 当前状态
func (c *Client) FlowStatus(ctx context.Context, flowID string, timeout time.Duration) (*FlowStatusResponse, error) {
	var out FlowStatusResponse
	query := map[string]string{"flowId": flowID}
	if err := c.send(ctx, http.MethodGet, GeneratePath, timeout, nil, query, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

// Health 健康检查
func (c *Client) Health(ctx context.Context, timeout time.Duration) (*HealthResponse, error) {
	var out HealthResponse
	if err := c.send(ctx, http.MethodGet, HealthPath, timeout, nil, nil, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

// Ping 连通性检查：只有连接层失败才返回错误，任何 HTTP 响应（含 405）都视为可达
func (c *Client) Ping(ctx context.Context, timeout time.Duration) error {
	err := c.send(ctx, http.MethodGet, AnalyzePath, timeout, nil, nil, nil)
	if err != nil && perrors.IsConnectionFailure(err) {
		return err
	}
	return nil
}

// send 发送一次请求。传输失败原样包装返回；非 200 返回 *errors.StatusError（含原始响应体）；
// 200 时按 JSON 解码到 out（out 可为 nil）
func (c *Client) send(ctx context.Context, method, path string, timeout time.Duration, body interface{}, query map[string]string, out interface{}) (err error) {
	if timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, timeout)
		defer cancel()
	}

	requestID := uuid.NewString()
	ctx, span := tracing.StartRequestSpan(ctx, method, path, requestID)
	defer func() { tracing.EndSpan(span, err) }()

	endpoint := endpointLabel(path)
	start := time.Now()
	defer func() {
		metrics.RequestDuration.WithLabelValues(endpoint).Observe(time.Since(start).Seconds())
	}()

	req := c.rc.R().
		SetContext(ctx).
		SetHeader("X-Request-ID", requestID)
	if body != nil {
		req.SetBody(body)
	}
	if query != nil {
		req.SetQueryParams(query)
	}
	if out != nil {
		req.SetResult(out)
	}

	resp, err := req.Execute(method, path)
	if err != nil {
		code := "error"
		if perrors.IsConnectionFailure(err) {
			code = "conn_error"
		}
		metrics.RequestTotal.WithLabelValues(endpoint, code).Inc()
		return perrors.Wrapf(err, "%s %s", method, path)
	}
	metrics.RequestTotal.WithLabelValues(endpoint, strconv.Itoa(resp.StatusCode())).Inc()
	if resp.StatusCode() != http.StatusOK {
		return &perrors.StatusError{Op: method + " " + path, Code: resp.StatusCode(), Body: resp.String()}
	}
	return nil
}

func endpointLabel(path string) string {
	switch path {
	case AnalyzePath:
		return "analyze"
	case ClarifyPath:
		return "clarify"
	case GeneratePath:
		return "generate"
	case HealthPath:
		return "health"
	}
	return "other"
}
