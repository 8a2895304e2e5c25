// Package generation chứa client gọi dịch vụ sinh ý tưởng bên ngoài qua HTTP.
package generation

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"time"

	"content_pilot/config"
	"content_pilot/internal/common"
	"content_pilot/internal/logger"
)

// IdeaDraft là một ý tưởng thô do dịch vụ sinh ý tưởng trả về, chưa được lưu trữ.
type IdeaDraft struct {
	Title       string `json:"title"`
	Description string `json:"description"`
	Angle       string `json:"angle,omitempty"`
}

// Request chứa dữ liệu đầu vào cho một lần sinh ý tưởng.
type Request struct {
	DocumentTitle   string `json:"documentTitle"`
	DocumentType    string `json:"documentType"`    // Loại tài liệu: transcript, document, newsletter, other
	Content         string `json:"content"`         // Nội dung đã được sanitize
	BusinessContext string `json:"businessContext"` // Ngữ cảnh doanh nghiệp, có thể rỗng
}

// apiRequest là payload gửi lên dịch vụ sinh ý tưởng.
type apiRequest struct {
	Model           string `json:"model"`
	DocumentTitle   string `json:"documentTitle"`
	DocumentType    string `json:"documentType,omitempty"`
	Content         string `json:"content"`
	BusinessContext string `json:"businessContext,omitempty"`
}

// apiResponse là payload trả về từ dịch vụ sinh ý tưởng.
type apiResponse struct {
	Ideas []IdeaDraft `json:"ideas"`
}

// Client gọi dịch vụ sinh ý tưởng. Retry tối đa MaxRetries lần với backoff
// lũy thừa (1s, 2s), chỉ retry khi lỗi transport hoặc server trả về 5xx.
// Lỗi 4xx không retry vì request sẽ không tự khỏi.
type Client struct {
	baseURL    string
	apiKey     string
	model      string
	maxRetries int
	httpClient *http.Client
}

// NewClient tạo client từ cấu hình server.
func NewClient(cfg *config.Configuration) *Client {
	timeout := time.Duration(cfg.IdeationTimeoutSeconds) * time.Second
	if timeout <= 0 {
		timeout = 60 * time.Second
	}
	maxRetries := cfg.IdeationMaxRetries
	if maxRetries < 0 {
		maxRetries = 0
	}
	return &Client{
		baseURL:    cfg.IdeationAPIURL,
		apiKey:     cfg.IdeationAPIKey,
		model:      cfg.IdeationModel,
		maxRetries: maxRetries,
		httpClient: &http.Client{Timeout: timeout},
	}
}

// GenerateIdeas gọi dịch vụ sinh ý tưởng và trả về danh sách ý tưởng thô.
// Danh sách rỗng là kết quả hợp lệ, không phải lỗi.
func (c *Client) GenerateIdeas(ctx context.Context, req Request) ([]IdeaDraft, error) {
	log := logger.GetAppLogger()

	payload, err := json.Marshal(apiRequest{
		Model:           c.model,
		DocumentTitle:   req.DocumentTitle,
		DocumentType:    req.DocumentType,
		Content:         req.Content,
		BusinessContext: req.BusinessContext,
	})
	if err != nil {
		return nil, common.NewError(common.ErrCodeExternalGeneration, "Không thể tạo request sinh ý tưởng", common.StatusInternalServerError, err)
	}

	var lastErr error
	for attempt := 0; attempt <= c.maxRetries; attempt++ {
		if attempt > 0 {
			// Backoff lũy thừa: 1s, 2s
			backoff := time.Duration(1<<(attempt-1)) * time.Second
			select {
			case <-ctx.Done():
				return nil, common.NewError(common.ErrCodeExternalGeneration, "Sinh ý tưởng bị hủy trong lúc chờ retry", common.StatusBadGateway, ctx.Err())
			case <-time.After(backoff):
			}
			log.WithFields(map[string]interface{}{
				"attempt": attempt,
				"backoff": backoff.String(),
			}).Warn("💡 [GENERATION] Retrying idea generation request")
		}

		ideas, retryable, err := c.doRequest(ctx, payload)
		if err == nil {
			return ideas, nil
		}
		lastErr = err
		if !retryable {
			break
		}
	}

	return nil, common.NewError(common.ErrCodeExternalGeneration, "Dịch vụ sinh ý tưởng không phản hồi thành công", common.StatusBadGateway, lastErr)
}

// doRequest thực hiện một lần gọi HTTP. Trả về retryable=true khi lỗi transport hoặc 5xx.
func (c *Client) doRequest(ctx context.Context, payload []byte) ([]IdeaDraft, bool, error) {
	httpReq, err := http.NewRequestWithContext(ctx, http.MethodPost, c.baseURL, bytes.NewReader(payload))
	if err != nil {
		return nil, false, err
	}
	httpReq.Header.Set("Content-Type", "application/json")
	httpReq.Header.Set("Authorization", "Bearer "+c.apiKey)

	resp, err := c.httpClient.Do(httpReq)
	if err != nil {
		// Lỗi transport (timeout, connection refused, ...) → retryable
		return nil, true, err
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, true, err
	}

	if resp.StatusCode >= 500 {
		return nil, true, fmt.Errorf("generation service returned %d: %s", resp.StatusCode, truncate(string(body), 200))
	}
	if resp.StatusCode != http.StatusOK {
		return nil, false, fmt.Errorf("generation service returned %d: %s", resp.StatusCode, truncate(string(body), 200))
	}

	var apiResp apiResponse
	if err := json.Unmarshal(body, &apiResp); err != nil {
		return nil, false, fmt.Errorf("generation service returned malformed response: %w", err)
	}

	if apiResp.Ideas == nil {
		return []IdeaDraft{}, false, nil
	}
	return apiResp.Ideas, false, nil
}

func truncate(s string, max int) string {
	if len(s) <= max {
		return s
	}
	return s[:max] + "..."
}
