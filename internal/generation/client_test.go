// Package generation - Test client gọi dịch vụ sinh ý tưởng: retry policy và xử lý response.
package generation

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"sync/atomic"
	"testing"
	"time"

	"content_pilot/internal/common"

	"github.com/stretchr/testify/assert"
)

func newTestClient(baseURL string, maxRetries int) *Client {
	return &Client{
		baseURL:    baseURL,
		apiKey:     "test-key",
		model:      "test-model",
		maxRetries: maxRetries,
		httpClient: &http.Client{Timeout: 5 * time.Second},
	}
}

func TestGenerateIdeas_Success(t *testing.T) {
	var gotAuth string
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotAuth = r.Header.Get("Authorization")
		w.Header().Set("Content-Type", "application/json")
		w.Write([]byte(`{"ideas":[{"title":"Ý tưởng 1","description":"Mô tả 1","angle":"how-to"},{"title":"Ý tưởng 2","description":"Mô tả 2"}]}`))
	}))
	defer srv.Close()

	c := newTestClient(srv.URL, 2)
	ideas, err := c.GenerateIdeas(context.Background(), Request{
		DocumentTitle: "Tài liệu test",
		Content:       "nội dung đã sanitize",
	})

	assert.NoError(t, err)
	assert.Len(t, ideas, 2)
	assert.Equal(t, "Ý tưởng 1", ideas[0].Title)
	assert.Equal(t, "how-to", ideas[0].Angle)
	assert.Equal(t, "Bearer test-key", gotAuth, "request phải gửi API key dạng Bearer")
}

func TestGenerateIdeas_EmptyListIsSuccess(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		w.Write([]byte(`{"ideas":[]}`))
	}))
	defer srv.Close()

	c := newTestClient(srv.URL, 2)
	ideas, err := c.GenerateIdeas(context.Background(), Request{Content: "nội dung"})

	assert.NoError(t, err, "danh sách ý tưởng rỗng là kết quả hợp lệ, không phải lỗi")
	assert.NotNil(t, ideas)
	assert.Len(t, ideas, 0)
}

func TestGenerateIdeas_NullIdeasIsSuccess(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		w.Write([]byte(`{}`))
	}))
	defer srv.Close()

	c := newTestClient(srv.URL, 0)
	ideas, err := c.GenerateIdeas(context.Background(), Request{Content: "nội dung"})

	assert.NoError(t, err)
	assert.NotNil(t, ideas, "ideas null phải được chuẩn hóa thành slice rỗng")
	assert.Len(t, ideas, 0)
}

func TestGenerateIdeas_RetriesOn5xxThenSucceeds(t *testing.T) {
	var calls int32
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if atomic.AddInt32(&calls, 1) == 1 {
			w.WriteHeader(http.StatusInternalServerError)
			return
		}
		w.Header().Set("Content-Type", "application/json")
		w.Write([]byte(`{"ideas":[{"title":"Ý tưởng","description":"Mô tả"}]}`))
	}))
	defer srv.Close()

	c := newTestClient(srv.URL, 2)
	ideas, err := c.GenerateIdeas(context.Background(), Request{Content: "nội dung"})

	assert.NoError(t, err, "5xx phải được retry")
	assert.Len(t, ideas, 1)
	assert.Equal(t, int32(2), atomic.LoadInt32(&calls), "phải gọi đúng 2 lần: 1 lần fail + 1 lần retry thành công")
}

func TestGenerateIdeas_NoRetryOn4xx(t *testing.T) {
	var calls int32
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		atomic.AddInt32(&calls, 1)
		w.WriteHeader(http.StatusBadRequest)
		w.Write([]byte(`{"error":"invalid request"}`))
	}))
	defer srv.Close()

	c := newTestClient(srv.URL, 2)
	_, err := c.GenerateIdeas(context.Background(), Request{Content: "nội dung"})

	assert.Error(t, err)
	assert.Equal(t, int32(1), atomic.LoadInt32(&calls), "4xx không được retry")

	var customErr *common.Error
	assert.True(t, errors.As(err, &customErr), "lỗi phải là *common.Error")
	assert.Equal(t, common.ErrCodeExternalGeneration.Code, customErr.Code.Code)
	assert.Equal(t, common.StatusBadGateway, customErr.StatusCode)
}

func TestGenerateIdeas_NoRetryOnMalformedResponse(t *testing.T) {
	var calls int32
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		atomic.AddInt32(&calls, 1)
		w.Header().Set("Content-Type", "application/json")
		w.Write([]byte(`{"ideas": not-json`))
	}))
	defer srv.Close()

	c := newTestClient(srv.URL, 2)
	_, err := c.GenerateIdeas(context.Background(), Request{Content: "nội dung"})

	assert.Error(t, err, "response malformed phải là lỗi")
	assert.Equal(t, int32(1), atomic.LoadInt32(&calls), "response malformed không được retry")
}

func TestGenerateIdeas_ExhaustsRetriesOnTransportError(t *testing.T) {
	// Server đóng ngay để tạo lỗi transport
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {}))
	srv.Close()

	c := newTestClient(srv.URL, 1)
	start := time.Now()
	_, err := c.GenerateIdeas(context.Background(), Request{Content: "nội dung"})
	elapsed := time.Since(start)

	assert.Error(t, err)
	// 1 retry với backoff 1s
	assert.GreaterOrEqual(t, elapsed, 1*time.Second, "phải chờ backoff trước khi retry")

	var customErr *common.Error
	assert.True(t, errors.As(err, &customErr))
	assert.Equal(t, common.ErrCodeExternalGeneration.Code, customErr.Code.Code)
}

func TestGenerateIdeas_ContextCancelledDuringBackoff(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusInternalServerError)
	}))
	defer srv.Close()

	ctx, cancel := context.WithCancel(context.Background())
	c := newTestClient(srv.URL, 2)

	go func() {
		// Hủy trong lúc client đang chờ backoff
		time.Sleep(100 * time.Millisecond)
		cancel()
	}()

	start := time.Now()
	_, err := c.GenerateIdeas(ctx, Request{Content: "nội dung"})
	elapsed := time.Since(start)

	assert.Error(t, err)
	assert.Less(t, elapsed, 1*time.Second, "hủy context phải thoát ngay, không chờ hết backoff")
}
