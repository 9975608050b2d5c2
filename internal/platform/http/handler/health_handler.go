// Package handler はプラットフォームレベルのエンドポイント用HTTPハンドラーを提供します。
package handler

import (
	"context"
	"log/slog"
	"net/http"
	"sort"
	"time"

	"github.com/gin-gonic/gin"
)

// Checker は依存先（DB・Redisなど）の疎通を確認します。
type Checker func(ctx context.Context) error

// HealthHandler は /healthz を処理します。
// 登録された依存先のいずれかが応答しない場合は503を返します。
type HealthHandler struct {
	checks  map[string]Checker
	timeout time.Duration
}

// NewHealthHandler はHealthHandlerを生成します。checksはnilでも構いません。
func NewHealthHandler(checks map[string]Checker) *HealthHandler {
	return &HealthHandler{checks: checks, timeout: 2 * time.Second}
}

// Health はHTTPメソッドに応じて適切にレスポンスし、キャッシュを防止します。
func (h *HealthHandler) Health(c *gin.Context) {
	c.Header("Cache-Control", "no-store")

	if c.Request.Method == http.MethodOptions {
		c.Status(http.StatusNoContent)
		return
	}

	status, results := h.run(c.Request.Context())

	if c.Request.Method == http.MethodHead {
		c.Status(status)
		return
	}
	body := gin.H{"status": "ok"}
	if status != http.StatusOK {
		body["status"] = "degraded"
	}
	if len(results) > 0 {
		body["checks"] = results
	}
	c.JSON(status, body)
}

func (h *HealthHandler) run(ctx context.Context) (int, map[string]string) {
	if len(h.checks) == 0 {
		return http.StatusOK, nil
	}
	ctx, cancel := context.WithTimeout(ctx, h.timeout)
	defer cancel()

	names := make([]string, 0, len(h.checks))
	for name := range h.checks {
		names = append(names, name)
	}
	sort.Strings(names)

	status := http.StatusOK
	results := make(map[string]string, len(names))
	for _, name := range names {
		if err := h.checks[name](ctx); err != nil {
			slog.Warn("health check failed", "dependency", name, "error", err)
			results[name] = "unavailable"
			status = http.StatusServiceUnavailable
			continue
		}
		results[name] = "ok"
	}
	return status, results
}
