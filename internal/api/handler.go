package api

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"reviewdesk/internal/engine"
)

// Handler API 处理器
type Handler struct {
	engine *engine.Engine
}

// NewHandler 创建 API 处理器
func NewHandler(eng *engine.Engine) *Handler {
	return &Handler{engine: eng}
}

// RegisterRoutes 注册 API 路由
func (h *Handler) RegisterRoutes(router *gin.RouterGroup) {
	// 系统状态
	router.GET("/health", h.GetHealth)
	// 可用月份
	router.GET("/months", h.ListMonths)

	// 明细行读取与批量更新
	router.GET("/rows", h.GetRows)
	router.PUT("/rows", h.UpdateRows)
}

// statusFor 引擎错误类别 → HTTP 状态码
// 引擎自身对传输协议不可知，映射只发生在这一层
func statusFor(err error) int {
	switch engine.KindOf(err) {
	case engine.KindNotFound:
		return http.StatusNotFound
	case engine.KindAmbiguous,
		engine.KindSchemaViolation,
		engine.KindOutOfRange,
		engine.KindCoercionFailure,
		engine.KindValidationFailure:
		return http.StatusBadRequest
	default:
		return http.StatusInternalServerError
	}
}

// abortWithError 统一错误出口
func abortWithError(c *gin.Context, err error) {
	c.JSON(statusFor(err), gin.H{
		"error": err.Error(),
		"kind":  string(engine.KindOf(err)),
	})
}
