package api

import (
	"net/http"
	"os"
	"path/filepath"

	"github.com/gin-gonic/gin"

	"reviewdesk/internal/engine"
)

// monthItem 一个可复核的月份及其文件对
type monthItem struct {
	Month       string `json:"month"`
	DetailPath  string `json:"detailPath"`
	SummaryPath string `json:"summaryPath,omitempty"`
	HasSummary  bool   `json:"hasSummary"`
}

// ListMonths 列出数据目录中存在明细文件的月份
// GET /api/months
func (h *Handler) ListMonths(c *gin.Context) {
	dataDir := h.engine.DataDir()

	items := make([]monthItem, 0, len(engine.MonthOrder))
	for _, m := range engine.MonthOrder {
		detail := filepath.Join(dataDir, m+"_data.csv")
		if _, err := os.Stat(detail); err != nil {
			continue
		}
		item := monthItem{Month: m, DetailPath: detail}
		summary := filepath.Join(dataDir, m+"_summary.csv")
		if _, err := os.Stat(summary); err == nil {
			item.SummaryPath = summary
			item.HasSummary = true
		}
		items = append(items, item)
	}

	c.JSON(http.StatusOK, gin.H{"items": items})
}
