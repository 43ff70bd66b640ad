package api

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"reviewdesk/internal/engine"
	"reviewdesk/internal/model"
)

// GetRows 读取明细表当前行
// GET /api/rows?month=january 或 /api/rows?path=/abs/file.xlsx
func (h *Handler) GetRows(c *gin.Context) {
	loc := engine.Locator{
		Path:  c.Query("path"),
		Month: c.Query("month"),
	}

	tbl, err := h.engine.Rows(loc)
	if err != nil {
		abortWithError(c, err)
		return
	}

	// 按列序输出记录数组（缺失值输出 null）
	records := make([]map[string]any, 0, len(tbl.Rows))
	for _, row := range tbl.Rows {
		rec := make(map[string]any, len(tbl.Columns))
		for _, col := range tbl.Columns {
			rec[col] = row[col]
		}
		records = append(records, rec)
	}

	c.JSON(http.StatusOK, gin.H{
		"columns": tbl.Columns,
		"rows":    records,
	})
}

type updateRowsRequest struct {
	Path    string               `json:"path"`
	Month   string               `json:"month"`
	Updates []model.UpdateIntent `json:"updates"`
}

// UpdateRows 批量应用行级更新并写回源文件
// PUT /api/rows
func (h *Handler) UpdateRows(c *gin.Context) {
	var req updateRowsRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid json"})
		return
	}

	result, err := h.engine.Update(engine.Locator{Path: req.Path, Month: req.Month}, req.Updates)
	if err != nil {
		abortWithError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"message": "update applied",
		"result":  result,
	})
}
