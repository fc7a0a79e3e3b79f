package handler

import (
	"errors"
	"net/http"
	"net/url"

	"github.com/gin-gonic/gin"

	"schedule-maker/backend/internal/dto"
	"schedule-maker/backend/internal/service"
	"schedule-maker/backend/pkg/response"
)

// GridHandler 周视图网格 HTTP 处理器
type GridHandler struct {
	gridSvc service.GridService
}

// NewGridHandler 创建 GridHandler
func NewGridHandler(gridSvc service.GridService) *GridHandler {
	return &GridHandler{gridSvc: gridSvc}
}

// Layout 获取周视图布局
// GET /api/v1/comparisons/:id/grid?start_time=08:00&end_time=20:00
func (h *GridHandler) Layout(c *gin.Context) {
	var q dto.GridQuery
	if err := c.ShouldBindQuery(&q); err != nil {
		response.BadRequest(c, 22001, "参数校验失败")
		return
	}

	layout, err := h.gridSvc.Layout(c.Request.Context(), c.Param("id"), &q)
	if err != nil {
		h.handleGridError(c, err)
		return
	}

	response.OK(c, layout)
}

// Export 导出周视图 Excel
// GET /api/v1/comparisons/:id/export
func (h *GridHandler) Export(c *gin.Context) {
	var q dto.GridQuery
	if err := c.ShouldBindQuery(&q); err != nil {
		response.BadRequest(c, 22001, "参数校验失败")
		return
	}

	buf, filename, err := h.gridSvc.ExportXLSX(c.Request.Context(), c.Param("id"), &q)
	if err != nil {
		h.handleGridError(c, err)
		return
	}

	// 设置下载响应头
	encodedFilename := url.QueryEscape(filename)
	c.Header("Content-Description", "File Transfer")
	c.Header("Content-Disposition", "attachment; filename*=UTF-8''"+encodedFilename)
	c.Header("Content-Type", "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet")
	c.Data(http.StatusOK, "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet", buf.Bytes())
}

func (h *GridHandler) handleGridError(c *gin.Context, err error) {
	switch {
	case errors.Is(err, service.ErrComparisonNotFound):
		response.NotFound(c, 20101, "对比不存在")
	case errors.Is(err, service.ErrGridGenerateFail):
		response.InternalError(c)
	default:
		response.InternalError(c)
	}
}
