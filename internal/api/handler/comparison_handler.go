package handler

import (
	"errors"

	"github.com/gin-gonic/gin"

	"schedule-maker/backend/internal/dto"
	"schedule-maker/backend/internal/service"
	"schedule-maker/backend/pkg/response"
)

// ComparisonHandler 对比模块 HTTP 处理器
type ComparisonHandler struct {
	comparisonSvc service.ComparisonService
}

// NewComparisonHandler 创建 ComparisonHandler
func NewComparisonHandler(comparisonSvc service.ComparisonService) *ComparisonHandler {
	return &ComparisonHandler{comparisonSvc: comparisonSvc}
}

// Create 创建空对比
// POST /api/v1/comparisons
func (h *ComparisonHandler) Create(c *gin.Context) {
	var req dto.CreateComparisonRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.BadRequest(c, 20001, "参数校验失败")
		return
	}

	result, err := h.comparisonSvc.Create(c.Request.Context(), &req)
	if err != nil {
		h.handleComparisonError(c, err)
		return
	}

	response.Created(c, result)
}

// Get 获取对比快照
// GET /api/v1/comparisons/:id
func (h *ComparisonHandler) Get(c *gin.Context) {
	id := c.Param("id")
	if id == "" {
		response.BadRequest(c, 20001, "对比ID不能为空")
		return
	}

	result, err := h.comparisonSvc.Get(c.Request.Context(), id)
	if err != nil {
		h.handleComparisonError(c, err)
		return
	}

	response.OK(c, result)
}

// AddParticipant 添加参与者
// POST /api/v1/comparisons/:id/participants
func (h *ComparisonHandler) AddParticipant(c *gin.Context) {
	id := c.Param("id")
	var req dto.AddParticipantRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.BadRequest(c, 20001, "参数校验失败")
		return
	}

	result, err := h.comparisonSvc.AddParticipant(c.Request.Context(), id, &req)
	if err != nil {
		h.handleComparisonError(c, err)
		return
	}

	response.OK(c, result)
}

// ImportParticipant 凭分享码导入参与者
// POST /api/v1/comparisons/:id/participants/import
func (h *ComparisonHandler) ImportParticipant(c *gin.Context) {
	id := c.Param("id")
	var req dto.ImportParticipantRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.BadRequest(c, 20001, "参数校验失败")
		return
	}

	result, err := h.comparisonSvc.ImportParticipant(c.Request.Context(), id, &req)
	if err != nil {
		h.handleComparisonError(c, err)
		return
	}

	response.OK(c, result)
}

// RemoveParticipant 移除参与者
// DELETE /api/v1/comparisons/:id/participants/:pid
func (h *ComparisonHandler) RemoveParticipant(c *gin.Context) {
	result, err := h.comparisonSvc.RemoveParticipant(c.Request.Context(), c.Param("id"), c.Param("pid"))
	if err != nil {
		h.handleComparisonError(c, err)
		return
	}

	response.OK(c, result)
}

// ToggleVisibility 翻转参与者可见性
// PUT /api/v1/comparisons/:id/participants/:pid/visibility
func (h *ComparisonHandler) ToggleVisibility(c *gin.Context) {
	result, err := h.comparisonSvc.ToggleVisibility(c.Request.Context(), c.Param("id"), c.Param("pid"))
	if err != nil {
		h.handleComparisonError(c, err)
		return
	}

	response.OK(c, result)
}

// SetActiveCombination 切换活动组合
// PUT /api/v1/comparisons/:id/participants/:pid/active
func (h *ComparisonHandler) SetActiveCombination(c *gin.Context) {
	var req dto.SetActiveCombinationRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.BadRequest(c, 20001, "参数校验失败")
		return
	}

	result, err := h.comparisonSvc.SetActiveCombination(c.Request.Context(), c.Param("id"), c.Param("pid"), &req)
	if err != nil {
		h.handleComparisonError(c, err)
		return
	}

	response.OK(c, result)
}

// UploadCombinationICS 从 ICS 文件追加候选组合
// POST /api/v1/comparisons/:id/participants/:pid/combinations/ics
func (h *ComparisonHandler) UploadCombinationICS(c *gin.Context) {
	fileHeader, err := c.FormFile("file")
	if err != nil {
		response.BadRequest(c, 20001, "缺少 ICS 文件")
		return
	}

	file, err := fileHeader.Open()
	if err != nil {
		response.BadRequest(c, 20001, "无法读取 ICS 文件")
		return
	}
	defer file.Close()

	result, err := h.comparisonSvc.AddCombinationICS(c.Request.Context(), c.Param("id"), c.Param("pid"), file)
	if err != nil {
		h.handleComparisonError(c, err)
		return
	}

	response.OK(c, result)
}

func (h *ComparisonHandler) handleComparisonError(c *gin.Context, err error) {
	switch {
	case errors.Is(err, service.ErrComparisonNotFound):
		response.NotFound(c, 20101, "对比不存在")
	case errors.Is(err, service.ErrParticipantExists):
		response.Conflict(c, 20102, "参与者已在对比中")
	case errors.Is(err, service.ErrICSParseFailed):
		response.BadRequest(c, 20103, "ICS 文件解析失败")
	case errors.Is(err, service.ErrICSNoWeeklySessions):
		response.BadRequest(c, 20104, "ICS 文件中未发现有效课程事件")
	case errors.Is(err, service.ErrShareNotFound):
		response.NotFound(c, 21101, "分享码不存在")
	case errors.Is(err, service.ErrShareExpired):
		response.Gone(c, 21102, "分享已过期")
	default:
		response.InternalError(c)
	}
}
