package handler

import (
	"errors"

	"github.com/gin-gonic/gin"

	"schedule-maker/backend/internal/dto"
	"schedule-maker/backend/internal/service"
	"schedule-maker/backend/pkg/response"
)

// ShareHandler 分享模块 HTTP 处理器
type ShareHandler struct {
	shareSvc service.ShareService
}

// NewShareHandler 创建 ShareHandler
func NewShareHandler(shareSvc service.ShareService) *ShareHandler {
	return &ShareHandler{shareSvc: shareSvc}
}

// Publish 发布组合集合
// POST /api/v1/shares
func (h *ShareHandler) Publish(c *gin.Context) {
	var req dto.CreateShareRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.BadRequest(c, 21001, "参数校验失败")
		return
	}

	result, err := h.shareSvc.Publish(c.Request.Context(), &req)
	if err != nil {
		h.handleShareError(c, err)
		return
	}

	response.Created(c, result)
}

// Resolve 凭短码或令牌解析分享内容
// GET /api/v1/shares/:code
func (h *ShareHandler) Resolve(c *gin.Context) {
	code := c.Param("code")
	if code == "" {
		response.BadRequest(c, 21001, "分享码不能为空")
		return
	}

	resolved, err := h.shareSvc.ResolveAsResponse(c.Request.Context(), code)
	if err != nil {
		h.handleShareError(c, err)
		return
	}

	response.OK(c, resolved)
}

func (h *ShareHandler) handleShareError(c *gin.Context, err error) {
	switch {
	case errors.Is(err, service.ErrShareNotFound):
		response.NotFound(c, 21101, "分享码不存在")
	case errors.Is(err, service.ErrShareExpired):
		response.Gone(c, 21102, "分享已过期")
	default:
		response.InternalError(c)
	}
}
