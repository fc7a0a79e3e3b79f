package dto

// ── 分享模块 ──

// CreateShareRequest 发布分享课表请求
type CreateShareRequest struct {
	OwnerName    string               `json:"owner_name" binding:"required,max=100"`
	Combinations []CombinationPayload `json:"combinations" binding:"required,min=1,dive"`
}

// ShareResponse 分享发布响应
type ShareResponse struct {
	ShareID   string `json:"share_id"`
	ShareCode string `json:"share_code"`
	Token     string `json:"token"`
	ShareURL  string `json:"share_url"`
	ExpiresAt string `json:"expires_at"`
}

// ResolveShareResponse 分享解析响应
type ResolveShareResponse struct {
	ShareID      string                `json:"share_id"`
	OwnerName    string                `json:"owner_name"`
	Combinations []CombinationResponse `json:"combinations"`
}
