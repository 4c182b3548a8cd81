package models

// Identity 当前请求的已认证用户，由 AuthMiddleware 放入 context
type Identity struct {
	UserID string `json:"userId"`
	Email  string `json:"email,omitempty"`
}
