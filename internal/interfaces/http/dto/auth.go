// Package dto 提供 HTTP 层数据传输对象
package dto

// VerifyTokenRequest 令牌校验请求
type VerifyTokenRequest struct {
	Token string `json:"token" binding:"required"`
}

// UserResponse 当前用户信息
type UserResponse struct {
	UserID string `json:"user_id"`
	Email  string `json:"email,omitempty"`
	Name   string `json:"name,omitempty"`
}

// VerifyTokenResponse 令牌校验响应
type VerifyTokenResponse struct {
	Valid bool         `json:"valid"`
	User  UserResponse `json:"user"`
}
