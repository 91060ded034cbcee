// Package handler 提供 HTTP 请求处理器
package handler

import (
	"github.com/gin-gonic/gin"

	"github.com/sandeepreddy1606/ai-document-assistance/internal/interfaces/http/dto"
	"github.com/sandeepreddy1606/ai-document-assistance/internal/interfaces/http/middleware"
	"github.com/sandeepreddy1606/ai-document-assistance/pkg/utils"
)

// AuthHandler 认证处理器
type AuthHandler struct {
	jwt *utils.JWTManager
}

// NewAuthHandler 创建认证处理器
func NewAuthHandler(jwt *utils.JWTManager) *AuthHandler {
	return &AuthHandler{jwt: jwt}
}

// Verify 校验令牌有效性
// @Summary 校验令牌
// @Tags Auth
// @Accept json
// @Produce json
// @Param body body dto.VerifyTokenRequest true "令牌"
// @Success 200 {object} dto.Response[dto.VerifyTokenResponse]
// @Failure 401 {object} dto.ErrorResponse
// @Router /v1/auth/verify [post]
func (h *AuthHandler) Verify(c *gin.Context) {
	var req dto.VerifyTokenRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		dto.BadRequest(c, "invalid request body: "+err.Error())
		return
	}

	claims, err := h.jwt.ParseToken(req.Token)
	if err != nil {
		msg := "invalid token"
		if err == utils.ErrExpiredToken {
			msg = "token expired"
		}
		dto.Unauthorized(c, msg)
		return
	}

	dto.Success(c, dto.VerifyTokenResponse{
		Valid: true,
		User: dto.UserResponse{
			UserID: claims.UserID,
			Email:  claims.Email,
			Name:   claims.Name,
		},
	})
}

// Me 返回当前登录用户信息
// @Summary 当前用户
// @Tags Auth
// @Produce json
// @Success 200 {object} dto.Response[dto.UserResponse]
// @Failure 401 {object} dto.ErrorResponse
// @Router /v1/auth/me [get]
func (h *AuthHandler) Me(c *gin.Context) {
	userID := middleware.GetUserIDFromGin(c)
	if userID == "" {
		dto.Unauthorized(c, "not authenticated")
		return
	}

	dto.Success(c, dto.UserResponse{
		UserID: userID,
		Email:  c.GetString("user_email"),
		Name:   c.GetString("user_name"),
	})
}
