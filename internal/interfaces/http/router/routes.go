// Package router 提供 HTTP 路由配置
package router

import (
	"github.com/gin-gonic/gin"

	"github.com/sandeepreddy1606/ai-document-assistance/internal/interfaces/http/handler"
)

// RegisterV1Routes 注册 v1 版本路由
func RegisterV1Routes(
	v1 *gin.RouterGroup,
	authHandler *handler.AuthHandler,
	projectHandler *handler.ProjectHandler,
	documentHandler *handler.DocumentHandler,
) {
	// 认证
	auth := v1.Group("/auth")
	{
		auth.POST("/verify", authHandler.Verify)
		auth.GET("/me", authHandler.Me)
	}

	// 项目管理
	projects := v1.Group("/projects")
	{
		projects.GET("", projectHandler.ListProjects)
		projects.POST("", projectHandler.CreateProject)
		projects.GET("/:pid", projectHandler.GetProject)
		projects.PUT("/:pid", projectHandler.UpdateProject)
		projects.DELETE("/:pid", projectHandler.DeleteProject)

		// 生成流程
		projects.POST("/:pid/generate-template", documentHandler.GenerateTemplate)
		projects.POST("/:pid/generate-content", documentHandler.GenerateContent)
		projects.POST("/:pid/refine", documentHandler.Refine)

		// 反馈与修订
		projects.POST("/:pid/feedback", documentHandler.AddFeedback)
		projects.POST("/:pid/comments", documentHandler.AddComment)
		projects.PUT("/:pid/sections", documentHandler.EditSection)
		projects.GET("/:pid/history", documentHandler.History)

		// 导出
		projects.GET("/:pid/export", documentHandler.Export)
	}
}
