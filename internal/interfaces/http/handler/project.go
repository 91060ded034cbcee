// Package handler 提供 HTTP 请求处理器
package handler

import (
	"github.com/gin-gonic/gin"

	"github.com/sandeepreddy1606/ai-document-assistance/internal/application/document"
	"github.com/sandeepreddy1606/ai-document-assistance/internal/domain/entity"
	"github.com/sandeepreddy1606/ai-document-assistance/internal/interfaces/http/dto"
	"github.com/sandeepreddy1606/ai-document-assistance/internal/interfaces/http/middleware"
	"github.com/sandeepreddy1606/ai-document-assistance/pkg/logger"
)

// ProjectHandler 项目处理器
type ProjectHandler struct {
	svc *document.Service
}

// NewProjectHandler 创建项目处理器
func NewProjectHandler(svc *document.Service) *ProjectHandler {
	return &ProjectHandler{svc: svc}
}

// ListProjects 获取项目列表
// @Summary 获取项目列表
// @Tags Projects
// @Produce json
// @Success 200 {object} dto.Response[dto.ProjectListResponse]
// @Failure 500 {object} dto.ErrorResponse
// @Router /v1/projects [get]
func (h *ProjectHandler) ListProjects(c *gin.Context) {
	ctx := c.Request.Context()
	userID := middleware.GetUserIDFromGin(c)

	projects, err := h.svc.ListProjects(ctx, userID)
	if err != nil {
		logger.Error(ctx, "failed to list projects", err)
		dto.InternalError(c, "failed to list projects")
		return
	}

	dto.Success(c, dto.ToProjectListResponse(projects))
}

// CreateProject 创建项目
// @Summary 创建项目
// @Tags Projects
// @Accept json
// @Produce json
// @Param body body dto.CreateProjectRequest true "项目信息"
// @Success 201 {object} dto.Response[dto.ProjectResponse]
// @Failure 400 {object} dto.ErrorResponse
// @Router /v1/projects [post]
func (h *ProjectHandler) CreateProject(c *gin.Context) {
	ctx := c.Request.Context()
	userID := middleware.GetUserIDFromGin(c)

	var req dto.CreateProjectRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		dto.BadRequest(c, "invalid request body: "+err.Error())
		return
	}

	project, err := h.svc.CreateProject(ctx, userID, req.Name, entity.DocumentKind(req.Kind), req.Topic, dto.ToOutlineEntities(req.Outline))
	if err != nil {
		dto.FromError(c, err)
		return
	}

	dto.Created(c, dto.ToProjectResponse(project))
}

// GetProject 获取项目详情
// @Summary 获取项目详情
// @Tags Projects
// @Produce json
// @Param pid path string true "项目 ID"
// @Success 200 {object} dto.Response[dto.ProjectResponse]
// @Failure 404 {object} dto.ErrorResponse
// @Router /v1/projects/{pid} [get]
func (h *ProjectHandler) GetProject(c *gin.Context) {
	ctx := c.Request.Context()
	userID := middleware.GetUserIDFromGin(c)
	projectID := dto.BindProjectID(c)

	project, err := h.svc.GetProject(ctx, userID, projectID)
	if err != nil {
		dto.FromError(c, err)
		return
	}

	dto.Success(c, dto.ToProjectResponse(project))
}

// UpdateProject 更新项目元数据
// @Summary 更新项目
// @Tags Projects
// @Accept json
// @Produce json
// @Param pid path string true "项目 ID"
// @Param body body dto.UpdateProjectRequest true "更新内容"
// @Success 200 {object} dto.Response[dto.ProjectResponse]
// @Failure 400 {object} dto.ErrorResponse
// @Failure 404 {object} dto.ErrorResponse
// @Router /v1/projects/{pid} [put]
func (h *ProjectHandler) UpdateProject(c *gin.Context) {
	ctx := c.Request.Context()
	userID := middleware.GetUserIDFromGin(c)
	projectID := dto.BindProjectID(c)

	var req dto.UpdateProjectRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		dto.BadRequest(c, "invalid request body: "+err.Error())
		return
	}

	// 文档类型创建后不可变更
	if req.Kind != nil {
		dto.BadRequest(c, "document kind is immutable")
		return
	}

	project, err := h.svc.UpdateProject(ctx, userID, projectID, document.UpdateProjectInput{
		Name:    req.Name,
		Topic:   req.Topic,
		Outline: dto.ToOutlineEntities(req.Outline),
	})
	if err != nil {
		dto.FromError(c, err)
		return
	}

	dto.Success(c, dto.ToProjectResponse(project))
}

// DeleteProject 删除项目
// @Summary 删除项目
// @Tags Projects
// @Param pid path string true "项目 ID"
// @Success 204
// @Failure 404 {object} dto.ErrorResponse
// @Router /v1/projects/{pid} [delete]
func (h *ProjectHandler) DeleteProject(c *gin.Context) {
	ctx := c.Request.Context()
	userID := middleware.GetUserIDFromGin(c)
	projectID := dto.BindProjectID(c)

	if err := h.svc.DeleteProject(ctx, userID, projectID); err != nil {
		dto.FromError(c, err)
		return
	}

	dto.NoContent(c)
}
