// Package handler 提供 HTTP 请求处理器
package handler

import (
	"fmt"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/sandeepreddy1606/ai-document-assistance/internal/application/document"
	"github.com/sandeepreddy1606/ai-document-assistance/internal/interfaces/http/dto"
	"github.com/sandeepreddy1606/ai-document-assistance/internal/interfaces/http/middleware"
)

// DocumentHandler 文档生成与维护处理器
type DocumentHandler struct {
	svc *document.Service
}

// NewDocumentHandler 创建文档处理器
func NewDocumentHandler(svc *document.Service) *DocumentHandler {
	return &DocumentHandler{svc: svc}
}

// GenerateTemplate 生成大纲
// @Summary 生成大纲
// @Tags Documents
// @Produce json
// @Param pid path string true "项目 ID"
// @Success 200 {object} dto.Response[dto.TemplateResponse]
// @Failure 404 {object} dto.ErrorResponse
// @Router /v1/projects/{pid}/generate-template [post]
func (h *DocumentHandler) GenerateTemplate(c *gin.Context) {
	ctx := c.Request.Context()
	userID := middleware.GetUserIDFromGin(c)
	projectID := dto.BindProjectID(c)

	items, err := h.svc.GenerateOutline(ctx, userID, projectID)
	if err != nil {
		dto.FromError(c, err)
		return
	}

	dto.Success(c, dto.TemplateResponse{Template: dto.ToOutlineDTOs(items)})
}

// GenerateContent 补齐全部章节内容
// @Summary 生成章节内容
// @Tags Documents
// @Produce json
// @Param pid path string true "项目 ID"
// @Success 200 {object} dto.Response[dto.ContentResponse]
// @Failure 404 {object} dto.ErrorResponse
// @Router /v1/projects/{pid}/generate-content [post]
func (h *DocumentHandler) GenerateContent(c *gin.Context) {
	ctx := c.Request.Context()
	userID := middleware.GetUserIDFromGin(c)
	projectID := dto.BindProjectID(c)

	content, err := h.svc.GenerateContent(ctx, userID, projectID)
	if err != nil {
		dto.FromError(c, err)
		return
	}

	dto.Success(c, dto.ContentResponse{Content: dto.ToContentDTOs(content)})
}

// Refine 润色指定章节
// @Summary 润色章节
// @Tags Documents
// @Accept json
// @Produce json
// @Param pid path string true "项目 ID"
// @Param body body dto.RefineRequest true "润色指令"
// @Success 200 {object} dto.Response[dto.RefineResponse]
// @Failure 404 {object} dto.ErrorResponse
// @Failure 502 {object} dto.ErrorResponse
// @Router /v1/projects/{pid}/refine [post]
func (h *DocumentHandler) Refine(c *gin.Context) {
	ctx := c.Request.Context()
	userID := middleware.GetUserIDFromGin(c)
	projectID := dto.BindProjectID(c)

	var req dto.RefineRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		dto.BadRequest(c, "invalid request body: "+err.Error())
		return
	}

	refined, err := h.svc.RefineSection(ctx, userID, projectID, req.SectionID, req.Prompt)
	if err != nil {
		dto.FromError(c, err)
		return
	}

	dto.Success(c, dto.RefineResponse{RefinedContent: refined})
}

// AddFeedback 记录章节反馈
// @Summary 章节反馈
// @Tags Documents
// @Accept json
// @Produce json
// @Param pid path string true "项目 ID"
// @Param body body dto.FeedbackRequest true "反馈"
// @Success 204
// @Failure 404 {object} dto.ErrorResponse
// @Router /v1/projects/{pid}/feedback [post]
func (h *DocumentHandler) AddFeedback(c *gin.Context) {
	ctx := c.Request.Context()
	userID := middleware.GetUserIDFromGin(c)
	projectID := dto.BindProjectID(c)

	var req dto.FeedbackRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		dto.BadRequest(c, "invalid request body: "+err.Error())
		return
	}

	if err := h.svc.AddFeedback(ctx, userID, projectID, req.SectionID, req.FeedbackType); err != nil {
		dto.FromError(c, err)
		return
	}

	dto.NoContent(c)
}

// AddComment 记录章节评论
// @Summary 章节评论
// @Tags Documents
// @Accept json
// @Produce json
// @Param pid path string true "项目 ID"
// @Param body body dto.CommentRequest true "评论"
// @Success 204
// @Failure 404 {object} dto.ErrorResponse
// @Router /v1/projects/{pid}/comments [post]
func (h *DocumentHandler) AddComment(c *gin.Context) {
	ctx := c.Request.Context()
	userID := middleware.GetUserIDFromGin(c)
	projectID := dto.BindProjectID(c)

	var req dto.CommentRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		dto.BadRequest(c, "invalid request body: "+err.Error())
		return
	}

	if err := h.svc.AddComment(ctx, userID, projectID, req.SectionID, req.Comment); err != nil {
		dto.FromError(c, err)
		return
	}

	dto.NoContent(c)
}

// EditSection 手工覆盖章节内容
// @Summary 手工编辑章节
// @Tags Documents
// @Accept json
// @Produce json
// @Param pid path string true "项目 ID"
// @Param body body dto.SectionEditRequest true "章节内容"
// @Success 204
// @Failure 404 {object} dto.ErrorResponse
// @Router /v1/projects/{pid}/sections [put]
func (h *DocumentHandler) EditSection(c *gin.Context) {
	ctx := c.Request.Context()
	userID := middleware.GetUserIDFromGin(c)
	projectID := dto.BindProjectID(c)

	var req dto.SectionEditRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		dto.BadRequest(c, "invalid request body: "+err.Error())
		return
	}

	if err := h.svc.EditSection(ctx, userID, projectID, req.SectionID, req.Content); err != nil {
		dto.FromError(c, err)
		return
	}

	dto.NoContent(c)
}

// History 查询项目历史记录
// @Summary 历史记录
// @Tags Documents
// @Produce json
// @Param pid path string true "项目 ID"
// @Success 200 {object} dto.Response[dto.HistoryResponse]
// @Failure 404 {object} dto.ErrorResponse
// @Router /v1/projects/{pid}/history [get]
func (h *DocumentHandler) History(c *gin.Context) {
	ctx := c.Request.Context()
	userID := middleware.GetUserIDFromGin(c)
	projectID := dto.BindProjectID(c)

	entries, err := h.svc.History(ctx, userID, projectID)
	if err != nil {
		dto.FromError(c, err)
		return
	}

	dto.Success(c, dto.ToHistoryResponse(entries))
}

// Export 导出渲染后的文档
// @Summary 导出文档
// @Tags Documents
// @Produce octet-stream
// @Param pid path string true "项目 ID"
// @Success 200 {file} binary
// @Failure 404 {object} dto.ErrorResponse
// @Failure 500 {object} dto.ErrorResponse
// @Router /v1/projects/{pid}/export [get]
func (h *DocumentHandler) Export(c *gin.Context) {
	ctx := c.Request.Context()
	userID := middleware.GetUserIDFromGin(c)
	projectID := dto.BindProjectID(c)

	blob, mime, filename, err := h.svc.Export(ctx, userID, projectID)
	if err != nil {
		dto.FromError(c, err)
		return
	}

	c.Header("Content-Disposition", fmt.Sprintf("attachment; filename=%q", filename))
	c.Data(http.StatusOK, mime, blob)
}
