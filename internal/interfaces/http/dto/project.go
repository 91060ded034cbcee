// Package dto 提供 HTTP 层数据传输对象
package dto

import (
	"time"

	"github.com/sandeepreddy1606/ai-document-assistance/internal/domain/entity"
)

// OutlineItemDTO 大纲条目
type OutlineItemDTO struct {
	ID    string `json:"id,omitempty"`
	Title string `json:"title" binding:"required"`
	Order int    `json:"order"`
}

// CreateProjectRequest 创建项目请求
type CreateProjectRequest struct {
	Name    string           `json:"name" binding:"required"`
	Kind    string           `json:"kind" binding:"required"`
	Topic   string           `json:"topic" binding:"required"`
	Outline []OutlineItemDTO `json:"outline"`
}

// UpdateProjectRequest 更新项目请求，未携带的字段不做修改
type UpdateProjectRequest struct {
	Name    *string          `json:"name"`
	Topic   *string          `json:"topic"`
	Outline []OutlineItemDTO `json:"outline"`
	// Kind 创建后不可变更，携带时拒绝整个请求
	Kind *string `json:"kind"`
}

// ProjectResponse 项目详情响应
type ProjectResponse struct {
	ID        string                     `json:"id"`
	Name      string                     `json:"name"`
	Kind      string                     `json:"kind"`
	Topic     string                     `json:"topic"`
	Outline   []OutlineItemDTO           `json:"outline"`
	Content   map[string]ContentEntryDTO `json:"content"`
	CreatedAt time.Time                  `json:"created_at"`
	UpdatedAt time.Time                  `json:"updated_at"`
}

// ProjectSummary 项目列表条目
type ProjectSummary struct {
	ID        string    `json:"id"`
	Name      string    `json:"name"`
	Kind      string    `json:"kind"`
	Topic     string    `json:"topic"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

// ProjectListResponse 项目列表响应
type ProjectListResponse struct {
	Projects []ProjectSummary `json:"projects"`
	Total    int              `json:"total"`
}

// ContentEntryDTO 章节内容
type ContentEntryDTO struct {
	Title   string `json:"title"`
	Content string `json:"content"`
	Order   int    `json:"order"`
}

// ToOutlineEntities 转换大纲条目为领域对象
func ToOutlineEntities(items []OutlineItemDTO) []entity.OutlineItem {
	if items == nil {
		return nil
	}
	out := make([]entity.OutlineItem, 0, len(items))
	for _, it := range items {
		out = append(out, entity.OutlineItem{
			ID:    it.ID,
			Title: it.Title,
			Order: it.Order,
		})
	}
	return out
}

// ToOutlineDTOs 转换大纲条目为传输对象
func ToOutlineDTOs(items []entity.OutlineItem) []OutlineItemDTO {
	out := make([]OutlineItemDTO, 0, len(items))
	for _, it := range items {
		out = append(out, OutlineItemDTO{
			ID:    it.ID,
			Title: it.Title,
			Order: it.Order,
		})
	}
	return out
}

// ToContentDTOs 转换内容集合为传输对象
func ToContentDTOs(content entity.ContentMap) map[string]ContentEntryDTO {
	out := make(map[string]ContentEntryDTO, len(content))
	for id, e := range content {
		out[id] = ContentEntryDTO{
			Title:   e.Title,
			Content: e.Content,
			Order:   e.Order,
		}
	}
	return out
}

// ToProjectResponse 转换项目为详情响应
func ToProjectResponse(p *entity.Project) ProjectResponse {
	return ProjectResponse{
		ID:        p.ID,
		Name:      p.Name,
		Kind:      string(p.Kind),
		Topic:     p.Topic,
		Outline:   ToOutlineDTOs(p.Outline),
		Content:   ToContentDTOs(p.Content),
		CreatedAt: p.CreatedAt,
		UpdatedAt: p.UpdatedAt,
	}
}

// ToProjectListResponse 转换项目列表为响应
func ToProjectListResponse(projects []*entity.Project) ProjectListResponse {
	items := make([]ProjectSummary, 0, len(projects))
	for _, p := range projects {
		items = append(items, ProjectSummary{
			ID:        p.ID,
			Name:      p.Name,
			Kind:      string(p.Kind),
			Topic:     p.Topic,
			CreatedAt: p.CreatedAt,
			UpdatedAt: p.UpdatedAt,
		})
	}
	return ProjectListResponse{Projects: items, Total: len(items)}
}
