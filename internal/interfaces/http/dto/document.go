// Package dto 提供 HTTP 层数据传输对象
package dto

import (
	"time"

	"github.com/sandeepreddy1606/ai-document-assistance/internal/domain/entity"
)

// TemplateResponse 大纲生成响应
type TemplateResponse struct {
	Template []OutlineItemDTO `json:"template"`
}

// ContentResponse 内容生成响应
type ContentResponse struct {
	Content map[string]ContentEntryDTO `json:"content"`
}

// RefineRequest 章节润色请求
type RefineRequest struct {
	SectionID string `json:"section_id" binding:"required"`
	Prompt    string `json:"prompt" binding:"required"`
}

// RefineResponse 章节润色响应
type RefineResponse struct {
	RefinedContent string `json:"refined_content"`
}

// FeedbackRequest 章节反馈请求，comment 可选且不计入历史
type FeedbackRequest struct {
	SectionID    string `json:"section_id" binding:"required"`
	FeedbackType string `json:"feedback_type" binding:"required"`
	Comment      string `json:"comment"`
}

// CommentRequest 章节评论请求
type CommentRequest struct {
	SectionID string `json:"section_id" binding:"required"`
	Comment   string `json:"comment" binding:"required"`
}

// SectionEditRequest 章节手工编辑请求
type SectionEditRequest struct {
	SectionID string `json:"section_id" binding:"required"`
	Content   string `json:"content" binding:"required"`
}

// HistoryEntryDTO 历史记录条目
type HistoryEntryDTO struct {
	Type      string    `json:"type"`
	SectionID string    `json:"section_id"`
	Value     string    `json:"value"`
	Timestamp time.Time `json:"timestamp"`
}

// HistoryResponse 历史记录响应
type HistoryResponse struct {
	History []HistoryEntryDTO `json:"history"`
}

// ToHistoryResponse 转换历史记录为响应
func ToHistoryResponse(entries []entity.HistoryEntry) HistoryResponse {
	items := make([]HistoryEntryDTO, 0, len(entries))
	for _, e := range entries {
		items = append(items, HistoryEntryDTO{
			Type:      string(e.Type),
			SectionID: e.SectionID,
			Value:     e.Value,
			Timestamp: e.Timestamp,
		})
	}
	return HistoryResponse{History: items}
}
