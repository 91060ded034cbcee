// Package repository 定义领域仓储接口
package repository

import (
	"context"

	"github.com/sandeepreddy1606/ai-document-assistance/internal/domain/entity"
)

// ProjectRepository 项目仓储接口
// GetByID 在项目不存在时返回 (nil, nil)
type ProjectRepository interface {
	Create(ctx context.Context, project *entity.Project) error
	GetByID(ctx context.Context, id string) (*entity.Project, error)
	ListByOwner(ctx context.Context, userID string) ([]*entity.Project, error)
	// Update 更新项目元数据（名称、主题、大纲），不触碰 content 与 history
	Update(ctx context.Context, project *entity.Project) error
	// UpdateContent 以单条语句写入内容集合；outline 非 nil 时一并写入
	// （仅在生成过程补齐了条目 ID 时需要）
	UpdateContent(ctx context.Context, id string, content entity.ContentMap, outline []entity.OutlineItem) error
	// AppendHistory 服务端原子追加一条历史记录
	AppendHistory(ctx context.Context, id string, entry entity.HistoryEntry) error
	Delete(ctx context.Context, id string) error
}
