// Package postgres 提供 PostgreSQL Repository 实现
package postgres

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"

	"gorm.io/gorm"

	"github.com/sandeepreddy1606/ai-document-assistance/internal/domain/entity"
	apperrors "github.com/sandeepreddy1606/ai-document-assistance/pkg/errors"
)

// ProjectRepository 项目仓储实现
type ProjectRepository struct {
	client *Client
}

// NewProjectRepository 创建项目仓储
func NewProjectRepository(client *Client) *ProjectRepository {
	return &ProjectRepository{client: client}
}

// Create 创建项目
func (r *ProjectRepository) Create(ctx context.Context, project *entity.Project) error {
	ctx, span := tracer.Start(ctx, "postgres.ProjectRepository.Create")
	defer span.End()

	if err := r.client.db.WithContext(ctx).Create(project).Error; err != nil {
		span.RecordError(err)
		return fmt.Errorf("failed to create project: %w", err)
	}
	return nil
}

// GetByID 根据 ID 获取项目，不存在时返回 (nil, nil)
func (r *ProjectRepository) GetByID(ctx context.Context, id string) (*entity.Project, error) {
	ctx, span := tracer.Start(ctx, "postgres.ProjectRepository.GetByID")
	defer span.End()

	var project entity.Project
	err := r.client.db.WithContext(ctx).Where("id = ?", id).First(&project).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		span.RecordError(err)
		return nil, fmt.Errorf("failed to get project: %w", err)
	}
	return &project, nil
}

// ListByOwner 获取用户项目列表，最近更新的在前
func (r *ProjectRepository) ListByOwner(ctx context.Context, userID string) ([]*entity.Project, error) {
	ctx, span := tracer.Start(ctx, "postgres.ProjectRepository.ListByOwner")
	defer span.End()

	var projects []*entity.Project
	err := r.client.db.WithContext(ctx).
		Where("user_id = ?", userID).
		Order("updated_at DESC").
		Find(&projects).Error
	if err != nil {
		span.RecordError(err)
		return nil, fmt.Errorf("failed to list projects: %w", err)
	}
	return projects, nil
}

// Update 更新项目元数据（名称、主题、大纲）
func (r *ProjectRepository) Update(ctx context.Context, project *entity.Project) error {
	ctx, span := tracer.Start(ctx, "postgres.ProjectRepository.Update")
	defer span.End()

	outlineJSON, err := json.Marshal(project.Outline)
	if err != nil {
		return fmt.Errorf("failed to marshal outline: %w", err)
	}

	result := r.client.db.WithContext(ctx).Exec(`
		UPDATE projects
		SET name = ?, topic = ?, outline = ?::jsonb, updated_at = NOW()
		WHERE id = ?`,
		project.Name, project.Topic, string(outlineJSON), project.ID,
	)
	if result.Error != nil {
		span.RecordError(result.Error)
		return fmt.Errorf("failed to update project: %w", result.Error)
	}
	if result.RowsAffected == 0 {
		return apperrors.ErrProjectNotFound
	}
	return nil
}

// UpdateContent 单条语句写入内容集合；outline 非 nil 时一并写入
func (r *ProjectRepository) UpdateContent(ctx context.Context, id string, content entity.ContentMap, outline []entity.OutlineItem) error {
	ctx, span := tracer.Start(ctx, "postgres.ProjectRepository.UpdateContent")
	defer span.End()

	contentJSON, err := json.Marshal(content)
	if err != nil {
		return fmt.Errorf("failed to marshal content: %w", err)
	}

	var result *gorm.DB
	if outline != nil {
		outlineJSON, err := json.Marshal(outline)
		if err != nil {
			return fmt.Errorf("failed to marshal outline: %w", err)
		}
		result = r.client.db.WithContext(ctx).Exec(`
			UPDATE projects
			SET content = ?::jsonb, outline = ?::jsonb, updated_at = NOW()
			WHERE id = ?`,
			string(contentJSON), string(outlineJSON), id,
		)
	} else {
		result = r.client.db.WithContext(ctx).Exec(`
			UPDATE projects
			SET content = ?::jsonb, updated_at = NOW()
			WHERE id = ?`,
			string(contentJSON), id,
		)
	}

	if result.Error != nil {
		span.RecordError(result.Error)
		return fmt.Errorf("failed to update content: %w", result.Error)
	}
	if result.RowsAffected == 0 {
		return apperrors.ErrProjectNotFound
	}
	return nil
}

// AppendHistory 服务端原子追加历史记录，避免读改写竞态丢失条目
func (r *ProjectRepository) AppendHistory(ctx context.Context, id string, entry entity.HistoryEntry) error {
	ctx, span := tracer.Start(ctx, "postgres.ProjectRepository.AppendHistory")
	defer span.End()

	entryJSON, err := json.Marshal([]entity.HistoryEntry{entry})
	if err != nil {
		return fmt.Errorf("failed to marshal history entry: %w", err)
	}

	result := r.client.db.WithContext(ctx).Exec(`
		UPDATE projects
		SET history = COALESCE(history, '[]'::jsonb) || ?::jsonb, updated_at = NOW()
		WHERE id = ?`,
		string(entryJSON), id,
	)
	if result.Error != nil {
		span.RecordError(result.Error)
		return fmt.Errorf("failed to append history: %w", result.Error)
	}
	if result.RowsAffected == 0 {
		return apperrors.ErrProjectNotFound
	}
	return nil
}

// Delete 删除项目（硬删除）
func (r *ProjectRepository) Delete(ctx context.Context, id string) error {
	ctx, span := tracer.Start(ctx, "postgres.ProjectRepository.Delete")
	defer span.End()

	if err := r.client.db.WithContext(ctx).Delete(&entity.Project{}, "id = ?", id).Error; err != nil {
		span.RecordError(err)
		return fmt.Errorf("failed to delete project: %w", err)
	}
	return nil
}
