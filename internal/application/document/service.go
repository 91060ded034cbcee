package document

import (
	"context"
	"fmt"
	"time"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/trace"

	"github.com/sandeepreddy1606/ai-document-assistance/internal/application/export"
	"github.com/sandeepreddy1606/ai-document-assistance/internal/domain/entity"
	"github.com/sandeepreddy1606/ai-document-assistance/internal/domain/repository"
	apperrors "github.com/sandeepreddy1606/ai-document-assistance/pkg/errors"
	"github.com/sandeepreddy1606/ai-document-assistance/pkg/logger"
	"github.com/sandeepreddy1606/ai-document-assistance/pkg/metrics"
)

var tracer = otel.Tracer("document")

// BlobCache 导出结果的字节缓存端口
type BlobCache interface {
	GetOrLoadSafe(ctx context.Context, key string, ttl time.Duration, loader func() ([]byte, error)) ([]byte, error)
}

// Service 文档项目应用服务
type Service struct {
	repo      repository.ProjectRepository
	gen       Generator
	renderer  *export.Renderer
	cache     BlobCache
	exportTTL time.Duration
}

// NewService 创建应用服务，cache 可以为 nil（导出不走缓存）
func NewService(
	repo repository.ProjectRepository,
	gen Generator,
	renderer *export.Renderer,
	cache BlobCache,
	exportTTL time.Duration,
) *Service {
	return &Service{
		repo:      repo,
		gen:       gen,
		renderer:  renderer,
		cache:     cache,
		exportTTL: exportTTL,
	}
}

// getOwned 加载属于指定用户的项目
//
// 项目不存在与归属他人统一返回 ProjectNotFound，不泄露存在性。
func (s *Service) getOwned(ctx context.Context, userID, projectID string) (*entity.Project, error) {
	project, err := s.repo.GetByID(ctx, projectID)
	if err != nil {
		return nil, err
	}
	if project == nil || !project.OwnedBy(userID) {
		return nil, apperrors.ErrProjectNotFound
	}
	return project, nil
}

// CreateProject 创建项目
func (s *Service) CreateProject(ctx context.Context, userID, name string, kind entity.DocumentKind, topic string, outline []entity.OutlineItem) (*entity.Project, error) {
	ctx, span := tracer.Start(ctx, "document.CreateProject",
		trace.WithAttributes(attribute.String("document.kind", string(kind))))
	defer span.End()

	if !kind.Valid() {
		return nil, apperrors.New(apperrors.CodeInvalidParam, fmt.Sprintf("unsupported document kind: %s", kind))
	}

	project := entity.NewProject(userID, name, kind, topic, outline)
	if err := s.repo.Create(ctx, project); err != nil {
		return nil, err
	}

	ctx = logger.WithContext(ctx, logger.ProjectIDKey, project.ID)
	logger.Info(ctx, "项目已创建", "kind", string(kind))
	return project, nil
}

// GetProject 查询单个项目
func (s *Service) GetProject(ctx context.Context, userID, projectID string) (*entity.Project, error) {
	return s.getOwned(ctx, userID, projectID)
}

// ListProjects 列出用户的全部项目
func (s *Service) ListProjects(ctx context.Context, userID string) ([]*entity.Project, error) {
	return s.repo.ListByOwner(ctx, userID)
}

// UpdateProjectInput 项目元数据更新参数，nil 字段表示不修改
type UpdateProjectInput struct {
	Name    *string
	Topic   *string
	Outline []entity.OutlineItem
}

// UpdateProject 更新项目元数据，文档类型创建后不可变更
func (s *Service) UpdateProject(ctx context.Context, userID, projectID string, in UpdateProjectInput) (*entity.Project, error) {
	ctx, span := tracer.Start(ctx, "document.UpdateProject")
	defer span.End()

	project, err := s.getOwned(ctx, userID, projectID)
	if err != nil {
		return nil, err
	}

	if in.Name != nil {
		project.Name = *in.Name
	}
	if in.Topic != nil {
		project.Topic = *in.Topic
	}
	if in.Outline != nil {
		project.Outline = in.Outline
	}

	if err := s.repo.Update(ctx, project); err != nil {
		return nil, err
	}
	return project, nil
}

// DeleteProject 删除项目
func (s *Service) DeleteProject(ctx context.Context, userID, projectID string) error {
	ctx, span := tracer.Start(ctx, "document.DeleteProject")
	defer span.End()

	if _, err := s.getOwned(ctx, userID, projectID); err != nil {
		return err
	}
	return s.repo.Delete(ctx, projectID)
}

// GenerateOutline 根据项目主题生成大纲
//
// 结果直接返回给调用方确认，不落库；生成能力不可用时返回空大纲。
func (s *Service) GenerateOutline(ctx context.Context, userID, projectID string) ([]entity.OutlineItem, error) {
	ctx, span := tracer.Start(ctx, "document.GenerateOutline")
	defer span.End()

	project, err := s.getOwned(ctx, userID, projectID)
	if err != nil {
		return nil, err
	}
	ctx = logger.WithContext(ctx, logger.ProjectIDKey, project.ID)

	if !s.gen.Available() {
		return []entity.OutlineItem{}, nil
	}

	start := time.Now()
	raw, err := s.gen.Generate(ctx, buildOutlinePrompt(project.Topic, project.Kind))
	metrics.GenerationDuration.WithLabelValues("outline").Observe(time.Since(start).Seconds())
	if err != nil {
		metrics.GenerationTotal.WithLabelValues("outline", "failure").Inc()
		logger.Warn(ctx, "大纲生成失败，返回空大纲")
		return []entity.OutlineItem{}, nil
	}

	metrics.GenerationTotal.WithLabelValues("outline", "success").Inc()
	return parseOutline(raw), nil
}

// GenerateContent 补齐全部缺失章节的内容并持久化
func (s *Service) GenerateContent(ctx context.Context, userID, projectID string) (entity.ContentMap, error) {
	ctx, span := tracer.Start(ctx, "document.GenerateContent")
	defer span.End()

	project, err := s.getOwned(ctx, userID, projectID)
	if err != nil {
		return nil, err
	}
	ctx = logger.WithContext(ctx, logger.ProjectIDKey, project.ID)

	// 逐章节的成功失败计数在 generateSection 中记录
	start := time.Now()
	content, mintedOutline := s.fillContent(ctx, project)
	metrics.GenerationDuration.WithLabelValues("content").Observe(time.Since(start).Seconds())

	if err := s.repo.UpdateContent(ctx, project.ID, content, mintedOutline); err != nil {
		return nil, err
	}
	return content, nil
}

// RefineSection 按用户指令重写指定章节的内容
//
// 成功时覆盖旧内容并追加一条 refinement 历史；全部候选模型失败时
// 内容保持原样，不写历史，向调用方返回生成不可用。
func (s *Service) RefineSection(ctx context.Context, userID, projectID, sectionID, instruction string) (string, error) {
	ctx, span := tracer.Start(ctx, "document.RefineSection",
		trace.WithAttributes(attribute.String("section.id", sectionID)))
	defer span.End()

	project, err := s.getOwned(ctx, userID, projectID)
	if err != nil {
		return "", err
	}
	ctx = logger.WithContext(ctx, logger.ProjectIDKey, project.ID)

	entry, ok := project.Content[sectionID]
	if !ok {
		return "", apperrors.ErrSectionNotFound
	}

	if !s.gen.Available() {
		return "", apperrors.ErrGenerationUnavailable
	}

	start := time.Now()
	refined, err := s.gen.Generate(ctx, buildRefinePrompt(entry.Content, instruction))
	metrics.GenerationDuration.WithLabelValues("refine").Observe(time.Since(start).Seconds())
	if err != nil {
		metrics.GenerationTotal.WithLabelValues("refine", "failure").Inc()
		return "", err
	}
	metrics.GenerationTotal.WithLabelValues("refine", "success").Inc()

	entry.Content = refined
	project.Content[sectionID] = entry

	if err := s.repo.UpdateContent(ctx, project.ID, project.Content, nil); err != nil {
		return "", err
	}

	history := entity.HistoryEntry{
		Type:      entity.HistoryRefinement,
		SectionID: sectionID,
		Value:     instruction,
		Timestamp: time.Now().UTC(),
	}
	if err := s.repo.AppendHistory(ctx, project.ID, history); err != nil {
		return "", err
	}
	return refined, nil
}

// AddFeedback 记录针对章节的反馈
func (s *Service) AddFeedback(ctx context.Context, userID, projectID, sectionID, feedbackType string) error {
	return s.appendHistory(ctx, userID, projectID, entity.HistoryEntry{
		Type:      entity.HistoryFeedback,
		SectionID: sectionID,
		Value:     feedbackType,
		Timestamp: time.Now().UTC(),
	})
}

// AddComment 记录针对章节的评论
func (s *Service) AddComment(ctx context.Context, userID, projectID, sectionID, comment string) error {
	return s.appendHistory(ctx, userID, projectID, entity.HistoryEntry{
		Type:      entity.HistoryComment,
		SectionID: sectionID,
		Value:     comment,
		Timestamp: time.Now().UTC(),
	})
}

// EditSection 手工覆盖章节内容并记录历史
func (s *Service) EditSection(ctx context.Context, userID, projectID, sectionID, content string) error {
	ctx, span := tracer.Start(ctx, "document.EditSection",
		trace.WithAttributes(attribute.String("section.id", sectionID)))
	defer span.End()

	project, err := s.getOwned(ctx, userID, projectID)
	if err != nil {
		return err
	}

	entry, ok := project.Content[sectionID]
	if !ok {
		return apperrors.ErrSectionNotFound
	}

	entry.Content = content
	project.Content[sectionID] = entry

	if err := s.repo.UpdateContent(ctx, project.ID, project.Content, nil); err != nil {
		return err
	}

	return s.repo.AppendHistory(ctx, project.ID, entity.HistoryEntry{
		Type:      entity.HistoryManualEdit,
		SectionID: sectionID,
		Value:     content,
		Timestamp: time.Now().UTC(),
	})
}

// History 返回项目的全部历史记录
func (s *Service) History(ctx context.Context, userID, projectID string) ([]entity.HistoryEntry, error) {
	project, err := s.getOwned(ctx, userID, projectID)
	if err != nil {
		return nil, err
	}
	if project.History == nil {
		return []entity.HistoryEntry{}, nil
	}
	return project.History, nil
}

// Export 渲染导出文件，按 (项目, 更新时间) 缓存渲染结果
func (s *Service) Export(ctx context.Context, userID, projectID string) ([]byte, string, string, error) {
	ctx, span := tracer.Start(ctx, "document.Export")
	defer span.End()

	project, err := s.getOwned(ctx, userID, projectID)
	if err != nil {
		return nil, "", "", err
	}

	kind := string(project.Kind)
	blob, mime, filename, err := s.renderCached(ctx, project)
	if err != nil {
		metrics.ExportTotal.WithLabelValues(kind, "failure").Inc()
		return nil, "", "", err
	}

	metrics.ExportTotal.WithLabelValues(kind, "success").Inc()
	metrics.ExportBytes.WithLabelValues(kind).Observe(float64(len(blob)))
	return blob, mime, filename, nil
}

func (s *Service) renderCached(ctx context.Context, project *entity.Project) ([]byte, string, string, error) {
	if s.cache == nil {
		return s.renderer.Render(ctx, project)
	}

	var mime, filename string
	key := exportCacheKey(project)
	blob, err := s.cache.GetOrLoadSafe(ctx, key, s.exportTTL, func() ([]byte, error) {
		b, m, f, err := s.renderer.Render(ctx, project)
		if err != nil {
			return nil, err
		}
		mime, filename = m, f
		return b, nil
	})
	if err != nil {
		return nil, "", "", err
	}

	// 缓存命中时 MIME 与文件名按项目属性推导
	if mime == "" {
		if project.Kind == entity.KindPptx {
			mime = export.MIMEPptx
			filename = project.Name + ".pptx"
		} else {
			mime = export.MIMEDocx
			filename = project.Name + ".docx"
		}
	}
	return blob, mime, filename, nil
}

// exportCacheKey 以更新时间参与构键，项目变更后自然失效
func exportCacheKey(project *entity.Project) string {
	return fmt.Sprintf("export:%s:%d:%s", project.ID, project.UpdatedAt.UnixNano(), project.Kind)
}

func (s *Service) appendHistory(ctx context.Context, userID, projectID string, entry entity.HistoryEntry) error {
	ctx, span := tracer.Start(ctx, "document.appendHistory",
		trace.WithAttributes(attribute.String("history.type", string(entry.Type))))
	defer span.End()

	if _, err := s.getOwned(ctx, userID, projectID); err != nil {
		return err
	}
	return s.repo.AppendHistory(ctx, projectID, entry)
}
