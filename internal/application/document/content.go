package document

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/sandeepreddy1606/ai-document-assistance/internal/application/document/htmltext"
	"github.com/sandeepreddy1606/ai-document-assistance/internal/domain/entity"
	"github.com/sandeepreddy1606/ai-document-assistance/pkg/logger"
	"github.com/sandeepreddy1606/ai-document-assistance/pkg/metrics"
)

// excerptLimit 滚动上下文中单章节摘要的最大字符数
const excerptLimit = 150

// failedContent 单章节生成失败时写入的非空占位，避免下次重复生成时再次触发
const failedContent = "<p>Content generation failed for this section.</p>"

// placeholderContent 占位模式下写入的内容模板
const placeholderContent = "<p>Placeholder content for %s.</p>"

// mintSectionID 为缺失 ID 的大纲条目生成稳定标识
// pos 是条目在排序后大纲中的位置，order 可能重复，位置不会
func mintSectionID(pos int) string {
	return fmt.Sprintf("item_%d_%d", time.Now().UnixMilli(), pos)
}

// needsID 判断条目是否需要补发 ID（为空或前端临时 ID）
func needsID(id string) bool {
	return id == "" || strings.HasPrefix(id, "temp")
}

// fillContent 按大纲顺序补齐缺失章节的内容
//
// 已有内容的章节不再生成，只参与滚动上下文。返回补齐后的内容集合、
// 补发过 ID 的大纲（未补发时为 nil）。
func (s *Service) fillContent(ctx context.Context, project *entity.Project) (entity.ContentMap, []entity.OutlineItem) {
	content := project.Content
	if content == nil {
		content = make(entity.ContentMap)
	}

	items := project.SortedOutline()
	minted := false

	var contextBuilder strings.Builder

	for i := range items {
		item := &items[i]
		if needsID(item.ID) {
			item.ID = mintSectionID(i)
			minted = true
		}

		if entry, ok := content[item.ID]; !ok || entry.Content == "" {
			content[item.ID] = entity.ContentEntry{
				Title:   item.Title,
				Content: s.generateSection(ctx, project, item.Title, contextBuilder.String()),
				Order:   item.Order,
			}
		}

		// 无论是否新生成，都将本章节摘要并入后续章节的上下文
		excerpt := htmltext.Excerpt(content[item.ID].Content, excerptLimit)
		fmt.Fprintf(&contextBuilder, "\n%s: %s", item.Title, excerpt)
	}

	if !minted {
		return content, nil
	}
	return content, items
}

// generateSection 生成单个章节的内容，失败时返回占位而不中断整体流程
func (s *Service) generateSection(ctx context.Context, project *entity.Project, title, rollingContext string) string {
	if !s.gen.Available() {
		return fmt.Sprintf(placeholderContent, title)
	}

	prompt := buildContentPrompt(project.Topic, title, project.Kind, rollingContext)
	text, err := s.gen.Generate(ctx, prompt)
	if err != nil {
		metrics.GenerationTotal.WithLabelValues("content", "failure").Inc()
		logger.Warn(ctx, "章节内容生成失败，写入占位内容",
			"section_title", title,
		)
		return failedContent
	}
	metrics.GenerationTotal.WithLabelValues("content", "success").Inc()
	return text
}
