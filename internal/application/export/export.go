// Package export 将项目渲染为 Office Open XML 文档
package export

import (
	"context"
	"fmt"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/trace"

	"github.com/sandeepreddy1606/ai-document-assistance/internal/domain/entity"
	apperrors "github.com/sandeepreddy1606/ai-document-assistance/pkg/errors"
)

var tracer = otel.Tracer("export")

// Office 文档 MIME 类型
const (
	MIMEDocx = "application/vnd.openxmlformats-officedocument.wordprocessingml.document"
	MIMEPptx = "application/vnd.openxmlformats-officedocument.presentationml.presentation"
)

// missingContent 章节内容缺失时渲染的占位文本
const missingContent = "Content not yet generated."

// Renderer 按项目类型渲染导出文件
type Renderer struct{}

// NewRenderer 创建渲染器
func NewRenderer() *Renderer {
	return &Renderer{}
}

// Render 在内存中完整渲染项目，返回文件内容、MIME 类型与文件名
//
// 渲染全程不产生部分输出，任何失败都整体返回 RenderFailure。
func (r *Renderer) Render(ctx context.Context, project *entity.Project) ([]byte, string, string, error) {
	_, span := tracer.Start(ctx, "export.Render",
		trace.WithAttributes(
			attribute.String("project.id", project.ID),
			attribute.String("document.kind", string(project.Kind)),
		))
	defer span.End()

	switch project.Kind {
	case entity.KindDocx:
		blob, err := renderDocx(project)
		if err != nil {
			return nil, "", "", apperrors.Wrap(err, apperrors.CodeRenderFailure, "render docx failed")
		}
		return blob, MIMEDocx, fmt.Sprintf("%s.docx", project.Name), nil
	case entity.KindPptx:
		blob, err := renderPptx(project)
		if err != nil {
			return nil, "", "", apperrors.Wrap(err, apperrors.CodeRenderFailure, "render pptx failed")
		}
		return blob, MIMEPptx, fmt.Sprintf("%s.pptx", project.Name), nil
	default:
		return nil, "", "", apperrors.New(apperrors.CodeRenderFailure, fmt.Sprintf("unsupported document kind: %s", project.Kind))
	}
}

// sectionHTML 按 id 查找章节内容，找不到时按 order 回退，仍无则用占位文本
func sectionHTML(project *entity.Project, item entity.OutlineItem) string {
	entry, ok := project.Content.FindByID(item.ID, item.Order)
	if !ok || entry.Content == "" {
		return "<p>" + missingContent + "</p>"
	}
	return entry.Content
}
