package export

import (
	"archive/zip"
	"bytes"
	"context"
	"io"
	"strings"
	"testing"

	"github.com/sandeepreddy1606/ai-document-assistance/internal/domain/entity"
	apperrors "github.com/sandeepreddy1606/ai-document-assistance/pkg/errors"
)

func sampleProject(kind entity.DocumentKind) *entity.Project {
	return &entity.Project{
		ID:    "11111111-1111-1111-1111-111111111111",
		Name:  "Quarterly Review",
		Kind:  kind,
		Topic: "Q3 engineering results",
		Outline: []entity.OutlineItem{
			{ID: "item_1", Title: "Summary", Order: 0},
			{ID: "item_2", Title: "Details", Order: 1},
		},
		Content: entity.ContentMap{
			"item_1": {
				Title:   "Summary",
				Content: `<p>We shipped <strong>three</strong> releases.</p><ul><li>alpha</li><li>beta</li></ul>`,
				Order:   0,
			},
		},
	}
}

func readPart(t *testing.T, blob []byte, name string) string {
	t.Helper()
	zr, err := zip.NewReader(bytes.NewReader(blob), int64(len(blob)))
	if err != nil {
		t.Fatalf("open package: %v", err)
	}
	for _, f := range zr.File {
		if f.Name != name {
			continue
		}
		rc, err := f.Open()
		if err != nil {
			t.Fatalf("open part %s: %v", name, err)
		}
		defer rc.Close()
		data, err := io.ReadAll(rc)
		if err != nil {
			t.Fatalf("read part %s: %v", name, err)
		}
		return string(data)
	}
	t.Fatalf("part %s not found in package", name)
	return ""
}

func TestRender_Docx(t *testing.T) {
	r := NewRenderer()
	blob, mime, filename, err := r.Render(context.Background(), sampleProject(entity.KindDocx))
	if err != nil {
		t.Fatalf("Render: %v", err)
	}
	if mime != MIMEDocx {
		t.Errorf("mime = %q", mime)
	}
	if filename != "Quarterly Review.docx" {
		t.Errorf("filename = %q", filename)
	}

	doc := readPart(t, blob, "word/document.xml")

	for _, want := range []string{
		`<w:pStyle w:val="Title"/>`,
		"Q3 engineering results",
		`<w:pStyle w:val="Heading1"/>`,
		"Summary",
		"Details",
		`<w:rPr><w:b/></w:rPr>`,
		`<w:pStyle w:val="ListBullet"/>`,
		"alpha",
	} {
		if !strings.Contains(doc, want) {
			t.Errorf("document.xml missing %q", want)
		}
	}

	// 第二节没有内容，应渲染占位文本
	if !strings.Contains(doc, missingContent) {
		t.Errorf("document.xml missing placeholder for empty section")
	}

	// 样式与编号部件必须存在
	readPart(t, blob, "word/styles.xml")
	readPart(t, blob, "word/numbering.xml")
}

func TestRender_DocxContentFallbackByOrder(t *testing.T) {
	p := sampleProject(entity.KindDocx)
	// 内容键与大纲 id 不一致，只能靠 order 匹配
	p.Content = entity.ContentMap{
		"legacy_key": {Title: "Details", Content: "<p>found by order</p>", Order: 1},
	}

	blob, _, _, err := NewRenderer().Render(context.Background(), p)
	if err != nil {
		t.Fatalf("Render: %v", err)
	}
	doc := readPart(t, blob, "word/document.xml")
	if !strings.Contains(doc, "found by order") {
		t.Error("content matched by order not rendered")
	}
}

func TestRender_Pptx(t *testing.T) {
	r := NewRenderer()
	blob, mime, filename, err := r.Render(context.Background(), sampleProject(entity.KindPptx))
	if err != nil {
		t.Fatalf("Render: %v", err)
	}
	if mime != MIMEPptx {
		t.Errorf("mime = %q", mime)
	}
	if filename != "Quarterly Review.pptx" {
		t.Errorf("filename = %q", filename)
	}

	// 标题页：项目名加主题
	title := readPart(t, blob, "ppt/slides/slide1.xml")
	if !strings.Contains(title, "Quarterly Review") || !strings.Contains(title, "Q3 engineering results") {
		t.Error("title slide missing name or topic")
	}

	// 每个章节一页，正文为纯文本
	slide2 := readPart(t, blob, "ppt/slides/slide2.xml")
	if !strings.Contains(slide2, "Summary") {
		t.Error("slide 2 missing section title")
	}
	if !strings.Contains(slide2, "We shipped three releases.") {
		t.Errorf("slide 2 body not flattened: %s", slide2)
	}
	if strings.Contains(slide2, "<strong>") {
		t.Error("slide body must not contain raw HTML")
	}

	slide3 := readPart(t, blob, "ppt/slides/slide3.xml")
	if !strings.Contains(slide3, missingContent) {
		t.Error("slide 3 missing placeholder for empty section")
	}

	// 演示文稿必须引用全部三页
	pres := readPart(t, blob, "ppt/presentation.xml")
	if got := strings.Count(pres, "<p:sldId "); got != 3 {
		t.Errorf("presentation references %d slides, want 3", got)
	}
}

func TestRender_EscapesMarkup(t *testing.T) {
	p := sampleProject(entity.KindDocx)
	p.Topic = `Launch <Plan> & "Review"`

	blob, _, _, err := NewRenderer().Render(context.Background(), p)
	if err != nil {
		t.Fatalf("Render: %v", err)
	}
	doc := readPart(t, blob, "word/document.xml")
	if !strings.Contains(doc, "Launch &lt;Plan&gt; &amp;") {
		t.Error("topic not XML-escaped")
	}
}

func TestRender_UnsupportedKind(t *testing.T) {
	p := sampleProject("xlsx")
	_, _, _, err := NewRenderer().Render(context.Background(), p)
	if !apperrors.IsCode(err, apperrors.CodeRenderFailure) {
		t.Fatalf("err = %v, want CodeRenderFailure", err)
	}
}
