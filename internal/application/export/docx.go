package export

import (
	"archive/zip"
	"bytes"
	"encoding/xml"
	"fmt"
	"strings"

	"github.com/sandeepreddy1606/ai-document-assistance/internal/application/document/htmltext"
	"github.com/sandeepreddy1606/ai-document-assistance/internal/domain/entity"
)

const docxContentTypes = `<?xml version="1.0" encoding="UTF-8" standalone="yes"?>
<Types xmlns="http://schemas.openxmlformats.org/package/2006/content-types"><Default Extension="rels" ContentType="application/vnd.openxmlformats-package.relationships+xml"/><Default Extension="xml" ContentType="application/xml"/><Override PartName="/word/document.xml" ContentType="application/vnd.openxmlformats-officedocument.wordprocessingml.document.main+xml"/><Override PartName="/word/styles.xml" ContentType="application/vnd.openxmlformats-officedocument.wordprocessingml.styles+xml"/><Override PartName="/word/numbering.xml" ContentType="application/vnd.openxmlformats-officedocument.wordprocessingml.numbering+xml"/></Types>`

const docxRootRels = `<?xml version="1.0" encoding="UTF-8" standalone="yes"?>
<Relationships xmlns="http://schemas.openxmlformats.org/package/2006/relationships"><Relationship Id="rId1" Type="http://schemas.openxmlformats.org/officeDocument/2006/relationships/officeDocument" Target="word/document.xml"/></Relationships>`

const docxDocumentRels = `<?xml version="1.0" encoding="UTF-8" standalone="yes"?>
<Relationships xmlns="http://schemas.openxmlformats.org/package/2006/relationships"><Relationship Id="rId1" Type="http://schemas.openxmlformats.org/officeDocument/2006/relationships/styles" Target="styles.xml"/><Relationship Id="rId2" Type="http://schemas.openxmlformats.org/officeDocument/2006/relationships/numbering" Target="numbering.xml"/></Relationships>`

const docxStyles = `<?xml version="1.0" encoding="UTF-8" standalone="yes"?>
<w:styles xmlns:w="http://schemas.openxmlformats.org/wordprocessingml/2006/main"><w:style w:type="paragraph" w:styleId="Title"><w:name w:val="Title"/><w:rPr><w:b/><w:sz w:val="56"/></w:rPr></w:style><w:style w:type="paragraph" w:styleId="Heading1"><w:name w:val="heading 1"/><w:rPr><w:b/><w:sz w:val="32"/></w:rPr></w:style><w:style w:type="paragraph" w:styleId="ListBullet"><w:name w:val="List Bullet"/><w:pPr><w:numPr><w:ilvl w:val="0"/><w:numId w:val="1"/></w:numPr></w:pPr></w:style></w:styles>`

const docxNumbering = `<?xml version="1.0" encoding="UTF-8" standalone="yes"?>
<w:numbering xmlns:w="http://schemas.openxmlformats.org/wordprocessingml/2006/main"><w:abstractNum w:abstractNumId="0"><w:lvl w:ilvl="0"><w:numFmt w:val="bullet"/><w:lvlText w:val="&#8226;"/><w:pPr><w:ind w:left="720" w:hanging="360"/></w:pPr></w:lvl></w:abstractNum><w:num w:numId="1"><w:abstractNumId w:val="0"/></w:num></w:numbering>`

// renderDocx 生成 Word 文档：主题作为标题，每个章节一个一级标题加正文
func renderDocx(project *entity.Project) ([]byte, error) {
	var body strings.Builder

	topic := project.Topic
	if topic == "" {
		topic = "Document"
	}
	writeDocxStyledParagraph(&body, "Title", topic)

	for _, item := range project.SortedOutline() {
		title := item.Title
		if title == "" {
			title = "Untitled"
		}
		writeDocxStyledParagraph(&body, "Heading1", title)

		for _, block := range htmltext.Parse(sectionHTML(project, item)) {
			writeDocxBlock(&body, block)
		}
	}

	document := `<?xml version="1.0" encoding="UTF-8" standalone="yes"?>` + "\n" +
		`<w:document xmlns:w="http://schemas.openxmlformats.org/wordprocessingml/2006/main"><w:body>` +
		body.String() +
		`<w:sectPr><w:pgSz w:w="11906" w:h="16838"/></w:sectPr></w:body></w:document>`

	return writePackage(map[string]string{
		"[Content_Types].xml":          docxContentTypes,
		"_rels/.rels":                  docxRootRels,
		"word/document.xml":            document,
		"word/_rels/document.xml.rels": docxDocumentRels,
		"word/styles.xml":              docxStyles,
		"word/numbering.xml":           docxNumbering,
	})
}

// writeDocxStyledParagraph 写入带段落样式的单文本段落
func writeDocxStyledParagraph(sb *strings.Builder, style, text string) {
	sb.WriteString(`<w:p><w:pPr><w:pStyle w:val="`)
	sb.WriteString(style)
	sb.WriteString(`"/></w:pPr><w:r><w:t xml:space="preserve">`)
	sb.WriteString(escapeXML(text))
	sb.WriteString(`</w:t></w:r></w:p>`)
}

// writeDocxBlock 写入一个正文块，保留加粗与项目符号样式
func writeDocxBlock(sb *strings.Builder, block htmltext.Block) {
	sb.WriteString(`<w:p>`)
	if block.Kind == htmltext.BlockBullet {
		sb.WriteString(`<w:pPr><w:pStyle w:val="ListBullet"/></w:pPr>`)
	}
	for _, run := range block.Runs {
		sb.WriteString(`<w:r>`)
		if run.Bold {
			sb.WriteString(`<w:rPr><w:b/></w:rPr>`)
		}
		sb.WriteString(`<w:t xml:space="preserve">`)
		sb.WriteString(escapeXML(run.Text))
		sb.WriteString(`</w:t></w:r>`)
	}
	sb.WriteString(`</w:p>`)
}

// writePackage 将各部件打包为单个 OPC zip
func writePackage(parts map[string]string) ([]byte, error) {
	buf := &bytes.Buffer{}
	zw := zip.NewWriter(buf)

	for name, content := range parts {
		w, err := zw.Create(name)
		if err != nil {
			return nil, fmt.Errorf("create part %s: %w", name, err)
		}
		if _, err := w.Write([]byte(content)); err != nil {
			return nil, fmt.Errorf("write part %s: %w", name, err)
		}
	}

	if err := zw.Close(); err != nil {
		return nil, fmt.Errorf("close package: %w", err)
	}
	return buf.Bytes(), nil
}

// escapeXML 转义文本节点中的特殊字符
func escapeXML(s string) string {
	var sb strings.Builder
	if err := xml.EscapeText(&sb, []byte(s)); err != nil {
		return ""
	}
	return sb.String()
}
