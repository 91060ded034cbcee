// Package htmltext 将模型生成的 HTML 片段解析为排版中间结构
//
// 生成内容只使用 <p>、<ul>/<li>、<strong>/<b> 等少量标签，
// 这里解析为段落与项目符号块，供导出渲染与上下文摘要复用。
package htmltext

import (
	"strings"

	"golang.org/x/net/html"
)

// BlockKind 块类型
type BlockKind int

const (
	// BlockParagraph 普通段落
	BlockParagraph BlockKind = iota
	// BlockBullet 项目符号条目
	BlockBullet
)

// Run 同一样式的连续文本
type Run struct {
	Text string
	Bold bool
}

// Block 一个排版块，由若干文本片段组成
type Block struct {
	Kind BlockKind
	Runs []Run
}

// Text 块的纯文本内容
func (b Block) Text() string {
	var sb strings.Builder
	for _, r := range b.Runs {
		sb.WriteString(r.Text)
	}
	return strings.TrimSpace(sb.String())
}

// Parse 将 HTML 片段解析为排版块序列
//
// <p> 划分段落，<li> 生成项目符号块，<strong>/<b> 标记加粗，
// 未识别的标签保留其文本内容。完全没有块级标签时整段文本视为一个段落。
func Parse(fragment string) []Block {
	doc, err := html.Parse(strings.NewReader(fragment))
	if err != nil {
		// html.Parse 对任意输入都会尽力构树，出错时退化为单段落
		return []Block{{Kind: BlockParagraph, Runs: []Run{{Text: strings.TrimSpace(fragment)}}}}
	}

	p := &parser{}
	p.walk(doc, 0)
	p.flush(BlockParagraph)

	return p.blocks
}

// Flatten 提取纯文本，块之间以换行分隔
func Flatten(fragment string) string {
	blocks := Parse(fragment)
	parts := make([]string, 0, len(blocks))
	for _, b := range blocks {
		if text := b.Text(); text != "" {
			parts = append(parts, text)
		}
	}
	return strings.Join(parts, "\n")
}

// Excerpt 提取纯文本并按字符数截断，用于滚动上下文摘要
func Excerpt(fragment string, limit int) string {
	text := strings.ReplaceAll(Flatten(fragment), "\n", " ")
	runes := []rune(text)
	if len(runes) <= limit {
		return text
	}
	return string(runes[:limit]) + "..."
}

type parser struct {
	blocks []Block
	runs   []Run
}

// flush 结束当前块
func (p *parser) flush(kind BlockKind) {
	if len(p.runs) == 0 {
		return
	}
	b := Block{Kind: kind, Runs: p.runs}
	p.runs = nil
	if b.Text() == "" {
		return
	}
	p.blocks = append(p.blocks, b)
}

func (p *parser) walk(n *html.Node, boldDepth int) {
	switch n.Type {
	case html.TextNode:
		text := collapseSpace(n.Data)
		if strings.TrimSpace(text) != "" {
			p.runs = append(p.runs, Run{Text: text, Bold: boldDepth > 0})
		}
		return
	case html.ElementNode:
		switch n.Data {
		case "script", "style":
			return
		case "p", "div", "h1", "h2", "h3", "h4", "h5", "h6":
			p.flush(BlockParagraph)
			p.walkChildren(n, boldDepth)
			p.flush(BlockParagraph)
			return
		case "li":
			p.flush(BlockParagraph)
			p.walkChildren(n, boldDepth)
			p.flush(BlockBullet)
			return
		case "strong", "b":
			p.walkChildren(n, boldDepth+1)
			return
		case "br":
			return
		}
	}

	p.walkChildren(n, boldDepth)
}

func (p *parser) walkChildren(n *html.Node, boldDepth int) {
	for c := n.FirstChild; c != nil; c = c.NextSibling {
		p.walk(c, boldDepth)
	}
}

// collapseSpace 压缩连续空白为单个空格，保留首尾各一个空格的边界信息
func collapseSpace(s string) string {
	collapsed := strings.Join(strings.Fields(s), " ")
	if collapsed == "" {
		return ""
	}
	if strings.HasPrefix(s, " ") || strings.HasPrefix(s, "\n") || strings.HasPrefix(s, "\t") {
		collapsed = " " + collapsed
	}
	if strings.HasSuffix(s, " ") || strings.HasSuffix(s, "\n") || strings.HasSuffix(s, "\t") {
		collapsed = collapsed + " "
	}
	return collapsed
}
