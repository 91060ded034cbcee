package document

import (
	"fmt"

	"github.com/sandeepreddy1606/ai-document-assistance/internal/domain/entity"
)

// buildOutlinePrompt 构建大纲生成提示词
//
// 模型被要求只输出标题、每行一个，主题中显式给出数量时以其为准。
func buildOutlinePrompt(topic string, kind entity.DocumentKind) string {
	if kind == entity.KindPptx {
		return fmt.Sprintf(
			"Generate an 8-12 slide outline for a presentation about '%s'.\n"+
				"If the topic explicitly requests a specific number of slides, honor that number instead.\n"+
				"Return ONLY titles, one per line.",
			topic,
		)
	}
	return fmt.Sprintf(
		"Generate a 5-10 section outline for a document about '%s'.\n"+
			"If the topic explicitly requests a specific number of sections, honor that number instead.\n"+
			"Return ONLY titles, one per line.",
		topic,
	)
}

// buildContentPrompt 构建章节内容提示词，携带此前章节的滚动上下文
func buildContentPrompt(topic, sectionTitle string, kind entity.DocumentKind, rollingContext string) string {
	if kind == entity.KindPptx {
		if rollingContext == "" {
			rollingContext = "Start"
		}
		return fmt.Sprintf(
			"Act as a presentation expert. Write content for a slide titled \"%s\" for a deck about \"%s\".\n\n"+
				"Context: %s\n\n"+
				"STRICT OUTPUT RULES:\n"+
				"1. Use HTML tags (<p>, <ul>, <li>).\n"+
				"2. Use bullet points.\n"+
				"3. Max 100 words.\n"+
				"4. Do NOT include the title.",
			sectionTitle, topic, rollingContext,
		)
	}

	if rollingContext == "" {
		rollingContext = "Start of document"
	}
	return fmt.Sprintf(
		"Act as a professional technical writer. Write a comprehensive section titled \"%s\" for a document about \"%s\".\n\n"+
			"Context: %s\n\n"+
			"STRICT OUTPUT RULES:\n"+
			"1. Use HTML tags for formatting (<p>, <ul>, <li>).\n"+
			"2. Do NOT use Markdown.\n"+
			"3. Length: 300 words.\n"+
			"4. Do NOT include the title.",
		sectionTitle, topic, rollingContext,
	)
}

// buildRefinePrompt 构建内容润色提示词
func buildRefinePrompt(current, instruction string) string {
	return fmt.Sprintf(
		"Refine this text (HTML format): %s\n"+
			"Instruction: %s\n\n"+
			"IMPORTANT: Return valid HTML (<p>, <ul>, <li>).",
		current, instruction,
	)
}
