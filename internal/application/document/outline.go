package document

import (
	"strings"

	"github.com/sandeepreddy1606/ai-document-assistance/internal/domain/entity"
)

// parseOutline 将模型的逐行输出解析为大纲条目
//
// 去掉空行与常见的列表前缀符号，order 取行序。
func parseOutline(raw string) []entity.OutlineItem {
	items := make([]entity.OutlineItem, 0)
	for _, line := range strings.Split(raw, "\n") {
		title := strings.TrimSpace(line)
		title = strings.ReplaceAll(title, "*", "")
		title = strings.ReplaceAll(title, "-", "")
		title = strings.TrimSpace(title)
		if title == "" {
			continue
		}
		items = append(items, entity.OutlineItem{
			Title: title,
			Order: len(items),
		})
	}
	return items
}
