// Package document 实现项目大纲、章节内容的生成与维护流程
package document

import "context"

// Generator 文本生成端口
//
// Available 为 false 时表示占位模式，调用方按各自语义降级，
// 不应再调用 Generate。
type Generator interface {
	Generate(ctx context.Context, prompt string) (string, error)
	Available() bool
}
