// Package entity 定义领域实体
package entity

import (
	"sort"
	"time"
)

// DocumentKind 文档类型，创建后不可变更
type DocumentKind string

const (
	KindDocx DocumentKind = "docx"
	KindPptx DocumentKind = "pptx"
)

// Valid 判断文档类型是否合法
func (k DocumentKind) Valid() bool {
	return k == KindDocx || k == KindPptx
}

// OutlineItem 大纲条目（文档章节或幻灯片）
// ID 在生成内容前可能为空或临时占位值，首次处理时补齐
type OutlineItem struct {
	ID    string `json:"id,omitempty"`
	Title string `json:"title"`
	Order int    `json:"order"`
}

// ContentEntry 单个章节的生成内容，Content 为受限 HTML 子集
type ContentEntry struct {
	Title   string `json:"title"`
	Content string `json:"content"`
	Order   int    `json:"order"`
}

// ContentMap 以大纲条目 ID 为键的内容集合
type ContentMap map[string]ContentEntry

// FindByID 按 ID 查找内容，找不到时回退按 order 匹配（兼容无 ID 的旧数据）
func (m ContentMap) FindByID(id string, order int) (ContentEntry, bool) {
	if e, ok := m[id]; ok {
		return e, true
	}
	for _, e := range m {
		if e.Order == order {
			return e, true
		}
	}
	return ContentEntry{}, false
}

// HistoryType 历史记录类型
type HistoryType string

const (
	HistoryFeedback   HistoryType = "feedback"
	HistoryComment    HistoryType = "comment"
	HistoryRefinement HistoryType = "refinement"
	HistoryManualEdit HistoryType = "manual_edit"
)

// HistoryEntry 仅追加的审计记录，写入后不再修改
type HistoryEntry struct {
	Type      HistoryType `json:"type"`
	SectionID string      `json:"section_id"`
	Value     string      `json:"value"`
	Timestamp time.Time   `json:"timestamp"`
}

// Project 文档项目实体，整份文档状态存储为单行
type Project struct {
	ID        string         `json:"id" gorm:"type:uuid;primaryKey;default:gen_random_uuid()"`
	UserID    string         `json:"user_id" gorm:"type:varchar(128);index;not null"`
	Name      string         `json:"name" gorm:"type:varchar(255);not null"`
	Kind      DocumentKind   `json:"kind" gorm:"type:varchar(10);not null"`
	Topic     string         `json:"topic" gorm:"type:text"`
	Outline   []OutlineItem  `json:"outline" gorm:"type:jsonb;serializer:json"`
	Content   ContentMap     `json:"content" gorm:"type:jsonb;serializer:json"`
	History   []HistoryEntry `json:"history" gorm:"type:jsonb;serializer:json"`
	CreatedAt time.Time      `json:"created_at" gorm:"autoCreateTime"`
	UpdatedAt time.Time      `json:"updated_at" gorm:"autoUpdateTime"`
}

// TableName 指定表名
func (Project) TableName() string {
	return "projects"
}

// NewProject 创建新项目（内容与历史为空）
func NewProject(userID, name string, kind DocumentKind, topic string, outline []OutlineItem) *Project {
	now := time.Now()
	if outline == nil {
		outline = []OutlineItem{}
	}
	return &Project{
		UserID:    userID,
		Name:      name,
		Kind:      kind,
		Topic:     topic,
		Outline:   outline,
		Content:   ContentMap{},
		History:   []HistoryEntry{},
		CreatedAt: now,
		UpdatedAt: now,
	}
}

// SortedOutline 返回按 order 升序的大纲副本；order 相等时保持原有相对顺序
func (p *Project) SortedOutline() []OutlineItem {
	items := make([]OutlineItem, len(p.Outline))
	copy(items, p.Outline)
	sort.SliceStable(items, func(i, j int) bool {
		return items[i].Order < items[j].Order
	})
	return items
}

// OwnedBy 判断项目是否属于指定用户
func (p *Project) OwnedBy(userID string) bool {
	return p.UserID == userID
}
