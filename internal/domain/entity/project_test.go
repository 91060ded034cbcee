package entity

import "testing"

func TestDocumentKind_Valid(t *testing.T) {
	if !KindDocx.Valid() || !KindPptx.Valid() {
		t.Error("docx and pptx must be valid kinds")
	}
	if DocumentKind("xlsx").Valid() {
		t.Error("xlsx must not be a valid kind")
	}
}

func TestContentMap_FindByID(t *testing.T) {
	m := ContentMap{
		"item_a": {Title: "A", Content: "<p>a</p>", Order: 0},
		"legacy": {Title: "B", Content: "<p>b</p>", Order: 1},
	}

	if e, ok := m.FindByID("item_a", 0); !ok || e.Content != "<p>a</p>" {
		t.Errorf("direct lookup = %+v %v", e, ok)
	}

	// ID 不匹配时按 order 回退
	if e, ok := m.FindByID("item_b", 1); !ok || e.Content != "<p>b</p>" {
		t.Errorf("order fallback = %+v %v", e, ok)
	}

	if _, ok := m.FindByID("ghost", 9); ok {
		t.Error("lookup with unknown id and order must fail")
	}
}

func TestProject_SortedOutline(t *testing.T) {
	p := &Project{
		Outline: []OutlineItem{
			{ID: "c", Title: "third", Order: 2},
			{ID: "a", Title: "first", Order: 0},
			{ID: "b", Title: "second", Order: 1},
		},
	}

	sorted := p.SortedOutline()
	for i, want := range []string{"a", "b", "c"} {
		if sorted[i].ID != want {
			t.Errorf("sorted[%d].ID = %q, want %q", i, sorted[i].ID, want)
		}
	}

	// 原切片保持不变
	if p.Outline[0].ID != "c" {
		t.Error("SortedOutline must not mutate the original outline")
	}
}

func TestNewProject_Defaults(t *testing.T) {
	p := NewProject("u1", "name", KindDocx, "topic", nil)
	if p.Outline == nil || p.Content == nil || p.History == nil {
		t.Error("collections must be initialized empty, not nil")
	}
	if !p.OwnedBy("u1") || p.OwnedBy("u2") {
		t.Error("ownership check failed")
	}
}
