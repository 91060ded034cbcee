package htmltext

import (
	"strings"
	"testing"
)

func TestParse_ParagraphsAndBullets(t *testing.T) {
	fragment := `<p>Intro text with <strong>key point</strong> inline.</p><ul><li>First</li><li>Second</li></ul><p>Closing.</p>`

	blocks := Parse(fragment)
	if len(blocks) != 4 {
		t.Fatalf("got %d blocks, want 4: %+v", len(blocks), blocks)
	}

	if blocks[0].Kind != BlockParagraph {
		t.Errorf("block 0 kind = %v, want paragraph", blocks[0].Kind)
	}
	if got := blocks[0].Text(); got != "Intro text with key point inline." {
		t.Errorf("block 0 text = %q", got)
	}

	var boldRun *Run
	for i := range blocks[0].Runs {
		if blocks[0].Runs[i].Bold {
			boldRun = &blocks[0].Runs[i]
		}
	}
	if boldRun == nil || strings.TrimSpace(boldRun.Text) != "key point" {
		t.Errorf("bold run = %+v, want 'key point'", boldRun)
	}

	if blocks[1].Kind != BlockBullet || blocks[1].Text() != "First" {
		t.Errorf("block 1 = %+v, want bullet 'First'", blocks[1])
	}
	if blocks[2].Kind != BlockBullet || blocks[2].Text() != "Second" {
		t.Errorf("block 2 = %+v, want bullet 'Second'", blocks[2])
	}
	if blocks[3].Kind != BlockParagraph || blocks[3].Text() != "Closing." {
		t.Errorf("block 3 = %+v, want paragraph 'Closing.'", blocks[3])
	}
}

func TestParse_PlainTextBecomesSingleParagraph(t *testing.T) {
	blocks := Parse("Just a bare string without markup")
	if len(blocks) != 1 {
		t.Fatalf("got %d blocks, want 1", len(blocks))
	}
	if blocks[0].Kind != BlockParagraph || blocks[0].Text() != "Just a bare string without markup" {
		t.Errorf("block = %+v", blocks[0])
	}
}

func TestParse_UnknownTagsTransparent(t *testing.T) {
	blocks := Parse(`<p>Hello <em>emphasized</em> <span>world</span></p>`)
	if len(blocks) != 1 {
		t.Fatalf("got %d blocks, want 1", len(blocks))
	}
	if got := blocks[0].Text(); got != "Hello emphasized world" {
		t.Errorf("text = %q", got)
	}
}

func TestParse_SkipsEmptyBlocks(t *testing.T) {
	blocks := Parse(`<p>  </p><p>Real content</p><ul><li></li></ul>`)
	if len(blocks) != 1 {
		t.Fatalf("got %d blocks, want 1: %+v", len(blocks), blocks)
	}
	if blocks[0].Text() != "Real content" {
		t.Errorf("text = %q", blocks[0].Text())
	}
}

func TestFlatten(t *testing.T) {
	fragment := `<p>Overview</p><ul><li>alpha</li><li>beta</li></ul>`
	got := Flatten(fragment)
	want := "Overview\nalpha\nbeta"
	if got != want {
		t.Errorf("Flatten = %q, want %q", got, want)
	}
}

func TestExcerpt_Truncation(t *testing.T) {
	long := "<p>" + strings.Repeat("字", 200) + "</p>"
	got := Excerpt(long, 150)
	if gotRunes := []rune(strings.TrimSuffix(got, "...")); len(gotRunes) != 150 {
		t.Errorf("excerpt length = %d runes, want 150", len(gotRunes))
	}
	if !strings.HasSuffix(got, "...") {
		t.Errorf("excerpt %q missing ellipsis", got)
	}

	short := "<p>brief</p>"
	if got := Excerpt(short, 150); got != "brief" {
		t.Errorf("Excerpt(short) = %q, want 'brief'", got)
	}
}
