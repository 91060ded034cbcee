package document

import (
	"context"
	"errors"
	"strings"
	"testing"
	"time"

	"github.com/prometheus/client_golang/prometheus/testutil"

	"github.com/sandeepreddy1606/ai-document-assistance/internal/application/export"
	"github.com/sandeepreddy1606/ai-document-assistance/internal/domain/entity"
	apperrors "github.com/sandeepreddy1606/ai-document-assistance/pkg/errors"
	"github.com/sandeepreddy1606/ai-document-assistance/pkg/metrics"
)

// fakeRepo 内存仓储，记录写入以便断言
type fakeRepo struct {
	projects map[string]*entity.Project

	updatedContent entity.ContentMap
	updatedOutline []entity.OutlineItem
	contentWrites  int
	history        []entity.HistoryEntry
}

func newFakeRepo(projects ...*entity.Project) *fakeRepo {
	r := &fakeRepo{projects: make(map[string]*entity.Project)}
	for _, p := range projects {
		r.projects[p.ID] = p
	}
	return r
}

func (r *fakeRepo) Create(_ context.Context, p *entity.Project) error {
	if p.ID == "" {
		p.ID = "generated-id"
	}
	r.projects[p.ID] = p
	return nil
}

func (r *fakeRepo) GetByID(_ context.Context, id string) (*entity.Project, error) {
	return r.projects[id], nil
}

func (r *fakeRepo) ListByOwner(_ context.Context, userID string) ([]*entity.Project, error) {
	var out []*entity.Project
	for _, p := range r.projects {
		if p.UserID == userID {
			out = append(out, p)
		}
	}
	return out, nil
}

func (r *fakeRepo) Update(_ context.Context, p *entity.Project) error {
	r.projects[p.ID] = p
	return nil
}

func (r *fakeRepo) UpdateContent(_ context.Context, id string, content entity.ContentMap, outline []entity.OutlineItem) error {
	r.updatedContent = content
	r.updatedOutline = outline
	r.contentWrites++
	if p, ok := r.projects[id]; ok {
		p.Content = content
		if outline != nil {
			p.Outline = outline
		}
	}
	return nil
}

func (r *fakeRepo) AppendHistory(_ context.Context, id string, entry entity.HistoryEntry) error {
	r.history = append(r.history, entry)
	if p, ok := r.projects[id]; ok {
		p.History = append(p.History, entry)
	}
	return nil
}

func (r *fakeRepo) Delete(_ context.Context, id string) error {
	delete(r.projects, id)
	return nil
}

// fakeGen 脚本化生成器
type fakeGen struct {
	available bool
	response  string
	err       error
	failFor   string // 提示词包含该子串时返回错误
	prompts   []string
}

func (g *fakeGen) Available() bool { return g.available }

func (g *fakeGen) Generate(_ context.Context, prompt string) (string, error) {
	g.prompts = append(g.prompts, prompt)
	if g.err != nil {
		return "", g.err
	}
	if g.failFor != "" && strings.Contains(prompt, g.failFor) {
		return "", errors.New("scripted failure")
	}
	return g.response, nil
}

func newTestService(repo *fakeRepo, gen *fakeGen) *Service {
	return NewService(repo, gen, export.NewRenderer(), nil, time.Minute)
}

func testProject() *entity.Project {
	return &entity.Project{
		ID:     "p1",
		UserID: "user-1",
		Name:   "Launch Plan",
		Kind:   entity.KindDocx,
		Topic:  "Product launch",
		Outline: []entity.OutlineItem{
			{ID: "sec_a", Title: "Intro", Order: 0},
			{ID: "sec_b", Title: "Timeline", Order: 1},
		},
		Content: entity.ContentMap{
			"sec_a": {Title: "Intro", Content: "<p>existing</p>", Order: 0},
		},
	}
}

func TestGetProject_UniformNotFound(t *testing.T) {
	repo := newFakeRepo(testProject())
	svc := newTestService(repo, &fakeGen{available: true})

	// 不存在的项目
	if _, err := svc.GetProject(context.Background(), "user-1", "missing"); !apperrors.IsCode(err, apperrors.CodeProjectNotFound) {
		t.Errorf("missing project: err = %v, want ProjectNotFound", err)
	}

	// 他人的项目，同样报 404 不泄露存在性
	if _, err := svc.GetProject(context.Background(), "intruder", "p1"); !apperrors.IsCode(err, apperrors.CodeProjectNotFound) {
		t.Errorf("foreign project: err = %v, want ProjectNotFound", err)
	}
}

func TestCreateProject_RejectsUnknownKind(t *testing.T) {
	svc := newTestService(newFakeRepo(), &fakeGen{})
	_, err := svc.CreateProject(context.Background(), "user-1", "n", "xlsx", "t", nil)
	if !apperrors.IsCode(err, apperrors.CodeInvalidParam) {
		t.Fatalf("err = %v, want InvalidParam", err)
	}
}

func TestGenerateOutline_ParsesAndOrders(t *testing.T) {
	repo := newFakeRepo(testProject())
	gen := &fakeGen{available: true, response: "* Introduction\n\n- Market Overview \nConclusion\n"}
	svc := newTestService(repo, gen)

	items, err := svc.GenerateOutline(context.Background(), "user-1", "p1")
	if err != nil {
		t.Fatalf("GenerateOutline: %v", err)
	}
	want := []string{"Introduction", "Market Overview", "Conclusion"}
	if len(items) != len(want) {
		t.Fatalf("got %d items, want %d", len(items), len(want))
	}
	for i, it := range items {
		if it.Title != want[i] || it.Order != i {
			t.Errorf("item %d = %+v, want title %q order %d", i, it, want[i], i)
		}
	}
}

func TestGenerateOutline_UnavailableReturnsEmpty(t *testing.T) {
	repo := newFakeRepo(testProject())
	svc := newTestService(repo, &fakeGen{available: false})

	items, err := svc.GenerateOutline(context.Background(), "user-1", "p1")
	if err != nil {
		t.Fatalf("GenerateOutline: %v", err)
	}
	if len(items) != 0 {
		t.Errorf("got %d items, want empty outline", len(items))
	}
}

func TestGenerateContent_FillsOnlyMissing(t *testing.T) {
	repo := newFakeRepo(testProject())
	gen := &fakeGen{available: true, response: "<p>generated</p>"}
	svc := newTestService(repo, gen)

	content, err := svc.GenerateContent(context.Background(), "user-1", "p1")
	if err != nil {
		t.Fatalf("GenerateContent: %v", err)
	}

	if content["sec_a"].Content != "<p>existing</p>" {
		t.Errorf("existing section overwritten: %q", content["sec_a"].Content)
	}
	if content["sec_b"].Content != "<p>generated</p>" {
		t.Errorf("missing section not filled: %q", content["sec_b"].Content)
	}
	if len(gen.prompts) != 1 {
		t.Errorf("generator called %d times, want 1", len(gen.prompts))
	}
	// 没有补发 ID 时不回写大纲
	if repo.updatedOutline != nil {
		t.Error("outline persisted although no ids were minted")
	}
}

func TestGenerateContent_RollingContext(t *testing.T) {
	repo := newFakeRepo(testProject())
	gen := &fakeGen{available: true, response: "<p>generated</p>"}
	svc := newTestService(repo, gen)

	if _, err := svc.GenerateContent(context.Background(), "user-1", "p1"); err != nil {
		t.Fatalf("GenerateContent: %v", err)
	}

	// 第二节的提示词应携带第一节的标题与摘要
	prompt := gen.prompts[0]
	if !strings.Contains(prompt, "Intro: existing") {
		t.Errorf("prompt missing rolling context: %s", prompt)
	}
}

func TestGenerateContent_MintsIDs(t *testing.T) {
	p := testProject()
	p.Outline = []entity.OutlineItem{
		{ID: "", Title: "First", Order: 0},
		{ID: "temp-123", Title: "Second", Order: 1},
		{ID: "sec_keep", Title: "Third", Order: 2},
	}
	p.Content = entity.ContentMap{}
	repo := newFakeRepo(p)
	svc := newTestService(repo, &fakeGen{available: true, response: "<p>x</p>"})

	if _, err := svc.GenerateContent(context.Background(), "user-1", "p1"); err != nil {
		t.Fatalf("GenerateContent: %v", err)
	}

	if repo.updatedOutline == nil {
		t.Fatal("minted outline not persisted")
	}
	if got := repo.updatedOutline[0].ID; !strings.HasPrefix(got, "item_") || !strings.HasSuffix(got, "_0") {
		t.Errorf("outline[0].ID = %q, want item_<ms>_0", got)
	}
	if got := repo.updatedOutline[1].ID; !strings.HasPrefix(got, "item_") || !strings.HasSuffix(got, "_1") {
		t.Errorf("outline[1].ID = %q, want item_<ms>_1", got)
	}
	if repo.updatedOutline[2].ID != "sec_keep" {
		t.Errorf("existing id rewritten: %q", repo.updatedOutline[2].ID)
	}

	// 内容以补发后的 ID 为键
	for _, item := range repo.updatedOutline {
		if _, ok := repo.updatedContent[item.ID]; !ok {
			t.Errorf("no content entry for id %q", item.ID)
		}
	}
}

func TestGenerateContent_TiedOrdersGetDistinctIDs(t *testing.T) {
	p := testProject()
	// order 相同是合法输入，排序保持相对顺序，补发的 ID 仍须互不相同
	p.Outline = []entity.OutlineItem{
		{ID: "", Title: "Alpha", Order: 0},
		{ID: "", Title: "Beta", Order: 0},
	}
	p.Content = entity.ContentMap{}
	repo := newFakeRepo(p)
	svc := newTestService(repo, &fakeGen{available: true, response: "<p>x</p>"})

	content, err := svc.GenerateContent(context.Background(), "user-1", "p1")
	if err != nil {
		t.Fatalf("GenerateContent: %v", err)
	}

	if repo.updatedOutline == nil {
		t.Fatal("minted outline not persisted")
	}
	a, b := repo.updatedOutline[0].ID, repo.updatedOutline[1].ID
	if a == b {
		t.Fatalf("minted ids collide: %q", a)
	}
	if len(content) != 2 {
		t.Fatalf("content entries = %d, want 2 (one per item)", len(content))
	}
	if content[a].Title != "Alpha" || content[b].Title != "Beta" {
		t.Errorf("content entries = %+v, want one per title", content)
	}
}

func TestGenerateContent_SectionFailureDoesNotAbort(t *testing.T) {
	p := testProject()
	p.Content = entity.ContentMap{}
	repo := newFakeRepo(p)
	gen := &fakeGen{available: true, response: "<p>fine</p>", failFor: `"Intro"`}
	svc := newTestService(repo, gen)

	content, err := svc.GenerateContent(context.Background(), "user-1", "p1")
	if err != nil {
		t.Fatalf("GenerateContent: %v", err)
	}

	if content["sec_a"].Content != failedContent {
		t.Errorf("failed section = %q, want failure marker", content["sec_a"].Content)
	}
	if content["sec_b"].Content != "<p>fine</p>" {
		t.Errorf("later section = %q, generation should continue", content["sec_b"].Content)
	}
}

func TestGenerateContent_CountsPerSectionOutcomes(t *testing.T) {
	p := testProject()
	p.Content = entity.ContentMap{}
	repo := newFakeRepo(p)
	gen := &fakeGen{available: true, response: "<p>fine</p>", failFor: `"Intro"`}
	svc := newTestService(repo, gen)

	successBefore := testutil.ToFloat64(metrics.GenerationTotal.WithLabelValues("content", "success"))
	failureBefore := testutil.ToFloat64(metrics.GenerationTotal.WithLabelValues("content", "failure"))

	if _, err := svc.GenerateContent(context.Background(), "user-1", "p1"); err != nil {
		t.Fatalf("GenerateContent: %v", err)
	}

	// 两个章节：Intro 失败、Timeline 成功，各计一次
	if got := testutil.ToFloat64(metrics.GenerationTotal.WithLabelValues("content", "success")) - successBefore; got != 1 {
		t.Errorf("success delta = %v, want 1", got)
	}
	if got := testutil.ToFloat64(metrics.GenerationTotal.WithLabelValues("content", "failure")) - failureBefore; got != 1 {
		t.Errorf("failure delta = %v, want 1", got)
	}
}

func TestGenerateContent_PlaceholderMode(t *testing.T) {
	p := testProject()
	p.Content = entity.ContentMap{}
	repo := newFakeRepo(p)
	svc := newTestService(repo, &fakeGen{available: false})

	content, err := svc.GenerateContent(context.Background(), "user-1", "p1")
	if err != nil {
		t.Fatalf("GenerateContent: %v", err)
	}
	if got := content["sec_a"].Content; got != "<p>Placeholder content for Intro.</p>" {
		t.Errorf("placeholder = %q", got)
	}
}

func TestRefineSection_OverwritesAndRecords(t *testing.T) {
	repo := newFakeRepo(testProject())
	gen := &fakeGen{available: true, response: "<p>refined</p>"}
	svc := newTestService(repo, gen)

	refined, err := svc.RefineSection(context.Background(), "user-1", "p1", "sec_a", "make it shorter")
	if err != nil {
		t.Fatalf("RefineSection: %v", err)
	}
	if refined != "<p>refined</p>" {
		t.Errorf("refined = %q", refined)
	}
	if repo.updatedContent["sec_a"].Content != "<p>refined</p>" {
		t.Error("content not overwritten")
	}
	if len(repo.history) != 1 {
		t.Fatalf("history entries = %d, want 1", len(repo.history))
	}
	h := repo.history[0]
	if h.Type != entity.HistoryRefinement || h.SectionID != "sec_a" || h.Value != "make it shorter" {
		t.Errorf("history entry = %+v", h)
	}
}

func TestRefineSection_MissingSection(t *testing.T) {
	svc := newTestService(newFakeRepo(testProject()), &fakeGen{available: true})
	_, err := svc.RefineSection(context.Background(), "user-1", "p1", "nope", "x")
	if !apperrors.IsCode(err, apperrors.CodeSectionNotFound) {
		t.Fatalf("err = %v, want SectionNotFound", err)
	}
}

func TestRefineSection_FailureLeavesContentUntouched(t *testing.T) {
	repo := newFakeRepo(testProject())
	gen := &fakeGen{available: true, err: errors.New("all models down")}
	svc := newTestService(repo, gen)

	_, err := svc.RefineSection(context.Background(), "user-1", "p1", "sec_a", "x")
	if err == nil {
		t.Fatal("want error on total failure")
	}
	if repo.contentWrites != 0 {
		t.Error("content written although refinement failed")
	}
	if len(repo.history) != 0 {
		t.Error("history recorded although refinement failed")
	}
	if repo.projects["p1"].Content["sec_a"].Content != "<p>existing</p>" {
		t.Error("content changed although refinement failed")
	}
}

func TestFeedbackAndComments(t *testing.T) {
	repo := newFakeRepo(testProject())
	svc := newTestService(repo, &fakeGen{})

	if err := svc.AddFeedback(context.Background(), "user-1", "p1", "sec_a", "thumbs_up"); err != nil {
		t.Fatalf("AddFeedback: %v", err)
	}
	if err := svc.AddComment(context.Background(), "user-1", "p1", "sec_a", "tighten the intro"); err != nil {
		t.Fatalf("AddComment: %v", err)
	}

	if len(repo.history) != 2 {
		t.Fatalf("history entries = %d, want 2", len(repo.history))
	}
	if repo.history[0].Type != entity.HistoryFeedback || repo.history[0].Value != "thumbs_up" {
		t.Errorf("feedback entry = %+v", repo.history[0])
	}
	if repo.history[1].Type != entity.HistoryComment || repo.history[1].Value != "tighten the intro" {
		t.Errorf("comment entry = %+v", repo.history[1])
	}
}

func TestEditSection(t *testing.T) {
	repo := newFakeRepo(testProject())
	svc := newTestService(repo, &fakeGen{})

	if err := svc.EditSection(context.Background(), "user-1", "p1", "sec_a", "<p>edited by hand</p>"); err != nil {
		t.Fatalf("EditSection: %v", err)
	}
	if repo.updatedContent["sec_a"].Content != "<p>edited by hand</p>" {
		t.Error("content not overwritten")
	}
	if len(repo.history) != 1 || repo.history[0].Type != entity.HistoryManualEdit {
		t.Errorf("history = %+v, want one manual_edit entry", repo.history)
	}

	if err := svc.EditSection(context.Background(), "user-1", "p1", "ghost", "<p>x</p>"); !apperrors.IsCode(err, apperrors.CodeSectionNotFound) {
		t.Errorf("missing section: err = %v, want SectionNotFound", err)
	}
}

func TestExport_WithoutCache(t *testing.T) {
	repo := newFakeRepo(testProject())
	svc := newTestService(repo, &fakeGen{})

	blob, mime, filename, err := svc.Export(context.Background(), "user-1", "p1")
	if err != nil {
		t.Fatalf("Export: %v", err)
	}
	if len(blob) == 0 {
		t.Error("empty blob")
	}
	if mime != export.MIMEDocx {
		t.Errorf("mime = %q", mime)
	}
	if filename != "Launch Plan.docx" {
		t.Errorf("filename = %q", filename)
	}
}

// fakeCache 记录键并直接透传 loader
type fakeCache struct {
	keys []string
	data map[string][]byte
}

func (c *fakeCache) GetOrLoadSafe(_ context.Context, key string, _ time.Duration, loader func() ([]byte, error)) ([]byte, error) {
	c.keys = append(c.keys, key)
	if c.data == nil {
		c.data = make(map[string][]byte)
	}
	if b, ok := c.data[key]; ok {
		return b, nil
	}
	b, err := loader()
	if err != nil {
		return nil, err
	}
	c.data[key] = b
	return b, nil
}

func TestExport_CacheKeyTracksUpdatedAt(t *testing.T) {
	p := testProject()
	p.UpdatedAt = time.Date(2026, 3, 1, 10, 0, 0, 0, time.UTC)
	repo := newFakeRepo(p)
	cache := &fakeCache{}
	svc := NewService(repo, &fakeGen{}, export.NewRenderer(), cache, time.Minute)

	if _, _, _, err := svc.Export(context.Background(), "user-1", "p1"); err != nil {
		t.Fatalf("Export: %v", err)
	}

	// 项目更新后键应变化，旧缓存自然失效
	p.UpdatedAt = p.UpdatedAt.Add(time.Hour)
	if _, _, _, err := svc.Export(context.Background(), "user-1", "p1"); err != nil {
		t.Fatalf("Export after update: %v", err)
	}

	if len(cache.keys) != 2 || cache.keys[0] == cache.keys[1] {
		t.Errorf("cache keys = %v, want distinct keys per updated_at", cache.keys)
	}

	// 缓存命中时仍能给出 MIME 与文件名
	_, mime, filename, err := svc.Export(context.Background(), "user-1", "p1")
	if err != nil {
		t.Fatalf("Export cache hit: %v", err)
	}
	if mime != export.MIMEDocx || filename != "Launch Plan.docx" {
		t.Errorf("cache hit metadata = %q %q", mime, filename)
	}
}
