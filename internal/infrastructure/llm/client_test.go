package llm

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/sandeepreddy1606/ai-document-assistance/internal/config"
	apperrors "github.com/sandeepreddy1606/ai-document-assistance/pkg/errors"
)

type fakeCompleter struct {
	responses map[string]string
	errs      map[string]error
	calls     []string
}

func (f *fakeCompleter) complete(_ context.Context, model, _ string) (string, error) {
	f.calls = append(f.calls, model)
	if err, ok := f.errs[model]; ok {
		return "", err
	}
	return f.responses[model], nil
}

func TestClient_FallbackOrder(t *testing.T) {
	fake := &fakeCompleter{
		responses: map[string]string{"model-b": "```html<p>ok</p>```"},
		errs:      map[string]error{"model-a": errors.New("quota exceeded")},
	}
	c := &Client{
		models:    []string{"model-a", "model-b", "model-c"},
		timeout:   time.Second,
		available: true,
		api:       fake,
	}

	got, err := c.Generate(context.Background(), "写一段内容")
	if err != nil {
		t.Fatalf("Generate: %v", err)
	}
	if got != "<p>ok</p>" {
		t.Errorf("got %q, want code fences stripped", got)
	}
	if len(fake.calls) != 2 || fake.calls[0] != "model-a" || fake.calls[1] != "model-b" {
		t.Errorf("calls = %v, want [model-a model-b]", fake.calls)
	}
}

func TestClient_AllCandidatesFail(t *testing.T) {
	fake := &fakeCompleter{
		errs: map[string]error{
			"model-a": errors.New("boom"),
			"model-b": errors.New("boom"),
		},
	}
	c := &Client{
		models:    []string{"model-a", "model-b"},
		timeout:   time.Second,
		available: true,
		api:       fake,
	}

	_, err := c.Generate(context.Background(), "prompt")
	if !apperrors.IsCode(err, apperrors.CodeGenerationUnavailable) {
		t.Fatalf("err = %v, want CodeGenerationUnavailable", err)
	}
}

func TestClient_PlaceholderMode(t *testing.T) {
	c := NewClient(&config.LLMConfig{
		Models:  []string{"model-a"},
		Timeout: time.Second,
	})

	if c.Available() {
		t.Fatal("client without API key should not be available")
	}
	if _, err := c.Generate(context.Background(), "prompt"); !apperrors.IsCode(err, apperrors.CodeGenerationUnavailable) {
		t.Fatalf("err = %v, want CodeGenerationUnavailable", err)
	}
}

func TestStripCodeFences(t *testing.T) {
	cases := []struct {
		in, want string
	}{
		{"```html\n<p>hi</p>\n```", "\n<p>hi</p>\n"},
		{"<p>plain</p>", "<p>plain</p>"},
		{"``````html", ""},
	}
	for _, tc := range cases {
		if got := stripCodeFences(tc.in); got != tc.want {
			t.Errorf("stripCodeFences(%q) = %q, want %q", tc.in, got, tc.want)
		}
	}
}
