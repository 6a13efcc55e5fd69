package content

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/dmitrijs2005/gophpress/internal/logging"
)

func testSite() Site {
	return Site{Host: "example.com", Title: "Example"}
}

func TestAPIFormatter_Success(t *testing.T) {
	var gotAuth, gotModel string
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotAuth = r.Header.Get("Authorization")
		var req chatRequest
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			t.Errorf("decode request: %v", err)
		}
		gotModel = req.Model
		_ = json.NewEncoder(w).Encode(map[string]any{
			"choices": []map[string]any{
				{"message": map[string]any{"role": "assistant", "content": "  <h2>Done</h2>  "}},
			},
		})
	}))
	defer srv.Close()

	f := NewAPIFormatter(srv.URL, "test-model", "sk-test", time.Second, logging.Discard())
	got := f.Generate(context.Background(), testSite(), "Title", "body", nil)

	if got != "<h2>Done</h2>" {
		t.Fatalf("unexpected fragment: %q", got)
	}
	if gotAuth != "Bearer sk-test" {
		t.Fatalf("unexpected auth header: %q", gotAuth)
	}
	if gotModel != "test-model" {
		t.Fatalf("unexpected model: %q", gotModel)
	}
}

func TestAPIFormatter_FallsBack(t *testing.T) {
	tests := []struct {
		name    string
		handler http.HandlerFunc
	}{
		{"server error", func(w http.ResponseWriter, r *http.Request) {
			http.Error(w, "overloaded", http.StatusInternalServerError)
		}},
		{"bad json", func(w http.ResponseWriter, r *http.Request) {
			_, _ = w.Write([]byte("{not json"))
		}},
		{"empty choices", func(w http.ResponseWriter, r *http.Request) {
			_, _ = w.Write([]byte(`{"choices":[]}`))
		}},
		{"blank content", func(w http.ResponseWriter, r *http.Request) {
			_, _ = w.Write([]byte(`{"choices":[{"message":{"content":"   "}}]}`))
		}},
	}

	content := "first paragraph\n\nsecond paragraph"
	images := []string{"https://cdn.example.com/a.png"}
	want := FallbackHTML(content, images)

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			srv := httptest.NewServer(tc.handler)
			defer srv.Close()

			f := NewAPIFormatter(srv.URL, "m", "", time.Second, logging.Discard())
			got := f.Generate(context.Background(), testSite(), "Title", content, images)
			if got != want {
				t.Fatalf("expected fallback rendering, got %q", got)
			}
		})
	}
}

func TestAPIFormatter_NoEndpointConfigured(t *testing.T) {
	f := NewAPIFormatter("", "", "", 0, logging.Discard())
	got := f.Generate(context.Background(), testSite(), "Title", "hello", nil)
	if got != "<p>hello</p>" {
		t.Fatalf("unexpected fragment: %q", got)
	}
}

func TestFallbackHTML(t *testing.T) {
	got := FallbackHTML("a <script> tag\n\n\n\nsecond", []string{`https://x/y.png?a=1&b=2`})

	if !strings.Contains(got, `<img src="https://x/y.png?a=1&amp;b=2" alt="">`) {
		t.Fatalf("image not rendered/escaped: %q", got)
	}
	if !strings.Contains(got, "<p>a &lt;script&gt; tag</p>") {
		t.Fatalf("content not escaped: %q", got)
	}
	if !strings.Contains(got, "<p>second</p>") {
		t.Fatalf("second paragraph missing: %q", got)
	}
	if strings.Contains(got, "<p></p>") {
		t.Fatalf("empty paragraph rendered: %q", got)
	}
}
