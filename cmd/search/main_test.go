package main

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"regexp"
	"strings"
	"sync"
	"sync/atomic"
	"testing"

	"github.com/stretchr/testify/mock"

	"talent-search/internal/app"
	"talent-search/internal/cache"
	"talent-search/internal/config"
	"talent-search/internal/embeddings"
	"talent-search/internal/employee"
	"talent-search/internal/index"
	"talent-search/internal/policy"
	"talent-search/internal/search"
)

func newTestDeps(svc *search.Service, c cache.Cache) app.Deps {
	if c == nil {
		c = cache.NewNoOpCache()
	}
	return app.Deps{
		Config: config.Config{TopK: 5, CacheTTL: 60},
		Log:    slog.New(slog.NewTextHandler(io.Discard, nil)),
		Cache:  c,
		Search: svc,
	}
}

func newService(embedder embeddings.Embedder, pol policy.ContentPolicy, build index.BuildFunc) *search.Service {
	log := slog.New(slog.NewTextHandler(io.Discard, nil))
	return search.NewService(embedder, pol, index.NewLazy(build), log)
}

func allowAll() policy.ContentPolicy {
	p := new(policy.MockPolicy)
	p.On("Check", mock.Anything, mock.Anything).Return(true, nil)
	return p
}

func emptyIndex() index.BuildFunc {
	return func(ctx context.Context) (*index.Index, error) {
		return index.Build(ctx, nil, nil)
	}
}

func postSearch(t *testing.T, handler http.HandlerFunc, body string) *httptest.ResponseRecorder {
	t.Helper()
	req := httptest.NewRequest(http.MethodPost, "/api/search", bytes.NewBufferString(body))
	req.Header.Set("Content-Type", "application/json")
	rec := httptest.NewRecorder()
	handler(rec, req)
	return rec
}

func TestSearchHandler(t *testing.T) {
	tests := []struct {
		name           string
		requestBody    string
		service        func() *search.Service
		wantStatusCode int
		wantBodyPart   string
	}{
		{
			name:        "missing query returns 400",
			requestBody: `{}`,
			service: func() *search.Service {
				return newService(new(embeddings.MockEmbedder), new(policy.MockPolicy), emptyIndex())
			},
			wantStatusCode: http.StatusBadRequest,
			wantBodyPart:   "No query provided.",
		},
		{
			name:        "whitespace query returns 400",
			requestBody: `{"query": "   "}`,
			service: func() *search.Service {
				return newService(new(embeddings.MockEmbedder), new(policy.MockPolicy), emptyIndex())
			},
			wantStatusCode: http.StatusBadRequest,
			wantBodyPart:   "No query provided.",
		},
		{
			name:        "restricted query returns 400 with detail",
			requestBody: `{"query": "something restricted"}`,
			service: func() *search.Service {
				pol := new(policy.MockPolicy)
				pol.On("Check", mock.Anything, "something restricted").Return(false, nil).Once()
				return newService(new(embeddings.MockEmbedder), pol, emptyIndex())
			},
			wantStatusCode: http.StatusBadRequest,
			wantBodyPart:   "The query is either inappropriate or contains restricted content.",
		},
		{
			name:        "empty corpus returns 404",
			requestBody: `{"query": "java developer"}`,
			service: func() *search.Service {
				emb := new(embeddings.MockEmbedder)
				emb.On("Embed", mock.Anything, "java developer").
					Return(embeddings.Vector{1, 0}, nil).Once()
				return newService(emb, allowAll(), emptyIndex())
			},
			wantStatusCode: http.StatusNotFound,
			wantBodyPart:   "No matching employees found.",
		},
		{
			name:        "provider failure returns 500",
			requestBody: `{"query": "java developer"}`,
			service: func() *search.Service {
				emb := new(embeddings.MockEmbedder)
				emb.On("Embed", mock.Anything, "java developer").
					Return(nil, errors.New("provider down")).Once()
				return newService(emb, allowAll(), emptyIndex())
			},
			wantStatusCode: http.StatusInternalServerError,
			wantBodyPart:   "search failed",
		},
		{
			name:        "invalid JSON payload returns 400",
			requestBody: `{invalid json}`,
			service: func() *search.Service {
				return newService(new(embeddings.MockEmbedder), new(policy.MockPolicy), emptyIndex())
			},
			wantStatusCode: http.StatusBadRequest,
			wantBodyPart:   "invalid payload",
		},
		{
			name:        "top_k above limit fails validation",
			requestBody: `{"query": "java developer", "top_k": 100}`,
			service: func() *search.Service {
				return newService(new(embeddings.MockEmbedder), new(policy.MockPolicy), emptyIndex())
			},
			wantStatusCode: http.StatusBadRequest,
			wantBodyPart:   "validation failed",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			handler := searchHandler(newTestDeps(tt.service(), nil))
			rec := postSearch(t, handler, tt.requestBody)

			if rec.Code != tt.wantStatusCode {
				t.Errorf("status = %d, want %d", rec.Code, tt.wantStatusCode)
			}
			if !strings.Contains(rec.Body.String(), tt.wantBodyPart) {
				t.Errorf("body %q missing %q", rec.Body.String(), tt.wantBodyPart)
			}
		})
	}
}

func TestSearchHandlerServesCachedResults(t *testing.T) {
	cached := []search.Result{{Name: "Kim", Position: "Backend Developer", Skills: []string{"Java"}, Reason: "Match score: 0.92"}}
	c := new(cache.MockCache)
	c.On("GetResults", mock.Anything, cache.Key("java developer", 5)).Return(cached, nil).Once()

	// The embedder must never be consulted on a cache hit.
	emb := new(embeddings.MockEmbedder)
	svc := newService(emb, new(policy.MockPolicy), emptyIndex())
	handler := searchHandler(newTestDeps(svc, c))

	rec := postSearch(t, handler, `{"query": "java developer"}`)
	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d, want 200", rec.Code)
	}
	if !strings.Contains(rec.Body.String(), "Match score: 0.92") {
		t.Errorf("expected cached result in body, got %q", rec.Body.String())
	}
	emb.AssertNotCalled(t, "Embed", mock.Anything, mock.Anything)
	c.AssertExpectations(t)
}

// keywordEmbedder is a deterministic stand-in for the embedding model: one
// dimension per known term, set when the text mentions it.
type keywordEmbedder struct {
	batchCalls atomic.Int32
}

var keywordTerms = []string{"java", "spring", "backend", "kubernetes", "pytorch", "machine learning", "react", "frontend"}

func keywordVector(text string) embeddings.Vector {
	lower := strings.ToLower(text)
	vec := make(embeddings.Vector, len(keywordTerms))
	for i, term := range keywordTerms {
		if strings.Contains(lower, term) {
			vec[i] = 1
		}
	}
	return vec
}

func (e *keywordEmbedder) Embed(ctx context.Context, text string) (embeddings.Vector, error) {
	return keywordVector(text), nil
}

func (e *keywordEmbedder) EmbedBatch(ctx context.Context, texts []string) ([]embeddings.Vector, error) {
	e.batchCalls.Add(1)
	vecs := make([]embeddings.Vector, len(texts))
	for i, t := range texts {
		vecs[i] = keywordVector(t)
	}
	return vecs, nil
}

func writeTestDataset(t *testing.T) string {
	t.Helper()
	dataset := `{
		"employees": [
			{
				"id": "e-1",
				"personalInfo": {"name": "Kim"},
				"professionalInfo": {"department": "Platform", "position": "Backend Developer", "yearsOfExperience": 7},
				"skills": {"technical": [{"name": "Java", "proficiency": "expert"}, {"name": "Spring", "proficiency": "advanced"}]}
			},
			{
				"id": "e-2",
				"personalInfo": {"name": "Lee"},
				"professionalInfo": {"department": "AI Lab", "position": "ML Engineer", "yearsOfExperience": 5},
				"skills": {"technical": [{"name": "PyTorch", "proficiency": "expert"}], "soft": ["machine learning research"]}
			},
			{
				"id": "e-3",
				"personalInfo": {"name": "Park"},
				"professionalInfo": {"department": "Web", "position": "Frontend Developer", "yearsOfExperience": 6},
				"skills": {"technical": [{"name": "React", "proficiency": "expert"}]}
			}
		]
	}`
	path := filepath.Join(t.TempDir(), "employees.json")
	if err := os.WriteFile(path, []byte(dataset), 0o644); err != nil {
		t.Fatalf("write dataset: %v", err)
	}
	return path
}

func datasetIndex(embedder embeddings.Embedder, path string) index.BuildFunc {
	return func(ctx context.Context) (*index.Index, error) {
		records, err := employee.Load(path)
		if err != nil {
			records = nil
		}
		return index.Build(ctx, employee.SynthesizeAll(records), embedder)
	}
}

func TestSearchEndToEnd(t *testing.T) {
	embedder := &keywordEmbedder{}
	svc := newService(embedder, allowAll(), datasetIndex(embedder, writeTestDataset(t)))
	handler := searchHandler(newTestDeps(svc, nil))

	rec := postSearch(t, handler, `{"query": "Java backend developer with Kubernetes experience"}`)
	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d, want 200: %s", rec.Code, rec.Body.String())
	}

	var resp struct {
		Results []search.Result `json:"results"`
	}
	if err := json.NewDecoder(rec.Body).Decode(&resp); err != nil {
		t.Fatalf("decode response: %v", err)
	}
	if len(resp.Results) != 3 {
		t.Fatalf("got %d results, want 3", len(resp.Results))
	}
	if resp.Results[0].Name != "Kim" {
		t.Errorf("best match = %s, want Kim", resp.Results[0].Name)
	}
	if resp.Results[0].Position != "Backend Developer" {
		t.Errorf("position = %s, want Backend Developer", resp.Results[0].Position)
	}
	if len(resp.Results[0].Skills) != 2 {
		t.Errorf("skills = %v, want Java and Spring", resp.Results[0].Skills)
	}
	scoreRe := regexp.MustCompile(`^Match score: 0\.\d{2}$`)
	if !scoreRe.MatchString(resp.Results[0].Reason) {
		t.Errorf("reason = %q, want form \"Match score: 0.NN\"", resp.Results[0].Reason)
	}
}

func TestConcurrentFirstRequestsBuildIndexOnce(t *testing.T) {
	embedder := &keywordEmbedder{}
	svc := newService(embedder, allowAll(), datasetIndex(embedder, writeTestDataset(t)))
	handler := searchHandler(newTestDeps(svc, nil))

	const parallel = 12
	var wg sync.WaitGroup
	codes := make([]int, parallel)
	for i := 0; i < parallel; i++ {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			req := httptest.NewRequest(http.MethodPost, "/api/search",
				bytes.NewBufferString(`{"query": "Java backend developer"}`))
			rec := httptest.NewRecorder()
			handler(rec, req)
			codes[i] = rec.Code
		}(i)
	}
	wg.Wait()

	for i, code := range codes {
		if code != http.StatusOK {
			t.Errorf("request %d: status %d, want 200", i, code)
		}
	}
	if got := embedder.batchCalls.Load(); got != 1 {
		t.Errorf("document batch embedded %d times, want exactly 1", got)
	}
}

func TestMissingDatasetDegradesToNotFound(t *testing.T) {
	embedder := &keywordEmbedder{}
	missing := filepath.Join(t.TempDir(), "nope.json")
	svc := newService(embedder, allowAll(), datasetIndex(embedder, missing))
	handler := searchHandler(newTestDeps(svc, nil))

	rec := postSearch(t, handler, `{"query": "anyone"}`)
	if rec.Code != http.StatusNotFound {
		t.Errorf("status = %d, want 404 for empty corpus", rec.Code)
	}
	if !strings.Contains(rec.Body.String(), "No matching employees found.") {
		t.Errorf("unexpected body: %q", rec.Body.String())
	}
}

func TestReindexHandler(t *testing.T) {
	embedder := &keywordEmbedder{}
	svc := newService(embedder, allowAll(), datasetIndex(embedder, writeTestDataset(t)))

	c := new(cache.MockCache)
	c.On("Flush", mock.Anything).Return(nil).Once()
	deps := newTestDeps(svc, c)

	// Prime the index.
	if rec := postSearch(t, searchHandler(newTestDeps(svc, nil)), `{"query": "react"}`); rec.Code != http.StatusOK {
		t.Fatalf("prime search failed: %d", rec.Code)
	}

	req := httptest.NewRequest(http.MethodPost, "/api/reindex", nil)
	rec := httptest.NewRecorder()
	reindexHandler(deps)(rec, req)
	if rec.Code != http.StatusAccepted {
		t.Fatalf("status = %d, want 202", rec.Code)
	}
	c.AssertExpectations(t)

	// Next search rebuilds.
	if rec := postSearch(t, searchHandler(newTestDeps(svc, nil)), `{"query": "react"}`); rec.Code != http.StatusOK {
		t.Fatalf("post-reindex search failed: %d", rec.Code)
	}
	if got := embedder.batchCalls.Load(); got != 2 {
		t.Errorf("expected a rebuild after reindex, batch calls = %d, want 2", got)
	}
}
