package server

import (
	"bytes"
	"encoding/json"
	"hash/fnv"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"unicode"

	"medrag/internal/adapter/chunker"
	"medrag/internal/adapter/corpus"
	"medrag/internal/domain"
	"medrag/internal/usecase"
)

type bowEmbedder struct{ dim int }

func (e *bowEmbedder) Embed(texts []string) ([][]float32, error) {
	out := make([][]float32, len(texts))
	for i, text := range texts {
		vec := make([]float32, e.dim)
		words := strings.FieldsFunc(strings.ToLower(text), func(r rune) bool {
			return !unicode.IsLetter(r) && !unicode.IsDigit(r)
		})
		for _, w := range words {
			h := fnv.New32a()
			h.Write([]byte(w))
			vec[h.Sum32()%uint32(e.dim)]++
		}
		out[i] = vec
	}
	return out, nil
}

func (e *bowEmbedder) Dimension() int    { return e.dim }
func (e *bowEmbedder) ModelName() string { return "bow" }

type docSource []domain.Document

func (s docSource) Load() ([]domain.Document, error) { return s, nil }

type trialSource []domain.TrialRecord

func (s trialSource) Load() ([]domain.TrialRecord, error) { return s, nil }

type cannedLLM struct{ reply string }

func (f *cannedLLM) Generate(string) (string, error)               { return f.reply, nil }
func (f *cannedLLM) GenerateWithSystem(_, _ string) (string, error) { return f.reply, nil }
func (f *cannedLLM) ModelName() string                             { return "canned" }

func newTestServer(t *testing.T) *Server {
	t.Helper()
	emb := &bowEmbedder{dim: 512}

	windowChunker, err := chunker.NewWindowChunker(200, 50)
	if err != nil {
		t.Fatal(err)
	}

	knowledge := usecase.NewKnowledgeStore(docSource(corpus.SampleDocuments()), emb, windowChunker, 0)
	trials := usecase.NewTrialStore(trialSource(corpus.SampleTrials()), emb, chunker.NewTrialChunker(), 0)
	retriever := usecase.NewRetriever(knowledge, trials, 4, 3)
	answerer := usecase.NewAnswerer(&cannedLLM{reply: "grounded answer"})

	return New(knowledge, trials, retriever, answerer, nil)
}

func doJSON(t *testing.T, h http.Handler, method, path string, body any) *httptest.ResponseRecorder {
	t.Helper()
	var buf bytes.Buffer
	if body != nil {
		if err := json.NewEncoder(&buf).Encode(body); err != nil {
			t.Fatal(err)
		}
	}
	req := httptest.NewRequest(method, path, &buf)
	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, req)
	return rec
}

func TestStatusAndBuildFlow(t *testing.T) {
	srv := newTestServer(t)
	h := srv.Handler()

	rec := doJSON(t, h, http.MethodGet, "/indices/status", nil)
	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d", rec.Code)
	}
	var status struct {
		Medical bool `json:"medical_index_built"`
		Trials  bool `json:"clinical_trials_index_built"`
		Count   int  `json:"clinical_trials_count"`
	}
	if err := json.Unmarshal(rec.Body.Bytes(), &status); err != nil {
		t.Fatal(err)
	}
	if status.Medical || status.Trials {
		t.Errorf("indices must start unbuilt: %+v", status)
	}

	rec = doJSON(t, h, http.MethodPost, "/indices/build", nil)
	if rec.Code != http.StatusOK {
		t.Fatalf("build = %d: %s", rec.Code, rec.Body.String())
	}
	var build struct {
		Medical string `json:"medical_index"`
		Count   int    `json:"clinical_trials_count"`
	}
	if err := json.Unmarshal(rec.Body.Bytes(), &build); err != nil {
		t.Fatal(err)
	}
	if build.Medical != "built successfully" || build.Count != 3 {
		t.Errorf("build response = %+v", build)
	}

	// A second non-forced build is a no-op.
	rec = doJSON(t, h, http.MethodPost, "/indices/build", nil)
	if err := json.Unmarshal(rec.Body.Bytes(), &build); err != nil {
		t.Fatal(err)
	}
	if !strings.Contains(build.Medical, "already built") {
		t.Errorf("expected already-built response, got %+v", build)
	}

	// Rebuild forces.
	rec = doJSON(t, h, http.MethodPost, "/indices/rebuild", nil)
	if err := json.Unmarshal(rec.Body.Bytes(), &build); err != nil {
		t.Fatal(err)
	}
	if build.Medical != "built successfully" {
		t.Errorf("rebuild response = %+v", build)
	}

	rec = doJSON(t, h, http.MethodGet, "/indices/status", nil)
	if err := json.Unmarshal(rec.Body.Bytes(), &status); err != nil {
		t.Fatal(err)
	}
	if !status.Medical || !status.Trials || status.Count != 3 {
		t.Errorf("post-build status = %+v", status)
	}
}

func TestAnalyzeTrialsAbsentVsPresent(t *testing.T) {
	srv := newTestServer(t)
	h := srv.Handler()

	// No explicit build: /analyze builds lazily.
	rec := doJSON(t, h, http.MethodPost, "/analyze", map[string]string{
		"symptoms": "What causes diabetes?",
		"history":  "",
	})
	if rec.Code != http.StatusOK {
		t.Fatalf("analyze = %d: %s", rec.Code, rec.Body.String())
	}
	var resp map[string]json.RawMessage
	if err := json.Unmarshal(rec.Body.Bytes(), &resp); err != nil {
		t.Fatal(err)
	}
	if string(resp["clinical_trials"]) != "null" {
		t.Errorf("non-trial query must return null trials, got %s", resp["clinical_trials"])
	}

	rec = doJSON(t, h, http.MethodPost, "/analyze", map[string]string{
		"symptoms": "Are there any studies for diabetes?",
		"history":  "",
	})
	if rec.Code != http.StatusOK {
		t.Fatalf("analyze = %d: %s", rec.Code, rec.Body.String())
	}
	var withTrials struct {
		Answer string `json:"answer"`
		Trials []struct {
			Title string `json:"title"`
		} `json:"clinical_trials"`
	}
	if err := json.Unmarshal(rec.Body.Bytes(), &withTrials); err != nil {
		t.Fatal(err)
	}
	if withTrials.Answer != "grounded answer" {
		t.Errorf("answer = %q", withTrials.Answer)
	}
	if len(withTrials.Trials) == 0 {
		t.Fatal("trial query must surface trials")
	}
	if !strings.Contains(withTrials.Trials[0].Title, "Diabetes") {
		t.Errorf("top trial = %q", withTrials.Trials[0].Title)
	}
}

func TestAnalyzeRejectsEmptyQuery(t *testing.T) {
	srv := newTestServer(t)

	rec := doJSON(t, srv.Handler(), http.MethodPost, "/analyze", map[string]string{})
	if rec.Code != http.StatusBadRequest {
		t.Errorf("empty query status = %d, want 400", rec.Code)
	}
}

func TestRootBanner(t *testing.T) {
	srv := newTestServer(t)

	rec := doJSON(t, srv.Handler(), http.MethodGet, "/", nil)
	if rec.Code != http.StatusOK {
		t.Fatalf("root = %d", rec.Code)
	}
	if !strings.Contains(rec.Body.String(), "Medical AI Service Running") {
		t.Errorf("banner = %s", rec.Body.String())
	}
}
