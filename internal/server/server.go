// Package server exposes the retrieval service over a small JSON HTTP API:
// analyze a query, build/rebuild the indices, and report their status.
package server

import (
	"encoding/json"
	"fmt"
	"log/slog"
	"net/http"
	"strings"

	"medrag/internal/usecase"
)

type Server struct {
	knowledge *usecase.KnowledgeStore
	trials    *usecase.TrialStore
	retriever *usecase.Retriever
	answerer  *usecase.Answerer
	log       *slog.Logger
}

func New(knowledge *usecase.KnowledgeStore, trials *usecase.TrialStore, retriever *usecase.Retriever, answerer *usecase.Answerer, log *slog.Logger) *Server {
	if log == nil {
		log = slog.Default()
	}
	return &Server{
		knowledge: knowledge,
		trials:    trials,
		retriever: retriever,
		answerer:  answerer,
		log:       log,
	}
}

// Handler returns the route table.
func (s *Server) Handler() http.Handler {
	mux := http.NewServeMux()
	mux.HandleFunc("GET /{$}", s.handleRoot)
	mux.HandleFunc("POST /analyze", s.handleAnalyze)
	mux.HandleFunc("POST /indices/build", s.handleBuild)
	mux.HandleFunc("GET /indices/status", s.handleStatus)
	mux.HandleFunc("POST /indices/rebuild", s.handleRebuild)
	return mux
}

func (s *Server) ListenAndServe(addr string) error {
	s.log.Info("listening", "addr", addr)
	return http.ListenAndServe(addr, s.Handler())
}

func (s *Server) handleRoot(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, map[string]string{"status": "Medical AI Service Running"})
}

type analyzeRequest struct {
	Symptoms string `json:"symptoms"`
	History  string `json:"history"`
}

type trialResponse struct {
	Title        string `json:"title"`
	Condition    string `json:"condition"`
	Intervention string `json:"intervention"`
	Eligibility  string `json:"eligibility"`
}

type analyzeResponse struct {
	Answer         string          `json:"answer"`
	ClinicalTrials []trialResponse `json:"clinical_trials"`
}

func (s *Server) handleAnalyze(w http.ResponseWriter, r *http.Request) {
	var req analyzeRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, fmt.Sprintf("invalid request body: %v", err))
		return
	}

	query := strings.TrimSpace(req.Symptoms + " " + req.History)
	if query == "" {
		writeError(w, http.StatusBadRequest, "empty query")
		return
	}

	// An unbuilt store encountered here gets one build attempt before the
	// request degrades.
	if err := s.ensureBuilt(); err != nil {
		s.log.Error("lazy build failed", "error", err)
		writeJSON(w, http.StatusOK, analyzeResponse{Answer: usecase.DegradedAnswer})
		return
	}

	result, err := s.retriever.Retrieve(query)
	if err != nil {
		s.log.Error("retrieval failed", "error", err)
		writeError(w, http.StatusInternalServerError, fmt.Sprintf("Analysis failed: %v", err))
		return
	}
	s.log.Info("retrieved context",
		"documents", len(result.MedicalContext),
		"trials_requested", result.TrialsRequested,
		"trials", len(result.Trials))

	answer, err := s.answerer.Answer(query, result)
	if err != nil {
		s.log.Error("answer generation failed", "error", err)
		writeError(w, http.StatusInternalServerError, fmt.Sprintf("Analysis failed: %v", err))
		return
	}

	resp := analyzeResponse{Answer: answer}
	if result.TrialsRequested {
		resp.ClinicalTrials = make([]trialResponse, 0, len(result.Trials))
		for _, st := range result.Trials {
			resp.ClinicalTrials = append(resp.ClinicalTrials, trialResponse{
				Title:        st.Trial.Title,
				Condition:    st.Trial.Condition,
				Intervention: st.Trial.Intervention,
				Eligibility:  st.Trial.Eligibility,
			})
		}
	}
	writeJSON(w, http.StatusOK, resp)
}

type buildResponse struct {
	MedicalIndex        string `json:"medical_index"`
	ClinicalTrialsIndex string `json:"clinical_trials_index"`
	ClinicalTrialsCount int    `json:"clinical_trials_count"`
}

func (s *Server) handleBuild(w http.ResponseWriter, r *http.Request) {
	force := r.URL.Query().Get("force") == "true"
	s.build(w, force)
}

func (s *Server) handleRebuild(w http.ResponseWriter, r *http.Request) {
	s.build(w, true)
}

func (s *Server) build(w http.ResponseWriter, force bool) {
	if !force {
		if s.knowledge.Status().Built && s.trials.Status().Built {
			writeJSON(w, http.StatusOK, buildResponse{
				MedicalIndex:        "already built, use force=true to rebuild",
				ClinicalTrialsIndex: "already built, use force=true to rebuild",
				ClinicalTrialsCount: s.trials.Status().Documents,
			})
			return
		}
	}

	if _, err := s.knowledge.Build(nil); err != nil {
		s.log.Error("medical index build failed", "error", err)
		writeError(w, http.StatusInternalServerError, fmt.Sprintf("Failed to build indices: %v", err))
		return
	}
	trialResult, err := s.trials.Build(nil)
	if err != nil {
		s.log.Error("trials index build failed", "error", err)
		writeError(w, http.StatusInternalServerError, fmt.Sprintf("Failed to build indices: %v", err))
		return
	}

	writeJSON(w, http.StatusOK, buildResponse{
		MedicalIndex:        "built successfully",
		ClinicalTrialsIndex: "built successfully",
		ClinicalTrialsCount: trialResult.Documents,
	})
}

type statusResponse struct {
	MedicalIndexBuilt        bool `json:"medical_index_built"`
	ClinicalTrialsIndexBuilt bool `json:"clinical_trials_index_built"`
	ClinicalTrialsCount      int  `json:"clinical_trials_count"`
}

func (s *Server) handleStatus(w http.ResponseWriter, r *http.Request) {
	trialStatus := s.trials.Status()
	writeJSON(w, http.StatusOK, statusResponse{
		MedicalIndexBuilt:        s.knowledge.Status().Built,
		ClinicalTrialsIndexBuilt: trialStatus.Built,
		ClinicalTrialsCount:      trialStatus.Documents,
	})
}

func (s *Server) ensureBuilt() error {
	if !s.knowledge.Status().Built {
		if _, err := s.knowledge.Build(nil); err != nil {
			return err
		}
	}
	if !s.trials.Status().Built {
		if _, err := s.trials.Build(nil); err != nil {
			return err
		}
	}
	return nil
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}

func writeError(w http.ResponseWriter, status int, detail string) {
	writeJSON(w, status, map[string]string{"detail": detail})
}
