package server

import (
	"errors"
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"
	"go.uber.org/zap"

	"github.com/abhisek/trans/internal/store"
	"github.com/abhisek/trans/internal/translate"
)

func (s *Server) health(w http.ResponseWriter, r *http.Request) {
	respondJSON(w, http.StatusOK, map[string]string{"status": "ok"})
}

func (s *Server) languages(w http.ResponseWriter, r *http.Request) {
	respondJSON(w, http.StatusOK, map[string]any{
		"languages": translate.Languages,
		"styles":    translate.Styles,
	})
}

func (s *Server) translate(w http.ResponseWriter, r *http.Request) {
	var req translate.Request
	if err := decodeJSON(r, &req); err != nil {
		jsonError(w, "invalid request body", http.StatusBadRequest)
		return
	}
	if req.Source == "" {
		req.Source = translate.Auto
	}

	t, err := s.translator.Translate(r.Context(), req)
	if err != nil {
		status := translateStatus(err)
		if status >= 500 {
			s.logger.Warn("translation failed", zap.String("backend", s.translator.Name()), zap.Error(err))
		}
		jsonError(w, err.Error(), status)
		return
	}

	if s.recent != nil {
		_, err := s.recent.Record(r.Context(), store.Entry{
			Input:      t.Input,
			Output:     t.Output,
			SourceLang: t.Source,
			TargetLang: t.Target,
		})
		if err != nil {
			s.logger.Warn("failed to record recent translation", zap.Error(err))
		}
	}

	respondJSON(w, http.StatusOK, t)
}

func (s *Server) listFavorites(w http.ResponseWriter, r *http.Request) {
	list, err := s.favorites.List(r.Context())
	if err != nil {
		jsonError(w, "failed to list favorites", http.StatusInternalServerError)
		return
	}
	if list == nil {
		list = []store.Entry{}
	}
	respondJSON(w, http.StatusOK, list)
}

func (s *Server) addFavorite(w http.ResponseWriter, r *http.Request) {
	var req struct {
		Input      string `json:"input"`
		Output     string `json:"output"`
		SourceLang string `json:"source_lang"`
		TargetLang string `json:"target_lang"`
	}
	if err := decodeJSON(r, &req); err != nil {
		jsonError(w, "invalid request body", http.StatusBadRequest)
		return
	}
	if req.Input == "" || req.Output == "" {
		jsonError(w, "input and output are required", http.StatusBadRequest)
		return
	}

	e, added, err := s.favorites.Add(r.Context(), store.Entry{
		Input:      req.Input,
		Output:     req.Output,
		SourceLang: req.SourceLang,
		TargetLang: req.TargetLang,
	})
	if err != nil {
		jsonError(w, "failed to save favorite", http.StatusInternalServerError)
		return
	}
	status := http.StatusCreated
	if !added {
		status = http.StatusOK
	}
	respondJSON(w, status, e)
}

func (s *Server) removeFavorite(w http.ResponseWriter, r *http.Request) {
	id, err := strconv.Atoi(chi.URLParam(r, "id"))
	if err != nil {
		jsonError(w, "invalid favorite ID", http.StatusBadRequest)
		return
	}
	switch err := s.favorites.Remove(r.Context(), id); {
	case errors.Is(err, store.ErrNotFound):
		jsonError(w, "favorite not found", http.StatusNotFound)
	case err != nil:
		jsonError(w, "failed to remove favorite", http.StatusInternalServerError)
	default:
		w.WriteHeader(http.StatusNoContent)
	}
}

func (s *Server) listRecent(w http.ResponseWriter, r *http.Request) {
	list, err := s.recent.List(r.Context())
	if err != nil {
		jsonError(w, "failed to list recent translations", http.StatusInternalServerError)
		return
	}
	if list == nil {
		list = []store.Entry{}
	}
	respondJSON(w, http.StatusOK, list)
}
