package service

import (
	"encoding/json"
	"errors"
	"io"
	"net/http"
)

func (s *Service) RegisterHTTP(mux *http.ServeMux) {
	mux.HandleFunc("/xncode/encode", s.EncodeHandler())
	mux.HandleFunc("/xncode/decode", s.DecodeHandler())
	mux.HandleFunc("/xncode/stats", s.StatsHandler())
	mux.HandleFunc("/xncode/stats/clear", s.StatsClearHandler())
}

// EncodeHandler encodes the POST body. Query: scheme.
func (s *Service) EncodeHandler() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		text, ok := s.readBody(w, r)
		if !ok {
			return
		}
		out, err := s.Encode(r.Context(), &EncodeInput{Text: text, Scheme: r.URL.Query().Get("scheme")})
		if err != nil {
			writeError(w, err)
			return
		}
		w.Header().Set("Content-Type", "text/plain; charset=utf-8")
		_, _ = io.WriteString(w, out.Text)
	}
}

// DecodeHandler decodes the POST body. Query: scheme, policy, substitute.
func (s *Service) DecodeHandler() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		text, ok := s.readBody(w, r)
		if !ok {
			return
		}
		query := r.URL.Query()
		out, err := s.Decode(r.Context(), &DecodeInput{Text: text, Scheme: query.Get("scheme"), Policy: query.Get("policy"), Substitute: query.Get("substitute")})
		if err != nil {
			writeError(w, err)
			return
		}
		w.Header().Set("Content-Type", "text/plain; charset=utf-8")
		_, _ = io.WriteString(w, out.Text)
	}
}

// StatsHandler returns JSON usage counters for a namespace.
func (s *Service) StatsHandler() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if r.Method != http.MethodGet {
			w.WriteHeader(http.StatusMethodNotAllowed)
			return
		}
		ns := r.URL.Query().Get("namespace")
		if ns == "" {
			ns = s.namespace(r.Context())
		}
		w.Header().Set("Content-Type", "application/json")
		_ = json.NewEncoder(w).Encode(s.usage.Get(ns))
	}
}

// StatsClearHandler resets usage counters for a namespace.
func (s *Service) StatsClearHandler() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if r.Method != http.MethodPost {
			w.WriteHeader(http.StatusMethodNotAllowed)
			return
		}
		ns := r.URL.Query().Get("namespace")
		if ns == "" {
			ns = s.namespace(r.Context())
		}
		cleared := s.usage.Clear(ns)
		w.Header().Set("Content-Type", "application/json")
		_ = json.NewEncoder(w).Encode(map[string]any{"namespace": ns, "cleared": cleared})
	}
}

func (s *Service) readBody(w http.ResponseWriter, r *http.Request) (string, bool) {
	if r.Method != http.MethodPost {
		w.WriteHeader(http.StatusMethodNotAllowed)
		return "", false
	}
	data, err := io.ReadAll(io.LimitReader(r.Body, int64(s.maxInput)+1))
	if err != nil {
		http.Error(w, err.Error(), http.StatusBadRequest)
		return "", false
	}
	return string(data), true
}

func writeError(w http.ResponseWriter, err error) {
	status := http.StatusBadRequest
	if errors.Is(err, ErrInputTooLarge) {
		status = http.StatusRequestEntityTooLarge
	}
	http.Error(w, err.Error(), status)
}
