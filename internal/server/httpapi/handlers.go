package httpapi

import (
	"encoding/json"
	"errors"
	"io"
	"net/http"
	"time"

	"github.com/dmitrijs2005/charkeeper/internal/api"
	"github.com/dmitrijs2005/charkeeper/internal/client/models"
	"github.com/dmitrijs2005/charkeeper/internal/common"
)

// maxBodySize caps request bodies; prompt images travel through object
// storage, so documents stay small.
const maxBodySize = 1 << 20

func decodeBody(w http.ResponseWriter, r *http.Request, v any) bool {
	if err := json.NewDecoder(io.LimitReader(r.Body, maxBodySize)).Decode(v); err != nil {
		writeErrorMsg(w, http.StatusBadRequest, "malformed request body")
		return false
	}
	return true
}

func (s *Server) handleRegister(w http.ResponseWriter, r *http.Request) {
	var req api.RegisterRequest
	if !decodeBody(w, r, &req) {
		return
	}
	if req.Username == "" || req.Password == "" {
		writeErrorMsg(w, http.StatusBadRequest, "username and password are required")
		return
	}

	pair, err := s.users.Register(r.Context(), req.Username, req.Password)
	if err != nil {
		s.writeError(w, r, err)
		return
	}

	writeJSON(w, http.StatusOK, api.TokenResponse{AccessToken: pair.AccessToken, RefreshToken: pair.RefreshToken})
}

func (s *Server) handleLogin(w http.ResponseWriter, r *http.Request) {
	var req api.LoginRequest
	if !decodeBody(w, r, &req) {
		return
	}

	pair, err := s.users.Login(r.Context(), req.Username, req.Password)
	if err != nil {
		s.writeError(w, r, err)
		return
	}

	writeJSON(w, http.StatusOK, api.TokenResponse{AccessToken: pair.AccessToken, RefreshToken: pair.RefreshToken})
}

func (s *Server) handleRefresh(w http.ResponseWriter, r *http.Request) {
	var req api.RefreshRequest
	if !decodeBody(w, r, &req) {
		return
	}

	pair, err := s.users.RefreshToken(r.Context(), req.RefreshToken)
	if err != nil {
		s.writeError(w, r, err)
		return
	}

	writeJSON(w, http.StatusOK, api.TokenResponse{AccessToken: pair.AccessToken, RefreshToken: pair.RefreshToken})
}

func (s *Server) handlePing(w http.ResponseWriter, r *http.Request) {
	w.WriteHeader(http.StatusNoContent)
}

func (s *Server) handleChanges(w http.ResponseWriter, r *http.Request) {
	rawChars, rawPresets, err := s.sync.Changes(r.Context(), userID(r.Context()))
	if err != nil {
		s.writeError(w, r, err)
		return
	}

	resp := api.ChangesResponse{ServerTime: time.Now().UTC()}
	for _, raw := range rawChars {
		var ch models.Character
		if err := json.Unmarshal(raw, &ch); err != nil {
			s.writeError(w, r, err)
			return
		}
		resp.Characters = append(resp.Characters, ch)
	}
	for _, raw := range rawPresets {
		var p models.Preset
		if err := json.Unmarshal(raw, &p); err != nil {
			s.writeError(w, r, err)
			return
		}
		resp.Presets = append(resp.Presets, p)
	}

	writeJSON(w, http.StatusOK, resp)
}

func (s *Server) handleGetSettings(w http.ResponseWriter, r *http.Request) {
	doc, err := s.sync.Settings(r.Context(), userID(r.Context()))
	if err != nil {
		// no settings saved yet
		if errors.Is(err, common.ErrNotFound) {
			w.WriteHeader(http.StatusNoContent)
			return
		}
		s.writeError(w, r, err)
		return
	}

	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusOK)
	_, _ = w.Write(doc)
}

func (s *Server) handlePutSettings(w http.ResponseWriter, r *http.Request) {
	doc, ok := readRawDocument(w, r)
	if !ok {
		return
	}

	if err := s.sync.SaveSettings(r.Context(), userID(r.Context()), doc); err != nil {
		s.writeError(w, r, err)
		return
	}

	w.WriteHeader(http.StatusNoContent)
}

// handlePutDocument upserts a single document addressed by the path id.
func (s *Server) handlePutDocument(collection string) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		id := r.PathValue("id")
		doc, ok := readRawDocument(w, r)
		if !ok {
			return
		}

		var ident struct {
			ID string `json:"id"`
		}
		if err := json.Unmarshal(doc, &ident); err != nil || (ident.ID != "" && ident.ID != id) {
			writeErrorMsg(w, http.StatusBadRequest, "document id does not match path")
			return
		}

		if err := s.sync.SaveDocument(r.Context(), userID(r.Context()), collection, id, doc); err != nil {
			s.writeError(w, r, err)
			return
		}

		w.WriteHeader(http.StatusNoContent)
	}
}

// handlePutCollection upserts a batch of documents in one request.
func (s *Server) handlePutCollection(collection string) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var docs []json.RawMessage
		if !decodeBody(w, r, &docs) {
			return
		}

		uid := userID(r.Context())
		for _, doc := range docs {
			var ident struct {
				ID string `json:"id"`
			}
			if err := json.Unmarshal(doc, &ident); err != nil || ident.ID == "" {
				writeErrorMsg(w, http.StatusBadRequest, "every document needs an id")
				return
			}
			if err := s.sync.SaveDocument(r.Context(), uid, collection, ident.ID, doc); err != nil {
				s.writeError(w, r, err)
				return
			}
		}

		w.WriteHeader(http.StatusNoContent)
	}
}

func (s *Server) handleDeleteDocument(collection string) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if err := s.sync.DeleteDocument(r.Context(), userID(r.Context()), collection, r.PathValue("id")); err != nil {
			s.writeError(w, r, err)
			return
		}

		w.WriteHeader(http.StatusNoContent)
	}
}

func (s *Server) handlePresignPut(w http.ResponseWriter, r *http.Request) {
	key, url, err := s.assets.GetPresignedPutUrl(r.Context())
	if err != nil {
		s.writeError(w, r, err)
		return
	}

	writeJSON(w, http.StatusOK, api.PresignPutResponse{Key: key, URL: url})
}

func (s *Server) handlePresignGet(w http.ResponseWriter, r *http.Request) {
	key := r.URL.Query().Get("key")
	if key == "" {
		writeErrorMsg(w, http.StatusBadRequest, "key is required")
		return
	}

	url, err := s.assets.GetPresignedGetUrl(r.Context(), key)
	if err != nil {
		s.writeError(w, r, err)
		return
	}

	writeJSON(w, http.StatusOK, api.PresignGetResponse{URL: url})
}

// readRawDocument reads the request body as one JSON value.
func readRawDocument(w http.ResponseWriter, r *http.Request) (json.RawMessage, bool) {
	body, err := io.ReadAll(io.LimitReader(r.Body, maxBodySize))
	if err != nil || !json.Valid(body) {
		writeErrorMsg(w, http.StatusBadRequest, "malformed request body")
		return nil, false
	}
	return json.RawMessage(body), true
}
