// Package httpapi exposes the sync server's JSON HTTP endpoints: user
// registration and token management, the synced document collections, and
// presigned asset URLs.
package httpapi

import (
	"context"
	"encoding/json"
	"net/http"

	"github.com/dmitrijs2005/charkeeper/internal/logging"
	"github.com/dmitrijs2005/charkeeper/internal/server/services"
)

// UserService is the authentication surface the API needs.
type UserService interface {
	Register(ctx context.Context, username, password string) (*services.TokenPair, error)
	Login(ctx context.Context, username, password string) (*services.TokenPair, error)
	RefreshToken(ctx context.Context, refreshToken string) (*services.TokenPair, error)
}

// SyncService reads and writes the per-user synced collections.
type SyncService interface {
	Changes(ctx context.Context, userID string) ([]json.RawMessage, []json.RawMessage, error)
	Settings(ctx context.Context, userID string) (json.RawMessage, error)
	SaveSettings(ctx context.Context, userID string, doc json.RawMessage) error
	SaveDocument(ctx context.Context, userID, collection, id string, doc json.RawMessage) error
	DeleteDocument(ctx context.Context, userID, collection, id string) error
}

// AssetService mints presigned URLs for prompt image storage.
type AssetService interface {
	GetPresignedPutUrl(ctx context.Context) (string, string, error)
	GetPresignedGetUrl(ctx context.Context, key string) (string, error)
}

type Server struct {
	logger    logging.Logger
	users     UserService
	sync      SyncService
	assets    AssetService
	secretKey []byte
}

func NewServer(logger logging.Logger, users UserService, sync SyncService, assets AssetService, secretKey string) *Server {
	return &Server{
		logger:    logger,
		users:     users,
		sync:      sync,
		assets:    assets,
		secretKey: []byte(secretKey),
	}
}

// Handler assembles the route table.
func (s *Server) Handler() http.Handler {
	mux := http.NewServeMux()

	mux.HandleFunc("POST /api/user/register", s.handleRegister)
	mux.HandleFunc("POST /api/user/login", s.handleLogin)
	mux.HandleFunc("POST /api/user/refresh", s.handleRefresh)
	mux.HandleFunc("GET /api/ping", s.handlePing)

	mux.Handle("GET /api/changes", s.withAuth(s.handleChanges))
	mux.Handle("GET /api/settings", s.withAuth(s.handleGetSettings))
	mux.Handle("PUT /api/settings", s.withAuth(s.handlePutSettings))

	mux.Handle("PUT /api/characters", s.withAuth(s.handlePutCollection("characters")))
	mux.Handle("PUT /api/characters/{id}", s.withAuth(s.handlePutDocument("characters")))
	mux.Handle("DELETE /api/characters/{id}", s.withAuth(s.handleDeleteDocument("characters")))

	mux.Handle("PUT /api/presets", s.withAuth(s.handlePutCollection("presets")))
	mux.Handle("PUT /api/presets/{id}", s.withAuth(s.handlePutDocument("presets")))
	mux.Handle("DELETE /api/presets/{id}", s.withAuth(s.handleDeleteDocument("presets")))

	mux.Handle("POST /api/assets/presign-put", s.withAuth(s.handlePresignPut))
	mux.Handle("GET /api/assets/presign-get", s.withAuth(s.handlePresignGet))

	return mux
}
