// Package api defines the JSON request/response shapes exchanged between the
// CharKeeper client and the sync server.
package api

import (
	"time"

	"github.com/dmitrijs2005/charkeeper/internal/client/models"
)

type RegisterRequest struct {
	Username string `json:"username"`
	Password string `json:"password"`
}

type LoginRequest struct {
	Username string `json:"username"`
	Password string `json:"password"`
}

type RefreshRequest struct {
	RefreshToken string `json:"refresh_token"`
}

type TokenResponse struct {
	AccessToken  string `json:"access_token"`
	RefreshToken string `json:"refresh_token"`
}

// ChangesResponse carries the user's remote collections in one round-trip.
type ChangesResponse struct {
	Characters []models.Character `json:"characters"`
	Presets    []models.Preset    `json:"presets"`
	ServerTime time.Time          `json:"server_time"`
}

type PresignPutResponse struct {
	Key string `json:"key"`
	URL string `json:"url"`
}

type PresignGetResponse struct {
	URL string `json:"url"`
}

// ErrorResponse is the uniform error body returned by the server.
type ErrorResponse struct {
	Error string `json:"error"`
}
