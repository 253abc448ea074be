package remote

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"sync"
	"sync/atomic"
	"time"

	"github.com/dmitrijs2005/charkeeper/internal/api"
	"github.com/dmitrijs2005/charkeeper/internal/client/models"
	"github.com/dmitrijs2005/charkeeper/internal/common"
	"github.com/dmitrijs2005/charkeeper/internal/logging"
	"github.com/dmitrijs2005/charkeeper/internal/netx"
)

// HTTPClient implements Store over the CharKeeper sync server's JSON API.
//
// Access tokens are attached to every authorized request; a 401 "token
// expired" response triggers one refresh-and-retry using the refresh token.
type HTTPClient struct {
	baseURL string
	http    *http.Client
	log     logging.Logger

	mu           sync.Mutex // guards tokens
	accessToken  string
	refreshToken string

	available atomic.Bool
	status    chan models.SyncStatus
}

// NewHTTPClient returns a client for the server at baseURL (no trailing slash).
func NewHTTPClient(baseURL string, log logging.Logger) *HTTPClient {
	return &HTTPClient{
		baseURL: baseURL,
		http:    &http.Client{Timeout: 30 * time.Second},
		log:     log,
		status:  make(chan models.SyncStatus, 16),
	}
}

// Available reports the last known server reachability. It is maintained by
// StartAvailabilityWatcher and cleared on connection-level request failures.
func (c *HTTPClient) Available() bool { return c.available.Load() }

// Status implements Store.
func (c *HTTPClient) Status() <-chan models.SyncStatus { return c.status }

// emit pushes a status without ever blocking a request path.
func (c *HTTPClient) emit(s models.SyncStatus) {
	select {
	case c.status <- s:
	default:
	}
}

func (c *HTTPClient) tokens() (string, string) {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.accessToken, c.refreshToken
}

func (c *HTTPClient) setTokens(access, refresh string) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.accessToken = access
	c.refreshToken = refresh
}

// StartAvailabilityWatcher pings the server every interval until ctx is done,
// flipping the availability flag as reachability changes.
func (c *HTTPClient) StartAvailabilityWatcher(ctx context.Context, interval time.Duration) {
	ticker := time.NewTicker(interval)
	defer ticker.Stop()

	for {
		select {
		case <-ticker.C:
			pingCtx, cancel := context.WithTimeout(context.Background(), 3*time.Second)
			err := c.Ping(pingCtx)
			cancel()

			was := c.available.Load()
			now := err == nil
			if was != now {
				c.available.Store(now)
				c.log.Info(ctx, "server availability changed", "available", now)
			}
		case <-ctx.Done():
			return
		}
	}
}

// doJSON performs one JSON request. When authorized is set, the access token
// is attached and an expired-token response is retried once after a refresh.
func (c *HTTPClient) doJSON(ctx context.Context, method, path string, in, out any, authorized bool) error {
	err := c.doJSONOnce(ctx, method, path, in, out, authorized)
	if err == nil || !authorized {
		return err
	}

	if !errors.Is(err, common.ErrTokenExpired) {
		return err
	}

	if rerr := c.refresh(ctx); rerr != nil {
		return fmt.Errorf("token refresh: %w", rerr)
	}
	return c.doJSONOnce(ctx, method, path, in, out, authorized)
}

func (c *HTTPClient) doJSONOnce(ctx context.Context, method, path string, in, out any, authorized bool) error {
	var body io.Reader
	if in != nil {
		b, err := json.Marshal(in)
		if err != nil {
			return fmt.Errorf("encode request: %w", err)
		}
		body = bytes.NewReader(b)
	}

	req, err := http.NewRequestWithContext(ctx, method, c.baseURL+path, body)
	if err != nil {
		return err
	}
	req.Header.Set("Content-Type", "application/json")
	if authorized {
		access, _ := c.tokens()
		req.Header.Set(common.AccessTokenHeaderName, "Bearer "+access)
	}

	resp, err := c.http.Do(req)
	if err != nil {
		c.available.Store(false)
		return fmt.Errorf("%w: %v", common.ErrUnavailable, err)
	}
	defer resp.Body.Close()

	switch {
	case resp.StatusCode == http.StatusNoContent:
		return nil
	case resp.StatusCode >= 400:
		var e api.ErrorResponse
		if derr := json.NewDecoder(resp.Body).Decode(&e); derr == nil && e.Error != "" {
			if e.Error == common.ErrTokenExpired.Error() {
				return common.ErrTokenExpired
			}
			return fmt.Errorf("server: %s", e.Error)
		}
		return fmt.Errorf("server: %s", resp.Status)
	}

	if out != nil {
		if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
			return fmt.Errorf("decode response: %w", err)
		}
	}
	return nil
}

func (c *HTTPClient) refresh(ctx context.Context) error {
	_, refresh := c.tokens()
	if refresh == "" {
		return common.ErrUnauthorized
	}

	var tr api.TokenResponse
	err := c.doJSONOnce(ctx, http.MethodPost, "/api/user/refresh", api.RefreshRequest{RefreshToken: refresh}, &tr, false)
	if err != nil {
		return err
	}
	c.setTokens(tr.AccessToken, tr.RefreshToken)
	return nil
}

// Register creates an account and stores the returned token pair.
func (c *HTTPClient) Register(ctx context.Context, username, password string) error {
	var tr api.TokenResponse
	err := c.doJSON(ctx, http.MethodPost, "/api/user/register", api.RegisterRequest{Username: username, Password: password}, &tr, false)
	if err != nil {
		return err
	}
	c.setTokens(tr.AccessToken, tr.RefreshToken)
	return nil
}

// Login authenticates and stores the returned token pair.
func (c *HTTPClient) Login(ctx context.Context, username, password string) error {
	var tr api.TokenResponse
	err := c.doJSON(ctx, http.MethodPost, "/api/user/login", api.LoginRequest{Username: username, Password: password}, &tr, false)
	if err != nil {
		return err
	}
	c.setTokens(tr.AccessToken, tr.RefreshToken)
	return nil
}

// Ping checks server reachability without auth.
func (c *HTTPClient) Ping(ctx context.Context) error {
	return c.doJSONOnce(ctx, http.MethodGet, "/api/ping", nil, nil, false)
}

// FetchChanges implements Store.
func (c *HTTPClient) FetchChanges(ctx context.Context) (*Changes, error) {
	var cr api.ChangesResponse
	if err := c.doJSON(ctx, http.MethodGet, "/api/changes", nil, &cr, true); err != nil {
		return nil, err
	}
	return &Changes{Characters: cr.Characters, Presets: cr.Presets, FetchedAt: cr.ServerTime}, nil
}

// FetchSettings implements Store. A 204 from the server maps to (nil, nil).
func (c *HTTPClient) FetchSettings(ctx context.Context) (*models.Settings, error) {
	var s *models.Settings
	if err := c.doJSON(ctx, http.MethodGet, "/api/settings", nil, &s, true); err != nil {
		return nil, err
	}
	return s, nil
}

func (c *HTTPClient) SaveCharacter(ctx context.Context, ch models.Character) error {
	return c.withStatus(c.doJSON(ctx, http.MethodPut, "/api/characters/"+ch.ID, ch, nil, true))
}

func (c *HTTPClient) SaveCharacters(ctx context.Context, cs []models.Character) error {
	return c.withStatus(c.doJSON(ctx, http.MethodPut, "/api/characters", cs, nil, true))
}

func (c *HTTPClient) SavePreset(ctx context.Context, p models.Preset) error {
	return c.withStatus(c.doJSON(ctx, http.MethodPut, "/api/presets/"+p.ID, p, nil, true))
}

func (c *HTTPClient) SavePresets(ctx context.Context, ps []models.Preset) error {
	return c.withStatus(c.doJSON(ctx, http.MethodPut, "/api/presets", ps, nil, true))
}

func (c *HTTPClient) SaveSettings(ctx context.Context, s models.Settings) error {
	return c.withStatus(c.doJSON(ctx, http.MethodPut, "/api/settings", s, nil, true))
}

func (c *HTTPClient) DeleteCharacter(ctx context.Context, id string) error {
	return c.withStatus(c.doJSON(ctx, http.MethodDelete, "/api/characters/"+id, nil, nil, true))
}

func (c *HTTPClient) DeletePreset(ctx context.Context, id string) error {
	return c.withStatus(c.doJSON(ctx, http.MethodDelete, "/api/presets/"+id, nil, nil, true))
}

// withStatus mirrors a push outcome onto the status stream.
func (c *HTTPClient) withStatus(err error) error {
	if err != nil {
		c.emit(models.StatusFailure(err.Error()))
		return err
	}
	c.emit(models.StatusSuccess())
	return nil
}

// PresignImagePut asks the server for a presigned upload slot for a prompt
// image and returns the storage key together with the upload URL.
func (c *HTTPClient) PresignImagePut(ctx context.Context) (string, string, error) {
	var pr api.PresignPutResponse
	if err := c.doJSON(ctx, http.MethodPost, "/api/assets/presign-put", nil, &pr, true); err != nil {
		return "", "", err
	}
	return pr.Key, pr.URL, nil
}

// PresignImageGet returns a presigned download URL for a stored asset key.
func (c *HTTPClient) PresignImageGet(ctx context.Context, key string) (string, error) {
	var pr api.PresignGetResponse
	if err := c.doJSON(ctx, http.MethodGet, "/api/assets/presign-get?key="+key, nil, &pr, true); err != nil {
		return "", err
	}
	return pr.URL, nil
}

// UploadImage pushes raw image bytes to a presigned URL.
func (c *HTTPClient) UploadImage(url string, data []byte) error {
	return netx.UploadToPresignedURL(url, data)
}

// Close releases client resources.
func (c *HTTPClient) Close() error {
	c.http.CloseIdleConnections()
	return nil
}
