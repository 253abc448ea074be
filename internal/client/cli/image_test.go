package cli

import (
	"bufio"
	"bytes"
	"context"
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/dmitrijs2005/charkeeper/internal/api"
	"github.com/dmitrijs2005/charkeeper/internal/client/localstore"
	"github.com/dmitrijs2005/charkeeper/internal/client/models"
	"github.com/dmitrijs2005/charkeeper/internal/client/remote"
	"github.com/dmitrijs2005/charkeeper/internal/client/store"
	"github.com/dmitrijs2005/charkeeper/internal/logging"
)

// newImageTestApp builds an App over a real local store and an HTTP client
// pointed at the given test server, with the REPL input script pre-loaded.
func newImageTestApp(t *testing.T, baseURL, script string) *App {
	t.Helper()

	local, err := localstore.New(t.TempDir())
	if err != nil {
		t.Fatalf("localstore.New: %v", err)
	}

	logger := logging.NewNopLogger()
	client := remote.NewHTTPClient(baseURL, logger)
	st := store.New(local, client, logger, store.WithDebounceInterval(5*time.Millisecond))
	t.Cleanup(st.Close)

	return &App{store: st, client: client, reader: bufio.NewReader(strings.NewReader(script))}
}

func writeImageFile(t *testing.T, data []byte) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "portrait.png")
	if err := os.WriteFile(path, data, 0o600); err != nil {
		t.Fatalf("WriteFile: %v", err)
	}
	return path
}

func captureOutput(t *testing.T) *[]string {
	t.Helper()
	var out []string
	orig := printlnFn
	printlnFn = func(args ...any) (int, error) {
		for _, arg := range args {
			out = append(out, arg.(string))
		}
		return 0, nil
	}
	t.Cleanup(func() { printlnFn = orig })
	return &out
}

func TestAttachImage_ProfileImageAndUpload(t *testing.T) {
	img := []byte{0x89, 'P', 'N', 'G', 0x0d, 0x0a}

	mux := http.NewServeMux()
	ts := httptest.NewServer(mux)
	t.Cleanup(ts.Close)

	var uploaded []byte
	mux.HandleFunc("POST /api/assets/presign-put", func(w http.ResponseWriter, r *http.Request) {
		json.NewEncoder(w).Encode(api.PresignPutResponse{Key: "assets/k1", URL: ts.URL + "/bucket/k1"})
	})
	mux.HandleFunc("PUT /bucket/k1", func(w http.ResponseWriter, r *http.Request) {
		b, err := io.ReadAll(r.Body)
		if err != nil {
			t.Errorf("read upload body: %v", err)
		}
		uploaded = b
	})

	c := models.NewCharacter("Mira")
	script := c.ID + "\n" + writeImageFile(t, img) + "\n\n"
	app := newImageTestApp(t, ts.URL, script)
	app.store.AddCharacter(c)
	app.loggedIn = true

	out := captureOutput(t)
	app.AttachImage(context.Background())

	got := app.store.Characters()
	if len(got) != 1 || !bytes.Equal(got[0].ProfileImage, img) {
		t.Fatalf("profile image not attached: %+v", got)
	}
	if !bytes.Equal(uploaded, img) {
		t.Fatalf("uploaded bytes = %v, want %v", uploaded, img)
	}

	wantOut := []string{"image attached", "uploaded as assets/k1"}
	if len(*out) != 2 || (*out)[0] != wantOut[0] || (*out)[1] != wantOut[1] {
		t.Fatalf("output = %v, want %v", *out, wantOut)
	}
}

func TestAttachImage_PromptImageNoUploadWhenLoggedOut(t *testing.T) {
	img := []byte("raw image bytes")

	presignCalls := 0
	mux := http.NewServeMux()
	mux.HandleFunc("POST /api/assets/presign-put", func(w http.ResponseWriter, r *http.Request) {
		presignCalls++
		json.NewEncoder(w).Encode(api.PresignPutResponse{Key: "k", URL: "u"})
	})
	ts := httptest.NewServer(mux)
	t.Cleanup(ts.Close)

	c := models.NewCharacter("Mira")
	p := models.NewSavedPrompt("portrait", "a portrait, oil painting")
	c.Prompts = append(c.Prompts, p)

	script := c.ID + "\n" + writeImageFile(t, img) + "\n" + p.ID + "\n"
	app := newImageTestApp(t, ts.URL, script)
	app.store.AddCharacter(c)

	captureOutput(t)
	app.AttachImage(context.Background())

	got := app.store.Characters()
	if len(got) != 1 || len(got[0].Prompts) != 1 {
		t.Fatalf("unexpected store state: %+v", got)
	}
	images := got[0].Prompts[0].Images
	if len(images) != 1 || !bytes.Equal(images[0].Data, img) {
		t.Fatalf("prompt image not attached: %+v", images)
	}
	if presignCalls != 0 {
		t.Fatalf("expected no presign calls while logged out, got %d", presignCalls)
	}
}

func TestAttachImage_UnknownCharacter(t *testing.T) {
	ts := httptest.NewServer(http.NewServeMux())
	t.Cleanup(ts.Close)

	app := newImageTestApp(t, ts.URL, "no-such-id\n")

	out := captureOutput(t)
	app.AttachImage(context.Background())

	if len(*out) != 1 || (*out)[0] != "no character with id no-such-id" {
		t.Fatalf("output = %v", *out)
	}
	if len(app.store.Characters()) != 0 {
		t.Fatal("store should be unchanged")
	}
}
