package server

import (
	"bytes"
	"crypto/sha1"
	"encoding/json"
	"fmt"
	"image/color"
	"io"
	"mime/multipart"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gofiber/fiber/v2"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"

	"photoshare/internal/config"
	"photoshare/internal/database"
	"photoshare/internal/middleware"
	"photoshare/internal/storage"
	"photoshare/internal/testutil"
)

// setupTestServer spins up the full route surface against an in-memory
// database and a temp-dir local storage backend.
func setupTestServer(t *testing.T) (*Server, *fiber.App) {
	t.Helper()
	t.Setenv("APP_ENV", "test")

	cfg := &config.Config{
		SecretKey:       "handler-test-secret-key-0123456789",
		Env:             "test",
		UploadDir:       t.TempDir(),
		MaxUploadSizeMB: 10,
	}
	middleware.InitMiddleware(cfg)

	dsn := fmt.Sprintf("file:%x?mode=memory&cache=shared", sha1.Sum([]byte(t.Name())))
	db, err := gorm.Open(sqlite.Open(dsn), &gorm.Config{
		Logger: logger.Default.LogMode(logger.Silent),
	})
	require.NoError(t, err)
	require.NoError(t, database.Migrate(db))
	t.Cleanup(func() {
		if sqlDB, err := db.DB(); err == nil {
			sqlDB.Close()
		}
	})

	backend, err := storage.NewLocalBackend(cfg.UploadDir, "")
	require.NoError(t, err)

	srv, err := NewServerWithDeps(cfg, db, nil, backend)
	require.NoError(t, err)

	app := fiber.New(fiber.Config{BodyLimit: cfg.MaxUploadSizeMB * 1024 * 1024})
	srv.SetupRoutes(app)
	return srv, app
}

func doJSON(t *testing.T, app *fiber.App, method, path, token string, body any) (*http.Response, map[string]any) {
	t.Helper()
	var reader io.Reader
	if body != nil {
		raw, err := json.Marshal(body)
		require.NoError(t, err)
		reader = bytes.NewReader(raw)
	}
	req := httptest.NewRequest(method, path, reader)
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}

	resp, err := app.Test(req, 10000)
	require.NoError(t, err)

	var decoded map[string]any
	raw, err := io.ReadAll(resp.Body)
	require.NoError(t, err)
	if len(raw) > 0 {
		require.NoError(t, json.Unmarshal(raw, &decoded), "body: %s", raw)
	}
	return resp, decoded
}

// registerUser signs up an account and returns its auth token.
func registerUser(t *testing.T, app *fiber.App, username, role string) string {
	t.Helper()
	resp, body := doJSON(t, app, http.MethodPost, "/register", "", map[string]string{
		"username": username,
		"password": "goodpass1",
		"role":     role,
	})
	require.Equal(t, http.StatusCreated, resp.StatusCode)
	token, _ := body["token"].(string)
	require.NotEmpty(t, token)
	return token
}

// multipartPhoto builds a multipart body holding a decodable test image.
func multipartPhoto(t *testing.T, title string, fields ...map[string]string) (*bytes.Buffer, string) {
	t.Helper()
	buf := bytes.NewBuffer(nil)
	mw := multipart.NewWriter(buf)

	part, err := mw.CreateFormFile("photo", "test.png")
	require.NoError(t, err)
	_, err = part.Write(testutil.EncodePNG(t, testutil.SolidImage(1200, 1200, color.RGBA{R: 255, G: 180, B: 150, A: 255})))
	require.NoError(t, err)

	require.NoError(t, mw.WriteField("title", title))
	for _, extra := range fields {
		for k, v := range extra {
			require.NoError(t, mw.WriteField(k, v))
		}
	}
	require.NoError(t, mw.Close())
	return buf, mw.FormDataContentType()
}

// uploadPhoto posts a multipart photo and returns its ID.
func uploadPhoto(t *testing.T, app *fiber.App, token, title string, fields map[string]string) uint {
	t.Helper()
	buf, contentType := multipartPhoto(t, title, fields)

	req := httptest.NewRequest(http.MethodPost, "/upload", buf)
	req.Header.Set("Content-Type", contentType)
	req.Header.Set("Authorization", "Bearer "+token)

	resp, err := app.Test(req, 10000)
	require.NoError(t, err)
	require.Equal(t, http.StatusCreated, resp.StatusCode)

	var body map[string]any
	require.NoError(t, json.NewDecoder(resp.Body).Decode(&body))
	photo, _ := body["photo"].(map[string]any)
	require.NotNil(t, photo)
	id, _ := photo["id"].(float64)
	require.NotZero(t, id)
	return uint(id)
}
