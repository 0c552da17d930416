//go:build e2e
// +build e2e

package e2e_test

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log/slog"
	"mime/multipart"
	"net/http"
	"net/http/httptest"
	"os"
	"testing"
	"time"

	"farmbooking-go/internal/auth"
	"farmbooking-go/internal/config"
	"farmbooking-go/internal/db"
	calendardomain "farmbooking-go/internal/domain/calendar"
	identitydomain "farmbooking-go/internal/domain/identity"
	mediadomain "farmbooking-go/internal/domain/media"
	propertydomain "farmbooking-go/internal/domain/property"
	calendarrepo "farmbooking-go/internal/repository/postgres/calendar"
	identityrepo "farmbooking-go/internal/repository/postgres/identity"
	mediarepo "farmbooking-go/internal/repository/postgres/media"
	propertyrepo "farmbooking-go/internal/repository/postgres/property"
	"farmbooking-go/internal/storage"
	"farmbooking-go/internal/transport/httpserver"
	"farmbooking-go/internal/transport/httpserver/handler"
	authmw "farmbooking-go/internal/transport/httpserver/middleware"
	"farmbooking-go/pkg/logger"
	"github.com/google/uuid"
	"gorm.io/gorm"
)

type testEnv struct {
	server *httptest.Server
	db     *gorm.DB
}

func setupE2E(t *testing.T) *testEnv {
	t.Helper()

	dsn := os.Getenv("E2E_DB_DSN")
	if dsn == "" {
		t.Skip("E2E_DB_DSN not set; skipping e2e tests")
	}

	log := logger.New(io.Discard, slog.LevelError, "text")

	cfg := config.Config{
		DB: config.DBConfig{DSN: dsn},
		Auth: config.AuthConfig{
			JWTSecret: "e2e-secret",
			Issuer:    "farmbooking",
			AccessTTL: time.Hour,
		},
		Media: config.MediaConfig{
			UploadDir:     t.TempDir(),
			MaxImageBytes: 1 << 20,
			MaxVideoBytes: 4 << 20,
		},
	}

	dbConn, err := db.NewPostgres(cfg.DB, log)
	if err != nil {
		t.Fatalf("db connect: %v", err)
	}

	if err := db.Migrate(dbConn); err != nil {
		t.Fatalf("migrate: %v", err)
	}
	if err := cleanDB(dbConn); err != nil {
		t.Fatalf("clean db: %v", err)
	}

	store, err := storage.NewDiskStore(cfg.Media.UploadDir)
	if err != nil {
		t.Fatalf("disk store: %v", err)
	}

	identityRepo := identityrepo.NewPostgres(dbConn)
	propertyRepo := propertyrepo.NewPostgres(dbConn)
	calendarRepo := calendarrepo.NewPostgres(dbConn)
	mediaRepo := mediarepo.NewPostgres(dbConn)

	identityService := identitydomain.NewService(identityRepo)
	propertyService := propertydomain.NewService(propertyRepo, identityRepo)
	calendarService := calendardomain.NewService(calendarRepo, propertyRepo)
	mediaService := mediadomain.NewService(mediaRepo, store, propertyRepo, mediadomain.Limits{
		MaxImageBytes: cfg.Media.MaxImageBytes,
		MaxVideoBytes: cfg.Media.MaxVideoBytes,
	}, log)

	tokens := auth.NewManager(cfg.Auth.JWTSecret, cfg.Auth.Issuer, cfg.Auth.AccessTTL)
	handlers := handler.New(identityService, propertyService, calendarService, mediaService, tokens, log)
	authMiddleware := authmw.NewAuth(tokens, identityRepo, log)

	router := httpserver.NewRouter(cfg, handlers, authMiddleware, store.Root())
	server := httptest.NewServer(router)

	seedAdmin(t, dbConn)

	return &testEnv{server: server, db: dbConn}
}

func (e *testEnv) Close() {
	e.server.Close()
	sqlDB, err := e.db.DB()
	if err == nil {
		_ = sqlDB.Close()
	}
}

func cleanDB(dbConn *gorm.DB) error {
	return dbConn.WithContext(context.Background()).Exec(
		"TRUNCATE TABLE media_assets, day_records, properties, users CASCADE",
	).Error
}

func seedAdmin(t *testing.T, dbConn *gorm.DB) {
	t.Helper()
	hash, err := auth.HashPassword("admin-pass")
	if err != nil {
		t.Fatalf("hash password: %v", err)
	}
	admin := identitydomain.Identity{
		ID:           uuid.NewString(),
		Username:     "root",
		PasswordHash: hash,
		Role:         identitydomain.RoleAdmin,
		IsActive:     true,
	}
	if err := dbConn.Create(&admin).Error; err != nil {
		t.Fatalf("seed admin: %v", err)
	}
}

func requestJSON(t *testing.T, client *http.Client, method, url, token string, payload interface{}) (*http.Response, []byte) {
	t.Helper()

	var body io.Reader
	if payload != nil {
		data, err := json.Marshal(payload)
		if err != nil {
			t.Fatalf("marshal payload: %v", err)
		}
		body = bytes.NewReader(data)
	}

	req, err := http.NewRequest(method, url, body)
	if err != nil {
		t.Fatalf("new request: %v", err)
	}
	if payload != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}

	resp, err := client.Do(req)
	if err != nil {
		t.Fatalf("do request: %v", err)
	}
	defer resp.Body.Close()

	respBody, err := io.ReadAll(resp.Body)
	if err != nil {
		t.Fatalf("read response: %v", err)
	}

	return resp, respBody
}

type errorEnvelope struct {
	Error errorBody `json:"error"`
}

type errorBody struct {
	Code    string `json:"code"`
	Message string `json:"message"`
}

type tokenResponse struct {
	AccessToken string `json:"access_token"`
	TokenType   string `json:"token_type"`
	Role        string `json:"role"`
	Username    string `json:"username"`
}

type farmhouseResponse struct {
	ID       string  `json:"id"`
	Name     string  `json:"name"`
	OwnerID  string  `json:"owner_id"`
	Size     *int    `json:"size"`
	Location *string `json:"location"`
}

type dayStatusResponse struct {
	Day         string  `json:"day"`
	IsBooked    bool    `json:"is_booked"`
	Note        *string `json:"note"`
	AdminBooked bool    `json:"admin_booked"`
}

type mediaResponse struct {
	ID  string `json:"id"`
	URL string `json:"url"`
}

type pagedOwnersResponse struct {
	Items []struct {
		ID       string `json:"id"`
		Username string `json:"username"`
	} `json:"items"`
	Total int64 `json:"total"`
	Page  int   `json:"page"`
	Pages int   `json:"pages"`
}

func login(t *testing.T, env *testEnv, username, password string) tokenResponse {
	t.Helper()
	resp, body := requestJSON(t, env.server.Client(), http.MethodPost, env.server.URL+"/auth/login", "", map[string]string{
		"username": username,
		"password": password,
	})
	if resp.StatusCode != http.StatusOK {
		t.Fatalf("login %s: status %d body %s", username, resp.StatusCode, body)
	}
	var token tokenResponse
	if err := json.Unmarshal(body, &token); err != nil {
		t.Fatalf("unmarshal token: %v", err)
	}
	return token
}

func onboardOwner(t *testing.T, env *testEnv, adminToken, username string) farmhouseResponse {
	t.Helper()
	resp, body := requestJSON(t, env.server.Client(), http.MethodPost, env.server.URL+"/admin/owners/create", adminToken, map[string]interface{}{
		"username":       username,
		"password":       "owner-pass",
		"email":          username + "@example.com",
		"phone":          "+1 202 555 0100",
		"farmhouse_name": "Finca " + username,
		"size":           4,
		"location":       "Valle",
	})
	if resp.StatusCode != http.StatusCreated {
		t.Fatalf("onboard %s: status %d body %s", username, resp.StatusCode, body)
	}
	var farmhouse farmhouseResponse
	if err := json.Unmarshal(body, &farmhouse); err != nil {
		t.Fatalf("unmarshal farmhouse: %v", err)
	}
	return farmhouse
}

func futureDate(days int) string {
	return time.Now().UTC().AddDate(0, 0, days).Format("2006-01-02")
}

func TestLoginAndMe(t *testing.T) {
	env := setupE2E(t)
	defer env.Close()

	token := login(t, env, "root", "admin-pass")
	if token.Role != "admin" || token.TokenType != "bearer" {
		t.Fatalf("unexpected token response %+v", token)
	}

	resp, body := requestJSON(t, env.server.Client(), http.MethodGet, env.server.URL+"/me", token.AccessToken, nil)
	if resp.StatusCode != http.StatusOK {
		t.Fatalf("me: status %d body %s", resp.StatusCode, body)
	}

	resp, body = requestJSON(t, env.server.Client(), http.MethodPost, env.server.URL+"/auth/login", "", map[string]string{
		"username": "root",
		"password": "wrong",
	})
	if resp.StatusCode != http.StatusUnauthorized {
		t.Fatalf("wrong password: status %d body %s", resp.StatusCode, body)
	}
	var envlp errorEnvelope
	if err := json.Unmarshal(body, &envlp); err != nil || envlp.Error.Code != "invalid_credentials" {
		t.Fatalf("unexpected error body %s", body)
	}
}

func TestOwnerLifecycle(t *testing.T) {
	env := setupE2E(t)
	defer env.Close()

	adminToken := login(t, env, "root", "admin-pass")
	farmhouse := onboardOwner(t, env, adminToken.AccessToken, "maria")

	ownerToken := login(t, env, "maria", "owner-pass")
	if ownerToken.Role != "owner" {
		t.Fatalf("unexpected role %q", ownerToken.Role)
	}

	resp, body := requestJSON(t, env.server.Client(), http.MethodGet, env.server.URL+"/me/farmhouses", ownerToken.AccessToken, nil)
	if resp.StatusCode != http.StatusOK {
		t.Fatalf("my farmhouses: status %d body %s", resp.StatusCode, body)
	}
	var mine []farmhouseResponse
	if err := json.Unmarshal(body, &mine); err != nil {
		t.Fatalf("unmarshal farmhouses: %v", err)
	}
	if len(mine) != 1 || mine[0].ID != farmhouse.ID {
		t.Fatalf("expected the onboarded farmhouse, got %+v", mine)
	}

	// Deactivate the owner and verify login stops working.
	resp, body = requestJSON(t, env.server.Client(), http.MethodPost, env.server.URL+"/admin/owners/"+mine[0].OwnerID+"/set-active", adminToken.AccessToken, map[string]bool{"active": false})
	if resp.StatusCode != http.StatusNoContent {
		t.Fatalf("set-active: status %d body %s", resp.StatusCode, body)
	}
	resp, _ = requestJSON(t, env.server.Client(), http.MethodPost, env.server.URL+"/auth/login", "", map[string]string{
		"username": "maria", "password": "owner-pass",
	})
	if resp.StatusCode != http.StatusForbidden {
		t.Fatalf("disabled owner login: status %d", resp.StatusCode)
	}

	// Reset password, re-enable, and log in with the new password.
	resp, _ = requestJSON(t, env.server.Client(), http.MethodPost, env.server.URL+"/admin/owners/"+mine[0].OwnerID+"/set-active", adminToken.AccessToken, map[string]bool{"active": true})
	if resp.StatusCode != http.StatusNoContent {
		t.Fatalf("re-enable: status %d", resp.StatusCode)
	}
	resp, _ = requestJSON(t, env.server.Client(), http.MethodPost, env.server.URL+"/admin/owners/"+mine[0].OwnerID+"/reset-password", adminToken.AccessToken, map[string]string{"new_password": "brand-new"})
	if resp.StatusCode != http.StatusNoContent {
		t.Fatalf("reset-password: status %d", resp.StatusCode)
	}
	login(t, env, "maria", "brand-new")
}

func TestCalendarFlow(t *testing.T) {
	env := setupE2E(t)
	defer env.Close()

	adminToken := login(t, env, "root", "admin-pass")
	farmhouse := onboardOwner(t, env, adminToken.AccessToken, "maria")
	ownerToken := login(t, env, "maria", "owner-pass")

	base := env.server.URL + "/farmhouses/" + farmhouse.ID + "/status"
	note := "personal stay"

	// Owner books two future days.
	resp, body := requestJSON(t, env.server.Client(), http.MethodPut, base, ownerToken.AccessToken, []map[string]interface{}{
		{"day": futureDate(3), "is_booked": true, "note": note},
		{"day": futureDate(4), "is_booked": true},
	})
	if resp.StatusCode != http.StatusNoContent {
		t.Fatalf("owner upsert: status %d body %s", resp.StatusCode, body)
	}

	// Admin locks a third day.
	resp, body = requestJSON(t, env.server.Client(), http.MethodPut, base, adminToken.AccessToken, []map[string]interface{}{
		{"day": futureDate(5), "is_booked": true},
	})
	if resp.StatusCode != http.StatusNoContent {
		t.Fatalf("admin upsert: status %d body %s", resp.StatusCode, body)
	}

	resp, body = requestJSON(t, env.server.Client(), http.MethodGet,
		fmt.Sprintf("%s?start=%s&end=%s", base, futureDate(3), futureDate(5)), ownerToken.AccessToken, nil)
	if resp.StatusCode != http.StatusOK {
		t.Fatalf("get statuses: status %d body %s", resp.StatusCode, body)
	}
	var statuses []dayStatusResponse
	if err := json.Unmarshal(body, &statuses); err != nil {
		t.Fatalf("unmarshal statuses: %v", err)
	}
	if len(statuses) != 3 {
		t.Fatalf("expected 3 records, got %d: %s", len(statuses), body)
	}
	if statuses[0].Note == nil || *statuses[0].Note != note {
		t.Fatalf("expected note preserved, got %+v", statuses[0])
	}
	if statuses[0].AdminBooked || !statuses[2].AdminBooked {
		t.Fatalf("expected only the admin day locked, got %+v", statuses)
	}

	// Owner cannot touch the locked day, and the whole batch is discarded.
	resp, body = requestJSON(t, env.server.Client(), http.MethodPut, base, ownerToken.AccessToken, []map[string]interface{}{
		{"day": futureDate(6), "is_booked": true},
		{"day": futureDate(5), "is_booked": false},
	})
	if resp.StatusCode != http.StatusForbidden {
		t.Fatalf("locked day: status %d body %s", resp.StatusCode, body)
	}
	var envlp errorEnvelope
	if err := json.Unmarshal(body, &envlp); err != nil || envlp.Error.Code != "day_locked" {
		t.Fatalf("unexpected error body %s", body)
	}
	resp, body = requestJSON(t, env.server.Client(), http.MethodGet,
		fmt.Sprintf("%s?start=%s&end=%s", base, futureDate(6), futureDate(6)), ownerToken.AccessToken, nil)
	if resp.StatusCode != http.StatusOK {
		t.Fatalf("get statuses: status %d", resp.StatusCode)
	}
	if err := json.Unmarshal(body, &statuses); err != nil || len(statuses) != 0 {
		t.Fatalf("rejected batch must not write anything, got %s", body)
	}

	// Past dates reject the whole batch.
	resp, body = requestJSON(t, env.server.Client(), http.MethodPut, base, ownerToken.AccessToken, []map[string]interface{}{
		{"day": "2020-01-01", "is_booked": true},
	})
	if resp.StatusCode != http.StatusBadRequest {
		t.Fatalf("past date: status %d body %s", resp.StatusCode, body)
	}

	// Availability: the booked day hides the farmhouse, a free day shows it.
	resp, body = requestJSON(t, env.server.Client(), http.MethodGet,
		env.server.URL+"/farmhouses/available?date="+futureDate(3), adminToken.AccessToken, nil)
	if resp.StatusCode != http.StatusOK {
		t.Fatalf("available: status %d body %s", resp.StatusCode, body)
	}
	var available []farmhouseResponse
	if err := json.Unmarshal(body, &available); err != nil || len(available) != 0 {
		t.Fatalf("expected no availability on a booked day, got %s", body)
	}
	resp, body = requestJSON(t, env.server.Client(), http.MethodGet,
		env.server.URL+"/farmhouses/available?date="+futureDate(30), adminToken.AccessToken, nil)
	if resp.StatusCode != http.StatusOK {
		t.Fatalf("available: status %d body %s", resp.StatusCode, body)
	}
	if err := json.Unmarshal(body, &available); err != nil || len(available) != 1 {
		t.Fatalf("expected availability on a free day, got %s", body)
	}
}

func TestOwnerIsolation(t *testing.T) {
	env := setupE2E(t)
	defer env.Close()

	adminToken := login(t, env, "root", "admin-pass")
	farmhouse := onboardOwner(t, env, adminToken.AccessToken, "maria")
	onboardOwner(t, env, adminToken.AccessToken, "paula")
	paulaToken := login(t, env, "paula", "owner-pass")

	base := env.server.URL + "/farmhouses/" + farmhouse.ID + "/status"
	resp, body := requestJSON(t, env.server.Client(), http.MethodPut, base, paulaToken.AccessToken, []map[string]interface{}{
		{"day": futureDate(3), "is_booked": true},
	})
	if resp.StatusCode != http.StatusForbidden {
		t.Fatalf("foreign upsert: status %d body %s", resp.StatusCode, body)
	}

	resp, _ = requestJSON(t, env.server.Client(), http.MethodGet,
		fmt.Sprintf("%s?start=%s&end=%s", base, futureDate(1), futureDate(10)), paulaToken.AccessToken, nil)
	if resp.StatusCode != http.StatusForbidden {
		t.Fatalf("foreign read: status %d", resp.StatusCode)
	}

	// Owners are not allowed on admin routes.
	resp, _ = requestJSON(t, env.server.Client(), http.MethodGet, env.server.URL+"/admin/owners", paulaToken.AccessToken, nil)
	if resp.StatusCode != http.StatusForbidden {
		t.Fatalf("admin route as owner: status %d", resp.StatusCode)
	}
}

func TestOwnersPaging(t *testing.T) {
	env := setupE2E(t)
	defer env.Close()

	adminToken := login(t, env, "root", "admin-pass")
	for i := 0; i < 12; i++ {
		onboardOwner(t, env, adminToken.AccessToken, fmt.Sprintf("owner%02d", i))
	}

	resp, body := requestJSON(t, env.server.Client(), http.MethodGet,
		env.server.URL+"/admin/owners?page=2&page_size=10", adminToken.AccessToken, nil)
	if resp.StatusCode != http.StatusOK {
		t.Fatalf("list owners: status %d body %s", resp.StatusCode, body)
	}
	var page pagedOwnersResponse
	if err := json.Unmarshal(body, &page); err != nil {
		t.Fatalf("unmarshal page: %v", err)
	}
	if page.Total != 12 || page.Pages != 2 || page.Page != 2 || len(page.Items) != 2 {
		t.Fatalf("unexpected page %+v", page)
	}

	// Out-of-range pages clamp, unknown sizes fall back to the default.
	resp, body = requestJSON(t, env.server.Client(), http.MethodGet,
		env.server.URL+"/admin/owners?page=99&page_size=13", adminToken.AccessToken, nil)
	if resp.StatusCode != http.StatusOK {
		t.Fatalf("list owners: status %d body %s", resp.StatusCode, body)
	}
	if err := json.Unmarshal(body, &page); err != nil {
		t.Fatalf("unmarshal page: %v", err)
	}
	if page.Page != 1 || len(page.Items) != 12 {
		t.Fatalf("expected clamped single default-size page, got %+v", page)
	}
}

func TestMediaFlow(t *testing.T) {
	env := setupE2E(t)
	defer env.Close()

	adminToken := login(t, env, "root", "admin-pass")
	farmhouse := onboardOwner(t, env, adminToken.AccessToken, "maria")
	ownerToken := login(t, env, "maria", "owner-pass")

	var buf bytes.Buffer
	writer := multipart.NewWriter(&buf)
	part, err := writer.CreateFormFile("files", "front.jpg")
	if err != nil {
		t.Fatalf("create form file: %v", err)
	}
	if _, err := part.Write([]byte("jpeg bytes")); err != nil {
		t.Fatalf("write part: %v", err)
	}
	if err := writer.Close(); err != nil {
		t.Fatalf("close writer: %v", err)
	}

	url := env.server.URL + "/farmhouses/" + farmhouse.ID + "/media"
	req, err := http.NewRequest(http.MethodPost, url, &buf)
	if err != nil {
		t.Fatalf("new request: %v", err)
	}
	req.Header.Set("Content-Type", writer.FormDataContentType())
	req.Header.Set("Authorization", "Bearer "+ownerToken.AccessToken)

	resp, err := env.server.Client().Do(req)
	if err != nil {
		t.Fatalf("do request: %v", err)
	}
	body, _ := io.ReadAll(resp.Body)
	resp.Body.Close()
	if resp.StatusCode != http.StatusCreated {
		t.Fatalf("upload: status %d body %s", resp.StatusCode, body)
	}
	var uploaded []mediaResponse
	if err := json.Unmarshal(body, &uploaded); err != nil || len(uploaded) != 1 {
		t.Fatalf("unexpected upload response %s", body)
	}

	// The returned URL serves the file bytes back.
	resp, body = requestJSON(t, env.server.Client(), http.MethodGet, env.server.URL+uploaded[0].URL, "", nil)
	if resp.StatusCode != http.StatusOK || string(body) != "jpeg bytes" {
		t.Fatalf("serve media: status %d body %q", resp.StatusCode, body)
	}

	resp, body = requestJSON(t, env.server.Client(), http.MethodDelete, url+"/"+uploaded[0].ID, ownerToken.AccessToken, nil)
	if resp.StatusCode != http.StatusNoContent {
		t.Fatalf("delete media: status %d body %s", resp.StatusCode, body)
	}

	resp, body = requestJSON(t, env.server.Client(), http.MethodGet, url, ownerToken.AccessToken, nil)
	if resp.StatusCode != http.StatusOK {
		t.Fatalf("list media: status %d body %s", resp.StatusCode, body)
	}
	var listed []mediaResponse
	if err := json.Unmarshal(body, &listed); err != nil || len(listed) != 0 {
		t.Fatalf("expected empty media list, got %s", body)
	}
}
