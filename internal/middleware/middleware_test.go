package middleware

import (
	"bytes"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"clarifi/internal/config"
	"clarifi/internal/util"

	"github.com/gin-gonic/gin"
	"github.com/golang-jwt/jwt/v5"
	"github.com/rs/zerolog"
)

const testSecret = "test-secret"

func init() {
	gin.SetMode(gin.TestMode)
}

func newAuthEngine(cfg config.AuthConfig, production bool) *gin.Engine {
	r := gin.New()
	r.Use(ErrorHandler())
	r.GET("/who", AuthMiddleware(cfg, production), func(c *gin.Context) {
		user, ok := CurrentUser(c)
		if !ok {
			c.Status(http.StatusTeapot)
			return
		}
		util.Success(c, user)
	})
	return r
}

func doGet(r http.Handler, path string, headers map[string]string) *httptest.ResponseRecorder {
	req := httptest.NewRequest(http.MethodGet, path, nil)
	for k, v := range headers {
		req.Header.Set(k, v)
	}
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)
	return w
}

func decodeEnvelope(t *testing.T, w *httptest.ResponseRecorder) map[string]interface{} {
	t.Helper()
	var body map[string]interface{}
	if err := json.Unmarshal(w.Body.Bytes(), &body); err != nil {
		t.Fatalf("decode body %q: %v", w.Body.String(), err)
	}
	return body
}

func TestAuthMiddleware_ValidToken(t *testing.T) {
	r := newAuthEngine(config.AuthConfig{JWTSecret: testSecret}, true)
	token, err := util.GenerateToken(testSecret, "", "user-1", "u1@example.com", time.Hour)
	if err != nil {
		t.Fatalf("GenerateToken() error = %v", err)
	}

	w := doGet(r, "/who", map[string]string{"Authorization": "Bearer " + token})
	if w.Code != http.StatusOK {
		t.Fatalf("status = %d, body = %s", w.Code, w.Body.String())
	}
	data := decodeEnvelope(t, w)["data"].(map[string]interface{})
	if data["userId"] != "user-1" || data["email"] != "u1@example.com" {
		t.Errorf("identity = %v", data)
	}
}

func TestAuthMiddleware_QueryToken(t *testing.T) {
	r := newAuthEngine(config.AuthConfig{JWTSecret: testSecret}, true)
	token, _ := util.GenerateToken(testSecret, "", "user-2", "", time.Hour)

	w := doGet(r, "/who?token="+token, nil)
	if w.Code != http.StatusOK {
		t.Fatalf("status = %d, body = %s", w.Code, w.Body.String())
	}
}

func TestAuthMiddleware_Rejects(t *testing.T) {
	r := newAuthEngine(config.AuthConfig{JWTSecret: testSecret, Issuer: "https://id.example.com"}, true)

	wrongSecret, _ := util.GenerateToken("other-secret", "https://id.example.com", "user-1", "", time.Hour)
	wrongIssuer, _ := util.GenerateToken(testSecret, "https://evil.example.com", "user-1", "", time.Hour)
	expired, _ := jwt.NewWithClaims(jwt.SigningMethodHS256, &util.Claims{
		RegisteredClaims: jwt.RegisteredClaims{
			Subject:   "user-1",
			Issuer:    "https://id.example.com",
			ExpiresAt: jwt.NewNumericDate(time.Now().Add(-time.Minute)),
		},
	}).SignedString([]byte(testSecret))

	tests := []struct {
		name   string
		header string
	}{
		{"missing header", ""},
		{"not bearer", "Basic dXNlcjpwYXNz"},
		{"garbage", "Bearer not-a-jwt"},
		{"wrong secret", "Bearer " + wrongSecret},
		{"wrong issuer", "Bearer " + wrongIssuer},
		{"expired", "Bearer " + expired},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			headers := map[string]string{}
			if tt.header != "" {
				headers["Authorization"] = tt.header
			}
			w := doGet(r, "/who", headers)
			if w.Code != http.StatusUnauthorized {
				t.Fatalf("status = %d, want 401", w.Code)
			}
			body := decodeEnvelope(t, w)
			if body["status"] != util.StatusError || body["message"] != "unauthorized" {
				t.Errorf("body = %v, want normalized unauthorized", body)
			}
		})
	}
}

func TestAuthMiddleware_DevBypass(t *testing.T) {
	cfg := config.AuthConfig{DevBypassHeader: "X-Dev-User"}

	dev := newAuthEngine(cfg, false)
	w := doGet(dev, "/who", map[string]string{"X-Dev-User": "dev-user"})
	if w.Code != http.StatusOK {
		t.Fatalf("dev bypass status = %d, want 200", w.Code)
	}
	data := decodeEnvelope(t, w)["data"].(map[string]interface{})
	if data["userId"] != "dev-user" {
		t.Errorf("userId = %v, want dev-user", data["userId"])
	}

	prod := newAuthEngine(cfg, true)
	w = doGet(prod, "/who", map[string]string{"X-Dev-User": "dev-user"})
	if w.Code != http.StatusUnauthorized {
		t.Errorf("production bypass status = %d, want 401", w.Code)
	}
}

func TestErrorHandler_MapsKinds(t *testing.T) {
	tests := []struct {
		name    string
		err     error
		status  int
		message string
	}{
		{"validation", util.NewValidationError("amount", "is empty"), http.StatusBadRequest, "amount: is empty"},
		{"not found", util.NotFound("get"), http.StatusNotFound, "transaction not found"},
		{"store", util.NewTransactionError("list", errors.New("disk I/O error")), http.StatusInternalServerError, "list transaction: disk I/O error"},
		{"generic", errors.New("boom"), http.StatusInternalServerError, "boom"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			r := gin.New()
			r.Use(ErrorHandler())
			r.GET("/", func(c *gin.Context) { _ = c.Error(tt.err) })

			w := doGet(r, "/", nil)
			if w.Code != tt.status {
				t.Fatalf("status = %d, want %d", w.Code, tt.status)
			}
			if msg := decodeEnvelope(t, w)["message"]; msg != tt.message {
				t.Errorf("message = %v, want %q", msg, tt.message)
			}
		})
	}
}

func TestRequestLogger_WritesLineWithRequestID(t *testing.T) {
	var buf bytes.Buffer
	log := zerolog.New(&buf)

	r := gin.New()
	r.Use(RequestLogger(log), ErrorHandler())
	r.GET("/fail", func(c *gin.Context) { _ = c.Error(util.NotFound("get")) })

	w := doGet(r, "/fail", map[string]string{HeaderRequestID: "req-123"})
	if got := w.Header().Get(HeaderRequestID); got != "req-123" {
		t.Errorf("response request id = %q, want req-123", got)
	}

	var line map[string]interface{}
	if err := json.Unmarshal(bytes.TrimSpace(buf.Bytes()), &line); err != nil {
		t.Fatalf("decode log line %q: %v", buf.String(), err)
	}
	if line["request_id"] != "req-123" || line["path"] != "/fail" {
		t.Errorf("log line = %v", line)
	}
	if line["status"] != float64(http.StatusNotFound) || line["level"] != "warn" {
		t.Errorf("status/level = %v/%v, want 404/warn", line["status"], line["level"])
	}
	if !strings.Contains(line["error"].(string), "not found") {
		t.Errorf("error field = %v", line["error"])
	}

	buf.Reset()
	w = doGet(r, "/fail", nil)
	if w.Header().Get(HeaderRequestID) == "" {
		t.Error("generated request id missing")
	}
}
