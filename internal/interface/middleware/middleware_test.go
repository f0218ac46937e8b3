package middleware

import (
	"bytes"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/sirupsen/logrus"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/oksasatya/go-account-service/pkg/helpers"
)

func init() { gin.SetMode(gin.TestMode) }

type clock struct{ t time.Time }

func (c *clock) Now() time.Time { return c.t }

func authRouter(t *testing.T, clk *clock) (*gin.Engine, *helpers.JWTManager) {
	t.Helper()
	m, err := helpers.NewJWTManager("secret", helpers.DefaultTokenTTL, helpers.WithClock(clk.Now))
	require.NoError(t, err)
	r := gin.New()
	r.GET("/me", Auth(m), func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"id": c.GetString("userID"), "email": c.GetString("userEmail")})
	})
	return r, m
}

func doGet(r http.Handler, headers map[string]string) *httptest.ResponseRecorder {
	req := httptest.NewRequest(http.MethodGet, "/me", nil)
	for k, v := range headers {
		req.Header.Set(k, v)
	}
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)
	return w
}

func message(t *testing.T, w *httptest.ResponseRecorder) string {
	t.Helper()
	var body struct {
		Message string `json:"message"`
	}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &body))
	return body.Message
}

func TestAuth_Accepts(t *testing.T) {
	clk := &clock{t: time.Now()}
	r, m := authRouter(t, clk)
	token, _, err := m.Issue("u-1", "jane@x.com")
	require.NoError(t, err)

	for _, h := range []map[string]string{
		{"Authorization": "Bearer " + token},
		{"Authorization": "bearer " + token},
		{"x-access-token": token},
	} {
		w := doGet(r, h)
		require.Equal(t, http.StatusOK, w.Code, "headers %v", h)
		assert.JSONEq(t, `{"id":"u-1","email":"jane@x.com"}`, w.Body.String())
	}
}

func TestAuth_Rejects(t *testing.T) {
	issued := time.Now()
	clk := &clock{t: issued}
	r, m := authRouter(t, clk)
	token, _, err := m.Issue("u-1", "jane@x.com")
	require.NoError(t, err)

	w := doGet(r, nil)
	assert.Equal(t, http.StatusUnauthorized, w.Code)
	assert.Equal(t, MsgTokenRequired, message(t, w))

	w = doGet(r, map[string]string{"Authorization": "Bearer garbage"})
	assert.Equal(t, http.StatusUnauthorized, w.Code)
	assert.Equal(t, MsgTokenInvalid, message(t, w))

	other, err := helpers.NewJWTManager("other", helpers.DefaultTokenTTL, helpers.WithClock(clk.Now))
	require.NoError(t, err)
	forged, _, err := other.Issue("u-1", "jane@x.com")
	require.NoError(t, err)
	w = doGet(r, map[string]string{"Authorization": "Bearer " + forged})
	assert.Equal(t, MsgTokenInvalid, message(t, w))

	clk.t = issued.Add(2*time.Hour + time.Minute)
	w = doGet(r, map[string]string{"Authorization": "Bearer " + token})
	assert.Equal(t, http.StatusUnauthorized, w.Code)
	assert.Equal(t, MsgTokenExpired, message(t, w))
}

func TestRequestID(t *testing.T) {
	r := gin.New()
	r.Use(RequestIDMiddleware())
	r.GET("/", func(c *gin.Context) { c.String(http.StatusOK, c.GetString("request_id")) })

	w := httptest.NewRecorder()
	r.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/", nil))
	assert.NotEmpty(t, w.Body.String())
	assert.Equal(t, w.Body.String(), w.Header().Get(RequestIDHeader))

	const given = "0b9c3a5e-7d44-4c3b-a1a4-8e3f7f4b2c10"
	req := httptest.NewRequest(http.MethodGet, "/", nil)
	req.Header.Set(RequestIDHeader, given)
	w = httptest.NewRecorder()
	r.ServeHTTP(w, req)
	assert.Equal(t, given, w.Body.String())

	req = httptest.NewRequest(http.MethodGet, "/", nil)
	req.Header.Set(RequestIDHeader, "not an id")
	w = httptest.NewRecorder()
	r.ServeHTTP(w, req)
	assert.NotEqual(t, "not an id", w.Body.String())
}

func TestRealIP(t *testing.T) {
	r := gin.New()
	r.Use(RealIP())
	r.GET("/", func(c *gin.Context) { c.String(http.StatusOK, c.GetString("real_ip")) })

	req := httptest.NewRequest(http.MethodGet, "/", nil)
	req.Header.Set("X-Forwarded-For", "203.0.113.7, 10.0.0.1")
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)
	assert.Equal(t, "203.0.113.7", w.Body.String())

	req = httptest.NewRequest(http.MethodGet, "/", nil)
	req.Header.Set("X-Real-IP", "192.0.2.9")
	req.Header.Set("X-Forwarded-For", "203.0.113.7")
	w = httptest.NewRecorder()
	r.ServeHTTP(w, req)
	assert.Equal(t, "192.0.2.9", w.Body.String())

	req = httptest.NewRequest(http.MethodGet, "/", nil)
	req.Header.Set("CF-Connecting-IP", "198.51.100.2")
	req.Header.Set("X-Forwarded-For", "203.0.113.7")
	w = httptest.NewRecorder()
	r.ServeHTTP(w, req)
	assert.Equal(t, "198.51.100.2", w.Body.String())
}

func TestAccessLog(t *testing.T) {
	var buf bytes.Buffer
	logger := logrus.New()
	logger.SetOutput(&buf)
	logger.SetFormatter(&logrus.JSONFormatter{})

	r := gin.New()
	r.Use(RequestIDMiddleware(), AccessLog(logger))
	r.GET("/missing", func(c *gin.Context) { c.Status(http.StatusNotFound) })

	w := httptest.NewRecorder()
	r.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/missing", nil))

	var entry map[string]any
	require.NoError(t, json.Unmarshal(buf.Bytes(), &entry))
	assert.Equal(t, "warning", entry["level"])
	assert.Equal(t, "/missing", entry["path"])
	assert.Equal(t, float64(http.StatusNotFound), entry["status"])
	assert.Equal(t, w.Header().Get(RequestIDHeader), entry["request_id"])
}

func TestHTTPMetrics(t *testing.T) {
	reg := prometheus.NewRegistry()
	m := NewHTTPMetrics(reg)

	r := gin.New()
	r.Use(m.Handler())
	r.GET("/user/:id", func(c *gin.Context) { c.Status(http.StatusOK) })

	for _, p := range []string{"/user/1", "/user/2", "/nope"} {
		r.ServeHTTP(httptest.NewRecorder(), httptest.NewRequest(http.MethodGet, p, nil))
	}

	assert.Equal(t, 2.0, testutil.ToFloat64(m.requests.WithLabelValues("/user/:id", "GET", "200")))
	assert.Equal(t, 1.0, testutil.ToFloat64(m.requests.WithLabelValues("unmatched", "GET", "404")))
}
