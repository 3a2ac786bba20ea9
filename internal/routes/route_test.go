package routes

import (
	"bytes"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/fasthttp/websocket"
	"github.com/gin-gonic/gin"
	"github.com/golang-jwt/jwt/v5"
	"github.com/joshua-takyi/crumbs/internal/config"
	"github.com/joshua-takyi/crumbs/internal/container"
	"github.com/joshua-takyi/crumbs/internal/helpers"
	"github.com/joshua-takyi/crumbs/internal/memrepo"
	"github.com/joshua-takyi/crumbs/internal/models"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func init() {
	gin.SetMode(gin.TestMode)
}

type tokenTable map[string]*helpers.CustomClaims

func (t tokenTable) Verify(token string) (*helpers.CustomClaims, error) {
	if c, ok := t[token]; ok {
		return c, nil
	}
	return nil, errors.New("unknown token")
}

func claims(sub, name string) *helpers.CustomClaims {
	c := &helpers.CustomClaims{UserMetadata: map[string]interface{}{"full_name": name}}
	c.RegisteredClaims = jwt.RegisteredClaims{Subject: sub}
	return c
}

type testAPI struct {
	router *gin.Engine
	store  *memrepo.Store
}

func newTestAPI(t *testing.T) *testAPI {
	t.Helper()
	store := memrepo.New()
	cfg := &config.Config{
		Environment:    "test",
		FrontendURL:    "http://localhost:5173",
		AllowedOrigins: []string{"http://localhost:5173"},
		SearchDelay:    50 * time.Millisecond,
		WriteRateLimit: 1000,
	}
	c := container.Build(cfg, memrepo.DiscardLogger(), nil, container.Repos{
		Identity:  &memrepo.Identity{},
		Locations: store,
		Reviews:   store,
		Users:     store,
	})
	c.Verifier = tokenTable{
		"alice-token": claims("alice", "Alice"),
		"bob-token":   claims("bob", "Bob"),
	}
	return &testAPI{router: SetupRoutes(c), store: store}
}

type envelope struct {
	Success bool            `json:"success"`
	Data    json.RawMessage `json:"data"`
	Error   string          `json:"error"`
	Kind    string          `json:"kind"`
	Total   int             `json:"total"`
}

func (a *testAPI) do(t *testing.T, method, path, token string, body any) (int, envelope) {
	t.Helper()
	var buf bytes.Buffer
	if body != nil {
		require.NoError(t, json.NewEncoder(&buf).Encode(body))
	}
	req := httptest.NewRequest(method, path, &buf)
	req.Header.Set("Content-Type", "application/json")
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}
	w := httptest.NewRecorder()
	a.router.ServeHTTP(w, req)

	var env envelope
	if w.Body.Len() > 0 {
		require.NoError(t, json.Unmarshal(w.Body.Bytes(), &env), w.Body.String())
	}
	return w.Code, env
}

func TestHealth(t *testing.T) {
	api := newTestAPI(t)
	req := httptest.NewRequest(http.MethodGet, "/api/v1/health", nil)
	w := httptest.NewRecorder()
	api.router.ServeHTTP(w, req)
	assert.Equal(t, http.StatusOK, w.Code)
	assert.NotEmpty(t, w.Header().Get("X-Request-ID"))
}

func TestListLocations(t *testing.T) {
	api := newTestAPI(t)

	code, env := api.do(t, http.MethodGet, "/api/v1/locations?sort=rating&limit=3", "", nil)
	require.Equal(t, http.StatusOK, code)
	assert.Equal(t, len(models.FixtureLocations), env.Total)

	var locs []models.Location
	require.NoError(t, json.Unmarshal(env.Data, &locs))
	require.Len(t, locs, 3)
	assert.Equal(t, "District Market", locs[0].Name)

	code, _ = api.do(t, http.MethodGet, "/api/v1/locations?limit=-1", "", nil)
	assert.Equal(t, http.StatusBadRequest, code)
}

func TestLocationNotFound(t *testing.T) {
	api := newTestAPI(t)
	code, env := api.do(t, http.MethodGet, "/api/v1/locations/nowhere", "", nil)
	assert.Equal(t, http.StatusNotFound, code)
	assert.Equal(t, string(models.KindNotFound), env.Kind)
}

func TestReviewFlow(t *testing.T) {
	api := newTestAPI(t)
	body := map[string]any{"overall_rating": 4, "text": "Solid teriyaki.", "tags": []string{"Crowded"}}

	code, env := api.do(t, http.MethodPost, "/api/v1/locations/the-8/reviews", "", body)
	assert.Equal(t, http.StatusUnauthorized, code)
	assert.Equal(t, string(models.KindUnauthenticated), env.Kind)

	code, env = api.do(t, http.MethodPost, "/api/v1/locations/the-8/reviews", "alice-token", body)
	require.Equal(t, http.StatusCreated, code, env.Error)
	var review models.Review
	require.NoError(t, json.Unmarshal(env.Data, &review))
	assert.Equal(t, []string{"Crowded"}, review.Tags)
	assert.Equal(t, "Alice", review.UserName)

	code, env = api.do(t, http.MethodPost, "/api/v1/locations/the-8/reviews", "alice-token", body)
	assert.Equal(t, http.StatusConflict, code)
	assert.Equal(t, string(models.KindDuplicateReview), env.Kind)

	code, env = api.do(t, http.MethodGet, "/api/v1/locations/the-8", "alice-token", nil)
	require.Equal(t, http.StatusOK, code)
	var detail struct {
		HasReviewed bool `json:"has_reviewed"`
		ReviewCount int  `json:"review_count"`
	}
	require.NoError(t, json.Unmarshal(env.Data, &detail))
	assert.True(t, detail.HasReviewed)
	assert.Equal(t, 157, detail.ReviewCount)

	code, env = api.do(t, http.MethodPost, "/api/v1/reviews/"+review.ID+"/upvote", "bob-token", nil)
	require.Equal(t, http.StatusOK, code, env.Error)
	code, env = api.do(t, http.MethodPost, "/api/v1/reviews/"+review.ID+"/upvote", "bob-token", nil)
	assert.Equal(t, http.StatusConflict, code)
	assert.Equal(t, string(models.KindDuplicateVote), env.Kind)
	assert.Equal(t, 1, api.store.Users["alice"].Crumbs)

	code, _ = api.do(t, http.MethodDelete, "/api/v1/reviews/"+review.ID, "bob-token", nil)
	assert.Equal(t, http.StatusForbidden, code)
	code, _ = api.do(t, http.MethodDelete, "/api/v1/reviews/"+review.ID, "alice-token", nil)
	assert.Equal(t, http.StatusOK, code)

	code, env = api.do(t, http.MethodGet, "/api/v1/locations/the-8/reviews", "", nil)
	require.Equal(t, http.StatusOK, code)
	assert.JSONEq(t, "[]", string(env.Data))
}

func TestInvalidReviewIsRejected(t *testing.T) {
	api := newTestAPI(t)
	code, env := api.do(t, http.MethodPost, "/api/v1/locations/the-8/reviews", "alice-token",
		map[string]any{"overall_rating": 0, "text": "no stars"})
	assert.Equal(t, http.StatusBadRequest, code)
	assert.Equal(t, string(models.KindValidation), env.Kind)
	assert.Empty(t, api.store.Reviews)
}

func TestProfile(t *testing.T) {
	api := newTestAPI(t)

	code, env := api.do(t, http.MethodGet, "/api/v1/profile", "bob-token", nil)
	require.Equal(t, http.StatusOK, code)
	var user models.User
	require.NoError(t, json.Unmarshal(env.Data, &user))
	assert.Equal(t, "Bob", user.DisplayName)

	code, env = api.do(t, http.MethodPatch, "/api/v1/profile", "bob-token",
		map[string]any{"bio": strings.Repeat("x", 300)})
	require.Equal(t, http.StatusOK, code)
	require.NoError(t, json.Unmarshal(env.Data, &user))
	assert.Len(t, user.Bio, models.MaxBioLength)

	code, _ = api.do(t, http.MethodGet, "/api/v1/users/bob", "", nil)
	assert.Equal(t, http.StatusOK, code)

	code, _ = api.do(t, http.MethodGet, "/api/v1/profile", "", nil)
	assert.Equal(t, http.StatusUnauthorized, code)
}

func TestSearch(t *testing.T) {
	api := newTestAPI(t)
	code, env := api.do(t, http.MethodGet, "/api/v1/search?q=suz", "", nil)
	require.Equal(t, http.StatusOK, code)

	var res struct {
		Schools   []models.School   `json:"schools"`
		Locations []models.Location `json:"locations"`
	}
	require.NoError(t, json.Unmarshal(env.Data, &res))
	require.Len(t, res.Locations, 1)
	assert.Equal(t, "Suzzallo Café", res.Locations[0].Name)
	assert.Empty(t, res.Schools)
}

func TestLiveSearchAnswersLatestQuery(t *testing.T) {
	api := newTestAPI(t)
	srv := httptest.NewServer(api.router)
	defer srv.Close()

	url := "ws" + strings.TrimPrefix(srv.URL, "http") + "/api/v1/search/live"
	conn, _, err := websocket.DefaultDialer.Dial(url, nil)
	require.NoError(t, err)
	defer conn.Close()

	for _, q := range []string{"s", "su", "suz"} {
		require.NoError(t, conn.WriteJSON(map[string]string{"q": q}))
	}

	require.NoError(t, conn.SetReadDeadline(time.Now().Add(3*time.Second)))
	var msg struct {
		Seq     uint64 `json:"seq"`
		Q       string `json:"q"`
		Results struct {
			Locations []models.Location `json:"locations"`
		} `json:"results"`
	}
	for msg.Q != "suz" {
		require.NoError(t, conn.ReadJSON(&msg))
	}
	require.Len(t, msg.Results.Locations, 1)
	assert.Equal(t, "Suzzallo Café", msg.Results.Locations[0].Name)
}

func TestLiveSearchRejectsForeignOrigin(t *testing.T) {
	api := newTestAPI(t)
	srv := httptest.NewServer(api.router)
	defer srv.Close()

	url := "ws" + strings.TrimPrefix(srv.URL, "http") + "/api/v1/search/live"
	_, resp, err := websocket.DefaultDialer.Dial(url, http.Header{"Origin": []string{"https://evil.example"}})
	require.Error(t, err)
	if resp != nil {
		assert.Equal(t, http.StatusForbidden, resp.StatusCode)
	}
}
