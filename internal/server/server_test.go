package server

import (
	"bytes"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"admitcast/internal/chat"
	"admitcast/internal/college"
	"admitcast/internal/predict"
	"admitcast/internal/wizard"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/goleak"
)

func TestMain(m *testing.M) {
	gin.SetMode(gin.TestMode)
	goleak.VerifyTestMain(m)
}

type testAPI struct {
	t      *testing.T
	router *gin.Engine
	store  *Store
}

func newTestAPI(t *testing.T) *testAPI {
	t.Helper()
	deps := wizard.Deps{
		Catalog:   college.NewCatalog(college.Fallback()),
		Predictor: predict.New(predict.NewSeeded(1)),
		Chat:      chat.NewStub(5 * time.Millisecond),
	}
	store := NewStore(deps)
	t.Cleanup(store.CloseAll)
	return &testAPI{
		t:      t,
		store:  store,
		router: NewRouter(RouterConfig{Deps: deps, Store: store}),
	}
}

func (a *testAPI) do(method, path string, body any) *httptest.ResponseRecorder {
	a.t.Helper()
	var buf bytes.Buffer
	if s, ok := body.(string); ok {
		buf.WriteString(s)
	} else if body != nil {
		require.NoError(a.t, json.NewEncoder(&buf).Encode(body))
	}
	req := httptest.NewRequest(method, path, &buf)
	req.Header.Set("Content-Type", "application/json")
	w := httptest.NewRecorder()
	a.router.ServeHTTP(w, req)
	return w
}

func decode[T any](t *testing.T, w *httptest.ResponseRecorder) T {
	t.Helper()
	var v T
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &v), w.Body.String())
	return v
}

func TestHealthCheck(t *testing.T) {
	api := newTestAPI(t)
	w := api.do(http.MethodGet, "/healthcheck", nil)
	assert.Equal(t, http.StatusOK, w.Code)
	assert.JSONEq(t, `{"status":"ok"}`, w.Body.String())
}

func TestListColleges(t *testing.T) {
	api := newTestAPI(t)
	w := api.do(http.MethodGet, "/api/colleges", nil)
	require.Equal(t, http.StatusOK, w.Code)

	got := decode[[]college.College](t, w)
	require.Len(t, got, 3)
	assert.Equal(t, "UCB", got[0].ID)
	assert.Equal(t, college.Range{Low: 1330, High: 1530}, got[0].SATRange)
}

func TestPredict_Stateless(t *testing.T) {
	api := newTestAPI(t)

	w := api.do(http.MethodPost, "/api/predict", map[string]any{
		"college_id": "UCB",
		"profile":    map[string]any{"gpa": 4.0, "sat_score": 1550},
	})
	require.Equal(t, http.StatusOK, w.Code, w.Body.String())
	res := decode[predict.Result](t, w)
	assert.InDelta(t, 15, res.Factors[predict.FactorGPA], 1e-9)
	assert.InDelta(t, 10, res.Factors[predict.FactorSAT], 1e-9)
	assert.Contains(t, res.Advice, "UC Berkeley")

	w = api.do(http.MethodPost, "/api/predict", map[string]any{"college_id": "MIT"})
	assert.Equal(t, http.StatusNotFound, w.Code)

	w = api.do(http.MethodPost, "/api/predict", "{not json")
	assert.Equal(t, http.StatusBadRequest, w.Code)
}

func TestSessionFlow(t *testing.T) {
	api := newTestAPI(t)

	w := api.do(http.MethodPost, "/api/sessions", nil)
	require.Equal(t, http.StatusCreated, w.Code)
	created := decode[struct {
		ID    string `json:"id"`
		State string `json:"state"`
	}](t, w)
	assert.Equal(t, "landing", created.State)
	base := "/api/sessions/" + created.ID

	// Selecting before the profile is complete is refused.
	w = api.do(http.MethodPost, base+"/select", map[string]string{"college_id": "UCB"})
	assert.Equal(t, http.StatusConflict, w.Code)

	require.Equal(t, http.StatusOK, api.do(http.MethodPost, base+"/events/start", nil).Code)
	require.Equal(t, http.StatusOK, api.do(http.MethodPut, base+"/academics", map[string]string{"gpa": "3.95", "ap_courses": "6"}).Code)
	api.do(http.MethodPost, base+"/events/next", nil)
	require.Equal(t, http.StatusOK, api.do(http.MethodPut, base+"/scores", map[string]string{"sat_score": "1540"}).Code)
	api.do(http.MethodPost, base+"/events/next", nil)
	require.Equal(t, http.StatusOK, api.do(http.MethodPut, base+"/extracurriculars", map[string]string{"leadership": "Robotics captain", "activities": "Band, Tutoring"}).Code)
	api.do(http.MethodPost, base+"/events/next", nil)
	require.Equal(t, http.StatusOK, api.do(http.MethodPut, base+"/demographics", map[string]any{"state": "California", "first_gen": true}).Code)

	w = api.do(http.MethodPost, base+"/events/next", nil)
	step := decode[struct {
		State string `json:"state"`
		Step  int    `json:"step"`
	}](t, w)
	assert.Equal(t, "college_select", step.State)
	assert.Equal(t, 5, step.Step)

	w = api.do(http.MethodPost, base+"/select", map[string]string{"college_id": "MIT"})
	assert.Equal(t, http.StatusNotFound, w.Code)

	w = api.do(http.MethodPost, base+"/select", map[string]string{"college_id": "UCLA"})
	require.Equal(t, http.StatusOK, w.Code, w.Body.String())
	res := decode[predict.Result](t, w)
	assert.GreaterOrEqual(t, res.Probability, 0.05)
	assert.LessOrEqual(t, res.Probability, 0.95)

	w = api.do(http.MethodPost, base+"/select", map[string]string{"college_id": "USC"})
	assert.Equal(t, http.StatusConflict, w.Code, "results screen needs try-another first")

	w = api.do(http.MethodPatch, base+"/profile", map[string]any{"gpa": 2.5})
	require.Equal(t, http.StatusOK, w.Code)
	updated := decode[struct {
		Result predict.Result `json:"result"`
	}](t, w)
	assert.InDelta(t, -10, updated.Result.Factors[predict.FactorGPA], 1e-9)

	w = api.do(http.MethodGet, base, nil)
	require.Equal(t, http.StatusOK, w.Code)
	snap := decode[wizard.Snapshot](t, w)
	assert.Equal(t, wizard.StateResults, snap.State)
	require.NotNil(t, snap.College)
	assert.Equal(t, "UCLA", snap.College.ID)
	assert.Len(t, snap.Profile.Extracurriculars, 3)
	assert.True(t, snap.Profile.Demographics.FirstGen)

	w = api.do(http.MethodPost, base+"/events/try-another", nil)
	assert.Contains(t, w.Body.String(), "college_select")

	assert.Equal(t, http.StatusNoContent, api.do(http.MethodDelete, base, nil).Code)
	assert.Equal(t, http.StatusNotFound, api.do(http.MethodGet, base, nil).Code)
}

func TestFireEvent_Errors(t *testing.T) {
	api := newTestAPI(t)
	sess := api.store.Create()
	base := "/api/sessions/" + sess.ID()

	assert.Equal(t, http.StatusBadRequest, api.do(http.MethodPost, base+"/events/jump", nil).Code)
	assert.Equal(t, http.StatusBadRequest, api.do(http.MethodPost, base+"/events/select", nil).Code)
	assert.Equal(t, http.StatusNotFound, api.do(http.MethodPost, "/api/sessions/nope/events/next", nil).Code)

	// Not legal from the landing screen: stays put.
	w := api.do(http.MethodPost, base+"/events/next", nil)
	require.Equal(t, http.StatusOK, w.Code)
	assert.JSONEq(t, `{"state":"landing","step":0,"changed":false}`, w.Body.String())
}

func TestChat(t *testing.T) {
	api := newTestAPI(t)
	sess := api.store.Create()
	base := "/api/sessions/" + sess.ID()

	w := api.do(http.MethodPost, base+"/chat", map[string]string{"message": chat.QuestionImprove})
	assert.Equal(t, http.StatusAccepted, w.Code)

	require.Eventually(t, func() bool {
		return len(sess.Transcript()) == 2
	}, time.Second, 5*time.Millisecond)

	w = api.do(http.MethodGet, base+"/chat", nil)
	msgs := decode[[]chat.Message](t, w)
	require.Len(t, msgs, 2)
	assert.Equal(t, chat.RoleAssistant, msgs[1].Role)

	assert.Equal(t, http.StatusBadRequest, api.do(http.MethodPost, base+"/chat", map[string]string{}).Code)
}
