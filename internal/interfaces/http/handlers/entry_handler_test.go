package handlers

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"stagepass.backend/internal/domain/entities"
	"stagepass.backend/internal/infrastructure/gateway"
)

func newEntryRouter(env *testEnv, user *entities.User) *gin.Engine {
	r := gin.New()
	h := NewEntryHandler(env.eligibility)
	ph := NewPaymentHandler(env.eligibility)
	auth := asUser(user)
	r.POST("/entries", auth, h.RequestEntry)
	r.GET("/entries", auth, h.ListMyEntries)
	r.GET("/contests/:id/entry", auth, h.EntryStatus)
	r.GET("/payments/verify/:reference", auth, ph.Verify)
	return r
}

func TestRequestEntry_PaymentRequired(t *testing.T) {
	env := newTestEnv(t)
	user := env.seedUser(t, "dancer@example.com", entities.UserRoleParticipant)
	contest := env.seedContest(t, 500000, true)
	r := newEntryRouter(env, user)

	w := postJSON(r, "/entries", gin.H{"contestId": contest.ID.String()})

	require.Equal(t, http.StatusOK, w.Code, w.Body.String())

	var decision entities.EntryDecision
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &decision))
	assert.Equal(t, entities.DecisionPaymentRequired, decision.Kind)
	assert.Equal(t, int64(500000), decision.AmountKobo)
	assert.NotEmpty(t, decision.Reference)
	assert.NotEmpty(t, decision.AccessCode)
}

func TestRequestEntry_InactiveContest(t *testing.T) {
	env := newTestEnv(t)
	user := env.seedUser(t, "dancer@example.com", entities.UserRoleParticipant)
	contest := env.seedContest(t, 500000, false)
	r := newEntryRouter(env, user)

	w := postJSON(r, "/entries", gin.H{"contestId": contest.ID.String()})

	assert.Equal(t, http.StatusConflict, w.Code)
	assert.Contains(t, w.Body.String(), "CONTEST_INACTIVE")
}

func TestRequestEntry_BadContestID(t *testing.T) {
	env := newTestEnv(t)
	user := env.seedUser(t, "dancer@example.com", entities.UserRoleParticipant)
	r := newEntryRouter(env, user)

	w := postJSON(r, "/entries", gin.H{"contestId": "not-a-uuid"})

	assert.Equal(t, http.StatusBadRequest, w.Code)
}

func TestRequestEntry_RepeatCallReturnsSameReference(t *testing.T) {
	env := newTestEnv(t)
	user := env.seedUser(t, "dancer@example.com", entities.UserRoleParticipant)
	contest := env.seedContest(t, 500000, true)
	r := newEntryRouter(env, user)

	w := postJSON(r, "/entries", gin.H{"contestId": contest.ID.String()})
	require.Equal(t, http.StatusOK, w.Code, w.Body.String())
	var first entities.EntryDecision
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &first))

	w = postJSON(r, "/entries", gin.H{"contestId": contest.ID.String()})
	require.Equal(t, http.StatusOK, w.Code, w.Body.String())
	var second entities.EntryDecision
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &second))

	assert.Equal(t, first.Reference, second.Reference)
}

func TestVerify_EndToEndSettlement(t *testing.T) {
	env := newTestEnv(t)
	user := env.seedUser(t, "dancer@example.com", entities.UserRoleParticipant)
	contest := env.seedContest(t, 500000, true)
	env.gateway.verifyFn = func(context.Context, string) (*gateway.VerifyResult, error) {
		return &gateway.VerifyResult{Success: true, AmountPaidKobo: 500000, GatewayStatus: "success"}, nil
	}
	r := newEntryRouter(env, user)

	w := postJSON(r, "/entries", gin.H{"contestId": contest.ID.String()})
	require.Equal(t, http.StatusOK, w.Code, w.Body.String())
	var decision entities.EntryDecision
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &decision))

	req := httptest.NewRequest(http.MethodGet, "/payments/verify/"+decision.Reference, nil)
	w = httptest.NewRecorder()
	r.ServeHTTP(w, req)

	require.Equal(t, http.StatusOK, w.Code, w.Body.String())

	var result entities.ReconciliationResult
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &result))
	assert.Equal(t, entities.PaymentStatusCompleted, result.Status)

	// the entry is now visible as settled through the status endpoint
	req = httptest.NewRequest(http.MethodGet, "/contests/"+contest.ID.String()+"/entry", nil)
	w = httptest.NewRecorder()
	r.ServeHTTP(w, req)
	require.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Body.String(), `"paymentStatus":"completed"`)
}

func TestVerify_UnknownReference(t *testing.T) {
	env := newTestEnv(t)
	user := env.seedUser(t, "dancer@example.com", entities.UserRoleParticipant)
	r := newEntryRouter(env, user)

	req := httptest.NewRequest(http.MethodGet, "/payments/verify/SP-unknown", nil)
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)

	assert.Equal(t, http.StatusNotFound, w.Code)
	assert.Contains(t, w.Body.String(), "REFERENCE_NOT_FOUND")
}

func TestEntryStatus_NoEntry(t *testing.T) {
	env := newTestEnv(t)
	user := env.seedUser(t, "dancer@example.com", entities.UserRoleParticipant)
	contest := env.seedContest(t, 500000, true)
	r := newEntryRouter(env, user)

	req := httptest.NewRequest(http.MethodGet, "/contests/"+contest.ID.String()+"/entry", nil)
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)

	assert.Equal(t, http.StatusNotFound, w.Code)
}

func TestListMyEntries(t *testing.T) {
	env := newTestEnv(t)
	user := env.seedUser(t, "dancer@example.com", entities.UserRoleParticipant)
	first := env.seedContest(t, 500000, true)
	second := env.seedContest(t, 300000, true)
	env.seedEntry(t, user, first, entities.PaymentStatusCompleted, "SP-a")
	env.seedEntry(t, user, second, entities.PaymentStatusPending, "SP-b")
	r := newEntryRouter(env, user)

	req := httptest.NewRequest(http.MethodGet, "/entries", nil)
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)

	require.Equal(t, http.StatusOK, w.Code, w.Body.String())

	var resp struct {
		Entries []entities.Entry `json:"entries"`
	}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	assert.Len(t, resp.Entries, 2)
}
