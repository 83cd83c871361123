package delivery_test

import (
	"bytes"
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/require"

	api "sendgate-backend/cmd/api"
	accountdomain "sendgate-backend/internal/account/domain"
	accountRepo "sendgate-backend/internal/account/repository"
	accountUsecase "sendgate-backend/internal/account/usecase"
	emaildto "sendgate-backend/internal/email/dto"
	emailRepo "sendgate-backend/internal/email/repository"
	emailUsecasePkg "sendgate-backend/internal/email/usecase"
	"sendgate-backend/pkg/config"
)

const adminToken = "test-admin-token"

func init() {
	gin.SetMode(gin.TestMode)
}

type testServer struct {
	engine    *gin.Engine
	accountUc accountUsecase.AccountUsecase
	userRepo  accountRepo.UserRepository
	user      *accountdomain.User
}

func newTestServer(t *testing.T) *testServer {
	t.Helper()

	userRepo := accountRepo.NewMemoryUserRepository()
	accountUc := accountUsecase.NewAccountUsecase(userRepo)
	cfg := &config.Config{FromAddress: "noreply@sendgate.io", AdminToken: adminToken}
	emailUc := emailUsecasePkg.NewEmailUsecase(emailRepo.NewMemoryEmailRepository(), cfg)

	engine := gin.New()
	api.SetupRoutes(engine, accountUc, emailUc, cfg)

	user, err := accountUc.CreateUser("alice@example.com", "Alice")
	require.NoError(t, err)

	return &testServer{engine: engine, accountUc: accountUc, userRepo: userRepo, user: user}
}

func (s *testServer) setLimit(t *testing.T, limit int) {
	t.Helper()
	s.user.DailyEmailLimit = limit
	require.NoError(t, s.userRepo.Update(s.user))
}

func (s *testServer) request(t *testing.T, method, path, apiKey string, body any) *httptest.ResponseRecorder {
	t.Helper()

	var buf bytes.Buffer
	if body != nil {
		require.NoError(t, json.NewEncoder(&buf).Encode(body))
	}
	req := httptest.NewRequest(method, path, &buf)
	req.Header.Set("Content-Type", "application/json")
	if apiKey != "" {
		req.Header.Set("X-API-Key", apiKey)
	}

	w := httptest.NewRecorder()
	s.engine.ServeHTTP(w, req)
	return w
}

func TestHealthBypassesAuth(t *testing.T) {
	s := newTestServer(t)

	w := s.request(t, http.MethodGet, "/health", "", nil)
	require.Equal(t, http.StatusOK, w.Code)

	var body map[string]any
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &body))
	require.Equal(t, "healthy", body["status"])
	require.NotEmpty(t, body["timestamp"])
}

func TestSendRequiresAPIKey(t *testing.T) {
	s := newTestServer(t)
	payload := emaildto.SendEmailRequest{To: "a@b.com", Subject: "hi"}

	w := s.request(t, http.MethodPost, "/api/emails/send", "", payload)
	require.Equal(t, http.StatusUnauthorized, w.Code)
	require.Contains(t, w.Body.String(), "API Key required")

	w = s.request(t, http.MethodPost, "/api/emails/send", "wrong-key", payload)
	require.Equal(t, http.StatusUnauthorized, w.Code)
	require.Contains(t, w.Body.String(), "Invalid API Key")
}

func TestSendHappyPathAndFetch(t *testing.T) {
	s := newTestServer(t)

	w := s.request(t, http.MethodPost, "/api/emails/send", s.user.APIKey, emaildto.SendEmailRequest{
		To:      "a@b.com",
		Subject: "hi",
		Body:    "hello there",
	})
	require.Equal(t, http.StatusOK, w.Code)

	var resp emaildto.EmailResponse
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	require.NotEmpty(t, resp.ID)
	require.Equal(t, "pending", resp.Status)

	w = s.request(t, http.MethodGet, "/api/emails/"+resp.ID, s.user.APIKey, nil)
	require.Equal(t, http.StatusOK, w.Code)

	var email map[string]any
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &email))
	require.Equal(t, resp.ID, email["id"])
	require.Equal(t, "a@b.com", email["to"])
	require.Equal(t, "pending", email["status"])
	require.Equal(t, s.user.ID, email["user_id"])
}

func TestSendValidationFailureConsumesNoQuota(t *testing.T) {
	s := newTestServer(t)

	w := s.request(t, http.MethodPost, "/api/emails/send", s.user.APIKey, emaildto.SendEmailRequest{
		To: "", Subject: "hi",
	})
	require.Equal(t, http.StatusBadRequest, w.Code)

	reloaded, err := s.accountUc.GetUserByID(s.user.ID)
	require.NoError(t, err)
	require.Equal(t, 0, reloaded.EmailsSentToday)
}

func TestSendQuotaExceeded(t *testing.T) {
	s := newTestServer(t)
	s.setLimit(t, 1)

	payload := emaildto.SendEmailRequest{To: "a@b.com", Subject: "hi"}

	w := s.request(t, http.MethodPost, "/api/emails/send", s.user.APIKey, payload)
	require.Equal(t, http.StatusOK, w.Code)

	w = s.request(t, http.MethodPost, "/api/emails/send", s.user.APIKey, payload)
	require.Equal(t, http.StatusTooManyRequests, w.Code)
	require.Contains(t, w.Body.String(), "rate limit")
}

func TestGetEmailUnknown(t *testing.T) {
	s := newTestServer(t)

	w := s.request(t, http.MethodGet, "/api/emails/not-an-id", s.user.APIKey, nil)
	require.Equal(t, http.StatusNotFound, w.Code)
}

func TestListEmailsPagination(t *testing.T) {
	s := newTestServer(t)

	for i := 0; i < 3; i++ {
		w := s.request(t, http.MethodPost, "/api/emails/send", s.user.APIKey, emaildto.SendEmailRequest{
			To: fmt.Sprintf("r%d@example.com", i), Subject: "hi",
		})
		require.Equal(t, http.StatusOK, w.Code)
	}

	w := s.request(t, http.MethodGet, "/api/emails?page=1&pageSize=2", s.user.APIKey, nil)
	require.Equal(t, http.StatusOK, w.Code)

	var listResp struct {
		Emails []map[string]any `json:"emails"`
	}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &listResp))
	require.Len(t, listResp.Emails, 2)

	w = s.request(t, http.MethodGet, "/api/emails?page=2&pageSize=2", s.user.APIKey, nil)
	require.Equal(t, http.StatusOK, w.Code)
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &listResp))
	require.Len(t, listResp.Emails, 1)

	w = s.request(t, http.MethodGet, "/api/emails?page=0&pageSize=2", s.user.APIKey, nil)
	require.Equal(t, http.StatusBadRequest, w.Code)
}

func TestBulkSendMixedOutcomes(t *testing.T) {
	s := newTestServer(t)
	s.setLimit(t, 2)

	w := s.request(t, http.MethodPost, "/api/emails/send-bulk", s.user.APIKey, emaildto.SendBulkEmailRequest{
		To:      []string{"a@b.com", "", "c@d.com", "e@f.com"},
		Subject: "hello",
	})
	require.Equal(t, http.StatusOK, w.Code)

	var responses []emaildto.EmailResponse
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &responses))
	require.Len(t, responses, 4)

	require.Equal(t, "pending", responses[0].Status)
	require.Equal(t, "failed", responses[1].Status) // missing recipient
	require.Equal(t, "pending", responses[2].Status)
	require.Equal(t, "failed", responses[3].Status) // quota exhausted mid-batch
	require.Contains(t, responses[3].Message, "rate limit")

	reloaded, err := s.accountUc.GetUserByID(s.user.ID)
	require.NoError(t, err)
	require.Equal(t, 2, reloaded.EmailsSentToday)
}

func TestBulkSendExhaustedUpfront(t *testing.T) {
	s := newTestServer(t)
	s.setLimit(t, 0)

	w := s.request(t, http.MethodPost, "/api/emails/send-bulk", s.user.APIKey, emaildto.SendBulkEmailRequest{
		To: []string{"a@b.com"}, Subject: "hello",
	})
	require.Equal(t, http.StatusTooManyRequests, w.Code)
}

func TestBulkSendEmptyRecipientList(t *testing.T) {
	s := newTestServer(t)

	w := s.request(t, http.MethodPost, "/api/emails/send-bulk", s.user.APIKey, emaildto.SendBulkEmailRequest{
		Subject: "hello",
	})
	require.Equal(t, http.StatusOK, w.Code)

	var responses []emaildto.EmailResponse
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &responses))
	require.Empty(t, responses)
}

func TestAdminCreateUser(t *testing.T) {
	s := newTestServer(t)

	body := map[string]string{"email": "bob@example.com", "name": "Bob"}

	w := s.request(t, http.MethodPost, "/api/users", "", body)
	require.Equal(t, http.StatusUnauthorized, w.Code)

	req := httptest.NewRequest(http.MethodPost, "/api/users", bytes.NewReader(mustJSON(t, body)))
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("X-Admin-Token", adminToken)
	w = httptest.NewRecorder()
	s.engine.ServeHTTP(w, req)
	require.Equal(t, http.StatusCreated, w.Code)

	var created accountdomain.User
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &created))
	require.NotEmpty(t, created.APIKey)
	require.True(t, created.IsActive)
}

func TestAdminUpdateStatus(t *testing.T) {
	s := newTestServer(t)

	w := s.request(t, http.MethodPost, "/api/emails/send", s.user.APIKey, emaildto.SendEmailRequest{
		To: "a@b.com", Subject: "hi",
	})
	require.Equal(t, http.StatusOK, w.Code)
	var resp emaildto.EmailResponse
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))

	patch := func(id, status string) *httptest.ResponseRecorder {
		req := httptest.NewRequest(http.MethodPatch, "/api/emails/"+id+"/status",
			bytes.NewReader(mustJSON(t, emaildto.UpdateStatusRequest{Status: status})))
		req.Header.Set("Content-Type", "application/json")
		req.Header.Set("X-Admin-Token", adminToken)
		w := httptest.NewRecorder()
		s.engine.ServeHTTP(w, req)
		return w
	}

	require.Equal(t, http.StatusOK, patch(resp.ID, "sent").Code)
	require.Equal(t, http.StatusNotFound, patch("missing-id", "sent").Code)
	require.Equal(t, http.StatusBadRequest, patch(resp.ID, "lost").Code)

	w = s.request(t, http.MethodGet, "/api/emails/"+resp.ID+"/logs", s.user.APIKey, nil)
	require.Equal(t, http.StatusOK, w.Code)
	require.Contains(t, w.Body.String(), `"sent"`)
}

// countingAccountUc records quota calls so tests can assert the boundary
// consumes exactly one slot per accepted send.
type countingAccountUc struct {
	accountUsecase.AccountUsecase
	reserves   int
	increments int
}

func (c *countingAccountUc) ReserveSend(userID string) (bool, error) {
	c.reserves++
	return c.AccountUsecase.ReserveSend(userID)
}

func (c *countingAccountUc) IncrementEmailCount(userID string) error {
	c.increments++
	return c.AccountUsecase.IncrementEmailCount(userID)
}

func TestQuotaReservedOncePerAcceptedSend(t *testing.T) {
	userRepo := accountRepo.NewMemoryUserRepository()
	counting := &countingAccountUc{AccountUsecase: accountUsecase.NewAccountUsecase(userRepo)}
	cfg := &config.Config{FromAddress: "noreply@sendgate.io", AdminToken: adminToken}
	emailUc := emailUsecasePkg.NewEmailUsecase(emailRepo.NewMemoryEmailRepository(), cfg)

	engine := gin.New()
	api.SetupRoutes(engine, counting, emailUc, cfg)

	user, err := counting.CreateUser("alice@example.com", "Alice")
	require.NoError(t, err)

	s := &testServer{engine: engine, accountUc: counting, userRepo: userRepo, user: user}

	w := s.request(t, http.MethodPost, "/api/emails/send", user.APIKey, emaildto.SendEmailRequest{
		To: "a@b.com", Subject: "hi",
	})
	require.Equal(t, http.StatusOK, w.Code)
	require.Equal(t, 1, counting.reserves)
	require.Equal(t, 0, counting.increments)

	// A rejected request must not touch the quota at all.
	w = s.request(t, http.MethodPost, "/api/emails/send", user.APIKey, emaildto.SendEmailRequest{
		To: "", Subject: "hi",
	})
	require.Equal(t, http.StatusBadRequest, w.Code)
	require.Equal(t, 1, counting.reserves)

	reloaded, err := counting.GetUserByID(user.ID)
	require.NoError(t, err)
	require.Equal(t, 1, reloaded.EmailsSentToday)
}

func mustJSON(t *testing.T, v any) []byte {
	t.Helper()
	raw, err := json.Marshal(v)
	require.NoError(t, err)
	return raw
}
