package routes

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	gormlogger "gorm.io/gorm/logger"

	"github.com/shemul345/Life-O-positive-server/internal/adapters/http/middleware"
	"github.com/shemul345/Life-O-positive-server/internal/adapters/persistence/models"
	"github.com/shemul345/Life-O-positive-server/internal/adapters/persistence/repositories"
	"github.com/shemul345/Life-O-positive-server/internal/config"
	"github.com/shemul345/Life-O-positive-server/internal/core/domain"
	"github.com/shemul345/Life-O-positive-server/internal/core/services"
	"github.com/shemul345/Life-O-positive-server/internal/pkg/jwt"
	"github.com/shemul345/Life-O-positive-server/internal/pkg/logger"
	"github.com/shemul345/Life-O-positive-server/internal/pkg/pagination"
)

const testSecret = "route-test-secret"

type envelope struct {
	Success bool             `json:"success"`
	Message string           `json:"message"`
	Data    json.RawMessage  `json:"data"`
	Meta    *pagination.Meta `json:"meta"`
	Error   string           `json:"error"`
}

type stubPayments struct {
	mu       sync.Mutex
	sessions map[string]*services.CheckoutSession
	last     *services.CheckoutSessionParams
}

func (p *stubPayments) CreateCheckoutSession(ctx context.Context, params services.CheckoutSessionParams) (*services.CheckoutSession, error) {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.last = &params
	session := &services.CheckoutSession{
		ID:          fmt.Sprintf("cs_%d", len(p.sessions)+1),
		URL:         "https://checkout.example.com/pay",
		AmountTotal: params.AmountMinor,
		Currency:    params.Currency,
		Metadata:    params.Metadata,
	}
	p.sessions[session.ID] = session
	return session, nil
}

func (p *stubPayments) RetrieveCheckoutSession(ctx context.Context, id string) (*services.CheckoutSession, error) {
	p.mu.Lock()
	defer p.mu.Unlock()
	session, ok := p.sessions[id]
	if !ok {
		return nil, fmt.Errorf("no such session %s", id)
	}
	copied := *session
	return &copied, nil
}

func (p *stubPayments) markPaid(id, paymentIntent string) {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.sessions[id].Paid = true
	p.sessions[id].TransactionID = paymentIntent
}

type routeEnv struct {
	app      *fiber.App
	db       *gorm.DB
	accounts repositories.AccountRepository
	requests repositories.DonationRequestRepository
	payments *stubPayments
}

func newRouteEnv(t *testing.T, mode domain.TransitionMode) *routeEnv {
	t.Helper()

	db, err := gorm.Open(sqlite.Open(":memory:"), &gorm.Config{
		Logger:         gormlogger.Default.LogMode(gormlogger.Silent),
		TranslateError: true,
	})
	require.NoError(t, err)
	sqlDB, err := db.DB()
	require.NoError(t, err)
	sqlDB.SetMaxOpenConns(1)
	t.Cleanup(func() { _ = sqlDB.Close() })
	require.NoError(t, models.AutoMigrate(db))

	cfg := &config.Config{
		AppMode:  "dev",
		JWT:      config.JWTConfig{Secret: testSecret},
		Funding:  config.FundingConfig{Currency: "usd", ClientURL: "https://lifeo.example.com"},
		Donation: config.DonationConfig{Transitions: mode},
	}
	log := logger.Discard()

	app := fiber.New(fiber.Config{
		ErrorHandler: middleware.ErrorHandler(log),
		UnescapePath: true,
	})
	middleware.Setup(app, cfg, log)

	payments := &stubPayments{sessions: map[string]*services.CheckoutSession{}}
	require.NoError(t, Setup(app, Dependencies{
		DB:       db,
		Config:   cfg,
		Verifier: jwt.NewVerifier(testSecret),
		Payments: payments,
		Log:      log,
	}))

	return &routeEnv{
		app:      app,
		db:       db,
		accounts: repositories.NewAccountRepository(db),
		requests: repositories.NewDonationRequestRepository(db),
		payments: payments,
	}
}

func (e *routeEnv) seed(t *testing.T, email string, role domain.Role, status domain.AccountStatus) *models.Account {
	t.Helper()
	account := &models.Account{Email: email, Name: strings.Split(email, "@")[0], Role: role, Status: status}
	created, err := e.accounts.CreateIfAbsent(context.Background(), account)
	require.NoError(t, err)
	require.True(t, created)
	return account
}

func token(t *testing.T, email string) string {
	t.Helper()
	tok, err := jwt.GenerateAccessToken(email, "", testSecret, time.Hour)
	require.NoError(t, err)
	return tok
}

// call sends a request; an empty email sends no Authorization header
func (e *routeEnv) call(t *testing.T, method, path string, body interface{}, email string) (int, envelope) {
	t.Helper()

	var reader io.Reader
	if body != nil {
		raw, err := json.Marshal(body)
		require.NoError(t, err)
		reader = bytes.NewReader(raw)
	}

	req := httptest.NewRequest(method, path, reader)
	if body != nil {
		req.Header.Set(fiber.HeaderContentType, fiber.MIMEApplicationJSON)
	}
	if email != "" {
		req.Header.Set(fiber.HeaderAuthorization, "Bearer "+token(t, email))
	}

	resp, err := e.app.Test(req, -1)
	require.NoError(t, err)
	defer resp.Body.Close()

	var env envelope
	raw, err := io.ReadAll(resp.Body)
	require.NoError(t, err)
	if len(raw) > 0 && strings.HasPrefix(resp.Header.Get(fiber.HeaderContentType), fiber.MIMEApplicationJSON) {
		require.NoError(t, json.Unmarshal(raw, &env), string(raw))
	}
	return resp.StatusCode, env
}

func validRequestBody() map[string]interface{} {
	return map[string]interface{}{
		"recipientName":     "Karim",
		"recipientDistrict": "Dhaka",
		"hospitalName":      "Dhaka Medical College",
		"bloodGroup":        "O-",
		"donationDate":      "2026-11-02",
		"donationTime":      "10:30",
		// server-owned fields are ignored
		"donationStatus": "done",
		"requesterEmail": "someone-else@example.com",
	}
}

func TestRoutes_IdentityIsRequired(t *testing.T) {
	env := newRouteEnv(t, domain.TransitionsPermissive)

	status, body := env.call(t, http.MethodPost, "/donation-requests", validRequestBody(), "")
	assert.Equal(t, http.StatusUnauthorized, status)
	assert.False(t, body.Success)

	req := httptest.NewRequest(http.MethodPost, "/donation-requests", nil)
	req.Header.Set(fiber.HeaderAuthorization, "Bearer not-a-jwt")
	resp, err := env.app.Test(req, -1)
	require.NoError(t, err)
	assert.Equal(t, http.StatusUnauthorized, resp.StatusCode)

	req = httptest.NewRequest(http.MethodPost, "/donation-requests", nil)
	req.Header.Set(fiber.HeaderAuthorization, "Basic dXNlcjpwYXNz")
	resp, err = env.app.Test(req, -1)
	require.NoError(t, err)
	assert.Equal(t, http.StatusUnauthorized, resp.StatusCode)
}

func TestRoutes_AdminActionsRequireAdmin(t *testing.T) {
	env := newRouteEnv(t, domain.TransitionsPermissive)
	env.seed(t, "admin@example.com", domain.RoleAdmin, domain.AccountActive)
	env.seed(t, "vol@example.com", domain.RoleVolunteer, domain.AccountActive)
	donor := env.seed(t, "donor@example.com", domain.RoleDonor, domain.AccountActive)

	status, _ := env.call(t, http.MethodGet, "/users", nil, "donor@example.com")
	assert.Equal(t, http.StatusForbidden, status)

	status, _ = env.call(t, http.MethodGet, "/users", nil, "stranger@example.com")
	assert.Equal(t, http.StatusForbidden, status)

	status, _ = env.call(t, http.MethodPatch, fmt.Sprintf("/users/role/%d", donor.ID), map[string]string{"role": "admin"}, "vol@example.com")
	assert.Equal(t, http.StatusForbidden, status)

	status, _ = env.call(t, http.MethodGet, "/admin-stats", nil, "vol@example.com")
	assert.Equal(t, http.StatusForbidden, status)

	stored, err := env.accounts.GetByID(context.Background(), donor.ID)
	require.NoError(t, err)
	assert.Equal(t, domain.RoleDonor, stored.Role)

	status, body := env.call(t, http.MethodGet, "/users?status=all", nil, "admin@example.com")
	assert.Equal(t, http.StatusOK, status)
	require.NotNil(t, body.Meta)
	assert.Equal(t, int64(3), body.Meta.Total)

	status, _ = env.call(t, http.MethodPatch, fmt.Sprintf("/users/status/%d", donor.ID), map[string]string{"status": "blocked"}, "admin@example.com")
	assert.Equal(t, http.StatusOK, status)

	status, _ = env.call(t, http.MethodGet, "/admin-stats", nil, "admin@example.com")
	assert.Equal(t, http.StatusOK, status)
}

func TestRoutes_BlockedAccountCannotCreate(t *testing.T) {
	env := newRouteEnv(t, domain.TransitionsPermissive)
	env.seed(t, "blocked@example.com", domain.RoleDonor, domain.AccountBlocked)

	status, body := env.call(t, http.MethodPost, "/donation-requests", validRequestBody(), "blocked@example.com")
	assert.Equal(t, http.StatusForbidden, status)
	assert.Contains(t, body.Error, "blocked")

	count, err := env.requests.Count(context.Background(), models.DonationRequestFilter{})
	require.NoError(t, err)
	assert.Zero(t, count)
}

func TestRoutes_DonationRequestLifecycle(t *testing.T) {
	env := newRouteEnv(t, domain.TransitionsPermissive)
	env.seed(t, "owner@example.com", domain.RoleDonor, domain.AccountActive)
	env.seed(t, "vol@example.com", domain.RoleVolunteer, domain.AccountActive)

	status, body := env.call(t, http.MethodPost, "/donation-requests", validRequestBody(), "owner@example.com")
	require.Equal(t, http.StatusCreated, status)

	var created models.DonationRequest
	require.NoError(t, json.Unmarshal(body.Data, &created))
	assert.Equal(t, domain.DonationPending, created.DonationStatus)
	assert.Equal(t, "owner@example.com", created.RequesterEmail)
	assert.Nil(t, created.DonorEmail)

	accept := map[string]string{"donorName": "Vol", "donorEmail": "vol@example.com"}
	status, body = env.call(t, http.MethodPatch, fmt.Sprintf("/donation-requests/accept/%d", created.ID), accept, "vol@example.com")
	require.Equal(t, http.StatusOK, status)
	var accepted models.DonationRequest
	require.NoError(t, json.Unmarshal(body.Data, &accepted))
	assert.Equal(t, domain.DonationInProgress, accepted.DonationStatus)

	status, _ = env.call(t, http.MethodGet, fmt.Sprintf("/donation-requests/%d", created.ID), nil, "")
	assert.Equal(t, http.StatusOK, status)

	status, _ = env.call(t, http.MethodGet, "/donation-requests?email=owner@example.com", nil, "vol@example.com")
	assert.Equal(t, http.StatusForbidden, status)

	status, body = env.call(t, http.MethodGet, "/donation-requests?email=owner@example.com", nil, "owner@example.com")
	require.Equal(t, http.StatusOK, status)
	var mine []models.DonationRequest
	require.NoError(t, json.Unmarshal(body.Data, &mine))
	assert.Len(t, mine, 1)

	status, _ = env.call(t, http.MethodPatch, fmt.Sprintf("/donation-requests/status/%d", created.ID), map[string]string{"donationStatus": "finished"}, "owner@example.com")
	assert.Equal(t, http.StatusBadRequest, status)

	status, _ = env.call(t, http.MethodDelete, fmt.Sprintf("/donation-requests/%d", created.ID), nil, "vol@example.com")
	assert.Equal(t, http.StatusForbidden, status)

	status, _ = env.call(t, http.MethodDelete, fmt.Sprintf("/donation-requests/%d", created.ID), nil, "owner@example.com")
	assert.Equal(t, http.StatusOK, status)

	status, _ = env.call(t, http.MethodGet, fmt.Sprintf("/donation-requests/%d", created.ID), nil, "")
	assert.Equal(t, http.StatusNotFound, status)

	status, _ = env.call(t, http.MethodPatch, fmt.Sprintf("/donation-requests/accept/%d", created.ID), accept, "vol@example.com")
	assert.Equal(t, http.StatusNotFound, status)
}

func TestRoutes_StrictTransitionsConflict(t *testing.T) {
	env := newRouteEnv(t, domain.TransitionsStrict)
	env.seed(t, "owner@example.com", domain.RoleDonor, domain.AccountActive)

	status, body := env.call(t, http.MethodPost, "/donation-requests", validRequestBody(), "owner@example.com")
	require.Equal(t, http.StatusCreated, status)
	var created models.DonationRequest
	require.NoError(t, json.Unmarshal(body.Data, &created))

	status, _ = env.call(t, http.MethodPatch, fmt.Sprintf("/donation-requests/status/%d", created.ID), map[string]string{"donationStatus": "done"}, "owner@example.com")
	assert.Equal(t, http.StatusConflict, status)
}

func TestRoutes_AllRequestsPagination(t *testing.T) {
	env := newRouteEnv(t, domain.TransitionsPermissive)
	env.seed(t, "vol@example.com", domain.RoleVolunteer, domain.AccountActive)
	env.seed(t, "donor@example.com", domain.RoleDonor, domain.AccountActive)
	ctx := context.Background()

	status, _ := env.call(t, http.MethodGet, "/all-blood-donation-requests", nil, "donor@example.com")
	assert.Equal(t, http.StatusForbidden, status)

	for i := 0; i < 37; i++ {
		require.NoError(t, env.requests.Create(ctx, &models.DonationRequest{
			RequesterEmail: fmt.Sprintf("owner%d@example.com", i%5),
			RecipientName:  "R",
			DonationStatus: domain.DonationPending,
		}))
	}

	var sizes []int
	for page := 0; page < 3; page++ {
		status, body := env.call(t, http.MethodGet, fmt.Sprintf("/all-blood-donation-requests?page=%d&size=15&status=all", page), nil, "vol@example.com")
		require.Equal(t, http.StatusOK, status)
		require.NotNil(t, body.Meta)
		assert.Equal(t, int64(37), body.Meta.Total)

		var items []models.DonationRequest
		require.NoError(t, json.Unmarshal(body.Data, &items))
		sizes = append(sizes, len(items))
	}
	assert.Equal(t, []int{15, 15, 7}, sizes)

	var body envelope
	status, body = env.call(t, http.MethodGet, "/all-blood-donation-requests?size=500", nil, "vol@example.com")
	require.Equal(t, http.StatusOK, status)
	assert.Equal(t, pagination.MaxSize, body.Meta.Size)

	status, body = env.call(t, http.MethodGet, "/all-blood-donation-requests?status=done", nil, "vol@example.com")
	require.Equal(t, http.StatusOK, status)
	assert.Equal(t, int64(0), body.Meta.Total)
	assert.JSONEq(t, "[]", string(body.Data))
}

func TestRoutes_RegistrationIsIdempotent(t *testing.T) {
	env := newRouteEnv(t, domain.TransitionsPermissive)
	payload := map[string]string{"email": "new@example.com", "name": "New", "role": "admin"}

	status, _ := env.call(t, http.MethodPost, "/users", payload, "")
	assert.Equal(t, http.StatusCreated, status)

	status, body := env.call(t, http.MethodPost, "/users", payload, "")
	assert.Equal(t, http.StatusOK, status)
	assert.Equal(t, "User already exists", body.Message)

	status, body = env.call(t, http.MethodGet, "/users/new@example.com/role", nil, "")
	require.Equal(t, http.StatusOK, status)
	assert.JSONEq(t, `{"role":"donor"}`, string(body.Data))

	status, body = env.call(t, http.MethodGet, "/users/nobody@example.com/role", nil, "")
	require.Equal(t, http.StatusOK, status)
	assert.JSONEq(t, `{"role":"donor"}`, string(body.Data))
}

func TestRoutes_ProfileOwnerOnly(t *testing.T) {
	env := newRouteEnv(t, domain.TransitionsPermissive)
	env.seed(t, "me@example.com", domain.RoleDonor, domain.AccountActive)
	env.seed(t, "you@example.com", domain.RoleAdmin, domain.AccountActive)

	status, _ := env.call(t, http.MethodGet, "/profile/me@example.com", nil, "you@example.com")
	assert.Equal(t, http.StatusForbidden, status)

	status, body := env.call(t, http.MethodPatch, "/profile/me@example.com", map[string]string{"district": "Khulna", "role": "admin"}, "me@example.com")
	require.Equal(t, http.StatusOK, status)
	var account models.Account
	require.NoError(t, json.Unmarshal(body.Data, &account))
	assert.Equal(t, "Khulna", account.District)
	assert.Equal(t, domain.RoleDonor, account.Role)
}

func TestRoutes_FundingFlow(t *testing.T) {
	env := newRouteEnv(t, domain.TransitionsPermissive)

	status, _ := env.call(t, http.MethodPost, "/create-funding-checkout", map[string]interface{}{"amount": 0}, "")
	assert.Equal(t, http.StatusBadRequest, status)

	status, _ = env.call(t, http.MethodPost, "/create-funding-checkout", map[string]interface{}{"donorEmail": "giver@example.com"}, "")
	assert.Equal(t, http.StatusBadRequest, status)

	status, _ = env.call(t, http.MethodPost, "/create-funding-checkout", map[string]interface{}{"amount": "184467440737095516.17"}, "")
	assert.Equal(t, http.StatusBadRequest, status)
	assert.Nil(t, env.payments.last)

	status, body := env.call(t, http.MethodPost, "/create-funding-checkout", map[string]interface{}{"amount": 25.50, "donorEmail": "giver@example.com"}, "")
	require.Equal(t, http.StatusOK, status)
	require.NotNil(t, env.payments.last)
	assert.Equal(t, int64(2550), env.payments.last.AmountMinor)

	var checkout services.CheckoutOutput
	require.NoError(t, json.Unmarshal(body.Data, &checkout))

	status, _ = env.call(t, http.MethodPatch, "/funding-success?session_id="+checkout.SessionID, nil, "")
	assert.Equal(t, http.StatusBadRequest, status, "unpaid session")

	env.payments.markPaid(checkout.SessionID, "pi_123")
	for i := 0; i < 2; i++ {
		status, _ = env.call(t, http.MethodPatch, "/funding-success?session_id="+checkout.SessionID, nil, "")
		assert.Equal(t, http.StatusOK, status)
	}

	status, _ = env.call(t, http.MethodPatch, "/funding-success", nil, "")
	assert.Equal(t, http.StatusBadRequest, status)

	status, body = env.call(t, http.MethodGet, "/all-fundings", nil, "")
	require.Equal(t, http.StatusOK, status)
	assert.Equal(t, int64(1), body.Meta.Total)
}

func TestRoutes_HealthAndMetrics(t *testing.T) {
	env := newRouteEnv(t, domain.TransitionsPermissive)

	status, _ := env.call(t, http.MethodGet, "/health", nil, "")
	assert.Equal(t, http.StatusOK, status)

	resp, err := env.app.Test(httptest.NewRequest(http.MethodGet, "/metrics", nil), -1)
	require.NoError(t, err)
	defer resp.Body.Close()
	assert.Equal(t, http.StatusOK, resp.StatusCode)
	raw, err := io.ReadAll(resp.Body)
	require.NoError(t, err)
	assert.Contains(t, string(raw), "lifeo_http_requests_total")
}
