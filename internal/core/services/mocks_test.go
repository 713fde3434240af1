package services

import (
	"context"
	"errors"
	"sort"
	"sync"
	"time"

	"github.com/shopspring/decimal"
	"github.com/sirupsen/logrus"
	"gorm.io/gorm"

	"github.com/shemul345/Life-O-positive-server/internal/adapters/persistence/models"
	"github.com/shemul345/Life-O-positive-server/internal/core/domain"
	"github.com/shemul345/Life-O-positive-server/internal/pkg/logger"
)

var errStoreDown = errors.New("store unavailable")

func testLogger() logrus.FieldLogger {
	return logger.Discard()
}

// ============================================================
// Accounts
// ============================================================

type fakeAccountRepo struct {
	mu       sync.Mutex
	accounts map[uint]*models.Account
	nextID   uint
	err      error
}

func newFakeAccountRepo() *fakeAccountRepo {
	return &fakeAccountRepo{accounts: map[uint]*models.Account{}}
}

func (r *fakeAccountRepo) seed(email string, role domain.Role, status domain.AccountStatus) *models.Account {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.nextID++
	account := &models.Account{ID: r.nextID, Email: email, Name: "User " + email, Role: role, Status: status, CreatedAt: time.Now()}
	r.accounts[account.ID] = account
	return account
}

func (r *fakeAccountRepo) byEmail(email string) *models.Account {
	for _, a := range r.accounts {
		if a.Email == email {
			return a
		}
	}
	return nil
}

func (r *fakeAccountRepo) CreateIfAbsent(ctx context.Context, account *models.Account) (bool, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.err != nil {
		return false, r.err
	}
	if r.byEmail(account.Email) != nil {
		return false, nil
	}
	r.nextID++
	account.ID = r.nextID
	account.CreatedAt = time.Now()
	stored := *account
	r.accounts[account.ID] = &stored
	return true, nil
}

func (r *fakeAccountRepo) GetByID(ctx context.Context, id uint) (*models.Account, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.err != nil {
		return nil, r.err
	}
	a, ok := r.accounts[id]
	if !ok {
		return nil, gorm.ErrRecordNotFound
	}
	copied := *a
	return &copied, nil
}

func (r *fakeAccountRepo) GetByEmail(ctx context.Context, email string) (*models.Account, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.err != nil {
		return nil, r.err
	}
	a := r.byEmail(email)
	if a == nil {
		return nil, gorm.ErrRecordNotFound
	}
	copied := *a
	return &copied, nil
}

func (r *fakeAccountRepo) update(id uint, apply func(*models.Account)) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.err != nil {
		return r.err
	}
	a, ok := r.accounts[id]
	if !ok {
		return gorm.ErrRecordNotFound
	}
	apply(a)
	return nil
}

func (r *fakeAccountRepo) UpdateRole(ctx context.Context, id uint, role domain.Role) error {
	return r.update(id, func(a *models.Account) { a.Role = role })
}

func (r *fakeAccountRepo) UpdateStatus(ctx context.Context, id uint, status domain.AccountStatus) error {
	return r.update(id, func(a *models.Account) { a.Status = status })
}

func (r *fakeAccountRepo) UpdateProfile(ctx context.Context, email string, fields models.ProfileFields) error {
	r.mu.Lock()
	a := r.byEmail(email)
	r.mu.Unlock()
	if a == nil {
		return gorm.ErrRecordNotFound
	}
	return r.update(a.ID, func(a *models.Account) {
		if fields.Name != nil {
			a.Name = *fields.Name
		}
		if fields.Avatar != nil {
			a.Avatar = *fields.Avatar
		}
		if fields.BloodGroup != nil {
			a.BloodGroup = *fields.BloodGroup
		}
		if fields.District != nil {
			a.District = *fields.District
		}
		if fields.SubDistrict != nil {
			a.SubDistrict = *fields.SubDistrict
		}
	})
}

func (r *fakeAccountRepo) Delete(ctx context.Context, id uint) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.err != nil {
		return r.err
	}
	if _, ok := r.accounts[id]; !ok {
		return gorm.ErrRecordNotFound
	}
	delete(r.accounts, id)
	return nil
}

func (r *fakeAccountRepo) sorted(keep func(*models.Account) bool) []*models.Account {
	out := []*models.Account{}
	for _, a := range r.accounts {
		if keep(a) {
			out = append(out, a)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ID > out[j].ID })
	return out
}

func (r *fakeAccountRepo) List(ctx context.Context, filter models.AccountFilter, offset, limit int) ([]*models.Account, int64, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.err != nil {
		return nil, 0, r.err
	}
	all := r.sorted(func(a *models.Account) bool {
		return (filter.Status == "" || a.Status == filter.Status) && (filter.Role == "" || a.Role == filter.Role)
	})
	return window(all, offset, limit), int64(len(all)), nil
}

func (r *fakeAccountRepo) SearchDonors(ctx context.Context, search models.DonorSearch) ([]*models.Account, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.err != nil {
		return nil, r.err
	}
	return r.sorted(func(a *models.Account) bool {
		return a.Role == domain.RoleDonor && a.Status == domain.AccountActive &&
			(search.BloodGroup == "" || a.BloodGroup == search.BloodGroup) &&
			(search.District == "" || a.District == search.District) &&
			(search.SubDistrict == "" || a.SubDistrict == search.SubDistrict)
	}), nil
}

func (r *fakeAccountRepo) CountByRole(ctx context.Context, role domain.Role) (int64, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.err != nil {
		return 0, r.err
	}
	return int64(len(r.sorted(func(a *models.Account) bool { return a.Role == role }))), nil
}

// ============================================================
// Donation requests
// ============================================================

type fakeDonationRequestRepo struct {
	mu       sync.Mutex
	requests map[uint]*models.DonationRequest
	nextID   uint
	err      error
}

func newFakeDonationRequestRepo() *fakeDonationRequestRepo {
	return &fakeDonationRequestRepo{requests: map[uint]*models.DonationRequest{}}
}

func matchesStatus(r *models.DonationRequest, status domain.DonationStatus) bool {
	return status == "" || r.DonationStatus == status || r.LegacyStatus == string(status)
}

func (r *fakeDonationRequestRepo) Create(ctx context.Context, request *models.DonationRequest) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.err != nil {
		return r.err
	}
	r.nextID++
	request.ID = r.nextID
	request.CreatedAt = time.Now()
	stored := *request
	r.requests[request.ID] = &stored
	return nil
}

func (r *fakeDonationRequestRepo) GetByID(ctx context.Context, id uint) (*models.DonationRequest, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.err != nil {
		return nil, r.err
	}
	req, ok := r.requests[id]
	if !ok {
		return nil, gorm.ErrRecordNotFound
	}
	copied := *req
	return &copied, nil
}

func (r *fakeDonationRequestRepo) sorted(keep func(*models.DonationRequest) bool) []*models.DonationRequest {
	out := []*models.DonationRequest{}
	for _, req := range r.requests {
		if keep(req) {
			out = append(out, req)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ID > out[j].ID })
	return out
}

func (r *fakeDonationRequestRepo) ListByRequester(ctx context.Context, email string, status domain.DonationStatus, limit int) ([]*models.DonationRequest, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.err != nil {
		return nil, r.err
	}
	all := r.sorted(func(req *models.DonationRequest) bool {
		return req.RequesterEmail == email && matchesStatus(req, status)
	})
	if limit > 0 {
		return window(all, 0, limit), nil
	}
	return all, nil
}

func (r *fakeDonationRequestRepo) List(ctx context.Context, filter models.DonationRequestFilter, offset, limit int) ([]*models.DonationRequest, int64, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.err != nil {
		return nil, 0, r.err
	}
	all := r.sorted(func(req *models.DonationRequest) bool { return matchesStatus(req, filter.Status) })
	return window(all, offset, limit), int64(len(all)), nil
}

func (r *fakeDonationRequestRepo) ApplyStatusChange(ctx context.Context, id uint, change models.StatusChange) (bool, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.err != nil {
		return false, r.err
	}
	req, ok := r.requests[id]
	if !ok {
		return false, nil
	}
	if change.From != nil {
		allowed := false
		for _, from := range change.From {
			if req.DonationStatus == from {
				allowed = true
			}
		}
		if !allowed {
			return false, nil
		}
	}
	req.DonationStatus = change.To
	switch {
	case change.ClearDonor:
		req.DonorName, req.DonorEmail = nil, nil
	case change.Donor != nil:
		name, email := change.Donor.Name, change.Donor.Email
		req.DonorName, req.DonorEmail = &name, &email
	}
	return true, nil
}

func (r *fakeDonationRequestRepo) Delete(ctx context.Context, id uint) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.err != nil {
		return r.err
	}
	if _, ok := r.requests[id]; !ok {
		return gorm.ErrRecordNotFound
	}
	delete(r.requests, id)
	return nil
}

func (r *fakeDonationRequestRepo) Count(ctx context.Context, filter models.DonationRequestFilter) (int64, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.err != nil {
		return 0, r.err
	}
	return int64(len(r.sorted(func(req *models.DonationRequest) bool { return matchesStatus(req, filter.Status) }))), nil
}

// ============================================================
// Funding ledger
// ============================================================

type fakeFundingRepo struct {
	mu      sync.Mutex
	records map[string]*models.FundingRecord
	order   []string
	err     error
}

func newFakeFundingRepo() *fakeFundingRepo {
	return &fakeFundingRepo{records: map[string]*models.FundingRecord{}}
}

func (r *fakeFundingRepo) CreateIfAbsent(ctx context.Context, record *models.FundingRecord) (bool, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.err != nil {
		return false, r.err
	}
	if _, ok := r.records[record.TransactionID]; ok {
		return false, nil
	}
	stored := *record
	r.records[record.TransactionID] = &stored
	r.order = append(r.order, record.TransactionID)
	return true, nil
}

func (r *fakeFundingRepo) GetByTransactionID(ctx context.Context, transactionID string) (*models.FundingRecord, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.err != nil {
		return nil, r.err
	}
	rec, ok := r.records[transactionID]
	if !ok {
		return nil, gorm.ErrRecordNotFound
	}
	copied := *rec
	return &copied, nil
}

func (r *fakeFundingRepo) List(ctx context.Context, offset, limit int) ([]*models.FundingRecord, int64, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.err != nil {
		return nil, 0, r.err
	}
	all := make([]*models.FundingRecord, 0, len(r.order))
	for i := len(r.order) - 1; i >= 0; i-- {
		all = append(all, r.records[r.order[i]])
	}
	return window(all, offset, limit), int64(len(all)), nil
}

func (r *fakeFundingRepo) SumAmount(ctx context.Context) (decimal.Decimal, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.err != nil {
		return decimal.Zero, r.err
	}
	sum := decimal.Zero
	for _, rec := range r.records {
		sum = sum.Add(rec.Amount)
	}
	return sum, nil
}

func (r *fakeFundingRepo) count() int {
	r.mu.Lock()
	defer r.mu.Unlock()
	return len(r.records)
}

// window applies offset and limit; a negative limit keeps everything after offset
func window[T any](items []T, offset, limit int) []T {
	if offset >= len(items) {
		return []T{}
	}
	items = items[offset:]
	if limit >= 0 && limit < len(items) {
		items = items[:limit]
	}
	return items
}

// ============================================================
// Payment provider
// ============================================================

type fakePaymentProvider struct {
	mu         sync.Mutex
	sessions   map[string]*CheckoutSession
	lastParams *CheckoutSessionParams
	err        error
}

func newFakePaymentProvider() *fakePaymentProvider {
	return &fakePaymentProvider{sessions: map[string]*CheckoutSession{}}
}

func (p *fakePaymentProvider) addSession(session *CheckoutSession) {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.sessions[session.ID] = session
}

func (p *fakePaymentProvider) CreateCheckoutSession(ctx context.Context, params CheckoutSessionParams) (*CheckoutSession, error) {
	p.mu.Lock()
	defer p.mu.Unlock()
	if p.err != nil {
		return nil, p.err
	}
	p.lastParams = &params
	session := &CheckoutSession{
		ID:          "cs_test_" + params.IdempotencyKey,
		URL:         "https://checkout.example.com/" + params.IdempotencyKey,
		AmountTotal: params.AmountMinor,
		Currency:    params.Currency,
		Metadata:    params.Metadata,
	}
	p.sessions[session.ID] = session
	return session, nil
}

func (p *fakePaymentProvider) RetrieveCheckoutSession(ctx context.Context, id string) (*CheckoutSession, error) {
	p.mu.Lock()
	defer p.mu.Unlock()
	if p.err != nil {
		return nil, p.err
	}
	session, ok := p.sessions[id]
	if !ok {
		return nil, errors.New("no such checkout session")
	}
	copied := *session
	return &copied, nil
}
