package services

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/sirupsen/logrus"
	"gorm.io/gorm"

	"github.com/shemul345/Life-O-positive-server/internal/adapters/persistence/models"
	"github.com/shemul345/Life-O-positive-server/internal/adapters/persistence/repositories"
	"github.com/shemul345/Life-O-positive-server/internal/core/domain"
	"github.com/shemul345/Life-O-positive-server/internal/pkg/metrics"
	"github.com/shemul345/Life-O-positive-server/internal/pkg/pagination"
)

// DonationRequestService drives the donation request lifecycle
type DonationRequestService struct {
	requests repositories.DonationRequestRepository
	accounts repositories.AccountRepository
	policy   domain.TransitionPolicy
	log      logrus.FieldLogger
}

// NewDonationRequestService creates a new donation request service
func NewDonationRequestService(
	requests repositories.DonationRequestRepository,
	accounts repositories.AccountRepository,
	policy domain.TransitionPolicy,
	log logrus.FieldLogger,
) *DonationRequestService {
	return &DonationRequestService{
		requests: requests,
		accounts: accounts,
		policy:   policy,
		log:      log,
	}
}

// CreateDonationRequestInput represents a new donation request.
// Owner, status and donor fields are assigned by the server.
type CreateDonationRequestInput struct {
	RequesterName        string `json:"requesterName"`
	RecipientName        string `json:"recipientName"`
	RecipientDistrict    string `json:"recipientDistrict"`
	RecipientSubDistrict string `json:"recipientSubDistrict"`
	HospitalName         string `json:"hospitalName"`
	FullAddress          string `json:"fullAddress"`
	BloodGroup           string `json:"bloodGroup"`
	DonationDate         string `json:"donationDate"`
	DonationTime         string `json:"donationTime"`
	RequestMessage       string `json:"requestMessage"`
}

// AcceptInput represents a donor volunteering for a request
type AcceptInput struct {
	DonorName  string `json:"donorName"`
	DonorEmail string `json:"donorEmail"`
}

// UpdateStatusInput represents an explicit status change
type UpdateStatusInput struct {
	DonationStatus domain.DonationStatus `json:"donationStatus"`
	DonorName      *string               `json:"donorName"`
	DonorEmail     *string               `json:"donorEmail"`
}

// ListMineInput represents the owner listing query
type ListMineInput struct {
	Status string
	Limit  int
}

// ListAllInput represents the staff listing query
type ListAllInput struct {
	Params pagination.Params
	Status string
}

// Create stores a new pending request owned by principal
func (s *DonationRequestService) Create(ctx context.Context, principal string, input *CreateDonationRequestInput) (*models.DonationRequest, error) {
	required := []struct {
		name  string
		value string
	}{
		{"recipientName", input.RecipientName},
		{"bloodGroup", input.BloodGroup},
		{"recipientDistrict", input.RecipientDistrict},
		{"hospitalName", input.HospitalName},
		{"donationDate", input.DonationDate},
	}
	for _, field := range required {
		if strings.TrimSpace(field.value) == "" {
			return nil, fmt.Errorf("%w: %s is required", domain.ErrInvalidRequest, field.name)
		}
	}

	owner := domain.NormalizeEmail(principal)
	requesterName := strings.TrimSpace(input.RequesterName)
	if requesterName == "" {
		account, err := s.accounts.GetByEmail(ctx, owner)
		if err != nil && !errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, err
		}
		if account != nil {
			requesterName = account.Name
		}
	}

	request := &models.DonationRequest{
		RequesterName:        requesterName,
		RequesterEmail:       owner,
		RecipientName:        strings.TrimSpace(input.RecipientName),
		RecipientDistrict:    input.RecipientDistrict,
		RecipientSubDistrict: input.RecipientSubDistrict,
		HospitalName:         input.HospitalName,
		FullAddress:          input.FullAddress,
		BloodGroup:           input.BloodGroup,
		DonationDate:         input.DonationDate,
		DonationTime:         input.DonationTime,
		RequestMessage:       input.RequestMessage,
		DonationStatus:       domain.DonationPending,
	}

	if err := s.requests.Create(ctx, request); err != nil {
		return nil, err
	}

	s.log.WithFields(logrus.Fields{"request_id": request.ID, "owner": owner}).Info("Donation request created")
	return request, nil
}

// Get returns one request by id
func (s *DonationRequestService) Get(ctx context.Context, id uint) (*models.DonationRequest, error) {
	request, err := s.requests.GetByID(ctx, id)
	if err != nil {
		return nil, notFound(err, domain.ErrDonationRequestNotFound)
	}
	return request, nil
}

// ListMine lists requests owned by principal, newest first
func (s *DonationRequestService) ListMine(ctx context.Context, principal string, input *ListMineInput) ([]*models.DonationRequest, error) {
	status, err := parseStatusFilter(input.Status)
	if err != nil {
		return nil, err
	}
	if input.Limit < 0 {
		return nil, fmt.Errorf("%w: limit must not be negative", domain.ErrInvalidRequest)
	}

	return s.requests.ListByRequester(ctx, domain.NormalizeEmail(principal), status, input.Limit)
}

// ListAll lists requests of every owner with pagination
func (s *DonationRequestService) ListAll(ctx context.Context, input *ListAllInput) (*pagination.Response, error) {
	status, err := parseStatusFilter(input.Status)
	if err != nil {
		return nil, err
	}

	requests, total, err := s.requests.List(ctx, models.DonationRequestFilter{Status: status}, input.Params.Offset, input.Params.Size)
	if err != nil {
		return nil, err
	}
	if requests == nil {
		requests = []*models.DonationRequest{}
	}

	return pagination.NewResponse(requests, input.Params, total), nil
}

// ListPending lists pending requests, newest first.
// A non-positive limit returns every pending request.
func (s *DonationRequestService) ListPending(ctx context.Context, limit int) ([]*models.DonationRequest, error) {
	if limit <= 0 {
		limit = -1 // gorm drops the LIMIT clause
	}

	requests, _, err := s.requests.List(ctx, models.DonationRequestFilter{Status: domain.DonationPending}, 0, limit)
	if err != nil {
		return nil, err
	}
	if requests == nil {
		requests = []*models.DonationRequest{}
	}
	return requests, nil
}

// Accept moves a request to inprogress and records the donor in the same update
func (s *DonationRequestService) Accept(ctx context.Context, id uint, input *AcceptInput) (*models.DonationRequest, error) {
	name := strings.TrimSpace(input.DonorName)
	email := domain.NormalizeEmail(input.DonorEmail)
	if name == "" || email == "" {
		return nil, fmt.Errorf("%w: donorName and donorEmail are required", domain.ErrInvalidRequest)
	}

	return s.transition(ctx, id, models.StatusChange{
		To:    domain.DonationInProgress,
		Donor: &models.DonorAssignment{Name: name, Email: email},
	})
}

// UpdateStatus sets an explicit status. Moving back to pending clears the donor.
func (s *DonationRequestService) UpdateStatus(ctx context.Context, id uint, input *UpdateStatusInput) (*models.DonationRequest, error) {
	if !input.DonationStatus.Valid() {
		return nil, fmt.Errorf("%w: donationStatus must be one of pending, inprogress, done, canceled", domain.ErrInvalidRequest)
	}

	change := models.StatusChange{To: input.DonationStatus}
	switch {
	case input.DonationStatus == domain.DonationPending:
		change.ClearDonor = true
	case (input.DonorName == nil) != (input.DonorEmail == nil):
		return nil, fmt.Errorf("%w: donorName and donorEmail must be sent together", domain.ErrInvalidRequest)
	case input.DonorName != nil:
		name := strings.TrimSpace(*input.DonorName)
		email := domain.NormalizeEmail(*input.DonorEmail)
		if name == "" || email == "" {
			return nil, fmt.Errorf("%w: donorName and donorEmail must not be empty", domain.ErrInvalidRequest)
		}
		change.Donor = &models.DonorAssignment{Name: name, Email: email}
	}

	return s.transition(ctx, id, change)
}

// Delete removes a request when principal owns it or is an admin
func (s *DonationRequestService) Delete(ctx context.Context, principal string, id uint) error {
	request, err := s.Get(ctx, id)
	if err != nil {
		return err
	}

	principal = domain.NormalizeEmail(principal)
	if request.RequesterEmail != principal {
		account, err := s.accounts.GetByEmail(ctx, principal)
		if err != nil && !errors.Is(err, gorm.ErrRecordNotFound) {
			return err
		}
		if account == nil || !account.HasRole(domain.RoleAdmin) {
			return fmt.Errorf("%w: only the owner or an admin can delete this request", domain.ErrForbidden)
		}
	}

	if err := s.requests.Delete(ctx, id); err != nil {
		return notFound(err, domain.ErrDonationRequestNotFound)
	}

	s.log.WithFields(logrus.Fields{"request_id": id, "by": principal}).Info("Donation request deleted")
	return nil
}

// transition applies change guarded by the configured policy.
// When nothing matched, a follow-up read tells a missing request from a rejected edge.
func (s *DonationRequestService) transition(ctx context.Context, id uint, change models.StatusChange) (*models.DonationRequest, error) {
	change.From = s.policy.AllowedFrom(change.To)

	applied, err := s.requests.ApplyStatusChange(ctx, id, change)
	if err != nil {
		return nil, err
	}
	metrics.RecordTransition(string(change.To), applied)

	if !applied {
		current, err := s.Get(ctx, id)
		if err != nil {
			return nil, err
		}
		return nil, fmt.Errorf("%w: cannot move from %s to %s", domain.ErrInvalidTransition, current.DonationStatus, change.To)
	}

	s.log.WithFields(logrus.Fields{"request_id": id, "status": change.To}).Info("Donation request status changed")
	return s.Get(ctx, id)
}

// parseStatusFilter treats empty and "all" as no filter
func parseStatusFilter(raw string) (domain.DonationStatus, error) {
	if raw == "" || raw == domain.StatusFilterAll {
		return "", nil
	}
	status := domain.DonationStatus(raw)
	if !status.Valid() {
		return "", fmt.Errorf("%w: unknown status %q", domain.ErrInvalidRequest, raw)
	}
	return status, nil
}
