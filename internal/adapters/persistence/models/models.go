package models

import (
	"time"

	"github.com/shopspring/decimal"
	"gorm.io/gorm"

	"github.com/shemul345/Life-O-positive-server/internal/core/domain"
)

// ============================================================
// Accounts
// ============================================================

// Account represents accounts table.
// Role and Status are server-only: no client input type carries them.
type Account struct {
	ID          uint                 `gorm:"primaryKey" json:"id"`
	Email       string               `gorm:"uniqueIndex;size:191;not null" json:"email"`
	Name        string               `gorm:"size:100" json:"name"`
	Avatar      string               `gorm:"size:512" json:"avatar,omitempty"`
	BloodGroup  string               `gorm:"size:5;index" json:"bloodGroup"`
	District    string               `gorm:"size:100;index" json:"district"`
	SubDistrict string               `gorm:"size:100" json:"subDistrict"`
	Role        domain.Role          `gorm:"size:20;not null;default:'donor';index" json:"role"`
	Status      domain.AccountStatus `gorm:"size:20;not null;default:'active';index" json:"status"`
	CreatedAt   time.Time            `gorm:"autoCreateTime;index" json:"createdAt"`
	UpdatedAt   time.Time            `gorm:"autoUpdateTime" json:"updatedAt"`
}

func (Account) TableName() string {
	return "accounts"
}

// IsBlocked reports whether the account is barred from mutating actions
func (a *Account) IsBlocked() bool {
	return a.Status == domain.AccountBlocked
}

// HasRole reports whether the account holds one of roles
func (a *Account) HasRole(roles ...domain.Role) bool {
	for _, r := range roles {
		if a.Role == r {
			return true
		}
	}
	return false
}

// ProfileFields are the client-writable account attributes.
// Nil pointers are left unchanged on update.
type ProfileFields struct {
	Name        *string
	Avatar      *string
	BloodGroup  *string
	District    *string
	SubDistrict *string
}

// Updates returns the column map for a partial update
func (p ProfileFields) Updates() map[string]interface{} {
	updates := map[string]interface{}{}
	if p.Name != nil {
		updates["name"] = *p.Name
	}
	if p.Avatar != nil {
		updates["avatar"] = *p.Avatar
	}
	if p.BloodGroup != nil {
		updates["blood_group"] = *p.BloodGroup
	}
	if p.District != nil {
		updates["district"] = *p.District
	}
	if p.SubDistrict != nil {
		updates["sub_district"] = *p.SubDistrict
	}
	return updates
}

// AccountFilter narrows account listings
type AccountFilter struct {
	Status domain.AccountStatus
	Role   domain.Role
}

// DonorSearch narrows the public donor search
type DonorSearch struct {
	BloodGroup  string
	District    string
	SubDistrict string
}

// ============================================================
// Donation requests
// ============================================================

// DonationRequest represents donation_requests table.
// LegacyStatus maps the column older records used for the lifecycle state.
type DonationRequest struct {
	ID                   uint                  `gorm:"primaryKey" json:"id"`
	RequesterName        string                `gorm:"size:100" json:"requesterName"`
	RequesterEmail       string                `gorm:"size:191;not null;index" json:"requesterEmail"`
	RecipientName        string                `gorm:"size:100;not null" json:"recipientName"`
	RecipientDistrict    string                `gorm:"size:100" json:"recipientDistrict"`
	RecipientSubDistrict string                `gorm:"size:100" json:"recipientSubDistrict"`
	HospitalName         string                `gorm:"size:191" json:"hospitalName"`
	FullAddress          string                `gorm:"size:255" json:"fullAddress"`
	BloodGroup           string                `gorm:"size:5;index" json:"bloodGroup"`
	DonationDate         string                `gorm:"size:20" json:"donationDate"`
	DonationTime         string                `gorm:"size:20" json:"donationTime"`
	RequestMessage       string                `gorm:"type:text" json:"requestMessage"`
	DonationStatus       domain.DonationStatus `gorm:"size:20;not null;default:'pending';index" json:"donationStatus"`
	LegacyStatus         string                `gorm:"column:status;size:20;index" json:"status,omitempty"`
	DonorName            *string               `gorm:"size:100" json:"donorName,omitempty"`
	DonorEmail           *string               `gorm:"size:191;index" json:"donorEmail,omitempty"`
	CreatedAt            time.Time             `gorm:"autoCreateTime;index" json:"createdAt"`
	UpdatedAt            time.Time             `gorm:"autoUpdateTime" json:"updatedAt"`
}

func (DonationRequest) TableName() string {
	return "donation_requests"
}

// HasDonor reports whether donor fields are populated
func (r *DonationRequest) HasDonor() bool {
	return r.DonorName != nil || r.DonorEmail != nil
}

// DonorAssignment is the donor identity stored with an accepted request
type DonorAssignment struct {
	Name  string
	Email string
}

// StatusChange describes one lifecycle update applied in a single statement.
// From restricts the statuses the row may currently be in; nil means any.
type StatusChange struct {
	From       []domain.DonationStatus
	To         domain.DonationStatus
	Donor      *DonorAssignment
	ClearDonor bool
}

// DonationRequestFilter narrows donation request listings
type DonationRequestFilter struct {
	// Status matches donation_status or the legacy status column
	Status domain.DonationStatus
}

// ============================================================
// Funding ledger
// ============================================================

// FundingRecord represents funding_records table.
// TransactionID is unique: at most one record exists per external payment.
type FundingRecord struct {
	ID            string          `gorm:"primaryKey;size:36" json:"id"`
	Amount        decimal.Decimal `gorm:"type:decimal(12,2);not null" json:"amount"`
	Currency      string          `gorm:"size:3;not null" json:"currency"`
	DonorEmail    string          `gorm:"size:191;index" json:"donorEmail"`
	DonorName     string          `gorm:"size:100" json:"donorName"`
	TransactionID string          `gorm:"uniqueIndex;size:191;not null" json:"transactionId"`
	SessionID     string          `gorm:"size:191;index" json:"sessionId"`
	PaidAt        time.Time       `gorm:"not null;index" json:"paidAt"`
	Status        string          `gorm:"size:20;not null" json:"status"`
	PaymentType   string          `gorm:"size:30;not null" json:"paymentType"`
}

func (FundingRecord) TableName() string {
	return "funding_records"
}

// AutoMigrate creates or updates the tables this service owns
func AutoMigrate(db *gorm.DB) error {
	return db.AutoMigrate(
		&Account{},
		&DonationRequest{},
		&FundingRecord{},
	)
}
