package domain

import "strings"

// Role represents an account role
type Role string

const (
	RoleDonor     Role = "donor"
	RoleVolunteer Role = "volunteer"
	RoleAdmin     Role = "admin"
)

// Valid reports whether r is a known role
func (r Role) Valid() bool {
	switch r {
	case RoleDonor, RoleVolunteer, RoleAdmin:
		return true
	}
	return false
}

// AccountStatus represents whether an account may mutate resources
type AccountStatus string

const (
	AccountActive  AccountStatus = "active"
	AccountBlocked AccountStatus = "blocked"
)

// Valid reports whether s is a known account status
func (s AccountStatus) Valid() bool {
	return s == AccountActive || s == AccountBlocked
}

// DonationStatus is the lifecycle state of a donation request
type DonationStatus string

const (
	DonationPending    DonationStatus = "pending"
	DonationInProgress DonationStatus = "inprogress"
	DonationDone       DonationStatus = "done"
	DonationCanceled   DonationStatus = "canceled"
)

// AllDonationStatuses lists every lifecycle state
var AllDonationStatuses = []DonationStatus{
	DonationPending,
	DonationInProgress,
	DonationDone,
	DonationCanceled,
}

// Valid reports whether s is a known donation status
func (s DonationStatus) Valid() bool {
	for _, known := range AllDonationStatuses {
		if s == known {
			return true
		}
	}
	return false
}

// FundingStatusCompleted is the only status a funding record is stored with
const FundingStatusCompleted = "completed"

// StatusFilterAll disables status filtering on listings
const StatusFilterAll = "all"

// NormalizeEmail lower-cases and trims an email so lookups are case-insensitive
func NormalizeEmail(email string) string {
	return strings.ToLower(strings.TrimSpace(email))
}
