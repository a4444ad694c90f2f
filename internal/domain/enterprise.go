package domain

import "time"

// EnterpriseType mirrors the ticket kind an enterprise generates traffic for.
type EnterpriseType string

const (
	EnterpriseTypeSMS   EnterpriseType = "sms"
	EnterpriseTypeVoice EnterpriseType = "voice"
)

// Enterprise is a customer or vendor account. AssignedAMID references the
// single account manager notified about the enterprise's tickets.
type Enterprise struct {
	ID             string
	Name           string
	ContactPerson  string
	ContactEmail   string
	ContactPhone   string
	AssignedAMID   *string
	Tier           string
	NOCEmails      string
	Notes          string
	Type           EnterpriseType
	CustomerTrunks []string
	VendorTrunks   []string
	CreatedAt      time.Time
}
