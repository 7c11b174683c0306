package models

import "fmt"

type Status string

const (
	StatusLead      Status = "Lead"
	StatusActive    Status = "Active"
	StatusInactive  Status = "Inactive"
	StatusPending   Status = "Pending"
	StatusCompleted Status = "Completed"
)

// Statuses lists every status in display order.
var Statuses = []Status{StatusLead, StatusActive, StatusInactive, StatusPending, StatusCompleted}

var Services = []string{
	"Digital Marketing",
	"Web Development",
	"Social Media Management",
	"Content Creation",
	"Brand Strategy",
}

var BudgetRanges = []string{
	"$1,000 - $5,000",
	"$5,000 - $10,000",
	"$10,000 - $25,000",
	"$25,000+",
}

// ClientFields is a client record without its identifier. It is the body of
// a create request, so the identifier can never be sent by a caller.
type ClientFields struct {
	Name        string `json:"name" gorm:"not null" validate:"required" binding:"required"`
	Company     string `json:"company"`
	Email       string `json:"email" gorm:"not null" validate:"required,email" binding:"required,email"`
	Phone       string `json:"phone"`
	Status      Status `json:"status"`
	Service     string `json:"service"`
	Budget      string `json:"budget"`
	LastContact string `json:"lastContact"`
	FollowUp    string `json:"followUp"`
	Notes       string `json:"notes"`
}

// Client is a persisted client record. ID is assigned by the server.
type Client struct {
	ID string `json:"_id,omitempty" gorm:"primaryKey"`
	ClientFields
}

func (s Status) Valid() bool {
	for _, status := range Statuses {
		if s == status {
			return true
		}
	}
	return false
}

// Normalize fills defaults and checks enum membership. Empty optional enums
// are accepted; an empty status becomes Lead.
func (f ClientFields) Normalize() (ClientFields, error) {
	return f.NormalizeAgainst(ClientFields{})
}

// NormalizeAgainst is Normalize for an edit of current: an enum value that
// current already holds is kept even when it is not a known option.
func (f ClientFields) NormalizeAgainst(current ClientFields) (ClientFields, error) {
	if f.Status == "" {
		f.Status = StatusLead
	}
	if !f.Status.Valid() && f.Status != current.Status {
		return f, fmt.Errorf("unknown status %q", f.Status)
	}
	if f.Service != "" && f.Service != current.Service && !contains(Services, f.Service) {
		return f, fmt.Errorf("unknown service %q", f.Service)
	}
	if f.Budget != "" && f.Budget != current.Budget && !contains(BudgetRanges, f.Budget) {
		return f, fmt.Errorf("unknown budget range %q", f.Budget)
	}
	return f, nil
}

func contains(values []string, v string) bool {
	for _, value := range values {
		if value == v {
			return true
		}
	}
	return false
}
