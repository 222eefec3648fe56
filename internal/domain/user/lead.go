// Package user defines the lead domain entity and its repository contract.
package user

import "time"

// Lead is a contact captured from the public site (contact form or course
// enquiry), surfaced in the admin leads view.
type Lead struct {
	ID        string    `json:"id"`
	Name      string    `json:"name"`
	Email     string    `json:"email"`
	Message   string    `json:"message,omitempty"`
	Source    string    `json:"source,omitempty"`
	CreatedAt time.Time `json:"createdAt"`
}

// LeadRepository is the persistence contract for leads.
type LeadRepository interface {
	Store(lead *Lead) error
	FindByID(id string) (*Lead, error)
	FindAll() ([]*Lead, error)
}
