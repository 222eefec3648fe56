// Package user provides lead persistence
package user

import (
	"database/sql"
	"fmt"

	"github.com/sitedeck/sitedeck-go/internal/domain/user"
)

type LeadRepository struct {
	db *sql.DB
}

func NewLeadRepository(db *sql.DB) *LeadRepository {
	return &LeadRepository{db: db}
}

func (r *LeadRepository) Store(lead *user.Lead) error {
	query := `INSERT INTO leads (id, name, email, message, source, created_at) VALUES (?, ?, ?, ?, ?, ?)`

	_, err := r.db.Exec(query, lead.ID, lead.Name, lead.Email,
		nullable(lead.Message), nullable(lead.Source), lead.CreatedAt)
	if err != nil {
		return fmt.Errorf("failed to insert lead: %w", err)
	}
	return nil
}

func (r *LeadRepository) FindByID(id string) (*user.Lead, error) {
	query := `SELECT id, name, email, message, source, created_at FROM leads WHERE id = ?`

	lead := &user.Lead{}
	var message, source sql.NullString
	err := r.db.QueryRow(query, id).Scan(&lead.ID, &lead.Name, &lead.Email,
		&message, &source, &lead.CreatedAt)
	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to load lead %s: %w", id, err)
	}

	lead.Message = message.String
	lead.Source = source.String
	return lead, nil
}

func (r *LeadRepository) FindAll() ([]*user.Lead, error) {
	query := `SELECT id, name, email, message, source, created_at FROM leads ORDER BY created_at DESC`

	rows, err := r.db.Query(query)
	if err != nil {
		return nil, fmt.Errorf("failed to query leads: %w", err)
	}
	defer rows.Close()

	var leads []*user.Lead
	for rows.Next() {
		lead := &user.Lead{}
		var message, source sql.NullString
		if err := rows.Scan(&lead.ID, &lead.Name, &lead.Email,
			&message, &source, &lead.CreatedAt); err != nil {
			return nil, fmt.Errorf("failed to scan lead row: %w", err)
		}
		lead.Message = message.String
		lead.Source = source.String
		leads = append(leads, lead)
	}
	return leads, rows.Err()
}

func nullable(s string) any {
	if s == "" {
		return nil
	}
	return s
}
