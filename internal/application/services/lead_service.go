// Package services provides the application service layer
package services

import (
	"errors"
	"strings"
	"time"

	"github.com/sitedeck/sitedeck-go/internal/domain/user"
	"github.com/sitedeck/sitedeck-go/internal/infrastructure/email"
	"github.com/sitedeck/sitedeck-go/internal/infrastructure/email/templates"
	"github.com/sitedeck/sitedeck-go/internal/infrastructure/observability/logging"
	"github.com/sitedeck/sitedeck-go/internal/infrastructure/security"
	"github.com/sitedeck/sitedeck-go/pkg/config"
)

var ErrInvalidLead = errors.New("lead requires a name and email")

// LeadService captures contact-form submissions. The notification email is
// fire-and-forget; a mail failure never loses the lead.
type LeadService struct {
	repo   user.LeadRepository
	mailer email.Service
	logger *logging.ChanneledLogger
}

func NewLeadService(repo user.LeadRepository, mailer email.Service, logger *logging.ChanneledLogger) *LeadService {
	return &LeadService{
		repo:   repo,
		mailer: mailer,
		logger: logger,
	}
}

// Capture stores a new lead and sends the notification email in the
// background.
func (s *LeadService) Capture(name, emailAddr, message, source string) (*user.Lead, error) {
	name = strings.TrimSpace(name)
	emailAddr = strings.TrimSpace(emailAddr)
	if name == "" || emailAddr == "" || !strings.Contains(emailAddr, "@") {
		return nil, ErrInvalidLead
	}

	lead := &user.Lead{
		ID:        security.GenerateULID(),
		Name:      name,
		Email:     emailAddr,
		Message:   strings.TrimSpace(message),
		Source:    strings.TrimSpace(source),
		CreatedAt: time.Now().UTC(),
	}
	if err := s.repo.Store(lead); err != nil {
		return nil, err
	}

	s.logger.Content().Info("Lead captured", "id", lead.ID, "source", lead.Source)
	s.notify(lead)
	return lead, nil
}

func (s *LeadService) List() ([]*user.Lead, error) {
	return s.repo.FindAll()
}

func (s *LeadService) notify(lead *user.Lead) {
	if s.mailer == nil || config.LeadNotifyEmail == "" {
		return
	}
	go func() {
		err := s.mailer.SendLeadNotification(config.LeadNotifyEmail, templates.LeadNotificationProps{
			Name:    lead.Name,
			Email:   lead.Email,
			Message: lead.Message,
			Source:  lead.Source,
		})
		if err != nil {
			s.logger.Mail().Warn("Lead notification email failed", "leadId", lead.ID, "error", err.Error())
		}
	}()
}
