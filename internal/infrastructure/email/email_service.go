package email

import (
	"fmt"

	config "github.com/archstack/fieldreport/configs"
	"github.com/archstack/fieldreport/internal/core/ports"
	"github.com/sendgrid/sendgrid-go"
	"github.com/sendgrid/sendgrid-go/helpers/mail"
	"github.com/sirupsen/logrus"
)

type SendGridEmailService struct {
	client    *sendgrid.Client
	fromEmail string
	fromName  string
	logger    *logrus.Logger
}

func NewSendGridEmailService(cfg *config.EmailConfig, logger *logrus.Logger) ports.EmailService {
	return &SendGridEmailService{
		client:    sendgrid.NewSendClient(cfg.SendGridAPIKey),
		fromEmail: cfg.FromEmail,
		fromName:  cfg.FromName,
		logger:    logger,
	}
}

func (s *SendGridEmailService) SendReport(to, subject, reportHTML string) error {
	from := mail.NewEmail(s.fromName, s.fromEmail)
	recipient := mail.NewEmail("", to)
	plain := "Your site visit report is attached. Open this email in an HTML-capable client to view it."
	message := mail.NewSingleEmail(from, subject, recipient, plain, reportHTML)

	response, err := s.client.Send(message)
	if err != nil {
		if s.logger != nil {
			s.logger.WithError(err).WithField("to", to).Error("failed to send report email")
		}
		return fmt.Errorf("failed to send report email: %w", err)
	}
	if response.StatusCode >= 400 {
		if s.logger != nil {
			s.logger.WithFields(logrus.Fields{"to": to, "status": response.StatusCode}).Error("report email rejected by provider")
		}
		return fmt.Errorf("report email rejected with status %d", response.StatusCode)
	}

	if s.logger != nil {
		s.logger.WithField("to", to).Info("report email sent")
	}
	return nil
}
