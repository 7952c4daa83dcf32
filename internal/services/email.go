package services

import (
	"context"
	"fmt"
	"log"

	"stagepass/internal/domain"
)

type emailService struct {
	mailer   domain.Mailer
	renderer domain.EmailTemplateRenderer
}

// NewEmailService returns an EmailService that uses the given Mailer and template renderer.
func NewEmailService(mailer domain.Mailer, renderer domain.EmailTemplateRenderer) domain.EmailService {
	return &emailService{mailer: mailer, renderer: renderer}
}

// SendOrderConfirmation sends the order confirmation email using the "order_confirmation" template.
func (s *emailService) SendOrderConfirmation(ctx context.Context, data *domain.OrderConfirmationEmailData) error {
	if data == nil {
		return fmt.Errorf("order confirmation data is nil")
	}
	subject, htmlBody, textBody, err := s.renderer.Render("order_confirmation", data)
	if err != nil {
		return fmt.Errorf("failed to render order_confirmation template: %w", err)
	}
	if err := s.mailer.Send(data.Email, subject, htmlBody, textBody); err != nil {
		return fmt.Errorf("failed to send order confirmation email: %w", err)
	}
	log.Printf("[EMAIL] Order confirmation sent to %s", data.Email)
	return nil
}

// SendWaitlistSeatAvailable sends the seats-freed notification using the "waitlist_available" template.
func (s *emailService) SendWaitlistSeatAvailable(ctx context.Context, data *domain.WaitlistSeatAvailableEmailData) error {
	if data == nil {
		return fmt.Errorf("waitlist notification data is nil")
	}
	subject, htmlBody, textBody, err := s.renderer.Render("waitlist_available", data)
	if err != nil {
		return fmt.Errorf("failed to render waitlist_available template: %w", err)
	}
	if err := s.mailer.Send(data.Email, subject, htmlBody, textBody); err != nil {
		return fmt.Errorf("failed to send waitlist email: %w", err)
	}
	log.Printf("[EMAIL] Waitlist notification sent to %s", data.Email)
	return nil
}
