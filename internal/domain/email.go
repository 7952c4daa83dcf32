package domain

import "context"

// Mailer defines the contract for sending emails (infrastructure port).
type Mailer interface {
	Send(to, subject, html, text string) error
}

// EmailTemplateRenderer renders email content from a named template with the given data.
type EmailTemplateRenderer interface {
	Render(templateName string, data any) (subject, htmlBody, textBody string, err error)
}

// OrderConfirmationEmailData holds data for the order confirmation email.
type OrderConfirmationEmailData struct {
	Email       string
	Name        string
	EventName   string
	TicketCount int
	TotalAmount float64
	OrderID     string
}

// WaitlistSeatAvailableEmailData holds data for the seats-freed waitlist email.
type WaitlistSeatAvailableEmailData struct {
	Email     string
	Name      string
	EventName string
	EventID   string
}

// EmailService defines the contract for sending domain-level emails.
type EmailService interface {
	SendOrderConfirmation(ctx context.Context, data *OrderConfirmationEmailData) error
	SendWaitlistSeatAvailable(ctx context.Context, data *WaitlistSeatAvailableEmailData) error
}
