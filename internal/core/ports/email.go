package ports

// EmailService delivers outbound mail.
type EmailService interface {
	// SendReport emails a generated report document to a recipient.
	SendReport(to, subject, reportHTML string) error
}
