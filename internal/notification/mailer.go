// internal/notification/mailer.go
package notification

import (
	"fmt"
	"net/smtp"
	"time"

	"github.com/jordan-wright/email"
	"github.com/shopspring/decimal"
	"github.com/sirupsen/logrus"

	"github.com/SolterraRealty/api-backoffice/internal/config"
)

// Mailer sends transactional email via SMTP. All sends are best-effort:
// callers log failures and never fail the business operation over one.
type Mailer struct {
	cfg *config.Config
	log *logrus.Logger
}

func NewMailer(cfg *config.Config, log *logrus.Logger) *Mailer {
	return &Mailer{cfg: cfg, log: log}
}

func (m *Mailer) send(e *email.Email) error {
	e.From = m.cfg.EmailFrom
	addr := fmt.Sprintf("%s:%s", m.cfg.SMTPHost, m.cfg.SMTPPort)
	auth := smtp.PlainAuth("", m.cfg.SMTPUser, m.cfg.SMTPPassword, m.cfg.SMTPHost)
	if err := e.Send(addr, auth); err != nil {
		m.log.Errorf("Failed to send email to %v: %v", e.To, err)
		return fmt.Errorf("failed to send email: %w", err)
	}
	m.log.Infof("Email sent to %v: %s", e.To, e.Subject)
	return nil
}

// SendPaymentReceipt confirms a recorded walk-in payment.
func (m *Mailer) SendPaymentReceipt(to, name, reference string, amount, penalty, total decimal.Decimal, installmentNumber int) error {
	e := email.NewEmail()
	e.To = []string{to}
	e.Subject = "Payment Receipt"

	body := fmt.Sprintf("Dear %s,\n\n", name)
	body += fmt.Sprintf(
		"We received your payment for installment #%d.\n"+
			"Amount applied: %s\n"+
			"Penalty paid: %s\n"+
			"Total: %s\n"+
			"Reference number: %s\n"+
			"Date: %s\n",
		installmentNumber, amount.StringFixed(2), penalty.StringFixed(2),
		total.StringFixed(2), reference, time.Now().Format("2006-01-02 15:04:05"),
	)
	body += "\nBest regards,\nSolterra Realty"
	e.Text = []byte(body)

	return m.send(e)
}

// SendOverdueReminder warns a client about an installment past its grace
// period.
func (m *Mailer) SendOverdueReminder(to, name string, dueDate time.Time, remaining, penalty decimal.Decimal, daysOverdue int) error {
	e := email.NewEmail()
	e.To = []string{to}
	e.Subject = "Overdue Installment Notice"

	body := fmt.Sprintf("Dear %s,\n\n", name)
	body += fmt.Sprintf(
		"Your installment of %s was due on %s and is now %d day(s) overdue.\n"+
			"An overdue penalty of %s currently applies.\n"+
			"Please settle at any of our offices to avoid further penalties.\n",
		remaining.StringFixed(2), dueDate.Format("2006-01-02"), daysOverdue,
		penalty.StringFixed(2),
	)
	body += "\nBest regards,\nSolterra Realty"
	e.Text = []byte(body)

	return m.send(e)
}

// SendTemporaryPassword delivers a staff-issued temporary password.
func (m *Mailer) SendTemporaryPassword(to, name, password string) error {
	e := email.NewEmail()
	e.To = []string{to}
	e.Subject = "Your Temporary Password"

	body := fmt.Sprintf(
		"Dear %s,\n\nA temporary password was generated for your account: %s\n"+
			"Please sign in and change it immediately.\n\nBest regards,\nSolterra Realty",
		name, password,
	)
	e.Text = []byte(body)

	return m.send(e)
}
