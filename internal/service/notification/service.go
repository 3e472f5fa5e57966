package notification

import (
	"fmt"

	"github.com/rs/zerolog/log"
	"gopkg.in/gomail.v2"
)

// Notifier sends operational email. Implementations must be safe for
// concurrent use.
type Notifier interface {
	SendAppointmentConfirmation(to, patientName, doctorName, date, timeSlot string) error
}

type Config struct {
	Host     string
	Port     int
	Username string
	Password string
	From     string
}

type emailNotifier struct {
	dialer *gomail.Dialer
	from   string
}

// NewEmailNotifier builds an SMTP notifier. With no host configured it
// returns a no-op notifier so scheduling never depends on mail being
// set up.
func NewEmailNotifier(cfg Config) Notifier {
	if cfg.Host == "" {
		log.Warn().Msg("SMTP not configured, email notifications disabled")
		return &noopNotifier{}
	}
	return &emailNotifier{
		dialer: gomail.NewDialer(cfg.Host, cfg.Port, cfg.Username, cfg.Password),
		from:   cfg.From,
	}
}

func (n *emailNotifier) SendAppointmentConfirmation(to, patientName, doctorName, date, timeSlot string) error {
	m := gomail.NewMessage()
	m.SetHeader("From", n.from)
	m.SetHeader("To", to)
	m.SetHeader("Subject", "Appointment Confirmation")
	m.SetBody("text/plain", fmt.Sprintf(
		"Dear %s,\n\nYour appointment with Dr. %s is confirmed for %s at %s.\n\nPlease arrive 15 minutes early.\n",
		patientName, doctorName, date, timeSlot,
	))

	if err := n.dialer.DialAndSend(m); err != nil {
		return fmt.Errorf("failed to send confirmation email: %w", err)
	}
	return nil
}

type noopNotifier struct{}

func (n *noopNotifier) SendAppointmentConfirmation(to, patientName, doctorName, date, timeSlot string) error {
	return nil
}
