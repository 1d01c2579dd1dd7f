// internal/payment/sweeper.go
package payment

import (
	"strconv"
	"time"

	"github.com/shopspring/decimal"
	"github.com/sirupsen/logrus"
	"gorm.io/gorm"

	"github.com/SolterraRealty/api-backoffice/internal/amortization"
	"github.com/SolterraRealty/api-backoffice/internal/contract"
	"github.com/SolterraRealty/api-backoffice/internal/notification"
	"github.com/SolterraRealty/api-backoffice/internal/schedule"
	"github.com/SolterraRealty/api-backoffice/internal/user"
)

// Sweeper is the nightly overdue job: it refreshes the assessed penalty on
// every overdue installment, emails reminders and posts a summary alert.
// Idempotent: the penalty is recomputed from the due date each run, never
// accumulated, so running twice changes nothing.
type Sweeper struct {
	DB        *gorm.DB
	Schedules *schedule.Repository
	Contracts contract.Repository
	Users     user.Repository
	Mailer    *notification.Mailer
	Webhook   *notification.Webhook
	Log       *logrus.Logger
}

func NewSweeper(db *gorm.DB, schedules *schedule.Repository, contracts contract.Repository, users user.Repository, mailer *notification.Mailer, webhook *notification.Webhook, log *logrus.Logger) *Sweeper {
	return &Sweeper{
		DB:        db,
		Schedules: schedules,
		Contracts: contracts,
		Users:     users,
		Mailer:    mailer,
		Webhook:   webhook,
		Log:       log,
	}
}

// Run sweeps all overdue installments as of now.
func (s *Sweeper) Run() {
	asOf := time.Now()
	overdue, err := s.Schedules.ListOverdue(asOf, amortization.GracePeriodDays)
	if err != nil {
		s.Log.Errorf("Overdue sweep failed to list schedules: %v", err)
		return
	}

	s.Log.Infof("Overdue sweep: %d installment(s) past grace", len(overdue))

	assessed := 0
	for _, inst := range overdue {
		remaining := inst.ScheduledAmount.Sub(inst.PaidAmount)
		pr := amortization.ComputePenalty(inst.DueDate, amortization.GracePeriodDays, asOf, remaining)
		if pr.DaysOverdue == 0 {
			continue
		}

		if err := s.Schedules.UpdatePenalty(inst.ID, pr.Penalty); err != nil {
			s.Log.Errorf("Failed to assess penalty on schedule %d: %v", inst.ID, err)
			continue
		}
		assessed++

		s.remind(inst, remaining, pr)
	}

	if assessed > 0 {
		s.Webhook.PostAlert(map[string]string{
			"message":  "overdue sweep completed",
			"overdue":  strconv.Itoa(len(overdue)),
			"assessed": strconv.Itoa(assessed),
			"asOf":     asOf.Format("2006-01-02"),
		})
	}
}

// remind emails the contract's client about one overdue installment.
// Best-effort: lookup or send failures are logged and skipped.
func (s *Sweeper) remind(inst schedule.PaymentSchedule, remaining decimal.Decimal, pr amortization.PenaltyResult) {
	c, err := s.Contracts.FindByID(s.DB, inst.ContractID)
	if err != nil {
		s.Log.Warnf("Sweep reminder: contract %d not found: %v", inst.ContractID, err)
		return
	}
	client, err := s.Users.FindByID(s.DB, c.ClientID)
	if err != nil || client.Email == "" {
		return
	}
	if err := s.Mailer.SendOverdueReminder(client.Email, client.FirstName,
		inst.DueDate, remaining, pr.Penalty, pr.DaysOverdue); err != nil {
		s.Log.Warnf("Sweep reminder to %s failed: %v", client.Email, err)
	}
}
