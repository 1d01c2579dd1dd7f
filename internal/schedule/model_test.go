package schedule

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestIsOverdue(t *testing.T) {
	due := time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC)
	s := PaymentSchedule{DueDate: due, PaymentStatus: StatusPending}

	assert.False(t, s.IsOverdue(due.AddDate(0, 0, 3), 3), "grace end itself is not overdue")
	assert.True(t, s.IsOverdue(due.AddDate(0, 0, 4), 3))

	s.PaymentStatus = StatusPaid
	assert.False(t, s.IsOverdue(due.AddDate(0, 0, 30), 3), "settled installments are never overdue")

	s = PaymentSchedule{PaymentStatus: StatusPending}
	assert.False(t, s.IsOverdue(time.Now(), 3), "zero due date means not yet scheduled")
}
