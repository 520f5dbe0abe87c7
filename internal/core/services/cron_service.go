package services

import (
	"context"
	"log"
	"time"

	"github.com/robfig/cron/v3"

	"openshelf/internal/adapters/persistence/repositories"
)

// overdueReminderSpec fires the daily overdue sweep at 08:30 server time
const overdueReminderSpec = "30 8 * * *"

// CronService runs scheduled background jobs: currently the daily
// overdue-loan reminder sweep.
type CronService struct {
	cron     *cron.Cron
	loanRepo repositories.LoanRepository
	email    *EmailService
}

// NewCronService creates a new cron service
func NewCronService(loanRepo repositories.LoanRepository, email *EmailService) *CronService {
	return &CronService{
		cron:     cron.New(),
		loanRepo: loanRepo,
		email:    email,
	}
}

// Start registers and launches the scheduled jobs
func (s *CronService) Start() {
	if _, err := s.cron.AddFunc(overdueReminderSpec, s.remindOverdueLoans); err != nil {
		log.Printf("❌ Failed to schedule overdue reminder: %v", err)
		return
	}

	s.cron.Start()
	log.Println("🚀 CronService started")
}

// Stop stops the scheduler, waiting for a running job to finish
func (s *CronService) Stop() {
	ctx := s.cron.Stop()
	<-ctx.Done()
	log.Println("🛑 CronService stopped")
}

// remindOverdueLoans emails every borrower holding an open loan past its
// due date. One failed send does not stop the sweep.
func (s *CronService) remindOverdueLoans() {
	ctx, cancel := context.WithTimeout(context.Background(), 2*time.Minute)
	defer cancel()

	loans, err := s.loanRepo.ListOverdue(ctx, time.Now())
	if err != nil {
		log.Printf("❌ Overdue sweep query error: %v", err)
		return
	}
	if len(loans) == 0 {
		return
	}

	sent := 0
	for _, loan := range loans {
		if loan.User == nil || loan.Book == nil {
			continue
		}
		if err := s.email.NotifyLoanOverdue(loan.User.Email, loan.User.Username, loan.Book.Title, loan.DueDate); err != nil {
			log.Printf("⚠️ Overdue reminder failed for loan %d (%s): %v", loan.ID, loan.User.Email, err)
			continue
		}
		sent++
	}

	log.Printf("📬 Overdue sweep: %d loans overdue, %d reminders sent", len(loans), sent)
}
