package jobs

import (
	"context"
	"sync"
	"time"

	"rfortes/gym-studio/internal/logger"
	"rfortes/gym-studio/internal/service"

	"github.com/robfig/cron/v3"
)

// expirySchedule runs the sweep every morning at 08:00.
const expirySchedule = "0 8 * * *"

// ExpirySweeper periodically reports contracts approaching or past
// their end date. It is observational only: expiry never changes a
// contract's status, staff decide whether to renew or complete.
type ExpirySweeper struct {
	contracts service.ContractService
	log       *logger.Logger
	cron      *cron.Cron
	startup   sync.WaitGroup
}

// NewExpirySweeper creates an ExpirySweeper. Call Start to schedule it.
func NewExpirySweeper(contracts service.ContractService, log *logger.Logger) *ExpirySweeper {
	return &ExpirySweeper{
		contracts: contracts,
		log:       log,
		cron:      cron.New(),
	}
}

// Start schedules the daily sweep and runs one immediately so a fresh
// deployment reports current state without waiting a day.
func (s *ExpirySweeper) Start() error {
	if _, err := s.cron.AddFunc(expirySchedule, s.Sweep); err != nil {
		return err
	}
	s.cron.Start()
	s.startup.Add(1)
	go func() {
		defer s.startup.Done()
		s.Sweep()
	}()
	return nil
}

// Stop halts the schedule and waits for any running sweep, including
// the startup one, to finish.
func (s *ExpirySweeper) Stop() {
	<-s.cron.Stop().Done()
	s.startup.Wait()
}

// Sweep logs every active contract inside the warning window and every
// contract already past its end date.
func (s *ExpirySweeper) Sweep() {
	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	for _, days := range []int{7, 3} {
		window := time.Duration(days) * 24 * time.Hour
		expiring, err := s.contracts.ExpiringContracts(ctx, window)
		if err != nil {
			s.log.Error("expiry sweep: listing expiring contracts", "withinDays", days, "error", err)
			continue
		}
		for _, contract := range expiring {
			s.log.Warn("contract expiring soon",
				"contractId", contract.ID.Hex(),
				"clientId", contract.ClientID.Hex(),
				"endDate", contract.EndDate.Format("2006-01-02"),
				"daysRemaining", contract.DaysRemaining(),
			)
		}
	}

	expired, err := s.contracts.ExpiredContracts(ctx)
	if err != nil {
		s.log.Error("expiry sweep: listing expired contracts", "error", err)
		return
	}
	for _, contract := range expired {
		s.log.Warn("active contract past its end date",
			"contractId", contract.ID.Hex(),
			"clientId", contract.ClientID.Hex(),
			"endDate", contract.EndDate.Format("2006-01-02"),
		)
	}
	s.log.Info("expiry sweep finished", "expired", len(expired))
}
