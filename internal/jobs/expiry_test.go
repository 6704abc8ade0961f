package jobs

import (
	"context"
	"sync"
	"testing"
	"time"

	"rfortes/gym-studio/internal/domain"
	"rfortes/gym-studio/internal/logger"
	"rfortes/gym-studio/internal/service"
)

// stubContractService embeds the interface so only the methods the
// sweep touches need real bodies.
type stubContractService struct {
	service.ContractService

	mu            sync.Mutex
	expiringCalls int
	expiredCalls  int
}

func (s *stubContractService) ExpiringContracts(_ context.Context, _ time.Duration) ([]domain.Contract, error) {
	// Slow enough that an untracked startup sweep would still be
	// running when Stop returns.
	time.Sleep(20 * time.Millisecond)
	s.mu.Lock()
	defer s.mu.Unlock()
	s.expiringCalls++
	return nil, nil
}

func (s *stubContractService) ExpiredContracts(_ context.Context) ([]domain.Contract, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.expiredCalls++
	return nil, nil
}

func TestStopWaitsForStartupSweep(t *testing.T) {
	contracts := &stubContractService{}
	sweeper := NewExpirySweeper(contracts, logger.NewNop())

	if err := sweeper.Start(); err != nil {
		t.Fatalf("Start() unexpected error: %v", err)
	}
	sweeper.Stop()

	contracts.mu.Lock()
	defer contracts.mu.Unlock()
	if contracts.expiringCalls != 2 {
		t.Fatalf("expected both warning windows swept before Stop returned, got %d", contracts.expiringCalls)
	}
	if contracts.expiredCalls != 1 {
		t.Fatalf("expected the expired scan to finish before Stop returned, got %d", contracts.expiredCalls)
	}
}
