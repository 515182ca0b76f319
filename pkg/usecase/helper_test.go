package usecase_test

import (
	"context"
	"testing"

	"github.com/m-mizutani/gt"
	"github.com/secmon-lab/oprisk/pkg/domain/interfaces"
	"github.com/secmon-lab/oprisk/pkg/domain/types"
	"github.com/secmon-lab/oprisk/pkg/repository/memory"
	"github.com/secmon-lab/oprisk/pkg/usecase"
)

func newMemoryRepo() interfaces.Repository {
	return memory.New()
}

func openSession(t *testing.T, uc *usecase.UseCases) types.SessionID {
	t.Helper()
	seed := uint64(42)
	session, err := uc.Sessions.Open(context.Background(), usecase.OpenOptions{Seed: &seed})
	gt.NoError(t, err).Required()
	return session.ID
}
