package usecase

import (
	"context"
	"io"
	"log/slog"

	"github.com/rocketscienceinc/tictactoe-matchserver/internal/entity"
	"github.com/stretchr/testify/mock"
)

type mockAccountStore struct {
	mock.Mock
}

func (m *mockAccountStore) LoadAll(ctx context.Context) ([]*entity.Account, error) {
	args := m.Called(ctx)
	accounts, _ := args.Get(0).([]*entity.Account)
	return accounts, args.Error(1)
}

func (m *mockAccountStore) SaveAll(ctx context.Context, accounts []*entity.Account) error {
	args := m.Called(ctx, accounts)
	return args.Error(0)
}

func discardLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}
