package usecase

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/rocketscienceinc/tictactoe-matchserver/internal/apperror"
	"github.com/rocketscienceinc/tictactoe-matchserver/internal/entity"
)

type accountStore interface {
	LoadAll(ctx context.Context) ([]*entity.Account, error)
	SaveAll(ctx context.Context, accounts []*entity.Account) error
}

// AccountDirectory keeps every account in memory and writes the whole list through to the store on creation.
type AccountDirectory struct {
	logger *slog.Logger
	store  accountStore

	accounts []*entity.Account
	byName   map[string]*entity.Account
}

func NewAccountDirectory(logger *slog.Logger, store accountStore) *AccountDirectory {
	return &AccountDirectory{
		logger: logger.With("component", "account_directory"),
		store:  store,
		byName: make(map[string]*entity.Account),
	}
}

// Load replaces the directory content with what the store holds. Later duplicates of a name are skipped.
func (that *AccountDirectory) Load(ctx context.Context) error {
	log := that.logger.With("method", "Load")

	accounts, err := that.store.LoadAll(ctx)
	if err != nil {
		return fmt.Errorf("failed to load accounts: %w", err)
	}

	that.accounts = make([]*entity.Account, 0, len(accounts))
	that.byName = make(map[string]*entity.Account, len(accounts))

	for _, account := range accounts {
		if _, ok := that.byName[account.Name]; ok {
			log.Warn("duplicate account name in store, skipping", "name", account.Name)
			continue
		}

		that.accounts = append(that.accounts, account)
		that.byName[account.Name] = account
	}

	log.Info("accounts loaded", "count", len(that.accounts))

	return nil
}

// CreateAccount registers a new name. The account exists only once the store accepted the new list.
func (that *AccountDirectory) CreateAccount(ctx context.Context, name, password string) error {
	account := entity.NewAccount(name, password)
	if !account.HasValidName() {
		return fmt.Errorf("%w: %q", apperror.ErrInvalidAccountName, name)
	}

	if !account.HasValidPassword() {
		return apperror.ErrInvalidPassword
	}

	if _, ok := that.byName[name]; ok {
		return apperror.ErrNameInUse
	}

	accounts := append(that.accounts[:len(that.accounts):len(that.accounts)], account)

	if err := that.store.SaveAll(ctx, accounts); err != nil {
		return fmt.Errorf("failed to save accounts: %w", err)
	}

	that.accounts = accounts
	that.byName[name] = account

	return nil
}

// Authenticate compares the password of an existing account by exact match.
func (that *AccountDirectory) Authenticate(name, password string) error {
	account, ok := that.byName[name]
	if !ok {
		return apperror.ErrNoSuchAccount
	}

	if account.Password != password {
		return apperror.ErrWrongPassword
	}

	return nil
}

func (that *AccountDirectory) Len() int {
	return len(that.accounts)
}
