package repository

import (
	"context"
	"fmt"

	"github.com/redis/go-redis/v9"
	"github.com/rocketscienceinc/tictactoe-matchserver/internal/entity"
)

const accountsKey = "accounts"

type dbAccounts struct {
	client *redis.Client
}

// NewAccountRepository keeps the account list in a redis list, one record per element.
func NewAccountRepository(client *redis.Client) AccountRepository {
	return &dbAccounts{
		client: client,
	}
}

func (that *dbAccounts) LoadAll(ctx context.Context) ([]*entity.Account, error) {
	records, err := that.client.LRange(ctx, accountsKey, 0, -1).Result()
	if err != nil {
		return nil, fmt.Errorf("failed to get accounts: %w", err)
	}

	accounts := make([]*entity.Account, 0, len(records))
	for _, record := range records {
		account, err := decodeRecord(record)
		if err != nil {
			return nil, err
		}

		accounts = append(accounts, account)
	}

	return accounts, nil
}

// SaveAll replaces the list in one MULTI/EXEC so readers never see a partial list.
func (that *dbAccounts) SaveAll(ctx context.Context, accounts []*entity.Account) error {
	records := make([]any, 0, len(accounts))
	for _, account := range accounts {
		records = append(records, encodeRecord(account))
	}

	pipe := that.client.TxPipeline()
	pipe.Del(ctx, accountsKey)
	if len(records) > 0 {
		pipe.RPush(ctx, accountsKey, records...)
	}

	if _, err := pipe.Exec(ctx); err != nil {
		return fmt.Errorf("failed to save accounts: %w", err)
	}

	return nil
}
