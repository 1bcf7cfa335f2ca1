package repository

import (
	"testing"

	"github.com/rocketscienceinc/tictactoe-matchserver/internal/entity"
	"github.com/rocketscienceinc/tictactoe-matchserver/testing/suite"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestAccountRepository_SaveAll(t *testing.T) {
	ctx, st := suite.New(t)

	accountRepo := NewAccountRepository(st.Storage)

	// Given: a saved list
	require.NoError(t, accountRepo.SaveAll(ctx, []*entity.Account{entity.NewAccount("al", "pw")}))

	// When: the list is saved again with a new account
	err := accountRepo.SaveAll(ctx, []*entity.Account{entity.NewAccount("al", "pw"), entity.NewAccount("bo", "p,w")})
	require.NoError(t, err)

	// Then: the redis list is replaced, not appended
	records, err := st.Storage.LRange(ctx, accountsKey, 0, -1).Result()
	require.NoError(t, err)
	assert.Equal(t, []string{"al,pw", "bo,p,w"}, records)
}

func TestAccountRepository_LoadAll(t *testing.T) {
	t.Run("LoadAll_Empty", func(t *testing.T) {
		ctx, st := suite.New(t)

		accounts, err := NewAccountRepository(st.Storage).LoadAll(ctx)

		require.NoError(t, err)
		assert.Empty(t, accounts)
	})

	t.Run("LoadAll_RoundTrip", func(t *testing.T) {
		ctx, st := suite.New(t)

		accountRepo := NewAccountRepository(st.Storage)
		accounts := []*entity.Account{entity.NewAccount("al", "pw"), entity.NewAccount("bo", "x")}
		require.NoError(t, accountRepo.SaveAll(ctx, accounts))

		loaded, err := accountRepo.LoadAll(ctx)

		require.NoError(t, err)
		assert.Equal(t, accounts, loaded)
	})

	t.Run("LoadAll_SaveEmptyClears", func(t *testing.T) {
		ctx, st := suite.New(t)

		accountRepo := NewAccountRepository(st.Storage)
		require.NoError(t, accountRepo.SaveAll(ctx, []*entity.Account{entity.NewAccount("al", "pw")}))
		require.NoError(t, accountRepo.SaveAll(ctx, nil))

		loaded, err := accountRepo.LoadAll(ctx)

		require.NoError(t, err)
		assert.Empty(t, loaded)
	})
}
