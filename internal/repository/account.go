package repository

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/rocketscienceinc/tictactoe-matchserver/internal/entity"
)

var ErrMalformedRecord = errors.New("malformed account record")

const (
	recordSeparator = ","

	// longest record the file store reads back, well above what the directory accepts
	maxRecordLength = 1 << 20
)

// AccountRepository loads and rewrites the whole account list at once.
type AccountRepository interface {
	LoadAll(ctx context.Context) ([]*entity.Account, error)
	SaveAll(ctx context.Context, accounts []*entity.Account) error
}

// encodeRecord renders an account as "name,password".
func encodeRecord(account *entity.Account) string {
	return account.Name + recordSeparator + account.Password
}

// decodeRecord splits on the first separator only, the password may contain commas.
func decodeRecord(record string) (*entity.Account, error) {
	name, password, ok := strings.Cut(record, recordSeparator)
	if !ok || name == "" {
		return nil, fmt.Errorf("%w: %q", ErrMalformedRecord, record)
	}

	return entity.NewAccount(name, password), nil
}
