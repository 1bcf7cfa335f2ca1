package repository

import (
	"bufio"
	"context"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"strings"

	"github.com/rocketscienceinc/tictactoe-matchserver/internal/entity"
)

type fileAccounts struct {
	path string
}

// NewAccountFileRepository stores one "name,password" record per line in a text file.
func NewAccountFileRepository(path string) AccountRepository {
	return &fileAccounts{
		path: path,
	}
}

func (that *fileAccounts) LoadAll(_ context.Context) ([]*entity.Account, error) {
	file, err := os.Open(that.path)
	if errors.Is(err, fs.ErrNotExist) {
		return []*entity.Account{}, nil
	}

	if err != nil {
		return nil, fmt.Errorf("failed to open accounts file: %w", err)
	}

	defer file.Close()

	accounts := make([]*entity.Account, 0)

	scanner := bufio.NewScanner(file)
	scanner.Buffer(make([]byte, 0, bufio.MaxScanTokenSize), maxRecordLength)
	for line := 1; scanner.Scan(); line++ {
		record := strings.TrimRight(scanner.Text(), "\r")
		if record == "" {
			continue
		}

		account, err := decodeRecord(record)
		if err != nil {
			return nil, fmt.Errorf("line %d: %w", line, err)
		}

		accounts = append(accounts, account)
	}

	if err = scanner.Err(); err != nil {
		return nil, fmt.Errorf("failed to read accounts file: %w", err)
	}

	return accounts, nil
}

// SaveAll writes a temp file next to the target and renames it over the old list.
func (that *fileAccounts) SaveAll(_ context.Context, accounts []*entity.Account) error {
	tmp, err := os.CreateTemp(filepath.Dir(that.path), filepath.Base(that.path)+".*.tmp")
	if err != nil {
		return fmt.Errorf("failed to create temp accounts file: %w", err)
	}

	defer os.Remove(tmp.Name())

	writer := bufio.NewWriter(tmp)
	for _, account := range accounts {
		if _, err = writer.WriteString(encodeRecord(account) + "\n"); err != nil {
			tmp.Close()
			return fmt.Errorf("failed to write account: %w", err)
		}
	}

	if err = writer.Flush(); err != nil {
		tmp.Close()
		return fmt.Errorf("failed to flush accounts file: %w", err)
	}

	if err = tmp.Sync(); err != nil {
		tmp.Close()
		return fmt.Errorf("failed to sync accounts file: %w", err)
	}

	if err = tmp.Close(); err != nil {
		return fmt.Errorf("failed to close accounts file: %w", err)
	}

	if err = os.Rename(tmp.Name(), that.path); err != nil {
		return fmt.Errorf("failed to replace accounts file: %w", err)
	}

	return nil
}
