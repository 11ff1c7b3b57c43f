package service

import (
	"context"
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/rs/zerolog"

	"fasilitas/internal/database"
	"fasilitas/internal/domain"
	"fasilitas/internal/models"
)

// DirectoryService manages the account directory: login verification, the
// bulk CSV import, and the guaranteed admin account.
type DirectoryService struct {
	store  domain.Store
	logger *zerolog.Logger
}

func NewDirectoryService(store domain.Store, logger *zerolog.Logger) *DirectoryService {
	return &DirectoryService{store: store, logger: logger}
}

// Verify checks a username/password pair and returns the matching account,
// or database.ErrNotFound when either does not match.
func (s *DirectoryService) Verify(ctx context.Context, username, password string) (*models.Account, error) {
	return s.store.VerifyAccount(ctx, username, password)
}

// Get returns one account by id.
func (s *DirectoryService) Get(ctx context.Context, id int64) (*models.Account, error) {
	return s.store.GetAccountByID(ctx, id)
}

// List returns every account.
func (s *DirectoryService) List(ctx context.Context) ([]models.Account, error) {
	return s.store.ListAccounts(ctx)
}

// EnsureAdmin creates the admin account if no account with that username
// exists yet, so a fresh database is always reachable.
func (s *DirectoryService) EnsureAdmin(ctx context.Context, username, password, name string) error {
	if username == "" || password == "" {
		return fmt.Errorf("%w: admin credentials", ErrMissingField)
	}
	_, err := s.store.GetAccountByUsername(ctx, username)
	if err == nil {
		return nil
	}
	if !errors.Is(err, database.ErrNotFound) {
		return fmt.Errorf("look up admin account: %w", err)
	}
	account := &models.Account{
		Username: username,
		Password: password,
		Name:     name,
		Role:     models.RoleAdmin,
	}
	if err := s.store.CreateAccount(ctx, account); err != nil {
		return fmt.Errorf("create admin account: %w", err)
	}
	s.logger.Info().Str("username", username).Msg("admin account created")
	return nil
}

// ImportCSV replaces all non-admin accounts with the rows of a CSV file. The
// file must carry USERNAME, PASSWORD and NAMA columns; header matching is
// case-insensitive. Usernames are read as raw strings so numeric ids keep
// their leading zeros. Returns the number of imported accounts.
func (s *DirectoryService) ImportCSV(ctx context.Context, path string) (int, error) {
	f, err := os.Open(path)
	if err != nil {
		return 0, fmt.Errorf("open accounts file: %w", err)
	}
	defer f.Close()

	count, err := s.importCSV(ctx, f)
	if err != nil {
		return 0, err
	}
	s.logger.Info().Str("path", path).Int("accounts", count).Msg("accounts imported")
	return count, nil
}

func (s *DirectoryService) importCSV(ctx context.Context, r io.Reader) (int, error) {
	reader := csv.NewReader(r)
	reader.TrimLeadingSpace = true

	header, err := reader.Read()
	if err != nil {
		return 0, fmt.Errorf("read csv header: %w", err)
	}
	idx := map[string]int{}
	for i, col := range header {
		idx[strings.ToUpper(strings.TrimSpace(col))] = i
	}
	for _, col := range []string{"USERNAME", "PASSWORD", "NAMA"} {
		if _, ok := idx[col]; !ok {
			return 0, fmt.Errorf("%w: csv column %s", ErrMissingField, col)
		}
	}

	var accounts []models.Account
	for {
		row, err := reader.Read()
		if errors.Is(err, io.EOF) {
			break
		}
		if err != nil {
			return 0, fmt.Errorf("read csv row: %w", err)
		}
		accounts = append(accounts, models.Account{
			Username: strings.TrimSpace(row[idx["USERNAME"]]),
			Password: strings.TrimSpace(row[idx["PASSWORD"]]),
			Name:     strings.TrimSpace(row[idx["NAMA"]]),
			Role:     models.RoleUser,
		})
	}

	count, err := s.store.ReplaceAccounts(ctx, accounts)
	if err != nil {
		return 0, fmt.Errorf("replace accounts: %w", err)
	}
	return count, nil
}
