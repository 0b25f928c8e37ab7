package postgres

import (
	"context"
	"errors"
	"fmt"

	"crossrates/internal/domain"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgxpool"
)

// WalletDirectoryRepository stores public-name → wallet-URL aliases.
type WalletDirectoryRepository struct {
	pool *pgxpool.Pool
}

func NewWalletDirectoryRepository(pool *pgxpool.Pool) *WalletDirectoryRepository {
	return &WalletDirectoryRepository{pool: pool}
}

const uniqueViolation = "23505"

func (r *WalletDirectoryRepository) List(ctx context.Context) ([]domain.DirectoryEntry, error) {
	const q = `
		select id, public_name, wallet_url, is_dummy, owner, created_at
		from wallet_directory
		order by public_name;
	`
	rows, err := r.pool.Query(ctx, q)
	if err != nil {
		return nil, fmt.Errorf("failed to query directory entries: %w", err)
	}
	defer rows.Close()
	return scanEntries(rows)
}

func (r *WalletDirectoryRepository) Resolve(ctx context.Context, publicName string) (domain.DirectoryEntry, error) {
	const q = `
		select id, public_name, wallet_url, is_dummy, owner, created_at
		from wallet_directory
		where public_name = $1;
	`
	var e domain.DirectoryEntry
	err := r.pool.QueryRow(ctx, q, publicName).
		Scan(&e.ID, &e.PublicName, &e.WalletURL, &e.IsDummy, &e.Owner, &e.CreatedAt)
	if errors.Is(err, pgx.ErrNoRows) {
		return domain.DirectoryEntry{}, domain.ErrEntryNotFound
	}
	if err != nil {
		return domain.DirectoryEntry{}, fmt.Errorf("failed to resolve '%s': %w", publicName, err)
	}
	return e, nil
}

func (r *WalletDirectoryRepository) ListByOwner(ctx context.Context, owner string) ([]domain.DirectoryEntry, error) {
	const q = `
		select id, public_name, wallet_url, is_dummy, owner, created_at
		from wallet_directory
		where owner = $1
		order by public_name;
	`
	rows, err := r.pool.Query(ctx, q, owner)
	if err != nil {
		return nil, fmt.Errorf("failed to query directory entries for owner '%s': %w", owner, err)
	}
	defer rows.Close()
	return scanEntries(rows)
}

func (r *WalletDirectoryRepository) Add(ctx context.Context, publicName, walletURL string, isDummy bool, owner *string) (domain.DirectoryEntry, error) {
	const q = `
		insert into wallet_directory (public_name, wallet_url, is_dummy, owner)
		values ($1, $2, $3, $4)
		returning id, public_name, wallet_url, is_dummy, owner, created_at;
	`
	var e domain.DirectoryEntry
	err := r.pool.QueryRow(ctx, q, publicName, walletURL, isDummy, owner).
		Scan(&e.ID, &e.PublicName, &e.WalletURL, &e.IsDummy, &e.Owner, &e.CreatedAt)
	if err != nil {
		var pgErr *pgconn.PgError
		if errors.As(err, &pgErr) && pgErr.Code == uniqueViolation {
			return domain.DirectoryEntry{}, domain.ErrEntryExists
		}
		return domain.DirectoryEntry{}, fmt.Errorf("failed to add directory entry '%s': %w", publicName, err)
	}
	return e, nil
}

func (r *WalletDirectoryRepository) Update(ctx context.Context, publicName, newWalletURL string) error {
	const q = `update wallet_directory set wallet_url = $2 where public_name = $1;`
	tag, err := r.pool.Exec(ctx, q, publicName, newWalletURL)
	if err != nil {
		return fmt.Errorf("failed to update directory entry '%s': %w", publicName, err)
	}
	if tag.RowsAffected() == 0 {
		return domain.ErrEntryNotFound
	}
	return nil
}

func (r *WalletDirectoryRepository) Delete(ctx context.Context, publicName string) error {
	const q = `delete from wallet_directory where public_name = $1;`
	tag, err := r.pool.Exec(ctx, q, publicName)
	if err != nil {
		return fmt.Errorf("failed to delete directory entry '%s': %w", publicName, err)
	}
	if tag.RowsAffected() == 0 {
		return domain.ErrEntryNotFound
	}
	return nil
}

func scanEntries(rows pgx.Rows) ([]domain.DirectoryEntry, error) {
	entries := make([]domain.DirectoryEntry, 0, 16)
	for rows.Next() {
		var e domain.DirectoryEntry
		if err := rows.Scan(&e.ID, &e.PublicName, &e.WalletURL, &e.IsDummy, &e.Owner, &e.CreatedAt); err != nil {
			return nil, fmt.Errorf("failed to scan directory entry: %w", err)
		}
		entries = append(entries, e)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating directory entries: %w", err)
	}
	return entries, nil
}
