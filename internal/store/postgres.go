package store

import (
	"context"
	"errors"
	"strings"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/serroba/shortly/internal/shortener"
)

// uniqueViolation is the SQLSTATE for a unique constraint violation.
const uniqueViolation = "23505"

// PostgresStore is a PostgreSQL implementation of shortener.Repository and denylist.Lookup.
// It owns the pool and closes it on Shutdown.
type PostgresStore struct {
	pool *pgxpool.Pool
}

// NewPostgresStore creates a new PostgreSQL-backed store.
func NewPostgresStore(pool *pgxpool.Pool) *PostgresStore {
	return &PostgresStore{pool: pool}
}

// Create inserts a short link. The primary key on code rejects duplicates,
// which are reported as shortener.ErrCodeTaken.
func (p *PostgresStore) Create(ctx context.Context, link *shortener.ShortLink) error {
	query := `
		INSERT INTO short_links (code, url, created_at)
		VALUES ($1, $2, $3)
	`

	_, err := p.pool.Exec(ctx, query, string(link.Code), link.URL, link.CreatedAt)
	if err != nil {
		var pgErr *pgconn.PgError
		if errors.As(err, &pgErr) && pgErr.Code == uniqueViolation {
			return shortener.ErrCodeTaken
		}

		return err
	}

	return nil
}

func (p *PostgresStore) GetByCode(ctx context.Context, code shortener.Code) (*shortener.ShortLink, error) {
	query := `
		SELECT code, url, created_at
		FROM short_links
		WHERE code = $1
	`

	var link shortener.ShortLink

	err := p.pool.QueryRow(ctx, query, string(code)).Scan(
		&link.Code,
		&link.URL,
		&link.CreatedAt,
	)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, shortener.ErrNotFound
		}

		return nil, err
	}

	return &link, nil
}

// IsBannedDomain reports whether host is on the denylist. Domains are stored
// lowercased, so the lookup compares against the key directly.
func (p *PostgresStore) IsBannedDomain(ctx context.Context, host string) (bool, error) {
	query := `SELECT EXISTS (SELECT 1 FROM banned_domains WHERE domain = $1)`

	var banned bool
	if err := p.pool.QueryRow(ctx, query, strings.ToLower(host)).Scan(&banned); err != nil {
		return false, err
	}

	return banned, nil
}

// BanDomain adds a host to the denylist. Banning an already banned host is a no-op.
func (p *PostgresStore) BanDomain(ctx context.Context, domain string) error {
	query := `
		INSERT INTO banned_domains (domain)
		VALUES ($1)
		ON CONFLICT DO NOTHING
	`

	_, err := p.pool.Exec(ctx, query, strings.ToLower(domain))

	return err
}

// Ping checks database connectivity.
func (p *PostgresStore) Ping(ctx context.Context) error {
	return p.pool.Ping(ctx)
}

// Shutdown closes the connection pool.
func (p *PostgresStore) Shutdown() error {
	p.pool.Close()

	return nil
}

// Compile-time check.
var _ shortener.Repository = (*PostgresStore)(nil)
