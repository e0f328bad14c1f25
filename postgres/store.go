package postgres

import (
	"context"
	"embed"
	"errors"
	"fmt"
	"io/fs"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/dmitrymomot/emaillist/subscription"
)

//go:embed migrations/*.sql
var migrationsFS embed.FS

// Migrations holds the embedded goose migration files for the
// subscriptions schema, rooted at the directory goose reads from.
// Pass it to pg.Migrate at startup.
var Migrations = mustSubFS(migrationsFS, "migrations")

func mustSubFS(fsys fs.FS, dir string) fs.FS {
	sub, err := fs.Sub(fsys, dir)
	if err != nil {
		panic(err)
	}
	return sub
}

// Store is a Postgres-backed subscription.Store built on pgxpool.
type Store struct {
	pool *pgxpool.Pool
}

// New creates a Store using the given connection pool.
func New(pool *pgxpool.Pool) *Store {
	return &Store{pool: pool}
}

const subscriptionColumns = `id, email, list_name, is_subscribed, is_unsubscribed, is_confirmed, account_id, subscribed_at`

func scanSubscription(row pgx.Row, extra ...any) (*subscription.Subscription, error) {
	var sub subscription.Subscription
	dest := []any{
		&sub.ID,
		&sub.Email,
		&sub.ListName,
		&sub.Subscribed,
		&sub.Unsubscribed,
		&sub.Confirmed,
		&sub.AccountID,
		&sub.SubscribedAt,
	}
	dest = append(dest, extra...)
	if err := row.Scan(dest...); err != nil {
		return nil, err
	}
	return &sub, nil
}

func (s *Store) Find(ctx context.Context, email, listName string) (*subscription.Subscription, error) {
	row := s.pool.QueryRow(ctx,
		`SELECT `+subscriptionColumns+` FROM subscriptions WHERE email = $1 AND list_name = $2`,
		email, listName,
	)
	sub, err := scanSubscription(row)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, subscription.ErrNotFound
		}
		return nil, fmt.Errorf("find subscription: %w", err)
	}
	return sub, nil
}

// OptIn inserts or updates the record for the pair in one statement, so
// concurrent opt-ins cannot produce duplicate rows. The created flag
// relies on xmax being zero for freshly inserted rows.
func (s *Store) OptIn(ctx context.Context, params subscription.OptInParams) (*subscription.Subscription, bool, error) {
	row := s.pool.QueryRow(ctx, `
		INSERT INTO subscriptions (email, list_name, is_subscribed, is_unsubscribed, is_confirmed, account_id)
		VALUES ($1, $2, TRUE, FALSE, $3, $4)
		ON CONFLICT (email, list_name) DO UPDATE SET
			is_subscribed   = TRUE,
			is_unsubscribed = FALSE,
			is_confirmed    = EXCLUDED.is_confirmed,
			account_id      = EXCLUDED.account_id
		RETURNING `+subscriptionColumns+`, (xmax = 0) AS created`,
		params.Email, params.ListName, params.Confirmed, params.AccountID,
	)

	var created bool
	sub, err := scanSubscription(row, &created)
	if err != nil {
		return nil, false, fmt.Errorf("opt in: %w", err)
	}
	return sub, created, nil
}

// OptOut inserts or updates the record for the pair, marking it
// unsubscribed. Confirmation state and account linkage of existing
// records are left untouched.
func (s *Store) OptOut(ctx context.Context, email, listName string) (*subscription.Subscription, error) {
	row := s.pool.QueryRow(ctx, `
		INSERT INTO subscriptions (email, list_name, is_subscribed, is_unsubscribed, is_confirmed, account_id)
		VALUES ($1, $2, FALSE, TRUE, FALSE, NULL)
		ON CONFLICT (email, list_name) DO UPDATE SET
			is_subscribed   = FALSE,
			is_unsubscribed = TRUE
		RETURNING `+subscriptionColumns,
		email, listName,
	)
	sub, err := scanSubscription(row)
	if err != nil {
		return nil, fmt.Errorf("opt out: %w", err)
	}
	return sub, nil
}

func (s *Store) Confirm(ctx context.Context, email, listName string) error {
	_, err := s.pool.Exec(ctx,
		`UPDATE subscriptions SET is_confirmed = TRUE WHERE email = $1 AND list_name = $2`,
		email, listName,
	)
	if err != nil {
		return fmt.Errorf("confirm subscription: %w", err)
	}
	return nil
}

func (s *Store) Members(ctx context.Context, listName string) ([]string, error) {
	rows, err := s.pool.Query(ctx, `
		SELECT email FROM subscriptions
		WHERE list_name = $1 AND is_subscribed AND is_confirmed
		ORDER BY email`,
		listName,
	)
	if err != nil {
		return nil, fmt.Errorf("list members: %w", err)
	}
	return collectStrings(rows)
}

func (s *Store) AccountMembers(ctx context.Context, listName string) ([]subscription.Account, error) {
	rows, err := s.pool.Query(ctx, `
		SELECT DISTINCT ON (account_id) account_id, email FROM subscriptions
		WHERE list_name = $1 AND is_subscribed AND is_confirmed AND account_id IS NOT NULL
		ORDER BY account_id, email`,
		listName,
	)
	if err != nil {
		return nil, fmt.Errorf("list account members: %w", err)
	}
	defer rows.Close()

	var accounts []subscription.Account
	for rows.Next() {
		var a subscription.Account
		if err := rows.Scan(&a.ID, &a.Email); err != nil {
			return nil, fmt.Errorf("list account members: %w", err)
		}
		accounts = append(accounts, a)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("list account members: %w", err)
	}
	return accounts, nil
}

func (s *Store) GuestMembers(ctx context.Context, listName string) ([]string, error) {
	rows, err := s.pool.Query(ctx, `
		SELECT email FROM subscriptions
		WHERE list_name = $1 AND is_subscribed AND is_confirmed AND account_id IS NULL
		ORDER BY email`,
		listName,
	)
	if err != nil {
		return nil, fmt.Errorf("list guest members: %w", err)
	}
	return collectStrings(rows)
}

func (s *Store) Lists(ctx context.Context) ([]string, error) {
	rows, err := s.pool.Query(ctx,
		`SELECT DISTINCT list_name FROM subscriptions ORDER BY list_name`,
	)
	if err != nil {
		return nil, fmt.Errorf("list names: %w", err)
	}
	return collectStrings(rows)
}

func collectStrings(rows pgx.Rows) ([]string, error) {
	defer rows.Close()

	var out []string
	for rows.Next() {
		var v string
		if err := rows.Scan(&v); err != nil {
			return nil, fmt.Errorf("scan row: %w", err)
		}
		out = append(out, v)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate rows: %w", err)
	}
	return out, nil
}
