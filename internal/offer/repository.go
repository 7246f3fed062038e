package offer

import (
	"context"
	"errors"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
)

// ErrNotFound indicates no offer exists for the given identifier.
var ErrNotFound = errors.New("offer not found")

// Repository persists offers.
//
// UpdateStatus is the concurrency boundary of the state machine: it applies
// the transition only if the stored status still equals expected, and reports
// false when the precondition failed. A false return distinguishes a
// conflicting concurrent transition from not-found, which surfaces as an
// error from Get instead.
type Repository interface {
	Create(ctx context.Context, offer Offer) error
	Get(ctx context.Context, id string) (Offer, error)
	UpdateStatus(ctx context.Context, id string, expected, next Status) (bool, error)
	HasPendingForGame(ctx context.Context, gameID string) (bool, error)
}

// PostgresRepository stores offers in PostgreSQL.
type PostgresRepository struct {
	db *pgxpool.Pool
}

// NewPostgresRepository builds a repository backed by PostgreSQL.
func NewPostgresRepository(db *pgxpool.Pool) *PostgresRepository {
	return &PostgresRepository{db: db}
}

// Create inserts an offer record.
func (r *PostgresRepository) Create(ctx context.Context, offer Offer) error {
	offerID, err := uuid.Parse(offer.ID)
	if err != nil {
		return err
	}
	gameID, err := uuid.Parse(offer.GameID)
	if err != nil {
		return err
	}
	buyerID, err := uuid.Parse(offer.BuyerID)
	if err != nil {
		return err
	}
	_, err = r.db.Exec(ctx, `INSERT INTO offers (id, game_id, buyer_id, amount, status, created_at)
        VALUES ($1, $2, $3, $4, $5, $6)`, offerID, gameID, buyerID, offer.Amount, string(offer.Status), offer.CreatedAt.UTC())
	return err
}

// Get fetches an offer by identifier.
func (r *PostgresRepository) Get(ctx context.Context, id string) (Offer, error) {
	offerID, err := uuid.Parse(id)
	if err != nil {
		return Offer{}, ErrNotFound
	}
	row := r.db.QueryRow(ctx, `SELECT id, game_id, buyer_id, amount, status, created_at
        FROM offers WHERE id = $1`, offerID)

	var (
		oid       uuid.UUID
		gameID    uuid.UUID
		buyerID   uuid.UUID
		status    string
		createdAt time.Time
		offer     Offer
	)
	if err := row.Scan(&oid, &gameID, &buyerID, &offer.Amount, &status, &createdAt); err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return Offer{}, ErrNotFound
		}
		return Offer{}, err
	}
	offer.ID = oid.String()
	offer.GameID = gameID.String()
	offer.BuyerID = buyerID.String()
	offer.Status = Status(status)
	offer.CreatedAt = createdAt.UTC()
	return offer, nil
}

// UpdateStatus applies a conditional transition. The status check and the
// write happen in one statement, so concurrent transitions on the same offer
// cannot both succeed.
func (r *PostgresRepository) UpdateStatus(ctx context.Context, id string, expected, next Status) (bool, error) {
	offerID, err := uuid.Parse(id)
	if err != nil {
		return false, ErrNotFound
	}
	cmd, err := r.db.Exec(ctx, `UPDATE offers SET status = $1 WHERE id = $2 AND status = $3`,
		string(next), offerID, string(expected))
	if err != nil {
		return false, err
	}
	return cmd.RowsAffected() == 1, nil
}

// HasPendingForGame reports whether any pending offer references the game.
func (r *PostgresRepository) HasPendingForGame(ctx context.Context, gameID string) (bool, error) {
	gid, err := uuid.Parse(gameID)
	if err != nil {
		return false, nil
	}
	var exists bool
	err = r.db.QueryRow(ctx, `SELECT EXISTS (SELECT 1 FROM offers WHERE game_id = $1 AND status = $2)`,
		gid, string(StatusPending)).Scan(&exists)
	return exists, err
}
