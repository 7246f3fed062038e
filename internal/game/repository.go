package game

import (
	"context"
	"errors"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
)

// ErrNotFound indicates no game exists for the given identifier.
var ErrNotFound = errors.New("game not found")

// Repository persists game listings.
type Repository interface {
	Create(ctx context.Context, game Game) error
	Get(ctx context.Context, id string) (Game, error)
	List(ctx context.Context) ([]Game, error)
	Search(ctx context.Context, term string) ([]Game, error)
	ByOwner(ctx context.Context, ownerID string) ([]Game, error)
	Update(ctx context.Context, game Game) error
	Delete(ctx context.Context, id string) error
}

// PostgresRepository stores games in PostgreSQL.
type PostgresRepository struct {
	db *pgxpool.Pool
}

// NewPostgresRepository builds a repository backed by PostgreSQL.
func NewPostgresRepository(db *pgxpool.Pool) *PostgresRepository {
	return &PostgresRepository{db: db}
}

const gameColumns = `id, owner_id, name, system, condition, price, created_at`

// Create inserts a game record.
func (r *PostgresRepository) Create(ctx context.Context, game Game) error {
	gameID, err := uuid.Parse(game.ID)
	if err != nil {
		return err
	}
	ownerID, err := uuid.Parse(game.OwnerID)
	if err != nil {
		return err
	}
	_, err = r.db.Exec(ctx, `INSERT INTO games (id, owner_id, name, system, condition, price, created_at)
        VALUES ($1, $2, $3, $4, $5, $6, $7)`, gameID, ownerID, game.Name, game.System, game.Condition, game.Price, game.CreatedAt.UTC())
	return err
}

// Get fetches a game by identifier.
func (r *PostgresRepository) Get(ctx context.Context, id string) (Game, error) {
	gameID, err := uuid.Parse(id)
	if err != nil {
		return Game{}, ErrNotFound
	}
	row := r.db.QueryRow(ctx, `SELECT `+gameColumns+` FROM games WHERE id = $1`, gameID)
	return scanGame(row)
}

// List returns all games, newest first.
func (r *PostgresRepository) List(ctx context.Context) ([]Game, error) {
	rows, err := r.db.Query(ctx, `SELECT `+gameColumns+` FROM games ORDER BY created_at DESC`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	return collectGames(rows)
}

// Search matches the term against game name and system, case-insensitively.
func (r *PostgresRepository) Search(ctx context.Context, term string) ([]Game, error) {
	pattern := "%" + term + "%"
	rows, err := r.db.Query(ctx, `SELECT `+gameColumns+` FROM games
        WHERE name ILIKE $1 OR system ILIKE $1 ORDER BY created_at DESC`, pattern)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	return collectGames(rows)
}

// ByOwner returns all games listed by the given owner.
func (r *PostgresRepository) ByOwner(ctx context.Context, ownerID string) ([]Game, error) {
	owner, err := uuid.Parse(ownerID)
	if err != nil {
		return nil, nil
	}
	rows, err := r.db.Query(ctx, `SELECT `+gameColumns+` FROM games
        WHERE owner_id = $1 ORDER BY created_at DESC`, owner)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	return collectGames(rows)
}

// Update replaces the mutable display attributes of a game.
func (r *PostgresRepository) Update(ctx context.Context, game Game) error {
	gameID, err := uuid.Parse(game.ID)
	if err != nil {
		return ErrNotFound
	}
	cmd, err := r.db.Exec(ctx, `UPDATE games SET name = $1, system = $2, condition = $3, price = $4
        WHERE id = $5`, game.Name, game.System, game.Condition, game.Price, gameID)
	if err != nil {
		return err
	}
	if cmd.RowsAffected() == 0 {
		return ErrNotFound
	}
	return nil
}

// Delete removes a game record.
func (r *PostgresRepository) Delete(ctx context.Context, id string) error {
	gameID, err := uuid.Parse(id)
	if err != nil {
		return ErrNotFound
	}
	cmd, err := r.db.Exec(ctx, `DELETE FROM games WHERE id = $1`, gameID)
	if err != nil {
		return err
	}
	if cmd.RowsAffected() == 0 {
		return ErrNotFound
	}
	return nil
}

func scanGame(row pgx.Row) (Game, error) {
	var (
		id        uuid.UUID
		ownerID   uuid.UUID
		createdAt time.Time
		game      Game
	)
	if err := row.Scan(&id, &ownerID, &game.Name, &game.System, &game.Condition, &game.Price, &createdAt); err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return Game{}, ErrNotFound
		}
		return Game{}, err
	}
	game.ID = id.String()
	game.OwnerID = ownerID.String()
	game.CreatedAt = createdAt.UTC()
	return game, nil
}

func collectGames(rows pgx.Rows) ([]Game, error) {
	var games []Game
	for rows.Next() {
		game, err := scanGame(rows)
		if err != nil {
			return nil, err
		}
		games = append(games, game)
	}
	return games, rows.Err()
}
