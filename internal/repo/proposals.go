package repo

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"time"

	"github.com/google/uuid"
)

type Proposal struct {
	ID        uuid.UUID       `json:"id"`
	UserID    int             `json:"-"`
	Kind      string          `json:"kind"`
	Title     string          `json:"title"`
	Inputs    json.RawMessage `json:"inputs"`
	Result    json.RawMessage `json:"result"`
	CreatedAt time.Time       `json:"created_at"`
}

type ProposalRepository interface {
	SaveProposal(ctx context.Context, p *Proposal) error
	// GetProposal only returns proposals owned by userID.
	GetProposal(ctx context.Context, userID int, id uuid.UUID) (Proposal, error)
}

type PostgresProposalRepository struct {
	db *sql.DB
}

func NewPostgresProposalDB(db *sql.DB) *PostgresProposalRepository {
	return &PostgresProposalRepository{db: db}
}

// SaveProposal assigns ID and CreatedAt.
func (r *PostgresProposalRepository) SaveProposal(ctx context.Context, p *Proposal) error {
	p.ID = uuid.New()
	query := `INSERT INTO proposals (id, user_id, kind, title, inputs, result)
		VALUES ($1, $2, $3, $4, $5, $6) RETURNING created_at`
	return r.db.QueryRowContext(ctx, query, p.ID, p.UserID, p.Kind, p.Title, []byte(p.Inputs), []byte(p.Result)).
		Scan(&p.CreatedAt)
}

func (r *PostgresProposalRepository) GetProposal(ctx context.Context, userID int, id uuid.UUID) (Proposal, error) {
	p := Proposal{ID: id, UserID: userID}
	var inputs, result []byte
	query := "SELECT kind, title, inputs, result, created_at FROM proposals WHERE id=$1 AND user_id=$2"
	err := r.db.QueryRowContext(ctx, query, id, userID).Scan(&p.Kind, &p.Title, &inputs, &result, &p.CreatedAt)
	if errors.Is(err, sql.ErrNoRows) {
		return Proposal{}, ErrNotFound
	}
	if err != nil {
		return Proposal{}, err
	}
	p.Inputs, p.Result = inputs, result
	return p, nil
}
