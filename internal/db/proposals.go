package db

import (
	"context"
	"errors"
	"fmt"

	"github.com/trocatudo/trocatudo/internal/models"

	"github.com/jackc/pgx/v5"
)

// CreateProposal inserts a new pending proposal
func (db *DB) CreateProposal(ctx context.Context, proposerID, itemID int, message *string) (*models.Proposal, error) {
	proposal := &models.Proposal{}
	err := db.Pool.QueryRow(ctx,
		"INSERT INTO proposals (proposer_id, item_id, message, status) VALUES ($1, $2, $3, $4) "+
			"RETURNING id, proposer_id, item_id, message, status, created_at, updated_at",
		proposerID, itemID, message, models.ProposalPending).Scan(
		&proposal.ID, &proposal.ProposerID, &proposal.ItemID, &proposal.Message,
		&proposal.Status, &proposal.CreatedAt, &proposal.UpdatedAt)
	if err != nil {
		return nil, fmt.Errorf("failed to create proposal: %w", err)
	}
	return proposal, nil
}

// GetProposal retrieves a proposal with its item's title and owner joined in.
// Returns nil without error if absent.
func (db *DB) GetProposal(ctx context.Context, id int) (*models.Proposal, error) {
	proposal := &models.Proposal{}
	err := db.Pool.QueryRow(ctx,
		"SELECT p.id, p.proposer_id, p.item_id, p.message, p.status, p.created_at, p.updated_at, i.title, i.owner_id "+
			"FROM proposals p JOIN items i ON p.item_id = i.id WHERE p.id = $1",
		id).Scan(&proposal.ID, &proposal.ProposerID, &proposal.ItemID, &proposal.Message,
		&proposal.Status, &proposal.CreatedAt, &proposal.UpdatedAt, &proposal.ItemTitle, &proposal.ItemOwnerID)
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get proposal: %w", err)
	}
	return proposal, nil
}

// HasPendingProposal reports whether proposerID already has a pending
// proposal on itemID
func (db *DB) HasPendingProposal(ctx context.Context, proposerID, itemID int) (bool, error) {
	var exists bool
	err := db.Pool.QueryRow(ctx,
		"SELECT EXISTS(SELECT 1 FROM proposals WHERE proposer_id = $1 AND item_id = $2 AND status = $3)",
		proposerID, itemID, models.ProposalPending).Scan(&exists)
	if err != nil {
		return false, fmt.Errorf("failed to check pending proposal: %w", err)
	}
	return exists, nil
}

// ListReceivedProposals retrieves proposals on items owned by ownerID,
// most recent first, with proposer name and item title joined in
func (db *DB) ListReceivedProposals(ctx context.Context, ownerID int) ([]models.Proposal, error) {
	return db.listProposals(ctx,
		"SELECT p.id, p.proposer_id, p.item_id, p.message, p.status, p.created_at, p.updated_at, u.name, i.title, i.owner_id "+
			"FROM proposals p JOIN items i ON p.item_id = i.id JOIN users u ON p.proposer_id = u.id "+
			"WHERE i.owner_id = $1 ORDER BY p.created_at DESC",
		ownerID)
}

// ListSentProposals retrieves proposals made by proposerID, most recent first
func (db *DB) ListSentProposals(ctx context.Context, proposerID int) ([]models.Proposal, error) {
	return db.listProposals(ctx,
		"SELECT p.id, p.proposer_id, p.item_id, p.message, p.status, p.created_at, p.updated_at, u.name, i.title, i.owner_id "+
			"FROM proposals p JOIN items i ON p.item_id = i.id JOIN users u ON p.proposer_id = u.id "+
			"WHERE p.proposer_id = $1 ORDER BY p.created_at DESC",
		proposerID)
}

func (db *DB) listProposals(ctx context.Context, query string, args ...interface{}) ([]models.Proposal, error) {
	rows, err := db.Pool.Query(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("failed to list proposals: %w", err)
	}
	defer rows.Close()

	var proposals []models.Proposal
	for rows.Next() {
		var p models.Proposal
		if err := rows.Scan(&p.ID, &p.ProposerID, &p.ItemID, &p.Message, &p.Status,
			&p.CreatedAt, &p.UpdatedAt, &p.ProposerName, &p.ItemTitle, &p.ItemOwnerID); err != nil {
			return nil, fmt.Errorf("failed to scan proposal: %w", err)
		}
		proposals = append(proposals, p)
	}
	return proposals, rows.Err()
}

// DeleteProposal removes a proposal permanently
func (db *DB) DeleteProposal(ctx context.Context, id int) error {
	_, err := db.Pool.Exec(ctx, "DELETE FROM proposals WHERE id = $1", id)
	if err != nil {
		return fmt.Errorf("failed to delete proposal: %w", err)
	}
	return nil
}
