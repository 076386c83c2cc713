package trade

import (
	"context"
	"errors"
	"fmt"

	"github.com/trocatudo/trocatudo/internal/db"
	"github.com/trocatudo/trocatudo/internal/models"

	"github.com/jackc/pgx/v5"
)

// Engine enforces the rules governing items, trade proposals and ratings.
// All durable state lives in the database; the engine itself is stateless
// between calls.
type Engine struct {
	DB *db.DB
}

// NewEngine creates a new lifecycle engine backed by the given database
func NewEngine(database *db.DB) *Engine {
	return &Engine{DB: database}
}

// CreateProposal submits a new trade proposal on an item.
// The item must exist and be available, the proposer must not own it, and the
// proposer must not already have a pending proposal on it.
func (e *Engine) CreateProposal(ctx context.Context, proposerID, itemID int, message *string) (*models.Proposal, error) {
	item, err := e.DB.GetItem(ctx, itemID)
	if err != nil {
		return nil, err
	}
	if item == nil {
		return nil, fmt.Errorf("%w: item %d", ErrNotFound, itemID)
	}
	if item.Status != models.ItemAvailable {
		return nil, fmt.Errorf("%w: item is not available for trade", ErrConflict)
	}
	if item.OwnerID == proposerID {
		return nil, fmt.Errorf("%w: cannot propose a trade on your own item", ErrForbidden)
	}

	pending, err := e.DB.HasPendingProposal(ctx, proposerID, itemID)
	if err != nil {
		return nil, err
	}
	if pending {
		return nil, fmt.Errorf("%w: you already have a pending proposal for this item", ErrConflict)
	}

	return e.DB.CreateProposal(ctx, proposerID, itemID, message)
}

// UpdateProposalStatus transitions a pending proposal to accepted or
// rejected. Only the owner of the proposal's item may do this, and only once:
// accepted and rejected are terminal. Accepting marks the item traded and
// auto-rejects every other pending proposal on the same item, all within one
// transaction. Row locks serialize concurrent accepts on the same item: the
// first committer wins and the loser sees a non-pending proposal.
func (e *Engine) UpdateProposalStatus(ctx context.Context, actorID, proposalID int, newStatus string) (*models.Proposal, error) {
	if newStatus != models.ProposalAccepted && newStatus != models.ProposalRejected {
		return nil, fmt.Errorf("%w: status must be %q or %q", ErrInvalidArgument, models.ProposalAccepted, models.ProposalRejected)
	}

	tx, err := e.DB.Pool.Begin(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer tx.Rollback(ctx)

	var (
		status  string
		itemID  int
		ownerID int
	)
	err = tx.QueryRow(ctx,
		"SELECT p.status, p.item_id, i.owner_id FROM proposals p JOIN items i ON p.item_id = i.id "+
			"WHERE p.id = $1 FOR UPDATE OF p, i",
		proposalID).Scan(&status, &itemID, &ownerID)
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, fmt.Errorf("%w: proposal %d", ErrNotFound, proposalID)
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get proposal: %w", err)
	}

	if ownerID != actorID {
		return nil, fmt.Errorf("%w: only the item owner may respond to this proposal", ErrForbidden)
	}
	if status != models.ProposalPending {
		return nil, fmt.Errorf("%w: this proposal has already been processed", ErrConflict)
	}

	_, err = tx.Exec(ctx,
		"UPDATE proposals SET status = $1, updated_at = NOW() WHERE id = $2",
		newStatus, proposalID)
	if err != nil {
		return nil, fmt.Errorf("failed to update proposal status: %w", err)
	}

	if newStatus == models.ProposalAccepted {
		_, err = tx.Exec(ctx,
			"UPDATE items SET status = $1, updated_at = NOW() WHERE id = $2",
			models.ItemTraded, itemID)
		if err != nil {
			return nil, fmt.Errorf("failed to mark item traded: %w", err)
		}

		// Cascading auto-rejection of sibling pending proposals
		_, err = tx.Exec(ctx,
			"UPDATE proposals SET status = $1, updated_at = NOW() WHERE item_id = $2 AND id != $3 AND status = $4",
			models.ProposalRejected, itemID, proposalID, models.ProposalPending)
		if err != nil {
			return nil, fmt.Errorf("failed to reject sibling proposals: %w", err)
		}
	}

	if err := tx.Commit(ctx); err != nil {
		return nil, fmt.Errorf("failed to commit transaction: %w", err)
	}

	return e.DB.GetProposal(ctx, proposalID)
}

// DeleteProposal removes a proposal. Only its proposer may delete it; the
// item owner (or a moderator) may not remove someone else's proposal.
func (e *Engine) DeleteProposal(ctx context.Context, actorID, proposalID int) error {
	proposal, err := e.DB.GetProposal(ctx, proposalID)
	if err != nil {
		return err
	}
	if proposal == nil {
		return fmt.Errorf("%w: proposal %d", ErrNotFound, proposalID)
	}
	if !isStrictOwner(actorID, proposal.ProposerID) {
		return fmt.Errorf("%w: only the proposer may delete this proposal", ErrForbidden)
	}
	return e.DB.DeleteProposal(ctx, proposalID)
}

// ListReceived retrieves proposals on items the user owns, newest first
func (e *Engine) ListReceived(ctx context.Context, ownerID int) ([]models.Proposal, error) {
	return e.DB.ListReceivedProposals(ctx, ownerID)
}

// ListSent retrieves proposals the user has made, newest first
func (e *Engine) ListSent(ctx context.Context, proposerID int) ([]models.Proposal, error) {
	return e.DB.ListSentProposals(ctx, proposerID)
}

// CreateRating records a post-trade review. The proposal must be accepted and
// not yet rated, the actor must be one of the two trade parties, and the
// counterparty becomes the rated user.
func (e *Engine) CreateRating(ctx context.Context, actorID, proposalID, score int, comment *string) (*models.Rating, error) {
	if score < 1 || score > 5 {
		return nil, fmt.Errorf("%w: score must be between 1 and 5", ErrInvalidArgument)
	}

	proposal, err := e.DB.GetProposal(ctx, proposalID)
	if err != nil {
		return nil, err
	}
	if proposal == nil {
		return nil, fmt.Errorf("%w: proposal %d", ErrNotFound, proposalID)
	}
	if proposal.Status != models.ProposalAccepted {
		return nil, fmt.Errorf("%w: only accepted proposals can be rated", ErrConflict)
	}

	existing, err := e.DB.GetRatingByProposal(ctx, proposalID)
	if err != nil {
		return nil, err
	}
	if existing != nil {
		return nil, fmt.Errorf("%w: this proposal has already been rated", ErrConflict)
	}

	var ratedUserID int
	switch actorID {
	case proposal.ProposerID:
		ratedUserID = proposal.ItemOwnerID
	case proposal.ItemOwnerID:
		ratedUserID = proposal.ProposerID
	default:
		return nil, fmt.Errorf("%w: only the trade parties may rate this proposal", ErrForbidden)
	}

	return e.DB.CreateRating(ctx, &models.Rating{
		ProposalID:  proposalID,
		Score:       score,
		Comment:     comment,
		RatedByID:   actorID,
		RatedUserID: ratedUserID,
	})
}

// ListUserRatings retrieves ratings received by a user, newest first
func (e *Engine) ListUserRatings(ctx context.Context, userID int) ([]models.Rating, error) {
	return e.DB.ListUserRatings(ctx, userID)
}
