package db

import (
	"context"
	"errors"
	"fmt"

	"github.com/trocatudo/trocatudo/internal/models"

	"github.com/jackc/pgx/v5"
)

// CreateRating inserts a new rating
func (db *DB) CreateRating(ctx context.Context, rating *models.Rating) (*models.Rating, error) {
	created := &models.Rating{}
	err := db.Pool.QueryRow(ctx,
		"INSERT INTO ratings (proposal_id, score, comment, rated_by_id, rated_user_id) "+
			"VALUES ($1, $2, $3, $4, $5) "+
			"RETURNING id, proposal_id, score, comment, rated_by_id, rated_user_id, created_at",
		rating.ProposalID, rating.Score, rating.Comment, rating.RatedByID, rating.RatedUserID).Scan(
		&created.ID, &created.ProposalID, &created.Score, &created.Comment,
		&created.RatedByID, &created.RatedUserID, &created.CreatedAt)
	if err != nil {
		return nil, fmt.Errorf("failed to create rating: %w", err)
	}
	return created, nil
}

// GetRatingByProposal retrieves the rating for a proposal, nil if none exists
func (db *DB) GetRatingByProposal(ctx context.Context, proposalID int) (*models.Rating, error) {
	rating := &models.Rating{}
	err := db.Pool.QueryRow(ctx,
		"SELECT id, proposal_id, score, comment, rated_by_id, rated_user_id, created_at "+
			"FROM ratings WHERE proposal_id = $1",
		proposalID).Scan(&rating.ID, &rating.ProposalID, &rating.Score, &rating.Comment,
		&rating.RatedByID, &rating.RatedUserID, &rating.CreatedAt)
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get rating: %w", err)
	}
	return rating, nil
}

// ListUserRatings retrieves ratings received by a user, most recent first,
// with the rater's name joined in
func (db *DB) ListUserRatings(ctx context.Context, ratedUserID int) ([]models.Rating, error) {
	rows, err := db.Pool.Query(ctx,
		"SELECT r.id, r.proposal_id, r.score, r.comment, r.rated_by_id, r.rated_user_id, u.name, r.created_at "+
			"FROM ratings r JOIN users u ON r.rated_by_id = u.id "+
			"WHERE r.rated_user_id = $1 ORDER BY r.created_at DESC",
		ratedUserID)
	if err != nil {
		return nil, fmt.Errorf("failed to list user ratings: %w", err)
	}
	defer rows.Close()

	var ratings []models.Rating
	for rows.Next() {
		var r models.Rating
		if err := rows.Scan(&r.ID, &r.ProposalID, &r.Score, &r.Comment,
			&r.RatedByID, &r.RatedUserID, &r.RatedByName, &r.CreatedAt); err != nil {
			return nil, fmt.Errorf("failed to scan rating: %w", err)
		}
		ratings = append(ratings, r)
	}
	return ratings, rows.Err()
}
