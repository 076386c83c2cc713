package models

import "time"

// User roles
const (
	RoleUser      = "user"
	RoleModerator = "moderator"
	RoleAdmin     = "admin"
)

// Item statuses
const (
	ItemAvailable = "available"
	ItemTraded    = "traded"
)

// Proposal statuses
const (
	ProposalPending  = "pending"
	ProposalAccepted = "accepted"
	ProposalRejected = "rejected"
)

// User represents a registered user
type User struct {
	ID           int       `json:"id"`
	Name         string    `json:"name"`
	Email        string    `json:"email"`
	PasswordHash string    `json:"-"`
	Role         string    `json:"role"` // "user", "moderator", "admin"
	CreatedAt    time.Time `json:"created_at"`
	UpdatedAt    time.Time `json:"updated_at"`
}

// Category groups items for browsing
type Category struct {
	ID   int    `json:"id"`
	Name string `json:"name"`
	Slug string `json:"slug"`
}

// Item is something a user offers for trade
type Item struct {
	ID          int       `json:"id"`
	Title       string    `json:"title"`
	Description string    `json:"description"`
	CategoryID  *int      `json:"category_id"`
	Images      []string  `json:"images"`
	Status      string    `json:"status"` // "available", "traded"
	OwnerID     int       `json:"owner_id"`
	OwnerName   string    `json:"owner_name,omitempty"` // filled by joined reads
	CreatedAt   time.Time `json:"created_at"`
	UpdatedAt   time.Time `json:"updated_at"`
}

// Proposal is a request by one user to trade for another user's item
type Proposal struct {
	ID         int       `json:"id"`
	ProposerID int       `json:"proposer_id"`
	ItemID     int       `json:"item_id"`
	Message    *string   `json:"message"`
	Status     string    `json:"status"` // "pending", "accepted", "rejected"
	CreatedAt  time.Time `json:"created_at"`
	UpdatedAt  time.Time `json:"updated_at"`

	// Joined fields for list views
	ProposerName string `json:"proposer_name,omitempty"`
	ItemTitle    string `json:"item_title,omitempty"`
	ItemOwnerID  int    `json:"item_owner_id,omitempty"`
}

// Rating is a post-trade review of one trade party by the other
type Rating struct {
	ID          int       `json:"id"`
	ProposalID  int       `json:"proposal_id"`
	Score       int       `json:"score"` // 1 to 5
	Comment     *string   `json:"comment"`
	RatedByID   int       `json:"rated_by_id"`
	RatedUserID int       `json:"rated_user_id"`
	RatedByName string    `json:"rated_by_name,omitempty"`
	CreatedAt   time.Time `json:"created_at"`
}
