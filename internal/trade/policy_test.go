package trade

import (
	"testing"

	"github.com/trocatudo/trocatudo/internal/models"
)

func TestIsOwnerOrPrivileged(t *testing.T) {
	tests := []struct {
		name    string
		actorID int
		role    string
		ownerID int
		want    bool
	}{
		{"Owner", 1, models.RoleUser, 1, true},
		{"Stranger", 2, models.RoleUser, 1, false},
		{"Moderator", 2, models.RoleModerator, 1, true},
		{"Admin", 2, models.RoleAdmin, 1, true},
		{"OwnerWithPlainRole", 1, models.RoleUser, 1, true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := isOwnerOrPrivileged(tt.actorID, tt.role, tt.ownerID); got != tt.want {
				t.Errorf("expected %v, got %v", tt.want, got)
			}
		})
	}
}

func TestIsStrictOwner(t *testing.T) {
	if !isStrictOwner(1, 1) {
		t.Error("owner should pass")
	}
	// No role override exists for strict ownership
	if isStrictOwner(2, 1) {
		t.Error("non-owner should fail")
	}
}
