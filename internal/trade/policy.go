package trade

import "github.com/trocatudo/trocatudo/internal/models"

// isOwnerOrPrivileged reports whether the actor owns the resource or holds a
// moderator/admin role. Used for item mutations.
func isOwnerOrPrivileged(actorID int, actorRole string, ownerID int) bool {
	if actorID == ownerID {
		return true
	}
	return actorRole == models.RoleModerator || actorRole == models.RoleAdmin
}

// isStrictOwner reports whether the actor is the resource owner. No
// privileged override: used for proposal deletion and rating authorship.
func isStrictOwner(actorID, ownerID int) bool {
	return actorID == ownerID
}
