package services

import (
	"github.com/victorgraciaweb/greelow-backend/internal/requestdata"
	"github.com/victorgraciaweb/greelow-backend/internal/types"
)

type AccessAction string

const (
	ActionRead  AccessAction = "read"
	ActionWrite AccessAction = "write"
)

// CanAccess decides whether a principal may act on a conversation.
// Admins may always; everyone else only on conversations they own. The
// same table applies to reads and writes, so the action currently does not
// change the outcome; it is part of the contract so stricter rules can be
// added per action without touching callers.
func CanAccess(principal *requestdata.RequestData, conversation *types.Conversation, action AccessAction) bool {
	if principal == nil || conversation == nil {
		return false
	}
	if principal.HasRole(types.RoleAdmin) {
		return true
	}
	return conversation.OwnedBy(principal.UserID)
}
