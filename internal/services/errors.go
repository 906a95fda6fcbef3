package services

import (
	"errors"
	"net/http"

	"github.com/victorgraciaweb/greelow-backend/internal/platform/apierr"
)

// Domain failure kinds. NotFound and Forbidden are expected outcomes for
// the HTTP layer to translate; the *Unavailable kinds signal infrastructure
// failures of the store or the chat platform.
var (
	ErrNotFound           = apierr.New(http.StatusNotFound, "conversation_not_found", errors.New("conversation not found"))
	ErrForbidden          = apierr.New(http.StatusForbidden, "access_denied", errors.New("access denied"))
	ErrConflict           = apierr.New(http.StatusConflict, "conversation_conflict", errors.New("duplicate conversation for chat id"))
	ErrGatewayUnavailable = apierr.New(http.StatusBadGateway, "chat_gateway_unavailable", errors.New("chat gateway unavailable"))
	ErrStoreUnavailable   = apierr.New(http.StatusServiceUnavailable, "store_unavailable", errors.New("conversation store unavailable"))
)
