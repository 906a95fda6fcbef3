package requestdata

import (
	"context"

	"github.com/google/uuid"
)

type requestDataKeyType struct{}

var requestDataKey = requestDataKeyType{}

// RequestData is the authenticated principal attached to a request context
// by the auth middleware. Roles are drawn from {ADMIN, MEMBER}.
type RequestData struct {
	TokenString string
	UserID      uuid.UUID
	Email       string
	Roles       []string
}

func (rd *RequestData) HasRole(role string) bool {
	if rd == nil {
		return false
	}
	for _, r := range rd.Roles {
		if r == role {
			return true
		}
	}
	return false
}

func WithRequestData(ctx context.Context, rd *RequestData) context.Context {
	return context.WithValue(ctx, requestDataKey, rd)
}

func GetRequestData(ctx context.Context) *RequestData {
	if rd, ok := ctx.Value(requestDataKey).(*RequestData); ok {
		return rd
	}
	return nil
}
