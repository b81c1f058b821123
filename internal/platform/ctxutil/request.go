package ctxutil

import (
	"context"

	"github.com/google/uuid"
)

type requestDataKey struct{}

// RequestData identifies the caller. Token is the raw bearer token, forwarded
// verbatim to downstream collaborators that authenticate the same user.
type RequestData struct {
	UserID uuid.UUID
	Token  string
}

func WithRequestData(ctx context.Context, rd *RequestData) context.Context {
	return context.WithValue(ctx, requestDataKey{}, rd)
}

func GetRequestData(ctx context.Context) *RequestData {
	if rd, ok := ctx.Value(requestDataKey{}).(*RequestData); ok {
		return rd
	}
	return nil
}

// BearerToken returns the caller's token or "".
func BearerToken(ctx context.Context) string {
	if rd := GetRequestData(ctx); rd != nil {
		return rd.Token
	}
	return ""
}
