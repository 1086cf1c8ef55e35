package userctx

import (
	"context"
	"strings"
)

type contextKey string

const (
	userIDContextKey      contextKey = "user_id"
	requestUserContextKey contextKey = "request_user"
)

type requestUser struct {
	id string
}

// DefaultUserID владеет всеми данными, когда авторизация выключена
const DefaultUserID = "default"

func WithUserID(ctx context.Context, userID string) context.Context {
	if ref, ok := ctx.Value(requestUserContextKey).(*requestUser); ok {
		ref.id = userID
	}
	return context.WithValue(ctx, userIDContextKey, userID)
}

// TrackUser lets an outer middleware see the user set further down the chain.
// The returned func reports the last WithUserID value, or "" if none was set.
// Not safe for concurrent use; read it after the handler returns.
func TrackUser(ctx context.Context) (context.Context, func() string) {
	ref := &requestUser{}
	return context.WithValue(ctx, requestUserContextKey, ref), func() string { return ref.id }
}

func GetUserID(ctx context.Context) (string, bool) {
	userID, ok := ctx.Value(userIDContextKey).(string)
	return userID, ok
}

// OwnerID возвращает пользователя из контекста или DefaultUserID
func OwnerID(ctx context.Context) string {
	if userID, ok := GetUserID(ctx); ok && strings.TrimSpace(userID) != "" {
		return userID
	}
	return DefaultUserID
}
