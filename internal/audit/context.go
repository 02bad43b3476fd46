package audit

import "context"

type clientIPKey struct{}

// WithClientIP attaches the caller's address to ctx so that events recorded
// while serving the request carry it.
func WithClientIP(ctx context.Context, ip string) context.Context {
	return context.WithValue(ctx, clientIPKey{}, ip)
}

func ClientIP(ctx context.Context) string {
	ip, _ := ctx.Value(clientIPKey{}).(string)
	return ip
}
