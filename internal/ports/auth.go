package ports

import "context"

// TokenProvider hands out bearer tokens for uploads. The orchestrator calls
// Token before every slice POST because tokens may expire mid-run; callers
// bound each fetch with a short context deadline and treat a timeout as an
// authentication failure, not something to retry inside the call.
type TokenProvider interface {
	Token(ctx context.Context) (string, error)
}
