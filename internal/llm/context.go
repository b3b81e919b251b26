package llm

import "context"

// purposeKey carries the label of the feature making a call ("tutor",
// "vocab", "lesson") down to the logging decorator.
type purposeKey struct{}

const unknownPurpose = "unknown"

func WithPurpose(ctx context.Context, purpose string) context.Context {
	return context.WithValue(ctx, purposeKey{}, purpose)
}

// PurposeFrom returns the label set by WithPurpose, or "unknown".
func PurposeFrom(ctx context.Context) string {
	if p, _ := ctx.Value(purposeKey{}).(string); p != "" {
		return p
	}
	return unknownPurpose
}
