package routes

import "context"

type paramsContextKey struct{}

// Param returns the named path parameter captured during dispatch, or ""
// when the route pattern did not declare it.
func Param(ctx context.Context, name string) string {
	params, _ := ctx.Value(paramsContextKey{}).(map[string]string)
	return params[name]
}

type patternContextKey struct{}

type patternHolder struct {
	pattern string
}

// ContextWithPatternHolder prepares a slot outer middleware can read after
// dispatch, so metrics can label by route pattern instead of raw path.
func ContextWithPatternHolder(ctx context.Context) context.Context {
	return context.WithValue(ctx, patternContextKey{}, &patternHolder{})
}

// PatternFromContext returns the matched route pattern, if any.
func PatternFromContext(ctx context.Context) string {
	if h, ok := ctx.Value(patternContextKey{}).(*patternHolder); ok {
		return h.pattern
	}
	return ""
}

func setPattern(ctx context.Context, pattern string) {
	if h, ok := ctx.Value(patternContextKey{}).(*patternHolder); ok {
		h.pattern = pattern
	}
}
