package log

import (
	"context"
	"testing"
)

func TestCtxToString(t *testing.T) {
	ctx := context.Background()
	if actual := ctxToString(ctx); actual != "[]" {
		t.Fatalf(`expected "[]"; got "%s"`, actual)
	}

	ctx = context.WithValue(ctx, ConnIDKey, 3)
	if actual := ctxToString(ctx); actual != "[conn=3]" {
		t.Fatalf(`expected "[conn=3]"; got "%s"`, actual)
	}

	ctx = context.WithValue(ctx, StatementIDKey, 7)
	if actual := ctxToString(ctx); actual != "[conn=3 stmt=7]" {
		t.Fatalf(`expected "[conn=3 stmt=7]"; got "%s"`, actual)
	}
}
