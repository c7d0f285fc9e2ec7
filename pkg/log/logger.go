package log

import (
	"context"
	"fmt"
	"log"
	"strings"
)

// contextKey keeps the log tag keys private to this package, so only the
// tagging helpers here can collide on them.
type contextKey int

const (
	ConnIDKey contextKey = iota
	StatementIDKey
)

// Loggable is anything carrying a tagged context: a connection, or one
// statement executing within a connection.
type Loggable interface {
	Ctx() context.Context
}

func ctxToString(ctx context.Context) string {
	var tags []string
	if connID := ctx.Value(ConnIDKey); connID != nil {
		tags = append(tags, fmt.Sprintf("conn=%d", connID))
	}
	if stmtID := ctx.Value(StatementIDKey); stmtID != nil {
		tags = append(tags, fmt.Sprintf("stmt=%d", stmtID))
	}
	return fmt.Sprintf("[%s]", strings.Join(tags, " "))
}

func Println(l Loggable, args ...interface{}) {
	var allArgs []interface{}
	allArgs = append(allArgs, ctxToString(l.Ctx()))
	allArgs = append(allArgs, args...)
	log.Println(allArgs...)
}

func Printf(l Loggable, format string, args ...interface{}) {
	log.Printf("%s %s", ctxToString(l.Ctx()), fmt.Sprintf(format, args...))
}
