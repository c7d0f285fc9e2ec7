package hornlog

import (
	"context"
	"fmt"
	"strings"
	"time"

	clog "github.com/vilterp/hornlog/pkg/log"
	"github.com/vilterp/hornlog/pkg/parse"
)

// channel handles one statement within a connection. Every statement gets
// exactly one response: an ack, a query result, a state dump, or an error.
type channel struct {
	connection   *connection
	rawStatement string
	id           int // unique within containing connection

	context context.Context
}

func newChannel(rawStatement string, ID int, conn *connection) *channel {
	ctx := context.WithValue(conn.Ctx(), clog.StatementIDKey, ID)
	return &channel{
		connection:   conn,
		rawStatement: rawStatement,
		id:           ID,
		context:      ctx,
	}
}

func (channel *channel) Ctx() context.Context {
	return channel.context
}

func (channel *channel) handleStatement() {
	if err := channel.validateAndRun(); err != nil {
		clog.Println(channel, "statement failed:", err)
		channel.writeErrorMessage(err)
	}
	channel.connection.removeChannel(channel)
}

func (channel *channel) validateAndRun() error {
	db := channel.connection.database
	raw := strings.TrimSpace(channel.rawStatement)

	// Meta command: dump rules and facts.
	if raw == `\d` {
		rules, facts := db.state()
		channel.writeStateMessage(&StateDump{Rules: rules, Facts: facts})
		return nil
	}

	stmt, err := parse.ParseStatement(raw)
	if err != nil {
		return &parseError{error: err}
	}

	if stmt.Query {
		if len(stmt.Atoms) != 1 || stmt.Conclusion != nil {
			return &validationError{error: fmt.Errorf("query must be a single atom")}
		}
		target := surfaceAtomFromAST(stmt.Atoms[0])
		start := time.Now()
		tree, err := db.query(target)
		db.metrics.queryLatency.Observe(float64(time.Since(start).Nanoseconds()))
		if err != nil {
			return err
		}
		channel.writeResultMessage(&QueryResult{Tree: tree})
		return nil
	}

	start := time.Now()
	ack, err := db.exec(stmt, raw)
	db.metrics.assertLatency.Observe(float64(time.Since(start).Nanoseconds()))
	if err != nil {
		return err
	}
	channel.writeAckMessage(ack)
	return nil
}

type ChannelMessage struct {
	StatementID int              `json:"statement_id"`
	Message     *MessageToClient `json:"message"`
}

type MessageToClient struct {
	Type string `json:"type"` // "ack", "error", "result", or "state"

	Ack    string        `json:"ack,omitempty"`
	Error  *ErrorMessage `json:"error,omitempty"`
	Result *QueryResult  `json:"result,omitempty"`
	State  *StateDump    `json:"state,omitempty"`
}

// ErrorMessage carries the error taxonomy kind alongside the rendered
// message, so clients can branch on outcome without string matching.
type ErrorMessage struct {
	Kind    string `json:"kind"`
	Message string `json:"message"`
}

type QueryResult struct {
	Tree *DerivationTree `json:"tree"`
}

type StateDump struct {
	Rules []SurfaceRule `json:"rules,omitempty"`
	Facts []SurfaceAtom `json:"facts,omitempty"`
}

func (channel *channel) writeErrorMessage(err error) {
	channel.writeMessage(&MessageToClient{
		Type: "error",
		Error: &ErrorMessage{
			Kind:    errorKind(err),
			Message: err.Error(),
		},
	})
}

func (channel *channel) writeAckMessage(message string) {
	channel.writeMessage(&MessageToClient{
		Type: "ack",
		Ack:  message,
	})
}

func (channel *channel) writeResultMessage(result *QueryResult) {
	channel.writeMessage(&MessageToClient{
		Type:   "result",
		Result: result,
	})
}

func (channel *channel) writeStateMessage(state *StateDump) {
	channel.writeMessage(&MessageToClient{
		Type:  "state",
		State: state,
	})
}

func (channel *channel) writeMessage(message *MessageToClient) {
	channel.connection.messages <- &ChannelMessage{
		StatementID: channel.id,
		Message:     message,
	}
}
