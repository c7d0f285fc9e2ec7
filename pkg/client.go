package hornlog

import (
	"errors"
	"fmt"
	"log"

	"github.com/gorilla/websocket"
)

type Client struct {
	WebSocketConn    *websocket.Conn
	URL              string
	NextStatementID  int
	StatementsToSend chan *StatementRequest
	IncomingMessages chan *ChannelMessage
	Channels         map[int]*ClientChannel
	ServerClosed     chan struct{}
}

type StatementRequest struct {
	Statement  string
	ResultChan chan *ClientChannel
}

func NewClient(url string) (*Client, error) {
	conn, _, err := websocket.DefaultDialer.Dial(url, nil)
	if err != nil {
		return nil, err
	}
	clientConn := &Client{
		NextStatementID:  0,
		WebSocketConn:    conn,
		URL:              url,
		StatementsToSend: make(chan *StatementRequest),
		IncomingMessages: make(chan *ChannelMessage),
		Channels:         map[int]*ClientChannel{},
		ServerClosed:     make(chan struct{}),
	}
	go clientConn.handleStatements()
	go clientConn.handleIncoming()
	return clientConn, nil
}

func (conn *Client) Close() error {
	return conn.WebSocketConn.Close()
}

func (conn *Client) handleStatements() {
	for {
		select {
		case request := <-conn.StatementsToSend:
			channel := &ClientChannel{
				Conn:        conn,
				StatementID: conn.NextStatementID,
				Statement:   request.Statement,
				Updates:     make(chan *MessageToClient),
			}
			conn.NextStatementID++
			conn.Channels[channel.StatementID] = channel
			request.ResultChan <- channel
			conn.WebSocketConn.WriteMessage(websocket.TextMessage, []byte(request.Statement))

		case incomingMsg := <-conn.IncomingMessages:
			channel := conn.Channels[incomingMsg.StatementID]
			channel.Updates <- incomingMsg.Message
		}
	}
}

func (conn *Client) handleIncoming() {
	defer conn.WebSocketConn.Close()
	for {
		parsedMessage := &ChannelMessage{}
		if err := conn.WebSocketConn.ReadJSON(&parsedMessage); err != nil {
			log.Println("error in handleIncoming:", err)
			close(conn.ServerClosed)
			return
		}
		conn.IncomingMessages <- parsedMessage
	}
}

type ClientChannel struct {
	Conn        *Client
	StatementID int
	Statement   string
	Updates     chan *MessageToClient
}

func (conn *Client) Statement(statement string) *ClientChannel {
	resultChan := make(chan *ClientChannel)
	conn.StatementsToSend <- &StatementRequest{
		ResultChan: resultChan,
		Statement:  statement,
	}
	return <-resultChan
}

// RemoteError is an error reported by the server, with its taxonomy kind
// preserved so callers can branch on "saturated" vs "parse_error" etc.
type RemoteError struct {
	Kind    string
	Message string
}

func (e *RemoteError) Error() string {
	return e.Message
}

// Query runs a ground query and returns its derivation tree.
func (conn *Client) Query(query string) (*DerivationTree, error) {
	channel := conn.Statement(query)
	update := <-channel.Updates
	switch update.Type {
	case "error":
		return nil, &RemoteError{Kind: update.Error.Kind, Message: update.Error.Message}
	case "result":
		return update.Result.Tree, nil
	}
	return nil, fmt.Errorf("query response neither error nor result: %s", update.Type)
}

// Exec runs an assertion and returns the server's ack.
func (conn *Client) Exec(statement string) (string, error) {
	channel := conn.Statement(statement)
	update := <-channel.Updates
	switch update.Type {
	case "error":
		return "", &RemoteError{Kind: update.Error.Kind, Message: update.Error.Message}
	case "ack":
		return update.Ack, nil
	}
	return "", fmt.Errorf("exec response neither error nor ack: %s", update.Type)
}

// State fetches the server's rule and fact listing.
func (conn *Client) State() (*StateDump, error) {
	channel := conn.Statement(`\d`)
	update := <-channel.Updates
	switch update.Type {
	case "error":
		return nil, &RemoteError{Kind: update.Error.Kind, Message: update.Error.Message}
	case "state":
		return update.State, nil
	}
	return nil, errors.New("state response neither error nor state")
}
