package hornlog

import (
	"encoding/json"
	"fmt"
	"io/ioutil"
	"net/http"
	"os"
	"testing"
	"time"

	"github.com/phayes/freeport"
	"github.com/vilterp/hornlog/pkg/util"
)

type testServerArgs struct {
	dataFilePath     string
	preserveWhenDone bool
	rulesFile        string
	limits           EngineLimits
}

func NewTestServer(args *testServerArgs) (*Server, *Client, error) {
	if args == nil {
		args = &testServerArgs{}
	}
	if args.dataFilePath == "" {
		dir, err := ioutil.TempDir("", "")
		if err != nil {
			return nil, nil, err
		}
		args.dataFilePath = dir + "/test.data"
		if !args.preserveWhenDone {
			defer os.RemoveAll(dir)
		}
	}
	if args.limits == (EngineLimits{}) {
		args.limits = EngineLimits{MaxRounds: DefaultMaxRounds, MaxFacts: DefaultMaxFacts}
	}

	port := freeport.GetPort()

	server := NewServer(args.dataFilePath, args.rulesFile, "localhost", port, args.limits)
	go func() {
		err := server.ListenAndServe()
		if err != nil && err != http.ErrServerClosed {
			panic(err)
		}
	}()

	// The server goroutine may not have bound the port yet; retry the dial
	// briefly until it comes up.
	url := fmt.Sprintf("ws://localhost:%d/ws", port)
	var client *Client
	var err error
	for i := 0; i < 100; i++ {
		client, err = NewClient(url)
		if err == nil {
			break
		}
		time.Sleep(20 * time.Millisecond)
	}
	if err != nil {
		return nil, nil, err
	}

	return server, client, nil
}

// define stmt => define error or ack
// define query => define error or result
type simpleTestStmt struct {
	stmt  string
	query string

	ack    string
	error  string
	result string
}

type testServerRef struct {
	server *Server
	client *Client
}

func (tsr *testServerRef) Close() {
	tsr.server.Close()
	tsr.client.Close()
}

// runSimpleTestScript spins up a test server and runs statements on it,
// checking each result.
func runSimpleTestScript(t *testing.T, cases []simpleTestStmt) *testServerRef {
	server, client, err := NewTestServer(nil)
	if err != nil {
		t.Fatal(err)
	}

	runScriptAgainst(t, client, cases)

	return &testServerRef{
		server: server,
		client: client,
	}
}

func runScriptAgainst(t *testing.T, client *Client, cases []simpleTestStmt) {
	for idx, testCase := range cases {
		// Run a statement.
		if testCase.stmt != "" {
			result, err := client.Exec(testCase.stmt)
			if util.AssertError(t, idx, testCase.error, err) {
				continue
			}
			if result != testCase.ack {
				t.Fatalf(`case %d: expected ack "%s"; got "%s"`, idx, testCase.ack, result)
			}
			continue
		}
		// Run a query.
		if testCase.query != "" {
			tree, err := client.Query(testCase.query)
			if util.AssertError(t, idx, testCase.error, err) {
				continue
			}
			indented, _ := json.MarshalIndent(tree, "", "  ")
			if string(indented) != testCase.result {
				t.Fatalf("case %d: expected:\n%s\ngot:\n%s", idx, testCase.result, indented)
			}
		}
	}
}
