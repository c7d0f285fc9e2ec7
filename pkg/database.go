package hornlog

import (
	"context"
	"encoding/binary"
	"io/ioutil"
	"sync"

	"github.com/boltdb/bolt"
	"github.com/gorilla/websocket"
	"github.com/pkg/errors"
	"github.com/vilterp/hornlog/pkg/parse"
)

var statementsBucket = []byte("statements")

// Database is a knowledge base served over the network: an engine plus an
// append-only bolt log of every asserted statement. On open, the log is
// replayed through the parser to rebuild the engine, so a restarted
// server still knows everything asserted to it. Only statement text is
// persisted; symbols are session-scoped and freshly interned per replay,
// and derived facts are re-derived on demand.
type Database struct {
	engine *Engine
	boltDB *bolt.DB

	mu sync.Mutex // serializes engine and connection-table access

	connections      map[connectionID]*connection
	nextConnectionID int

	ctx     context.Context
	metrics *metrics
}

// NewDatabase opens dataFile and rebuilds engine state. If rulesFile is
// non-empty it is loaded first, before the statement log; it is read on
// every boot and never written to the log.
func NewDatabase(dataFile string, rulesFile string, limits EngineLimits) (*Database, error) {
	boltDB, err := bolt.Open(dataFile, 0600, nil)
	if err != nil {
		return nil, err
	}
	if err := boltDB.Update(func(tx *bolt.Tx) error {
		_, err := tx.CreateBucketIfNotExists(statementsBucket)
		return err
	}); err != nil {
		boltDB.Close()
		return nil, err
	}

	engine := NewEngine(limits)

	if rulesFile != "" {
		contents, err := ioutil.ReadFile(rulesFile)
		if err != nil {
			boltDB.Close()
			return nil, errors.Wrap(err, "reading rules file")
		}
		file, err := parse.Parse(string(contents))
		if err != nil {
			boltDB.Close()
			return nil, &parseError{error: err}
		}
		for _, stmt := range file.Statements {
			if err := engine.Assert(stmt); err != nil {
				boltDB.Close()
				return nil, errors.Wrapf(err, "loading %s", rulesFile)
			}
		}
	}

	// Replay the statement log.
	if err := boltDB.View(func(tx *bolt.Tx) error {
		return tx.Bucket(statementsBucket).ForEach(func(_, v []byte) error {
			stmt, err := parse.ParseStatement(string(v))
			if err != nil {
				return errors.Wrapf(err, "replaying statement %q", v)
			}
			return engine.Assert(stmt)
		})
	}); err != nil {
		boltDB.Close()
		return nil, err
	}

	db := &Database{
		engine:      engine,
		boltDB:      boltDB,
		connections: make(map[connectionID]*connection),
		ctx:         context.Background(),
	}
	db.metrics = newMetrics(db)
	return db, nil
}

// addConnection connects a websocket to the database, s.t. the database
// will interact with the connection.
func (db *Database) addConnection(wsConn *websocket.Conn) {
	db.mu.Lock()
	conn := newConnection(wsConn, db, db.nextConnectionID)
	db.nextConnectionID++
	db.connections[conn.id] = conn
	db.mu.Unlock()
	conn.handleStatements()
}

func (db *Database) removeConn(conn *connection) {
	db.mu.Lock()
	defer db.mu.Unlock()
	delete(db.connections, conn.id)
}

func (db *Database) Close() error {
	return db.boltDB.Close()
}

// exec applies an assertion to the engine and appends its text to the
// statement log.
func (db *Database) exec(stmt *parse.Statement, raw string) (string, error) {
	db.mu.Lock()
	defer db.mu.Unlock()

	if err := db.engine.Assert(stmt); err != nil {
		return "", err
	}
	if err := db.boltDB.Update(func(tx *bolt.Tx) error {
		b := tx.Bucket(statementsBucket)
		seq, err := b.NextSequence()
		if err != nil {
			return err
		}
		return b.Put(itob(seq), []byte(raw))
	}); err != nil {
		return "", errors.Wrap(err, "logging statement")
	}

	if len(stmt.Premises()) == 0 {
		return "ASSERT 1", nil
	}
	return "RULE", nil
}

func (db *Database) query(target SurfaceAtom) (*DerivationTree, error) {
	db.mu.Lock()
	defer db.mu.Unlock()
	return db.engine.Query(target)
}

func (db *Database) state() ([]SurfaceRule, []SurfaceAtom) {
	db.mu.Lock()
	defer db.mu.Unlock()
	return db.engine.Rules(), db.engine.Facts()
}

// itob returns v as a big-endian byte slice, for use as a bolt key.
func itob(v uint64) []byte {
	b := make([]byte, 8)
	binary.BigEndian.PutUint64(b, v)
	return b
}
