package driver

import (
	"context"
)

// MockConnection is a deterministic, in-memory Connection for exercising
// callers without a live backend. Query results are scripted by enqueueing
// fixtures; failures are injected per operation through the Fail* flags.
//
// Check order for Execute/Query is fixed: not-connected, then the failure
// flag, then log-and-succeed. A statement rejected by an injected failure is
// therefore never logged.
type MockConnection struct {
	FailConnect     bool
	FailExecute     bool
	FailQuery       bool
	FailTransaction bool

	connected bool
	inTx      bool
	log       []string
	fixtures  []*QueryResult
	cursor    int
}

var _ Connection = (*MockConnection)(nil)

func NewMockConnection() *MockConnection {
	return &MockConnection{}
}

// EnqueueResult registers a fixture to be returned by a later Query call.
// The queue stores its own deep copy, and consumption hands out another deep
// copy, so caller, queue and consumer never share mutable state.
func (c *MockConnection) EnqueueResult(res *QueryResult) {
	c.fixtures = append(c.fixtures, res.Clone())
}

func (c *MockConnection) Connect(ctx context.Context, cfg Config) error {
	if c.FailConnect {
		return ErrConnectionFailed
	}
	c.connected = true
	return nil
}

func (c *MockConnection) Disconnect() {
	c.connected = false
	c.inTx = false
}

// Connected reports whether the mock currently holds a session.
func (c *MockConnection) Connected() bool { return c.connected }

// InTransaction reports whether a transaction is active.
func (c *MockConnection) InTransaction() bool { return c.inTx }

func (c *MockConnection) Execute(ctx context.Context, statement string) error {
	if !c.connected {
		return ErrConnectionFailed
	}
	if c.FailExecute {
		return ErrQueryExecutionFailed
	}
	c.log = append(c.log, statement)
	return nil
}

func (c *MockConnection) Query(ctx context.Context, statement string) (*QueryResult, error) {
	if !c.connected {
		return nil, ErrConnectionFailed
	}
	if c.FailQuery {
		return nil, ErrQueryExecutionFailed
	}
	c.log = append(c.log, statement)

	if c.cursor < len(c.fixtures) {
		res := c.fixtures[c.cursor].Clone()
		c.cursor++
		return res, nil
	}
	// Exhausted queue: every further query gets an empty result, never an
	// error and never a stale fixture.
	return &QueryResult{}, nil
}

func (c *MockConnection) BeginTransaction(ctx context.Context) error {
	if !c.connected {
		return ErrConnectionFailed
	}
	if c.FailTransaction {
		return ErrTransactionFailed
	}
	if c.inTx {
		return ErrTransactionFailed
	}
	c.inTx = true
	return nil
}

func (c *MockConnection) Commit(ctx context.Context) error {
	return c.endTransaction()
}

func (c *MockConnection) Rollback(ctx context.Context) error {
	return c.endTransaction()
}

func (c *MockConnection) endTransaction() error {
	if !c.connected {
		return ErrConnectionFailed
	}
	if c.FailTransaction {
		return ErrTransactionFailed
	}
	if !c.inTx {
		return ErrTransactionFailed
	}
	c.inTx = false
	return nil
}

func (c *MockConnection) Log() []string {
	return append([]string(nil), c.log...)
}
