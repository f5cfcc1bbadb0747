package tracing

import (
	"github.com/sarchlab/logicsim/circuit"
	"github.com/sarchlab/logicsim/datarecording"
	"github.com/sarchlab/logicsim/idgen"
)

// CommitTable is the table DBTracer writes to.
const CommitTable = "signal_commit"

// CommitRecord is a row of CommitTable.
type CommitRecord struct {
	ID      string
	Circuit string
	Time    uint64
	Net     string
	Width   int
	Value   string
}

// DBTracer stores every net change into a DataRecorder.
type DBTracer struct {
	circuit  string
	recorder datarecording.DataRecorder
}

// NewDBTracer creates a DBTracer and the table it writes to. Commits are
// tagged with circuitName so that several simulations can share a database.
func NewDBTracer(
	circuitName string,
	recorder datarecording.DataRecorder,
) *DBTracer {
	recorder.CreateTable(CommitTable, CommitRecord{})

	return &DBTracer{
		circuit:  circuitName,
		recorder: recorder,
	}
}

// Commit records a net change.
func (t *DBTracer) Commit(change circuit.SignalChange) {
	t.recorder.InsertData(CommitTable, CommitRecord{
		ID:      idgen.Get().Generate(),
		Circuit: t.circuit,
		Time:    uint64(change.Time),
		Net:     change.Net,
		Width:   change.Value.Width(),
		Value:   change.Value.String(),
	})
}

// Flush forces the buffered records into the database.
func (t *DBTracer) Flush() {
	t.recorder.Flush()
}
