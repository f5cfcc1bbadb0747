package tracing

import (
	"context"
	"strings"

	"github.com/sarchlab/logicsim/datarecording"
)

// CommitQuery selects recorded commits. Empty fields are ignored.
type CommitQuery struct {
	Circuit string
	Net     string

	// EnableTimeRange restricts the result to StartTime <= Time <= EndTime.
	EnableTimeRange    bool
	StartTime, EndTime uint64

	Limit, Offset int
}

// TraceReader reads commits written by a DBTracer.
type TraceReader interface {
	ListCommits(ctx context.Context, query CommitQuery) ([]CommitRecord, int, error)
}

// DBTraceReader reads commits through a DataReader.
type DBTraceReader struct {
	reader datarecording.DataReader
}

// NewDBTraceReader creates a DBTraceReader.
func NewDBTraceReader(reader datarecording.DataReader) *DBTraceReader {
	reader.MapTable(CommitTable, CommitRecord{})

	return &DBTraceReader{reader: reader}
}

// ListCommits returns the matching commits in time order, together with the
// number of matches before pagination.
func (r *DBTraceReader) ListCommits(
	ctx context.Context,
	query CommitQuery,
) ([]CommitRecord, int, error) {
	var (
		conds []string
		args  []any
	)

	if query.Circuit != "" {
		conds = append(conds, "Circuit = ?")
		args = append(args, query.Circuit)
	}

	if query.Net != "" {
		conds = append(conds, "Net = ?")
		args = append(args, query.Net)
	}

	if query.EnableTimeRange {
		conds = append(conds, "Time >= ? AND Time <= ?")
		args = append(args, query.StartTime, query.EndTime)
	}

	results, total, err := r.reader.Query(ctx, CommitTable,
		datarecording.QueryParams{
			Where:   strings.Join(conds, " AND "),
			Args:    args,
			OrderBy: "Time, rowid",
			Limit:   query.Limit,
			Offset:  query.Offset,
		})
	if err != nil {
		return nil, 0, err
	}

	commits := make([]CommitRecord, len(results))
	for i, r := range results {
		commits[i] = *r.(*CommitRecord)
	}

	return commits, total, nil
}
