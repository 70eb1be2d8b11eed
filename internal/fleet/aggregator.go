package fleet

import (
	"time"

	"github.com/rs/zerolog"
)

// Aggregator is the sole writer of the state table. Apply never fails:
// command and parse errors arrive encoded in the Result and become an
// error-state record, not a propagated fault.
type Aggregator struct {
	table *Table
	log   zerolog.Logger
	now   func() time.Time
}

// NewAggregator creates an aggregator over the given table.
func NewAggregator(table *Table, log zerolog.Logger) *Aggregator {
	return &Aggregator{table: table, log: log, now: time.Now}
}

// Apply merges one task result into the table, replacing the repository's
// record whole. The pending flag clears exactly here, when the terminal
// result of the operation lands.
func (a *Aggregator) Apply(res Result) {
	st, ok := a.table.Get(res.Repo)
	if !ok {
		// Results only arrive for repos the dispatcher submitted; an
		// unknown path indicates a bug upstream, never a crash here.
		a.log.Warn().Str("repo", res.Repo).Msg("result for unknown repository")
		return
	}

	st.Pending = OpNone

	if res.OK() {
		st.Git = res.Status
		st.Status = StatusClean
		st.Err = ""
		st.LastSync = a.now()
	} else {
		st.Status = StatusError
		st.Err = res.Message
	}

	a.table.Set(st)
}
