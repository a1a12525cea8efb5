// Package stats counts what the ingester kept and what it dropped.
// Rows are never rejected loudly, the counters are the only trace of
// malformed input.
package stats

import (
	"fmt"
	"sync/atomic"
)

type Ingest struct {
	rows       int64
	accepted   int64
	noIdentity int64
	duplicates int64
	excluded   int64
	badCoords  int64
}

func (c *Ingest) AddRow()        { atomic.AddInt64(&c.rows, 1) }
func (c *Ingest) AddAccepted()   { atomic.AddInt64(&c.accepted, 1) }
func (c *Ingest) AddNoIdentity() { atomic.AddInt64(&c.noIdentity, 1) }
func (c *Ingest) AddDuplicate()  { atomic.AddInt64(&c.duplicates, 1) }
func (c *Ingest) AddExcluded()   { atomic.AddInt64(&c.excluded, 1) }
func (c *Ingest) AddBadCoords()  { atomic.AddInt64(&c.badCoords, 1) }

func (c *Ingest) Rows() int64       { return atomic.LoadInt64(&c.rows) }
func (c *Ingest) Accepted() int64   { return atomic.LoadInt64(&c.accepted) }
func (c *Ingest) NoIdentity() int64 { return atomic.LoadInt64(&c.noIdentity) }
func (c *Ingest) Duplicates() int64 { return atomic.LoadInt64(&c.duplicates) }
func (c *Ingest) Excluded() int64   { return atomic.LoadInt64(&c.excluded) }
func (c *Ingest) BadCoords() int64  { return atomic.LoadInt64(&c.badCoords) }

func (c *Ingest) Dropped() int64 {
	return c.NoIdentity() + c.Duplicates() + c.Excluded() + c.BadCoords()
}

func (c *Ingest) String() string {
	return fmt.Sprintf(
		"%d rows: %d accepted, %d without name/pc6, %d duplicates, %d excluded municipality, %d invalid coordinates",
		c.Rows(), c.Accepted(), c.NoIdentity(), c.Duplicates(), c.Excluded(), c.BadCoords(),
	)
}
