package metadata

import (
	"sync"

	"golang.org/x/sync/errgroup"

	"simpledb/internal/query"
	"simpledb/internal/record"
)

// StatInfo is a crude per-table statistics summary used for cost
// estimation.
type StatInfo struct {
	NumBlocks int
	NumRecs   int
}

// DistinctValues is a deliberately inaccurate estimator, monotonic in
// NumRecs, used uniformly across every field of the table.
func (si StatInfo) DistinctValues(fldname string) int {
	return 1 + si.NumRecs/3
}

// StatMgr caches a StatInfo per table and periodically refreshes the
// whole cache by rescanning every table.
type StatMgr struct {
	tblMgr *TableMgr
	newTx  query.TransactorFactory

	mu         sync.Mutex
	tableStats map[string]StatInfo
	numCalls   int
}

// NewStatMgr builds the initial statistics by scanning every user table.
// newTx mints the independent transactions refreshStatistics hands to its
// per-table goroutines; tx itself is only used to read the table catalog.
func NewStatMgr(tblMgr *TableMgr, tx query.Transactor, newTx query.TransactorFactory) (*StatMgr, error) {
	sm := &StatMgr{tblMgr: tblMgr, newTx: newTx}
	if err := sm.refreshStatistics(tx); err != nil {
		return nil, err
	}
	return sm, nil
}

// GetStatInfo returns tblname's StatInfo, refreshing the whole cache
// first if it has been consulted more than 100 times since the last
// refresh, and computing it fresh if the cache has no entry yet.
func (sm *StatMgr) GetStatInfo(tblname string, layout *record.Layout, tx query.Transactor) (StatInfo, error) {
	sm.mu.Lock()
	sm.numCalls++
	stale := sm.numCalls > 100
	sm.mu.Unlock()

	if stale {
		if err := sm.refreshStatistics(tx); err != nil {
			return StatInfo{}, err
		}
	}

	sm.mu.Lock()
	si, ok := sm.tableStats[tblname]
	sm.mu.Unlock()
	if ok {
		return si, nil
	}

	si, err := sm.calcTableStats(tblname, layout, tx)
	if err != nil {
		return StatInfo{}, err
	}
	sm.mu.Lock()
	sm.tableStats[tblname] = si
	sm.mu.Unlock()
	return si, nil
}

// refreshStatistics recomputes the whole table-stats map. Each table's
// rescan is independent and I/O bound, so the per-table work fans out
// across an errgroup; a shared Transactor is not safe for concurrent
// use, so every goroutine opens its own transaction through sm.newTx
// instead of reusing tx, and commits it once its scan is closed.
func (sm *StatMgr) refreshStatistics(tx query.Transactor) error {
	tcatLayout, err := sm.tblMgr.GetLayout("tblcat", tx)
	if err != nil {
		return err
	}
	tcat, err := query.NewTableScan(tx, "tblcat", tcatLayout)
	if err != nil {
		return err
	}
	var tblnames []string
	for tcat.Next() {
		name, err := tcat.GetString("tblname")
		if err != nil {
			tcat.Close()
			return err
		}
		tblnames = append(tblnames, name)
	}
	tcat.Close()

	results := make([]StatInfo, len(tblnames))
	var g errgroup.Group
	for i, tblname := range tblnames {
		i, tblname := i, tblname
		g.Go(func() error {
			tabletx, err := sm.newTx()
			if err != nil {
				return err
			}
			layout, err := sm.tblMgr.GetLayout(tblname, tabletx)
			if err != nil {
				_ = tabletx.Rollback()
				return err
			}
			si, err := sm.calcTableStats(tblname, layout, tabletx)
			if err != nil {
				_ = tabletx.Rollback()
				return err
			}
			if err := tabletx.Commit(); err != nil {
				return err
			}
			results[i] = si
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return err
	}

	tablestats := make(map[string]StatInfo, len(tblnames))
	for i, tblname := range tblnames {
		tablestats[tblname] = results[i]
	}

	sm.mu.Lock()
	sm.tableStats = tablestats
	sm.numCalls = 0
	sm.mu.Unlock()
	return nil
}

func (sm *StatMgr) calcTableStats(tblname string, layout *record.Layout, tx query.Transactor) (StatInfo, error) {
	numRecs := 0
	numBlocks := 0
	ts, err := query.NewTableScan(tx, tblname, layout)
	if err != nil {
		return StatInfo{}, err
	}
	defer ts.Close()
	for ts.Next() {
		numRecs++
		numBlocks = ts.GetRID().Blknum + 1
	}
	return StatInfo{NumBlocks: numBlocks, NumRecs: numRecs}, nil
}
