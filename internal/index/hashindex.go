// Package index implements a static hash index over one table field.
// Nothing in this engine's query planners opens an index-backed scan
// (index-aware plan selection is out of scope); StaticHashIndex exists so
// metadata.IndexInfo.Open has something real to return, matching the
// original design's own commented-out index-opening method.
package index

import (
	"fmt"

	"simpledb/internal/query"
	"simpledb/internal/record"
)

// NumBuckets is the fixed number of buckets a static hash index spreads
// its entries across; each bucket is its own file.
const NumBuckets = 100

// Entry is one (value, rid) pair an index maps.
type Entry struct {
	Val query.Constant
	RID query.RID
}

// StaticHashIndex is a search-key-to-RID index backed by NumBuckets
// separate table files, one per hash bucket.
type StaticHashIndex struct {
	tx      query.Transactor
	idxname string
	layout  *record.Layout
	searchKey query.Constant
	ts      *query.TableScan
}

// NewStaticHashIndex opens an index handle without yet positioning it at
// any bucket; BeforeFirst selects the bucket for a given search key.
func NewStaticHashIndex(tx query.Transactor, idxname string, layout *record.Layout) (*StaticHashIndex, error) {
	return &StaticHashIndex{tx: tx, idxname: idxname, layout: layout}, nil
}

// BeforeFirst positions the index on the bucket holding searchKey, ready
// to iterate its matching entries.
func (idx *StaticHashIndex) BeforeFirst(searchKey query.Constant) error {
	idx.Close()
	idx.searchKey = searchKey
	bucket := hashConstant(searchKey) % NumBuckets
	tblname := fmt.Sprintf("%s%d", idx.idxname, bucket)
	ts, err := query.NewTableScan(idx.tx, tblname, idx.layout)
	if err != nil {
		return err
	}
	idx.ts = ts
	return nil
}

// Next advances to the next entry in the current bucket matching the
// search key set by BeforeFirst.
func (idx *StaticHashIndex) Next() (bool, error) {
	for idx.ts.Next() {
		val, err := idx.ts.GetVal("dataval")
		if err != nil {
			return false, err
		}
		if val.Equal(idx.searchKey) {
			return true, nil
		}
	}
	return false, nil
}

// DataRID returns the RID stored alongside the current entry.
func (idx *StaticHashIndex) DataRID() (query.RID, error) {
	blk, err := idx.ts.GetInt("block")
	if err != nil {
		return query.RID{}, err
	}
	id, err := idx.ts.GetInt("id")
	if err != nil {
		return query.RID{}, err
	}
	return query.RID{Blknum: blk, Slot: id}, nil
}

// Insert adds a (val, rid) entry to the bucket val hashes to.
func (idx *StaticHashIndex) Insert(val query.Constant, rid query.RID) error {
	if err := idx.BeforeFirst(val); err != nil {
		return err
	}
	defer idx.Close()
	if err := idx.ts.Insert(); err != nil {
		return err
	}
	if err := idx.ts.SetInt("block", rid.Blknum); err != nil {
		return err
	}
	if err := idx.ts.SetInt("id", rid.Slot); err != nil {
		return err
	}
	return idx.ts.SetVal("dataval", val)
}

// Delete removes the first entry matching (val, rid) from its bucket.
func (idx *StaticHashIndex) Delete(val query.Constant, rid query.RID) error {
	if err := idx.BeforeFirst(val); err != nil {
		return err
	}
	defer idx.Close()
	for {
		ok, err := idx.Next()
		if err != nil {
			return err
		}
		if !ok {
			return nil
		}
		got, err := idx.DataRID()
		if err != nil {
			return err
		}
		if got == rid {
			return idx.ts.Delete()
		}
	}
}

// Close releases the current bucket's scan, if any.
func (idx *StaticHashIndex) Close() {
	if idx.ts != nil {
		idx.ts.Close()
		idx.ts = nil
	}
}

// SearchCost estimates the block accesses a lookup costs: a full scan of
// one bucket's share of numblocks.
func SearchCost(numblocks, rpb int) int {
	return numblocks / NumBuckets
}

func hashConstant(c query.Constant) int {
	if c.IsInt() {
		v := c.AsInt()
		if v < 0 {
			v = -v
		}
		return v
	}
	h := 0
	for _, r := range c.AsString() {
		h = h*31 + int(r)
	}
	if h < 0 {
		h = -h
	}
	return h
}
