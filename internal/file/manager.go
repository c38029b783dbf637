package file

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"sync"
)

// Mgr owns one on-disk directory and serves every read/write/append against
// the files inside it. It never closes a file handle until the process
// tears it down.
type Mgr struct {
	mu        sync.Mutex
	dbDir     string
	blockSize int
	isNew     bool
	openFiles map[string]*os.File
}

// NewMgr opens (creating if necessary) the database directory dbDir. If the
// directory did not already exist, IsNew() reports true for the lifetime of
// the returned Mgr. Any leftover file whose name begins with "temp" is
// removed, mirroring the scratch-file cleanup every restart performs.
func NewMgr(dbDir string, blockSize int) (*Mgr, error) {
	m := &Mgr{
		dbDir:     dbDir,
		blockSize: blockSize,
		openFiles: make(map[string]*os.File),
	}

	if _, err := os.Stat(dbDir); os.IsNotExist(err) {
		m.isNew = true
		if err := os.MkdirAll(dbDir, 0o755); err != nil {
			return nil, fmt.Errorf("file: cannot create database directory %s: %w", dbDir, err)
		}
	} else if err != nil {
		return nil, fmt.Errorf("file: cannot stat database directory %s: %w", dbDir, err)
	}

	entries, err := os.ReadDir(dbDir)
	if err != nil {
		return nil, fmt.Errorf("file: cannot list database directory %s: %w", dbDir, err)
	}
	for _, e := range entries {
		if strings.HasPrefix(e.Name(), "temp") {
			_ = os.Remove(filepath.Join(dbDir, e.Name()))
		}
	}

	return m, nil
}

// IsNew reports whether the database directory was created by this Mgr.
func (m *Mgr) IsNew() bool {
	return m.isNew
}

// BlockSize returns the fixed block size every file in this database uses.
func (m *Mgr) BlockSize() int {
	return m.blockSize
}

// Read fills p with the contents of blk.
func (m *Mgr) Read(blk BlockId, p *Page) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	f, err := m.fileLocked(blk.Filename)
	if err != nil {
		return fmt.Errorf("file: cannot access block %s: %w", blk, err)
	}
	if _, err := f.ReadAt(p.Contents(), int64(blk.Blknum)*int64(m.blockSize)); err != nil {
		return fmt.Errorf("file: cannot read block %s: %w", blk, err)
	}
	return nil
}

// Write overwrites blk with the contents of p.
func (m *Mgr) Write(blk BlockId, p *Page) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	f, err := m.fileLocked(blk.Filename)
	if err != nil {
		return fmt.Errorf("file: cannot access block %s: %w", blk, err)
	}
	if _, err := f.WriteAt(p.Contents(), int64(blk.Blknum)*int64(m.blockSize)); err != nil {
		return fmt.Errorf("file: cannot write block %s: %w", blk, err)
	}
	return nil
}

// Append grows filename by one zero-filled block and returns its BlockId.
func (m *Mgr) Append(filename string) (BlockId, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	newBlknum, err := m.lengthLocked(filename)
	if err != nil {
		return BlockId{}, fmt.Errorf("file: cannot append block to %s: %w", filename, err)
	}
	blk := NewBlockId(filename, newBlknum)

	f, err := m.fileLocked(filename)
	if err != nil {
		return BlockId{}, fmt.Errorf("file: cannot append block to %s: %w", filename, err)
	}
	zeros := make([]byte, m.blockSize)
	if _, err := f.WriteAt(zeros, int64(blk.Blknum)*int64(m.blockSize)); err != nil {
		return BlockId{}, fmt.Errorf("file: cannot append block to %s: %w", filename, err)
	}
	return blk, nil
}

// Length returns the number of blocks in filename.
func (m *Mgr) Length(filename string) (int, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	n, err := m.lengthLocked(filename)
	if err != nil {
		return 0, fmt.Errorf("file: cannot access %s: %w", filename, err)
	}
	return n, nil
}

func (m *Mgr) lengthLocked(filename string) (int, error) {
	f, err := m.fileLocked(filename)
	if err != nil {
		return 0, err
	}
	info, err := f.Stat()
	if err != nil {
		return 0, err
	}
	if info.Size()%int64(m.blockSize) != 0 {
		return 0, fmt.Errorf("file %s size %d is not a multiple of block size %d", filename, info.Size(), m.blockSize)
	}
	return int(info.Size() / int64(m.blockSize)), nil
}

// fileLocked lazily opens filename, creating it if absent. Caller must hold m.mu.
func (m *Mgr) fileLocked(filename string) (*os.File, error) {
	if f, ok := m.openFiles[filename]; ok {
		return f, nil
	}
	path := filepath.Join(m.dbDir, filename)
	f, err := os.OpenFile(path, os.O_RDWR|os.O_CREATE, 0o644)
	if err != nil {
		return nil, err
	}
	m.openFiles[filename] = f
	return f, nil
}

// Close releases every open file handle. The spec never requires this
// during normal operation (FileMgr never closes until teardown); it exists
// so the engine can shut down cleanly in tests and CLI exit.
func (m *Mgr) Close() error {
	m.mu.Lock()
	defer m.mu.Unlock()
	var firstErr error
	for name, f := range m.openFiles {
		if err := f.Close(); err != nil && firstErr == nil {
			firstErr = fmt.Errorf("file: cannot close %s: %w", name, err)
		}
	}
	m.openFiles = make(map[string]*os.File)
	return firstErr
}
