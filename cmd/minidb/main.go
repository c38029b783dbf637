// Command minidb is an interactive shell over the engine: a line-edited
// REPL that accepts SQL statements plus a handful of dot-commands.
package main

import (
	"errors"
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/peterh/liner"
	flag "github.com/spf13/pflag"

	"simpledb/internal/config"
	"simpledb/internal/engine"
	"simpledb/internal/query"
	"simpledb/internal/tx"
)

func main() {
	if err := run(); err != nil {
		fmt.Fprintln(os.Stderr, "minidb:", err)
		os.Exit(1)
	}
}

func run() error {
	dir := flag.String("dir", "./minidb-data", "database directory")
	blockSize := flag.Int("block-size", 0, "block size in bytes (0: use config/default)")
	bufferSize := flag.Int("buffer-size", 0, "buffer pool size (0: use config/default)")
	cfgPath := flag.String("config", "", "path to a YAML configuration file")
	flag.Parse()

	cfg := config.Default()
	if *cfgPath != "" {
		loaded, err := config.Load(*cfgPath)
		if err != nil {
			return err
		}
		cfg = loaded
	}
	if *blockSize > 0 {
		cfg.BlockSize = *blockSize
	}
	if *bufferSize > 0 {
		cfg.BufferSize = *bufferSize
	}

	db, err := engine.Open(*dir, cfg)
	if err != nil {
		return fmt.Errorf("open %s: %w", *dir, err)
	}

	repl := &shell{db: db}
	return repl.run()
}

type shell struct {
	db   *engine.Database
	line *liner.State
	tx   *tx.Transaction
}

func (s *shell) run() error {
	s.line = liner.NewLiner()
	defer s.line.Close()
	s.line.SetCtrlCAborts(true)

	histPath := historyPath()
	if f, err := os.Open(histPath); err == nil {
		s.line.ReadHistory(f)
		f.Close()
	}
	defer func() {
		if f, err := os.Create(histPath); err == nil {
			s.line.WriteHistory(f)
			f.Close()
		}
	}()

	fmt.Println("minidb ready. Type .exit to quit, .tables/.schema/.stat for catalog info.")
	for {
		prompt := "minidb> "
		if s.tx != nil {
			prompt = "minidb*> "
		}
		input, err := s.line.Prompt(prompt)
		if err != nil {
			if errors.Is(err, liner.ErrPromptAborted) || errors.Is(err, io.EOF) {
				return s.closeOpenTx()
			}
			return err
		}
		input = strings.TrimSpace(input)
		if input == "" {
			continue
		}
		s.line.AppendHistory(input)

		if err := s.dispatch(input); err != nil {
			fmt.Println("error:", err)
		}
		if input == ".exit" {
			return nil
		}
	}
}

func (s *shell) dispatch(input string) error {
	switch {
	case input == ".exit":
		return s.closeOpenTx()
	case input == ".tables":
		return s.printTables()
	case strings.HasPrefix(input, ".schema "):
		return s.printSchema(strings.TrimSpace(strings.TrimPrefix(input, ".schema ")))
	case input == ".stat":
		s.printStats()
		return nil
	case strings.EqualFold(input, "begin"):
		return s.begin()
	case strings.EqualFold(input, "commit"):
		return s.commit()
	case strings.EqualFold(input, "rollback"):
		return s.rollback()
	default:
		return s.execute(input)
	}
}

func (s *shell) currentTx() (*tx.Transaction, bool, error) {
	if s.tx != nil {
		return s.tx, false, nil
	}
	t, err := s.db.NewTx()
	if err != nil {
		return nil, false, err
	}
	return t, true, nil
}

func (s *shell) begin() error {
	if s.tx != nil {
		return fmt.Errorf("already inside a transaction")
	}
	t, err := s.db.NewTx()
	if err != nil {
		return err
	}
	s.tx = t
	return nil
}

func (s *shell) commit() error {
	if s.tx == nil {
		return fmt.Errorf("no open transaction")
	}
	err := s.tx.Commit()
	s.tx = nil
	return err
}

func (s *shell) rollback() error {
	if s.tx == nil {
		return fmt.Errorf("no open transaction")
	}
	err := s.tx.Rollback()
	s.tx = nil
	return err
}

func (s *shell) closeOpenTx() error {
	if s.tx == nil {
		return nil
	}
	err := s.tx.Commit()
	s.tx = nil
	return err
}

func (s *shell) execute(input string) error {
	t, autocommit, err := s.currentTx()
	if err != nil {
		return err
	}

	if looksLikeQuery(input) {
		scan, sch, err := s.db.ExecuteQuery(input, t)
		if err != nil {
			if autocommit {
				t.Rollback()
			}
			return err
		}
		printQueryResult(scan, sch)
		scan.Close()
		if autocommit {
			return t.Commit()
		}
		return nil
	}

	n, err := s.db.ExecuteUpdate(input, t)
	if err != nil {
		if autocommit {
			t.Rollback()
		}
		return err
	}
	fmt.Printf("%d rows affected\n", n)
	if autocommit {
		return t.Commit()
	}
	return nil
}

func looksLikeQuery(input string) bool {
	return strings.HasPrefix(strings.ToLower(strings.TrimSpace(input)), "select")
}

func printQueryResult(scan query.Scan, sch interface{ Fields() []string }) {
	fields := sch.Fields()
	fmt.Println(strings.Join(fields, "\t"))
	for scan.Next() {
		vals := make([]string, len(fields))
		for i, f := range fields {
			v, err := scan.GetVal(f)
			if err != nil {
				vals[i] = "?"
				continue
			}
			vals[i] = v.String()
		}
		fmt.Println(strings.Join(vals, "\t"))
	}
}

func (s *shell) printTables() error {
	t, err := s.db.NewTx()
	if err != nil {
		return err
	}
	defer t.Commit()
	names, err := s.db.MetadataMgr().ListTables(t)
	if err != nil {
		return err
	}
	for _, n := range names {
		fmt.Println(n)
	}
	return nil
}

func (s *shell) printSchema(tblname string) error {
	t, err := s.db.NewTx()
	if err != nil {
		return err
	}
	defer t.Commit()
	layout, err := s.db.MetadataMgr().GetLayout(tblname, t)
	if err != nil {
		return err
	}
	for _, f := range layout.Schema().Fields() {
		fmt.Printf("%s\toffset=%d\n", f, layout.Offset(f))
	}
	return nil
}

func (s *shell) printStats() {
	for k, v := range s.db.Stats() {
		fmt.Printf("%s: %v\n", k, v)
	}
}

func historyPath() string {
	home, err := os.UserHomeDir()
	if err != nil {
		return ".minidb_history"
	}
	return home + "/.minidb_history"
}
