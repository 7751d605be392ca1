package storage

import (
	"database/sql"
	"fmt"
	"time"

	"github.com/google/uuid"

	"proofscope/internal/graph"
	"proofscope/internal/model"
)

// RunMeta records where a snapshot came from.
type RunMeta struct {
	RunID       string
	CreatedAt   time.Time
	FrontEnd    string
	Project     string
	ToolVersion string
}

// SaveGraph replaces the stored snapshot with the given graph. A
// fresh run ID is assigned when meta carries none.
func (db *DB) SaveGraph(g *model.ProjectGraph, meta RunMeta) error {
	if meta.RunID == "" {
		meta.RunID = uuid.NewString()
	}
	if meta.CreatedAt.IsZero() {
		meta.CreatedAt = time.Now().UTC()
	}

	return db.WithTx(func(tx *sql.Tx) error {
		for _, table := range []string{
			"symbols", "dependencies", "external_deps", "taint_sources",
			"source_files", "file_imports", "file_symbols",
			"file_ref_modules", "file_deps", "meta",
		} {
			if _, err := tx.Exec("DELETE FROM " + table); err != nil {
				return err
			}
		}

		for _, s := range g.Symbols {
			_, err := tx.Exec(`INSERT INTO symbols
				(qualified_name, name, kind, kind_code, kind_group, status,
				 file, line, byte_start, byte_end, statement, tainted)
				VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`,
				s.QualifiedName, s.Name, s.Kind, s.KindCode, string(s.Group),
				string(s.Status), s.File, s.Line, s.Bytes.Start, s.Bytes.End,
				s.Statement, boolToInt(s.Tainted))
			if err != nil {
				return fmt.Errorf("insert symbol %s: %w", s.QualifiedName, err)
			}
			if err := insertList(tx, "dependencies", "symbol", "target", s.QualifiedName, s.Dependencies); err != nil {
				return err
			}
			if err := insertList(tx, "external_deps", "symbol", "target", s.QualifiedName, s.ExternalDeps); err != nil {
				return err
			}
			if err := insertList(tx, "taint_sources", "symbol", "source", s.QualifiedName, s.TaintSources); err != nil {
				return err
			}
		}

		for _, f := range g.Files {
			if _, err := tx.Exec(`INSERT INTO source_files (path, logical_path) VALUES (?, ?)`,
				f.Path, f.LogicalPath); err != nil {
				return fmt.Errorf("insert file %s: %w", f.Path, err)
			}
			if err := insertList(tx, "file_imports", "file", "import", f.Path, f.Imports); err != nil {
				return err
			}
			if err := insertList(tx, "file_symbols", "file", "symbol", f.Path, f.Symbols); err != nil {
				return err
			}
			if err := insertList(tx, "file_ref_modules", "file", "module", f.Path, f.RefModules); err != nil {
				return err
			}
			if err := insertList(tx, "file_deps", "file", "target", f.Path, g.FileDeps[f.Path]); err != nil {
				return err
			}
		}

		metaRows := map[string]string{
			"run_id":       meta.RunID,
			"created_at":   meta.CreatedAt.Format(time.RFC3339),
			"front_end":    meta.FrontEnd,
			"project":      meta.Project,
			"tool_version": meta.ToolVersion,
		}
		for k, v := range metaRows {
			if _, err := tx.Exec("INSERT INTO meta (key, value) VALUES (?, ?)", k, v); err != nil {
				return err
			}
		}
		return nil
	})
}

// LoadGraph reads the stored snapshot back into a frozen graph.
// Dependents are rederived from the dependency relation, which
// reproduces them exactly.
func (db *DB) LoadGraph() (*model.ProjectGraph, error) {
	rows, err := db.Query(`SELECT qualified_name, name, kind, kind_code,
		kind_group, status, file, line, byte_start, byte_end, statement, tainted
		FROM symbols ORDER BY rowid`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var symbols []*model.Symbol
	for rows.Next() {
		s := &model.Symbol{}
		var group, status string
		var tainted int
		if err := rows.Scan(&s.QualifiedName, &s.Name, &s.Kind, &s.KindCode,
			&group, &status, &s.File, &s.Line, &s.Bytes.Start, &s.Bytes.End,
			&s.Statement, &tainted); err != nil {
			return nil, err
		}
		s.Group = model.KindGroup(group)
		s.Status = model.Status(status)
		s.Tainted = tainted != 0
		symbols = append(symbols, s)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}

	for _, s := range symbols {
		if s.Dependencies, err = db.loadList("dependencies", "symbol", "target", s.QualifiedName); err != nil {
			return nil, err
		}
		if s.ExternalDeps, err = db.loadList("external_deps", "symbol", "target", s.QualifiedName); err != nil {
			return nil, err
		}
		if s.TaintSources, err = db.loadList("taint_sources", "symbol", "source", s.QualifiedName); err != nil {
			return nil, err
		}
	}

	files, fileDeps, err := db.loadFiles()
	if err != nil {
		return nil, err
	}

	graph.Invert(symbols)
	return model.NewProjectGraph(symbols, files, fileDeps), nil
}

// LoadMeta reads the run metadata stored with the snapshot.
func (db *DB) LoadMeta() (RunMeta, error) {
	rows, err := db.Query("SELECT key, value FROM meta")
	if err != nil {
		return RunMeta{}, err
	}
	defer rows.Close()

	var meta RunMeta
	for rows.Next() {
		var k, v string
		if err := rows.Scan(&k, &v); err != nil {
			return RunMeta{}, err
		}
		switch k {
		case "run_id":
			meta.RunID = v
		case "created_at":
			meta.CreatedAt, _ = time.Parse(time.RFC3339, v)
		case "front_end":
			meta.FrontEnd = v
		case "project":
			meta.Project = v
		case "tool_version":
			meta.ToolVersion = v
		}
	}
	return meta, rows.Err()
}

func (db *DB) loadFiles() ([]*model.SourceFile, map[string][]string, error) {
	rows, err := db.Query("SELECT path, logical_path FROM source_files ORDER BY rowid")
	if err != nil {
		return nil, nil, err
	}
	defer rows.Close()

	var files []*model.SourceFile
	for rows.Next() {
		f := &model.SourceFile{}
		if err := rows.Scan(&f.Path, &f.LogicalPath); err != nil {
			return nil, nil, err
		}
		files = append(files, f)
	}
	if err := rows.Err(); err != nil {
		return nil, nil, err
	}

	fileDeps := make(map[string][]string)
	for _, f := range files {
		if f.Imports, err = db.loadList("file_imports", "file", "import", f.Path); err != nil {
			return nil, nil, err
		}
		if f.Symbols, err = db.loadList("file_symbols", "file", "symbol", f.Path); err != nil {
			return nil, nil, err
		}
		if f.RefModules, err = db.loadList("file_ref_modules", "file", "module", f.Path); err != nil {
			return nil, nil, err
		}
		deps, err := db.loadList("file_deps", "file", "target", f.Path)
		if err != nil {
			return nil, nil, err
		}
		if len(deps) > 0 {
			fileDeps[f.Path] = deps
		}
	}
	if len(fileDeps) == 0 {
		fileDeps = nil
	}
	return files, fileDeps, nil
}

func insertList(tx *sql.Tx, table, keyCol, valCol, key string, values []string) error {
	stmt := fmt.Sprintf("INSERT INTO %s (%s, ord, %s) VALUES (?, ?, ?)", table, keyCol, valCol)
	for i, v := range values {
		if _, err := tx.Exec(stmt, key, i, v); err != nil {
			return fmt.Errorf("insert into %s: %w", table, err)
		}
	}
	return nil
}

func (db *DB) loadList(table, keyCol, valCol, key string) ([]string, error) {
	stmt := fmt.Sprintf("SELECT %s FROM %s WHERE %s = ? ORDER BY ord", valCol, table, keyCol)
	rows, err := db.Query(stmt, key)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []string
	for rows.Next() {
		var v string
		if err := rows.Scan(&v); err != nil {
			return nil, err
		}
		out = append(out, v)
	}
	return out, rows.Err()
}

func boolToInt(b bool) int {
	if b {
		return 1
	}
	return 0
}
