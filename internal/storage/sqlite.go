package storage

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	_ "modernc.org/sqlite"

	"symgraph/internal/graph"
)

type SQLiteStore struct {
	db *sql.DB
}

// NewSQLiteStore creates or opens a SQLite database.
func NewSQLiteStore(path string) (*SQLiteStore, error) {
	db, err := sql.Open("sqlite", path)
	if err != nil {
		return nil, err
	}
	db.SetMaxOpenConns(1)

	if err := db.Ping(); err != nil {
		db.Close()
		return nil, err
	}

	s := &SQLiteStore{db: db}
	if err := s.initSchema(); err != nil {
		db.Close()
		return nil, fmt.Errorf("failed to init schema: %w", err)
	}

	return s, nil
}

func (s *SQLiteStore) Close() error {
	return s.db.Close()
}

func (s *SQLiteStore) initSchema() error {
	queries := []string{
		`CREATE TABLE IF NOT EXISTS runs (
			id TEXT PRIMARY KEY,
			created_at TEXT,
			compounds INTEGER,
			members INTEGER,
			groups_count INTEGER,
			edges INTEGER,
			diagnostics JSON
		);`,
		`CREATE TABLE IF NOT EXISTS compounds (
			id INTEGER PRIMARY KEY,
			name TEXT,
			kind TEXT,
			file TEXT,
			line INTEGER,
			external INTEGER,
			artificial INTEGER,
			template_master INTEGER,
			grp TEXT
		);`,
		`CREATE TABLE IF NOT EXISTS inheritance (
			derived_id INTEGER,
			base_id INTEGER,
			used_name TEXT,
			protection TEXT,
			virtualness TEXT,
			templ_spec TEXT,
			PRIMARY KEY (derived_id, base_id)
		);`,
		`CREATE TABLE IF NOT EXISTS usage (
			user_id INTEGER,
			used_id INTEGER,
			accessors JSON,
			templ_spec TEXT,
			PRIMARY KEY (user_id, used_id)
		);`,
		`CREATE TABLE IF NOT EXISTS members (
			id INTEGER PRIMARY KEY,
			class_id INTEGER,
			scope TEXT,
			name TEXT,
			kind TEXT,
			protection TEXT,
			type TEXT,
			args TEXT,
			static INTEGER,
			grp TEXT,
			alias_of INTEGER
		);`,
		`CREATE TABLE IF NOT EXISTS doc_groups (
			name TEXT PRIMARY KEY,
			title TEXT
		);`,
		`CREATE TABLE IF NOT EXISTS group_members (
			grp TEXT,
			member_id INTEGER,
			priority INTEGER,
			has_docs INTEGER,
			position INTEGER,
			PRIMARY KEY (grp, member_id)
		);`,
		`CREATE TABLE IF NOT EXISTS group_nesting (
			parent TEXT,
			child TEXT,
			PRIMARY KEY (parent, child)
		);`,
		`CREATE INDEX IF NOT EXISTS idx_compounds_name ON compounds(name);`,
		`CREATE INDEX IF NOT EXISTS idx_members_class ON members(class_id);`,
	}

	for _, q := range queries {
		if _, err := s.db.Exec(q); err != nil {
			return err
		}
	}
	return nil
}

var snapshotTables = []string{
	"runs", "compounds", "inheritance", "usage", "members",
	"doc_groups", "group_members", "group_nesting",
}

// SaveGraph replaces the stored snapshot with g in one transaction.
func (s *SQLiteStore) SaveGraph(ctx context.Context, g *graph.Graph) (string, error) {
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return "", err
	}
	defer tx.Rollback()

	for _, table := range snapshotTables {
		if _, err := tx.ExecContext(ctx, "DELETE FROM "+table); err != nil {
			return "", fmt.Errorf("failed to clear %s: %w", table, err)
		}
	}

	if err := saveCompounds(ctx, tx, g); err != nil {
		return "", err
	}
	if err := saveMembers(ctx, tx, g); err != nil {
		return "", err
	}
	if err := saveGroups(ctx, tx, g); err != nil {
		return "", err
	}

	runID := uuid.NewString()
	st := g.Stats()
	diags, err := json.Marshal(g.Diagnostics().Counts())
	if err != nil {
		return "", err
	}
	if _, err := tx.ExecContext(ctx, `
		INSERT INTO runs (id, created_at, compounds, members, groups_count, edges, diagnostics)
		VALUES (?, ?, ?, ?, ?, ?, ?)
	`, runID, time.Now().UTC().Format(time.RFC3339Nano), st.Compounds, st.Members, st.Groups, st.Edges, diags); err != nil {
		return "", fmt.Errorf("failed to save run: %w", err)
	}

	return runID, tx.Commit()
}

func groupName(g *graph.Graph, id graph.GroupID) string {
	if gr := g.Group(id); gr != nil {
		return gr.Name
	}
	return ""
}

func saveCompounds(ctx context.Context, tx *sql.Tx, g *graph.Graph) error {
	stmt, err := tx.PrepareContext(ctx, `
		INSERT INTO compounds (id, name, kind, file, line, external, artificial, template_master, grp)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?)
	`)
	if err != nil {
		return err
	}
	defer stmt.Close()

	inhStmt, err := tx.PrepareContext(ctx, `
		INSERT INTO inheritance (derived_id, base_id, used_name, protection, virtualness, templ_spec)
		VALUES (?, ?, ?, ?, ?, ?)
		ON CONFLICT(derived_id, base_id) DO NOTHING
	`)
	if err != nil {
		return err
	}
	defer inhStmt.Close()

	useStmt, err := tx.PrepareContext(ctx, `
		INSERT INTO usage (user_id, used_id, accessors, templ_spec) VALUES (?, ?, ?, ?)
		ON CONFLICT(user_id, used_id) DO NOTHING
	`)
	if err != nil {
		return err
	}
	defer useStmt.Close()

	for _, c := range g.Classes() {
		if _, err := stmt.ExecContext(ctx, c.ID, c.Name, c.Type.String(), c.Loc.File, c.Loc.Line,
			c.IsExternal(), c.Artificial, c.TemplateMaster, groupName(g, c.GroupID())); err != nil {
			return fmt.Errorf("failed to save compound %s: %w", c.Name, err)
		}
		for _, e := range c.BaseClasses() {
			if _, err := inhStmt.ExecContext(ctx, c.ID, e.Class, e.UsedName, e.Prot.String(), e.Virt.String(), e.TemplSpec); err != nil {
				return fmt.Errorf("failed to save base of %s: %w", c.Name, err)
			}
		}
		for _, u := range c.UsedClasses() {
			acc, err := json.Marshal(u.Accessors)
			if err != nil {
				return err
			}
			if _, err := useStmt.ExecContext(ctx, c.ID, u.Class, acc, u.TemplSpec); err != nil {
				return fmt.Errorf("failed to save usage of %s: %w", c.Name, err)
			}
		}
	}
	return nil
}

func saveMembers(ctx context.Context, tx *sql.Tx, g *graph.Graph) error {
	stmt, err := tx.PrepareContext(ctx, `
		INSERT INTO members (id, class_id, scope, name, kind, protection, type, args, static, grp, alias_of)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)
	`)
	if err != nil {
		return err
	}
	defer stmt.Close()

	for _, m := range g.Members() {
		scope := ""
		if !m.Outer.FileScoped() {
			if def, err := g.Definition(m.Outer); err == nil {
				scope = def.Name
			}
		}
		if _, err := stmt.ExecContext(ctx, m.ID, m.Class, scope, m.LocalName, m.Kind.String(),
			m.Prot.String(), m.Type, m.Args, m.Static, groupName(g, m.GroupID()), m.GroupAlias); err != nil {
			return fmt.Errorf("failed to save member %s: %w", m.Name, err)
		}
	}
	return nil
}

func saveGroups(ctx context.Context, tx *sql.Tx, g *graph.Graph) error {
	for _, gr := range g.Groups() {
		if _, err := tx.ExecContext(ctx, `INSERT INTO doc_groups (name, title) VALUES (?, ?)`, gr.Name, gr.Title); err != nil {
			return fmt.Errorf("failed to save group %s: %w", gr.Name, err)
		}
		for _, sub := range gr.SubGroups {
			if _, err := tx.ExecContext(ctx, `
				INSERT INTO group_nesting (parent, child) VALUES (?, ?)
				ON CONFLICT(parent, child) DO NOTHING
			`, gr.Name, groupName(g, sub)); err != nil {
				return err
			}
		}
		for i, gm := range gr.GroupedMembers() {
			if _, err := tx.ExecContext(ctx, `
				INSERT INTO group_members (grp, member_id, priority, has_docs, position) VALUES (?, ?, ?, ?, ?)
			`, gr.Name, gm.Member, int(gm.Pri), gm.HasDocs, i); err != nil {
				return err
			}
		}
	}
	return nil
}

func (s *SQLiteStore) LoadSummary(ctx context.Context) (*Summary, error) {
	row := s.db.QueryRowContext(ctx, `
		SELECT id, created_at, compounds, members, groups_count, edges, diagnostics FROM runs LIMIT 1
	`)
	var (
		sum     Summary
		created string
		diags   []byte
	)
	if err := row.Scan(&sum.RunID, &created, &sum.Compounds, &sum.Members, &sum.Groups, &sum.Edges, &diags); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ErrNoSnapshot
		}
		return nil, fmt.Errorf("failed to load run: %w", err)
	}
	if t, err := time.Parse(time.RFC3339Nano, created); err == nil {
		sum.CreatedAt = t
	}
	sum.Diagnostics = map[string]int{}
	if len(diags) > 0 {
		if err := json.Unmarshal(diags, &sum.Diagnostics); err != nil {
			return nil, fmt.Errorf("failed to decode diagnostics: %w", err)
		}
	}
	return &sum, nil
}

func (s *SQLiteStore) requireSnapshot(ctx context.Context) error {
	var n int
	if err := s.db.QueryRowContext(ctx, "SELECT COUNT(*) FROM runs").Scan(&n); err != nil {
		return err
	}
	if n == 0 {
		return ErrNoSnapshot
	}
	return nil
}

// FindCompound prefers a declared compound over a template instance of the
// same name.
func (s *SQLiteStore) FindCompound(ctx context.Context, name string) (*CompoundRecord, error) {
	if err := s.requireSnapshot(ctx); err != nil {
		return nil, err
	}
	row := s.db.QueryRowContext(ctx, `
		SELECT c.id, c.name, c.kind, c.file, c.line, c.external, COALESCE(m.name, ''), c.grp
		FROM compounds c LEFT JOIN compounds m ON m.id = c.template_master
		WHERE c.name = ? ORDER BY c.artificial, c.id LIMIT 1
	`, name)

	var (
		id  int64
		rec CompoundRecord
	)
	if err := row.Scan(&id, &rec.Name, &rec.Kind, &rec.File, &rec.Line, &rec.External, &rec.TemplateMaster, &rec.Group); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, fmt.Errorf("compound %q: %w", name, ErrNotFound)
		}
		return nil, err
	}
	rec.Instance = rec.TemplateMaster != ""

	var err error
	if rec.Bases, err = s.edges(ctx, `
		SELECT c.name, i.used_name, i.protection, i.virtualness, i.templ_spec
		FROM inheritance i JOIN compounds c ON c.id = i.base_id
		WHERE i.derived_id = ? ORDER BY i.rowid`, id); err != nil {
		return nil, err
	}
	if rec.Subs, err = s.edges(ctx, `
		SELECT c.name, i.used_name, i.protection, i.virtualness, i.templ_spec
		FROM inheritance i JOIN compounds c ON c.id = i.derived_id
		WHERE i.base_id = ? ORDER BY i.rowid`, id); err != nil {
		return nil, err
	}
	if rec.Uses, err = s.usages(ctx, `
		SELECT c.name, u.accessors, u.templ_spec
		FROM usage u JOIN compounds c ON c.id = u.used_id
		WHERE u.user_id = ? ORDER BY u.rowid`, id); err != nil {
		return nil, err
	}
	if rec.UsedBy, err = s.usages(ctx, `
		SELECT c.name, u.accessors, u.templ_spec
		FROM usage u JOIN compounds c ON c.id = u.user_id
		WHERE u.used_id = ? ORDER BY u.rowid`, id); err != nil {
		return nil, err
	}
	if rec.Members, err = s.members(ctx, id); err != nil {
		return nil, err
	}
	return &rec, nil
}

func (s *SQLiteStore) edges(ctx context.Context, query string, id int64) ([]EdgeRecord, error) {
	rows, err := s.db.QueryContext(ctx, query, id)
	if err != nil {
		return nil, fmt.Errorf("failed to query inheritance: %w", err)
	}
	defer rows.Close()

	var out []EdgeRecord
	for rows.Next() {
		var e EdgeRecord
		if err := rows.Scan(&e.Name, &e.UsedName, &e.Protection, &e.Virtualness, &e.TemplSpec); err != nil {
			return nil, fmt.Errorf("failed to scan edge: %w", err)
		}
		out = append(out, e)
	}
	return out, rows.Err()
}

func (s *SQLiteStore) usages(ctx context.Context, query string, id int64) ([]UsageRecord, error) {
	rows, err := s.db.QueryContext(ctx, query, id)
	if err != nil {
		return nil, fmt.Errorf("failed to query usage: %w", err)
	}
	defer rows.Close()

	var out []UsageRecord
	for rows.Next() {
		var (
			u   UsageRecord
			acc []byte
		)
		if err := rows.Scan(&u.Name, &acc, &u.TemplSpec); err != nil {
			return nil, fmt.Errorf("failed to scan usage: %w", err)
		}
		if len(acc) > 0 {
			if err := json.Unmarshal(acc, &u.Accessors); err != nil {
				return nil, fmt.Errorf("failed to decode accessors of %s: %w", u.Name, err)
			}
		}
		out = append(out, u)
	}
	return out, rows.Err()
}

const memberColumns = `m.name, m.kind, m.protection, m.type, m.args, m.static, m.grp, COALESCE(CASE WHEN a.scope = '' THEN a.name ELSE a.scope || '::' || a.name END, '')`

func (s *SQLiteStore) members(ctx context.Context, classID int64) ([]MemberRecord, error) {
	rows, err := s.db.QueryContext(ctx, `
		SELECT `+memberColumns+`
		FROM members m LEFT JOIN members a ON a.id = m.alias_of
		WHERE m.class_id = ? ORDER BY m.id`, classID)
	if err != nil {
		return nil, fmt.Errorf("failed to query members: %w", err)
	}
	defer rows.Close()

	var out []MemberRecord
	for rows.Next() {
		var m MemberRecord
		if err := rows.Scan(&m.Name, &m.Kind, &m.Protection, &m.Type, &m.Args, &m.Static, &m.Group, &m.AliasOf); err != nil {
			return nil, fmt.Errorf("failed to scan member: %w", err)
		}
		out = append(out, m)
	}
	return out, rows.Err()
}

func (s *SQLiteStore) FindGroup(ctx context.Context, name string) (*GroupRecord, error) {
	if err := s.requireSnapshot(ctx); err != nil {
		return nil, err
	}
	rec := GroupRecord{Name: name}
	if err := s.db.QueryRowContext(ctx, "SELECT title FROM doc_groups WHERE name = ?", name).Scan(&rec.Title); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, fmt.Errorf("group %q: %w", name, ErrNotFound)
		}
		return nil, err
	}

	var err error
	if rec.Parents, err = s.names(ctx, "SELECT parent FROM group_nesting WHERE child = ? ORDER BY rowid", name); err != nil {
		return nil, err
	}
	if rec.SubGroups, err = s.names(ctx, "SELECT child FROM group_nesting WHERE parent = ? ORDER BY rowid", name); err != nil {
		return nil, err
	}
	if rec.Compounds, err = s.names(ctx, "SELECT name FROM compounds WHERE grp = ? ORDER BY id", name); err != nil {
		return nil, err
	}

	rows, err := s.db.QueryContext(ctx, `
		SELECT `+memberColumns+`, m.scope, gm.priority, gm.has_docs
		FROM group_members gm
		JOIN members m ON m.id = gm.member_id
		LEFT JOIN members a ON a.id = m.alias_of
		WHERE gm.grp = ? ORDER BY gm.position`, name)
	if err != nil {
		return nil, fmt.Errorf("failed to query group members: %w", err)
	}
	defer rows.Close()
	for rows.Next() {
		var gm GroupedMemberRecord
		if err := rows.Scan(&gm.Name, &gm.Kind, &gm.Protection, &gm.Type, &gm.Args, &gm.Static, &gm.Group, &gm.AliasOf,
			&gm.Scope, &gm.Priority, &gm.HasDocs); err != nil {
			return nil, fmt.Errorf("failed to scan group member: %w", err)
		}
		rec.Members = append(rec.Members, gm)
	}
	return &rec, rows.Err()
}

func (s *SQLiteStore) names(ctx context.Context, query, arg string) ([]string, error) {
	rows, err := s.db.QueryContext(ctx, query, arg)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []string
	for rows.Next() {
		var n string
		if err := rows.Scan(&n); err != nil {
			return nil, err
		}
		out = append(out, n)
	}
	return out, rows.Err()
}
