//go:build cgo

package graphstore

import (
	"context"
	"encoding/json"
	"fmt"

	kuzu "github.com/kuzudb/go-kuzu"
)

// KuzuStore implements Store using KuzuDB as the backend. It requires CGO
// because the go-kuzu driver wraps KuzuDB's C library.
type KuzuStore struct {
	db   *kuzu.Database
	conn *kuzu.Connection
}

var _ Store = (*KuzuStore)(nil)

// NewKuzuStore creates a KuzuStore backed by an in-memory KuzuDB instance.
func NewKuzuStore() (*KuzuStore, error) {
	cfg := kuzu.DefaultSystemConfig()
	db, err := kuzu.OpenDatabase(":memory:", cfg)
	if err != nil {
		return nil, fmt.Errorf("kuzu: open database: %w", err)
	}
	conn, err := kuzu.OpenConnection(db)
	if err != nil {
		db.Close()
		return nil, fmt.Errorf("kuzu: open connection: %w", err)
	}
	return &KuzuStore{db: db, conn: conn}, nil
}

// NewKuzuFileStore creates a KuzuStore backed by a file-based KuzuDB at
// dbPath, so a chop run's graph survives across process invocations.
func NewKuzuFileStore(dbPath string) (*KuzuStore, error) {
	cfg := kuzu.DefaultSystemConfig()
	db, err := kuzu.OpenDatabase(dbPath, cfg)
	if err != nil {
		return nil, fmt.Errorf("kuzu: open file database: %w", err)
	}
	conn, err := kuzu.OpenConnection(db)
	if err != nil {
		db.Close()
		return nil, fmt.Errorf("kuzu: open connection: %w", err)
	}
	return &KuzuStore{db: db, conn: conn}, nil
}

func (s *KuzuStore) Close() error {
	if s.conn != nil {
		s.conn.Close()
	}
	if s.db != nil {
		s.db.Close()
	}
	return nil
}

var ddlStatements = []string{
	`CREATE NODE TABLE IF NOT EXISTS Vertex(
		id INT64,
		kind STRING,
		key STRING,
		domain STRING,
		PRIMARY KEY(id)
	)`,
	`CREATE NODE TABLE IF NOT EXISTS Component(
		proxy INT64,
		nodes STRING,
		PRIMARY KEY(proxy)
	)`,
	`CREATE NODE TABLE IF NOT EXISTS SubProgram(
		idx INT64,
		vertexIds STRING,
		members STRING,
		PRIMARY KEY(idx)
	)`,
	`CREATE REL TABLE IF NOT EXISTS DEPENDS_ON(FROM Vertex TO Vertex)`,
}

func (s *KuzuStore) InitSchema(_ context.Context) error {
	for _, stmt := range ddlStatements {
		res, err := s.conn.Query(stmt)
		if err != nil {
			return fmt.Errorf("kuzu: init schema: %w", err)
		}
		res.Close()
	}
	return nil
}

func (s *KuzuStore) AddVertex(_ context.Context, v VertexRow) error {
	return s.exec(
		"CREATE (v:Vertex {id: $id, kind: $kind, key: $key, domain: $domain})",
		map[string]any{"id": int64(v.ID), "kind": v.Kind, "key": v.Key, "domain": v.Domain},
	)
}

func (s *KuzuStore) AddEdge(_ context.Context, e EdgeRow) error {
	return s.exec(
		`MATCH (a:Vertex {id: $src}), (b:Vertex {id: $dst})
		 CREATE (a)-[:DEPENDS_ON]->(b)`,
		map[string]any{"src": int64(e.Src), "dst": int64(e.Dst)},
	)
}

func (s *KuzuStore) AddComponent(_ context.Context, c ComponentRow) error {
	nodes, err := json.Marshal(c.Nodes)
	if err != nil {
		return fmt.Errorf("kuzu: marshal component nodes: %w", err)
	}
	return s.exec(
		"CREATE (c:Component {proxy: $proxy, nodes: $nodes})",
		map[string]any{"proxy": int64(c.Proxy), "nodes": string(nodes)},
	)
}

func (s *KuzuStore) AddSubProgram(_ context.Context, p SubProgramRow) error {
	ids, err := json.Marshal(p.VertexIDs)
	if err != nil {
		return fmt.Errorf("kuzu: marshal sub-program vertex ids: %w", err)
	}
	members, err := json.Marshal(p.Members)
	if err != nil {
		return fmt.Errorf("kuzu: marshal sub-program members: %w", err)
	}
	return s.exec(
		"CREATE (p:SubProgram {idx: $idx, vertexIds: $ids, members: $members})",
		map[string]any{"idx": int64(p.Index), "ids": string(ids), "members": string(members)},
	)
}

func (s *KuzuStore) GetVertex(_ context.Context, id int) (*VertexRow, error) {
	rows, err := s.query(
		"MATCH (v:Vertex {id: $id}) RETURN v.id, v.kind, v.key, v.domain",
		map[string]any{"id": int64(id)},
	)
	if err != nil {
		return nil, err
	}
	if len(rows) == 0 {
		return nil, nil
	}
	r := rows[0]
	return &VertexRow{
		ID:     toInt(r[0]),
		Kind:   toString(r[1]),
		Key:    toString(r[2]),
		Domain: toString(r[3]),
	}, nil
}

func (s *KuzuStore) GetSubProgramFor(_ context.Context, vertexID int) (*SubProgramRow, error) {
	rows, err := s.query(
		"MATCH (p:SubProgram) RETURN p.idx, p.vertexIds, p.members",
		nil,
	)
	if err != nil {
		return nil, err
	}
	for _, r := range rows {
		var ids []int
		if err := json.Unmarshal([]byte(toString(r[1])), &ids); err != nil {
			return nil, fmt.Errorf("kuzu: unmarshal sub-program vertex ids: %w", err)
		}
		for _, id := range ids {
			if id != vertexID {
				continue
			}
			var members []string
			if err := json.Unmarshal([]byte(toString(r[2])), &members); err != nil {
				return nil, fmt.Errorf("kuzu: unmarshal sub-program members: %w", err)
			}
			return &SubProgramRow{Index: toInt(r[0]), VertexIDs: ids, Members: members}, nil
		}
	}
	return nil, nil
}

func (s *KuzuStore) Stats(_ context.Context) (*Stats, error) {
	vertices, err := s.countTable("Vertex")
	if err != nil {
		return nil, err
	}
	components, err := s.countTable("Component")
	if err != nil {
		return nil, err
	}
	subPrograms, err := s.countTable("SubProgram")
	if err != nil {
		return nil, err
	}
	edges, err := s.countEdges()
	if err != nil {
		return nil, err
	}
	return &Stats{
		VertexCount:     vertices,
		ComponentCount:  components,
		SubProgramCount: subPrograms,
		EdgeCount:       edges,
	}, nil
}

func (s *KuzuStore) exec(cypher string, params map[string]any) error {
	stmt, err := s.conn.Prepare(cypher)
	if err != nil {
		return fmt.Errorf("kuzu: prepare: %w", err)
	}
	defer stmt.Close()

	res, err := s.conn.Execute(stmt, params)
	if err != nil {
		return fmt.Errorf("kuzu: execute: %w", err)
	}
	res.Close()
	return nil
}

func (s *KuzuStore) query(cypher string, params map[string]any) ([][]any, error) {
	var res *kuzu.QueryResult
	var err error

	if len(params) == 0 {
		res, err = s.conn.Query(cypher)
	} else {
		var stmt *kuzu.PreparedStatement
		stmt, err = s.conn.Prepare(cypher)
		if err != nil {
			return nil, fmt.Errorf("kuzu: prepare: %w", err)
		}
		defer stmt.Close()
		res, err = s.conn.Execute(stmt, params)
	}
	if err != nil {
		return nil, fmt.Errorf("kuzu: query: %w", err)
	}
	defer res.Close()

	var rows [][]any
	for res.HasNext() {
		tuple, err := res.Next()
		if err != nil {
			return nil, fmt.Errorf("kuzu: next: %w", err)
		}
		vals, err := tuple.GetAsSlice()
		if err != nil {
			return nil, fmt.Errorf("kuzu: row values: %w", err)
		}
		rows = append(rows, vals)
	}
	return rows, nil
}

func (s *KuzuStore) countTable(table string) (int, error) {
	cypher := fmt.Sprintf("MATCH (n:%s) RETURN count(n)", table)
	rows, err := s.query(cypher, nil)
	if err != nil {
		return 0, err
	}
	if len(rows) == 0 || len(rows[0]) == 0 {
		return 0, nil
	}
	return toInt(rows[0][0]), nil
}

func (s *KuzuStore) countEdges() (int, error) {
	rows, err := s.query("MATCH ()-[r:DEPENDS_ON]->() RETURN count(r)", nil)
	if err != nil {
		return 0, nil
	}
	if len(rows) == 0 || len(rows[0]) == 0 {
		return 0, nil
	}
	return toInt(rows[0][0]), nil
}

func toString(v any) string {
	if s, ok := v.(string); ok {
		return s
	}
	return fmt.Sprintf("%v", v)
}

func toInt(v any) int {
	switch n := v.(type) {
	case int64:
		return int(n)
	case int:
		return n
	case int32:
		return int(n)
	case float64:
		return int(n)
	default:
		return 0
	}
}
