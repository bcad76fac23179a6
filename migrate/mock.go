package migrate

import (
	"context"

	"github.com/datbolt/dbmigrate/source"
)

// mockSource serves canned rows per table and records call counts.
type mockSource struct {
	data       map[string][]source.Row
	countErr   map[string]error
	fetchErr   map[string]error
	countCalls map[string]int
	fetchCalls map[string]int
}

func newMockSource() *mockSource {
	return &mockSource{
		data:       map[string][]source.Row{},
		countErr:   map[string]error{},
		fetchErr:   map[string]error{},
		countCalls: map[string]int{},
		fetchCalls: map[string]int{},
	}
}

func (m *mockSource) Count(ctx context.Context, table string) (int, error) {
	m.countCalls[table]++
	if err := m.countErr[table]; err != nil {
		return 0, err
	}
	return len(m.data[table]), nil
}

func (m *mockSource) FetchPage(ctx context.Context, table, orderBy string, offset, limit int) ([]source.Row, error) {
	m.fetchCalls[table]++
	if err := m.fetchErr[table]; err != nil {
		return nil, err
	}
	rows := m.data[table]
	if offset >= len(rows) {
		return nil, nil
	}
	end := offset + limit
	if end > len(rows) {
		end = len(rows)
	}
	return rows[offset:end], nil
}

// mockTarget records batches and single rows per table.
type mockTarget struct {
	batches      map[string][][][]interface{}
	rows         map[string][][]interface{}
	batchErr     map[string]error
	rowErrEmails map[string]error // fail InsertRow when values contain this email
	counts       map[string]int
	countErr     map[string]error
	insertCalls  int
	rowCalls     int
}

func newMockTarget() *mockTarget {
	return &mockTarget{
		batches:      map[string][][][]interface{}{},
		rows:         map[string][][]interface{}{},
		batchErr:     map[string]error{},
		rowErrEmails: map[string]error{},
		counts:       map[string]int{},
		countErr:     map[string]error{},
	}
}

func (m *mockTarget) InsertBatch(ctx context.Context, table string, columns []string, rows [][]interface{}) (int64, error) {
	m.insertCalls++
	if err := m.batchErr[table]; err != nil {
		return 0, err
	}
	m.batches[table] = append(m.batches[table], rows)
	return int64(len(rows)), nil
}

func (m *mockTarget) InsertRow(ctx context.Context, table string, columns []string, values []interface{}, conflictCols ...string) (int64, error) {
	m.rowCalls++
	for _, v := range values {
		if s, ok := v.(string); ok {
			if err := m.rowErrEmails[s]; err != nil {
				return 0, err
			}
		}
	}
	m.rows[table] = append(m.rows[table], values)
	return 1, nil
}

func (m *mockTarget) Count(ctx context.Context, table string) (int, error) {
	if err := m.countErr[table]; err != nil {
		return 0, err
	}
	return m.counts[table], nil
}
