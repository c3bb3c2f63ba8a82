package sqldb

import (
	"database/sql"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// fakeScanner assigns canned values to scan destinations in order
type fakeScanner struct {
	data []interface{}
	err  error
}

func (f *fakeScanner) Scan(dest ...interface{}) error {
	if f.err != nil {
		return f.err
	}
	if len(dest) != len(f.data) {
		return errors.New("mismatch in number of destinations")
	}

	for i, d := range dest {
		switch v := d.(type) {
		case *string:
			*v = f.data[i].(string)
		case *int64:
			*v = f.data[i].(int64)
		case *float64:
			*v = f.data[i].(float64)
		case *bool:
			*v = f.data[i].(bool)
		case *sql.NullInt64:
			*v = f.data[i].(sql.NullInt64)
		}
	}
	return nil
}

// fakeRows replays a fixed set of scanners
type fakeRows struct {
	rows []*fakeScanner
	pos  int
	err  error
}

func (f *fakeRows) Next() bool {
	if f.pos >= len(f.rows) {
		return false
	}
	f.pos++
	return true
}

func (f *fakeRows) Scan(dest ...interface{}) error {
	return f.rows[f.pos-1].Scan(dest...)
}

func (f *fakeRows) Err() error {
	return f.err
}

func projectRow(id string, start sql.NullInt64) *fakeScanner {
	return &fakeScanner{data: []interface{}{
		id, "user-1", "Website", "Acme", 50.0, 1000.0, int64(3600), start.Valid, start,
		"2024-01-15T10:00:00Z", "2024-01-15T11:00:00Z",
	}}
}

func TestScanProject(t *testing.T) {
	t.Run("stopped project", func(t *testing.T) {
		p, err := ScanProject(projectRow("p1", sql.NullInt64{}))
		require.NoError(t, err)

		assert.Equal(t, "p1", p.ID)
		assert.Equal(t, "Acme", p.ClientName)
		assert.Equal(t, 50.0, p.HourlyRate)
		assert.Equal(t, int64(3600), p.TotalSeconds)
		assert.False(t, p.IsRunning)
		assert.Nil(t, p.StartTime)
		assert.Equal(t, 10, p.CreatedAt.Hour())
		assert.Equal(t, 11, p.UpdatedAt.Hour())
	})

	t.Run("running project", func(t *testing.T) {
		p, err := ScanProject(projectRow("p2", sql.NullInt64{Int64: 1705312800000, Valid: true}))
		require.NoError(t, err)

		assert.True(t, p.IsRunning)
		require.NotNil(t, p.StartTime)
		assert.Equal(t, int64(1705312800000), *p.StartTime)
	})

	t.Run("scan error", func(t *testing.T) {
		_, err := ScanProject(&fakeScanner{err: sql.ErrNoRows})
		assert.ErrorIs(t, err, sql.ErrNoRows)
	})

	t.Run("bad timestamp", func(t *testing.T) {
		row := projectRow("p3", sql.NullInt64{})
		row.data[9] = "not a time"
		_, err := ScanProject(row)
		assert.Error(t, err)
	})
}

func TestScanTimeEntry(t *testing.T) {
	row := &fakeScanner{data: []interface{}{
		"e1", "p1", "user-1", int64(5400), int64(1000), int64(5401000), false, "2024-01-15T10:00:00Z",
	}}

	entry, err := ScanTimeEntry(row)
	require.NoError(t, err)

	assert.Equal(t, "e1", entry.ID)
	assert.Equal(t, "p1", entry.ProjectID)
	assert.Equal(t, int64(5400), entry.Seconds)
	assert.Equal(t, int64(1000), entry.StartTime)
	assert.Equal(t, int64(5401000), entry.EndTime)
	assert.False(t, entry.IsManual)
}

func TestScanUser(t *testing.T) {
	row := &fakeScanner{data: []interface{}{"u1", "a@b.io", "hash", "2024-01-15T10:00:00Z"}}

	u, err := ScanUser(row)
	require.NoError(t, err)
	assert.Equal(t, "a@b.io", u.Email)
	assert.Equal(t, "hash", u.PasswordHash)
}

func TestScanProjects(t *testing.T) {
	t.Run("empty result is a non-nil slice", func(t *testing.T) {
		projects, err := ScanProjects(&fakeRows{})
		require.NoError(t, err)
		assert.NotNil(t, projects)
		assert.Empty(t, projects)
	})

	t.Run("multiple rows", func(t *testing.T) {
		rows := &fakeRows{rows: []*fakeScanner{
			projectRow("p1", sql.NullInt64{}),
			projectRow("p2", sql.NullInt64{}),
		}}
		projects, err := ScanProjects(rows)
		require.NoError(t, err)
		require.Len(t, projects, 2)
		assert.Equal(t, "p2", projects[1].ID)
	})

	t.Run("rows error is returned", func(t *testing.T) {
		_, err := ScanProjects(&fakeRows{err: errors.New("cursor broken")})
		assert.EqualError(t, err, "cursor broken")
	})
}
