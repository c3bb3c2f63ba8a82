package sqldb

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseDialect(t *testing.T) {
	tests := []struct {
		input    string
		expected Dialect
		wantErr  bool
	}{
		{"sqlite", DialectSQLite, false},
		{"SQLite3", DialectSQLite, false},
		{" postgres ", DialectPostgres, false},
		{"postgresql", DialectPostgres, false},
		{"pq", DialectPostgres, false},
		{"mysql", "", true},
		{"", "", true},
	}

	for _, tt := range tests {
		t.Run(tt.input, func(t *testing.T) {
			d, err := ParseDialect(tt.input)
			if tt.wantErr {
				assert.Error(t, err)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.expected, d)
		})
	}
}

func TestDialect_Rebind(t *testing.T) {
	query := "UPDATE t SET a = ?, b = ? WHERE id = ?"

	assert.Equal(t, query, DialectSQLite.Rebind(query))
	assert.Equal(t, "UPDATE t SET a = $1, b = $2 WHERE id = $3", DialectPostgres.Rebind(query))
	assert.Equal(t, "SELECT 1", DialectPostgres.Rebind("SELECT 1"))
}

func TestDialect_ForUpdate(t *testing.T) {
	assert.Equal(t, "", DialectSQLite.ForUpdate())
	assert.Equal(t, " FOR UPDATE", DialectPostgres.ForUpdate())
}

func TestDialect_DriverName(t *testing.T) {
	assert.Equal(t, "sqlite", DialectSQLite.DriverName())
	assert.Equal(t, "postgres", DialectPostgres.DriverName())
}
