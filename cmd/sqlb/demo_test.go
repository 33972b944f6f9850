package main

import (
	"bytes"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRunDemo_DryRun(t *testing.T) {
	var out bytes.Buffer

	t.Setenv("LOG_LEVEL", "ERROR")

	err := runDemo(t.Context(), demoOptions{envDir: t.TempDir(), dryRun: true, out: &out})
	require.NoError(t, err)

	assert.Contains(t, out.String(),
		"insert into user(score, name, age, address, create_time) values(?, ?, ?, ?, null)")
	assert.Contains(t, out.String(), "delete from user where id = ?")
	assert.NotContains(t, out.String(), "row(s)")
}

func TestRunDemo_SQLite(t *testing.T) {
	var out bytes.Buffer

	t.Setenv("LOG_LEVEL", "ERROR")
	t.Setenv("DB_DIALECT", "")

	err := runDemo(t.Context(), demoOptions{envDir: t.TempDir(), metrics: true, out: &out})
	require.NoError(t, err)

	s := out.String()
	assert.Contains(t, s, "insert 1 row(s) affected")
	assert.Contains(t, s, "select 1 row(s)")
	assert.Contains(t, s, "update 1 row(s) affected")
	assert.Contains(t, s, "delete 1 row(s) affected")
	assert.Contains(t, s, "app_sql_stats")
}

func TestScenarios_Parity(t *testing.T) {
	for _, sc := range scenarios() {
		q := sc.st.Serialize()

		n := 0
		for _, r := range q {
			if r == '?' {
				n++
			}
		}

		assert.Len(t, sc.st.Bindings(), n, sc.name)
	}
}

func TestRebind(t *testing.T) {
	var out bytes.Buffer

	require.NoError(t, rebind(&out, "postgres", "select * from t where a = ? and b = '?'"))
	assert.Equal(t, "select * from t where a = $1 and b = '?'\n1 placeholder(s)\n", out.String())

	require.Error(t, rebind(&out, "oracle", "select 1"))
}
