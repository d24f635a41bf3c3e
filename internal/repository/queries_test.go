package repository

import (
	"regexp"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var readQueries = map[string]string{
	"account get by account_id": queryGetAccountByAccountID,
	"account list by user":      queryListAccountsByUser,
	"account list all":          queryListAllAccounts,
	"user get by id":            queryGetUserByID,
	"user get by email":         queryGetUserByEmail,
	"user list all":             queryListUsers,
	"user get by reset token":   queryGetUserByResetToken,
	"settings get by key":       queryGetSettings,
	"settings list all":         queryListSettings,
}

// The read statements are assembled from shared column-list constants. If a
// constant loses its terminating whitespace, the following keyword fuses
// into the last column name (e.g. "updated_atFROM accounts") and every read
// path dies with a syntax error at runtime. Guard the assembled strings.
func TestReadQueries_KeywordSeparation(t *testing.T) {
	fusedKeyword := regexp.MustCompile(`\S(FROM|WHERE|ORDER|AND|SELECT)\b`)

	for name, query := range readQueries {
		t.Run(name, func(t *testing.T) {
			require.True(t, strings.HasPrefix(query, "SELECT"), "query must start with SELECT")
			assert.Regexp(t, `^SELECT\s`, query, "SELECT must be followed by whitespace")

			if match := fusedKeyword.FindString(query); match != "" {
				t.Errorf("keyword fused into preceding token: %q", match)
			}

			assert.Regexp(t, `\sFROM\s`, query, "FROM must be surrounded by whitespace")
		})
	}
}

// splitColumns splits a select list on top-level commas, ignoring commas
// inside parentheses (COALESCE and friends).
func splitColumns(list string) []string {
	var columns []string
	depth, start := 0, 0
	for i, r := range list {
		switch r {
		case '(':
			depth++
		case ')':
			depth--
		case ',':
			if depth == 0 {
				columns = append(columns, strings.TrimSpace(list[start:i]))
				start = i + 1
			}
		}
	}
	if tail := strings.TrimSpace(list[start:]); tail != "" {
		columns = append(columns, tail)
	}
	return columns
}

// Each column list must stay in lockstep with its scan helper: the scanners
// bind positionally, so a drifting column count silently shifts every field.
func TestColumnLists_MatchScanTargets(t *testing.T) {
	cases := map[string]struct {
		list        string
		scanTargets int
	}{
		"accounts": {accountColumns, 27},
		"users":    {userColumns, 10},
		"settings": {settingsColumns, 56},
	}

	for name, tc := range cases {
		t.Run(name, func(t *testing.T) {
			columns := splitColumns(tc.list)
			assert.Len(t, columns, tc.scanTargets)

			for _, column := range columns {
				assert.NotEmpty(t, column)
				assert.False(t, strings.ContainsAny(column, "\t\n"),
					"column %q should be trimmed after splitting", column)
			}
		})
	}
}

// The settings upsert reuses the same column list for its INSERT target; the
// parenthesized list must close cleanly after the trailing whitespace.
func TestSettingsInsert_ColumnListParenthesizes(t *testing.T) {
	insert := `INSERT INTO copier_settings (` + settingsColumns + `)`

	assert.Regexp(t, `\(\s`, insert)
	assert.Regexp(t, `\s\)$`, insert)
	assert.NotContains(t, insert, "updated_at)")
}
