package sqlrender_test

import (
	"strings"
	"testing"

	"github.com/zoobzio/sqlrender"
	"github.com/zoobzio/sqlrender/dialect"
	"github.com/zoobzio/sqlrender/mysql"
	"github.com/zoobzio/sqlrender/postgres"
)

var injectionAttempts = []struct {
	name  string
	value string
}{
	{"DROP TABLE", "email; DROP TABLE users; --"},
	{"Union injection", "id UNION SELECT * FROM passwords"},
	{"OR 1=1", "id OR 1=1"},
	{"Comment injection", "id/**/OR/**/1=1"},
	{"Backtick injection", "id` FROM users; DROP TABLE users; --"},
	{"Quote injection", "id' OR '1'='1"},
	{"Double quote injection", `id" OR "1"="1`},
	{"Bracket injection", "id] FROM users; --"},
	{"Backslash injection", `id\' OR 1=1 --`},
	{"Whitespace tricks", "id\nOR\n1=1"},
	{"Function injection", "id) OR SLEEP(10)--"},
}

func TestInjection_SchemaRejectsUnknownNames(t *testing.T) {
	schema := createSurveySchema(t)

	for _, attempt := range injectionAttempts {
		t.Run(attempt.name, func(t *testing.T) {
			if _, err := schema.TryT(attempt.value); err == nil {
				t.Errorf("TryT(%q) accepted an unknown table", attempt.value)
			}

			s := schema.T("SURVEY", "s")
			if err := s.Col(attempt.value).Err(); err == nil {
				t.Errorf("Col(%q) accepted an unknown column", attempt.value)
			}
			if _, err := sqlrender.Select(s.Col("ID")).From(s).Where(s.Col(attempt.value).Eq(1)).Build(); err == nil {
				t.Errorf("Build() accepted condition on %q", attempt.value)
			}
		})
	}
}

func TestInjection_IdentifiersStayQuoted(t *testing.T) {
	dialects := []*sqlrender.Dialect{dialect.Standard(), postgres.New(), mysql.New()}

	for _, d := range dialects {
		open, closing, _ := d.Quotes()
		for _, attempt := range injectionAttempts {
			t.Run(d.Name()+"/"+attempt.name, func(t *testing.T) {
				result, err := sqlrender.Serialize(d, sqlrender.Path(attempt.value))
				if err != nil {
					t.Fatalf("Serialize() error = %v", err)
				}
				if !strings.HasPrefix(result.SQL, open) || !strings.HasSuffix(result.SQL, closing) {
					t.Fatalf("identifier %q rendered unquoted: %s", attempt.value, result.SQL)
				}
				inner := result.SQL[len(open) : len(result.SQL)-len(closing)]
				if strings.ReplaceAll(inner, closing+closing, "") != strings.ReplaceAll(attempt.value, closing, "") {
					t.Errorf("identifier %q escaped as %s", attempt.value, result.SQL)
				}
			})
		}
	}
}

func TestInjection_ValuesNeverInlined(t *testing.T) {
	id := sqlrender.Path("id")

	for _, attempt := range injectionAttempts {
		t.Run(attempt.name, func(t *testing.T) {
			result, err := sqlrender.Serialize(dialect.Standard(), id.Eq(attempt.value).Or(id.Like(attempt.value)))
			if err != nil {
				t.Fatalf("Serialize() error = %v", err)
			}
			if result.SQL != "id = ? or id like ?" {
				t.Errorf("SQL = %q", result.SQL)
			}
			if len(result.Constants) != 2 || result.Constants[0] != attempt.value {
				t.Errorf("Constants = %v", result.Constants)
			}
		})
	}
}

func TestInjection_LiteralsEscaped(t *testing.T) {
	tests := []struct {
		dialect  *sqlrender.Dialect
		expected string
	}{
		{dialect.Standard(), `id = 'id\'' OR 1=1 --'`},
		{postgres.New(), `"id" = 'id\'' OR 1=1 --'`},
		{mysql.New(), `id = 'id\\'' OR 1=1 --'`},
	}

	for _, tt := range tests {
		t.Run(tt.dialect.Name(), func(t *testing.T) {
			result, err := sqlrender.Serialize(tt.dialect, sqlrender.Path("id").Eq(`id\' OR 1=1 --`), sqlrender.UseLiterals())
			if err != nil {
				t.Fatalf("Serialize() error = %v", err)
			}
			if result.SQL != tt.expected {
				t.Errorf("SQL = %q, want %q", result.SQL, tt.expected)
			}
		})
	}
}
