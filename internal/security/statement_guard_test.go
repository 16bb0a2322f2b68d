package security

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestValidateStatement(t *testing.T) {
	tests := map[string]struct {
		statement string
		wantErr   bool
	}{
		"plain select":               {statement: "SELECT id, name FROM users", wantErr: false},
		"select with where":          {statement: "select * from orders where total > 10", wantErr: false},
		"deleted_at column is fine":  {statement: "SELECT deleted_at FROM users", wantErr: false},
		"not a select":               {statement: "DELETE FROM users", wantErr: true},
		"stacked statements":         {statement: "SELECT 1; DROP TABLE users", wantErr: true},
		"embedded drop":              {statement: "SELECT * FROM t WHERE x = (DROP TABLE y)", wantErr: true},
		"union leak":                 {statement: "SELECT a FROM t UNION SELECT password FROM users", wantErr: true},
		"information_schema blocked": {statement: "SELECT * FROM information_schema.tables", wantErr: true},
		"pg_catalog blocked":         {statement: "SELECT * FROM pg_catalog.pg_tables", wantErr: true},
		"version function blocked":   {statement: "SELECT VERSION()", wantErr: true},
	}

	for name, tc := range tests {
		t.Run(name, func(t *testing.T) {
			err := ValidateStatement(tc.statement)
			if tc.wantErr {
				assert.Error(t, err)
			} else {
				assert.NoError(t, err)
			}
		})
	}
}
