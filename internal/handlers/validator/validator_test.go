package validator

import (
	"testing"
)

func TestStatementFormValidators(t *testing.T) {
	type statementForm struct {
		SQL       string            `validate:"required,sql_statement"`
		Variables map[string]string `validate:"omitempty"`
	}

	tests := []struct {
		name       string
		form       statementForm
		shouldFail bool
	}{
		{
			name:       "validation ok -- plain select",
			form:       statementForm{SQL: "SELECT 1"},
			shouldFail: false,
		},
		{
			name:       "validation ok -- statement with variables",
			form:       statementForm{SQL: "INSERT INTO sink SELECT * FROM source", Variables: map[string]string{"env": "dev"}},
			shouldFail: false,
		},
		{
			name:       "validation ko -- empty sql",
			form:       statementForm{SQL: ""},
			shouldFail: true,
		},
		{
			name:       "validation ko -- whitespace only sql",
			form:       statementForm{SQL: " \n\t "},
			shouldFail: true,
		},
	}

	v := NewValidator()
	statementRules := NewStatementValidationRules()
	v.Register(statementRules...)

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := v.Struct(tt.form)
			if (err != nil) != tt.shouldFail {
				t.Errorf("validation: error = %v, shouldFail = %v", err, tt.shouldFail)
				return
			}
		})
	}
}
