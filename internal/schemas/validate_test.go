package schemas

import (
	"io/fs"
	"testing"
	"testing/fstest"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	schemafiles "github.com/jonathan/talent-profiler/schemas"
)

func TestValidate_Leadership(t *testing.T) {
	tests := []struct {
		name    string
		doc     string
		wantErr bool
	}{
		{"has leadership", `{"leadership": "리더쉽", "reason": ["테크 리드", "팀장"]}`, false},
		{"no leadership sentinel", `{"leadership": "리더쉽경험없음", "reason": ["없음"]}`, false},
		{"unknown label", `{"leadership": "maybe", "reason": []}`, true},
		{"missing reasons", `{"leadership": "리더쉽"}`, true},
		{"reasons not a list", `{"leadership": "리더쉽", "reason": "팀장"}`, true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := Validate(schemafiles.Leadership, tt.doc)
			if !tt.wantErr {
				assert.NoError(t, err)
				return
			}
			var verr *ValidationError
			require.ErrorAs(t, err, &verr)
			assert.Equal(t, schemafiles.Leadership, verr.Schema)
			assert.NotEmpty(t, verr.Errors)
		})
	}
}

func TestValidate_CompanyScale(t *testing.T) {
	assert.NoError(t, Validate(schemafiles.CompanyScale,
		`{"company_size_and_reason": [{"company_size": "대규모 회사 경험", "reasons": ["삼성전자"]}]}`))
	assert.NoError(t, Validate(schemafiles.CompanyScale, `{"company_size_and_reason": []}`))

	err := Validate(schemafiles.CompanyScale, `{"company_size_and_reason": [{"company_size": "", "reasons": []}]}`)
	assert.Error(t, err)
}

func TestValidate_Experience(t *testing.T) {
	assert.NoError(t, Validate(schemafiles.Experience,
		`{"experience_and_reason": [{"experience": "IPO", "reasons": "밀리의 서재 상장"}]}`))

	err := Validate(schemafiles.Experience, `{"experience_and_reason": [{"experience": "IPO", "reasons": ["a"]}]}`)
	assert.Error(t, err)
}

func TestValidate_UnknownSchema(t *testing.T) {
	err := Validate("nonexistent.schema.json", `{}`)

	var loadErr *LoadError
	require.ErrorAs(t, err, &loadErr)
	assert.ErrorIs(t, err, fs.ErrNotExist)
}

func TestValidate_MalformedDocument(t *testing.T) {
	err := Validate(schemafiles.Leadership, `{ invalid json }`)
	require.Error(t, err)

	var verr *ValidationError
	assert.NotErrorAs(t, err, &verr)
}

func TestValidator_NestedFieldPaths(t *testing.T) {
	v := NewValidator(fstest.MapFS{
		"person.schema.json": {Data: []byte(`{
			"type": "object",
			"properties": {"person": {"type": "object", "required": ["name"]}},
			"required": ["person"]
		}`)},
	})

	err := v.Validate("person.schema.json", `{"person": {}}`)

	var verr *ValidationError
	require.ErrorAs(t, err, &verr)
	require.Len(t, verr.Errors, 1)
	assert.Equal(t, "person", verr.Errors[0].Field)
	assert.Contains(t, verr.Error(), "person.schema.json")

	err = v.Validate("person.schema.json", `{}`)
	require.ErrorAs(t, err, &verr)
	assert.Equal(t, "(root)", verr.Errors[0].Field)
}

func TestValidator_BrokenSchema(t *testing.T) {
	v := NewValidator(fstest.MapFS{"broken.schema.json": {Data: []byte(`{"type": 5}`)}})

	var loadErr *LoadError
	assert.ErrorAs(t, v.Validate("broken.schema.json", `{}`), &loadErr)
}

func TestValidationError_Error(t *testing.T) {
	err := &ValidationError{
		Schema: "leadership.schema.json",
		Errors: []FieldError{{Field: "leadership", Message: "is required"}, {Field: "reason", Message: "bad type"}},
	}

	assert.Equal(t, "document does not match leadership.schema.json: leadership: is required; reason: bad type", err.Error())
}

func TestCompile(t *testing.T) {
	assert.NoError(t, Compile(schemafiles.Leadership, schemafiles.CompanyScale, schemafiles.Experience))
	assert.Error(t, Compile("missing.schema.json"))
}
