package validation

import (
	"encoding/json"
	"errors"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestStrongPassword(t *testing.T) {
	cases := map[string]bool{
		"Password123!":                    true,
		"Aa1!aaaa":                        true,
		"Aa1!aaa":                         false, // 7 chars
		"Aa1!" + strings.Repeat("a", 26):  true,  // 30 chars
		"Aa1!" + strings.Repeat("a", 27):  false, // 31 chars
		"password123!":                    false,
		"PASSWORD123!":                    false,
		"Password!!!!":                    false,
		"Password1234":                    false,
		`Password123\`:                    true,
		"Password123~":                    false, // ~ is not an accepted symbol
		"Aa1!" + strings.Repeat("é", 26):  true,  // 56 bytes
		"Aa1!" + strings.Repeat("😀", 26): false, // 30 chars but 108 bytes
	}
	for pw, want := range cases {
		assert.Equal(t, want, StrongPassword(pw), pw)
	}
}

func TestIsEmail(t *testing.T) {
	assert.True(t, IsEmail("ann@example.com"))
	assert.False(t, IsEmail("ann@"))
	assert.False(t, IsEmail("not-an-email"))
	assert.False(t, IsEmail(""))
}

type signup struct {
	Email    string `json:"email" validate:"required,email"`
	Password string `json:"password" validate:"required"`
	Code     string `json:"code" validate:"max=3"`
}

func TestToDetails_UsesJSONNames(t *testing.T) {
	err := Engine().Struct(signup{Email: "bad", Code: "toolong"})
	require.Error(t, err)

	d := ToDetails(err)
	assert.Equal(t, "validation failed for 'email'", d["email"])
	assert.Equal(t, "is required", d["password"])
	assert.Equal(t, "validation failed for 'max' with parameter '3'", d["code"])
}

func TestToDetails_DecodeErrors(t *testing.T) {
	var v map[string]any
	assert.Equal(t, map[string]string{"payload": "invalid json"}, ToDetails(json.Unmarshal([]byte(`{"a":`), &v)))
	assert.Equal(t, map[string]string{"payload": "invalid json"}, ToDetails(json.NewDecoder(strings.NewReader("")).Decode(&v)))
	assert.Equal(t, map[string]string{"payload": "invalid json"}, ToDetails(json.NewDecoder(strings.NewReader(`{"a":`)).Decode(&v)))
	assert.Equal(t, map[string]string{"payload": "invalid payload"}, ToDetails(errors.New("boom")))
	assert.Nil(t, ToDetails(nil))
}

func TestResult(t *testing.T) {
	var r Result
	assert.True(t, r.OK())
	assert.Nil(t, r.Details())

	r.Check(false, "lastName", "Last name is required")
	r.Check(true, "email", "never")
	r.Check(false, "firstName", "First name is required")
	r.Check(false, "lastName", "second failure ignored")

	assert.False(t, r.OK())
	assert.Equal(t, "Last name is required, First name is required", r.Message())
	assert.Equal(t, map[string]string{"lastName": "Last name is required", "firstName": "First name is required"}, r.Details())
}
