package application

import (
	"encoding/json"
	"sort"
	"strings"

	"github.com/oksasatya/go-ddd-user-terms/internal/domain/apperr"
	"github.com/oksasatya/go-ddd-user-terms/pkg/validation"
)

type CreateUserInput struct {
	FirstName string `json:"firstName"`
	LastName  string `json:"lastName"`
	Email     string `json:"email"`
	Password  string `json:"password"`
}

func (in CreateUserInput) validate() error {
	var r validation.Result
	r.Check(strings.TrimSpace(in.FirstName) != "", "firstName", "First name is required")
	r.Check(strings.TrimSpace(in.LastName) != "", "lastName", "Last name is required")
	r.Check(validation.IsEmail(in.Email), "email", "Invalid email format")
	r.Check(validation.StrongPassword(in.Password), "password", validation.PasswordRule)
	if !r.OK() {
		return apperr.Invalid(r.Message(), r.Details())
	}
	return nil
}

// Patchable user fields, in the order they are reported.
var patchableFields = []string{"firstName", "lastName", "email", "termId"}

// UserPatch is a partial update. Keys lists every key that was present in the request.
type UserPatch struct {
	Keys      []string
	FirstName *string
	LastName  *string
	Email     *string
	TermID    *string
}

// NewUserPatch decodes a JSON object body into a patch. Unknown keys are kept in Keys
// so the service can reject them; known keys must hold strings. A null termId means no change.
func NewUserPatch(raw map[string]json.RawMessage) (UserPatch, error) {
	p := UserPatch{Keys: make([]string, 0, len(raw))}
	for k := range raw {
		p.Keys = append(p.Keys, k)
	}
	sort.Strings(p.Keys)
	if err := p.checkKeys(); err != nil {
		return UserPatch{}, err
	}

	str := func(key string) (*string, error) {
		v, ok := raw[key]
		if !ok {
			return nil, nil
		}
		if string(v) == "null" && key == "termId" {
			return nil, nil
		}
		var s string
		if err := json.Unmarshal(v, &s); err != nil {
			return nil, apperr.BadRequest(key + " must be a string")
		}
		return &s, nil
	}
	var err error
	if p.FirstName, err = str("firstName"); err != nil {
		return UserPatch{}, err
	}
	if p.LastName, err = str("lastName"); err != nil {
		return UserPatch{}, err
	}
	if p.Email, err = str("email"); err != nil {
		return UserPatch{}, err
	}
	if p.TermID, err = str("termId"); err != nil {
		return UserPatch{}, err
	}
	return p, nil
}

func (p UserPatch) checkKeys() error {
	if len(p.Keys) == 0 {
		return apperr.BadRequest("No updatable fields provided")
	}
	for _, k := range p.Keys {
		allowed := false
		for _, f := range patchableFields {
			if k == f {
				allowed = true
				break
			}
		}
		if !allowed {
			return apperr.BadRequest("Only " + strings.Join(patchableFields, ", ") + " can be updated")
		}
	}
	return nil
}
