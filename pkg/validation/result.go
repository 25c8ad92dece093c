package validation

import "strings"

// PasswordRule is the message reported for a password that fails StrongPassword.
const PasswordRule = "Password must be 8-30 characters (at most 72 bytes) and include an uppercase letter, a lowercase letter, a number and a special character"

// Result collects per-field failures. The zero value is valid and OK.
type Result struct {
	fields map[string]string
	order  []string
}

// Check records msg for field when ok is false. The first failure per field wins.
func (r *Result) Check(ok bool, field, msg string) {
	if ok {
		return
	}
	if r.fields == nil {
		r.fields = map[string]string{}
	}
	if _, seen := r.fields[field]; seen {
		return
	}
	r.fields[field] = msg
	r.order = append(r.order, field)
}

func (r *Result) OK() bool { return len(r.fields) == 0 }

// Details returns a copy of the field -> message map, nil when OK.
func (r *Result) Details() map[string]string {
	if r.OK() {
		return nil
	}
	out := make(map[string]string, len(r.fields))
	for k, v := range r.fields {
		out[k] = v
	}
	return out
}

// Message joins the failure messages in the order they were recorded.
func (r *Result) Message() string {
	msgs := make([]string, 0, len(r.order))
	for _, f := range r.order {
		msgs = append(msgs, r.fields[f])
	}
	return strings.Join(msgs, ", ")
}
