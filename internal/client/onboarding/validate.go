package onboarding

import (
	"errors"
	"fmt"
	"strings"

	"github.com/go-playground/validator/v10"
	"github.com/go-playground/validator/v10/non-standard/validators"

	"github.com/dzikiwschod/clubapp/internal/common"
)

// Field names a form input. Some fields (ConfirmPassword, Code) never reach
// the draft.
type Field string

const (
	FieldFirstName       Field = "firstName"
	FieldLastName        Field = "lastName"
	FieldNick            Field = "nick"
	FieldPhoneNumber     Field = "phoneNumber"
	FieldRole            Field = "role"
	FieldEmail           Field = "email"
	FieldPassword        Field = "password"
	FieldConfirmPassword Field = "confirmPassword"
	FieldCode            Field = "code"
	FieldDataProcessing  Field = "dataProcessingConsent"
)

type Step int

const (
	StepIdentity Step = iota
	StepRole
	StepCredentials
	StepVerification
)

func (s Step) String() string {
	switch s {
	case StepIdentity:
		return "identity"
	case StepRole:
		return "role"
	case StepCredentials:
		return "credentials"
	case StepVerification:
		return "verification"
	default:
		return "unknown"
	}
}

// Roles a member can register as.
var Roles = []string{"athlete", "parent", "fan", "coach"}

// CountryPrefix is prepended to the 9-digit local phone number.
const CountryPrefix = "+48"

// Form is the raw text a step screen collected. Boolean inputs use "true".
type Form map[Field]string

// rule binds one field to a validator tag. Problem is reported when a
// check other than the presence check fails. When other is set the tag
// compares the field against that field's value.
type rule struct {
	field   Field
	tag     string
	problem string
	other   Field
}

// rules is the single validation table. Each field reports its first
// failing check; fields are reported in table order.
var rules = map[Step][]rule{
	StepIdentity: {
		{field: FieldFirstName, tag: "notblank"},
		{field: FieldLastName, tag: "notblank"},
		{field: FieldPhoneNumber, tag: "required,len=9,number", problem: "must be exactly 9 digits"},
	},
	StepRole: {
		{field: FieldRole, tag: "required,oneof=" + strings.Join(Roles, " "), problem: "must be one of " + strings.Join(Roles, ", ")},
	},
	StepCredentials: {
		{field: FieldEmail, tag: "notblank,email", problem: "is not a valid email address"},
		{field: FieldPassword, tag: "notblank"},
		{field: FieldConfirmPassword, tag: "eqcsfield", problem: "does not match password", other: FieldPassword},
	},
	StepVerification: {
		{field: FieldCode, tag: "len=6,number", problem: "must be exactly 6 digits"},
		{field: FieldDataProcessing, tag: "eq=true", problem: "must be accepted"},
	},
}

var validate = newValidator()

func newValidator() *validator.Validate {
	v := validator.New(validator.WithRequiredStructEnabled())
	if err := v.RegisterValidation("notblank", validators.NotBlank); err != nil {
		panic(err)
	}
	return v
}

type FieldError struct {
	Field   Field
	Problem string
}

// ValidationError lists every field of a step that failed.
type ValidationError struct {
	Step   Step
	Fields []FieldError
}

func (e *ValidationError) Error() string {
	parts := make([]string, 0, len(e.Fields))
	for _, f := range e.Fields {
		parts = append(parts, fmt.Sprintf("%s %s", f.Field, f.Problem))
	}
	return strings.Join(parts, "; ")
}

func (e *ValidationError) Unwrap() error { return common.ErrValidation }

// Validate runs the rules of step against form.
func Validate(step Step, form Form) error {
	rs, ok := rules[step]
	if !ok {
		return fmt.Errorf("unknown step %d", step)
	}

	data := make(map[string]any, len(rs))
	tags := make(map[string]any, len(rs))
	for _, r := range rs {
		if r.other == "" {
			data[string(r.field)] = form[r.field]
			tags[string(r.field)] = r.tag
		}
	}
	errs := validate.ValidateMap(data, tags)

	var failed []FieldError
	for _, r := range rs {
		var err error
		if r.other != "" {
			err = validate.VarWithValue(form[r.field], form[r.other], r.tag)
		} else if e, ok := errs[string(r.field)].(error); ok {
			err = e
		}
		if err != nil {
			failed = append(failed, FieldError{Field: r.field, Problem: r.describe(err)})
		}
	}

	if len(failed) > 0 {
		return &ValidationError{Step: step, Fields: failed}
	}
	return nil
}

func (r rule) describe(err error) string {
	var verrs validator.ValidationErrors
	if errors.As(err, &verrs) && len(verrs) > 0 {
		switch verrs[0].Tag() {
		case "required", "notblank":
			return "is required"
		}
	}
	if r.problem == "" {
		return "is not valid"
	}
	return r.problem
}

// ValidateData checks a complete draft as the backend receives it: every
// step but verification, with the phone number carrying CountryPrefix.
func ValidateData(d Data) error {
	local, prefixed := strings.CutPrefix(d.PhoneNumber, CountryPrefix)
	forms := []struct {
		step Step
		form Form
	}{
		{StepIdentity, Form{FieldFirstName: d.FirstName, FieldLastName: d.LastName, FieldPhoneNumber: local}},
		{StepRole, Form{FieldRole: d.Role}},
		{StepCredentials, Form{FieldEmail: d.Email, FieldPassword: d.Password, FieldConfirmPassword: d.Password}},
	}

	var all *ValidationError
	for _, f := range forms {
		err := Validate(f.step, f.form)
		var verr *ValidationError
		if !errors.As(err, &verr) {
			continue
		}
		if all == nil {
			all = &ValidationError{Step: f.step}
		}
		all.Fields = append(all.Fields, verr.Fields...)
	}

	if !prefixed && d.PhoneNumber != "" {
		if all == nil {
			all = &ValidationError{Step: StepIdentity}
		}
		all.Fields = append(all.Fields, FieldError{Field: FieldPhoneNumber, Problem: "must start with " + CountryPrefix})
	}

	if all != nil {
		return all
	}
	return nil
}

// Apply validates form for step and turns it into the Partial that step
// contributes to the draft. The verification step contributes nothing to the
// draft and is handled by Flow.VerifyCode.
func Apply(step Step, form Form) (Partial, error) {
	if err := Validate(step, form); err != nil {
		return Partial{}, err
	}

	switch step {
	case StepIdentity:
		p := Partial{
			FirstName:   Ptr(strings.TrimSpace(form[FieldFirstName])),
			LastName:    Ptr(strings.TrimSpace(form[FieldLastName])),
			PhoneNumber: Ptr(CountryPrefix + form[FieldPhoneNumber]),
		}
		if nick, ok := form[FieldNick]; ok {
			p.Nick = Ptr(strings.TrimSpace(nick))
		}
		return p, nil
	case StepRole:
		return Partial{Role: Ptr(form[FieldRole])}, nil
	case StepCredentials:
		return Partial{
			Email:    Ptr(strings.TrimSpace(form[FieldEmail])),
			Password: Ptr(form[FieldPassword]),
		}, nil
	default:
		return Partial{}, nil
	}
}
