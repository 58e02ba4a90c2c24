package onboarding

import "sync"

// Data is the registration draft. Consent1 is the data-processing consent,
// Consent2 the marketing consent.
type Data struct {
	Email       string
	Password    string
	FirstName   string
	LastName    string
	Nick        string
	Role        string
	PhoneNumber string
	Consent1    bool
	Consent2    bool
}

// Partial carries the fields one step produced. Nil fields are left alone by
// Update.
type Partial struct {
	Email       *string
	Password    *string
	FirstName   *string
	LastName    *string
	Nick        *string
	Role        *string
	PhoneNumber *string
	Consent1    *bool
	Consent2    *bool
}

// Ptr returns a pointer to v, for building Partials inline.
func Ptr[T any](v T) *T { return &v }

// State accumulates the draft across step screens.
type State struct {
	mu   sync.Mutex
	data Data
}

func NewState() *State {
	return &State{}
}

// Update merges p into the draft. It never validates and never fails.
func (s *State) Update(p Partial) {
	s.mu.Lock()
	defer s.mu.Unlock()

	set(&s.data.Email, p.Email)
	set(&s.data.Password, p.Password)
	set(&s.data.FirstName, p.FirstName)
	set(&s.data.LastName, p.LastName)
	set(&s.data.Nick, p.Nick)
	set(&s.data.Role, p.Role)
	set(&s.data.PhoneNumber, p.PhoneNumber)
	set(&s.data.Consent1, p.Consent1)
	set(&s.data.Consent2, p.Consent2)
}

// Data returns a copy of the draft.
func (s *State) Data() Data {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.data
}

func set[T any](dst *T, src *T) {
	if src != nil {
		*dst = *src
	}
}
