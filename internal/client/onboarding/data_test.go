package onboarding

import (
	"testing"

	"github.com/google/go-cmp/cmp"
	"github.com/stretchr/testify/assert"
)

func TestUpdate_MergesInOrder(t *testing.T) {
	s := NewState()
	s.Update(Partial{FirstName: Ptr("Jan")})
	s.Update(Partial{LastName: Ptr("Kowalski")})
	s.Update(Partial{Role: Ptr("fan"), Consent2: Ptr(true)})
	s.Update(Partial{Role: Ptr("athlete")})

	want := Data{FirstName: "Jan", LastName: "Kowalski", Role: "athlete", Consent2: true}
	if diff := cmp.Diff(want, s.Data()); diff != "" {
		t.Errorf("Data() mismatch (-want +got):\n%s", diff)
	}
}

func TestUpdate_EmptyPartialKeepsEverything(t *testing.T) {
	s := NewState()
	s.Update(Partial{Email: Ptr("a@b.pl"), Consent1: Ptr(true)})
	before := s.Data()

	s.Update(Partial{})
	assert.Equal(t, before, s.Data())
}

func TestUpdate_ZeroValuesAreWritten(t *testing.T) {
	s := NewState()
	s.Update(Partial{Nick: Ptr("kowal"), Consent1: Ptr(true)})
	s.Update(Partial{Nick: Ptr(""), Consent1: Ptr(false)})

	assert.Equal(t, Data{}, s.Data())
}

func TestData_ReturnsCopy(t *testing.T) {
	s := NewState()
	s.Update(Partial{Email: Ptr("a@b.pl")})

	d := s.Data()
	d.Email = "changed"
	assert.Equal(t, "a@b.pl", s.Data().Email)
}
