package appointment

import (
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestValidRegionCode(t *testing.T) {
	t.Run("every six digit string is accepted", func(t *testing.T) {
		for _, n := range []int{0, 1, 110001, 400050, 560034, 999999} {
			code := fmt.Sprintf("%06d", n)
			assert.True(t, ValidRegionCode(code), code)
		}
	})

	for _, code := range []string{"", "1", "11000", "1100011", "11000a", " 110001", "110 01", "１１０００１"} {
		t.Run("rejects "+code, func(t *testing.T) {
			assert.False(t, ValidRegionCode(code))
		})
	}
}

func TestValidDistrict(t *testing.T) {
	tests := []struct {
		name  string
		in    string
		valid bool
	}{
		{"plain", "Pune", true},
		{"spaces", "North West Delhi", true},
		{"punctuation", "Y.S.R. Kadapa", true},
		{"ampersand and brackets", "Daman & Diu (UT)", true},
		{"hyphen", "Sri Potti Sriramulu-Nellore", true},
		{"surrounding space", "  Pune  ", true},
		{"empty", "", false},
		{"blank", "   ", false},
		{"digits", "District 9", false},
		{"leading punctuation", "-Pune", false},
		{"symbols", "Pune;DROP", false},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.valid, ValidDistrict(tt.in))
		})
	}
}

func TestValidPhoneNumber(t *testing.T) {
	assert.True(t, ValidPhoneNumber("9876543210"))
	assert.True(t, ValidPhoneNumber("6000000000"))
	assert.False(t, ValidPhoneNumber("5876543210"), "leading digit")
	assert.False(t, ValidPhoneNumber("987654321"), "too short")
	assert.False(t, ValidPhoneNumber("98765432100"), "too long")
	assert.False(t, ValidPhoneNumber("+919876543210"))
	assert.False(t, ValidPhoneNumber(""))
}

func TestValidSubjectID(t *testing.T) {
	assert.True(t, ValidSubjectID("12345678901234"))
	assert.False(t, ValidSubjectID("1234567890123"))
	assert.False(t, ValidSubjectID("123456789012345"))
	assert.False(t, ValidSubjectID("1234567890123a"))
	assert.False(t, ValidSubjectID(""))
}

func TestValidRegionSearch(t *testing.T) {
	tests := []struct {
		name   string
		search TargetSearch
		valid  bool
	}{
		{"disabled with no codes", TargetSearch{Enabled: false}, true},
		{"disabled ignores bad codes", TargetSearch{Enabled: false, Targets: []string{"1"}}, true},
		{"enabled with no codes", TargetSearch{Enabled: true}, false},
		{"enabled with wrong length", TargetSearch{Enabled: true, Targets: []string{"1"}}, false},
		{"enabled with valid code", TargetSearch{Enabled: true, Targets: []string{"110001"}}, true},
		{"one bad among good", TargetSearch{Enabled: true, Targets: []string{"110001", "abc"}}, false},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.valid, ValidRegionSearch(tt.search))
		})
	}
}

func TestValidDistrictSearch(t *testing.T) {
	assert.True(t, ValidDistrictSearch(TargetSearch{}))
	assert.False(t, ValidDistrictSearch(TargetSearch{Enabled: true}))
	assert.False(t, ValidDistrictSearch(TargetSearch{Enabled: true, Targets: []string{"Pune", "42"}}))
	assert.True(t, ValidDistrictSearch(TargetSearch{Enabled: true, Targets: []string{"Pune", "Mumbai"}}))
}

func TestInvalidValues(t *testing.T) {
	got := InvalidValues([]string{"110001", "x", "400050", "12"}, ValidRegionCode)
	assert.Equal(t, []string{"x", "12"}, got)
	assert.Empty(t, InvalidValues([]string{"110001"}, ValidRegionCode))
}
