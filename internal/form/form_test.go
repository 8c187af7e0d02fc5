package form_test

import (
	"net/url"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/pkordes/traveler-registration/internal/form"
)

// validValues returns a fully valid posted form. Tests override single keys.
func validValues() url.Values {
	return url.Values{
		"first_name":    {"Ada"},
		"last_name":     {"Lovelace"},
		"telephone":     {"555-123-4567"},
		"email":         {"user@example.com"},
		"house_number":  {"2"},
		"booking_sites": {"1", "3"},
	}
}

func TestValidate_AllValid(t *testing.T) {
	sub := form.FromValues(validValues())

	ok := sub.Validate()

	require.True(t, ok)
	assert.Equal(t, form.Valid, sub.FirstName.State)
	assert.Equal(t, form.Valid, sub.LastName.State)
	assert.Equal(t, form.Valid, sub.Telephone.State)
	assert.Equal(t, form.Valid, sub.Email.State)
	assert.False(t, sub.House.Validated)
	assert.False(t, sub.BookingFeedback.Visible)
	assert.Empty(t, sub.Errors())
}

func TestValidate_EmptyOrWhitespaceRequiredField(t *testing.T) {
	cases := []struct {
		key string
		msg string
	}{
		{"first_name", form.MsgFirstName},
		{"last_name", form.MsgLastName},
		{"telephone", form.MsgTelephone},
		{"email", form.MsgEmail},
	}
	for _, tc := range cases {
		for _, blank := range []string{"", "   ", "\t\n"} {
			t.Run(tc.key+"/"+blank, func(t *testing.T) {
				v := validValues()
				v.Set(tc.key, blank)
				sub := form.FromValues(v)

				ok := sub.Validate()

				assert.False(t, ok)
				assert.Equal(t, tc.msg, sub.Errors()[tc.key])
			})
		}
	}
}

func TestValidate_MissingHouse_FlagsGroupWithoutMessage(t *testing.T) {
	v := validValues()
	v.Del("house_number")
	sub := form.FromValues(v)

	ok := sub.Validate()

	assert.False(t, ok)
	assert.True(t, sub.House.Validated)
	// Every input still validates on its own.
	assert.Equal(t, form.Valid, sub.FirstName.State)
	assert.Equal(t, form.Valid, sub.Email.State)
}

func TestValidate_TwoHousesSelected(t *testing.T) {
	v := validValues()
	v["house_number"] = []string{"1", "2"}

	assert.False(t, form.FromValues(v).Validate())
}

func TestValidate_BookingSitesFeedback(t *testing.T) {
	v := validValues()
	v.Del("booking_sites")
	sub := form.FromValues(v)

	assert.False(t, sub.Validate())
	assert.True(t, sub.BookingFeedback.Visible)

	// Selecting a site hides the block again on the next pass.
	sub.BookingSites.Checked = []string{"4"}
	assert.True(t, sub.Validate())
	assert.False(t, sub.BookingFeedback.Visible)
}

func TestValidate_ChecksEveryFieldAfterFailure(t *testing.T) {
	sub := form.FromValues(url.Values{})

	assert.False(t, sub.Validate())

	errs := sub.Errors()
	assert.Len(t, errs, 6)
	assert.Equal(t, form.Invalid, sub.FirstName.State)
	assert.Equal(t, form.Invalid, sub.LastName.State)
	assert.Equal(t, form.Invalid, sub.Telephone.State)
	assert.Equal(t, form.Invalid, sub.Email.State)
}

func TestValidate_InvalidFieldRecovers(t *testing.T) {
	v := validValues()
	v.Set("email", "not-an-email")
	sub := form.FromValues(v)
	require.False(t, sub.Validate())
	require.Equal(t, form.Invalid, sub.Email.State)

	sub.Email.Val = "user@example.com"

	assert.True(t, sub.Validate())
	assert.Equal(t, form.Valid, sub.Email.State)
}

func TestValidPhone(t *testing.T) {
	valid := []string{
		"555-123-4567",
		"(555) 123-4567",
		"+(555) 123-4567",
		"555.123.456789",
		"5551234567",
		"555 123 45678",
		// Browser whitespace classes include these separators.
		"555\u00a0123\u00a04567",
		"555\v123\v4567",
		"555\ufeff123\u20074567",
	}
	for _, p := range valid {
		assert.True(t, form.ValidPhone(p), "expected %q to be accepted", p)
	}

	invalid := []string{
		"555-12",
		"555-123-45",
		"555-123-4567890",
		"abc-def-ghij",
		" 555-123-4567",
		// A country code ahead of the area code is outside the pattern.
		"+1 (555) 123-4567",
	}
	for _, p := range invalid {
		assert.False(t, form.ValidPhone(p), "expected %q to be rejected", p)
	}
}

func TestValidEmail(t *testing.T) {
	valid := []string{
		"user@example.com",
		"First.Last@Sub.Example.org",
		`"john doe"@example.com`,
		"\"a\u00a0b\"@example.com",
		"user@[192.168.0.1]",
		"a-b_c@my-host.co",
	}
	for _, e := range valid {
		assert.True(t, form.ValidEmail(e), "expected %q to be accepted", e)
	}

	invalid := []string{
		"not-an-email",
		"user@example",
		"user@@example.com",
		"user name@example.com",
		"a\u00a0b@example.com",
		"a\u3000b@example.com",
		"\"a\rb\"@example.com",
		"\"a\u2028b\"@example.com",
		"user@example.c",
		".user@example.com",
	}
	for _, e := range invalid {
		assert.False(t, form.ValidEmail(e), "expected %q to be rejected", e)
	}
}

func TestState_String(t *testing.T) {
	assert.Equal(t, "untouched", form.Untouched.String())
	assert.Equal(t, "valid", form.Valid.String())
	assert.Equal(t, "invalid", form.Invalid.String())
}
