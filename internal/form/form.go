// Package form validates the traveler registration form.
//
// The validator never looks elements up by identifier. Callers hand it an
// Elements value holding typed handles, and the validator reads values from
// and writes feedback to those handles. A browser binding, the API server
// and tests all supply their own handle implementations.
package form

import (
	"regexp"
	"strings"
)

// Element identifiers of the registration page. They are the implicit
// contract between the page template and whatever binds handles to it.
const (
	IDFirstName        = "first_name"
	IDLastName         = "last_name"
	IDTelephone        = "telephone"
	IDEmail            = "email"
	IDHouse            = "house1"
	NameHouse          = "house_number"
	NameBookingSites   = "booking_sites"
	IDBookingFeedback  = "booking-sites-feedback"
	IDStatusIndicator  = "status-indicator"
	IDConnectionStatus = "connection-status"
	IDTravelersTable   = "travelersTable"
)

// Feedback messages shown next to invalid inputs.
const (
	MsgFirstName = "Please enter a first name."
	MsgLastName  = "Please enter a last name."
	MsgTelephone = "Please enter a valid telephone number."
	MsgEmail     = "Please enter a valid email address."
)

// State is the visual validation state of a single input.
type State int

const (
	Untouched State = iota
	Valid
	Invalid
)

func (s State) String() string {
	switch s {
	case Valid:
		return "valid"
	case Invalid:
		return "invalid"
	default:
		return "untouched"
	}
}

// Input is a free-text control with an attached invalid-feedback message.
type Input interface {
	Value() string
	SetState(State)
	SetMessage(string)
}

// Choice is a group of radio buttons or checkboxes.
type Choice interface {
	// Selected returns the values of the checked options.
	Selected() []string
	// MarkValidated flags the enclosing group so group-level feedback styling applies.
	MarkValidated()
}

// Feedback is a block of help text that is shown or hidden as a whole.
type Feedback interface {
	Show()
	Hide()
}

// Elements holds every handle the validator touches.
type Elements struct {
	FirstName            Input
	LastName             Input
	Telephone            Input
	Email                Input
	House                Choice
	BookingSites         Choice
	BookingSitesFeedback Feedback
}

// The two patterns are kept exactly as the registration page has always
// written them; accepted and rejected strings must not drift. The page runs
// them in a browser, where \s also covers Unicode spaces and . stops at line
// terminators, so browserSyntax spells both out for RE2.
var (
	phonePattern = browserRegexp(`^[+]?[(]?[0-9]{3}[)]?[-\s.]?[0-9]{3}[-\s.]?[0-9]{4,6}$`)
	emailPattern = browserRegexp(`^(([^<>()\[\]\\.,;:\s@"]+(\.[^<>()\[\]\\.,;:\s@"]+)*)|(".+"))@((\[[0-9]{1,3}\.[0-9]{1,3}\.[0-9]{1,3}\.[0-9]{1,3}\])|(([a-zA-Z\-0-9]+\.)+[a-zA-Z]{2,}))$`)
)

// browserSyntax rewrites the two constructs whose meaning differs between
// RE2 and the browser's regexp engine. \s only ever appears inside a class
// in the patterns above, and . unescaped only in the quoted local part.
var browserSyntax = strings.NewReplacer(
	`\s`, `\t\n\v\f\r \x{00a0}\x{1680}\x{2000}-\x{200a}\x{2028}\x{2029}\x{202f}\x{205f}\x{3000}\x{feff}`,
	`".+"`, `"[^\n\r\x{2028}\x{2029}]+"`,
)

func browserRegexp(pattern string) *regexp.Regexp {
	return regexp.MustCompile(browserSyntax.Replace(pattern))
}

// ValidPhone reports whether phone matches the telephone pattern.
// The value is tested as-is, surrounding whitespace included.
func ValidPhone(phone string) bool {
	return phonePattern.MatchString(phone)
}

// ValidEmail reports whether email matches the email pattern, case-insensitively.
func ValidEmail(email string) bool {
	return emailPattern.MatchString(strings.ToLower(email))
}

// Validate checks every field of el, marks each handle with its outcome and
// reports whether the whole form may be submitted. All fields are checked
// even after the first failure so every control gets feedback.
func Validate(el Elements) bool {
	ok := true

	ok = checkInput(el.FirstName, MsgFirstName, nil) && ok
	ok = checkInput(el.LastName, MsgLastName, nil) && ok
	ok = checkInput(el.Telephone, MsgTelephone, ValidPhone) && ok
	ok = checkInput(el.Email, MsgEmail, ValidEmail) && ok

	// The house group only gets a group-level flag, never a message.
	if len(el.House.Selected()) != 1 {
		el.House.MarkValidated()
		ok = false
	}

	if len(el.BookingSites.Selected()) == 0 {
		el.BookingSitesFeedback.Show()
		ok = false
	} else {
		el.BookingSitesFeedback.Hide()
	}

	return ok
}

// checkInput applies the non-empty rule and, when match is non-nil, the
// pattern rule. It marks in as Valid or Invalid and returns the outcome.
func checkInput(in Input, msg string, match func(string) bool) bool {
	v := in.Value()
	if strings.TrimSpace(v) == "" || (match != nil && !match(v)) {
		in.SetState(Invalid)
		in.SetMessage(msg)
		return false
	}
	in.SetState(Valid)
	return true
}
