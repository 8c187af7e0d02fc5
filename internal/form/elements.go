package form

import (
	"net/url"
	"strings"
)

// Field is an in-memory Input.
type Field struct {
	Name    string
	Val     string
	State   State
	Message string
}

func (f *Field) Value() string { return f.Val }
func (f *Field) SetState(s State) { f.State = s }
func (f *Field) SetMessage(m string) { f.Message = m }

// Group is an in-memory Choice.
type Group struct {
	Name      string
	Checked   []string
	Validated bool
}

func (g *Group) Selected() []string { return g.Checked }
func (g *Group) MarkValidated() { g.Validated = true }

// Block is an in-memory Feedback.
type Block struct {
	Visible bool
}

func (b *Block) Show() { b.Visible = true }
func (b *Block) Hide() { b.Visible = false }

// Submission is a posted registration form bound to in-memory handles.
// After Validate has run over Elements, Errors reports what failed.
type Submission struct {
	FirstName       Field
	LastName        Field
	Telephone       Field
	Email           Field
	House           Group
	BookingSites    Group
	BookingFeedback Block
}

// FromValues binds posted form values to a new Submission.
// Empty checkbox and radio values are treated as unchecked.
func FromValues(v url.Values) *Submission {
	return &Submission{
		FirstName:    Field{Name: IDFirstName, Val: v.Get(IDFirstName)},
		LastName:     Field{Name: IDLastName, Val: v.Get(IDLastName)},
		Telephone:    Field{Name: IDTelephone, Val: v.Get(IDTelephone)},
		Email:        Field{Name: IDEmail, Val: v.Get(IDEmail)},
		House:        Group{Name: NameHouse, Checked: nonEmpty(v[NameHouse])},
		BookingSites: Group{Name: NameBookingSites, Checked: nonEmpty(v[NameBookingSites])},
	}
}

// Elements returns handles pointing into s.
func (s *Submission) Elements() Elements {
	return Elements{
		FirstName:            &s.FirstName,
		LastName:             &s.LastName,
		Telephone:            &s.Telephone,
		Email:                &s.Email,
		House:                &s.House,
		BookingSites:         &s.BookingSites,
		BookingSitesFeedback: &s.BookingFeedback,
	}
}

// Validate runs the form validator over s.
func (s *Submission) Validate() bool {
	return Validate(s.Elements())
}

// Errors maps each failed field name to its message. The house group has no
// message of its own, so it is reported with a generic one for API callers.
func (s *Submission) Errors() map[string]string {
	errs := map[string]string{}
	for _, f := range []*Field{&s.FirstName, &s.LastName, &s.Telephone, &s.Email} {
		if f.State == Invalid {
			errs[f.Name] = f.Message
		}
	}
	if s.House.Validated {
		errs[s.House.Name] = "Please select a house."
	}
	if s.BookingFeedback.Visible {
		errs[s.BookingSites.Name] = "Please select at least one booking site."
	}
	return errs
}

func nonEmpty(in []string) []string {
	var out []string
	for _, s := range in {
		if strings.TrimSpace(s) != "" {
			out = append(out, s)
		}
	}
	return out
}
