package validation

// State of a single required input.
type State string

const (
	Pending State = "pending"
	Valid   State = "valid"
	Invalid State = "invalid"
)

// Status pairs one required input with the message shown while it is not
// satisfied.
type Status struct {
	Field   string `json:"field"`
	Message string `json:"message"`
	State   State  `json:"state"`

	defaultMessage string
}

func NewStatus(field, message string) *Status {
	return &Status{Field: field, Message: message, State: Pending, defaultMessage: message}
}

// Set marks the status valid or invalid and puts the default message back.
func (s *Status) Set(valid bool) {
	s.Message = s.defaultMessage
	if valid {
		s.State = Valid
	} else {
		s.State = Invalid
	}
}

// SetMessage marks the status invalid with a message other than the default one.
func (s *Status) SetMessage(message string) {
	s.Message = message
	s.State = Invalid
}

func (s *Status) Clear() { s.State = Pending }

func (s *Status) IsValid() bool   { return s.State == Valid }
func (s *Status) IsInvalid() bool { return s.State == Invalid }

// Snapshot is a copy of a set of statuses safe to hand out of the editing loop.
func Snapshot(statuses ...*Status) []Status {
	out := make([]Status, 0, len(statuses))
	for _, s := range statuses {
		out = append(out, *s)
	}
	return out
}

// AllValid reports whether no status is invalid. Pending statuses count as
// valid so an editor that was never activated does not block anything.
func AllValid(statuses []Status) bool {
	for _, s := range statuses {
		if s.State == Invalid {
			return false
		}
	}
	return true
}
