package contact

import (
	"strings"

	"github.com/qasimqz1/ecommerce/pkg/validator"

	"github.com/qasimqz1/ecommerce/internal/notify"
)

// Messages shown for a failed or accepted submission.
const (
	InvalidSubmitMessage = "Please correct the highlighted fields."
	SuccessMessage       = "Thank you for your message! We'll get back to you within 24 hours."
)

// Form fields in display order.
const (
	FieldName    = "name"
	FieldEmail   = "email"
	FieldPhone   = "phone"
	FieldSubject = "subject"
	FieldMessage = "message"
)

// FieldOrder is the order fields appear in the form. The first invalid one
// in this order receives focus.
var FieldOrder = []string{FieldName, FieldEmail, FieldPhone, FieldSubject, FieldMessage}

type rule struct {
	tag      string
	messages map[string]string
}

const requiredMessage = "This field is required."

var rules = map[string]rule{
	FieldName: {
		tag: "required,min=2",
		messages: map[string]string{
			"required": requiredMessage,
			"min":      "Please enter at least 2 characters.",
		},
	},
	FieldEmail: {
		tag: "required,looseemail",
		messages: map[string]string{
			"required":   requiredMessage,
			"looseemail": "Please enter a valid email address.",
		},
	},
	FieldPhone: {
		tag: "omitempty,phone",
		messages: map[string]string{
			"phone": "Please enter a valid phone number.",
		},
	},
	FieldMessage: {
		tag: "required,min=10",
		messages: map[string]string{
			"required": requiredMessage,
			"min":      "Message should be at least 10 characters.",
		},
	},
}

// State is the visual state of a form group.
type State string

const (
	StateInvalid State = "invalid"
	StateValid   State = "valid"
	// StateNeutral is an optional field left empty.
	StateNeutral State = "neutral"
)

// FieldState is the outcome of checking one field.
type FieldState struct {
	State   State  `json:"state"`
	Message string `json:"message,omitempty"`
}

// OK reports whether the field does not block submission.
func (fs FieldState) OK() bool {
	return fs.State != StateInvalid
}

// ValidateField checks one field as the user edits it. Values are trimmed
// before every rule.
func ValidateField(field, value string) FieldState {
	value = strings.TrimSpace(value)
	if r, ok := rules[field]; ok {
		if err := validator.Var(value, r.tag); err != nil {
			return FieldState{State: StateInvalid, Message: r.messages[validator.FailedTag(err)]}
		}
	}
	if value == "" {
		return FieldState{State: StateNeutral}
	}
	return FieldState{State: StateValid}
}

// Form is a contact form submission.
type Form struct {
	Name    string `json:"name"`
	Email   string `json:"email"`
	Phone   string `json:"phone"`
	Subject string `json:"subject"`
	Message string `json:"message"`
}

func (f Form) value(field string) string {
	switch field {
	case FieldName:
		return f.Name
	case FieldEmail:
		return f.Email
	case FieldPhone:
		return f.Phone
	case FieldSubject:
		return f.Subject
	case FieldMessage:
		return f.Message
	default:
		return ""
	}
}

// Result is the outcome of validating a whole form.
type Result struct {
	Valid        bool                  `json:"valid"`
	Fields       map[string]FieldState `json:"fields"`
	FirstInvalid string                `json:"first_invalid,omitempty"`
}

// Validate checks every field in form order.
func Validate(f Form) Result {
	res := Result{Valid: true, Fields: make(map[string]FieldState, len(FieldOrder))}
	for _, field := range FieldOrder {
		fs := ValidateField(field, f.value(field))
		res.Fields[field] = fs
		if !fs.OK() {
			res.Valid = false
			if res.FirstInvalid == "" {
				res.FirstInvalid = field
			}
		}
	}
	return res
}

// Notifier receives the submission outcome message.
type Notifier interface {
	Success(message string) notify.Notification
	Error(message string) notify.Notification
}

// Submission is what the page shows after a submit attempt.
type Submission struct {
	Result
	Message string `json:"message"`
	// Form is the form to display next: unchanged on failure, reset on success.
	Form Form `json:"form"`
}

// Submit validates the form and reports the outcome through n, which may be
// nil. Nothing is sent anywhere.
func Submit(f Form, n Notifier) Submission {
	res := Validate(f)
	if !res.Valid {
		if n != nil {
			n.Error(InvalidSubmitMessage)
		}
		return Submission{Result: res, Message: InvalidSubmitMessage, Form: f}
	}

	if n != nil {
		n.Success(SuccessMessage)
	}
	cleared := make(map[string]FieldState, len(FieldOrder))
	for _, field := range FieldOrder {
		cleared[field] = FieldState{State: StateNeutral}
	}
	return Submission{
		Result:  Result{Valid: true, Fields: cleared},
		Message: SuccessMessage,
		Form:    Form{},
	}
}
