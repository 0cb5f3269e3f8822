package domain

// RuleField is the email field a rule condition inspects.
type RuleField string

const (
	RuleFieldSender  RuleField = "sender"
	RuleFieldSubject RuleField = "subject"
	RuleFieldBody    RuleField = "body"
)

// RuleOperator compares a field against the rule value.
type RuleOperator string

const (
	RuleContains RuleOperator = "contains"
	RuleEquals   RuleOperator = "equals"
)

type RuleCondition struct {
	Field    RuleField
	Operator RuleOperator
	Value    string
}

// RuleAction is either AddLabel or MoveToFolder.
type RuleAction interface {
	ruleAction()
}

type AddLabel struct {
	Name string
}

type MoveToFolder struct {
	Folder Folder
}

func (AddLabel) ruleAction()     {}
func (MoveToFolder) ruleAction() {}

type Rule struct {
	ID        string
	Condition RuleCondition
	Action    RuleAction
}

// Field returns the rule-addressable text of an email.
func (e *Email) Field(f RuleField) string {
	switch f {
	case RuleFieldSender:
		return e.Sender
	case RuleFieldSubject:
		return e.Subject
	case RuleFieldBody:
		return e.Body
	}
	return ""
}
