package mailbox

import "github.com/lu-zhengda/triagemail/internal/domain"

// Command is a state transition understood by Reduce. The set is closed:
// only types in this package implement it.
type Command interface {
	command()
}

// SetAll replaces the whole mailbox.
type SetAll struct {
	Emails []domain.Email
}

// SetReadStatus marks the given emails read or unread.
type SetReadStatus struct {
	IDs  []string
	Read bool
}

// MoveToFolder relocates the given emails.
type MoveToFolder struct {
	IDs    []string
	Folder domain.Folder
}

// AddJunkLabelAndMove tags the given emails Junk, marks them read and moves
// them to Spam.
type AddJunkLabelAndMove struct {
	IDs []string
}

// UpdateLabels replaces the label list of one email. Callers are responsible
// for name uniqueness.
type UpdateLabels struct {
	EmailID string
	Labels  []domain.Label
}

// AddEmail prepends an email.
type AddEmail struct {
	Email domain.Email
}

// EmptyTrash purges every email in Trash.
type EmptyTrash struct{}

// SetAnalysisSkipped toggles the flag that suppresses AI analysis.
type SetAnalysisSkipped struct {
	IDs     []string
	Skipped bool
}

func (SetAll) command()              {}
func (SetReadStatus) command()       {}
func (MoveToFolder) command()        {}
func (AddJunkLabelAndMove) command() {}
func (UpdateLabels) command()        {}
func (AddEmail) command()            {}
func (EmptyTrash) command()          {}
func (SetAnalysisSkipped) command()  {}
