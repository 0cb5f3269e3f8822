package domain

import "github.com/google/uuid"

// LabelSource records where a label came from.
type LabelSource string

const (
	SourceAI   LabelSource = "ai"
	SourceUser LabelSource = "user"
	SourceRule LabelSource = "rule"
)

type Label struct {
	ID         string
	Name       string
	Confidence float64
	Source     LabelSource
}

// JunkLabel is the name of the label attached to emails moved to Spam.
const JunkLabel = "Junk"

// labelNamespace scopes generated label ids.
var labelNamespace = uuid.MustParse("5b0d8f43-3c1e-4b8a-9a55-2f7c6c1f0e21")

// LabelID derives a stable id from the owning email, the label name and its
// source. Generating the same label twice yields the same id.
func LabelID(emailID, name string, src LabelSource) string {
	return string(src) + "-" + uuid.NewSHA1(labelNamespace, []byte(emailID+"\x00"+name+"\x00"+string(src))).String()
}

// Suggestion is a label proposed by the AI labeling service.
type Suggestion struct {
	Name       string  `json:"name"`
	Confidence float64 `json:"confidence"`
}

// SpamSettings controls promotion of AI spam suggestions to a Junk label.
type SpamSettings struct {
	Enabled             bool
	ConfidenceThreshold float64
}
