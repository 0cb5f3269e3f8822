package cli

import (
	"sort"
	"time"

	"github.com/lu-zhengda/triagemail/internal/app"
	"github.com/lu-zhengda/triagemail/internal/domain"
	"github.com/lu-zhengda/triagemail/internal/view"
)

// ---------------------------------------------------------------------------
// Email JSON types (list, show)
// ---------------------------------------------------------------------------

type jsonEmail struct {
	ID              string      `json:"id"`
	Sender          string      `json:"sender"`
	Recipient       string      `json:"recipient"`
	Subject         string      `json:"subject"`
	Body            string      `json:"body,omitempty"`
	Timestamp       string      `json:"timestamp"`
	Read            bool        `json:"read"`
	Folder          string      `json:"folder"`
	Labels          []jsonLabel `json:"labels"`
	AnalysisSkipped bool        `json:"analysis_skipped,omitempty"`
	Selected        bool        `json:"selected,omitempty"`
}

func toJSONEmail(e *domain.Email, withBody bool) jsonEmail {
	out := jsonEmail{
		ID:              e.ID,
		Sender:          e.Sender,
		Recipient:       e.Recipient,
		Subject:         e.Subject,
		Timestamp:       e.Timestamp.Format(time.RFC3339),
		Read:            e.Read,
		Folder:          string(e.Folder),
		Labels:          toJSONLabels(e.Labels),
		AnalysisSkipped: e.AnalysisSkipped,
	}
	if withBody {
		out.Body = e.Body
	}
	return out
}

func toJSONEmails(emails []domain.Email, selected []string) []jsonEmail {
	sel := make(map[string]bool, len(selected))
	for _, id := range selected {
		sel[id] = true
	}
	out := make([]jsonEmail, 0, len(emails))
	for i := range emails {
		je := toJSONEmail(&emails[i], false)
		je.Selected = sel[emails[i].ID]
		out = append(out, je)
	}
	return out
}

// ---------------------------------------------------------------------------
// Email detail JSON type (show)
// ---------------------------------------------------------------------------

type jsonEmailDetail struct {
	jsonEmail
	From      jsonSender  `json:"from"`
	AddedByAI []jsonLabel `json:"added_by_ai,omitempty"`
	AIError   string      `json:"ai_error,omitempty"`
}

type jsonSender struct {
	Name      string `json:"name"`
	Email     string `json:"email"`
	IsContact bool   `json:"is_contact"`
}

func toJSONSender(s app.Sender) jsonSender {
	return jsonSender{Name: s.Name, Email: s.Email, IsContact: s.IsContact}
}

// ---------------------------------------------------------------------------
// Label JSON types (labels)
// ---------------------------------------------------------------------------

type jsonLabel struct {
	ID         string  `json:"id"`
	Name       string  `json:"name"`
	Confidence float64 `json:"confidence"`
	Source     string  `json:"source"`
}

func toJSONLabel(l domain.Label) jsonLabel {
	return jsonLabel{ID: l.ID, Name: l.Name, Confidence: l.Confidence, Source: string(l.Source)}
}

func toJSONLabels(labels []domain.Label) []jsonLabel {
	out := make([]jsonLabel, 0, len(labels))
	for _, l := range labels {
		out = append(out, toJSONLabel(l))
	}
	return out
}

type jsonLabelCount struct {
	Name   string `json:"name"`
	Emails int    `json:"emails"`
	Unread int    `json:"unread"`
}

func toJSONLabelCounts(labels []view.LabelCount, unread map[string]int) []jsonLabelCount {
	out := make([]jsonLabelCount, 0, len(labels))
	for _, l := range labels {
		out = append(out, jsonLabelCount{Name: l.Name, Emails: l.Count, Unread: unread[l.Name]})
	}
	return out
}

// ---------------------------------------------------------------------------
// Counter JSON type (counts)
// ---------------------------------------------------------------------------

type jsonFolderCount struct {
	Folder string `json:"folder"`
	Unread int    `json:"unread"`
}

type jsonCounts struct {
	Folders []jsonFolderCount `json:"folders"`
	Labels  map[string]int    `json:"labels"`
}

func toJSONCounts(c app.Counts) jsonCounts {
	out := jsonCounts{Labels: c.Labels}
	if out.Labels == nil {
		out.Labels = map[string]int{}
	}
	for _, f := range domain.Folders {
		out.Folders = append(out.Folders, jsonFolderCount{Folder: string(f), Unread: c.Folders[f]})
	}
	return out
}

// ---------------------------------------------------------------------------
// Training JSON type (training)
// ---------------------------------------------------------------------------

type jsonTraining struct {
	ID        string `json:"id"`
	Label     string `json:"label"`
	Feedback  string `json:"feedback"`
	Timestamp string `json:"timestamp"`
	EmailBody string `json:"email_body"`
}

func toJSONTraining(entries []domain.TrainingEntry) []jsonTraining {
	out := make([]jsonTraining, 0, len(entries))
	for _, e := range entries {
		out = append(out, jsonTraining{
			ID:        e.ID,
			Label:     e.Label,
			Feedback:  string(e.Feedback),
			Timestamp: e.Timestamp.Format(time.RFC3339),
			EmailBody: e.EmailBody,
		})
	}
	return out
}

// ---------------------------------------------------------------------------
// Contact JSON type (contacts)
// ---------------------------------------------------------------------------

type jsonContact struct {
	ID     string   `json:"id"`
	Name   string   `json:"name"`
	Emails []string `json:"emails"`
}

func toJSONContacts(contacts []domain.Contact) []jsonContact {
	out := make([]jsonContact, 0, len(contacts))
	for _, c := range contacts {
		emails := c.Emails
		if emails == nil {
			emails = []string{}
		}
		out = append(out, jsonContact{ID: c.ID, Name: c.Name, Emails: emails})
	}
	sort.SliceStable(out, func(i, j int) bool { return out[i].Name < out[j].Name })
	return out
}

// ---------------------------------------------------------------------------
// Rule JSON type (rules)
// ---------------------------------------------------------------------------

type jsonRule struct {
	ID       string `json:"id"`
	Field    string `json:"field"`
	Operator string `json:"operator"`
	Value    string `json:"value"`
	Action   string `json:"action"`
	Target   string `json:"target"`
}

func toJSONRules(rules []domain.Rule) []jsonRule {
	out := make([]jsonRule, 0, len(rules))
	for _, r := range rules {
		jr := jsonRule{
			ID:       r.ID,
			Field:    string(r.Condition.Field),
			Operator: string(r.Condition.Operator),
			Value:    r.Condition.Value,
		}
		switch a := r.Action.(type) {
		case domain.AddLabel:
			jr.Action, jr.Target = "add_label", a.Name
		case domain.MoveToFolder:
			jr.Action, jr.Target = "move_to_folder", string(a.Folder)
		}
		out = append(out, jr)
	}
	return out
}

// ---------------------------------------------------------------------------
// Action JSON type (move, archive, delete, junk, label edits, send, etc.)
// ---------------------------------------------------------------------------

type jsonAction struct {
	OK       bool       `json:"ok"`
	Action   string     `json:"action"`
	IDs      []string   `json:"ids,omitempty"`
	Label    *jsonLabel `json:"label,omitempty"`
	Selected []string   `json:"selected"`
}

func newJSONAction(action string, ids []string, selected []string) jsonAction {
	if selected == nil {
		selected = []string{}
	}
	return jsonAction{OK: true, Action: action, IDs: ids, Selected: selected}
}
