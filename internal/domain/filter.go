package domain

// FilterField is the email attribute a filter condition tests.
type FilterField string

const (
	FilterSender          FilterField = "sender"
	FilterSubject         FilterField = "subject"
	FilterLabelName       FilterField = "labelName"
	FilterLabelConfidence FilterField = "labelConfidence"
)

type FilterOperator string

const (
	OpContains    FilterOperator = "contains"
	OpNotContains FilterOperator = "not-contains"
	OpEquals      FilterOperator = "equals"
	OpNotEquals   FilterOperator = "not-equals"
	OpGreater     FilterOperator = ">"
	OpLess        FilterOperator = "<"
)

type FilterCondition struct {
	ID       string
	Field    FilterField
	Operator FilterOperator
	Value    string
}

// FilterLogic combines several filter conditions.
type FilterLogic string

const (
	LogicAnd FilterLogic = "AND"
	LogicOr  FilterLogic = "OR"
)

// ActiveFilter picks the base bucket shown before advanced filtering. Exactly
// one of Folder or Label is set.
type ActiveFilter struct {
	Folder Folder
	Label  string
}

func FolderFilter(f Folder) ActiveFilter { return ActiveFilter{Folder: f} }
func LabelFilter(name string) ActiveFilter { return ActiveFilter{Label: name} }

// IsLabel reports whether the filter selects by label.
func (a ActiveFilter) IsLabel() bool {
	return a.Label != ""
}

func (a ActiveFilter) String() string {
	if a.IsLabel() {
		return "label:" + a.Label
	}
	return "folder:" + string(a.Folder)
}

type SortKey string

const (
	SortTimestamp SortKey = "timestamp"
	SortRead      SortKey = "read"
	SortSender    SortKey = "sender"
)

type SortDirection string

const (
	Asc  SortDirection = "asc"
	Desc SortDirection = "desc"
)

type SortConfig struct {
	Key       SortKey
	Direction SortDirection
}

// DefaultSort orders newest first.
var DefaultSort = SortConfig{Key: SortTimestamp, Direction: Desc}
