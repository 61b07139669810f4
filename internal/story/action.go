package story

type ActionType string

const (
	ActionCreatePassage ActionType = "createPassage"
	ActionUpdatePassage ActionType = "updatePassage"
	ActionDeletePassage ActionType = "deletePassage"
)

// PassageProps carries the fields of a create or partial update. Nil
// pointers mean "leave unchanged" on update.
type PassageProps struct {
	Name *string
	Text *string
	Tags *[]string
	Left *float64
	Top  *float64
}

// Action is the opaque mutation unit handed to the host's dispatch
// function. The assistant never inspects a dispatch result beyond whether
// dispatching failed.
type Action struct {
	Type      ActionType
	StoryID   string
	PassageID string
	Props     PassageProps
}

// Dispatch is the mutation channel into the host data layer.
type Dispatch func(Action) error

// Query returns the current full story collection. It is called fresh on
// every tool invocation; caching here would corrupt the undo id diff.
type Query func() []*Story

func StrPtr(s string) *string        { return &s }
func TagsPtr(t []string) *[]string   { return &t }
func FloatPtr(f float64) *float64    { return &f }
