package proposals

import "strings"

type Status string

const (
	StatusPending   Status = "PENDING"
	StatusAccepted  Status = "ACCEPTED"
	StatusRejected  Status = "REJECTED"
	StatusCompleted Status = "COMPLETED"
	StatusCanceled  Status = "CANCELED"
)

// AllStatuses is in display order.
var AllStatuses = []Status{StatusPending, StatusAccepted, StatusRejected, StatusCompleted, StatusCanceled}

func ParseStatus(s string) (Status, bool) {
	for _, st := range AllStatuses {
		if string(st) == s {
			return st, true
		}
	}
	return "", false
}

func statusList() string {
	names := make([]string, len(AllStatuses))
	for i, st := range AllStatuses {
		names[i] = string(st)
	}
	return strings.Join(names, ", ")
}

// TransitionPolicy decides whether a proposal may move from one status to another.
type TransitionPolicy interface {
	Allow(from, to Status) bool
}

// FlatPolicy accepts any valid status regardless of the current one.
type FlatPolicy struct{}

func (FlatPolicy) Allow(_, _ Status) bool { return true }

// StrictPolicy only allows the listed transitions. Terminal states have none.
type StrictPolicy struct{}

var transitions = map[Status]map[Status]bool{
	StatusPending: {
		StatusAccepted: true,
		StatusRejected: true,
		StatusCanceled: true,
	},
	StatusAccepted: {
		StatusCompleted: true,
		StatusCanceled:  true,
	},
}

func (StrictPolicy) Allow(from, to Status) bool {
	return transitions[from][to]
}

// PolicyFor returns StrictPolicy when strict is set, FlatPolicy otherwise.
func PolicyFor(strict bool) TransitionPolicy {
	if strict {
		return StrictPolicy{}
	}
	return FlatPolicy{}
}
