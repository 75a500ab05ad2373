package models

// TaskStatus is the stored status code of a task.
type TaskStatus string

const (
	// StatusNotStarted is the default status of a new task.
	StatusNotStarted TaskStatus = "1"
	// StatusInProgress marks a task being worked on.
	StatusInProgress TaskStatus = "2"
	// StatusDone marks a finished task.
	StatusDone TaskStatus = "3"
)

var statusLabels = map[TaskStatus]string{
	StatusNotStarted: "Not started",
	StatusInProgress: "On going",
	StatusDone:       "Done",
}

// Valid reports whether s is one of the known status codes.
func (s TaskStatus) Valid() bool {
	_, ok := statusLabels[s]
	return ok
}

// Label returns the human-readable name of the status, or the raw code
// when it is unknown.
func (s TaskStatus) Label() string {
	if l, ok := statusLabels[s]; ok {
		return l
	}
	return string(s)
}
