package pipeline

// Severity levels for run log entries.
const (
	SeverityInfo    = "INFO"
	SeverityWarning = "WARNING"
	SeverityError   = "ERROR"
)

// Entry is one record of the ingestion run log.
type Entry struct {
	Severity string `json:"severity"`
	Message  string `json:"message"`
}

// Log is the ordered, append-only run log threaded through every pipeline
// stage. It is returned to the caller alongside the stage outputs and is
// never cleared mid-run.
type Log struct {
	entries []Entry
}

// NewLog returns an empty run log.
func NewLog() *Log {
	return &Log{entries: []Entry{}}
}

// Append adds an entry to the log.
func (l *Log) Append(severity, message string) {
	l.entries = append(l.entries, Entry{Severity: severity, Message: message})
}

// Info appends an INFO entry.
func (l *Log) Info(message string) { l.Append(SeverityInfo, message) }

// Warning appends a WARNING entry.
func (l *Log) Warning(message string) { l.Append(SeverityWarning, message) }

// Error appends an ERROR entry.
func (l *Log) Error(message string) { l.Append(SeverityError, message) }

// Entries returns the recorded entries in order.
func (l *Log) Entries() []Entry {
	return l.entries
}

// Count returns the number of entries with the given severity.
func (l *Log) Count(severity string) int {
	n := 0
	for _, e := range l.entries {
		if e.Severity == severity {
			n++
		}
	}
	return n
}
