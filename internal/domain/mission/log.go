package mission

import "github.com/mars-sim/mars-sim-sub009/internal/domain/shared"

// LogEntry is one line of a mission's own log
type LogEntry struct {
	Time      shared.MarsTime `json:"time"`
	Entry     string          `json:"entry"`
	EnteredBy string          `json:"entered_by"`
}

// Log keeps the chronological record of a mission
type Log struct {
	entries []LogEntry
}

// Add appends an entry unless it repeats the previous one
func (l *Log) Add(at shared.MarsTime, entry, enteredBy string) {
	if n := len(l.entries); n > 0 && l.entries[n-1].Entry == entry {
		return
	}
	l.entries = append(l.entries, LogEntry{Time: at, Entry: entry, EnteredBy: enteredBy})
}

func (l *Log) Entries() []LogEntry {
	out := make([]LogEntry, len(l.entries))
	copy(out, l.entries)
	return out
}

// LastEntry returns the most recent entry
func (l *Log) LastEntry() (LogEntry, bool) {
	if len(l.entries) == 0 {
		return LogEntry{}, false
	}
	return l.entries[len(l.entries)-1], true
}
