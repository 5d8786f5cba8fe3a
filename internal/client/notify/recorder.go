package notify

import "sync"

// Entry is one alert captured by a Recorder.
type Entry struct {
	Level Level
	Title string
	Text  string
}

// Recorder keeps alerts in memory. Tests use it in place of Console.
type Recorder struct {
	mu      sync.Mutex
	entries []Entry
}

func (r *Recorder) add(l Level, title, text string) {
	r.mu.Lock()
	r.entries = append(r.entries, Entry{Level: l, Title: title, Text: text})
	r.mu.Unlock()
}

func (r *Recorder) Success(title, text string) { r.add(LevelSuccess, title, text) }
func (r *Recorder) Error(title, text string)   { r.add(LevelError, title, text) }
func (r *Recorder) Warning(title, text string) { r.add(LevelWarning, title, text) }
func (r *Recorder) Info(title, text string)    { r.add(LevelInfo, title, text) }
func (r *Recorder) Toast(level Level, title string) {
	r.add(level, title, "")
}

func (r *Recorder) Question(title, text, _, _ string) {
	r.add(LevelQuestion, title, text)
}

// Entries returns a copy of what was recorded.
func (r *Recorder) Entries() []Entry {
	r.mu.Lock()
	defer r.mu.Unlock()
	out := make([]Entry, len(r.entries))
	copy(out, r.entries)
	return out
}

// Last returns the most recent entry, if any.
func (r *Recorder) Last() (Entry, bool) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if len(r.entries) == 0 {
		return Entry{}, false
	}
	return r.entries[len(r.entries)-1], true
}

// Reset drops all entries.
func (r *Recorder) Reset() {
	r.mu.Lock()
	r.entries = nil
	r.mu.Unlock()
}
