// Package chatclient is the client side of a document chat: a pure
// reducer over the paginated message list, an HTTP client for the API,
// and a Session that applies optimistic updates around each send.
package chatclient

import (
	"slices"
	"time"
)

// Provenance tells where a message entry came from.
type Provenance int

const (
	// Persisted entries were returned by the server and carry its ID.
	Persisted Provenance = iota
	// Provisional entries were rendered locally before confirmation.
	Provisional
	// Streaming is the single assistant entry being generated.
	Streaming
)

func (p Provenance) String() string {
	switch p {
	case Persisted:
		return "persisted"
	case Provisional:
		return "provisional"
	case Streaming:
		return "streaming"
	default:
		return "unknown"
	}
}

// Entry is one rendered message.
type Entry struct {
	ID            string
	Text          string
	IsUserMessage bool
	UpdatedAt     time.Time
	Provenance    Provenance
}

// Page is one page of entries, newest first.
type Page struct {
	Entries    []Entry
	NextCursor *string
}

// State is the client view of a conversation. Values are treated as
// immutable: every transition returns a new State sharing nothing
// mutable with its input.
type State struct {
	Pages   []Page
	Input   string
	Loading bool
}

// Snapshot is the state captured before an optimistic send.
type Snapshot struct {
	pages []Page
	input string
}

// Messages flattens all pages, newest first.
func (s State) Messages() []Entry {
	var out []Entry
	for _, p := range s.Pages {
		out = append(out, p.Entries...)
	}
	return out
}

// Streaming returns the in-progress assistant entry, if any.
func (s State) Streaming() (Entry, bool) {
	for _, p := range s.Pages {
		for _, e := range p.Entries {
			if e.Provenance == Streaming {
				return e, true
			}
		}
	}
	return Entry{}, false
}

// NextCursor returns the cursor for loading older messages.
func (s State) NextCursor() *string {
	if len(s.Pages) == 0 {
		return nil
	}
	return s.Pages[len(s.Pages)-1].NextCursor
}

// BeginSend renders text as a provisional user entry at the head of the
// newest page, clears the input and marks the state loading. The
// returned snapshot restores the state as it was before, with text put
// back into the input.
func BeginSend(s State, text, localID string, now time.Time) (State, Snapshot) {
	snap := Snapshot{pages: clonePages(s.Pages), input: text}

	next := State{Pages: clonePages(s.Pages), Loading: true}
	entry := Entry{ID: localID, Text: text, IsUserMessage: true, UpdatedAt: now, Provenance: Provisional}
	next.Pages = prepend(next.Pages, entry)
	return next, snap
}

// ApplyDelta sets the streaming entry's text to accumulated, creating the
// entry on first use. Applying the same accumulated text twice yields the
// same state.
func ApplyDelta(s State, accumulated string, now time.Time) State {
	next := State{Pages: clonePages(s.Pages), Input: s.Input, Loading: s.Loading}
	for pi := range next.Pages {
		for ei := range next.Pages[pi].Entries {
			if next.Pages[pi].Entries[ei].Provenance == Streaming {
				next.Pages[pi].Entries[ei].Text = accumulated
				return next
			}
		}
	}
	next.Pages = prepend(next.Pages, Entry{Text: accumulated, UpdatedAt: now, Provenance: Streaming})
	return next
}

// Settle ends loading. Local entries stay until Replace brings the
// server's copies.
func Settle(s State) State {
	return State{Pages: clonePages(s.Pages), Input: s.Input, Loading: false}
}

// Rollback restores a snapshot taken by BeginSend.
func Rollback(snap Snapshot) State {
	return State{Pages: clonePages(snap.pages), Input: snap.input, Loading: false}
}

// Replace swaps in an authoritative list fetched from the server.
func Replace(s State, pages []Page) State {
	return State{Pages: clonePages(pages), Input: s.Input, Loading: s.Loading}
}

// AppendPage adds an older page fetched with NextCursor.
func AppendPage(s State, page Page) State {
	next := State{Pages: clonePages(s.Pages), Input: s.Input, Loading: s.Loading}
	next.Pages = append(next.Pages, clonePage(page))
	return next
}

func prepend(pages []Page, e Entry) []Page {
	if len(pages) == 0 {
		return []Page{{Entries: []Entry{e}}}
	}
	pages[0].Entries = slices.Insert(pages[0].Entries, 0, e)
	return pages
}

func clonePages(pages []Page) []Page {
	if pages == nil {
		return nil
	}
	out := make([]Page, len(pages))
	for i, p := range pages {
		out[i] = clonePage(p)
	}
	return out
}

func clonePage(p Page) Page {
	c := Page{Entries: slices.Clone(p.Entries)}
	if p.NextCursor != nil {
		cursor := *p.NextCursor
		c.NextCursor = &cursor
	}
	return c
}
