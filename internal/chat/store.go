package chat

import (
	"fmt"
	"sync"

	"github.com/google/uuid"
)

// Turn roles.
const (
	RoleUser = "user"
	RoleAI   = "ai"
)

// Turn is a single chat message. Immutable once appended.
type Turn struct {
	Role    string `json:"role"`
	Content string `json:"content"`
}

// Conversation is a named, ordered sequence of turns.
type Conversation struct {
	ID    string `json:"id"`
	Name  string `json:"name"`
	Turns []Turn `json:"turns"`
}

// Store holds every conversation, the active conversation id and the simple
// UI toggles. All access is serialized through the mutex; no persistence.
type Store struct {
	mu             sync.Mutex
	conversations  []*Conversation
	activeID       string
	darkMode       bool
	sidebarOpen    bool
	showTranscript bool
}

// NewStore creates a store seeded with one empty active conversation.
func NewStore() *Store {
	first := &Conversation{ID: uuid.NewString(), Name: "Current Chat"}
	return &Store{
		conversations: []*Conversation{first},
		activeID:      first.ID,
		sidebarOpen:   true,
	}
}

// NewConversation appends a new empty conversation and makes it active.
func (s *Store) NewConversation() *Conversation {
	s.mu.Lock()
	defer s.mu.Unlock()
	c := &Conversation{
		ID:   uuid.NewString(),
		Name: fmt.Sprintf("Chat %d", len(s.conversations)+1),
	}
	s.conversations = append(s.conversations, c)
	s.activeID = c.ID
	return s.snapshotLocked(c)
}

// Switch stores the given id as active. Unknown ids are stored as-is; Active
// falls back to the first conversation when the id does not resolve.
func (s *Store) Switch(id string) {
	s.mu.Lock()
	s.activeID = id
	s.mu.Unlock()
}

// Active returns a copy of the active conversation, falling back to the
// first one when the active id is unknown.
func (s *Store) Active() Conversation {
	s.mu.Lock()
	defer s.mu.Unlock()
	return *s.snapshotLocked(s.activeLocked())
}

func (s *Store) activeLocked() *Conversation {
	for _, c := range s.conversations {
		if c.ID == s.activeID {
			return c
		}
	}
	return s.conversations[0]
}

// snapshotLocked copies a conversation so callers never alias internal state.
func (s *Store) snapshotLocked(c *Conversation) *Conversation {
	cp := &Conversation{ID: c.ID, Name: c.Name}
	cp.Turns = append([]Turn(nil), c.Turns...)
	return cp
}

// Conversations returns copies of all conversations in creation order.
func (s *Store) Conversations() []Conversation {
	s.mu.Lock()
	defer s.mu.Unlock()
	out := make([]Conversation, 0, len(s.conversations))
	for _, c := range s.conversations {
		out = append(out, *s.snapshotLocked(c))
	}
	return out
}

// AppendExchange appends a user turn followed by an ai turn to the active
// conversation.
func (s *Store) AppendExchange(user, ai string) {
	s.mu.Lock()
	c := s.activeLocked()
	c.Turns = append(c.Turns, Turn{Role: RoleUser, Content: user}, Turn{Role: RoleAI, Content: ai})
	s.mu.Unlock()
}

// LastTurns returns up to n most recent turns of the active conversation.
func (s *Store) LastTurns(n int) []Turn {
	s.mu.Lock()
	defer s.mu.Unlock()
	turns := s.activeLocked().Turns
	if len(turns) > n {
		turns = turns[len(turns)-n:]
	}
	return append([]Turn(nil), turns...)
}

// LastTurn returns the most recent turn of the active conversation, if any.
func (s *Store) LastTurn() (Turn, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	turns := s.activeLocked().Turns
	if len(turns) == 0 {
		return Turn{}, false
	}
	return turns[len(turns)-1], true
}

// ToggleDarkMode flips and returns the dark-mode flag.
func (s *Store) ToggleDarkMode() bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.darkMode = !s.darkMode
	return s.darkMode
}

// ToggleSidebar flips and returns the sidebar flag.
func (s *Store) ToggleSidebar() bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.sidebarOpen = !s.sidebarOpen
	return s.sidebarOpen
}

// SetShowTranscript sets the transcript visibility flag.
func (s *Store) SetShowTranscript(show bool) {
	s.mu.Lock()
	s.showTranscript = show
	s.mu.Unlock()
}

// Flags reports the current UI toggles.
func (s *Store) Flags() (darkMode, sidebarOpen, showTranscript bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.darkMode, s.sidebarOpen, s.showTranscript
}
