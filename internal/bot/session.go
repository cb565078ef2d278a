package bot

import "sync"

// Conversation modes. The bot asks a question, stores the mode, and the next
// plain-text message is interpreted against it.
const (
	modeNone             = ""
	modeRenameBeforeSave = "rename_before_save"
	modeNoteTitle        = "note_title"
	modeNoteContent      = "note_content"
	modeNewCategory      = "new_category"
	modeSearch           = "search"
	modeRename           = "rename"
	modeDelete           = "delete"
)

// pendingFile is an upload (or note) waiting for the user to pick a category.
type pendingFile struct {
	Name           string
	Kind           string
	TelegramFileID string
	Content        []byte
}

// session is the per-chat conversation state.
type session struct {
	Mode      string
	Category  string // current default category for uploads
	Pending   *pendingFile
	NoteTitle string
}

// sessionStore keeps sessions in memory, keyed by chat id. State is
// conversational only; losing it on restart is harmless.
type sessionStore struct {
	mu       sync.RWMutex
	sessions map[int64]*session
}

func newSessionStore() *sessionStore {
	return &sessionStore{sessions: make(map[int64]*session)}
}

// get returns the session for a chat, creating it on first use.
func (s *sessionStore) get(chatID int64) *session {
	s.mu.Lock()
	defer s.mu.Unlock()

	sess, ok := s.sessions[chatID]
	if !ok {
		sess = &session{}
		s.sessions[chatID] = sess
	}
	return sess
}

// clearMode resets the conversation mode but keeps the default category.
func (s *sessionStore) clearMode(chatID int64) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if sess, ok := s.sessions[chatID]; ok {
		sess.Mode = modeNone
	}
}

// clearPending drops any file waiting to be saved.
func (s *sessionStore) clearPending(chatID int64) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if sess, ok := s.sessions[chatID]; ok {
		sess.Pending = nil
		sess.NoteTitle = ""
	}
}
