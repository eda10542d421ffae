package session

// Session tracks the logged-in user for the lifetime of the process. Nothing
// is persisted: a restart always begins logged out, and a fresh login is
// required. Logout side effects (cancelling reminders, clearing their stored
// record) belong to the caller, not to the session.
type Session struct {
	userID   int64
	loggedIn bool
}

func New() *Session {
	return &Session{}
}

// Login records the user id and marks the session active.
func (s *Session) Login(userID int64) {
	s.userID = userID
	s.loggedIn = true
}

// Logout clears the session.
func (s *Session) Logout() {
	s.userID = 0
	s.loggedIn = false
}

func (s *Session) UserID() int64 {
	return s.userID
}

func (s *Session) LoggedIn() bool {
	return s.loggedIn
}
