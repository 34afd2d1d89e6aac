package auth

import (
	"sync"

	"github.com/google/uuid"
	"golang.org/x/oauth2"
)

// session is one logged-in browser. Sessions live in memory only; a process
// restart logs everyone out, which is acceptable for this service.
type session struct {
	token  *oauth2.Token
	userID string
}

// sessionStore is a mutex-guarded map of session ID to session. Unlike the
// recommendation pipeline, sessions are shared across requests and need the
// lock.
type sessionStore struct {
	mu       sync.Mutex
	sessions map[string]*session
}

func newSessionStore() *sessionStore {
	return &sessionStore{sessions: make(map[string]*session)}
}

func (s *sessionStore) create(token *oauth2.Token) string {
	id := uuid.NewString()
	s.mu.Lock()
	s.sessions[id] = &session{token: token}
	s.mu.Unlock()
	return id
}

func (s *sessionStore) get(id string) (*oauth2.Token, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	sess, ok := s.sessions[id]
	if !ok {
		return nil, false
	}
	return sess.token, true
}

func (s *sessionStore) setToken(id string, token *oauth2.Token) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if sess, ok := s.sessions[id]; ok {
		sess.token = token
	}
}

func (s *sessionStore) userID(id string) string {
	s.mu.Lock()
	defer s.mu.Unlock()
	if sess, ok := s.sessions[id]; ok {
		return sess.userID
	}
	return ""
}

func (s *sessionStore) setUserID(id, userID string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if sess, ok := s.sessions[id]; ok {
		sess.userID = userID
	}
}

func (s *sessionStore) delete(id string) {
	s.mu.Lock()
	delete(s.sessions, id)
	s.mu.Unlock()
}
