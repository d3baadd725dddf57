package dialog

import (
	"context"
	"sync"

	"github.com/Ferpoks/telegram-cv-bot/internal/resume"
)

// State identifies which prompt the conversation is waiting on.
type State int

const (
	StateIdle State = iota
	StateChooseLanguage
	StateChooseTemplate
	StateName
	StateTitle
	StatePhone
	StateEmail
	StateCity
	StateLinks
	StateSummary
	StateHub
	StateExpRole
	StateExpCompany
	StateExpStart
	StateExpEnd
	StateExpBullets
	StateEduDegree
	StateEduMajor
	StateEduSchool
	StateEduYear
	StateSkills
	StateExportChoice
)

// Session is the per-chat conversation record. Header fields are buffered
// here until the summary step completes and the profile is persisted.
type Session struct {
	ChatID    int64
	UserID    int64
	Username  string
	State     State
	Lang      resume.Lang
	Template  string
	ProfileID int64

	header resume.Header
	exp    resume.Experience
	edu    resume.Education

	cancelExport context.CancelFunc
}

type sessions struct {
	mu sync.Mutex
	m  map[int64]*Session
}

func newSessions() *sessions {
	return &sessions{m: make(map[int64]*Session)}
}

// get returns the session for chatID, creating an idle one if absent.
func (s *sessions) get(chatID int64) *Session {
	s.mu.Lock()
	defer s.mu.Unlock()
	sess, ok := s.m[chatID]
	if !ok {
		sess = &Session{ChatID: chatID, State: StateIdle, Lang: resume.LangArabic}
		s.m[chatID] = sess
	}
	return sess
}

// reset discards any buffered state for chatID and returns a fresh session.
func (s *sessions) reset(chatID int64) *Session {
	s.mu.Lock()
	defer s.mu.Unlock()
	if old, ok := s.m[chatID]; ok && old.cancelExport != nil {
		old.cancelExport()
	}
	sess := &Session{ChatID: chatID, State: StateIdle, Lang: resume.LangArabic}
	s.m[chatID] = sess
	return sess
}
