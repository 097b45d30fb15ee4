package quiz

import (
	"sync"
	"time"
)

// SessionCache — живые сессии викторины в памяти, ключ — ID сообщения
// с кнопками. Сессия разрешается не более одного раза: Resolve снимает
// её из кэша только при совпадении автора, повторные и чужие нажатия
// возвращают nil.
type SessionCache struct {
	mu       sync.Mutex
	sessions map[int]*Session
}

// NewSessionCache создаёт пустой кэш сессий.
func NewSessionCache() *SessionCache {
	return &SessionCache{sessions: make(map[int]*Session)}
}

// Put регистрирует сессию под ID отправленного сообщения.
func (c *SessionCache) Put(messageID int, s *Session) {
	c.mu.Lock()
	defer c.mu.Unlock()
	s.MessageID = messageID
	c.sessions[messageID] = s
}

// Resolve забирает сессию из кэша, если нажал именно её автор.
// Возвращает nil, если сессии нет (уже разрешена или протухла)
// или нажал кто-то чужой — в последнем случае сессия остаётся жить.
func (c *SessionCache) Resolve(messageID int, userID int64) *Session {
	c.mu.Lock()
	defer c.mu.Unlock()
	s, ok := c.sessions[messageID]
	if !ok {
		return nil
	}
	if s.UserID != userID {
		return nil
	}
	delete(c.sessions, messageID)
	return s
}

// Len возвращает число живых сессий.
func (c *SessionCache) Len() int {
	c.mu.Lock()
	defer c.mu.Unlock()
	return len(c.sessions)
}

// Sweep убирает сессии, заброшенные дольше maxAge назад: автор так и
// не нажал кнопку. Возвращает число убранных. Дёргается по крону.
func (c *SessionCache) Sweep(maxAge time.Duration) int {
	c.mu.Lock()
	defer c.mu.Unlock()
	var removed int
	cutoff := time.Now().Add(-maxAge)
	for id, s := range c.sessions {
		if s.IssuedAt.Before(cutoff) {
			delete(c.sessions, id)
			removed++
		}
	}
	return removed
}
