package review

import "sync"

// ChatState tracks whether the user is currently discussing a finding.
// While a discussion is active the coordinator admits no new runs, so the
// conversation is never interrupted by a fresh notification.
type ChatState struct {
	mu             sync.Mutex
	active         bool
	notificationID string
}

func NewChatState() *ChatState {
	return &ChatState{}
}

// SetActive marks a discussion about the given notification as in progress.
func (s *ChatState) SetActive(notificationID string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.active = true
	s.notificationID = notificationID
}

// SetInactive ends the discussion.
func (s *ChatState) SetInactive() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.active = false
	s.notificationID = ""
}

func (s *ChatState) IsActive() bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.active
}

// ActiveNotificationID returns the id under discussion, or "" when idle.
func (s *ChatState) ActiveNotificationID() string {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.notificationID
}

// Status reports the chat state for introspection.
func (s *ChatState) Status() map[string]interface{} {
	s.mu.Lock()
	defer s.mu.Unlock()
	return map[string]interface{}{
		"active":          s.active,
		"notification_id": s.notificationID,
	}
}
