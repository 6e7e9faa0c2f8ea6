package review

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestChatState_Lifecycle(t *testing.T) {
	state := NewChatState()
	assert.False(t, state.IsActive())
	assert.Empty(t, state.ActiveNotificationID())

	state.SetActive("notif-123")
	assert.True(t, state.IsActive())
	assert.Equal(t, "notif-123", state.ActiveNotificationID())

	state.SetInactive()
	assert.False(t, state.IsActive())
	assert.Empty(t, state.ActiveNotificationID())
}

func TestChatState_Status(t *testing.T) {
	state := NewChatState()
	state.SetActive("notif-9")

	status := state.Status()
	assert.Equal(t, true, status["active"])
	assert.Equal(t, "notif-9", status["notification_id"])
}
