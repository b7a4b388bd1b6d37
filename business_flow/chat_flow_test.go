package businessflow

import (
	"context"
	"testing"

	"github.com/eduvia/eduvia-api/models"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func seedSession(repo *fakeChatRepo, userID uint, title string, messages ...string) *models.ChatSession {
	session := &models.ChatSession{UserID: userID, Title: title}
	_ = repo.Save(context.Background(), session)
	role := models.ChatRoleUser
	for _, content := range messages {
		_ = repo.SaveMessage(context.Background(), &models.ChatMessage{
			SessionID: session.ID,
			Role:      role,
			Content:   content,
		})
		if role == models.ChatRoleUser {
			role = models.ChatRoleAssistant
		} else {
			role = models.ChatRoleUser
		}
	}
	return session
}

func TestChatListSessionsScopedToUser(t *testing.T) {
	repo := newFakeChatRepo()
	flow := NewChatFlow(repo, nil, nil)

	seedSession(repo, 1, "first")
	latest := seedSession(repo, 1, "second")
	seedSession(repo, 2, "someone else")

	resp, err := flow.ListSessions(context.Background(), 1)

	require.NoError(t, err)
	require.Len(t, resp.Sessions, 2)
	assert.Equal(t, latest.ID, resp.Sessions[0].ID)
}

func TestChatListMessagesOwnership(t *testing.T) {
	repo := newFakeChatRepo()
	flow := NewChatFlow(repo, nil, nil)

	session := seedSession(repo, 1, "dsp", "When does DSP meet?", "Monday 09:00 in LT-204.")

	resp, err := flow.ListMessages(context.Background(), 1, session.ID)
	require.NoError(t, err)
	require.Len(t, resp.Messages, 2)
	assert.Equal(t, models.ChatRoleUser, resp.Messages[0].Role)
	assert.Equal(t, models.ChatRoleAssistant, resp.Messages[1].Role)

	// A foreign session reads as not found, never as forbidden.
	_, err = flow.ListMessages(context.Background(), 2, session.ID)
	assert.True(t, IsChatSessionNotFound(err))

	_, err = flow.ListMessages(context.Background(), 1, 999)
	assert.True(t, IsChatSessionNotFound(err))
}

func TestChatDeleteSessionRemovesMessages(t *testing.T) {
	repo := newFakeChatRepo()
	flow := NewChatFlow(repo, nil, nil)

	session := seedSession(repo, 1, "dsp", "hello", "hi")
	foreign := seedSession(repo, 2, "other")

	assert.True(t, IsChatSessionNotFound(flow.DeleteSession(context.Background(), 1, foreign.ID)))

	require.NoError(t, flow.DeleteSession(context.Background(), 1, session.ID))
	assert.Empty(t, repo.messages)
	assert.True(t, IsChatSessionNotFound(flow.DeleteSession(context.Background(), 1, session.ID)))
}
