package businessflow

import (
	"context"

	"github.com/eduvia/eduvia-api/app/dto"
	"github.com/eduvia/eduvia-api/app/services"
	"github.com/eduvia/eduvia-api/models"
	"github.com/eduvia/eduvia-api/repository"
	"github.com/eduvia/eduvia-api/utils"
	"gorm.io/gorm"
)

// chatTitleLimit caps the session title derived from the first message
const chatTitleLimit = 80

// ChatFlow handles assistant conversations
type ChatFlow interface {
	Send(ctx context.Context, userID uint, request *dto.SendChatMessageRequest, metadata *ClientMetadata) (*dto.SendChatMessageResponse, error)
	ListSessions(ctx context.Context, userID uint) (*dto.ListChatSessionsResponse, error)
	ListMessages(ctx context.Context, userID, sessionID uint) (*dto.ListChatMessagesResponse, error)
	DeleteSession(ctx context.Context, userID, sessionID uint) error
}

// ChatFlowImpl implements the chat business flow
type ChatFlowImpl struct {
	chatRepo repository.ChatRepository
	llm      services.LLMService
	db       *gorm.DB
}

// NewChatFlow creates a new chat flow instance
func NewChatFlow(chatRepo repository.ChatRepository, llm services.LLMService, db *gorm.DB) ChatFlow {
	return &ChatFlowImpl{chatRepo: chatRepo, llm: llm, db: db}
}

// Send records the user message, asks the model with the session history, and
// records the reply. A new session is created when no session ID is given.
func (cf *ChatFlowImpl) Send(ctx context.Context, userID uint, request *dto.SendChatMessageRequest, metadata *ClientMetadata) (*dto.SendChatMessageResponse, error) {
	session, history, err := cf.sessionWithHistory(ctx, userID, request)
	if err != nil {
		return nil, err
	}

	reply, err := cf.llm.GenerateReply(ctx, history, request.Message)
	if err != nil {
		return nil, NewBusinessError("ASSISTANT_UNAVAILABLE", "Assistant is unavailable", ErrAssistantUnavailable)
	}

	var assistantMsg *models.ChatMessage
	err = repository.WithTransaction(ctx, cf.db, func(txCtx context.Context) error {
		userMsg := &models.ChatMessage{
			SessionID: session.ID,
			Role:      models.ChatRoleUser,
			Content:   request.Message,
			CreatedAt: utils.UTCNow(),
		}
		if err := cf.chatRepo.SaveMessage(txCtx, userMsg); err != nil {
			return err
		}

		assistantMsg = &models.ChatMessage{
			SessionID: session.ID,
			Role:      models.ChatRoleAssistant,
			Content:   reply,
			CreatedAt: utils.UTCNow(),
		}
		if err := cf.chatRepo.SaveMessage(txCtx, assistantMsg); err != nil {
			return err
		}
		return cf.chatRepo.TouchSession(txCtx, session.ID)
	})
	if err != nil {
		return nil, NewBusinessError("CHAT_SAVE_FAILED", "Failed to save conversation", err)
	}

	return &dto.SendChatMessageResponse{
		SessionID: session.ID,
		Message:   ToChatMessageDTO(*assistantMsg),
	}, nil
}

// sessionWithHistory loads or creates the session and returns the prior turns
func (cf *ChatFlowImpl) sessionWithHistory(ctx context.Context, userID uint, request *dto.SendChatMessageRequest) (*models.ChatSession, []services.ChatTurn, error) {
	if request.SessionID == nil {
		session := &models.ChatSession{
			UserID:    userID,
			Title:     utils.Truncate(request.Message, chatTitleLimit),
			CreatedAt: utils.UTCNow(),
			UpdatedAt: utils.UTCNow(),
		}
		if err := cf.chatRepo.Save(ctx, session); err != nil {
			return nil, nil, NewBusinessError("CHAT_SESSION_CREATE_FAILED", "Failed to create chat session", err)
		}
		return session, nil, nil
	}

	session, err := cf.ownedSession(ctx, userID, *request.SessionID)
	if err != nil {
		return nil, nil, err
	}

	messages, err := cf.chatRepo.ListMessages(ctx, session.ID)
	if err != nil {
		return nil, nil, NewBusinessError("CHAT_HISTORY_FAILED", "Failed to load chat history", err)
	}

	history := make([]services.ChatTurn, 0, len(messages))
	for _, msg := range messages {
		history = append(history, services.ChatTurn{Role: msg.Role, Content: msg.Content})
	}
	return session, history, nil
}

// ListSessions returns the caller's conversations, most recently active first
func (cf *ChatFlowImpl) ListSessions(ctx context.Context, userID uint) (*dto.ListChatSessionsResponse, error) {
	rows, err := cf.chatRepo.ListSessionsByUser(ctx, userID)
	if err != nil {
		return nil, NewBusinessError("CHAT_SESSION_LIST_FAILED", "Failed to load chat sessions", err)
	}

	sessions := make([]dto.ChatSessionDTO, 0, len(rows))
	for _, row := range rows {
		sessions = append(sessions, ToChatSessionDTO(*row))
	}
	return &dto.ListChatSessionsResponse{Sessions: sessions}, nil
}

// ListMessages returns the full history of one owned conversation
func (cf *ChatFlowImpl) ListMessages(ctx context.Context, userID, sessionID uint) (*dto.ListChatMessagesResponse, error) {
	session, err := cf.ownedSession(ctx, userID, sessionID)
	if err != nil {
		return nil, err
	}

	rows, err := cf.chatRepo.ListMessages(ctx, session.ID)
	if err != nil {
		return nil, NewBusinessError("CHAT_HISTORY_FAILED", "Failed to load chat history", err)
	}

	messages := make([]dto.ChatMessageDTO, 0, len(rows))
	for _, row := range rows {
		messages = append(messages, ToChatMessageDTO(*row))
	}
	return &dto.ListChatMessagesResponse{SessionID: session.ID, Messages: messages}, nil
}

// DeleteSession removes an owned conversation and its messages
func (cf *ChatFlowImpl) DeleteSession(ctx context.Context, userID, sessionID uint) error {
	if _, err := cf.ownedSession(ctx, userID, sessionID); err != nil {
		return err
	}
	if err := cf.chatRepo.DeleteSession(ctx, sessionID); err != nil {
		return NewBusinessError("CHAT_SESSION_DELETE_FAILED", "Failed to delete chat session", err)
	}
	return nil
}

// ownedSession loads a session and verifies it belongs to the caller.
// A foreign session is reported as not found, not as forbidden.
func (cf *ChatFlowImpl) ownedSession(ctx context.Context, userID, sessionID uint) (*models.ChatSession, error) {
	session, err := cf.chatRepo.ByID(ctx, sessionID)
	if err != nil {
		return nil, NewBusinessError("CHAT_SESSION_FETCH_FAILED", "Failed to load chat session", err)
	}
	if session == nil || session.UserID != userID {
		return nil, NewBusinessError("CHAT_SESSION_NOT_FOUND", "Chat session not found", ErrChatSessionNotFound)
	}
	return session, nil
}
