package handler

import (
	"net/http"
	"strings"
	"time"

	"github.com/labstack/echo/v4"

	"github.com/anveshk/rideshare-board/internal/model"
	"github.com/anveshk/rideshare-board/internal/repository"
)

// MessageHandler bundles dependencies for conversations and messages.
type MessageHandler struct {
	Users         *repository.UserRepo
	Rides         *repository.RideRepo
	Conversations *repository.ConversationRepo
	Messages      *repository.MessageRepo
}

// NewMessageHandler constructs a MessageHandler and panics if any dependency is nil.
func NewMessageHandler(users *repository.UserRepo, rides *repository.RideRepo, conversations *repository.ConversationRepo, messages *repository.MessageRepo) *MessageHandler {
	if users == nil || rides == nil || conversations == nil || messages == nil {
		panic("nil repository passed to NewMessageHandler")
	}
	return &MessageHandler{Users: users, Rides: rides, Conversations: conversations, Messages: messages}
}

type startConversationReq struct {
	UserID string `json:"userId"`
	RideID string `json:"rideId"`
}

type sendMessageReq struct {
	ReceiverID string `json:"receiverId"`
	Content    string `json:"content"`
	RideID     string `json:"rideId"`
}

// conversationResp decorates a conversation with the requesting user's
// own unread count so clients need not pick the right slot themselves.
type conversationResp struct {
	model.Conversation
	UnreadCount int `json:"unreadCount"`
}

// findRide resolves a ride id to its record for conversation context.
func (h *MessageHandler) findRide(id string) *model.Ride {
	rides, _ := h.Rides.GetRides()
	for i := range rides {
		if rides[i].ID == id {
			return &rides[i]
		}
	}
	return nil
}

// ListConversations returns the caller's conversations, most recently
// active first.
func (h *MessageHandler) ListConversations(c echo.Context) error {
	uid, err := getUserID(c)
	if err != nil {
		return c.JSON(http.StatusUnauthorized, echo.Map{"error": "unauthorized"})
	}
	conversations := h.Conversations.ListForUser(uid)
	resp := make([]conversationResp, 0, len(conversations))
	for _, conv := range conversations {
		resp = append(resp, conversationResp{Conversation: conv, UnreadCount: conv.UnreadFor(uid)})
	}
	return c.JSON(http.StatusOK, echo.Map{"conversations": resp})
}

// StartConversation finds or creates the conversation between the
// caller and another user, optionally pinning a ride as its context.
// The context sticks from whichever call created the conversation;
// later calls with a different ride do not rewrite it.
func (h *MessageHandler) StartConversation(c echo.Context) error {
	uid, err := getUserID(c)
	if err != nil {
		return c.JSON(http.StatusUnauthorized, echo.Map{"error": "unauthorized"})
	}
	var req startConversationReq
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid body"})
	}
	otherID := strings.TrimSpace(req.UserID)
	if otherID == "" {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "userId required"})
	}
	if otherID == uid {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "cannot start a conversation with yourself"})
	}

	other, err := h.Users.GetByID(otherID)
	if err != nil {
		if err == repository.ErrNotFound {
			return c.JSON(http.StatusNotFound, echo.Map{"error": "user not found"})
		}
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "query failed"})
	}

	var ride *model.Ride
	if rid := strings.TrimSpace(req.RideID); rid != "" {
		if ride = h.findRide(rid); ride == nil {
			return c.JSON(http.StatusNotFound, echo.Map{"error": "ride not found"})
		}
	}

	conv, err := h.Conversations.FindOrCreate(uid, getUserName(c), other.ID, other.Name, ride)
	if err != nil {
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "save conversation failed"})
	}
	return c.JSON(http.StatusOK, conversationResp{Conversation: conv, UnreadCount: conv.UnreadFor(uid)})
}

// GetMessages returns a conversation's messages in timestamp order.
// Loading them is deliberately not read-only: every message addressed
// to the caller flips to read and the caller's unread counter drops to
// zero, because a fetched conversation is a seen conversation as far
// as UI badges are concerned.
func (h *MessageHandler) GetMessages(c echo.Context) error {
	uid, err := getUserID(c)
	if err != nil {
		return c.JSON(http.StatusUnauthorized, echo.Map{"error": "unauthorized"})
	}
	convID := c.Param("id")

	conv, err := h.Conversations.GetByID(convID)
	if err != nil {
		if err == repository.ErrNotFound {
			return c.JSON(http.StatusNotFound, echo.Map{"error": "conversation not found"})
		}
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "query failed"})
	}
	if conv.Participant(uid) == 0 {
		return c.JSON(http.StatusForbidden, echo.Map{"error": "not a participant"})
	}

	if _, err := h.Messages.MarkRead(convID, uid); err != nil {
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "mark read failed"})
	}
	if err := h.Conversations.ClearUnread(convID, uid); err != nil {
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "clear unread failed"})
	}

	messages := h.Messages.ForConversation(convID)
	if messages == nil {
		messages = []model.Message{}
	}
	return c.JSON(http.StatusOK, echo.Map{"messages": messages})
}

// SendMessage delivers a message to another user, creating the
// conversation on first contact and keeping its denormalized
// last-message fields and the receiver's unread counter in step.
func (h *MessageHandler) SendMessage(c echo.Context) error {
	uid, err := getUserID(c)
	if err != nil {
		return c.JSON(http.StatusUnauthorized, echo.Map{"error": "unauthorized"})
	}
	var req sendMessageReq
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid body"})
	}
	receiverID := strings.TrimSpace(req.ReceiverID)
	content := strings.TrimSpace(req.Content)
	if receiverID == "" || content == "" {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "receiverId and content required"})
	}
	if receiverID == uid {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "cannot message yourself"})
	}

	receiver, err := h.Users.GetByID(receiverID)
	if err != nil {
		if err == repository.ErrNotFound {
			return c.JSON(http.StatusNotFound, echo.Map{"error": "receiver not found"})
		}
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "query failed"})
	}

	var ride *model.Ride
	if rid := strings.TrimSpace(req.RideID); rid != "" {
		// Best effort: a stale ride id still gets the message through,
		// it just creates the conversation without ride context.
		ride = h.findRide(rid)
	}

	conv, err := h.Conversations.FindOrCreate(uid, getUserName(c), receiver.ID, receiver.Name, ride)
	if err != nil {
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "save conversation failed"})
	}

	now := time.Now().UTC()
	saved, err := h.Messages.Append(model.Message{
		ConversationID: conv.ID,
		SenderID:       uid,
		SenderName:     getUserName(c),
		ReceiverID:     receiver.ID,
		ReceiverName:   receiver.Name,
		Content:        content,
		Timestamp:      now,
	})
	if err != nil {
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "save message failed"})
	}
	if err := h.Conversations.RecordMessage(conv.ID, content, now, receiver.ID); err != nil {
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "update conversation failed"})
	}
	return c.JSON(http.StatusCreated, saved)
}
