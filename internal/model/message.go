package model

import "time"

// Message is one direct message row in messages.csv. Messages are append
// only; IsRead flips to true when the receiver loads the conversation.
type Message struct {
	ID             string    `json:"id"`
	ConversationID string    `json:"conversationId"`
	SenderID       string    `json:"senderId"`
	SenderName     string    `json:"senderName"`
	ReceiverID     string    `json:"receiverId"`
	ReceiverName   string    `json:"receiverName"`
	Content        string    `json:"content"`
	Timestamp      time.Time `json:"timestamp"`
	IsRead         bool      `json:"isRead"`
}

// Conversation is one thread between two users in conversations.csv. The
// id is derived from the sorted participant pair, so the same two users
// always map to the same row no matter who started the thread. LastMessage
// and LastMessageTime mirror the most recent message; the two unread
// counters are independent, one per participant slot. The ride columns
// capture the listing a thread was started from and are set only at
// creation.
type Conversation struct {
	ID              string    `json:"id"`
	User1ID         string    `json:"user1Id"`
	User1Name       string    `json:"user1Name"`
	User2ID         string    `json:"user2Id"`
	User2Name       string    `json:"user2Name"`
	LastMessage     string    `json:"lastMessage"`
	LastMessageTime time.Time `json:"lastMessageTime"`
	UnreadCount1    int       `json:"unreadCount1"`
	UnreadCount2    int       `json:"unreadCount2"`
	RideID          string    `json:"rideId,omitempty"`
	RideFrom        string    `json:"rideFrom,omitempty"`
	RideTo          string    `json:"rideTo,omitempty"`
	RideType        string    `json:"rideType,omitempty"`
}

// Participant reports whether id occupies slot 1 or slot 2 of the
// conversation; 0 means the id is not part of it.
func (c *Conversation) Participant(id string) int {
	switch id {
	case c.User1ID:
		return 1
	case c.User2ID:
		return 2
	}
	return 0
}

// UnreadFor returns the unread counter belonging to the given participant.
func (c *Conversation) UnreadFor(id string) int {
	switch c.Participant(id) {
	case 1:
		return c.UnreadCount1
	case 2:
		return c.UnreadCount2
	}
	return 0
}
