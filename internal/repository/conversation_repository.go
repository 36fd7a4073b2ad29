package repository // repository defines data access for conversations

import (
	"log"
	"sort"
	"strconv"
	"time"

	"github.com/anveshk/rideshare-board/internal/database"
	"github.com/anveshk/rideshare-board/internal/model"
)

var conversationHeader = []string{
	"id", "user1Id", "user1Name", "user2Id", "user2Name",
	"lastMessage", "lastMessageTime", "unreadCount1", "unreadCount2",
	"rideId", "rideFrom", "rideTo", "rideType",
}

// conversationMinFields tolerates rows written before the ride
// context columns existed.
const conversationMinFields = 9

// ConversationID derives the stable conversation id for a pair of
// user ids. The pair is ordered lexicographically before joining, so
// ConversationID(a, b) == ConversationID(b, a) for every pair.
func ConversationID(a, b string) string {
	if b < a {
		a, b = b, a
	}
	return "conv_" + a + "_" + b
}

// ConversationRepo provides methods to work with conversations in
// the CSV store. A conversation is one row per user pair holding the
// denormalized last message and one unread counter per participant.
// Participant slots keep the order of the call that created the row,
// not the sorted order used for the id.
type ConversationRepo struct {
	table *database.Table
}

// NewConversationRepo constructs a ConversationRepo backed by the CSV file at path.
func NewConversationRepo(path string) *ConversationRepo {
	return &ConversationRepo{table: database.NewTable(path, conversationHeader, conversationMinFields)}
}

// Initialize creates the backing file with a header line when missing.
func (r *ConversationRepo) Initialize() error {
	return r.table.Initialize()
}

// ListForUser returns every conversation the user participates in,
// most recently active first.
func (r *ConversationRepo) ListForUser(userID string) []model.Conversation {
	var result []model.Conversation
	for _, c := range r.loadAll() {
		if c.Participant(userID) != 0 {
			result = append(result, c)
		}
	}
	sort.SliceStable(result, func(i, j int) bool {
		return result[i].LastMessageTime.After(result[j].LastMessageTime)
	})
	return result
}

// GetByID returns the conversation with the given id, or ErrNotFound.
func (r *ConversationRepo) GetByID(id string) (model.Conversation, error) {
	if err := r.table.Initialize(); err != nil {
		return model.Conversation{}, err
	}
	for _, c := range r.loadAll() {
		if c.ID == id {
			return c, nil
		}
	}
	return model.Conversation{}, ErrNotFound
}

// FindOrCreate returns the conversation between the two users,
// creating and persisting it when none exists yet. Ride context is
// attached only at creation; later calls for the same pair ignore
// it. A fresh conversation starts with lastMessageTime set to the
// creation instant so it sorts sensibly before any message arrives.
func (r *ConversationRepo) FindOrCreate(user1ID, user1Name, user2ID, user2Name string, ride *model.Ride) (model.Conversation, error) {
	if err := r.table.Initialize(); err != nil {
		return model.Conversation{}, err
	}
	id := ConversationID(user1ID, user2ID)
	conversations := r.loadAll()
	for _, c := range conversations {
		if c.ID == id {
			return c, nil
		}
	}
	conv := model.Conversation{
		ID:              id,
		User1ID:         user1ID,
		User1Name:       user1Name,
		User2ID:         user2ID,
		User2Name:       user2Name,
		LastMessageTime: time.Now().UTC(),
	}
	if ride != nil {
		conv.RideID = ride.ID
		conv.RideFrom = ride.From
		conv.RideTo = ride.To
		conv.RideType = ride.Type
	}
	conversations = append(conversations, conv)
	if err := r.saveAll(conversations); err != nil {
		return model.Conversation{}, err
	}
	return conv, nil
}

// RecordMessage updates the denormalized lastMessage/lastMessageTime
// pair and bumps the unread counter of whichever participant slot
// the receiver occupies.
func (r *ConversationRepo) RecordMessage(conversationID, lastMessage string, at time.Time, receiverID string) error {
	if err := r.table.Initialize(); err != nil {
		return err
	}
	conversations := r.loadAll()
	for i := range conversations {
		if conversations[i].ID != conversationID {
			continue
		}
		conversations[i].LastMessage = lastMessage
		conversations[i].LastMessageTime = at
		switch conversations[i].Participant(receiverID) {
		case 1:
			conversations[i].UnreadCount1++
		case 2:
			conversations[i].UnreadCount2++
		}
		return r.saveAll(conversations)
	}
	return ErrNotFound
}

// ClearUnread zeroes the unread counter of the participant slot the
// user occupies. The file is only rewritten when the counter was
// nonzero.
func (r *ConversationRepo) ClearUnread(conversationID, userID string) error {
	if err := r.table.Initialize(); err != nil {
		return err
	}
	conversations := r.loadAll()
	for i := range conversations {
		if conversations[i].ID != conversationID {
			continue
		}
		switch conversations[i].Participant(userID) {
		case 1:
			if conversations[i].UnreadCount1 == 0 {
				return nil
			}
			conversations[i].UnreadCount1 = 0
		case 2:
			if conversations[i].UnreadCount2 == 0 {
				return nil
			}
			conversations[i].UnreadCount2 = 0
		default:
			return nil
		}
		return r.saveAll(conversations)
	}
	return ErrNotFound
}

func (r *ConversationRepo) loadAll() []model.Conversation {
	rows, err := r.table.ReadRows()
	if err != nil {
		log.Printf("conversation store: read: %v", err)
		return nil
	}
	conversations := make([]model.Conversation, 0, len(rows))
	for _, row := range rows {
		conversations = append(conversations, model.Conversation{
			ID:              row[0],
			User1ID:         row[1],
			User1Name:       row[2],
			User2ID:         row[3],
			User2Name:       row[4],
			LastMessage:     row[5],
			LastMessageTime: parseTime(row[6]),
			UnreadCount1:    parseIntDefault(row[7], 0),
			UnreadCount2:    parseIntDefault(row[8], 0),
			RideID:          row[9],
			RideFrom:        row[10],
			RideTo:          row[11],
			RideType:        row[12],
		})
	}
	return conversations
}

func (r *ConversationRepo) saveAll(conversations []model.Conversation) error {
	rows := make([][]string, 0, len(conversations))
	for _, c := range conversations {
		rows = append(rows, []string{
			c.ID, c.User1ID, c.User1Name, c.User2ID, c.User2Name,
			c.LastMessage, formatTime(c.LastMessageTime),
			strconv.Itoa(c.UnreadCount1), strconv.Itoa(c.UnreadCount2),
			c.RideID, c.RideFrom, c.RideTo, c.RideType,
		})
	}
	return r.table.WriteRows(rows)
}
