package repository // repository defines data access for chat messages

import (
	"log"
	"sort"

	"github.com/anveshk/rideshare-board/internal/database"
	"github.com/anveshk/rideshare-board/internal/model"
	"github.com/anveshk/rideshare-board/internal/utils"
)

var messageHeader = []string{
	"id", "conversationId", "senderId", "senderName",
	"receiverId", "receiverName", "content", "timestamp", "isRead",
}

const messageMinFields = 8

// MessageRepo provides methods to work with chat messages in the CSV
// store. Messages are append-only except for the isRead flag, which
// flips when the receiver views the conversation.
type MessageRepo struct {
	table *database.Table
}

// NewMessageRepo constructs a MessageRepo backed by the CSV file at path.
func NewMessageRepo(path string) *MessageRepo {
	return &MessageRepo{table: database.NewTable(path, messageHeader, messageMinFields)}
}

// Initialize creates the backing file with a header line when missing.
func (r *MessageRepo) Initialize() error {
	return r.table.Initialize()
}

// Append stores a new message. The id is generated here; sender,
// receiver, content and timestamp come from the caller.
func (r *MessageRepo) Append(msg model.Message) (model.Message, error) {
	if err := r.table.Initialize(); err != nil {
		return model.Message{}, err
	}
	msg.ID = utils.NewID("msg")
	messages := append(r.loadAll(), msg)
	if err := r.saveAll(messages); err != nil {
		return model.Message{}, err
	}
	return msg, nil
}

// ForConversation returns every message of the conversation sorted
// by timestamp ascending. Messages with equal timestamps keep their
// file order.
func (r *MessageRepo) ForConversation(conversationID string) []model.Message {
	var result []model.Message
	for _, m := range r.loadAll() {
		if m.ConversationID == conversationID {
			result = append(result, m)
		}
	}
	sort.SliceStable(result, func(i, j int) bool {
		return result[i].Timestamp.Before(result[j].Timestamp)
	})
	return result
}

// MarkRead flips isRead on every unread message in the conversation
// addressed to readerID and reports how many it touched. The file is
// only rewritten when something actually changed.
func (r *MessageRepo) MarkRead(conversationID, readerID string) (int, error) {
	if err := r.table.Initialize(); err != nil {
		return 0, err
	}
	messages := r.loadAll()
	changed := 0
	for i := range messages {
		if messages[i].ConversationID == conversationID &&
			messages[i].ReceiverID == readerID && !messages[i].IsRead {
			messages[i].IsRead = true
			changed++
		}
	}
	if changed == 0 {
		return 0, nil
	}
	if err := r.saveAll(messages); err != nil {
		return 0, err
	}
	return changed, nil
}

func (r *MessageRepo) loadAll() []model.Message {
	rows, err := r.table.ReadRows()
	if err != nil {
		log.Printf("message store: read: %v", err)
		return nil
	}
	messages := make([]model.Message, 0, len(rows))
	for _, row := range rows {
		messages = append(messages, model.Message{
			ID:             row[0],
			ConversationID: row[1],
			SenderID:       row[2],
			SenderName:     row[3],
			ReceiverID:     row[4],
			ReceiverName:   row[5],
			Content:        row[6],
			Timestamp:      parseTime(row[7]),
			IsRead:         parseBool(row[8]),
		})
	}
	return messages
}

func (r *MessageRepo) saveAll(messages []model.Message) error {
	rows := make([][]string, 0, len(messages))
	for _, m := range messages {
		rows = append(rows, []string{
			m.ID, m.ConversationID, m.SenderID, m.SenderName,
			m.ReceiverID, m.ReceiverName, m.Content,
			formatTime(m.Timestamp), formatBool(m.IsRead),
		})
	}
	return r.table.WriteRows(rows)
}
