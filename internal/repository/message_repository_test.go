package repository

import (
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/anveshk/rideshare-board/internal/model"
)

func testMessage(convID, from, to, content string, at time.Time) model.Message {
	return model.Message{
		ConversationID: convID,
		SenderID:       from,
		SenderName:     strings.ToUpper(from),
		ReceiverID:     to,
		ReceiverName:   strings.ToUpper(to),
		Content:        content,
		Timestamp:      at,
	}
}

func TestMessageRepoAppendAndList(t *testing.T) {
	t.Parallel()
	repo := NewMessageRepo(filepath.Join(t.TempDir(), "messages.csv"))

	base := time.Date(2024, 6, 1, 8, 0, 0, 0, time.UTC)
	// Appended out of order on purpose; listing sorts by timestamp.
	if _, err := repo.Append(testMessage("conv_a_b", "a", "b", "second", base.Add(time.Minute))); err != nil {
		t.Fatalf("Append() error = %v", err)
	}
	if _, err := repo.Append(testMessage("conv_a_b", "b", "a", "first", base)); err != nil {
		t.Fatalf("Append() error = %v", err)
	}
	if _, err := repo.Append(testMessage("conv_x_y", "x", "y", "elsewhere", base)); err != nil {
		t.Fatalf("Append() error = %v", err)
	}

	got := repo.ForConversation("conv_a_b")
	if len(got) != 2 {
		t.Fatalf("ForConversation() returned %d messages, want 2", len(got))
	}
	if got[0].Content != "first" || got[1].Content != "second" {
		t.Errorf("ForConversation() order = %q, %q, want first, second", got[0].Content, got[1].Content)
	}
	for _, m := range got {
		if m.IsRead {
			t.Errorf("message %q isRead = true before any view", m.Content)
		}
	}
}

func TestMessageRepoMarkRead(t *testing.T) {
	t.Parallel()
	repo := NewMessageRepo(filepath.Join(t.TempDir(), "messages.csv"))

	base := time.Date(2024, 6, 1, 8, 0, 0, 0, time.UTC)
	for i, content := range []string{"one", "two"} {
		if _, err := repo.Append(testMessage("conv_a_b", "a", "b", content, base.Add(time.Duration(i)*time.Minute))); err != nil {
			t.Fatalf("Append() error = %v", err)
		}
	}
	if _, err := repo.Append(testMessage("conv_a_b", "b", "a", "reply", base.Add(2*time.Minute))); err != nil {
		t.Fatalf("Append() error = %v", err)
	}

	changed, err := repo.MarkRead("conv_a_b", "b")
	if err != nil {
		t.Fatalf("MarkRead() error = %v", err)
	}
	if changed != 2 {
		t.Errorf("MarkRead() = %d, want 2", changed)
	}

	for _, m := range repo.ForConversation("conv_a_b") {
		wantRead := m.ReceiverID == "b"
		if m.IsRead != wantRead {
			t.Errorf("message %q isRead = %v, want %v", m.Content, m.IsRead, wantRead)
		}
	}

	// Everything addressed to b is already read; nothing changes.
	changed, err = repo.MarkRead("conv_a_b", "b")
	if err != nil {
		t.Fatalf("MarkRead() second error = %v", err)
	}
	if changed != 0 {
		t.Errorf("MarkRead() second = %d, want 0", changed)
	}
}

func TestMessageRepoContentRoundTrip(t *testing.T) {
	t.Parallel()
	repo := NewMessageRepo(filepath.Join(t.TempDir(), "messages.csv"))

	content := `leaving at 8, "sharp" from the HUB`
	if _, err := repo.Append(testMessage("conv_a_b", "a", "b", content, time.Date(2024, 6, 1, 8, 0, 0, 0, time.UTC))); err != nil {
		t.Fatalf("Append() error = %v", err)
	}
	got := repo.ForConversation("conv_a_b")
	if len(got) != 1 {
		t.Fatalf("ForConversation() returned %d messages, want 1", len(got))
	}
	if got[0].Content != content {
		t.Errorf("content round trip = %q, want %q", got[0].Content, content)
	}
}
