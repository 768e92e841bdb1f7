// Package dto contains data transfer objects passed from delivery to the use case
package dto

import "github.com/twexity/relaybots/internal/domain/bot/entities"

// Sender identifies the Telegram user behind an update
type Sender struct {
	UserID    int64
	Username  string
	FirstName string
	LastName  string
}

// CommandRequest is a slash command sent in a chat
type CommandRequest struct {
	Sender    Sender
	ChatID    int64
	MessageID int
}

// ForwardedChannel describes the channel a replied-to message was forwarded from
type ForwardedChannel struct {
	ID       int64
	Username string
	Title    string
}

// AddChannelRequest is an /addchannel command. Channel is nil when the
// command was not a reply to a message forwarded from a channel.
type AddChannelRequest struct {
	CommandRequest
	Channel *ForwardedChannel
}

// CallbackRequest is a button press on an inline keyboard
type CallbackRequest struct {
	CallbackID string
	Sender     Sender
	ChatID     int64
	MessageID  int
	Data       string
}

// MessageRequest is any non-command message
type MessageRequest struct {
	Sender    Sender
	ChatID    int64
	MessageID int
	Text      string
	Caption   string

	// PhotoFileID is the largest photo size when the message carries a photo
	PhotoFileID string
	VideoFileID string
}

// Kind returns the broadcast kind the message content matches
func (m MessageRequest) Kind() entities.BroadcastKind {
	switch {
	case m.VideoFileID != "":
		return entities.BroadcastVideo
	case m.PhotoFileID != "":
		return entities.BroadcastPhoto
	case m.Text != "":
		return entities.BroadcastText
	}
	return ""
}

// MediaLink is a link submitted for download
type MediaLink struct {
	URL string `validate:"required,http_url,contains=instagram.com"`
}

// BroadcastResult is the tally of one broadcast fan-out
type BroadcastResult struct {
	Total   int
	Success int
	Failed  int
}
