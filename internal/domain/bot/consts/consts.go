// Package consts contains constants for the bot domain
package consts

// Command represents a bot command
type Command struct {
	Name        string
	Description string
}

// Bot commands
var (
	CommandStart      = Command{Name: "start", Description: "Start the bot"}
	CommandAdmin      = Command{Name: "admin", Description: "Open the admin panel"}
	CommandAddChannel = Command{Name: "addchannel", Description: "Add a forced channel (reply to a forwarded post)"}
)

// AllCommands contains all available bot commands for menu registration
var AllCommands = []Command{
	CommandStart,
	CommandAdmin,
	CommandAddChannel,
}

// UsersPageSize is the number of users listed per admin page
const UsersPageSize = 10

// RecentStatsDays is the number of daily statistics rows shown to the admin
const RecentStatsDays = 7

// MaxCaptionLength is the Telegram limit for media captions, in runes
const MaxCaptionLength = 1024

// Replies to failed or rejected updates
const (
	FailureText         = "⚠️ Something went wrong. Please try again later."
	AccessDeniedText    = "⛔️ Access denied!"
	BannedText          = "⛔️ You are banned from using this bot."
	InvalidLinkText     = "❌ Please send a valid Instagram link."
	ForwardRequiredText = "❌ Please forward a message from the channel you want to add."
	InvalidRequestText  = "⚠️ Invalid request"
)
