package business

import (
	"fmt"
	"strings"
	"time"

	"github.com/twexity/relaybots/internal/domain/bot/callback"
	"github.com/twexity/relaybots/internal/domain/bot/entities"
)

const (
	textLanguagePrompt     = "لطفاً زبان خود را انتخاب کنید:\nPlease select your language:"
	textNotAuthorized      = "⛔️ You are not authorized."
	textNotJoined          = "❌ You haven't joined all channels yet!"
	textDownloading        = "⏳ Downloading content, please wait..."
	textNoContent          = "❌ No downloadable content found for this link."
	textFetchError         = "⛔️ Error fetching content. Please try again."
	textUnknownAction      = "⚠️ Unknown action"
	textStatsRefreshed     = "🔄 Statistics refreshed!"
	textUserDetailsLoaded  = "User details loaded!"
	textUserMissing        = "❌ User not found"
	textUserBanned         = "🚫 User banned"
	textUserUnbanned       = "✅ User unbanned"
	textCannotBanAdmin     = "⛔️ The administrator cannot be banned"
	textChannelRemoved     = "🗑 Channel removed"
	textChannelMissing     = "❌ Channel not found"
	textBroadcastMenu      = "📨 Broadcast Message\nSelect message type:"
	textBroadcastStarting  = "🚀 Starting broadcast to %d users..."
	textBroadcastCompleted = "✅ Broadcast completed!\nSuccess: %d\nFailed: %d"
	textChannelAdded       = "✅ Channel '%s' added to forced channels!"
	textClosedBy           = "❈ Closed By %s!"
	textAbout              = "🤖 This bot is developed by @twexity\nDesigned to download Instagram media quickly and safely."

	// captionSuffix is appended to every delivered media caption
	captionSuffix = "\n\n This Bot has Open Source"
)

func membershipRequiredText(lang entities.Language) string {
	if lang == entities.LanguageEN {
		return "🔒 To use the bot, you must join our channels:\n\n" +
			"Please join the channels above and then click the '✅ I Joined' button.\n\n" +
			"⚠️ Note: After joining, make sure to click the verification button."
	}
	return "🔒 برای استفاده از ربات، باید در کانال‌های زیر عضو شوید:\n\n" +
		"لطفاً در کانال‌های بالا عضو شوید و سپس روی دکمه '✅ عضو شدم' کلیک کنید.\n\n" +
		"⚠️ توجه: پس از عضویت، حتماً روی دکمه تأیید کلیک کنید."
}

func membershipVerifiedText(lang entities.Language) string {
	if lang == entities.LanguageEN {
		return "✅ Membership verified! You can now use the bot."
	}
	return "✅ عضویت شما تأیید شد! اکنون می‌توانید از ربات استفاده کنید."
}

func languageSetText(lang entities.Language) string {
	if lang == entities.LanguageEN {
		return "✅ Your language has been set to English."
	}
	return "✅ زبان شما روی فارسی تنظیم شد."
}

func downloadReadyText(lang entities.Language) string {
	if lang == entities.LanguageEN {
		return "🤖 Bot is ready!\nPlease send your Instagram post link:"
	}
	return "🤖 ربات آماده است!\nلینک پست اینستاگرام خود را ارسال بنمایید:"
}

func helpText(lang entities.Language) string {
	if lang == entities.LanguageEN {
		return "📘 Instagram Downloader Bot Guide:\n\n" +
			"1. Open Instagram and copy the link of the post, reel, or story.\n" +
			"2. Send the copied link to the bot.\n" +
			"3. Wait a few seconds for processing.\n" +
			"4. The video or image will be sent automatically.\n\n" +
			"⚙️ Note: Private posts cannot be downloaded.\n" +
			"🧩 For any issues, contact support."
	}
	return "📘 راهنمای ربات دانلودر اینستاگرام:\n\n" +
		"۱. ابتدا وارد اینستاگرام شوید و روی پست، استوری یا ریل مورد نظر بزنید.\n" +
		"۲. گزینه Copy Link را انتخاب کنید.\n" +
		"۳. لینک را برای ربات ارسال کنید.\n" +
		"۴. چند ثانیه صبر کنید تا فایل دانلود و برای شما ارسال شود.\n\n" +
		"⚙️ نکته: اگر پست خصوصی است، ربات قادر به دانلود نخواهد بود.\n" +
		"🧩 برای هرگونه سوال از بخش پشتیبانی استفاده کنید."
}

func rulesText(lang entities.Language) string {
	if lang == entities.LanguageEN {
		return "📜 Bot Usage Rules:\n\n" +
			"1. Do not use this bot for illegal purposes.\n" +
			"2. Misuse will result in a permanent ban.\n" +
			"3. By using the bot, you agree to Telegram and Instagram terms."
	}
	return "📜 قوانین استفاده از ربات:\n\n" +
		"1. از ربات برای اهداف غیرقانونی استفاده نکنید.\n" +
		"2. هرگونه سوءاستفاده منجر به مسدودسازی خواهد شد.\n" +
		"3. با استفاده از ربات، قوانین تلگرام و اینستاگرام را می‌پذیرید."
}

func broadcastPromptText(kind entities.BroadcastKind) string {
	switch kind {
	case entities.BroadcastPhoto:
		return "🖼 Photo Broadcast\n\nPlease send the photo with caption you want to broadcast:"
	case entities.BroadcastVideo:
		return "🎥 Video Broadcast\n\nPlease send the video with caption you want to broadcast:"
	default:
		return "📝 Text Broadcast\n\nPlease send the text message you want to broadcast:"
	}
}

func adminPanelText(stats entities.Stats) string {
	return fmt.Sprintf("🛠 Admin Panel - Statistics\n\n"+
		"👥 Total Users: %d\n"+
		"📥 Total Downloads: %d\n"+
		"🔥 Active Today: %d\n\n"+
		"Select an option below:",
		stats.TotalUsers, stats.TotalDownloads, stats.ActiveToday)
}

func detailedStatsText(stats entities.Stats, daily []entities.DailyStat, now time.Time) string {
	var b strings.Builder

	fmt.Fprintf(&b, "📊 Detailed Statistics\n\n"+
		"👥 Users:\n• Total: %d\n• Active Today: %d\n\n"+
		"📥 Downloads:\n• Total: %d\n• Average per User: %.1f\n",
		stats.TotalUsers, stats.ActiveToday, stats.TotalDownloads, stats.AveragePerUser())

	if len(daily) > 0 {
		b.WriteString("\n📅 Daily:\n")
		for _, d := range daily {
			fmt.Fprintf(&b, "• %s: %d users, %d downloads, +%d new\n", d.Date, d.TotalUsers, d.TotalDownloads, d.NewUsers)
		}
	}

	fmt.Fprintf(&b, "\n🕒 Last Update: %s", now.Format("2006-01-02 15:04:05"))
	return b.String()
}

func usersPageText(total int64) string {
	return fmt.Sprintf("👥 Users Management\nTotal Users: %d\n\nSelect a user to manage:", total)
}

func userDetailText(u *entities.User) string {
	username := "No username"
	if u.Username != "" {
		username = "@" + u.Username
	}

	lastActive := "Never"
	if u.LastDownload != nil {
		lastActive = u.LastDownload.Format("2006-01-02 15:04:05")
	}

	banned := "No"
	if u.IsBanned {
		banned = "Yes"
		if u.BanReason != "" {
			banned += " (" + u.BanReason + ")"
		}
	}

	return fmt.Sprintf("👤 User Details\n\n"+
		"🆔 ID: %d\n"+
		"👤 Name: %s\n"+
		"📛 Username: %s\n"+
		"🌐 Language: %s\n"+
		"📥 Downloads: %d\n"+
		"📅 Joined: %s\n"+
		"🕒 Last Active: %s\n"+
		"🚫 Banned: %s",
		u.ID, strings.TrimSpace(u.FirstName+" "+u.LastName), username, u.Language.OrDefault(),
		u.DownloadsCount, u.JoinDate.Format("2006-01-02 15:04:05"), lastActive, banned)
}

func channelsText(channels []entities.ForcedChannel) string {
	var b strings.Builder
	b.WriteString("📢 Forced Channels Management\n\n")

	if len(channels) == 0 {
		b.WriteString("No channels set.\n")
	}
	for i, ch := range channels {
		fmt.Fprintf(&b, "%d. %s (@%s)\n", i+1, ch.ChannelTitle, ch.ChannelUsername)
	}

	b.WriteString("\nUse /addchannel to add a new channel.")
	return b.String()
}

func languageKeyboard() entities.Keyboard {
	return entities.Keyboard{}.
		Row(
			entities.Button{Text: "🇮🇷 فارسی", Data: callback.DataLangFA},
			entities.Button{Text: "🇬🇧 English", Data: callback.DataLangEN},
		).
		Row(entities.Button{Text: "❌ Close", Data: callback.DataClose})
}

func mainMenu(lang entities.Language, supportURL string) entities.Keyboard {
	if lang == entities.LanguageEN {
		return entities.Keyboard{}.Column(
			entities.Button{Text: "📥 Download Instagram Post", Data: callback.DataDownload},
			entities.Button{Text: "💬 Support", URL: supportURL},
			entities.Button{Text: "📘 Help", Data: callback.DataHelp},
			entities.Button{Text: "ℹ️ About Us", Data: callback.DataAbout},
			entities.Button{Text: "📜 Rules", Data: callback.DataRules},
		)
	}
	return entities.Keyboard{}.Column(
		entities.Button{Text: "📥 دانلود پست اینستاگرام", Data: callback.DataDownload},
		entities.Button{Text: "💬 پشتیبانی", URL: supportURL},
		entities.Button{Text: "📘 راهنما", Data: callback.DataHelp},
		entities.Button{Text: "ℹ️ درباره ما", Data: callback.DataAbout},
		entities.Button{Text: "📜 قوانین", Data: callback.DataRules},
	)
}

func adminPanel() entities.Keyboard {
	return entities.Keyboard{}.
		Row(
			entities.Button{Text: "📊 Statistics", Data: callback.DataAdminStats},
			entities.Button{Text: "👥 Users Management", Data: callback.DataAdminUsers},
		).
		Row(
			entities.Button{Text: "📨 Broadcast", Data: callback.DataAdminBroadcast},
			entities.Button{Text: "📢 Channels Management", Data: callback.DataAdminChannels},
		).
		Row(
			entities.Button{Text: "🔄 Refresh Stats", Data: callback.DataAdminRefresh},
			entities.Button{Text: "❌ Close", Data: callback.DataAdminClose},
		)
}

func broadcastPanel() entities.Keyboard {
	return entities.Keyboard{}.
		Row(
			entities.Button{Text: "📝 Text Broadcast", Data: callback.Broadcast(entities.BroadcastText)},
			entities.Button{Text: "🖼 Photo Broadcast", Data: callback.Broadcast(entities.BroadcastPhoto)},
		).
		Row(
			entities.Button{Text: "🎥 Video Broadcast", Data: callback.Broadcast(entities.BroadcastVideo)},
			entities.Button{Text: "🔙 Back", Data: callback.DataAdminBack},
		)
}

func backToAdminButton() entities.Button {
	return entities.Button{Text: "🔙 Back to Admin", Data: callback.DataAdminBack}
}

// usersKeyboard renders one page of users. page holds at most pageSize users
// starting at index page*pageSize of a list of total users.
func usersKeyboard(page []entities.User, pageNum int, total int64, pageSize int) entities.Keyboard {
	kb := entities.Keyboard{}

	for _, u := range page {
		username := "No Username"
		if u.Username != "" {
			username = "@" + u.Username
		}
		kb = kb.Row(entities.Button{
			Text: fmt.Sprintf("%s - %s", u.FirstName, username),
			Data: callback.UserDetail(u.ID),
		})
	}

	var nav []entities.Button
	if pageNum > 0 {
		nav = append(nav, entities.Button{Text: "⬅️ Previous", Data: callback.UsersPage(pageNum - 1)})
	}
	if int64(pageSize*(pageNum+1)) < total {
		nav = append(nav, entities.Button{Text: "Next ➡️", Data: callback.UsersPage(pageNum + 1)})
	}

	return kb.Row(nav...).Row(backToAdminButton())
}

func userDetailKeyboard(u *entities.User, page int) entities.Keyboard {
	toggle := entities.Button{Text: "🚫 Ban", Data: callback.UserBan(u.ID)}
	if u.IsBanned {
		toggle = entities.Button{Text: "✅ Unban", Data: callback.UserUnban(u.ID)}
	}

	return entities.Keyboard{}.
		Row(toggle).
		Row(entities.Button{Text: "🔙 Back to Users", Data: callback.UsersPage(page)})
}

func channelsKeyboard(channels []entities.ForcedChannel) entities.Keyboard {
	kb := entities.Keyboard{}
	for _, ch := range channels {
		kb = kb.Row(entities.Button{
			Text: "🗑 Remove " + ch.ChannelTitle,
			Data: callback.ChannelRemove(ch.ChannelID),
		})
	}
	return kb.Row(backToAdminButton())
}

func joinKeyboard(channels []entities.ForcedChannel) entities.Keyboard {
	kb := entities.Keyboard{}
	for _, ch := range channels {
		kb = kb.Row(entities.Button{Text: "📢 Join " + ch.ChannelTitle, URL: ch.Link()})
	}
	return kb.Row(entities.Button{Text: "✅ I Joined - Check Membership", Data: callback.DataCheckMembership})
}
