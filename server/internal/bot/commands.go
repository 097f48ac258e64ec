package bot

import (
	"context"
	"faceboobs/shared/utils"
	"fmt"
	"log"
	"strings"
	"time"

	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"
)

const commandTimeout = 10 * time.Second

func HandleCommand(update tgbotapi.Update) {
	command := update.Message.Command()
	args := update.Message.CommandArguments()

	if appLogger == nil {
		log.Printf("ERROR: appLogger not initialized in bot package when handling command '%s'", command)
		return
	}

	appLogger.Info("Processing command",
		"command", command,
		"args", args,
		"chatID", update.Message.Chat.ID,
		"user", update.Message.From.UserName,
	)

	switch command {
	case "stats":
		handleStatsCommand(update)
	case "user":
		handleUserCommand(update, args)
	case "creator":
		handleCreatorCommand(update, args)
	case "start", "help":
		handleHelpCommand(update)
	default:
		appLogger.Warn("Unknown command received", "command", command)
		SendReply(update.Message.Chat.ID, fmt.Sprintf("Unknown command: /%s", command))
	}
}

func handleStatsCommand(update tgbotapi.Update) {
	ctx, cancel := context.WithTimeout(context.Background(), commandTimeout)
	defer cancel()

	stats, err := store.GetPlatformStats(ctx)
	if err != nil {
		appLogger.Error("Stats command failed", "error", err.Error())
		SendReply(update.Message.Chat.ID, "An error occurred while fetching platform stats.")
		return
	}

	text := fmt.Sprintf(`*Platform stats*
Users: %d
Creators: %d
Posts: %d
Purchases: %d
Messages: %d`, stats.Users, stats.Creators, stats.Posts, stats.Purchases, stats.Messages)
	SendReply(update.Message.Chat.ID, text)
}

func handleUserCommand(update tgbotapi.Update, args string) {
	wallet := strings.TrimSpace(args)
	if !utils.IsValidAddress(wallet) {
		SendReply(update.Message.Chat.ID, "Usage: /user {wallet-address}")
		return
	}
	wallet = utils.NormalizeAddress(wallet)

	ctx, cancel := context.WithTimeout(context.Background(), commandTimeout)
	defer cancel()

	user, err := store.GetUserByAddress(ctx, wallet)
	if err != nil {
		appLogger.Error("User command failed", "wallet", wallet, "error", err.Error())
		SendReply(update.Message.Chat.ID, "An error occurred while looking up the user.")
		return
	}
	if user == nil {
		SendReply(update.Message.Chat.ID, fmt.Sprintf("No account found for `%s`.", wallet))
		return
	}

	text := fmt.Sprintf("Username: %s\nCreator: %t\nFollowers: %d\nFollowing: %d\nJoined: %s",
		user.Username, user.IsCreator, user.FollowersCount, user.FollowingCount,
		user.CreatedAt.Format("2006-01-02"))
	SendReply(update.Message.Chat.ID, text)
}

func handleCreatorCommand(update tgbotapi.Update, args string) {
	wallet := strings.TrimSpace(args)
	if !utils.IsValidAddress(wallet) {
		SendReply(update.Message.Chat.ID, "Usage: /creator {wallet-address}")
		return
	}
	wallet = utils.NormalizeAddress(wallet)

	ctx, cancel := context.WithTimeout(context.Background(), commandTimeout)
	defer cancel()

	user, err := store.GetUserByAddress(ctx, wallet)
	if err != nil || user == nil {
		SendReply(update.Message.Chat.ID, fmt.Sprintf("No account found for `%s`.", wallet))
		return
	}
	if !user.IsCreator {
		SendReply(update.Message.Chat.ID, fmt.Sprintf("`%s` is not a creator account.", wallet))
		return
	}

	posts, err := store.ListPostsByCreator(ctx, wallet)
	if err != nil {
		appLogger.Error("Creator command failed", "wallet", wallet, "error", err.Error())
		SendReply(update.Message.Chat.ID, "An error occurred while listing creator posts.")
		return
	}

	var paid, purchases int64
	for _, post := range posts {
		if post.IsPaid {
			paid++
		}
		purchases += post.PurchaseCount
	}
	text := fmt.Sprintf("Creator: %s\nPosts: %d (%d paid)\nTotal purchases: %d",
		user.Username, len(posts), paid, purchases)
	SendReply(update.Message.Chat.ID, text)
}

func handleHelpCommand(update tgbotapi.Update) {
	helpText := `Available commands:
/stats - Platform row counts.
/user {wallet} - Look up an account.
/creator {wallet} - Creator post and purchase summary.
/help - Show this help message.`
	SendReply(update.Message.Chat.ID, helpText)
}

func SendReply(chatID int64, text string) {
	if botInstance == nil {
		log.Println("ERROR: Cannot send reply, bot is not initialized.")
		if appLogger != nil {
			appLogger.Error("Cannot send reply, bot is not initialized.")
		}
		return
	}
	msg := tgbotapi.NewMessage(chatID, text)
	msg.ParseMode = tgbotapi.ModeMarkdown

	if _, err := botInstance.Send(msg); err != nil {
		if appLogger != nil {
			appLogger.Error("Failed to send reply message", "error", err.Error(), "chatID", chatID)
		} else {
			log.Printf("ERROR: Failed to send reply: %v", err)
		}
	}
}
