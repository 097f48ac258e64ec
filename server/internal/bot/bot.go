package bot

import (
	"context"
	"faceboobs/server/database"
	"faceboobs/shared/logger"
	"faceboobs/shared/notifications"
	"fmt"

	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"
)

var appLogger *logger.Logger
var botInstance *tgbotapi.BotAPI
var store *database.Store

// InitializeBot wires the ops command bot to the shared Telegram instance and
// the database store. Must run after notifications.InitTelegramBot.
func InitializeBot(logInstance *logger.Logger, dbStore *database.Store) error {
	if logInstance == nil {
		fmt.Println("FATAL ERROR: InitializeBot requires a non-nil logger instance")
		return fmt.Errorf("logger instance provided to InitializeBot is nil")
	}
	appLogger = logInstance
	store = dbStore
	botInstance = notifications.GetBotInstance()
	if botInstance == nil {
		appLogger.Error("Could not retrieve initialized Telegram bot instance from notifications package. Bot may not function.")
		return fmt.Errorf("failed to get tgbotapi bot instance")
	}
	appLogger.Info("Telegram ops bot initialized using go-telegram-bot-api/v5.")
	return nil
}

func StartListening(ctx context.Context) {
	if appLogger == nil {
		fmt.Println("ERROR: Logger not initialized for bot listener. Cannot start.")
		return
	}
	if botInstance == nil {
		appLogger.Warn("Bot API instance not available. Cannot start command listener.")
		return
	}
	appLogger.Info("Starting ops bot command listener...")

	u := tgbotapi.NewUpdate(0)
	u.Timeout = 60
	updates := botInstance.GetUpdatesChan(u)
	appLogger.Info("Listening for Telegram commands...")

	for {
		select {
		case update := <-updates:
			if update.Message == nil {
				continue
			}
			if !update.Message.Chat.IsGroup() && !update.Message.Chat.IsSuperGroup() && !update.Message.Chat.IsPrivate() {
				continue
			}
			if !update.Message.IsCommand() {
				continue
			}

			appLogger.Zap().Debugw("Received command message",
				"chatID", update.Message.Chat.ID,
				"fromUser", update.Message.From.UserName,
				"text", update.Message.Text,
			)

			go HandleCommand(update)

		case <-ctx.Done():
			appLogger.Info("Context cancelled. Stopping Telegram listener.")
			return
		}
	}
}
