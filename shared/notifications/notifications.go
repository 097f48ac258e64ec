package notifications

import (
	"context"
	"faceboobs/shared/env"
	"fmt"
	"log"
	"math"
	"strings"
	"time"

	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"
	"golang.org/x/time/rate"
)

var bot *tgbotapi.BotAPI
var isInitialized bool = false
var telegramLimiter *rate.Limiter

func InitTelegramBot() error {
	if isInitialized && bot != nil {
		log.Println("INFO: Telegram bot already initialized.")
		return nil
	}

	isInitialized = false
	bot = nil
	telegramLimiter = nil

	botToken := env.TelegramBotToken
	groupID := env.TelegramGroupID

	if botToken == "" {
		return fmt.Errorf("critical error: TELEGRAM_BOT_TOKEN missing from env configuration")
	}
	if groupID == 0 {
		return fmt.Errorf("critical error: TELEGRAM_GROUP_ID missing or invalid in env configuration")
	}
	log.Println("Initializing Telegram bot API...")
	var err error

	bot, err = tgbotapi.NewBotAPI(botToken)
	if err != nil {
		bot = nil
		return fmt.Errorf("failed to initialize Telegram bot API: %w", err)
	}
	log.Println("Verifying bot token with Telegram API (GetMe)...")
	userInfo, err := bot.GetMe()
	if err != nil {
		bot = nil
		return fmt.Errorf("failed to verify bot token with GetMe API call: %w", err)
	}
	isInitialized = true
	telegramLimiter = rate.NewLimiter(rate.Limit(0.2), 1)
	log.Printf("Telegram bot initialized successfully for @%s", userInfo.UserName)
	log.Printf("Telegram rate limiter initialized (1 msg / 5 sec)")

	escapedUsername := EscapeMarkdownV2(userInfo.UserName)
	startupMessageFormatted := fmt.Sprintf("Ops bot connected successfully \\(@%s\\)\\. Ready\\.", escapedUsername)
	SendSystemLogMessage(startupMessageFormatted)

	return nil
}

func GetBotInstance() *tgbotapi.BotAPI {
	if !isInitialized || bot == nil {
		log.Println("WARN: GetBotInstance called but bot is not initialized or initialization failed.")
	}
	return bot
}

func SendTelegramMessage(message string) {
	sendMessageWithRetry(env.TelegramGroupID, 0, message)
}

func SendSystemLogMessage(message string) {
	targetChatID := env.TelegramGroupID
	targetThreadID := env.SystemLogsThreadID

	sendMessageWithRetry(targetChatID, targetThreadID, message)
}

func LogToTelegram(message string) {
	SendSystemLogMessage(message)
}

// LogPurchaseSettled posts a settled-purchase summary to the ops channel.
func LogPurchaseSettled(buyer string, postID uint, amount, txHash string, synced bool) {
	syncNote := "db synced"
	if !synced {
		syncNote = "db sync FAILED \\(on\\-chain only\\)"
	}
	message := fmt.Sprintf(
		`*Purchase Settled*
 *Buyer:* %s
 *Post:* %d
 *Amount:* %s
 *Tx:* %s
 *Sync:* %s`,
		EscapeMarkdownV2(buyer), postID, EscapeMarkdownV2(amount), EscapeMarkdownV2(txHash), syncNote,
	)

	SendTelegramMessage(message)
}

func sendMessageWithRetry(chatID int64, messageThreadID int, text string) {
	if telegramLimiter == nil {
		log.Println("WARN: Telegram rate limiter not initialized! Sending text without global limit check.")
	} else {
		if err := telegramLimiter.Wait(context.Background()); err != nil {
			log.Printf("ERROR: Telegram rate limiter wait error for text chat %d: %v. Proceeding with send attempt...", chatID, err)
		}
	}
	if bot == nil {
		log.Println("ERROR: Cannot send message, Telegram bot is not initialized.")
		return
	}
	if chatID == 0 {
		log.Println("ERROR: Cannot send message, target chatID is 0.")
		return
	}

	logCtx := fmt.Sprintf("[Text - ChatID: %d, ThreadID Attempted: %d]", chatID, messageThreadID)

	msg := tgbotapi.NewMessage(chatID, text)
	msg.ParseMode = tgbotapi.ModeMarkdownV2

	maxRetries := 3
	var lastErr error
	for i := 0; i < maxRetries; i++ {
		_, err := bot.Send(msg)
		if err == nil {
			return
		}

		lastErr = err

		if tgErr, ok := err.(*tgbotapi.Error); ok {
			log.Printf("ERROR: Failed Telegram text send (Attempt %d/%d): API Err %d - %s %s",
				i+1, maxRetries, tgErr.Code, tgErr.Message, logCtx)

			if tgErr.Code == 429 {
				retryAfter := tgErr.RetryAfter
				if retryAfter <= 0 {
					retryAfter = 1
				}
				log.Printf("INFO: Telegram API rate limit hit (429) sending text. Retrying after %d seconds... %s", retryAfter, logCtx)
				time.Sleep(time.Duration(retryAfter) * time.Second)
				continue
			}
			if tgErr.Code == 400 && strings.Contains(tgErr.Message, "message thread not found") {
				log.Printf("INFO: Ignoring 'message thread not found' error for text. %s", logCtx)
			}
		} else {
			log.Printf("ERROR: Failed Telegram text send (Attempt %d/%d): General Error %v %s",
				i+1, maxRetries, err, logCtx)
		}

		if i < maxRetries-1 {
			waitDuration := time.Duration(math.Pow(2, float64(i))) * time.Second
			if waitDuration < time.Second {
				waitDuration = time.Second
			}
			time.Sleep(waitDuration)
		}
	}
	log.Printf("ERROR: Telegram text message failed to send after %d retries. Last Error: %v. %s", maxRetries, lastErr, logCtx)
}

func EscapeMarkdownV2(s string) string {
	charsToEscape := []string{"_", "*", "[", "]", "(", ")", "~", "`", ">", "#", "+", "-", "=", "|", "{", "}", ".", "!"}
	temp := s
	for _, char := range charsToEscape {
		temp = strings.ReplaceAll(temp, char, "\\"+char)
	}
	return temp
}
