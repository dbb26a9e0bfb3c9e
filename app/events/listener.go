package events

import (
	"context"
	"fmt"
	"log"
	"strconv"
	"strings"
	"time"
	"unicode/utf16"

	tbapi "github.com/OvyFlash/telegram-bot-api"
	cache "github.com/go-pkgz/expirable-cache/v3"

	"github.com/hemanth-attr/groupguard/app/bot"
	"github.com/hemanth-attr/groupguard/app/storage"
)

//go:generate moq --out mocks/bot.go --pkg mocks --with-resets --skip-ensure . Bot
//go:generate moq --out mocks/spam_logger.go --pkg mocks --with-resets --skip-ensure . SpamLogger
//go:generate moq --out mocks/warnings_store.go --pkg mocks --with-resets --skip-ensure . WarningsStore
//go:generate moq --out mocks/settings_store.go --pkg mocks --with-resets --skip-ensure . SettingsStore

// Bot checks the message and returns the spam verdict
type Bot interface {
	OnMessage(ctx context.Context, msg bot.Message) bot.Verdict
}

// SpamLogger saves spam verdicts to the permanent log
type SpamLogger interface {
	Save(msg *bot.Message, verdict *bot.Verdict)
}

// SpamLoggerFunc adapter to allow the use of ordinary functions as SpamLogger
type SpamLoggerFunc func(msg *bot.Message, verdict *bot.Verdict)

// Save calls f(msg, verdict)
func (f SpamLoggerFunc) Save(msg *bot.Message, verdict *bot.Verdict) {
	f(msg, verdict)
}

// WarningsStore keeps per-(chat,user) warning counts
type WarningsStore interface {
	Add(ctx context.Context, chatID, userID int64) (count int, expiry time.Time, err error)
	Clear(ctx context.Context, chatID, userID int64) error
}

// SettingsStore keeps per-chat moderation flags
type SettingsStore interface {
	Get(ctx context.Context, chatID int64) (storage.Settings, error)
	Set(ctx context.Context, chatID int64, name string, value bool) error
}

// TelegramListener listens to tg updates, forwards messages to the spam filter
// and routes the verdicts to the escalation controller. Callback queries go to
// the admin handler (warning controls) or the membership gate.
// Not thread safe.
type TelegramListener struct {
	TbAPI      TbAPI
	Bot        Bot
	SpamLogger SpamLogger
	Warnings   WarningsStore
	Settings   SettingsStore
	Group      string // can be int64 or public group username (without "@" prefix)

	WarnLimit    int           // warnings before mute, default 3
	MuteDuration time.Duration // default 24h
	Gate         *Gate         // optional, private /start file gate
	Dry          bool

	chatID       int64
	escalator    *escalator
	adminHandler *admin
	mentions     cache.Cache[string, bool] // mention -> resolved to channel
}

// Do process all events, blocked call
func (l *TelegramListener) Do(ctx context.Context) error {
	log.Printf("[INFO] start telegram listener for %q", l.Group)

	var getChatErr error
	if l.chatID, getChatErr = l.getChatID(l.Group); getChatErr != nil {
		return fmt.Errorf("failed to get chat ID for group %q: %w", l.Group, getChatErr)
	}

	if l.WarnLimit <= 0 {
		l.WarnLimit = 3
	}
	if l.MuteDuration <= 0 {
		l.MuteDuration = 24 * time.Hour
	}
	l.mentions = newMentionsCache()

	l.adminHandler = &admin{tbAPI: l.TbAPI, warnings: l.Warnings, settings: l.Settings, dry: l.Dry}
	l.escalator = &escalator{tbAPI: l.TbAPI, warnings: l.Warnings, warnLimit: l.WarnLimit,
		muteDuration: l.MuteDuration, dry: l.Dry}

	u := tbapi.NewUpdate(0)
	u.Timeout = 60

	updates := l.TbAPI.GetUpdatesChan(u)

	for {
		select {

		case <-ctx.Done():
			return ctx.Err()

		case update, ok := <-updates:
			if !ok {
				return fmt.Errorf("telegram update chan closed")
			}

			if update.CallbackQuery != nil {
				if err := l.procCallback(ctx, update.CallbackQuery); err != nil {
					log.Printf("[WARN] failed to process callback: %v", err)
				}
				continue
			}

			if update.Message == nil {
				continue
			}

			if update.Message.Chat.IsPrivate() {
				if l.Gate != nil && strings.HasPrefix(update.Message.Text, "/start") {
					if err := l.Gate.Start(update.Message.Chat.ID, update.Message.From); err != nil {
						log.Printf("[WARN] failed to start gate for %d: %v", update.Message.Chat.ID, err)
					}
				}
				continue
			}

			if err := l.procEvent(ctx, update); err != nil {
				log.Printf("[WARN] failed to process update: %v", err)
				continue
			}
		}
	}
}

// procCallback routes inline button presses. Data prefixes: "w" cancel warning,
// "u" unmute, "done" membership gate recheck.
func (l *TelegramListener) procCallback(ctx context.Context, query *tbapi.CallbackQuery) error {
	if query.Data == gateDoneCallback {
		if l.Gate == nil {
			return fmt.Errorf("gate callback without a gate configured")
		}
		return l.Gate.Done(query)
	}
	return l.adminHandler.InlineCallbackHandler(ctx, query)
}

func (l *TelegramListener) procEvent(ctx context.Context, update tbapi.Update) error {
	if !l.isChatAllowed(update.Message.Chat.ID) {
		return nil
	}

	if cmd := parseSettingCommand(update.Message.Text); cmd != nil {
		return l.adminHandler.SettingCommand(ctx, update.Message, *cmd)
	}

	msg := l.transform(update.Message)
	if len(msg.NewChatMembers) > 0 {
		for _, u := range msg.NewChatMembers {
			log.Printf("[INFO] new member in chat %d: %s (%d)", msg.ChatID, u.Username, u.ID)
		}
		return nil
	}

	l.resolveMentions(msg)
	log.Printf("[DEBUG] incoming msg: %+v", strings.ReplaceAll(msg.Text, "\n", " "))

	verdict := l.Bot.OnMessage(ctx, *msg)
	if !verdict.Spam {
		return nil
	}

	if l.SpamLogger != nil {
		l.SpamLogger.Save(msg, &verdict)
	}
	return l.escalator.Escalate(ctx, *msg, verdict)
}

func (l *TelegramListener) isChatAllowed(fromChat int64) bool {
	return fromChat == l.chatID
}

func newMentionsCache() cache.Cache[string, bool] {
	return cache.NewCache[string, bool]().WithTTL(time.Hour).WithMaxKeys(1000)
}

// resolveMentions marks mention entities pointing to channels or groups.
// Lookups are cached and fail open, a user mention lookup always errors.
func (l *TelegramListener) resolveMentions(msg *bot.Message) {
	for i, e := range msg.Entities {
		if e.Type != "mention" || e.Text == "" {
			continue
		}
		name := strings.TrimPrefix(e.Text, "@")
		if isChannel, ok := l.mentions.Get(name); ok {
			msg.Entities[i].IsChannel = isChannel
			continue
		}
		isChannel := false
		chat, err := l.TbAPI.GetChat(tbapi.ChatInfoConfig{ChatConfig: tbapi.ChatConfig{SuperGroupUsername: "@" + name}})
		if err != nil {
			log.Printf("[DEBUG] can't resolve mention @%s, treated as user: %v", name, err)
		} else {
			isChannel = chat.Type == "channel" || chat.Type == "supergroup" || chat.Type == "group"
		}
		l.mentions.Set(name, isChannel, 0)
		msg.Entities[i].IsChannel = isChannel
	}
}

func (l *TelegramListener) getChatID(group string) (int64, error) {
	chatID, err := strconv.ParseInt(group, 10, 64)
	if err == nil {
		return chatID, nil
	}

	chat, err := l.TbAPI.GetChat(tbapi.ChatInfoConfig{ChatConfig: tbapi.ChatConfig{SuperGroupUsername: "@" + group}})
	if err != nil {
		return 0, fmt.Errorf("can't get chat for %s: %w", group, err)
	}

	return chat.ID, nil
}

func (l *TelegramListener) transform(msg *tbapi.Message) *bot.Message {
	message := bot.Message{
		ID:   msg.MessageID,
		Sent: msg.Time(),
		Text: msg.Text,
	}

	message.ChatID = msg.Chat.ID

	if msg.From != nil {
		message.From = bot.User{
			ID:       msg.From.ID,
			Username: msg.From.UserName,
		}
	}

	if msg.From != nil && strings.TrimSpace(msg.From.FirstName) != "" {
		message.From.DisplayName = msg.From.FirstName
	}
	if msg.From != nil && strings.TrimSpace(msg.From.LastName) != "" {
		message.From.DisplayName += " " + msg.From.LastName
	}

	for _, u := range msg.NewChatMembers {
		message.NewChatMembers = append(message.NewChatMembers, bot.User{
			ID:          u.ID,
			Username:    u.UserName,
			DisplayName: strings.TrimSpace(u.FirstName + " " + u.LastName),
		})
	}

	if msg.Caption != "" {
		if message.Text == "" {
			message.Text = msg.Caption
			message.Entities = transformEntities(msg.Caption, msg.CaptionEntities)
		} else {
			message.Text += "\n" + msg.Caption
		}
	}
	if len(msg.Entities) > 0 {
		message.Entities = transformEntities(msg.Text, msg.Entities)
	}

	if message.Text == "" && (len(msg.Photo) > 0 || msg.Video != nil || msg.Sticker != nil ||
		msg.Document != nil || msg.Animation != nil || msg.VideoNote != nil || msg.Voice != nil) {
		message.MediaOnly = true
	}

	return &message
}

func transformEntities(text string, entities []tbapi.MessageEntity) []bot.Entity {
	if len(entities) == 0 {
		return nil
	}

	result := make([]bot.Entity, 0, len(entities))
	for _, entity := range entities {
		e := bot.Entity{
			Type:   entity.Type,
			Offset: entity.Offset,
			Length: entity.Length,
			Text:   entityText(text, entity),
			URL:    entity.URL,
		}
		if entity.User != nil {
			e.User = &bot.User{
				ID:          entity.User.ID,
				Username:    entity.User.UserName,
				DisplayName: entity.User.FirstName + " " + entity.User.LastName,
			}
		}
		result = append(result, e)
	}

	return result
}

// entityText extracts the covered text, entity offsets are utf-16 code units
func entityText(text string, e tbapi.MessageEntity) string {
	encoded := utf16.Encode([]rune(text))
	if e.Offset < 0 || e.Length < 0 || e.Offset+e.Length > len(encoded) {
		return ""
	}
	return string(utf16.Decode(encoded[e.Offset : e.Offset+e.Length]))
}

// settingCommand is a parsed admin chat command, like "/strict on"
type settingCommand struct {
	name  string // settings column name
	value bool
}

var commandNames = map[string]string{
	"strict":    "strict_mode",
	"ml":        "ml_mode",
	"enforce":   "enforcement",
	"reactions": "auto_reaction",
}

// parseSettingCommand returns nil for anything that is not a settings command.
// Accepts the "/cmd@botname arg" form telegram clients send in groups.
func parseSettingCommand(text string) *settingCommand {
	if !strings.HasPrefix(text, "/") {
		return nil
	}
	fields := strings.Fields(text)
	if len(fields) != 2 {
		return nil
	}
	cmd := strings.TrimPrefix(fields[0], "/")
	if i := strings.Index(cmd, "@"); i >= 0 {
		cmd = cmd[:i]
	}
	name, ok := commandNames[cmd]
	if !ok {
		return nil
	}
	switch strings.ToLower(fields[1]) {
	case "on":
		return &settingCommand{name: name, value: true}
	case "off":
		return &settingCommand{name: name, value: false}
	}
	return nil
}
