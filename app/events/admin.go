package events

import (
	"context"
	"fmt"
	"log"
	"strconv"
	"strings"
	"time"

	tbapi "github.com/OvyFlash/telegram-bot-api"
	cache "github.com/go-pkgz/expirable-cache/v3"
)

// admin handles the reversal buttons on warning notices and the settings
// commands. All actions require the acting user to be a chat administrator,
// checked against a cached admin list.
type admin struct {
	tbAPI    TbAPI
	warnings WarningsStore
	settings SettingsStore
	dry      bool

	adminsCache cache.Cache[int64, map[int64]bool] // chat id -> admin user ids
}

const adminsCacheTTL = time.Hour

// InlineCallbackHandler processes a button press on a warning notice.
// Data is "w<userID>" for cancel-warning and "u<userID>" for unmute.
// Presses from non-admins get a visible alert and change nothing.
func (a *admin) InlineCallbackHandler(ctx context.Context, query *tbapi.CallbackQuery) error {
	if query.Message == nil {
		return fmt.Errorf("callback %q without a message", query.Data)
	}
	chatID := query.Message.Chat.ID

	ok, err := a.isAdmin(chatID, query.From.ID)
	if err != nil {
		a.answer(query.ID, "can't verify permissions, try again", true)
		return fmt.Errorf("failed to check admin status for %d in chat %d: %w", query.From.ID, chatID, err)
	}
	if !ok {
		log.Printf("[INFO] user %s (%d) pressed %q in chat %d without admin rights",
			query.From.UserName, query.From.ID, query.Data, chatID)
		a.answer(query.ID, "only admins can do that", true)
		return nil
	}

	userID, action, err := parseCallbackData(query.Data)
	if err != nil {
		return err
	}

	if a.dry {
		log.Printf("[INFO] dry mode: would %s for user %d in chat %d", action, userID, chatID)
		a.answer(query.ID, "dry mode, nothing changed", false)
		return nil
	}

	switch action {
	case cancelWarningPrefix:
		if err := a.warnings.Clear(ctx, chatID, userID); err != nil {
			a.answer(query.ID, "failed to cancel the warning", true)
			return fmt.Errorf("failed to clear warnings for %d:%d: %w", chatID, userID, err)
		}
		a.answer(query.ID, "warning cancelled", false)
		a.closeNotice(query, fmt.Sprintf("warning cancelled by %s", query.From.UserName))
		log.Printf("[INFO] warning for user %d in chat %d cancelled by %s", userID, chatID, query.From.UserName)

	case unmutePrefix:
		if err := unmuteUser(a.tbAPI, chatID, userID); err != nil {
			a.answer(query.ID, "failed to unmute", true)
			return fmt.Errorf("failed to unmute %d in chat %d: %w", userID, chatID, err)
		}
		if err := a.warnings.Clear(ctx, chatID, userID); err != nil {
			log.Printf("[WARN] user %d unmuted but warnings not cleared: %v", userID, err)
		}
		a.answer(query.ID, "user unmuted", false)
		a.closeNotice(query, fmt.Sprintf("unmuted by %s", query.From.UserName))
		log.Printf("[INFO] user %d in chat %d unmuted by %s", userID, chatID, query.From.UserName)
	}

	return nil
}

// SettingCommand handles "/strict on" style commands, admin-only
func (a *admin) SettingCommand(ctx context.Context, msg *tbapi.Message, cmd settingCommand) error {
	if msg.From == nil {
		return nil
	}
	chatID := msg.Chat.ID

	ok, err := a.isAdmin(chatID, msg.From.ID)
	if err != nil {
		return fmt.Errorf("failed to check admin status for %d in chat %d: %w", msg.From.ID, chatID, err)
	}
	if !ok {
		log.Printf("[INFO] settings command from non-admin %s (%d) in chat %d ignored",
			msg.From.UserName, msg.From.ID, chatID)
		return send(tbapi.NewMessage(chatID, "only admins can change settings"), a.tbAPI)
	}

	if a.dry {
		log.Printf("[INFO] dry mode: would set %s=%v for chat %d", cmd.name, cmd.value, chatID)
		return nil
	}

	if err := a.settings.Set(ctx, chatID, cmd.name, cmd.value); err != nil {
		return fmt.Errorf("failed to set %s for chat %d: %w", cmd.name, chatID, err)
	}
	log.Printf("[INFO] %s set %s=%v for chat %d", msg.From.UserName, cmd.name, cmd.value, chatID)

	state := "off"
	if cmd.value {
		state = "on"
	}
	return send(tbapi.NewMessage(chatID, fmt.Sprintf("%s is now %s", strings.ReplaceAll(cmd.name, "_", " "), state)), a.tbAPI)
}

// isAdmin reports if the user is an administrator or the creator of the chat.
// The admin list is fetched lazily and cached, a failed fetch denies the action.
func (a *admin) isAdmin(chatID, userID int64) (bool, error) {
	if a.adminsCache == nil {
		a.adminsCache = cache.NewCache[int64, map[int64]bool]().WithTTL(adminsCacheTTL).WithMaxKeys(100)
	}

	admins, ok := a.adminsCache.Get(chatID)
	if !ok {
		members, err := a.tbAPI.GetChatAdministrators(
			tbapi.ChatAdministratorsConfig{ChatConfig: tbapi.ChatConfig{ChatID: chatID}})
		if err != nil {
			return false, fmt.Errorf("failed to get chat administrators: %w", err)
		}
		admins = make(map[int64]bool, len(members))
		for _, m := range members {
			admins[m.User.ID] = true
		}
		a.adminsCache.Set(chatID, admins, 0)
		log.Printf("[DEBUG] cached %d admins for chat %d", len(admins), chatID)
	}
	return admins[userID], nil
}

// answer acknowledges the callback, with a popup alert if alert is set
func (a *admin) answer(queryID, text string, alert bool) {
	cb := tbapi.CallbackConfig{CallbackQueryID: queryID, Text: text, ShowAlert: alert}
	if _, err := a.tbAPI.Request(cb); err != nil {
		log.Printf("[WARN] failed to answer callback: %v", err)
	}
}

// closeNotice rewrites the notice without the button, best-effort
func (a *admin) closeNotice(query *tbapi.CallbackQuery, note string) {
	text := query.Message.Text + "\n\n" + note
	edit := tbapi.NewEditMessageText(query.Message.Chat.ID, query.Message.MessageID, text)
	if err := send(edit, a.tbAPI); err != nil {
		log.Printf("[WARN] failed to update notice: %v", err)
	}
}

func parseCallbackData(data string) (userID int64, action string, err error) {
	if len(data) < 2 {
		return 0, "", fmt.Errorf("unexpected callback data %q", data)
	}
	action = data[:1]
	if action != cancelWarningPrefix && action != unmutePrefix {
		return 0, "", fmt.Errorf("unexpected callback action %q", data)
	}
	userID, err = strconv.ParseInt(data[1:], 10, 64)
	if err != nil {
		return 0, "", fmt.Errorf("failed to parse user id from %q: %w", data, err)
	}
	return userID, action, nil
}
