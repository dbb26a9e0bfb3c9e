package events

import (
	"fmt"
	"log"
	"strings"

	tbapi "github.com/OvyFlash/telegram-bot-api"
	"github.com/hashicorp/go-multierror"
)

// gateDoneCallback is the callback data of the "Done" button on the join prompt
const gateDoneCallback = "done"

// Gate hands out a document in private chat, but only after the user joined
// all required channels. /start shows the join prompt, the Done button
// rechecks membership and delivers the file.
type Gate struct {
	TbAPI    TbAPI
	Channels []string // required channel usernames, without "@"

	FileID    string // the gated document
	StickerID string // optional, sent before the greeting
	ImageID   string // optional, photo on the join prompt
	Greeting  string // optional, text sent along with the document
}

// Start sends the join prompt with a button per required channel and Done
func (g *Gate) Start(chatID int64, from *tbapi.User) error {
	userName := ""
	if from != nil {
		userName = from.UserName
	}
	log.Printf("[INFO] gate prompt for %s (%d)", userName, chatID)

	text := "to get the file, join the channels below and press Done"
	keyboard := g.promptKeyboard()

	if g.ImageID != "" {
		photo := tbapi.NewPhoto(chatID, tbapi.FileID(g.ImageID))
		photo.Caption = text
		photo.ReplyMarkup = keyboard
		if _, err := g.TbAPI.Send(photo); err != nil {
			return fmt.Errorf("failed to send gate prompt to %d: %w", chatID, err)
		}
		return nil
	}

	msg := tbapi.NewMessage(chatID, text)
	msg.ReplyMarkup = keyboard
	if err := send(msg, g.TbAPI); err != nil {
		return fmt.Errorf("failed to send gate prompt to %d: %w", chatID, err)
	}
	return nil
}

// Done handles the Done button: rechecks membership in every required channel
// and on success replaces the prompt with the sticker, greeting and document.
// A failed or unverifiable membership keeps the gate closed.
func (g *Gate) Done(query *tbapi.CallbackQuery) error {
	if query.Message == nil {
		return fmt.Errorf("gate callback without a message")
	}
	chatID := query.Message.Chat.ID
	userID := query.From.ID

	if !g.isMemberOfAll(userID) {
		cb := tbapi.CallbackConfig{CallbackQueryID: query.ID,
			Text: "you haven't joined all the channels yet", ShowAlert: true}
		if _, err := g.TbAPI.Request(cb); err != nil {
			log.Printf("[WARN] failed to answer gate callback: %v", err)
		}
		return nil
	}

	cb := tbapi.CallbackConfig{CallbackQueryID: query.ID, Text: "thanks for joining!"}
	if _, err := g.TbAPI.Request(cb); err != nil {
		log.Printf("[WARN] failed to answer gate callback: %v", err)
	}

	if err := deleteMessage(g.TbAPI, chatID, query.Message.MessageID); err != nil {
		log.Printf("[WARN] failed to remove gate prompt: %v", err)
	}

	errs := new(multierror.Error)
	if g.StickerID != "" {
		if _, err := g.TbAPI.Send(tbapi.NewSticker(chatID, tbapi.FileID(g.StickerID))); err != nil {
			errs = multierror.Append(errs, fmt.Errorf("failed to send sticker: %w", err))
		}
	}
	if g.Greeting != "" {
		if err := send(tbapi.NewMessage(chatID, g.Greeting), g.TbAPI); err != nil {
			errs = multierror.Append(errs, err)
		}
	}
	if _, err := g.TbAPI.Send(tbapi.NewDocument(chatID, tbapi.FileID(g.FileID))); err != nil {
		errs = multierror.Append(errs, fmt.Errorf("failed to send document: %w", err))
	}

	if errs.ErrorOrNil() == nil {
		log.Printf("[INFO] gated file delivered to %s (%d)", query.From.UserName, userID)
	}
	return errs.ErrorOrNil()
}

// isMemberOfAll checks the user is a proper member of every required channel.
// Only member, administrator and creator qualify, a restricted user or a
// failed lookup counts as not joined.
func (g *Gate) isMemberOfAll(userID int64) bool {
	for _, ch := range g.Channels {
		name := "@" + strings.TrimPrefix(ch, "@")
		member, err := g.TbAPI.GetChatMember(tbapi.GetChatMemberConfig{
			ChatConfigWithUser: tbapi.ChatConfigWithUser{
				ChatConfig: tbapi.ChatConfig{SuperGroupUsername: name},
				UserID:     userID,
			},
		})
		if err != nil {
			log.Printf("[WARN] can't check membership of %d in %s: %v", userID, name, err)
			return false
		}
		switch member.Status {
		case "member", "administrator", "creator":
		default:
			log.Printf("[DEBUG] user %d is %q in %s, gate stays closed", userID, member.Status, name)
			return false
		}
	}
	return true
}

func (g *Gate) promptKeyboard() tbapi.InlineKeyboardMarkup {
	rows := make([][]tbapi.InlineKeyboardButton, 0, len(g.Channels)+1)
	for _, ch := range g.Channels {
		name := strings.TrimPrefix(ch, "@")
		rows = append(rows, tbapi.NewInlineKeyboardRow(
			tbapi.NewInlineKeyboardButtonURL("join @"+name, "https://t.me/"+name)))
	}
	rows = append(rows, tbapi.NewInlineKeyboardRow(
		tbapi.NewInlineKeyboardButtonData("Done", gateDoneCallback)))
	return tbapi.NewInlineKeyboardMarkup(rows...)
}
