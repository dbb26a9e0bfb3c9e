package events

import (
	"context"
	"fmt"
	"log"
	"time"

	tbapi "github.com/OvyFlash/telegram-bot-api"
	"github.com/go-pkgz/repeater"
	"github.com/hashicorp/go-multierror"

	"github.com/hemanth-attr/groupguard/app/bot"
)

// callback data prefixes for the warning notice buttons, followed by the user id
const (
	cancelWarningPrefix = "w"
	unmutePrefix        = "u"
)

// escalator acts on spam verdicts: deletes the message, registers a warning
// and below the limit posts a warning notice, at the limit mutes the user.
// Every notice carries an admin-only reversal button.
type escalator struct {
	tbAPI        TbAPI
	warnings     WarningsStore
	warnLimit    int
	muteDuration time.Duration
	dry          bool
}

// Escalate handles a single spam verdict. The message delete and the mute are
// best-effort, the warning record and the notice go out regardless.
func (e *escalator) Escalate(ctx context.Context, msg bot.Message, verdict bot.Verdict) error {
	if e.dry {
		log.Printf("[INFO] dry mode: would escalate for %s in chat %d, reason %q",
			bot.DisplayName(msg), msg.ChatID, verdict.Reason)
		return nil
	}

	errs := new(multierror.Error)

	if err := deleteMessage(e.tbAPI, msg.ChatID, msg.ID); err != nil {
		errs = multierror.Append(errs, err)
	}

	count, _, err := e.warnings.Add(ctx, msg.ChatID, msg.From.ID)
	if err != nil {
		errs = multierror.Append(errs, fmt.Errorf("failed to register warning: %w", err))
		return errs.ErrorOrNil()
	}
	log.Printf("[INFO] warning %d/%d for %s in chat %d, reason %q",
		count, e.warnLimit, bot.DisplayName(msg), msg.ChatID, verdict.Reason)

	if count < e.warnLimit {
		if err := e.sendNotice(ctx, msg.ChatID,
			fmt.Sprintf("@%s removed as spam (%s)\nwarning %d of %d",
				escapeMarkDownV1Text(bot.DisplayName(msg)), verdict.Reason, count, e.warnLimit),
			"Cancel warning", fmt.Sprintf("%s%d", cancelWarningPrefix, msg.From.ID)); err != nil {
			errs = multierror.Append(errs, err)
		}
		return errs.ErrorOrNil()
	}

	muted := false
	if verdict.Settings.Enforcement {
		req := muteRequest{tbAPI: e.tbAPI, chatID: msg.ChatID, userID: msg.From.ID,
			userName: bot.DisplayName(msg), duration: e.muteDuration}
		if err := muteUser(req); err != nil {
			log.Printf("[WARN] failed to mute %s in chat %d: %v", bot.DisplayName(msg), msg.ChatID, err)
		} else {
			muted = true
		}
	}

	text := fmt.Sprintf("@%s reached %d warnings (%s)",
		escapeMarkDownV1Text(bot.DisplayName(msg)), count, verdict.Reason)
	if muted {
		text += fmt.Sprintf("\nmuted for %v", e.muteDuration)
	}
	if err := e.sendNotice(ctx, msg.ChatID, text,
		"Unmute", fmt.Sprintf("%s%d", unmutePrefix, msg.From.ID)); err != nil {
		errs = multierror.Append(errs, err)
	}
	return errs.ErrorOrNil()
}

// sendNotice posts a notice with a single inline button, retried a few times
// as notices are the only visible trace of the action
func (e *escalator) sendNotice(ctx context.Context, chatID int64, text, button, data string) error {
	tbMsg := tbapi.NewMessage(chatID, text)
	tbMsg.ReplyMarkup = tbapi.NewInlineKeyboardMarkup(
		tbapi.NewInlineKeyboardRow(tbapi.NewInlineKeyboardButtonData(button, data)))

	err := repeater.NewDefault(3, time.Second).Do(ctx, func() error { return send(tbMsg, e.tbAPI) })
	if err != nil {
		return fmt.Errorf("failed to send notice to chat %d: %w", chatID, err)
	}
	return nil
}
