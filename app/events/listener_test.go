package events

import (
	"context"
	"errors"
	"testing"
	"time"

	tbapi "github.com/OvyFlash/telegram-bot-api"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/hemanth-attr/groupguard/app/bot"
	"github.com/hemanth-attr/groupguard/app/events/mocks"
	"github.com/hemanth-attr/groupguard/app/storage"
)

func makeListener(updates chan tbapi.Update) (*TelegramListener, *mocks.TbAPIMock, *mocks.BotMock, *mocks.WarningsStoreMock) {
	mockAPI := &mocks.TbAPIMock{
		GetUpdatesChanFunc: func(config tbapi.UpdateConfig) tbapi.UpdatesChannel { return updates },
		SendFunc:           func(c tbapi.Chattable) (tbapi.Message, error) { return tbapi.Message{}, nil },
		RequestFunc:        func(c tbapi.Chattable) (*tbapi.APIResponse, error) { return &tbapi.APIResponse{Ok: true}, nil },
		GetChatFunc: func(config tbapi.ChatInfoConfig) (tbapi.ChatFullInfo, error) {
			return tbapi.ChatFullInfo{}, errors.New("not a chat")
		},
		GetChatAdministratorsFunc: func(config tbapi.ChatAdministratorsConfig) ([]tbapi.ChatMember, error) {
			return []tbapi.ChatMember{{User: &tbapi.User{ID: 7}, Status: "administrator"}}, nil
		},
	}
	mockBot := &mocks.BotMock{OnMessageFunc: func(ctx context.Context, msg bot.Message) bot.Verdict {
		return bot.Verdict{}
	}}
	warnings := &mocks.WarningsStoreMock{
		AddFunc: func(ctx context.Context, chatID, userID int64) (int, time.Time, error) {
			return 1, time.Now().Add(24 * time.Hour), nil
		},
		ClearFunc: func(ctx context.Context, chatID, userID int64) error { return nil },
	}
	settings := &mocks.SettingsStoreMock{
		GetFunc: func(ctx context.Context, chatID int64) (storage.Settings, error) { return storage.Settings{}, nil },
		SetFunc: func(ctx context.Context, chatID int64, name string, value bool) error { return nil },
	}

	l := &TelegramListener{
		TbAPI:    mockAPI,
		Bot:      mockBot,
		Warnings: warnings,
		Settings: settings,
		Group:    "123",
	}
	return l, mockAPI, mockBot, warnings
}

func runListener(t *testing.T, l *TelegramListener) {
	t.Helper()
	err := l.Do(context.Background())
	assert.EqualError(t, err, "telegram update chan closed")
}

func TestListener_SpamEscalated(t *testing.T) {
	updates := make(chan tbapi.Update, 1)
	updates <- tbapi.Update{Message: &tbapi.Message{
		MessageID: 10,
		Chat:      tbapi.Chat{ID: 123, Type: "supergroup"},
		From:      &tbapi.User{ID: 100, UserName: "spammer"},
		Text:      "free crypto",
		Date:      int(time.Now().Unix()),
	}}
	close(updates)

	l, mockAPI, mockBot, warnings := makeListener(updates)
	logger := &mocks.SpamLoggerMock{SaveFunc: func(msg *bot.Message, verdict *bot.Verdict) {}}
	l.SpamLogger = logger
	mockBot.OnMessageFunc = func(ctx context.Context, msg bot.Message) bot.Verdict {
		return bot.Verdict{Spam: true, Reason: "keyword: free crypto"}
	}

	runListener(t, l)

	require.Len(t, mockBot.OnMessageCalls(), 1)
	assert.Equal(t, "free crypto", mockBot.OnMessageCalls()[0].Msg.Text)
	assert.Len(t, warnings.AddCalls(), 1)
	assert.Len(t, logger.SaveCalls(), 1)

	// spam message deleted and a warning notice posted
	require.Len(t, mockAPI.RequestCalls(), 1)
	_, ok := mockAPI.RequestCalls()[0].C.(tbapi.DeleteMessageConfig)
	assert.True(t, ok)
	require.Len(t, mockAPI.SendCalls(), 1)
}

func TestListener_HamIgnored(t *testing.T) {
	updates := make(chan tbapi.Update, 1)
	updates <- tbapi.Update{Message: &tbapi.Message{
		MessageID: 10,
		Chat:      tbapi.Chat{ID: 123, Type: "supergroup"},
		From:      &tbapi.User{ID: 100, UserName: "user"},
		Text:      "hello all",
	}}
	close(updates)

	l, mockAPI, mockBot, warnings := makeListener(updates)
	runListener(t, l)

	assert.Len(t, mockBot.OnMessageCalls(), 1)
	assert.Empty(t, warnings.AddCalls())
	assert.Empty(t, mockAPI.RequestCalls())
	assert.Empty(t, mockAPI.SendCalls())
}

func TestListener_OtherChatIgnored(t *testing.T) {
	updates := make(chan tbapi.Update, 1)
	updates <- tbapi.Update{Message: &tbapi.Message{
		Chat: tbapi.Chat{ID: 999, Type: "supergroup"},
		From: &tbapi.User{ID: 100},
		Text: "free crypto",
	}}
	close(updates)

	l, _, mockBot, _ := makeListener(updates)
	runListener(t, l)

	assert.Empty(t, mockBot.OnMessageCalls())
}

func TestListener_NewMembersSkipChecks(t *testing.T) {
	updates := make(chan tbapi.Update, 1)
	updates <- tbapi.Update{Message: &tbapi.Message{
		Chat:           tbapi.Chat{ID: 123, Type: "supergroup"},
		From:           &tbapi.User{ID: 100},
		NewChatMembers: []tbapi.User{{ID: 200, UserName: "newbie"}},
	}}
	close(updates)

	l, _, mockBot, _ := makeListener(updates)
	runListener(t, l)

	assert.Empty(t, mockBot.OnMessageCalls(), "join events are not spam checked")
}

func TestListener_SettingCommandRouted(t *testing.T) {
	updates := make(chan tbapi.Update, 1)
	updates <- tbapi.Update{Message: &tbapi.Message{
		Chat: tbapi.Chat{ID: 123, Type: "supergroup"},
		From: &tbapi.User{ID: 7, UserName: "boss"},
		Text: "/strict on",
	}}
	close(updates)

	l, mockAPI, mockBot, _ := makeListener(updates)
	runListener(t, l)

	assert.Empty(t, mockBot.OnMessageCalls(), "commands bypass the spam filter")
	require.Len(t, mockAPI.SendCalls(), 1)
	assert.Contains(t, mockAPI.SendCalls()[0].C.(tbapi.MessageConfig).Text, "strict mode is now on")
}

func TestListener_WarnCallbackRouted(t *testing.T) {
	updates := make(chan tbapi.Update, 1)
	updates <- tbapi.Update{CallbackQuery: &tbapi.CallbackQuery{
		ID:      "cb1",
		Data:    "w100",
		From:    &tbapi.User{ID: 7, UserName: "boss"},
		Message: &tbapi.Message{MessageID: 55, Chat: tbapi.Chat{ID: 123}, Text: "warning"},
	}}
	close(updates)

	l, _, _, warnings := makeListener(updates)
	runListener(t, l)

	assert.Len(t, warnings.ClearCalls(), 1)
}

func TestListener_GateStartAndDone(t *testing.T) {
	updates := make(chan tbapi.Update, 2)
	updates <- tbapi.Update{Message: &tbapi.Message{
		Chat: tbapi.Chat{ID: 100, Type: "private"},
		From: &tbapi.User{ID: 100, UserName: "joiner"},
		Text: "/start",
	}}
	updates <- tbapi.Update{CallbackQuery: &tbapi.CallbackQuery{
		ID:      "cb1",
		Data:    gateDoneCallback,
		From:    &tbapi.User{ID: 100, UserName: "joiner"},
		Message: &tbapi.Message{MessageID: 55, Chat: tbapi.Chat{ID: 100}},
	}}
	close(updates)

	l, mockAPI, mockBot, _ := makeListener(updates)
	mockAPI.GetChatMemberFunc = func(config tbapi.GetChatMemberConfig) (tbapi.ChatMember, error) {
		return tbapi.ChatMember{Status: "member"}, nil
	}
	l.Gate = &Gate{TbAPI: mockAPI, Channels: []string{"chan_one"}, FileID: "file-id"}
	runListener(t, l)

	assert.Empty(t, mockBot.OnMessageCalls(), "private chat is not spam checked")

	var prompt, document bool
	for _, call := range mockAPI.SendCalls() {
		switch call.C.(type) {
		case tbapi.MessageConfig:
			prompt = true
		case tbapi.DocumentConfig:
			document = true
		}
	}
	assert.True(t, prompt, "join prompt sent on /start")
	assert.True(t, document, "file delivered on done")
}

func TestListener_Transform(t *testing.T) {
	l := &TelegramListener{}

	t.Run("text with entities", func(t *testing.T) {
		// the emoji takes two utf-16 code units, offsets past it must still match
		msg := l.transform(&tbapi.Message{
			MessageID: 10,
			Chat:      tbapi.Chat{ID: 123},
			From:      &tbapi.User{ID: 100, UserName: "un", FirstName: "First", LastName: "Last"},
			Text:      "Hi 😀 t.me/spam",
			Entities:  []tbapi.MessageEntity{{Type: "url", Offset: 6, Length: 9}},
		})

		assert.Equal(t, int64(123), msg.ChatID)
		assert.Equal(t, "First Last", msg.From.DisplayName)
		require.Len(t, msg.Entities, 1)
		assert.Equal(t, "t.me/spam", msg.Entities[0].Text)
	})

	t.Run("caption only", func(t *testing.T) {
		msg := l.transform(&tbapi.Message{
			Chat:            tbapi.Chat{ID: 123},
			Caption:         "look here t.me/spam",
			CaptionEntities: []tbapi.MessageEntity{{Type: "url", Offset: 10, Length: 9}},
			Photo:           []tbapi.PhotoSize{{FileID: "f1"}},
		})

		assert.Equal(t, "look here t.me/spam", msg.Text)
		require.Len(t, msg.Entities, 1)
		assert.Equal(t, "t.me/spam", msg.Entities[0].Text)
		assert.False(t, msg.MediaOnly, "captioned media has text to check")
	})

	t.Run("media only", func(t *testing.T) {
		msg := l.transform(&tbapi.Message{
			Chat:  tbapi.Chat{ID: 123},
			From:  &tbapi.User{ID: 100},
			Photo: []tbapi.PhotoSize{{FileID: "f1"}},
		})
		assert.True(t, msg.MediaOnly)
		assert.Empty(t, msg.Text)
	})

	t.Run("new members", func(t *testing.T) {
		msg := l.transform(&tbapi.Message{
			Chat:           tbapi.Chat{ID: 123},
			NewChatMembers: []tbapi.User{{ID: 200, UserName: "newbie", FirstName: "New"}},
		})
		require.Len(t, msg.NewChatMembers, 1)
		assert.Equal(t, "New", msg.NewChatMembers[0].DisplayName)
	})
}

func TestListener_ResolveMentions(t *testing.T) {
	l := &TelegramListener{}
	mockAPI := &mocks.TbAPIMock{GetChatFunc: func(config tbapi.ChatInfoConfig) (tbapi.ChatFullInfo, error) {
		if config.ChatConfig.SuperGroupUsername == "@somechannel" {
			return tbapi.ChatFullInfo{Chat: tbapi.Chat{ID: 500, Type: "channel"}}, nil
		}
		return tbapi.ChatFullInfo{}, errors.New("not found")
	}}
	l.TbAPI = mockAPI
	l.mentions = newMentionsCache()

	msg := &bot.Message{Entities: []bot.Entity{
		{Type: "mention", Text: "@somechannel"},
		{Type: "mention", Text: "@someuser"},
	}}
	l.resolveMentions(msg)

	assert.True(t, msg.Entities[0].IsChannel)
	assert.False(t, msg.Entities[1].IsChannel, "failed lookup treated as user")
	assert.Len(t, mockAPI.GetChatCalls(), 2)

	// second pass hits the cache
	mockAPI.ResetGetChatCalls()
	l.resolveMentions(msg)
	assert.True(t, msg.Entities[0].IsChannel)
	assert.Empty(t, mockAPI.GetChatCalls())
}

func TestParseSettingCommand(t *testing.T) {
	tbl := []struct {
		text string
		res  *settingCommand
	}{
		{"/strict on", &settingCommand{name: "strict_mode", value: true}},
		{"/strict off", &settingCommand{name: "strict_mode", value: false}},
		{"/ml on", &settingCommand{name: "ml_mode", value: true}},
		{"/enforce ON", &settingCommand{name: "enforcement", value: true}},
		{"/reactions off", &settingCommand{name: "auto_reaction", value: false}},
		{"/strict@my_bot on", &settingCommand{name: "strict_mode", value: true}},
		{"/strict", nil},
		{"/strict maybe", nil},
		{"/unknown on", nil},
		{"strict on", nil},
		{"just a message", nil},
	}

	for _, tt := range tbl {
		t.Run(tt.text, func(t *testing.T) {
			assert.Equal(t, tt.res, parseSettingCommand(tt.text))
		})
	}
}

func TestListener_GetChatID(t *testing.T) {
	mockAPI := &mocks.TbAPIMock{GetChatFunc: func(config tbapi.ChatInfoConfig) (tbapi.ChatFullInfo, error) {
		if config.ChatConfig.SuperGroupUsername == "@mygroup" {
			return tbapi.ChatFullInfo{Chat: tbapi.Chat{ID: 321}}, nil
		}
		return tbapi.ChatFullInfo{}, errors.New("no such chat")
	}}
	l := &TelegramListener{TbAPI: mockAPI}

	id, err := l.getChatID("123")
	require.NoError(t, err)
	assert.Equal(t, int64(123), id)

	id, err = l.getChatID("mygroup")
	require.NoError(t, err)
	assert.Equal(t, int64(321), id)

	_, err = l.getChatID("nosuch")
	assert.Error(t, err)
}
