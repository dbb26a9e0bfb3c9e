package events

import (
	"errors"
	"testing"

	tbapi "github.com/OvyFlash/telegram-bot-api"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/hemanth-attr/groupguard/app/events/mocks"
)

func makeGate(statuses map[string]string) (*Gate, *mocks.TbAPIMock) {
	mockAPI := &mocks.TbAPIMock{
		SendFunc:    func(c tbapi.Chattable) (tbapi.Message, error) { return tbapi.Message{}, nil },
		RequestFunc: func(c tbapi.Chattable) (*tbapi.APIResponse, error) { return &tbapi.APIResponse{Ok: true}, nil },
		GetChatMemberFunc: func(config tbapi.GetChatMemberConfig) (tbapi.ChatMember, error) {
			status, ok := statuses[config.ChatConfigWithUser.ChatConfig.SuperGroupUsername]
			if !ok {
				return tbapi.ChatMember{}, errors.New("chat not found")
			}
			return tbapi.ChatMember{Status: status}, nil
		},
	}
	g := &Gate{
		TbAPI:    mockAPI,
		Channels: []string{"chan_one", "chan_two"},
		FileID:   "file-id",
		Greeting: "welcome aboard",
	}
	return g, mockAPI
}

func doneQuery() *tbapi.CallbackQuery {
	return &tbapi.CallbackQuery{
		ID:      "cb1",
		Data:    gateDoneCallback,
		From:    &tbapi.User{ID: 100, UserName: "member"},
		Message: &tbapi.Message{MessageID: 55, Chat: tbapi.Chat{ID: 100}},
	}
}

func TestGate_Start(t *testing.T) {
	g, mockAPI := makeGate(nil)

	require.NoError(t, g.Start(100, &tbapi.User{ID: 100, UserName: "joiner"}))

	require.Len(t, mockAPI.SendCalls(), 1)
	msg, ok := mockAPI.SendCalls()[0].C.(tbapi.MessageConfig)
	require.True(t, ok)
	assert.Contains(t, msg.Text, "join the channels")

	kb := msg.ReplyMarkup.(tbapi.InlineKeyboardMarkup)
	require.Len(t, kb.InlineKeyboard, 3, "one row per channel plus Done")
	assert.Equal(t, "https://t.me/chan_one", *kb.InlineKeyboard[0][0].URL)
	assert.Equal(t, "https://t.me/chan_two", *kb.InlineKeyboard[1][0].URL)
	assert.Equal(t, gateDoneCallback, *kb.InlineKeyboard[2][0].CallbackData)
}

func TestGate_StartWithImage(t *testing.T) {
	g, mockAPI := makeGate(nil)
	g.ImageID = "img-id"

	require.NoError(t, g.Start(100, nil))

	require.Len(t, mockAPI.SendCalls(), 1)
	photo, ok := mockAPI.SendCalls()[0].C.(tbapi.PhotoConfig)
	require.True(t, ok)
	assert.Contains(t, photo.Caption, "join the channels")
}

func TestGate_DoneDelivers(t *testing.T) {
	g, mockAPI := makeGate(map[string]string{"@chan_one": "member", "@chan_two": "administrator"})

	require.NoError(t, g.Done(doneQuery()))

	// prompt removed
	var deleted bool
	for _, call := range mockAPI.RequestCalls() {
		if del, ok := call.C.(tbapi.DeleteMessageConfig); ok {
			deleted = true
			assert.Equal(t, 55, del.BaseChatMessage.MessageID)
		}
	}
	assert.True(t, deleted)

	// greeting then document
	require.Len(t, mockAPI.SendCalls(), 2)
	assert.Contains(t, mockAPI.SendCalls()[0].C.(tbapi.MessageConfig).Text, "welcome aboard")
	doc, ok := mockAPI.SendCalls()[1].C.(tbapi.DocumentConfig)
	require.True(t, ok)
	assert.Equal(t, int64(100), doc.ChatConfig.ChatID)
}

func TestGate_DoneWithSticker(t *testing.T) {
	g, mockAPI := makeGate(map[string]string{"@chan_one": "member", "@chan_two": "member"})
	g.StickerID = "sticker-id"

	require.NoError(t, g.Done(doneQuery()))

	require.Len(t, mockAPI.SendCalls(), 3)
	_, ok := mockAPI.SendCalls()[0].C.(tbapi.StickerConfig)
	assert.True(t, ok, "sticker goes first")
}

func TestGate_DoneNotJoined(t *testing.T) {
	tbl := []struct {
		name     string
		statuses map[string]string
	}{
		{"left one channel", map[string]string{"@chan_one": "member", "@chan_two": "left"}},
		{"restricted does not qualify", map[string]string{"@chan_one": "member", "@chan_two": "restricted"}},
		{"kicked", map[string]string{"@chan_one": "kicked", "@chan_two": "member"}},
		{"lookup failure closes the gate", map[string]string{"@chan_one": "member"}},
	}

	for _, tt := range tbl {
		t.Run(tt.name, func(t *testing.T) {
			g, mockAPI := makeGate(tt.statuses)
			require.NoError(t, g.Done(doneQuery()))

			assert.Empty(t, mockAPI.SendCalls(), "no file for non-members")
			require.Len(t, mockAPI.RequestCalls(), 1)
			cb, ok := mockAPI.RequestCalls()[0].C.(tbapi.CallbackConfig)
			require.True(t, ok)
			assert.True(t, cb.ShowAlert)
			assert.Contains(t, cb.Text, "haven't joined")
		})
	}
}

func TestGate_DoneDeliveryFailure(t *testing.T) {
	g, mockAPI := makeGate(map[string]string{"@chan_one": "member", "@chan_two": "member"})
	mockAPI.SendFunc = func(c tbapi.Chattable) (tbapi.Message, error) {
		if _, ok := c.(tbapi.DocumentConfig); ok {
			return tbapi.Message{}, errors.New("file expired")
		}
		return tbapi.Message{}, nil
	}

	err := g.Done(doneQuery())
	assert.Error(t, err, "failed delivery surfaces")
}
