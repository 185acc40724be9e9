package tgutil

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/celestix/gotgproto/ext"
	"github.com/duke-git/lancet/v2/validator"
	"github.com/gotd/td/tg"
)

// ParseChatID resolves a numeric id or @username to a chat id.
func ParseChatID(ctx *ext.Context, idOrUsername string) (int64, error) {
	idOrUsername = strings.TrimPrefix(idOrUsername, "@")
	if validator.IsIntStr(idOrUsername) {
		chatID, err := strconv.ParseInt(idOrUsername, 10, 64)
		if err != nil {
			return 0, err
		}
		return chatID, nil
	}
	chat, err := ctx.ResolveUsername(idOrUsername)
	if err != nil {
		return 0, err
	}
	if chat == nil {
		return 0, fmt.Errorf("no chat found for username: %s", idOrUsername)
	}
	chatID := chat.GetID()
	if chatID == 0 {
		return 0, fmt.Errorf("chat ID is zero for username: %s", idOrUsername)
	}
	return chatID, nil
}

// ChannelStatus describes the bot's own standing in a channel or supergroup.
type ChannelStatus struct {
	Title   string
	IsAdmin bool
}

// BotChannelStatus looks up the bot's membership in a channel or supergroup.
// The peer must already be known to the session, either because the bot was
// added to the chat or because it resolved the username just before.
func BotChannelStatus(ctx *ext.Context, chatID int64) (*ChannelStatus, error) {
	peer := ctx.PeerStorage.GetInputPeerById(chatID)
	channel, ok := peer.(*tg.InputPeerChannel)
	if !ok {
		return nil, fmt.Errorf("chat %d is not a known channel or supergroup", chatID)
	}
	input := &tg.InputChannel{ChannelID: channel.ChannelID, AccessHash: channel.AccessHash}

	status := &ChannelStatus{}
	chats, err := ctx.Raw.ChannelsGetChannels(ctx, []tg.InputChannelClass{input})
	if err != nil {
		return nil, err
	}
	for _, c := range chats.GetChats() {
		if ch, ok := c.(*tg.Channel); ok && ch.ID == channel.ChannelID {
			status.Title = ch.Title
		}
	}

	participant, err := ctx.Raw.ChannelsGetParticipant(ctx, &tg.ChannelsGetParticipantRequest{
		Channel:     input,
		Participant: &tg.InputPeerSelf{},
	})
	if err != nil {
		return nil, err
	}
	status.IsAdmin = IsAdminParticipant(participant.Participant)
	return status, nil
}

// IsAdminParticipant reports whether a participant record carries admin
// rights. The creator counts.
func IsAdminParticipant(p tg.ChannelParticipantClass) bool {
	switch p.(type) {
	case *tg.ChannelParticipantCreator, *tg.ChannelParticipantAdmin:
		return true
	}
	return false
}
