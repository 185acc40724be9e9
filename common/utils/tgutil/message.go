package tgutil

import (
	"errors"
	"fmt"

	"github.com/celestix/gotgproto/ext"
	"github.com/gotd/td/tg"
)

// GetMessage fetches one message from a chat by id.
func GetMessage(ctx *ext.Context, chatID int64, messageID int) (*tg.Message, error) {
	messages, err := ctx.GetMessages(chatID, []tg.InputMessageClass{&tg.InputMessageID{ID: messageID}})
	if err != nil {
		return nil, err
	}
	if len(messages) == 0 {
		return nil, errors.New("no messages found")
	}
	msg, ok := messages[0].(*tg.Message)
	if !ok {
		return nil, fmt.Errorf("unexpected message type: %T", messages[0])
	}
	return msg, nil
}
