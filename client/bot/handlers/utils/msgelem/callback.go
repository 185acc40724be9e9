package msgelem

import (
	"fmt"
	"strings"

	"github.com/gotd/td/tg"
	"github.com/hikarime/stashbot/common/cache"
	"github.com/rs/xid"
)

func AlertCallbackAnswer(queryID int64, text string) *tg.MessagesSetBotCallbackAnswerRequest {
	return &tg.MessagesSetBotCallbackAnswerRequest{
		QueryID:   queryID,
		Alert:     true,
		Message:   text,
		CacheTime: 5,
	}
}

// PackCallback caches a typed payload and returns "<type> <id>" button data,
// keeping the wire data under Telegram's 64-byte callback limit.
func PackCallback(typ string, payload any) ([]byte, error) {
	id := xid.New().String()
	if err := cache.Set(id, payload); err != nil {
		return nil, err
	}
	return fmt.Appendf(nil, "%s %s", typ, id), nil
}

// UnpackCallback resolves button data produced by PackCallback. Expired
// payloads (evicted cache entries) return false; the button is stale.
func UnpackCallback[T any](data []byte) (T, bool) {
	_, id, ok := strings.Cut(string(data), " ")
	if !ok {
		var zero T
		return zero, false
	}
	return cache.Get[T](id)
}

// ButtonGrid lays buttons out in rows of the given width.
func ButtonGrid(buttons []tg.KeyboardButtonClass, perRow int) *tg.ReplyInlineMarkup {
	markup := &tg.ReplyInlineMarkup{}
	for i := 0; i < len(buttons); i += perRow {
		row := tg.KeyboardButtonRow{}
		row.Buttons = buttons[i:min(i+perRow, len(buttons))]
		markup.Rows = append(markup.Rows, row)
	}
	return markup
}
