package msgelem

import (
	"github.com/gotd/td/telegram/message/styling"
	"github.com/gotd/td/tg"
)

// BuildShareMessage renders a share link with an open button and a native
// copy-to-clipboard button.
func BuildShareMessage(title, link string) ([]styling.StyledTextOption, *tg.ReplyInlineMarkup) {
	text := []styling.StyledTextOption{
		styling.Bold(title),
		styling.Plain("\n"),
		styling.Code(link),
	}
	markup := &tg.ReplyInlineMarkup{
		Rows: []tg.KeyboardButtonRow{
			{Buttons: []tg.KeyboardButtonClass{
				&tg.KeyboardButtonURL{Text: "Open", URL: link},
				&tg.KeyboardButtonCopy{Text: "Copy link", CopyText: link},
			}},
		},
	}
	return text, markup
}
