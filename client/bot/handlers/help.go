package handlers

import (
	"fmt"
	"strings"

	"github.com/celestix/gotgproto/dispatcher"
	"github.com/celestix/gotgproto/ext"
)

func handleHelpCmd(ctx *ext.Context, update *ext.Update) error {
	var sb strings.Builder
	sb.WriteString("Send me any file and I will store it and hand you a share link.\n\n")
	for _, info := range CommandHandlers {
		fmt.Fprintf(&sb, "/%s - %s\n", info.Cmd, info.Desc)
	}
	ctx.Reply(update, ext.ReplyTextString(sb.String()), nil)
	return dispatcher.EndGroups
}
