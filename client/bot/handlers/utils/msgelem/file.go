package msgelem

import (
	"fmt"

	"github.com/gotd/td/tg"
	"github.com/hikarime/stashbot/database"
	"github.com/hikarime/stashbot/pkg/cbdata"
)

var typeIcons = map[string]string{
	"document":  "📄",
	"video":     "🎬",
	"audio":     "🎵",
	"photo":     "🖼",
	"animation": "🎞",
	"sticker":   "💟",
}

func fileLabel(f *database.StoredFile) string {
	icon, ok := typeIcons[f.FileType]
	if !ok {
		icon = "📄"
	}
	label := fmt.Sprintf("%s %s", icon, f.FileName)
	if f.Password != nil {
		label = "🔒 " + label
	}
	return label
}

// BuildFileListMarkup lists the owner's files; each button opens a file menu.
func BuildFileListMarkup(files []database.StoredFile, page, total int) (*tg.ReplyInlineMarkup, error) {
	buttons := make([]tg.KeyboardButtonClass, 0, len(files))
	for _, f := range files {
		data, err := PackCallback(cbdata.TypeFileAction, cbdata.FileAction{Action: "menu", FileID: f.ID})
		if err != nil {
			return nil, err
		}
		buttons = append(buttons, &tg.KeyboardButtonCallback{Text: fileLabel(&f), Data: data})
	}
	markup := ButtonGrid(buttons, 1)
	nav, err := pageNav(cbdata.TypeFileAction, page, total, func(p int) (any, bool) {
		return cbdata.FileAction{Action: "page", FileID: uint(p)}, true
	})
	if err != nil {
		return nil, err
	}
	if nav != nil {
		markup.Rows = append(markup.Rows, *nav)
	}
	return markup, nil
}

// BuildFileMenu renders one file's management view.
func BuildFileMenu(file *database.StoredFile) (string, *tg.ReplyInlineMarkup, error) {
	folder := "unorganized"
	if file.FolderPath != nil {
		folder = *file.FolderPath
	}
	text := fmt.Sprintf("%s\nType: %s\nFolder: %s", fileLabel(file), file.FileType, folder)
	if file.Protected {
		text += "\n🚫 forwarding disabled"
	}

	type action struct{ label, act string }
	rows := [][]action{
		{{"🔗 Share", "share"}, {"♻️ Change link", "newlink"}},
		{{"📥 Send me this", "send"}, {"📁 Move", "move"}},
	}
	if file.Protected {
		rows = append(rows, []action{{"✅ Allow forwarding", "protect"}})
	} else {
		rows = append(rows, []action{{"🚫 Restrict forwarding", "protect"}})
	}
	if file.Password != nil {
		rows = append(rows, []action{{"🔓 Remove password", "pwdel"}, {"🗑 Delete", "delete"}})
	} else {
		rows = append(rows, []action{{"🔒 Set password", "pwset"}, {"🗑 Delete", "delete"}})
	}

	markup := &tg.ReplyInlineMarkup{}
	for _, r := range rows {
		row := tg.KeyboardButtonRow{}
		for _, a := range r {
			data, err := PackCallback(cbdata.TypeFileAction, cbdata.FileAction{Action: a.act, FileID: file.ID})
			if err != nil {
				return "", nil, err
			}
			row.Buttons = append(row.Buttons, &tg.KeyboardButtonCallback{Text: a.label, Data: data})
		}
		markup.Rows = append(markup.Rows, row)
	}
	return text, markup, nil
}

// BuildMoveTargetsMarkup offers every folder as a move target, plus an
// unfile option.
func BuildMoveTargetsMarkup(fileID uint, folders []database.Folder) (*tg.ReplyInlineMarkup, error) {
	buttons := make([]tg.KeyboardButtonClass, 0, len(folders)+1)
	for _, f := range folders {
		data, err := PackCallback(cbdata.TypeFileMove, cbdata.FileMove{FileID: fileID, FolderID: f.ID})
		if err != nil {
			return nil, err
		}
		buttons = append(buttons, &tg.KeyboardButtonCallback{Text: "📁 " + f.Path, Data: data})
	}
	data, err := PackCallback(cbdata.TypeFileMove, cbdata.FileMove{FileID: fileID, FolderID: 0})
	if err != nil {
		return nil, err
	}
	buttons = append(buttons, &tg.KeyboardButtonCallback{Text: "📂 No folder", Data: data})
	return ButtonGrid(buttons, 2), nil
}
