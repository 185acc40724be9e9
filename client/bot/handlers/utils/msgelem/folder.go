package msgelem

import (
	"fmt"

	"github.com/gotd/td/tg"
	"github.com/hikarime/stashbot/database"
	"github.com/hikarime/stashbot/pkg/cbdata"
)

const pageSize = 10

// BuildFolderRootsMarkup lists the owner's root folders as browse buttons.
func BuildFolderRootsMarkup(folders []database.Folder, page int) (*tg.ReplyInlineMarkup, error) {
	start := page * pageSize
	if start > len(folders) {
		start = len(folders)
	}
	end := min(start+pageSize, len(folders))

	buttons := make([]tg.KeyboardButtonClass, 0, end-start)
	for _, f := range folders[start:end] {
		label := "📁 " + f.DisplayName()
		if f.Protected() {
			label = "🔒 " + f.DisplayName()
		}
		data, err := PackCallback(cbdata.TypeFolderBrowse, cbdata.FolderBrowse{FolderID: f.ID})
		if err != nil {
			return nil, err
		}
		buttons = append(buttons, &tg.KeyboardButtonCallback{Text: label, Data: data})
	}
	markup := ButtonGrid(buttons, 2)

	nav, err := pageNav(cbdata.TypeFolderBrowse, page, len(folders), func(p int) (any, bool) {
		return cbdata.FolderBrowse{FolderID: 0, Page: p}, true
	})
	if err != nil {
		return nil, err
	}
	if nav != nil {
		markup.Rows = append(markup.Rows, *nav)
	}
	return markup, nil
}

// BuildFolderMenu renders one folder's management view.
func BuildFolderMenu(folder *database.Folder, subfolders []database.Folder, fileCount int64, selected bool) (string, *tg.ReplyInlineMarkup, error) {
	text := fmt.Sprintf("📁 %s\n%d file(s)", folder.Path, fileCount)
	if folder.Protected() {
		text += "\n🔒 password protected"
	}
	if selected {
		text += "\n📌 new uploads land here"
	}

	markup := &tg.ReplyInlineMarkup{}

	subButtons := make([]tg.KeyboardButtonClass, 0, len(subfolders))
	for _, sub := range subfolders {
		data, err := PackCallback(cbdata.TypeFolderBrowse, cbdata.FolderBrowse{FolderID: sub.ID})
		if err != nil {
			return "", nil, err
		}
		subButtons = append(subButtons, &tg.KeyboardButtonCallback{Text: "📁 " + sub.DisplayName(), Data: data})
	}
	if len(subButtons) > 0 {
		markup.Rows = append(markup.Rows, ButtonGrid(subButtons, 2).Rows...)
	}

	type action struct{ label, act string }
	rows := [][]action{
		{{"🔗 Share", "share"}, {"♻️ Change link", "newlink"}},
		{{"📌 Select", "select"}, {"📤 Send all", "getall"}},
		{{"✏️ Rename", "rename"}, {"🗑 Delete", "delete"}},
	}
	if folder.Protected() {
		rows = append(rows, []action{{"👁 View password", "pwview"}, {"🔓 Remove password", "pwdel"}})
	} else {
		rows = append(rows, []action{{"🔒 Set password", "pwset"}})
	}
	if folder.IsRoot() {
		rows = append(rows, []action{{"➕ New subfolder", "sub"}})
	}
	for _, r := range rows {
		row := tg.KeyboardButtonRow{}
		for _, a := range r {
			data, err := PackCallback(cbdata.TypeFolderAction, cbdata.FolderAction{Action: a.act, FolderID: folder.ID})
			if err != nil {
				return "", nil, err
			}
			row.Buttons = append(row.Buttons, &tg.KeyboardButtonCallback{Text: a.label, Data: data})
		}
		markup.Rows = append(markup.Rows, row)
	}

	back, err := PackCallback(cbdata.TypeFolderBrowse, cbdata.FolderBrowse{FolderID: 0})
	if err != nil {
		return "", nil, err
	}
	markup.Rows = append(markup.Rows, tg.KeyboardButtonRow{Buttons: []tg.KeyboardButtonClass{
		&tg.KeyboardButtonCallback{Text: "« Back", Data: back},
	}})
	return text, markup, nil
}

// BuildSharedFolderView renders a visitor's view of someone else's folder.
func BuildSharedFolderView(ownerChatID int64, path string, subfolders []database.Folder, files []database.StoredFile, page int) (string, *tg.ReplyInlineMarkup, error) {
	text := fmt.Sprintf("📁 %s\n%d file(s)", path, len(files))
	markup := &tg.ReplyInlineMarkup{}

	subButtons := make([]tg.KeyboardButtonClass, 0, len(subfolders))
	for _, sub := range subfolders {
		data, err := PackCallback(cbdata.TypeShared, cbdata.Shared{
			Action: "open", OwnerID: ownerChatID, Path: sub.Path,
		})
		if err != nil {
			return "", nil, err
		}
		label := "📁 " + sub.DisplayName()
		if sub.Protected() {
			label = "🔒 " + sub.DisplayName()
		}
		subButtons = append(subButtons, &tg.KeyboardButtonCallback{Text: label, Data: data})
	}
	if len(subButtons) > 0 {
		markup.Rows = append(markup.Rows, ButtonGrid(subButtons, 2).Rows...)
	}

	start := page * pageSize
	if start > len(files) {
		start = len(files)
	}
	fileButtons := make([]tg.KeyboardButtonClass, 0, pageSize)
	for _, f := range files[start:min(start+pageSize, len(files))] {
		data, err := PackCallback(cbdata.TypeSharedFile, cbdata.SharedFile{OwnerID: ownerChatID, FileID: f.ID})
		if err != nil {
			return "", nil, err
		}
		fileButtons = append(fileButtons, &tg.KeyboardButtonCallback{Text: fileLabel(&f), Data: data})
	}
	markup.Rows = append(markup.Rows, ButtonGrid(fileButtons, 1).Rows...)

	nav, err := pageNav(cbdata.TypeShared, page, len(files), func(p int) (any, bool) {
		return cbdata.Shared{Action: "page", OwnerID: ownerChatID, Path: path, Page: p}, true
	})
	if err != nil {
		return "", nil, err
	}
	if nav != nil {
		markup.Rows = append(markup.Rows, *nav)
	}

	if len(files) > 0 {
		data, err := PackCallback(cbdata.TypeShared, cbdata.Shared{
			Action: "getall", OwnerID: ownerChatID, Path: path,
		})
		if err != nil {
			return "", nil, err
		}
		markup.Rows = append(markup.Rows, tg.KeyboardButtonRow{Buttons: []tg.KeyboardButtonClass{
			&tg.KeyboardButtonCallback{Text: "📤 Get all files", Data: data},
		}})
	}
	return text, markup, nil
}

func pageNav(typ string, page, total int, payload func(page int) (any, bool)) (*tg.KeyboardButtonRow, error) {
	if total <= pageSize {
		return nil, nil
	}
	row := tg.KeyboardButtonRow{}
	if page > 0 {
		p, _ := payload(page - 1)
		data, err := PackCallback(typ, p)
		if err != nil {
			return nil, err
		}
		row.Buttons = append(row.Buttons, &tg.KeyboardButtonCallback{Text: "« Prev", Data: data})
	}
	if (page+1)*pageSize < total {
		p, _ := payload(page + 1)
		data, err := PackCallback(typ, p)
		if err != nil {
			return nil, err
		}
		row.Buttons = append(row.Buttons, &tg.KeyboardButtonCallback{Text: "Next »", Data: data})
	}
	if len(row.Buttons) == 0 {
		return nil, nil
	}
	return &row, nil
}
