package handlers

import (
	"github.com/celestix/gotgproto/dispatcher"
	"github.com/celestix/gotgproto/dispatcher/handlers"
	"github.com/celestix/gotgproto/dispatcher/handlers/filters"
	"github.com/celestix/gotgproto/ext"
	"github.com/hikarime/stashbot/pkg/cbdata"
)

type DescCommandHandler struct {
	Cmd     string
	Desc    string
	handler func(ctx *ext.Context, u *ext.Update) error
}

var CommandHandlers []DescCommandHandler

func init() {
	CommandHandlers = []DescCommandHandler{
		{"start", "Open a share link or show the menu", handleStartCmd},
		{"help", "How to use this bot", handleHelpCmd},
		{"link", "Reply to a stored file to get its share link", handleLinkCmd},
		{"batch", "Build a multi-file share link", handleBatchCmd},
		{"createfolder", "Create a folder", handleCreateFolderCmd},
		{"listfolders", "List your folders", handleListFoldersCmd},
		{"deletefolder", "Delete a folder and its subfolders", handleDeleteFolderCmd},
		{"renamefolder", "Rename a folder", handleRenameFolderCmd},
		{"folders", "Browse and manage your folders", handleFoldersCmd},
		{"files", "Browse your stored files", handleFilesCmd},
		{"settings", "Delivery mode and destinations", handleSettingsCmd},
		{"caption", "Set the delivery caption template", handleCaptionCmd},
		{"filters", "Manage filename filters", handleFiltersCmd},
		{"backup", "Manage your account transfer token", handleBackupCmd},
		{"restore", "Claim files with a transfer token", handleRestoreCmd},
		{"clone", "Run your own copy of this bot", handleCloneCmd},
		{"deletecloned", "Remove your cloned bot", handleDeleteClonedCmd},
		{"cancel", "Stop your running batch send", handleCancelCmd},
		{"stats", "Instance statistics (admins)", handleStatsCmd},
		{"broadcast", "Message all users (admins)", handleBroadcastCmd},
		{"cloneon", "Enable clone mode (admins)", handleCloneOnCmd},
		{"cloneoff", "Disable clone mode (admins)", handleCloneOffCmd},
		{"clonestatus", "Clone mode status (admins)", handleCloneStatusCmd},
	}
}

func Register(disp dispatcher.Dispatcher) {
	disp.AddHandler(handlers.NewMessage(filters.Message.ChatType(filters.ChatTypeChannel), func(ctx *ext.Context, u *ext.Update) error {
		return dispatcher.EndGroups
	}))
	disp.AddHandler(handlers.NewMessage(filters.Message.ChatType(filters.ChatTypeChat), func(ctx *ext.Context, u *ext.Update) error {
		return dispatcher.EndGroups
	}))
	disp.AddHandler(handlers.NewMessage(filters.Message.All, ensureUser))
	for _, info := range CommandHandlers {
		disp.AddHandler(handlers.NewCommand(info.Cmd, info.handler))
	}
	disp.AddHandler(handlers.NewCallbackQuery(filters.CallbackQuery.Prefix(cbdata.TypeFolderBrowse), handleFolderBrowseCallback))
	disp.AddHandler(handlers.NewCallbackQuery(filters.CallbackQuery.Prefix(cbdata.TypeFolderAction), handleFolderActionCallback))
	disp.AddHandler(handlers.NewCallbackQuery(filters.CallbackQuery.Prefix(cbdata.TypeFileAction), handleFileActionCallback))
	disp.AddHandler(handlers.NewCallbackQuery(filters.CallbackQuery.Prefix(cbdata.TypeFileMove), handleFileMoveCallback))
	disp.AddHandler(handlers.NewCallbackQuery(filters.CallbackQuery.Prefix(cbdata.TypeDest), handleDestCallback))
	disp.AddHandler(handlers.NewCallbackQuery(filters.CallbackQuery.Prefix(cbdata.TypeBatch), handleBatchCallback))
	disp.AddHandler(handlers.NewCallbackQuery(filters.CallbackQuery.Prefix(cbdata.TypeShared), handleSharedCallback))
	disp.AddHandler(handlers.NewCallbackQuery(filters.CallbackQuery.Prefix(cbdata.TypeSharedFile), handleSharedFileCallback))
	disp.AddHandler(handlers.NewCallbackQuery(filters.CallbackQuery.Prefix("mode"), handleModeCallback))
	disp.AddHandler(handlers.NewCallbackQuery(filters.CallbackQuery.Prefix("stopbatch"), handleStopBatchCallback))
	disp.AddHandler(handlers.NewMessage(filters.Message.Media, handleMediaMessage))
	disp.AddHandler(handlers.NewMessage(filters.Message.Text, handleTextMessage))
}
