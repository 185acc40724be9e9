package tgutil

import (
	"errors"
	"fmt"
	"strings"

	"github.com/celestix/gotgproto/ext"
	tgtypes "github.com/celestix/gotgproto/types"
	"github.com/gotd/td/tg"
)

var (
	ErrNoMedia       = errors.New("message has no media")
	ErrEmptyDocument = errors.New("empty document")
	ErrEmptyPhoto    = errors.New("empty photo")
)

// CopyOpts adjusts how a media message is re-sent.
type CopyOpts struct {
	// Caption replaces the original caption when non-nil. Entities from the
	// original message are dropped in that case.
	Caption *string
	// NoForwards marks the copy as non-forwardable and non-savable.
	NoForwards bool
	// ReplyToMsgID targets a forum topic when non-zero.
	ReplyToMsgID int
	Silent       bool
}

// CopyMedia re-sends a media message into another chat by file reference.
// The file bytes are never downloaded; Telegram copies from its own storage.
func CopyMedia(ctx *ext.Context, msg *tg.Message, toChatID int64, opts CopyOpts) (*tgtypes.Message, error) {
	media, ok := msg.GetMedia()
	if !ok {
		return nil, ErrNoMedia
	}

	req := &tg.MessagesSendMediaRequest{
		InvertMedia: msg.InvertMedia,
		Message:     msg.Message,
		Noforwards:  opts.NoForwards,
		Silent:      opts.Silent,
	}

	switch m := media.(type) {
	case *tg.MessageMediaDocument:
		document, ok := m.Document.AsNotEmpty()
		if !ok {
			return nil, ErrEmptyDocument
		}
		inputMedia := &tg.InputMediaDocument{
			ID: document.AsInput(),
		}
		inputMedia.SetFlags()
		req.Media = inputMedia

	case *tg.MessageMediaPhoto:
		photo, ok := m.Photo.AsNotEmpty()
		if !ok {
			return nil, ErrEmptyPhoto
		}
		inputMedia := &tg.InputMediaPhoto{
			ID: photo.AsInput(),
		}
		inputMedia.SetFlags()
		req.Media = inputMedia

	default:
		return nil, fmt.Errorf("unsupported media type: %T", media)
	}

	if opts.Caption != nil {
		req.Message = *opts.Caption
	} else {
		req.SetEntities(msg.Entities)
	}
	if opts.ReplyToMsgID != 0 {
		req.SetReplyTo(&tg.InputReplyToMessage{ReplyToMsgID: opts.ReplyToMsgID})
	}
	req.SetFlags()

	return ctx.SendMedia(toChatID, req)
}

// MediaInfo describes the media in a message for storage.
type MediaInfo struct {
	FileName string
	FileType string // document | video | audio | photo | animation | sticker
}

// ExtractMediaInfo classifies a media message and picks a filename.
func ExtractMediaInfo(msg *tg.Message) (*MediaInfo, error) {
	media, ok := msg.GetMedia()
	if !ok {
		return nil, ErrNoMedia
	}

	switch m := media.(type) {
	case *tg.MessageMediaDocument:
		document, ok := m.Document.AsNotEmpty()
		if !ok {
			return nil, ErrEmptyDocument
		}
		info := &MediaInfo{FileType: "document"}
		for _, attr := range document.Attributes {
			switch a := attr.(type) {
			case *tg.DocumentAttributeFilename:
				info.FileName = a.FileName
			case *tg.DocumentAttributeVideo:
				info.FileType = "video"
			case *tg.DocumentAttributeAudio:
				info.FileType = "audio"
			case *tg.DocumentAttributeAnimated:
				info.FileType = "animation"
			case *tg.DocumentAttributeSticker:
				info.FileType = "sticker"
			}
		}
		if info.FileType == "document" && strings.HasPrefix(document.MimeType, "video/") {
			info.FileType = "video"
		}
		if info.FileName == "" {
			info.FileName = fmt.Sprintf("%s_%d", info.FileType, document.ID)
		}
		return info, nil

	case *tg.MessageMediaPhoto:
		photo, ok := m.Photo.AsNotEmpty()
		if !ok {
			return nil, ErrEmptyPhoto
		}
		return &MediaInfo{
			FileName: fmt.Sprintf("photo_%d.jpg", photo.ID),
			FileType: "photo",
		}, nil
	}
	return nil, fmt.Errorf("unsupported media type: %T", media)
}
