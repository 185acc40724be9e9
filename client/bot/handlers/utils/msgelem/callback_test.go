package msgelem

import (
	"bytes"
	"testing"

	"github.com/gotd/td/tg"
	"github.com/hikarime/stashbot/pkg/cbdata"
)

func TestPackUnpackCallback(t *testing.T) {
	in := cbdata.FolderAction{Action: "share", FolderID: 42}
	data, err := PackCallback(cbdata.TypeFolderAction, in)
	if err != nil {
		t.Fatalf("PackCallback: %v", err)
	}
	if !bytes.HasPrefix(data, []byte(cbdata.TypeFolderAction+" ")) {
		t.Fatalf("unexpected wire data %q", data)
	}
	if len(data) > 64 {
		t.Fatalf("wire data exceeds callback limit: %d bytes", len(data))
	}
	out, ok := UnpackCallback[cbdata.FolderAction](data)
	if !ok {
		t.Fatal("UnpackCallback returned stale for fresh payload")
	}
	if out != in {
		t.Fatalf("got %+v, want %+v", out, in)
	}
}

func TestUnpackCallbackStale(t *testing.T) {
	if _, ok := UnpackCallback[cbdata.FolderAction]([]byte("fldact missing-id")); ok {
		t.Fatal("expected stale result for unknown id")
	}
	if _, ok := UnpackCallback[cbdata.FolderAction]([]byte("no-separator")); ok {
		t.Fatal("expected stale result for malformed data")
	}
}

func TestUnpackCallbackWrongType(t *testing.T) {
	data, err := PackCallback(cbdata.TypeFileAction, cbdata.FileAction{Action: "send", FileID: 7})
	if err != nil {
		t.Fatalf("PackCallback: %v", err)
	}
	if _, ok := UnpackCallback[cbdata.FolderAction](data); ok {
		t.Fatal("expected type mismatch to report stale")
	}
}

func TestButtonGrid(t *testing.T) {
	buttons := make([]tg.KeyboardButtonClass, 5)
	for i := range buttons {
		buttons[i] = &tg.KeyboardButtonCallback{Text: "b"}
	}
	markup := ButtonGrid(buttons, 2)
	if len(markup.Rows) != 3 {
		t.Fatalf("got %d rows, want 3", len(markup.Rows))
	}
	if len(markup.Rows[2].Buttons) != 1 {
		t.Fatalf("last row has %d buttons, want 1", len(markup.Rows[2].Buttons))
	}
}
