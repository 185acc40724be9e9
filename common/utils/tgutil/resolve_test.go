package tgutil

import (
	"testing"

	"github.com/gotd/td/tg"
)

func TestIsAdminParticipant(t *testing.T) {
	tests := []struct {
		name string
		p    tg.ChannelParticipantClass
		want bool
	}{
		{"creator", &tg.ChannelParticipantCreator{}, true},
		{"admin", &tg.ChannelParticipantAdmin{}, true},
		{"member", &tg.ChannelParticipant{}, false},
		{"left", &tg.ChannelParticipantLeft{}, false},
		{"banned", &tg.ChannelParticipantBanned{}, false},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := IsAdminParticipant(tt.p); got != tt.want {
				t.Errorf("IsAdminParticipant(%T) = %v, want %v", tt.p, got, tt.want)
			}
		})
	}
}
