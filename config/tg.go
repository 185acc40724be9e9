package config

import "github.com/duke-git/lancet/v2/slice"

type telegramConfig struct {
	Token        string `toml:"token" mapstructure:"token"`
	AppID        int    `toml:"app_id" mapstructure:"app_id" json:"app_id"`
	AppHash      string `toml:"app_hash" mapstructure:"app_hash" json:"app_hash"`
	LogChannelID int64  `toml:"log_channel_id" mapstructure:"log_channel_id" json:"log_channel_id"`
	FloodRetry   int    `toml:"flood_retry" mapstructure:"flood_retry" json:"flood_retry"`
	RpcRetry     int    `toml:"rpc_retry" mapstructure:"rpc_retry" json:"rpc_retry"`
}

// IsAdmin reports whether the chat id is in the admin list.
func (c *Config) IsAdmin(chatID int64) bool {
	return slice.Contain(c.Admins, chatID)
}

// CanStore reports whether the user may upload files to this instance.
func (c *Config) CanStore(chatID int64) bool {
	return c.PublicStore || c.IsAdmin(chatID)
}
