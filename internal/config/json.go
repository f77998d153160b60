package config

import (
	"encoding/json"
	"os"

	"filegate/internal/flagx"
	"filegate/internal/timex"
)

// JsonConfig is an intermediate DTO used only for reading JSON configuration
// files. It uses timex.Duration for interval fields, which allows parsing
// both string values such as "1s" and integer nanoseconds. After
// unmarshalling, its fields are copied into the runtime Config struct.
type JsonConfig struct {
	Addr             string         `json:"addr"`
	BotToken         string         `json:"bot_token"`
	AdminIDs         []int64        `json:"admin_ids"`
	DumpChannel      string         `json:"dump_channel"`
	ForceSubChannel1 string         `json:"force_sub_channel_1"`
	ForceSubChannel2 string         `json:"force_sub_channel_2"`
	BaseURL          string         `json:"base_url"`
	MongoURL         string         `json:"mongodb_url"`
	MongoDatabase    string         `json:"mongodb_database"`
	FlushDelay       timex.Duration `json:"flush_delay"`
}

// parseJson loads configuration values from the JSON file named by the
// -c or -config command-line flags. If no file is named, nothing is loaded.
// An unreadable or invalid file panics: a half-applied config is worse than
// no process.
func parseJson(config *Config) {
	jsonConfigFile := flagx.ConfigFile()
	if jsonConfigFile == "" {
		return
	}

	file, err := os.ReadFile(jsonConfigFile)
	if err != nil {
		panic(err)
	}

	c := &JsonConfig{}
	if err := json.Unmarshal(file, c); err != nil {
		panic(err)
	}

	if c.Addr != "" {
		config.Addr = c.Addr
	}
	if c.BotToken != "" {
		config.BotToken = c.BotToken
	}
	if len(c.AdminIDs) > 0 {
		config.AdminIDs = c.AdminIDs
	}
	if c.DumpChannel != "" {
		config.DumpChannel = c.DumpChannel
	}
	if c.ForceSubChannel1 != "" {
		config.ForceSubChannel1 = c.ForceSubChannel1
	}
	if c.ForceSubChannel2 != "" {
		config.ForceSubChannel2 = c.ForceSubChannel2
	}
	if c.BaseURL != "" {
		config.BaseURL = c.BaseURL
	}
	if c.MongoURL != "" {
		config.MongoURL = c.MongoURL
	}
	if c.MongoDatabase != "" {
		config.MongoDatabase = c.MongoDatabase
	}
	if c.FlushDelay.Duration > 0 {
		config.FlushDelay = c.FlushDelay.Duration
	}
}
