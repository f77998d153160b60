// Package config handles configuration for the bot, including defaults,
// JSON overlay, environment variables, and command-line flags.
package config

import (
	"errors"
	"time"
)

// Config holds runtime settings for the file-gate bot.
//
// Fields:
//   - Addr: bind address for the HTTP webhook endpoint.
//   - BotToken: Telegram Bot API credential.
//   - AdminIDs: Telegram user IDs allowed to upload; immutable after startup.
//   - DumpChannel: channel (numeric ID or @username) where files are archived.
//   - ForceSubChannel1 / ForceSubChannel2: channels a user must join before
//     retrieval is allowed.
//   - BaseURL: externally reachable base URL used in shareable links.
//   - MongoURL / MongoDatabase: user directory storage.
//   - FlushDelay: quiescence window before a pending media group is archived.
type Config struct {
	Addr             string
	BotToken         string
	AdminIDs         []int64
	DumpChannel      string
	ForceSubChannel1 string
	ForceSubChannel2 string
	BaseURL          string
	MongoURL         string
	MongoDatabase    string
	FlushDelay       time.Duration
}

// LoadDefaults populates Config with development defaults. Credentials and
// channel references have no sane defaults and must be provided.
func (c *Config) LoadDefaults() {
	c.Addr = ":8080"
	c.MongoDatabase = "filegate"
	c.FlushDelay = 1 * time.Second
}

// LoadConfig builds a Config by applying defaults, then overlaying values
// from an optional JSON file, the environment, and finally command-line flags.
func LoadConfig() *Config {
	cfg := &Config{}
	cfg.LoadDefaults()
	parseJson(cfg)
	parseEnv(cfg)
	parseFlags(cfg)
	return cfg
}

// Validate reports the first missing required setting.
func (c *Config) Validate() error {
	switch {
	case c.BotToken == "":
		return errors.New("BOT_TOKEN must be set")
	case c.BaseURL == "":
		return errors.New("BASE_URL (or HEROKU_APP_NAME) must be set")
	case c.MongoURL == "":
		return errors.New("MONGODB_URL must be set")
	case c.DumpChannel == "":
		return errors.New("DUMP_CHANNEL must be set")
	case c.ForceSubChannel1 == "" || c.ForceSubChannel2 == "":
		return errors.New("FORCE_SUB_CHANNEL1 and FORCE_SUB_CHANNEL2 must be set")
	}
	return nil
}
