package config

import (
	"os"
	"strconv"
	"strings"
	"time"
)

// parseEnv overlays configuration from environment variables, the primary
// surface for hosted deployments.
//
// Recognized variables: PORT, BOT_TOKEN, ADMIN_IDS (comma-separated),
// DUMP_CHANNEL, FORCE_SUB_CHANNEL1, FORCE_SUB_CHANNEL2, HEROKU_APP_NAME,
// BASE_URL, MONGODB_URL, MONGODB_DATABASE, FLUSH_DELAY.
//
// BASE_URL takes precedence over the URL derived from HEROKU_APP_NAME.
func parseEnv(config *Config) {
	if v := os.Getenv("PORT"); v != "" {
		config.Addr = ":" + v
	}
	if v := os.Getenv("BOT_TOKEN"); v != "" {
		config.BotToken = v
	}
	if v := os.Getenv("ADMIN_IDS"); v != "" {
		config.AdminIDs = ParseAdminIDs(v)
	}
	if v := os.Getenv("DUMP_CHANNEL"); v != "" {
		config.DumpChannel = v
	}
	if v := os.Getenv("FORCE_SUB_CHANNEL1"); v != "" {
		config.ForceSubChannel1 = v
	}
	if v := os.Getenv("FORCE_SUB_CHANNEL2"); v != "" {
		config.ForceSubChannel2 = v
	}
	if v := os.Getenv("HEROKU_APP_NAME"); v != "" {
		config.BaseURL = "https://" + v + ".herokuapp.com"
	}
	if v := os.Getenv("BASE_URL"); v != "" {
		config.BaseURL = v
	}
	if v := os.Getenv("MONGODB_URL"); v != "" {
		config.MongoURL = v
	}
	if v := os.Getenv("MONGODB_DATABASE"); v != "" {
		config.MongoDatabase = v
	}
	if v := os.Getenv("FLUSH_DELAY"); v != "" {
		d, err := time.ParseDuration(v)
		if err != nil {
			panic(err)
		}
		config.FlushDelay = d
	}
}

// ParseAdminIDs parses a comma-separated list of Telegram user IDs.
// Blank and unparsable entries are skipped.
func ParseAdminIDs(s string) []int64 {
	parts := strings.Split(s, ",")
	ids := make([]int64, 0, len(parts))
	for _, p := range parts {
		p = strings.TrimSpace(p)
		if p == "" {
			continue
		}
		id, err := strconv.ParseInt(p, 10, 64)
		if err != nil {
			continue
		}
		ids = append(ids, id)
	}
	return ids
}
