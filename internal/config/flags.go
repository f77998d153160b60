package config

import (
	"flag"
	"os"
	"time"

	"filegate/internal/flagx"
)

// parseFlags populates selected Config fields from command-line flags.
//
// Supported flags (short forms):
//
//	-a string   HTTP bind address (e.g., ":8080")
//	-d string   MongoDB connection string
//	-n string   MongoDB database name
//	-t string   Telegram bot token
//	-b string   external base URL for shareable links
//	-f int      media-group flush delay, seconds
//
// Channel references and the admin list are deployment data rather than
// operator knobs and are only settable via the environment or the JSON file.
//
// The function first filters os.Args to only the flags it recognizes using
// flagx.Keep, avoiding collisions with other components.
func parseFlags(config *Config) {
	args := flagx.Keep(os.Args[1:], []string{"-a", "-d", "-n", "-t", "-b", "-f"})

	fs := flag.NewFlagSet("main", flag.ContinueOnError)

	fs.StringVar(&config.Addr, "a", config.Addr, "address and port to run server")
	fs.StringVar(&config.MongoURL, "d", config.MongoURL, "database connection string")
	fs.StringVar(&config.MongoDatabase, "n", config.MongoDatabase, "database name")
	fs.StringVar(&config.BotToken, "t", config.BotToken, "telegram bot token")
	fs.StringVar(&config.BaseURL, "b", config.BaseURL, "external base URL")

	flushDelay := fs.Int("f", int(config.FlushDelay.Seconds()), "media group flush delay (in seconds)")

	if err := fs.Parse(args); err != nil {
		panic(err)
	}

	config.FlushDelay = time.Duration(*flushDelay) * time.Second
}
