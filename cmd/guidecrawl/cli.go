package main

import (
	"context"
	"io"
	"log/slog"
	"time"

	"github.com/fwojciec/guidecrawl"
)

// Dependencies holds all services and configuration for command execution.
type Dependencies struct {
	Ctx     context.Context
	Stdout  io.Writer
	Stderr  io.Writer
	Logger  *slog.Logger
	Verbose bool

	// PageFetcher overrides the browser-backed fetch stack when set.
	PageFetcher guidecrawl.PageFetcher
}

// CLI defines the command-line interface structure for Kong.
type CLI struct {
	Verbose bool `short:"v" help:"Enable debug logging"`

	Crawl     CrawlCmd     `cmd:"" default:"withargs" help:"Crawl documentation platforms (default)"`
	Platforms PlatformsCmd `cmd:"" help:"List the platforms that would be crawled"`
	Records   RecordsCmd   `cmd:"" help:"Query records mirrored into SQLite"`
}

// CrawlCmd is the "crawl" subcommand.
type CrawlCmd struct {
	Platforms string   `help:"JSON file replacing the built-in platform list" type:"path"`
	Only      []string `short:"p" name:"only" help:"Crawl only the named platforms (repeatable)"`

	Output string `short:"o" env:"GUIDECRAWL_OUTPUT_DIR" default:"cdp_data" help:"Output directory" type:"path"`
	SQLite string `name:"sqlite" help:"Also mirror records into this SQLite database" type:"path"`

	Cache     string        `enum:"redis,memory,none" default:"redis" help:"Cache backend (${enum})"`
	CacheTTL  time.Duration `env:"GUIDECRAWL_CACHE_TTL" default:"24h" help:"Cache entry lifetime"`
	CacheSize int           `default:"4096" help:"Maximum entries of the memory cache"`
	RedisHost string        `env:"REDIS_HOST" default:"localhost" help:"Redis host"`
	RedisPort int           `env:"REDIS_PORT" default:"6379" help:"Redis port"`
	RedisDB   int           `env:"REDIS_DB" default:"0" help:"Redis database"`

	MaxDepth      int           `default:"5" help:"Maximum link depth from the start URL"`
	MaxPages      int           `default:"200" help:"Page budget per platform"`
	ResetInterval int           `default:"20" help:"Restart the browser every N fetched pages"`
	RPS           float64       `name:"rps" default:"1" help:"Requests per second per host"`
	Parallel      int           `short:"c" default:"1" help:"Platforms crawled at once"`
	Pause         time.Duration `default:"5s" help:"Pause between platforms"`
	Timeout       time.Duration `help:"Abort the crawl after this long (0 disables)"`

	MetricsFile string `help:"Write Prometheus metrics to this file when done" type:"path"`
	Progress    bool   `default:"true" negatable:"" help:"Show a progress spinner"`
}

// PlatformsCmd is the "platforms" subcommand.
type PlatformsCmd struct {
	Platforms string `help:"JSON file replacing the built-in platform list" type:"path"`
}

// RecordsCmd is the "records" subcommand.
type RecordsCmd struct {
	SQLite   string `name:"sqlite" required:"" help:"SQLite database written by crawl --sqlite" type:"path"`
	Platform string `help:"Only records of this platform"`
	URL      string `name:"url" help:"Only records of this page"`
	Limit    int    `short:"n" default:"20" help:"Maximum records to show (0 for all)"`
	Offset   int    `help:"Records to skip"`
	Full     bool   `help:"Show record content"`
}
