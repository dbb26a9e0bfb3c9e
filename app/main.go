package main

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"log"
	"math"
	"os"
	"os/signal"
	"strconv"
	"strings"
	"syscall"
	"time"

	tbapi "github.com/OvyFlash/telegram-bot-api"
	"github.com/fatih/color"
	"github.com/go-pkgz/lgr"
	"github.com/jessevdk/go-flags"
	"gopkg.in/natefinch/lumberjack.v2"

	"github.com/hemanth-attr/groupguard/app/bot"
	"github.com/hemanth-attr/groupguard/app/events"
	"github.com/hemanth-attr/groupguard/app/storage"
	"github.com/hemanth-attr/groupguard/app/storage/engine"
	"github.com/hemanth-attr/groupguard/app/webapi"
	"github.com/hemanth-attr/groupguard/lib/guard"
)

type options struct {
	InstanceID string `long:"instance-id" env:"INSTANCE_ID" default:"groupguard" description:"instance id, isolates bots sharing a database"`
	DB         string `long:"db" env:"DB" default:"data/groupguard.db" description:"database connection, sqlite file or postgres url"`

	Telegram struct {
		Token string `long:"token" env:"TOKEN" description:"telegram bot token" required:"true"`
		Group string `long:"group" env:"GROUP" description:"group name/id" required:"true"`
	} `group:"telegram" namespace:"telegram" env-namespace:"TELEGRAM"`

	Logger struct {
		Enabled    bool   `long:"enabled" env:"ENABLED" description:"enable spam rotated logs"`
		FileName   string `long:"file" env:"FILE" default:"groupguard.log" description:"location of spam log"`
		MaxSize    string `long:"max-size" env:"MAX_SIZE" default:"100M" description:"maximum size before it gets rotated"`
		MaxBackups int    `long:"max-backups" env:"MAX_BACKUPS" default:"10" description:"maximum number of old log files to retain"`
	} `group:"logger" namespace:"logger" env-namespace:"LOGGER"`

	Files struct {
		KeywordsFile    string        `long:"keywords" env:"KEYWORDS" default:"data/keywords.txt" description:"banned keywords"`
		DomainsFile     string        `long:"domains" env:"DOMAINS" default:"data/domains.txt" description:"allowed domains"`
		SamplesSpamFile string        `long:"samples-spam" env:"SAMPLES_SPAM" default:"data/spam-samples.txt" description:"spam samples"`
		SamplesHamFile  string        `long:"samples-ham" env:"SAMPLES_HAM" default:"data/ham-samples.txt" description:"ham samples"`
		WatchInterval   time.Duration `long:"watch-interval" env:"WATCH_INTERVAL" default:"5s" description:"watch interval"`
	} `group:"files" namespace:"files" env-namespace:"FILES"`

	Detector struct {
		MaxEmoji       int           `long:"max-emoji" env:"MAX_EMOJI" default:"5" description:"max spam emoji count in a message"`
		MaxFormat      int           `long:"max-format" env:"MAX_FORMAT" default:"5" description:"rich format entities treated as spam"`
		FloodCount     int           `long:"flood-count" env:"FLOOD_COUNT" default:"3" description:"messages in flood interval to trip"`
		FloodInterval  time.Duration `long:"flood-interval" env:"FLOOD_INTERVAL" default:"5s" description:"flood sliding window"`
		FirstMessages  int           `long:"first-messages" env:"FIRST_MESSAGES" default:"3" description:"messages until a user stops being new"`
		MinProbability float64       `long:"min-probability" env:"MIN_PROBABILITY" default:"60" description:"min classifier probability percent"`
		SpamEmojis     []string      `long:"spam-emoji" env:"SPAM_EMOJI" env-delim:"," description:"emojis counted by the density rule, all if empty"`
		BlockURLs      bool          `long:"block-urls" env:"BLOCK_URLS" description:"block non-allow-listed urls for everyone"`
	} `group:"detector" namespace:"detector" env-namespace:"DETECTOR"`

	Warnings struct {
		Limit           int           `long:"limit" env:"LIMIT" default:"3" description:"warnings before mute"`
		TTL             time.Duration `long:"ttl" env:"TTL" default:"24h" description:"warning expiry"`
		CleanupInterval time.Duration `long:"cleanup-interval" env:"CLEANUP_INTERVAL" default:"1h" description:"expired warnings sweep interval"`
		MuteDuration    time.Duration `long:"mute-duration" env:"MUTE_DURATION" default:"24h" description:"mute duration on warning limit"`
	} `group:"warnings" namespace:"warnings" env-namespace:"WARNINGS"`

	Gate struct {
		Channels []string `long:"channel" env:"CHANNELS" env-delim:"," description:"channels required for the gated file"`
		File     string   `long:"file" env:"FILE" description:"file id of the gated document"`
		Sticker  string   `long:"sticker" env:"STICKER" description:"file id of the greeting sticker"`
		Image    string   `long:"image" env:"IMAGE" description:"file id of the join prompt image"`
		Greeting string   `long:"greeting" env:"GREETING" default:"thanks for joining, here is your file" description:"greeting text"`
	} `group:"gate" namespace:"gate" env-namespace:"GATE"`

	Server struct {
		Enabled    bool   `long:"enabled" env:"ENABLED" description:"enable web API server"`
		ListenAddr string `long:"listen" env:"LISTEN" default:":8080" description:"listen address"`
		AuthPasswd string `long:"auth" env:"AUTH" description:"basic auth password for user \"groupguard\""`
	} `group:"server" namespace:"server" env-namespace:"SERVER"`

	Dry   bool `long:"dry" env:"DRY" description:"dry mode, no deletes or mutes"`
	Dbg   bool `long:"dbg" env:"DEBUG" description:"debug mode"`
	TGDbg bool `long:"tg-dbg" env:"TG_DEBUG" description:"telegram debug mode"`
}

var revision = "local"

func main() {
	fmt.Printf("groupguard %s\n", revision)
	var opts options
	p := flags.NewParser(&opts, flags.PrintErrors|flags.PassDoubleDash|flags.HelpFlag)
	if _, err := p.Parse(); err != nil {
		if flagsErr := new(flags.Error); !errors.As(err, &flagsErr) || flagsErr.Type != flags.ErrHelp {
			log.Printf("[ERROR] cli error: %v", err)
		}
		os.Exit(2)
	}

	setupLog(opts.Dbg, opts.Telegram.Token)
	log.Printf("[DEBUG] options: %+v", opts)

	ctx, cancel := context.WithCancel(context.Background())

	go func() {
		// catch signal and invoke graceful termination
		stop := make(chan os.Signal, 1)
		signal.Notify(stop, os.Interrupt, syscall.SIGTERM)
		<-stop
		log.Printf("[WARN] interrupt signal")
		cancel()
	}()

	if err := execute(ctx, opts); err != nil && !errors.Is(err, context.Canceled) {
		log.Printf("[ERROR] %v", err)
		os.Exit(1)
	}
}

func execute(ctx context.Context, opts options) error {
	if opts.Dry {
		log.Print("[WARN] dry mode, no actual deletes or mutes")
	}

	tbAPI, err := tbapi.NewBotAPI(opts.Telegram.Token)
	if err != nil {
		return fmt.Errorf("can't make telegram bot, %w", err)
	}
	tbAPI.Debug = opts.TGDbg

	db, err := engine.New(ctx, opts.DB, opts.InstanceID)
	if err != nil {
		return fmt.Errorf("can't make db engine, %w", err)
	}
	defer db.Close()

	warnings, err := storage.NewWarnings(ctx, db, opts.Warnings.TTL)
	if err != nil {
		return fmt.Errorf("can't make warnings store, %w", err)
	}
	settings, err := storage.NewChatSettings(ctx, db)
	if err != nil {
		return fmt.Errorf("can't make settings store, %w", err)
	}
	activity, err := storage.NewUserActivity(ctx, db)
	if err != nil {
		return fmt.Errorf("can't make activity store, %w", err)
	}

	go cleanupExpired(ctx, warnings, opts.Warnings.CleanupInterval)

	detector := makeDetector(opts).WithActivityTracker(activity)
	spamBot := makeSpamBot(ctx, opts, detector, settings, activity)

	if opts.Server.Enabled {
		srv := webapi.NewServer(webapi.Config{
			Version:    revision,
			ListenAddr: opts.Server.ListenAddr,
			Detector:   detector,
			AuthPasswd: opts.Server.AuthPasswd,
			Dbg:        opts.Dbg,
		})
		go func() {
			if err := srv.Run(ctx); err != nil {
				log.Printf("[ERROR] webapi server failed: %v", err)
			}
		}()
	}

	loggerWr, err := makeSpamLogWriter(opts)
	if err != nil {
		return fmt.Errorf("can't make spam log writer, %w", err)
	}
	defer loggerWr.Close()

	var gate *events.Gate
	if opts.Gate.File != "" {
		gate = &events.Gate{
			TbAPI:     tbAPI,
			Channels:  opts.Gate.Channels,
			FileID:    opts.Gate.File,
			StickerID: opts.Gate.Sticker,
			ImageID:   opts.Gate.Image,
			Greeting:  opts.Gate.Greeting,
		}
	}

	tgListener := events.TelegramListener{
		TbAPI:        tbAPI,
		Bot:          spamBot,
		SpamLogger:   makeSpamLogger(loggerWr),
		Warnings:     warnings,
		Settings:     settings,
		Group:        opts.Telegram.Group,
		WarnLimit:    opts.Warnings.Limit,
		MuteDuration: opts.Warnings.MuteDuration,
		Gate:         gate,
		Dry:          opts.Dry,
	}
	log.Printf("[DEBUG] telegram listener config: {group: %s, warn limit: %d, mute: %v, dry: %v}",
		tgListener.Group, tgListener.WarnLimit, tgListener.MuteDuration, tgListener.Dry)

	if err := tgListener.Do(ctx); err != nil {
		return fmt.Errorf("telegram listener failed, %w", err)
	}
	return nil
}

func makeDetector(opts options) *guard.Detector {
	detectorConfig := guard.Config{
		MaxEmoji:          opts.Detector.MaxEmoji,
		MaxFormatEntities: opts.Detector.MaxFormat,
		FloodMessages:     opts.Detector.FloodCount,
		FloodInterval:     opts.Detector.FloodInterval,
		FirstMessages:     opts.Detector.FirstMessages,
		MinClassifierProb: opts.Detector.MinProbability,
	}
	log.Printf("[DEBUG] detector config: %+v", detectorConfig)
	return guard.New(detectorConfig)
}

func makeSpamBot(ctx context.Context, opts options, detector *guard.Detector,
	settings *storage.ChatSettings, activity *storage.UserActivity) *bot.SpamFilter {
	spamBotParams := bot.SpamConfig{
		KeywordsFile:    opts.Files.KeywordsFile,
		DomainsFile:     opts.Files.DomainsFile,
		SpamSamplesFile: opts.Files.SamplesSpamFile,
		HamSamplesFile:  opts.Files.SamplesHamFile,
		SpamEmojis:      opts.Detector.SpamEmojis,
		BlockURLs:       opts.Detector.BlockURLs,
		MaxInitial:      opts.Detector.FirstMessages,
		WatchDelay:      opts.Files.WatchInterval,
	}
	log.Printf("[DEBUG] spam bot config: %+v", spamBotParams)
	return bot.NewSpamFilter(ctx, detector, settings, activity, spamBotParams)
}

// cleanupExpired sweeps expired warning records on a fixed interval
func cleanupExpired(ctx context.Context, warnings *storage.Warnings, interval time.Duration) {
	if interval <= 0 {
		interval = time.Hour
	}
	log.Printf("[DEBUG] expired warnings cleanup every %v", interval)
	ticker := time.NewTicker(interval)
	defer ticker.Stop()
	for {
		select {
		case <-ctx.Done():
			log.Printf("[DEBUG] expired warnings cleanup stopped")
			return
		case <-ticker.C:
			removed, err := warnings.CleanExpired(ctx)
			if err != nil {
				log.Printf("[WARN] can't clean expired warnings, %v", err)
				continue
			}
			if removed > 0 {
				log.Printf("[INFO] cleaned %d expired warnings", removed)
			}
		}
	}
}

// makeSpamLogger creates spam logger to keep reports about spam messages,
// it writes json lines to the provided writer
func makeSpamLogger(wr io.Writer) events.SpamLogger {
	return events.SpamLoggerFunc(func(msg *bot.Message, verdict *bot.Verdict) {
		text := strings.ReplaceAll(msg.Text, "\n", " ")
		text = strings.TrimSpace(text)
		log.Printf("[INFO] spam detected from %v, reason: %s", msg.From, verdict.Reason)
		m := struct {
			TimeStamp   string `json:"ts"`
			DisplayName string `json:"display_name"`
			UserName    string `json:"user_name"`
			UserID      int64  `json:"user_id"`
			ChatID      int64  `json:"chat_id"`
			Reason      string `json:"reason"`
			Text        string `json:"text"`
		}{
			TimeStamp:   time.Now().In(time.Local).Format(time.RFC3339),
			DisplayName: msg.From.DisplayName,
			UserName:    msg.From.Username,
			UserID:      msg.From.ID,
			ChatID:      msg.ChatID,
			Reason:      verdict.Reason,
			Text:        text,
		}
		line, err := json.Marshal(&m)
		if err != nil {
			log.Printf("[WARN] can't marshal json, %v", err)
			return
		}
		if _, err := wr.Write(append(line, '\n')); err != nil {
			log.Printf("[WARN] can't write to log, %v", err)
		}
	})
}

// makeSpamLogWriter creates spam log writer to keep reports about spam messages,
// it parses options and makes lumberjack logger with rotation
func makeSpamLogWriter(opts options) (accessLog io.WriteCloser, err error) {
	if !opts.Logger.Enabled {
		return nopWriteCloser{io.Discard}, nil
	}

	sizeParse := func(inp string) (uint64, error) {
		if inp == "" {
			return 0, errors.New("empty value")
		}
		for i, sfx := range []string{"k", "m", "g", "t"} {
			if strings.HasSuffix(inp, strings.ToUpper(sfx)) || strings.HasSuffix(inp, strings.ToLower(sfx)) {
				val, err := strconv.Atoi(inp[:len(inp)-1])
				if err != nil {
					return 0, fmt.Errorf("can't parse %s: %w", inp, err)
				}
				return uint64(float64(val) * math.Pow(float64(1024), float64(i+1))), nil
			}
		}
		return strconv.ParseUint(inp, 10, 64)
	}

	maxSize, perr := sizeParse(opts.Logger.MaxSize)
	if perr != nil {
		return nil, fmt.Errorf("can't parse logger MaxSize: %w", perr)
	}

	maxSize /= 1048576

	log.Printf("[INFO] logger enabled for %s, max size %dM", opts.Logger.FileName, maxSize)
	return &lumberjack.Logger{
		Filename:   opts.Logger.FileName,
		MaxSize:    int(maxSize), // in MB
		MaxBackups: opts.Logger.MaxBackups,
		Compress:   true,
		LocalTime:  true,
	}, nil
}

type nopWriteCloser struct{ io.Writer }

func (n nopWriteCloser) Close() error { return nil }

func setupLog(dbg bool, secrets ...string) {
	logOpts := []lgr.Option{lgr.Msec, lgr.LevelBraces, lgr.StackTraceOnError}
	if dbg {
		logOpts = []lgr.Option{lgr.Debug, lgr.CallerFile, lgr.CallerFunc, lgr.Msec, lgr.LevelBraces, lgr.StackTraceOnError}
	}

	colorizer := lgr.Mapper{
		ErrorFunc:  func(s string) string { return color.New(color.FgHiRed).Sprint(s) },
		WarnFunc:   func(s string) string { return color.New(color.FgRed).Sprint(s) },
		InfoFunc:   func(s string) string { return color.New(color.FgYellow).Sprint(s) },
		DebugFunc:  func(s string) string { return color.New(color.FgWhite).Sprint(s) },
		CallerFunc: func(s string) string { return color.New(color.FgBlue).Sprint(s) },
		TimeFunc:   func(s string) string { return color.New(color.FgCyan).Sprint(s) },
	}
	logOpts = append(logOpts, lgr.Map(colorizer))

	if len(secrets) > 0 {
		logOpts = append(logOpts, lgr.Secret(secrets...))
	}
	lgr.SetupStdLogger(logOpts...)
	lgr.Setup(logOpts...)
}
