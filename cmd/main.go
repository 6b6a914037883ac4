package main

import (
	"os"
	"os/signal"
	"syscall"

	"github.com/bwmarrin/discordgo"
	"github.com/kkdai/youtube/v2"
	"go.uber.org/zap"

	"github.com/kazusane/murasame/internal/commands"
	"github.com/kazusane/murasame/internal/config"
	"github.com/kazusane/murasame/internal/handlers"
	"github.com/kazusane/murasame/internal/presence"
	"github.com/kazusane/murasame/pkg/booru"
	"github.com/kazusane/murasame/pkg/embedfix"
	"github.com/kazusane/murasame/pkg/logging"
	"github.com/kazusane/murasame/pkg/osu"
	"github.com/kazusane/murasame/pkg/pipeline"
	"github.com/kazusane/murasame/pkg/player"
	"github.com/kazusane/murasame/pkg/resolver"
	"github.com/kazusane/murasame/pkg/valorant"
)

func main() {
	cfg, err := config.LoadConfig()
	if err != nil {
		logging.Init(logging.Config{Level: "info"})
		logging.Get().Fatal("failed to load config", zap.Error(err))
	}

	logging.Init(logging.Config{
		Level:      cfg.LogLevel,
		OutputPath: cfg.LogFile,
		MaxSizeMB:  50,
		MaxBackups: 3,
		MaxAgeDays: 14,
	})
	defer logging.Sync()
	log := logging.Get()

	dg, err := discordgo.New("Bot " + cfg.DiscordToken)
	if err != nil {
		log.Fatal("failed to create Discord session", zap.Error(err))
	}
	dg.Identify.Intents = discordgo.IntentsGuilds | discordgo.IntentsGuildVoiceStates

	ytClient := &youtube.Client{}

	var strategies []pipeline.Strategy
	if !cfg.DisableYouTubeStream {
		strategies = append(strategies, &pipeline.DirectStreamStrategy{Client: ytClient})
	}
	strategies = append(strategies,
		&pipeline.InfoStreamStrategy{Client: ytClient},
		&pipeline.ExtractorStrategy{},
	)

	registry := player.NewRegistry(player.Deps{
		Resolver: resolver.New(resolver.Options{
			MaxPlaylistLength:   cfg.MaxPlaylistLength,
			SpotifyClientID:     cfg.SpotifyClientID,
			SpotifyClientSecret: cfg.SpotifyClientSecret,
			Logger:              log,
		}),
		Acquirer:   pipeline.New(log, strategies...),
		Joiner:     &player.DiscordJoiner{Session: dg},
		FFmpegPath: cfg.FFmpegPath,
		Logger:     log,
	})

	commands.Setup(
		registry,
		osu.NewClient(cfg.OsuAPIKey),
		valorant.NewClient(cfg.ValorantAPIKey),
		booru.NewClient(),
		embedfix.NewFixer(),
	)

	dg.AddHandler(handlers.SlashCommandHandler)

	if err := dg.Open(); err != nil {
		log.Fatal("failed to open Discord session", zap.Error(err))
	}

	if err := commands.RegisterSlashCommands(dg); err != nil {
		log.Fatal("failed to register slash commands", zap.Error(err))
	}

	pm := presence.NewManager(dg)
	pm.UpdateDefault()
	pm.StartPeriodicUpdates()

	log.Info("bot is running, press CTRL-C to exit")

	sc := make(chan os.Signal, 1)
	signal.Notify(sc, syscall.SIGINT, syscall.SIGTERM, os.Interrupt)
	<-sc

	if err := dg.Close(); err != nil {
		log.Warn("error closing Discord session", zap.Error(err))
	}
}
