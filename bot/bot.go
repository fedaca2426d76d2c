package bot

import (
	"fmt"
	"time"

	"shirokane/bot/features/ai"
	"shirokane/bot/features/anime"
	"shirokane/bot/features/imagegen"
	"shirokane/bot/features/leveling"
	"shirokane/bot/features/music"
	"shirokane/bot/features/valorant"
	"shirokane/bot/voice"
	"shirokane/domain/interfaces"
	"shirokane/domain/services"
	"shirokane/infrastructure/blackbox"
	"shirokane/infrastructure/henrikdev"
	"shirokane/infrastructure/jikan"
	"shirokane/infrastructure/stablehorde"

	"github.com/bwmarrin/discordgo"
	log "github.com/sirupsen/logrus"
)

// Config holds bot configuration
type Config struct {
	Token            string
	GuildID          string
	XPPerMessageMin  int64
	XPPerMessageMax  int64
	XPCooldown       time.Duration
	LevelUpChannelID string
	ChatMemoryLimit  int
}

// Dependencies bundles the external collaborators the features need.
// The role granter and audio sink are built internally because they
// wrap the session the bot itself creates.
type Dependencies struct {
	Progress   interfaces.UserProgressRepository
	Rewards    map[int]int64
	Enumerator interfaces.TrackEnumerator
	Resolver   interfaces.TrackResolver
	Chat       *blackbox.Client
	ImageGen   *stablehorde.Client
	Anime      *jikan.Client
	Valorant   *henrikdev.Client
}

// Bot manages the Discord bot and all feature modules
type Bot struct {
	// Core components
	config  Config
	session *discordgo.Session
	sink    *voice.Sink

	// Feature modules
	leveling *leveling.Feature
	music    *music.Feature
	ai       *ai.Feature
	imagegen *imagegen.Feature
	anime    *anime.Feature
	valorant *valorant.Feature
}

// New creates a new bot instance with all features
func New(config Config, deps Dependencies) (*Bot, error) {
	// Create Discord session
	dg, err := discordgo.New("Bot " + config.Token)
	if err != nil {
		return nil, fmt.Errorf("error creating discord session: %w", err)
	}
	dg.Identify.Intents = discordgo.IntentsAllWithoutPrivileged |
		discordgo.IntentsGuildMembers |
		discordgo.IntentsMessageContent

	bot := &Bot{
		config:  config,
		session: dg,
		sink:    voice.NewSink(dg),
	}

	// Domain services
	levelingService := services.NewLevelingService(deps.Progress, NewRoleGranter(dg), deps.Rewards)
	playbackService := services.NewPlaybackService(deps.Resolver, bot.sink)

	// Feature modules
	bot.leveling = leveling.NewFeature(dg, levelingService,
		leveling.NewCooldownTracker(config.XPCooldown),
		config.XPPerMessageMin, config.XPPerMessageMax, config.LevelUpChannelID)
	bot.music = music.NewFeature(dg, playbackService, deps.Enumerator, bot.sink)
	bot.ai = ai.NewFeature(deps.Chat, blackbox.NewConversationMemory(config.ChatMemoryLimit))
	bot.imagegen = imagegen.NewFeature(deps.ImageGen)
	bot.anime = anime.NewFeature(deps.Anime)
	bot.valorant = valorant.NewFeature(deps.Valorant)

	// Register handlers
	dg.AddHandler(bot.handleCommands)
	dg.AddHandler(bot.handleMessageCreate)

	// Open websocket connection
	if err := dg.Open(); err != nil {
		return nil, fmt.Errorf("error opening connection: %w", err)
	}

	// Register slash commands with Discord
	if err := bot.registerCommands(); err != nil {
		dg.Close()
		return nil, fmt.Errorf("error registering commands: %w", err)
	}

	log.Info("Bot connected and commands registered")
	return bot, nil
}

// Close gracefully shuts down the bot
func (b *Bot) Close() error {
	b.sink.LeaveAll()
	return b.session.Close()
}

// GetSession returns the Discord session
func (b *Bot) GetSession() *discordgo.Session {
	return b.session
}

// handleCommands routes slash commands to appropriate handlers
func (b *Bot) handleCommands(s *discordgo.Session, i *discordgo.InteractionCreate) {
	if i.Type != discordgo.InteractionApplicationCommand {
		return
	}

	switch i.ApplicationCommandData().Name {
	case "level":
		b.leveling.HandleCommand(s, i)
	case "music":
		b.music.HandleCommand(s, i)
	case "ai":
		b.ai.HandleCommand(s, i)
	case "gen":
		b.imagegen.HandleCommand(s, i)
	case "anime":
		b.anime.HandleSearchCommand(s, i)
	case "recommend":
		b.anime.HandleRecommendCommand(s, i)
	case "val":
		b.valorant.HandleCommand(s, i)
	}
}

// handleMessageCreate fans guild messages out to the listeners that
// react to plain messages: passive XP and auto-AI replies.
func (b *Bot) handleMessageCreate(s *discordgo.Session, m *discordgo.MessageCreate) {
	if m.Author.ID == s.State.User.ID {
		return
	}

	b.leveling.HandleMessageCreate(s, m)
	b.ai.HandleMessageCreate(s, m)
}
