package cmd

import (
	"context"
	"fmt"
	"log"
	"time"

	"shirokane/bot"
	"shirokane/config"
	"shirokane/database"
	"shirokane/infrastructure/blackbox"
	"shirokane/infrastructure/henrikdev"
	"shirokane/infrastructure/jikan"
	"shirokane/infrastructure/stablehorde"
	"shirokane/infrastructure/youtube"
	"shirokane/repository"
)

// Run initializes and starts the application
func Run(ctx context.Context) error {
	log.Println("Starting shirokane bot...")

	// Load configuration
	cfg := config.Get()

	// Initialize database connection
	log.Println("Connecting to database...")
	db, err := database.NewConnection(ctx, cfg.GetDatabaseURL())
	if err != nil {
		return fmt.Errorf("failed to connect to database: %w", err)
	}
	log.Println("Database connection established successfully")

	// Load milestone role rewards
	rewards, err := config.LoadRoleRewards(cfg.RoleRewardsPath)
	if err != nil {
		return fmt.Errorf("failed to load role rewards: %w", err)
	}
	log.Printf("Loaded %d milestone role rewards", len(rewards))

	// Initialize Discord bot
	log.Println("Initializing Discord bot...")
	botConfig := bot.Config{
		Token:            cfg.DiscordToken,
		GuildID:          cfg.GuildID,
		XPPerMessageMin:  cfg.XPPerMessageMin,
		XPPerMessageMax:  cfg.XPPerMessageMax,
		XPCooldown:       cfg.XPCooldown,
		LevelUpChannelID: cfg.LevelUpChannelID,
		ChatMemoryLimit:  cfg.ChatMemoryLimit,
	}
	deps := bot.Dependencies{
		Progress:   repository.NewUserProgressRepository(db),
		Rewards:    rewards,
		Enumerator: youtube.NewEnumerator(),
		Resolver:   youtube.NewResolver(),
		Chat:       blackbox.NewClient(cfg.BlackboxBaseURL, cfg.BlackboxAPIKey, nil),
		ImageGen:   stablehorde.NewClient(cfg.StableHordeBaseURL, cfg.StableHordeAPIKey, nil, cfg.GenerationTimeout),
		Anime:      jikan.NewClient(cfg.JikanBaseURL, nil),
		Valorant:   henrikdev.NewClient(cfg.HenrikDevBaseURL, cfg.HenrikDevAPIKey, nil),
	}
	discordBot, err := bot.New(botConfig, deps)
	if err != nil {
		db.Close()
		return fmt.Errorf("failed to initialize Discord bot: %w", err)
	}
	log.Println("Discord bot initialized successfully")

	// Wait for context cancellation
	log.Printf("Bot is running in %s mode...", cfg.Environment)
	<-ctx.Done()

	// Cleanup resources
	log.Println("Shutting down bot...")

	// Close Discord bot connection
	if err := discordBot.Close(); err != nil {
		log.Printf("Error closing Discord bot: %v", err)
	}

	// Give cleanup operations time to complete
	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	// Close database connection
	log.Println("Closing database connection...")
	db.Close()

	select {
	case <-shutdownCtx.Done():
		log.Println("Shutdown timeout exceeded")
	case <-time.After(1 * time.Second):
		log.Println("Shutdown completed")
	}

	return nil
}
