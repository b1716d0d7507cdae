package config

import "time"

// UI and Display Constants
const (
	GiveawaysPerPage = 6

	// Colors
	ErrorColor   = 0xFF0000
	SuccessColor = 0x00FF00
	InfoColor    = 0x0099FF
	WarningColor = 0xFFAA00

	// Discord UI Colors
	GiveawayColor          = 0xEB459E
	GiveawayEndColor       = 0x2B2D31
	StarboardColor         = 0xFFAC33
	DefaultEmoji           = "🎉"
	DefaultStarEmoji       = "⭐"
	EnterButtonLabel       = "Enter"
	MaxAutocompleteChoices = 25
)

// Database and Performance Constants
const (
	DefaultQueryTimeout     = 30 * time.Second
	CommandExecutionTimeout = 10 * time.Second
	GiveawayEndTimeout      = 30 * time.Second
	AutocompleteTimeout     = 2 * time.Second
	NetworkDialTimeout      = 5 * time.Second
	ShutdownTimeout         = 10 * time.Second
)

// Giveaway limits
const (
	MinGiveawayDuration   = 10 * time.Second
	MaxGiveawayDuration   = 60 * 24 * time.Hour
	MaxGiveawayWinners    = 50
	MaxBonusEntries       = 100
	DefaultBonusEntries   = 1
	DefaultMaxActive      = 100
	DefaultPollInterval   = 15 * time.Second
	DefaultRetention      = 5 * 24 * time.Hour
	WinnerDMConcurrency   = 5
	MaxStarboardsPerGuild = 2
)

// Starboard and stats tuning
const (
	DefaultThrottleWindow = 2 * time.Second
	DefaultLockIdleTTL    = time.Hour
	LockJanitorInterval   = 5 * time.Minute
	ThrottleRegistrySize  = 4096
	MaxStarboardThreshold = 1000
	MaxMirrorSize         = 100 << 20
	DefaultFlushInterval  = time.Minute
	DefaultXPPerMessage   = 15
	DefaultXPCooldown     = time.Minute
	XPCooldownCacheSize   = 50000
	StatsBufferSize       = 1024
)
