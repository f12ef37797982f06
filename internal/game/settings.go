package game

import (
	"math"
	"time"

	"github.com/playmatatu/lastone/internal/config"
	"github.com/playmatatu/lastone/internal/physics"
)

const (
	gravityY         = 0.6
	minViewDimension = 200.0
	maxViewWidth     = 2000.0
)

// Settings holds the tunables of a match. Physics always advances by
// physics.DefaultDelta per step; TickHz only sets how many steps run per
// wall-clock second.
type Settings struct {
	Arena           Arena
	ViewHeight      float64
	TickHz          int
	SpawnInterval   time.Duration // simulated time between timed ball spawns
	MaxBalls        int
	MaxParticipants int
	SnapshotEvery   int   // steps between snapshot events
	Seed            int64 // 0 picks a time-based seed
}

// DefaultSettings mirrors the config defaults.
func DefaultSettings() Settings {
	return Settings{
		Arena:           Arena{Width: 700, Height: 1500},
		ViewHeight:      600,
		TickHz:          60,
		SpawnInterval:   20 * time.Second,
		MaxBalls:        12,
		MaxParticipants: 50,
		SnapshotEvery:   2,
	}
}

// SettingsFromConfig builds match settings from the application config.
func SettingsFromConfig(cfg *config.Config) Settings {
	s := DefaultSettings()
	if cfg == nil {
		return s
	}
	if cfg.ArenaWidth > 0 {
		s.Arena.Width = cfg.ArenaWidth
	}
	if cfg.ArenaHeight > 0 {
		s.Arena.Height = cfg.ArenaHeight
	}
	if cfg.ViewHeight > 0 {
		s.ViewHeight = cfg.ViewHeight
	}
	if cfg.TickHz > 0 {
		s.TickHz = cfg.TickHz
	}
	if cfg.BallSpawnSeconds > 0 {
		s.SpawnInterval = time.Duration(cfg.BallSpawnSeconds) * time.Second
	}
	if cfg.MaxBalls > 0 {
		s.MaxBalls = cfg.MaxBalls
	}
	if cfg.MaxParticipants > 0 {
		s.MaxParticipants = cfg.MaxParticipants
	}
	return s
}

func (s Settings) tickInterval() time.Duration {
	hz := s.TickHz
	if hz <= 0 {
		hz = 60
	}
	return time.Second / time.Duration(hz)
}

// spawnIntervalMs is the spawn interval in simulated milliseconds.
func (s Settings) spawnIntervalMs() float64 {
	return float64(s.SpawnInterval) / float64(time.Millisecond)
}

// StartOption adjusts the settings of a single session.
type StartOption func(*Settings)

// WithView sizes the arena to the viewer's canvas: the arena is as wide as
// the view. Values outside a sane range are clamped; zero keeps the default.
func WithView(width, height float64) StartOption {
	return func(s *Settings) {
		if width > 0 {
			s.Arena.Width = math.Min(maxViewWidth, math.Max(minViewDimension, width))
		}
		if height > 0 {
			s.ViewHeight = math.Min(s.Arena.Height, math.Max(minViewDimension, height))
		}
	}
}

// WithSeed fixes the random source, for replays and tests.
func WithSeed(seed int64) StartOption {
	return func(s *Settings) {
		s.Seed = seed
	}
}

func gravity() physics.Vec2 {
	return physics.NewVec2(0, gravityY)
}
