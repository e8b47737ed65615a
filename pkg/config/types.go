package config

import (
	"fmt"
	"time"

	"github.com/whodunit/parlor/pkg/game"
)

type ServerSettings struct {
	Port        int    `json:"port" yaml:"port"`
	DBPath      string `json:"dbPath" yaml:"dbPath"`
	LogSessions bool   `json:"logSessions" yaml:"logSessions"`
}

type GameSettings struct {
	MinPlayers      int  `json:"minPlayers" yaml:"minPlayers"`
	MaxPlayers      int  `json:"maxPlayers" yaml:"maxPlayers"`
	DisproveSeconds uint `json:"disproveSeconds" yaml:"disproveSeconds"`
	FreeMovement    bool `json:"freeMovement" yaml:"freeMovement"`
}

// Rules converts the settings into the form sessions consume.
func (g GameSettings) Rules() game.Rules {
	return game.Rules{
		MinPlayers:      g.MinPlayers,
		MaxPlayers:      g.MaxPlayers,
		DisproveTimeout: time.Duration(g.DisproveSeconds) * time.Second,
		FreeMovement:    g.FreeMovement,
	}
}

type Config struct {
	Server ServerSettings `json:"server" yaml:"server"`
	Game   GameSettings   `json:"game" yaml:"game"`
}

func (c *Config) validate() error {
	if c.Server.Port < 1 || c.Server.Port > 65535 {
		return fmt.Errorf("server.port %d is out of range", c.Server.Port)
	}
	if c.Game.MinPlayers < 2 {
		return fmt.Errorf("game.minPlayers %d is too small", c.Game.MinPlayers)
	}
	if c.Game.MaxPlayers < c.Game.MinPlayers {
		return fmt.Errorf(
			"game.maxPlayers %d is below game.minPlayers %d",
			c.Game.MaxPlayers,
			c.Game.MinPlayers,
		)
	}
	if c.Game.DisproveSeconds == 0 {
		return fmt.Errorf("game.disproveSeconds must be positive")
	}
	return nil
}
