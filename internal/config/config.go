// Package config loads the process-wide settings once at startup. The result is
// a plain value that is handed to the clients at construction time.
package config

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/sethvargo/go-envconfig"
)

type Config struct {
	Debug bool `env:"DEBUG, default=false"`

	Cell CellConfig
	Chat ChatConfig
}

type CellConfig struct {
	Key     string        `env:"OPENCELLID_KEY"                                       validate:"required"`
	BaseURL string        `env:"OPENCELLID_URL,     default=https://opencellid.org/cell/get" validate:"required,url"`
	Timeout time.Duration `env:"OPENCELLID_TIMEOUT, default=15s"                      validate:"gt=0"`
}

type ChatConfig struct {
	Key     string        `env:"GROQ_API_KEY"                                                      validate:"required"`
	BaseURL string        `env:"GROQ_URL,     default=https://api.groq.com/openai/v1/chat/completions" validate:"required,url"`
	Model   string        `env:"GROQ_MODEL,   default=llama-3.3-70b-versatile"                     validate:"required"`
	Timeout time.Duration `env:"GROQ_TIMEOUT, default=60s"                                         validate:"gt=0"`
}

// Error is returned when the environment cannot produce a usable Config. The
// process must not start when Load returns it.
type Error struct {
	Missing []string
	Err     error
}

func (e *Error) Error() string {
	if len(e.Missing) > 0 {
		return fmt.Sprintf("configuration error: missing or invalid %s", strings.Join(e.Missing, ", "))
	}
	return fmt.Sprintf("configuration error: %v", e.Err)
}

func (e *Error) Unwrap() error {
	return e.Err
}

var envNames = map[string]string{
	"Config.Cell.Key":     "OPENCELLID_KEY",
	"Config.Cell.BaseURL": "OPENCELLID_URL",
	"Config.Cell.Timeout": "OPENCELLID_TIMEOUT",
	"Config.Chat.Key":     "GROQ_API_KEY",
	"Config.Chat.BaseURL": "GROQ_URL",
	"Config.Chat.Model":   "GROQ_MODEL",
	"Config.Chat.Timeout": "GROQ_TIMEOUT",
}

// Load reads the configuration through lookuper and validates it.
func Load(ctx context.Context, lookuper envconfig.Lookuper) (Config, error) {
	var cfg Config
	if err := envconfig.ProcessWith(ctx, &envconfig.Config{
		Target:   &cfg,
		Lookuper: lookuper,
	}); err != nil {
		return Config{}, &Error{Err: fmt.Errorf("error reading environment: %w", err)}
	}
	if err := validator.New().Struct(cfg); err != nil {
		var verrs validator.ValidationErrors
		if !errors.As(err, &verrs) {
			return Config{}, &Error{Err: err}
		}
		missing := make([]string, 0, len(verrs))
		for _, fe := range verrs {
			name, ok := envNames[fe.Namespace()]
			if !ok {
				name = fe.Namespace()
			}
			missing = append(missing, name)
		}
		return Config{}, &Error{Missing: missing, Err: err}
	}
	return cfg, nil
}
