package passkeys

import (
	"github.com/ente-io/passkeys-go/internal/platform/config"
)

// Config controls the passkey client endpoints and redirect policy.
type Config struct {
	APIURL               string   `env:"ENTE_PASSKEYS_API_URL"                envDefault:"https://api.ente.io"`
	AccountsURL          string   `env:"ENTE_PASSKEYS_ACCOUNTS_URL"           envDefault:"https://accounts.ente.io"`
	ClientPackage        string   `env:"ENTE_PASSKEYS_CLIENT_PACKAGE"         envDefault:"io.ente.accounts.web"`
	Dev                  bool     `env:"ENTE_PASSKEYS_DEV"`
	RedirectHostSuffixes []string `env:"ENTE_PASSKEYS_REDIRECT_HOST_SUFFIXES" envSeparator:","`
	RedirectSchemes      []string `env:"ENTE_PASSKEYS_REDIRECT_SCHEMES"       envSeparator:","`
}

// LoadConfigFromEnv returns client configuration from the ENTE_PASSKEYS_*
// variables, applying first-party defaults for the redirect allow-lists.
func LoadConfigFromEnv() (Config, error) {
	var cfg Config
	if err := config.ParseEnv(&cfg); err != nil {
		return Config{}, err
	}
	if len(cfg.RedirectHostSuffixes) == 0 {
		cfg.RedirectHostSuffixes = []string{".ente.io"}
	}
	if len(cfg.RedirectSchemes) == 0 {
		cfg.RedirectSchemes = []string{"ente"}
	}
	return cfg, nil
}
