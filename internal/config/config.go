package config

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/spf13/viper"
)

// EnvAPIKey overrides any configured profile key.
const EnvAPIKey = "MODELSCOUT_API_KEY"

type Profile struct {
	APIKey string `mapstructure:"api_key"`
}

// Config holds the named credential profiles. Loaded once per invocation and
// passed by value; nothing mutates it after load.
type Config struct {
	DefaultProfile string             `mapstructure:"default_profile"`
	Profiles       map[string]Profile `mapstructure:"profiles"`
}

// Load reads <config-dir>/config.toml. A missing file yields an empty config,
// not an error: keyless usage is a normal state.
func Load() (Config, error) {
	path, err := Path()
	if err != nil {
		return Config{}, err
	}

	v := viper.New()
	v.SetConfigFile(path)
	v.SetConfigType("toml")

	if err := v.ReadInConfig(); err != nil {
		if os.IsNotExist(err) {
			return Config{Profiles: map[string]Profile{}}, nil
		}
		if _, ok := err.(viper.ConfigFileNotFoundError); ok {
			return Config{Profiles: map[string]Profile{}}, nil
		}
		return Config{}, fmt.Errorf("read config %s: %w", path, err)
	}

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return Config{}, fmt.Errorf("parse config %s: %w", path, err)
	}
	if cfg.Profiles == nil {
		cfg.Profiles = map[string]Profile{}
	}
	return cfg, nil
}

// Save writes the config back as TOML with 0600 permissions (it holds keys).
func (c Config) Save() error {
	path, err := Path()
	if err != nil {
		return err
	}
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return fmt.Errorf("create config dir: %w", err)
	}

	v := viper.New()
	v.SetConfigType("toml")
	v.Set("default_profile", c.DefaultProfile)
	profiles := make(map[string]map[string]string, len(c.Profiles))
	for name, p := range c.Profiles {
		profiles[name] = map[string]string{"api_key": p.APIKey}
	}
	v.Set("profiles", profiles)

	if err := v.WriteConfigAs(path); err != nil {
		return fmt.Errorf("write config %s: %w", path, err)
	}
	return os.Chmod(path, 0o600)
}

// Profile returns the named profile.
func (c Config) Profile(name string) (Profile, bool) {
	p, ok := c.Profiles[name]
	return p, ok
}

// SetProfile adds or replaces a profile.
func (c *Config) SetProfile(name string, p Profile) {
	if c.Profiles == nil {
		c.Profiles = map[string]Profile{}
	}
	c.Profiles[name] = p
}

// RemoveProfile deletes a profile, clearing the default if it pointed there.
func (c *Config) RemoveProfile(name string) bool {
	if _, ok := c.Profiles[name]; !ok {
		return false
	}
	delete(c.Profiles, name)
	if c.DefaultProfile == name {
		c.DefaultProfile = ""
	}
	return true
}

// Credential is a resolved API key plus the profile name it was resolved
// under, which namespaces quota records.
type Credential struct {
	Key     string
	Profile string
}

// ResolveKey picks the active credential: the MODELSCOUT_API_KEY environment
// variable wins, then the named profile, then the default profile. Absence is
// not an error; most commands run fine against hosted data with no key.
func (c Config) ResolveKey(profile string) (Credential, bool) {
	name := profile
	if name == "" {
		name = c.DefaultProfile
	}
	if name == "" {
		name = "default"
	}

	if key := os.Getenv(EnvAPIKey); key != "" {
		return Credential{Key: key, Profile: name}, true
	}

	lookup := profile
	if lookup == "" {
		lookup = c.DefaultProfile
	}
	if lookup == "" {
		return Credential{}, false
	}
	p, ok := c.Profiles[lookup]
	if !ok || p.APIKey == "" {
		return Credential{}, false
	}
	return Credential{Key: p.APIKey, Profile: lookup}, true
}
