package config

import (
	"errors"
	"fmt"
	"net/url"

	"github.com/go-playground/validator/v10"
	"github.com/spf13/viper"
)

type Config struct {
	TMDB    TMDB    `json:"tmdb" yaml:"tmdb" mapstructure:"tmdb"`
	Storage Storage `json:"storage" yaml:"storage" mapstructure:"storage"`
	Server  Server  `json:"server" yaml:"server" mapstructure:"server"`
	Query   Query   `json:"query" yaml:"query" mapstructure:"query"`
}

type TMDB struct {
	Scheme   string `json:"scheme" yaml:"scheme" mapstructure:"scheme" validate:"omitempty,oneof=http https"`
	Host     string `json:"host" yaml:"host" mapstructure:"host"`
	APIKey   string `json:"apiKey" yaml:"apiKey" mapstructure:"apiKey"`
	Language string `json:"language" yaml:"language" mapstructure:"language"`
}

// URL returns the catalog base url.
func (t TMDB) URL() string {
	u := url.URL{Scheme: t.Scheme, Host: t.Host}
	return u.String()
}

type Server struct {
	Port int `json:"port" yaml:"port" mapstructure:"port" validate:"omitempty,min=1,max=65535"`
}

const (
	DriverSQLite = "sqlite"
	DriverBadger = "badger"
	DriverMemory = "memory"
)

// Storage selects where collections are persisted. FilePath is used by the
// sqlite driver and Dir by the badger driver.
type Storage struct {
	Driver   string `json:"driver" yaml:"driver" mapstructure:"driver" validate:"omitempty,oneof=sqlite badger memory"`
	FilePath string `json:"filePath" yaml:"filePath" mapstructure:"filePath"`
	Dir      string `json:"dir" yaml:"dir" mapstructure:"dir"`
}

type Query struct {
	// Locale is a BCP 47 tag used to collate titles.
	Locale string `json:"locale" yaml:"locale" mapstructure:"locale" validate:"omitempty,bcp47_language_tag"`
}

type ConfigUnmarshaler interface {
	ReadInConfig() error
	Unmarshal(any, ...viper.DecoderConfigOption) error
	ConfigFileUsed() string
}

var ErrInvalidConfig = errors.New("invalid configuration")

// New reads a new configuration
func New(cu ConfigUnmarshaler) (Config, error) {
	var c Config

	if cu.ConfigFileUsed() != "" {
		err := cu.ReadInConfig()
		if err != nil {
			return c, err
		}
	}

	if err := cu.Unmarshal(&c); err != nil {
		return c, err
	}

	return c, c.Validate()
}

// Validate checks the values that have a fixed domain.
func (c Config) Validate() error {
	v := validator.New(validator.WithRequiredStructEnabled())
	if err := v.Struct(c); err != nil {
		var verrs validator.ValidationErrors
		if errors.As(err, &verrs) && len(verrs) > 0 {
			return fmt.Errorf("%w: %s failed %s", ErrInvalidConfig, verrs[0].Namespace(), verrs[0].Tag())
		}
		return fmt.Errorf("%w: %w", ErrInvalidConfig, err)
	}
	return nil
}
