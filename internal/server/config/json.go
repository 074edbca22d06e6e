package config

import (
	"encoding/json"
	"os"

	"github.com/dmitrijs2005/contacthub/internal/flagx"
	"github.com/dmitrijs2005/contacthub/internal/timex"
)

// JsonConfig defines a configuration structure tailored for JSON
// unmarshalling. It uses timex.Duration for interval fields, which allows
// parsing both string values such as "15m" and integer nanoseconds.
//
// This struct is an intermediate DTO used only for reading JSON configuration
// files. After unmarshalling, its fields are copied into the runtime Config
// struct which uses time.Duration.
type JsonConfig struct {
	EndpointAddr     string         `json:"endpoint_addr"`
	DatabaseDSN      string         `json:"database_dsn"`
	JWTSecret        string         `json:"jwt_secret"`
	JWTAlgorithm     string         `json:"jwt_algorithm"`
	AccessTokenTTL   timex.Duration `json:"access_token_ttl"`
	RefreshTokenTTL  timex.Duration `json:"refresh_token_ttl"`
	PublicBaseURL    string         `json:"public_base_url"`
	MailSender       string         `json:"mail_sender"`
	MailRegion       string         `json:"mail_region"`
	MailAccessKey    string         `json:"mail_access_key"`
	MailSecretKey    string         `json:"mail_secret_key"`
	MailBaseEndpoint string         `json:"mail_base_endpoint"`
}

// parseJson loads configuration values from a JSON file into the provided
// Config instance.
//
// The file path is taken from the -c or -config command-line flags; if
// neither is set, no JSON file is loaded. If the file cannot be read or
// contains invalid JSON, the function panics.
func parseJson(config *Config) {

	jsonConfigFile := flagx.JsonConfigFlags()

	// nothing to load
	if jsonConfigFile == "" {
		return
	}

	c := &JsonConfig{}

	file, err := os.ReadFile(jsonConfigFile)
	if err != nil {
		panic(err)
	}

	err = json.Unmarshal(file, c)
	if err != nil {
		panic(err)
	}

	config.EndpointAddr = c.EndpointAddr
	config.DatabaseDSN = c.DatabaseDSN
	config.JWTSecret = c.JWTSecret
	config.JWTAlgorithm = c.JWTAlgorithm
	config.AccessTokenTTL = c.AccessTokenTTL.Duration
	config.RefreshTokenTTL = c.RefreshTokenTTL.Duration
	config.PublicBaseURL = c.PublicBaseURL
	config.MailSender = c.MailSender
	config.MailRegion = c.MailRegion
	config.MailAccessKey = c.MailAccessKey
	config.MailSecretKey = c.MailSecretKey
	config.MailBaseEndpoint = c.MailBaseEndpoint
}
