package config

import (
	"flag"
	"os"
	"time"

	"github.com/dmitrijs2005/contacthub/internal/flagx"
)

// parseFlags populates selected server Config fields from command-line flags.
//
// Supported flags (short forms):
//
//	-a string   HTTP bind address (e.g., ":8000")
//	-d string   PostgreSQL DSN
//	-s string   JWT HMAC secret key
//	-j string   JWT signing algorithm (HS256/HS384/HS512)
//	-t int      access token validity, seconds
//	-r int      refresh token validity, minutes
//	-u string   public base URL used in email links
//	-m string   sender address for outbound mail
//	-g string   SES region
//	-k string   SES access key
//	-p string   SES secret key
//	-e string   SES base endpoint override (empty for the real service)
//
// Notes:
//   - The function first filters os.Args to only the flags it recognizes using
//     flagx.FilterArgs, avoiding collisions with other components.
//   - Token lifetimes are accepted as integers (seconds for access, minutes
//     for refresh) and converted to time.Duration values.
func parseFlags(config *Config) {
	args := flagx.FilterArgs(os.Args[1:], []string{"-a", "-d", "-s", "-j", "-t", "-r", "-u", "-m", "-g", "-k", "-p", "-e"})

	fs := flag.NewFlagSet("main", flag.ContinueOnError)

	fs.StringVar(&config.EndpointAddr, "a", config.EndpointAddr, "address and port to run server")
	fs.StringVar(&config.DatabaseDSN, "d", config.DatabaseDSN, "database DSN")
	fs.StringVar(&config.JWTSecret, "s", config.JWTSecret, "JWT secret key")
	fs.StringVar(&config.JWTAlgorithm, "j", config.JWTAlgorithm, "JWT signing algorithm")

	accessTokenTTL := fs.Int("t", int(config.AccessTokenTTL.Seconds()), "access token validity (in seconds)")
	refreshTokenTTL := fs.Int("r", int(config.RefreshTokenTTL.Minutes()), "refresh token validity (in minutes)")

	fs.StringVar(&config.PublicBaseURL, "u", config.PublicBaseURL, "public base URL")
	fs.StringVar(&config.MailSender, "m", config.MailSender, "mail sender address")
	fs.StringVar(&config.MailRegion, "g", config.MailRegion, "SES region")
	fs.StringVar(&config.MailAccessKey, "k", config.MailAccessKey, "SES access key")
	fs.StringVar(&config.MailSecretKey, "p", config.MailSecretKey, "SES secret key")
	fs.StringVar(&config.MailBaseEndpoint, "e", config.MailBaseEndpoint, "SES base endpoint")

	if err := fs.Parse(args); err != nil {
		panic(err)
	}

	config.AccessTokenTTL = time.Duration(*accessTokenTTL) * time.Second
	config.RefreshTokenTTL = time.Duration(*refreshTokenTTL) * time.Minute
}
