/*
Elloned starts an ellone server and begins listening for new connections.

Usage:

	elloned [flags]
	elloned [flags] -l [[ADDRESS]:PORT]

Once started, the ellone server will listen for HTTP requests and respond to
them using REST protocol. By default, it will listen on localhost:8080. This can
be changed with the --listen/-l flag (or config via environment var or config
file). The flag argument must be either a full address with port, such as
"192.168.0.2:6001", or just the port preceeded by a colon, such as ":6001".

Settings are taken from the config file first, then from environment
variables, then from flags, with later sources overriding earlier ones.

If a JWT token secret is not given, one will be automatically generated. As a
consequence, in this mode of operation all tokens are rendered invalid as soon
as the server shuts down. This is suitable for testing, but must be given via
either CLI flags, environment variable, or config file if running in
production.

If neither an admin password nor an admin password hash is given, a random
admin password is generated and written to the log at startup.

The flags are:

	-v, --version
		Give the current version of the ellone server and then exit.

	-c, --config FILE
		Read settings from the given TOML file. If not given, will default to
		the value of environment variable ELLONE_CONFIG.

	-l, --listen LISTEN_ADDRESS
		Listen on the given address. Must be in BIND_ADDRESS:PORT or :PORT
		format. If not given, will default to the value of environment variable
		ELLONE_LISTEN_ADDRESS, and if that is not given, will default to
		localhost:8080.

	-s, --secret TOKEN_SECRET
		Use the provided secret for signing JWT tokens. If there are less than
		32 bytes in the secret, it will be repeated until it is. The maximum
		size is 64 bytes. If not given, will default to the value of environment
		variable ELLONE_TOKEN_SECRET.

	--db DRIVER[:PARAMS]
		Use the given DB connection string. DRIVER must be one of the following:
		inmem, sqlite. inmem has no further params. sqlite needs the path to the
		data directory such as sqlite:path/to/db_dir. If not given, will default
		to the value of environment variable ELLONE_DATABASE, and if that is
		not given, an in-memory database is used.

	--admin-password PASSWORD
		Use the given admin password. If not given, will default to the value
		of environment variable ELLONE_ADMIN_PASSWORD.

	--hash-password PASSWORD
		Print the admin_password_hash config value for the given password and
		then exit.

	--log-level LEVEL
		Log at the given level: debug, info, warn, or error. If not given, will
		default to the value of environment variable ELLONE_LOG_LEVEL.
*/
package main

import (
	"context"
	"crypto/rand"
	"encoding/base64"
	"fmt"
	"os"
	"os/signal"
	"strings"
	"syscall"

	"github.com/dekarrin/ellone/internal/logutil"
	"github.com/dekarrin/ellone/internal/version"
	"github.com/dekarrin/ellone/server"
	"github.com/dekarrin/ellone/server/ellones"
	"github.com/spf13/pflag"
	"go.uber.org/zap"
)

const (
	EnvListen        = "ELLONE_LISTEN_ADDRESS"
	EnvSecret        = "ELLONE_TOKEN_SECRET"
	EnvDB            = "ELLONE_DATABASE"
	EnvConfig        = "ELLONE_CONFIG"
	EnvLogLevel      = "ELLONE_LOG_LEVEL"
	EnvAdminPassword = "ELLONE_ADMIN_PASSWORD"
)

var (
	flagVersion       = pflag.BoolP("version", "v", false, "Give the current version of the ellone server and then exit.")
	flagConfig        = pflag.StringP("config", "c", "", "Read settings from the given TOML file.")
	flagListen        = pflag.StringP("listen", "l", "", "Listen on the given address.")
	flagSecret        = pflag.StringP("secret", "s", "", "Use the given secret for token generation.")
	flagDB            = pflag.String("db", "", "Use the given DB connection string.")
	flagAdminPassword = pflag.String("admin-password", "", "Use the given admin password.")
	flagHashPassword  = pflag.String("hash-password", "", "Print the admin_password_hash value for the given password and exit.")
	flagLogLevel      = pflag.String("log-level", "", "Log at the given level.")
)

// setting gives the value of the flag with the given name if it was set,
// else the environment variable env.
func setting(flagName string, flagVal *string, env string) string {
	if pflag.Lookup(flagName).Changed {
		return *flagVal
	}
	return os.Getenv(env)
}

func main() {
	pflag.Parse()

	if *flagVersion {
		fmt.Printf("%s (ellone v%s)\n", version.ServerCurrent, version.Current)
		return
	}

	if pflag.Lookup("hash-password").Changed {
		hash, err := ellones.HashPassword(*flagHashPassword)
		if err != nil {
			fmt.Fprintf(os.Stderr, "Could not hash password: %s\n", err.Error())
			os.Exit(1)
		}
		fmt.Println(hash)
		return
	}

	if len(pflag.Args()) > 0 {
		fmt.Fprintf(os.Stderr, "Too many arguments\nDo -h for help.\n")
		os.Exit(1)
	}

	// assemble a server config
	var cfg server.Config

	if cfgPath := setting("config", flagConfig, EnvConfig); cfgPath != "" {
		var err error
		cfg, err = server.LoadConfig(cfgPath)
		if err != nil {
			fmt.Fprintf(os.Stderr, "%s: %s\n", cfgPath, err.Error())
			os.Exit(1)
		}
	}

	if listenAddr := setting("listen", flagListen, EnvListen); listenAddr != "" {
		if !strings.Contains(listenAddr, ":") {
			fmt.Fprintf(os.Stderr, "Listen address is not in ADDRESS:PORT or :PORT format.\nDo -h for help.\n")
			os.Exit(1)
		}
		cfg.Listen = listenAddr
	}

	if dbConnStr := setting("db", flagDB, EnvDB); dbConnStr != "" {
		db, err := server.ParseDBConnString(dbConnStr)
		if err != nil {
			fmt.Fprintf(os.Stderr, "%s\nDo -h for help.\n", err.Error())
			os.Exit(1)
		}
		cfg.DB = db
	}

	if lvl := setting("log-level", flagLogLevel, EnvLogLevel); lvl != "" {
		cfg.Log.Level = lvl
	}
	if tokSecStr := setting("secret", flagSecret, EnvSecret); tokSecStr != "" {
		cfg.TokenSecret = []byte(tokSecStr)
	}
	secretGiven := len(cfg.TokenSecret) > 0
	cfg = cfg.FillDefaults()

	if err := logutil.InitLogger(cfg.Log); err != nil {
		fmt.Fprintf(os.Stderr, "Could not set up logging: %s\n", err.Error())
		os.Exit(1)
	}
	defer logutil.Sync()
	logger := logutil.BgLogger()

	// get token secret
	if secretGiven {
		tokSecret := cfg.TokenSecret
		for len(tokSecret) < server.MinSecretSize {
			doubledTokSecret := make([]byte, len(tokSecret)*2)
			copy(doubledTokSecret, tokSecret)
			copy(doubledTokSecret[len(tokSecret):], tokSecret)
			tokSecret = doubledTokSecret
		}

		if len(tokSecret) > server.MaxSecretSize {
			// keys would be chopped at 64, so rather than the user thinking
			// they have more security by giving a longer key, refuse to start.
			fmt.Fprintf(os.Stderr, "Token secret is %d bytes, but it must be <= %d bytes\nDo -h for help.\n", len(tokSecret), server.MaxSecretSize)
			os.Exit(1)
		}
		cfg.TokenSecret = tokSecret
	} else {
		// use all 64 possible bytes if doing a generated secret
		cfg.TokenSecret = make([]byte, server.MaxSecretSize)
		if _, err := rand.Read(cfg.TokenSecret); err != nil {
			fmt.Fprintf(os.Stderr, "Could not generate token secret: %s\n", err.Error())
			os.Exit(1)
		}

		// yell at the user bc they should know their secret might be bad
		logger.Warn("using generated token secret; all tokens issued will become invalid at shutdown")
	}

	// get admin credentials
	if pass := setting("admin-password", flagAdminPassword, EnvAdminPassword); pass != "" {
		hash, err := ellones.HashPassword(pass)
		if err != nil {
			fmt.Fprintf(os.Stderr, "Could not hash admin password: %s\n", err.Error())
			os.Exit(1)
		}
		cfg.AdminPasswordHash = hash
	} else if cfg.AdminPasswordHash == "" {
		passBytes := make([]byte, 12)
		if _, err := rand.Read(passBytes); err != nil {
			fmt.Fprintf(os.Stderr, "Could not generate admin password: %s\n", err.Error())
			os.Exit(1)
		}
		pass := base64.RawURLEncoding.EncodeToString(passBytes)
		hash, err := ellones.HashPassword(pass)
		if err != nil {
			fmt.Fprintf(os.Stderr, "Could not hash admin password: %s\n", err.Error())
			os.Exit(1)
		}
		cfg.AdminPasswordHash = hash
		logger.Warn("using generated admin password", zap.String("password", pass))
	}

	// configuration complete, initialize the server
	srv, err := server.New(cfg)
	if err != nil {
		logger.Fatal("could not start server", zap.Error(err))
	}
	logger.Debug("server initialized", zap.String("db", cfg.DB.String()))

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	// okay, now actually launch it
	logger.Info("starting ellone server", zap.String("version", version.ServerCurrent))
	if err := srv.ServeForever(ctx); err != nil {
		logger.Error("server stopped", zap.Error(err))
		logutil.Sync()
		os.Exit(1)
	}
}

