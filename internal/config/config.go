// Package config provides the application configuration from
// command-line flags, environment variables and an optional JSON file.
// Precedence: environment variables, then flags, then the file.
package config

import (
	"encoding/json"
	"flag"
	"os"
	"strconv"
	"time"
)

// Options holds the configuration values for the application.
type Options struct {
	// Address defines the server's listening address (ip:port).
	Address string `json:"address"`

	// DatabaseDSN selects the PostgreSQL backend when non-empty.
	DatabaseDSN string `json:"database_dsn"`

	// SQLiteFile selects the embedded sqlite backend when non-empty.
	SQLiteFile string `json:"sqlite_file"`

	// AdminUsername and AdminPassword form the static admin credential.
	AdminUsername string `json:"admin_username"`
	AdminPassword string `json:"admin_password"`

	// RetentionMode is "soft" (mark returned) or "hard" (delete).
	RetentionMode string `json:"retention_mode"`

	// RetentionDays is the age after which an unreturned disc expires.
	RetentionDays int `json:"retention_days"`

	// SweepInterval is the period of the background retention sweep.
	SweepInterval time.Duration `json:"-"`

	// TrustedSubnet restricts admin data routes when non-empty.
	TrustedSubnet string `json:"trusted_subnet"`

	// EnablePprof indicates whether to enable pprof for profiling.
	EnablePprof bool `json:"-"`

	// EnableHTTPS indicates whether to serve TLS via autocert.
	EnableHTTPS bool `json:"enable_https"`

	// Config is the path of the optional JSON configuration file.
	Config string `json:"-"`
}

// options holds the current configuration values.
var options = &Options{}

func init() {
	flag.StringVar(&options.Address, "a", "localhost:8080", "run on ip:port server")
	flag.StringVar(&options.DatabaseDSN, "d", "", "postgres dsn")
	flag.StringVar(&options.SQLiteFile, "f", "", "path to sqlite storage file")
	flag.StringVar(&options.AdminUsername, "u", "admin", "admin username")
	flag.StringVar(&options.AdminPassword, "w", "emerald2024", "admin password")
	flag.StringVar(&options.RetentionMode, "m", "soft", "retention mode: soft or hard")
	flag.IntVar(&options.RetentionDays, "r", 42, "retention threshold in days")
	flag.DurationVar(&options.SweepInterval, "i", time.Hour, "retention sweep interval")
	flag.StringVar(&options.TrustedSubnet, "t", "", "trusted subnet for admin routes")
	flag.BoolVar(&options.EnablePprof, "p", false, "enable pprof")
	flag.BoolVar(&options.EnableHTTPS, "s", false, "enable https")
	flag.StringVar(&options.Config, "c", "", "path to JSON config file")
}

// Parse parses flags, applies the JSON config file to values still at
// their defaults, and finally applies environment-variable overrides.
func Parse() *Options {
	flag.Parse()

	setFlags := map[string]bool{}
	flag.Visit(func(f *flag.Flag) {
		setFlags[f.Name] = true
	})

	if configPath := os.Getenv("CONFIG"); configPath != "" {
		options.Config = configPath
	}
	if options.Config != "" {
		applyFile(options.Config, setFlags)
	}

	if address := os.Getenv("SERVER_ADDRESS"); address != "" {
		options.Address = address
	}
	if dsn := os.Getenv("DATABASE_DSN"); dsn != "" {
		options.DatabaseDSN = dsn
	}
	if sqliteFile := os.Getenv("SQLITE_FILE"); sqliteFile != "" {
		options.SQLiteFile = sqliteFile
	}
	if username := os.Getenv("ADMIN_USERNAME"); username != "" {
		options.AdminUsername = username
	}
	if password := os.Getenv("ADMIN_PASSWORD"); password != "" {
		options.AdminPassword = password
	}
	if mode := os.Getenv("RETENTION_MODE"); mode != "" {
		options.RetentionMode = mode
	}
	if days := os.Getenv("RETENTION_DAYS"); days != "" {
		if n, err := strconv.Atoi(days); err == nil {
			options.RetentionDays = n
		}
	}
	if interval := os.Getenv("SWEEP_INTERVAL"); interval != "" {
		if d, err := time.ParseDuration(interval); err == nil {
			options.SweepInterval = d
		}
	}
	if subnet := os.Getenv("TRUSTED_SUBNET"); subnet != "" {
		options.TrustedSubnet = subnet
	}
	if enableHTTPS := os.Getenv("ENABLE_HTTPS"); enableHTTPS != "" {
		httpsMode, err := strconv.ParseBool(enableHTTPS)
		if err != nil {
			options.EnableHTTPS = false
		}

		options.EnableHTTPS = httpsMode
	}

	return options
}

// applyFile fills values from the JSON config file for fields the caller
// did not set explicitly on the command line.
func applyFile(path string, setFlags map[string]bool) {
	data, err := os.ReadFile(path)
	if err != nil {
		return
	}

	var fileOptions Options
	if err := json.Unmarshal(data, &fileOptions); err != nil {
		return
	}

	if fileOptions.Address != "" && !setFlags["a"] {
		options.Address = fileOptions.Address
	}
	if fileOptions.DatabaseDSN != "" && !setFlags["d"] {
		options.DatabaseDSN = fileOptions.DatabaseDSN
	}
	if fileOptions.SQLiteFile != "" && !setFlags["f"] {
		options.SQLiteFile = fileOptions.SQLiteFile
	}
	if fileOptions.AdminUsername != "" && !setFlags["u"] {
		options.AdminUsername = fileOptions.AdminUsername
	}
	if fileOptions.AdminPassword != "" && !setFlags["w"] {
		options.AdminPassword = fileOptions.AdminPassword
	}
	if fileOptions.RetentionMode != "" && !setFlags["m"] {
		options.RetentionMode = fileOptions.RetentionMode
	}
	if fileOptions.RetentionDays != 0 && !setFlags["r"] {
		options.RetentionDays = fileOptions.RetentionDays
	}
	if fileOptions.TrustedSubnet != "" && !setFlags["t"] {
		options.TrustedSubnet = fileOptions.TrustedSubnet
	}
	if fileOptions.EnableHTTPS && !setFlags["s"] {
		options.EnableHTTPS = true
	}
}
