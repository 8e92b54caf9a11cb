package config

import (
	"flag"
	"fmt"
	"io"
	"os"
	"strconv"
	"time"

	"github.com/pkg/errors"
)

// EnvPrefix prefixes environment overrides, e.g. FILESERVER_PORT
const EnvPrefix = "FILESERVER"

// Config holds all application configuration.
type Config struct {
	Port         int           `config:"port"`
	Root         string        `config:"root"`
	MaxThreads   int           `config:"max.threads"`
	ServerName   string        `config:"server.name"`
	ReadTimeout  time.Duration `config:"read.timeout"`
	WriteTimeout time.Duration `config:"write.timeout"`
	ReusePort    bool          `config:"reuse.port"`
	KeepAlive    time.Duration `config:"keep.alive"`
	Env          string        `config:"env"`
	LogLevel     string        `config:"log.level"`
	StdinStop    bool          `config:"stdin.stop"`

	ConfigFile string `config:"-"`
}

// Default returns the built-in configuration
func Default() *Config {
	return &Config{
		Port:       8080,
		Root:       ".",
		MaxThreads: 10,
		ServerName: "FileServer",
		Env:        "development",
		LogLevel:   "info",
	}
}

// ErrUsage is returned when the command line cannot be understood
var ErrUsage = errors.New("invalid usage")

// Load builds the configuration from, in increasing priority: defaults,
// the JSON file named by -config, FILESERVER_* environment variables,
// flags, and the positional form PORT WEB_SERVER_ROOT [MAX_THREADS].
func Load(args []string) (*Config, error) {
	cfg := Default()
	fs := newFlagSet(cfg, io.Discard)

	if err := fs.Parse(args); err != nil {
		return nil, errors.Wrap(ErrUsage, err.Error())
	}

	m := NewManager()
	if cfg.ConfigFile != "" {
		if err := m.LoadFromJSON(cfg.ConfigFile); err != nil {
			return nil, err
		}
	}
	m.LoadFromEnv(EnvPrefix)

	if err := m.Unmarshal("", cfg); err != nil {
		return nil, err
	}

	// flags win over file and environment
	if err := fs.Parse(args); err != nil {
		return nil, errors.Wrap(ErrUsage, err.Error())
	}

	if err := cfg.applyPositional(fs.Args()); err != nil {
		return nil, err
	}

	return cfg, cfg.Validate()
}

func newFlagSet(cfg *Config, output io.Writer) *flag.FlagSet {
	fs := flag.NewFlagSet("fileserver", flag.ContinueOnError)
	fs.SetOutput(output)

	fs.IntVar(&cfg.Port, "port", cfg.Port, "HTTP server port")
	fs.StringVar(&cfg.Root, "root", cfg.Root, "Directory to serve files from")
	fs.IntVar(&cfg.MaxThreads, "max-threads", cfg.MaxThreads, "Maximum number of connections handled at once")
	fs.StringVar(&cfg.ServerName, "server-name", cfg.ServerName, "Value of the Server response header")
	fs.DurationVar(&cfg.ReadTimeout, "read-timeout", cfg.ReadTimeout, "Per-connection read deadline (0 disables)")
	fs.DurationVar(&cfg.WriteTimeout, "write-timeout", cfg.WriteTimeout, "Per-connection write deadline (0 disables)")
	fs.BoolVar(&cfg.ReusePort, "reuse-port", cfg.ReusePort, "Set SO_REUSEPORT on the listening socket")
	fs.DurationVar(&cfg.KeepAlive, "keep-alive", cfg.KeepAlive, "TCP keep-alive period of accepted connections (0 uses the Go default, negative disables)")
	fs.StringVar(&cfg.Env, "env", cfg.Env, "Environment (development/production)")
	fs.StringVar(&cfg.LogLevel, "log-level", cfg.LogLevel, "Log level (debug/info/warn/error)")
	fs.BoolVar(&cfg.StdinStop, "stdin-stop", cfg.StdinStop, "Stop the server when Enter is pressed")
	fs.StringVar(&cfg.ConfigFile, "config", cfg.ConfigFile, "JSON configuration file")

	return fs
}

func (c *Config) applyPositional(args []string) error {
	if len(args) == 0 {
		return nil
	}
	if len(args) < 2 || len(args) > 3 {
		return errors.Wrapf(ErrUsage, "expected PORT WEB_SERVER_ROOT [MAX_THREADS], got %d arguments", len(args))
	}

	port, err := strconv.Atoi(args[0])
	if err != nil {
		return errors.Wrap(ErrUsage, "PORT and MAX_THREADS must be valid integers")
	}
	c.Port = port
	c.Root = args[1]

	if len(args) == 3 {
		threads, err := strconv.Atoi(args[2])
		if err != nil {
			return errors.Wrap(ErrUsage, "PORT and MAX_THREADS must be valid integers")
		}
		c.MaxThreads = threads
	}

	return nil
}

// Validate checks that the configuration can start a server
func (c *Config) Validate() error {
	if c.Port < 0 || c.Port > 65535 {
		return errors.Wrapf(ErrUsage, "port %d out of range", c.Port)
	}
	if c.MaxThreads <= 0 {
		return errors.Wrapf(ErrUsage, "max threads must be positive, got %d", c.MaxThreads)
	}

	info, err := os.Stat(c.Root)
	if err != nil || !info.IsDir() {
		return errors.Wrap(ErrUsage, "the web server root must exist and must be a directory")
	}

	return nil
}

// Addr returns the listen address
func (c *Config) Addr() string {
	return fmt.Sprintf(":%d", c.Port)
}

// Usage writes the command synopsis and flag defaults to w
func Usage(w io.Writer) {
	fmt.Fprintln(w, "SYNOPSIS")
	fmt.Fprintln(w, "  fileserver [flags] PORT WEB_SERVER_ROOT [MAX_THREADS]")
	fmt.Fprintln(w, "  fileserver [flags]")
	fmt.Fprintln(w)
	fmt.Fprintln(w, "DESCRIPTION")
	fmt.Fprintln(w, "  Serves files from WEB_SERVER_ROOT over HTTP/1.x (GET and HEAD only).")
	fmt.Fprintln(w)
	fmt.Fprintln(w, "FLAGS")

	fs := newFlagSet(Default(), w)
	fs.PrintDefaults()
}
