// Package config parses command-line flags, with environment fallbacks, for
// the chessduel binaries.
package config

import (
	"errors"
	"flag"
	"fmt"
	"io"
	"net"
	"os"
	"strings"

	"github.com/hailam/chessduel/internal/board"
	"github.com/hailam/chessduel/internal/storage"
)

// ErrInvalidConfig is wrapped by every validation failure.
var ErrInvalidConfig = errors.New("invalid configuration")

// Environment variables consulted when a flag is not given.
const (
	EnvAddr       = "CHESSDUEL_ADDR"
	EnvDataDir    = "CHESSDUEL_DATA_DIR"
	EnvNoStore    = "CHESSDUEL_NO_STORE"
	EnvFEN        = "CHESSDUEL_FEN"
	EnvCPUProfile = "CPUPROFILE"
)

const (
	DefaultListenAddr = ":8080"
	DefaultServerAddr = "127.0.0.1:8080"
)

// Config holds the settings of all three binaries; each parser fills its own subset.
type Config struct {
	// Addr is the listen address for the server and the dial address for the client.
	Addr string
	// DataDir holds the game database. Empty means the platform default.
	DataDir string
	// NoStore disables game recording.
	NoStore bool
	// StartFEN is the starting position. Empty means the standard setup.
	StartFEN string
	// CPUProfile is a file to write a CPU profile to.
	CPUProfile string

	// Local play only. TUI and GUI are exclusive.
	TUI     bool
	GUI     bool
	SVGPath string
	White   string
	Black   string
}

func newFlagSet(name string, out io.Writer) *flag.FlagSet {
	fs := flag.NewFlagSet(name, flag.ContinueOnError)
	if out != nil {
		fs.SetOutput(out)
	}
	return fs
}

func storeFlags(fs *flag.FlagSet, c *Config) {
	fs.StringVar(&c.DataDir, "data-dir", getenv(EnvDataDir, ""), "directory for the game database (default: platform data dir)")
	fs.BoolVar(&c.NoStore, "no-store", getenb(EnvNoStore, false), "do not record games")
	fs.StringVar(&c.StartFEN, "fen", getenv(EnvFEN, ""), "start every game from this FEN position")
	fs.StringVar(&c.CPUProfile, "cpuprofile", getenv(EnvCPUProfile, ""), "write cpu profile to file")
}

// ParseServer parses the match server's flags.
func ParseServer(args []string, out io.Writer) (Config, error) {
	var c Config
	fs := newFlagSet("chess-server", out)
	fs.StringVar(&c.Addr, "addr", getenv(EnvAddr, DefaultListenAddr), "listen address")
	storeFlags(fs, &c)
	if err := fs.Parse(args); err != nil {
		return Config{}, err
	}
	return c, c.validate(true)
}

// ParseClient parses the network client's flags.
func ParseClient(args []string, out io.Writer) (Config, error) {
	var c Config
	fs := newFlagSet("chess-client", out)
	fs.StringVar(&c.Addr, "addr", getenv(EnvAddr, DefaultServerAddr), "server address")
	if err := fs.Parse(args); err != nil {
		return Config{}, err
	}
	return c, c.validate(true)
}

// ParseLocal parses the hot-seat binary's flags.
func ParseLocal(args []string, out io.Writer) (Config, error) {
	var c Config
	fs := newFlagSet("chessduel", out)
	storeFlags(fs, &c)
	fs.BoolVar(&c.TUI, "tui", false, "use the full-screen board instead of the command shell")
	fs.BoolVar(&c.GUI, "gui", false, "play in a window instead of the terminal")
	fs.StringVar(&c.SVGPath, "svg", "", "write the final board to this SVG file")
	fs.StringVar(&c.White, "white", "White", "name of the white player")
	fs.StringVar(&c.Black, "black", "Black", "name of the black player")
	if err := fs.Parse(args); err != nil {
		return Config{}, err
	}
	return c, c.validate(false)
}

func (c Config) validate(needAddr bool) error {
	if c.TUI && c.GUI {
		return fmt.Errorf("%w: -tui and -gui are exclusive", ErrInvalidConfig)
	}
	if needAddr {
		if _, _, err := net.SplitHostPort(c.Addr); err != nil {
			return fmt.Errorf("%w: address %q: %v", ErrInvalidConfig, c.Addr, err)
		}
	}
	if c.StartFEN != "" {
		if _, err := board.NewMatchFromFEN(c.StartFEN); err != nil {
			return fmt.Errorf("%w: %v", ErrInvalidConfig, err)
		}
	}
	return nil
}

// OpenStorage opens the game database, or returns nil when recording is off.
func (c Config) OpenStorage() (*storage.Storage, error) {
	if c.NoStore {
		return nil, nil
	}
	dir, err := storage.DatabaseDir(c.DataDir)
	if err != nil {
		return nil, err
	}
	return storage.Open(dir)
}

func getenv(key, def string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return def
}

func getenb(key string, def bool) bool {
	if v := os.Getenv(key); v != "" {
		switch strings.ToLower(strings.TrimSpace(v)) {
		case "1", "true", "t", "yes", "y", "on":
			return true
		case "0", "false", "f", "no", "n", "off":
			return false
		}
	}
	return def
}
