package commands

import (
	"io"
	"log/slog"
	"os"
	"time"

	"github.com/google/uuid"

	"github.com/akasprzok/pulse/internal/logging"
)

// Context is passed to every command's Run.
type Context struct {
	Timeout   time.Duration
	Logger    *slog.Logger
	SessionID string
	Stdout    io.Writer
	// NewClient builds the Prometheus client; tests replace it.
	NewClient ClientFactory
}

func (c *Context) stdout() io.Writer {
	if c.Stdout == nil {
		return os.Stdout
	}
	return c.Stdout
}

func (c *Context) logger() *slog.Logger {
	if c.Logger == nil {
		return slog.Default()
	}
	return c.Logger
}

type CLI struct {
	Timeout  time.Duration `help:"Timeout for loading samples." default:"60s" env:"PULSE_TIMEOUT"`
	LogLevel string        `name:"log-level" help:"Log level." default:"info" enum:"debug,info,warn,error" env:"PULSE_LOG_LEVEL"`
	LogFile  string        `name:"log-file" help:"Write logs to this file." type:"path" env:"PULSE_LOG_FILE"`

	View        ViewCmd        `cmd:"" help:"Interactive heart-rate chart."`
	Export      ExportCmd      `cmd:"" help:"Render the chart to an SVG, PNG or HTML file."`
	Serve       ServeCmd       `cmd:"" help:"Serve rendered charts over HTTP."`
	Summary     SummaryCmd     `cmd:"" help:"Bar chart of mean BPM per subject."`
	Table       TableCmd       `cmd:"" help:"Show loaded samples as a table, JSON, YAML or CSV."`
	Subjects    SubjectsCmd    `cmd:"" help:"List the subjects available from the source."`
	FormatQuery FormatQueryCmd `cmd:"" help:"Format query."`
}

// interactive reports whether command owns the terminal.
func interactive(command string) bool {
	switch command {
	case "view", "table":
		return true
	}
	return false
}

// NewContext sets up logging for the selected command and returns the run
// context. The closer flushes the log file.
func (c *CLI) NewContext(command string) (*Context, io.Closer, error) {
	logger, closer, err := logging.Init(logging.Options{
		Level:       c.LogLevel,
		File:        c.LogFile,
		Interactive: interactive(command),
	})
	if err != nil {
		return nil, nil, err
	}
	session := uuid.NewString()
	logger = logger.With("session", session)
	logger.Debug("starting", "command", command)
	return &Context{
		Timeout:   c.Timeout,
		Logger:    logger,
		SessionID: session,
	}, closer, nil
}
