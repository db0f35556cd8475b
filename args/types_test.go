package args

import (
	"fmt"
	"strings"
	"time"
)

type Level string

func (Level) Tags() []string { return []string{"debug", "info", "warn"} }

type Command string

func (Command) Tags() []string { return []string{"build", "test", "run"} }

// hostPort implements encoding.TextUnmarshaler.
type hostPort struct {
	Host string
	Port string
}

func (h *hostPort) UnmarshalText(text []byte) error {
	host, port, ok := strings.Cut(string(text), ":")
	if !ok || host == "" || port == "" {
		return fmt.Errorf("expected host:port")
	}
	h.Host, h.Port = host, port
	return nil
}

func (h hostPort) MarshalText() ([]byte, error) {
	return []byte(h.Host + ":" + h.Port), nil
}

type serverOptions struct {
	Verbose  bool          `short:"v" help:"Enable verbose output"`
	Port     uint16        `short:"p" help:"Port to listen on"`
	Name     string        `short:"n"`
	Workers  int8          `short:"w"`
	Ratio    float64       `help:"Sampling ratio"`
	Timeout  time.Duration `short:"t"`
	Level    Level         `short:"l" help:"Log level"`
	Listen   hostPort      `help:"Listen address"`
	MaxConns *int          `help:"Connection limit"`
	Profile  Optional[string]
	Include  Multi[string] `short:"I" cap:"2" help:"Include path"`
	internal string
}

type globalOptions struct {
	Verbose bool   `short:"v"`
	Config  string `short:"c"`
}

func (globalOptions) About() About {
	return About{Name: "tool", Desc: "Does things"}
}

type buildOptions struct {
	Release bool          `short:"r"`
	Target  string        `short:"t"`
	Tags    Multi[string] `cap:"3"`
}

func (buildOptions) About() About {
	return About{Desc: "Compile the project"}
}
