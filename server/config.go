package main

import (
	"errors"
	"flag"
	"io/fs"
	"os"
	"strings"

	"github.com/joho/godotenv"
)

// Environment variables read by the server. Flags take precedence.
const (
	envAddr   = "MIRROR_ADDR"
	envRoot   = "MIRROR_ROOT"
	envPrefix = "MIRROR_PREFIX"
)

var errNoPrefix = errors.New("prefix must start with /")

func defaultParams() *httpParams {
	return &httpParams{
		address: "localhost:5000",
		prefix:  "/",
		root:    ".",
	}
}

// loadParams resolves the server parameters from the defaults, the env file
// (when present), the process environment and finally the command line.
func loadParams(envFile string, args []string) (*httpParams, error) {
	if envFile != "" {
		if err := godotenv.Load(envFile); err != nil && !errors.Is(err, fs.ErrNotExist) {
			return nil, err
		}
	}
	p := defaultParams()
	if v := os.Getenv(envAddr); v != "" {
		p.address = v
	}
	if v := os.Getenv(envRoot); v != "" {
		p.root = v
	}
	if v := os.Getenv(envPrefix); v != "" {
		p.prefix = v
	}

	fl := flag.NewFlagSet("server", flag.ContinueOnError)
	fl.StringVar(&p.address, "addr", p.address, "listen address")
	fl.StringVar(&p.root, "root", p.root, "directory to serve")
	fl.StringVar(&p.prefix, "prefix", p.prefix, "url prefix")
	if err := fl.Parse(args); err != nil {
		return nil, err
	}
	if !strings.HasPrefix(p.prefix, "/") {
		return nil, errNoPrefix
	}
	return p, nil
}
