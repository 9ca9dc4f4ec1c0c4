package main

import (
	"log/slog"
	"net/http"
	"os"
	"path/filepath"
	"strings"
)

// httpParams stores the http connection parameters
type httpParams struct {
	address string
	prefix  string
	root    string
}

func main() {
	log := slog.New(slog.NewTextHandler(os.Stderr, nil))

	p, err := loadParams(".env", os.Args[1:])
	if err != nil {
		log.Error("invalid server configuration", "error", err)
		os.Exit(2)
	}
	if err := initServer(p, log); err != nil {
		log.Error("server stopped", "error", err)
		os.Exit(1)
	}
}

// initServer serves the page, the wasm binary and the brush assets.
func initServer(p *httpParams, log *slog.Logger) error {
	handler, err := newHandler(p, log)
	if err != nil {
		return err
	}
	log.Info("serving", "root", p.root, "prefix", p.prefix, "address", p.address)

	httpServer := http.Server{
		Addr:    p.address,
		Handler: handler,
	}
	return httpServer.ListenAndServe()
}

func newHandler(p *httpParams, log *slog.Logger) (http.Handler, error) {
	root, err := filepath.Abs(p.root)
	if err != nil {
		return nil, err
	}
	p.root = root

	mux := http.NewServeMux()
	mux.Handle(p.prefix, http.StripPrefix(p.prefix, http.FileServer(http.Dir(p.root))))

	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		log.Debug("request", "remote", r.RemoteAddr, "method", r.Method, "url", r.URL.String())
		// Older servers guess the type of .wasm files wrong and browsers
		// refuse to stream-compile them.
		if strings.HasSuffix(r.URL.Path, ".wasm") {
			w.Header().Set("Content-Type", "application/wasm")
		}
		mux.ServeHTTP(w, r)
	}), nil
}
