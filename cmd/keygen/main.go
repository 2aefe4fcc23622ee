// AngelaMos | 2026
// main.go

package main

import (
	"flag"
	"log/slog"
	"os"
	"path/filepath"

	"github.com/sivakrishna1252/Bauhaus-Admin/internal/auth"
)

func main() {
	dir := flag.String("dir", "keys", "output directory")
	force := flag.Bool("force", false, "overwrite existing keys")
	flag.Parse()

	privatePath := filepath.Join(*dir, "private.pem")
	publicPath := filepath.Join(*dir, "public.pem")

	if !*force {
		if _, err := os.Stat(privatePath); err == nil {
			slog.Error("private key already exists, pass -force to replace it", "path", privatePath)
			os.Exit(1)
		}
	}

	if err := os.MkdirAll(*dir, 0o700); err != nil {
		slog.Error("create key directory", "error", err)
		os.Exit(1)
	}

	if err := auth.GenerateKeyPair(privatePath, publicPath); err != nil {
		slog.Error("generate key pair", "error", err)
		os.Exit(1)
	}

	slog.Info("ES256 key pair written", "private", privatePath, "public", publicPath)
}
