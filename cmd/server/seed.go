package main

import (
	"context"

	"github.com/rs/zerolog"

	"github.com/castlemilk/reclaim/internal/extraction"
	"github.com/castlemilk/reclaim/internal/service"
)

// seed imports a local export directory before the server starts. Failures
// are logged; the server still starts with whatever was imported.
func seed(ctx context.Context, log zerolog.Logger, imports *service.ImportService, domainName, dir string) {
	domain, err := extraction.ParseDomain(domainName)
	if err != nil {
		log.Error().Err(err).Msg("invalid SEED_DOMAIN")
		return
	}
	report, err := imports.ImportDir(ctx, domain, dir)
	if err != nil {
		log.Error().Err(err).Str("dir", dir).Msg("seed import failed")
		return
	}
	log.Info().
		Str("dir", dir).
		Int("files", len(report.Files)).
		Int("added", report.Added).
		Int("duplicates", report.Duplicates).
		Int("failed", report.Failed).
		Msg("seed import finished")
}
