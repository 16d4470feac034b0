package main

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"os/signal"
	"strings"
	"syscall"
	"text/tabwriter"
	"time"

	"github.com/poiesic/heritage"
	"github.com/poiesic/heritage/api"
	"github.com/poiesic/heritage/config"
	"github.com/poiesic/heritage/core"
	"github.com/poiesic/heritage/seed"
	"github.com/poiesic/heritage/storage"
	"github.com/poiesic/heritage/storage/badger"
	"github.com/urfave/cli/v2"
)

var errCatalogPathRequired = errors.New("catalog path is required (--catalog or [catalog] path)")

func openService(c *cli.Context) (*heritage.Service, *config.Config, error) {
	cfg, err := loadConfig(c)
	if err != nil {
		return nil, nil, fmt.Errorf("failed to load configuration: %w", err)
	}
	svc, err := heritage.NewService(c.Context, cfg)
	if err != nil {
		return nil, nil, fmt.Errorf("failed to start service: %w", err)
	}
	return svc, cfg, nil
}

func searchCommand(c *cli.Context) error {
	query := strings.Join(c.Args().Slice(), " ")
	if query == "" {
		return fmt.Errorf("query is required")
	}

	svc, _, err := openService(c)
	if err != nil {
		return err
	}
	defer svc.Close()

	outcome := svc.Resolve(c.Context, query)
	out := c.App.Writer

	if c.Bool("json") {
		enc := json.NewEncoder(out)
		enc.SetIndent("", "  ")
		return enc.Encode(outcome)
	}

	if outcome.Audit != nil {
		fmt.Fprintf(out, "Method: %s", outcome.Audit.Method)
		if outcome.Audit.Model != "" {
			fmt.Fprintf(out, " (model %s)", outcome.Audit.Model)
		}
		fmt.Fprintln(out)
	}
	fmt.Fprintf(out, "Found %d hits\n", len(outcome.Results))
	for i, ref := range outcome.Results {
		title := ""
		if artifact, err := svc.Artifacts().GetArtifact(c.Context, ref.ID); err == nil {
			title = artifact.Title
		}
		fmt.Fprintf(out, "%d: %d %q [%0.3f]\n", i, ref.ID, title, ref.Confidence)
	}
	return nil
}

func statusCommand(c *cli.Context) error {
	svc, _, err := openService(c)
	if err != nil {
		return err
	}
	defer svc.Close()

	enc := json.NewEncoder(c.App.Writer)
	enc.SetIndent("", "  ")
	return enc.Encode(svc.Status(c.Context))
}

func serveCommand(c *cli.Context) error {
	svc, cfg, err := openService(c)
	if err != nil {
		return err
	}
	defer svc.Close()

	ctx, stop := signal.NotifyContext(c.Context, os.Interrupt, syscall.SIGTERM)
	defer stop()

	handler := api.NewHandler(svc, svc, api.WithTimeout(time.Duration(cfg.Server.SearchTimeout)))
	if err := api.ListenAndServe(ctx, cfg.Server.Addr, handler); err != nil {
		return fmt.Errorf("server failed: %w", err)
	}
	return nil
}

func seedCommand(c *cli.Context) error {
	svc, cfg, err := openService(c)
	if err != nil {
		return err
	}
	defer svc.Close()

	seeder, err := svc.NewSeeder(seed.WithProgress(c.App.ErrWriter))
	if err != nil {
		return fmt.Errorf("failed to create seeder: %w", err)
	}

	ctx, stop := signal.NotifyContext(c.Context, os.Interrupt, syscall.SIGTERM)
	defer stop()

	fmt.Fprintf(c.App.ErrWriter, "Vector store: %s\n", cfg.Store.URL)
	fmt.Fprintf(c.App.ErrWriter, "Collection: %s\n", cfg.VectorStore().Collection)
	fmt.Fprintf(c.App.ErrWriter, "Embedding provider: %s\n", svc.Status(ctx).Provider)
	fmt.Fprintln(c.App.ErrWriter)

	report, err := seeder.Run(ctx)
	if err != nil {
		return fmt.Errorf("seeding failed: %w", err)
	}
	fmt.Fprintf(c.App.Writer, "total=%d embedded=%d removed=%d recreated=%t model=%s dimension=%d\n",
		report.Total, report.Embedded, report.Removed, report.Recreated, report.Model, report.Dimension)
	return nil
}

// withCatalog opens the persistent catalog named by configuration.
func withCatalog(c *cli.Context, fn func(ctx context.Context, repo storage.ArtifactRepository) error) error {
	cfg, err := loadConfig(c)
	if err != nil {
		return fmt.Errorf("failed to load configuration: %w", err)
	}
	if cfg.Catalog.Path == "" {
		return errCatalogPathRequired
	}

	backend, err := badger.OpenBackend(cfg.Catalog.Path, false)
	if err != nil {
		return fmt.Errorf("failed to open catalog: %w", err)
	}
	defer backend.Close()

	repo, err := badger.NewArtifactRepository(backend)
	if err != nil {
		return fmt.Errorf("failed to create repository: %w", err)
	}
	defer repo.Close()

	return fn(c.Context, repo)
}

func catalogInitCommand(c *cli.Context) error {
	return withCatalog(c, func(ctx context.Context, repo storage.ArtifactRepository) error {
		added, err := repo.AddArtifacts(ctx, core.SeedArtifacts()...)
		if err != nil {
			return fmt.Errorf("failed to write artifacts: %w", err)
		}
		fmt.Fprintf(c.App.Writer, "Wrote %d artifacts\n", len(added))
		return nil
	})
}

func catalogImportCommand(c *cli.Context) error {
	path := c.Args().First()
	if path == "" {
		return fmt.Errorf("import file is required")
	}

	data, err := os.ReadFile(path)
	if err != nil {
		return fmt.Errorf("failed to read %s: %w", path, err)
	}
	var artifacts []*core.Artifact
	if err := json.Unmarshal(data, &artifacts); err != nil {
		return fmt.Errorf("failed to parse %s: %w", path, err)
	}

	return withCatalog(c, func(ctx context.Context, repo storage.ArtifactRepository) error {
		added, err := repo.AddArtifacts(ctx, artifacts...)
		if err != nil {
			return fmt.Errorf("failed to import artifacts: %w", err)
		}
		fmt.Fprintf(c.App.Writer, "Imported %d artifacts\n", len(added))
		return nil
	})
}

func catalogListCommand(c *cli.Context) error {
	return withCatalog(c, func(ctx context.Context, repo storage.ArtifactRepository) error {
		artifacts, err := repo.ListArtifacts(ctx)
		if err != nil {
			return fmt.Errorf("failed to list artifacts: %w", err)
		}

		w := tabwriter.NewWriter(c.App.Writer, 0, 4, 2, ' ', 0)
		fmt.Fprintln(w, "ID\tTITLE\tLANGUAGE\tUPDATED")
		for _, a := range artifacts {
			fmt.Fprintf(w, "%d\t%s\t%s\t%s\n", a.ID, a.Title, a.Language, formatTime(a.UpdatedAt))
		}
		return w.Flush()
	})
}
