package main

import (
	"bufio"
	"context"
	"flag"
	"fmt"
	"io"
	"log"
	"os"
	"strings"

	tea "github.com/charmbracelet/bubbletea"
	"go.uber.org/zap"

	"github.com/jask/practicum/internal/center"
	"github.com/jask/practicum/internal/config"
	"github.com/jask/practicum/internal/database"
	"github.com/jask/practicum/internal/delivery"
	"github.com/jask/practicum/internal/logging"
	"github.com/jask/practicum/internal/secrets"
	"github.com/jask/practicum/internal/session"
	"github.com/jask/practicum/internal/tui"
)

func main() {
	configPath := flag.String("config", "", "config file (overrides PRACTICUM_CONFIG)")
	writeConfig := flag.Bool("write-config", false, "write a starter config file and exit")
	setToken := flag.Bool("set-token", false, "read the remote sink credentials from stdin and store them")
	flag.Parse()

	if *configPath != "" {
		os.Setenv("PRACTICUM_CONFIG", *configPath)
	}

	if *writeConfig {
		if err := config.Save(config.Default()); err != nil {
			log.Fatalf("write config: %v", err)
		}
		fmt.Println(config.Path())
		return
	}

	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("config: %v", err)
	}

	if *setToken {
		if err := storeToken(cfg, os.Stdin, secrets.Default); err != nil {
			log.Fatalf("set token: %v", err)
		}
		return
	}

	logger, closeLog, err := logging.New(cfg.Log.Path, cfg.Log.Level)
	if err != nil {
		log.Fatalf("logging: %v", err)
	}
	defer closeLog()

	if err := run(context.Background(), cfg, logger); err != nil {
		logger.Error("exit", zap.Error(err))
		_ = closeLog()
		fmt.Fprintf(os.Stderr, "error: %v\n", err)
		os.Exit(1)
	}
}

func run(ctx context.Context, cfg config.Config, logger *zap.Logger) error {
	ds, err := loadDataset(ctx, cfg.Dataset)
	if err != nil {
		return fmt.Errorf("dataset: %w", err)
	}
	logger.Info("dataset loaded", zap.String("source", cfg.Dataset.Source), zap.Int("centers", ds.Len()))

	remote, err := buildSink(ctx, cfg.Delivery, secrets.Default)
	if err != nil {
		return fmt.Errorf("delivery: %w", err)
	}
	coord := delivery.NewCoordinator(remote, delivery.LocalSaver{Dir: cfg.Export.OutputDir}, logger)

	sess, err := session.New(ds, session.Options{
		MaxSize:            cfg.Selection.MaxSize,
		Schema:             cfg.Export.Schema,
		Title:              cfg.Export.Title,
		LockWhileUploading: cfg.UI.LockWhileUploading,
	})
	if err != nil {
		return err
	}

	p := tea.NewProgram(tui.New(ctx, sess, coord, logger), tea.WithAltScreen())
	_, err = p.Run()
	return err
}

func loadDataset(ctx context.Context, cfg config.DatasetConfig) (*center.Dataset, error) {
	switch cfg.Source {
	case config.SourceFile:
		return center.LoadFile(cfg.Path)
	case config.SourceCatalog:
		seed, err := center.Builtin()
		if err != nil {
			return nil, err
		}
		return database.LoadCatalog(ctx, cfg.CatalogPath, seed.All())
	default:
		return center.Builtin()
	}
}

// Secret names for the S3 keys in the secrets store.
const (
	s3AccessKeySecret = "s3-access-key"
	s3SecretKeySecret = "s3-secret-key"
)

// buildSink returns nil when no remote is configured.
func buildSink(ctx context.Context, cfg config.DeliveryConfig, store func() (secrets.Store, error)) (delivery.Sink, error) {
	switch cfg.Remote {
	case config.RemoteScript:
		token, err := resolveSecret(cfg.TokenEnv, cfg.Remote, store)
		if err != nil {
			return nil, err
		}
		sink, err := delivery.NewScriptSink(cfg.ScriptURL, token, cfg.Timeout)
		if err != nil {
			return nil, err
		}
		return sink, nil
	case config.RemoteS3:
		accessKey, err := resolveSecret(cfg.S3.AccessKeyEnv, s3AccessKeySecret, store)
		if err != nil {
			return nil, err
		}
		secretKey, err := resolveSecret(cfg.S3.SecretKeyEnv, s3SecretKeySecret, store)
		if err != nil {
			return nil, err
		}
		if (accessKey == "") != (secretKey == "") {
			return nil, fmt.Errorf("s3: access key and secret key must be set together")
		}
		sink, err := delivery.NewS3Sink(ctx, delivery.S3Config{
			Bucket:          cfg.S3.Bucket,
			Region:          cfg.S3.Region,
			Endpoint:        cfg.S3.Endpoint,
			Prefix:          cfg.S3.Prefix,
			PathStyle:       cfg.S3.PathStyle,
			AccessKeyID:     accessKey,
			SecretAccessKey: secretKey,
		})
		if err != nil {
			return nil, err
		}
		return sink, nil
	default:
		return nil, nil
	}
}

// resolveSecret reads envName first and falls back to the named entry in the
// secrets store. A store that cannot be opened leaves only the env var.
func resolveSecret(envName, name string, store func() (secrets.Store, error)) (string, error) {
	s, err := store()
	if err != nil {
		if v := strings.TrimSpace(os.Getenv(envName)); envName != "" && v != "" {
			return v, nil
		}
		return "", nil
	}
	return s.Resolve(envName, name)
}

// storeToken reads one line per secret the configured remote needs: the
// token for script, the access key then the secret key for s3.
func storeToken(cfg config.Config, in io.Reader, store func() (secrets.Store, error)) error {
	var names []string
	switch cfg.Delivery.Remote {
	case config.RemoteScript:
		names = []string{config.RemoteScript}
	case config.RemoteS3:
		names = []string{s3AccessKeySecret, s3SecretKeySecret}
	default:
		return fmt.Errorf("delivery.remote is %q; nothing to store a token for", cfg.Delivery.Remote)
	}
	s, err := store()
	if err != nil {
		return err
	}
	r := bufio.NewReader(in)
	for _, name := range names {
		line, err := r.ReadString('\n')
		if err != nil && line == "" {
			return fmt.Errorf("read %s: %w", name, err)
		}
		if err := s.Put(name, strings.TrimSpace(line)); err != nil {
			return err
		}
	}
	return nil
}
