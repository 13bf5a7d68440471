package cmd

import (
	"context"
	"fmt"
	"os"
	"time"

	"phihelper/pkg/config"
	"phihelper/pkg/enumerate"
	"phihelper/pkg/ignore"
	"phihelper/pkg/llm"
	"phihelper/pkg/pack"
	"phihelper/pkg/prompt"
	"phihelper/pkg/tokens"

	"go.uber.org/zap"
)

// session is a loaded config plus a ready API client.
type session struct {
	cfg    config.Config
	client llm.Client
}

// open loads the config and builds the API client. Both failures are config errors.
func (a *app) open() (*session, error) {
	path := a.configPath
	if path == "" {
		var err error
		if path, err = config.DefaultPath(); err != nil {
			return nil, err
		}
	}

	cfg, err := config.Ensure(path, a.logger)
	if err != nil {
		return nil, err
	}
	client, err := a.newClient(cfg, a.logger)
	if err != nil {
		return nil, err
	}
	return &session{cfg: cfg, client: client}, nil
}

// repoRoot picks the repository root: the flag, then repository_path, then the working directory.
func repoRoot(flag string, cfg config.Config) string {
	if flag != "" {
		return flag
	}
	if cfg.RepositoryPath != "" {
		return cfg.RepositoryPath
	}
	if wd, err := os.Getwd(); err == nil {
		return wd
	}
	return "."
}

// listFiles lists the candidate files under root.
func (a *app) listFiles(ctx context.Context, root, filter string, excludes []string) []string {
	matcher, err := ignore.Load(root, a.logger)
	if err != nil {
		a.logger.Warn("Failed to load ignore file", zap.String("root", root), zap.Error(err))
	}

	rules := enumerate.DefaultRules().Merge(enumerate.ParseRules(excludes))
	return enumerate.New(a.lister, a.logger).Files(ctx, enumerate.Options{
		Root:   root,
		Rules:  rules,
		Ignore: matcher,
		Filter: filter,
	})
}

// ask packs files (relative to base), builds the prompt and returns the model's answer
// or the inline error text.
func (a *app) ask(ctx context.Context, s *session, base string, files []string, query string, budget int) string {
	packed := pack.New(base, budget, a.logger).Pack(files)
	user := prompt.User(query, packed)

	if ce := a.logger.Check(zap.DebugLevel, "Estimated prompt size"); ce != nil {
		counter := a.tokenCounter(ctx)
		ce.Write(
			zap.Int("files", len(packed.Entries)),
			zap.Int("packedChars", packed.Total),
			zap.Int("tokens", counter.Count(prompt.System)+counter.Count(user)),
			zap.Bool("exactTokens", counter.Exact()))
	}

	ctx, cancel := context.WithTimeout(ctx, a.timeout)
	defer cancel()
	return llm.Ask(ctx, s.client, llm.NewRequest(s.cfg, prompt.System, user), a.logger)
}

// tokenLoadTimeout bounds fetching the BPE encoding under --debug.
const tokenLoadTimeout = 10 * time.Second

func (a *app) tokenCounter(ctx context.Context) *tokens.Counter {
	if a.counter == nil {
		ctx, cancel := context.WithTimeout(ctx, tokenLoadTimeout)
		defer cancel()
		counter, err := tokens.NewCounterContext(ctx)
		if err != nil {
			a.logger.Debug("Falling back to character based token estimate", zap.Error(err))
		}
		a.counter = counter
	}
	return a.counter
}

// writeResult overwrites path with result.
func writeResult(path, result string, logger *zap.Logger) error {
	if err := os.WriteFile(path, []byte(result), 0o644); err != nil {
		logger.Error("Failed to write file", zap.String("path", path), zap.Error(err))
		return fmt.Errorf("failed to write %s: %w", path, err)
	}
	logger.Debug("Successfully wrote file", zap.String("path", path))
	return nil
}
