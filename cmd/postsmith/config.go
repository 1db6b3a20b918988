// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package main

import (
	"fmt"
	"os"

	"github.com/spf13/pflag"
	"github.com/spf13/viper"

	"github.com/pdiddy/postsmith/internal/frontmatter"
	"github.com/pdiddy/postsmith/internal/generator"
	"github.com/pdiddy/postsmith/internal/httputil"
	"github.com/pdiddy/postsmith/internal/ledger"
	"github.com/pdiddy/postsmith/internal/logging"
	"github.com/pdiddy/postsmith/internal/writer"
	"github.com/pdiddy/postsmith/pkg/types"
)

// defaultStateDir holds the run log and, unless configured otherwise, the
// ledger database.
const defaultStateDir = ".postsmith"

func setDefaults() {
	viper.SetDefault("state_dir", defaultStateDir)

	viper.SetDefault("generate.posts_dir", generator.DefaultPostsDir)
	viper.SetDefault("generate.format", string(types.OutputHTML))
	viper.SetDefault("generate.count", 1)
	viper.SetDefault("generate.max_attempts", writer.DefaultMaxAttempts)
	viper.SetDefault("generate.layout", frontmatter.DefaultLayout)
	viper.SetDefault("generate.author", frontmatter.DefaultAuthor)
	viper.SetDefault("generate.language", frontmatter.DefaultLanguage)

	viper.SetDefault("ledger.dir", defaultStateDir)

	viper.SetDefault("remote.timeout", httputil.DefaultTimeout)
	viper.SetDefault("remote.user_agent", "postsmith/"+version)
	viper.SetDefault("remote.max_retries", 3)

	viper.SetDefault("taxonomy.posts_dir", generator.DefaultPostsDir)
	viper.SetDefault("taxonomy.categories_dir", "categories")
	viper.SetDefault("taxonomy.tags_dir", "tags")
}

// bindFlag ties a flag to a config key so the flag wins when it is set.
func bindFlag(key string, f *pflag.Flag) {
	if err := viper.BindPFlag(key, f); err != nil {
		panic(fmt.Sprintf("binding flag %s: %v", f.Name, err))
	}
}

// pipelineConfig decodes the merged file, environment and flag settings.
func pipelineConfig() (types.PipelineConfig, error) {
	var cfg types.PipelineConfig
	if err := viper.Unmarshal(&cfg); err != nil {
		return cfg, fmt.Errorf("decoding configuration: %w", err)
	}
	return cfg, nil
}

// openLogger opens the run log in the state directory. A logger that
// cannot be opened is reported and replaced by a nil (no-op) logger.
func openLogger() *logging.Logger {
	l, err := logging.New(viper.GetString("state_dir"))
	if err != nil {
		fmt.Fprintf(os.Stderr, "warning: run log disabled: %v\n", err)
		return nil
	}
	return l
}

// openLedger opens the ledger, or returns nil when it is disabled.
func openLedger(cfg types.LedgerConfig) (*ledger.Store, error) {
	if cfg.Dir == "" {
		return nil, nil
	}
	return ledger.Open(cfg.Dir)
}
