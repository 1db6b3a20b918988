// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package types

import "time"

// HTTPConfig holds shared HTTP settings used by components that make
// network requests.
type HTTPConfig struct {
	// Timeout is the HTTP request timeout.
	Timeout time.Duration `json:"timeout" yaml:"timeout" mapstructure:"timeout"`

	// UserAgent is the User-Agent header sent with HTTP requests
	// (e.g. "postsmith/0.1").
	UserAgent string `json:"user_agent" yaml:"user_agent" mapstructure:"user_agent"`
}

// OutputFormat selects the document format written to the posts directory.
type OutputFormat string

const (
	OutputHTML     OutputFormat = "html"
	OutputMarkdown OutputFormat = "markdown"
)

// Ext returns the file extension (without the dot) for the format.
func (f OutputFormat) Ext() string {
	if f == OutputMarkdown {
		return "md"
	}
	return "html"
}

// Valid reports whether f is a supported format.
func (f OutputFormat) Valid() bool {
	return f == OutputHTML || f == OutputMarkdown
}

// GenerationConfig holds settings for the generate command.
type GenerationConfig struct {
	// PostsDir is the directory generated posts are written to (e.g. "_posts").
	PostsDir string `json:"posts_dir" yaml:"posts_dir" mapstructure:"posts_dir"`

	// Format selects html or markdown output.
	Format OutputFormat `json:"format" yaml:"format" mapstructure:"format"`

	// Count is the number of articles generated per invocation (default 1).
	Count int `json:"count" yaml:"count" mapstructure:"count"`

	// Category restricts generation to one category. Empty picks at random.
	Category string `json:"category,omitempty" yaml:"category,omitempty" mapstructure:"category"`

	// Seed makes the run reproducible when non-zero.
	Seed uint64 `json:"seed,omitempty" yaml:"seed,omitempty" mapstructure:"seed"`

	// KeepGoing continues a batch after a failed article instead of halting.
	KeepGoing bool `json:"keep_going" yaml:"keep_going" mapstructure:"keep_going"`

	// MaxAttempts bounds filename placement attempts on collision (default 3).
	MaxAttempts int `json:"max_attempts" yaml:"max_attempts" mapstructure:"max_attempts"`

	// Layout is the front matter layout (default "default").
	Layout string `json:"layout" yaml:"layout" mapstructure:"layout"`

	// Author is the fixed front matter author.
	Author string `json:"author" yaml:"author" mapstructure:"author"`

	// Language is the front matter language code (default "en").
	Language string `json:"language" yaml:"language" mapstructure:"language"`

	// ImageURL is an optional featured-image URL pattern with one %d verb.
	ImageURL string `json:"image_url,omitempty" yaml:"image_url,omitempty" mapstructure:"image_url"`
}

// CatalogConfig locates the category/template catalog.
type CatalogConfig struct {
	// Path is a YAML or TOML catalog file. Empty uses the embedded catalog.
	Path string `json:"path,omitempty" yaml:"path,omitempty" mapstructure:"path"`
}

// LedgerConfig holds settings for the generation ledger.
type LedgerConfig struct {
	// Dir is the directory holding ledger.db. Empty disables the ledger.
	Dir string `json:"dir" yaml:"dir" mapstructure:"dir"`
}

// RemoteConfig holds settings for the optional remote text source.
type RemoteConfig struct {
	HTTPConfig `yaml:",inline" mapstructure:",squash"`

	// Endpoint is the URL that returns article bodies. Empty disables the
	// remote source.
	Endpoint string `json:"endpoint,omitempty" yaml:"endpoint,omitempty" mapstructure:"endpoint"`

	// APIKey authenticates against the endpoint.
	APIKey string `json:"api_key,omitempty" yaml:"api_key,omitempty" mapstructure:"api_key"`

	// MaxRetries is the number of retry attempts on HTTP 429 (default 3).
	MaxRetries int `json:"max_retries" yaml:"max_retries" mapstructure:"max_retries"`

	// Required turns a failed remote call into a failed article instead of
	// falling back to the template body.
	Required bool `json:"required" yaml:"required" mapstructure:"required"`
}

// TaxonomyConfig holds settings for taxonomy page generation.
type TaxonomyConfig struct {
	// PostsDir is scanned for posts (.md and .html).
	PostsDir string `json:"posts_dir" yaml:"posts_dir" mapstructure:"posts_dir"`

	// CategoriesDir receives one index page per category.
	CategoriesDir string `json:"categories_dir" yaml:"categories_dir" mapstructure:"categories_dir"`

	// TagsDir receives one index page per tag.
	TagsDir string `json:"tags_dir" yaml:"tags_dir" mapstructure:"tags_dir"`
}

// PipelineConfig groups all configuration sections.
type PipelineConfig struct {
	Generate GenerationConfig `json:"generate" yaml:"generate" mapstructure:"generate"`
	Catalog  CatalogConfig    `json:"catalog" yaml:"catalog" mapstructure:"catalog"`
	Ledger   LedgerConfig     `json:"ledger" yaml:"ledger" mapstructure:"ledger"`
	Remote   RemoteConfig     `json:"remote" yaml:"remote" mapstructure:"remote"`
	Taxonomy TaxonomyConfig   `json:"taxonomy" yaml:"taxonomy" mapstructure:"taxonomy"`
}
