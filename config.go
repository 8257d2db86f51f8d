package tabula

import (
	"fmt"
	"log/slog"
	"os"
	"slices"
	"strings"

	"github.com/andreyvit/tabula/dict"
	"gopkg.in/yaml.v3"
)

// Config collects the tunables of parsing, dictionaries, sorting and
// persistence, usually loaded from a YAML file:
//
//	parse:
//	  missing: ["", "NA", "-"]
//	  date_format: "02/01/2006"
//	dictionary:
//	  store: mmap
//	  dir: /var/tmp/tabula
//	sort:
//	  parallel_threshold: 100000
//	store:
//	  page_rows: 4096
//	  meta_encoding: json
type Config struct {
	Parse      ParseSection     `yaml:"parse,omitempty"`
	Dictionary DictionaryConfig `yaml:"dictionary,omitempty"`
	Sort       SortConfig       `yaml:"sort,omitempty"`
	Store      StoreConfig      `yaml:"store,omitempty"`
	Verbose    bool             `yaml:"verbose,omitempty"`
}

type ParseSection struct {
	Missing        []string `yaml:"missing,omitempty"`
	DateFormat     string   `yaml:"date_format,omitempty"`
	TimeFormat     string   `yaml:"time_format,omitempty"`
	DateTimeFormat string   `yaml:"datetime_format,omitempty"`
	TrueValues     []string `yaml:"true_values,omitempty"`
	FalseValues    []string `yaml:"false_values,omitempty"`
}

const (
	MemoryDictionary = "memory"
	MmapDictionary   = "mmap"
)

type DictionaryConfig struct {
	// Store is "memory" or "mmap".
	Store     string `yaml:"store,omitempty"`
	Dir       string `yaml:"dir,omitempty"`
	ArenaSize int    `yaml:"arena_size,omitempty"`
}

type SortConfig struct {
	ParallelThreshold int `yaml:"parallel_threshold,omitempty"`
	Workers           int `yaml:"workers,omitempty"`
}

type StoreConfig struct {
	PageRows int `yaml:"page_rows,omitempty"`
	// MetaEncoding is "msgpack" or "json".
	MetaEncoding string `yaml:"meta_encoding,omitempty"`
}

func DefaultConfig() *Config {
	def := DefaultParseOptions()
	return &Config{
		Parse: ParseSection{
			Missing:        def.MissingIndicators,
			DateFormat:     def.DateFormat,
			TimeFormat:     def.TimeFormat,
			DateTimeFormat: def.DateTimeFormat,
			TrueValues:     def.TrueValues,
			FalseValues:    def.FalseValues,
		},
		Dictionary: DictionaryConfig{
			Store:     MemoryDictionary,
			ArenaSize: dict.DefaultArenaSize,
		},
		Sort: SortConfig{
			ParallelThreshold: DefaultParallelSortThreshold,
		},
		Store: StoreConfig{
			PageRows:     DefaultPageRows,
			MetaEncoding: MsgPack.String(),
		},
	}
}

// ParseConfig reads YAML on top of DefaultConfig.
func ParseConfig(data []byte) (*Config, error) {
	cfg := DefaultConfig()
	if err := yaml.Unmarshal(data, cfg); err != nil {
		return nil, fmt.Errorf("parsing tabula config: %w", err)
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

func LoadConfig(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}
	cfg, err := ParseConfig(data)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", path, err)
	}
	return cfg, nil
}

func (c *Config) Validate() error {
	switch strings.ToLower(c.Dictionary.Store) {
	case "", MemoryDictionary, MmapDictionary:
	default:
		return fmt.Errorf("%w: dictionary.store must be %q or %q, got %q", ErrInvalidArgument, MemoryDictionary, MmapDictionary, c.Dictionary.Store)
	}
	if c.Dictionary.ArenaSize < 0 {
		return fmt.Errorf("%w: dictionary.arena_size is negative", ErrInvalidArgument)
	}
	if c.Store.PageRows < 0 {
		return fmt.Errorf("%w: store.page_rows is negative", ErrInvalidArgument)
	}
	if _, err := c.metaEncoding(); err != nil {
		return err
	}
	for _, v := range c.Parse.TrueValues {
		if slices.ContainsFunc(c.Parse.FalseValues, func(f string) bool { return strings.EqualFold(f, v) }) {
			return fmt.Errorf("%w: %q is both a true and a false value", ErrInvalidArgument, v)
		}
	}
	return nil
}

func (c *Config) metaEncoding() (encodingMethod, error) {
	switch strings.ToLower(c.Store.MetaEncoding) {
	case "", "msgpack":
		return MsgPack, nil
	case "json":
		return JSON, nil
	default:
		return 0, fmt.Errorf("%w: store.meta_encoding must be msgpack or json, got %q", ErrInvalidArgument, c.Store.MetaEncoding)
	}
}

func (c *Config) ParseOptions() *ParseOptions {
	return &ParseOptions{
		MissingIndicators: slices.Clone(c.Parse.Missing),
		DateFormat:        c.Parse.DateFormat,
		TimeFormat:        c.Parse.TimeFormat,
		DateTimeFormat:    c.Parse.DateTimeFormat,
		TrueValues:        slices.Clone(c.Parse.TrueValues),
		FalseValues:       slices.Clone(c.Parse.FalseValues),
	}
}

func (c *Config) SortOptions(logger *slog.Logger) SortOptions {
	return SortOptions{
		ParallelThreshold: c.Sort.ParallelThreshold,
		Workers:           c.Sort.Workers,
		Logger:            logger,
		Verbose:           c.Verbose,
	}
}

// StringStoreFactory returns the dictionary store factory selected by
// dictionary.store.
func (c *Config) StringStoreFactory(logger *slog.Logger) StoreFactory {
	if strings.EqualFold(c.Dictionary.Store, MmapDictionary) {
		return MmapStoreFactory(dict.MmapOptions{
			Dir:         c.Dictionary.Dir,
			InitialSize: c.Dictionary.ArenaSize,
			Logger:      logger,
		})
	}
	return memStoreFactory
}

func (c *Config) StoreOptions(logger *slog.Logger) StoreOptions {
	enc, err := c.metaEncoding()
	ensure(err)
	return StoreOptions{
		Logger:         logger,
		Verbose:        c.Verbose,
		PageRows:       c.Store.PageRows,
		MetaEncoding:   enc,
		NewStringStore: c.StringStoreFactory(logger),
	}
}

// NewStringColumn creates an empty category or text column backed by the
// configured dictionary store.
func (c *Config) NewStringColumn(name string, typ ColumnType) (*StringColumn, error) {
	return NewStringColumnWithStore(name, typ, c.StringStoreFactory(nil))
}

// NewColumn is like the package-level NewColumn, but string columns use
// the configured dictionary store.
func (c *Config) NewColumn(typ ColumnType, name string) (Column, error) {
	if typ.IsString() {
		sc, err := c.NewStringColumn(name, typ)
		if err != nil {
			return nil, err
		}
		return sc, nil
	}
	return NewColumn(typ, name)
}
