package config

import (
	"bytes"
	_ "embed"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	yaml "gopkg.in/yaml.v3"

	"github.com/rupor-github/gencfg"
)

//go:embed config.yaml.tmpl
var ConfigTmpl []byte

type (
	SourceConfig struct {
		InputDir   string `yaml:"input_dir"`
		RecordsDir string `yaml:"records_dir" validate:"omitempty,excludesall=/\\"`
		PreviewDir string `yaml:"preview_dir"`
	}

	DestinationConfig struct {
		OutputDir string `yaml:"output_dir"`
		Extension string `yaml:"extension" validate:"required,startswith=."`
	}

	AttachmentsConfig struct {
		MimeTypes map[string]string `yaml:"mime_types" validate:"dive,keys,startswith=.,endkeys,required"`
	}

	Config struct {
		Version     int               `yaml:"version" validate:"eq=1"`
		Source      SourceConfig      `yaml:"source"`
		Destination DestinationConfig `yaml:"destination"`
		Attachments AttachmentsConfig `yaml:"attachments"`
		Logging     LoggingConfig     `yaml:"logging"`
		Reporting   ReporterConfig    `yaml:"reporting"`
	}
)

// RecordsPath returns directory where *.xml records are looked for.
func (conf *SourceConfig) RecordsPath() string {
	if len(conf.RecordsDir) == 0 {
		return conf.InputDir
	}
	return filepath.Join(conf.InputDir, conf.RecordsDir)
}

// PreviewPath returns directory with preview images. Unless configured
// explicitly it is "preview" directory next to input root.
func (conf *SourceConfig) PreviewPath() string {
	if len(conf.PreviewDir) > 0 {
		return conf.PreviewDir
	}
	return filepath.Join(conf.InputDir, "..", "preview")
}

// Check makes sure directories necessary for conversion are known. It is
// called after command line had a chance to override configuration.
func (conf *Config) Check() error {
	if len(conf.Source.InputDir) == 0 {
		return fmt.Errorf("input directory is not specified")
	}
	fi, err := os.Stat(conf.Source.InputDir)
	if err != nil {
		return fmt.Errorf("unable to access input directory: %w", err)
	}
	if !fi.IsDir() {
		return fmt.Errorf("input source is not a directory (%s)", conf.Source.InputDir)
	}
	if len(conf.Destination.OutputDir) == 0 {
		return fmt.Errorf("output directory is not specified")
	}
	for ext := range conf.Attachments.MimeTypes {
		if ext != strings.ToLower(ext) {
			return fmt.Errorf("attachment extension must be lower case (%s)", ext)
		}
	}
	return nil
}

func unmarshalConfig(data []byte, cfg *Config, process bool) (*Config, error) {
	// We want to use only fields we defined so we cannot use yaml.Unmarshal
	// directly here
	dec := yaml.NewDecoder(bytes.NewReader(data))
	dec.KnownFields(true)
	if err := dec.Decode(cfg); err != nil {
		return nil, fmt.Errorf("failed to decode configuration data: %w", err)
	}
	if process {
		// sanitize and validate what has been loaded
		if err := gencfg.Sanitize(cfg); err != nil {
			return nil, err
		}
		if err := gencfg.Validate(cfg); err != nil {
			return nil, err
		}
	}
	return cfg, nil
}

// LoadConfiguration reads the configuration from the file at the given path,
// superimposes its values on top of expanded configuration tamplate to provide
// sane defaults and performs validation.
func LoadConfiguration(path string, options ...func(*gencfg.ProcessingOptions)) (*Config, error) {
	haveFile := len(path) > 0

	data, err := gencfg.Process(ConfigTmpl, options...)
	if err != nil {
		return nil, fmt.Errorf("failed to process configuration template: %w", err)
	}
	cfg, err := unmarshalConfig(data, &Config{}, !haveFile)
	if err != nil {
		return nil, fmt.Errorf("failed to process configuration template: %w", err)
	}
	if !haveFile {
		return cfg, nil
	}

	// overwrite cfg values with values from the file
	data, err = os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read config file: %w", err)
	}
	cfg, err = unmarshalConfig(data, cfg, haveFile)
	if err != nil {
		return nil, fmt.Errorf("failed to process configuration file: %w", err)
	}
	return cfg, nil
}

// Prepare generates configuration file from template and returns it as a byte
// slice.
func Prepare() ([]byte, error) {
	return gencfg.Process(ConfigTmpl)
}

func Dump(cfg *Config) ([]byte, error) {
	data, err := yaml.Marshal(*cfg)
	if err != nil {
		return nil, fmt.Errorf("failed to marshal config to yaml: %v", err)
	}
	return data, nil
}
