package config

import (
	"bytes"
	_ "embed"
	"fmt"
	"os"

	validator "github.com/go-playground/validator/v10"
	yaml "gopkg.in/yaml.v3"

	"github.com/rupor-github/gencfg"

	"pxrem/rewrite"
)

//go:embed config.yaml.tmpl
var ConfigTmpl []byte

type (
	ConversionConfig struct {
		RootValue           float64             `yaml:"root_value" validate:"ne=0"`
		UnitPrecision       int                 `yaml:"unit_precision" validate:"min=0,max=20"`
		MinPixelValue       float64             `yaml:"min_pixel_value" validate:"gte=0"`
		Unit                string              `yaml:"unit" validate:"omitempty,alpha"`
		PropList            []string            `yaml:"prop_list" validate:"dive,required"`
		SelectorBlackList   []string            `yaml:"selector_black_list"`
		Replace             bool                `yaml:"replace"`
		MediaQuery          bool                `yaml:"media_query"`
		Include             []string            `yaml:"include" validate:"dive,required"`
		Exclude             []string            `yaml:"exclude" validate:"dive,required"`
		TemplateFunctions   []string            `yaml:"template_functions" validate:"dive,required"`
		StyleFactories      []string            `yaml:"style_factories" validate:"dive,required"`
		EnableJSXTransform  bool                `yaml:"enable_jsx_transform"`
		JSXAttributeMapping map[string][]string `yaml:"jsx_attribute_mapping" validate:"dive,keys,required,endkeys,dive,required"`
	}

	ProcessingConfig struct {
		Workers        int      `yaml:"workers" validate:"gte=0"`
		Extensions     []string `yaml:"extensions" validate:"min=1,dive,startswith=."`
		SkipDirs       []string `yaml:"skip_dirs" validate:"dive,required"`
		SourceMaps     bool     `yaml:"write_source_maps"`
		SourceCodePage string   `yaml:"source_codepage"`
	}

	Config struct {
		Version    int              `yaml:"version" validate:"eq=1"`
		Conversion ConversionConfig `yaml:"conversion"`
		Processing ProcessingConfig `yaml:"processing"`
		Logging    LoggingConfig    `yaml:"logging"`
		Reporting  ReporterConfig   `yaml:"reporting"`
	}
)

// Options returns transform options described by configuration.
func (conf *ConversionConfig) Options() rewrite.Options {
	mapping := make(map[string][]string, len(conf.JSXAttributeMapping))
	for k, v := range conf.JSXAttributeMapping {
		mapping[k] = append([]string(nil), v...)
	}
	return rewrite.Options{
		RootValue:           conf.RootValue,
		UnitPrecision:       conf.UnitPrecision,
		MinPixelValue:       conf.MinPixelValue,
		Unit:                conf.Unit,
		PropList:            append([]string(nil), conf.PropList...),
		SelectorBlackList:   append([]string(nil), conf.SelectorBlackList...),
		Replace:             conf.Replace,
		MediaQuery:          conf.MediaQuery,
		Include:             append([]string(nil), conf.Include...),
		Exclude:             append([]string(nil), conf.Exclude...),
		TemplateFunctions:   append([]string(nil), conf.TemplateFunctions...),
		StyleFactories:      append([]string(nil), conf.StyleFactories...),
		EnableJSXTransform:  conf.EnableJSXTransform,
		JSXAttributeMapping: mapping,
	}
}

// checkConversion makes sure transformer could be built from configuration,
// path patterns in particular.
func checkConversion(sl validator.StructLevel) {
	cfg, ok := sl.Current().Interface().(Config)
	if !ok {
		return
	}
	if _, err := rewrite.New(cfg.Conversion.Options(), nil); err != nil {
		sl.ReportError(cfg.Conversion, "Conversion", "conversion", "transformer", err.Error())
	}
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
		if err := gencfg.Sanitize(cfg); err != nil {
			return nil, fmt.Errorf("failed to sanitize configuration: %w", err)
		}
		if err := gencfg.Validate(cfg, gencfg.WithAdditionalChecks(checkConversion)); err != nil {
			return nil, fmt.Errorf("failed to validate configuration: %w", err)
		}
	}
	return cfg, nil
}

// LoadConfiguration expands configuration template to get defaults and
// superimposes values from the file at the given path, if any. Result is
// validated.
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

// Prepare returns expanded configuration template.
func Prepare() ([]byte, error) {
	return gencfg.Process(ConfigTmpl)
}

func Dump(cfg *Config) ([]byte, error) {
	data, err := yaml.Marshal(*cfg)
	if err != nil {
		return nil, fmt.Errorf("failed to marshal config to yaml: %w", err)
	}
	return data, nil
}
