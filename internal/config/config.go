package config

import (
	"fmt"
	"os"
	"time"

	"gopkg.in/ini.v1"

	"github.com/krisfkt/PaddleOCR-Tools/internal/telemetry"
)

const DefaultFile = "ocrproc.ini"

// Config is the full configuration value for one run. It is never mutated
// after Load; command-line overrides go through the With* methods, which
// return a copy.
type Config struct {
	// [OCR]
	Lang        string
	UseAngleCls bool
	UseGPU      bool
	ShowLog     bool
	ServerURL   string

	// [PROCESSING]
	ConfidenceThreshold float64
	DefaultOutputFormat string
	Timeout             time.Duration

	// [OUTPUT]
	OutputFolder   string
	IncludeStats   bool
	SaveRawResults bool
	SimpleOutput   bool
	PDFFont        string
}

func Default() Config {
	return Config{
		Lang:                "ch",
		UseAngleCls:         true,
		UseGPU:              false,
		ShowLog:             false,
		ServerURL:           "http://127.0.0.1:8089",
		ConfidenceThreshold: 0.5,
		DefaultOutputFormat: "txt",
		Timeout:             2 * time.Minute,
		OutputFolder:        "./output",
		IncludeStats:        true,
		SaveRawResults:      false,
		SimpleOutput:        false,
		PDFFont:             "",
	}
}

// Load reads path, creating it with defaults when absent. A malformed file
// is logged and recovered to the in-memory defaults; Load never fails the
// run over configuration.
func Load(path string) Config {
	if path == "" {
		path = DefaultFile
	}
	def := Default()

	if _, err := os.Stat(path); os.IsNotExist(err) {
		if err := Save(def, path); err != nil {
			telemetry.L().Warn().Err(err).Str("path", path).Msg("could not create default config file")
		} else {
			telemetry.L().Info().Str("path", path).Msg("created default config file")
		}
		return def
	}

	f, err := ini.Load(path)
	if err != nil {
		telemetry.L().Warn().Err(err).Str("path", path).Msg("config file unreadable, using defaults")
		return def
	}

	ocr := f.Section("OCR")
	proc := f.Section("PROCESSING")
	out := f.Section("OUTPUT")

	cfg := Config{
		Lang:                NormalizeLang(ocr.Key("lang").MustString(def.Lang)),
		UseAngleCls:         ocr.Key("use_angle_cls").MustBool(def.UseAngleCls),
		UseGPU:              ocr.Key("use_gpu").MustBool(def.UseGPU),
		ShowLog:             ocr.Key("show_log").MustBool(def.ShowLog),
		ServerURL:           ocr.Key("server_url").MustString(def.ServerURL),
		ConfidenceThreshold: proc.Key("confidence_threshold").MustFloat64(def.ConfidenceThreshold),
		DefaultOutputFormat: normalizeFormat(proc.Key("default_output_format").MustString(def.DefaultOutputFormat)),
		Timeout:             proc.Key("timeout").MustDuration(def.Timeout),
		OutputFolder:        out.Key("output_folder").MustString(def.OutputFolder),
		IncludeStats:        out.Key("include_stats").MustBool(def.IncludeStats),
		SaveRawResults:      out.Key("save_raw_results").MustBool(def.SaveRawResults),
		SimpleOutput:        out.Key("simple_output").MustBool(def.SimpleOutput),
		PDFFont:             out.Key("pdf_font").MustString(def.PDFFont),
	}
	return cfg
}

// Save writes cfg to path in the sectioned layout Load reads back.
func Save(cfg Config, path string) error {
	f := ini.Empty()

	ocr := f.Section("OCR")
	ocr.Key("lang").SetValue(cfg.Lang)
	ocr.Key("use_angle_cls").SetValue(fmt.Sprintf("%t", cfg.UseAngleCls))
	ocr.Key("use_gpu").SetValue(fmt.Sprintf("%t", cfg.UseGPU))
	ocr.Key("show_log").SetValue(fmt.Sprintf("%t", cfg.ShowLog))
	ocr.Key("server_url").SetValue(cfg.ServerURL)

	proc := f.Section("PROCESSING")
	proc.Key("confidence_threshold").SetValue(fmt.Sprintf("%g", cfg.ConfidenceThreshold))
	proc.Key("default_output_format").SetValue(cfg.DefaultOutputFormat)
	proc.Key("timeout").SetValue(cfg.Timeout.String())

	out := f.Section("OUTPUT")
	out.Key("output_folder").SetValue(cfg.OutputFolder)
	out.Key("include_stats").SetValue(fmt.Sprintf("%t", cfg.IncludeStats))
	out.Key("save_raw_results").SetValue(fmt.Sprintf("%t", cfg.SaveRawResults))
	out.Key("simple_output").SetValue(fmt.Sprintf("%t", cfg.SimpleOutput))
	out.Key("pdf_font").SetValue(cfg.PDFFont)

	return f.SaveTo(path)
}

// NormalizeLang maps the accepted language spellings onto the three engine
// selectors. Unknown values fall back to simplified Chinese.
func NormalizeLang(lang string) string {
	switch lang {
	case "ch", "en":
		return lang
	case "chinese_cht", "chinese_traditional", "cht":
		return "chinese_cht"
	default:
		telemetry.L().Warn().Str("lang", lang).Msg("unknown language, falling back to ch")
		return "ch"
	}
}

func normalizeFormat(format string) string {
	switch format {
	case "txt", "docx", "pdf":
		return format
	default:
		return "txt"
	}
}

func (c Config) WithLang(lang string) Config {
	c.Lang = NormalizeLang(lang)
	return c
}

func (c Config) WithThreshold(threshold float64) Config {
	c.ConfidenceThreshold = threshold
	return c
}

func (c Config) WithFormat(format string) Config {
	c.DefaultOutputFormat = normalizeFormat(format)
	return c
}

func (c Config) WithSimpleOutput(simple bool) Config {
	c.SimpleOutput = simple
	return c
}

func (c Config) WithOutputFolder(folder string) Config {
	if folder != "" {
		c.OutputFolder = folder
	}
	return c
}
