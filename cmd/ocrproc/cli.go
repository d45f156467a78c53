package main

import (
	"bufio"
	"context"
	"flag"
	"fmt"
	"os"
	"strconv"
	"strings"

	"github.com/krisfkt/PaddleOCR-Tools/internal/config"
	"github.com/krisfkt/PaddleOCR-Tools/internal/engine"
	"github.com/krisfkt/PaddleOCR-Tools/internal/imageio"
	"github.com/krisfkt/PaddleOCR-Tools/internal/processor"
	"github.com/krisfkt/PaddleOCR-Tools/internal/report"
	"github.com/krisfkt/PaddleOCR-Tools/internal/telemetry"
)

const (
	exitOK               = 0
	exitFailure          = 1
	exitInvalidArgs      = 2
	exitPartialBatchFail = 3
)

type CLI struct {
	configPath string
	file       string
	folder     string
	format     string
	confidence float64
	lang       string
	output     string
	test       bool
	showConfig bool
	simple     bool
}

func NewCLI() *CLI {
	return &CLI{}
}

func (c *CLI) Run(args []string) int {
	fs := flag.NewFlagSet("ocrproc", flag.ContinueOnError)
	fs.StringVar(&c.configPath, "config", envOr("OCRPROC_CONFIG", config.DefaultFile), "Configuration file path")
	fs.StringVar(&c.file, "file", "", "Process a single image file")
	fs.StringVar(&c.folder, "folder", "", "Process every image in a folder")
	fs.StringVar(&c.format, "format", "", "Output format (txt, docx, pdf)")
	fs.Float64Var(&c.confidence, "confidence", 0, "Confidence threshold for accepting lines")
	fs.StringVar(&c.lang, "lang", "", "Recognition language (ch, en, chinese_cht)")
	fs.StringVar(&c.output, "output", "", "Output folder (overrides configuration)")
	fs.BoolVar(&c.test, "test", false, "Render synthetic test images and process them")
	fs.BoolVar(&c.showConfig, "show-config", false, "Print the effective configuration and exit")
	fs.BoolVar(&c.simple, "simple", false, "Minimal output: accepted text only, stable filename")

	if err := fs.Parse(args); err != nil {
		return exitInvalidArgs
	}
	if c.file != "" && c.folder != "" {
		fmt.Fprintln(os.Stderr, "-file and -folder are mutually exclusive")
		return exitInvalidArgs
	}

	cfg := config.Load(c.configPath)

	// Command-line overrides thread through copies; cfg is never mutated
	// in place.
	fs.Visit(func(f *flag.Flag) {
		switch f.Name {
		case "confidence":
			cfg = cfg.WithThreshold(c.confidence)
		case "format":
			cfg = cfg.WithFormat(c.format)
		case "lang":
			cfg = cfg.WithLang(c.lang)
		case "simple":
			cfg = cfg.WithSimpleOutput(c.simple)
		case "output":
			cfg = cfg.WithOutputFolder(c.output)
		}
	})

	level := "info"
	if cfg.ShowLog {
		level = "debug"
	}
	telemetry.Init(telemetry.Config{Level: envOr("LOG_LEVEL", level), File: os.Getenv("LOG_FILE")})

	if url := os.Getenv("PADDLE_SERVER_URL"); url != "" {
		cfg.ServerURL = url
	}

	if c.showConfig {
		printConfig(cfg)
		return exitOK
	}

	format, err := report.ParseFormat(cfg.DefaultOutputFormat)
	if err != nil {
		fmt.Fprintln(os.Stderr, err)
		return exitInvalidArgs
	}
	verbosity := report.Detailed
	if cfg.SimpleOutput {
		verbosity = report.Minimal
	}

	handle, err := engine.Bootstrap(engine.DefaultCandidates(cfg))
	if err != nil {
		fmt.Fprintf(os.Stderr, "OCR engine initialization failed: %v\n", err)
		return exitFailure
	}
	defer handle.Close()
	fmt.Printf("Engine ready: %s\n", handle.Describe())

	proc := processor.New(handle, cfg.Timeout)
	writer := report.Writer{Folder: cfg.OutputFolder, PDFFont: cfg.PDFFont, SaveRaw: cfg.SaveRawResults, Stats: cfg.IncludeStats}

	ctx := context.Background()

	switch {
	case c.test:
		return c.runTest(ctx, proc, writer, cfg, format, verbosity)
	case c.file != "":
		return c.runFile(ctx, proc, writer, cfg, c.file, format, verbosity)
	case c.folder != "":
		return c.runFolder(ctx, proc, writer, cfg, c.folder, format, verbosity)
	default:
		return c.runMenu(ctx, proc, writer, cfg, format)
	}
}

func (c *CLI) runFile(ctx context.Context, proc *processor.Processor, writer report.Writer, cfg config.Config, path string, format report.Format, verbosity report.Verbosity) int {
	res, err := proc.Process(ctx, path, cfg.ConfidenceThreshold)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Processing failed: %v\n", err)
		return exitFailure
	}

	printRecognized(res)

	out, err := writer.Write(res, path, format, verbosity)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Writing result failed: %v\n", err)
		return exitFailure
	}
	fmt.Printf("Output file: %s\n", out)
	return exitOK
}

func (c *CLI) runFolder(ctx context.Context, proc *processor.Processor, writer report.Writer, cfg config.Config, folder string, format report.Format, verbosity report.Verbosity) int {
	sink := func(res *processor.Result, sourcePath string) (string, error) {
		return writer.Write(res, sourcePath, format, verbosity)
	}

	outputs, failures := proc.RunBatch(ctx, folder, cfg.ConfidenceThreshold, sink)

	for path, err := range failures {
		fmt.Fprintf(os.Stderr, "FAILED %s: %v\n", path, err)
	}
	fmt.Printf("Batch complete: %d succeeded, %d failed\n", len(outputs), len(failures))

	if len(failures) > 0 {
		return exitPartialBatchFail
	}
	return exitOK
}

func (c *CLI) runTest(ctx context.Context, proc *processor.Processor, writer report.Writer, cfg config.Config, format report.Format, verbosity report.Verbosity) int {
	fixtures := []struct {
		text string
		file string
	}{
		{"Hello World", "test_en.png"},
		{"測試中文", "test_ch.png"},
		{"混合 Mixed 123", "test_mixed.png"},
	}

	failed := 0
	for _, fx := range fixtures {
		fmt.Printf("Rendering test image: %q\n", fx.text)
		if err := imageio.RenderTestImage(fx.text, fx.file); err != nil {
			fmt.Fprintf(os.Stderr, "FAILED %s: %v\n", fx.file, err)
			failed++
			continue
		}
		if code := c.runFile(ctx, proc, writer, cfg, fx.file, format, verbosity); code != exitOK {
			failed++
		}
	}

	if failed > 0 {
		return exitFailure
	}
	return exitOK
}

func (c *CLI) runMenu(ctx context.Context, proc *processor.Processor, writer report.Writer, cfg config.Config, format report.Format) int {
	scanner := bufio.NewScanner(os.Stdin)
	code := exitOK

	for {
		fmt.Println()
		fmt.Println("=== PaddleOCR Processor ===")
		fmt.Println("1. Render and process test images")
		fmt.Println("2. Process an image file")
		fmt.Println("3. Process an image folder")
		fmt.Println("4. Quit")
		fmt.Print("Choice (1-4): ")

		if !scanner.Scan() {
			return code
		}

		switch strings.TrimSpace(scanner.Text()) {
		case "1":
			code = c.runTest(ctx, proc, writer, cfg, format, report.Detailed)
		case "2":
			path := prompt(scanner, "Image file path: ")
			if path == "" {
				continue
			}
			runCfg, runFormat := promptOverrides(scanner, cfg, format)
			code = c.runFile(ctx, proc, writer, runCfg, path, runFormat, report.Detailed)
		case "3":
			folder := prompt(scanner, "Image folder path: ")
			if folder == "" {
				continue
			}
			runCfg, runFormat := promptOverrides(scanner, cfg, format)
			code = c.runFolder(ctx, proc, writer, runCfg, folder, runFormat, report.Detailed)
		case "4":
			return code
		default:
			fmt.Println("Invalid choice")
		}
	}
}

func promptOverrides(scanner *bufio.Scanner, cfg config.Config, format report.Format) (config.Config, report.Format) {
	if f := prompt(scanner, fmt.Sprintf("Output format (txt/docx/pdf, default %s): ", format)); f != "" {
		if parsed, err := report.ParseFormat(f); err == nil {
			format = parsed
		} else {
			fmt.Println(err)
		}
	}
	if v := prompt(scanner, fmt.Sprintf("Confidence threshold (default %.2f): ", cfg.ConfidenceThreshold)); v != "" {
		if threshold, err := strconv.ParseFloat(v, 64); err == nil {
			cfg = cfg.WithThreshold(threshold)
		} else {
			fmt.Println("Not a number, keeping default")
		}
	}
	return cfg, format
}

func prompt(scanner *bufio.Scanner, label string) string {
	fmt.Print(label)
	if !scanner.Scan() {
		return ""
	}
	return strings.Trim(strings.TrimSpace(scanner.Text()), `"`)
}

func printRecognized(res *processor.Result) {
	fmt.Println("Recognized content:")
	text := res.Filtered.Text()
	if text == "" {
		fmt.Println("  (none)")
		return
	}
	for _, line := range strings.Split(text, "\n") {
		fmt.Printf("  %q\n", line)
	}
}

func printConfig(cfg config.Config) {
	fmt.Println("[OCR]")
	fmt.Printf("lang = %s\n", cfg.Lang)
	fmt.Printf("use_angle_cls = %t\n", cfg.UseAngleCls)
	fmt.Printf("use_gpu = %t\n", cfg.UseGPU)
	fmt.Printf("show_log = %t\n", cfg.ShowLog)
	fmt.Printf("server_url = %s\n", cfg.ServerURL)
	fmt.Println()
	fmt.Println("[PROCESSING]")
	fmt.Printf("confidence_threshold = %g\n", cfg.ConfidenceThreshold)
	fmt.Printf("default_output_format = %s\n", cfg.DefaultOutputFormat)
	fmt.Printf("timeout = %s\n", cfg.Timeout)
	fmt.Println()
	fmt.Println("[OUTPUT]")
	fmt.Printf("output_folder = %s\n", cfg.OutputFolder)
	fmt.Printf("include_stats = %t\n", cfg.IncludeStats)
	fmt.Printf("save_raw_results = %t\n", cfg.SaveRawResults)
	fmt.Printf("simple_output = %t\n", cfg.SimpleOutput)
}

func envOr(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}
