// Command stmt_import parses a local OFX, QFX or CSV statement file and prints the statements
// as JSON. CSV mapping templates are read from and written to the template directory.
package main

import (
	"context"
	"encoding/json"
	"flag"
	"fmt"
	"io"
	"log/slog"
	"os"
	"path/filepath"
	"strings"

	"github.com/SscSPs/statement_import/internal/adapters/filestore"
	"github.com/SscSPs/statement_import/internal/core/domain"
	portssvc "github.com/SscSPs/statement_import/internal/core/ports/services"
	"github.com/SscSPs/statement_import/internal/core/services"
	"github.com/SscSPs/statement_import/internal/dto"
	"github.com/SscSPs/statement_import/internal/middleware"
	"github.com/SscSPs/statement_import/internal/platform/config"
)

// exitNeedsReview is returned when a CSV file's headers could not be mapped confidently.
const exitNeedsReview = 2

type options struct {
	format      string
	bank        string
	accountName string
	accountCode string
	currency    string
	mappingFile string
	templateDir string
	noShorten   bool
	verbose     bool
}

func main() {
	os.Exit(run(os.Args[1:], os.Stdout, os.Stderr))
}

func run(args []string, stdout, stderr io.Writer) int {
	fs := flag.NewFlagSet("stmt_import", flag.ContinueOnError)
	fs.SetOutput(stderr)
	var opts options
	fs.StringVar(&opts.format, "format", "", "ofx or csv (default: from the file extension)")
	fs.StringVar(&opts.bank, "bank", "", "bank name used to look up and save the CSV mapping template")
	fs.StringVar(&opts.accountName, "account-name", "", "bank name for OFX files without an institution block")
	fs.StringVar(&opts.accountCode, "account-code", "", "bank id for OFX files without an institution block")
	fs.StringVar(&opts.currency, "currency", "", "currency for CSV statements")
	fs.StringVar(&opts.mappingFile, "mapping", "", "JSON file with a reviewed header mapping for CSV input")
	fs.StringVar(&opts.templateDir, "templates", "", "mapping template directory")
	fs.BoolVar(&opts.noShorten, "no-shorten", false, "keep payee names as they appear in the file")
	fs.BoolVar(&opts.verbose, "v", false, "debug logging")
	fs.Usage = func() {
		fmt.Fprintln(stderr, "usage: stmt_import [flags] <statement file>")
		fs.PrintDefaults()
	}
	if err := fs.Parse(args); err != nil {
		return 1
	}
	if fs.NArg() != 1 {
		fs.Usage()
		return 1
	}
	path := fs.Arg(0)

	level := slog.LevelInfo
	if opts.verbose {
		level = slog.LevelDebug
	}
	logger := slog.New(slog.NewTextHandler(stderr, &slog.HandlerOptions{Level: level}))
	ctx := middleware.WithLogger(context.Background(), logger)

	cfg, err := config.LoadConfig()
	if err != nil {
		logger.Error("Failed to load config", slog.String("error", err.Error()))
		return 1
	}
	if opts.templateDir != "" {
		cfg.TemplateDir = opts.templateDir
	}
	if opts.currency != "" {
		cfg.DefaultCurrency = strings.ToUpper(opts.currency)
	}

	content, err := os.ReadFile(path)
	if err != nil {
		logger.Error("Failed to read statement file", slog.String("path", path), slog.String("error", err.Error()))
		return 1
	}

	templates := services.NewTemplateService(filestore.NewTemplateStore(cfg.TemplateDir))
	var shortener portssvc.PayeeShortener
	if cfg.PayeeShortening && !opts.noShorten {
		shortener = services.NewRulePayeeShortener()
	}
	importer := services.NewImportService(cfg, templates, nil, shortener)

	format := opts.format
	if format == "" {
		format = formatFromPath(path)
	}

	var out any
	code := 0
	switch strings.ToLower(format) {
	case "ofx", "qfx":
		statements, err := importer.ImportOFX(ctx, portssvc.OFXImportRequest{
			Content:     string(content),
			AccountName: opts.accountName,
			AccountCode: opts.accountCode,
		})
		if err != nil {
			logger.Error("Import failed", slog.String("error", err.Error()))
			return 1
		}
		out = dto.ToOFXImportResponse(statements)
	case "csv":
		req := portssvc.CSVImportRequest{Content: string(content), BankName: opts.bank}
		if opts.mappingFile != "" {
			if req.Mapping, err = readMapping(opts.mappingFile); err != nil {
				logger.Error("Failed to read mapping file", slog.String("path", opts.mappingFile), slog.String("error", err.Error()))
				return 1
			}
		}
		result, err := importer.ImportCSV(ctx, req)
		if err != nil {
			logger.Error("Import failed", slog.String("error", err.Error()))
			return 1
		}
		if result.NeedsReview() {
			logger.Warn("Header mapping needs review; rerun with -mapping")
			out = dto.ToMappingReviewResponse(result)
			code = exitNeedsReview
		} else {
			out = dto.ToCSVImportResponse(result)
		}
	default:
		logger.Error("Unknown input format", slog.String("format", format))
		return 1
	}

	enc := json.NewEncoder(stdout)
	enc.SetIndent("", "  ")
	if err := enc.Encode(out); err != nil {
		logger.Error("Failed to write output", slog.String("error", err.Error()))
		return 1
	}
	return code
}

func formatFromPath(path string) string {
	return strings.TrimPrefix(strings.ToLower(filepath.Ext(path)), ".")
}

func readMapping(path string) (domain.HeaderMapping, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}
	var m domain.HeaderMapping
	if err := json.Unmarshal(data, &m); err != nil {
		return nil, err
	}
	return m, nil
}
