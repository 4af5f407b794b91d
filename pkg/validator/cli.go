package validator

import (
	"archive/zip"
	"errors"
	"fmt"
	"io"
	"io/fs"
	"os"
	"path/filepath"
	"runtime"
	"sort"
	"strings"

	"github.com/rs/zerolog/log"
	"github.com/sourcegraph/conc/pool"
	"github.com/urfave/cli/v2"

	"github.com/txcheck/txcheck/pkg/database"
	"github.com/txcheck/txcheck/pkg/lookup"
	"github.com/txcheck/txcheck/pkg/profile"
	"github.com/txcheck/txcheck/pkg/redis_client"
	"github.com/txcheck/txcheck/pkg/report"
	"github.com/txcheck/txcheck/pkg/txc"
	"github.com/txcheck/txcheck/pkg/util"
)

// CLI exit codes
const (
	ExitViolations        = 2
	ExitParseFailure      = 64
	ExitLookupUnavailable = 69
)

type fileInput struct {
	Name string
	Data []byte
}

type fileResult struct {
	Filename   string
	Violations []report.Violation
	Attributes []txc.FileAttributes
	Err        error
}

func RegisterCLI() *cli.Command {
	return &cli.Command{
		Name:  "validate",
		Usage: "Validate documents against a conformance profile",
		Flags: []cli.Flag{
			&cli.StringFlag{
				Name:  "profile",
				Value: "pti",
				Usage: "profile to run: pti or fares",
			},
			&cli.StringFlag{
				Name:  "schema",
				Usage: "override the embedded observation schema with a JSON file",
			},
			&cli.StringFlag{
				Name:  "lookups",
				Usage: "answer NaPTAN and registration lookups from a fixture file instead of MongoDB",
			},
			&cli.StringFlag{
				Name:  "format",
				Value: "json",
				Usage: "report format: json or csv",
			},
			&cli.StringFlag{
				Name:  "out",
				Usage: "write the report to a file instead of stdout",
			},
			&cli.BoolFlag{
				Name:  "record",
				Usage: "store the file attributes of clean documents for later revision checks",
			},
		},
		ArgsUsage: "<file.xml|file.zip|directory>...",
		Action:    runValidate,
	}
}

func runValidate(c *cli.Context) error {
	if c.NArg() == 0 {
		return cli.Exit("no input files given", ExitParseFailure)
	}

	schema, err := loadSchema(c)
	if err != nil {
		return cli.Exit(err.Error(), ExitParseFailure)
	}

	lookups, usingMongo, err := buildLookups(c)
	if err != nil {
		return cli.Exit(err.Error(), ExitLookupUnavailable)
	}

	inputs, err := collectInputs(c.Args().Slice())
	if err != nil {
		return cli.Exit(err.Error(), ExitParseFailure)
	}
	if len(inputs) == 0 {
		return cli.Exit("no XML documents found in the given inputs", ExitParseFailure)
	}

	validator := New(schema, lookups)
	fares := c.String("profile") == "faresvalidation" || c.String("profile") == "fares"
	validator.CompareRevisions = !fares && usingMongo

	p := pool.NewWithResults[fileResult]()
	p.WithMaxGoroutines(runtime.NumCPU())

	for _, input := range inputs {
		p.Go(func() fileResult {
			result := fileResult{Filename: input.Name}

			if fares {
				result.Violations, result.Err = validator.ValidateFares(c.Context, input.Data, input.Name)
				return result
			}

			var document *txc.Document
			document, result.Violations, result.Err = validator.Validate(c.Context, input.Data, input.Name)
			if result.Err == nil {
				result.Attributes = txc.ExtractFileAttributes(document)
			}

			return result
		})
	}

	results := p.Wait()
	sort.Slice(results, func(i, j int) bool { return results[i].Filename < results[j].Filename })

	var violations []report.Violation
	lookupFailed := false
	parseFailed := false

	for _, result := range results {
		if result.Err != nil {
			if errors.Is(result.Err, lookup.ErrLookupUnavailable) {
				lookupFailed = true
			} else {
				parseFailed = true
			}

			log.Error().Err(result.Err).Str("filename", result.Filename).Msg("Validation run failed")
			continue
		}

		violations = append(violations, result.Violations...)

		if c.Bool("record") && usingMongo && len(result.Violations) == 0 {
			if err := lookup.RecordFileAttributes(c.Context, result.Attributes); err != nil {
				log.Warn().Err(err).Str("filename", result.Filename).Msg("Failed to record file attributes")
			}
		}
	}

	if err := writeReport(c, len(results), violations); err != nil {
		return cli.Exit(err.Error(), ExitParseFailure)
	}

	switch {
	case lookupFailed:
		return cli.Exit("one or more lookup backends were unavailable", ExitLookupUnavailable)
	case parseFailed:
		return cli.Exit("one or more documents could not be parsed", ExitParseFailure)
	case len(violations) > 0:
		return cli.Exit("", ExitViolations)
	}

	return nil
}

func loadSchema(c *cli.Context) (*profile.Schema, error) {
	if path := c.String("schema"); path != "" {
		return profile.LoadFile(path)
	}

	switch c.String("profile") {
	case "pti":
		return profile.LoadPTI()
	case "fares", "faresvalidation":
		return profile.LoadFares()
	default:
		return nil, fmt.Errorf("unknown profile %q", c.String("profile"))
	}
}

// buildLookups picks the lookup backend: a fixture file when given,
// otherwise MongoDB, wrapped in the redis cache when one is configured.
func buildLookups(c *cli.Context) (lookup.Services, bool, error) {
	if path := c.String("lookups"); path != "" {
		static, err := lookup.LoadStaticFile(path)
		if err != nil {
			return lookup.Services{}, false, err
		}

		return static.Services(), false, nil
	}

	if err := database.Connect(); err != nil {
		return lookup.Services{}, false, err
	}

	services := lookup.NewMongo().Services()

	env := util.GetEnvironmentVariables()
	if env["TXCHECK_REDIS_ADDRESS"] != "" {
		if err := redis_client.Connect(); err != nil {
			return lookup.Services{}, false, err
		}

		services = lookup.NewCached(services).Services()
	}

	return services, true, nil
}

func collectInputs(paths []string) ([]fileInput, error) {
	var inputs []fileInput

	for _, path := range paths {
		info, err := os.Stat(path)
		if err != nil {
			return nil, err
		}

		switch {
		case info.IsDir():
			err = filepath.WalkDir(path, func(entry string, d fs.DirEntry, err error) error {
				if err != nil || d.IsDir() || !strings.HasSuffix(entry, ".xml") {
					return err
				}

				data, err := os.ReadFile(entry)
				if err != nil {
					return err
				}

				inputs = append(inputs, fileInput{Name: entry, Data: data})
				return nil
			})
		case strings.HasSuffix(path, ".zip"):
			var unpacked []fileInput
			unpacked, err = readZip(path)
			inputs = append(inputs, unpacked...)
		default:
			var data []byte
			data, err = os.ReadFile(path)
			inputs = append(inputs, fileInput{Name: path, Data: data})
		}

		if err != nil {
			return nil, err
		}
	}

	return inputs, nil
}

func readZip(path string) ([]fileInput, error) {
	reader, err := zip.OpenReader(path)
	if err != nil {
		return nil, err
	}
	defer reader.Close()

	var inputs []fileInput

	for _, entry := range reader.File {
		if entry.FileInfo().IsDir() || !strings.HasSuffix(entry.Name, ".xml") {
			continue
		}

		opened, err := entry.Open()
		if err != nil {
			return nil, err
		}

		data, err := io.ReadAll(opened)
		opened.Close()
		if err != nil {
			return nil, err
		}

		inputs = append(inputs, fileInput{Name: filepath.Join(path, entry.Name), Data: data})
	}

	return inputs, nil
}

func writeReport(c *cli.Context, files int, violations []report.Violation) error {
	var out io.Writer = os.Stdout

	if path := c.String("out"); path != "" {
		file, err := os.Create(path)
		if err != nil {
			return err
		}
		defer file.Close()

		out = file
	}

	if c.String("format") == "csv" {
		return report.WriteCSV(out, violations)
	}

	return report.WriteJSON(out, files, violations)
}
