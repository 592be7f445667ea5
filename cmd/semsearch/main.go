// Copyright 2025 Poiesic Systems
//
// Licensed under the Apache License, Version 2.0 (the "License");
// you may not use this file except in compliance with the License.
// You may obtain a copy of the License at
//
//     http://www.apache.org/licenses/LICENSE-2.0
//
// Unless required by applicable law or agreed to in writing, software
// distributed under the License is distributed on an "AS IS" BASIS,
// WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
// See the License for the specific language governing permissions and
// limitations under the License.


package main

import (
	"context"
	"fmt"
	"io"
	"log"
	"log/slog"
	"os"
	"slices"
	"strings"
	"time"

	"github.com/urfave/cli/v2"

	"github.com/poiesic/semsearch"
	"github.com/poiesic/semsearch/core"
	"github.com/poiesic/semsearch/ingest"
	"github.com/poiesic/semsearch/stemmer"
)

func main() {
	if err := newApp(os.Stdout).Run(os.Args); err != nil {
		log.Fatal(err)
	}
}

func newApp(out io.Writer) *cli.App {
	return newAppWithErr(out, os.Stderr)
}

func newAppWithErr(out, errOut io.Writer) *cli.App {
	return &cli.App{
		Name:      "semsearch",
		Usage:     "Build ontology-expanded search queries",
		Writer:    out,
		ErrWriter: errOut,
		Flags: []cli.Flag{
			&cli.StringFlag{
				Name:    "log-level",
				Aliases: []string{"l"},
				Usage:   "Set logging level (debug, info, warn, error)",
				Value:   "info",
			},
		},
		Before: setupLogger,
		Commands: []*cli.Command{
			{
				Name:   "import",
				Usage:  "Import ontology terms from a YAML file",
				Action: importCommand,
				Flags: []cli.Flag{
					dbFlag(),
					configFlag(),
					&cli.StringFlag{
						Name:     "file",
						Aliases:  []string{"f"},
						Usage:    "YAML file containing a list of terms",
						Required: true,
					},
					&cli.IntFlag{
						Name:  "batch-size",
						Usage: "Number of terms stored per transaction",
						Value: 500,
					},
					&cli.IntFlag{
						Name:  "report-interval",
						Usage: "Report progress every N terms",
						Value: 500,
					},
					&cli.IntFlag{
						Name:  "max-retries",
						Usage: "Maximum attempts per batch on write conflicts",
						Value: 3,
					},
					&cli.DurationFlag{
						Name:  "retry-delay",
						Usage: "Base delay for exponential backoff",
						Value: 100 * time.Millisecond,
					},
				},
			},
			{
				Name:   "should",
				Usage:  "Print the SHOULD rule for a comma-separated list of term IRIs",
				Action: shouldCommand,
				Flags: []cli.Flag{
					dbFlag(),
					configFlag(),
					&cli.StringFlag{
						Name:     "iris",
						Usage:    "Comma-separated term IRIs",
						Required: true,
					},
				},
			},
			{
				Name:   "attribute",
				Usage:  "Print the DIS_MAX rule for an attribute and its ontology tags",
				Action: attributeCommand,
				Flags: []cli.Flag{
					dbFlag(),
					configFlag(),
					&cli.StringSliceFlag{
						Name:     "name",
						Aliases:  []string{"n"},
						Usage:    "Attribute name variant (repeatable)",
						Required: true,
					},
					&cli.StringSliceFlag{
						Name:    "tag",
						Aliases: []string{"t"},
						Usage:   "IRI of an ontology tag (repeatable)",
					},
				},
			},
			{
				Name:   "tags",
				Usage:  "Suggest ontology tags for a description",
				Action: tagsCommand,
				Flags: []cli.Flag{
					dbFlag(),
					configFlag(),
					&cli.StringFlag{
						Name:     "text",
						Usage:    "Attribute description",
						Required: true,
					},
					&cli.StringSliceFlag{
						Name:  "ontology",
						Usage: "Restrict tags to an ontology (repeatable)",
					},
				},
			},
			{
				Name:   "terms",
				Usage:  "List stored terms with their parents",
				Action: termsCommand,
				Flags: []cli.Flag{
					dbFlag(),
					configFlag(),
					&cli.StringFlag{
						Name:  "ontology",
						Usage: "Only list terms of this ontology",
					},
				},
			},
			{
				Name:      "stem",
				Usage:     "Print the cleaned, stemmed form of each argument",
				ArgsUsage: "<text>...",
				Action:    stemCommand,
				Flags: []cli.Flag{
					&cli.StringFlag{
						Name:  "lang",
						Usage: "Language code (" + strings.Join(stemmer.Languages(), ", ") + ")",
						Value: stemmer.DefaultLanguage,
					},
				},
			},
		},
	}
}

func dbFlag() cli.Flag {
	return &cli.StringFlag{
		Name:     "db",
		Aliases:  []string{"d"},
		Usage:    "Path to BadgerDB database directory",
		Required: true,
	}
}

func configFlag() cli.Flag {
	return &cli.StringFlag{
		Name:    "config",
		Aliases: []string{"c"},
		Usage:   "Path to YAML configuration file",
	}
}

// openDatabase opens the database named by --db using the --config file
// when one is given.
func openDatabase(c *cli.Context) (*semsearch.Database, error) {
	cfg := semsearch.DefaultConfig()
	if path := c.String("config"); path != "" {
		loaded, err := semsearch.LoadConfig(path)
		if err != nil {
			return nil, fmt.Errorf("failed to load config: %w", err)
		}
		cfg = loaded
	}

	db, err := semsearch.NewDatabase(c.String("db"),
		semsearch.WithConfig(cfg),
		semsearch.WithLogger(slog.Default()),
	)
	if err != nil {
		return nil, fmt.Errorf("failed to open database: %w", err)
	}
	return db, nil
}

func importCommand(c *cli.Context) error {
	ctx := context.Background()

	f, err := os.Open(c.String("file"))
	if err != nil {
		return err
	}
	defer f.Close()

	terms, err := ingest.ReadTerms(f)
	if err != nil {
		return fmt.Errorf("failed to read terms: %w", err)
	}

	importConfig := &ingest.Config{
		BatchSize:      c.Int("batch-size"),
		ReportInterval: c.Int("report-interval"),
		MaxRetries:     c.Int("max-retries"),
		RetryDelay:     c.Duration("retry-delay"),
	}

	db, err := openDatabase(c)
	if err != nil {
		return err
	}
	defer db.Close()

	importer, err := ingest.NewImporter(db.TermRepository(), importConfig, c.App.ErrWriter)
	if err != nil {
		return err
	}
	if err := importer.Run(ctx, terms); err != nil {
		return fmt.Errorf("import failed: %w", err)
	}
	fmt.Fprintf(c.App.Writer, "imported %d terms\n", len(terms))
	return nil
}

func shouldCommand(c *cli.Context) error {
	ctx := context.Background()

	db, err := openDatabase(c)
	if err != nil {
		return err
	}
	defer db.Close()

	builder, err := db.NewBuilder()
	if err != nil {
		return err
	}
	rule, err := builder.ShouldForIRIs(ctx, c.String("iris"))
	if err != nil {
		return err
	}
	fmt.Fprintln(c.App.Writer, rule)
	return nil
}

func attributeCommand(c *cli.Context) error {
	ctx := context.Background()

	db, err := openDatabase(c)
	if err != nil {
		return err
	}
	defer db.Close()

	iris := c.StringSlice("tag")
	tags, err := db.TermRepository().GetTerms(ctx, iris...)
	if err != nil {
		return err
	}
	if len(tags) != len(iris) {
		return fmt.Errorf("resolve %s: %w", missingIRIs(iris, tags), core.ErrTermNotFound)
	}

	builder, err := db.NewBuilder()
	if err != nil {
		return err
	}
	rule, err := builder.DisMaxForAttribute(ctx, c.StringSlice("name"), tags)
	if err != nil {
		return err
	}
	fmt.Fprintln(c.App.Writer, rule)
	return nil
}

func missingIRIs(iris []string, found []*core.OntologyTerm) string {
	seen := make(map[string]bool, len(found))
	for _, term := range found {
		seen[term.IRI] = true
	}
	var missing []string
	for _, iri := range iris {
		if !seen[iri] {
			missing = append(missing, iri)
		}
	}
	return strings.Join(missing, ", ")
}

func termsCommand(c *cli.Context) error {
	ctx := context.Background()

	db, err := openDatabase(c)
	if err != nil {
		return err
	}
	defer db.Close()

	terms, err := db.TermRepository().GetAllTerms(ctx, c.String("ontology"))
	if err != nil {
		return err
	}
	slices.SortFunc(terms, func(a, b *core.OntologyTerm) int {
		return strings.Compare(a.IRI, b.IRI)
	})
	for _, term := range terms {
		fmt.Fprintf(c.App.Writer, "%s\t%s\t%s\n", term.IRI, term.Label, strings.Join(term.Parents, ","))
	}
	return nil
}

func tagsCommand(c *cli.Context) error {
	ctx := context.Background()

	db, err := openDatabase(c)
	if err != nil {
		return err
	}
	defer db.Close()

	builder, err := db.NewBuilder()
	if err != nil {
		return err
	}
	tags, err := builder.FindTags(ctx, c.String("text"), c.StringSlice("ontology"))
	if err != nil {
		return err
	}
	for _, tag := range tags {
		fmt.Fprintf(c.App.Writer, "%s\t%s\n", tag.IRI, tag.Label)
	}
	return nil
}

func stemCommand(c *cli.Context) error {
	s, err := stemmer.New(c.String("lang"))
	if err != nil {
		return err
	}
	for _, arg := range c.Args().Slice() {
		fmt.Fprintln(c.App.Writer, s.CleanStemPhrase(arg))
	}
	return nil
}

func setupLogger(c *cli.Context) error {
	// Get log level from flag and normalize to lowercase
	levelStr := strings.ToLower(c.String("log-level"))

	var level slog.Level
	switch levelStr {
	case "debug":
		level = slog.LevelDebug
	case "info":
		level = slog.LevelInfo
	case "warn":
		level = slog.LevelWarn
	case "error":
		level = slog.LevelError
	default:
		return fmt.Errorf("invalid log level %q: must be one of debug, info, warn, error", levelStr)
	}

	logger := slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{
		Level: level,
	}))
	slog.SetDefault(logger)

	return nil
}
