package main

import (
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"strings"

	"github.com/urfave/cli/v2"

	"github.com/marcos-nsantos/imagepipe/internal/domain/entity"
	"github.com/marcos-nsantos/imagepipe/internal/domain/valueobject"
	"github.com/marcos-nsantos/imagepipe/internal/usecase/derivative"
)

func targetFlags() []cli.Flag {
	return []cli.Flag{
		&cli.StringSliceFlag{
			Name:    "format",
			Aliases: []string{"f"},
			Usage:   "output format (jpeg, png, webp, avif); repeatable",
			Value:   cli.NewStringSlice("jpeg", "webp"),
		},
		&cli.StringFlag{
			Name:  "max",
			Usage: "resolution cap as WxH; 0 on one axis leaves it unbounded, empty or 0x0 uses the configured cap",
		},
		&cli.IntFlag{
			Name:  "quality",
			Usage: "encoder quality 1-100; 0 uses the configured default",
		},
		&cli.BoolFlag{
			Name:  "flatten",
			Usage: "composite transparent pixels onto white",
		},
	}
}

func keyFlags() []cli.Flag {
	return []cli.Flag{
		&cli.StringFlag{Name: "entity", Aliases: []string{"e"}, Usage: "entity id", Required: true},
		&cli.IntFlag{Name: "slot", Aliases: []string{"s"}, Usage: "image slot within the entity"},
	}
}

func processCommand() *cli.Command {
	return &cli.Command{
		Name:      "process",
		Usage:     "write full derivatives of each file at its content address",
		ArgsUsage: "FILE...",
		Flags:     targetFlags(),
		Action: withSession(func(c *cli.Context, r *session) error {
			targets, err := parseTargets(c)
			if err != nil {
				return cli.Exit(err, exitBadInput)
			}
			sources, err := readSources(c.Args().Slice())
			if err != nil {
				return cli.Exit(err, exitBadInput)
			}
			return printBatch(c, r.svc.ProcessAll(c.Context, sources, targets))
		}),
	}
}

func entityCommand() *cli.Command {
	return &cli.Command{
		Name:      "entity",
		Usage:     "write full derivatives and previews for an entity's images",
		ArgsUsage: "FILE...",
		Flags: append(targetFlags(),
			&cli.StringFlag{Name: "entity", Aliases: []string{"e"}, Usage: "entity id", Required: true},
			&cli.BoolFlag{Name: "slotted", Usage: "one preview per file, keyed by position"},
		),
		Action: withSession(func(c *cli.Context, r *session) error {
			targets, err := parseTargets(c)
			if err != nil {
				return cli.Exit(err, exitBadInput)
			}
			sources, err := readSources(c.Args().Slice())
			if err != nil {
				return cli.Exit(err, exitBadInput)
			}
			upload := derivative.EntityUpload{
				EntityID: c.String("entity"),
				Slotted:  c.Bool("slotted"),
				Sources:  sources,
			}
			return printBatch(c, r.svc.ProcessEntity(c.Context, upload, targets))
		}),
	}
}

func previewCommand() *cli.Command {
	return &cli.Command{
		Name:      "preview",
		Usage:     "write the AVIF preview for an entity or slot",
		ArgsUsage: "FILE",
		Flags:     keyFlags(),
		Action: withSession(func(c *cli.Context, r *session) error {
			if c.NArg() != 1 {
				return cli.Exit("preview takes exactly one file", exitBadInput)
			}
			sources, err := readSources(c.Args().Slice())
			if err != nil {
				return cli.Exit(err, exitBadInput)
			}
			d, err := r.svc.CreatePreview(c.Context, sources[0], previewKey(c))
			if err != nil {
				return exitFor(err)
			}
			fmt.Fprintln(c.App.Writer, d.URL)
			return nil
		}),
	}
}

func deleteCommand() *cli.Command {
	return &cli.Command{
		Name:      "delete",
		Usage:     "delete derivatives by URL; missing ones are reported, not errors",
		ArgsUsage: "URL...",
		Action: withSession(func(c *cli.Context, r *session) error {
			report := r.svc.DeleteMany(c.Context, c.Args().Slice())
			for _, url := range report.Deleted {
				fmt.Fprintf(c.App.Writer, "deleted\t%s\n", url)
			}
			for _, url := range report.Missing {
				fmt.Fprintf(c.App.Writer, "missing\t%s\n", url)
			}
			for url, err := range report.Failed {
				fmt.Fprintf(c.App.Writer, "failed\t%s\t%v\n", url, err)
			}
			if err := report.Err(); err != nil {
				return exitFor(err)
			}
			return nil
		}),
	}
}

func deletePreviewCommand() *cli.Command {
	return &cli.Command{
		Name:  "delete-preview",
		Usage: "delete the preview of an entity or slot",
		Flags: keyFlags(),
		Action: withSession(func(c *cli.Context, r *session) error {
			if err := r.svc.DeletePreview(c.Context, previewKey(c)); err != nil {
				return exitFor(err)
			}
			return nil
		}),
	}
}

func addressCommand() *cli.Command {
	return &cli.Command{
		Name:      "address",
		Usage:     "print the content address of files, or the preview path of a key",
		ArgsUsage: "[FILE...]",
		Flags: []cli.Flag{
			&cli.StringFlag{Name: "entity", Aliases: []string{"e"}, Usage: "entity id"},
			&cli.IntFlag{Name: "slot", Aliases: []string{"s"}, Usage: "image slot within the entity"},
		},
		Action: func(c *cli.Context) error {
			if c.IsSet("entity") {
				key := previewKey(c)
				if err := key.Validate(); err != nil {
					return cli.Exit(err, exitBadInput)
				}
				fmt.Fprintln(c.App.Writer, key.RelativePath())
				return nil
			}
			if c.NArg() == 0 {
				return cli.Exit("address needs files or --entity", exitBadInput)
			}
			for _, name := range c.Args().Slice() {
				data, err := os.ReadFile(name)
				if err != nil {
					return cli.Exit(err, exitBadInput)
				}
				fmt.Fprintf(c.App.Writer, "%s\t%s\n", valueobject.DeriveContentAddress(data), name)
			}
			return nil
		},
	}
}

func previewKey(c *cli.Context) entity.PreviewKey {
	if c.IsSet("slot") {
		return entity.SlotKey(c.String("entity"), c.Int("slot"))
	}
	return entity.EntityKey(c.String("entity"))
}

func parseTargets(c *cli.Context) ([]entity.TranscodeOptions, error) {
	maxSize, err := parseDimensions(c.String("max"))
	if err != nil {
		return nil, err
	}
	transparency := entity.TransparencyPreserve
	if c.Bool("flatten") {
		transparency = entity.TransparencyFlatten
	}

	var targets []entity.TranscodeOptions
	for _, raw := range c.StringSlice("format") {
		for name := range strings.SplitSeq(raw, ",") {
			format, err := entity.ParseFormat(name)
			if err != nil {
				return nil, err
			}
			targets = append(targets, entity.TranscodeOptions{
				Format:       format,
				MaxSize:      maxSize,
				Quality:      c.Int("quality"),
				Transparency: transparency,
			})
		}
	}
	return targets, nil
}

func parseDimensions(s string) (valueobject.Dimensions, error) {
	if s == "" {
		return valueobject.Dimensions{}, nil
	}
	w, h, ok := strings.Cut(strings.ToLower(s), "x")
	if !ok {
		return valueobject.Dimensions{}, fmt.Errorf("invalid size %q, want WxH", s)
	}
	width, err := strconv.Atoi(w)
	if err != nil || width < 0 {
		return valueobject.Dimensions{}, fmt.Errorf("invalid width in %q", s)
	}
	height, err := strconv.Atoi(h)
	if err != nil || height < 0 {
		return valueobject.Dimensions{}, fmt.Errorf("invalid height in %q", s)
	}
	return valueobject.NewDimensions(width, height), nil
}

func readSources(names []string) ([]entity.SourceImage, error) {
	if len(names) == 0 {
		return nil, fmt.Errorf("no input files")
	}
	sources := make([]entity.SourceImage, 0, len(names))
	for _, name := range names {
		data, err := os.ReadFile(name)
		if err != nil {
			return nil, fmt.Errorf("reading %s: %w", name, err)
		}
		sources = append(sources, entity.NewSourceImage(filepath.Base(name), data))
	}
	return sources, nil
}

func printBatch(c *cli.Context, result *derivative.BatchResult) error {
	for _, item := range result.Items {
		if item.Err != nil {
			fmt.Fprintf(c.App.Writer, "failed\t%s\t%s\t%s\t%v\n", item.Source, item.Role, item.Format, item.Err)
			continue
		}
		d := item.Derivative
		fmt.Fprintf(c.App.Writer, "ok\t%s\t%s\t%dx%d\t%s\n", item.Source, item.Role, d.Width, d.Height, d.URL)
	}
	if err := result.Err(); err != nil {
		return exitFor(err)
	}
	return nil
}
