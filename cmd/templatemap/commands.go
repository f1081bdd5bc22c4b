package main

import (
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"io/fs"
	"os"
	"path/filepath"
	"sort"
	"strings"

	"github.com/davecgh/go-spew/spew"
	"github.com/spf13/cobra"

	"github.com/goliatone/go-templatemap/internal/frontmatter"
	"github.com/goliatone/go-templatemap/pkg/domainerr"
	"github.com/goliatone/go-templatemap/pkg/errctx"
	"github.com/goliatone/go-templatemap/pkg/template"
)

func newFormatsCmd(a *app) *cobra.Command {
	return &cobra.Command{
		Use:   "formats",
		Short: "List supported template files, content kinds and transforms",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			out := cmd.OutOrStdout()
			fmt.Fprintln(out, "Template files:")
			for _, c := range template.SupportedFormats() {
				fmt.Fprintf(out, "  %-6s %s\n", c.Kind, strings.Join(c.Extensions, " "))
			}
			kinds := make([]string, 0, len(template.FormatKinds()))
			for _, k := range template.FormatKinds() {
				kinds = append(kinds, string(k))
			}
			fmt.Fprintf(out, "Content kinds: %s\n", strings.Join(kinds, ", "))
			_, err := fmt.Fprintf(out, "Transforms: %s\n", strings.Join(template.DefaultTransforms().Names(), ", "))
			return err
		},
	}
}

func newValidateCmd(a *app) *cobra.Command {
	return &cobra.Command{
		Use:   "validate <template>...",
		Short: "Load templates and report failures with diagnostic context",
		Args:  cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			out := cmd.OutOrStdout()
			failed := 0
			for _, path := range args {
				if _, err := a.repo.Load(cmd.Context(), path); err != nil {
					failed++
					fmt.Fprintf(out, "FAIL %s\n", path)
					writeFailure(out, err)
					continue
				}
				fmt.Fprintf(out, "ok   %s\n", path)
			}
			if failed > 0 {
				return fmt.Errorf("validate: %d of %d template(s) failed", failed, len(args))
			}
			return nil
		},
	}
}

func newInspectCmd(a *app) *cobra.Command {
	var dump bool
	cmd := &cobra.Command{
		Use:   "inspect [template]",
		Short: "Show a template's metadata and mapping rules",
		Args:  cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			path, err := a.templateArg(args)
			if err != nil {
				return err
			}
			tpl, err := a.repo.Load(cmd.Context(), path)
			if err != nil {
				writeFailure(cmd.OutOrStdout(), err)
				return fmt.Errorf("inspect: %w", err)
			}
			if dump {
				spew.Fdump(cmd.OutOrStdout(), tpl)
				return nil
			}
			return writeTemplate(cmd.OutOrStdout(), tpl)
		},
	}
	cmd.Flags().BoolVar(&dump, "dump", false, "print a raw debug dump of the loaded template")
	return cmd
}

func newMapCmd(a *app) *cobra.Command {
	var compact bool
	cmd := &cobra.Command{
		Use:   "map <template> <input>",
		Short: "Apply a template's mapping rules to an input document and print JSON",
		Args:  cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			tpl, err := a.repo.Load(cmd.Context(), args[0])
			if err != nil {
				writeFailure(cmd.ErrOrStderr(), err)
				return fmt.Errorf("map: %w", err)
			}

			// #nosec G304 -- input path is provided by the caller.
			content, err := os.ReadFile(args[1])
			if err != nil {
				return fmt.Errorf("map: read input: %w", err)
			}
			doc, err := frontmatter.Parse(args[1], content)
			if err != nil {
				fmt.Fprintln(cmd.ErrOrStderr(), errctx.Format(errctx.FrontmatterError(args[1], "parse", err)))
				return fmt.Errorf("map: %w", err)
			}

			enc := json.NewEncoder(cmd.OutOrStdout())
			if !compact {
				enc.SetIndent("", "  ")
			}
			return enc.Encode(tpl.Map(doc.Data))
		},
	}
	cmd.Flags().BoolVar(&compact, "compact", false, "print compact JSON")
	return cmd
}

// templateArg returns the single positional argument or, on a terminal,
// prompts for one of the templates found under the base directory.
func (a *app) templateArg(args []string) (string, error) {
	if len(args) == 1 {
		return args[0], nil
	}
	if !a.interactive() {
		return "", errors.New("a template path is required when not running in a terminal")
	}
	base, err := a.repo.BaseDirectory()
	if err != nil {
		return "", err
	}
	options, err := discoverTemplates(base)
	if err != nil {
		return "", err
	}
	if len(options) == 0 {
		return "", fmt.Errorf("no templates found under %s", base)
	}
	return a.choose("Select a template", options)
}

// discoverTemplates lists supported template files under root, relative to it.
func discoverTemplates(root string) ([]string, error) {
	var found []string
	err := filepath.WalkDir(root, func(path string, d fs.DirEntry, err error) error {
		if err != nil {
			return err
		}
		if d.IsDir() {
			if path != root && strings.HasPrefix(d.Name(), ".") {
				return filepath.SkipDir
			}
			return nil
		}
		if _, ok := template.DetectFormat(path); !ok {
			return nil
		}
		rel, err := filepath.Rel(root, path)
		if err != nil {
			return err
		}
		found = append(found, filepath.ToSlash(rel))
		return nil
	})
	if err != nil {
		return nil, fmt.Errorf("discover templates: %w", err)
	}
	sort.Strings(found)
	return found, nil
}

func writeTemplate(out io.Writer, tpl *template.Template) error {
	fmt.Fprintf(out, "ID:          %s\n", tpl.ID())
	fmt.Fprintf(out, "Format:      %s\n", tpl.Format().Kind())
	if tpl.Description() != "" {
		fmt.Fprintf(out, "Description: %s\n", tpl.Description())
	}
	rules := tpl.MappingRules()
	if len(rules) == 0 {
		_, err := fmt.Fprintln(out, "Rules:       none")
		return err
	}
	fmt.Fprintf(out, "Rules:       %d\n", len(rules))
	for _, r := range rules {
		line := fmt.Sprintf("  %s -> %s", r.Source(), r.Target())
		if name := r.TransformName(); name != "" {
			line += " [" + name + "]"
		}
		if _, err := fmt.Fprintln(out, line); err != nil {
			return err
		}
	}
	return nil
}

func writeFailure(out io.Writer, err error) {
	fmt.Fprintf(out, "  %v\n", err)
	ctx, ok := domainerr.ContextOf(err)
	if !ok {
		return
	}
	for _, line := range strings.Split(errctx.Format(ctx), "\n") {
		fmt.Fprintf(out, "  %s\n", line)
	}
}
