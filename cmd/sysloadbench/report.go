package main

import (
	"fmt"
	"io"
	"io/fs"
	"os"
	"path/filepath"

	"github.com/AlecAivazis/survey/v2"
	"github.com/charmbracelet/glamour"
	"github.com/spf13/cobra"

	"sysloadbench/internal/report"
	"sysloadbench/internal/results"
)

var reportMarkdown bool

// selectPath allows tests to bypass the interactive picker.
var selectPath = func(paths []string) (string, error) {
	var choice string
	prompt := &survey.Select{
		Message: "Several results documents found, pick one:",
		Options: paths,
	}
	if err := survey.AskOne(prompt, &choice); err != nil {
		return "", err
	}
	return choice, nil
}

var reportCmd = &cobra.Command{
	Use:   "report <results.json|directory>",
	Short: "Render the statistics of a saved results document",
	Long: `Renders the per-run statistics tables of a saved results document.
Given a directory containing several documents, an interactive picker
chooses one. With --markdown the report is rendered from Markdown instead.`,
	Args: cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		path, err := resolveResultsPath(args[0])
		if err != nil {
			return err
		}
		return writeReport(cmd.OutOrStdout(), path, reportMarkdown)
	},
}

func init() {
	rootCmd.AddCommand(reportCmd)
	reportCmd.Flags().BoolVar(&reportMarkdown, "markdown", false, "render the report as Markdown")
}

// resolveResultsPath turns the argument into one results.json path, asking
// the user when a directory holds more than one document.
func resolveResultsPath(arg string) (string, error) {
	paths, err := findResultsFiles(arg)
	if err != nil {
		return "", err
	}
	switch len(paths) {
	case 0:
		return "", fmt.Errorf("no %s found at %s", results.FileName, arg)
	case 1:
		return paths[0], nil
	default:
		return selectPath(paths)
	}
}

// findResultsFiles returns every results.json at or below path; a file path
// is returned as-is.
func findResultsFiles(path string) ([]string, error) {
	fi, err := os.Stat(path)
	if err != nil {
		return nil, err
	}
	if !fi.IsDir() {
		return []string{path}, nil
	}

	var paths []string
	err = filepath.WalkDir(path, func(p string, d fs.DirEntry, err error) error {
		if err != nil {
			return err
		}
		if !d.IsDir() && d.Name() == results.FileName {
			paths = append(paths, p)
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	return paths, nil
}

func writeReport(out io.Writer, path string, markdown bool) error {
	doc, err := results.Load(path)
	if err != nil {
		return err
	}

	if markdown {
		renderer, err := glamour.NewTermRenderer(
			glamour.WithAutoStyle(),
			glamour.WithWordWrap(120),
		)
		if err != nil {
			return fmt.Errorf("create markdown renderer: %w", err)
		}
		rendered, err := renderer.Render(report.Markdown(doc))
		if err != nil {
			return fmt.Errorf("render markdown report: %w", err)
		}
		fmt.Fprint(out, rendered)
		return nil
	}

	fmt.Fprintf(out, "Benchmark: %s (host %s, saved %s)\n\n",
		doc.Benchmark, doc.System.Hostname, doc.SavedAt.Format("2006-01-02 15:04:05"))
	for _, name := range doc.RunNames() {
		fmt.Fprintln(out, report.RunTable(name, doc.RunResults[name]))
		fmt.Fprintln(out)
	}
	return nil
}
