package main

import (
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/spf13/cobra"

	"github.com/pdiddy/site-resolver/internal/resolve"
	"github.com/pdiddy/site-resolver/pkg/types"
)

var discoverCmd = &cobra.Command{
	Use:   "discover <name>",
	Short: "Resolve a single institution name and show the candidates",
	Long: `Discover runs one lookup outside of a batch: it builds the search query for
the given name, lists the candidate URLs taken from the result page, and shows
which one, if any, was accepted as the official website. Use it to check the
search page markup or a query template before a long run.

Use --save to keep the lookup as a YAML file and --load to show a saved
lookup again without making any requests.`,
	Args: cobra.ArbitraryArgs,
	RunE: runDiscover,
}

var discoverFlagKeys = map[string]string{
	"query-template": "search.query_template",
	"verify-timeout": "verify.timeout",
}

func init() {
	discoverCmd.Flags().Bool("json", false, "output the resolution as JSON")
	discoverCmd.Flags().String("save", "", "write the lookup to a YAML file")
	discoverCmd.Flags().String("load", "", "show a lookup saved with --save instead of searching")
	discoverCmd.Flags().String("query-template", "", `search query; {name} is replaced (default "{name} official website")`)
	discoverCmd.Flags().Duration("verify-timeout", 0, "timeout for each candidate page (default 5s)")

	rootCmd.AddCommand(discoverCmd)
}

func runDiscover(cmd *cobra.Command, args []string) error {
	jsonOutput, _ := cmd.Flags().GetBool("json")

	if loadPath, _ := cmd.Flags().GetString("load"); loadPath != "" {
		if len(args) > 0 {
			return errors.New("a name cannot be given with --load")
		}
		return showResultFile(os.Stdout, loadPath, jsonOutput)
	}
	if len(args) == 0 {
		return errors.New("an institution name is required")
	}

	if err := bindFlags(cmd, discoverFlagKeys); err != nil {
		return err
	}
	cfg, err := loadConfig()
	if err != nil {
		return err
	}

	name := strings.Join(args, " ")

	progress := os.Stdout
	if jsonOutput {
		progress = os.Stderr
	}
	res := newResolver(cfg, progress).Resolve(cmd.Context(), name)

	if savePath, _ := cmd.Flags().GetString("save"); savePath != "" {
		if err := resolve.WriteResultFile(savePath, name, "search_page", res); err != nil {
			return err
		}
		fmt.Fprintf(os.Stderr, "Saved lookup to %s\n", savePath)
	}

	return printResolution(os.Stdout, res, jsonOutput)
}

// showResultFile prints a lookup saved by discover --save.
func showResultFile(w io.Writer, path string, jsonOutput bool) error {
	rf, err := resolve.ReadResultFile(path)
	if err != nil {
		return err
	}
	if !jsonOutput {
		fmt.Fprintf(w, "Name: %s\n", rf.Name)
		fmt.Fprintf(w, "Saved: %s (%s)\n", rf.Timestamp.Format("2006-01-02 15:04:05"), rf.Backend)
	}
	return printResolution(w, rf.Resolution, jsonOutput)
}

func printResolution(w io.Writer, res types.Resolution, jsonOutput bool) error {
	if jsonOutput {
		enc := json.NewEncoder(w)
		enc.SetIndent("", "  ")
		return enc.Encode(res)
	}

	fmt.Fprintf(w, "Query: %s\n", res.Query)
	if res.SearchError != "" {
		fmt.Fprintf(w, "Search failed: %s\n", res.SearchError)
	}
	if len(res.Candidates) == 0 {
		fmt.Fprintln(w, "No candidates found.")
	}
	for i, c := range res.Candidates {
		marker := " "
		if c == res.URL {
			marker = "*"
		}
		fmt.Fprintf(w, "%s %d. %s\n", marker, i+1, c)
	}
	if res.Matched() {
		fmt.Fprintf(w, "Official website: %s\n", res.URL)
	} else {
		fmt.Fprintln(w, "No official website found.")
	}
	return nil
}
