package main

import (
	"fmt"
	"io"
	"os"
	"path/filepath"
	"regexp"
	"strings"

	"github.com/spf13/cobra"

	"quant.com/pkg/dataset"
	"quant.com/pkg/pricing"
	"quant.com/pkg/valuation"
)

var unsafeFileChars = regexp.MustCompile(`[^a-z0-9]+`)

func (a *app) curveCommand() *cobra.Command {
	var (
		presetName string
		sets       map[string]string
		outDir     string
	)
	cmd := &cobra.Command{
		Use:   "curve [kind]",
		Short: "Export sensitivity curves as CSV",
		Long: "Export the 100-point sensitivity curves of a valuation as x,y CSV.\n" +
			"Without --out every curve is written to stdout, separated by a blank line.\n" +
			"Kinds: " + kindList() + ".",
		ValidArgs: kindNames(),
		Example: "  pricer curve --preset binomial-atm-call --set sigma=0.3\n" +
			"  pricer curve forward --set S=100 --set r=0.05 --set T=1 --out ./curves",
		Args: cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			req := valuation.Request{Preset: presetName, Params: map[string]any{}, Curve: true}
			if len(args) == 1 {
				req.Kind = valuation.Kind(args[0])
			}
			if req.Kind == "" && req.Preset == "" {
				return fmt.Errorf("give a kind or --preset")
			}
			for k, v := range sets {
				req.Params[k] = parseSetValue(v)
			}

			res, err := a.evaluate(cmd.Context(), req)
			if err != nil {
				return err
			}
			if err := resultError(res); err != nil {
				return err
			}
			if len(res.Curves) == 0 {
				return fmt.Errorf("%s has no sensitivity curves", res.Kind)
			}
			if outDir == "" {
				return writeCurves(cmd.OutOrStdout(), res.Curves)
			}
			return a.writeCurveFiles(cmd.OutOrStdout(), outDir, res)
		},
	}
	cmd.Flags().StringVar(&presetName, "preset", "", "named preset supplying the parameters")
	cmd.Flags().StringToStringVar(&sets, "set", nil, "parameters as key=value")
	cmd.Flags().StringVar(&outDir, "out", "", "directory for one CSV file per curve")
	return cmd
}

func writeCurves(w io.Writer, curves []pricing.Curve) error {
	for i, c := range curves {
		if i > 0 {
			fmt.Fprintln(w)
		}
		fmt.Fprintf(w, "# %s (%s vs %s)\n", c.Name, c.YLabel, c.XLabel)
		if err := dataset.WriteCurveCSV(w, c); err != nil {
			return err
		}
	}
	return nil
}

func (a *app) writeCurveFiles(w io.Writer, dir string, res valuation.Result) error {
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return err
	}
	for i, c := range res.Curves {
		name := strings.Trim(unsafeFileChars.ReplaceAllString(strings.ToLower(c.Name+" "+c.XLabel), "-"), "-")
		path := filepath.Join(dir, fmt.Sprintf("%s-%d-%s.csv", res.Kind, i+1, name))
		f, err := os.Create(path)
		if err != nil {
			return err
		}
		err = dataset.WriteCurveCSV(f, c)
		if cerr := f.Close(); err == nil {
			err = cerr
		}
		if err != nil {
			return err
		}
		fmt.Fprintln(w, path)
	}
	return nil
}

func kindNames() []string {
	kinds := valuation.Kinds()
	names := make([]string, len(kinds))
	for i, k := range kinds {
		names[i] = string(k)
	}
	return names
}

func kindList() string {
	return strings.Join(kindNames(), ", ")
}
