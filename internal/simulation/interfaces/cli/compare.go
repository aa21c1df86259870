package cli

import (
	"encoding/json"
	"fmt"
	"strings"

	"github.com/spf13/cobra"
	"github.com/wyfcoding/rentvsbuy/internal/simulation/application"
)

type compareOptions struct {
	preset  string
	sets    []string
	bands   bool
	overlay bool
	locales []string
}

func newCompareCommand(root *rootOptions) *cobra.Command {
	opts := &compareOptions{}
	cmd := &cobra.Command{
		Use:   "compare",
		Short: "Run one comparison locally and print the result as JSON",
		Example: `  rentvsbuy compare --preset tampa --set n_paths=2000 --set show_real=true
  rentvsbuy compare --overlay --set monthly_savings=6000`,
		RunE: func(cmd *cobra.Command, _ []string) error {
			cfg, err := root.load(cmd)
			if err != nil {
				return err
			}
			overrides, err := parseSets(opts.sets)
			if err != nil {
				return err
			}

			ctx := cmd.Context()
			deps, err := buildDependencies(ctx, cfg, stderrLogger(cfg, cmd.ErrOrStderr()))
			if err != nil {
				return err
			}
			defer deps.Close()

			base := application.CompareCommand{Preset: opts.preset, Overrides: overrides, IncludeBands: opts.bands}
			var out any
			if opts.overlay {
				out, err = deps.app.CompareOverlay(ctx, application.OverlayCommand{CompareCommand: base, Presets: opts.locales})
			} else {
				out, err = deps.app.Compare(ctx, base)
			}
			if err != nil {
				return err
			}

			enc := json.NewEncoder(cmd.OutOrStdout())
			enc.SetIndent("", "  ")
			return enc.Encode(out)
		},
	}

	f := cmd.Flags()
	f.StringVarP(&opts.preset, "preset", "p", "", "locale preset to start from")
	f.StringArrayVarP(&opts.sets, "set", "s", nil, "parameter override as key=value, repeatable")
	f.BoolVar(&opts.bands, "bands", false, "include P10/P50/P90 wealth bands per month")
	f.BoolVar(&opts.overlay, "overlay", false, "apply the base financials to every locale preset")
	f.StringSliceVar(&opts.locales, "locales", nil, "presets to include in the overlay, default all")
	return cmd
}

// parseSets 解析 key=value 覆盖项，取值保留为字符串，由参数解码做类型转换
func parseSets(sets []string) (map[string]any, error) {
	if len(sets) == 0 {
		return nil, nil
	}
	out := make(map[string]any, len(sets))
	for _, s := range sets {
		key, value, ok := strings.Cut(s, "=")
		key = strings.TrimSpace(key)
		if !ok || key == "" {
			return nil, fmt.Errorf("invalid --set %q, want key=value", s)
		}
		out[key] = strings.TrimSpace(value)
	}
	return out, nil
}
