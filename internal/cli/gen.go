package cli

import (
	"fmt"
	"path"

	"github.com/fatih/color"
	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/Primosic/validador-opin-2025/internal/gen"
	"github.com/Primosic/validador-opin-2025/internal/model/openapi"
	"github.com/Primosic/validador-opin-2025/internal/rules"
)

var (
	genPackage string
	genOut     string
)

var genCmd = &cobra.Command{
	Use:   "gen",
	Short: "Generate Go source with the derived rules",
	Long: `Derive rules from the specs directory and write them as a Go file
services can embed, without a database connection.`,
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg, log, err := setup()
		if err != nil {
			return err
		}
		defer log.Sync()

		groups, err := deriveGroups(cfg.SpecsDir, log)
		if err != nil {
			return err
		}

		if err := gen.GenerateCode(genPackage, genOut, groups); err != nil {
			return err
		}

		color.New(color.FgGreen, color.Bold).Printf("✓ Generated %s.go\n", path.Join(genOut, genPackage))
		return nil
	},
}

func init() {
	genCmd.Flags().StringVar(&genPackage, "package", "opinrules", "output package path, without the .go suffix")
	genCmd.Flags().StringVar(&genOut, "out", ".", "directory the package path is relative to")
}

// deriveGroups derives every document's rules without touching the database.
// Datasets that produce no rules are left out of the bundle.
func deriveGroups(dir string, log *zap.SugaredLogger) (map[string]gen.Group, error) {
	files, err := openapi.FindDocuments(dir)
	if err != nil {
		return nil, err
	}
	if len(files) == 0 {
		return nil, fmt.Errorf(`no YAML documents found in "%s"`, dir)
	}

	deriver := rules.NewDeriver(rules.NewFlattener(), log)
	category := rules.InsuranceCategory{}

	groups := make(map[string]gen.Group)
	for _, file := range files {
		doc, err := openapi.ReadDocument(file)
		if err != nil {
			return nil, fmt.Errorf(`failed to read document "%s": %w`, file, err)
		}

		group := doc.APIName
		if group == "" {
			group = openapi.FallbackAPIName(file)
		}

		g, ok := groups[group]
		if !ok {
			g = make(gen.Group)
			groups[group] = g
		}

		for name, list := range deriver.DeriveDocument(doc, category.Restricted(doc.Source)) {
			if len(list) == 0 {
				continue
			}
			g[name] = list
		}
	}

	return groups, nil
}
