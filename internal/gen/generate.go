// Package gen renders derived validation rules as Go source so services can
// embed the rule set without a database connection.
package gen

import (
	"os"
	"path"

	"github.com/dave/jennifer/jen"

	"github.com/Primosic/validador-opin-2025/internal/maps"
	"github.com/Primosic/validador-opin-2025/internal/rules"
)

const (
	idStructRule   = "Rule"
	idPropField    = "Field"
	idPropType     = "Type"
	idPropSize     = "Size"
	idPropRequired = "Required"
	idPropEnum     = "Enum"
	idVarRules     = "Rules"
)

// Group is one API group's derived rules, keyed by dataset name.
type Group map[string][]rules.Rule

// GenerateCode writes a standalone Go file declaring a Rule struct and a
// Rules map of group -> dataset -> rules. pkgPath is the file path relative
// to workingDir, without the .go suffix; its base becomes the package name.
func GenerateCode(pkgPath string, workingDir string, groups map[string]Group) error {
	f := jen.NewFile(path.Base(pkgPath))
	f.HeaderComment("Code generated by validador gen. DO NOT EDIT.")

	genRuleStruct(f)
	genRulesVar(f, groups)

	return writeRulesToFile(f, pkgPath, workingDir)
}

func genRuleStruct(f *jen.File) {
	f.Type().Id(idStructRule).Struct(
		jen.Id(idPropField).String(),
		jen.Id(idPropType).String(),
		jen.Id(idPropSize).Int(),
		jen.Id(idPropRequired).Bool(),
		jen.Id(idPropEnum).Index().Any(),
	)
	f.Empty()
}

func genRulesVar(f *jen.File, groups map[string]Group) {
	f.Var().Id(idVarRules).Op("=").Map(jen.String()).Map(jen.String()).Index().Id(idStructRule).Values(
		jen.DictFunc(func(d jen.Dict) {
			for _, groupName := range maps.SortedKeys(groups) {
				group := groups[groupName]

				d[jen.Lit(groupName)] = jen.Values(jen.DictFunc(func(dd jen.Dict) {
					for _, datasetName := range maps.SortedKeys(group) {
						dd[jen.Lit(datasetName)] = genRuleSlice(group[datasetName])
					}
				}))
			}
		}),
	)
	f.Empty()
}

func genRuleSlice(list []rules.Rule) jen.Code {
	return jen.ValuesFunc(func(g *jen.Group) {
		for _, r := range list {
			g.Values(jen.DictFunc(func(d jen.Dict) {
				d[jen.Id(idPropField)] = jen.Lit(r.Field)
				d[jen.Id(idPropType)] = jen.Lit(string(r.Type))
				d[jen.Id(idPropSize)] = jen.Lit(r.Size)

				// Zero values stay implicit to keep the output readable.
				if r.Required {
					d[jen.Id(idPropRequired)] = jen.Lit(r.Required)
				}
				if len(r.Enum) > 0 {
					d[jen.Id(idPropEnum)] = genEnumValues(r.Enum)
				}
			}))
		}
	})
}

func genEnumValues(enum []any) jen.Code {
	return jen.Index().Any().ValuesFunc(func(g *jen.Group) {
		for _, v := range enum {
			g.Lit(v)
		}
	})
}

func writeRulesToFile(f *jen.File, pkgPath string, workingDir string) error {
	filePath := path.Join(workingDir, pkgPath) + ".go"

	if err := os.MkdirAll(path.Dir(filePath), 0700); err != nil {
		return err
	}

	return os.WriteFile(filePath, []byte(f.GoString()), 0600)
}
