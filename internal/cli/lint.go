package cli

import (
	"context"
	"fmt"
	"regexp"
	"sort"
	"strings"

	"github.com/spf13/cobra"

	formgen "github.com/NamazuStudios/elements-formgen"
	pkgopenapi "github.com/NamazuStudios/elements-formgen/pkg/openapi"
	"github.com/NamazuStudios/elements-formgen/pkg/resource"
)

type violation struct {
	file     string
	location string
	message  string
}

func newLintCommand(a *app) *cobra.Command {
	return &cobra.Command{
		Use:   "lint <openapi>...",
		Short: "Lint OpenAPI documents for form extensions the engine cannot use",
		Long: `Lint OpenAPI documents for form extensions the engine cannot use.

Every component schema is converted to resource fields. Unknown validation
groups or directives, conditions on missing fields and patterns that do not
compile are reported.`,
		Args: cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()
			parser := formgen.NewParser()

			var violations []violation
			for _, path := range args {
				linted, err := a.lintFile(ctx, parser, path)
				if err != nil {
					return fmt.Errorf("lint %s: %w", path, err)
				}
				violations = append(violations, linted...)
			}

			if len(violations) == 0 {
				printOK(cmd.OutOrStdout(), "%d document(s) clean", len(args))
				return nil
			}
			sort.Slice(violations, func(i, j int) bool {
				if violations[i].file == violations[j].file {
					if violations[i].location == violations[j].location {
						return violations[i].message < violations[j].message
					}
					return violations[i].location < violations[j].location
				}
				return violations[i].file < violations[j].file
			})
			for _, v := range violations {
				errColor.Fprintf(cmd.OutOrStdout(), "%s: %s -> %s\n", v.file, v.location, v.message)
			}
			return fmt.Errorf("%d lint violation(s)", len(violations))
		},
	}
}

func (a *app) lintFile(ctx context.Context, parser pkgopenapi.Parser, path string) ([]violation, error) {
	doc, err := a.loadDocument(ctx, path)
	if err != nil {
		return nil, err
	}
	components, err := parser.Components(ctx, doc)
	if err != nil {
		return nil, err
	}

	var result []violation
	for _, component := range components {
		fields, err := parser.Fields(ctx, doc, component)
		if err != nil {
			result = append(result, violation{
				file:     path,
				location: formatLocation(component),
				message:  strings.TrimPrefix(err.Error(), "openapi parser: "),
			})
			continue
		}
		result = append(result, lintFields(path, component, fields)...)
	}
	a.logger.Debug().Str("file", path).Int("components", len(components)).Int("violations", len(result)).Msg("document linted")
	return result, nil
}

func lintFields(file, component string, fields []resource.FieldSchema) []violation {
	names := make(map[string]struct{}, len(fields))
	for _, field := range fields {
		names[field.Name] = struct{}{}
	}

	var result []violation
	for _, field := range fields {
		location := formatLocation(component, field.Name)
		if field.Pattern != "" {
			if _, err := regexp.Compile(field.Pattern); err != nil {
				result = append(result, violation{file: file, location: location, message: fmt.Sprintf("pattern does not compile: %v", err)})
			}
		}
		cond := field.ConditionalVisibility
		if cond.Empty() {
			continue
		}
		if cond.DependsOn == field.Name {
			result = append(result, violation{file: file, location: location, message: "visibility condition depends on the field itself"})
			continue
		}
		if _, ok := names[cond.DependsOn]; !ok {
			result = append(result, violation{file: file, location: location, message: fmt.Sprintf("visibility condition depends on unknown field %q", cond.DependsOn)})
		}
	}
	return result
}

func formatLocation(path ...string) string {
	return strings.Join(path, " > ")
}
