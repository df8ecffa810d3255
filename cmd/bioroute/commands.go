package main

import (
	"context"
	"encoding/json"
	"errors"
	"flag"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"sort"
	"strings"
	"text/tabwriter"

	"bioroute/internal/catalog"
	"bioroute/internal/codec"
	"bioroute/internal/domain"
	"bioroute/internal/engine"
	"bioroute/internal/service"
)

// common holds the flags every command shares
type common struct {
	technologies string
	templates    string
	maxNodes     int
	maxEdges     int
}

func newFlagSet(name string, outW io.Writer, c *common) *flag.FlagSet {
	fs := flag.NewFlagSet(name, flag.ContinueOnError)
	fs.SetOutput(outW)
	fs.StringVar(&c.technologies, "catalog", "", "Technologies YAML file (default: embedded catalog)")
	fs.StringVar(&c.templates, "templates", "", "Templates YAML file (default: embedded templates)")
	fs.IntVar(&c.maxNodes, "max-nodes", 500, "Reject routes with more nodes (0 disables)")
	fs.IntVar(&c.maxEdges, "max-edges", 2000, "Reject routes with more edges (0 disables)")
	return fs
}

// parse handles -h and flag errors the same way for every command
func parse(fs *flag.FlagSet, args []string) (bool, error) {
	if err := fs.Parse(args); err != nil {
		if errors.Is(err, flag.ErrHelp) {
			return true, nil
		}
		return false, &ExitError{Code: 2, Message: err.Error()}
	}
	return false, nil
}

func (c *common) routes() (*service.RouteService, error) {
	store, err := catalog.NewStore(catalog.Options{
		TechnologiesPath: c.technologies,
		TemplatesPath:    c.templates,
	})
	if err != nil {
		return nil, err
	}
	limits := engine.Limits{MaxNodes: c.maxNodes, MaxEdges: c.maxEdges}
	return service.NewRouteService(store, engine.New(engine.WithLimits(limits)), nil), nil
}

// readScenario parses a scenario document, choosing the codec by extension
func readScenario(path string) (*domain.Scenario, error) {
	format := "json"
	switch strings.ToLower(filepath.Ext(path)) {
	case ".yaml", ".yml":
		format = "yaml"
	}
	c, err := codec.ForFormat(format)
	if err != nil {
		return nil, err
	}

	f, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	defer f.Close()
	return c.Parse(f)
}

func runCalc(outW io.Writer, args []string) error {
	var c common
	fs := newFlagSet("calc", outW, &c)
	template := fs.String("template", "", "Calculate a template instead of a file")
	output := fs.String("o", "text", "Output: text or json")
	if exit, err := parse(fs, args); exit || err != nil {
		return err
	}

	routes, err := c.routes()
	if err != nil {
		return err
	}

	var route domain.Route
	switch {
	case *template != "":
		tpl, err := routes.Template(*template)
		if err != nil {
			return err
		}
		route = tpl.Route()
	case fs.NArg() == 1:
		sc, err := readScenario(fs.Arg(0))
		if err != nil {
			return err
		}
		route = sc.Route()
	default:
		return &ExitError{Code: 2, Message: "calc needs a scenario file or -template"}
	}

	calc, err := routes.Calculate(context.Background(), route)
	if err != nil {
		if e, ok := engine.AsError(err); ok {
			return &ExitError{Code: 1, Message: fmt.Sprintf("%s: %s", e.Kind, e.Message)}
		}
		return err
	}

	if *output == "json" {
		enc := json.NewEncoder(outW)
		enc.SetIndent("", "  ")
		return enc.Encode(calc)
	}
	printCalculation(outW, calc)
	return nil
}

func printCalculation(outW io.Writer, calc *service.Calculation) {
	s := calc.Summary
	tw := tabwriter.NewWriter(outW, 0, 0, 2, ' ', 0)
	fmt.Fprintf(tw, "Biogas\t%.2f Nm³/day\n", s.BiogasNm3Day)
	fmt.Fprintf(tw, "Methane\t%.2f Nm³/day\n", s.MethaneNm3Day)
	fmt.Fprintf(tw, "Biomethane\t%.2f Nm³/day\n", s.BiomethaneNm3Day)
	fmt.Fprintf(tw, "Electricity\t%.3f MWh/day\t%.1f MWh/year\n", s.ElectricityMWhDay, s.ElectricityMWhYear)
	fmt.Fprintf(tw, "Thermal\t%.3f MWh/day\n", s.ThermalMWhDay)
	fmt.Fprintf(tw, "Revenue\tR$ %.2f /year\n", s.AnnualRevenueBRL)
	fmt.Fprintf(tw, "Emissions avoided\t%.3f tCO2eq/day\t%.1f tCO2eq/year\n", s.EmissionsAvoidedTCO2Day, s.EmissionsAvoidedTCO2Year)
	fmt.Fprintf(tw, "Fingerprint\t%s\n", calc.Fingerprint)
	tw.Flush()
}

func runValidate(outW io.Writer, args []string) error {
	var c common
	fs := newFlagSet("validate", outW, &c)
	if exit, err := parse(fs, args); exit || err != nil {
		return err
	}
	if fs.NArg() != 1 {
		return &ExitError{Code: 2, Message: "validate needs exactly one scenario file"}
	}

	routes, err := c.routes()
	if err != nil {
		return err
	}
	sc, err := readScenario(fs.Arg(0))
	if err != nil {
		return err
	}

	v := routes.Validate(sc.Route())
	for _, i := range v.Errors {
		fmt.Fprintf(outW, "error   %s: %s\n", i.Kind, i.Message)
	}
	for _, i := range v.Warnings {
		fmt.Fprintf(outW, "warning %s: %s\n", i.Kind, i.Message)
	}
	if !v.Valid {
		return &ExitError{Code: 1, Message: fmt.Sprintf("%s: %d error(s)", fs.Arg(0), len(v.Errors))}
	}
	fmt.Fprintf(outW, "%s: ok\n", fs.Arg(0))
	return nil
}

func runTemplates(outW io.Writer, args []string) error {
	var c common
	fs := newFlagSet("templates", outW, &c)
	if exit, err := parse(fs, args); exit || err != nil {
		return err
	}

	routes, err := c.routes()
	if err != nil {
		return err
	}
	tw := tabwriter.NewWriter(outW, 0, 0, 2, ' ', 0)
	fmt.Fprintln(tw, "ID\tNODES\tNAME")
	for _, tpl := range routes.Templates() {
		name := tpl.NameEN
		if name == "" {
			name = tpl.Name
		}
		fmt.Fprintf(tw, "%s\t%d\t%s\n", tpl.ID, len(tpl.Nodes), name)
	}
	return tw.Flush()
}

func runTechnologies(outW io.Writer, args []string) error {
	var c common
	fs := newFlagSet("technologies", outW, &c)
	category := fs.String("category", "", "Only list one category")
	if exit, err := parse(fs, args); exit || err != nil {
		return err
	}

	routes, err := c.routes()
	if err != nil {
		return err
	}
	techs, err := routes.Technologies(*category)
	if err != nil {
		return &ExitError{Code: 2, Message: err.Error()}
	}
	sort.SliceStable(techs, func(i, j int) bool { return techs[i].Category < techs[j].Category })

	tw := tabwriter.NewWriter(outW, 0, 0, 2, ' ', 0)
	fmt.Fprintln(tw, "ID\tCATEGORY\tNAME")
	for _, t := range techs {
		name := t.NameEN
		if name == "" {
			name = t.Name
		}
		fmt.Fprintf(tw, "%s\t%s\t%s\n", t.ID, t.Category, name)
	}
	return tw.Flush()
}

func runExport(outW io.Writer, args []string) error {
	var c common
	fs := newFlagSet("export", outW, &c)
	template := fs.String("template", "", "Template to export")
	format := fs.String("format", "yaml", "Output format: json or yaml")
	if exit, err := parse(fs, args); exit || err != nil {
		return err
	}
	if *template == "" {
		return &ExitError{Code: 2, Message: "export needs -template"}
	}

	cd, err := codec.ForFormat(*format)
	if err != nil {
		return &ExitError{Code: 2, Message: err.Error()}
	}
	routes, err := c.routes()
	if err != nil {
		return err
	}
	tpl, err := routes.Template(*template)
	if err != nil {
		return err
	}

	sc := domain.NewScenario("", tpl.Name, tpl.Route())
	sc.Description = tpl.Description
	return cd.Export(sc, outW)
}
