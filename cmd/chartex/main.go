package main

import (
	"encoding/json"
	"flag"
	"fmt"
	"log/slog"
	"os"
	"strings"

	"github.com/chartex/chartex"
	"github.com/oklog/ulid/v2"
)

// chartex extracts a statechart document from annotated Go source without
// executing it. The document goes to stdout, advisories to stderr.
func main() {
	var (
		src     = flag.String(`src`, `.`, `Go source file or directory to analyze`)
		states  = flag.String(`states`, ``, `comma-separated state type names`)
		id      = flag.String(`id`, ``, `chart id (generated when empty)`)
		initial = flag.String(`initial`, ``, `initial state name (defaults to the first named state)`)
		desc    = flag.String(`description`, ``, `chart description`)
		format  = flag.String(`format`, `json`, `output format: json, yaml or dot`)
	)
	flag.Parse()

	l := slog.New(slog.NewTextHandler(os.Stderr, nil))

	var names []string
	for _, name := range strings.Split(*states, `,`) {
		if name = strings.TrimSpace(name); name != `` {
			names = append(names, name)
		}
	}
	if len(names) == 0 {
		l.Error(`no state type names given, use -states`)
		os.Exit(1)
	}

	if *id == `` {
		*id = ulid.Make().String()
	}
	if *initial == `` {
		*initial = names[0]
	}

	source, err := chartex.ParseSource(*src)
	if err != nil {
		l.Error(`parse source`, `err`, err)
		os.Exit(1)
	}

	chart, err := chartex.ExtractFromDeclarations(source, names, chartex.Config{
		ID:          *id,
		Initial:     chartex.StateRef(*initial),
		Description: *desc,
		Logger:      l,
	})
	if err != nil {
		l.Error(`extract`, `err`, err)
		os.Exit(1)
	}

	for _, adv := range chart.Validate() {
		l.Warn(adv.Message, `state`, string(adv.State))
	}

	var out []byte
	switch *format {
	case `json`:
		out, err = json.MarshalIndent(chart, ``, `  `)
	case `yaml`:
		out, err = chartex.MarshalStatechartYAML(chart)
	case `dot`:
		out = []byte(chartex.RenderDOT(chart))
	default:
		l.Error(`unknown format`, `format`, *format)
		os.Exit(1)
	}
	if err != nil {
		l.Error(`encode document`, `err`, err)
		os.Exit(1)
	}

	fmt.Println(strings.TrimRight(string(out), "\n"))
}
