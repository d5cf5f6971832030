package report

import (
	"fmt"
	"io"

	"github.com/fatih/color"
	gojson "github.com/goccy/go-json"
	"gopkg.in/yaml.v3"

	"xdao.co/charsniff/runner"
)

var (
	colorOK     = color.New(color.FgGreen, color.Bold)
	colorBad    = color.New(color.FgRed, color.Bold)
	colorMissed = color.New(color.FgYellow)
)

func init() {
	MustRegister(Renderer{Name: "text", Description: "status lines and a totals line", Render: renderText})
	MustRegister(Renderer{Name: "json", Description: "indented JSON document", Render: renderJSON})
	MustRegister(Renderer{Name: "yaml", Description: "YAML document", Render: renderYAML})
}

func renderText(w io.Writer, sum runner.Summary) error {
	for _, res := range sum.Results {
		line := runner.StatusLine(res.Path, "")
		c := colorOK
		switch res.Status {
		case runner.StatusBad:
			c = colorBad
		case runner.StatusMissed:
			c = colorMissed
		}
		if _, err := fmt.Fprint(w, line); err != nil {
			return err
		}
		if _, err := c.Fprintln(w, string(res.Status)); err != nil {
			return err
		}
		if res.Status == runner.StatusBad && res.Reason != "" {
			if _, err := fmt.Fprintf(w, "  %s\n", res.Reason); err != nil {
				return err
			}
		}
	}
	_, err := fmt.Fprintf(w, "checked=%d bad=%d missing=%d\n", sum.Checked, sum.Bad, sum.Missing)
	return err
}

func renderJSON(w io.Writer, sum runner.Summary) error {
	b, err := gojson.MarshalIndent(NewDocument(sum), "", "  ")
	if err != nil {
		return err
	}
	b = append(b, '\n')
	_, err = w.Write(b)
	return err
}

func renderYAML(w io.Writer, sum runner.Summary) error {
	enc := yaml.NewEncoder(w)
	enc.SetIndent(2)
	if err := enc.Encode(NewDocument(sum)); err != nil {
		return err
	}
	return enc.Close()
}
