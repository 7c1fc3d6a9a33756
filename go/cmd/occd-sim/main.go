// Command occd-sim replays the coordinator's canonical end-to-end
// scenarios (all of them, or the one named by --scenario) against a
// real coordinator.Facade and reports pass/fail for each, the way `flowctl test` runs the teacher's own catalog
// tests against a real consumer (go/flowctl/cmd-test.go).
package main

import (
	"context"
	"fmt"
	"os"
	"sort"

	"github.com/fatih/color"
	flags "github.com/jessevdk/go-flags"

	"github.com/estuary/occ/go/coordinator"
	"github.com/estuary/occ/go/dispatcher"
	"github.com/estuary/occ/go/harness"
)

var green = color.New(color.FgGreen).SprintFunc()
var red = color.New(color.FgRed).SprintFunc()

type cmdRun struct {
	Scenario string `long:"scenario" description:"run a single named scenario instead of all of them"`
}

func (cmd cmdRun) Execute(_ []string) error {
	all := harness.Scenarios()

	var names []string
	if cmd.Scenario != "" {
		if _, ok := all[cmd.Scenario]; !ok {
			return fmt.Errorf("no such scenario %q", cmd.Scenario)
		}
		names = []string{cmd.Scenario}
	} else {
		for name := range all {
			names = append(names, name)
		}
		sort.Strings(names)
	}

	var failed bool
	for _, name := range names {
		if err := runOne(name, all[name]); err != nil {
			fmt.Printf("%s %s: %v\n", red("FAIL"), name, err)
			failed = true
		} else {
			fmt.Printf("%s %s\n", green("PASS"), name)
		}
	}
	if failed {
		return fmt.Errorf("one or more scenarios failed")
	}
	return nil
}

func runOne(name string, scenario *harness.Scenario) error {
	disp := dispatcher.New(0, nil)
	disp.Start()
	facade := coordinator.New(disp)

	_, err := harness.Run(context.Background(), facade, scenario)
	return err
}

func main() {
	parser := flags.NewParser(&cmdRun{}, flags.Default)
	if _, err := parser.Parse(); err != nil {
		os.Exit(1)
	}
}
