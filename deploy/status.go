package deploy

import (
	"bufio"
	"context"
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/rpimedia/rpimedia/config"
	"github.com/rpimedia/rpimedia/lib/command"
)

type UnitStatus struct {
	Process string
	Status  string
	MainPid string
	Started string
}

func parseShowOutput(reader io.Reader) []UnitStatus {
	scanner := bufio.NewScanner(reader)
	results := []UnitStatus{}
	current := UnitStatus{}
	for scanner.Scan() {
		line := scanner.Text()
		if line == "" {
			if current.Process != "" {
				results = append(results, current)
			}
			current = UnitStatus{}
		}
		parts := strings.SplitN(line, "=", 2)
		if len(parts) != 2 {
			continue
		}
		switch parts[0] {
		case "Id":
			current.Process = strings.TrimSuffix(parts[1], ".service")
		case "MainPID":
			if parts[1] == "0" {
				parts[1] = ""
			}
			current.MainPid = parts[1]
		case "ActiveState":
			if parts[1] == "active" {
				parts[1] = "running"
			}
			current.Status = parts[1]
		case "ExecMainStartTimestamp":
			current.Started = parts[1]
		}
	}
	if current.Process != "" {
		results = append(results, current)
	}
	return results
}

func writeTable(table [][]string) string {
	var out string
	lengths := map[int]int{}
	for _, row := range table {
		for i, value := range row {
			if len(value) > lengths[i] {
				lengths[i] = len(value)
			}
		}
	}

	for _, row := range table {
		for i, value := range row {
			format := fmt.Sprintf("%%-%ds", lengths[i]+1)
			out += fmt.Sprintf(format, value)
		}
		out += "\n"
	}
	return out
}

// Status of the unit as a table.
func Status(ctx context.Context, runner command.Outputer, conf config.ServiceConf) (string, error) {
	out, err := runner.Output(ctx, "systemctl", "--user", "show",
		"--property=Id,MainPID,ActiveState,ExecMainStartTimestamp", UnitName(conf))
	if err != nil {
		return "", err
	}
	host, _ := os.Hostname()
	table := [][]string{
		{"Process", "Host", "Status", "PID", "Started"},
	}
	for _, unit := range parseShowOutput(strings.NewReader(string(out))) {
		table = append(table, []string{unit.Process, host, unit.Status, unit.MainPid, unit.Started})
	}
	return writeTable(table), nil
}
