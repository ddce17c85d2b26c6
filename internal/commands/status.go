package commands

import (
	"context"
	"fmt"

	"github.com/jedib0t/go-pretty/v6/table"
	"github.com/jedib0t/go-pretty/v6/text"

	"github.com/jeanhaley32/bluepill/internal/docker"
	"github.com/jeanhaley32/bluepill/internal/state"
)

// StatusOptions configures `bluepill status`.
type StatusOptions struct {
	Name string
}

// Status prints the names derived for the current directory and whether the
// image and container exist. It never changes engine state.
func (a *App) Status(ctx context.Context, opts StatusOptions) error {
	id, err := a.Identity.Derive(opts.Name)
	if err != nil {
		return err
	}

	var hostEnv docker.HostEnv
	if a.HostEnv != nil {
		hostEnv = a.HostEnv()
	}

	st, err := state.NewDetector(a.Engine, hostEnv).Detect(ctx, id)
	if err != nil {
		return err
	}

	rows := [][]string{
		{"Directory", id.Dir},
		{"Hostname", id.Hostname},
		{"Image", id.ImageName},
		{"Image built", yesNo(st.ImageExists)},
		{"Container", id.ContainerName},
		{"Container state", containerState(st)},
	}
	if st.ContainerExists {
		rows = append(rows,
			[]string{"Container ID", shortID(st.ContainerID)},
			[]string{"Container image", st.ContainerImage},
		)
	}
	rows = append(rows,
		[]string{"SSH", st.SSHForwarding},
		[]string{"Config file", a.ConfigPath},
		[]string{"Cache dir", a.CacheDir},
	)

	fmt.Fprintln(a.Out, renderTable([]string{"Property", "Value"}, rows))
	return nil
}

func containerState(st *state.EnvironmentState) string {
	if !st.ContainerExists {
		return "not created"
	}
	if st.ContainerState != "" {
		return st.ContainerState
	}
	if st.ContainerRunning {
		return "running"
	}
	return "stopped"
}

// shortID truncates an engine id the way docker ps shows it.
func shortID(id string) string {
	if len(id) > 12 {
		return id[:12]
	}
	return id
}

func yesNo(b bool) string {
	if b {
		return "yes"
	}
	return "no"
}

func renderTable(headers []string, rows [][]string) string {
	columns := len(headers)
	if columns == 0 {
		return ""
	}

	tw := table.NewWriter()
	tw.SetStyle(table.StyleRounded)

	header := make(table.Row, columns)
	for i := 0; i < columns; i++ {
		header[i] = headers[i]
	}
	tw.AppendHeader(header)

	for _, row := range rows {
		r := make(table.Row, columns)
		for i := 0; i < columns; i++ {
			if i < len(row) {
				r[i] = row[i]
			} else {
				r[i] = ""
			}
		}
		tw.AppendRow(r)
	}

	columnConfigs := make([]table.ColumnConfig, 0, columns)
	for i := 0; i < columns; i++ {
		columnConfigs = append(columnConfigs, table.ColumnConfig{
			Number:      i + 1,
			Align:       text.AlignLeft,
			AlignHeader: text.AlignLeft,
		})
	}
	tw.SetColumnConfigs(columnConfigs)

	return tw.Render()
}
