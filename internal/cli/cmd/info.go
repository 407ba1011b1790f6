package cmd

import (
	"encoding/json"
	"fmt"
	"io"
	"strconv"
	"strings"

	"github.com/jedib0t/go-pretty/v6/table"
	"github.com/spf13/cobra"
	"gopkg.in/yaml.v3"

	"github.com/mungerd/rembobine/internal/probe"
	"github.com/mungerd/rembobine/internal/util"
	"github.com/mungerd/rembobine/internal/util/deps"
	"github.com/mungerd/rembobine/internal/util/format"
)

// infoReport is what `rembobine info` prints.
type infoReport struct {
	Path    string            `json:"path" yaml:"path"`
	Kind    probe.Kind        `json:"kind" yaml:"kind"`
	MIME    string            `json:"mime,omitempty" yaml:"mime,omitempty"`
	Size    int64             `json:"size" yaml:"size"`
	Summary string            `json:"summary" yaml:"summary"`
	Info    probe.Info        `json:"info" yaml:"info"`
	Raw     map[string]string `json:"raw" yaml:"raw"`
}

func newInfoCmd() *cobra.Command {
	var outFormat string
	cmd := &cobra.Command{
		Use:           "info <input>",
		Short:         "Probe a video with mplayer and show its properties",
		SilenceUsage:  true,
		SilenceErrors: true,
		Args:          cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			switch outFormat {
			case "table", "json", "yaml":
			default:
				return &ExitError{Code: ExitCLIError, Err: fmt.Errorf("invalid --format: %q (valid: table|json|yaml)", outFormat)}
			}
			s := settingsFrom(cmd)
			bin, err := deps.FindProbe(s.Mplayer)
			if err != nil {
				return &ExitError{Code: ExitMissingDep, Err: err}
			}
			logger, closer, err := newLogger(s, false)
			if err != nil {
				return &ExitError{Code: ExitCLIError, Err: err}
			}
			defer closer.Close()

			report, err := buildInfoReport(cmd, util.NewDefaultRunner(logger), bin, args[0])
			if err != nil {
				return err
			}
			return writeInfoReport(cmd.OutOrStdout(), report, outFormat)
		},
	}
	cmd.Flags().StringVar(&outFormat, "format", "table", "Output format: table, json, yaml")
	return cmd
}

func buildInfoReport(cmd *cobra.Command, runner util.CmdRunner, bin, path string) (infoReport, error) {
	in, err := probe.Classify(path)
	if err != nil {
		return infoReport{}, &ExitError{Code: ExitCLIError, Err: err}
	}
	mi, err := probe.Identify(cmd.Context(), runner, bin, path)
	if err != nil {
		return infoReport{}, &ExitError{Code: ExitTranscodeError, Err: err}
	}
	decoded, err := mi.Decode()
	if err != nil {
		return infoReport{}, &ExitError{Code: ExitTranscodeError, Err: err}
	}
	return infoReport{
		Path:    in.Path,
		Kind:    in.Kind,
		MIME:    in.MIME,
		Size:    in.Size,
		Summary: mi.Summary(),
		Info:    decoded,
		Raw:     map[string]string(mi),
	}, nil
}

func writeInfoReport(w io.Writer, r infoReport, outFormat string) error {
	switch outFormat {
	case "json":
		enc := json.NewEncoder(w)
		enc.SetIndent("", "  ")
		return enc.Encode(r)
	case "yaml":
		enc := yaml.NewEncoder(w)
		enc.SetIndent(2)
		if err := enc.Encode(r); err != nil {
			return err
		}
		return enc.Close()
	}

	rows := [][]string{
		{"Path", r.Path},
		{"Type", strings.TrimSpace(string(r.Kind) + " " + r.MIME)},
		{"Size", format.HumanizeBytes(r.Size)},
		{"Summary", r.Summary},
	}
	if r.Info.Length > 0 {
		rows = append(rows, []string{"Length", r.Info.Duration().String()})
	}
	if r.Info.VideoBitrate > 0 {
		rows = append(rows, []string{"Video bitrate", strconv.Itoa(r.Info.VideoBitrate/1000) + " kb/s"})
	}
	if r.Info.AudioBitrate > 0 {
		rows = append(rows, []string{"Audio", fmt.Sprintf("%d kb/s, %d Hz, %d ch", r.Info.AudioBitrate/1000, r.Info.AudioRate, r.Info.AudioChannels)})
	}
	if r.Info.Demuxer != "" {
		rows = append(rows, []string{"Demuxer", r.Info.Demuxer})
	}
	_, err := fmt.Fprintln(w, renderTable([]string{"Property", "Value"}, rows))
	return err
}

func renderTable(headers []string, rows [][]string) string {
	tw := table.NewWriter()
	tw.SetStyle(table.StyleRounded)

	header := make(table.Row, len(headers))
	for i, h := range headers {
		header[i] = h
	}
	tw.AppendHeader(header)

	for _, row := range rows {
		r := make(table.Row, len(headers))
		for i := range headers {
			if i < len(row) {
				r[i] = row[i]
			}
		}
		tw.AppendRow(r)
	}
	return tw.Render()
}
