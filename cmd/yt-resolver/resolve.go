package main

import (
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"strings"

	"github.com/charmbracelet/lipgloss"
	"github.com/charmbracelet/lipgloss/table"
	"github.com/spf13/cobra"

	"github.com/imbecility/yt-resolver/pkg/models"
	"github.com/imbecility/yt-resolver/pkg/utils"
)

type styles struct {
	Title   lipgloss.Style
	Faint   lipgloss.Style
	Header  lipgloss.Style
	Warning lipgloss.Style
	Border  lipgloss.Style
}

func defaultStyles() styles {
	base := lipgloss.NewStyle()
	return styles{
		Title:   base.Bold(true).Foreground(lipgloss.Color("#7D56F4")),
		Faint:   base.Faint(true),
		Header:  base.Bold(true).Padding(0, 1),
		Warning: base.Foreground(lipgloss.Color("#F59E0B")),
		Border:  base.Foreground(lipgloss.Color("#A3A3A3")),
	}
}

func newResolveCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "resolve <url>",
		Short: "Print metadata and download formats for one link",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			asJSON, _ := cmd.Flags().GetBool("json")

			_, gw, err := loadGateway(cmd)
			if err != nil {
				return err
			}

			env, err := gw.Resolve(cmd.Context(), args[0])
			if err != nil {
				if errors.Is(err, utils.ErrInvalidInput) {
					return &ExitError{Code: ExitInvalidInput, Err: err}
				}
				return err
			}

			if asJSON {
				return writeJSON(cmd.OutOrStdout(), env)
			}
			_, err = io.WriteString(cmd.OutOrStdout(), renderEnvelope(env, defaultStyles()))
			return err
		},
	}

	cmd.Flags().Bool("json", false, "Print the response envelope as JSON")

	return cmd
}

func writeJSON(w io.Writer, env *models.ResponseEnvelope) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	return enc.Encode(env)
}

func renderEnvelope(env *models.ResponseEnvelope, st styles) string {
	var b strings.Builder

	b.WriteString(st.Title.Render(env.Meta.Title))
	b.WriteString("\n")
	b.WriteString(st.Faint.Render(fmt.Sprintf("%s · %s · %s", env.Meta.Author, env.Meta.DurationFormatted, env.Meta.VideoID)))
	b.WriteString("\n")
	if env.Note != "" {
		b.WriteString(st.Warning.Render(env.Note))
		b.WriteString("\n")
	}

	rows := make([][]string, 0, len(env.Formats))
	for _, f := range env.Formats {
		rows = append(rows, []string{string(f.Type), f.Quality, f.Resolution, f.Container, f.Size, f.Bitrate, f.URL})
	}

	t := table.New().
		Border(lipgloss.NormalBorder()).
		BorderStyle(st.Border).
		Headers("TYPE", "QUALITY", "RESOLUTION", "CONTAINER", "SIZE", "BITRATE", "URL").
		Rows(rows...).
		StyleFunc(func(row, _ int) lipgloss.Style {
			if row == table.HeaderRow {
				return st.Header
			}
			return lipgloss.NewStyle().Padding(0, 1)
		})
	b.WriteString(t.String())
	b.WriteString("\n")

	for _, s := range env.DownloadServices {
		b.WriteString(fmt.Sprintf("%s %s\n", st.Faint.Render(s.Name+":"), s.URL))
	}
	return b.String()
}
