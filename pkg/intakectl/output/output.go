package output

import (
	"encoding/json"
	"fmt"
	"io"
	"strings"
	"text/tabwriter"
	"time"

	"gopkg.in/yaml.v3"

	"github.com/telekom/contact-intake/pkg/intakectl/client"
)

type Format string

const (
	FormatTable Format = "table"
	FormatJSON  Format = "json"
	FormatYAML  Format = "yaml"
)

// WriteObject renders obj in the given structured format. Table output has
// per-type writers and is rejected here.
func WriteObject(w io.Writer, format Format, obj any) error {
	switch format {
	case FormatJSON:
		data, err := json.MarshalIndent(obj, "", "  ")
		if err != nil {
			return err
		}
		_, err = fmt.Fprintln(w, string(data))
		return err
	case FormatYAML:
		data, err := yaml.Marshal(obj)
		if err != nil {
			return err
		}
		_, err = fmt.Fprint(w, string(data))
		return err
	case FormatTable:
		return fmt.Errorf("table format requires a specific formatter")
	default:
		return fmt.Errorf("unknown output format: %s", format)
	}
}

// WriteSubmissionTable renders submissions as an aligned table, newest first
// as returned by the API.
func WriteSubmissionTable(w io.Writer, submissions []client.Submission) {
	tw := tabwriter.NewWriter(w, 2, 4, 2, ' ', 0)
	_, _ = fmt.Fprintln(tw, "REFERENCE\tNAME\tEMAIL\tRECEIVED\tMESSAGE")
	for _, s := range submissions {
		_, _ = fmt.Fprintf(tw, "%s\t%s\t%s\t%s\t%s\n",
			s.Reference, s.Name, s.Email, formatTime(s.CreatedAt), truncate(s.Message, 48))
	}
	_ = tw.Flush()
}

// WriteSubmissionDetail renders a single submission including the full message.
func WriteSubmissionDetail(w io.Writer, s *client.Submission) {
	tw := tabwriter.NewWriter(w, 2, 4, 2, ' ', 0)
	_, _ = fmt.Fprintf(tw, "Reference:\t%s\n", s.Reference)
	_, _ = fmt.Fprintf(tw, "Name:\t%s\n", s.Name)
	_, _ = fmt.Fprintf(tw, "Email:\t%s\n", s.Email)
	_, _ = fmt.Fprintf(tw, "Received:\t%s\n", formatTime(s.CreatedAt))
	if s.SourceIP != "" {
		_, _ = fmt.Fprintf(tw, "Source IP:\t%s\n", s.SourceIP)
	}
	if s.UserAgent != "" {
		_, _ = fmt.Fprintf(tw, "User agent:\t%s\n", s.UserAgent)
	}
	_ = tw.Flush()
	_, _ = fmt.Fprintf(w, "\n%s\n", s.Message)
}

// truncate shortens s to at most max characters, counting runes so a
// multi-byte character is never split.
func truncate(s string, max int) string {
	s = strings.ReplaceAll(s, "\n", " ")
	runes := []rune(s)
	if len(runes) <= max {
		return s
	}
	return string(runes[:max-3]) + "..."
}

func formatTime(t time.Time) string {
	if t.IsZero() {
		return "-"
	}
	return t.Format(time.RFC3339)
}
