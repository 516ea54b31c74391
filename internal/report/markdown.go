package report

import (
	"fmt"
	"strings"

	"sysloadbench/internal/results"
	"sysloadbench/stats"
)

// Markdown renders a whole results document as a Markdown report: host
// metadata first, then one statistics table per run.
func Markdown(doc results.Document) string {
	var b strings.Builder

	fmt.Fprintf(&b, "# Benchmark: %s\n\n", doc.Benchmark)
	fmt.Fprintf(&b, "Saved at %s\n\n", doc.SavedAt.Format("2006-01-02 15:04:05 MST"))

	b.WriteString("## System\n\n")
	fmt.Fprintf(&b, "- Go version: %s\n", doc.System.GoVersion)
	fmt.Fprintf(&b, "- Platform: %s\n", doc.System.Platform)
	fmt.Fprintf(&b, "- OS: %s\n", doc.System.OS)
	fmt.Fprintf(&b, "- Host: %s\n", doc.System.Hostname)
	fmt.Fprintf(&b, "- CPU: %s\n", doc.System.CPU)
	if doc.System.GPU != "" {
		fmt.Fprintf(&b, "- GPU: %s\n", doc.System.GPU)
	}
	fmt.Fprintf(&b, "- RAM: %s\n\n", doc.System.RAM)

	for _, name := range doc.RunNames() {
		rs := doc.RunResults[name]
		fmt.Fprintf(&b, "## Run: %s\n\n", name)
		fmt.Fprintf(&b, "Rounds: %d\n\n", len(rs.Duration.Raw))
		writeMarkdownTable(&b, rs)
	}

	return b.String()
}

func writeMarkdownTable(b *strings.Builder, rs stats.RunStats) {
	b.WriteString("| " + strings.Join(tableHeaders, " | ") + " |\n")
	b.WriteString("|" + strings.Repeat("---|", len(tableHeaders)) + "\n")
	for _, row := range [][]string{
		summaryRow("CPU (%)", rs.CPU.Total, 2),
		summaryRow("RAM (Bytes)", rs.RAM.Total, 2),
		summaryRow("Time (Seconds)", rs.Duration.Total, 4),
	} {
		b.WriteString("| " + strings.Join(row, " | ") + " |\n")
	}
	b.WriteString("\n")
}
