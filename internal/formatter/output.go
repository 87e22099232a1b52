// Package formatter renders assistant results for the terminal.
package formatter

import (
	"encoding/json"
	"fmt"
	"io"
	"strings"
	"unicode/utf8"

	"github.com/fatih/color"
	"gopkg.in/yaml.v3"

	"github.com/clintrovert/ticketpilot/internal/dashboard"
	"github.com/clintrovert/ticketpilot/internal/recommend"
	"github.com/clintrovert/ticketpilot/pkg/types"
)

// Output formats
const (
	FormatHuman = "human"
	FormatJSON  = "json"
	FormatYAML  = "yaml"
)

const ruleWidth = 80

// DashboardOutput is the machine-readable form of a dashboard render
type DashboardOutput struct {
	View           string                `json:"view" yaml:"view"`
	DemoMode       bool                  `json:"demo_mode" yaml:"demo_mode"`
	Focus          *types.Ticket         `json:"focus,omitempty" yaml:"focus,omitempty"`
	Analysis       *types.Analysis       `json:"analysis,omitempty" yaml:"analysis,omitempty"`
	Recommendation *types.Recommendation `json:"recommendation,omitempty" yaml:"recommendation,omitempty"`
	Ranked         []types.RankedTicket  `json:"ranked" yaml:"ranked"`
	Tickets        []types.Ticket        `json:"tickets" yaml:"tickets"`
}

// TicketAnalysisOutput is the machine-readable form of a single-ticket analysis
type TicketAnalysisOutput struct {
	Ticket         *types.Ticket         `json:"ticket" yaml:"ticket"`
	Analysis       *types.Analysis       `json:"analysis" yaml:"analysis"`
	Recommendation *types.Recommendation `json:"recommendation" yaml:"recommendation"`
}

// Printer writes results in one output format
type Printer struct {
	out    io.Writer
	format string
}

// NewPrinter creates a new printer; unknown formats print human output
func NewPrinter(out io.Writer, format string) *Printer {
	return &Printer{out: out, format: strings.ToLower(format)}
}

// Dashboard renders the dashboard state
func (p *Printer) Dashboard(s dashboard.State) error {
	focus, _ := s.FocusTicket()
	var rec *types.Recommendation
	if r, ok := s.Recommendation(); ok {
		rec = &r
	}

	if p.structured() {
		return p.encode(DashboardOutput{
			View:           string(s.View),
			DemoMode:       s.DemoMode,
			Focus:          focus,
			Analysis:       s.Analysis,
			Recommendation: rec,
			Ranked:         s.Ranked(),
			Tickets:        s.Tickets,
		})
	}

	p.header(s)
	switch s.View {
	case dashboard.ViewWork:
		p.workView(focus, rec, s.Ranked())
	default:
		p.analysisView(s, focus)
	}
	p.footer()
	return nil
}

// TicketAnalysis renders the analysis of one ticket
func (p *Printer) TicketAnalysis(t *types.Ticket, a *types.Analysis, rec *types.Recommendation) error {
	if p.structured() {
		return p.encode(TicketAnalysisOutput{Ticket: t, Analysis: a, Recommendation: rec})
	}

	p.ticketCard(t)
	p.analysisBody(a)
	if rec != nil {
		p.recommendation(rec)
	}
	p.footer()
	return nil
}

// Ranked renders the ranked short-list
func (p *Printer) Ranked(ranked []types.RankedTicket) error {
	if p.structured() {
		return p.encode(ranked)
	}
	p.rankedList(ranked)
	return nil
}

// URL renders a ticket URL
func (p *Printer) URL(key, u string) error {
	if p.structured() {
		return p.encode(map[string]string{"key": key, "url": u})
	}
	fmt.Fprintf(p.out, "%s %s\n", color.New(color.FgCyan, color.Bold).Sprint(key), u)
	return nil
}

func (p *Printer) structured() bool {
	return p.format == FormatJSON || p.format == FormatYAML
}

func (p *Printer) encode(v any) error {
	var (
		output []byte
		err    error
	)
	if p.format == FormatYAML {
		output, err = yaml.Marshal(v)
	} else {
		output, err = json.MarshalIndent(v, "", "  ")
	}
	if err != nil {
		return fmt.Errorf("failed to encode output: %w", err)
	}
	fmt.Fprintln(p.out, strings.TrimRight(string(output), "\n"))
	return nil
}

func (p *Printer) header(s dashboard.State) {
	cyan := color.New(color.FgCyan, color.Bold)

	fmt.Fprintln(p.out)
	cyan.Fprint(p.out, "🎯 Personal Ticket Assistant")
	if s.DemoMode {
		fmt.Fprint(p.out, " ", color.New(color.FgBlack, color.BgYellow).Sprint(" DEMO "))
	}
	fmt.Fprintf(p.out, "\n📋 %d open tickets | view: %s\n\n", len(s.Tickets), s.View)
}

func (p *Printer) analysisView(s dashboard.State, focus *types.Ticket) {
	red := color.New(color.FgRed, color.Bold)

	red.Fprintln(p.out, "🔥 TOP PRIORITY:")
	if focus != nil {
		p.ticketCard(focus)
	} else if key := s.TopPriorityKey(); key != "" {
		fmt.Fprintf(p.out, "   %s (not in the current ticket list)\n\n", key)
	} else {
		fmt.Fprint(p.out, "   No top priority identified\n\n")
	}

	p.analysisBody(s.Analysis)

	notable := s.ResolveNotable()
	if len(notable) > 0 {
		color.New(color.FgYellow, color.Bold).Fprintln(p.out, "👀 ALSO WORTH A LOOK:")
		for _, n := range notable {
			summary := n.Note
			if n.Resolved && summary == "" {
				summary = n.Ticket.Summary
			}
			fmt.Fprintf(p.out, "   • %s %s\n", color.CyanString(n.Key), summary)
		}
		fmt.Fprintln(p.out)
	}
}

func (p *Printer) workView(focus *types.Ticket, rec *types.Recommendation, ranked []types.RankedTicket) {
	if focus != nil {
		color.New(color.FgCyan, color.Bold).Fprintln(p.out, "🛠  WORKING ON:")
		p.ticketCard(focus)
	}
	if rec != nil {
		p.recommendation(rec)
	}
	p.rankedList(ranked)
}

func (p *Printer) ticketCard(t *types.Ticket) {
	if t == nil {
		return
	}
	bold := color.New(color.Bold)

	fmt.Fprintf(p.out, "   %s %s\n", color.CyanString(t.Key), bold.Sprint(t.Summary))
	fmt.Fprintf(p.out, "   %s | %s | %d days old | updated %d days ago\n",
		priorityColor(t.Priority).Sprint(t.Priority), t.Status, t.AgeDays, t.StaleDays)
	if len(t.Labels) > 0 {
		fmt.Fprintf(p.out, "   labels: %s\n", strings.Join(t.Labels, ", "))
	}
	fmt.Fprintln(p.out)
}

func (p *Printer) analysisBody(a *types.Analysis) {
	if a == nil {
		return
	}

	if a.Reasoning != "" {
		color.New(color.FgWhite, color.Bold).Fprintln(p.out, "💡 WHY:")
		fmt.Fprintln(p.out, wrapText(a.Reasoning, ruleWidth, "   "))
		fmt.Fprintln(p.out)
	}
	if a.Urgency != "" {
		fmt.Fprintln(p.out, wrapText(a.Urgency, ruleWidth, "   "))
		fmt.Fprintln(p.out)
	}
	if len(a.NextSteps) > 0 {
		color.New(color.FgGreen, color.Bold).Fprintln(p.out, "🚀 NEXT STEPS:")
		for i, step := range a.NextSteps {
			fmt.Fprintf(p.out, "   %d. %s\n", i+1, step)
		}
		fmt.Fprintln(p.out)
	}
	if len(a.HowICanHelp) > 0 {
		color.New(color.FgCyan, color.Bold).Fprintln(p.out, "🤝 I CAN HELP:")
		for _, h := range a.HowICanHelp {
			fmt.Fprintf(p.out, "   • %s\n", h)
		}
		fmt.Fprintln(p.out)
	}
	if a.Context != "" {
		fmt.Fprintf(p.out, "   %s\n\n", color.HiBlackString(a.Context))
	}
}

func (p *Printer) recommendation(rec *types.Recommendation) {
	color.New(color.FgGreen, color.Bold).Fprintf(p.out, "✅ %s\n", strings.ToUpper(rec.Title))
	fmt.Fprintln(p.out, wrapText(rec.Reasoning, ruleWidth, "   "))
	fmt.Fprintf(p.out, "   ⚡ %s: %s\n", rec.Primary.Label, rec.Primary.Instruction)
	fmt.Fprintf(p.out, "   🔹 %s: %s\n\n", rec.Secondary.Label, rec.Secondary.Instruction)
}

func (p *Printer) rankedList(ranked []types.RankedTicket) {
	color.New(color.FgYellow, color.Bold).Fprintln(p.out, "📊 RANKED:")
	if len(ranked) == 0 {
		fmt.Fprint(p.out, "   No tickets\n\n")
		return
	}
	for i, r := range ranked {
		fmt.Fprintf(p.out, "   %d. %s [%d] %s\n", i+1, color.CyanString(r.Ticket.Key), r.Score, r.Ticket.Summary)
		fmt.Fprintf(p.out, "      %s\n", color.HiBlackString(r.Reasoning))
	}
	fmt.Fprintln(p.out)
}

func (p *Printer) footer() {
	fmt.Fprintln(p.out, strings.Repeat("─", ruleWidth))
	fmt.Fprintf(p.out, "💡 %s\n", color.HiBlackString("Run with -o json or -o yaml for machine-readable output"))
}

func priorityColor(priority string) *color.Color {
	p := strings.ToLower(priority)
	switch {
	case recommend.IsTopPriority(priority):
		return color.New(color.FgRed, color.Bold)
	case strings.HasPrefix(p, "p2"), p == "high":
		return color.New(color.FgYellow)
	default:
		return color.New(color.FgWhite)
	}
}

// wrapText wraps each paragraph of text to width runes, prefixing every line with indent.
// A word longer than the width gets a line of its own.
func wrapText(text string, width int, indent string) string {
	var lines []string
	for _, paragraph := range strings.Split(text, "\n") {
		line := indent
		for _, word := range strings.Fields(paragraph) {
			switch {
			case line == indent:
				line += word
			case utf8.RuneCountInString(line)+1+utf8.RuneCountInString(word) > width:
				lines = append(lines, line)
				line = indent + word
			default:
				line += " " + word
			}
		}
		if line == indent {
			line = ""
		}
		lines = append(lines, line)
	}
	return strings.Join(lines, "\n")
}
