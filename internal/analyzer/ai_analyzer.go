package analyzer

import (
	"context"
	"encoding/json"
	"fmt"
	"regexp"
	"strings"

	"github.com/sashabaranov/go-openai"
	"go.uber.org/zap"

	"github.com/clintrovert/ticketpilot/pkg/types"
)

const systemPrompt = "You are a personal work assistant that helps an engineer prioritize support and IT tickets. " +
	"Be specific about why something is urgent and what to do about it."

const descriptionLimit = 300

var debugTags = regexp.MustCompile(`(?is)<(think|debug|reasoning)>.*?</(think|debug|reasoning)>`)

// AIAnalyzer uses OpenAI to analyze ticket workloads
type AIAnalyzer struct {
	client *openai.Client
	logger *zap.Logger
	model  string
}

// NewAIAnalyzer creates a new AI analyzer
func NewAIAnalyzer(apiKey, model string, logger *zap.Logger) *AIAnalyzer {
	return NewAIAnalyzerWithConfig(openai.DefaultConfig(apiKey), model, logger)
}

// NewAIAnalyzerWithConfig creates a new AI analyzer from a client config
func NewAIAnalyzerWithConfig(config openai.ClientConfig, model string, logger *zap.Logger) *AIAnalyzer {
	if model == "" {
		model = openai.GPT4
	}

	return &AIAnalyzer{
		client: openai.NewClientWithConfig(config),
		logger: logger,
		model:  model,
	}
}

// AnalyzeWorkload asks the model for the top priority ticket of the set
func (a *AIAnalyzer) AnalyzeWorkload(ctx context.Context, tickets []types.Ticket) (*types.Analysis, error) {
	if len(tickets) == 0 {
		return nil, fmt.Errorf("no tickets to analyze")
	}

	content, err := a.complete(ctx, a.buildWorkloadPrompt(tickets))
	if err != nil {
		return nil, err
	}

	analysis := parseResponse(content)
	top, ok := findTicket(tickets, analysis.TopPriority)
	if !ok {
		top = extractRecommendedTicket(content, tickets)
	}
	analysis.TopPriority = top.Key
	analysis.OtherNotable = resolveNotable(analysis.OtherNotable, tickets, top.Key)
	analysis.Dependencies = FindDependencies(tickets)
	if analysis.Reasoning == "" {
		analysis.Reasoning = "AI analysis suggests this needs immediate attention"
	}

	a.logger.Info("generated workload analysis",
		zap.String("top_priority", analysis.TopPriority),
		zap.Int("next_steps", len(analysis.NextSteps)),
	)

	return analysis, nil
}

// AnalyzeTicket asks the model for the next steps on a single ticket
func (a *AIAnalyzer) AnalyzeTicket(ctx context.Context, ticket *types.Ticket, related []types.Ticket) (*types.Analysis, error) {
	content, err := a.complete(ctx, a.buildTicketPrompt(ticket, related))
	if err != nil {
		return nil, err
	}

	analysis := parseResponse(content)
	analysis.TopPriority = ticket.Key
	analysis.OtherNotable = []types.NotableTicket{}
	analysis.Context = relatedContext(ticket, related)

	a.logger.Info("generated ticket analysis",
		zap.String("ticket", ticket.Key),
		zap.Int("next_steps", len(analysis.NextSteps)),
	)

	return analysis, nil
}

func (a *AIAnalyzer) complete(ctx context.Context, prompt string) (string, error) {
	resp, err := a.client.CreateChatCompletion(
		ctx,
		openai.ChatCompletionRequest{
			Model: a.model,
			Messages: []openai.ChatCompletionMessage{
				{
					Role:    openai.ChatMessageRoleSystem,
					Content: systemPrompt,
				},
				{
					Role:    openai.ChatMessageRoleUser,
					Content: prompt,
				},
			},
			Temperature: 0.7,
		},
	)

	if err != nil {
		return "", fmt.Errorf("failed to create chat completion: %w", err)
	}

	if len(resp.Choices) == 0 {
		return "", fmt.Errorf("no response from AI")
	}

	return debugTags.ReplaceAllString(resp.Choices[0].Message.Content, ""), nil
}

type promptTicket struct {
	Key           string   `json:"key"`
	Summary       string   `json:"summary"`
	Priority      string   `json:"priority"`
	Status        string   `json:"status"`
	AgeDays       int      `json:"age_days"`
	StaleDays     int      `json:"stale_days"`
	CommentsCount int      `json:"comments_count"`
	Labels        []string `json:"labels"`
	IssueType     string   `json:"issue_type"`
	Description   string   `json:"description"`
}

func toPromptTicket(t types.Ticket) promptTicket {
	desc := t.Description
	if r := []rune(desc); len(r) > descriptionLimit {
		desc = string(r[:descriptionLimit])
	}
	if desc == "" {
		desc = "No description"
	}
	return promptTicket{
		Key:           t.Key,
		Summary:       t.Summary,
		Priority:      t.Priority,
		Status:        t.Status,
		AgeDays:       t.AgeDays,
		StaleDays:     t.StaleDays,
		CommentsCount: t.CommentsCount,
		Labels:        t.Labels,
		IssueType:     t.IssueType,
		Description:   desc,
	}
}

func (a *AIAnalyzer) buildWorkloadPrompt(tickets []types.Ticket) string {
	summaries := make([]promptTicket, 0, len(tickets))
	for _, t := range tickets {
		summaries = append(summaries, toPromptTicket(t))
	}
	data, _ := json.MarshalIndent(summaries, "", "  ")

	var sb strings.Builder

	sb.WriteString(fmt.Sprintf("I have %d open tickets that need attention.\n\n", len(tickets)))
	sb.WriteString("My tickets:\n")
	sb.Write(data)
	sb.WriteString("\n\n")

	sb.WriteString("Priority rules:\n")
	sb.WriteString("1. P1/Critical tickets should almost always take priority over P3/Low tickets\n")
	sb.WriteString("2. \"In Progress\" tickets often need attention to keep momentum\n")
	sb.WriteString("3. Very old tickets (300+ days) are likely not urgent unless they are high priority\n")
	sb.WriteString("4. Look for security issues, failures, or blocking problems regardless of formal priority\n")
	sb.WriteString("5. Tickets labelled VOC_Feedback have direct customer impact\n\n")

	sb.WriteString("Format your response as:\n")
	sb.WriteString("TOP_PRIORITY: <exact ticket key>\n")
	sb.WriteString("REASONING: <one or two sentences on why it is urgent>\n")
	sb.WriteString("SUMMARY: <short conversational summary of the workload>\n")
	sb.WriteString("NEXT_STEPS:\n")
	sb.WriteString("- <concrete step>\n")
	sb.WriteString("CAN_HELP:\n")
	sb.WriteString("- <way you can help>\n")
	sb.WriteString("NOTABLE:\n")
	sb.WriteString("- <ticket key>: <why it is worth a look>\n")

	return sb.String()
}

func (a *AIAnalyzer) buildTicketPrompt(ticket *types.Ticket, related []types.Ticket) string {
	var sb strings.Builder

	sb.WriteString("I need help with this ticket:\n\n")
	sb.WriteString(fmt.Sprintf("Ticket: %s - %s\n", ticket.Key, ticket.Summary))
	sb.WriteString(fmt.Sprintf("Priority: %s | Status: %s\n", ticket.Priority, ticket.Status))
	sb.WriteString(fmt.Sprintf("Age: %d days | Stale: %d days\n", ticket.AgeDays, ticket.StaleDays))
	sb.WriteString(fmt.Sprintf("Comments: %d | Type: %s\n", ticket.CommentsCount, ticket.IssueType))
	sb.WriteString(fmt.Sprintf("Labels: %s\n\n", strings.Join(ticket.Labels, ", ")))
	sb.WriteString("Description: " + ticket.Description + "\n\n")

	if len(related) > 0 {
		sb.WriteString("Other tickets in my queue:\n")
		for _, t := range related {
			if t.Key == ticket.Key {
				continue
			}
			sb.WriteString(fmt.Sprintf("- %s: %s\n", t.Key, t.Summary))
		}
		sb.WriteString("\n")
	}

	sb.WriteString("Suggest the most logical next steps to move this ticket forward. ")
	sb.WriteString("If there are files to check, configs to review, or people to contact, mention them.\n\n")

	sb.WriteString("Format your response as:\n")
	sb.WriteString("REASONING: <why this ticket matters now>\n")
	sb.WriteString("SUMMARY: <short assessment of where it stands>\n")
	sb.WriteString("NEXT_STEPS:\n")
	sb.WriteString("- <concrete step>\n")
	sb.WriteString("CAN_HELP:\n")
	sb.WriteString("- <way you can help>\n")

	return sb.String()
}

func parseResponse(response string) *types.Analysis {
	analysis := &types.Analysis{
		NextSteps:    []string{},
		HowICanHelp:  []string{},
		OtherNotable: []types.NotableTicket{},
	}

	lines := strings.Split(response, "\n")
	var currentSection string

	for _, line := range lines {
		line = strings.TrimSpace(line)
		if line == "" {
			continue
		}

		if value, ok := cutPrefix(line, "TOP_PRIORITY:"); ok {
			analysis.TopPriority = strings.Trim(value, "*` ")
			currentSection = ""
		} else if value, ok := cutPrefix(line, "REASONING:"); ok {
			analysis.Reasoning = value
			currentSection = "reasoning"
		} else if value, ok := cutPrefix(line, "SUMMARY:"); ok {
			analysis.Urgency = value
			currentSection = "summary"
		} else if _, ok := cutPrefix(line, "NEXT_STEPS:"); ok {
			currentSection = "steps"
		} else if _, ok := cutPrefix(line, "CAN_HELP:"); ok {
			currentSection = "help"
		} else if _, ok := cutPrefix(line, "NOTABLE:"); ok {
			currentSection = "notable"
		} else {
			switch currentSection {
			case "reasoning":
				analysis.Reasoning += " " + line
			case "summary":
				analysis.Urgency += " " + line
			case "steps":
				if item := listItem(line); item != "" {
					analysis.NextSteps = append(analysis.NextSteps, item)
				}
			case "help":
				if item := listItem(line); item != "" {
					analysis.HowICanHelp = append(analysis.HowICanHelp, item)
				}
			case "notable":
				if item := listItem(line); item != "" {
					key, note, _ := strings.Cut(item, ":")
					analysis.OtherNotable = append(analysis.OtherNotable, types.NotableTicket{
						Key:  strings.Trim(strings.TrimSpace(key), "*`"),
						Note: strings.TrimSpace(note),
					})
				}
			}
		}
	}

	if analysis.Urgency == "" {
		analysis.Urgency = strings.TrimSpace(response)
	}

	return analysis
}

func cutPrefix(line, prefix string) (string, bool) {
	if len(line) < len(prefix) || !strings.EqualFold(line[:len(prefix)], prefix) {
		return "", false
	}
	return strings.TrimSpace(line[len(prefix):]), true
}

// listItem strips bullet or number markers from a list line
func listItem(line string) string {
	line = strings.TrimLeft(line, "-*• ")
	if idx := strings.Index(line, "."); idx > 0 && idx <= 3 && isDigits(line[:idx]) {
		line = line[idx+1:]
	}
	return strings.TrimSpace(line)
}

func isDigits(s string) bool {
	for _, r := range s {
		if r < '0' || r > '9' {
			return false
		}
	}
	return s != ""
}

// extractRecommendedTicket returns the first ticket whose key the text mentions,
// or the first ticket when none is mentioned
func extractRecommendedTicket(text string, tickets []types.Ticket) *types.Ticket {
	upper := strings.ToUpper(text)
	for i := range tickets {
		if strings.Contains(upper, strings.ToUpper(tickets[i].Key)) {
			return &tickets[i]
		}
	}
	return &tickets[0]
}

// resolveNotable keeps notable entries that name held tickets other than the top priority
func resolveNotable(notable []types.NotableTicket, tickets []types.Ticket, topKey string) []types.NotableTicket {
	out := make([]types.NotableTicket, 0, types.MaxNotable)
	for _, n := range notable {
		if len(out) == types.MaxNotable {
			break
		}
		t, ok := findTicket(tickets, n.Key)
		if !ok || t.Key == topKey {
			continue
		}
		note := n.Note
		if note == "" {
			note = t.Summary
		}
		out = append(out, types.NotableTicket{Key: t.Key, Note: note})
	}
	return out
}
