// Package report renders task listings for export. It is a pure projection
// over engine output and never touches the store.
package report

import (
	"encoding/json"
	"fmt"
	"strings"

	"gopkg.in/yaml.v3"

	"github.com/xiaona-ai/agent-tasks/internal/queue"
	"github.com/xiaona-ai/agent-tasks/internal/task"
)

// statusOrder is the section order of the markdown report.
var statusOrder = []task.Status{
	task.StatusRunning,
	task.StatusPending,
	task.StatusBlocked,
	task.StatusDone,
	task.StatusFailed,
	task.StatusCancelled,
}

var statusIcons = map[task.Status]string{
	task.StatusPending:   "⏳",
	task.StatusRunning:   "🔄",
	task.StatusDone:      "✅",
	task.StatusFailed:    "❌",
	task.StatusBlocked:   "🔒",
	task.StatusCancelled: "🚫",
}

// Markdown renders a grouped task report with a stats footer.
func Markdown(tasks []task.Task, stats *queue.Stats) string {
	var b strings.Builder
	b.WriteString("# Task Report\n\n")

	byStatus := make(map[task.Status][]task.Task)
	for _, t := range tasks {
		byStatus[t.Status] = append(byStatus[t.Status], t)
	}

	for _, s := range statusOrder {
		group := byStatus[s]
		if len(group) == 0 {
			continue
		}
		title := strings.ToUpper(string(s)[:1]) + string(s)[1:]
		fmt.Fprintf(&b, "## %s %s (%d)\n\n", statusIcons[s], title, len(group))
		for _, t := range group {
			b.WriteString(formatLine(&t))
			if t.Description != "" {
				fmt.Fprintf(&b, "  %s\n", t.Description)
			}
			if t.Result != "" {
				fmt.Fprintf(&b, "  → %s\n", t.Result)
			}
			if t.Error != "" {
				fmt.Fprintf(&b, "  ⚠️ %s\n", t.Error)
			}
		}
		b.WriteString("\n")
	}

	fmt.Fprintf(&b, "---\n*Total: %d | Done: %d | Pending: %d | Failed: %d*\n",
		stats.Total,
		stats.ByStatus[task.StatusDone],
		stats.ByStatus[task.StatusPending],
		stats.ByStatus[task.StatusFailed])
	return b.String()
}

func formatLine(t *task.Task) string {
	var b strings.Builder
	fmt.Fprintf(&b, "- **%s**", t.Name)
	if t.Priority != 3 {
		fmt.Fprintf(&b, " P%d", t.Priority)
	}
	if len(t.Tags) > 0 {
		fmt.Fprintf(&b, " `%s`", strings.Join(t.Tags, ", "))
	}
	if t.DueAt != nil {
		fmt.Fprintf(&b, " 📅 %s", t.DueAt.Format("2006-01-02"))
	}
	fmt.Fprintf(&b, " [%s]\n", t.ID)
	return b.String()
}

// JSON renders the task set as an indented JSON array.
func JSON(tasks []task.Task) (string, error) {
	if tasks == nil {
		tasks = []task.Task{}
	}
	data, err := json.MarshalIndent(tasks, "", "  ")
	if err != nil {
		return "", fmt.Errorf("failed to encode tasks: %w", err)
	}
	return string(data), nil
}

// YAML renders the task set as a YAML document. Records go through their
// JSON form first so the YAML output carries the same field names as the
// store, preserved extra fields included.
func YAML(tasks []task.Task) (string, error) {
	if tasks == nil {
		tasks = []task.Task{}
	}
	jsonData, err := json.Marshal(tasks)
	if err != nil {
		return "", fmt.Errorf("failed to encode tasks: %w", err)
	}
	var generic []map[string]any
	if err := json.Unmarshal(jsonData, &generic); err != nil {
		return "", fmt.Errorf("failed to decode tasks: %w", err)
	}
	data, err := yaml.Marshal(generic)
	if err != nil {
		return "", fmt.Errorf("failed to encode tasks: %w", err)
	}
	return string(data), nil
}
