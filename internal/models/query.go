package models

import (
	"fmt"
	"strings"
)

// PersonaQuery is the role and task pair driving relevance scoring.
// Supplied externally per invocation; read-only.
type PersonaQuery struct {
	Role string `json:"role"`
	Task string `json:"task"`
}

// Validate ensures the query carries at least a role or a task.
func (q *PersonaQuery) Validate() error {
	if strings.TrimSpace(q.Role) == "" && strings.TrimSpace(q.Task) == "" {
		return fmt.Errorf("persona query requires a role or a task")
	}
	return nil
}

// QueryString returns the combined query text used for embedding and scoring.
func (q *PersonaQuery) QueryString() string {
	var parts []string
	if role := strings.TrimSpace(q.Role); role != "" {
		parts = append(parts, "User context: role: "+role)
	}
	if task := strings.TrimSpace(q.Task); task != "" {
		parts = append(parts, "Task: "+task)
	}
	return strings.Join(parts, " ")
}
