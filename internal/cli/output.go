package cli

import (
	"encoding/json"
	"fmt"
	"os"
	"time"
)

// Output handles formatting output based on the configured format
type Output struct {
	format string
}

// NewOutput creates a new Output formatter
func NewOutput(format string) *Output {
	return &Output{format: format}
}

// Print outputs data in the configured format
func (o *Output) Print(data any) {
	if o.format == "json" {
		o.printJSON(data)
	} else {
		o.printText(data)
	}
}

// PrintError outputs an error
func (o *Output) PrintError(err error) {
	if o.format == "json" {
		errData := map[string]any{
			"error": map[string]string{
				"message": err.Error(),
			},
		}
		data, _ := json.Marshal(errData)
		fmt.Fprintln(os.Stderr, string(data))
	} else {
		fmt.Fprintf(os.Stderr, "Error: %s\n", err)
	}
}

// PrintMessage outputs a simple message
func (o *Output) PrintMessage(msg string) {
	if o.format == "json" {
		data, _ := json.Marshal(map[string]string{"message": msg})
		fmt.Println(string(data))
	} else {
		fmt.Println(msg)
	}
}

func (o *Output) printJSON(data any) {
	enc := json.NewEncoder(os.Stdout)
	enc.SetIndent("", "  ")
	_ = enc.Encode(data)
}

func (o *Output) printText(data any) {
	switch v := data.(type) {
	case CreateSessionResult:
		o.printCreateSession(v)
	case JoinResult:
		o.printJoinResult(v)
	case Snapshot:
		o.printSnapshot(v)
	case SessionList:
		o.printSessionList(v)
	case HealthResult:
		o.printHealthResult(v)
	default:
		// Fallback to JSON for unknown types
		o.printJSON(data)
	}
}

// CreateSessionResult response type (matches API)
type CreateSessionResult struct {
	Code       string `json:"code"`
	AdminToken uint32 `json:"admin_token"`
}

// Player response type
type Player struct {
	ID       uint32    `json:"id"`
	Name     string    `json:"name,omitempty"`
	JoinedAt time.Time `json:"joined_at"`
}

// JoinResult response type
type JoinResult struct {
	PlayerToken uint32 `json:"player_token"`
	Player      Player `json:"player"`
}

// Snapshot response type
type Snapshot struct {
	Code    string   `json:"code"`
	Phase   string   `json:"phase"`
	Players []Player `json:"players"`
}

// SessionRecord response type
type SessionRecord struct {
	Code        string     `json:"code"`
	Phase       string     `json:"phase"`
	PlayerCount int        `json:"player_count"`
	CreatedAt   time.Time  `json:"created_at"`
	StartedAt   *time.Time `json:"started_at,omitempty"`
}

// SessionList response type
type SessionList struct {
	Sessions []SessionRecord `json:"sessions"`
}

// HealthResult response type
type HealthResult struct {
	Status string `json:"status"`
}

func (o *Output) printCreateSession(s CreateSessionResult) {
	fmt.Printf("Session: %s\n", s.Code)
	fmt.Printf("Admin token: %d\n", s.AdminToken)
}

func (o *Output) printJoinResult(j JoinResult) {
	fmt.Printf("Joined as player %d", j.Player.ID)
	if j.Player.Name != "" {
		fmt.Printf(" (%s)", j.Player.Name)
	}
	fmt.Println()
	fmt.Printf("Player token: %d\n", j.PlayerToken)
}

func (o *Output) printSnapshot(s Snapshot) {
	fmt.Printf("Session: %s\n", s.Code)
	fmt.Printf("Phase: %s\n", s.Phase)
	fmt.Printf("Players (%d):\n", len(s.Players))
	for _, p := range s.Players {
		if p.Name != "" {
			fmt.Printf("  %d  %s\n", p.ID, p.Name)
		} else {
			fmt.Printf("  %d\n", p.ID)
		}
	}
}

func (o *Output) printSessionList(l SessionList) {
	if len(l.Sessions) == 0 {
		fmt.Println("No sessions")
		return
	}
	for _, s := range l.Sessions {
		fmt.Printf("%s  %-8s  %d players  created %s\n",
			s.Code, s.Phase, s.PlayerCount, s.CreatedAt.Format(time.RFC3339))
	}
}

func (o *Output) printHealthResult(h HealthResult) {
	fmt.Printf("Status: %s\n", h.Status)
}
