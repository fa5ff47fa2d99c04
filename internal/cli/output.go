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
	case User:
		o.printUser(v)
	case AuthResult:
		o.printAuthResult(v)
	case *Session:
		o.printSession(v)
	case JoinResult:
		o.printJoinResult(v)
	case []LeaderboardEntry:
		o.printLeaderboard(v)
	case []SessionWithWinners:
		o.printHistory(v)
	case HealthResult:
		o.printHealthResult(v)
	default:
		// Fallback to JSON for unknown types
		o.printJSON(data)
	}
}

// User response type (matches API)
type User struct {
	ID       string `json:"id"`
	Username string `json:"username"`
	Wins     int    `json:"wins"`
}

// AuthResult combines user and token
type AuthResult struct {
	Token string `json:"token"`
	User  User   `json:"user"`
}

// Player response type
type Player struct {
	UserID         string `json:"userId"`
	Username       string `json:"username"`
	SelectedNumber *int   `json:"selectedNumber,omitempty"`
	IsStarter      bool   `json:"isStarter,omitempty"`
}

// Session response type
type Session struct {
	ID            string    `json:"id"`
	StartTime     time.Time `json:"startTime"`
	EndTime       time.Time `json:"endTime"`
	Status        string    `json:"status"`
	Players       []Player  `json:"players"`
	WinningNumber *int      `json:"winningNumber,omitempty"`
	MaxPlayers    int       `json:"maxPlayers"`
}

// JoinResult response type
type JoinResult struct {
	Status  string   `json:"status"`
	Session *Session `json:"session"`
}

// LeaderboardEntry response type
type LeaderboardEntry struct {
	UserID   string `json:"userId"`
	Username string `json:"username"`
	Wins     int    `json:"wins"`
}

// SessionWithWinners response type
type SessionWithWinners struct {
	Session
	Winners []string `json:"winners"`
}

// HealthResult response type
type HealthResult struct {
	Status string `json:"status"`
}

func (o *Output) printUser(u User) {
	fmt.Printf("User: %s (%s)\n", u.Username, u.ID)
	fmt.Printf("Wins: %d\n", u.Wins)
}

func (o *Output) printAuthResult(a AuthResult) {
	o.printUser(a.User)
	fmt.Printf("Token: %s\n", a.Token)
}

func (o *Output) printSession(s *Session) {
	if s == nil {
		fmt.Println("No current session")
		return
	}

	fmt.Printf("Session: %s\n", s.ID)
	fmt.Printf("Status: %s\n", s.Status)
	fmt.Printf("Starts: %s\n", s.StartTime.Format(time.RFC3339))
	fmt.Printf("Ends: %s\n", s.EndTime.Format(time.RFC3339))
	if s.WinningNumber != nil {
		fmt.Printf("Winning Number: %d\n", *s.WinningNumber)
	}
	fmt.Printf("Players (%d/%d):\n", len(s.Players), s.MaxPlayers)
	for _, p := range s.Players {
		starterStr := ""
		if p.IsStarter {
			starterStr = " [starter]"
		}
		pickStr := "no pick"
		if p.SelectedNumber != nil {
			pickStr = fmt.Sprintf("picked %d", *p.SelectedNumber)
		}
		fmt.Printf("  - %s (%s) - %s%s\n", p.Username, p.UserID, pickStr, starterStr)
	}
}

func (o *Output) printJoinResult(j JoinResult) {
	fmt.Printf("Join: %s\n", j.Status)
	o.printSession(j.Session)
}

func (o *Output) printLeaderboard(entries []LeaderboardEntry) {
	if len(entries) == 0 {
		fmt.Println("No winners yet")
		return
	}
	for i, e := range entries {
		fmt.Printf("%2d. %s - %d wins\n", i+1, e.Username, e.Wins)
	}
}

func (o *Output) printHistory(sessions []SessionWithWinners) {
	if len(sessions) == 0 {
		fmt.Println("No completed sessions")
		return
	}
	for _, s := range sessions {
		winning := "-"
		if s.WinningNumber != nil {
			winning = fmt.Sprintf("%d", *s.WinningNumber)
		}
		fmt.Printf("%s  ended %s  number %s  players %d  winners %d\n",
			s.ID, s.EndTime.Format(time.RFC3339), winning, len(s.Players), len(s.Winners))
	}
}

func (o *Output) printHealthResult(h HealthResult) {
	fmt.Printf("Status: %s\n", h.Status)
}
