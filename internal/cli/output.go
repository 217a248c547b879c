package cli

import (
	"encoding/json"
	"fmt"
	"os"
	"sort"
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
	case GroupRound:
		o.printGroupRound(v)
	case Round:
		o.printRound(v)
	case []Round:
		o.printRoundList(v)
	case HealthResult:
		o.printHealthResult(v)
	default:
		// Fallback to JSON for unknown types
		o.printJSON(data)
	}
}

// User response type (matches API)
type User struct {
	ID        string `json:"id"`
	Username  string `json:"username"`
	CreatedAt int64  `json:"created_at"`
}

// Player response type
type Player struct {
	ID       string `json:"id"`
	Name     string `json:"name"`
	JoinedAt int64  `json:"joined_at"`
	Finished bool   `json:"finished"`
}

// GroupRound response type
type GroupRound struct {
	Code        string           `json:"code"`
	CourseID    string           `json:"course_id"`
	Tee         string           `json:"tee"`
	TeeLabel    string           `json:"tee_label"`
	Date        string           `json:"date"`
	CreatedBy   string           `json:"created_by"`
	Status      string           `json:"status"`
	Players     []Player         `json:"players"`
	Scores      map[string][]int `json:"scores"`
	CurrentHole map[string]int   `json:"current_hole"`
}

// Round response type (solo or saved)
type Round struct {
	ID          string           `json:"id"`
	CourseID    string           `json:"course_id"`
	Tee         string           `json:"tee"`
	Date        string           `json:"date"`
	Players     []string         `json:"players"`
	Scores      map[string][]int `json:"scores"`
	CurrentHole int              `json:"current_hole"`
}

// HealthResult response type
type HealthResult struct {
	Status  string `json:"status"`
	Backend string `json:"backend"`
}

func (o *Output) printUser(u User) {
	fmt.Printf("User: %s (%s)\n", u.Username, u.ID)
}

func (o *Output) printGroupRound(g GroupRound) {
	fmt.Printf("Round: %s\n", g.Code)
	fmt.Printf("Course: %s", g.CourseID)
	if g.Tee != "" {
		fmt.Printf(" (%s tees)", g.Tee)
	}
	fmt.Println()
	fmt.Printf("Date: %s\n", g.Date)
	fmt.Printf("Status: %s\n", g.Status)

	players := append([]Player(nil), g.Players...)
	sort.Slice(players, func(i, j int) bool { return players[i].JoinedAt < players[j].JoinedAt })

	fmt.Printf("Players (%d):\n", len(players))
	for _, p := range players {
		finishedStr := ""
		if p.Finished {
			finishedStr = " [finished]"
		}
		total := 0
		for _, s := range g.Scores[p.ID] {
			total += s
		}
		fmt.Printf("  - %s: %d strokes, on hole %d%s\n", p.Name, total, g.CurrentHole[p.ID]+1, finishedStr)
	}
}

func (o *Output) printRound(r Round) {
	if r.ID != "" {
		fmt.Printf("Round: %s\n", r.ID)
	}
	fmt.Printf("Course: %s\n", r.CourseID)
	fmt.Printf("Date: %s\n", r.Date)
	for _, name := range r.Players {
		total := 0
		for _, s := range r.Scores[name] {
			total += s
		}
		fmt.Printf("  - %s: %d strokes\n", name, total)
	}
}

func (o *Output) printRoundList(rounds []Round) {
	if len(rounds) == 0 {
		fmt.Println("No saved rounds")
		return
	}
	fmt.Printf("Saved rounds (%d):\n", len(rounds))
	for _, r := range rounds {
		fmt.Printf("  %s  %s  %s\n", r.ID, r.Date, r.CourseID)
	}
}

func (o *Output) printHealthResult(h HealthResult) {
	fmt.Printf("Status: %s\n", h.Status)
	fmt.Printf("Backend: %s\n", h.Backend)
}
