package cli

import (
	"fmt"
	"io"
	"maps"
	"slices"
	"strings"

	"github.com/fatih/color"

	"github.com/mars-sim/mars-sim-sub009/internal/adapters/grpc"
	"github.com/mars-sim/mars-sim-sub009/internal/application/mission/commands"
	"github.com/mars-sim/mars-sim-sub009/internal/domain/mission"
)

var (
	green  = color.New(color.FgGreen).SprintFunc()
	yellow = color.New(color.FgYellow).SprintFunc()
	red    = color.New(color.FgRed).SprintFunc()
	cyan   = color.New(color.FgCyan, color.Bold).SprintFunc()
	gray   = color.New(color.FgHiBlack).SprintFunc()
)

// missionState summarises where a mission stands in one word
func missionState(m *mission.MissionData) string {
	switch {
	case m.Aborted:
		return "ABORTED"
	case m.Done:
		return "DONE"
	case m.Plan != nil && m.Plan.Status == string(mission.PlanPending):
		return "REVIEW"
	default:
		return "ACTIVE"
	}
}

// colorState pads before colouring so escape codes do not break the columns
func colorState(state string, width int) string {
	padded := fmt.Sprintf("%-*s", width, state)
	switch state {
	case "ACTIVE":
		return green(padded)
	case "REVIEW":
		return yellow(padded)
	case "ABORTED":
		return red(padded)
	default:
		return gray(padded)
	}
}

func colorPlanStatus(status string) string {
	switch mission.PlanStatus(status) {
	case mission.PlanApproved:
		return green(status)
	case mission.PlanNotApproved:
		return red(status)
	default:
		return yellow(status)
	}
}

func truncate(s string, max int) string {
	if len(s) <= max {
		return s
	}
	if max <= 3 {
		return s[:max]
	}
	return s[:max-3] + "..."
}

// writeMissionTable prints one row per mission
func writeMissionTable(w io.Writer, missions []*mission.MissionData) {
	if len(missions) == 0 {
		fmt.Fprintln(w, "No missions found")
		return
	}

	fmt.Fprintf(w, "%-5s %-22s %-14s %-24s %-8s %-7s %s\n",
		"ID", "TYPE", "SETTLEMENT", "PHASE", "STATE", "MEMBERS", "DESIGNATION")
	fmt.Fprintln(w, strings.Repeat("-", 100))
	for _, m := range missions {
		fmt.Fprintf(w, "%-5d %-22s %-14s %-24s %s %-7d %s\n",
			m.ID,
			truncate(m.Type, 22),
			truncate(m.Settlement, 14),
			truncate(m.Phase, 24),
			colorState(missionState(m), 8),
			len(m.Members),
			m.Designation,
		)
	}
	fmt.Fprintf(w, "\n%d mission(s)\n", len(missions))
}

// writeMissionDetail prints the full read model of one mission
func writeMissionDetail(w io.Writer, view *grpc.MissionViewResponse) {
	m := view.Mission
	source := "live"
	if !view.Live {
		source = "archived"
	}

	fmt.Fprintf(w, "%s %s (%s)\n", cyan(fmt.Sprintf("Mission #%d", m.ID)), m.Name, source)
	fmt.Fprintf(w, "  Designation:  %s\n", m.Designation)
	fmt.Fprintf(w, "  Type:         %s\n", m.Type)
	fmt.Fprintf(w, "  Settlement:   %s\n", m.Settlement)
	fmt.Fprintf(w, "  Started by:   %s\n", m.Starter)
	fmt.Fprintf(w, "  State:        %s\n", colorState(missionState(m), 0))
	fmt.Fprintf(w, "  Phase:        %s\n", m.Phase)
	if m.PhaseDescription != "" {
		fmt.Fprintf(w, "                %s\n", gray(m.PhaseDescription))
	}
	fmt.Fprintf(w, "  Priority:     %d\n", m.Priority)
	fmt.Fprintf(w, "  Members:      %d/%d (min %d)\n", len(m.Members), m.Capacity, m.MinMembers)
	for _, member := range m.Members {
		fmt.Fprintf(w, "    - %s\n", member)
	}
	if len(m.Statuses) > 0 {
		fmt.Fprintf(w, "  Statuses:     %s\n", red(strings.Join(m.Statuses, ", ")))
	}

	if m.Plan != nil {
		fmt.Fprintln(w, "\nPlan:")
		fmt.Fprintf(w, "  Status:       %s\n", colorPlanStatus(m.Plan.Status))
		fmt.Fprintf(w, "  Score:        %.1f (average %.1f)\n", m.Plan.Score, m.Plan.AverageScore)
		fmt.Fprintf(w, "  Reviewed:     %.0f%% (%d of min %d)\n", m.Plan.PercentComplete, len(m.Plan.Reviewers), m.Plan.MinReviewers)
	}

	if m.Vehicle != "" {
		fmt.Fprintln(w, "\nTravel:")
		fmt.Fprintf(w, "  Vehicle:      %s\n", m.Vehicle)
		if m.TravelStatus != "" {
			fmt.Fprintf(w, "  Status:       %s\n", m.TravelStatus)
		}
		fmt.Fprintf(w, "  Distance:     %.1f of %.1f km (%.1f km left)\n",
			m.DistanceTravelled, m.TotalDistance, m.RemainingDistance)
		for i, nav := range m.Navpoints {
			marker := " "
			if i == m.NextNavpoint && !m.Done {
				marker = ">"
			}
			fmt.Fprintf(w, "  %s %d. %-24s %8.1f km\n", marker, i+1, nav.Description, nav.DistanceKm)
		}
	}

	if len(m.Details) > 0 {
		fmt.Fprintln(w, "\nDetails:")
		for _, key := range slices.Sorted(maps.Keys(m.Details)) {
			fmt.Fprintf(w, "  %-14s %s\n", key+":", m.Details[key])
		}
	}

	if len(m.Log) > 0 {
		fmt.Fprintln(w, "\nLog:")
		for _, entry := range m.Log {
			fmt.Fprintf(w, "  [%s] %s %s\n", entry.Time.String(), entry.Entry, gray("("+entry.EnteredBy+")"))
		}
	}

	if len(view.Events) > 0 {
		fmt.Fprintln(w, "\nHistorical events:")
		for _, e := range view.Events {
			line := fmt.Sprintf("  %8.1f  %-32s", e.Millisols, e.Type)
			if e.Cause != "" {
				line += " " + e.Cause
			}
			if e.Who != "" {
				line += " " + gray("("+e.Who+")")
			}
			fmt.Fprintln(w, line)
		}
	}
}

// writeMissionResult prints the outcome of a command
func writeMissionResult(w io.Writer, verb string, r *commands.MissionResult) {
	fmt.Fprintf(w, "✓ %s\n", verb)
	fmt.Fprintf(w, "  Mission:      #%d %s\n", r.MissionID, r.Designation)
	fmt.Fprintf(w, "  Type:         %s\n", r.Type)
	fmt.Fprintf(w, "  Phase:        %s\n", r.Phase)
	if r.PlanStatus != "" {
		fmt.Fprintf(w, "  Plan:         %s\n", colorPlanStatus(r.PlanStatus))
	}
	if len(r.Statuses) > 0 {
		fmt.Fprintf(w, "  Statuses:     %s\n", strings.Join(r.Statuses, ", "))
	}
	if r.Done {
		fmt.Fprintln(w, "  The mission has ended.")
	}
}
