package ops

import (
	"context"
	"strings"

	"github.com/skylark-aero/skylark/pkg/conflict"
	"github.com/skylark-aero/skylark/pkg/sheets"
)

// DetectConflictsTool runs the full conflict scan, or a single detector
// class when one is named.
type DetectConflictsTool struct {
	Facade *sheets.Facade
}

func (t *DetectConflictsTool) Name() string { return "detect_all_conflicts" }

func (t *DetectConflictsTool) Description() string {
	return "Full conflict scan across all missions: double-booking, cert mismatch, budget overrun, maintenance, weather risk, location mismatch, dangling assignments, skill mismatch. Pass 'detector' to run a single class."
}

func (t *DetectConflictsTool) Parameters() ParameterSchema {
	return ParameterSchema{
		Type: "object",
		Properties: map[string]PropertySchema{
			"detector": {
				Type:        "string",
				Description: "Optional single detector class to run",
				Enum:        conflict.KindNames(),
			},
		},
	}
}

func (t *DetectConflictsTool) Execute(ctx context.Context, params map[string]any) (*Result, error) {
	snap, err := t.Facade.Snapshot(ctx)
	if err != nil {
		return Fail("could not load fleet data: %v", err), nil
	}

	var findings []conflict.Finding
	if name := StringParam(params, "detector"); name != "" {
		kind, ok := conflict.ParseKind(strings.TrimSpace(name))
		if !ok {
			return Fail("unknown detector %q; choose from %s", name,
				strings.Join(conflict.KindNames(), ", ")), nil
		}
		findings = conflict.Detect(kind, snap)
	} else {
		findings = conflict.Scan(snap)
	}

	return OK(summarizeFindings(findings)), nil
}

// CheckMissionConflictsTool filters the full conflict scan to one mission.
type CheckMissionConflictsTool struct {
	Facade *sheets.Facade
}

func (t *CheckMissionConflictsTool) Name() string { return "check_mission_conflicts" }

func (t *CheckMissionConflictsTool) Description() string {
	return "Check all conflict classes for one specific mission."
}

func (t *CheckMissionConflictsTool) Parameters() ParameterSchema {
	return ParameterSchema{
		Type: "object",
		Properties: map[string]PropertySchema{
			"mission_id": {Type: "string", Description: "Mission project ID, e.g. PRJ001"},
		},
		Required: []string{"mission_id"},
	}
}

func (t *CheckMissionConflictsTool) Execute(ctx context.Context, params map[string]any) (*Result, error) {
	snap, err := t.Facade.Snapshot(ctx)
	if err != nil {
		return Fail("could not load fleet data: %v", err), nil
	}
	missionID := StringParam(params, "mission_id")
	findings := conflict.MissionFindings(snap, missionID)

	data := summarizeFindings(findings)
	data["mission_id"] = missionID
	return OK(data), nil
}

func summarizeFindings(findings []conflict.Finding) map[string]any {
	critical, warning := 0, 0
	for _, f := range findings {
		switch f.Severity {
		case conflict.SeverityCritical:
			critical++
		case conflict.SeverityWarning:
			warning++
		}
	}
	return map[string]any{
		"total_conflicts": len(findings),
		"critical":        critical,
		"warning":         warning,
		"conflicts":       findings,
	}
}
