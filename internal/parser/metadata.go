package parser

import (
	"fmt"
	"strconv"
	"strings"

	"tuiwbs/internal/model"
)

// knownFields is the set of metadata keys with dedicated Node fields (the
// writer's canonicalFieldOrder fixes their output order). Anything else
// becomes a custom field.
var knownFields = map[string]bool{
	"status": true, "assignee": true, "duration": true, "priority": true,
	"depends": true, "start": true, "end": true, "milestone": true, "progress": true,
}

// decodeMeta parses one metadata comment's payload (`key: value | key: value`)
// onto n, recording a ParseWarning for anything it cannot make sense of.
func decodeMeta(n *model.Node, payload string, path string, warnings *[]model.ParseWarning) {
	seen := map[string]bool{}
	for _, field := range strings.Split(payload, "|") {
		field = strings.TrimSpace(field)
		if field == "" {
			continue
		}
		key, val, ok := splitKV(field)
		if !ok {
			continue
		}
		key = strings.ToLower(strings.TrimSpace(key))
		val = strings.TrimSpace(val)

		if seen[key] {
			*warnings = append(*warnings, model.ParseWarning{
				File: path, Kind: "DuplicateField",
				Message: fmt.Sprintf("duplicate metadata key %q, last wins", key),
			})
		}
		seen[key] = true

		switch key {
		case "status":
			s, ok := model.ParseStatus(val)
			if !ok {
				*warnings = append(*warnings, model.ParseWarning{File: path, Kind: "InvalidEnum", Message: "invalid status: " + val})
			}
			n.Status = s
		case "priority":
			pr, ok := model.ParsePriority(val)
			if !ok {
				*warnings = append(*warnings, model.ParseWarning{File: path, Kind: "InvalidEnum", Message: "invalid priority: " + val})
			}
			n.Priority = pr
		case "assignee":
			n.Assignee = val
		case "duration":
			n.Duration = val
		case "depends":
			n.Depends = decodeDepends(val)
		case "start":
			if val == "" || isValidDate(val) {
				n.Start = val
			} else {
				*warnings = append(*warnings, model.ParseWarning{File: path, Kind: "InvalidDate", Message: "invalid start date: " + val})
				n.Start = ""
			}
		case "end":
			if val == "" || isValidDate(val) {
				n.End = val
			} else {
				*warnings = append(*warnings, model.ParseWarning{File: path, Kind: "InvalidDate", Message: "invalid end date: " + val})
				n.End = ""
			}
		case "milestone":
			b, ok := parseBool(val)
			if !ok {
				*warnings = append(*warnings, model.ParseWarning{File: path, Kind: "InvalidEnum", Message: "invalid milestone bool: " + val})
			}
			n.Milestone = b
		case "progress":
			p, err := strconv.Atoi(val)
			if err != nil {
				*warnings = append(*warnings, model.ParseWarning{File: path, Kind: "InvalidEnum", Message: "invalid progress: " + val})
			} else {
				n.Progress = model.ClampProgress(p)
			}
		default:
			n.Custom = append(n.Custom, model.CustomField{Name: key, Value: val})
		}
	}
}

// splitKV splits "key: value" on the first colon.
func splitKV(field string) (key, val string, ok bool) {
	idx := strings.Index(field, ":")
	if idx < 0 {
		return "", "", false
	}
	return field[:idx], field[idx+1:], true
}

func decodeDepends(val string) []string {
	var out []string
	for _, part := range strings.Split(val, ";") {
		part = strings.TrimSpace(part)
		if part != "" {
			out = append(out, part)
		}
	}
	return out
}

func parseBool(v string) (bool, bool) {
	switch strings.ToLower(strings.TrimSpace(v)) {
	case "true", "yes", "1":
		return true, true
	case "false", "no", "0", "":
		return false, true
	default:
		return false, false
	}
}
