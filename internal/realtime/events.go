package realtime

import (
	"encoding/json"
	"errors"
	"strings"
)

// Inbound event names sent by clients.
const (
	EventOpenProject = "open project"
	EventNewTask     = "new task"
	EventDeleteTask  = "delete task"
	EventUpdateTask  = "update task"
	EventChangeState = "change state"
)

// Outbound event names delivered to the other subscribers.
const (
	EventTaskAdded   = "task added"
	EventTaskDeleted = "task deleted"
	EventTaskUpdated = "task updated"
	EventNewState    = "new state"
)

var relayed = map[string]string{
	EventNewTask:     EventTaskAdded,
	EventDeleteTask:  EventTaskDeleted,
	EventUpdateTask:  EventTaskUpdated,
	EventChangeState: EventNewState,
}

// OutboundName returns the event delivered to subscribers for an inbound
// task event, and false for events that are not relayed.
func OutboundName(inbound string) (string, bool) {
	name, ok := relayed[inbound]
	return name, ok
}

// Frame is one websocket message in either direction.
type Frame struct {
	Event string          `json:"event"`
	Data  json.RawMessage `json:"data,omitempty"`
}

var errNoProject = errors.New("payload carries no project id")

// ProjectIDOf extracts the project id from an "open project" payload or a
// task payload. Accepted shapes: "id", {"id": "..."}, {"project": "id"} and
// {"project": {"id": "..."}}.
func ProjectIDOf(data json.RawMessage) (string, error) {
	var s string
	if err := json.Unmarshal(data, &s); err == nil {
		return nonEmpty(s)
	}

	var obj struct {
		ID      string          `json:"id"`
		Project json.RawMessage `json:"project"`
	}
	if err := json.Unmarshal(data, &obj); err != nil {
		return "", errNoProject
	}
	if len(obj.Project) > 0 && string(obj.Project) != "null" {
		return ProjectIDOf(obj.Project)
	}
	return nonEmpty(obj.ID)
}

// TaskProjectID extracts the project id of a task payload. Unlike
// ProjectIDOf it never falls back to the payload's own id.
func TaskProjectID(data json.RawMessage) (string, error) {
	var obj struct {
		Project json.RawMessage `json:"project"`
	}
	if err := json.Unmarshal(data, &obj); err != nil || len(obj.Project) == 0 || string(obj.Project) == "null" {
		return "", errNoProject
	}
	return ProjectIDOf(obj.Project)
}

func nonEmpty(id string) (string, error) {
	id = strings.TrimSpace(id)
	if id == "" {
		return "", errNoProject
	}
	return id, nil
}
