package realtime

import (
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestProjectIDOf(t *testing.T) {
	tests := []struct {
		name    string
		data    string
		want    string
		wantErr bool
	}{
		{"bare string", `"p1"`, "p1", false},
		{"object id", `{"id":"p1"}`, "p1", false},
		{"task with project id", `{"id":"t1","project":"p1"}`, "p1", false},
		{"task with populated project", `{"id":"t1","project":{"id":"p1","name":"Site"}}`, "p1", false},
		{"empty string", `""`, "", true},
		{"number", `42`, "", true},
		{"null project falls back to id", `{"id":"p1","project":null}`, "p1", false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := ProjectIDOf(json.RawMessage(tt.data))
			if tt.wantErr {
				assert.Error(t, err)
				return
			}
			assert.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestTaskProjectID(t *testing.T) {
	got, err := TaskProjectID(json.RawMessage(`{"id":"t1","project":{"id":"p1"}}`))
	assert.NoError(t, err)
	assert.Equal(t, "p1", got)

	_, err = TaskProjectID(json.RawMessage(`{"id":"t1"}`))
	assert.Error(t, err)
}

func TestOutboundName(t *testing.T) {
	pairs := map[string]string{
		EventNewTask:     EventTaskAdded,
		EventDeleteTask:  EventTaskDeleted,
		EventUpdateTask:  EventTaskUpdated,
		EventChangeState: EventNewState,
	}
	for in, out := range pairs {
		got, ok := OutboundName(in)
		assert.True(t, ok)
		assert.Equal(t, out, got)
	}

	_, ok := OutboundName(EventOpenProject)
	assert.False(t, ok)
}
