package seed

import (
	"strconv"
	"time"

	"github.com/agentstation/iibkit/pkg/constants"
)

// Snapshot is a saved workspace layout as the image browser reads it.
type Snapshot struct {
	ID   string `json:"id"`
	Name string `json:"name"`
	Tabs []Tab  `json:"tabs"`
}

// Tab is one tab of a workspace snapshot.
type Tab struct {
	ID    string `json:"id"`
	Key   string `json:"key"`
	Panes []Pane `json:"panes"`
}

// Pane is one pane of a tab.
type Pane struct {
	Type string `json:"type"`
	Name string `json:"name"`
	Key  string `json:"key"`
	Path string `json:"path"`
	Mode Mode   `json:"mode"`
}

const (
	defaultTabID   = "default_tab"
	defaultPaneKey = "default_pane"
)

// NewSnapshot builds a single-pane snapshot pointing at path.
// The id is the Unix millisecond timestamp of now.
func NewSnapshot(name, path string, mode Mode, now time.Time) *Snapshot {
	return &Snapshot{
		ID:   strconv.FormatInt(now.UnixMilli(), 10),
		Name: name,
		Tabs: []Tab{{
			ID:  defaultTabID,
			Key: defaultPaneKey,
			Panes: []Pane{{
				Type: "local",
				Name: "Local",
				Key:  defaultPaneKey,
				Path: path,
				Mode: mode,
			}},
		}},
	}
}

// Key returns the setting name the snapshot is stored under.
func (s *Snapshot) Key() string {
	return constants.SnapshotKeyPrefix + s.ID
}

// Opens reports whether any pane of the snapshot opens path.
func (s *Snapshot) Opens(path string) bool {
	for _, tab := range s.Tabs {
		for _, pane := range tab.Panes {
			if pane.Path == path {
				return true
			}
		}
	}
	return false
}
