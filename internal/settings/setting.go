package settings

import (
	"context"
	"encoding/json"
	"time"

	"github.com/agentstation/iibkit/pkg/constants"
)

// Setting is one row of the global_setting table.
type Setting struct {
	Name         string          `json:"name" yaml:"name"`
	JSON         json.RawMessage `json:"setting_json" yaml:"setting_json"`
	CreatedTime  string          `json:"created_time" yaml:"created_time"`
	ModifiedTime string          `json:"modified_time" yaml:"modified_time"`
}

// NewSetting marshals value and stamps both timestamps with now.
func NewSetting(name string, value any, now time.Time) (*Setting, error) {
	data, err := json.Marshal(value)
	if err != nil {
		return nil, err
	}
	stamp := now.Format(constants.TimeFormatSetting)
	return &Setting{
		Name:         name,
		JSON:         data,
		CreatedTime:  stamp,
		ModifiedTime: stamp,
	}, nil
}

// Decode unmarshals the setting's JSON into v.
func (s *Setting) Decode(v any) error {
	if len(s.JSON) == 0 {
		return nil
	}
	return json.Unmarshal(s.JSON, v)
}

// Tx is the set of operations available both on a Store and inside a
// transaction.
type Tx interface {
	Get(ctx context.Context, name string) (*Setting, error)
	Put(ctx context.Context, setting *Setting) error
	List(ctx context.Context, prefix string) ([]*Setting, error)
}
