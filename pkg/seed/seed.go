// Package seed points the image browser at a directory by writing a
// workspace snapshot into its settings database and making that snapshot
// the initial page.
package seed

import (
	"context"
	"encoding/json"
	"os"
	"path/filepath"
	"time"

	"github.com/agentstation/iibkit/internal/settings"
	"github.com/agentstation/iibkit/pkg/constants"
	"github.com/agentstation/iibkit/pkg/document"
	"github.com/agentstation/iibkit/pkg/errors"
	"github.com/agentstation/iibkit/pkg/logging"
)

// Store runs a function inside a settings transaction.
type Store interface {
	RunInTransaction(ctx context.Context, fn func(tx settings.Tx) error) error
}

// Options configures a seed run.
type Options struct {
	Path         string // directory the browser should open
	ProjectPath  string // image browser installation directory
	Mode         Mode
	SnapshotName string
	DBName       string
	Now          func() time.Time
}

// Result describes what was written.
type Result struct {
	DBPath      string `json:"db_path" yaml:"db_path"`
	SnapshotKey string `json:"snapshot_key" yaml:"snapshot_key"`
	SnapshotID  string `json:"snapshot_id" yaml:"snapshot_id"`
	Path        string `json:"path" yaml:"path"`
	Mode        Mode   `json:"mode" yaml:"mode"`
	// Snapshots counts the workspace snapshots stored after the seed, and
	// PathSnapshots those among them that open Path.
	Snapshots     int `json:"snapshots" yaml:"snapshots"`
	PathSnapshots int `json:"path_snapshots" yaml:"path_snapshots"`
}

// withDefaults returns a copy of o with empty fields filled in.
func (o Options) withDefaults() Options {
	if o.Mode == "" {
		o.Mode = DefaultMode
	}
	if o.SnapshotName == "" {
		o.SnapshotName = constants.DefaultSnapshotName
	}
	if o.DBName == "" {
		o.DBName = constants.DefaultDBName
	}
	if o.Now == nil {
		o.Now = time.Now
	}
	return o
}

// Validate checks the options before anything is opened.
func (o Options) Validate() error {
	o = o.withDefaults()
	if o.Path == "" {
		return errors.NewValidationError("path", o.Path, "path cannot be empty")
	}
	if !o.Mode.IsValid() {
		return errors.NewValidationError("mode", string(o.Mode), "must be one of: walk, scanned, scanned-fixed")
	}
	if o.ProjectPath == "" {
		return errors.NewValidationError("project_path", o.ProjectPath, "project path cannot be empty")
	}
	info, err := os.Stat(o.ProjectPath)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return errors.NewNotFoundError("project path", o.ProjectPath)
		}
		return errors.WrapIO("stat", o.ProjectPath, err)
	}
	if !info.IsDir() {
		return errors.NewValidationError("project_path", o.ProjectPath, "project path must be a directory")
	}
	return nil
}

// DBPath returns the settings database location.
func (o Options) DBPath() string {
	o = o.withDefaults()
	return filepath.Join(o.ProjectPath, o.DBName)
}

// Seed stores a snapshot for opts.Path and makes it the browser's initial
// page. Both writes happen in one transaction.
func Seed(ctx context.Context, store Store, opts Options) (*Result, error) {
	opts = opts.withDefaults()
	if !opts.Mode.IsValid() {
		return nil, errors.NewValidationError("mode", string(opts.Mode), "must be one of: walk, scanned, scanned-fixed")
	}

	now := opts.Now()
	snapshot := NewSnapshot(opts.SnapshotName, opts.Path, opts.Mode, now)
	key := snapshot.Key()
	logger := logging.FromContext(ctx)

	var total, forPath int
	err := store.RunInTransaction(ctx, func(tx settings.Tx) error {
		row, err := settings.NewSetting(key, snapshot, now)
		if err != nil {
			return err
		}
		if err := tx.Put(ctx, row); err != nil {
			return err
		}

		total, forPath, err = countSnapshots(ctx, tx, opts.Path)
		if err != nil {
			return err
		}

		global, err := loadGlobal(ctx, tx)
		if err != nil {
			return err
		}
		value, err := json.Marshal(key)
		if err != nil {
			return err
		}
		global.Set(constants.DefaultPageField, value)

		data, err := global.MarshalJSON()
		if err != nil {
			return err
		}
		stamp := now.Format(constants.TimeFormatSetting)
		return tx.Put(ctx, &settings.Setting{
			Name:         constants.GlobalSettingName,
			JSON:         data,
			CreatedTime:  stamp,
			ModifiedTime: stamp,
		})
	})
	if err != nil {
		return nil, err
	}

	logger.Debug().
		Str("snapshot", key).
		Str("path", opts.Path).
		Str("mode", opts.Mode.String()).
		Int("snapshots", total).
		Int("path_snapshots", forPath).
		Msg("Seeded default page")

	return &Result{
		DBPath:        opts.DBPath(),
		SnapshotKey:   key,
		SnapshotID:    snapshot.ID,
		Path:          opts.Path,
		Mode:          opts.Mode,
		Snapshots:     total,
		PathSnapshots: forPath,
	}, nil
}

// countSnapshots returns how many workspace snapshots are stored and how many
// of them have a pane opening path. Rows that do not decode count only
// toward the total.
func countSnapshots(ctx context.Context, tx settings.Tx, path string) (total, forPath int, err error) {
	rows, err := tx.List(ctx, constants.SnapshotKeyPrefix)
	if err != nil {
		return 0, 0, err
	}
	for _, row := range rows {
		var snap Snapshot
		if err := row.Decode(&snap); err != nil {
			logging.FromContext(ctx).Debug().Err(err).Str("snapshot", row.Name).Msg("Skipping unreadable snapshot")
			continue
		}
		if snap.Opens(path) {
			forPath++
		}
	}
	return len(rows), forPath, nil
}

// loadGlobal returns the global settings document, empty when the row is
// missing or blank. Existing keys keep their order.
func loadGlobal(ctx context.Context, tx settings.Tx) (*document.Document, error) {
	row, err := tx.Get(ctx, constants.GlobalSettingName)
	if errors.IsNotFound(err) {
		return document.New(), nil
	}
	if err != nil {
		return nil, err
	}
	if len(row.JSON) == 0 {
		return document.New(), nil
	}
	doc, err := document.Parse(row.JSON)
	if err != nil {
		return nil, errors.WrapParse("json", "global setting", err)
	}
	return doc, nil
}

// Run validates opts, opens the settings database and seeds it.
func Run(ctx context.Context, opts Options) (*Result, error) {
	opts = opts.withDefaults()
	if err := opts.Validate(); err != nil {
		return nil, err
	}

	store, err := settings.Open(ctx, opts.DBPath())
	if err != nil {
		return nil, err
	}
	defer store.Close()

	return Seed(ctx, store, opts)
}
