// Package constants provides shared constants used throughout iibkit.
// This includes file permissions, defaults, and format layouts that should
// be consistent across the commands.
package constants

// File permission constants define standard Unix file permissions
const (
	// DirPermissions is the default permission for created directories (rwxr-xr-x)
	DirPermissions = 0755

	// FilePermissions is the default permission for created files (rw-r--r--)
	FilePermissions = 0644
)

// Reconciler defaults
const (
	// DefaultListKey is the document key holding the list being reconciled
	DefaultListKey = "models"

	// DefaultIdentifierField is the entry field used for de-duplication
	DefaultIdentifierField = "filename"

	// DefaultIndent is the indentation used when writing documents back
	DefaultIndent = "    "
)

// Seeder defaults
const (
	// DefaultDBName is the settings database file inside the project directory
	DefaultDBName = "iib.db"

	// DefaultSnapshotName is the display name of the seeded workspace view
	DefaultSnapshotName = "Default View"

	// SnapshotKeyPrefix prefixes the setting name of every workspace snapshot
	SnapshotKeyPrefix = "workspace_snapshot_"

	// GlobalSettingName is the setting row holding the browser's global config
	GlobalSettingName = "global"

	// DefaultPageField is the global-config field naming the initial page.
	// The spelling matches the image browser's own key.
	DefaultPageField = "defaultInitinalPage"
)

// Format constants
const (
	// TimeFormatSetting is the layout of created_time/modified_time columns
	TimeFormatSetting = "2006-01-02T15:04:05"
)

// Path constants
const (
	// ConfigFileName is the base name of the optional config file
	ConfigFileName = ".iibkit"

	// EnvPrefix prefixes environment variables bound to tool settings
	EnvPrefix = "IIBKIT"
)
