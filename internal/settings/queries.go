package settings

import (
	"context"
	"database/sql"
	"strings"
	"time"

	"github.com/agentstation/iibkit/pkg/constants"
	"github.com/agentstation/iibkit/pkg/errors"
)

// executor is satisfied by both *sql.DB and *sql.Tx.
type executor interface {
	ExecContext(ctx context.Context, query string, args ...any) (sql.Result, error)
	QueryContext(ctx context.Context, query string, args ...any) (*sql.Rows, error)
	QueryRowContext(ctx context.Context, query string, args ...any) *sql.Row
}

// scannable is satisfied by both *sql.Row and *sql.Rows.
type scannable interface {
	Scan(dest ...any) error
}

func queryGetSetting(ctx context.Context, db executor, name string) (*Setting, error) {
	row := db.QueryRowContext(ctx, `
		SELECT name, setting_json, created_time, modified_time
		FROM global_setting WHERE name = ?`, name)
	s, err := scanSetting(row)
	if err == sql.ErrNoRows {
		return nil, errors.NewNotFoundError("setting", name)
	}
	if err != nil {
		return nil, errors.WrapResource("get", "setting", name, err)
	}
	return s, nil
}

func queryPutSetting(ctx context.Context, db executor, s *Setting) error {
	if s.Name == "" {
		return errors.NewValidationError("name", s.Name, "setting name cannot be empty")
	}
	if s.CreatedTime == "" || s.ModifiedTime == "" {
		stamp := time.Now().Format(constants.TimeFormatSetting)
		if s.CreatedTime == "" {
			s.CreatedTime = stamp
		}
		if s.ModifiedTime == "" {
			s.ModifiedTime = stamp
		}
	}
	_, err := db.ExecContext(ctx, `
		INSERT OR REPLACE INTO global_setting (name, setting_json, created_time, modified_time)
		VALUES (?, ?, ?, ?)`,
		s.Name, string(s.JSON), s.CreatedTime, s.ModifiedTime,
	)
	return errors.WrapResource("put", "setting", s.Name, err)
}

func queryListSettings(ctx context.Context, db executor, prefix string) ([]*Setting, error) {
	rows, err := db.QueryContext(ctx, `
		SELECT name, setting_json, created_time, modified_time
		FROM global_setting WHERE name LIKE ? ESCAPE '\'
		ORDER BY name`, likePrefix(prefix))
	if err != nil {
		return nil, errors.WrapResource("list", "setting", prefix, err)
	}
	defer rows.Close()

	var out []*Setting
	for rows.Next() {
		s, err := scanSetting(rows)
		if err != nil {
			return nil, errors.WrapResource("list", "setting", prefix, err)
		}
		out = append(out, s)
	}
	if err := rows.Err(); err != nil {
		return nil, errors.WrapResource("list", "setting", prefix, err)
	}
	return out, nil
}

func scanSetting(row scannable) (*Setting, error) {
	var (
		s                     Setting
		value, created, modif sql.NullString
	)
	if err := row.Scan(&s.Name, &value, &created, &modif); err != nil {
		return nil, err
	}
	if value.Valid {
		s.JSON = []byte(value.String)
	}
	s.CreatedTime = created.String
	s.ModifiedTime = modif.String
	return &s, nil
}

// likePrefix escapes LIKE wildcards in prefix and appends a trailing %.
func likePrefix(prefix string) string {
	r := strings.NewReplacer(`\`, `\\`, `%`, `\%`, `_`, `\_`)
	return r.Replace(prefix) + "%"
}
