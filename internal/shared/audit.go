package shared

import (
	"context"
	"encoding/json"
	"errors"
	"time"

	"github.com/jackc/pgx/v5/pgxpool"
)

// AuditLog represents an authentication event stored in audit_logs.
type AuditLog struct {
	ActorID int64
	Action  string
	Email   string
	Meta    map[string]any
	At      time.Time
}

// AuditLogger writes records into audit_logs.
type AuditLogger struct {
	pool *pgxpool.Pool
}

// NewAuditLogger returns a new AuditLogger.
func NewAuditLogger(pool *pgxpool.Pool) *AuditLogger {
	return &AuditLogger{pool: pool}
}

// Record persists the log entry.
func (l *AuditLogger) Record(ctx context.Context, log AuditLog) error {
	if l == nil {
		return errors.New("audit logger not initialised")
	}
	if log.Action == "" || log.Email == "" {
		return errors.New("audit log requires action/email")
	}
	metaJSON, err := json.Marshal(log.Meta)
	if err != nil {
		return err
	}
	_, err = l.pool.Exec(ctx, `INSERT INTO audit_logs (actor_id, action, email, meta, occurred_at) VALUES ($1, $2, $3, $4, COALESCE($5, NOW()))`, log.ActorID, log.Action, log.Email, metaJSON, log.At)
	return err
}
