package telemetry_test

import (
	"context"
	"path/filepath"
	"testing"

	"github.com/pos/backend/internal/infrastructure/telemetry"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap/zaptest"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

type tracedRow struct {
	ID   uint
	Name string
}

func openTracedDB(t *testing.T, cfg telemetry.DBTracingConfig) *gorm.DB {
	t.Helper()
	db, err := gorm.Open(sqlite.Open(filepath.Join(t.TempDir(), "traced.db")), &gorm.Config{Logger: logger.Discard})
	require.NoError(t, err)
	require.NoError(t, telemetry.NewDBTracingPlugin(cfg, zaptest.NewLogger(t)).Register(db))
	require.NoError(t, db.AutoMigrate(&tracedRow{}))
	return db
}

func TestDBTracingPlugin_RecordsQuerySpans(t *testing.T) {
	recorder := useSpanRecorder(t)
	db := openTracedDB(t, telemetry.DBTracingConfig{Enabled: true, DBSystem: "sqlite"})

	ctx, parent := telemetry.StartServiceSpan(context.Background(), "test", "db")
	require.NoError(t, db.WithContext(ctx).Create(&tracedRow{Name: "a"}).Error)
	var rows []tracedRow
	require.NoError(t, db.WithContext(ctx).Find(&rows).Error)
	parent.End()

	var dbSpans int
	for _, s := range recorder.Ended() {
		if s.Parent().SpanID() == parent.SpanContext().SpanID() {
			dbSpans++
		}
	}
	assert.GreaterOrEqual(t, dbSpans, 2)
}

func TestDBTracingPlugin_MarksErrors(t *testing.T) {
	recorder := useSpanRecorder(t)
	db := openTracedDB(t, telemetry.DBTracingConfig{Enabled: true, DBSystem: "sqlite"})

	err := db.WithContext(context.Background()).Exec("SELECT * FROM missing_table").Error
	require.Error(t, err)

	var errored bool
	for _, s := range recorder.Ended() {
		if s.Status().Code.String() == "Error" {
			errored = true
		}
	}
	assert.True(t, errored)
}

func TestDBTracingPlugin_Disabled(t *testing.T) {
	recorder := useSpanRecorder(t)
	db := openTracedDB(t, telemetry.DBTracingConfig{Enabled: false})

	require.NoError(t, db.Create(&tracedRow{Name: "a"}).Error)
	assert.Empty(t, recorder.Ended())
}
