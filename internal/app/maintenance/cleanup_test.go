package maintenance_test

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"github.com/lensfolio/backoffice/internal/app/maintenance"
	"github.com/lensfolio/backoffice/internal/database/testutil"
	"github.com/lensfolio/backoffice/internal/models"
	"github.com/lensfolio/backoffice/internal/services"
)

func TestRunOnceEnforcesRetention(t *testing.T) {
	db := testutil.MustOpenTestDB(t, testutil.WithAutoMigrate())
	audit, err := services.NewAuditService(db)
	require.NoError(t, err)

	stale := models.AuditLog{Action: "stale", Result: "success"}
	require.NoError(t, db.Create(&stale).Error)
	require.NoError(t, db.Model(&stale).
		UpdateColumn("created_at", time.Now().AddDate(0, 0, -40)).Error)

	fresh := models.AuditLog{Action: "fresh", Result: "success"}
	require.NoError(t, db.Create(&fresh).Error)

	cleaner := maintenance.NewCleaner(audit, maintenance.WithRetentionDays(30))
	require.NoError(t, cleaner.RunOnce(context.Background()))

	var remaining int64
	require.NoError(t, db.Model(&models.AuditLog{}).Count(&remaining).Error)
	require.EqualValues(t, 1, remaining)
}

func TestRunOnceWithoutAuditServiceIsNoOp(t *testing.T) {
	cleaner := maintenance.NewCleaner(nil)
	require.NoError(t, cleaner.RunOnce(context.Background()))
}

func TestStartAndStop(t *testing.T) {
	db := testutil.MustOpenTestDB(t, testutil.WithAutoMigrate())
	audit, err := services.NewAuditService(db)
	require.NoError(t, err)

	cleaner := maintenance.NewCleaner(audit, maintenance.WithSchedule("@every 1h"))
	require.NoError(t, cleaner.Start())

	ctx := cleaner.Stop()
	select {
	case <-ctx.Done():
	case <-time.After(time.Second):
		t.Fatal("scheduler did not stop in time")
	}
}
