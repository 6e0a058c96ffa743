package services_test

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"github.com/lensfolio/backoffice/internal/models"
	"github.com/lensfolio/backoffice/internal/services"
)

func TestAuditLogAndList(t *testing.T) {
	db := openTestDB(t)
	svc, err := services.NewAuditService(db)
	require.NoError(t, err)

	user := createUser(t, db, "actor@example.com")

	require.NoError(t, svc.Log(context.Background(), services.AuditEntry{
		UserID:   &user.ID,
		Action:   "role.create",
		Resource: "role:abc",
		Result:   "success",
		Details:  map[string]any{"name": "Editor"},
	}))
	require.NoError(t, svc.Log(context.Background(), services.AuditEntry{
		Action:   "auth.login",
		Resource: "user:xyz",
		Result:   "failure",
	}))

	logs, total, err := svc.List(context.Background(), services.AuditListOptions{})
	require.NoError(t, err)
	require.EqualValues(t, 2, total)
	require.Len(t, logs, 2)

	logs, total, err = svc.List(context.Background(), services.AuditListOptions{
		Filters: services.AuditFilters{Result: "failure"},
	})
	require.NoError(t, err)
	require.EqualValues(t, 1, total)
	require.Equal(t, "auth.login", logs[0].Action)

	logs, _, err = svc.List(context.Background(), services.AuditListOptions{
		Filters: services.AuditFilters{UserID: user.ID},
	})
	require.NoError(t, err)
	require.Len(t, logs, 1)
	require.JSONEq(t, `{"name":"Editor"}`, string(logs[0].Details))
}

func TestAuditLogRequiresActionAndResult(t *testing.T) {
	db := openTestDB(t)
	svc, err := services.NewAuditService(db)
	require.NoError(t, err)

	require.Error(t, svc.Log(context.Background(), services.AuditEntry{Result: "success"}))
	require.Error(t, svc.Log(context.Background(), services.AuditEntry{Action: "x"}))
}

func TestAuditCleanupOlderThan(t *testing.T) {
	db := openTestDB(t)
	svc, err := services.NewAuditService(db)
	require.NoError(t, err)

	old := models.AuditLog{Action: "stale", Result: "success"}
	require.NoError(t, db.Create(&old).Error)
	require.NoError(t, db.Model(&old).
		UpdateColumn("created_at", time.Now().AddDate(0, 0, -120)).Error)

	fresh := models.AuditLog{Action: "fresh", Result: "success"}
	require.NoError(t, db.Create(&fresh).Error)

	removed, err := svc.CleanupOlderThan(context.Background(), 90)
	require.NoError(t, err)
	require.EqualValues(t, 1, removed)

	var remaining int64
	require.NoError(t, db.Model(&models.AuditLog{}).Count(&remaining).Error)
	require.EqualValues(t, 1, remaining)

	_, err = svc.CleanupOlderThan(context.Background(), 0)
	require.Error(t, err)
}
