package services_test

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/require"
	"gorm.io/gorm"

	"github.com/lensfolio/backoffice/internal/models"
	"github.com/lensfolio/backoffice/internal/services"
)

func createBranch(t *testing.T, db *gorm.DB, name string) models.Branch {
	t.Helper()
	branch := models.Branch{Name: name, Status: "active"}
	require.NoError(t, db.Create(&branch).Error)
	return branch
}

func createProject(t *testing.T, db *gorm.DB, svc *services.ProjectService, title string) *models.Project {
	t.Helper()
	client := createClient(t, db, title+" client")
	branch := createBranch(t, db, title+" branch")
	project, err := svc.Create(context.Background(), services.ProjectInput{
		ClientID: client.ID,
		BranchID: branch.ID,
		Title:    title,
	})
	require.NoError(t, err)
	return project
}

func TestProjectCreateDefaultsToPending(t *testing.T) {
	db := openTestDB(t)
	svc, err := services.NewProjectService(db, nil)
	require.NoError(t, err)

	project := createProject(t, db, svc, "Spring shoot")
	require.Equal(t, "pending", project.Status)
	require.Nil(t, project.DeliveredAt)
}

func TestProjectCreateRejectsUnknownStatus(t *testing.T) {
	db := openTestDB(t)
	svc, err := services.NewProjectService(db, nil)
	require.NoError(t, err)

	client := createClient(t, db, "Client")
	branch := createBranch(t, db, "Branch")

	_, err = svc.Create(context.Background(), services.ProjectInput{
		ClientID: client.ID,
		BranchID: branch.ID,
		Title:    "Bad status",
		Status:   "teleported",
	})
	require.Error(t, err)
}

func TestProjectDeliverStampsTimestamp(t *testing.T) {
	db := openTestDB(t)
	svc, err := services.NewProjectService(db, nil)
	require.NoError(t, err)

	project := createProject(t, db, svc, "Album")

	project, err = svc.Deliver(context.Background(), project.ID)
	require.NoError(t, err)
	require.Equal(t, "delivered", project.Status)
	require.NotNil(t, project.DeliveredAt)
	require.WithinDuration(t, time.Now(), *project.DeliveredAt, time.Minute)
}

func TestProjectDeleteCascadesTasksAndFiles(t *testing.T) {
	db := openTestDB(t)
	svc, err := services.NewProjectService(db, nil)
	require.NoError(t, err)
	tasks, err := services.NewProductionService(db, nil)
	require.NoError(t, err)

	project := createProject(t, db, svc, "Teardown")

	_, err = tasks.Create(context.Background(), services.ProductionTaskInput{
		ProjectID: project.ID,
		Name:      "Retouch",
	})
	require.NoError(t, err)
	require.NoError(t, db.Create(&models.ProjectFile{
		ProjectID: project.ID,
		FileName:  "raw.zip",
	}).Error)

	require.NoError(t, svc.Delete(context.Background(), project.ID))

	var taskCount, fileCount int64
	require.NoError(t, db.Model(&models.ProductionTask{}).Where("project_id = ?", project.ID).Count(&taskCount).Error)
	require.NoError(t, db.Model(&models.ProjectFile{}).Where("project_id = ?", project.ID).Count(&fileCount).Error)
	require.Zero(t, taskCount)
	require.Zero(t, fileCount)
}

func TestProductionTaskLifecycle(t *testing.T) {
	db := openTestDB(t)
	projects, err := services.NewProjectService(db, nil)
	require.NoError(t, err)
	svc, err := services.NewProductionService(db, nil)
	require.NoError(t, err)

	project := createProject(t, db, projects, "Editing run")

	task, err := svc.Create(context.Background(), services.ProductionTaskInput{
		ProjectID:        project.ID,
		Name:             "Color grading",
		EstimatedMinutes: 90,
	})
	require.NoError(t, err)
	require.Equal(t, "pending", task.Status)

	task, err = svc.Start(context.Background(), task.ID)
	require.NoError(t, err)
	require.Equal(t, "in_progress", task.Status)
	require.NotNil(t, task.StartedAt)

	task, err = svc.Finish(context.Background(), task.ID)
	require.NoError(t, err)
	require.Equal(t, "done", task.Status)
	require.NotNil(t, task.FinishedAt)
	require.GreaterOrEqual(t, task.SpentMinutes, 0)
}
