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

func createClient(t *testing.T, db *gorm.DB, name string) models.Client {
	t.Helper()
	client := models.Client{Name: name, Status: "active"}
	require.NoError(t, db.Create(&client).Error)
	return client
}

func createPackage(t *testing.T, db *gorm.DB, name string) models.Package {
	t.Helper()
	category := models.Category{Name: name + " category"}
	require.NoError(t, db.Create(&category).Error)
	pkg := models.Package{Name: name, CategoryID: category.ID, Price: 250}
	require.NoError(t, db.Create(&pkg).Error)
	return pkg
}

func TestReservationCreateValidatesReferences(t *testing.T) {
	db := openTestDB(t)
	svc, err := services.NewReservationService(db, nil)
	require.NoError(t, err)

	client := createClient(t, db, "Bride")
	pkg := createPackage(t, db, "Wedding")

	_, err = svc.Create(context.Background(), services.ReservationInput{
		ClientID:        "missing",
		ServiceableID:   pkg.ID,
		ServiceableType: models.ServiceablePackage,
		Date:            time.Now(),
	})
	require.ErrorIs(t, err, services.ErrClientNotFound)

	_, err = svc.Create(context.Background(), services.ReservationInput{
		ClientID:        client.ID,
		ServiceableID:   "missing",
		ServiceableType: models.ServiceablePackage,
		Date:            time.Now(),
	})
	require.ErrorIs(t, err, services.ErrPackageNotFound)

	reservation, err := svc.Create(context.Background(), services.ReservationInput{
		ClientID:        client.ID,
		ServiceableID:   pkg.ID,
		ServiceableType: models.ServiceablePackage,
		Date:            time.Now(),
		TotalAmount:     500,
	})
	require.NoError(t, err)
	require.Equal(t, models.PaymentPending, reservation.PaymentStatus)
	require.NotNil(t, reservation.Client)
}

func TestRecordPaymentFlipsStatusWhenCovered(t *testing.T) {
	db := openTestDB(t)
	svc, err := services.NewReservationService(db, nil)
	require.NoError(t, err)

	client := createClient(t, db, "Groom")
	pkg := createPackage(t, db, "Engagement")

	reservation, err := svc.Create(context.Background(), services.ReservationInput{
		ClientID:        client.ID,
		ServiceableID:   pkg.ID,
		ServiceableType: models.ServiceablePackage,
		Date:            time.Now(),
		TotalAmount:     400,
	})
	require.NoError(t, err)

	reservation, err = svc.RecordPayment(context.Background(), reservation.ID, 150, "cash", "")
	require.NoError(t, err)
	require.Equal(t, models.PaymentPending, reservation.PaymentStatus)
	require.EqualValues(t, 150, reservation.PaidAmount)

	reservation, err = svc.RecordPayment(context.Background(), reservation.ID, 250, "transfer", "BNK")
	require.NoError(t, err)
	require.Equal(t, models.PaymentPaid, reservation.PaymentStatus)
	require.EqualValues(t, 400, reservation.PaidAmount)
	require.Equal(t, "transfer", reservation.PaymentMethod)

	_, err = svc.RecordPayment(context.Background(), reservation.ID, -5, "", "")
	require.Error(t, err)
}

func TestCalendarReturnsRangeOrderedByDate(t *testing.T) {
	db := openTestDB(t)
	svc, err := services.NewReservationService(db, nil)
	require.NoError(t, err)

	client := createClient(t, db, "Family")
	pkg := createPackage(t, db, "Portrait")

	base := time.Date(2026, 3, 10, 10, 0, 0, 0, time.UTC)
	for _, offset := range []int{5, 1, 30} {
		_, err := svc.Create(context.Background(), services.ReservationInput{
			ClientID:        client.ID,
			ServiceableID:   pkg.ID,
			ServiceableType: models.ServiceablePackage,
			Date:            base.AddDate(0, 0, offset),
			TotalAmount:     100,
		})
		require.NoError(t, err)
	}

	entries, err := svc.Calendar(context.Background(), base, base.AddDate(0, 0, 7))
	require.NoError(t, err)
	require.Len(t, entries, 2)
	require.True(t, entries[0].Date.Before(entries[1].Date))

	_, err = svc.Calendar(context.Background(), base, base.AddDate(0, 0, -1))
	require.Error(t, err)
}
