package db

import (
	"errors"
	"testing"

	"github.com/DATA-DOG/go-sqlmock"
)

func TestMigrateUp(t *testing.T) {
	database, mock, _ := sqlmock.New()
	defer func() { _ = database.Close() }()

	mock.ExpectExec(`CREATE TABLE IF NOT EXISTS offers`).
		WillReturnResult(sqlmock.NewResult(0, 0))
	mock.ExpectExec(`idx_offers_merchant`).
		WillReturnResult(sqlmock.NewResult(0, 0))
	mock.ExpectExec(`idx_offers_deal_type`).
		WillReturnResult(sqlmock.NewResult(0, 0))

	if err := MigrateUp(database); err != nil {
		t.Fatalf("MigrateUp err=%v", err)
	}
	if err := mock.ExpectationsWereMet(); err != nil {
		t.Fatal(err)
	}
}

func TestMigrateUp_TableError(t *testing.T) {
	database, mock, _ := sqlmock.New()
	defer func() { _ = database.Close() }()

	mock.ExpectExec(`CREATE TABLE IF NOT EXISTS offers`).
		WillReturnError(errors.New("permission denied"))

	if err := MigrateUp(database); err == nil {
		t.Fatal("MigrateUp expected error")
	}
}
