package database

import (
	"context"
	"fmt"
	"time"

	"github.com/docker/go-connections/nat"
	"github.com/testcontainers/testcontainers-go"
	"github.com/testcontainers/testcontainers-go/modules/postgres"
	"github.com/testcontainers/testcontainers-go/wait"

	// Load env
	_ "github.com/joho/godotenv/autoload"

	m "github.com/dricdias/telegram-bot/internal/model"
	"github.com/dricdias/telegram-bot/internal/utilities"
)

var testDBInstance *DBinstanceStruct
var teardown func(context.Context) error

// Exported fixtures seeded into the test database.
var (
	TestAdminUser  m.User
	TestViewerUser m.User

	TestSeedPassword = "SeedPass123!"

	TestCategoryDocs   m.Category
	TestCategoryPhotos m.Category
)

// GetTestDB starts a PostgreSQL test container and returns a teardown function,
// the DB instance, and any error encountered during setup.
func GetTestDB() (func(context.Context) error, *DBinstanceStruct, error) {

	if testDBInstance != nil && teardown != nil {
		return teardown, testDBInstance, nil
	}

	var (
		dbName = "database"
		dbPwd  = "password"
		dbUser = "user"
	)

	dbContainer, err := postgres.Run(
		context.Background(),
		"postgres:latest",
		postgres.WithDatabase(dbName),
		postgres.WithUsername(dbUser),
		postgres.WithPassword(dbPwd),
		testcontainers.WithWaitStrategy(
			wait.ForLog("database system is ready to accept connections").
				WithOccurrence(2).
				WithStartupTimeout(5*time.Second)),
	)
	if err != nil {
		return nil, nil, err
	}

	dbHost, err := dbContainer.Host(context.Background())
	if err != nil {
		return dbContainer.Terminate, nil, err
	}

	dbPort, err := dbContainer.MappedPort(context.Background(), nat.Port("5432/tcp"))
	if err != nil {
		return dbContainer.Terminate, nil, err
	}

	config := &DBConfig{
		useConstr: true,
		Constr:    fmt.Sprintf("host=%s port=%s user=%s password=%s dbname=%s sslmode=disable", dbHost, dbPort.Port(), dbUser, dbPwd, dbName),
	}

	db, err := NewDBInstance(config)
	if err != nil {
		return dbContainer.Terminate, nil, err
	}

	if err := seedTestData(db); err != nil {
		_ = dbContainer.Terminate(context.Background())
		return nil, nil, err
	}

	testDBInstance = db
	teardown = dbContainer.Terminate

	return dbContainer.Terminate, db, nil
}

// seedTestData inserts sample users and categories if the database is empty.
func seedTestData(db *DBinstanceStruct) error {
	var userCount int64
	if err := db.Model(&m.User{}).Count(&userCount).Error; err != nil {
		return err
	}

	// Ignore admin user that got created during NewDBInstance
	if userCount > 1 {
		return loadTestData(db)
	}

	hashedPwd, err := utilities.HashPassword(TestSeedPassword)
	if err != nil {
		return err
	}

	TestAdminUser = m.User{Username: "dashboard_admin", Password: hashedPwd, Role: m.RoleAdmin}
	TestViewerUser = m.User{Username: "dashboard_viewer", Password: hashedPwd, Role: m.RoleViewer}

	if err := db.Create(&TestAdminUser).Error; err != nil {
		return err
	}
	if err := db.Create(&TestViewerUser).Error; err != nil {
		return err
	}

	TestCategoryDocs = m.Category{Name: "documentos"}
	TestCategoryPhotos = m.Category{Name: "fotos"}
	if err := db.Create(&TestCategoryDocs).Error; err != nil {
		return err
	}
	if err := db.Create(&TestCategoryPhotos).Error; err != nil {
		return err
	}

	seedFiles := []m.StoredFile{
		{Name: "contrato.pdf", Extension: ".pdf", Kind: m.KindDocument, Size: 9, Content: []byte("%PDF-1.4\n"), CategoryID: TestCategoryDocs.ID},
		{Name: "ata_reuniao.txt", Extension: ".txt", Kind: m.KindNote, Size: 4, Content: []byte("pauta"), CategoryID: TestCategoryDocs.ID},
		{Name: "ferias.jpg", Extension: ".jpg", Kind: m.KindPhoto, Size: 3, Content: []byte{0xff, 0xd8, 0xff}, CategoryID: TestCategoryPhotos.ID},
	}
	for i := range seedFiles {
		if err := db.Create(&seedFiles[i]).Error; err != nil {
			return err
		}
	}

	return nil
}

// loadTestData refreshes the exported fixtures from an already-seeded database.
func loadTestData(db *DBinstanceStruct) error {
	if err := db.Where("username = ?", "dashboard_admin").First(&TestAdminUser).Error; err != nil {
		return err
	}
	if err := db.Where("username = ?", "dashboard_viewer").First(&TestViewerUser).Error; err != nil {
		return err
	}
	if err := db.Where("name = ?", "documentos").First(&TestCategoryDocs).Error; err != nil {
		return err
	}
	return db.Where("name = ?", "fotos").First(&TestCategoryPhotos).Error
}
