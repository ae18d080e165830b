// handlers/collections.go
package handlers

import (
	"go.mongodb.org/mongo-driver/mongo"

	"bmeams/config"
	"bmeams/database"
	"bmeams/repository"
)

var (
	assetCollection    *mongo.Collection
	historyCollection  *mongo.Collection
	contractCollection *mongo.Collection

	usersRepo       *repository.UsersRepository
	complaintsRepo  *repository.ComplaintsRepository
	workOrdersRepo  *repository.WorkOrdersRepository
	maintenanceRepo *repository.MaintenanceRepository

	enricher *repository.Enricher
)

func InitCollections() {
	db := database.Client.Database(config.MongoDatabase)
	assetCollection = db.Collection("assets")
	historyCollection = db.Collection("asset_history")
	contractCollection = db.Collection("contracts")

	usersRepo = repository.NewUsersRepository(database.SQL)
	complaintsRepo = repository.NewComplaintsRepository(database.SQL)
	workOrdersRepo = repository.NewWorkOrdersRepository(database.SQL)
	maintenanceRepo = repository.NewMaintenanceRepository(database.SQL)

	enricher = repository.NewEnricher(repository.NewMongoAssetLookup(assetCollection))
}
