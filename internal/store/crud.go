package store

import (
	"context"
	"fmt"

	"gorm.io/gorm"

	"listing-radar/internal/listing"
)

const insertBatchSize = 200

// EnsureSchema creates the listings table when it does not exist yet. It never
// alters an existing table.
func (db *DB) EnsureSchema(ctx context.Context) error {
	migrator := db.WithContext(ctx).Migrator()
	if migrator.HasTable(&listingRow{}) {
		return nil
	}

	if err := migrator.CreateTable(&listingRow{}); err != nil {
		return unavailable("create listings table", err)
	}
	db.logger.Info("Created listings table")
	return nil
}

// InsertAll stores records in one transaction. IDs and creation times are
// written back into records in insertion order. An empty slice touches
// nothing.
func (db *DB) InsertAll(ctx context.Context, records []listing.Listing) (int, error) {
	if len(records) == 0 {
		db.logger.Info("No listings to save")
		return 0, nil
	}

	rows := make([]listingRow, len(records))
	for i, r := range records {
		rows[i] = toRow(r)
	}

	err := db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		return tx.CreateInBatches(&rows, insertBatchSize).Error
	})
	if err != nil {
		return 0, unavailable(fmt.Sprintf("insert %d listings", len(rows)), err)
	}

	for i := range rows {
		records[i].ID = rows[i].ID
		records[i].CreatedAt = rows[i].CreatedAt
	}

	db.logger.Infof("Saved %d listings", len(rows))
	return len(rows), nil
}

func (db *DB) LoadAll(ctx context.Context) ([]listing.Listing, error) {
	var rows []listingRow
	if err := db.WithContext(ctx).Order("id").Find(&rows).Error; err != nil {
		return nil, unavailable("load listings", err)
	}
	return fromRows(rows), nil
}

func (db *DB) LoadByDistrict(ctx context.Context, district string) ([]listing.Listing, error) {
	var rows []listingRow
	err := db.WithContext(ctx).
		Where("district = ?", district).
		Order("id").
		Find(&rows).Error
	if err != nil {
		return nil, unavailable("load listings by district", err)
	}
	return fromRows(rows), nil
}

func (db *DB) Count(ctx context.Context) (int64, error) {
	var n int64
	if err := db.WithContext(ctx).Model(&listingRow{}).Count(&n).Error; err != nil {
		return 0, unavailable("count listings", err)
	}
	return n, nil
}

func fromRows(rows []listingRow) []listing.Listing {
	listings := make([]listing.Listing, 0, len(rows))
	for _, row := range rows {
		listings = append(listings, fromRow(row))
	}
	return listings
}
