package store

import (
	"errors"
	"fmt"
	"strconv"
	"time"

	"github.com/sirupsen/logrus"
	"gorm.io/driver/postgres"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	gormlogger "gorm.io/gorm/logger"

	"listing-radar/internal/listing"
	"listing-radar/internal/normalize"
)

// ErrStorageUnavailable wraps every failure to open or use the backing store.
var ErrStorageUnavailable = errors.New("storage unavailable")

const (
	DriverPostgres = "postgres"
	DriverSQLite   = "sqlite"
)

// listingRow keeps price, area and room count as text, the layout of the
// legacy listings table. They are normalized again when read.
type listingRow struct {
	ID                 uint      `gorm:"primaryKey"`
	Address            string    `gorm:"type:text"`
	Price              string    `gorm:"type:text"`
	TotalMeters        string    `gorm:"column:total_meters;type:text"`
	RoomsCount         string    `gorm:"column:rooms_count;type:text"`
	Floor              string    `gorm:"type:text"`
	FloorsCount        string    `gorm:"column:floors_count;type:text"`
	ObjectType         string    `gorm:"column:object_type;type:text"`
	HouseMaterialType  string    `gorm:"column:house_material_type;type:text"`
	YearOfConstruction string    `gorm:"column:year_of_construction;type:text"`
	District           string    `gorm:"type:text;index"`
	Underground        string    `gorm:"type:text"`
	URL                string    `gorm:"column:url;type:text"`
	Source             string    `gorm:"type:text"`
	Latitude           *float64
	Longitude          *float64
	CreatedAt          time.Time `gorm:"autoCreateTime"`
}

func (listingRow) TableName() string {
	return "listings"
}

type DB struct {
	*gorm.DB
	logger *logrus.Logger
}

func Connect(driver, dsn string, logger *logrus.Logger) (*DB, error) {
	var dialector gorm.Dialector
	switch driver {
	case DriverPostgres:
		dialector = postgres.Open(dsn)
	case DriverSQLite:
		dialector = sqlite.Open(dsn)
	default:
		return nil, fmt.Errorf("unknown database driver %q", driver)
	}

	db, err := gorm.Open(dialector, &gorm.Config{
		Logger: gormlogger.Default.LogMode(gormlogger.Silent),
	})
	if err != nil {
		return nil, unavailable("open "+driver, err)
	}

	if driver == DriverSQLite {
		sqlDB, err := db.DB()
		if err != nil {
			return nil, unavailable("open "+driver, err)
		}
		// one connection keeps in-memory databases alive and serializes writers
		sqlDB.SetMaxOpenConns(1)
	}

	return New(db, logger), nil
}

// New wraps an already opened gorm handle.
func New(db *gorm.DB, logger *logrus.Logger) *DB {
	if logger == nil {
		logger = logrus.StandardLogger()
	}
	return &DB{DB: db, logger: logger}
}

func (db *DB) Close() error {
	sqlDB, err := db.DB.DB()
	if err != nil {
		return err
	}
	return sqlDB.Close()
}

func unavailable(op string, err error) error {
	return fmt.Errorf("%w: %s: %w", ErrStorageUnavailable, op, err)
}

func toRow(l listing.Listing) listingRow {
	row := listingRow{
		Address:            l.Address,
		Price:              formatDecimal(l.Price),
		TotalMeters:        formatDecimal(l.Area),
		Floor:              l.Floor,
		FloorsCount:        l.FloorsCount,
		ObjectType:         l.ObjectType,
		HouseMaterialType:  l.HouseMaterialType,
		YearOfConstruction: l.YearOfConstruction,
		District:           l.District,
		Underground:        l.Underground,
		URL:                l.URL,
		Source:             l.Source,
	}
	if l.Rooms > 0 {
		row.RoomsCount = strconv.Itoa(l.Rooms)
	}
	if l.Coordinates != nil {
		lat, lon := l.Coordinates.Lat, l.Coordinates.Lon
		row.Latitude = &lat
		row.Longitude = &lon
	}
	return row
}

func fromRow(row listingRow) listing.Listing {
	l := listing.Listing{
		ID:                 row.ID,
		Address:            row.Address,
		Price:              normalize.Price(row.Price),
		Area:               normalize.Area(row.TotalMeters),
		Rooms:              normalize.RoomCount(row.RoomsCount),
		District:           row.District,
		ObjectType:         row.ObjectType,
		HouseMaterialType:  row.HouseMaterialType,
		YearOfConstruction: row.YearOfConstruction,
		Floor:              row.Floor,
		FloorsCount:        row.FloorsCount,
		Underground:        row.Underground,
		URL:                row.URL,
		Source:             row.Source,
		CreatedAt:          row.CreatedAt,
	}
	if row.Latitude != nil && row.Longitude != nil {
		l.Coordinates = &listing.Coordinates{Lat: *row.Latitude, Lon: *row.Longitude}
	}
	return l
}

func formatDecimal(v float64) string {
	if v == 0 {
		return ""
	}
	return strconv.FormatFloat(v, 'f', -1, 64)
}
