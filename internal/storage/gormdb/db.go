// Package gormdb is the SQLite-backed storage. Domain state stays resident in
// an in-memory store, which keeps the locking semantics of the memory backend;
// every save is written through to SQLite, and Open rebuilds the resident
// state from the database file.
package gormdb

import (
	"context"
	"fmt"
	"time"

	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
	gormlogger "gorm.io/gorm/logger"

	"github.com/avstrong/hotelier/internal/hotel"
	"github.com/avstrong/hotelier/internal/logger"
	"github.com/avstrong/hotelier/internal/storage/memory"
)

const dateLayout = "2006-01-02"

type Config struct {
	L    *logger.Logger
	Path string
}

type DB struct {
	l     *logger.Logger
	gdb   *gorm.DB
	cache *memory.DB
}

func Open(ctx context.Context, conf Config) (*DB, error) {
	gormCfg := &gorm.Config{
		Logger: gormlogger.Default.LogMode(gormlogger.Warn),
		NowFunc: func() time.Time {
			return time.Now().UTC()
		},
	}

	gdb, err := gorm.Open(sqlite.Open(conf.Path), gormCfg)
	if err != nil {
		return nil, fmt.Errorf("gorm open %v: %w", conf.Path, err)
	}

	if err := autoMigrate(gdb); err != nil {
		return nil, fmt.Errorf("auto migrate: %w", err)
	}

	db := &DB{
		l:     conf.L,
		gdb:   gdb,
		cache: memory.New(memory.Config{L: conf.L}),
	}

	if err := db.load(ctx); err != nil {
		return nil, fmt.Errorf("load state from %v: %w", conf.Path, err)
	}

	return db, nil
}

func (db *DB) Close() error {
	sqlDB, err := db.gdb.DB()
	if err != nil {
		return fmt.Errorf("unwrap sql db: %w", err)
	}

	if err := sqlDB.Close(); err != nil {
		return fmt.Errorf("close sql db: %w", err)
	}

	return nil
}

func (db *DB) load(ctx context.Context) error {
	var roomRecords []roomRecord

	if err := db.gdb.WithContext(ctx).Order("id ASC").Find(&roomRecords).Error; err != nil {
		return fmt.Errorf("load rooms: %w", err)
	}

	for _, rec := range roomRecords {
		room, err := hotel.NewRoom(rec.Number, hotel.Category(rec.Category))
		if err != nil {
			return fmt.Errorf("restore room %v: %w", rec.Number, err)
		}

		room.SetPrice(rec.Price)

		var dateRecords []bookedDateRecord

		if err := db.gdb.WithContext(ctx).
			Where("room_number = ?", rec.Number).
			Find(&dateRecords).Error; err != nil {
			return fmt.Errorf("load booked dates of room %v: %w", rec.Number, err)
		}

		for _, dateRec := range dateRecords {
			d, err := time.Parse(dateLayout, dateRec.Date)
			if err != nil {
				return fmt.Errorf("restore booked date %v of room %v: %w", dateRec.Date, rec.Number, err)
			}

			room.BookDates(d, d.AddDate(0, 0, 1))
		}

		if err := db.cache.SaveRoom(ctx, room); err != nil {
			return fmt.Errorf("cache room %v: %w", rec.Number, err)
		}
	}

	var guestRecords []guestRecord

	if err := db.gdb.WithContext(ctx).Find(&guestRecords).Error; err != nil {
		return fmt.Errorf("load guests: %w", err)
	}

	for _, rec := range guestRecords {
		guest := &hotel.Guest{ID: rec.ID, Username: rec.Username, Password: rec.Password}

		if err := db.cache.SaveGuest(ctx, guest); err != nil {
			return fmt.Errorf("cache guest %v: %w", rec.Username, err)
		}
	}

	var reservationRecords []reservationRecord

	if err := db.gdb.WithContext(ctx).Find(&reservationRecords).Error; err != nil {
		return fmt.Errorf("load reservations: %w", err)
	}

	for _, rec := range reservationRecords {
		reservation := &hotel.Reservation{
			ID:         rec.ID,
			GuestID:    rec.GuestID,
			RoomNumber: rec.RoomNumber,
			CheckIn:    rec.CheckIn,
			CheckOut:   rec.CheckOut,
			Total:      rec.Total,
			Status:     hotel.Status(rec.Status),
			CreatedAt:  rec.CreatedAt,
		}

		if err := db.cache.SaveReservation(ctx, reservation); err != nil {
			return fmt.Errorf("cache reservation %v: %w", rec.ID, err)
		}
	}

	db.l.LogInfo("Loaded %v rooms, %v guests, %v reservations from database",
		len(roomRecords), len(guestRecords), len(reservationRecords))

	return nil
}

func (db *DB) SaveRoom(ctx context.Context, room *hotel.Room) error {
	rec := roomRecord{
		Number:   room.Number,
		Category: room.Category.String(),
		Price:    room.Price(),
		Capacity: room.Capacity,
	}

	err := db.gdb.WithContext(ctx).
		Clauses(clause.OnConflict{
			Columns:   []clause.Column{{Name: "number"}},
			DoUpdates: clause.AssignmentColumns([]string{"category", "price", "capacity", "updated_at"}),
		}).
		Create(&rec).Error
	if err != nil {
		return fmt.Errorf("persist room %v: %w", room.Number, err)
	}

	if err := db.syncBookedDates(ctx, room); err != nil {
		return err
	}

	return db.cache.SaveRoom(ctx, room)
}

// syncBookedDates replaces the room's persisted date rows with its live set.
// It runs at every commit point that can have changed the set.
func (db *DB) syncBookedDates(ctx context.Context, room *hotel.Room) error {
	dates := room.BookedDates()

	err := db.gdb.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Where("room_number = ?", room.Number).Delete(&bookedDateRecord{}).Error; err != nil {
			return fmt.Errorf("clear booked dates: %w", err)
		}

		for _, d := range dates {
			rec := bookedDateRecord{RoomNumber: room.Number, Date: d.Format(dateLayout)}
			if err := tx.Create(&rec).Error; err != nil {
				return fmt.Errorf("insert booked date %v: %w", rec.Date, err)
			}
		}

		return nil
	})
	if err != nil {
		return fmt.Errorf("sync booked dates of room %v: %w", room.Number, err)
	}

	return nil
}

func (db *DB) Room(ctx context.Context, number string) (*hotel.Room, error) {
	return db.cache.Room(ctx, number)
}

func (db *DB) Rooms(ctx context.Context) ([]*hotel.Room, error) {
	return db.cache.Rooms(ctx)
}

func (db *DB) SaveGuest(ctx context.Context, guest *hotel.Guest) error {
	rec := guestRecord{ID: guest.ID, Username: guest.Username, Password: guest.Password}

	if err := db.gdb.WithContext(ctx).Clauses(clause.OnConflict{UpdateAll: true}).Create(&rec).Error; err != nil {
		return fmt.Errorf("persist guest %v: %w", guest.Username, err)
	}

	return db.cache.SaveGuest(ctx, guest)
}

func (db *DB) GuestByUsername(ctx context.Context, username string) (*hotel.Guest, error) {
	return db.cache.GuestByUsername(ctx, username)
}

func (db *DB) SaveReservation(ctx context.Context, reservation *hotel.Reservation) error {
	rec := reservationRecord{
		ID:         reservation.ID,
		GuestID:    reservation.GuestID,
		RoomNumber: reservation.RoomNumber,
		CheckIn:    reservation.CheckIn,
		CheckOut:   reservation.CheckOut,
		Total:      reservation.Total,
		Status:     string(reservation.Status),
		CreatedAt:  reservation.CreatedAt,
	}

	if err := db.gdb.WithContext(ctx).Clauses(clause.OnConflict{UpdateAll: true}).Create(&rec).Error; err != nil {
		return fmt.Errorf("persist reservation %v: %w", reservation.ID, err)
	}

	// A reservation commit is also the commit point for its room's date set.
	room, err := db.cache.Room(ctx, reservation.RoomNumber)
	if err != nil {
		return fmt.Errorf("room of reservation %v: %w", reservation.ID, err)
	}

	if err := db.syncBookedDates(ctx, room); err != nil {
		return err
	}

	return db.cache.SaveReservation(ctx, reservation)
}

func (db *DB) Reservation(ctx context.Context, id string) (*hotel.Reservation, error) {
	return db.cache.Reservation(ctx, id)
}

func (db *DB) ReservationsByGuest(ctx context.Context, guestID string) ([]*hotel.Reservation, error) {
	return db.cache.ReservationsByGuest(ctx, guestID)
}
