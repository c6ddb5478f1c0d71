package gormdb

import (
	"time"

	"gorm.io/gorm"
)

// rooms
type roomRecord struct {
	ID        uint      `gorm:"primaryKey;autoIncrement"`
	Number    string    `gorm:"type:varchar(16);not null;uniqueIndex"`
	Category  string    `gorm:"type:varchar(32);not null"`
	Price     float64   `gorm:"not null"`
	Capacity  int       `gorm:"not null"`
	CreatedAt time.Time `gorm:"not null"`
	UpdatedAt time.Time `gorm:"not null"`
}

func (roomRecord) TableName() string { return "rooms" }

// room_booked_dates
type bookedDateRecord struct {
	ID         uint   `gorm:"primaryKey;autoIncrement"`
	RoomNumber string `gorm:"type:varchar(16);not null;uniqueIndex:idx_room_date"`
	Date       string `gorm:"type:varchar(10);not null;uniqueIndex:idx_room_date"`
}

func (bookedDateRecord) TableName() string { return "room_booked_dates" }

// reservations
type reservationRecord struct {
	ID         string    `gorm:"type:varchar(64);primaryKey"`
	GuestID    string    `gorm:"type:varchar(64);not null;index"`
	RoomNumber string    `gorm:"type:varchar(16);not null;index"`
	CheckIn    time.Time `gorm:"not null"`
	CheckOut   time.Time `gorm:"not null"`
	Total      float64   `gorm:"not null"`
	Status     string    `gorm:"type:varchar(32);not null;index"`
	CreatedAt  time.Time `gorm:"not null"`
}

func (reservationRecord) TableName() string { return "reservations" }

// guests
type guestRecord struct {
	ID       string `gorm:"type:varchar(64);primaryKey"`
	Username string `gorm:"type:varchar(64);not null;uniqueIndex"`
	Password string `gorm:"type:varchar(128);not null"`
}

func (guestRecord) TableName() string { return "guests" }

func autoMigrate(db *gorm.DB) error {
	return db.AutoMigrate(
		&roomRecord{},
		&bookedDateRecord{},
		&reservationRecord{},
		&guestRecord{},
	)
}
