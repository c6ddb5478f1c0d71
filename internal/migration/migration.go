package migration

import (
	"context"
	"errors"
	"fmt"

	"github.com/avstrong/hotelier/internal/hotel"
	"github.com/avstrong/hotelier/internal/logger"
)

type storage interface {
	Room(ctx context.Context, number string) (*hotel.Room, error)
	SaveRoom(ctx context.Context, room *hotel.Room) error
	GuestByUsername(ctx context.Context, username string) (*hotel.Guest, error)
	SaveGuest(ctx context.Context, guest *hotel.Guest) error
}

type idGenerator interface {
	NewID(ctx context.Context) (string, error)
}

type seedRoom struct {
	number   string
	category hotel.Category
}

type seedGuest struct {
	username string
	password string
}

// Up seeds the initial inventory and guest accounts. Records that already
// exist are left untouched, so it is safe to run at every startup over a
// persistent store.
func Up(ctx context.Context, l *logger.Logger, storage storage, idGen idGenerator) error {
	rooms := []seedRoom{
		{number: "101", category: hotel.CategoryStandard},
		{number: "102", category: hotel.CategoryStandard},
		{number: "201", category: hotel.CategoryDeluxe},
		{number: "202", category: hotel.CategoryDeluxe},
		{number: "301", category: hotel.CategorySuite},
	}

	guests := []seedGuest{
		{username: "user1", password: "pass1"},
		{username: "user2", password: "pass2"},
	}

	var created int

	for _, seed := range rooms {
		if _, err := storage.Room(ctx, seed.number); err == nil {
			continue
		} else if !errors.Is(err, hotel.ErrRoomNotFound) {
			return fmt.Errorf("check room %v: %w", seed.number, err)
		}

		room, err := hotel.NewRoom(seed.number, seed.category)
		if err != nil {
			return fmt.Errorf("build room %v: %w", seed.number, err)
		}

		if err := storage.SaveRoom(ctx, room); err != nil {
			return fmt.Errorf("save room %v to storage: %w", seed.number, err)
		}

		created++
	}

	for _, seed := range guests {
		if _, err := storage.GuestByUsername(ctx, seed.username); err == nil {
			continue
		} else if !errors.Is(err, hotel.ErrGuestNotFound) {
			return fmt.Errorf("check guest %v: %w", seed.username, err)
		}

		id, err := idGen.NewID(ctx)
		if err != nil {
			return fmt.Errorf("generate id for guest %v: %w", seed.username, err)
		}

		guest := &hotel.Guest{
			ID:       id,
			Username: seed.username,
			Password: seed.password,
		}

		if err := storage.SaveGuest(ctx, guest); err != nil {
			return fmt.Errorf("save guest %v to storage: %w", seed.username, err)
		}

		created++
	}

	l.LogInfo("Seed migration applied, %v records created", created)

	return nil
}
