package repositories

import (
	"drinkspeed/domain"
	"drinkspeed/errors"
	stderrors "errors"
	"fmt"
	"log/slog"
	"slices"

	"github.com/dgraph-io/badger/v4"
)

// BadgerRepository persists rooms, users and their append-only records.
//
// Key layout:
//
//	room:{code}
//	user:{id}
//	idx:room:{code}:{joined_nanos_padded}:{user_id}
//	drink:{user_id}:{recorded_nanos_padded}:{record_id}
//	reaction:{user_id}:{recorded_nanos_padded}:{record_id}
//
// Timestamps are zero padded to 19 digits so a prefix scan returns records in
// chronological order. The record id breaks ties at the same nanosecond.
type BadgerRepository struct {
	db  *badger.DB
	log *slog.Logger
}

func NewBadgerRepository(db *badger.DB, log *slog.Logger) BadgerRepository {
	return BadgerRepository{db: db, log: log}
}

func roomKey(code domain.RoomCode) []byte {
	return []byte(fmt.Sprintf("room:%s", code))
}

func userKey(id domain.UserID) []byte {
	return []byte(fmt.Sprintf("user:%s", id))
}

func roomIndexKey(u domain.User) []byte {
	return []byte(fmt.Sprintf("idx:room:%s:%019d:%s", u.RoomCode, u.JoinedAt.UnixNano(), u.ID))
}

func roomIndexPrefix(code domain.RoomCode) []byte {
	return []byte(fmt.Sprintf("idx:room:%s:", code))
}

func drinkKey(r domain.DrinkRecord) []byte {
	return []byte(fmt.Sprintf("drink:%s:%019d:%s", r.UserID, r.RecordedAt.UnixNano(), r.ID))
}

func reactionKey(r domain.ReactionRecord) []byte {
	return []byte(fmt.Sprintf("reaction:%s:%019d:%s", r.UserID, r.RecordedAt.UnixNano(), r.ID))
}

func (b BadgerRepository) SaveRoom(room domain.Room) error {
	return b.db.Update(func(txn *badger.Txn) error {
		return txn.Set(roomKey(room.Code), encodeRoom(room))
	})
}

// SaveUser writes the user and its room index entry in one transaction.
func (b BadgerRepository) SaveUser(user domain.User) error {
	return b.db.Update(func(txn *badger.Txn) error {
		if err := txn.Set(userKey(user.ID), encodeUser(user)); err != nil {
			return err
		}
		return txn.Set(roomIndexKey(user), []byte(user.ID))
	})
}

func (b BadgerRepository) AppendDrink(record domain.DrinkRecord) error {
	return b.db.Update(func(txn *badger.Txn) error {
		return txn.Set(drinkKey(record), encodeDrink(record))
	})
}

func (b BadgerRepository) AppendReaction(record domain.ReactionRecord) error {
	return b.db.Update(func(txn *badger.Txn) error {
		return txn.Set(reactionKey(record), encodeReaction(record))
	})
}

func (b BadgerRepository) FindRoomByCode(code domain.RoomCode) (domain.Room, error) {
	var room domain.Room
	err := b.db.View(func(txn *badger.Txn) error {
		value, err := get(txn, roomKey(code))
		if err != nil {
			return err
		}
		room, err = decodeRoom(value)
		return err
	})
	if stderrors.Is(err, badger.ErrKeyNotFound) {
		return domain.Room{}, fmt.Errorf("%w: %s", errors.ErrRoomNotFound, code)
	}
	return room, err
}

func (b BadgerRepository) FindUserByID(id domain.UserID) (domain.User, error) {
	var user domain.User
	err := b.db.View(func(txn *badger.Txn) error {
		value, err := get(txn, userKey(id))
		if err != nil {
			return err
		}
		user, err = decodeUser(value)
		return err
	})
	if stderrors.Is(err, badger.ErrKeyNotFound) {
		return domain.User{}, fmt.Errorf("%w: %s", errors.ErrUserNotFound, id)
	}
	return user, err
}

// FindUsersByRoomCode returns the room's users in join order.
func (b BadgerRepository) FindUsersByRoomCode(code domain.RoomCode) ([]domain.User, error) {
	var users []domain.User
	err := b.db.View(func(txn *badger.Txn) error {
		return scan(txn, roomIndexPrefix(code), func(value []byte) error {
			raw, err := get(txn, userKey(domain.UserID(value)))
			if err != nil {
				return err
			}
			user, err := decodeUser(raw)
			if err != nil {
				return err
			}
			users = append(users, user)
			return nil
		})
	})
	return users, err
}

func (b BadgerRepository) FindDrinksByUserID(id domain.UserID) ([]domain.DrinkRecord, error) {
	var records []domain.DrinkRecord
	err := b.db.View(func(txn *badger.Txn) error {
		return scan(txn, []byte(fmt.Sprintf("drink:%s:", id)), func(value []byte) error {
			record, err := decodeDrink(value)
			if err != nil {
				return err
			}
			records = append(records, record)
			return nil
		})
	})
	return records, err
}

func (b BadgerRepository) FindReactionsByUserID(id domain.UserID) ([]domain.ReactionRecord, error) {
	var records []domain.ReactionRecord
	err := b.db.View(func(txn *badger.Txn) error {
		return scan(txn, []byte(fmt.Sprintf("reaction:%s:", id)), func(value []byte) error {
			record, err := decodeReaction(value)
			if err != nil {
				return err
			}
			records = append(records, record)
			return nil
		})
	})
	return records, err
}

// ListRooms returns every persisted room, oldest first.
func (b BadgerRepository) ListRooms() ([]domain.Room, error) {
	var rooms []domain.Room
	err := b.db.View(func(txn *badger.Txn) error {
		return scan(txn, []byte("room:"), func(value []byte) error {
			room, err := decodeRoom(value)
			if err != nil {
				return err
			}
			rooms = append(rooms, room)
			return nil
		})
	})
	if err != nil {
		return nil, err
	}
	slices.SortStableFunc(rooms, func(a, b domain.Room) int {
		return a.CreatedAt.Compare(b.CreatedAt)
	})
	b.log.Debug(fmt.Sprintf("Loaded %d rooms from disk", len(rooms)))
	return rooms, nil
}

func get(txn *badger.Txn, key []byte) ([]byte, error) {
	item, err := txn.Get(key)
	if err != nil {
		return nil, err
	}
	return item.ValueCopy(nil)
}

// scan calls fn with a copy of every value under prefix, in key order.
func scan(txn *badger.Txn, prefix []byte, fn func(value []byte) error) error {
	it := txn.NewIterator(badger.DefaultIteratorOptions)
	defer it.Close()
	for it.Seek(prefix); it.ValidForPrefix(prefix); it.Next() {
		value, err := it.Item().ValueCopy(nil)
		if err != nil {
			return err
		}
		if err = fn(value); err != nil {
			return err
		}
	}
	return nil
}
