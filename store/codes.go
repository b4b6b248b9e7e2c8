package store

import (
	"drinkspeed/domain"
	"drinkspeed/errors"
	stderrors "errors"
	"fmt"

	gonanoid "github.com/matoous/go-nanoid/v2"
)

const (
	// MaxCodeAttempts bounds the number of candidates tried for one room.
	MaxCodeAttempts = 100
	codeAlphabet    = "0123456789"
	codeLength      = 4
)

// CodeGenerator produces candidate room codes. Uniqueness is checked by the store.
type CodeGenerator func() (domain.RoomCode, error)

// NanoidCodes draws 4-digit numeric codes.
func NanoidCodes() CodeGenerator {
	return func() (domain.RoomCode, error) {
		code, err := gonanoid.Generate(codeAlphabet, codeLength)
		if err != nil {
			return "", err
		}
		return domain.RoomCode(code), nil
	}
}

// reserveCode returns a code unused by live, reserved and persisted rooms and
// marks it reserved. Repository lookups run without s.mu held.
func (s *Store) reserveCode() (domain.RoomCode, error) {
	for attempt := 0; attempt < MaxCodeAttempts; attempt++ {
		code, free, err := s.tryReserve()
		if err != nil {
			return "", err
		}
		if !free {
			continue
		}
		if s.repo != nil {
			if _, err := s.repo.FindRoomByCode(code); err == nil {
				s.release(code)
				continue
			} else if !stderrors.Is(err, errors.ErrNotFound) {
				s.release(code)
				return "", fmt.Errorf("lookup room code %s: %w", code, err)
			}
		}
		return code, nil
	}
	return "", fmt.Errorf("%w after %d attempts", errors.ErrRoomCodeExhausted, MaxCodeAttempts)
}

func (s *Store) tryReserve() (domain.RoomCode, bool, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	code, err := s.codes()
	if err != nil {
		return "", false, fmt.Errorf("generate room code: %w", err)
	}
	if _, ok := s.rooms[code]; ok {
		return code, false, nil
	}
	if _, ok := s.reserved[code]; ok {
		return code, false, nil
	}
	s.reserved[code] = struct{}{}
	return code, true, nil
}

func (s *Store) release(code domain.RoomCode) {
	s.mu.Lock()
	defer s.mu.Unlock()
	delete(s.reserved, code)
}
