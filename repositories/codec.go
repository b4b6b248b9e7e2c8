package repositories

import (
	"drinkspeed/domain"
	"fmt"
	"math"
	"strings"
	"time"

	"github.com/google/uuid"
	"google.golang.org/protobuf/encoding/protowire"
)

// Records are stored in the protobuf wire format. Field numbers are part of the
// on-disk format: never reuse or renumber them. Optional fields are written only
// when set, so absence survives a round trip.

var errCorruptRecord = fmt.Errorf("corrupt record")

const (
	roomCode      protowire.Number = 1
	roomName      protowire.Number = 2
	roomCreatedAt protowire.Number = 3
	roomEndedAt   protowire.Number = 4
	roomStatus    protowire.Number = 5

	userID         protowire.Number = 1
	userName       protowire.Number = 2
	userRoomCode   protowire.Number = 3
	userJoinedAt   protowire.Number = 4
	userFinishedAt protowire.Number = 5
	userTotalUnits protowire.Number = 6
	userTier       protowire.Number = 7
	userRank       protowire.Number = 8
	userCommentary protowire.Number = 9

	drinkID         protowire.Number = 1
	drinkUserID     protowire.Number = 2
	drinkCategory   protowire.Number = 3
	drinkQuantity   protowire.Number = 4
	drinkUnits      protowire.Number = 5
	drinkRecordedAt protowire.Number = 6

	reactionID         protowire.Number = 1
	reactionUserID     protowire.Number = 2
	reactionLatencyMs  protowire.Number = 3
	reactionRecordedAt protowire.Number = 4
)

func encodeRoom(r domain.Room) []byte {
	var b []byte
	b = appendString(b, roomCode, string(r.Code))
	b = appendString(b, roomName, r.Name)
	b = appendTime(b, roomCreatedAt, r.CreatedAt)
	if r.EndedAt != nil {
		b = appendTime(b, roomEndedAt, *r.EndedAt)
	}
	b = appendInt(b, roomStatus, int64(r.Status))
	return b
}

func decodeRoom(data []byte) (domain.Room, error) {
	var r domain.Room
	d := decoder{b: data}
	for num, typ, ok := d.next(); ok; num, typ, ok = d.next() {
		switch num {
		case roomCode:
			r.Code = domain.RoomCode(d.string(typ))
		case roomName:
			r.Name = d.string(typ)
		case roomCreatedAt:
			r.CreatedAt = d.time(typ)
		case roomEndedAt:
			t := d.time(typ)
			r.EndedAt = &t
		case roomStatus:
			r.Status = domain.RoomStatus(d.int(typ))
		default:
			d.skip(num, typ)
		}
	}
	return r, d.err
}

func encodeUser(u domain.User) []byte {
	var b []byte
	b = appendString(b, userID, string(u.ID))
	b = appendString(b, userName, u.Name)
	b = appendString(b, userRoomCode, string(u.RoomCode))
	b = appendTime(b, userJoinedAt, u.JoinedAt)
	if u.FinishedAt != nil {
		b = appendTime(b, userFinishedAt, *u.FinishedAt)
	}
	b = appendDouble(b, userTotalUnits, u.TotalUnits)
	if u.Tier != nil {
		b = appendInt(b, userTier, int64(*u.Tier))
	}
	if u.Rank != nil {
		b = appendInt(b, userRank, int64(*u.Rank))
	}
	if u.Commentary != nil {
		b = appendString(b, userCommentary, *u.Commentary)
	}
	return b
}

func decodeUser(data []byte) (domain.User, error) {
	var u domain.User
	d := decoder{b: data}
	for num, typ, ok := d.next(); ok; num, typ, ok = d.next() {
		switch num {
		case userID:
			u.ID = domain.UserID(d.string(typ))
		case userName:
			u.Name = d.string(typ)
		case userRoomCode:
			u.RoomCode = domain.RoomCode(d.string(typ))
		case userJoinedAt:
			u.JoinedAt = d.time(typ)
		case userFinishedAt:
			t := d.time(typ)
			u.FinishedAt = &t
		case userTotalUnits:
			u.TotalUnits = d.double(typ)
		case userTier:
			tier := domain.Tier(d.int(typ))
			u.Tier = &tier
		case userRank:
			rank := int(d.int(typ))
			u.Rank = &rank
		case userCommentary:
			text := d.string(typ)
			u.Commentary = &text
		default:
			d.skip(num, typ)
		}
	}
	return u, d.err
}

func encodeDrink(r domain.DrinkRecord) []byte {
	var b []byte
	b = appendString(b, drinkID, r.ID.String())
	b = appendString(b, drinkUserID, string(r.UserID))
	b = appendString(b, drinkCategory, string(r.Category))
	b = appendInt(b, drinkQuantity, int64(r.Quantity))
	b = appendDouble(b, drinkUnits, r.Units)
	b = appendTime(b, drinkRecordedAt, r.RecordedAt)
	return b
}

func decodeDrink(data []byte) (domain.DrinkRecord, error) {
	var r domain.DrinkRecord
	d := decoder{b: data}
	for num, typ, ok := d.next(); ok; num, typ, ok = d.next() {
		switch num {
		case drinkID:
			r.ID = d.uuid(typ)
		case drinkUserID:
			r.UserID = domain.UserID(d.string(typ))
		case drinkCategory:
			r.Category = domain.Category(d.string(typ))
		case drinkQuantity:
			r.Quantity = int(d.int(typ))
		case drinkUnits:
			r.Units = d.double(typ)
		case drinkRecordedAt:
			r.RecordedAt = d.time(typ)
		default:
			d.skip(num, typ)
		}
	}
	return r, d.err
}

func encodeReaction(r domain.ReactionRecord) []byte {
	var b []byte
	b = appendString(b, reactionID, r.ID.String())
	b = appendString(b, reactionUserID, string(r.UserID))
	b = appendInt(b, reactionLatencyMs, int64(r.LatencyMs))
	b = appendTime(b, reactionRecordedAt, r.RecordedAt)
	return b
}

func decodeReaction(data []byte) (domain.ReactionRecord, error) {
	var r domain.ReactionRecord
	d := decoder{b: data}
	for num, typ, ok := d.next(); ok; num, typ, ok = d.next() {
		switch num {
		case reactionID:
			r.ID = d.uuid(typ)
		case reactionUserID:
			r.UserID = domain.UserID(d.string(typ))
		case reactionLatencyMs:
			r.LatencyMs = int(d.int(typ))
		case reactionRecordedAt:
			r.RecordedAt = d.time(typ)
		default:
			d.skip(num, typ)
		}
	}
	return r, d.err
}

func appendString(b []byte, num protowire.Number, s string) []byte {
	b = protowire.AppendTag(b, num, protowire.BytesType)
	return protowire.AppendString(b, s)
}

// appendInt uses the sint64 zigzag encoding.
func appendInt(b []byte, num protowire.Number, v int64) []byte {
	b = protowire.AppendTag(b, num, protowire.VarintType)
	return protowire.AppendVarint(b, protowire.EncodeZigZag(v))
}

func appendDouble(b []byte, num protowire.Number, v float64) []byte {
	b = protowire.AppendTag(b, num, protowire.Fixed64Type)
	return protowire.AppendFixed64(b, math.Float64bits(v))
}

// appendTime stores Unix nanoseconds.
func appendTime(b []byte, num protowire.Number, t time.Time) []byte {
	return appendInt(b, num, t.UnixNano())
}

// decoder walks the fields of one record and keeps the first error.
type decoder struct {
	b   []byte
	err error
}

func (d *decoder) next() (protowire.Number, protowire.Type, bool) {
	if d.err != nil || len(d.b) == 0 {
		return 0, 0, false
	}
	num, typ, n := protowire.ConsumeTag(d.b)
	if !d.advance(n) {
		return 0, 0, false
	}
	return num, typ, true
}

func (d *decoder) advance(n int) bool {
	if n < 0 {
		d.err = fmt.Errorf("%w: %w", errCorruptRecord, protowire.ParseError(n))
		d.b = nil
		return false
	}
	d.b = d.b[n:]
	return true
}

func (d *decoder) expect(got, want protowire.Type) bool {
	if got != want {
		d.err = fmt.Errorf("%w: wire type %d, want %d", errCorruptRecord, got, want)
		d.b = nil
		return false
	}
	return true
}

func (d *decoder) string(typ protowire.Type) string {
	if !d.expect(typ, protowire.BytesType) {
		return ""
	}
	v, n := protowire.ConsumeString(d.b)
	d.advance(n)
	return v
}

func (d *decoder) int(typ protowire.Type) int64 {
	if !d.expect(typ, protowire.VarintType) {
		return 0
	}
	v, n := protowire.ConsumeVarint(d.b)
	d.advance(n)
	return protowire.DecodeZigZag(v)
}

func (d *decoder) double(typ protowire.Type) float64 {
	if !d.expect(typ, protowire.Fixed64Type) {
		return 0
	}
	v, n := protowire.ConsumeFixed64(d.b)
	d.advance(n)
	return math.Float64frombits(v)
}

func (d *decoder) time(typ protowire.Type) time.Time {
	return time.Unix(0, d.int(typ)).UTC()
}

func (d *decoder) uuid(typ protowire.Type) uuid.UUID {
	s := d.string(typ)
	if d.err != nil {
		return uuid.Nil
	}
	id, err := uuid.Parse(s)
	if err != nil {
		d.err = fmt.Errorf("%w: %w", errCorruptRecord, err)
	}
	return id
}

func (d *decoder) skip(num protowire.Number, typ protowire.Type) {
	d.advance(protowire.ConsumeFieldValue(num, typ, d.b))
}

// Entry is one decoded key/value pair, as shown by inspection tools.
type Entry struct {
	Kind  string
	Key   string
	Value any
}

// DecodeEntry decodes a raw pair according to its key prefix.
// Room index entries carry the user id as value.
func DecodeEntry(key, value []byte) (Entry, error) {
	k := string(key)
	kind, _, _ := strings.Cut(k, ":")
	entry := Entry{Kind: kind, Key: k}
	var err error
	switch kind {
	case "room":
		entry.Value, err = decodeRoom(value)
	case "user":
		entry.Value, err = decodeUser(value)
	case "drink":
		entry.Value, err = decodeDrink(value)
	case "reaction":
		entry.Value, err = decodeReaction(value)
	case "idx":
		entry.Value = domain.UserID(value)
	default:
		err = fmt.Errorf("%w: unknown key prefix %q", errCorruptRecord, kind)
	}
	return entry, err
}
