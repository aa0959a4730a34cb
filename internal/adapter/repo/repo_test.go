package repo

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"strings"
	"testing"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"

	"server/internal/domain"
)

type simpleRow struct {
	scan func(dest ...any) error
}

func (r simpleRow) Scan(dest ...any) error {
	if r.scan == nil {
		return pgx.ErrNoRows
	}
	return r.scan(dest...)
}

type fakeExecutor struct {
	lastQuery string
	lastArgs  []any
	row       simpleRow
	rows      pgx.Rows
	execTag   pgconn.CommandTag
	execErr   error
}

func (f *fakeExecutor) Exec(_ context.Context, query string, args ...any) (pgconn.CommandTag, error) {
	f.lastQuery, f.lastArgs = query, args
	return f.execTag, f.execErr
}

func (f *fakeExecutor) QueryRow(_ context.Context, query string, args ...any) pgx.Row {
	f.lastQuery, f.lastArgs = query, args
	return f.row
}

func (f *fakeExecutor) Query(_ context.Context, query string, args ...any) (pgx.Rows, error) {
	f.lastQuery, f.lastArgs = query, args
	return f.rows, nil
}

type rowsBase struct{}

func (rowsBase) CommandTag() pgconn.CommandTag                { return pgconn.CommandTag{} }
func (rowsBase) Conn() *pgx.Conn                              { return nil }
func (rowsBase) FieldDescriptions() []pgconn.FieldDescription { return nil }
func (rowsBase) RawValues() [][]byte                          { return nil }
func (rowsBase) Values() ([]any, error) {
	return nil, fmt.Errorf("values not supported in test rows")
}

type listRows struct {
	rowsBase
	scans []func(dest ...any) error
	idx   int
}

func (r *listRows) Next() bool {
	return r.idx < len(r.scans)
}

func (r *listRows) Scan(dest ...any) error {
	scan := r.scans[r.idx]
	r.idx++
	return scan(dest...)
}

func (r *listRows) Err() error { return nil }
func (r *listRows) Close()     {}

func setString(dest any, v string)    { *(dest.(*string)) = v }
func setTime(dest any, v time.Time)   { *(dest.(*time.Time)) = v }
func setStrings(dest any, v []string) { *(dest.(*[]string)) = v }
func setBytes(dest any, v []byte)     { *(dest.(*[]byte)) = v }

func TestItineraryCreateMarshalsDays(t *testing.T) {
	now := time.Now()
	exec := &fakeExecutor{row: simpleRow{scan: func(dest ...any) error {
		setString(dest[0], "itin-1")
		setTime(dest[1], now)
		setTime(dest[2], now)
		return nil
	}}}
	r := NewItineraryRepository(exec)

	it := &domain.Itinerary{
		UserID: "u1", City: "Seoul", Title: "Seoul Trip",
		Days: []domain.Day{{Number: 1, Activities: []domain.Activity{{Description: "Palace"}}}},
	}
	if err := r.Create(context.Background(), it); err != nil {
		t.Fatalf("create: %v", err)
	}
	if it.ID != "itin-1" {
		t.Fatalf("id = %q", it.ID)
	}
	if !strings.HasPrefix(strings.TrimSpace(exec.lastQuery), "--sql ") {
		t.Fatal("query must carry an audit marker")
	}

	raw, ok := exec.lastArgs[5].([]byte)
	if !ok {
		t.Fatalf("days arg type %T", exec.lastArgs[5])
	}
	var days []domain.Day
	if err := json.Unmarshal(raw, &days); err != nil {
		t.Fatalf("days payload is not canonical json: %v", err)
	}
	if len(days) != 1 || days[0].Number != 1 {
		t.Fatalf("days = %+v", days)
	}
}

func TestItineraryGetNormalizesLegacyDays(t *testing.T) {
	blob := "Day 1: Arrival\n- 9:00 AM - Check in at Hotel Indigo\nDay 2: Old town\n- Walk the wall"
	exec := &fakeExecutor{row: simpleRow{scan: func(dest ...any) error {
		setString(dest[0], "itin-1")
		setString(dest[1], "u1")
		setString(dest[2], "Dubrovnik")
		setString(dest[3], "HR")
		setString(dest[4], "Dubrovnik Trip")
		setStrings(dest[5], nil)
		legacy, _ := json.Marshal(blob)
		setBytes(dest[6], legacy)
		setTime(dest[7], time.Now())
		setTime(dest[8], time.Now())
		return nil
	}}}
	r := NewItineraryRepository(exec)

	it, err := r.GetForUser(context.Background(), "itin-1", "u1")
	if err != nil {
		t.Fatalf("get: %v", err)
	}
	if it.DayCount() != 2 {
		t.Fatalf("day count = %d, want 2", it.DayCount())
	}
	if it.Days[0].Number != 1 || len(it.Days[0].Activities) == 0 {
		t.Fatalf("day 1 = %+v", it.Days[0])
	}
}

func TestItineraryGetNotFound(t *testing.T) {
	exec := &fakeExecutor{row: simpleRow{}}
	r := NewItineraryRepository(exec)

	_, err := r.GetForUser(context.Background(), "missing", "u1")
	if !errors.Is(err, domain.ErrNotFound) {
		t.Fatalf("err = %v, want ErrNotFound", err)
	}
}

func TestItineraryDeleteNotFound(t *testing.T) {
	exec := &fakeExecutor{execTag: pgconn.NewCommandTag("DELETE 0")}
	r := NewItineraryRepository(exec)

	if err := r.Delete(context.Background(), "missing", "u1"); !errors.Is(err, domain.ErrNotFound) {
		t.Fatalf("err = %v, want ErrNotFound", err)
	}
}

func TestUserGetNormalizesTier(t *testing.T) {
	exec := &fakeExecutor{row: simpleRow{scan: func(dest ...any) error {
		setString(dest[0], "u1")
		setString(dest[1], "a@example.com")
		setString(dest[2], "Trip Fan")
		setString(dest[3], "en")
		setString(dest[4], "enterprise")
		setTime(dest[5], time.Now())
		setTime(dest[6], time.Now())
		return nil
	}}}
	r := NewUserRepository(exec)

	u, err := r.Get(context.Background(), "u1")
	if err != nil {
		t.Fatalf("get: %v", err)
	}
	if u.Tier != domain.TierFree {
		t.Fatalf("tier = %q, unknown values must normalize to free", u.Tier)
	}
}

func TestSpotListByCity(t *testing.T) {
	exec := &fakeExecutor{rows: &listRows{scans: []func(dest ...any) error{
		func(dest ...any) error {
			setString(dest[0], "s1")
			setString(dest[1], "Seoul")
			setString(dest[2], "Gwangjang Market")
			setString(dest[3], "food")
			setString(dest[4], "Street food hall")
			setString(dest[5], "")
			setString(dest[6], "gwangjang-market")
			setTime(dest[7], time.Now())
			return nil
		},
	}}}
	r := NewSpotRepository(exec)

	spots, err := r.ListByCity(context.Background(), "seoul", 10)
	if err != nil {
		t.Fatalf("list: %v", err)
	}
	if len(spots) != 1 || spots[0].Name != "Gwangjang Market" {
		t.Fatalf("spots = %+v", spots)
	}
	if got := spots[0].BookingURL("KR"); got != "https://partner.example-booking.com/gwangjang-market?market=KR" {
		t.Fatalf("booking url = %q", got)
	}
}
