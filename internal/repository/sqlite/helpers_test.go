package sqlite

import (
	"context"
	"path/filepath"
	"testing"
	"time"

	"github.com/sakif/sportsforum/internal/auth"
	"github.com/sakif/sportsforum/internal/model"
)

// testEpoch is the initial time of every test clock.
var testEpoch = time.Date(2026, time.March, 2, 18, 0, 0, 0, time.UTC)

// testClock is a settable clock handed to Conn via WithClock.
type testClock struct {
	now time.Time
}

func (c *testClock) Now() time.Time { return c.now }

func (c *testClock) advance(d time.Duration) { c.now = c.now.Add(d) }

// newBareEngine returns an Engine on a fresh file in a temp dir, with no
// tables. bcrypt cost 4 keeps hashing fast.
func newBareEngine(t *testing.T) *Engine {
	t.Helper()
	path := filepath.Join(t.TempDir(), "forum.db")
	return NewEngine(path, auth.NewPasswordService(4), nil)
}

// newTestEngine returns an Engine with the schema created.
func newTestEngine(t *testing.T) *Engine {
	t.Helper()
	e := newBareEngine(t)
	if err := e.CreateStorage(context.Background()); err != nil {
		t.Fatalf("CreateStorage() error = %v", err)
	}
	return e
}

// newTestConn opens a Conn on a fresh schema driven by the returned clock.
func newTestConn(t *testing.T) (*Conn, *testClock) {
	t.Helper()
	return openTestConn(t, newTestEngine(t))
}

func openTestConn(t *testing.T, e *Engine) (*Conn, *testClock) {
	t.Helper()
	clock := &testClock{now: testEpoch}
	c, err := e.Open(context.Background(), WithClock(clock.Now))
	if err != nil {
		t.Fatalf("Open() error = %v", err)
	}
	t.Cleanup(func() { c.Close() })
	return c, clock
}

func testProfile(first, email string) model.Profile {
	return model.Profile{
		Public: model.PublicProfile{
			Signature: first + " was here",
			Avatar:    first + ".png",
		},
		Restricted: model.RestrictedProfile{
			FirstName: first,
			LastName:  "Tester",
			Email:     email,
			Website:   "http://example.com/" + first,
			Picture:   first + ".jpg",
			Mobile:    "+358400000000",
			Skype:     first + ".skype",
			Age:       30,
			Residence: "Oulu",
			Gender:    "female",
		},
	}
}

// createTestUser creates nickname with password "<nickname>-pass".
func createTestUser(t *testing.T, c *Conn, nickname string) {
	t.Helper()
	if err := c.CreateUser(context.Background(), nickname, nickname+"-pass", testProfile(nickname, nickname+"@example.com")); err != nil {
		t.Fatalf("CreateUser(%q) error = %v", nickname, err)
	}
}

func createTestSport(t *testing.T, c *Conn, name string) *model.Sport {
	t.Helper()
	s := &model.Sport{Name: name, ScheduledTime: "Mon 18:00", HallNumber: 1, Note: "indoor"}
	if err := c.CreateSport(context.Background(), s); err != nil {
		t.Fatalf("CreateSport(%q) error = %v", name, err)
	}
	return s
}

// countRows reads a row count straight from the table.
func countRows(t *testing.T, c *Conn, table string) int {
	t.Helper()
	var n int
	if err := c.db.QueryRowContext(context.Background(), `SELECT COUNT(*) FROM `+table).Scan(&n); err != nil {
		t.Fatalf("counting %s: %v", table, err)
	}
	return n
}
