package sqlite

import (
	"time"

	"github.com/sakif/sportsforum/internal/model"
)

// rowScanner is satisfied by both *sql.Row and *sql.Rows.
type rowScanner interface {
	Scan(dest ...any) error
}

// Column lists that go with the scan functions below. Nullable text columns
// are COALESCEd so they scan into plain strings.
const (
	userColumns = `users.user_id, users.nickname, COALESCE(users.password, ''),
		COALESCE(users.regDate, 0), COALESCE(users.lastLogin, 0),
		COALESCE(users.timesviewed, 0), COALESCE(users.userType, 0)`

	profileColumns = `users.nickname, COALESCE(users.regDate, 0), COALESCE(users.userType, 0),
		COALESCE(p.signature, ''), COALESCE(p.avatar, ''),
		COALESCE(p.firstname, ''), COALESCE(p.lastname, ''), COALESCE(p.email, ''),
		COALESCE(p.website, ''), COALESCE(p.picture, ''), COALESCE(p.mobile, ''),
		COALESCE(p.skype, ''), COALESCE(p.age, 0), COALESCE(p.residence, ''),
		COALESCE(p.gender, '')`

	userSummaryColumns = `users.nickname, COALESCE(users.regDate, 0),
		COALESCE(users.lastLogin, 0), COALESCE(users.timesviewed, 0)`

	sportColumns = `sport_id, sportname, COALESCE(time, ''), COALESCE(hallnumber, 0), COALESCE(note, '')`

	orderColumns = `order_id, COALESCE(nickname, ''), sportname, timestamp`
)

func fromUnix(sec int64) time.Time {
	return time.Unix(sec, 0).UTC()
}

func toUnix(t time.Time) int64 {
	return t.Unix()
}

func scanUser(row rowScanner) (*model.User, error) {
	var (
		u                  model.User
		regDate, lastLogin int64
	)
	if err := row.Scan(
		&u.ID, &u.Nickname, &u.PasswordHash,
		&regDate, &lastLogin, &u.TimesViewed, &u.UserType,
	); err != nil {
		return nil, err
	}
	u.RegistrationDate = fromUnix(regDate)
	u.LastLogin = fromUnix(lastLogin)
	return &u, nil
}

func scanProfile(row rowScanner) (*model.Profile, error) {
	var (
		p       model.Profile
		regDate int64
	)
	pub, res := &p.Public, &p.Restricted
	if err := row.Scan(
		&pub.Nickname, &regDate, &pub.UserType, &pub.Signature, &pub.Avatar,
		&res.FirstName, &res.LastName, &res.Email, &res.Website, &res.Picture,
		&res.Mobile, &res.Skype, &res.Age, &res.Residence, &res.Gender,
	); err != nil {
		return nil, err
	}
	pub.RegistrationDate = fromUnix(regDate)
	return &p, nil
}

func scanUserSummary(row rowScanner) (model.UserSummary, error) {
	var (
		s                  model.UserSummary
		regDate, lastLogin int64
	)
	if err := row.Scan(&s.Nickname, &regDate, &lastLogin, &s.TimesViewed); err != nil {
		return model.UserSummary{}, err
	}
	s.RegistrationDate = fromUnix(regDate)
	s.LastLogin = fromUnix(lastLogin)
	return s, nil
}

func scanSport(row rowScanner) (*model.Sport, error) {
	var s model.Sport
	if err := row.Scan(&s.ID, &s.Name, &s.ScheduledTime, &s.HallNumber, &s.Note); err != nil {
		return nil, err
	}
	return &s, nil
}

func scanOrder(row rowScanner) (*model.Order, error) {
	var (
		o  model.Order
		id int64
		ts int64
	)
	if err := row.Scan(&id, &o.Nickname, &o.SportName, &ts); err != nil {
		return nil, err
	}
	o.ID = model.FormatOrderID(id)
	o.Timestamp = fromUnix(ts)
	return &o, nil
}
