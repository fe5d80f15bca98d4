package sqlite

import (
	_ "embed"
	"strings"
)

// Table definitions. Each one is a plain CREATE TABLE so the table helpers
// fail when the table already exists.
//
// users_profile, friends and orders depend on users; orders also depends on
// sports. The order of schemaTables is the order they must be created in.
const (
	usersTableDDL = `CREATE TABLE users (
	user_id     INTEGER PRIMARY KEY AUTOINCREMENT,
	nickname    TEXT UNIQUE,
	password    TEXT,
	regDate     INTEGER,
	lastLogin   INTEGER,
	timesviewed INTEGER,
	userType    BOOL,
	UNIQUE(user_id, nickname)
);`

	usersProfileTableDDL = `CREATE TABLE users_profile (
	user_id   INTEGER PRIMARY KEY,
	firstname TEXT,
	lastname  TEXT,
	email     TEXT,
	website   TEXT,
	picture   TEXT,
	mobile    TEXT,
	skype     TEXT,
	age       INTEGER,
	residence TEXT,
	gender    TEXT,
	signature TEXT,
	avatar    TEXT,
	FOREIGN KEY(user_id) REFERENCES users(user_id) ON DELETE CASCADE
);`

	sportsTableDDL = `CREATE TABLE sports (
	sport_id   INTEGER PRIMARY KEY AUTOINCREMENT,
	sportname  TEXT UNIQUE,
	time       TEXT,
	hallnumber INTEGER,
	note       TEXT
);`

	ordersTableDDL = `CREATE TABLE orders (
	order_id  INTEGER PRIMARY KEY AUTOINCREMENT,
	nickname  TEXT,
	sportname TEXT,
	timestamp INTEGER,
	FOREIGN KEY(sportname) REFERENCES sports(sportname) ON DELETE CASCADE,
	FOREIGN KEY(nickname) REFERENCES users(nickname) ON DELETE SET NULL
);
CREATE INDEX idx_orders_timestamp ON orders(timestamp);`

	friendsTableDDL = `CREATE TABLE friends (
	user_id   INTEGER,
	friend_id INTEGER,
	PRIMARY KEY(user_id, friend_id),
	FOREIGN KEY(user_id) REFERENCES users(user_id) ON DELETE CASCADE,
	FOREIGN KEY(friend_id) REFERENCES users(user_id) ON DELETE CASCADE
);`
)

var schemaTables = []string{
	usersTableDDL,
	usersProfileTableDDL,
	sportsTableDDL,
	ordersTableDDL,
	friendsTableDDL,
}

// defaultSchema is the full schema script run by Engine.CreateStorage.
var defaultSchema = strings.Join(schemaTables, "\n")

// defaultSeed is the sample data run by Engine.PopulateStorage.
//
//go:embed seed.sql
var defaultSeed string
