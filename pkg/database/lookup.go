package database

import "errors"

// ErrNoRows is returned by repositories when a lookup matches nothing.
var ErrNoRows = errors.New("database: no rows in result set")

// The Find helpers return the index of the row with the given id, or -1.

func (t *Tables) FindUser(id string) int {
	for i := range t.Users {
		if t.Users[i].ID == id {
			return i
		}
	}
	return -1
}

func (t *Tables) FindJob(id string) int {
	for i := range t.Jobs {
		if t.Jobs[i].ID == id {
			return i
		}
	}
	return -1
}

func (t *Tables) FindApplication(id string) int {
	for i := range t.Applications {
		if t.Applications[i].ID == id {
			return i
		}
	}
	return -1
}

func (t *Tables) FindNotification(id string) int {
	for i := range t.Notifications {
		if t.Notifications[i].ID == id {
			return i
		}
	}
	return -1
}
