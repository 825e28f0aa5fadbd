package repository

import "craftgate/internal/models"

type Links interface {
	Get(userID int64) (string, bool)
	Set(userID int64, gameName string) error
	Delete(userID int64) (bool, error)
	Count() int
}

type Users interface {
	Touch(id int64, username, firstName, lastName string) error
	All() []models.UserRecord
	Count() int
}

type Repository struct {
	Links
	Users
}

// NewRepository opens both document stores. A load error still yields a
// usable empty store; the caller decides whether to log and carry on.
func NewRepository(linksPath, usersPath string) (*Repository, error) {
	links, linksErr := NewLinkFile(linksPath)
	users, usersErr := NewUserFile(usersPath, links)

	repo := &Repository{
		Links: links,
		Users: users,
	}
	if linksErr != nil {
		return repo, linksErr
	}
	return repo, usersErr
}
