package fixtures

import (
	"github.com/feedframe/feedframe/app/database"
)

// ClientFixture is one seed file: a client and its feeds. Feed ids are
// assigned by the store during seeding, not by the fixture.
type ClientFixture struct {
	Name  string        `yaml:"name"`
	Feeds []FeedFixture `yaml:"feeds"`
}

type FeedFixture struct {
	Username    string               `yaml:"username"`
	Settings    database.Settings    `yaml:"settings"`
	APISettings database.APISettings `yaml:"api_settings"`
}
