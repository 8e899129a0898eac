// Package seed provides helpers to create demo data for the application
// database. These helpers are intended for development only.
package seed

import (
	"fmt"
	"math/rand"
	"strings"
	"time"

	"moim/internal/models"

	"github.com/brianvoe/gofakeit/v6"
	"golang.org/x/crypto/bcrypt"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// Seeder populates the database with fake users, feeds and engagement.
type Seeder struct {
	db   *gorm.DB
	rand *rand.Rand
}

// NewSeeder creates a Seeder bound to the provided Gorm DB.
func NewSeeder(db *gorm.DB) *Seeder {
	gofakeit.Seed(time.Now().UnixNano())
	return &Seeder{
		db:   db,
		rand: rand.New(rand.NewSource(time.Now().UnixNano())),
	}
}

// ClearAll wipes every seeded table. Order matters for foreign keys.
func (s *Seeder) ClearAll() error {
	tables := []string{
		"comment_claps", "feed_claps", "feed_hashtags",
		"comments", "hashtags", "feeds", "users",
	}
	for _, table := range tables {
		if err := s.db.Exec("DELETE FROM " + table).Error; err != nil {
			return fmt.Errorf("clearing %s: %w", table, err)
		}
	}
	return nil
}

// SeedUsers creates n users, all with the password "password123".
func (s *Seeder) SeedUsers(n int) ([]*models.User, error) {
	hashed, err := bcrypt.GenerateFromPassword([]byte("password123"), bcrypt.DefaultCost)
	if err != nil {
		return nil, err
	}

	users := make([]*models.User, 0, n)
	for i := 0; i < n; i++ {
		user := &models.User{
			Nickname: gofakeit.Username() + fmt.Sprintf("%d", gofakeit.Number(10, 99)),
			Email:    gofakeit.Email(),
			Password: string(hashed),
		}
		if err := s.db.Create(user).Error; err != nil {
			return nil, err
		}
		users = append(users, user)
	}
	return users, nil
}

// SeedFeeds creates n feeds spread across the given users, roughly half
// outdoor, each with up to four hashtags drawn from a small shared pool.
func (s *Seeder) SeedFeeds(users []*models.User, n int) ([]*models.Feed, error) {
	if len(users) == 0 {
		return nil, fmt.Errorf("no users to author feeds")
	}

	tagPool := []string{
		"cafe", "study", "quiet", "hiking", "food", "photo",
		"weekend", "run", "book", "music",
	}

	feeds := make([]*models.Feed, 0, n)
	for i := 0; i < n; i++ {
		author := users[s.rand.Intn(len(users))]
		feed := &models.Feed{
			Kind:    models.FeedKindIndoor,
			Content: gofakeit.Paragraph(1, 3, 8, "\n"),
			UserID:  author.ID,
		}
		if s.rand.Intn(2) == 0 {
			lat := gofakeit.Latitude()
			lng := gofakeit.Longitude()
			feed.Kind = models.FeedKindOutdoor
			feed.Lat = &lat
			feed.Lng = &lng
			feed.Address = gofakeit.Address().Address
			feed.PlaceName = gofakeit.Company()
		}
		feed.CreatedAt = s.pastTime(60)

		if err := s.db.Create(feed).Error; err != nil {
			return nil, err
		}
		if err := s.attachTags(feed, s.pickTags(tagPool)); err != nil {
			return nil, err
		}
		feeds = append(feeds, feed)
	}
	return feeds, nil
}

// SeedEngagement adds comments and claps on the given feeds.
func (s *Seeder) SeedEngagement(users []*models.User, feeds []*models.Feed) error {
	for _, feed := range feeds {
		for i := 0; i < s.rand.Intn(6); i++ {
			comment := &models.Comment{
				Content: gofakeit.Sentence(s.rand.Intn(12) + 3),
				UserID:  users[s.rand.Intn(len(users))].ID,
				FeedID:  feed.ID,
			}
			comment.CreatedAt = feed.CreatedAt.Add(time.Duration(i+1) * time.Hour)
			if err := s.db.Create(comment).Error; err != nil {
				return err
			}
			if err := s.clapComment(users, comment); err != nil {
				return err
			}
		}
		if err := s.clapFeed(users, feed); err != nil {
			return err
		}
	}
	return nil
}

func (s *Seeder) clapFeed(users []*models.User, feed *models.Feed) error {
	for i := 0; i < s.rand.Intn(len(users)+1); i++ {
		clap := &models.FeedClap{
			UserID: users[s.rand.Intn(len(users))].ID,
			FeedID: feed.ID,
		}
		err := s.db.Clauses(clause.OnConflict{DoNothing: true}).Create(clap).Error
		if err != nil {
			return err
		}
	}
	return nil
}

func (s *Seeder) clapComment(users []*models.User, comment *models.Comment) error {
	for i := 0; i < s.rand.Intn(4); i++ {
		clap := &models.CommentClap{
			UserID:    users[s.rand.Intn(len(users))].ID,
			CommentID: comment.ID,
		}
		err := s.db.Clauses(clause.OnConflict{DoNothing: true}).Create(clap).Error
		if err != nil {
			return err
		}
	}
	return nil
}

func (s *Seeder) attachTags(feed *models.Feed, names []string) error {
	for _, name := range names {
		var tag models.Hashtag
		err := s.db.Where(models.Hashtag{TagName: name}).FirstOrCreate(&tag).Error
		if err != nil {
			return err
		}
		assoc := &models.FeedHashtag{FeedID: feed.ID, HashtagID: tag.ID}
		err = s.db.Clauses(clause.OnConflict{DoNothing: true}).Create(assoc).Error
		if err != nil {
			return err
		}
	}
	return nil
}

func (s *Seeder) pickTags(pool []string) []string {
	count := s.rand.Intn(5)
	picked := make([]string, 0, count)
	seen := map[string]bool{}
	for len(picked) < count {
		name := strings.ToLower(pool[s.rand.Intn(len(pool))])
		if !seen[name] {
			seen[name] = true
			picked = append(picked, name)
		}
	}
	return picked
}

// pastTime returns a timestamp up to maxDays in the past.
func (s *Seeder) pastTime(maxDays int) time.Time {
	return time.Now().
		Add(-time.Duration(s.rand.Intn(maxDays)) * 24 * time.Hour).
		Add(-time.Duration(s.rand.Intn(24)) * time.Hour).
		Add(-time.Duration(s.rand.Intn(60)) * time.Minute)
}
